package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	mcpserver "github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"

	"github.com/skimmerhq/skimmer/internal/browser"
	"github.com/skimmerhq/skimmer/internal/config"
	"github.com/skimmerhq/skimmer/internal/mcp"
)

var (
	// Version is set at build time
	Version = "dev"

	httpMode   bool
	port       int
	configPath string
)

var rootCmd = &cobra.Command{
	Use:   "skimmer",
	Short: "Browser automation tools over the Model Context Protocol",
	Long: `Skimmer exposes browser automation primitives (launch, navigate,
screenshot, get_text, click, type, evaluate, close) as MCP tools, driving a
single headless or headed Chromium session per process.

Transports:
  skimmer              # stdio transport for local agent integration
  skimmer --http       # HTTP transport: GET /health, SSE stream at /mcp

Configuration:
  --config FILE        # TOML config (default ~/.skimmer/skimmer.toml)
  PORT                 # HTTP listening port (default 3000)
  EXECUTION_MODE       # "local" probes installed browsers;
                       # "hosted" uses the managed bundle at CHROMIUM_PATH
  CHROMIUM_PATH        # explicit browser executable path

The evaluate tool grants callers full script execution in the page context;
run skimmer only for trusted callers.`,
	RunE: runApp,
}

func init() {
	rootCmd.Flags().BoolVar(&httpMode, "http", false, "Serve the HTTP/SSE transport instead of stdio")
	rootCmd.Flags().IntVarP(&port, "port", "p", 0, "HTTP listening port (default from PORT env or 3000)")
	rootCmd.Flags().StringVar(&configPath, "config", "", "Path to TOML config file")
	rootCmd.Version = Version
	rootCmd.SilenceUsage = true
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func runApp(cmd *cobra.Command, args []string) error {
	// stdout carries the stdio protocol; everything we log goes to stderr.
	log.SetOutput(os.Stderr)

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if port != 0 {
		cfg.Port = port
	}

	sess := browser.NewSession(context.Background(), browser.Options{
		ExecMode:         browser.ExecMode(cfg.ExecutionMode),
		ExecutablePath:   cfg.ExecutablePath,
		OperationTimeout: cfg.OperationTimeout(),
	})
	defer sess.Close(context.Background())

	srv := mcp.New(mcp.NewExecutor(sess), Version)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	if httpMode {
		return runHTTP(srv, sess, cfg.Port, sigCh)
	}
	return runStdio(srv, sess, sigCh)
}

// runStdio serves the stdio transport until stdin closes or a termination
// signal arrives; either way the browser is released before returning.
func runStdio(srv *mcpserver.MCPServer, sess *browser.Session, sigCh chan os.Signal) error {
	done := make(chan error, 1)
	go func() {
		done <- mcp.ServeStdio(srv)
	}()

	select {
	case err := <-done:
		sess.Close(context.Background())
		if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, context.Canceled) {
			return fmt.Errorf("stdio server error: %w", err)
		}
		return nil
	case sig := <-sigCh:
		log.Printf("received %v, shutting down", sig)
		sess.Close(context.Background())
		return nil
	}
}

// runHTTP serves the HTTP/SSE transport until a termination signal arrives,
// then shuts down gracefully and releases the browser.
func runHTTP(srv *mcpserver.MCPServer, sess *browser.Session, port int, sigCh chan os.Signal) error {
	httpSrv := mcp.NewHTTPServer(srv, port)

	done := make(chan error, 1)
	go func() {
		done <- httpSrv.Start()
	}()

	select {
	case err := <-done:
		sess.Close(context.Background())
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server error: %w", err)
		}
		return nil
	case sig := <-sigCh:
		log.Printf("received %v, shutting down", sig)
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := httpSrv.Stop(shutdownCtx); err != nil {
			log.Printf("http shutdown error: %v", err)
		}
		sess.Close(context.Background())
		return nil
	}
}
