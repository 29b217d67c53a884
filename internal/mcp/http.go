package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/mark3labs/mcp-go/server"

	"github.com/skimmerhq/skimmer/pkg/ports"
)

// HTTPServer is the HTTP/SSE transport: a health route, the MCP protocol
// over server-sent events at /mcp, and CORS headers permitting any origin.
type HTTPServer struct {
	port   int
	router *mux.Router
	server *http.Server
}

// NewHTTPServer wires the MCP server into an HTTP router.
func NewHTTPServer(mcpSrv *server.MCPServer, port int) *HTTPServer {
	sse := server.NewSSEServer(mcpSrv,
		server.WithSSEEndpoint("/mcp"),
		server.WithMessageEndpoint("/mcp/message"),
	)

	r := mux.NewRouter()
	r.HandleFunc("/health", handleHealth).Methods("GET")
	r.Handle("/mcp", sse.SSEHandler()).Methods("GET")
	r.Handle("/mcp/message", sse.MessageHandler()).Methods("POST")

	return &HTTPServer{port: port, router: r}
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"status":    "ok",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// corsMiddleware adds CORS headers to responses
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, Accept, Mcp-Session-Id")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// Handler returns the complete HTTP handler, CORS included.
func (h *HTTPServer) Handler() http.Handler {
	return corsMiddleware(h.router)
}

// Port returns the port the server is (or will be) listening on.
func (h *HTTPServer) Port() int {
	return h.port
}

// Start listens and serves until Stop is called. When the requested port is
// taken, the next free one is used.
func (h *HTTPServer) Start() error {
	availablePort, err := ports.FindAvailablePort(h.port)
	if err != nil {
		return fmt.Errorf("failed to find available port: %w", err)
	}
	h.port = availablePort

	h.server = &http.Server{
		Addr:    fmt.Sprintf(":%d", h.port),
		Handler: h.Handler(),
	}

	log.Printf("MCP server listening on http://localhost:%d/mcp (health at /health)", h.port)
	return h.server.ListenAndServe()
}

// Stop shuts the server down gracefully.
func (h *HTTPServer) Stop(ctx context.Context) error {
	if h.server == nil {
		return nil
	}
	return h.server.Shutdown(ctx)
}
