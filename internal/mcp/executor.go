// Package mcp binds the browser session to the MCP tool protocol: the
// static tool catalog, argument validation, the executor that packages
// every outcome into a response envelope, and the stdio/HTTP transports.
package mcp

import (
	"context"
	"encoding/base64"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	mcplib "github.com/mark3labs/mcp-go/mcp"

	"github.com/skimmerhq/skimmer/internal/browser"
)

// Executor maps each tool invocation to exactly one session operation and
// packages the result into a response envelope. It never returns a Go
// error: every failure, from the validator or the session, becomes a
// single-text-item result reading "Error: <message>".
type Executor struct {
	sess          *browser.Session
	screenshotDir string
}

// NewExecutor creates an executor driving the given session.
func NewExecutor(sess *browser.Session) *Executor {
	return &Executor{
		sess:          sess,
		screenshotDir: filepath.Join(os.TempDir(), "skimmer-screenshots"),
	}
}

// Execute dispatches a validated tool invocation. Unknown names produce the
// same error-envelope shape as any other failure.
func (e *Executor) Execute(ctx context.Context, name string, args map[string]any) *mcplib.CallToolResult {
	switch name {
	case "launch":
		return e.launch(ctx, args)
	case "navigate":
		return e.navigate(ctx, args)
	case "screenshot":
		return e.screenshot(ctx, args)
	case "get_text":
		return e.getText(ctx, args)
	case "click":
		return e.click(ctx, args)
	case "type":
		return e.typeText(ctx, args)
	case "evaluate":
		return e.evaluate(ctx, args)
	case "close":
		return e.close(ctx)
	default:
		return errorResult(fmt.Errorf("Unknown tool: %s", name))
	}
}

func errorResult(err error) *mcplib.CallToolResult {
	return mcplib.NewToolResultError("Error: " + err.Error())
}

func (e *Executor) launch(ctx context.Context, args map[string]any) *mcplib.CallToolResult {
	la, err := parseLaunchArgs(args)
	if err != nil {
		return errorResult(err)
	}
	if err := e.sess.Launch(ctx, browser.LaunchOptions{Headless: la.Headless, Viewport: la.Viewport}); err != nil {
		return errorResult(err)
	}
	vp := browser.Viewport{Width: browser.DefaultViewportWidth, Height: browser.DefaultViewportHeight}
	if la.Viewport != nil {
		vp = *la.Viewport
	}
	return mcplib.NewToolResultText(fmt.Sprintf("Browser launched (headless: %t, viewport: %dx%d)", la.Headless, vp.Width, vp.Height))
}

func (e *Executor) navigate(ctx context.Context, args map[string]any) *mcplib.CallToolResult {
	na, err := parseNavigateArgs(args)
	if err != nil {
		return errorResult(err)
	}
	if err := e.sess.Navigate(ctx, na.URL, na.WaitUntil); err != nil {
		return errorResult(err)
	}
	return mcplib.NewToolResultText(fmt.Sprintf("Navigated to %s (waited for %s)", na.URL, na.WaitUntil))
}

func (e *Executor) screenshot(ctx context.Context, args map[string]any) *mcplib.CallToolResult {
	sa, err := parseScreenshotArgs(args)
	if err != nil {
		return errorResult(err)
	}
	// Quality only reaches the engine on the jpeg path.
	var quality *int64
	if sa.Format == "jpeg" {
		quality = sa.Quality
	}
	buf, err := e.sess.Screenshot(ctx, browser.ScreenshotOptions{
		FullPage: sa.FullPage,
		Format:   sa.Format,
		Quality:  quality,
	})
	if err != nil {
		return errorResult(err)
	}

	description := fmt.Sprintf("Screenshot captured (%s, %d bytes)", sa.Format, len(buf))
	if path := e.saveScreenshot(buf, sa.Format); path != "" {
		description += ", saved to " + path
	}
	return mcplib.NewToolResultImage(description, base64.StdEncoding.EncodeToString(buf), "image/"+sa.Format)
}

// saveScreenshot writes the image to the screenshot directory for later
// retrieval. Failures are logged, not surfaced: the inline image item is
// the contract.
func (e *Executor) saveScreenshot(data []byte, format string) string {
	if err := os.MkdirAll(e.screenshotDir, 0o755); err != nil {
		log.Printf("failed to create screenshot directory: %v", err)
		return ""
	}
	ext := format
	if ext == "jpeg" {
		ext = "jpg"
	}
	path := filepath.Join(e.screenshotDir, uuid.New().String()+"."+ext)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		log.Printf("failed to save screenshot: %v", err)
		return ""
	}
	return path
}

func (e *Executor) getText(ctx context.Context, args map[string]any) *mcplib.CallToolResult {
	selector, err := parseGetTextArgs(args)
	if err != nil {
		return errorResult(err)
	}
	text, err := e.sess.Text(ctx, selector)
	if err != nil {
		return errorResult(err)
	}
	return mcplib.NewToolResultText(text)
}

func (e *Executor) click(ctx context.Context, args map[string]any) *mcplib.CallToolResult {
	selector, err := parseClickArgs(args)
	if err != nil {
		return errorResult(err)
	}
	if err := e.sess.Click(ctx, selector); err != nil {
		return errorResult(err)
	}
	return mcplib.NewToolResultText(fmt.Sprintf("Clicked element matching selector: %s", selector))
}

func (e *Executor) typeText(ctx context.Context, args map[string]any) *mcplib.CallToolResult {
	ta, err := parseTypeArgs(args)
	if err != nil {
		return errorResult(err)
	}
	if err := e.sess.Type(ctx, ta.Selector, ta.Text); err != nil {
		return errorResult(err)
	}
	return mcplib.NewToolResultText(fmt.Sprintf("Typed %d characters into element matching selector: %s", len(ta.Text), ta.Selector))
}

func (e *Executor) evaluate(ctx context.Context, args map[string]any) *mcplib.CallToolResult {
	script, err := parseEvaluateArgs(args)
	if err != nil {
		return errorResult(err)
	}
	result, err := e.sess.Evaluate(ctx, script)
	if err != nil {
		return errorResult(err)
	}
	return mcplib.NewToolResultText("Execution result:\n" + result)
}

func (e *Executor) close(ctx context.Context) *mcplib.CallToolResult {
	if err := e.sess.Close(ctx); err != nil {
		return errorResult(err)
	}
	return mcplib.NewToolResultText("Browser closed")
}
