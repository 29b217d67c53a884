package mcp

import (
	"context"
	"testing"

	mcplib "github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skimmerhq/skimmer/internal/browser"
)

func newTestExecutor(t *testing.T) *Executor {
	t.Helper()
	sess := browser.NewSession(context.Background(), browser.Options{})
	t.Cleanup(func() { sess.Close(context.Background()) })
	return NewExecutor(sess)
}

func resultText(t *testing.T, result *mcplib.CallToolResult) string {
	t.Helper()
	require.NotNil(t, result)
	require.Len(t, result.Content, 1)
	text, ok := result.Content[0].(mcplib.TextContent)
	require.True(t, ok, "expected a text content item, got %T", result.Content[0])
	return text.Text
}

func TestExecuteUnknownTool(t *testing.T) {
	e := newTestExecutor(t)

	result := e.Execute(context.Background(), "teleport", map[string]any{})
	assert.True(t, result.IsError)
	assert.Equal(t, "Error: Unknown tool: teleport", resultText(t, result))
}

func TestExecuteValidationErrorEnvelope(t *testing.T) {
	e := newTestExecutor(t)

	tests := []struct {
		name string
		tool string
		args map[string]any
		want string
	}{
		{"navigate without url", "navigate", map[string]any{}, "url is required"},
		{"navigate bad url", "navigate", map[string]any{"url": "not a url"}, "not a valid absolute URL"},
		{"screenshot quality too high", "screenshot", map[string]any{"quality": float64(150)}, "between 0 and 100"},
		{"click without selector", "click", map[string]any{}, "selector is required"},
		{"type without text", "type", map[string]any{"selector": "#x"}, "text is required"},
		{"evaluate without script", "evaluate", map[string]any{}, "script is required"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := e.Execute(context.Background(), tt.tool, tt.args)
			assert.True(t, result.IsError)
			text := resultText(t, result)
			assert.Contains(t, text, "Error: ")
			assert.Contains(t, text, tt.want)
		})
	}
}

func TestExecuteBeforeLaunch(t *testing.T) {
	e := newTestExecutor(t)
	ctx := context.Background()

	for _, tool := range []string{"navigate", "screenshot", "get_text", "click", "type", "evaluate"} {
		args := map[string]any{
			"url":      "https://example.com",
			"selector": "#x",
			"text":     "hello",
			"script":   "1+1",
		}
		result := e.Execute(ctx, tool, args)
		assert.True(t, result.IsError, tool)
		assert.Contains(t, resultText(t, result), "not launched", tool)
	}
}

func TestExecuteCloseWithoutBrowser(t *testing.T) {
	e := newTestExecutor(t)

	result := e.Execute(context.Background(), "close", map[string]any{})
	assert.False(t, result.IsError)
	assert.Equal(t, "Browser closed", resultText(t, result))
}

func TestExecuteNeverPanics(t *testing.T) {
	e := newTestExecutor(t)
	ctx := context.Background()

	hostile := []map[string]any{
		nil,
		{"url": 42, "selector": true, "text": []any{"x"}, "script": map[string]any{}},
		{"headless": "yes", "viewport": []any{800, 600}},
		{"quality": "high", "format": 7, "fullPage": "yes"},
	}
	for _, tool := range []string{"launch", "navigate", "screenshot", "get_text", "click", "type", "evaluate", "nope"} {
		for _, args := range hostile {
			if tool == "launch" && (args == nil || args["headless"] == nil) {
				// would pass validation and reach a real launch attempt
				continue
			}
			result := e.Execute(ctx, tool, args)
			require.NotNil(t, result, tool)
		}
	}
}
