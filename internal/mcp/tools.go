package mcp

import (
	"context"

	mcplib "github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// Tools returns the static catalog of the eight browser tools. The catalog
// is identical for both transports and enumerating it has no side effects.
func Tools(e *Executor) []server.ServerTool {
	launch := mcplib.NewTool("launch",
		mcplib.WithDescription(`Launch a browser instance. Any browser already open is fully closed before the new one starts.

**When to use:**
- Before any other browser tool: navigate, screenshot, get_text, click, type, and evaluate all require a launched browser
- To restart with a different headless setting or viewport size

Headless defaults to true; the viewport defaults to 1280x720 when omitted.`),
		mcplib.WithBoolean("headless",
			mcplib.Description("Run the browser without a visible window (default true)"),
			mcplib.DefaultBool(true),
		),
		mcplib.WithObject("viewport",
			mcplib.Description("Default viewport for the new page, e.g. {\"width\": 1280, \"height\": 720}"),
			mcplib.Properties(map[string]any{
				"width": map[string]any{
					"type":        "number",
					"description": "Viewport width in pixels",
				},
				"height": map[string]any{
					"type":        "number",
					"description": "Viewport height in pixels",
				},
			}),
		),
	)

	navigate := mcplib.NewTool("navigate",
		mcplib.WithDescription(`Navigate the browser to a URL and wait for the page to be ready.

**When to use:**
- Loading any page before reading text, clicking, typing, or screenshotting

waitUntil selects the readiness condition: "load" (default), "domcontentloaded", "networkidle0" (no network connections for 500ms), or "networkidle2" (at most 2 connections for 500ms).`),
		mcplib.WithString("url",
			mcplib.Required(),
			mcplib.Description("Absolute URL to navigate to"),
		),
		mcplib.WithString("waitUntil",
			mcplib.Description("Readiness condition to wait for (default \"load\")"),
			mcplib.Enum("load", "domcontentloaded", "networkidle0", "networkidle2"),
			mcplib.DefaultString("load"),
		),
	)

	screenshot := mcplib.NewTool("screenshot",
		mcplib.WithDescription(`Take a screenshot of the current page. Returns the image inline as base64 alongside a confirmation.

**When to use:**
- Verifying what the page actually looks like after navigation or interaction
- Capturing visual state for a human to review

quality applies to jpeg only and is ignored for png and webp.`),
		mcplib.WithBoolean("fullPage",
			mcplib.Description("Capture the full scrollable page instead of the viewport (default false)"),
			mcplib.DefaultBool(false),
		),
		mcplib.WithString("format",
			mcplib.Description("Image format (default \"png\")"),
			mcplib.Enum("png", "jpeg", "webp"),
			mcplib.DefaultString("png"),
		),
		mcplib.WithNumber("quality",
			mcplib.Description("JPEG quality from 0 to 100; only used when format is \"jpeg\""),
			mcplib.Min(0),
			mcplib.Max(100),
		),
	)

	getText := mcplib.NewTool("get_text",
		mcplib.WithDescription(`Read the text content of the page or of a specific element.

**When to use:**
- Extracting page content after navigation
- Checking the text of one element via a CSS selector

Omit selector to read the whole document body. A selector that matches nothing is an error; an element with no text returns an empty string.`),
		mcplib.WithString("selector",
			mcplib.Description("CSS selector of the element to read; omit for the whole document"),
		),
	)

	click := mcplib.NewTool("click",
		mcplib.WithDescription(`Click the first element matching a CSS selector.

**When to use:**
- Pressing buttons, following links, toggling controls

Fails when the selector matches nothing.`),
		mcplib.WithString("selector",
			mcplib.Required(),
			mcplib.Description("CSS selector of the element to click"),
		),
	)

	typeTool := mcplib.NewTool("type",
		mcplib.WithDescription(`Type text into the first element matching a CSS selector, character by character.

**When to use:**
- Filling form fields, search boxes, text areas

Fails when the selector matches nothing.`),
		mcplib.WithString("selector",
			mcplib.Required(),
			mcplib.Description("CSS selector of the input element"),
		),
		mcplib.WithString("text",
			mcplib.Required(),
			mcplib.Description("Text to type into the element"),
		),
	)

	evaluate := mcplib.NewTool("evaluate",
		mcplib.WithDescription(`Execute JavaScript in the page context and return the result as JSON.

**WARNING:** this grants full script execution in the page context. There is no sandboxing, allow-listing, or restriction of script content; only trusted callers should reach this server.

**When to use:**
- Reading data the other tools cannot express (computed styles, window state)
- Driving interactions that need scripting (scrolling, dispatching events)`),
		mcplib.WithString("script",
			mcplib.Required(),
			mcplib.Description("JavaScript expression to evaluate in the page"),
		),
	)

	closeTool := mcplib.NewTool("close",
		mcplib.WithDescription(`Close the browser and release its resources.

Safe to call when no browser is open; closing twice succeeds.`),
	)

	return []server.ServerTool{
		{Tool: launch, Handler: handlerFor(e, "launch")},
		{Tool: navigate, Handler: handlerFor(e, "navigate")},
		{Tool: screenshot, Handler: handlerFor(e, "screenshot")},
		{Tool: getText, Handler: handlerFor(e, "get_text")},
		{Tool: click, Handler: handlerFor(e, "click")},
		{Tool: typeTool, Handler: handlerFor(e, "type")},
		{Tool: evaluate, Handler: handlerFor(e, "evaluate")},
		{Tool: closeTool, Handler: handlerFor(e, "close")},
	}
}

// handlerFor adapts the executor to the tool-handler signature. The
// executor encodes every failure into the result, so the error return is
// always nil.
func handlerFor(e *Executor, name string) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
		return e.Execute(ctx, name, request.GetArguments()), nil
	}
}
