package mcp

import (
	"net/url"

	"github.com/skimmerhq/skimmer/internal/browser"
)

// Argument validation runs before any session call: no browser mutation can
// happen on invalid input. Raw arguments arrive as the untyped map the
// protocol decoded; parsers apply defaults and produce typed args.

var waitUntilValues = map[string]bool{
	"load":             true,
	"domcontentloaded": true,
	"networkidle0":     true,
	"networkidle2":     true,
}

var screenshotFormats = map[string]bool{
	"png":  true,
	"jpeg": true,
	"webp": true,
}

type launchArgs struct {
	Headless bool
	Viewport *browser.Viewport
}

type navigateArgs struct {
	URL       string
	WaitUntil string
}

type screenshotArgs struct {
	FullPage bool
	Format   string
	Quality  *int64
}

type typeArgs struct {
	Selector string
	Text     string
}

func optionalBool(args map[string]any, key string, def bool) (bool, error) {
	v, ok := args[key]
	if !ok || v == nil {
		return def, nil
	}
	b, ok := v.(bool)
	if !ok {
		return def, browser.Validationf(key, "%s must be a boolean", key)
	}
	return b, nil
}

func optionalString(args map[string]any, key string) (string, error) {
	v, ok := args[key]
	if !ok || v == nil {
		return "", nil
	}
	s, ok := v.(string)
	if !ok {
		return "", browser.Validationf(key, "%s must be a string", key)
	}
	return s, nil
}

func requiredString(args map[string]any, key string) (string, error) {
	v, ok := args[key]
	if !ok || v == nil {
		return "", browser.Validationf(key, "%s is required", key)
	}
	s, ok := v.(string)
	if !ok {
		return "", browser.Validationf(key, "%s must be a string", key)
	}
	return s, nil
}

// numberField reads a float64 out of a decoded-JSON object.
func numberField(obj map[string]any, parent, key string) (float64, error) {
	v, ok := obj[key]
	if !ok || v == nil {
		return 0, browser.Validationf(parent, "%s.%s is required", parent, key)
	}
	n, ok := v.(float64)
	if !ok {
		return 0, browser.Validationf(parent, "%s.%s must be a number", parent, key)
	}
	return n, nil
}

func parseLaunchArgs(args map[string]any) (launchArgs, error) {
	out := launchArgs{Headless: true}

	headless, err := optionalBool(args, "headless", true)
	if err != nil {
		return out, err
	}
	out.Headless = headless

	v, ok := args["viewport"]
	if !ok || v == nil {
		return out, nil
	}
	obj, ok := v.(map[string]any)
	if !ok {
		return out, browser.Validationf("viewport", "viewport must be an object with width and height")
	}
	width, err := numberField(obj, "viewport", "width")
	if err != nil {
		return out, err
	}
	height, err := numberField(obj, "viewport", "height")
	if err != nil {
		return out, err
	}
	if width <= 0 || height <= 0 {
		return out, browser.Validationf("viewport", "viewport dimensions must be positive")
	}
	out.Viewport = &browser.Viewport{Width: int64(width), Height: int64(height)}
	return out, nil
}

func parseNavigateArgs(args map[string]any) (navigateArgs, error) {
	var out navigateArgs

	rawURL, err := requiredString(args, "url")
	if err != nil {
		return out, err
	}
	u, err := url.Parse(rawURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return out, browser.Validationf("url", "url %q is not a valid absolute URL", rawURL)
	}
	out.URL = rawURL

	waitUntil, err := optionalString(args, "waitUntil")
	if err != nil {
		return out, err
	}
	if waitUntil == "" {
		waitUntil = "load"
	}
	if !waitUntilValues[waitUntil] {
		return out, browser.Validationf("waitUntil",
			"invalid waitUntil %q: must be one of load, domcontentloaded, networkidle0, networkidle2", waitUntil)
	}
	out.WaitUntil = waitUntil
	return out, nil
}

func parseScreenshotArgs(args map[string]any) (screenshotArgs, error) {
	out := screenshotArgs{Format: "png"}

	fullPage, err := optionalBool(args, "fullPage", false)
	if err != nil {
		return out, err
	}
	out.FullPage = fullPage

	format, err := optionalString(args, "format")
	if err != nil {
		return out, err
	}
	if format != "" {
		if !screenshotFormats[format] {
			return out, browser.Validationf("format", "invalid format %q: must be one of png, jpeg, webp", format)
		}
		out.Format = format
	}

	v, ok := args["quality"]
	if ok && v != nil {
		q, ok := v.(float64)
		if !ok {
			return out, browser.Validationf("quality", "quality must be a number")
		}
		if q < 0 || q > 100 {
			return out, browser.Validationf("quality", "quality must be between 0 and 100")
		}
		n := int64(q)
		out.Quality = &n
	}
	return out, nil
}

func parseGetTextArgs(args map[string]any) (string, error) {
	return optionalString(args, "selector")
}

func parseClickArgs(args map[string]any) (string, error) {
	selector, err := requiredString(args, "selector")
	if err != nil {
		return "", err
	}
	if selector == "" {
		return "", browser.Validationf("selector", "selector must not be empty")
	}
	return selector, nil
}

func parseTypeArgs(args map[string]any) (typeArgs, error) {
	var out typeArgs
	selector, err := parseClickArgs(args)
	if err != nil {
		return out, err
	}
	text, err := requiredString(args, "text")
	if err != nil {
		return out, err
	}
	out.Selector = selector
	out.Text = text
	return out, nil
}

func parseEvaluateArgs(args map[string]any) (string, error) {
	script, err := requiredString(args, "script")
	if err != nil {
		return "", err
	}
	if script == "" {
		return "", browser.Validationf("script", "script must not be empty")
	}
	return script, nil
}
