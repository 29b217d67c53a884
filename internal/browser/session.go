// Package browser owns the single browser+page session the tool server
// drives. All access routes through Session; operations serialize through
// one mutex so concurrent transport connections interleave safely.
package browser

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
)

const (
	// DefaultViewportWidth is applied when launch supplies no viewport.
	DefaultViewportWidth = 1280
	// DefaultViewportHeight is applied when launch supplies no viewport.
	DefaultViewportHeight = 720
	// DefaultOperationTimeout bounds page operations; 0 disables the bound.
	DefaultOperationTimeout = 30 * time.Second
)

// State is the session lifecycle state.
type State int

const (
	// StateNoBrowser means no browser is open.
	StateNoBrowser State = iota
	// StateBrowserOnly means a browser is open but no page exists yet.
	StateBrowserOnly
	// StateReady means both browser and page are open.
	StateReady
)

// Options configure a Session for the lifetime of the process.
type Options struct {
	// ExecMode selects hosted-bundle vs local-path executable discovery.
	ExecMode ExecMode
	// ExecutablePath overrides discovery; in hosted mode it is required.
	ExecutablePath string
	// OperationTimeout bounds each page operation. Zero means no bound
	// beyond what the engine enforces.
	OperationTimeout time.Duration
}

// Viewport is the page viewport in pixels.
type Viewport struct {
	Width  int64
	Height int64
}

// LaunchOptions are the normalized arguments of the launch tool.
type LaunchOptions struct {
	Headless bool
	Viewport *Viewport
}

// ScreenshotOptions are the normalized arguments of the screenshot tool.
// Quality is forwarded to the engine only for jpeg.
type ScreenshotOptions struct {
	FullPage bool
	Format   string
	Quality  *int64
}

// Session holds at most one browser handle and at most one page handle.
// The page is created lazily on first use after a launch; both are torn
// down on close, relaunch, or process termination.
type Session struct {
	opts    Options
	baseCtx context.Context

	mu            sync.Mutex
	allocCancel   context.CancelFunc
	browserCtx    context.Context
	browserCancel context.CancelFunc
	pageCtx       context.Context
	pageCancel    context.CancelFunc
	viewport      Viewport
}

// NewSession creates a session. baseCtx bounds the browser process itself:
// cancelling it releases everything the session holds.
func NewSession(baseCtx context.Context, opts Options) *Session {
	if baseCtx == nil {
		baseCtx = context.Background()
	}
	return &Session{
		opts:     opts,
		baseCtx:  baseCtx,
		viewport: Viewport{Width: DefaultViewportWidth, Height: DefaultViewportHeight},
	}
}

// State reports the current lifecycle state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch {
	case s.browserCtx == nil || s.browserCtx.Err() != nil:
		return StateNoBrowser
	case s.pageCtx == nil || s.pageCtx.Err() != nil:
		return StateBrowserOnly
	default:
		return StateReady
	}
}

// Launch opens a new browser and immediately opens one page. Any browser
// already open is fully torn down first; there is never an overlap. A
// launch failure leaves no browser open.
func (s *Session) Launch(ctx context.Context, lo LaunchOptions) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.closeLocked()

	execPath, noSandbox, err := findExecutable(s.opts.ExecMode, s.opts.ExecutablePath)
	if err != nil {
		return err
	}

	opts := chromedp.DefaultExecAllocatorOptions[:]
	if !lo.Headless {
		opts = append(opts, chromedp.Flag("headless", false))
	}
	if execPath != "" {
		opts = append(opts, chromedp.ExecPath(execPath))
	}
	if noSandbox {
		opts = append(opts, chromedp.NoSandbox, chromedp.Flag("disable-setuid-sandbox", true))
	}

	allocCtx, allocCancel := chromedp.NewExecAllocator(s.baseCtx, opts...)
	browserCtx, browserCancel := chromedp.NewContext(
		allocCtx,
		chromedp.WithLogf(log.Printf),
		chromedp.WithErrorf(log.Printf),
	)

	if err := chromedp.Run(browserCtx); err != nil {
		browserCancel()
		allocCancel()
		return Engine("failed to launch browser", err)
	}

	s.allocCancel = allocCancel
	s.browserCtx = browserCtx
	s.browserCancel = browserCancel
	if lo.Viewport != nil {
		s.viewport = *lo.Viewport
	} else {
		s.viewport = Viewport{Width: DefaultViewportWidth, Height: DefaultViewportHeight}
	}

	if err := s.newPageLocked(); err != nil {
		s.closeLocked()
		return err
	}
	return nil
}

// newPageLocked opens a fresh page with lifecycle events enabled and the
// session viewport applied. Caller must hold s.mu.
func (s *Session) newPageLocked() error {
	pageCtx, pageCancel := chromedp.NewContext(s.browserCtx)
	if err := chromedp.Run(pageCtx,
		page.SetLifecycleEventsEnabled(true),
		chromedp.EmulateViewport(s.viewport.Width, s.viewport.Height),
	); err != nil {
		pageCancel()
		return Engine("failed to open page", err)
	}
	s.pageCtx = pageCtx
	s.pageCancel = pageCancel
	return nil
}

// ensureReadyLocked fails when no browser is open and lazily recreates the
// page when the browser is up but the page is gone. This lazy page creation
// is the session's only implicit mutation. Caller must hold s.mu.
func (s *Session) ensureReadyLocked() error {
	if s.browserCtx == nil {
		return NotLaunched()
	}
	if s.browserCtx.Err() != nil {
		// Browser process died out from under us; a relaunch is required.
		s.closeLocked()
		return NotLaunched()
	}
	if s.pageCtx == nil || s.pageCtx.Err() != nil {
		if s.pageCancel != nil {
			s.pageCancel()
			s.pageCancel = nil
			s.pageCtx = nil
		}
		return s.newPageLocked()
	}
	return nil
}

// opContextLocked derives the context a page operation runs under. It hangs
// off the page context so engine teardown cancels in-flight work. Caller
// must hold s.mu.
func (s *Session) opContextLocked() (context.Context, context.CancelFunc) {
	if s.opts.OperationTimeout > 0 {
		return context.WithTimeout(s.pageCtx, s.opts.OperationTimeout)
	}
	return context.WithCancel(s.pageCtx)
}

// Navigate directs the page to the URL and blocks until the chosen
// readiness condition is satisfied.
func (s *Session) Navigate(ctx context.Context, rawURL, waitUntil string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ensureReadyLocked(); err != nil {
		return err
	}
	eventName, err := lifecycleEventName(waitUntil)
	if err != nil {
		return err
	}
	opCtx, cancel := s.opContextLocked()
	defer cancel()
	if err := chromedp.Run(opCtx, navigateAndWait(rawURL, eventName)); err != nil {
		return Engine(fmt.Sprintf("failed to navigate to %s", rawURL), err)
	}
	return nil
}

// Screenshot captures the page as an image in the requested format.
func (s *Session) Screenshot(ctx context.Context, o ScreenshotOptions) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ensureReadyLocked(); err != nil {
		return nil, err
	}
	opCtx, cancel := s.opContextLocked()
	defer cancel()

	var buf []byte
	err := chromedp.Run(opCtx, chromedp.ActionFunc(func(ctx context.Context) error {
		params := page.CaptureScreenshot().WithFormat(captureFormat(o.Format))
		if o.FullPage {
			params = params.WithCaptureBeyondViewport(true)
		}
		if o.Format == "jpeg" && o.Quality != nil {
			params = params.WithQuality(*o.Quality)
		}
		var err error
		buf, err = params.Do(ctx)
		return err
	}))
	if err != nil {
		return nil, Engine("failed to capture screenshot", err)
	}
	if len(buf) == 0 {
		return nil, Capture("screenshot produced no image data")
	}
	return buf, nil
}

func captureFormat(format string) page.CaptureScreenshotFormat {
	switch format {
	case "jpeg":
		return page.CaptureScreenshotFormatJpeg
	case "webp":
		return page.CaptureScreenshotFormatWebp
	default:
		return page.CaptureScreenshotFormatPng
	}
}

const documentTextJS = `(() => { const b = document.body; return b && b.textContent ? b.textContent : ""; })()`

// selectorTextJS takes a JSON-quoted selector and yields null when nothing
// matches, so a missing element is distinguishable from empty text.
const selectorTextJS = `(() => { const el = document.querySelector(%s); return el ? (el.textContent || "") : null; })()`

// Text extracts the text content of the first element matching selector, or
// of the whole document body when selector is empty. Absent text content is
// the empty string, not an error.
func (s *Session) Text(ctx context.Context, selector string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ensureReadyLocked(); err != nil {
		return "", err
	}
	opCtx, cancel := s.opContextLocked()
	defer cancel()

	if selector == "" {
		var text string
		if err := chromedp.Run(opCtx, chromedp.Evaluate(documentTextJS, &text)); err != nil {
			return "", Engine("failed to read document text", err)
		}
		return text, nil
	}

	quoted, err := json.Marshal(selector)
	if err != nil {
		return "", Validationf("selector", "invalid selector: %v", err)
	}
	var result any
	if err := chromedp.Run(opCtx, chromedp.Evaluate(fmt.Sprintf(selectorTextJS, quoted), &result)); err != nil {
		return "", Engine(fmt.Sprintf("failed to read text for selector %s", selector), err)
	}
	if result == nil {
		return "", ElementNotFound(selector)
	}
	text, _ := result.(string)
	return text, nil
}

// requireElement fails with an element-not-found error when the selector
// matches nothing, before any interaction is attempted.
func requireElement(ctx context.Context, selector string) error {
	quoted, err := json.Marshal(selector)
	if err != nil {
		return Validationf("selector", "invalid selector: %v", err)
	}
	var exists bool
	script := fmt.Sprintf(`document.querySelector(%s) !== null`, quoted)
	if err := chromedp.Run(ctx, chromedp.Evaluate(script, &exists)); err != nil {
		return Engine(fmt.Sprintf("failed to query selector %s", selector), err)
	}
	if !exists {
		return ElementNotFound(selector)
	}
	return nil
}

// Click clicks the first element matching selector.
func (s *Session) Click(ctx context.Context, selector string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ensureReadyLocked(); err != nil {
		return err
	}
	opCtx, cancel := s.opContextLocked()
	defer cancel()

	if err := requireElement(opCtx, selector); err != nil {
		return err
	}
	if err := chromedp.Run(opCtx, chromedp.Click(selector, chromedp.ByQuery, chromedp.NodeVisible)); err != nil {
		return Engine(fmt.Sprintf("failed to click element %s", selector), err)
	}
	return nil
}

// Type simulates per-character input into the first element matching
// selector.
func (s *Session) Type(ctx context.Context, selector, text string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ensureReadyLocked(); err != nil {
		return err
	}
	opCtx, cancel := s.opContextLocked()
	defer cancel()

	if err := requireElement(opCtx, selector); err != nil {
		return err
	}
	if err := chromedp.Run(opCtx, chromedp.SendKeys(selector, text, chromedp.ByQuery)); err != nil {
		return Engine(fmt.Sprintf("failed to type into element %s", selector), err)
	}
	return nil
}

// Evaluate executes the script as a dynamic expression in the page context
// and returns its value as indented JSON. There is no sandboxing: callers
// get full script execution in the page.
func (s *Session) Evaluate(ctx context.Context, script string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ensureReadyLocked(); err != nil {
		return "", err
	}
	opCtx, cancel := s.opContextLocked()
	defer cancel()

	var result any
	if err := chromedp.Run(opCtx, chromedp.Evaluate(script, &result)); err != nil {
		return "", Evaluation("script execution failed", err)
	}
	out, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return "", Evaluation("script result is not serializable", err)
	}
	return string(out), nil
}

// Close tears down the page, browser, and allocator. Closing an already
// closed session succeeds.
func (s *Session) Close(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closeLocked()
	return nil
}

// closeLocked releases every handle the session holds. Caller must hold
// s.mu.
func (s *Session) closeLocked() {
	if s.pageCancel != nil {
		s.pageCancel()
		s.pageCancel = nil
	}
	s.pageCtx = nil
	if s.browserCancel != nil {
		s.browserCancel()
		s.browserCancel = nil
	}
	s.browserCtx = nil
	if s.allocCancel != nil {
		s.allocCancel()
		s.allocCancel = nil
	}
}
