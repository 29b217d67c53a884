package browser

import (
	"context"
	"fmt"
	"sync"

	"github.com/chromedp/cdproto/cdp"
	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
)

// lifecycleEventName maps a waitUntil readiness condition to the CDP page
// lifecycle event that satisfies it.
func lifecycleEventName(waitUntil string) (string, error) {
	switch waitUntil {
	case "", "load":
		return "load", nil
	case "domcontentloaded":
		return "DOMContentLoaded", nil
	case "networkidle0":
		return "networkIdle", nil
	case "networkidle2":
		return "networkAlmostIdle", nil
	}
	return "", Validationf("waitUntil",
		"invalid waitUntil %q: must be one of load, domcontentloaded, networkidle0, networkidle2", waitUntil)
}

// navigateAndWait starts a navigation and blocks until the lifecycle event
// for the new document fires. Events are matched by loader ID so events
// belonging to the previous document can never satisfy the wait.
func navigateAndWait(rawURL, eventName string) chromedp.Action {
	return chromedp.ActionFunc(func(ctx context.Context) error {
		var (
			mu     sync.Mutex
			target cdp.LoaderID
			seen   = make(map[cdp.LoaderID]map[string]bool)
			done   = make(chan struct{}, 1)
		)

		lctx, lcancel := context.WithCancel(ctx)
		defer lcancel()
		chromedp.ListenTarget(lctx, func(ev any) {
			e, ok := ev.(*page.EventLifecycleEvent)
			if !ok {
				return
			}
			mu.Lock()
			m := seen[e.LoaderID]
			if m == nil {
				m = make(map[string]bool)
				seen[e.LoaderID] = m
			}
			m[e.Name] = true
			hit := target != "" && e.LoaderID == target && e.Name == eventName
			mu.Unlock()
			if hit {
				select {
				case done <- struct{}{}:
				default:
				}
			}
		})

		_, loaderID, errText, _, err := page.Navigate(rawURL).Do(ctx)
		if err != nil {
			return err
		}
		if errText != "" {
			return fmt.Errorf("page load error: %s", errText)
		}

		// The event may have fired between Navigate returning and the
		// listener learning the loader ID; check the recorded events first.
		mu.Lock()
		target = loaderID
		already := seen[loaderID][eventName]
		mu.Unlock()
		if already {
			return nil
		}

		select {
		case <-done:
			return nil
		case <-ctx.Done():
			return ctx.Err()
		}
	})
}
