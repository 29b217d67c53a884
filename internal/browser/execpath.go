package browser

import (
	"os"
	"runtime"
)

// ExecMode selects how the Chromium executable is located at launch time.
type ExecMode string

const (
	// ExecModeLocal probes well-known install paths on the host.
	ExecModeLocal ExecMode = "local"
	// ExecModeHosted uses the managed headless-Chromium bundle advertised
	// through the environment.
	ExecModeHosted ExecMode = "hosted"
)

// chromeCandidates returns the ordered list of well-known Chromium/Chrome
// install paths for the current operating system.
func chromeCandidates() []string {
	switch runtime.GOOS {
	case "darwin":
		return []string{
			"/Applications/Google Chrome.app/Contents/MacOS/Google Chrome",
			"/Applications/Chromium.app/Contents/MacOS/Chromium",
		}
	case "windows":
		return []string{
			`C:\Program Files\Google\Chrome\Application\chrome.exe`,
			`C:\Program Files (x86)\Google\Chrome\Application\chrome.exe`,
		}
	default:
		return []string{
			"/usr/bin/google-chrome",
			"/usr/bin/google-chrome-stable",
			"/usr/bin/chromium",
			"/usr/bin/chromium-browser",
			"/snap/bin/chromium",
		}
	}
}

// firstExisting returns the first path in the list that exists on disk.
func firstExisting(paths []string) string {
	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}

// findExecutable resolves the browser executable for a launch. It returns
// the path to use (empty means the engine-default lookup) and whether the
// sandbox must be disabled. Hosted mode requires an explicit path; local
// mode probes the candidate list and falls back to the engine default with
// the sandbox disabled when nothing is installed in a known location.
func findExecutable(mode ExecMode, override string) (path string, noSandbox bool, err error) {
	if mode == ExecModeHosted {
		if override == "" {
			return "", false, Engine("hosted execution mode requires CHROMIUM_PATH to point at the managed Chromium executable", nil)
		}
		return override, true, nil
	}

	if override != "" {
		return override, false, nil
	}

	if p := firstExisting(chromeCandidates()); p != "" {
		return p, false, nil
	}

	// Nothing in a known location. Let chromedp resolve a default and
	// disable the sandbox, which the fallback environments require.
	return "", true, nil
}
