package shared

import (
	"fmt"
	"os/exec"
	"runtime"
)

// Overridable so tests can exercise each platform branch.
var currentOS = func() string { return runtime.GOOS }

// OpenBrowser hands a URL (a tab sheet, a video, a recording) to the
// platform's default browser. The launcher is started and not waited on.
func OpenBrowser(url string) error {
	var name string
	var args []string

	switch os := currentOS(); os {
	case "darwin":
		name = "open"
	case "linux":
		name = "xdg-open"
	case "windows":
		name, args = "cmd", []string{"/c", "start"}
	default:
		return fmt.Errorf("no browser launcher for %s", os)
	}

	if err := exec.Command(name, append(args, url)...).Start(); err != nil {
		return fmt.Errorf("failed to open browser: %w", err)
	}
	return nil
}
