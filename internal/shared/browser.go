package shared

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"os/exec"
	"runtime"
)

// OpenBrowser starts the user's browser on rawURL and returns once the launcher is running.
//
// $BROWSER wins over the platform default. The launcher is killed if ctx ends before it exits.
func OpenBrowser(ctx context.Context, rawURL string) error {
	name, args, err := browserCommand(runtime.GOOS, os.Getenv("BROWSER"), rawURL)
	if err != nil {
		return err
	}

	cmd := exec.CommandContext(ctx, name, args...)
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("failed to open browser: %w", err)
	}
	go cmd.Wait()
	return nil
}

// browserCommand picks the launcher for goos. Only http and https URLs are opened.
func browserCommand(goos, override, rawURL string) (string, []string, error) {
	u, err := url.Parse(rawURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return "", nil, fmt.Errorf("%w: refusing to open %q", ErrInvalidArgument, rawURL)
	}

	if override != "" {
		return override, []string{rawURL}, nil
	}
	switch goos {
	case "darwin":
		return "open", []string{rawURL}, nil
	case "linux", "freebsd", "openbsd", "netbsd":
		return "xdg-open", []string{rawURL}, nil
	case "windows":
		return "rundll32", []string{"url.dll,FileProtocolHandler", rawURL}, nil
	}
	return "", nil, fmt.Errorf("unsupported platform: %s", goos)
}
