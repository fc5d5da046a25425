package focus

import (
	"context"
	"fmt"
	"log/slog"
	"os/exec"
	"strings"
)

// DarwinProvider captures and restores focus via osascript on macOS.
type DarwinProvider struct {
	logger *slog.Logger
}

const frontmostScript = `tell application "System Events" to get name of first application process whose frontmost is true`

// Capture reads the frontmost application name from System Events.
func (p *DarwinProvider) Capture(ctx context.Context) (*Snapshot, error) {
	out, err := exec.CommandContext(ctx, "osascript", "-e", frontmostScript).CombinedOutput()
	if err != nil {
		trimmed := strings.TrimSpace(string(out))
		if trimmed == "" {
			return nil, fmt.Errorf("query frontmost application: %w", err)
		}
		return nil, fmt.Errorf("query frontmost application: %w (%s)", err, trimmed)
	}

	name := strings.TrimSpace(string(out))
	if name == "" {
		return nil, nil
	}
	return &Snapshot{Handle: name, App: name}, nil
}

// Activate brings the captured application back to the foreground.
func (p *DarwinProvider) Activate(ctx context.Context, snap Snapshot) error {
	script := fmt.Sprintf("tell application %s to activate", appleScriptString(snap.Handle))
	out, err := exec.CommandContext(ctx, "osascript", "-e", script).CombinedOutput()
	if err != nil {
		trimmed := strings.TrimSpace(string(out))
		if trimmed == "" {
			return fmt.Errorf("activate %q: %w", snap.Handle, err)
		}
		return fmt.Errorf("activate %q: %w (%s)", snap.Handle, err, trimmed)
	}
	return nil
}

// appleScriptString quotes a value as an AppleScript string literal.
func appleScriptString(value string) string {
	escaped := strings.ReplaceAll(value, `\`, `\\`)
	escaped = strings.ReplaceAll(escaped, `"`, `\"`)
	return `"` + escaped + `"`
}
