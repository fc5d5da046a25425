// Package focus captures and restores the foreground window around a popup.
package focus

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"runtime"
	"strings"
)

// Snapshot references the window that held focus immediately before a popup
// opened. It is captured once per launch and consumed at most once.
type Snapshot struct {
	// Handle is the backend-specific window identifier used for activation.
	Handle string
	// App is a human-readable application name for logging and the journal.
	App string
}

// Provider is the window-system capability consumed by the launcher.
// Capture returns a nil snapshot, without error, when nothing holds focus.
type Provider interface {
	Capture(ctx context.Context) (*Snapshot, error)
	Activate(ctx context.Context, snap Snapshot) error
}

// DetectBackend picks a focus backend from the host session environment.
func DetectBackend() string {
	if runtime.GOOS == "darwin" {
		return "darwin"
	}
	if strings.TrimSpace(os.Getenv("HYPRLAND_INSTANCE_SIGNATURE")) != "" {
		return "hypr"
	}
	sessionType := strings.TrimSpace(os.Getenv("XDG_SESSION_TYPE"))
	if sessionType == "x11" || strings.TrimSpace(os.Getenv("DISPLAY")) != "" {
		return "x11"
	}
	return "none"
}

// NewProvider constructs the provider for a configured backend name.
// Backend "auto" resolves through DetectBackend.
func NewProvider(backend string, logger *slog.Logger) (Provider, error) {
	name := strings.ToLower(strings.TrimSpace(backend))
	if name == "" || name == "auto" {
		name = DetectBackend()
	}

	switch name {
	case "hypr":
		return &HyprProvider{logger: logger}, nil
	case "x11":
		return NewX11Provider(logger)
	case "darwin":
		return &DarwinProvider{logger: logger}, nil
	case "none":
		return NoopProvider{}, nil
	default:
		return nil, fmt.Errorf("unknown focus backend %q", backend)
	}
}

// NoopProvider never captures and never activates.
type NoopProvider struct{}

func (NoopProvider) Capture(context.Context) (*Snapshot, error) { return nil, nil }
func (NoopProvider) Activate(context.Context, Snapshot) error   { return nil }
