package focus

import (
	"context"
	"log/slog"

	"github.com/osttkit/osttpop/internal/hypr"
)

// HyprProvider captures and restores focus through hyprctl on Hyprland.
type HyprProvider struct {
	logger *slog.Logger
}

// Capture reads the focused window address. An empty compositor focus is a
// valid nil snapshot, not an error.
func (p *HyprProvider) Capture(ctx context.Context) (*Snapshot, error) {
	window, found, err := hypr.QueryActiveWindow(ctx)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, nil
	}

	app := window.Class
	if app == "" {
		app = window.InitialClass
	}
	return &Snapshot{Handle: window.Address, App: app}, nil
}

// Activate focuses the window captured in snap by its Hyprland address.
func (p *HyprProvider) Activate(ctx context.Context, snap Snapshot) error {
	return hypr.FocusWindow(ctx, snap.Handle)
}
