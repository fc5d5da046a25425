package hypr

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
)

// ActiveWindow contains the fields needed for focus capture and restore.
type ActiveWindow struct {
	Address      string `json:"address"`
	Class        string `json:"class"`
	InitialClass string `json:"initialClass"`
	Title        string `json:"title"`
}

// QueryActiveWindow fetches the focused-window contract from hyprctl.
// found=false with a nil error means no window currently holds focus.
func QueryActiveWindow(ctx context.Context) (ActiveWindow, bool, error) {
	output, err := runHyprctlOutput(ctx, "-j", "activewindow")
	if err != nil {
		return ActiveWindow{}, false, err
	}

	// An empty compositor focus yields "Invalid" instead of a JSON object.
	if strings.HasPrefix(strings.TrimSpace(string(output)), "Invalid") {
		return ActiveWindow{}, false, nil
	}

	var window ActiveWindow
	if err := json.Unmarshal(output, &window); err != nil {
		return ActiveWindow{}, false, fmt.Errorf("decode hyprctl activewindow json: %w", err)
	}
	window.Address = strings.TrimSpace(window.Address)
	window.Class = strings.TrimSpace(window.Class)
	window.InitialClass = strings.TrimSpace(window.InitialClass)
	if window.Address == "" {
		return ActiveWindow{}, false, nil
	}
	return window, true, nil
}
