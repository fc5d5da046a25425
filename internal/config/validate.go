package config

import (
	"fmt"
	"regexp"
	"strings"
)

var hexColorPattern = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)
var sha256Pattern = regexp.MustCompile(`^[0-9a-fA-F]{64}$`)

var validTerminalProfiles = map[string]struct{}{
	"ghostty":   {},
	"alacritty": {},
	"custom":    {},
}

var validFocusBackends = map[string]struct{}{
	"auto":   {},
	"hypr":   {},
	"x11":    {},
	"darwin": {},
	"none":   {},
}

var validAlertBackends = map[string]struct{}{
	"auto":    {},
	"hypr":    {},
	"desktop": {},
	"darwin":  {},
}

// Validate enforces config invariants and returns non-fatal warnings.
func Validate(cfg Config) ([]Warning, error) {
	warnings := make([]Warning, 0)

	if strings.TrimSpace(cfg.Binary.Path) == "" {
		return nil, fmt.Errorf("binary.path must not be empty")
	}

	profile := strings.ToLower(strings.TrimSpace(cfg.Terminal.Profile))
	if _, ok := validTerminalProfiles[profile]; !ok {
		return nil, fmt.Errorf("terminal.profile must be one of: ghostty, alacritty, custom")
	}
	if profile == "custom" {
		command := strings.TrimSpace(cfg.Terminal.Command)
		if command == "" {
			return nil, fmt.Errorf("terminal.command must not be empty when terminal.profile=custom")
		}
		if !strings.Contains(command, "{binary}") {
			return nil, fmt.Errorf("terminal.command must contain the {binary} placeholder")
		}
	} else if strings.TrimSpace(cfg.Terminal.Command) != "" {
		warnings = append(warnings, Warning{
			Message: fmt.Sprintf("terminal.command is ignored when terminal.profile=%s", profile),
		})
	}

	if cfg.Window.X < 0 || cfg.Window.Y < 0 {
		return nil, fmt.Errorf("window position must not be negative")
	}
	if cfg.Window.Width <= 0 || cfg.Window.Height <= 0 {
		return nil, fmt.Errorf("window dimensions must be > 0")
	}
	if cfg.Window.FontSize <= 0 {
		return nil, fmt.Errorf("window.font_size must be > 0")
	}
	if !hexColorPattern.MatchString(strings.TrimSpace(cfg.Window.Background)) {
		return nil, fmt.Errorf("window.background must be a #rrggbb hex color")
	}

	focusBackend := strings.ToLower(strings.TrimSpace(cfg.Focus.Backend))
	if _, ok := validFocusBackends[focusBackend]; !ok {
		return nil, fmt.Errorf("focus.backend must be one of: auto, hypr, x11, darwin, none")
	}

	alertBackend := strings.ToLower(strings.TrimSpace(cfg.Alert.Backend))
	if _, ok := validAlertBackends[alertBackend]; !ok {
		return nil, fmt.Errorf("alert.backend must be one of: auto, hypr, desktop, darwin")
	}
	if alertBackend == "desktop" && strings.TrimSpace(cfg.Alert.DesktopAppName) == "" {
		return nil, fmt.Errorf("alert.desktop_app_name must not be empty when alert.backend=desktop")
	}
	if cfg.Alert.TimeoutMS < 0 {
		return nil, fmt.Errorf("alert.timeout_ms must be >= 0")
	}

	if strings.TrimSpace(cfg.Artifact.BaseURL) == "" {
		return nil, fmt.Errorf("artifact.base_url must not be empty")
	}
	if sum := strings.TrimSpace(cfg.Artifact.SHA256); sum != "" && !sha256Pattern.MatchString(sum) {
		return nil, fmt.Errorf("artifact.sha256 must be a 64-character hex digest")
	}

	return warnings, nil
}
