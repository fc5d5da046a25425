// Package config resolves, parses, validates, and defaults osttpop configuration.
package config

// Config is the fully materialized runtime configuration used by osttpop.
type Config struct {
	Binary   BinaryConfig   `toml:"binary"`
	Terminal TerminalConfig `toml:"terminal"`
	Window   WindowConfig   `toml:"window"`
	Focus    FocusConfig    `toml:"focus"`
	Alert    AlertConfig    `toml:"alert"`
	History  HistoryConfig  `toml:"history"`
	Artifact ArtifactConfig `toml:"artifact"`
}

// BinaryConfig locates the installed ostt executable.
type BinaryConfig struct {
	Path string `toml:"path"`
}

// TerminalConfig selects the popup terminal emulator and its launch shape.
type TerminalConfig struct {
	// Profile is one of: ghostty, alacritty, custom.
	Profile string `toml:"profile"`
	// Command is a custom argv template, required when profile=custom.
	// Recognized placeholders: {x} {y} {cols} {rows} {font_size} {background} {binary}.
	Command string `toml:"command"`
}

// WindowConfig is the static popup geometry and style contract.
// Position is in pixels; size is in terminal cells.
type WindowConfig struct {
	X          int    `toml:"x"`
	Y          int    `toml:"y"`
	Width      int    `toml:"width"`
	Height     int    `toml:"height"`
	FontSize   int    `toml:"font_size"`
	Background string `toml:"background"`
	Decoration bool   `toml:"decoration"`
	Shadow     bool   `toml:"shadow"`
}

// FocusConfig selects the foreground-window capture/restore backend.
type FocusConfig struct {
	// Backend is one of: auto, hypr, x11, darwin, none.
	Backend string `toml:"backend"`
}

// AlertConfig controls the user-visible validation-failure alert.
type AlertConfig struct {
	Enable bool `toml:"enable"`
	// Backend is one of: auto, hypr, desktop, darwin.
	Backend        string `toml:"backend"`
	DesktopAppName string `toml:"desktop_app_name"`
	TimeoutMS      int    `toml:"timeout_ms"`
}

// HistoryConfig controls the per-launch SQLite journal.
type HistoryConfig struct {
	Enable bool `toml:"enable"`
	// Path overrides the default state-dir database location when set.
	Path string `toml:"path"`
}

// ArtifactConfig locates distribution artifacts for install.
type ArtifactConfig struct {
	BaseURL string `toml:"base_url"`
	// SHA256 is an optional hex digest checked after download.
	SHA256 string `toml:"sha256"`
}

// Warning is a non-fatal parse/validation message.
type Warning struct {
	Message string
}
