package config

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestValidateDefaultsPass(t *testing.T) {
	warnings, err := Validate(Default())
	require.NoError(t, err)
	require.Empty(t, warnings)
}

func TestValidateRejections(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:    "empty binary path",
			mutate:  func(c *Config) { c.Binary.Path = "  " },
			wantErr: "binary.path must not be empty",
		},
		{
			name:    "unknown terminal profile",
			mutate:  func(c *Config) { c.Terminal.Profile = "xterm" },
			wantErr: "terminal.profile must be one of",
		},
		{
			name: "custom profile without command",
			mutate: func(c *Config) {
				c.Terminal.Profile = "custom"
				c.Terminal.Command = ""
			},
			wantErr: "terminal.command must not be empty",
		},
		{
			name: "custom command missing binary placeholder",
			mutate: func(c *Config) {
				c.Terminal.Profile = "custom"
				c.Terminal.Command = "foot --app-id popup"
			},
			wantErr: "{binary} placeholder",
		},
		{
			name:    "negative position",
			mutate:  func(c *Config) { c.Window.X = -1 },
			wantErr: "window position must not be negative",
		},
		{
			name:    "zero height",
			mutate:  func(c *Config) { c.Window.Height = 0 },
			wantErr: "window dimensions must be > 0",
		},
		{
			name:    "zero font size",
			mutate:  func(c *Config) { c.Window.FontSize = 0 },
			wantErr: "window.font_size must be > 0",
		},
		{
			name:    "bad background color",
			mutate:  func(c *Config) { c.Window.Background = "1e1e2e" },
			wantErr: "window.background must be a #rrggbb hex color",
		},
		{
			name:    "unknown focus backend",
			mutate:  func(c *Config) { c.Focus.Backend = "cosmic" },
			wantErr: "focus.backend must be one of",
		},
		{
			name:    "unknown alert backend",
			mutate:  func(c *Config) { c.Alert.Backend = "growl" },
			wantErr: "alert.backend must be one of",
		},
		{
			name: "desktop alert without app name",
			mutate: func(c *Config) {
				c.Alert.Backend = "desktop"
				c.Alert.DesktopAppName = ""
			},
			wantErr: "alert.desktop_app_name must not be empty",
		},
		{
			name:    "negative alert timeout",
			mutate:  func(c *Config) { c.Alert.TimeoutMS = -5 },
			wantErr: "alert.timeout_ms must be >= 0",
		},
		{
			name:    "empty artifact base url",
			mutate:  func(c *Config) { c.Artifact.BaseURL = "" },
			wantErr: "artifact.base_url must not be empty",
		},
		{
			name:    "malformed artifact checksum",
			mutate:  func(c *Config) { c.Artifact.SHA256 = "abc123" },
			wantErr: "artifact.sha256 must be a 64-character hex digest",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := Default()
			tc.mutate(&cfg)
			_, err := Validate(cfg)
			require.Error(t, err)
			require.Contains(t, err.Error(), tc.wantErr)
		})
	}
}

func TestValidateWarnsWhenCustomCommandIgnored(t *testing.T) {
	cfg := Default()
	cfg.Terminal.Profile = "alacritty"
	cfg.Terminal.Command = "foot -e {binary}"

	warnings, err := Validate(cfg)
	require.NoError(t, err)
	require.Len(t, warnings, 1)
	require.Contains(t, warnings[0].Message, "terminal.command is ignored")
}

func TestValidateCustomProfile(t *testing.T) {
	cfg := Default()
	cfg.Terminal.Profile = "custom"
	cfg.Terminal.Command = "foot --app-id popup -e {binary}"

	warnings, err := Validate(cfg)
	require.NoError(t, err)
	require.Empty(t, warnings)
}
