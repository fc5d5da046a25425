package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadMissingFileFallsBackToDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")

	loaded, err := Load(path)
	require.NoError(t, err)
	require.False(t, loaded.Exists)
	require.Equal(t, Default(), loaded.Config)
	require.Len(t, loaded.Warnings, 1)
	require.Contains(t, loaded.Warnings[0].Message, "using defaults")
}

func TestLoadOverridesOnlyPresentKeys(t *testing.T) {
	path := writeConfig(t, `
[binary]
path = "/opt/tools/bin/ostt"

[window]
width = 100
font_size = 18
`)

	loaded, err := Load(path)
	require.NoError(t, err)
	require.True(t, loaded.Exists)
	require.Equal(t, "/opt/tools/bin/ostt", loaded.Config.Binary.Path)
	require.Equal(t, 100, loaded.Config.Window.Width)
	require.Equal(t, 18, loaded.Config.Window.FontSize)

	// Untouched keys keep defaults.
	require.Equal(t, Default().Window.Height, loaded.Config.Window.Height)
	require.Equal(t, Default().Window.Background, loaded.Config.Window.Background)
	require.Equal(t, Default().Artifact.BaseURL, loaded.Config.Artifact.BaseURL)
}

func TestLoadRejectsMalformedTOML(t *testing.T) {
	path := writeConfig(t, "[window\nwidth = 80\n")

	_, err := Load(path)
	require.Error(t, err)
	require.Contains(t, err.Error(), "parse config")
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	path := writeConfig(t, `
[window]
width = -3
`)

	_, err := Load(path)
	require.Error(t, err)
	require.Contains(t, err.Error(), "window dimensions must be > 0")
}

func TestResolvePathPrecedence(t *testing.T) {
	explicit, err := ResolvePath("/tmp/explicit.toml")
	require.NoError(t, err)
	require.Equal(t, "/tmp/explicit.toml", explicit)

	xdg := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", xdg)
	fromXDG, err := ResolvePath("")
	require.NoError(t, err)
	require.Equal(t, filepath.Join(xdg, "osttpop", "config.toml"), fromXDG)

	home := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", "")
	t.Setenv("HOME", home)
	fromHome, err := ResolvePath("")
	require.NoError(t, err)
	require.Equal(t, filepath.Join(home, ".config", "osttpop", "config.toml"), fromHome)
}
