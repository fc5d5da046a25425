// Package terminal builds the emulator argv for one popup launch.
package terminal

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/osttkit/osttpop/internal/config"
)

// Geometry is the static popup window contract passed to the emulator.
type Geometry struct {
	X          int
	Y          int
	Columns    int
	Rows       int
	FontSize   int
	Background string
	Decoration bool
	Shadow     bool
}

// GeometryFromConfig copies the window section into a launch geometry.
func GeometryFromConfig(w config.WindowConfig) Geometry {
	return Geometry{
		X:          w.X,
		Y:          w.Y,
		Columns:    w.Width,
		Rows:       w.Height,
		FontSize:   w.FontSize,
		Background: w.Background,
		Decoration: w.Decoration,
		Shadow:     w.Shadow,
	}
}

// Command builds the full terminal-emulator argv that runs binary inside
// a popup window with the given geometry and style.
func Command(cfg config.TerminalConfig, geo Geometry, binary string) ([]string, error) {
	if strings.TrimSpace(binary) == "" {
		return nil, fmt.Errorf("terminal command requires a binary path")
	}

	switch strings.ToLower(strings.TrimSpace(cfg.Profile)) {
	case "ghostty":
		return ghosttyArgv(geo, binary), nil
	case "alacritty":
		return alacrittyArgv(geo, binary), nil
	case "custom":
		return customArgv(cfg.Command, geo, binary)
	default:
		return nil, fmt.Errorf("unknown terminal profile %q", cfg.Profile)
	}
}

// ghosttyArgv maps the geometry contract onto Ghostty CLI flags.
func ghosttyArgv(geo Geometry, binary string) []string {
	argv := []string{
		"ghostty",
		"--window-position-x=" + strconv.Itoa(geo.X),
		"--window-position-y=" + strconv.Itoa(geo.Y),
		"--window-width=" + strconv.Itoa(geo.Columns),
		"--window-height=" + strconv.Itoa(geo.Rows),
		"--font-size=" + strconv.Itoa(geo.FontSize),
		"--background=" + strings.TrimPrefix(geo.Background, "#"),
	}
	if !geo.Decoration {
		argv = append(argv, "--window-decoration=false")
	}
	if !geo.Shadow {
		argv = append(argv, "--macos-window-shadow=false")
	}
	return append(argv, "-e", binary)
}

// alacrittyArgv maps the geometry contract onto Alacritty CLI overrides.
// Alacritty has no shadow toggle; that flag only applies to ghostty/custom.
func alacrittyArgv(geo Geometry, binary string) []string {
	argv := []string{
		"alacritty",
		"--class", "osttpop",
		"--option", fmt.Sprintf("window.position.x=%d", geo.X),
		"--option", fmt.Sprintf("window.position.y=%d", geo.Y),
		"--option", fmt.Sprintf("window.dimensions.columns=%d", geo.Columns),
		"--option", fmt.Sprintf("window.dimensions.lines=%d", geo.Rows),
		"--option", fmt.Sprintf("font.size=%d", geo.FontSize),
		"--option", fmt.Sprintf("colors.primary.background='%s'", geo.Background),
	}
	if !geo.Decoration {
		argv = append(argv, "--option", "window.decorations=None")
	}
	return append(argv, "-e", binary)
}

// customArgv expands template placeholders and splits the result into argv.
func customArgv(template string, geo Geometry, binary string) ([]string, error) {
	replacer := strings.NewReplacer(
		"{x}", strconv.Itoa(geo.X),
		"{y}", strconv.Itoa(geo.Y),
		"{cols}", strconv.Itoa(geo.Columns),
		"{rows}", strconv.Itoa(geo.Rows),
		"{font_size}", strconv.Itoa(geo.FontSize),
		"{background}", geo.Background,
		"{binary}", binary,
	)

	argv, err := parseArgv(replacer.Replace(template))
	if err != nil {
		return nil, fmt.Errorf("parse custom terminal command: %w", err)
	}
	if len(argv) == 0 {
		return nil, fmt.Errorf("custom terminal command is empty")
	}
	return argv, nil
}
