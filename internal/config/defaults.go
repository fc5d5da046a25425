package config

import "runtime"

// Default returns the canonical runtime configuration used when no file is present.
func Default() Config {
	binaryPath := "/usr/local/bin/ostt"
	profile := "alacritty"
	if runtime.GOOS == "darwin" {
		binaryPath = "/opt/homebrew/bin/ostt"
		profile = "ghostty"
	}

	return Config{
		Binary: BinaryConfig{Path: binaryPath},
		Terminal: TerminalConfig{
			Profile: profile,
		},
		Window: WindowConfig{
			X:          860,
			Y:          436,
			Width:      80,
			Height:     12,
			FontSize:   16,
			Background: "#1e1e2e",
			Decoration: false,
			Shadow:     false,
		},
		Focus: FocusConfig{Backend: "auto"},
		Alert: AlertConfig{
			Enable:         true,
			Backend:        "auto",
			DesktopAppName: "osttpop",
			TimeoutMS:      4000,
		},
		History: HistoryConfig{Enable: true},
		Artifact: ArtifactConfig{
			BaseURL: "https://github.com/osttkit/ostt/releases/latest/download",
		},
	}
}
