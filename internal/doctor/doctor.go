// Package doctor runs readiness diagnostics for config, the tool binary,
// the terminal emulator, and the focus backend.
package doctor

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/osttkit/osttpop/internal/config"
	"github.com/osttkit/osttpop/internal/focus"
	"github.com/osttkit/osttpop/internal/launcher"
	"github.com/osttkit/osttpop/internal/platform"
	"github.com/osttkit/osttpop/internal/terminal"
)

// Check is one doctor assertion result.
type Check struct {
	Name    string
	Pass    bool
	Message string
}

// Report is the full doctor output contract.
type Report struct {
	Checks []Check
}

// OK returns true when all checks pass.
func (r Report) OK() bool {
	for _, check := range r.Checks {
		if !check.Pass {
			return false
		}
	}
	return true
}

// String renders the report as user-facing text output.
func (r Report) String() string {
	var b strings.Builder
	for _, check := range r.Checks {
		status := "OK"
		if !check.Pass {
			status = "FAIL"
		}
		b.WriteString(fmt.Sprintf("[%s] %s: %s\n", status, check.Name, check.Message))
	}
	return strings.TrimSuffix(b.String(), "\n")
}

// Run executes environment and config checks for a loaded config.
func Run(cfg config.Loaded) Report {
	checks := []Check{}

	checks = append(checks, Check{
		Name:    "config",
		Pass:    true,
		Message: fmt.Sprintf("loaded %q", cfg.Path),
	})
	for _, warning := range cfg.Warnings {
		checks = append(checks, Check{Name: "config", Pass: true, Message: warning.Message})
	}

	checks = append(checks, checkToolBinary(cfg.Config.Binary.Path))
	checks = append(checks, checkTerminal(cfg.Config))
	checks = append(checks, checkFocusBackend(cfg.Config.Focus.Backend))
	checks = append(checks, checkStateDir())
	checks = append(checks, checkPlatform())

	return Report{Checks: checks}
}

// checkToolBinary runs the same pre-flight validation the launcher uses.
func checkToolBinary(path string) Check {
	if err := launcher.ValidateBinary(path); err != nil {
		return Check{Name: "binary", Pass: false, Message: err.Error()}
	}
	return Check{Name: "binary", Pass: true, Message: fmt.Sprintf("found %s", path)}
}

// checkTerminal builds the popup argv and verifies its program is runnable.
func checkTerminal(cfg config.Config) Check {
	argv, err := terminal.Command(cfg.Terminal, terminal.GeometryFromConfig(cfg.Window), cfg.Binary.Path)
	if err != nil {
		return Check{Name: "terminal", Pass: false, Message: err.Error()}
	}
	return checkBinary("terminal", argv[0])
}

// checkFocusBackend verifies the tooling the resolved backend depends on.
func checkFocusBackend(backend string) Check {
	name := strings.ToLower(strings.TrimSpace(backend))
	if name == "" || name == "auto" {
		name = focus.DetectBackend()
	}

	switch name {
	case "hypr":
		check := checkBinary("focus", "hyprctl")
		if check.Pass {
			check.Message = check.Message + " (hypr backend)"
		}
		return check
	case "darwin":
		check := checkBinary("focus", "osascript")
		if check.Pass {
			check.Message = check.Message + " (darwin backend)"
		}
		return check
	case "x11":
		if strings.TrimSpace(os.Getenv("DISPLAY")) == "" {
			return Check{Name: "focus", Pass: false, Message: "x11 backend requires DISPLAY"}
		}
		return Check{Name: "focus", Pass: true, Message: "x11 backend, DISPLAY is set"}
	case "none":
		return Check{Name: "focus", Pass: true, Message: "focus restoration disabled"}
	default:
		return Check{Name: "focus", Pass: false, Message: fmt.Sprintf("unknown focus backend %q", backend)}
	}
}

// checkStateDir verifies the log and journal directory is writable.
func checkStateDir() Check {
	stateHome := os.Getenv("XDG_STATE_HOME")
	if stateHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return Check{Name: "state_dir", Pass: false, Message: err.Error()}
		}
		stateHome = filepath.Join(home, ".local", "state")
	}

	dir := filepath.Join(stateHome, "osttpop")
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return Check{Name: "state_dir", Pass: false, Message: fmt.Sprintf("create %s: %v", dir, err)}
	}

	probe, err := os.CreateTemp(dir, ".doctor-*")
	if err != nil {
		return Check{Name: "state_dir", Pass: false, Message: fmt.Sprintf("%s is not writable: %v", dir, err)}
	}
	probe.Close()
	_ = os.Remove(probe.Name())

	return Check{Name: "state_dir", Pass: true, Message: fmt.Sprintf("%s is writable", dir)}
}

// checkPlatform confirms the host maps to a distribution target.
func checkPlatform() Check {
	target, err := platform.Current()
	if err != nil {
		return Check{Name: "platform", Pass: false, Message: err.Error()}
	}
	return Check{Name: "platform", Pass: true, Message: fmt.Sprintf("distribution target %s", target.Triple)}
}

// checkBinary validates that a binary exists in PATH.
func checkBinary(name, bin string) Check {
	path, err := exec.LookPath(bin)
	if err != nil {
		return Check{Name: name, Pass: false, Message: fmt.Sprintf("binary not found in PATH: %s", bin)}
	}
	return Check{Name: name, Pass: true, Message: fmt.Sprintf("found %s at %s", bin, path)}
}
