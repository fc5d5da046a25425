// Package alert surfaces launch-validation failures to the user.
package alert

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"runtime"
	"strconv"
	"strings"
	"time"

	"github.com/osttkit/osttpop/internal/config"
	"github.com/osttkit/osttpop/internal/hypr"
)

// Notifier is the launcher-facing alert contract.
type Notifier interface {
	Alert(ctx context.Context, message string)
}

// Desktop routes alerts through the configured notification backend.
// Delivery failures are logged, never propagated: an undeliverable alert
// must not change the launch outcome.
type Desktop struct {
	cfg    config.AlertConfig
	logger *slog.Logger
}

// NewDesktop creates an alert notifier from config.
func NewDesktop(cfg config.AlertConfig, logger *slog.Logger) *Desktop {
	return &Desktop{cfg: cfg, logger: logger}
}

// Alert shows one user-visible notification with the given message.
func (d *Desktop) Alert(ctx context.Context, message string) {
	if !d.cfg.Enable {
		return
	}

	runCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	if err := d.dispatch(runCtx, message); err != nil {
		d.log("alert dispatch failed", err)
	}
}

// dispatch selects the backend, resolving "auto" from the host session.
func (d *Desktop) dispatch(ctx context.Context, message string) error {
	backend := strings.ToLower(strings.TrimSpace(d.cfg.Backend))
	if backend == "" || backend == "auto" {
		backend = detectBackend()
	}

	switch backend {
	case "hypr":
		// icon 3 = error glyph
		return hypr.Notify(ctx, 3, d.timeoutMS(), "rgb(f38ba8)", message)
	case "darwin":
		return notifyDarwin(ctx, d.appName(), message)
	case "desktop":
		return notifySend(ctx, d.appName(), message, d.timeoutMS())
	default:
		return fmt.Errorf("unknown alert backend %q", backend)
	}
}

func (d *Desktop) timeoutMS() int {
	if d.cfg.TimeoutMS <= 0 {
		return 4000
	}
	return d.cfg.TimeoutMS
}

func (d *Desktop) appName() string {
	if name := strings.TrimSpace(d.cfg.DesktopAppName); name != "" {
		return name
	}
	return "osttpop"
}

func (d *Desktop) log(message string, err error) {
	if d.logger == nil || err == nil {
		return
	}
	d.logger.Error(message, "error", err.Error())
}

func detectBackend() string {
	if runtime.GOOS == "darwin" {
		return "darwin"
	}
	if strings.TrimSpace(os.Getenv("HYPRLAND_INSTANCE_SIGNATURE")) != "" {
		return "hypr"
	}
	return "desktop"
}

// notifySend delivers a freedesktop notification via notify-send.
func notifySend(ctx context.Context, appName, message string, timeoutMS int) error {
	args := []string{
		"--app-name", appName,
		"--urgency", "critical",
		"--expire-time", strconv.Itoa(timeoutMS),
		appName,
		message,
	}
	out, err := exec.CommandContext(ctx, "notify-send", args...).CombinedOutput()
	if err != nil {
		trimmed := strings.TrimSpace(string(out))
		if trimmed == "" {
			return fmt.Errorf("notify-send failed: %w", err)
		}
		return fmt.Errorf("notify-send failed: %w (%s)", err, trimmed)
	}
	return nil
}

// notifyDarwin delivers a Notification Center banner via osascript.
func notifyDarwin(ctx context.Context, appName, message string) error {
	script := fmt.Sprintf(
		"display notification %s with title %s",
		appleScriptString(message),
		appleScriptString(appName),
	)
	out, err := exec.CommandContext(ctx, "osascript", "-e", script).CombinedOutput()
	if err != nil {
		trimmed := strings.TrimSpace(string(out))
		if trimmed == "" {
			return fmt.Errorf("osascript notification failed: %w", err)
		}
		return fmt.Errorf("osascript notification failed: %w (%s)", err, trimmed)
	}
	return nil
}

func appleScriptString(value string) string {
	escaped := strings.ReplaceAll(value, `\`, `\\`)
	escaped = strings.ReplaceAll(escaped, `"`, `\"`)
	return `"` + escaped + `"`
}
