// Package app wires config, logging, and the popup lifecycle behind the CLI.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/osttkit/osttpop/internal/alert"
	"github.com/osttkit/osttpop/internal/cli"
	"github.com/osttkit/osttpop/internal/config"
	"github.com/osttkit/osttpop/internal/doctor"
	"github.com/osttkit/osttpop/internal/focus"
	"github.com/osttkit/osttpop/internal/history"
	"github.com/osttkit/osttpop/internal/install"
	"github.com/osttkit/osttpop/internal/ipc"
	"github.com/osttkit/osttpop/internal/launcher"
	"github.com/osttkit/osttpop/internal/logging"
	"github.com/osttkit/osttpop/internal/platform"
	"github.com/osttkit/osttpop/internal/version"
)

type Runner struct {
	Stdout io.Writer
	Stderr io.Writer
	Logger *slog.Logger

	// Spawner and Focus override the real subprocess and window-system
	// integrations when non-nil.
	Spawner launcher.Spawner
	Focus   focus.Provider
}

func Execute(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	r := Runner{Stdout: stdout, Stderr: stderr}
	return r.Execute(ctx, args)
}

func (r Runner) Execute(ctx context.Context, args []string) int {
	parsed, err := cli.Parse(args)
	if err != nil {
		fmt.Fprintf(r.Stderr, "error: %v\n\n", err)
		fmt.Fprint(r.Stderr, cli.HelpText("osttpop"))
		return 2
	}

	if parsed.ShowHelp {
		fmt.Fprint(r.Stdout, cli.HelpText("osttpop"))
		return 0
	}

	if parsed.Command == cli.CommandVersion {
		fmt.Fprintln(r.Stdout, version.String())
		return 0
	}

	logRuntime, err := logging.New()
	if err != nil {
		fmt.Fprintf(r.Stderr, "error: setup logging: %v\n", err)
		return 1
	}
	defer func() { _ = logRuntime.Close() }()

	logger := r.Logger
	if logger == nil {
		logger = logRuntime.Logger
	}

	cfgLoaded, err := config.Load(parsed.ConfigPath)
	if err != nil {
		fmt.Fprintf(r.Stderr, "error: %v\n", err)
		logger.Error("load config failed", "error", err.Error())
		return 1
	}
	for _, w := range cfgLoaded.Warnings {
		fmt.Fprintf(r.Stderr, "warning: %s\n", w.Message)
		logger.Warn("config warning", "message", w.Message)
	}

	logger.Info("command start",
		"command", parsed.Command,
		"config", cfgLoaded.Path,
		"log", logRuntime.Path,
	)

	switch parsed.Command {
	case cli.CommandDoctor:
		report := doctor.Run(cfgLoaded)
		fmt.Fprintln(r.Stdout, report.String())
		if report.OK() {
			return 0
		}
		return 1
	case cli.CommandResolve:
		return r.commandResolve(parsed, cfgLoaded.Config)
	case cli.CommandInstall:
		return r.commandInstall(ctx, parsed, cfgLoaded.Config, logger)
	case cli.CommandStatus:
		return r.commandStatus(ctx)
	case cli.CommandHistory:
		return r.commandHistory(ctx, cfgLoaded.Config)
	case cli.CommandLaunch:
		return r.commandLaunch(ctx, cfgLoaded.Config, logger)
	default:
		fmt.Fprintf(r.Stderr, "error: unsupported command %q\n", parsed.Command)
		return 2
	}
}

// resolveTarget applies CLI platform overrides on top of host detection.
func resolveTarget(parsed cli.Parsed) (platform.Target, error) {
	if parsed.OS == "" && parsed.Arch == "" {
		return platform.Current()
	}

	host, _ := platform.Current()
	osID := platform.OS(parsed.OS)
	arch := platform.Arch(parsed.Arch)
	if parsed.OS == "" {
		osID = host.OS
	}
	if parsed.Arch == "" {
		arch = host.Arch
	}
	return platform.Resolve(osID, arch)
}

func (r Runner) commandResolve(parsed cli.Parsed, cfg config.Config) int {
	target, err := resolveTarget(parsed)
	if err != nil {
		fmt.Fprintf(r.Stderr, "error: %v\n", err)
		return 1
	}

	fmt.Fprintf(r.Stdout, "target:   %s\n", target.Triple)
	fmt.Fprintf(r.Stdout, "artifact: %s\n", target.ArchiveName())
	fmt.Fprintf(r.Stdout, "url:      %s\n", target.ArtifactURL(cfg.Artifact.BaseURL))
	for _, dep := range target.Dependencies {
		fmt.Fprintf(r.Stdout, "requires: %s\n", dep)
	}
	return 0
}

func (r Runner) commandInstall(ctx context.Context, parsed cli.Parsed, cfg config.Config, logger *slog.Logger) int {
	target, err := resolveTarget(parsed)
	if err != nil {
		fmt.Fprintf(r.Stderr, "error: %v\n", err)
		return 1
	}

	prefix := parsed.Prefix
	if prefix == "" {
		prefix = "/usr/local"
	}

	installer := install.New(nil, logger)
	result, err := installer.Run(ctx, install.Options{
		Target:   target,
		BaseURL:  cfg.Artifact.BaseURL,
		BinDir:   filepath.Join(prefix, "bin"),
		DocDir:   filepath.Join(prefix, "share", "doc", "osttpop"),
		Checksum: cfg.Artifact.SHA256,
	})
	if err != nil {
		fmt.Fprintf(r.Stderr, "error: %v\n", err)
		return 1
	}

	fmt.Fprintf(r.Stdout, "installed %s\n", result.BinaryPath)
	if result.DocPath != "" {
		fmt.Fprintf(r.Stdout, "installed %s\n", result.DocPath)
	}
	for _, dep := range result.Dependencies {
		fmt.Fprintf(r.Stdout, "requires: %s (install via your package manager)\n", dep)
	}
	return 0
}

func (r Runner) commandStatus(ctx context.Context) int {
	socketPath, err := ipc.RuntimeSocketPath()
	if err != nil {
		fmt.Fprintln(r.Stdout, "idle")
		return 0
	}

	resp, answered, err := ipc.TryForward(ctx, socketPath, "status", 220*time.Millisecond)
	if err != nil {
		fmt.Fprintf(r.Stderr, "error: %v\n", err)
		return 1
	}
	if !answered || resp.State == "" {
		fmt.Fprintln(r.Stdout, "idle")
		return 0
	}
	fmt.Fprintln(r.Stdout, resp.State)
	return 0
}

func (r Runner) commandHistory(ctx context.Context, cfg config.Config) int {
	if !cfg.History.Enable {
		fmt.Fprintln(r.Stdout, "history is disabled")
		return 0
	}

	path := cfg.History.Path
	if path == "" {
		defaultPath, err := history.DefaultPath()
		if err != nil {
			fmt.Fprintf(r.Stderr, "error: %v\n", err)
			return 1
		}
		path = defaultPath
	}

	store, err := history.Open(path)
	if err != nil {
		fmt.Fprintf(r.Stderr, "error: %v\n", err)
		return 1
	}
	defer func() { _ = store.Close() }()

	records, err := store.Recent(ctx, 20)
	if err != nil {
		fmt.Fprintf(r.Stderr, "error: %v\n", err)
		return 1
	}
	if len(records) == 0 {
		fmt.Fprintln(r.Stdout, "no launches recorded")
		return 0
	}

	for _, rec := range records {
		restored := "restored"
		if !rec.Restored {
			restored = "not restored"
		}
		fmt.Fprintf(r.Stdout, "%s  exit=%d  %s  focus=%q  %s\n",
			rec.StartedAt.Format(time.RFC3339),
			rec.ExitCode,
			restored,
			rec.FocusApp,
			rec.ID,
		)
	}
	return 0
}

func (r Runner) commandLaunch(ctx context.Context, cfg config.Config, logger *slog.Logger) int {
	socketPath, err := ipc.RuntimeSocketPath()
	if err != nil {
		fmt.Fprintf(r.Stderr, "error: %v\n", err)
		return 1
	}

	listener, err := ipc.Acquire(ctx, socketPath, 180*time.Millisecond, 8)
	if err != nil {
		if errors.Is(err, ipc.ErrAlreadyRunning) {
			// Duplicate trigger while the popup is open is a no-op.
			fmt.Fprintln(r.Stdout, "popup already active")
			return 0
		}
		fmt.Fprintf(r.Stderr, "error: %v\n", err)
		return 1
	}
	defer func() {
		_ = listener.Close()
		_ = os.Remove(socketPath)
	}()

	provider := r.Focus
	if provider == nil {
		provider, err = focus.NewProvider(cfg.Focus.Backend, logger)
		if err != nil {
			// Launching still works without restoration.
			logger.Warn("focus backend unavailable", "error", err.Error())
			provider = focus.NoopProvider{}
		}
	}

	var alerter launcher.Alerter
	if cfg.Alert.Enable {
		alerter = alert.NewDesktop(cfg.Alert, logger)
	}

	recorder := r.buildRecorder(cfg, logger)

	l := launcher.New(cfg, logger, provider, r.Spawner, alerter, recorder)

	outcomeCh, err := l.Trigger(ctx)
	if err != nil {
		fmt.Fprintf(r.Stderr, "error: %v\n", err)
		return 1
	}

	serverCtx, serverCancel := context.WithCancel(ctx)
	defer serverCancel()

	serverErrCh := make(chan error, 1)
	go func() {
		serverErrCh <- ipc.Serve(serverCtx, listener, ipc.StatusHandler(func() string {
			return string(l.State())
		}))
	}()

	outcome := <-outcomeCh
	serverCancel()
	if serverErr := <-serverErrCh; serverErr != nil {
		fmt.Fprintf(r.Stderr, "error: ipc server failed: %v\n", serverErr)
		return 1
	}

	// The tool's own exit code stays inside the popup; a finished cycle is
	// success for the launcher.
	fmt.Fprintf(r.Stdout, "popup closed (exit=%d, duration=%s)\n",
		outcome.ExitCode,
		outcome.FinishedAt.Sub(outcome.StartedAt).Round(time.Millisecond),
	)
	return 0
}

// buildRecorder opens the launch journal when enabled. Journal failures only
// degrade observability.
func (r Runner) buildRecorder(cfg config.Config, logger *slog.Logger) launcher.Recorder {
	if !cfg.History.Enable {
		return nil
	}

	path := cfg.History.Path
	if path == "" {
		defaultPath, err := history.DefaultPath()
		if err != nil {
			logger.Warn("journal path unavailable", "error", err.Error())
			return nil
		}
		path = defaultPath
	}

	store, err := history.Open(path)
	if err != nil {
		logger.Warn("journal unavailable", "error", err.Error())
		return nil
	}

	return launcher.RecorderFunc(func(ctx context.Context, outcome launcher.Outcome) error {
		defer func() { _ = store.Close() }()
		return store.Record(ctx, history.Record{
			ID:         outcome.ID,
			Binary:     outcome.Binary,
			FocusApp:   outcome.FocusApp,
			StartedAt:  outcome.StartedAt,
			FinishedAt: outcome.FinishedAt,
			ExitCode:   outcome.ExitCode,
			Restored:   outcome.Restored,
		})
	})
}
