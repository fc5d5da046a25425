// Package launcher manages one ephemeral popup window's full lifecycle:
// validate the tool binary, capture the foreground window, spawn the
// terminal, and restore focus when the subprocess exits.
package launcher

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/osttkit/osttpop/internal/config"
	"github.com/osttkit/osttpop/internal/focus"
	"github.com/osttkit/osttpop/internal/fsm"
	"github.com/osttkit/osttpop/internal/terminal"
)

// ErrBusy reports a trigger while a previous popup is still open.
var ErrBusy = errors.New("popup already active")

// ErrBinaryNotFound reports a failed pre-flight binary validation.
var ErrBinaryNotFound = errors.New("tool binary not found")

// Outcome summarizes one completed launch cycle for logging and the journal.
type Outcome struct {
	ID         string
	Binary     string
	FocusApp   string
	StartedAt  time.Time
	FinishedAt time.Time
	ExitCode   int
	Restored   bool
}

// Recorder persists launch outcomes. Persistence failures never affect the
// launch cycle itself.
type Recorder interface {
	Record(ctx context.Context, outcome Outcome) error
}

// RecorderFunc adapts a function to the Recorder interface.
type RecorderFunc func(ctx context.Context, outcome Outcome) error

func (f RecorderFunc) Record(ctx context.Context, outcome Outcome) error {
	return f(ctx, outcome)
}

// Launcher owns the popup lifecycle state machine. A single instance serves
// a single hotkey; overlapping triggers are rejected with ErrBusy.
type Launcher struct {
	cfg      config.Config
	logger   *slog.Logger
	focus    focus.Provider
	spawner  Spawner
	alert    Alerter
	recorder Recorder

	mu    sync.RWMutex
	state fsm.State

	busy atomic.Bool
}

// Alerter is the launcher-facing subset of alert behavior.
type Alerter interface {
	Alert(ctx context.Context, message string)
}

type noopAlerter struct{}

func (noopAlerter) Alert(context.Context, string) {}

// launch is the per-invocation context. The snapshot travels inside it from
// capture to the exit callback; there is no process-wide focus state.
type launch struct {
	id       string
	binary   string
	snapshot *focus.Snapshot
	started  time.Time
}

// New constructs a launcher with safe default fallbacks.
func New(
	cfg config.Config,
	logger *slog.Logger,
	provider focus.Provider,
	spawner Spawner,
	alerter Alerter,
	recorder Recorder,
) *Launcher {
	if provider == nil {
		provider = focus.NoopProvider{}
	}
	if spawner == nil {
		spawner = ExecSpawner{}
	}
	if alerter == nil {
		alerter = noopAlerter{}
	}

	return &Launcher{
		cfg:      cfg,
		logger:   logger,
		focus:    provider,
		spawner:  spawner,
		alert:    alerter,
		recorder: recorder,
		state:    fsm.StateIdle,
	}
}

// State returns the current lifecycle state snapshot.
func (l *Launcher) State() fsm.State {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.state
}

// transition applies one lifecycle event to the launcher state.
func (l *Launcher) transition(event fsm.Event) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	next, err := fsm.Transition(l.state, event)
	if err != nil {
		return err
	}
	l.state = next
	return nil
}

// ValidateBinary checks that path names an existing regular file. It is
// idempotent and has no side effects; symlinks are followed, so a link to a
// missing target fails the existence check.
func ValidateBinary(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("%w: %s", ErrBinaryNotFound, path)
		}
		return fmt.Errorf("stat tool binary %s: %w", path, err)
	}
	if !info.Mode().IsRegular() {
		return fmt.Errorf("%w: %s is not a regular file", ErrBinaryNotFound, path)
	}
	return nil
}

// Trigger runs one launch attempt: validate, capture focus, spawn. It never
// blocks on the subprocess; the returned channel yields the Outcome once the
// popup closes and restoration has been attempted. The channel is nil when
// the launch did not start.
func (l *Launcher) Trigger(ctx context.Context) (<-chan Outcome, error) {
	if !l.busy.CompareAndSwap(false, true) {
		return nil, ErrBusy
	}

	outcomeCh, err := l.run(ctx)
	if err != nil {
		// No subprocess was spawned, so nothing will release the guard later.
		l.toIdle()
		l.busy.Store(false)
		return nil, err
	}
	return outcomeCh, nil
}

func (l *Launcher) run(ctx context.Context) (<-chan Outcome, error) {
	if err := l.transition(fsm.EventTrigger); err != nil {
		return nil, err
	}

	binary := l.cfg.Binary.Path
	if err := ValidateBinary(binary); err != nil {
		l.alert.Alert(ctx, fmt.Sprintf("ostt binary not found at %s", binary))
		l.logError("binary validation failed", err)
		return nil, err
	}
	if err := l.transition(fsm.EventValidated); err != nil {
		return nil, err
	}

	// Capture must happen before spawn: the popup itself is about to become
	// the foreground window.
	lc := launch{
		id:      uuid.NewString(),
		binary:  binary,
		started: time.Now(),
	}
	snapshot, err := l.focus.Capture(ctx)
	if err != nil {
		// A failed capture degrades to "no restoration later".
		l.logError("focus capture failed", err)
	}
	lc.snapshot = snapshot
	if err := l.transition(fsm.EventCaptured); err != nil {
		return nil, err
	}

	argv, err := terminal.Command(l.cfg.Terminal, terminal.GeometryFromConfig(l.cfg.Window), binary)
	if err != nil {
		return nil, fmt.Errorf("build terminal command: %w", err)
	}

	handle, err := l.spawner.Spawn(ctx, argv)
	if err != nil {
		// The snapshot is discarded without restoration: no subprocess
		// exists whose exit could consume it.
		return nil, fmt.Errorf("spawn terminal: %w", err)
	}
	if err := l.transition(fsm.EventSpawned); err != nil {
		return nil, err
	}

	l.logInfo("popup spawned",
		"launch_id", lc.id,
		"pid", handle.PID(),
		"binary", lc.binary,
		"focus_captured", lc.snapshot != nil,
	)

	outcomeCh := make(chan Outcome, 1)
	go l.awaitExit(lc, handle, outcomeCh)
	return outcomeCh, nil
}

// awaitExit consumes the single exit notification, attempts focus
// restoration at most once, journals the outcome, and releases the guard.
func (l *Launcher) awaitExit(lc launch, handle Handle, outcomeCh chan<- Outcome) {
	exit := <-handle.Done()

	if err := l.transition(fsm.EventExited); err != nil {
		l.logError("lifecycle transition failed", err)
	}

	restored := false
	if lc.snapshot != nil {
		restoreCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		err := l.focus.Activate(restoreCtx, *lc.snapshot)
		cancel()
		if err != nil {
			// Best effort: the target may have closed while the popup ran.
			l.logError("focus restore failed", err)
		} else {
			restored = true
		}
	}

	outcome := Outcome{
		ID:         lc.id,
		Binary:     lc.binary,
		StartedAt:  lc.started,
		FinishedAt: time.Now(),
		ExitCode:   exit.Code,
		Restored:   restored,
	}
	if lc.snapshot != nil {
		outcome.FocusApp = lc.snapshot.App
	}

	if l.recorder != nil {
		recordCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		if err := l.recorder.Record(recordCtx, outcome); err != nil {
			l.logError("journal launch outcome failed", err)
		}
		cancel()
	}

	l.logInfo("popup closed",
		"launch_id", lc.id,
		"exit_code", exit.Code,
		"duration_ms", outcome.FinishedAt.Sub(outcome.StartedAt).Milliseconds(),
		"restored", restored,
	)

	if err := l.transition(fsm.EventRestored); err != nil {
		l.logError("lifecycle transition failed", err)
	}
	l.busy.Store(false)

	outcomeCh <- outcome
	close(outcomeCh)
}

// toIdle forces the state machine back to idle after a pre-spawn failure.
func (l *Launcher) toIdle() {
	if err := l.transition(fsm.EventFail); err != nil {
		l.logError("lifecycle reset failed", err)
	}
}

func (l *Launcher) logInfo(message string, fields ...any) {
	if l.logger == nil {
		return
	}
	l.logger.Info(message, fields...)
}

func (l *Launcher) logError(message string, err error) {
	if l.logger == nil || err == nil {
		return
	}
	l.logger.Error(message, "error", err.Error())
}
