package launcher

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
)

// Exit is the terminal subprocess completion payload delivered to the exit
// callback. Output captures may be ignored by policy; only "process has
// exited" drives focus restoration.
type Exit struct {
	Code   int
	Stdout string
	Stderr string
}

// Handle tracks one running terminal+tool subprocess.
type Handle interface {
	PID() int
	// Done yields exactly one Exit when the subprocess terminates, whether
	// it exits cleanly, fails, or is killed.
	Done() <-chan Exit
}

// Spawner starts the terminal emulator subprocess without blocking.
type Spawner interface {
	Spawn(ctx context.Context, argv []string) (Handle, error)
}

// ExecSpawner launches subprocesses with os/exec.
type ExecSpawner struct{}

// Spawn starts argv detached from the trigger context: the popup must keep
// running after the hotkey handler returns.
func (ExecSpawner) Spawn(_ context.Context, argv []string) (Handle, error) {
	if len(argv) == 0 {
		return nil, fmt.Errorf("spawn requires a non-empty argv")
	}

	var stdout, stderr bytes.Buffer
	cmd := exec.Command(argv[0], argv[1:]...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("start %s: %w", argv[0], err)
	}

	done := make(chan Exit, 1)
	go func() {
		err := cmd.Wait()
		code := 0
		if err != nil {
			if exitErr, ok := err.(*exec.ExitError); ok {
				// -1 when terminated by signal
				code = exitErr.ExitCode()
			} else {
				code = -1
			}
		}
		done <- Exit{Code: code, Stdout: stdout.String(), Stderr: stderr.String()}
		close(done)
	}()

	return &execHandle{pid: cmd.Process.Pid, done: done}, nil
}

type execHandle struct {
	pid  int
	done chan Exit
}

func (h *execHandle) PID() int          { return h.pid }
func (h *execHandle) Done() <-chan Exit { return h.done }
