package executor

import (
	"bytes"
	"context"
	"errors"
	"os/exec"
	"strings"
	"time"
)

// RunOutput captures everything one child process produced.
type RunOutput struct {
	Stdout   string
	Stderr   string
	ExitCode int
	TimedOut bool
	// StartErr is non-nil when the process never spawned, e.g. the toolchain
	// binary is missing from PATH.
	StartErr error
}

// ProcessRunner spawns one external process per call. It knows nothing about
// rooms or languages and never touches the filesystem; artifact handling is
// the caller's job.
type ProcessRunner struct{}

// Run executes argv in dir, feeding stdin (plus a trailing newline) when
// non-empty and collecting output until exit or the timeout elapses. On
// timeout the process is killed and whatever output was buffered is returned
// with TimedOut set.
func (ProcessRunner) Run(ctx context.Context, dir string, argv []string, stdin string, timeout time.Duration) RunOutput {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	cmd.Dir = dir
	// Don't wait on grandchildren holding the output pipes open after the
	// process itself was killed.
	cmd.WaitDelay = time.Second
	if stdin != "" {
		cmd.Stdin = strings.NewReader(stdin + "\n")
	}

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()

	out := RunOutput{
		Stdout: stdout.String(),
		Stderr: stderr.String(),
	}
	if err == nil {
		return out
	}

	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		out.TimedOut = true
		out.ExitCode = -1
		return out
	}

	if errors.Is(err, exec.ErrWaitDelay) {
		// The process itself exited fine; only its pipes lingered.
		return out
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		out.ExitCode = exitErr.ExitCode()
		return out
	}

	// The binary could not be started at all.
	out.StartErr = err
	out.ExitCode = -1
	if out.Stderr == "" {
		out.Stderr = err.Error()
	}
	return out
}
