package executor

import (
	"context"
	"strings"
	"testing"
	"time"
)

func TestProcessRunnerCapturesStdout(t *testing.T) {
	out := ProcessRunner{}.Run(context.Background(), "", []string{"sh", "-c", "echo hello"}, "", 5*time.Second)
	if out.Stdout != "hello\n" || out.Stderr != "" || out.ExitCode != 0 || out.TimedOut {
		t.Fatalf("unexpected output: %+v", out)
	}
}

func TestProcessRunnerPipesStdinWithNewline(t *testing.T) {
	out := ProcessRunner{}.Run(context.Background(), "", []string{"sh", "-c", "read line; echo got:$line"}, "abc", 5*time.Second)
	if out.Stdout != "got:abc\n" {
		t.Fatalf("stdin was not piped: %+v", out)
	}
}

func TestProcessRunnerNonZeroExit(t *testing.T) {
	out := ProcessRunner{}.Run(context.Background(), "", []string{"sh", "-c", "echo oops >&2; exit 3"}, "", 5*time.Second)
	if out.ExitCode != 3 {
		t.Fatalf("expected exit code 3, got %d", out.ExitCode)
	}
	if out.Stderr != "oops\n" {
		t.Fatalf("unexpected stderr: %q", out.Stderr)
	}
}

func TestProcessRunnerTimeoutKillsProcess(t *testing.T) {
	start := time.Now()
	out := ProcessRunner{}.Run(context.Background(), "", []string{"sh", "-c", "echo partial; sleep 30"}, "", 200*time.Millisecond)
	elapsed := time.Since(start)

	if !out.TimedOut {
		t.Fatalf("expected timeout, got %+v", out)
	}
	if elapsed > 5*time.Second {
		t.Fatalf("process was not killed promptly, took %s", elapsed)
	}
	if !strings.Contains(out.Stdout, "partial") {
		t.Fatalf("buffered output must be returned on timeout: %+v", out)
	}
}

func TestProcessRunnerSpawnFailure(t *testing.T) {
	out := ProcessRunner{}.Run(context.Background(), "", []string{"definitely-not-a-binary-zzz"}, "", time.Second)
	if out.StartErr == nil {
		t.Fatalf("expected spawn failure, got %+v", out)
	}
	if out.Stdout != "" || out.Stderr == "" {
		t.Fatalf("spawn error must surface on stderr only: %+v", out)
	}
}
