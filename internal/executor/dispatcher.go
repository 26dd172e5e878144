package executor

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Status tags what kind of outcome a request produced.
type Status string

const (
	StatusSuccess      Status = "success"
	StatusCompileError Status = "compile_error"
	StatusRuntimeError Status = "runtime_error"
	StatusTimeout      Status = "timeout"
	StatusUnsupported  Status = "unsupported_language"
	StatusSpawnError   Status = "spawn_error"
	StatusInternal     Status = "internal_error"
)

// Request describes one execute-code request.
type Request struct {
	RoomID   string
	Language string
	Code     string
	Stdin    string
}

// Result is delivered to the room exactly once per request.
type Result struct {
	Status   Status
	Output   string
	Error    string
	TimedOut bool
}

// Options bound the external process steps and place the scratch space.
type Options struct {
	TempDir        string
	RunTimeout     time.Duration
	CompileTimeout time.Duration
}

const (
	defaultRunTimeout     = 5 * time.Second
	defaultCompileTimeout = 10 * time.Second
)

// runner is satisfied by ProcessRunner; tests substitute their own.
type runner interface {
	Run(ctx context.Context, dir string, argv []string, stdin string, timeout time.Duration) RunOutput
}

// Dispatcher resolves an execution plan, drives the process runner through
// the compile and run steps and guarantees artifact cleanup on every exit
// path. Executions for the same room are serialized; different rooms run
// concurrently.
type Dispatcher struct {
	registry *Registry
	runner   runner
	opts     Options
	log      *zerolog.Logger

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// NewDispatcher creates a dispatcher with defaults filled in.
func NewDispatcher(registry *Registry, opts Options, logger *zerolog.Logger) *Dispatcher {
	if opts.TempDir == "" {
		opts.TempDir = filepath.Join(os.TempDir(), "coderoom")
	}
	if opts.RunTimeout <= 0 {
		opts.RunTimeout = defaultRunTimeout
	}
	if opts.CompileTimeout <= 0 {
		opts.CompileTimeout = defaultCompileTimeout
	}
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}
	return &Dispatcher{
		registry: registry,
		runner:   ProcessRunner{},
		opts:     opts,
		log:      logger,
		locks:    make(map[string]*sync.Mutex),
	}
}

// Execute runs one request to completion. It never panics outward and always
// returns a result, so the room receives exactly one per request.
func (d *Dispatcher) Execute(ctx context.Context, req Request) (res Result) {
	defer func() {
		if r := recover(); r != nil {
			d.log.Error().Interface("panic", r).Str("room", req.RoomID).Msg("execution panicked")
			res = Result{Status: StatusInternal, Error: fmt.Sprintf("internal error: %v", r)}
		}
	}()

	plan, ok := d.registry.Lookup(req.Language)
	if !ok {
		return Result{Status: StatusUnsupported, Error: "Unsupported language."}
	}

	// One in-flight execution per room; later requests queue behind it.
	lock := d.roomLock(req.RoomID)
	lock.Lock()
	defer lock.Unlock()

	dir := filepath.Join(d.opts.TempDir, sanitize(req.RoomID)+"_"+uuid.NewString())
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return Result{Status: StatusInternal, Error: fmt.Sprintf("prepare scratch dir: %v", err)}
	}
	defer d.cleanup(dir)

	source := plan.SourceFile(dir)
	if err := os.WriteFile(source, []byte(req.Code), 0o644); err != nil {
		return Result{Status: StatusInternal, Error: fmt.Sprintf("write source: %v", err)}
	}

	if plan.NeedsCompile() {
		comp := d.runner.Run(ctx, dir, plan.CompileArgv(dir, source), "", d.opts.CompileTimeout)
		if fail, failRes := compileOutcome(comp); fail {
			d.log.Debug().Str("room", req.RoomID).Str("language", req.Language).Msg("compile failed")
			return failRes
		}
	}

	run := d.runner.Run(ctx, dir, plan.RunArgv(dir, source), req.Stdin, d.opts.RunTimeout)
	res = Result{Status: StatusSuccess, Output: run.Stdout, Error: run.Stderr, TimedOut: run.TimedOut}
	switch {
	case run.StartErr != nil:
		res.Status = StatusSpawnError
	case run.TimedOut:
		res.Status = StatusTimeout
		if res.Error == "" {
			res.Error = "execution timed out"
		}
	case run.ExitCode != 0:
		res.Status = StatusRuntimeError
	}
	return res
}

// compileOutcome treats any compiler diagnostic on stderr as a failure, the
// same as a non-zero exit. The run step is skipped on failure.
func compileOutcome(out RunOutput) (bool, Result) {
	if out.StartErr == nil && !out.TimedOut && out.ExitCode == 0 && out.Stderr == "" {
		return false, Result{}
	}
	res := Result{Status: StatusCompileError, Output: out.Stdout, Error: out.Stderr}
	switch {
	case out.StartErr != nil:
		res.Status = StatusSpawnError
	case out.TimedOut:
		res.Status = StatusTimeout
		res.TimedOut = true
		if res.Error == "" {
			res.Error = "compilation timed out"
		}
	}
	return true, res
}

// cleanup is idempotent; failures must never block result delivery.
func (d *Dispatcher) cleanup(dir string) {
	if err := os.RemoveAll(dir); err != nil {
		d.log.Warn().Err(err).Str("dir", dir).Msg("artifact cleanup failed")
	}
}

func (d *Dispatcher) roomLock(room string) *sync.Mutex {
	d.mu.Lock()
	defer d.mu.Unlock()
	l, ok := d.locks[room]
	if !ok {
		l = &sync.Mutex{}
		d.locks[room] = l
	}
	return l
}

// sanitize keeps room-derived path segments safe for filenames. Room ids are
// client-chosen and must not escape the temp dir.
func sanitize(s string) string {
	out := make([]rune, 0, len(s))
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			out = append(out, r)
		default:
			out = append(out, '_')
		}
	}
	if len(out) == 0 {
		return "room"
	}
	return string(out)
}
