package invoker

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"toolrun/internal/logger"

	"github.com/google/uuid"
)

// DefaultDrainTimeout bounds how long output readers may run on after the
// child has exited, e.g. when a detached grandchild still holds the pipes.
const DefaultDrainTimeout = 2 * time.Second

// Options configures an Invoker. Every field is optional.
type Options struct {
	Launcher  ProcessLauncher
	Resolver  Resolver
	Publisher Publisher
	// OnLine receives streamed output. Calls for one invocation are serialised.
	OnLine       func(Line)
	Log          *logger.LogEntry
	DrainTimeout time.Duration
}

// Invoker turns a ToolConfig into exactly one child process and one Result.
// It holds no per-invocation state and is safe for concurrent use.
type Invoker struct {
	launcher     ProcessLauncher
	resolver     Resolver
	publisher    Publisher
	onLine       func(Line)
	log          *logger.LogEntry
	drainTimeout time.Duration
}

func New(opts Options) *Invoker {
	inv := &Invoker{
		launcher:     opts.Launcher,
		resolver:     opts.Resolver,
		publisher:    opts.Publisher,
		onLine:       opts.OnLine,
		log:          opts.Log,
		drainTimeout: opts.DrainTimeout,
	}
	if inv.launcher == nil {
		inv.launcher = ExecLauncher{}
	}
	if inv.publisher == nil {
		inv.publisher = nopPublisher{}
	}
	if inv.log == nil {
		inv.log = defaultLog()
	}
	if inv.drainTimeout <= 0 {
		inv.drainTimeout = DefaultDrainTimeout
	}
	return inv
}

// Invoke validates cfg, resolves and launches the executable and waits for it
// to exit, for cfg.Timeout to elapse or for ctx to be cancelled.
//
// The error is non-nil only for an invalid configuration, in which case
// nothing was launched. Every other ending, including a missing tool, is
// reported through Result.Outcome.
func (inv *Invoker) Invoke(ctx context.Context, cfg ToolConfig) (Result, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	run := &invocation{
		inv: inv,
		id:  uuid.NewString(),
		cfg: cfg,
	}
	run.log = inv.log.WithFields(logger.Fields{"id": run.id, "tool": cfg.ExecutableName})

	run.transition(StateValidating)
	if err := cfg.Validate(); err != nil {
		run.log.WithError(err).Warn("rejected tool config")
		return Result{}, err
	}
	return run.finish(run.execute(ctx)), nil
}

type invocation struct {
	inv    *Invoker
	id     string
	cfg    ToolConfig
	log    *logger.LogEntry
	lineMu sync.Mutex
}

type exitStatus struct {
	code int
	err  error
}

func (r *invocation) execute(ctx context.Context) Result {
	res := Result{
		ID:             r.id,
		ExecutableName: r.cfg.ExecutableName,
		ExitCode:       -1,
		Started:        time.Now(),
	}

	r.transition(StateResolving)
	path, err := r.inv.resolver.Resolve(r.cfg)
	if err != nil {
		res.Outcome = OutcomeToolNotFound
		res.Err = err
		return res
	}
	res.Path = path

	r.transition(StateBuilding)
	payload, err := MaterializeArguments(BuildArgumentSequence(r.cfg), r.cfg)
	if err != nil {
		res.Outcome = OutcomeLaunchError
		res.Err = err
		return res
	}
	defer func() {
		if err := payload.Cleanup(); err != nil {
			r.log.WithError(err).Warnf("failed to remove response file %s", payload.ResponseFile)
		}
	}()
	res.Args = payload.Args
	if payload.ResponseFile != "" {
		r.log.WithField("response_file", payload.ResponseFile).Debug("arguments written to response file")
	}

	if err := ctx.Err(); err != nil {
		res.Outcome = OutcomeCancelled
		return res
	}

	r.transition(StateLaunching)
	var env []string
	if len(r.cfg.Env) > 0 {
		env = mergeEnv(os.Environ(), r.cfg.Env)
	}
	proc, err := r.inv.launcher.Start(LaunchSpec{
		Path: path,
		Args: payload.Args,
		Dir:  r.cfg.WorkingDir,
		Env:  env,
	})
	if err != nil {
		res.Outcome = OutcomeLaunchError
		res.Err = fmt.Errorf("start %s: %w", path, err)
		return res
	}
	r.transition(StateRunning)
	r.log.WithField("pid", proc.Pid()).Info("process started")
	r.inv.publisher.Publish(StartedEvent{ID: r.id, Path: path, Args: append([]string(nil), payload.Args...), Pid: proc.Pid()})

	limit := r.cfg.captureLimit()
	stdout, stderr := newTailBuffer(limit), newTailBuffer(limit)
	var readers sync.WaitGroup
	readers.Add(2)
	go r.pump(&readers, proc.Stdout(), stdout, StreamStdout)
	go r.pump(&readers, proc.Stderr(), stderr, StreamStderr)

	waitCh := make(chan exitStatus, 1)
	go func() {
		code, err := proc.Wait()
		waitCh <- exitStatus{code: code, err: err}
	}()

	var timeout <-chan time.Time
	if r.cfg.Timeout > 0 {
		timer := time.NewTimer(r.cfg.Timeout)
		defer timer.Stop()
		timeout = timer.C
	}

	var status exitStatus
	select {
	case status = <-waitCh:
		res.Outcome = classify(status)
	case <-timeout:
		status, res.Outcome = r.stop(proc, waitCh, OutcomeTimedOut)
	case <-ctx.Done():
		status, res.Outcome = r.stop(proc, waitCh, OutcomeCancelled)
	}
	r.drain(proc, &readers)

	res.ExitCode = status.code
	if status.err != nil && res.Outcome == OutcomeLaunchError {
		res.Err = fmt.Errorf("wait %s: %w", path, status.err)
	}
	res.Stdout, res.StdoutTruncated = stdout.String(), stdout.Truncated()
	res.Stderr, res.StderrTruncated = stderr.String(), stderr.Truncated()
	return res
}

// stop kills the process tree unless the child has already exited, in which
// case the known outcome wins.
func (r *invocation) stop(proc Process, waitCh <-chan exitStatus, reason Outcome) (exitStatus, Outcome) {
	select {
	case status := <-waitCh:
		return status, classify(status)
	default:
	}
	r.log.WithField("reason", reason.String()).Warn("terminating process tree")
	if err := proc.Kill(); err != nil {
		r.log.WithError(err).Warn("kill failed")
	}
	return <-waitCh, reason
}

func (r *invocation) drain(proc Process, readers *sync.WaitGroup) {
	done := make(chan struct{})
	go func() {
		readers.Wait()
		close(done)
	}()
	timer := time.NewTimer(r.inv.drainTimeout)
	defer timer.Stop()
	select {
	case <-done:
	case <-timer.C:
		r.log.Warn("output still open after exit; closing streams")
	}
	if err := proc.Close(); err != nil {
		r.log.WithError(err).Debug("close output streams")
	}
	<-done
}

func (r *invocation) pump(wg *sync.WaitGroup, src io.Reader, capture *tailBuffer, stream Stream) {
	defer wg.Done()
	err := readLines(src, capture, func(text string) {
		r.emit(Line{Stream: stream, Text: text})
	})
	if err != nil && !errors.Is(err, os.ErrClosed) {
		r.log.WithError(err).WithField("stream", string(stream)).Debug("output stream ended")
	}
}

func (r *invocation) emit(line Line) {
	if r.inv.onLine != nil {
		r.lineMu.Lock()
		r.inv.onLine(line)
		r.lineMu.Unlock()
	}
	r.inv.publisher.Publish(LineEvent{ID: r.id, Line: line})
}

func (r *invocation) transition(state State) {
	r.log.WithField("state", string(state)).Debug("state changed")
	r.inv.publisher.Publish(StateEvent{ID: r.id, State: state, Tool: r.cfg.ExecutableName})
}

func (r *invocation) finish(res Result) Result {
	res.Duration = time.Since(res.Started)
	r.transition(res.Outcome.State())
	entry := r.log.WithFields(logger.Fields{
		"outcome":     res.Outcome.String(),
		"exit_code":   res.ExitCode,
		"duration_ms": res.Duration.Milliseconds(),
	})
	if res.Err != nil {
		entry = entry.WithError(res.Err)
	}
	if res.Outcome == OutcomeSuccess {
		entry.Info("invocation finished")
	} else {
		entry.Warn("invocation finished")
	}
	r.inv.publisher.Publish(FinishedEvent{Result: res})
	return res
}

func classify(status exitStatus) Outcome {
	switch {
	case status.err != nil:
		return OutcomeLaunchError
	case status.code == 0:
		return OutcomeSuccess
	default:
		return OutcomeToolFailure
	}
}
