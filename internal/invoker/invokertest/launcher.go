// Package invokertest provides an in-memory ProcessLauncher so invoker
// behaviour can be tested without spawning real processes.
package invokertest

import (
	"io"
	"sync"
	"time"

	"toolrun/internal/invoker"
)

// Script describes how a fake process behaves.
type Script struct {
	Stdout   []string
	Stderr   []string
	ExitCode int
	// Delay postpones the exit after output has been written.
	Delay time.Duration
	// Hang keeps the process alive until it is killed.
	Hang bool
	// StartErr makes Start fail.
	StartErr error
	// WaitErr is returned from Wait alongside ExitCode.
	WaitErr error
}

// Launcher records every Start call and returns scripted processes.
type Launcher struct {
	Script Script
	// OnStart runs synchronously inside Start, before the process exists.
	OnStart func(spec invoker.LaunchSpec)

	mu     sync.Mutex
	starts []invoker.LaunchSpec
	procs  []*Process
}

func (l *Launcher) Start(spec invoker.LaunchSpec) (invoker.Process, error) {
	l.mu.Lock()
	l.starts = append(l.starts, spec)
	script := l.Script
	l.mu.Unlock()

	if l.OnStart != nil {
		l.OnStart(spec)
	}
	if script.StartErr != nil {
		return nil, script.StartErr
	}
	p := newProcess(script)

	l.mu.Lock()
	l.procs = append(l.procs, p)
	l.mu.Unlock()
	return p, nil
}

// Starts returns the specs passed to Start so far.
func (l *Launcher) Starts() []invoker.LaunchSpec {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]invoker.LaunchSpec(nil), l.starts...)
}

// Processes returns the processes started so far.
func (l *Launcher) Processes() []*Process {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]*Process(nil), l.procs...)
}

var nextPid = struct {
	sync.Mutex
	n int
}{n: 4000}

// Process is a fake child driven by a Script.
type Process struct {
	pid    int
	script Script

	outR, errR *io.PipeReader
	outW, errW *io.PipeWriter

	kill     chan struct{}
	killOnce sync.Once
	exited   chan struct{}

	mu     sync.Mutex
	code   int
	killed bool
	closed bool
}

func newProcess(script Script) *Process {
	nextPid.Lock()
	nextPid.n++
	pid := nextPid.n
	nextPid.Unlock()

	p := &Process{
		pid:    pid,
		script: script,
		kill:   make(chan struct{}),
		exited: make(chan struct{}),
	}
	p.outR, p.outW = io.Pipe()
	p.errR, p.errW = io.Pipe()
	go p.run()
	return p
}

func (p *Process) run() {
	var wg sync.WaitGroup
	wg.Add(2)
	go writeLines(&wg, p.outW, p.script.Stdout)
	go writeLines(&wg, p.errW, p.script.Stderr)
	wg.Wait()

	code := p.script.ExitCode
	switch {
	case p.script.Hang:
		<-p.kill
		code = -1
	case p.script.Delay > 0:
		select {
		case <-time.After(p.script.Delay):
		case <-p.kill:
			code = -1
		}
	}
	_ = p.outW.Close()
	_ = p.errW.Close()

	p.mu.Lock()
	p.code = code
	p.mu.Unlock()
	close(p.exited)
}

func writeLines(wg *sync.WaitGroup, w *io.PipeWriter, lines []string) {
	defer wg.Done()
	for _, line := range lines {
		if _, err := io.WriteString(w, line+"\n"); err != nil {
			return
		}
	}
}

func (p *Process) Pid() int          { return p.pid }
func (p *Process) Stdout() io.Reader { return p.outR }
func (p *Process) Stderr() io.Reader { return p.errR }

func (p *Process) Wait() (int, error) {
	<-p.exited
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.code, p.script.WaitErr
}

func (p *Process) Kill() error {
	p.killOnce.Do(func() {
		p.mu.Lock()
		p.killed = true
		p.mu.Unlock()
		close(p.kill)
	})
	return nil
}

func (p *Process) Close() error {
	p.mu.Lock()
	p.closed = true
	p.mu.Unlock()
	_ = p.outR.Close()
	_ = p.errR.Close()
	return nil
}

// Killed reports whether Kill was called.
func (p *Process) Killed() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.killed
}

// Running reports whether the fake process has not exited yet.
func (p *Process) Running() bool {
	select {
	case <-p.exited:
		return false
	default:
		return true
	}
}

// Closed reports whether the output streams were released.
func (p *Process) Closed() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.closed
}
