//go:build !windows

package invoker

import (
	"io"
	"os"
	"os/exec"
	"strings"

	"github.com/creack/pty"
)

// PTYLauncher runs the child on a pseudo-terminal. Tools that only flush or
// colour their output when attached to a terminal behave as they would
// interactively; stdout and stderr arrive merged on the stdout stream.
type PTYLauncher struct {
	Rows uint16
	Cols uint16
}

func (l PTYLauncher) Start(spec LaunchSpec) (Process, error) {
	cmd := exec.Command(spec.Path, spec.Args...)
	cmd.Dir = spec.Dir
	cmd.Env = spec.Env

	size := &pty.Winsize{Rows: l.Rows, Cols: l.Cols}
	if size.Rows == 0 {
		size.Rows = 50
	}
	if size.Cols == 0 {
		size.Cols = 200
	}
	// pty.Start makes the child a session leader, so its pid doubles as the
	// process group id for killTree.
	ptmx, err := pty.StartWithSize(cmd, size)
	if err != nil {
		return nil, err
	}
	return &ptyProcess{cmd: cmd, ptmx: ptmx}, nil
}

type ptyProcess struct {
	cmd  *exec.Cmd
	ptmx *os.File
}

func (p *ptyProcess) Pid() int           { return p.cmd.Process.Pid }
func (p *ptyProcess) Stdout() io.Reader  { return p.ptmx }
func (p *ptyProcess) Stderr() io.Reader  { return strings.NewReader("") }
func (p *ptyProcess) Wait() (int, error) { return waitExitCode(p.cmd) }
func (p *ptyProcess) Kill() error        { return killTree(p.cmd.Process) }
func (p *ptyProcess) Close() error       { return p.ptmx.Close() }
