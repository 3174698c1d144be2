package invoker

import (
	"errors"
	"io"
	"os"
	"os/exec"
	"runtime"
	"sort"
	"strings"
)

// LaunchSpec is everything a launcher needs to start the child.
// A nil Env inherits the current environment.
type LaunchSpec struct {
	Path string
	Args []string
	Dir  string
	Env  []string
}

// Process is a started child.
//
// Wait blocks until the child exits and returns its exit code; the error is
// non-nil only when waiting itself failed. Kill terminates the child and, best
// effort, its descendants. Close releases the output streams so pending reads
// return.
type Process interface {
	Pid() int
	Stdout() io.Reader
	Stderr() io.Reader
	Wait() (int, error)
	Kill() error
	Close() error
}

// ProcessLauncher starts processes. Invoker depends only on this interface.
type ProcessLauncher interface {
	Start(spec LaunchSpec) (Process, error)
}

// ExecLauncher starts the child with os/exec in its own process group and
// exposes stdout and stderr as separate pipes.
type ExecLauncher struct{}

func (ExecLauncher) Start(spec LaunchSpec) (Process, error) {
	cmd := exec.Command(spec.Path, spec.Args...)
	cmd.Dir = spec.Dir
	cmd.Env = spec.Env
	setProcessGroup(cmd)

	outR, outW, err := os.Pipe()
	if err != nil {
		return nil, err
	}
	errR, errW, err := os.Pipe()
	if err != nil {
		_ = outR.Close()
		_ = outW.Close()
		return nil, err
	}
	cmd.Stdout = outW
	cmd.Stderr = errW

	if err := cmd.Start(); err != nil {
		closeAll(outR, outW, errR, errW)
		return nil, err
	}
	// The child holds its own copies of the write ends.
	closeAll(outW, errW)
	return &execProcess{cmd: cmd, stdout: outR, stderr: errR}, nil
}

type execProcess struct {
	cmd    *exec.Cmd
	stdout *os.File
	stderr *os.File
}

func (p *execProcess) Pid() int          { return p.cmd.Process.Pid }
func (p *execProcess) Stdout() io.Reader { return p.stdout }
func (p *execProcess) Stderr() io.Reader { return p.stderr }
func (p *execProcess) Wait() (int, error) {
	return waitExitCode(p.cmd)
}
func (p *execProcess) Kill() error { return killTree(p.cmd.Process) }
func (p *execProcess) Close() error {
	return errors.Join(p.stdout.Close(), p.stderr.Close())
}

func waitExitCode(cmd *exec.Cmd) (int, error) {
	err := cmd.Wait()
	if err == nil {
		return 0, nil
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode(), nil
	}
	return -1, err
}

func closeAll(files ...*os.File) {
	for _, f := range files {
		if f != nil {
			_ = f.Close()
		}
	}
}

// mergeEnv overlays overrides on base. Override keys are applied in sorted
// order so the resulting environment is deterministic.
func mergeEnv(base []string, overrides map[string]string) []string {
	if len(overrides) == 0 {
		return nil
	}
	keys := make([]string, 0, len(overrides))
	for k := range overrides {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	env := append([]string{}, base...)
	for _, k := range keys {
		env = setEnv(env, k, overrides[k])
	}
	return env
}

func setEnv(env []string, key, value string) []string {
	prefix := key + "="
	for i, kv := range env {
		if envKeyMatch(kv, prefix) {
			env[i] = prefix + value
			return env
		}
	}
	return append(env, prefix+value)
}

func envKeyMatch(kv, prefix string) bool {
	if runtime.GOOS == "windows" {
		return len(kv) >= len(prefix) && strings.EqualFold(kv[:len(prefix)], prefix)
	}
	return strings.HasPrefix(kv, prefix)
}
