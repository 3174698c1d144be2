//go:build windows

package invoker

import (
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"

	"golang.org/x/sys/windows"
)

func isExecutableFile(path string) bool {
	_, ok := isRegularFile(path)
	return ok
}

func executableCandidates(dir, name string) []string {
	base := filepath.Join(dir, name)
	if filepath.Ext(name) != "" {
		return []string{base}
	}
	exts := os.Getenv("PATHEXT")
	if exts == "" {
		exts = ".com;.exe;.bat;.cmd"
	}
	out := []string{base}
	for _, ext := range strings.Split(strings.ToLower(exts), ";") {
		if ext = strings.TrimSpace(ext); ext != "" {
			out = append(out, base+ext)
		}
	}
	return out
}

func setProcessGroup(cmd *exec.Cmd) {
	if cmd.SysProcAttr == nil {
		cmd.SysProcAttr = &syscall.SysProcAttr{}
	}
	cmd.SysProcAttr.CreationFlags |= windows.CREATE_NEW_PROCESS_GROUP
}

// killTree asks taskkill to terminate p and its descendants, falling back to p alone.
func killTree(p *os.Process) error {
	if p == nil {
		return nil
	}
	if err := exec.Command("taskkill", "/T", "/F", "/PID", strconv.Itoa(p.Pid)).Run(); err == nil {
		return nil
	}
	if err := p.Kill(); err != nil && !errors.Is(err, os.ErrProcessDone) {
		return err
	}
	return nil
}
