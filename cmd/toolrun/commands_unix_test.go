//go:build !windows

package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"toolrun/internal/history"
)

func writeTool(t *testing.T, dir, name, body string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte("#!/bin/sh\n"+body+"\n"), 0o755); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
}

func TestRunMain_RelaysOutputAndExitCode(t *testing.T) {
	root, histPath := testRoot(t)
	dir := t.TempDir()
	writeTool(t, dir, "runner", `echo "Test Count: 2, Passed: 1, Failed: 1"; echo "1) Failed : Api.Test" >&2; exit 3`)

	var out, errOut bytes.Buffer
	code := runMain(root, []string{"--tool", "runner", "--tool-path", dir}, &out, &errOut)
	if code != 3 {
		t.Fatalf("code = %d, want 3 (stderr %s)", code, errOut.String())
	}
	if out.String() != "Test Count: 2, Passed: 1, Failed: 1\n" {
		t.Fatalf("stdout = %q", out.String())
	}
	if !strings.Contains(errOut.String(), "1) Failed : Api.Test\n") || !strings.Contains(errOut.String(), "failed (exit 3)") {
		t.Fatalf("stderr = %q", errOut.String())
	}

	entries, err := (&history.Store{Path: histPath}).Load()
	if err != nil || len(entries) != 1 {
		t.Fatalf("history = %v, err = %v", entries, err)
	}
	if entries[0].Outcome != "tool_failure" || entries[0].ExitCode != 3 {
		t.Fatalf("history entry = %#v", entries[0])
	}
}

func TestRunMain_OutcomeExitCodes(t *testing.T) {
	root, _ := testRoot(t)
	dir := t.TempDir()
	writeTool(t, dir, "slow", `exec sleep 30`)

	var out, errOut bytes.Buffer
	if code := runMain(root, []string{"--no-history", "--tool", "slow", "--tool-path", dir, "--timeout", "200ms"}, &out, &errOut); code != exitTimedOut {
		t.Fatalf("timeout code = %d, want %d", code, exitTimedOut)
	}
	if code := runMain(root, []string{"--no-history", "--tool", "missing", "--tool-path", dir}, &out, &errOut); code != exitNotFound {
		t.Fatalf("missing code = %d, want %d", code, exitNotFound)
	}
}

func TestRunMain_ConfigFile(t *testing.T) {
	root, _ := testRoot(t)
	dir := t.TempDir()
	writeTool(t, dir, "show", `for a in "$@"; do echo "$a"; done; echo "mode=$TOOLRUN_MODE"`)
	cfgPath := filepath.Join(t.TempDir(), "toolrun.toml")
	if err := os.WriteFile(cfgPath, []byte(`
[tool]
name = "show"
path = "`+dir+`"
args = ["A.dll"]

[tool.env]
TOOLRUN_MODE = "config"

[[tool.switch]]
name = "result"
value = "out.xml"
`), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	var out, errOut bytes.Buffer
	code := runMain(root, []string{"--config", cfgPath, "--no-history", "--env", "TOOLRUN_MODE=flag", "--", "B.dll"}, &out, &errOut)
	if code != 0 {
		t.Fatalf("code = %d (stderr %s)", code, errOut.String())
	}
	want := "A.dll\nB.dll\n--result=out.xml\nmode=flag\n"
	if out.String() != want {
		t.Fatalf("stdout = %q, want %q", out.String(), want)
	}
}

func TestNUnitMain_DeliversResponseFile(t *testing.T) {
	root, _ := testRoot(t)
	dir := t.TempDir()
	writeTool(t, dir, "nunit3-console.exe", `cat "${1#@}"`)

	var out, errOut bytes.Buffer
	code := nunitMain(root, []string{
		"--no-history",
		"--tool-path", dir,
		"--response-dir", t.TempDir(),
		"--x86",
		"--agents=",
		"--result", "out.xml;format=nunit2",
		"A.dll", "B.dll",
	}, &out, &errOut)
	if code != 0 {
		t.Fatalf("code = %d (stderr %s)", code, errOut.String())
	}
	want := "A.dll\nB.dll\n--x86\n--result=out.xml;format=nunit2\n"
	if out.String() != want {
		t.Fatalf("stdout = %q, want %q", out.String(), want)
	}
}
