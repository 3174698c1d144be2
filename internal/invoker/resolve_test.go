package invoker_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"toolrun/internal/invoker"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeExecutable(t *testing.T, dir, name string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\nexit 0\n"), 0o755))
	return path
}

func failingLookPath(t *testing.T) func(string) (string, error) {
	return func(file string) (string, error) {
		t.Fatalf("search path consulted for %q", file)
		return "", errors.New("unreachable")
	}
}

func TestResolve_ToolPathOverrideSkipsSearch(t *testing.T) {
	dir := t.TempDir()
	writeExecutable(t, dir, "nunit3-console.exe")

	r := invoker.Resolver{LookPath: failingLookPath(t)}
	got, err := r.Resolve(invoker.ToolConfig{ExecutableName: "nunit3-console.exe", ToolPath: dir})
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "nunit3-console.exe"), got)
}

func TestResolve_RelativeToolPathUsesWorkingDir(t *testing.T) {
	base := t.TempDir()
	t.Chdir(base)
	require.NoError(t, os.MkdirAll(filepath.Join("work", "tools"), 0o755))
	want := writeExecutable(t, filepath.Join(base, "work", "tools"), "runner")
	// Same name relative to the process directory must not be picked up.
	require.NoError(t, os.MkdirAll("tools", 0o755))
	writeExecutable(t, "tools", "runner")

	r := invoker.Resolver{LookPath: failingLookPath(t)}
	got, err := r.Resolve(invoker.ToolConfig{ExecutableName: "runner", ToolPath: "tools", WorkingDir: "work"})
	require.NoError(t, err)
	assert.True(t, filepath.IsAbs(got), "got %q", got)
	assertSameFile(t, want, got)
}

func assertSameFile(t *testing.T, want, got string) {
	t.Helper()
	wantInfo, err := os.Stat(want)
	require.NoError(t, err)
	gotInfo, err := os.Stat(got)
	require.NoError(t, err)
	assert.True(t, os.SameFile(wantInfo, gotInfo), "want %q, got %q", want, got)
}

func TestResolve_ToolPathOverrideMissing(t *testing.T) {
	dir := t.TempDir()
	r := invoker.Resolver{LookPath: failingLookPath(t)}

	_, err := r.Resolve(invoker.ToolConfig{ExecutableName: "nunit3-console.exe", ToolPath: dir})
	require.Error(t, err)
	assert.True(t, invoker.IsToolNotFound(err))

	var nf *invoker.ToolNotFoundError
	require.True(t, errors.As(err, &nf))
	assert.Equal(t, []string{dir}, nf.Searched)
}

func TestResolve_SearchPathsBeforeInheritedPath(t *testing.T) {
	first := t.TempDir()
	second := t.TempDir()
	want := writeExecutable(t, second, "runner")
	writeExecutable(t, t.TempDir(), "runner")

	r := invoker.Resolver{LookPath: failingLookPath(t)}
	got, err := r.Resolve(invoker.ToolConfig{ExecutableName: "runner", SearchPaths: []string{"", first, second}})
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestResolve_FallsBackToLookPath(t *testing.T) {
	var asked string
	r := invoker.Resolver{LookPath: func(file string) (string, error) {
		asked = file
		return "/opt/tools/" + file, nil
	}}

	got, err := r.Resolve(invoker.ToolConfig{ExecutableName: "runner", SearchPaths: []string{t.TempDir()}})
	require.NoError(t, err)
	assert.Equal(t, "runner", asked)
	assert.Equal(t, "/opt/tools/runner", got)
}

func TestResolve_NotFoundWithSuggestions(t *testing.T) {
	dir := t.TempDir()
	writeExecutable(t, dir, "nunit3-console.exe")
	writeExecutable(t, dir, "unrelated")
	t.Setenv("PATH", "")

	r := invoker.Resolver{LookPath: func(string) (string, error) { return "", errors.New("not found") }}
	_, err := r.Resolve(invoker.ToolConfig{ExecutableName: "nunit3-consol.exe", SearchPaths: []string{dir}})
	require.Error(t, err)

	var nf *invoker.ToolNotFoundError
	require.True(t, errors.As(err, &nf))
	assert.Equal(t, "nunit3-consol.exe", nf.Name)
	assert.Contains(t, nf.Suggestions, "nunit3-console.exe")
	assert.NotContains(t, nf.Suggestions, "unrelated")
	assert.Contains(t, err.Error(), "did you mean")
}

func TestResolve_RelativePathUsesWorkingDir(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "tools"), 0o755))
	want := writeExecutable(t, filepath.Join(dir, "tools"), "runner")

	r := invoker.Resolver{LookPath: failingLookPath(t)}
	got, err := r.Resolve(invoker.ToolConfig{
		ExecutableName: filepath.Join("tools", "runner"),
		WorkingDir:     dir,
	})
	require.NoError(t, err)
	assert.Equal(t, want, got)
}
