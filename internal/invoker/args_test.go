package invoker_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"toolrun/internal/invoker"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildArgumentSequence_NUnitExample(t *testing.T) {
	cfg := invoker.ToolConfig{
		ExecutableName: "nunit3-console.exe",
		Arguments:      []string{"A.dll", "B.dll"},
		Flags:          []invoker.Flag{{Name: "--x86", Enabled: true}},
		Switches: []invoker.Switch{
			{Name: "agents"},
			{Name: "framework", Value: "  "},
			{Name: "result", Value: "out.xml;format=nunit2"},
			{Name: "where"},
		},
	}

	got := invoker.BuildArgumentSequence(cfg)
	assert.Equal(t, []string{"A.dll", "B.dll", "--x86", "--result=out.xml;format=nunit2"}, got)
}

func TestBuildArgumentSequence_OrderAndDeterminism(t *testing.T) {
	cfg := invoker.ToolConfig{
		ExecutableName: "tool",
		Switches: []invoker.Switch{
			{Name: "zeta", Value: "1"},
			{Name: "alpha", Value: "2"},
		},
		Flags: []invoker.Flag{
			{Name: "--verbose", Enabled: true},
			{Name: "--quiet", Enabled: false},
			{Name: "--noresult", Enabled: true},
		},
		Arguments: []string{"in/first.dll", "in/second.dll"},
	}

	first := invoker.BuildArgumentSequence(cfg)
	for i := 0; i < 20; i++ {
		require.Equal(t, first, invoker.BuildArgumentSequence(cfg))
	}
	assert.Equal(t, []string{
		"in/first.dll", "in/second.dll",
		"--verbose", "--noresult",
		"--zeta=1", "--alpha=2",
	}, first)
}

func TestBuildArgumentSequence_BlankSwitchesNeverEmitted(t *testing.T) {
	cases := []struct {
		name  string
		value string
	}{
		{name: "empty", value: ""},
		{name: "spaces", value: "   "},
		{name: "tabs and newline", value: "\t\n"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := invoker.ToolConfig{ExecutableName: "tool"}.WithSwitch("agents", tc.value)
			got := invoker.BuildArgumentSequence(cfg)
			assert.Empty(t, got)
		})
	}
}

func TestBuildArgumentSequence_SwitchEmittedOnceVerbatim(t *testing.T) {
	cfg := invoker.ToolConfig{ExecutableName: "tool"}.
		WithSwitch("where", "cat == Fast && test =~ /Api/").
		WithSwitch("--framework", "net-4.8")

	got := invoker.BuildArgumentSequence(cfg)
	assert.Equal(t, []string{"--where=cat == Fast && test =~ /Api/", "--framework=net-4.8"}, got)
	count := 0
	for _, arg := range got {
		if strings.HasPrefix(arg, "--where=") {
			count++
		}
	}
	assert.Equal(t, 1, count)
}

func TestWithSwitchDoesNotAliasOriginal(t *testing.T) {
	base := invoker.ToolConfig{ExecutableName: "tool", Switches: make([]invoker.Switch, 0, 4)}
	a := base.WithSwitch("a", "1")
	b := base.WithSwitch("b", "2")
	assert.Equal(t, []string{"--a=1"}, invoker.BuildArgumentSequence(a))
	assert.Equal(t, []string{"--b=2"}, invoker.BuildArgumentSequence(b))
	assert.Empty(t, base.Switches)
}

func TestMaterializeArguments_Inline(t *testing.T) {
	args := []string{"A.dll", "--x86"}
	payload, err := invoker.MaterializeArguments(args, invoker.ToolConfig{ExecutableName: "tool"})
	require.NoError(t, err)
	assert.Equal(t, args, payload.Args)
	assert.Empty(t, payload.ResponseFile)
	assert.NoError(t, payload.Cleanup())
}

func TestMaterializeArguments_ResponseFile(t *testing.T) {
	dir := t.TempDir()
	cfg := invoker.ToolConfig{ExecutableName: "tool", UseResponseFile: true, ResponseFileDir: dir}
	args := []string{"A.dll", "B dir/B.dll", "--x86", "--result=out.xml;format=nunit2", "--where=name ~ ü"}

	payload, err := invoker.MaterializeArguments(args, cfg)
	require.NoError(t, err)
	require.NotEmpty(t, payload.ResponseFile)
	assert.Equal(t, dir, filepath.Dir(payload.ResponseFile))
	assert.Equal(t, []string{"@" + payload.ResponseFile}, payload.Args)

	data, err := os.ReadFile(payload.ResponseFile)
	require.NoError(t, err)
	assert.Equal(t, strings.Join(args, "\n")+"\n", string(data))

	require.NoError(t, payload.Cleanup())
	_, err = os.Stat(payload.ResponseFile)
	assert.True(t, os.IsNotExist(err))
	assert.NoError(t, payload.Cleanup(), "cleanup must be idempotent")
}

func TestMaterializeArguments_RelativeDirYieldsAbsolutePath(t *testing.T) {
	base := t.TempDir()
	t.Chdir(base)
	require.NoError(t, os.Mkdir("rsp", 0o755))
	require.NoError(t, os.Mkdir("work", 0o755))
	cfg := invoker.ToolConfig{ExecutableName: "tool", UseResponseFile: true, ResponseFileDir: "rsp", WorkingDir: "work"}

	payload, err := invoker.MaterializeArguments([]string{"A.dll"}, cfg)
	require.NoError(t, err)
	defer payload.Cleanup()

	require.True(t, filepath.IsAbs(payload.ResponseFile), "got %q", payload.ResponseFile)
	assert.Equal(t, []string{"@" + payload.ResponseFile}, payload.Args)

	// The child starts in WorkingDir and must still find the file.
	t.Chdir(filepath.Join(base, "work"))
	data, err := os.ReadFile(payload.ResponseFile)
	require.NoError(t, err)
	assert.Equal(t, "A.dll\n", string(data))
}

func TestMaterializeArguments_CustomPrefixAndUniqueNames(t *testing.T) {
	dir := t.TempDir()
	cfg := invoker.ToolConfig{ExecutableName: "tool", UseResponseFile: true, ResponseFileDir: dir, ResponseFilePrefix: "--args-file="}

	first, err := invoker.MaterializeArguments([]string{"a"}, cfg)
	require.NoError(t, err)
	defer first.Cleanup()
	second, err := invoker.MaterializeArguments([]string{"a"}, cfg)
	require.NoError(t, err)
	defer second.Cleanup()

	assert.NotEqual(t, first.ResponseFile, second.ResponseFile)
	assert.Equal(t, "--args-file="+first.ResponseFile, first.Args[0])
}

func TestMaterializeArguments_RejectsLineBreaks(t *testing.T) {
	dir := t.TempDir()
	cfg := invoker.ToolConfig{ExecutableName: "tool", UseResponseFile: true, ResponseFileDir: dir}

	_, err := invoker.MaterializeArguments([]string{"ok", "bad\nvalue"}, cfg)
	require.Error(t, err)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries, "no response file may be left behind")
}
