package config

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"toolrun/internal/invoker"
)

func clearEnv(t *testing.T) {
	t.Helper()
	t.Setenv("TOOLRUN_TOOL_PATH", "")
	t.Setenv("TOOLRUN_TIMEOUT", "")
	t.Setenv("TOOLRUN_LOG_LEVEL", "")
}

func TestLoad_MissingFile_UsesDefaults(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "toolrun.toml")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Source != path {
		t.Fatalf("cfg.Source = %q, want %q", cfg.Source, path)
	}
	if cfg.Tool.Name != "" || cfg.LogLevel != "" {
		t.Fatalf("expected empty defaults, got %+v", cfg)
	}
}

func TestLoad_ToolFromTOML(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "toolrun.toml")
	if err := os.WriteFile(path, []byte(`
log_level = "debug"

[tool]
name = "nunit3-console.exe"
path = "/opt/nunit"
args = ["A.dll", "B.dll"]
flags = ["--x86"]
response_file = true
timeout = "90s"

[tool.env]
NUNIT_INTERNAL_TRACE = "1"

[[tool.switch]]
name = "result"
value = "out.xml;format=nunit2"

[[tool.switch]]
name = "agents"
value = ""
`), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.LogLevel != "debug" {
		t.Fatalf("LogLevel = %q", cfg.LogLevel)
	}
	inv, err := cfg.Tool.Invocation()
	if err != nil {
		t.Fatalf("Invocation: %v", err)
	}
	if inv.ToolPath != "/opt/nunit" || !inv.UseResponseFile || inv.Timeout != 90*time.Second {
		t.Fatalf("unexpected invocation: %+v", inv)
	}
	if inv.Env["NUNIT_INTERNAL_TRACE"] != "1" {
		t.Fatalf("env = %v", inv.Env)
	}
	got := invoker.BuildArgumentSequence(inv)
	want := []string{"A.dll", "B.dll", "--x86", "--result=out.xml;format=nunit2"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("args = %q, want %q", got, want)
	}
}

func TestLoad_InvalidTOML(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "toolrun.toml")
	if err := os.WriteFile(path, []byte("[tool\nname = 1"), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	if _, err := Load(path); err == nil {
		t.Fatalf("expected parse error")
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("TOOLRUN_TOOL_PATH", "/env/tools")
	t.Setenv("TOOLRUN_TIMEOUT", "2m")
	t.Setenv("TOOLRUN_LOG_LEVEL", "warn")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Tool.Path != "/env/tools" || cfg.NUnit.ToolPath != "/env/tools" {
		t.Fatalf("tool path override not applied: %+v", cfg)
	}
	if cfg.Tool.Timeout != "2m" || cfg.LogLevel != "warn" {
		t.Fatalf("overrides not applied: %+v", cfg)
	}
}

func TestParseTimeout(t *testing.T) {
	cases := []struct {
		raw     string
		want    time.Duration
		wantErr bool
	}{
		{raw: "", want: 0},
		{raw: "1m30s", want: 90 * time.Second},
		{raw: "45", want: 45 * time.Second},
		{raw: "soon", wantErr: true},
	}
	for _, tc := range cases {
		got, err := ParseTimeout(tc.raw)
		if tc.wantErr {
			if !invoker.IsConfigInvalid(err) {
				t.Fatalf("ParseTimeout(%q) err = %v, want config error", tc.raw, err)
			}
			continue
		}
		if err != nil || got != tc.want {
			t.Fatalf("ParseTimeout(%q) = %v, %v; want %v", tc.raw, got, err, tc.want)
		}
	}
}

func TestApplyKVOverrides(t *testing.T) {
	cfg := Default()
	cfg.Tool.Switches = []SwitchSection{{Name: "result", Value: "a.xml"}}
	got := ApplyKVOverrides(cfg, []string{
		"log_level=debug",
		"tool.name=runner",
		"tool.switch.result=b.xml",
		"tool.switch.where=cat == Fast",
		"tool.env.FOO=bar",
		"tool.search_paths=/a, /b",
		"tool.pty=notabool",
		"nunit.x86=true",
		"nunit.response_file=false",
		"bogus",
	})
	if got.LogLevel != "debug" || got.Tool.Name != "runner" {
		t.Fatalf("unexpected overrides: %+v", got)
	}
	wantSwitches := []SwitchSection{{Name: "result", Value: "b.xml"}, {Name: "where", Value: "cat == Fast"}}
	if !reflect.DeepEqual(got.Tool.Switches, wantSwitches) {
		t.Fatalf("switches = %+v", got.Tool.Switches)
	}
	if got.Tool.Env["FOO"] != "bar" {
		t.Fatalf("env = %v", got.Tool.Env)
	}
	if !reflect.DeepEqual(got.Tool.SearchPaths, []string{"/a", "/b"}) {
		t.Fatalf("search paths = %v", got.Tool.SearchPaths)
	}
	if got.Tool.PTY {
		t.Fatalf("invalid bool should be ignored")
	}
	opts, err := got.NUnit.Options()
	if err != nil {
		t.Fatalf("Options: %v", err)
	}
	if !opts.Forcex86 || opts.ResponseFile {
		t.Fatalf("nunit options = %+v", opts)
	}
}

func TestApplyKVOverrides_LeavesInputUntouched(t *testing.T) {
	cfg := Default()
	cfg.Tool.Env = map[string]string{"KEEP": "1"}
	cfg.Tool.Switches = []SwitchSection{{Name: "result", Value: "a.xml"}}

	got := ApplyKVOverrides(cfg, []string{"tool.env.FOO=bar", "tool.switch.result=b.xml"})

	if !reflect.DeepEqual(cfg.Tool.Env, map[string]string{"KEEP": "1"}) {
		t.Fatalf("caller env mutated: %v", cfg.Tool.Env)
	}
	if cfg.Tool.Switches[0].Value != "a.xml" {
		t.Fatalf("caller switches mutated: %+v", cfg.Tool.Switches)
	}
	if got.Tool.Env["FOO"] != "bar" || got.Tool.Env["KEEP"] != "1" {
		t.Fatalf("env = %v", got.Tool.Env)
	}
	if got.Tool.Switches[0].Value != "b.xml" {
		t.Fatalf("switches = %+v", got.Tool.Switches)
	}
}

func TestNUnitSection_DefaultsToResponseFile(t *testing.T) {
	opts, err := NUnitSection{Assemblies: []string{"Tests.dll"}}.Options()
	if err != nil {
		t.Fatalf("Options: %v", err)
	}
	if !opts.ResponseFile {
		t.Fatalf("expected response file by default")
	}
}

func TestSaveRoundTrip(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "nested", "toolrun.toml")
	cfg := Default()
	cfg.Tool.Name = "runner"
	cfg.Tool.Switches = []SwitchSection{{Name: "where", Value: "cat == Fast"}}
	if err := Save(path, cfg); err != nil {
		t.Fatalf("Save: %v", err)
	}
	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if loaded.Tool.Name != "runner" || len(loaded.Tool.Switches) != 1 {
		t.Fatalf("loaded = %+v", loaded)
	}
}
