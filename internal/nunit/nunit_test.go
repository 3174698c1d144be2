package nunit

import (
	"errors"
	"reflect"
	"testing"

	"toolrun/internal/invoker"
)

func TestToolConfigMatchesConsoleExample(t *testing.T) {
	opts := Options{
		Assemblies: []string{"A.dll", "B.dll"},
		Result:     "out.xml;format=nunit2",
		Forcex86:   true,
	}
	cfg, err := opts.ToolConfig()
	if err != nil {
		t.Fatalf("ToolConfig: %v", err)
	}
	if cfg.ExecutableName != Executable {
		t.Fatalf("executable = %q", cfg.ExecutableName)
	}
	got := invoker.BuildArgumentSequence(cfg)
	want := []string{"A.dll", "B.dll", "--x86", "--result=out.xml;format=nunit2"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("args = %q, want %q", got, want)
	}
}

func TestToolConfigSwitchOrder(t *testing.T) {
	opts := Options{
		Assemblies: []string{"Tests.dll"},
		Where:      "cat == Fast",
		Result:     "r.xml",
		Framework:  "net-4.8",
		Agents:     "2",
	}
	cfg, err := opts.ToolConfig()
	if err != nil {
		t.Fatalf("ToolConfig: %v", err)
	}
	got := invoker.BuildArgumentSequence(cfg)
	want := []string{"Tests.dll", "--agents=2", "--framework=net-4.8", "--result=r.xml", "--where=cat == Fast"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("args = %q, want %q", got, want)
	}
}

func TestToolConfigBlankAgentsOmitted(t *testing.T) {
	cfg, err := Options{Assemblies: []string{"Tests.dll"}, Agents: "  "}.ToolConfig()
	if err != nil {
		t.Fatalf("ToolConfig: %v", err)
	}
	for _, arg := range invoker.BuildArgumentSequence(cfg) {
		if arg == "--agents=" || arg == "--agents=  " {
			t.Fatalf("blank agents emitted: %q", arg)
		}
	}
}

func TestToolConfigRequiresAssembly(t *testing.T) {
	_, err := Options{Assemblies: []string{" "}}.ToolConfig()
	if !invoker.IsConfigInvalid(err) {
		t.Fatalf("expected config error, got %v", err)
	}
	var cfgErr *invoker.ConfigError
	if !errors.As(err, &cfgErr) || cfgErr.Field != "assemblies" {
		t.Fatalf("unexpected error: %#v", err)
	}
}

func TestDefaultOptionsUseResponseFile(t *testing.T) {
	opts := DefaultOptions()
	opts.Assemblies = []string{"Tests.dll"}
	opts.ToolPath = `C:\tools\nunit`
	cfg, err := opts.ToolConfig()
	if err != nil {
		t.Fatalf("ToolConfig: %v", err)
	}
	if !cfg.UseResponseFile {
		t.Fatalf("expected response file delivery by default")
	}
	if cfg.ToolPath != `C:\tools\nunit` {
		t.Fatalf("tool path = %q", cfg.ToolPath)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
}
