// Package nunit maps NUnit 3 console runner options onto a generic tool invocation.
package nunit

import (
	"strings"
	"time"

	"toolrun/internal/invoker"
)

// Executable is the console runner shipped with NUnit 3.
const Executable = "nunit3-console.exe"

// Options mirrors the properties the console runner accepts from a build script.
// Blank string options are left off the command line.
type Options struct {
	Assemblies []string
	// Result is passed through verbatim, e.g. `out.xml;format=nunit2`.
	Result    string
	Forcex86  bool
	Framework string
	Agents    string
	Where     string

	ToolPath     string
	SearchPaths  []string
	WorkingDir   string
	Timeout      time.Duration
	ResponseFile bool
	Env          map[string]string
}

// DefaultOptions delivers arguments through a response file, as the runner's
// build integration always did.
func DefaultOptions() Options {
	return Options{ResponseFile: true}
}

// ToolConfig builds the invocation for nunit3-console. Switch order is fixed:
// agents, framework, result, where.
func (o Options) ToolConfig() (invoker.ToolConfig, error) {
	assemblies := make([]string, 0, len(o.Assemblies))
	for _, a := range o.Assemblies {
		if a = strings.TrimSpace(a); a != "" {
			assemblies = append(assemblies, a)
		}
	}
	if len(assemblies) == 0 {
		return invoker.ToolConfig{}, &invoker.ConfigError{Field: "assemblies", Reason: "at least one test assembly is required"}
	}

	cfg := invoker.ToolConfig{
		ExecutableName:  Executable,
		ToolPath:        o.ToolPath,
		SearchPaths:     append([]string(nil), o.SearchPaths...),
		Arguments:       assemblies,
		Flags:           []invoker.Flag{{Name: "--x86", Enabled: o.Forcex86}},
		UseResponseFile: o.ResponseFile,
		WorkingDir:      o.WorkingDir,
		Timeout:         o.Timeout,
	}
	if len(o.Env) > 0 {
		cfg.Env = make(map[string]string, len(o.Env))
		for k, v := range o.Env {
			cfg.Env[k] = v
		}
	}
	cfg = cfg.
		WithSwitch("agents", o.Agents).
		WithSwitch("framework", o.Framework).
		WithSwitch("result", o.Result).
		WithSwitch("where", o.Where)
	return cfg, nil
}
