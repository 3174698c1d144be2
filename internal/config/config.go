package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"toolrun/internal/invoker"
	"toolrun/internal/nunit"

	"github.com/pelletier/go-toml/v2"
)

// DefaultFileName is looked up in the working directory when no --config is given.
const DefaultFileName = "toolrun.toml"

// Config is the persisted toolrun.toml schema.
type Config struct {
	LogFile   string        `toml:"log_file,omitempty"`
	LogLevel  string        `toml:"log_level,omitempty"`
	EventsLog string        `toml:"events_log,omitempty"`
	History   HistoryConfig `toml:"history"`
	Tool      ToolSection   `toml:"tool"`
	NUnit     NUnitSection  `toml:"nunit"`
	Source    string        `toml:"-"`
}

type HistoryConfig struct {
	Disabled bool   `toml:"disabled,omitempty"`
	File     string `toml:"file,omitempty"`
}

type SwitchSection struct {
	Name  string `toml:"name"`
	Value string `toml:"value"`
}

// ToolSection describes a generic invocation ([tool]).
type ToolSection struct {
	Name               string            `toml:"name,omitempty"`
	Path               string            `toml:"path,omitempty"`
	SearchPaths        []string          `toml:"search_paths,omitempty"`
	Args               []string          `toml:"args,omitempty"`
	Flags              []string          `toml:"flags,omitempty"`
	Switches           []SwitchSection   `toml:"switch,omitempty"`
	ResponseFile       bool              `toml:"response_file,omitempty"`
	ResponseFilePrefix string            `toml:"response_file_prefix,omitempty"`
	ResponseFileDir    string            `toml:"response_file_dir,omitempty"`
	WorkDir            string            `toml:"workdir,omitempty"`
	Env                map[string]string `toml:"env,omitempty"`
	Timeout            string            `toml:"timeout,omitempty"`
	CaptureBytes       int               `toml:"capture_bytes,omitempty"`
	PTY                bool              `toml:"pty,omitempty"`
}

// NUnitSection holds the console runner preset ([nunit]).
type NUnitSection struct {
	Assemblies   []string          `toml:"assemblies,omitempty"`
	Result       string            `toml:"result,omitempty"`
	X86          bool              `toml:"x86,omitempty"`
	Framework    string            `toml:"framework,omitempty"`
	Agents       string            `toml:"agents,omitempty"`
	Where        string            `toml:"where,omitempty"`
	ToolPath     string            `toml:"tool_path,omitempty"`
	SearchPaths  []string          `toml:"search_paths,omitempty"`
	WorkDir      string            `toml:"workdir,omitempty"`
	Timeout      string            `toml:"timeout,omitempty"`
	ResponseFile *bool             `toml:"response_file,omitempty"`
	Env          map[string]string `toml:"env,omitempty"`
}

func Default() Config {
	return Config{}
}

func DefaultPath() string {
	return DefaultFileName
}

// Load reads path (toolrun.toml when empty). A missing file yields defaults;
// TOOLRUN_* environment variables are applied last.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		path = DefaultPath()
	}
	cfg.Source = path

	content, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			applyEnv(&cfg)
			return cfg, nil
		}
		return cfg, err
	}

	if err := toml.Unmarshal(content, &cfg); err != nil {
		return cfg, fmt.Errorf("parse %s: %w", path, err)
	}
	applyEnv(&cfg)
	return cfg, nil
}

func applyEnv(cfg *Config) {
	if env := strings.TrimSpace(os.Getenv("TOOLRUN_TOOL_PATH")); env != "" {
		cfg.Tool.Path = env
		cfg.NUnit.ToolPath = env
	}
	if env := strings.TrimSpace(os.Getenv("TOOLRUN_TIMEOUT")); env != "" {
		cfg.Tool.Timeout = env
		cfg.NUnit.Timeout = env
	}
	if env := strings.TrimSpace(os.Getenv("TOOLRUN_LOG_LEVEL")); env != "" {
		cfg.LogLevel = env
	}
}

// ParseTimeout accepts Go durations ("90s", "5m") and bare seconds ("30").
// Empty means no timeout.
func ParseTimeout(raw string) (time.Duration, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, nil
	}
	if d, err := time.ParseDuration(raw); err == nil {
		return d, nil
	}
	if d, err := time.ParseDuration(raw + "s"); err == nil {
		return d, nil
	}
	return 0, &invoker.ConfigError{Field: "timeout", Reason: fmt.Sprintf("invalid duration %q", raw)}
}

// Invocation converts the [tool] section into an invoker config.
func (t ToolSection) Invocation() (invoker.ToolConfig, error) {
	timeout, err := ParseTimeout(t.Timeout)
	if err != nil {
		return invoker.ToolConfig{}, err
	}
	cfg := invoker.ToolConfig{
		ExecutableName:     t.Name,
		ToolPath:           t.Path,
		SearchPaths:        append([]string(nil), t.SearchPaths...),
		Arguments:          append([]string(nil), t.Args...),
		UseResponseFile:    t.ResponseFile,
		ResponseFilePrefix: t.ResponseFilePrefix,
		ResponseFileDir:    t.ResponseFileDir,
		WorkingDir:         t.WorkDir,
		Env:                copyEnv(t.Env),
		Timeout:            timeout,
		MaxCaptureBytes:    t.CaptureBytes,
	}
	for _, f := range t.Flags {
		cfg = cfg.WithFlag(f, true)
	}
	for _, s := range t.Switches {
		cfg = cfg.WithSwitch(s.Name, s.Value)
	}
	return cfg, nil
}

// Options converts the [nunit] section into preset options.
func (n NUnitSection) Options() (nunit.Options, error) {
	timeout, err := ParseTimeout(n.Timeout)
	if err != nil {
		return nunit.Options{}, err
	}
	opts := nunit.DefaultOptions()
	opts.Assemblies = append([]string(nil), n.Assemblies...)
	opts.Result = n.Result
	opts.Forcex86 = n.X86
	opts.Framework = n.Framework
	opts.Agents = n.Agents
	opts.Where = n.Where
	opts.ToolPath = n.ToolPath
	opts.SearchPaths = append([]string(nil), n.SearchPaths...)
	opts.WorkingDir = n.WorkDir
	opts.Timeout = timeout
	opts.Env = copyEnv(n.Env)
	if n.ResponseFile != nil {
		opts.ResponseFile = *n.ResponseFile
	}
	return opts, nil
}

func copyEnv(env map[string]string) map[string]string {
	if len(env) == 0 {
		return nil
	}
	out := make(map[string]string, len(env))
	for k, v := range env {
		out[k] = v
	}
	return out
}
