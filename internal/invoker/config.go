package invoker

import (
	"fmt"
	"strings"
	"time"
)

// DefaultResponseFilePrefix is the indirection token most console runners
// (nunit3-console, msbuild, csc) accept for "read arguments from file".
const DefaultResponseFilePrefix = "@"

// DefaultMaxCaptureBytes bounds the tail of each stream kept in a Result.
const DefaultMaxCaptureBytes = 1 << 20

// Switch is a named option emitted as --name=value. A blank value means absent.
type Switch struct {
	Name  string
	Value string
}

// Flag is an on/off option emitted verbatim when enabled.
type Flag struct {
	Name    string
	Enabled bool
}

// ToolConfig describes a single invocation. It is built once by the caller
// and must not be modified after it is handed to Invoke.
type ToolConfig struct {
	ExecutableName string
	// ToolPath, when set, is joined with ExecutableName and the search path
	// is not consulted.
	ToolPath string
	// SearchPaths are searched in order before the inherited PATH.
	SearchPaths []string

	Arguments []string
	Flags     []Flag
	Switches  []Switch

	UseResponseFile    bool
	ResponseFilePrefix string
	ResponseFileDir    string

	WorkingDir string
	Env        map[string]string
	Timeout    time.Duration

	MaxCaptureBytes int
}

// Validate reports configuration problems before anything is resolved or launched.
func (c ToolConfig) Validate() error {
	if strings.TrimSpace(c.ExecutableName) == "" {
		return &ConfigError{Field: "executable", Reason: "executable name is required"}
	}
	if c.Timeout < 0 {
		return &ConfigError{Field: "timeout", Reason: "timeout must not be negative"}
	}
	if c.MaxCaptureBytes < 0 {
		return &ConfigError{Field: "capture_bytes", Reason: "capture limit must not be negative"}
	}
	for i, s := range c.Switches {
		if switchName(s.Name) == "" {
			return &ConfigError{Field: "switches", Reason: "switch name is blank", Index: i + 1}
		}
	}
	for i, f := range c.Flags {
		if strings.TrimSpace(f.Name) == "" {
			return &ConfigError{Field: "flags", Reason: "flag name is blank", Index: i + 1}
		}
	}
	for key := range c.Env {
		if strings.TrimSpace(key) == "" || strings.Contains(key, "=") {
			return &ConfigError{Field: "env", Reason: fmt.Sprintf("invalid environment key %q", key)}
		}
	}
	return nil
}

// WithSwitch appends a named switch, keeping insertion order.
func (c ToolConfig) WithSwitch(name, value string) ToolConfig {
	c.Switches = append(append([]Switch(nil), c.Switches...), Switch{Name: name, Value: value})
	return c
}

// WithFlag appends a boolean flag, keeping insertion order.
func (c ToolConfig) WithFlag(name string, enabled bool) ToolConfig {
	c.Flags = append(append([]Flag(nil), c.Flags...), Flag{Name: name, Enabled: enabled})
	return c
}

func (c ToolConfig) responsePrefix() string {
	if c.ResponseFilePrefix == "" {
		return DefaultResponseFilePrefix
	}
	return c.ResponseFilePrefix
}

func (c ToolConfig) captureLimit() int {
	if c.MaxCaptureBytes <= 0 {
		return DefaultMaxCaptureBytes
	}
	return c.MaxCaptureBytes
}

func switchName(name string) string {
	return strings.TrimLeft(strings.TrimSpace(name), "-")
}
