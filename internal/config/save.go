package config

import (
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
)

// Save writes cfg as TOML, creating parent directories as needed.
func Save(path string, cfg Config) error {
	if path == "" {
		path = DefaultPath()
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	data, err := toml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// Starter is the configuration written by `toolrun init`.
func Starter() Config {
	responseFile := true
	return Config{
		LogLevel: "info",
		Tool: ToolSection{
			Name:    "nunit3-console.exe",
			Timeout: "10m",
		},
		NUnit: NUnitSection{
			Assemblies:   []string{"Tests.dll"},
			Result:       "TestResult.xml",
			ResponseFile: &responseFile,
		},
	}
}
