package main

import (
	"flag"
	"io"
	"strings"

	"toolrun/internal/config"
	"toolrun/internal/invoker"
	"toolrun/internal/logger"
)

// toolFlags are shared by every subcommand that launches or previews a tool.
type toolFlags struct {
	cfgPath        string
	toolPath       string
	searchPaths    stringSlice
	env            kvSlice
	workdir        string
	timeout        string
	responseFile   bool
	responsePrefix string
	responseDir    string
	captureBytes   int
	pty            bool
	tui            bool
	noHistory      bool
	quiet          bool
}

func (f *toolFlags) register(fs *flag.FlagSet, responseDefault bool) {
	fs.StringVar(&f.cfgPath, "config", "", "Path to config file (default ./toolrun.toml)")
	fs.StringVar(&f.toolPath, "tool-path", "", "Directory containing the executable; disables the search path")
	fs.Var(&f.searchPaths, "search-path", "Directory searched before $PATH (repeatable)")
	fs.Var(&f.env, "env", "Environment override KEY=VALUE (repeatable)")
	fs.StringVar(&f.workdir, "cd", "", "Working directory for the tool")
	fs.StringVar(&f.timeout, "timeout", "", "Kill the tool after this long (e.g. 90s, 10m; 0 disables)")
	fs.BoolVar(&f.responseFile, "response-file", responseDefault, "Pass arguments through a temporary response file")
	fs.StringVar(&f.responsePrefix, "response-prefix", "", "Response file indirection prefix (default @)")
	fs.StringVar(&f.responseDir, "response-dir", "", "Directory for the response file (default system temp)")
	fs.IntVar(&f.captureBytes, "capture-bytes", 0, "Bytes of each stream kept for the summary (default 1 MiB)")
	fs.BoolVar(&f.pty, "pty", false, "Run the tool attached to a pseudo-terminal")
	fs.BoolVar(&f.tui, "tui", false, "Show a live terminal view")
	fs.BoolVar(&f.noHistory, "no-history", false, "Do not record this invocation")
	fs.BoolVar(&f.quiet, "quiet", false, "Do not relay tool output while it runs")
}

// apply layers explicitly given flags over cfg.
func (f *toolFlags) apply(cfg *invoker.ToolConfig, set map[string]bool) error {
	if set["tool-path"] {
		cfg.ToolPath = f.toolPath
	}
	if len(f.searchPaths) > 0 {
		cfg.SearchPaths = append(append([]string{}, f.searchPaths...), cfg.SearchPaths...)
	}
	if len(f.env) > 0 {
		env := make(map[string]string, len(cfg.Env)+len(f.env))
		for k, v := range cfg.Env {
			env[k] = v
		}
		for _, p := range f.env {
			env[p.Key] = p.Value
		}
		cfg.Env = env
	}
	if set["cd"] {
		cfg.WorkingDir = f.workdir
	}
	if set["timeout"] {
		d, err := config.ParseTimeout(f.timeout)
		if err != nil {
			return err
		}
		cfg.Timeout = d
	}
	if set["response-file"] {
		cfg.UseResponseFile = f.responseFile
	}
	if set["response-prefix"] {
		cfg.ResponseFilePrefix = f.responsePrefix
	}
	if set["response-dir"] {
		cfg.ResponseFileDir = f.responseDir
	}
	if set["capture-bytes"] {
		cfg.MaxCaptureBytes = f.captureBytes
	}
	return nil
}

func (f *toolFlags) execOptions(app config.Config) execOptions {
	return execOptions{
		pty:       f.pty || app.Tool.PTY,
		tui:       f.tui,
		quiet:     f.quiet,
		noHistory: f.noHistory || app.History.Disabled,
	}
}

func visited(fs *flag.FlagSet) map[string]bool {
	set := map[string]bool{}
	fs.Visit(func(f *flag.Flag) { set[f.Name] = true })
	return set
}

// loadConfig reads the config file and applies root -c overrides. Logging
// settings from the file apply unless given on the command line.
func loadConfig(root rootArgs, path string) (config.Config, error) {
	cfg, err := config.Load(path)
	if err != nil {
		return cfg, err
	}
	cfg = config.ApplyKVOverrides(cfg, root.overrides)
	if strings.TrimSpace(root.logLevel) == "" {
		if err := logger.SetLevel(cfg.LogLevel); err != nil {
			log.Warnf("ignoring log_level %q: %v", cfg.LogLevel, err)
		}
	}
	if strings.TrimSpace(root.logFile) == "" && strings.TrimSpace(cfg.LogFile) != "" {
		if closer, _, err := logger.SetupFile(cfg.LogFile); err != nil {
			log.Warnf("failed to initialize log file (%s): %v", cfg.LogFile, err)
		} else {
			deferClose(closer)
		}
	}
	return cfg, nil
}

var closers []io.Closer

func deferClose(c io.Closer) {
	if c != nil {
		closers = append(closers, c)
	}
}

func closeAll() {
	for i := len(closers) - 1; i >= 0; i-- {
		_ = closers[i].Close()
	}
	closers = nil
}
