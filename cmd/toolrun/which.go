package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"strings"

	"toolrun/internal/invoker"
)

func whichMain(root rootArgs, args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("which", flag.ContinueOnError)
	fs.SetOutput(stderr)
	var cfgPath, toolPath string
	var searchPaths stringSlice
	fs.StringVar(&cfgPath, "config", "", "Path to config file (default ./toolrun.toml)")
	fs.StringVar(&toolPath, "tool-path", "", "Directory containing the executable")
	fs.Var(&searchPaths, "search-path", "Directory searched before $PATH (repeatable)")
	if err := fs.Parse(args); err != nil {
		return usageError(stderr, err)
	}

	app, err := loadConfig(root, cfgPath)
	if err != nil {
		return usageError(stderr, fmt.Errorf("load config: %w", err))
	}
	cfg := invoker.ToolConfig{
		ExecutableName: app.Tool.Name,
		ToolPath:       app.Tool.Path,
		SearchPaths:    app.Tool.SearchPaths,
		WorkingDir:     app.Tool.WorkDir,
	}
	if fs.NArg() > 0 {
		cfg.ExecutableName = fs.Arg(0)
	}
	if toolPath != "" {
		cfg.ToolPath = toolPath
	}
	if len(searchPaths) > 0 {
		cfg.SearchPaths = append(append([]string{}, searchPaths...), cfg.SearchPaths...)
	}
	if strings.TrimSpace(cfg.ExecutableName) == "" {
		return usageError(stderr, errors.New("which: executable name required"))
	}

	path, err := invoker.ResolveExecutablePath(cfg)
	if err != nil {
		fmt.Fprintf(stderr, "toolrun: %v\n", err)
		var nf *invoker.ToolNotFoundError
		if errors.As(err, &nf) && len(nf.Searched) > 0 {
			fmt.Fprintf(stderr, "searched: %s\n", strings.Join(nf.Searched, ", "))
		}
		return exitNotFound
	}
	fmt.Fprintln(stdout, path)
	return 0
}
