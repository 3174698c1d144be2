package main

import (
	"flag"
	"io"
)

type rootArgs struct {
	overrides []string
	logFile   string
	logLevel  string
}

func parseRootArgs(args []string) (rootArgs, []string, error) {
	fs := flag.NewFlagSet("toolrun", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	var overrides stringSlice
	var root rootArgs
	fs.Var(&overrides, "c", "Override config value key=value (repeatable, applied before subcommand flags)")
	fs.StringVar(&root.logFile, "log-file", "", "Log file path (default logs/toolrun.log)")
	fs.StringVar(&root.logLevel, "log-level", "", "Log level: debug|info|warn|error")
	if err := fs.Parse(args); err != nil {
		return rootArgs{}, nil, err
	}
	root.overrides = append([]string{}, overrides...)
	return root, fs.Args(), nil
}
