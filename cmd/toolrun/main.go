package main

import (
	"fmt"
	"io"
	"os"

	"toolrun/internal/invoker"
	"toolrun/internal/logger"
)

const usageText = `usage: toolrun [-c key=value] [--log-file path] [--log-level level] <command> [flags]

commands:
  run         invoke the configured tool ([tool] in toolrun.toml) or --tool
  nunit       run nunit3-console.exe with the NUnit preset
  args        print the resolved executable and argument sequence
  which       locate an executable
  history     list recent invocations
  completion  print bash or zsh completions
  init        write a starter toolrun.toml
`

func main() {
	code := realMain(os.Args[1:], os.Stdout, os.Stderr)
	closeAll()
	os.Exit(code)
}

func realMain(argv []string, stdout, stderr io.Writer) int {
	logger.Configure()
	root, rest, err := parseRootArgs(argv)
	if err != nil {
		fmt.Fprint(stderr, usageText)
		return usageError(stderr, err)
	}
	if err := logger.SetLevel(root.logLevel); err != nil {
		return usageError(stderr, fmt.Errorf("log level: %w", err))
	}
	logPath := root.logFile
	if logPath == "" {
		logPath = logger.DefaultLogPath
	}
	if logFile, _, err := logger.SetupFile(logPath); err != nil {
		log.Warnf("failed to initialize log file: %v", err)
	} else {
		deferClose(logFile)
	}
	if invCloser, _, err := invoker.SetupInvocationLog(invoker.DefaultInvocationLogPath); err != nil {
		log.Warnf("failed to initialize invocation log (%s): %v", invoker.DefaultInvocationLogPath, err)
	} else {
		deferClose(invCloser)
	}

	if len(rest) == 0 {
		fmt.Fprint(stderr, usageText)
		return exitUsage
	}
	switch rest[0] {
	case "run":
		return runMain(root, rest[1:], stdout, stderr)
	case "nunit":
		return nunitMain(root, rest[1:], stdout, stderr)
	case "args":
		return argsMain(root, rest[1:], stdout, stderr)
	case "which":
		return whichMain(root, rest[1:], stdout, stderr)
	case "history":
		return historyMain(root, rest[1:], stdout, stderr)
	case "completion":
		return completionMain(rest[1:], stdout, stderr)
	case "init":
		return initMain(rest[1:], stdout, stderr)
	case "help", "-h", "--help":
		fmt.Fprint(stdout, usageText)
		return 0
	default:
		fmt.Fprint(stderr, usageText)
		return usageError(stderr, fmt.Errorf("unknown command %q", rest[0]))
	}
}
