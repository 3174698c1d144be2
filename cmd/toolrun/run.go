package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"toolrun/internal/config"
	"toolrun/internal/invoker"
)

// plan is a fully resolved invocation request.
type plan struct {
	app  config.Config
	cfg  invoker.ToolConfig
	opts execOptions
}

func runMain(root rootArgs, args []string, stdout, stderr io.Writer) int {
	p, err := parseRunPlan(root, args, stderr)
	if err != nil {
		return usageError(stderr, err)
	}
	ctx, stop := signalContext()
	defer stop()
	return execute(ctx, p.app, p.cfg, p.opts, stdout, stderr)
}

func parseRunPlan(root rootArgs, args []string, stderr io.Writer) (plan, error) {
	fs := flag.NewFlagSet("run", flag.ContinueOnError)
	fs.SetOutput(stderr)
	var tf toolFlags
	var name string
	var flags stringSlice
	var switches kvSlice
	tf.register(fs, false)
	fs.StringVar(&name, "tool", "", "Executable name or path (default tool.name from config)")
	fs.Var(&flags, "flag", "Flag emitted verbatim, e.g. --x86 (repeatable)")
	fs.Var(&switches, "switch", "Switch name=value emitted as --name=value; blank value omits it (repeatable)")
	if err := fs.Parse(args); err != nil {
		return plan{}, err
	}

	app, err := loadConfig(root, tf.cfgPath)
	if err != nil {
		return plan{}, fmt.Errorf("load config: %w", err)
	}
	cfg, err := app.Tool.Invocation()
	if err != nil {
		return plan{}, err
	}
	if strings.TrimSpace(name) != "" {
		cfg.ExecutableName = name
	}
	cfg.Arguments = append(cfg.Arguments, fs.Args()...)
	for _, f := range flags {
		cfg = cfg.WithFlag(f, true)
	}
	for _, s := range switches {
		cfg = setSwitch(cfg, s.Key, s.Value)
	}
	if err := tf.apply(&cfg, visited(fs)); err != nil {
		return plan{}, err
	}
	return plan{app: app, cfg: cfg, opts: tf.execOptions(app)}, nil
}

// setSwitch replaces a configured switch of the same name or appends a new one.
func setSwitch(cfg invoker.ToolConfig, name, value string) invoker.ToolConfig {
	key := strings.TrimLeft(strings.TrimSpace(name), "-")
	for i, s := range cfg.Switches {
		if strings.TrimLeft(strings.TrimSpace(s.Name), "-") == key {
			switches := append([]invoker.Switch(nil), cfg.Switches...)
			switches[i].Value = value
			cfg.Switches = switches
			return cfg
		}
	}
	return cfg.WithSwitch(name, value)
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

func usageError(stderr io.Writer, err error) int {
	if err == flag.ErrHelp {
		return 0
	}
	fmt.Fprintf(stderr, "toolrun: %v\n", err)
	return exitUsage
}
