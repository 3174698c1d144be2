package main

import (
	"flag"
	"fmt"
	"io"

	"toolrun/internal/nunit"
)

func nunitMain(root rootArgs, args []string, stdout, stderr io.Writer) int {
	p, err := parseNUnitPlan(root, args, stderr)
	if err != nil {
		return usageError(stderr, err)
	}
	ctx, stop := signalContext()
	defer stop()
	return execute(ctx, p.app, p.cfg, p.opts, stdout, stderr)
}

func parseNUnitPlan(root rootArgs, args []string, stderr io.Writer) (plan, error) {
	fs := flag.NewFlagSet("nunit", flag.ContinueOnError)
	fs.SetOutput(stderr)
	var tf toolFlags
	var assemblies stringSlice
	var n nunit.Options
	tf.register(fs, true)
	fs.Var(&assemblies, "assembly", "Test assembly (repeatable; positional arguments are assemblies too)")
	fs.StringVar(&n.Result, "result", "", "Result spec passed verbatim, e.g. out.xml;format=nunit2")
	fs.BoolVar(&n.Forcex86, "x86", false, "Run tests in a 32-bit process")
	fs.StringVar(&n.Framework, "framework", "", "Target framework, e.g. net-4.8")
	fs.StringVar(&n.Agents, "agents", "", "Maximum number of test agents")
	fs.StringVar(&n.Where, "where", "", "Test selection expression")
	if err := fs.Parse(args); err != nil {
		return plan{}, err
	}

	app, err := loadConfig(root, tf.cfgPath)
	if err != nil {
		return plan{}, fmt.Errorf("load config: %w", err)
	}
	opts, err := app.NUnit.Options()
	if err != nil {
		return plan{}, err
	}
	set := visited(fs)
	if extra := append(append([]string{}, assemblies...), fs.Args()...); len(extra) > 0 {
		opts.Assemblies = extra
	}
	if set["result"] {
		opts.Result = n.Result
	}
	if set["x86"] {
		opts.Forcex86 = n.Forcex86
	}
	if set["framework"] {
		opts.Framework = n.Framework
	}
	if set["agents"] {
		opts.Agents = n.Agents
	}
	if set["where"] {
		opts.Where = n.Where
	}

	cfg, err := opts.ToolConfig()
	if err != nil {
		return plan{}, err
	}
	if err := tf.apply(&cfg, set); err != nil {
		return plan{}, err
	}
	return plan{app: app, cfg: cfg, opts: tf.execOptions(app)}, nil
}
