package main

import (
	"fmt"
	"io"

	"toolrun/internal/invoker"
	"toolrun/internal/render"

	"github.com/atotto/clipboard"
)

// argsMain previews an invocation without launching it:
// toolrun args [--copy] [nunit] [flags...]
func argsMain(root rootArgs, args []string, stdout, stderr io.Writer) int {
	args, copyLine := stripFlag(args, "copy")

	var (
		p   plan
		err error
	)
	if len(args) > 0 && args[0] == "nunit" {
		p, err = parseNUnitPlan(root, args[1:], stderr)
	} else {
		if len(args) > 0 && args[0] == "run" {
			args = args[1:]
		}
		p, err = parseRunPlan(root, args, stderr)
	}
	if err != nil {
		return usageError(stderr, err)
	}
	if err := p.cfg.Validate(); err != nil {
		return usageError(stderr, err)
	}

	path, resolveErr := invoker.ResolveExecutablePath(p.cfg)
	if resolveErr != nil {
		path = p.cfg.ExecutableName
		fmt.Fprintf(stdout, "path: %s (%v)\n", path, resolveErr)
	} else {
		fmt.Fprintf(stdout, "path: %s\n", path)
	}
	seq := invoker.BuildArgumentSequence(p.cfg)
	fmt.Fprintln(stdout, "args:")
	for _, a := range seq {
		fmt.Fprintf(stdout, "  %s\n", a)
	}
	if p.cfg.UseResponseFile {
		prefix := p.cfg.ResponseFilePrefix
		if prefix == "" {
			prefix = invoker.DefaultResponseFilePrefix
		}
		fmt.Fprintf(stdout, "delivery: response file (%s<file>)\n", prefix)
	}
	line := render.CommandLine(path, seq)
	fmt.Fprintf(stdout, "command: %s\n", line)

	if copyLine {
		if err := clipboard.WriteAll(line); err != nil {
			fmt.Fprintf(stderr, "toolrun: copy to clipboard: %v\n", err)
			return 1
		}
		fmt.Fprintln(stderr, "copied command line to clipboard")
	}
	return 0
}

// stripFlag removes a boolean flag given as -name or --name before any "--".
func stripFlag(args []string, name string) ([]string, bool) {
	out := make([]string, 0, len(args))
	found := false
	for i, a := range args {
		if a == "--" {
			out = append(out, args[i:]...)
			break
		}
		if a == "-"+name || a == "--"+name {
			found = true
			continue
		}
		out = append(out, a)
	}
	return out, found
}
