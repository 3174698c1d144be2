package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"toolrun/internal/config"
)

func initMain(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("init", flag.ContinueOnError)
	fs.SetOutput(stderr)
	var path string
	var force bool
	fs.StringVar(&path, "config", config.DefaultPath(), "Path of the config file to write")
	fs.BoolVar(&force, "force", false, "Overwrite an existing config file")
	if err := fs.Parse(args); err != nil {
		return usageError(stderr, err)
	}
	if fs.NArg() > 0 {
		return usageError(stderr, fmt.Errorf("init: unexpected argument %q", fs.Arg(0)))
	}

	if _, err := os.Stat(path); err == nil && !force {
		return usageError(stderr, fmt.Errorf("init: %s already exists (use --force to overwrite)", path))
	} else if err != nil && !errors.Is(err, os.ErrNotExist) {
		fmt.Fprintf(stderr, "toolrun: %v\n", err)
		return 1
	}
	if err := config.Save(path, config.Starter()); err != nil {
		log.WithError(err).WithField("path", path).Error("write starter config failed")
		fmt.Fprintf(stderr, "toolrun: write %s: %v\n", path, err)
		return 1
	}
	log.WithField("path", path).Info("starter config written")
	fmt.Fprintf(stdout, "wrote %s\n", path)
	return 0
}
