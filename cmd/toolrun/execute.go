package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strconv"

	"toolrun/internal/config"
	"toolrun/internal/events"
	"toolrun/internal/history"
	"toolrun/internal/invoker"
	"toolrun/internal/render"
	"toolrun/internal/tui"
)

type execOptions struct {
	pty       bool
	tui       bool
	quiet     bool
	noHistory bool
}

// execute runs one invocation and returns the process exit code for toolrun.
func execute(ctx context.Context, app config.Config, cfg invoker.ToolConfig, opts execOptions, stdout, stderr io.Writer) int {
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(stderr, "toolrun: %v\n", err)
		return exitUsage
	}

	bus := events.NewBus()
	stopEvents := startEventLog(bus, app.EventsLog)
	defer func() {
		bus.Close()
		stopEvents()
	}()

	invOpts := invoker.Options{Publisher: bus}
	if opts.pty {
		invOpts.Launcher = invoker.PTYLauncher{}
	}
	if !opts.quiet && !opts.tui {
		invOpts.OnLine = render.NewConsoleSink(stdout, stderr).Line
	}
	inv := invoker.New(invOpts)

	var (
		res invoker.Result
		err error
	)
	if opts.tui {
		res, err = runWithTUI(ctx, inv, bus, cfg)
	} else {
		res, err = inv.Invoke(ctx, cfg)
	}
	if err != nil {
		fmt.Fprintf(stderr, "toolrun: %v\n", err)
		return exitUsage
	}

	recordHistory(app, res, opts.noHistory)
	fmt.Fprintln(stderr, render.Summary(res, render.SummaryOptions{
		Width:    terminalWidth(),
		ShowTail: opts.quiet || opts.tui,
	}))
	return exitCode(res)
}

type invokeResult struct {
	res invoker.Result
	err error
}

func runWithTUI(ctx context.Context, inv *invoker.Invoker, bus *events.Bus, cfg invoker.ToolConfig) (invoker.Result, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	sub := bus.Subscribe()
	done := make(chan invokeResult, 1)
	go func() {
		res, err := inv.Invoke(ctx, cfg)
		done <- invokeResult{res: res, err: err}
		// Ends the view even if the finished event was dropped.
		bus.Close()
	}()

	if _, err := tui.Run(tui.Options{Events: sub, Title: cfg.ExecutableName, OnInterrupt: cancel}); err != nil {
		log.Warnf("live view unavailable: %v", err)
	}
	out := <-done
	return out.res, out.err
}

func startEventLog(bus *events.Bus, path string) func() {
	if path == "" {
		return func() {}
	}
	done, closer := events.StartLogger(bus, path)
	return func() {
		<-done
		if closer != nil {
			_ = closer.Close()
		}
	}
}

func recordHistory(app config.Config, res invoker.Result, disabled bool) {
	if disabled {
		return
	}
	store, err := historyStore(app)
	if err != nil {
		log.Warnf("history unavailable: %v", err)
		return
	}
	if err := store.Append(history.FromResult(res)); err != nil {
		log.Warnf("failed to record history (%s): %v", store.Path, err)
	}
}

func historyStore(app config.Config) (*history.Store, error) {
	if app.History.File != "" {
		return &history.Store{Path: app.History.File}, nil
	}
	return history.NewDefault()
}

func terminalWidth() int {
	if n, err := strconv.Atoi(os.Getenv("COLUMNS")); err == nil && n > 20 {
		return n
	}
	return 100
}
