package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"text/tabwriter"
	"time"
)

func historyMain(root rootArgs, args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("history", flag.ContinueOnError)
	fs.SetOutput(stderr)
	var cfgPath string
	var limit int
	var asJSON bool
	fs.StringVar(&cfgPath, "config", "", "Path to config file (default ./toolrun.toml)")
	fs.IntVar(&limit, "n", 20, "Number of entries to show (0 for all)")
	fs.BoolVar(&asJSON, "json", false, "Print entries as JSON lines")
	if err := fs.Parse(args); err != nil {
		return usageError(stderr, err)
	}

	app, err := loadConfig(root, cfgPath)
	if err != nil {
		return usageError(stderr, fmt.Errorf("load config: %w", err))
	}
	store, err := historyStore(app)
	if err != nil {
		fmt.Fprintf(stderr, "toolrun: %v\n", err)
		return 1
	}
	entries, err := store.Recent(limit)
	if err != nil {
		fmt.Fprintf(stderr, "toolrun: read history: %v\n", err)
		return 1
	}

	if asJSON {
		enc := json.NewEncoder(stdout)
		for _, e := range entries {
			if err := enc.Encode(e); err != nil {
				fmt.Fprintf(stderr, "toolrun: %v\n", err)
				return 1
			}
		}
		return 0
	}
	if len(entries) == 0 {
		fmt.Fprintln(stdout, "no invocations recorded")
		return 0
	}
	tw := tabwriter.NewWriter(stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "STARTED\tOUTCOME\tEXIT\tDURATION\tTOOL\tID")
	for _, e := range entries {
		fmt.Fprintf(tw, "%s\t%s\t%d\t%s\t%s\t%s\n",
			e.Started.Local().Format(time.DateTime),
			e.Outcome,
			e.ExitCode,
			(time.Duration(e.DurationMS) * time.Millisecond).String(),
			e.Tool,
			e.ID,
		)
	}
	_ = tw.Flush()
	return 0
}
