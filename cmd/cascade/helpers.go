package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"cascade/internal/diag"
	"cascade/internal/diagfmt"
	"cascade/internal/driver"
	"cascade/internal/observ"
	"cascade/internal/source"
	"cascade/internal/trace"
)

// commonOptions builds driver options from the persistent flags plus
// the cascade.toml governing path.
func commonOptions(cmd *cobra.Command, path string) (driver.Options, error) {
	maxDiagnostics, err := cmd.Root().PersistentFlags().GetInt("max-diagnostics")
	if err != nil {
		return driver.Options{}, err
	}
	opts := driver.Options{MaxDiagnostics: maxDiagnostics}

	if f := cmd.Flags().Lookup("resolution"); f != nil {
		if opts.Resolution, err = cmd.Flags().GetFloat64("resolution"); err != nil {
			return driver.Options{}, err
		}
	}
	if f := cmd.Flags().Lookup("jobs"); f != nil {
		if opts.Jobs, err = cmd.Flags().GetInt("jobs"); err != nil {
			return driver.Options{}, err
		}
	}
	if f := cmd.Flags().Lookup("out-dir"); f != nil {
		if opts.OutDir, err = cmd.Flags().GetString("out-dir"); err != nil {
			return driver.Options{}, err
		}
	}
	if f := cmd.Flags().Lookup("disk-cache"); f != nil {
		if opts.DiskCache, err = cmd.Flags().GetBool("disk-cache"); err != nil {
			return driver.Options{}, err
		}
	}

	return driver.ResolveOptions(path, opts)
}

// traceContext wires a stderr tracer into ctx when --trace is set.
func traceContext(cmd *cobra.Command) (context.Context, error) {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	levelName, err := cmd.Root().PersistentFlags().GetString("trace")
	if err != nil {
		return nil, err
	}
	level, err := trace.ParseLevel(levelName)
	if err != nil {
		return nil, err
	}
	if level == trace.LevelOff {
		return ctx, nil
	}
	return trace.WithTracer(ctx, trace.NewStreamTracer(os.Stderr, level)), nil
}

func useColor(cmd *cobra.Command) bool {
	colorFlag, _ := cmd.Root().PersistentFlags().GetString("color")
	return colorFlag == "on" || (colorFlag == "auto" && isTerminal(os.Stderr))
}

// printDiagnostics pretty-prints the bag to stderr and reports whether
// it contained errors.
func printDiagnostics(cmd *cobra.Command, bag *diag.Bag, fs *source.FileSet) bool {
	if bag.Len() == 0 {
		return false
	}
	bag.Sort()
	bag.Dedup()
	diagfmt.Pretty(os.Stderr, bag, fs, diagfmt.PrettyOpts{
		Color:     useColor(cmd),
		ShowNotes: true,
	})
	return bag.HasErrors()
}

func printTimings(cmd *cobra.Command, report observ.Report) {
	show, _ := cmd.Root().PersistentFlags().GetBool("timings")
	quiet, _ := cmd.Root().PersistentFlags().GetBool("quiet")
	if !show || quiet {
		return
	}
	for _, phase := range report.Phases {
		fmt.Fprintf(os.Stderr, "  %-10s %7.2f ms\n", phase.Name, phase.DurationMS)
	}
	fmt.Fprintf(os.Stderr, "  %-10s %7.2f ms\n", "total", report.TotalMS)
}
