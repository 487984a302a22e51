package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"cascade/internal/driver"
	"cascade/internal/ui"
	"cascade/internal/watch"
)

var watchCmd = &cobra.Command{
	Use:   "watch [flags] file.cad",
	Short: "Re-export on every source change",
	Long:  `Watch monitors the source file, its directory and the library search paths, re-running the export pipeline on changes`,
	Args:  cobra.ExactArgs(1),
	RunE:  runWatch,
}

func init() {
	watchCmd.Flags().Float64("resolution", 0, "tessellation resolution in model units (0 = default)")
	watchCmd.Flags().Int("jobs", 0, "parallel render workers (0 = all cores)")
	watchCmd.Flags().String("out-dir", "", "directory for relative export paths")
	watchCmd.Flags().Bool("disk-cache", false, "persist rendered geometry in the user cache dir")
	watchCmd.Flags().Bool("plain", false, "log passes to stdout instead of the interactive view")
}

func runWatch(cmd *cobra.Command, args []string) error {
	path := args[0]
	opts, err := commonOptions(cmd, path)
	if err != nil {
		return err
	}
	ctx, err := traceContext(cmd)
	if err != nil {
		return err
	}

	plain, _ := cmd.Flags().GetBool("plain")
	if plain || !isTerminal(os.Stdout) {
		return watch.Run(ctx, path, watch.Options{Driver: opts}, func(res *driver.ExportResult, err error) {
			logPass(cmd, res, err)
		})
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	events := make(chan ui.PassEvent, 8)
	prog := tea.NewProgram(ui.NewWatchModel(filepath.Base(path), events))

	errCh := make(chan error, 1)
	go func() {
		errCh <- watch.Run(ctx, path, watch.Options{Driver: opts}, func(res *driver.ExportResult, err error) {
			select {
			case events <- passEvent(res, err):
			case <-ctx.Done():
			}
		})
		close(events)
	}()

	if _, err := prog.Run(); err != nil {
		return err
	}
	cancel()
	if err := <-errCh; err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

func passEvent(res *driver.ExportResult, err error) ui.PassEvent {
	if err != nil {
		return ui.PassEvent{Err: err}
	}
	ev := ui.PassEvent{
		Errors: res.Eval.Bag.ErrorCount(),
		Hits:   int(res.Cache.Hits),
		Misses: int(res.Cache.Misses),
	}
	for _, t := range res.Targets {
		ev.Targets = append(ev.Targets, ui.TargetStatus{Path: t.OutPath, Err: t.Err})
	}
	return ev
}

func logPass(cmd *cobra.Command, res *driver.ExportResult, err error) {
	if err != nil {
		fmt.Fprintf(os.Stderr, "watch: %v\n", err)
		return
	}
	printDiagnostics(cmd, res.Eval.Bag, res.Eval.FileSet)
	for _, target := range res.Targets {
		if target.Err != nil {
			fmt.Fprintf(os.Stderr, "error: %s: %v\n", target.OutPath, target.Err)
		} else {
			fmt.Printf("wrote %s\n", target.OutPath)
		}
	}
}
