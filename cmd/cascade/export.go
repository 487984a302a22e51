package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"cascade/internal/driver"
	"cascade/internal/prof"
)

var exportCmd = &cobra.Command{
	Use:   "export [flags] file.cad",
	Short: "Evaluate, render and write every export target",
	Long:  `Export runs the full pipeline and writes each #[export("...")] target of the model`,
	Args:  cobra.ExactArgs(1),
	RunE:  runExport,
}

func init() {
	exportCmd.Flags().Float64("resolution", 0, "tessellation resolution in model units (0 = default)")
	exportCmd.Flags().Int("jobs", 0, "parallel render workers (0 = all cores)")
	exportCmd.Flags().String("out-dir", "", "directory for relative export paths")
	exportCmd.Flags().Bool("disk-cache", false, "persist rendered geometry in the user cache dir")
	exportCmd.Flags().String("cpuprofile", "", "write a CPU profile to this file")
	exportCmd.Flags().String("memprofile", "", "write a heap profile to this file")
}

func runExport(cmd *cobra.Command, args []string) error {
	opts, err := commonOptions(cmd, args[0])
	if err != nil {
		return err
	}
	ctx, err := traceContext(cmd)
	if err != nil {
		return err
	}

	if cpuProfile, _ := cmd.Flags().GetString("cpuprofile"); cpuProfile != "" {
		if err := prof.StartCPU(cpuProfile); err != nil {
			return err
		}
		defer prof.StopCPU()
	}
	if memProfile, _ := cmd.Flags().GetString("memprofile"); memProfile != "" {
		defer func() {
			if err := prof.WriteMem(memProfile); err != nil {
				fmt.Fprintf(os.Stderr, "memprofile: %v\n", err)
			}
		}()
	}

	result, err := driver.Export(ctx, args[0], opts)
	if err != nil {
		return fmt.Errorf("export failed: %w", err)
	}

	printDiagnostics(cmd, result.Eval.Bag, result.Eval.FileSet)
	printTimings(cmd, result.Eval.Timing)

	quiet, _ := cmd.Root().PersistentFlags().GetBool("quiet")
	for _, target := range result.Targets {
		if target.Err != nil {
			fmt.Fprintf(os.Stderr, "error: %s: %v\n", target.OutPath, target.Err)
		} else if !quiet {
			fmt.Printf("wrote %s\n", target.OutPath)
		}
	}
	if !quiet && len(result.Targets) > 0 {
		fmt.Printf("cache: %d hit / %d miss\n", result.Cache.Hits, result.Cache.Misses)
	}

	if result.Failed() {
		return fmt.Errorf("export produced errors")
	}
	return nil
}
