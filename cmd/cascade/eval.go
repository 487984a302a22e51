package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"cascade/internal/diagfmt"
	"cascade/internal/driver"
)

var evalCmd = &cobra.Command{
	Use:   "eval [flags] file.cad",
	Short: "Evaluate a model source file and dump the model tree",
	Args:  cobra.ExactArgs(1),
	RunE:  runEval,
}

func runEval(cmd *cobra.Command, args []string) error {
	opts, err := commonOptions(cmd, args[0])
	if err != nil {
		return err
	}

	result, err := driver.Eval(args[0], opts)
	if err != nil {
		return fmt.Errorf("evaluation failed: %w", err)
	}

	failed := printDiagnostics(cmd, result.Bag, result.FileSet)
	diagfmt.ModelTree(os.Stdout, result.Root)
	printTimings(cmd, result.Timing)
	if failed {
		return fmt.Errorf("evaluation produced errors")
	}
	return nil
}
