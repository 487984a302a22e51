package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"cascade/internal/diagfmt"
	"cascade/internal/driver"
)

var parseCmd = &cobra.Command{
	Use:   "parse [flags] file.cad",
	Short: "Parse a model source file and dump its syntax tree",
	Args:  cobra.ExactArgs(1),
	RunE:  runParse,
}

func runParse(cmd *cobra.Command, args []string) error {
	maxDiagnostics, err := cmd.Root().PersistentFlags().GetInt("max-diagnostics")
	if err != nil {
		return err
	}

	result, err := driver.Parse(args[0], maxDiagnostics)
	if err != nil {
		return fmt.Errorf("parsing failed: %w", err)
	}

	failed := printDiagnostics(cmd, result.Bag, result.FileSet)
	diagfmt.AST(os.Stdout, result.File)
	if failed {
		return fmt.Errorf("parsing produced errors")
	}
	return nil
}
