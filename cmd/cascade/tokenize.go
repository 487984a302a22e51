package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"cascade/internal/diagfmt"
	"cascade/internal/driver"
)

var tokenizeCmd = &cobra.Command{
	Use:   "tokenize [flags] file.cad",
	Short: "Tokenize a model source file",
	Long:  `Tokenize breaks down a model source file into its constituent tokens`,
	Args:  cobra.ExactArgs(1),
	RunE:  runTokenize,
}

func runTokenize(cmd *cobra.Command, args []string) error {
	maxDiagnostics, err := cmd.Root().PersistentFlags().GetInt("max-diagnostics")
	if err != nil {
		return err
	}

	result, err := driver.Tokenize(args[0], maxDiagnostics)
	if err != nil {
		return fmt.Errorf("tokenization failed: %w", err)
	}

	failed := printDiagnostics(cmd, result.Bag, result.FileSet)
	diagfmt.Tokens(os.Stdout, result.Tokens, result.FileSet)
	if failed {
		return fmt.Errorf("tokenization produced errors")
	}
	return nil
}
