// Package cmd implements the gone command line interface: one subcommand
// per compiler pass, each usable on its own for debugging. Compilation
// diagnostics go to stderr as "line: message" and do not affect the exit
// status; only usage errors (bad arguments, unreadable files) exit 1.
package cmd

import (
	"fmt"
	"os"

	"github.com/miyuchina/compiler/internal/errors"
	"github.com/spf13/cobra"
)

// Version information (set by build flags)
var Version = "0.1.0-dev"

var rootCmd = &cobra.Command{
	Use:   "gone",
	Short: "Gone compiler front-end",
	Long: `gone compiles the Gone language to three-address intermediate code.

Each compiler pass has its own subcommand so the pipeline can be inspected
stage by stage:

  lex     print the token stream
  parse   print the abstract syntax tree
  check   run semantic analysis (optionally dumping decorated types)
  ircode  print the generated intermediate code`,
	Version:       Version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command.
func Execute() error {
	err := rootCmd.Execute()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	}
	return err
}

func init() {
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "verbose output")
}

// readSource loads the single file argument of a pass subcommand.
func readSource(args []string) (string, error) {
	content, err := os.ReadFile(args[0])
	if err != nil {
		return "", fmt.Errorf("failed to read file %s: %w", args[0], err)
	}
	return string(content), nil
}

// printDiagnostics writes collected diagnostics to stderr in report order.
func printDiagnostics(diagnostics []errors.Diagnostic) {
	for _, d := range diagnostics {
		fmt.Fprintln(os.Stderr, d)
	}
}
