package cmd

import (
	"os"

	"github.com/miyuchina/compiler/internal/ast"
	"github.com/miyuchina/compiler/pkg/gone"
	"github.com/spf13/cobra"
)

var showTypes bool

var checkCmd = &cobra.Command{
	Use:   "check <file>",
	Short: "Run semantic analysis on a Gone file",
	Long: `Parse and semantically check a Gone program.

Diagnostics are printed to stderr. With --show-types the decorated AST is
printed, each node with its line number and resolved type.`,
	Args: cobra.ExactArgs(1),
	RunE: runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)
	checkCmd.Flags().BoolVar(&showTypes, "show-types", false, "print each node with its decorated type")
}

func runCheck(cmd *cobra.Command, args []string) error {
	source, err := readSource(args)
	if err != nil {
		return err
	}

	program, diagnostics := gone.Check(source)
	if showTypes && program != nil {
		ast.Dump(os.Stdout, program, true)
	}
	printDiagnostics(diagnostics)
	return nil
}
