package cmd

import (
	"os"

	"github.com/miyuchina/compiler/internal/ast"
	"github.com/miyuchina/compiler/pkg/gone"
	"github.com/spf13/cobra"
)

var parseCmd = &cobra.Command{
	Use:   "parse <file>",
	Short: "Parse a Gone file and display the AST",
	Long: `Parse a Gone program and print the abstract syntax tree in indented
form, one node per line prefixed with its source line number.`,
	Args: cobra.ExactArgs(1),
	RunE: runParse,
}

func init() {
	rootCmd.AddCommand(parseCmd)
}

func runParse(cmd *cobra.Command, args []string) error {
	source, err := readSource(args)
	if err != nil {
		return err
	}

	program, diagnostics := gone.Parse(source)
	if len(diagnostics) == 0 {
		ast.Dump(os.Stdout, program, false)
	}
	printDiagnostics(diagnostics)
	return nil
}
