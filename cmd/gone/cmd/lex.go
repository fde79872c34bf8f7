package cmd

import (
	"fmt"

	"github.com/miyuchina/compiler/pkg/gone"
	"github.com/spf13/cobra"
)

var lexCmd = &cobra.Command{
	Use:     "lex <file>",
	Aliases: []string{"tokenize"},
	Short:   "Tokenize a Gone file",
	Long: `Tokenize a Gone program and print one token per line.

Lexical errors (illegal characters, unterminated character constants or
comments) are reported to stderr; scanning continues past them.`,
	Args: cobra.ExactArgs(1),
	RunE: runLex,
}

func init() {
	rootCmd.AddCommand(lexCmd)
}

func runLex(cmd *cobra.Command, args []string) error {
	source, err := readSource(args)
	if err != nil {
		return err
	}

	tokens, diagnostics := gone.Tokenize(source)
	for _, tok := range tokens {
		fmt.Println(tok)
	}
	printDiagnostics(diagnostics)
	return nil
}
