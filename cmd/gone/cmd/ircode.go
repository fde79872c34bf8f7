package cmd

import (
	"fmt"

	"github.com/miyuchina/compiler/pkg/gone"
	"github.com/spf13/cobra"
)

var ircodeCmd = &cobra.Command{
	Use:   "ircode <file>",
	Short: "Generate intermediate code for a Gone file",
	Long: `Run the full pipeline and print the intermediate code, one
instruction per line as a tuple, grouped by procedure. The implicit _init
procedure holds all top-level statements; each func follows as its own
procedure.`,
	Args: cobra.ExactArgs(1),
	RunE: runIRCode,
}

func init() {
	rootCmd.AddCommand(ircodeCmd)
}

func runIRCode(cmd *cobra.Command, args []string) error {
	source, err := readSource(args)
	if err != nil {
		return err
	}

	procedures, diagnostics := gone.IRCode(source)
	for i, proc := range procedures {
		if i > 0 {
			fmt.Println()
		}
		fmt.Println(proc.Signature())
		for _, instr := range proc.Code {
			fmt.Println(instr)
		}
	}
	printDiagnostics(diagnostics)
	return nil
}
