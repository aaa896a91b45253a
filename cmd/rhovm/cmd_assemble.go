package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/rhovm/rhovm/pkg/asm"
	"github.com/rhovm/rhovm/pkg/bytecode"
	"github.com/rhovm/rhovm/pkg/errs"
)

// flagAssembleOutput is the value of the --output flag of the `assemble`
// command.
var flagAssembleOutput string

var assembleCmd = &cobra.Command{
	Use:   "assemble <source.rvasm>",
	Short: "Assembles a textual rhovm program into a bytecode module",
	Long:  `Assembles a textual rhovm program into a bytecode module, written to disk in pkg/bytecode's wire format.`,
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		source, err := os.ReadFile(args[0])
		if err != nil {
			reportAndExitOnError(errs.NewTool("reading %s: %v", args[0], err))
		}

		module, err := asm.Assemble(string(source), args[0])
		reportAndExitOnError(err)

		out := flagAssembleOutput
		if out == "" {
			out = args[0] + ".rhom"
		}

		if err := os.WriteFile(out, bytecode.Serialize(module), 0o644); err != nil {
			reportAndExitOnError(errs.NewTool("writing %s: %v", out, err))
		}
	},
}

func init() {
	assembleCmd.Flags().StringVarP(&flagAssembleOutput, "output", "o", "",
		"Path to write the assembled module to (default: <source>.rhom)")
}
