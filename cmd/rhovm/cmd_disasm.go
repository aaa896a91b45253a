package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/rhovm/rhovm/pkg/bytecode"
	"github.com/rhovm/rhovm/pkg/errs"
)

var disasmCmd = &cobra.Command{
	Use:   "disasm <program>",
	Short: "Disassembles a rhovm program to stdout",
	Long:  `Assembles (if needed) a rhovm program and prints its instruction stream in human-readable form.`,
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		module, err := loadModule(args[0])
		reportAndExitOnError(err)

		if err := bytecode.Disassemble(os.Stdout, module); err != nil {
			reportAndExitOnError(errs.NewTool("disassembling %s: %v", args[0], err))
		}
	},
}
