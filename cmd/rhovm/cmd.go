package main

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:          "rhovm",
	SilenceUsage: true,
	Short:        "rhovm runs and inspects rho-calculus bytecode modules",
	Long: `rhovm is the reference implementation of the rho-calculus bytecode
virtual machine: an assembler for the textual rhovm instruction set, an
interpreter driven by a tuple-space process store, and the tooling to
inspect both.`,
}

func init() {
	rootCmd.AddCommand(assembleCmd, runCmd, disasmCmd, versionCmd, testCmd)
}
