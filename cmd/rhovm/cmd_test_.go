package main

import (
	"github.com/spf13/cobra"

	"github.com/rhovm/rhovm/pkg/testsuite"
)

// This file is named with a trailing underscore before the extension so the
// Go toolchain doesn't mistake it for a _test.go file (it isn't -- testCmd
// is a regular subcommand that happens to run tests).
var testCmd = &cobra.Command{
	Use:   "test <suite-dir>",
	Short: "Runs every TOML-described scenario under a suite directory",
	Long:  `Runs every scenario.toml fixture found recursively under the given directory (see pkg/testsuite).`,
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		reportAndExitOnError(testsuite.ExecuteSuite(args[0]))
	},
}
