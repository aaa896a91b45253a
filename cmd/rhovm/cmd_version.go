package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rhovm/rhovm/pkg/bytecode"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Prints the rhovm wire-format version",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("rhovm bytecode format version %d\n", bytecode.CurrentVersion)
	},
}
