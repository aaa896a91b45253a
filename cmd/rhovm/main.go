package main

import (
	"fmt"
	"os"

	"github.com/rhovm/rhovm/pkg/errs"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(errs.StatusCodeBadUsage)
	}
}
