package main

import (
	"github.com/rhovm/rhovm/pkg/errs"
)

// reportAndExitOnError is a no-op if err is nil, and otherwise reports err
// to the end user and exits with its error kind's status code.
func reportAndExitOnError(err error) {
	if err == nil {
		return
	}
	errs.ReportAndExit(err)
}
