package errs

import (
	"errors"
	"fmt"
	"os"
)

// ReportAndExit reports err to the end user on stderr and exits with the
// appropriate status code. A nil err exits successfully.
func ReportAndExit(err error) {
	var badUsage *BadUsage
	var assemble *Assemble
	var tool *Tool
	var runtime *Runtime
	var ice *ICE

	switch {
	case err == nil:
		os.Exit(StatusCodeSuccess)

	case errors.As(err, &badUsage):
		fmt.Fprintf(os.Stderr, "Usage: %v\n", badUsage)
		os.Exit(StatusCodeBadUsage)

	case errors.As(err, &assemble):
		fmt.Fprintf(os.Stderr, "%v\n", assemble)
		os.Exit(StatusCodeAssembleError)

	case errors.As(err, &runtime):
		fmt.Fprintf(os.Stderr, "%v\n", runtime)
		os.Exit(StatusCodeRuntimeError)

	case errors.As(err, &tool):
		fmt.Fprintf(os.Stderr, "%v\n", tool)
		os.Exit(StatusCodeToolError)

	case errors.As(err, &ice):
		fmt.Fprintf(os.Stderr, "%v\n", ice)
		os.Exit(StatusCodeICE)

	default:
		fmt.Fprintf(os.Stderr, "internal error: unexpected error of type %T: %v\n", err, err)
		os.Exit(StatusCodeICE)
	}
}
