package errs

const (
	// StatusCodeSuccess indicates a successful execution.
	StatusCodeSuccess = 0

	// StatusCodeAssembleError indicates the assembler rejected the input
	// program.
	StatusCodeAssembleError = 1

	// StatusCodeRuntimeError indicates a process terminated in the Error
	// state.
	StatusCodeRuntimeError = 2

	// StatusCodeBadUsage indicates the rhovm tool was invoked incorrectly
	// (bad flags, wrong argument count).
	StatusCodeBadUsage = 50

	// StatusCodeToolError indicates some other failure in the rhovm tool
	// itself (e.g. a file that could not be opened).
	StatusCodeToolError = 60

	// StatusCodeICE indicates an invariant the CORE itself is supposed to
	// guarantee was violated.
	StatusCodeICE = 125
)
