// Package rspace implements the CORE's tuplespace: a name-keyed store of
// channels, process registrations, and immutable values (spec §3.4, §4.3).
package rspace

import "github.com/rhovm/rhovm/pkg/bytecode"

// ProcessStateKind identifies which variant of ProcessState is populated
// (spec §3.3).
type ProcessStateKind int

const (
	StateReady ProcessStateKind = iota
	StateWait
	StateValue
	StateError
)

// String returns a short name for the kind, used in logging and test
// failure messages.
func (k ProcessStateKind) String() string {
	switch k {
	case StateReady:
		return "Ready"
	case StateWait:
		return "Wait"
	case StateValue:
		return "Value"
	case StateError:
		return "Error"
	default:
		return "Unknown"
	}
}

// ProcessState is the process state machine of spec §3.3. It lives in this
// package, rather than pkg/process, because RSpace's Process entry variant
// needs it directly; pkg/process builds the full Process type on top of
// this and the rest of this package.
type ProcessState struct {
	Kind ProcessStateKind

	// Value holds the result for Kind == StateValue.
	Value bytecode.Value

	// Error holds the message for Kind == StateError.
	Error string
}

// Ready is the initial state of a freshly created process.
func Ready() ProcessState { return ProcessState{Kind: StateReady} }

// Wait is the state a process is moved to by explicit scheduling decision.
func Wait() ProcessState { return ProcessState{Kind: StateWait} }

// ValueState creates a terminal Value(v) state.
func ValueState(v bytecode.Value) ProcessState { return ProcessState{Kind: StateValue, Value: v} }

// ErrorState creates a terminal Error(msg) state.
func ErrorState(msg string) ProcessState { return ProcessState{Kind: StateError, Error: msg} }

// IsTerminal reports whether s is a terminal state (Value or Error), which
// per spec §3.2/§3.3 is final: a process in a terminal state is never
// stepped again.
func (s ProcessState) IsTerminal() bool {
	return s.Kind == StateValue || s.Kind == StateError
}

// EntryKind identifies which of the three disjoint Entry variants is
// populated (spec §3.4).
type EntryKind int

const (
	EntryChannel EntryKind = iota
	EntryProcess
	EntryValue
)

func (k EntryKind) String() string {
	switch k {
	case EntryChannel:
		return "Channel"
	case EntryProcess:
		return "Process"
	case EntryValue:
		return "Value"
	default:
		return "Unknown"
	}
}

// Entry is one tagged record stored in RSpace under a unique name (spec
// §3.4). Exactly one payload field is meaningful, selected by Kind.
type Entry struct {
	Kind EntryKind

	// Queue backs the Channel variant: a FIFO sequence of values, head at
	// index 0.
	Queue []bytecode.Value

	// ProcessState backs the Process variant.
	ProcessState ProcessState

	// Value backs the Value variant.
	Value bytecode.Value
}

// channelEntry creates an empty Channel entry.
func channelEntry() Entry {
	return Entry{Kind: EntryChannel}
}

// processEntry creates a Process entry in the given state.
func processEntry(state ProcessState) Entry {
	return Entry{Kind: EntryProcess, ProcessState: state}
}

// valueEntry creates an immutable Value entry.
func valueEntry(v bytecode.Value) Entry {
	return Entry{Kind: EntryValue, Value: v}
}

// isSolved reports whether e satisfies spec §3.5's solved predicate, given
// that an entry with this name exists (the caller checks existence
// separately since absence is also "not solved").
func (e Entry) isSolved() bool {
	switch e.Kind {
	case EntryChannel:
		return len(e.Queue) > 0
	case EntryProcess:
		return e.ProcessState.Kind == StateValue
	case EntryValue:
		return true
	default:
		return false
	}
}
