package rspace

import "github.com/rhovm/rhovm/pkg/bytecode"

// RSpace is the tuplespace trait surface of spec §4.3.1. Two baseline
// implementations are provided in this package, MemorySequential and
// MemoryConcurrent; StoreSequential and StoreConcurrent are declared as
// Type constants for API completeness but are out of scope (spec §9).
type RSpace interface {
	// GetEntry returns the entry at name, and whether it exists.
	GetEntry(name string) (Entry, bool)

	// IsSolved reports whether name's entry satisfies spec §3.5.
	IsSolved(name string) bool

	// Tell enqueues value onto the channel at name, creating the channel
	// if name has no entry yet. Fails if name holds a non-channel entry.
	Tell(name string, value bytecode.Value) error

	// Ask dequeues and returns the head of the channel at name. Returns
	// (Nil, false) if the channel is empty; fails if name holds a
	// non-channel entry.
	Ask(name string) (bytecode.Value, bool, error)

	// Peek returns the head of the channel at name without removing it.
	// Returns (Nil, false) if the channel is empty; fails if name holds a
	// non-channel entry.
	Peek(name string) (bytecode.Value, bool, error)

	// RegisterProcess creates a Process{state} entry at name. Fails if
	// name is already taken by a different entry kind.
	RegisterProcess(name string, state ProcessState) error

	// UpdateProcess updates the state of the Process entry at name. Fails
	// if the entry is missing or of the wrong kind.
	UpdateProcess(name string, state ProcessState) error

	// GetProcessState returns the state of the Process entry at name, and
	// whether it exists as a Process entry.
	GetProcessState(name string) (ProcessState, bool)

	// SetValue stores an immutable Value entry at name. Fails if name is
	// already taken by a different entry kind, or already holds a Value.
	SetValue(name string, value bytecode.Value) error

	// GetValue returns the value stored at name, and whether it exists as
	// a Value entry.
	GetValue(name string) (bytecode.Value, bool)

	// Reset clears every entry.
	Reset()
}
