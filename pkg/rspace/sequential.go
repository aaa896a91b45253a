package rspace

import "github.com/rhovm/rhovm/pkg/bytecode"

// MemorySequential is the single-threaded, in-memory RSpace backend (spec
// §4.3, §4.3.3): a bare map, no locking. Callers are responsible for
// single-threaded access, as for the single-threaded cooperative
// scheduling mode of spec §5.
type MemorySequential struct {
	entries map[string]Entry
}

// NewMemorySequential creates an empty sequential RSpace.
func NewMemorySequential() *MemorySequential {
	return &MemorySequential{entries: make(map[string]Entry)}
}

func (s *MemorySequential) GetEntry(name string) (Entry, bool) {
	e, ok := s.entries[name]
	return e, ok
}

func (s *MemorySequential) IsSolved(name string) bool {
	return isSolvedEntry(s.entries, name)
}

func (s *MemorySequential) Tell(name string, value bytecode.Value) error {
	return tellEntry(s.entries, name, value)
}

func (s *MemorySequential) Ask(name string) (bytecode.Value, bool, error) {
	return askEntry(s.entries, name)
}

func (s *MemorySequential) Peek(name string) (bytecode.Value, bool, error) {
	return peekEntry(s.entries, name)
}

func (s *MemorySequential) RegisterProcess(name string, state ProcessState) error {
	return registerProcessEntry(s.entries, name, state)
}

func (s *MemorySequential) UpdateProcess(name string, state ProcessState) error {
	return updateProcessEntry(s.entries, name, state)
}

func (s *MemorySequential) GetProcessState(name string) (ProcessState, bool) {
	return getProcessStateEntry(s.entries, name)
}

func (s *MemorySequential) SetValue(name string, value bytecode.Value) error {
	return setValueEntry(s.entries, name, value)
}

func (s *MemorySequential) GetValue(name string) (bytecode.Value, bool) {
	return getValueEntry(s.entries, name)
}

func (s *MemorySequential) Reset() {
	s.entries = make(map[string]Entry)
}
