package rspace

import (
	"fmt"

	"github.com/rhovm/rhovm/pkg/bytecode"
)

// The functions in this file implement the entry invariants of spec
// §4.3.2 against a plain map[string]Entry. They assume the caller already
// holds whatever lock its backend requires; MemorySequential calls them
// directly, MemoryConcurrent calls them with its mutex held. Keeping the
// invariant logic in one place means the sequential and concurrent
// backends cannot drift apart on what counts as a kind mismatch.

func tellEntry(entries map[string]Entry, name string, value bytecode.Value) error {
	e, ok := entries[name]
	if !ok {
		entries[name] = Entry{Kind: EntryChannel, Queue: []bytecode.Value{value}}
		return nil
	}
	if e.Kind != EntryChannel {
		return fmt.Errorf("rspace: cannot tell %q: entry is %v, not Channel", name, e.Kind)
	}
	e.Queue = append(e.Queue, value)
	entries[name] = e
	return nil
}

func askEntry(entries map[string]Entry, name string) (bytecode.Value, bool, error) {
	e, ok := entries[name]
	if !ok {
		return bytecode.Nil, false, nil
	}
	if e.Kind != EntryChannel {
		return bytecode.Nil, false, fmt.Errorf("rspace: cannot ask %q: entry is %v, not Channel", name, e.Kind)
	}
	if len(e.Queue) == 0 {
		return bytecode.Nil, false, nil
	}
	head := e.Queue[0]
	e.Queue = e.Queue[1:]
	entries[name] = e
	return head, true, nil
}

func peekEntry(entries map[string]Entry, name string) (bytecode.Value, bool, error) {
	e, ok := entries[name]
	if !ok {
		return bytecode.Nil, false, nil
	}
	if e.Kind != EntryChannel {
		return bytecode.Nil, false, fmt.Errorf("rspace: cannot peek %q: entry is %v, not Channel", name, e.Kind)
	}
	if len(e.Queue) == 0 {
		return bytecode.Nil, false, nil
	}
	return e.Queue[0].Clone(), true, nil
}

func registerProcessEntry(entries map[string]Entry, name string, state ProcessState) error {
	if e, ok := entries[name]; ok && e.Kind != EntryProcess {
		return fmt.Errorf("rspace: cannot register process %q: name already holds a %v entry", name, e.Kind)
	}
	entries[name] = processEntry(state)
	return nil
}

func updateProcessEntry(entries map[string]Entry, name string, state ProcessState) error {
	e, ok := entries[name]
	if !ok {
		return fmt.Errorf("rspace: cannot update process %q: no such entry", name)
	}
	if e.Kind != EntryProcess {
		return fmt.Errorf("rspace: cannot update process %q: entry is %v, not Process", name, e.Kind)
	}
	e.ProcessState = state
	entries[name] = e
	return nil
}

func getProcessStateEntry(entries map[string]Entry, name string) (ProcessState, bool) {
	e, ok := entries[name]
	if !ok || e.Kind != EntryProcess {
		return ProcessState{}, false
	}
	return e.ProcessState, true
}

func setValueEntry(entries map[string]Entry, name string, value bytecode.Value) error {
	if e, ok := entries[name]; ok {
		return fmt.Errorf("rspace: cannot set value %q: name already holds a %v entry", name, e.Kind)
	}
	entries[name] = valueEntry(value)
	return nil
}

func getValueEntry(entries map[string]Entry, name string) (bytecode.Value, bool) {
	e, ok := entries[name]
	if !ok || e.Kind != EntryValue {
		return bytecode.Nil, false
	}
	return e.Value, true
}

func isSolvedEntry(entries map[string]Entry, name string) bool {
	e, ok := entries[name]
	if !ok {
		return false
	}
	return e.isSolved()
}
