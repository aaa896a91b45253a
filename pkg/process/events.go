package process

import (
	"github.com/google/uuid"
	"github.com/rhovm/rhovm/pkg/bytecode"
)

// EventKind identifies which variant of ProcessEvent is populated.
type EventKind int

const (
	EventValue EventKind = iota
	EventError
)

// ProcessEvent is fired by ExecuteWithEvent on a process's terminal
// transition (spec §4.2, §4.4). CorrelationID is an ambient addition not
// named by the spec: it lets a caller that fans out many concurrent
// executions (pkg/scheduler's parallel worker mode) tie an event back to
// the call that produced it in a log line, without ever touching RSpace
// naming -- RSpace names are always minted by rspace.NameAllocator, never
// by uuid.
type ProcessEvent struct {
	Kind          EventKind
	SourceRef     string
	Value         bytecode.Value
	Message       string
	CorrelationID uuid.UUID
}

// NewValueEvent creates a terminal Value(v) event for sourceRef.
func NewValueEvent(sourceRef string, v bytecode.Value) ProcessEvent {
	return ProcessEvent{
		Kind:          EventValue,
		SourceRef:     sourceRef,
		Value:         v,
		CorrelationID: uuid.New(),
	}
}

// NewErrorEvent creates a terminal Error(msg) event for sourceRef.
func NewErrorEvent(sourceRef string, msg string) ProcessEvent {
	return ProcessEvent{
		Kind:          EventError,
		SourceRef:     sourceRef,
		Message:       msg,
		CorrelationID: uuid.New(),
	}
}
