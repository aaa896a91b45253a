package rspace

import (
	"fmt"
	"log/slog"
)

// Type selects an RSpace backend (spec §6.2). Only MemorySequential and
// MemoryConcurrent are required by the CORE; StoreSequential and
// StoreConcurrent are declared for API completeness (spec §9's open
// question on persistence) and rejected by New with a clear error rather
// than silently falling back to an in-memory backend.
type Type int

const (
	MemorySequentialType Type = iota
	MemoryConcurrentType
	StoreSequentialType
	StoreConcurrentType
)

func (t Type) String() string {
	switch t {
	case MemorySequentialType:
		return "MemorySequential"
	case MemoryConcurrentType:
		return "MemoryConcurrent"
	case StoreSequentialType:
		return "StoreSequential"
	case StoreConcurrentType:
		return "StoreConcurrent"
	default:
		return "Unknown"
	}
}

// New constructs the RSpace backend named by t.
func New(t Type) (RSpace, error) {
	switch t {
	case MemorySequentialType:
		slog.Debug("rspace: selected backend", "backend", t)
		return NewMemorySequential(), nil
	case MemoryConcurrentType:
		slog.Debug("rspace: selected backend", "backend", t)
		return NewMemoryConcurrent(), nil
	case StoreSequentialType, StoreConcurrentType:
		return nil, fmt.Errorf("rspace: %v backend is declared but not implemented (out of scope for the CORE beyond satisfying the RSpace interface)", t)
	default:
		return nil, fmt.Errorf("rspace: unknown RSpace type %d", t)
	}
}
