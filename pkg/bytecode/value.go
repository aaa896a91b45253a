package bytecode

import (
	"fmt"
	"strconv"
	"strings"
)

// ValueKind identifies which variant of the Value tagged sum is populated
// (spec §3.1). We say "kind" (not "type") because "type" is a Go keyword.
type ValueKind int

const (
	KindNil ValueKind = iota
	KindInt
	KindBool
	KindStr
	KindName
	KindList
	KindTuple
	KindMap
	KindPar
)

// String returns a short name for the kind, used in type-mismatch error
// messages.
func (k ValueKind) String() string {
	switch k {
	case KindNil:
		return "Nil"
	case KindInt:
		return "Int"
	case KindBool:
		return "Bool"
	case KindStr:
		return "Str"
	case KindName:
		return "Name"
	case KindList:
		return "List"
	case KindTuple:
		return "Tuple"
	case KindMap:
		return "Map"
	case KindPar:
		return "Par"
	default:
		return "Unknown"
	}
}

// ProcessHandle is the minimal view of a process that a Par value needs to
// hold. It is defined here, rather than in pkg/process, specifically to
// avoid a bytecode<->process import cycle: pkg/process.Process implements
// this interface, and consumers that need the full Process API (the
// engine, the process runtime) type-assert back to *process.Process, which
// they already import directly.
type ProcessHandle interface {
	// Clone returns a deep copy of the underlying process, isolated from
	// the original (spec §3.1: every Value variant is deep-cloneable).
	Clone() ProcessHandle

	// Equal reports whether other refers to the very same process.
	// Processes are mutable, stateful execution units; structural
	// equality for CMP_EQ is identity equality, not field-by-field
	// comparison.
	Equal(other ProcessHandle) bool

	// SourceRef returns the process's stable debugging/callback
	// identifier (spec §3.2).
	SourceRef() string
}

// MapEntry is one (key, value) pair of a Map value. Map is an ordered
// association list, not a Go map, so that insertion order is preserved
// (spec §3.1).
type MapEntry struct {
	Key   Value
	Value Value
}

// Value is a CORE runtime value: a closed, tagged sum of the nine variants
// in spec §3.1. Exactly one of the payload fields is meaningful, selected
// by Kind.
type Value struct {
	Kind ValueKind

	Int  int64
	Bool bool
	Str  string

	// Name holds the full "@<kind>:<id>" string for a KindName value.
	Name string

	List []Value
	Map  []MapEntry
	Par  []ProcessHandle
}

// Nil is the absence of a value.
var Nil = Value{Kind: KindNil}

// NewInt creates an Int value.
func NewInt(i int64) Value { return Value{Kind: KindInt, Int: i} }

// NewBool creates a Bool value.
func NewBool(b bool) Value { return Value{Kind: KindBool, Bool: b} }

// NewStr creates a Str value.
func NewStr(s string) Value { return Value{Kind: KindStr, Str: s} }

// NewName creates a Name value from an already-formatted "@<kind>:<id>"
// string. Use ParseName to validate/decompose one.
func NewName(name string) Value { return Value{Kind: KindName, Name: name} }

// NewList creates a List value from vs, which is copied.
func NewList(vs ...Value) Value {
	return Value{Kind: KindList, List: append([]Value(nil), vs...)}
}

// NewTuple creates a Tuple value from vs, which is copied. Tuple and List
// share a representation (an ordered []Value) but are distinguished by
// Kind, per spec §3.1.
func NewTuple(vs ...Value) Value {
	return Value{Kind: KindTuple, List: append([]Value(nil), vs...)}
}

// NewMap creates a Map value from entries, which is copied, preserving
// order.
func NewMap(entries ...MapEntry) Value {
	return Value{Kind: KindMap, Map: append([]MapEntry(nil), entries...)}
}

// NewPar creates a Par value from a sequence of process handles.
func NewPar(procs ...ProcessHandle) Value {
	return Value{Kind: KindPar, Par: append([]ProcessHandle(nil), procs...)}
}

// IsNil reports whether v is the Nil variant.
func (v Value) IsNil() bool { return v.Kind == KindNil }

// Clone returns a deep copy of v. Every variant is deep-cloneable (spec
// §3.1): List/Tuple/Map/Par payloads are recursively cloned so that
// mutating the copy never affects the original.
func (v Value) Clone() Value {
	switch v.Kind {
	case KindList, KindTuple:
		cloned := make([]Value, len(v.List))
		for i, e := range v.List {
			cloned[i] = e.Clone()
		}
		return Value{Kind: v.Kind, List: cloned}

	case KindMap:
		cloned := make([]MapEntry, len(v.Map))
		for i, e := range v.Map {
			cloned[i] = MapEntry{Key: e.Key.Clone(), Value: e.Value.Clone()}
		}
		return Value{Kind: KindMap, Map: cloned}

	case KindPar:
		cloned := make([]ProcessHandle, len(v.Par))
		for i, p := range v.Par {
			cloned[i] = p.Clone()
		}
		return Value{Kind: KindPar, Par: cloned}

	default:
		// Int, Bool, Str, Name, Nil are all plain Go values; a shallow
		// copy of the struct is already a deep copy.
		return v
	}
}

// Equal reports whether a and b are structurally equal (spec §3.1, used by
// CMP_EQ/CMP_NEQ).
func Equal(a, b Value) bool {
	if a.Kind != b.Kind {
		return false
	}
	switch a.Kind {
	case KindNil:
		return true
	case KindInt:
		return a.Int == b.Int
	case KindBool:
		return a.Bool == b.Bool
	case KindStr:
		return a.Str == b.Str
	case KindName:
		return a.Name == b.Name
	case KindList, KindTuple:
		if len(a.List) != len(b.List) {
			return false
		}
		for i := range a.List {
			if !Equal(a.List[i], b.List[i]) {
				return false
			}
		}
		return true
	case KindMap:
		if len(a.Map) != len(b.Map) {
			return false
		}
		for i := range a.Map {
			if !Equal(a.Map[i].Key, b.Map[i].Key) || !Equal(a.Map[i].Value, b.Map[i].Value) {
				return false
			}
		}
		return true
	case KindPar:
		if len(a.Par) != len(b.Par) {
			return false
		}
		for i := range a.Par {
			if !a.Par[i].Equal(b.Par[i]) {
				return false
			}
		}
		return true
	default:
		return false
	}
}

// String converts the value to a human-readable string, for disassembly,
// logging, and CLI output.
func (v Value) String() string {
	switch v.Kind {
	case KindNil:
		return "nil"
	case KindInt:
		return strconv.FormatInt(v.Int, 10)
	case KindBool:
		return strconv.FormatBool(v.Bool)
	case KindStr:
		return strconv.Quote(v.Str)
	case KindName:
		return v.Name
	case KindList:
		return "[" + joinValues(v.List) + "]"
	case KindTuple:
		return "(" + joinValues(v.List) + ")"
	case KindMap:
		parts := make([]string, len(v.Map))
		for i, e := range v.Map {
			parts[i] = fmt.Sprintf("%v: %v", e.Key, e.Value)
		}
		return "{" + strings.Join(parts, ", ") + "}"
	case KindPar:
		refs := make([]string, len(v.Par))
		for i, p := range v.Par {
			refs[i] = p.SourceRef()
		}
		return "par(" + strings.Join(refs, " | ") + ")"
	default:
		return fmt.Sprintf("<unknown value kind %d>", v.Kind)
	}
}

func joinValues(vs []Value) string {
	parts := make([]string, len(vs))
	for i, v := range vs {
		parts[i] = v.String()
	}
	return strings.Join(parts, ", ")
}
