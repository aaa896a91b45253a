package rspace

import (
	"fmt"
	"strconv"
	"strings"
	"sync/atomic"
)

// Name is a parsed RSpace channel identifier of the form "@<kind>:<id>"
// (spec §3.4, §4.3.4). Entries themselves are keyed by a flat string; Name
// is only a parsed view used to check the kind discipline on channel
// opcodes and to mint fresh identifiers from NAME_CREATE.
type Name struct {
	Kind uint16
	ID   uint64
}

// String renders n in its canonical "@<kind>:<id>" wire form.
func (n Name) String() string {
	return fmt.Sprintf("@%d:%d", n.Kind, n.ID)
}

// ParseName decomposes a "@<kind>:<id>" string into its kind and id. It
// fails if s does not match that shape, which callers should treat as an
// RSpace error (spec §4.3.4: "Mismatches are errors").
func ParseName(s string) (Name, error) {
	if !strings.HasPrefix(s, "@") {
		return Name{}, fmt.Errorf("not a name: %q (missing leading '@')", s)
	}
	rest := s[1:]
	sep := strings.IndexByte(rest, ':')
	if sep < 0 {
		return Name{}, fmt.Errorf("not a name: %q (missing ':' separator)", s)
	}
	kind, err := strconv.ParseUint(rest[:sep], 10, 16)
	if err != nil {
		return Name{}, fmt.Errorf("not a name: %q (bad kind: %w)", s, err)
	}
	id, err := strconv.ParseUint(rest[sep+1:], 10, 64)
	if err != nil {
		return Name{}, fmt.Errorf("not a name: %q (bad id: %w)", s, err)
	}
	return Name{Kind: uint16(kind), ID: id}, nil
}

// NameAllocator mints fresh, globally unique names for a single VM, using
// a monotonic counter (spec §5: "NAME_CREATE uses a monotonic per-VM
// counter... under the concurrent backend, the counter must be atomically
// incremented").
type NameAllocator struct {
	counter uint64
}

// Next allocates a fresh name of the given kind. Safe for concurrent use.
func (a *NameAllocator) Next(kind uint16) Name {
	id := atomic.AddUint64(&a.counter, 1) - 1
	return Name{Kind: kind, ID: id}
}
