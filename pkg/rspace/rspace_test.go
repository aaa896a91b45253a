package rspace

import (
	"testing"

	"github.com/rhovm/rhovm/pkg/bytecode"
)

func backends() map[string]func() RSpace {
	return map[string]func() RSpace{
		"sequential": func() RSpace { return NewMemorySequential() },
		"concurrent": func() RSpace { return NewMemoryConcurrent() },
	}
}

func TestChannelFIFO(t *testing.T) {
	for name, newRSpace := range backends() {
		t.Run(name, func(t *testing.T) {
			rs := newRSpace()

			if err := rs.Tell("ch", bytecode.NewInt(1)); err != nil {
				t.Fatalf("Tell: %v", err)
			}
			if err := rs.Tell("ch", bytecode.NewInt(2)); err != nil {
				t.Fatalf("Tell: %v", err)
			}

			v, ok, err := rs.Ask("ch")
			if err != nil || !ok || v.Int != 1 {
				t.Fatalf("Ask = (%v, %v, %v), want (1, true, nil)", v, ok, err)
			}
			v, ok, err = rs.Ask("ch")
			if err != nil || !ok || v.Int != 2 {
				t.Fatalf("Ask = (%v, %v, %v), want (2, true, nil)", v, ok, err)
			}
			_, ok, err = rs.Ask("ch")
			if err != nil || ok {
				t.Fatalf("Ask on empty channel should return ok=false, err=nil; got ok=%v, err=%v", ok, err)
			}
		})
	}
}

func TestPeekDoesNotConsume(t *testing.T) {
	rs := NewMemorySequential()
	rs.Tell("ch", bytecode.NewInt(7))

	v, ok, err := rs.Peek("ch")
	if err != nil || !ok || v.Int != 7 {
		t.Fatalf("Peek = (%v, %v, %v), want (7, true, nil)", v, ok, err)
	}
	v, ok, err = rs.Peek("ch")
	if err != nil || !ok || v.Int != 7 {
		t.Fatalf("second Peek should see the same head, got (%v, %v, %v)", v, ok, err)
	}
}

func TestValueEntryIsImmutable(t *testing.T) {
	rs := NewMemorySequential()
	if err := rs.SetValue("n", bytecode.NewInt(1)); err != nil {
		t.Fatalf("SetValue: %v", err)
	}
	if err := rs.SetValue("n", bytecode.NewInt(2)); err == nil {
		t.Fatalf("expected an error re-setting an already-set value entry")
	}
	v, ok := rs.GetValue("n")
	if !ok || v.Int != 1 {
		t.Fatalf("GetValue = (%v, %v), want (1, true) -- value should not have been overwritten", v, ok)
	}
}

func TestKindMismatchErrors(t *testing.T) {
	rs := NewMemorySequential()
	rs.SetValue("n", bytecode.NewInt(1))

	if err := rs.Tell("n", bytecode.NewInt(2)); err == nil {
		t.Fatalf("expected an error telling a name that holds a Value entry")
	}
	if err := rs.RegisterProcess("n", Ready()); err == nil {
		t.Fatalf("expected an error registering a process over a Value entry")
	}
}

func TestIsSolved(t *testing.T) {
	rs := NewMemorySequential()

	if rs.IsSolved("absent") {
		t.Errorf("absent entry should not be solved")
	}

	rs.Tell("ch", bytecode.Nil) // empty-to-nonempty transition below
	if !rs.IsSolved("ch") {
		t.Errorf("non-empty channel should be solved")
	}

	rs.RegisterProcess("p-wait", Wait())
	if rs.IsSolved("p-wait") {
		t.Errorf("process in Wait should not be solved")
	}
	rs.UpdateProcess("p-wait", ValueState(bytecode.NewInt(5)))
	if !rs.IsSolved("p-wait") {
		t.Errorf("process in Value(_) should be solved")
	}

	rs.SetValue("v", bytecode.NewInt(1))
	if !rs.IsSolved("v") {
		t.Errorf("a Value entry should always be solved")
	}
}

func TestReset(t *testing.T) {
	rs := NewMemorySequential()
	rs.Tell("ch", bytecode.NewInt(1))
	rs.Reset()

	if _, ok := rs.GetEntry("ch"); ok {
		t.Errorf("entry should not exist after Reset")
	}
	if rs.IsSolved("ch") {
		t.Errorf("nothing should be solved after Reset")
	}
}

func TestNameRoundTrip(t *testing.T) {
	n := Name{Kind: 3, ID: 42}
	parsed, err := ParseName(n.String())
	if err != nil {
		t.Fatalf("ParseName(%q): %v", n.String(), err)
	}
	if parsed != n {
		t.Errorf("ParseName(%q) = %v, want %v", n.String(), parsed, n)
	}
}

func TestParseNameRejectsMalformed(t *testing.T) {
	for _, s := range []string{"", "nope", "@3", "@3-4", "@x:4"} {
		if _, err := ParseName(s); err == nil {
			t.Errorf("ParseName(%q) should have failed", s)
		}
	}
}

func TestNameAllocatorMonotonicAndUnique(t *testing.T) {
	var alloc NameAllocator
	seen := make(map[uint64]bool)
	for i := 0; i < 100; i++ {
		n := alloc.Next(1)
		if seen[n.ID] {
			t.Fatalf("duplicate id %d allocated", n.ID)
		}
		seen[n.ID] = true
	}
}
