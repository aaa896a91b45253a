package bytecode

import "testing"

// fakeProcess is a minimal ProcessHandle stand-in so this package's tests
// can exercise Par without importing pkg/process (which imports this
// package, and would create a cycle).
type fakeProcess struct {
	ref string
}

func (f *fakeProcess) Clone() ProcessHandle { return &fakeProcess{ref: f.ref} }
func (f *fakeProcess) Equal(o ProcessHandle) bool {
	other, ok := o.(*fakeProcess)
	return ok && other == f
}
func (f *fakeProcess) SourceRef() string { return f.ref }

func TestValueEqual(t *testing.T) {
	cases := []struct {
		name string
		a, b Value
		want bool
	}{
		{"int eq", NewInt(1), NewInt(1), true},
		{"int neq", NewInt(1), NewInt(2), false},
		{"bool eq", NewBool(true), NewBool(true), true},
		{"str eq", NewStr("x"), NewStr("x"), true},
		{"kind mismatch", NewInt(1), NewStr("1"), false},
		{"nil eq", Nil, Nil, true},
		{"list eq", NewList(NewInt(1), NewInt(2)), NewList(NewInt(1), NewInt(2)), true},
		{"list order matters", NewList(NewInt(1), NewInt(2)), NewList(NewInt(2), NewInt(1)), false},
		{"tuple vs list same elems", NewTuple(NewInt(1)), NewList(NewInt(1)), false},
		{
			"map eq",
			NewMap(MapEntry{Key: NewStr("a"), Value: NewInt(1)}),
			NewMap(MapEntry{Key: NewStr("a"), Value: NewInt(1)}),
			true,
		},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := Equal(c.a, c.b); got != c.want {
				t.Errorf("Equal(%v, %v) = %v, want %v", c.a, c.b, got, c.want)
			}
		})
	}
}

func TestValueClone(t *testing.T) {
	original := NewList(NewStr("a"), NewList(NewInt(1)))
	cloned := original.Clone()

	if !Equal(original, cloned) {
		t.Fatalf("clone not equal to original")
	}

	// Mutate the clone's nested list; the original must be unaffected.
	cloned.List[1].List[0] = NewInt(99)
	if Equal(original, cloned) {
		t.Fatalf("mutating clone affected original: clone is not a deep copy")
	}
}

func TestParEquality(t *testing.T) {
	p1 := &fakeProcess{ref: "proc-1"}
	p2 := &fakeProcess{ref: "proc-2"}

	a := NewPar(p1, p2)
	b := NewPar(p1, p2)
	c := NewPar(p1, p1)

	if !Equal(a, b) {
		t.Errorf("Par values with the same process handles should be equal")
	}
	if Equal(a, c) {
		t.Errorf("Par values with different process handles should not be equal")
	}
}

func TestParClone(t *testing.T) {
	p := &fakeProcess{ref: "proc-1"}
	v := NewPar(p)

	cloned := v.Clone()
	if cloned.Par[0] == v.Par[0] {
		t.Errorf("Clone should produce a new process handle, not share the original")
	}
	if cloned.Par[0].SourceRef() != "proc-1" {
		t.Errorf("cloned process handle lost its source ref")
	}
}
