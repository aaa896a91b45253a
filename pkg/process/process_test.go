package process

import (
	"testing"

	"github.com/rhovm/rhovm/pkg/bytecode"
	"github.com/rhovm/rhovm/pkg/rspace"
)

func TestNewProcessIsReadyWithNoParameters(t *testing.T) {
	p := New(nil, "p", nil)
	rs := rspace.NewMemorySequential()

	if !p.IsReady(rs) {
		t.Errorf("a freshly created process with zero parameters should be ready")
	}
}

func TestIsReadyRequiresAllParametersSolved(t *testing.T) {
	p := New(nil, "p", nil)
	p.AddParameter("a")
	p.AddParameter("b")
	rs := rspace.NewMemorySequential()

	if p.IsReady(rs) {
		t.Errorf("process should not be ready when no parameters are solved")
	}

	rs.SetValue("a", bytecode.NewInt(1))
	if p.IsReady(rs) {
		t.Errorf("process should not be ready when only one of two parameters is solved")
	}

	rs.SetValue("b", bytecode.NewInt(2))
	if !p.IsReady(rs) {
		t.Errorf("process should be ready once every parameter is solved")
	}
}

func TestIsReadyFalseWhenNotInReadyState(t *testing.T) {
	p := New(nil, "p", nil)
	p.SetState(rspace.Wait())
	rs := rspace.NewMemorySequential()

	if p.IsReady(rs) {
		t.Errorf("a process in Wait should never be ready, regardless of parameters")
	}
}

func TestSetStateRejectsLeavingTerminal(t *testing.T) {
	p := New(nil, "p", nil)
	if err := p.SetState(rspace.ValueState(bytecode.NewInt(1))); err != nil {
		t.Fatalf("transition to terminal failed: %v", err)
	}
	if err := p.SetState(rspace.Ready()); err == nil {
		t.Errorf("expected an error transitioning a terminal process back to Ready")
	}
}

func TestLocalsGrowOnlyAndOutOfRange(t *testing.T) {
	p := New(nil, "p", nil)

	idx := p.AllocLocal()
	if idx != 0 {
		t.Fatalf("first AllocLocal index = %d, want 0", idx)
	}
	if err := p.StoreLocal(idx, bytecode.NewInt(5)); err != nil {
		t.Fatalf("StoreLocal: %v", err)
	}
	v, err := p.LoadLocal(idx)
	if err != nil || v.Int != 5 {
		t.Fatalf("LoadLocal = (%v, %v), want (5, nil)", v, err)
	}

	if _, err := p.LoadLocal(1); err == nil {
		t.Errorf("expected an out-of-range error loading an unallocated slot")
	}
}

func TestOperandStackUnderflow(t *testing.T) {
	p := New(nil, "p", nil)
	if _, err := p.Pop(); err == nil {
		t.Errorf("expected a stack-underflow error popping an empty stack")
	}
}

func TestContinuationSlotIDMismatch(t *testing.T) {
	p := New(nil, "p", nil)
	id := p.ContStore(bytecode.NewInt(7))

	if _, ok := p.ContResume(id + 1); ok {
		t.Errorf("ContResume should fail for a mismatched id")
	}
	v, ok := p.ContResume(id)
	if !ok || v.Int != 7 {
		t.Errorf("ContResume(%d) = (%v, %v), want (7, true)", id, v, ok)
	}
}

func TestCloneIsIndependent(t *testing.T) {
	p := New(nil, "p", []bytecode.Value{bytecode.NewStr("x")})
	p.AllocLocal()
	p.StoreLocal(0, bytecode.NewInt(1))

	clone := p.Clone().(*Process)
	clone.StoreLocal(0, bytecode.NewInt(2))

	v, _ := p.LoadLocal(0)
	if v.Int != 1 {
		t.Errorf("mutating the clone's locals affected the original: got %v", v)
	}
}

func TestEqualIsIdentity(t *testing.T) {
	p1 := New(nil, "p", nil)
	p2 := New(nil, "p", nil)

	if !p1.Equal(p1) {
		t.Errorf("a process should equal itself")
	}
	if p1.Equal(p2) {
		t.Errorf("two distinct processes with the same source_ref should not be equal")
	}
}

func TestResetStackRewindsPC(t *testing.T) {
	p := New(nil, "p", nil)
	p.Push(bytecode.NewInt(1))
	p.SetPC(5)

	p.ResetStack()

	if p.StackLen() != 0 {
		t.Errorf("StackLen() = %d, want 0 after ResetStack", p.StackLen())
	}
	if p.PC() != 0 {
		t.Errorf("PC() = %d, want 0 after ResetStack", p.PC())
	}
}
