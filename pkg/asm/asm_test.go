package asm

import (
	"errors"
	"strings"
	"testing"

	"github.com/rhovm/rhovm/pkg/bytecode"
	"github.com/rhovm/rhovm/pkg/errs"
)

func TestAssembleSimpleProgram(t *testing.T) {
	src := `
.module arith
.entry start

start:
    PUSH_INT 40
    PUSH_INT 2
    ADD
    HALT
`
	m, err := Assemble(src, "arith.rvasm")
	if err != nil {
		t.Fatalf("Assemble failed: %v", err)
	}
	if m.Name != "arith" {
		t.Errorf("m.Name = %q, want %q (set by .module)", m.Name, "arith")
	}
	if m.EntryPoint != 0 {
		t.Errorf("m.EntryPoint = %d, want 0", m.EntryPoint)
	}
	if m.Len() != 4 {
		t.Fatalf("m.Len() = %d, want 4", m.Len())
	}
	wantOps := []bytecode.OpCode{bytecode.OpPushInt, bytecode.OpPushInt, bytecode.OpAdd, bytecode.OpHalt}
	for i, want := range wantOps {
		instr, err := m.At(i)
		if err != nil {
			t.Fatalf("m.At(%d): %v", i, err)
		}
		if instr.Op != want {
			t.Errorf("instruction %d: Op = %v, want %v", i, instr.Op, want)
		}
	}
}

func TestAssembleForwardJump(t *testing.T) {
	src := `
    JUMP done
    PUSH_INT 1
done:
    HALT
`
	m, err := Assemble(src, "jump.rvasm")
	if err != nil {
		t.Fatalf("Assemble failed: %v", err)
	}
	jump, err := m.At(0)
	if err != nil {
		t.Fatalf("m.At(0): %v", err)
	}
	if jump.Op != bytecode.OpJump {
		t.Fatalf("first instruction Op = %v, want JUMP", jump.Op)
	}
	if want := m.Labels["done"]; int(jump.Op16) != want {
		t.Errorf("JUMP target = %d, want label index %d", jump.Op16, want)
	}
	if m.Labels["done"] != 2 {
		t.Errorf("label %q resolved to %d, want 2", "done", m.Labels["done"])
	}
}

func TestAssembleStringConstantInterning(t *testing.T) {
	src := `
    PUSH_STR "hello"
    PUSH_STR "world"
    PUSH_STR "hello"
    HALT
`
	m, err := Assemble(src, "strings.rvasm")
	if err != nil {
		t.Fatalf("Assemble failed: %v", err)
	}
	if len(m.Constants) != 2 {
		t.Fatalf("len(m.Constants) = %d, want 2 (repeated literal should dedupe)", len(m.Constants))
	}
	first, _ := m.At(0)
	third, _ := m.At(2)
	if first.Op16 != third.Op16 {
		t.Errorf("two PUSH_STR \"hello\" instructions resolved to different constant indices: %d vs %d", first.Op16, third.Op16)
	}
}

func TestAssemblePushBoolAcceptsBarewords(t *testing.T) {
	src := `
    PUSH_BOOL true
    PUSH_BOOL false
    HALT
`
	m, err := Assemble(src, "bools.rvasm")
	if err != nil {
		t.Fatalf("Assemble failed: %v", err)
	}
	tru, _ := m.At(0)
	fls, _ := m.At(1)
	if tru.Op16 != 1 {
		t.Errorf("PUSH_BOOL true encoded Op16 = %d, want 1", tru.Op16)
	}
	if fls.Op16 != 0 {
		t.Errorf("PUSH_BOOL false encoded Op16 = %d, want 0", fls.Op16)
	}
}

func TestAssemblePushIntNegativeLiteral(t *testing.T) {
	m, err := Assemble("PUSH_INT -1\nHALT\n", "neg.rvasm")
	if err != nil {
		t.Fatalf("Assemble failed: %v", err)
	}
	instr, _ := m.At(0)
	if got := int64(int16(instr.Op16)); got != -1 {
		t.Errorf("decoded PUSH_INT operand = %d, want -1", got)
	}
}

func TestAssembleDuplicateLabelIsAnError(t *testing.T) {
	src := "start:\nstart:\nHALT\n"
	_, err := Assemble(src, "dup.rvasm")
	assertAssembleError(t, err, "duplicate label")
}

func TestAssembleUndefinedLabelIsAnError(t *testing.T) {
	_, err := Assemble("JUMP nowhere\nHALT\n", "undef.rvasm")
	assertAssembleError(t, err, "undefined label")
}

func TestAssembleUnknownMnemonicIsAnError(t *testing.T) {
	_, err := Assemble("FROBNICATE\n", "bad.rvasm")
	assertAssembleError(t, err, "unknown mnemonic")
}

func TestAssembleWrongOperandArityIsAnError(t *testing.T) {
	_, err := Assemble("ADD 1\n", "arity.rvasm")
	assertAssembleError(t, err, "takes no operands")
}

func TestAssembleUnterminatedStringIsAnError(t *testing.T) {
	_, err := Assemble("PUSH_STR \"oops\n", "unterminated.rvasm")
	assertAssembleError(t, err, "unterminated string")
}

func TestAssembleUnknownEntryLabelIsAnError(t *testing.T) {
	_, err := Assemble(".entry missing\nHALT\n", "badentry.rvasm")
	assertAssembleError(t, err, "unknown label")
}

func TestAssembleErrorReportsSourceName(t *testing.T) {
	_, err := Assemble("FROBNICATE\n", "named.rvasm")
	var asmErr *errs.Assemble
	if !errors.As(err, &asmErr) {
		t.Fatalf("error is not an *errs.Assemble: %v", err)
	}
	if asmErr.Source != "named.rvasm" {
		t.Errorf("asmErr.Source = %q, want %q", asmErr.Source, "named.rvasm")
	}
}

func assertAssembleError(t *testing.T, err error, substring string) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected an error containing %q, got nil", substring)
	}
	var asmErr *errs.Assemble
	if !errors.As(err, &asmErr) {
		t.Fatalf("error is not an *errs.Assemble: %v", err)
	}
	if !strings.Contains(asmErr.Error(), substring) {
		t.Errorf("error %q does not contain %q", asmErr.Error(), substring)
	}
}
