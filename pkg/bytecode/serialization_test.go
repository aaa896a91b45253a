package bytecode

import "testing"

func buildSampleModule() *Module {
	m := NewModule("sample")
	idx := m.AddConstant("hello")
	m.Emit(NewUnary16(OpPushStr, idx))
	m.Emit(NewUnary16(OpPushInt, 41))
	m.Emit(NewNullary(OpAdd))
	m.Emit(NewNullary(OpHalt))
	m.EntryPoint = 0
	return m
}

func TestSerializeDeserializeRoundTrip(t *testing.T) {
	original := buildSampleModule()
	data := Serialize(original)

	got, err := Deserialize("sample", data)
	if err != nil {
		t.Fatalf("Deserialize failed: %v", err)
	}

	if got.Version != original.Version {
		t.Errorf("Version = %d, want %d", got.Version, original.Version)
	}
	if got.EntryPoint != original.EntryPoint {
		t.Errorf("EntryPoint = %d, want %d", got.EntryPoint, original.EntryPoint)
	}
	if len(got.Instructions) != len(original.Instructions) {
		t.Fatalf("got %d instructions, want %d", len(got.Instructions), len(original.Instructions))
	}
	for i := range original.Instructions {
		if got.Instructions[i] != original.Instructions[i] {
			t.Errorf("instruction %d: got %v, want %v", i, got.Instructions[i], original.Instructions[i])
		}
	}
	if len(got.Constants) != len(original.Constants) {
		t.Fatalf("got %d constants, want %d", len(got.Constants), len(original.Constants))
	}
	for i := range original.Constants {
		if got.Constants[i] != original.Constants[i] {
			t.Errorf("constant %d: got %q, want %q", i, got.Constants[i], original.Constants[i])
		}
	}
}

func TestDeserializeRejectsBadMagic(t *testing.T) {
	data := Serialize(buildSampleModule())
	data[0] ^= 0xff

	if _, err := Deserialize("sample", data); err == nil {
		t.Fatalf("expected an error for corrupted magic number, got nil")
	}
}

func TestDeserializeRejectsChecksumMismatch(t *testing.T) {
	data := Serialize(buildSampleModule())
	// Flip a byte in the middle of the payload, leaving magic/version and
	// the trailing checksum untouched.
	data[len(data)/2] ^= 0xff

	if _, err := Deserialize("sample", data); err == nil {
		t.Fatalf("expected a checksum-mismatch error, got nil")
	}
}

func TestModuleAddConstantDeduplicates(t *testing.T) {
	m := NewModule("dedup")
	a := m.AddConstant("x")
	b := m.AddConstant("y")
	c := m.AddConstant("x")

	if a != c {
		t.Errorf("AddConstant(\"x\") returned different indices: %d vs %d", a, c)
	}
	if a == b {
		t.Errorf("distinct constants got the same index")
	}
	if len(m.Constants) != 2 {
		t.Errorf("len(Constants) = %d, want 2", len(m.Constants))
	}
}
