package bytecode

import (
	"encoding/binary"
	"fmt"
	"hash/crc32"
)

// magicNumber identifies a rhovm bytecode module file, written first so a
// loader can reject non-module input quickly (spec §6.1).
const magicNumber uint32 = 0x52484F56 // "RHOV" in ASCII, read little-endian.

// Serialize encodes m into the module wire format: magic number, version,
// entry point, the constant pool, the instruction stream, and a trailing
// CRC32 checksum over everything that precedes it. The layout is fixed and
// version-gated the way the teacher's chunk serializer is, so a future
// version can add sections without breaking this one's readers.
func Serialize(m *Module) []byte {
	var buf []byte

	buf = appendUint32(buf, magicNumber)
	buf = appendUint32(buf, m.Version)
	buf = appendUint32(buf, uint32(m.EntryPoint))

	buf = appendUint32(buf, uint32(len(m.Constants)))
	for _, c := range m.Constants {
		buf = appendUint32(buf, uint32(len(c)))
		buf = append(buf, c...)
	}

	buf = appendUint32(buf, uint32(len(m.Instructions)))
	for _, instr := range m.Instructions {
		buf = appendUint32(buf, instr.Encode())
	}

	checksum := crc32.ChecksumIEEE(buf)
	buf = appendUint32(buf, checksum)

	return buf
}

// Deserialize decodes a byte slice produced by Serialize back into a
// Module. It validates the magic number, the version, and the trailing
// CRC32 checksum before trusting the payload.
func Deserialize(name string, data []byte) (*Module, error) {
	r := &byteReader{data: data}

	magic, err := r.readUint32()
	if err != nil {
		return nil, fmt.Errorf("reading magic number: %w", err)
	}
	if magic != magicNumber {
		return nil, fmt.Errorf("not a rhovm bytecode module (bad magic number %#x)", magic)
	}

	version, err := r.readUint32()
	if err != nil {
		return nil, fmt.Errorf("reading version: %w", err)
	}
	if version != CurrentVersion {
		return nil, fmt.Errorf("unsupported module version %d (this build writes version %d)", version, CurrentVersion)
	}

	if len(data) < 4 {
		return nil, fmt.Errorf("truncated module: missing checksum")
	}
	payload := data[:len(data)-4]
	wantChecksum := binary.LittleEndian.Uint32(data[len(data)-4:])
	gotChecksum := crc32.ChecksumIEEE(payload)
	if gotChecksum != wantChecksum {
		return nil, fmt.Errorf("corrupt module: checksum mismatch (want %#x, got %#x)", wantChecksum, gotChecksum)
	}

	entryPoint, err := r.readUint32()
	if err != nil {
		return nil, fmt.Errorf("reading entry point: %w", err)
	}

	constantCount, err := r.readUint32()
	if err != nil {
		return nil, fmt.Errorf("reading constant count: %w", err)
	}
	constants := make([]string, constantCount)
	for i := range constants {
		n, err := r.readUint32()
		if err != nil {
			return nil, fmt.Errorf("reading constant %d length: %w", i, err)
		}
		s, err := r.readString(int(n))
		if err != nil {
			return nil, fmt.Errorf("reading constant %d: %w", i, err)
		}
		constants[i] = s
	}

	instructionCount, err := r.readUint32()
	if err != nil {
		return nil, fmt.Errorf("reading instruction count: %w", err)
	}
	instructions := make([]Instruction, instructionCount)
	for i := range instructions {
		word, err := r.readUint32()
		if err != nil {
			return nil, fmt.Errorf("reading instruction %d: %w", i, err)
		}
		instructions[i] = Decode(word)
	}

	m := NewModule(name)
	m.Version = version
	m.EntryPoint = int(entryPoint)
	m.Instructions = instructions
	for _, c := range constants {
		m.AddConstant(c)
	}
	return m, nil
}

func appendUint32(buf []byte, v uint32) []byte {
	var tmp [4]byte
	binary.LittleEndian.PutUint32(tmp[:], v)
	return append(buf, tmp[:]...)
}

// byteReader is a minimal little-endian cursor over a byte slice, tracking
// its own position so Deserialize can read the module format
// field-by-field without a bytes.Reader's extra allocation.
type byteReader struct {
	data []byte
	pos  int
}

func (r *byteReader) readUint32() (uint32, error) {
	if r.pos+4 > len(r.data) {
		return 0, fmt.Errorf("unexpected end of module data")
	}
	v := binary.LittleEndian.Uint32(r.data[r.pos:])
	r.pos += 4
	return v, nil
}

func (r *byteReader) readString(n int) (string, error) {
	if r.pos+n > len(r.data) {
		return "", fmt.Errorf("unexpected end of module data")
	}
	s := string(r.data[r.pos : r.pos+n])
	r.pos += n
	return s, nil
}
