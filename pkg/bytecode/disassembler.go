package bytecode

import (
	"fmt"
	"io"
)

// Disassemble writes a human-readable listing of m's instruction stream to
// w, one instruction per line, labels and constant-pool references resolved
// inline. This mirrors the teacher's disassembler: a thin, dependency-free
// debugging aid, not a parser for anything the assembler consumes back.
func Disassemble(w io.Writer, m *Module) error {
	fmt.Fprintf(w, "== %s (version %d, entry %d) ==\n", m.Name, m.Version, m.EntryPoint)

	labelAt := make(map[int]string, len(m.Labels))
	for name, idx := range m.Labels {
		labelAt[idx] = name
	}

	for idx, instr := range m.Instructions {
		if label, ok := labelAt[idx]; ok {
			fmt.Fprintf(w, "%s:\n", label)
		}
		line, err := disassembleInstruction(m, idx, instr)
		if err != nil {
			return err
		}
		fmt.Fprintln(w, line)
	}
	return nil
}

// DisassembleInstruction renders a single instruction the same way
// Disassemble does, for use by step-tracing callers (spec §4.2's optional
// tracing hook) that want one line at a time instead of a full listing.
func DisassembleInstruction(m *Module, idx int, instr Instruction) (string, error) {
	return disassembleInstruction(m, idx, instr)
}

func disassembleInstruction(m *Module, idx int, instr Instruction) (string, error) {
	prefix := fmt.Sprintf("%04d  %-16s", idx, instr.Op.String())

	switch instr.Op {
	case OpPushInt:
		return fmt.Sprintf("%s %d", prefix, int64(int16(instr.Op16))), nil

	case OpPushBool:
		return fmt.Sprintf("%s %v", prefix, instr.Op16 != 0), nil

	case OpPushStr:
		s, err := m.Constant(instr.Op16)
		if err != nil {
			return "", fmt.Errorf("instruction %d: %w", idx, err)
		}
		return fmt.Sprintf("%s %d %q", prefix, instr.Op16, s), nil

	case OpJump, OpBranchTrue, OpBranchFalse, OpBranchSuccess:
		return fmt.Sprintf("%s -> %d", prefix, instr.Op16), nil

	case OpAllocLocal, OpLoadLocal, OpStoreLocal:
		return fmt.Sprintf("%s slot %d", prefix, instr.Op16), nil

	case OpCreateList, OpCreateTuple:
		return fmt.Sprintf("%s count %d", prefix, instr.Op16), nil

	case OpCreateMap:
		return fmt.Sprintf("%s pairs %d", prefix, instr.Op16), nil

	case OpNameCreate, OpTell, OpAsk, OpPeek, OpNameQuote, OpNameUnquote:
		return fmt.Sprintf("%s kind %d", prefix, instr.Op16), nil

	case OpNop, OpHalt, OpPop, OpDup, OpAdd, OpSub, OpMul, OpDiv, OpMod, OpNeg,
		OpCmpEq, OpCmpNeq, OpCmpLt, OpCmpLte, OpCmpGt, OpCmpGte,
		OpNot, OpAnd, OpOr, OpConcat, OpDiff,
		OpContStore, OpContResume,
		OpPattern, OpMatchTest, OpExtractBindings,
		OpEval, OpPushNil:
		return prefix, nil

	case OpSpawnAsync:
		return fmt.Sprintf("%s count %d", prefix, instr.Op16), nil

	default:
		return "", fmt.Errorf("instruction %d: unknown opcode %d", idx, instr.Op)
	}
}
