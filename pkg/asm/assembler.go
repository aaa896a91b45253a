package asm

import (
	"fmt"

	"github.com/rhovm/rhovm/pkg/bytecode"
	"github.com/rhovm/rhovm/pkg/errs"
)

// Assemble turns textual rhovm assembly into a bytecode.Module, the
// external-compiler side of the §6.1 wire contract. It runs two passes
// over the parsed statements, the same division of labor as the
// teacher's pkg/backend/pass_one.go (assign addresses) and pass_two.go
// (emit bytecode against the now-complete address table): pass one walks
// every statement assigning instruction indices to label definitions, so
// a JUMP can reference a label declared later in the source; pass two
// emits the actual instructions, resolving every label against the
// table pass one built and every string operand against the module's
// own deduplicating constant pool (Module.AddConstant).
func Assemble(source, sourceName string) (*bytecode.Module, error) {
	statements, err := NewParser(source, sourceName).Parse()
	if err != nil {
		return nil, err
	}

	module := bytecode.NewModule(sourceName)
	entryLabel := ""

	// Pass one: resolve every label to the instruction index it will
	// occupy once pass two emits it.
	index := 0
	for _, stmt := range statements {
		switch stmt.kind {
		case stmtLabel:
			if _, exists := module.Labels[stmt.label]; exists {
				return nil, errs.NewAssemble(sourceName, stmt.line, "duplicate label %q", stmt.label)
			}
			module.Labels[stmt.label] = index
		case stmtDirective:
			// Directives don't occupy instruction slots.
		case stmtInstruction:
			if _, ok := bytecode.LookupOpCode(stmt.mnemonic); !ok {
				return nil, errs.NewAssemble(sourceName, stmt.line, "unknown mnemonic %q", stmt.mnemonic)
			}
			index++
		}
	}

	// Pass two: emit instructions, and collect directive values that
	// depend on the now-complete label table (e.g. .entry).
	for _, stmt := range statements {
		switch stmt.kind {
		case stmtLabel:
			// Already accounted for.

		case stmtDirective:
			if err := applyDirective(module, sourceName, &entryLabel, stmt); err != nil {
				return nil, err
			}

		case stmtInstruction:
			instr, err := encodeInstruction(module, sourceName, stmt)
			if err != nil {
				return nil, err
			}
			module.Emit(instr)
		}
	}

	if entryLabel != "" {
		idx, ok := module.Labels[entryLabel]
		if !ok {
			return nil, errs.NewAssemble(sourceName, 0, ".entry refers to unknown label %q", entryLabel)
		}
		module.EntryPoint = idx
	}

	return module, nil
}

func applyDirective(module *bytecode.Module, sourceName string, entryLabel *string, stmt statement) error {
	switch stmt.directive {
	case "entry":
		if len(stmt.args) != 1 {
			return errs.NewAssemble(sourceName, stmt.line, ".entry requires exactly one label argument")
		}
		*entryLabel = stmt.args[0].text

	case "module":
		if len(stmt.args) != 1 {
			return errs.NewAssemble(sourceName, stmt.line, ".module requires exactly one name argument")
		}
		module.Name = stmt.args[0].text

	default:
		return errs.NewAssemble(sourceName, stmt.line, "unknown directive %q", stmt.directive)
	}
	return nil
}

// operandArity classifies each opcode's operand shape, so the assembler
// knows how to resolve its single textual operand (if any) against the
// constant pool, the label table, or a plain integer.
type operandArity int

const (
	arityNone operandArity = iota
	arityNumber
	arityLabel
	arityString
)

var opcodeArity = map[bytecode.OpCode]operandArity{
	bytecode.OpNop:             arityNone,
	bytecode.OpHalt:            arityNone,
	bytecode.OpJump:            arityLabel,
	bytecode.OpBranchTrue:      arityLabel,
	bytecode.OpBranchFalse:     arityLabel,
	bytecode.OpBranchSuccess:   arityLabel,
	bytecode.OpPushInt:         arityNumber,
	bytecode.OpPushBool:        arityNumber,
	bytecode.OpPushStr:         arityString,
	bytecode.OpPushNil:         arityNone,
	bytecode.OpPop:             arityNone,
	bytecode.OpDup:             arityNone,
	bytecode.OpAdd:             arityNone,
	bytecode.OpSub:             arityNone,
	bytecode.OpMul:             arityNone,
	bytecode.OpDiv:             arityNone,
	bytecode.OpMod:             arityNone,
	bytecode.OpNeg:             arityNone,
	bytecode.OpCmpEq:           arityNone,
	bytecode.OpCmpNeq:          arityNone,
	bytecode.OpCmpLt:           arityNone,
	bytecode.OpCmpLte:          arityNone,
	bytecode.OpCmpGt:           arityNone,
	bytecode.OpCmpGte:          arityNone,
	bytecode.OpNot:             arityNone,
	bytecode.OpAnd:             arityNone,
	bytecode.OpOr:              arityNone,
	bytecode.OpCreateList:      arityNumber,
	bytecode.OpCreateTuple:     arityNumber,
	bytecode.OpCreateMap:       arityNumber,
	bytecode.OpConcat:          arityNone,
	bytecode.OpDiff:            arityNone,
	bytecode.OpAllocLocal:      arityNone,
	bytecode.OpLoadLocal:       arityNumber,
	bytecode.OpStoreLocal:      arityNumber,
	bytecode.OpContStore:       arityNone,
	bytecode.OpContResume:      arityNone,
	bytecode.OpNameCreate:      arityNumber,
	bytecode.OpTell:            arityNumber,
	bytecode.OpAsk:             arityNumber,
	bytecode.OpPeek:            arityNumber,
	bytecode.OpNameQuote:       arityNumber,
	bytecode.OpNameUnquote:     arityNumber,
	bytecode.OpPattern:         arityNone,
	bytecode.OpMatchTest:       arityNone,
	bytecode.OpExtractBindings: arityNone,
	bytecode.OpEval:            arityNone,
	bytecode.OpSpawnAsync:      arityNumber,
}

func encodeInstruction(module *bytecode.Module, sourceName string, stmt statement) (bytecode.Instruction, error) {
	op, ok := bytecode.LookupOpCode(stmt.mnemonic)
	if !ok {
		return bytecode.Instruction{}, errs.NewAssemble(sourceName, stmt.line, "unknown mnemonic %q", stmt.mnemonic)
	}

	arity, known := opcodeArity[op]
	if !known {
		return bytecode.Instruction{}, errs.NewAssemble(sourceName, stmt.line, "assembler has no encoding rule for %v", op)
	}

	switch arity {
	case arityNone:
		if len(stmt.operands) != 0 {
			return bytecode.Instruction{}, errs.NewAssemble(sourceName, stmt.line, "%v takes no operands", op)
		}
		return bytecode.NewNullary(op), nil

	case arityNumber:
		if len(stmt.operands) != 1 {
			return bytecode.Instruction{}, errs.NewAssemble(sourceName, stmt.line, "%v requires exactly one numeric operand", op)
		}
		n, err := operandAsNumber(stmt.operands[0])
		if err != nil {
			return bytecode.Instruction{}, errs.NewAssemble(sourceName, stmt.line, "%v: %v", op, err)
		}
		return bytecode.NewUnary16(op, n), nil

	case arityLabel:
		if len(stmt.operands) != 1 || stmt.operands[0].kind != operandIdent {
			return bytecode.Instruction{}, errs.NewAssemble(sourceName, stmt.line, "%v requires exactly one label operand", op)
		}
		target, ok := module.Labels[stmt.operands[0].text]
		if !ok {
			return bytecode.Instruction{}, errs.NewAssemble(sourceName, stmt.line, "undefined label %q", stmt.operands[0].text)
		}
		return bytecode.NewUnary16(op, uint16(target)), nil

	case arityString:
		if len(stmt.operands) != 1 || stmt.operands[0].kind != operandString {
			return bytecode.Instruction{}, errs.NewAssemble(sourceName, stmt.line, "%v requires exactly one string operand", op)
		}
		idx := module.AddConstant(stmt.operands[0].text)
		return bytecode.NewUnary16(op, idx), nil

	default:
		return bytecode.Instruction{}, errs.NewAssemble(sourceName, stmt.line, "unhandled operand arity for %v", op)
	}
}

// operandAsNumber resolves a numeric operand, additionally accepting the
// barewords true/false for PUSH_BOOL so assembly reads naturally (PUSH_BOOL
// true) instead of forcing every author to remember 1/0.
func operandAsNumber(o operand) (uint16, error) {
	switch o.kind {
	case operandNumber:
		return uint16(uint64(o.num) & 0xffff), nil
	case operandIdent:
		switch o.text {
		case "true":
			return 1, nil
		case "false":
			return 0, nil
		}
	}
	return 0, fmt.Errorf("expected a numeric operand, got %q", o.text)
}
