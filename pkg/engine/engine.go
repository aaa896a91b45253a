// Package engine implements the CORE's execution engine: the opcode
// step function (spec §4.2) and the driver loop that repeatedly steps a
// process to a terminal state (spec §4.2, §4.4). It depends on
// pkg/process and pkg/rspace, not the other way around, so that
// on_step_eval -- which needs to run the driver recursively over a Par's
// child processes -- can live next to the loop it recurses into.
package engine

import (
	"github.com/google/uuid"

	"github.com/rhovm/rhovm/pkg/bytecode"
	"github.com/rhovm/rhovm/pkg/errs"
	"github.com/rhovm/rhovm/pkg/process"
	"github.com/rhovm/rhovm/pkg/rspace"
)

// ResultKind identifies which variant of StepResult Step returned (spec
// §4.2).
type ResultKind int

const (
	ResultNext ResultKind = iota
	ResultStop
	ResultJump
	ResultEval
)

// StepResult tells the driver how to advance after one Step call.
type StepResult struct {
	Kind   ResultKind
	Target int            // valid when Kind == ResultJump
	Value  bytecode.Value // valid when Kind == ResultEval
}

var (
	nextResult = StepResult{Kind: ResultNext}
	stopResult = StepResult{Kind: ResultStop}
)

func jumpResult(target int) StepResult {
	return StepResult{Kind: ResultJump, Target: target}
}

func evalResult(v bytecode.Value) StepResult {
	return StepResult{Kind: ResultEval, Value: v}
}

// Engine is the per-VM execution context: the RSpace every process
// stepped through it shares, and the monotonic name allocator spec §5
// requires ("NAME_CREATE uses a monotonic per-VM counter"). It is the
// "VM" of spec §6.2's "a constructor for VM/Process given a bytecode
// module".
//
// InstanceID is an ambient addition not named by the spec: a value
// minted once per Engine and attached to the slog records pkg/scheduler
// emits on its behalf, so log lines from many concurrently-scheduled
// processes sharing one RSpace can be grouped by VM instance. It plays
// no role in NAME_CREATE, which Names alone drives.
type Engine struct {
	RSpace     rspace.RSpace
	Names      *rspace.NameAllocator
	InstanceID uuid.UUID
}

// New creates an Engine backed by rs.
func New(rs rspace.RSpace) *Engine {
	return &Engine{RSpace: rs, Names: &rspace.NameAllocator{}, InstanceID: uuid.New()}
}

// Step executes one instruction against p's private state, returning how
// the driver should advance pc. It never itself mutates pc; the driver
// interprets StepResult (spec §4.2).
func (e *Engine) Step(p *process.Process, instr bytecode.Instruction) (StepResult, error) {
	switch instr.Op {

	case bytecode.OpNop:
		return nextResult, nil

	case bytecode.OpHalt:
		return stopResult, nil

	case bytecode.OpJump:
		return jumpResult(int(instr.Op16)), nil

	case bytecode.OpBranchTrue, bytecode.OpBranchFalse:
		b, err := popBool(p)
		if err != nil {
			return StepResult{}, err
		}
		want := instr.Op == bytecode.OpBranchTrue
		if b == want {
			return jumpResult(int(instr.Op16)), nil
		}
		return nextResult, nil

	case bytecode.OpBranchSuccess:
		v, err := p.Pop()
		if err != nil {
			return StepResult{}, err
		}
		if isTruthy(v) {
			return jumpResult(int(instr.Op16)), nil
		}
		return nextResult, nil

	case bytecode.OpPushInt:
		p.Push(bytecode.NewInt(int64(int16(instr.Op16))))
		return nextResult, nil

	case bytecode.OpPushBool:
		p.Push(bytecode.NewBool(instr.Op16 != 0))
		return nextResult, nil

	case bytecode.OpPushStr:
		v, err := p.Name(instr.Op16)
		if err != nil {
			return StepResult{}, err
		}
		p.Push(v.Clone())
		return nextResult, nil

	case bytecode.OpPushNil:
		p.Push(bytecode.Nil)
		return nextResult, nil

	case bytecode.OpPop:
		if _, err := p.Pop(); err != nil {
			return StepResult{}, err
		}
		return nextResult, nil

	case bytecode.OpDup:
		v, err := p.Peek()
		if err != nil {
			return StepResult{}, err
		}
		p.Push(v.Clone())
		return nextResult, nil

	case bytecode.OpAdd:
		return nextResult, stepAdd(p)

	case bytecode.OpSub:
		return nextResult, stepIntBinOp(p, func(a, b int64) int64 { return a - b })

	case bytecode.OpMul:
		return nextResult, stepIntBinOp(p, func(a, b int64) int64 { return a * b })

	case bytecode.OpDiv:
		return nextResult, stepIntDivMod(p, "DIV", func(a, b int64) int64 { return a / b })

	case bytecode.OpMod:
		return nextResult, stepIntDivMod(p, "MOD", func(a, b int64) int64 { return a % b })

	case bytecode.OpNeg:
		a, err := popInt(p)
		if err != nil {
			return StepResult{}, err
		}
		p.Push(bytecode.NewInt(-a))
		return nextResult, nil

	case bytecode.OpCmpEq, bytecode.OpCmpNeq:
		b, err := p.Pop()
		if err != nil {
			return StepResult{}, err
		}
		a, err := p.Pop()
		if err != nil {
			return StepResult{}, err
		}
		eq := bytecode.Equal(a, b)
		if instr.Op == bytecode.OpCmpNeq {
			eq = !eq
		}
		p.Push(bytecode.NewBool(eq))
		return nextResult, nil

	case bytecode.OpCmpLt, bytecode.OpCmpLte, bytecode.OpCmpGt, bytecode.OpCmpGte:
		return nextResult, stepIntCompare(p, instr.Op)

	case bytecode.OpNot:
		b, err := popBool(p)
		if err != nil {
			return StepResult{}, err
		}
		p.Push(bytecode.NewBool(!b))
		return nextResult, nil

	case bytecode.OpAnd, bytecode.OpOr:
		b, err := popBool(p)
		if err != nil {
			return StepResult{}, err
		}
		a, err := popBool(p)
		if err != nil {
			return StepResult{}, err
		}
		var result bool
		if instr.Op == bytecode.OpAnd {
			result = a && b
		} else {
			result = a || b
		}
		p.Push(bytecode.NewBool(result))
		return nextResult, nil

	case bytecode.OpCreateList:
		vals, err := popN(p, int(instr.Op16))
		if err != nil {
			return StepResult{}, err
		}
		p.Push(bytecode.NewList(vals...))
		return nextResult, nil

	case bytecode.OpCreateTuple:
		vals, err := popN(p, int(instr.Op16))
		if err != nil {
			return StepResult{}, err
		}
		p.Push(bytecode.NewTuple(vals...))
		return nextResult, nil

	case bytecode.OpCreateMap:
		entries, err := popNPairs(p, int(instr.Op16))
		if err != nil {
			return StepResult{}, err
		}
		p.Push(bytecode.NewMap(entries...))
		return nextResult, nil

	case bytecode.OpConcat:
		return nextResult, stepConcat(p)

	case bytecode.OpDiff:
		return nextResult, stepDiff(p)

	case bytecode.OpAllocLocal:
		p.AllocLocal()
		return nextResult, nil

	case bytecode.OpLoadLocal:
		v, err := p.LoadLocal(int(instr.Op16))
		if err != nil {
			return StepResult{}, err
		}
		p.Push(v)
		return nextResult, nil

	case bytecode.OpStoreLocal:
		v, err := p.Pop()
		if err != nil {
			return StepResult{}, err
		}
		if err := p.StoreLocal(int(instr.Op16), v); err != nil {
			return StepResult{}, err
		}
		return nextResult, nil

	case bytecode.OpContStore:
		v, err := p.Pop()
		if err != nil {
			return StepResult{}, err
		}
		id := p.ContStore(v)
		p.Push(bytecode.NewInt(int64(id)))
		return nextResult, nil

	case bytecode.OpContResume:
		id, err := popInt(p)
		if err != nil {
			return StepResult{}, err
		}
		if v, ok := p.ContResume(uint64(id)); ok {
			p.Push(v)
		} else {
			p.Push(bytecode.Nil)
		}
		return nextResult, nil

	case bytecode.OpNameCreate:
		name := e.Names.Next(instr.Op16)
		p.Push(bytecode.NewName(name.String()))
		return nextResult, nil

	case bytecode.OpTell:
		return nextResult, e.stepTell(p, instr.Op16)

	case bytecode.OpAsk:
		return nextResult, e.stepAsk(p, instr.Op16)

	case bytecode.OpPeek:
		return nextResult, e.stepPeek(p, instr.Op16)

	case bytecode.OpNameQuote, bytecode.OpNameUnquote:
		// Reserved (spec §4.1.1, §9 open question #5): no successor spec
		// has defined their semantics yet.
		return StepResult{}, errs.NewRuntime(errs.KindInvariantViolation, "%v is reserved and not yet implemented", instr.Op)

	case bytecode.OpPattern:
		p.Push(bytecode.Nil)
		return nextResult, nil

	case bytecode.OpMatchTest:
		if _, err := p.Pop(); err != nil { // pattern
			return StepResult{}, err
		}
		if _, err := p.Pop(); err != nil { // value
			return StepResult{}, err
		}
		p.Push(bytecode.NewBool(true))
		return nextResult, nil

	case bytecode.OpExtractBindings:
		p.Push(bytecode.NewMap())
		return nextResult, nil

	case bytecode.OpEval:
		v, err := p.Pop()
		if err != nil {
			return StepResult{}, err
		}
		return evalResult(v), nil

	case bytecode.OpSpawnAsync:
		return nextResult, e.stepSpawnAsync(p, int(instr.Op16))

	default:
		return StepResult{}, errs.NewRuntime(errs.KindInvariantViolation, "unknown opcode %v", instr.Op)
	}
}

// isTruthy implements BRANCH_SUCCESS's "polymorphic boolean-like check"
// (spec §4.1.1, left deliberately loose since the opcode is reserved):
// Bool uses its own value, Int is truthy iff non-zero, everything else
// (including Nil) is not success.
func isTruthy(v bytecode.Value) bool {
	switch v.Kind {
	case bytecode.KindBool:
		return v.Bool
	case bytecode.KindInt:
		return v.Int != 0
	default:
		return false
	}
}
