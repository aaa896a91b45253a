// Package process owns the Process type: an independent, isolated
// execution unit with its own code, locals, constant pool, and private
// interpreter state (spec §3.2), plus the bookkeeping that bridges it to
// RSpace (spec §4.4). The actual opcode-stepping loop lives in
// pkg/engine, which imports this package; keeping that direction avoids a
// cycle, since on_step_eval (spec §4.4) needs the engine's own driver to
// run Par children recursively.
package process

import (
	"fmt"

	"github.com/rhovm/rhovm/pkg/bytecode"
	"github.com/rhovm/rhovm/pkg/errs"
	"github.com/rhovm/rhovm/pkg/rspace"
)

// Process is an independent, isolated execution unit (spec §3.2).
type Process struct {
	code       []bytecode.Instruction
	sourceRef  string
	locals     []bytecode.Value
	names      []bytecode.Value
	state      rspace.ProcessState
	parameters []string

	stack continuationAndStack
}

// continuationAndStack groups the two pieces of truly private,
// never-shared vm_state (spec §3.2) a process carries between steps.
type continuationAndStack struct {
	operands operandStack
	pc       int
	cont     continuationSlot
}

// New creates a process ready to run from pc 0 in state Ready, with an
// empty, grow-only locals array (spec §4.4's new_process).
func New(code []bytecode.Instruction, sourceRef string, constantPool []bytecode.Value) *Process {
	return &Process{
		code:       code,
		sourceRef:  sourceRef,
		names:      constantPool,
		state:      rspace.Ready(),
		parameters: nil,
	}
}

// SourceRef returns the process's stable debugging/callback identifier.
// Fulfills bytecode.ProcessHandle.
func (p *Process) SourceRef() string {
	return p.sourceRef
}

// State returns the process's current state.
func (p *Process) State() rspace.ProcessState {
	return p.state
}

// SetState transitions the process to a new state. It is the caller's
// responsibility to respect spec §3.3's transition table; SetState itself
// only enforces that a terminal state is never left (spec §3.2: "never
// re-executed after terminal").
func (p *Process) SetState(s rspace.ProcessState) error {
	if p.state.IsTerminal() {
		return errs.NewRuntime(errs.KindInvariantViolation, "cannot transition process %q out of terminal state %v", p.sourceRef, p.state.Kind)
	}
	p.state = s
	return nil
}

// AddParameter declares a dependency on the RSpace entry named name (spec
// §4.4).
func (p *Process) AddParameter(name string) {
	p.parameters = append(p.parameters, name)
}

// Parameters returns the process's declared parameters, in declaration
// order.
func (p *Process) Parameters() []string {
	return p.parameters
}

// IsReady reports whether the process is ready to step: its own state is
// Ready and every declared parameter is solved in rs (spec §3.5).
func (p *Process) IsReady(rs rspace.RSpace) bool {
	if p.state.Kind != rspace.StateReady {
		return false
	}
	for _, name := range p.parameters {
		if !rs.IsSolved(name) {
			return false
		}
	}
	return true
}

// RegisterInRSpace stores the process as a Process{Ready} entry under name
// (spec §4.4).
func (p *Process) RegisterInRSpace(rs rspace.RSpace, name string) error {
	return rs.RegisterProcess(name, rspace.Ready())
}

// Code returns the instruction at pc, or an error if pc is out of range.
// pc == len(code) is a valid boundary meaning natural termination (spec
// §3.2); callers must check that themselves before calling Code.
func (p *Process) Code(pc int) (bytecode.Instruction, error) {
	if pc < 0 || pc >= len(p.code) {
		return bytecode.Instruction{}, errs.NewRuntime(errs.KindInvariantViolation, "pc %d out of range (code has %d instructions)", pc, len(p.code))
	}
	return p.code[pc], nil
}

// CodeLen returns the number of instructions in the process's code.
func (p *Process) CodeLen() int {
	return len(p.code)
}

// PC returns the current program counter.
func (p *Process) PC() int {
	return p.stack.pc
}

// SetPC sets the program counter.
func (p *Process) SetPC(pc int) {
	p.stack.pc = pc
}

// Push pushes v onto the operand stack.
func (p *Process) Push(v bytecode.Value) {
	p.stack.operands.push(v)
}

// Pop pops the top of the operand stack.
func (p *Process) Pop() (bytecode.Value, error) {
	return p.stack.operands.pop()
}

// Peek returns the top of the operand stack without removing it.
func (p *Process) Peek() (bytecode.Value, error) {
	return p.stack.operands.peek()
}

// StackLen returns the number of values currently on the operand stack.
func (p *Process) StackLen() int {
	return p.stack.operands.len()
}

// ResetStack empties the operand stack and rewinds pc to 0. Engine.Execute
// calls it at the start of every top-level execution call and then
// restores pc, so only the operand stack is cleared there.
func (p *Process) ResetStack() {
	p.stack.operands.reset()
	p.stack.pc = 0
}

// AllocLocal appends a Nil-valued slot and returns its index.
func (p *Process) AllocLocal() int {
	p.locals = append(p.locals, bytecode.Nil)
	return len(p.locals) - 1
}

// LoadLocal returns a clone of locals[i].
func (p *Process) LoadLocal(i int) (bytecode.Value, error) {
	if i < 0 || i >= len(p.locals) {
		return bytecode.Nil, errs.NewRuntime(errs.KindIndexOutOfRange, "local slot %d out of range (have %d locals)", i, len(p.locals))
	}
	return p.locals[i].Clone(), nil
}

// StoreLocal assigns v to locals[i].
func (p *Process) StoreLocal(i int, v bytecode.Value) error {
	if i < 0 || i >= len(p.locals) {
		return errs.NewRuntime(errs.KindIndexOutOfRange, "local slot %d out of range (have %d locals)", i, len(p.locals))
	}
	p.locals[i] = v
	return nil
}

// Name returns the constant-pool entry at i.
func (p *Process) Name(i uint16) (bytecode.Value, error) {
	if int(i) >= len(p.names) {
		return bytecode.Nil, errs.NewRuntime(errs.KindIndexOutOfRange, "constant index %d out of range (pool has %d entries)", i, len(p.names))
	}
	return p.names[i], nil
}

// ContStore stores v in the continuation slot under a fresh id.
func (p *Process) ContStore(v bytecode.Value) uint64 {
	return p.stack.cont.store(v)
}

// ContResume returns the continuation slot's value if id matches.
func (p *Process) ContResume(id uint64) (bytecode.Value, bool) {
	return p.stack.cont.resume(id)
}

// Clone returns a deep copy of the process, isolated from the original.
// Fulfills bytecode.ProcessHandle. The instruction stream is immutable
// (spec §3.2) and shared, not copied; everything mutable is copied.
func (p *Process) Clone() bytecode.ProcessHandle {
	locals := make([]bytecode.Value, len(p.locals))
	for i, v := range p.locals {
		locals[i] = v.Clone()
	}
	names := make([]bytecode.Value, len(p.names))
	for i, v := range p.names {
		names[i] = v.Clone()
	}
	parameters := append([]string(nil), p.parameters...)
	operands := make([]bytecode.Value, len(p.stack.operands.values))
	for i, v := range p.stack.operands.values {
		operands[i] = v.Clone()
	}
	cont := p.stack.cont
	cont.value = cont.value.Clone()

	clone := &Process{
		code:       p.code,
		sourceRef:  p.sourceRef,
		locals:     locals,
		names:      names,
		state:      p.state,
		parameters: parameters,
		stack: continuationAndStack{
			operands: operandStack{values: operands},
			pc:       p.stack.pc,
			cont:     cont,
		},
	}
	return clone
}

// Equal reports whether other is this very same process. Fulfills
// bytecode.ProcessHandle.
func (p *Process) Equal(other bytecode.ProcessHandle) bool {
	o, ok := other.(*Process)
	return ok && o == p
}

// String renders the process for debugging.
func (p *Process) String() string {
	return fmt.Sprintf("Process(%s, pc=%d, state=%v)", p.sourceRef, p.stack.pc, p.state.Kind)
}
