package process

import (
	"github.com/rhovm/rhovm/pkg/bytecode"
	"github.com/rhovm/rhovm/pkg/errs"
)

// operandStack is a process's private per-execution value stack (spec
// §3.2's vm_state). It is reset to empty at the start of every top-level
// execution call (spec §4.2), so operands never leak from one execution
// call into the next.
type operandStack struct {
	values []bytecode.Value
}

func (s *operandStack) push(v bytecode.Value) {
	s.values = append(s.values, v)
}

func (s *operandStack) pop() (bytecode.Value, error) {
	if len(s.values) == 0 {
		return bytecode.Nil, errs.NewRuntime(errs.KindStackUnderflow, "operand stack is empty")
	}
	v := s.values[len(s.values)-1]
	s.values = s.values[:len(s.values)-1]
	return v, nil
}

func (s *operandStack) peek() (bytecode.Value, error) {
	if len(s.values) == 0 {
		return bytecode.Nil, errs.NewRuntime(errs.KindStackUnderflow, "operand stack is empty")
	}
	return s.values[len(s.values)-1], nil
}

func (s *operandStack) len() int {
	return len(s.values)
}

func (s *operandStack) reset() {
	s.values = s.values[:0]
}

// continuationSlot is the process's single-slot continuation store (spec
// §4.1.1 "Continuations (single-slot)"). CONT_STORE overwrites whatever
// was there before; CONT_RESUME only returns the value if the id offered
// still matches the last id minted.
type continuationSlot struct {
	counter uint64
	id      uint64
	value   bytecode.Value
	set     bool
}

// store saves v under a fresh id and returns that id.
func (c *continuationSlot) store(v bytecode.Value) uint64 {
	c.id = c.counter
	c.counter++
	c.value = v
	c.set = true
	return c.id
}

// resume returns the stored value if id matches the last stored id.
func (c *continuationSlot) resume(id uint64) (bytecode.Value, bool) {
	if !c.set || id != c.id {
		return bytecode.Nil, false
	}
	return c.value, true
}
