package engine

import (
	"github.com/rhovm/rhovm/pkg/bytecode"
	"github.com/rhovm/rhovm/pkg/errs"
	"github.com/rhovm/rhovm/pkg/process"
	"github.com/rhovm/rhovm/pkg/rspace"
)

// Execute drives p from its current pc until Stop or the end of its code,
// resetting the operand stack first to guarantee isolation across calls
// (spec §4.2). It sets p's terminal state and returns the result value.
func (e *Engine) Execute(p *process.Process) (bytecode.Value, error) {
	if p.State().IsTerminal() {
		return bytecode.Nil, errs.NewRuntime(errs.KindInvariantViolation, "cannot execute terminal process %q", p.SourceRef())
	}

	pc := p.PC()
	p.ResetStack()
	p.SetPC(pc)

	for p.PC() < p.CodeLen() {
		instr, err := p.Code(p.PC())
		if err != nil {
			return e.fail(p, err)
		}

		result, err := e.Step(p, instr)
		if err != nil {
			return e.fail(p, err)
		}

		switch result.Kind {
		case ResultNext:
			p.SetPC(p.PC() + 1)
		case ResultStop:
			return e.succeed(p)
		case ResultJump:
			p.SetPC(result.Target)
		case ResultEval:
			p.Push(e.onStepEval(result.Value))
			p.SetPC(p.PC() + 1)
		}
	}

	return e.succeed(p)
}

// ExecuteWithEvent behaves like Execute, additionally firing callback
// with the terminal ProcessEvent. callback must not mutate p.
func (e *Engine) ExecuteWithEvent(p *process.Process, callback func(process.ProcessEvent)) (bytecode.Value, error) {
	v, err := e.Execute(p)
	state := p.State()
	switch state.Kind {
	case rspace.StateValue:
		callback(process.NewValueEvent(p.SourceRef(), state.Value))
	case rspace.StateError:
		callback(process.NewErrorEvent(p.SourceRef(), state.Error))
	}
	return v, err
}

func (e *Engine) fail(p *process.Process, err error) (bytecode.Value, error) {
	_ = p.SetState(rspace.ErrorState(err.Error()))
	return bytecode.Nil, err
}

func (e *Engine) succeed(p *process.Process) (bytecode.Value, error) {
	result := bytecode.Nil
	if p.StackLen() > 0 {
		v, err := p.Pop()
		if err != nil {
			return e.fail(p, err)
		}
		result = v
	}
	if err := p.SetState(rspace.ValueState(result)); err != nil {
		return bytecode.Nil, err
	}
	return result, nil
}

// onStepEval implements spec §4.4's on_step_eval: when EVAL pops a Par, it
// runs every ready child to completion and combines the results (last
// value wins, Nil if none ran); any other value passes through unchanged.
func (e *Engine) onStepEval(v bytecode.Value) bytecode.Value {
	if v.Kind != bytecode.KindPar {
		return v
	}

	result := bytecode.Nil
	ran := false
	for _, handle := range v.Par {
		child, ok := handle.(*process.Process)
		if !ok {
			continue
		}
		if !child.IsReady(e.RSpace) {
			continue
		}
		val, _ := e.Execute(child)
		result = val
		ran = true
	}
	if !ran {
		return bytecode.Nil
	}
	return result
}
