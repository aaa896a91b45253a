package engine

import (
	"github.com/rhovm/rhovm/pkg/bytecode"
	"github.com/rhovm/rhovm/pkg/errs"
	"github.com/rhovm/rhovm/pkg/process"
	"github.com/rhovm/rhovm/pkg/rspace"
)

func popInt(p *process.Process) (int64, error) {
	v, err := p.Pop()
	if err != nil {
		return 0, err
	}
	if v.Kind != bytecode.KindInt {
		return 0, errs.NewRuntime(errs.KindTypeMismatch, "expected Int, got %v", v.Kind)
	}
	return v.Int, nil
}

func popBool(p *process.Process) (bool, error) {
	v, err := p.Pop()
	if err != nil {
		return false, err
	}
	if v.Kind != bytecode.KindBool {
		return false, errs.NewRuntime(errs.KindTypeMismatch, "expected Bool, got %v", v.Kind)
	}
	return v.Bool, nil
}

func popName(p *process.Process) (rspace.Name, error) {
	v, err := p.Pop()
	if err != nil {
		return rspace.Name{}, err
	}
	if v.Kind != bytecode.KindName {
		return rspace.Name{}, errs.NewRuntime(errs.KindTypeMismatch, "expected Name, got %v", v.Kind)
	}
	name, parseErr := rspace.ParseName(v.Name)
	if parseErr != nil {
		return rspace.Name{}, errs.NewRuntime(errs.KindRSpaceError, "%v", parseErr)
	}
	return name, nil
}

// popN pops n values and returns them in original push order (the
// reverse of pop order), as CREATE_LIST/CREATE_TUPLE require (spec
// §4.1.1).
func popN(p *process.Process, n int) ([]bytecode.Value, error) {
	vals := make([]bytecode.Value, n)
	for i := n - 1; i >= 0; i-- {
		v, err := p.Pop()
		if err != nil {
			return nil, err
		}
		vals[i] = v
	}
	return vals, nil
}

// popNPairs pops n (key, value) pairs for CREATE_MAP, where each pair was
// pushed key-then-value and so pops value-then-key (spec §4.1.1),
// restoring original pair order.
func popNPairs(p *process.Process, n int) ([]bytecode.MapEntry, error) {
	entries := make([]bytecode.MapEntry, n)
	for i := n - 1; i >= 0; i-- {
		v, err := p.Pop()
		if err != nil {
			return nil, err
		}
		k, err := p.Pop()
		if err != nil {
			return nil, err
		}
		entries[i] = bytecode.MapEntry{Key: k, Value: v}
	}
	return entries, nil
}

func stepAdd(p *process.Process) error {
	b, err := p.Pop()
	if err != nil {
		return err
	}
	a, err := p.Pop()
	if err != nil {
		return err
	}
	if a.Kind != b.Kind {
		return errs.NewRuntime(errs.KindTypeMismatch, "ADD requires matching operand types, got %v and %v", a.Kind, b.Kind)
	}
	switch a.Kind {
	case bytecode.KindInt:
		p.Push(bytecode.NewInt(a.Int + b.Int))
	case bytecode.KindStr:
		p.Push(bytecode.NewStr(a.Str + b.Str))
	case bytecode.KindList:
		p.Push(bytecode.NewList(append(append([]bytecode.Value{}, a.List...), b.List...)...))
	default:
		return errs.NewRuntime(errs.KindTypeMismatch, "ADD does not support %v", a.Kind)
	}
	return nil
}

func stepIntBinOp(p *process.Process, f func(a, b int64) int64) error {
	b, err := popInt(p)
	if err != nil {
		return err
	}
	a, err := popInt(p)
	if err != nil {
		return err
	}
	p.Push(bytecode.NewInt(f(a, b)))
	return nil
}

func stepIntDivMod(p *process.Process, mnemonic string, f func(a, b int64) int64) error {
	b, err := popInt(p)
	if err != nil {
		return err
	}
	a, err := popInt(p)
	if err != nil {
		return err
	}
	if b == 0 {
		return errs.NewRuntime(errs.KindArithmeticFault, "%s by zero", mnemonic)
	}
	p.Push(bytecode.NewInt(f(a, b)))
	return nil
}

func stepIntCompare(p *process.Process, op bytecode.OpCode) error {
	b, err := popInt(p)
	if err != nil {
		return err
	}
	a, err := popInt(p)
	if err != nil {
		return err
	}
	var result bool
	switch op {
	case bytecode.OpCmpLt:
		result = a < b
	case bytecode.OpCmpLte:
		result = a <= b
	case bytecode.OpCmpGt:
		result = a > b
	case bytecode.OpCmpGte:
		result = a >= b
	}
	p.Push(bytecode.NewBool(result))
	return nil
}

func stepConcat(p *process.Process) error {
	b, err := p.Pop()
	if err != nil {
		return err
	}
	a, err := p.Pop()
	if err != nil {
		return err
	}
	if a.Kind != b.Kind {
		return errs.NewRuntime(errs.KindTypeMismatch, "CONCAT requires matching operand types, got %v and %v", a.Kind, b.Kind)
	}
	switch a.Kind {
	case bytecode.KindStr:
		p.Push(bytecode.NewStr(a.Str + b.Str))
	case bytecode.KindList:
		p.Push(bytecode.NewList(append(append([]bytecode.Value{}, a.List...), b.List...)...))
	default:
		return errs.NewRuntime(errs.KindTypeMismatch, "CONCAT does not support %v", a.Kind)
	}
	return nil
}

func stepDiff(p *process.Process) error {
	b, err := p.Pop()
	if err != nil {
		return err
	}
	a, err := p.Pop()
	if err != nil {
		return err
	}
	if a.Kind != bytecode.KindList || b.Kind != bytecode.KindList {
		return errs.NewRuntime(errs.KindTypeMismatch, "DIFF requires two Lists, got %v and %v", a.Kind, b.Kind)
	}

	remaining := append([]bytecode.Value{}, a.List...)
	for _, rb := range b.List {
		for i, rv := range remaining {
			if bytecode.Equal(rv, rb) {
				remaining = append(remaining[:i], remaining[i+1:]...)
				break
			}
		}
	}
	p.Push(bytecode.NewList(remaining...))
	return nil
}

func (e *Engine) stepTell(p *process.Process, kind uint16) error {
	data, err := p.Pop()
	if err != nil {
		return err
	}
	name, err := popName(p)
	if err != nil {
		return err
	}
	if name.Kind != kind {
		return errs.NewRuntime(errs.KindRSpaceError, "TELL %d: channel kind %d does not match", kind, name.Kind)
	}
	if err := e.RSpace.Tell(name.String(), data); err != nil {
		return errs.NewRuntime(errs.KindRSpaceError, "%v", err)
	}
	p.Push(bytecode.NewBool(true))
	return nil
}

func (e *Engine) stepAsk(p *process.Process, kind uint16) error {
	name, err := popName(p)
	if err != nil {
		return err
	}
	if name.Kind != kind {
		return errs.NewRuntime(errs.KindRSpaceError, "ASK %d: channel kind %d does not match", kind, name.Kind)
	}
	v, ok, err := e.RSpace.Ask(name.String())
	if err != nil {
		return errs.NewRuntime(errs.KindRSpaceError, "%v", err)
	}
	if !ok {
		p.Push(bytecode.Nil)
		return nil
	}
	p.Push(v)
	return nil
}

func (e *Engine) stepPeek(p *process.Process, kind uint16) error {
	name, err := popName(p)
	if err != nil {
		return err
	}
	if name.Kind != kind {
		return errs.NewRuntime(errs.KindRSpaceError, "PEEK %d: channel kind %d does not match", kind, name.Kind)
	}
	v, ok, err := e.RSpace.Peek(name.String())
	if err != nil {
		return errs.NewRuntime(errs.KindRSpaceError, "%v", err)
	}
	if !ok {
		p.Push(bytecode.Nil)
		return nil
	}
	p.Push(v)
	return nil
}

// stepSpawnAsync pops n values, each of which must already be Par-shaped
// (the natural output of an earlier EVAL/SPAWN_ASYNC or a compiler that
// always wraps single processes in a one-element Par), and flattens their
// children into a single combined Par, preserving the order the values
// were originally pushed in. A non-Par operand is a type mismatch: the
// CORE has no way to lift an arbitrary Value into a Process, so
// SPAWN_ASYNC cannot silently wrap one.
func (e *Engine) stepSpawnAsync(p *process.Process, n int) error {
	vals, err := popN(p, n)
	if err != nil {
		return err
	}
	var combined []bytecode.ProcessHandle
	for _, v := range vals {
		if v.Kind != bytecode.KindPar {
			return errs.NewRuntime(errs.KindTypeMismatch, "SPAWN_ASYNC requires Par operands, got %v", v.Kind)
		}
		combined = append(combined, v.Par...)
	}
	p.Push(bytecode.NewPar(combined...))
	return nil
}
