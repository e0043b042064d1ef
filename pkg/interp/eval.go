package interp

import (
	"strconv"

	"github.com/leapstack-labs/lispy/pkg/value"
)

// Eval evaluates node against the live frame stack.
//
// Lists dispatch on their head: a special form, a call through a bound
// symbol, or, when the head is not a symbol, a sequence whose value is its
// last element. Symbols are looked up; every other node evaluates to itself.
func (in *Interpreter) Eval(node value.Value) (value.Value, error) {
	if in.maxDepth > 0 && in.depth >= in.maxDepth {
		return nil, &RecursionError{Limit: in.maxDepth}
	}
	in.depth++
	defer func() { in.depth-- }()

	switch n := node.(type) {
	case nil:
		return value.None, nil
	case value.Symbol:
		return in.lookup(n.ID())
	case value.List:
		return in.evalList(n)
	default:
		return node, nil
	}
}

func (in *Interpreter) evalList(list value.List) (value.Value, error) {
	if len(list) == 0 {
		return value.None, nil
	}

	head, ok := list[0].(value.Symbol)
	if !ok {
		return in.evalSequence(list)
	}

	if form, ok := in.forms[head.ID()]; ok {
		return form(in, list)
	}

	fn, err := in.lookup(head.ID())
	if err != nil {
		return nil, err
	}

	args := make([]value.Value, 0, len(list)-1)
	for _, expr := range list[1:] {
		arg, err := in.Eval(expr)
		if err != nil {
			return nil, err
		}
		args = append(args, arg)
	}

	return in.apply(in.symbols.Quote(head.ID()), fn, args)
}

func (in *Interpreter) evalSequence(list value.List) (value.Value, error) {
	var result value.Value = value.None
	for _, child := range list {
		v, err := in.Eval(child)
		if err != nil {
			return nil, err
		}
		result = v
	}
	return result, nil
}

// Call invokes fn with already evaluated arguments.
func (in *Interpreter) Call(fn value.Value, args ...value.Value) (value.Value, error) {
	return in.apply(in.Repr(fn), fn, args)
}

func (in *Interpreter) apply(callee string, fn value.Value, args []value.Value) (value.Value, error) {
	switch f := fn.(type) {
	case *value.Builtin:
		if !f.Accepts(len(args)) {
			return nil, &ArityError{Callee: callee, Want: f.Arity(), Got: len(args)}
		}
		return f.Fn(args)

	case *value.Closure:
		if len(args) != len(f.Params) {
			return nil, &ArityError{Callee: callee, Want: strconv.Itoa(len(f.Params)), Got: len(args)}
		}
		fr := make(frame, len(f.Params))
		for i, p := range f.Params {
			fr[p] = args[i]
		}
		in.push(fr)
		defer in.pop()
		return in.Eval(f.Body)

	default:
		return nil, typeErrorf("%s is not callable (it is a %s)", callee, kindOf(fn))
	}
}

func kindOf(v value.Value) value.Kind {
	if v == nil {
		return value.KindNull
	}
	return v.Kind()
}
