package interp

import (
	"strconv"

	"github.com/leapstack-labs/lispy/pkg/intern"
	"github.com/leapstack-labs/lispy/pkg/value"
)

// Special form spellings.
const (
	FormIf     = "if"
	FormLambda = "lambda"
	FormDefvar = "defvar"
	FormSetvar = "setvar"
)

// specialForm receives the whole unevaluated form, head included.
type specialForm func(in *Interpreter, form value.List) (value.Value, error)

// installForms resolves the special-form spellings to ids once, so dispatch
// is a single map lookup per evaluated list.
func (in *Interpreter) installForms() {
	in.forms = map[intern.Symbol]specialForm{
		in.symbols.Intern(FormIf):     evalIf,
		in.symbols.Intern(FormLambda): evalLambda,
		in.symbols.Intern(FormDefvar): evalDefvar,
		in.symbols.Intern(FormSetvar): evalSetvar,
	}
}

// IsSpecialForm reports whether name is dispatched as a special form.
func IsSpecialForm(name string) bool {
	switch name {
	case FormIf, FormLambda, FormDefvar, FormSetvar:
		return true
	}
	return false
}

// (if cond then else)
func evalIf(in *Interpreter, form value.List) (value.Value, error) {
	if len(form) != 4 {
		return nil, in.formArity(form, 3, 3)
	}
	cond, err := in.Eval(form[1])
	if err != nil {
		return nil, err
	}
	if value.Truthy(cond) {
		return in.Eval(form[2])
	}
	return in.Eval(form[3])
}

// (lambda (params...) body)
func evalLambda(in *Interpreter, form value.List) (value.Value, error) {
	if len(form) != 3 {
		return nil, in.formArity(form, 2, 2)
	}
	list, ok := form[1].(value.List)
	if !ok {
		return nil, typeErrorf("%s parameters must be a list of symbols, got %s", in.formName(form), in.Repr(form[1]))
	}
	params := make([]intern.Symbol, len(list))
	for i, p := range list {
		sym, ok := p.(value.Symbol)
		if !ok {
			return nil, typeErrorf("%s parameter %d must be a symbol, got %s", in.formName(form), i+1, in.Repr(p))
		}
		params[i] = sym.ID()
	}
	return &value.Closure{Params: params, Body: form[2]}, nil
}

// (defvar name [value])
func evalDefvar(in *Interpreter, form value.List) (value.Value, error) {
	if len(form) != 2 && len(form) != 3 {
		return nil, in.formArity(form, 1, 2)
	}
	sym, err := in.formTarget(form)
	if err != nil {
		return nil, err
	}
	var v value.Value = value.None
	if len(form) == 3 {
		if v, err = in.Eval(form[2]); err != nil {
			return nil, err
		}
	}
	in.bind(sym, v)
	return value.None, nil
}

// (setvar name value)
func evalSetvar(in *Interpreter, form value.List) (value.Value, error) {
	if len(form) != 3 {
		return nil, in.formArity(form, 2, 2)
	}
	sym, err := in.formTarget(form)
	if err != nil {
		return nil, err
	}
	v, err := in.Eval(form[2])
	if err != nil {
		return nil, err
	}
	if err := in.overwrite(sym, v); err != nil {
		return nil, err
	}
	return v, nil
}

func (in *Interpreter) formName(form value.List) string {
	return in.symbols.Quote(form[0].(value.Symbol).ID())
}

func (in *Interpreter) formTarget(form value.List) (intern.Symbol, error) {
	sym, ok := form[1].(value.Symbol)
	if !ok {
		return 0, typeErrorf("%s target must be a symbol, got %s", in.formName(form), in.Repr(form[1]))
	}
	return sym.ID(), nil
}

func (in *Interpreter) formArity(form value.List, minArgs, maxArgs int) *ArityError {
	want := strconv.Itoa(minArgs)
	if maxArgs != minArgs {
		want += "-" + strconv.Itoa(maxArgs)
	}
	return &ArityError{Callee: in.formName(form), Want: want, Got: len(form) - 1}
}
