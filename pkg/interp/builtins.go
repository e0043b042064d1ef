package interp

import (
	"fmt"
	"strings"

	"github.com/leapstack-labs/lispy/pkg/value"
)

// Builtin categories, used for listings.
const (
	CategoryList       = "list"
	CategoryComparison = "comparison"
	CategoryLogic      = "logic"
	CategoryOutput     = "output"
	CategoryArithmetic = "arithmetic"
)

func (in *Interpreter) installBuiltins() {
	for _, b := range in.builtins() {
		in.DefineBuiltin(b)
	}
}

// builtins returns the fixed library in installation order.
func (in *Interpreter) builtins() []*value.Builtin {
	return []*value.Builtin{
		{Name: "list", Category: CategoryList, MinArgs: 0, MaxArgs: value.Variadic, Fn: builtinList},

		{Name: "=", Category: CategoryComparison, MinArgs: 0, MaxArgs: value.Variadic, Fn: builtinEqual},
		comparison(">", func(c int) bool { return c > 0 }),
		comparison(">=", func(c int) bool { return c >= 0 }),
		comparison("<", func(c int) bool { return c < 0 }),
		comparison("<=", func(c int) bool { return c <= 0 }),
		{Name: "not", Category: CategoryLogic, MinArgs: 1, MaxArgs: 1, Fn: builtinNot},

		{Name: "print", Category: CategoryOutput, MinArgs: 0, MaxArgs: value.Variadic, Fn: in.builtinPrint},

		{Name: "+", Category: CategoryArithmetic, MinArgs: 0, MaxArgs: value.Variadic, Fn: builtinAdd},
		fold("-", func(a, b value.Rational) (value.Rational, error) { return a.Sub(b), nil }),
		fold("*", func(a, b value.Rational) (value.Rational, error) { return a.Mul(b), nil }),
		fold("/", value.Rational.Quo),
		{Name: "mod", Category: CategoryArithmetic, MinArgs: 2, MaxArgs: 2, Fn: builtinMod},
	}
}

// Builtins returns the builtins currently bound in the global frame,
// sorted by name. Rebinding a builtin's name hides it from the listing.
func (in *Interpreter) Builtins() []*value.Builtin {
	var out []*value.Builtin
	for _, name := range in.Globals() {
		sym, _ := in.symbols.Lookup(name)
		if b, ok := in.frames[0][sym].(*value.Builtin); ok {
			out = append(out, b)
		}
	}
	return out
}

func builtinList(args []value.Value) (value.Value, error) {
	out := make(value.List, len(args))
	copy(out, args)
	return out, nil
}

func builtinEqual(args []value.Value) (value.Value, error) {
	for i := 0; i+1 < len(args); i++ {
		if !value.Equal(args[i], args[i+1]) {
			return value.False, nil
		}
	}
	return value.True, nil
}

func comparison(name string, ok func(int) bool) *value.Builtin {
	return &value.Builtin{
		Name:     name,
		Category: CategoryComparison,
		MinArgs:  2,
		MaxArgs:  2,
		Fn: func(args []value.Value) (value.Value, error) {
			c, comparable := value.Compare(args[0], args[1])
			if !comparable {
				return nil, typeErrorf("'%s' cannot compare %s with %s", name, kindOf(args[0]), kindOf(args[1]))
			}
			return value.Bool(ok(c)), nil
		},
	}
}

func builtinNot(args []value.Value) (value.Value, error) {
	return value.Bool(!value.Truthy(args[0])), nil
}

func (in *Interpreter) builtinPrint(args []value.Value) (value.Value, error) {
	parts := make([]string, len(args))
	for i, a := range args {
		parts[i] = value.Display(a, in.symbols)
	}
	if _, err := fmt.Fprintln(in.out, strings.Join(parts, " ")); err != nil {
		return nil, fmt.Errorf("print: %w", err)
	}
	return value.None, nil
}

func rationals(name string, args []value.Value) ([]value.Rational, error) {
	out := make([]value.Rational, len(args))
	for i, a := range args {
		r, ok := a.(value.Rational)
		if !ok {
			return nil, typeErrorf("'%s' expects rational arguments, argument %d is a %s", name, i+1, kindOf(a))
		}
		out[i] = r
	}
	return out, nil
}

func builtinAdd(args []value.Value) (value.Value, error) {
	if len(args) == 0 {
		return value.None, nil
	}
	nums, err := rationals("+", args)
	if err != nil {
		return nil, err
	}
	sum := value.NewInt(0)
	for _, n := range nums {
		sum = sum.Add(n)
	}
	return sum, nil
}

// fold builds a left fold seeded with the first argument, so a single
// argument comes back unchanged.
func fold(name string, op func(a, b value.Rational) (value.Rational, error)) *value.Builtin {
	return &value.Builtin{
		Name:     name,
		Category: CategoryArithmetic,
		MinArgs:  0,
		MaxArgs:  value.Variadic,
		Fn: func(args []value.Value) (value.Value, error) {
			if len(args) == 0 {
				return value.None, nil
			}
			nums, err := rationals(name, args)
			if err != nil {
				return nil, err
			}
			acc := nums[0]
			for _, n := range nums[1:] {
				if acc, err = op(acc, n); err != nil {
					return nil, &ArithmeticError{Op: name, Err: err}
				}
			}
			return acc, nil
		},
	}
}

func builtinMod(args []value.Value) (value.Value, error) {
	nums, err := rationals("mod", args)
	if err != nil {
		return nil, err
	}
	r, err := nums[0].Mod(nums[1])
	if err != nil {
		return nil, &ArithmeticError{Op: "mod", Err: err}
	}
	return r, nil
}
