package extension

import (
	"fmt"
	"math"
	"math/big"

	"go.starlark.net/starlark"

	"github.com/leapstack-labs/lispy/pkg/interp"
	"github.com/leapstack-labs/lispy/pkg/value"
)

// converter maps values across the lispy/Starlark boundary for one
// interpreter. Callables are wrapped in both directions and run on the
// shared thread.
type converter struct {
	in     *interp.Interpreter
	thread *starlark.Thread
}

// ToStarlark converts a lispy value.
//
// Integral rationals become Int; other rationals become the nearest Float.
// FromStarlark maps that float back to the simplest rational with the same
// value, so small fractions such as 1/3 come back unchanged.
// Symbols pass as their spelling. Lists become Starlark lists.
func (c *converter) ToStarlark(v value.Value) (starlark.Value, error) {
	switch x := v.(type) {
	case nil, value.Null:
		return starlark.None, nil
	case value.Bool:
		return starlark.Bool(x), nil
	case value.Rational:
		if x.IsInt() {
			return starlark.MakeBigInt(x.Num()), nil
		}
		f, _ := x.Big().Float64()
		return starlark.Float(f), nil
	case value.Text:
		return starlark.String(x), nil
	case value.Symbol:
		return starlark.String(c.in.Symbols().Spelling(x.ID())), nil
	case value.List:
		items := make([]starlark.Value, len(x))
		for i, item := range x {
			sv, err := c.ToStarlark(item)
			if err != nil {
				return nil, fmt.Errorf("list index %d: %w", i, err)
			}
			items[i] = sv
		}
		return starlark.NewList(items), nil
	case *value.Builtin, *value.Closure:
		return c.callback(x), nil
	default:
		return nil, fmt.Errorf("unsupported value kind: %s", v.Kind())
	}
}

// FromStarlark converts a Starlark value.
//
// A float becomes the simplest rational that rounds to the same float64,
// so 1/3 survives a trip through Starlark; infinities and NaN are rejected.
// Tuples become lists and dicts become lists of (key value) pairs. Lists
// and dicts that contain themselves are rejected.
func (c *converter) FromStarlark(v starlark.Value) (value.Value, error) {
	return c.fromStarlark(v, make(map[starlark.Value]bool))
}

// fromStarlark tracks the mutable containers on the current path in seen.
func (c *converter) fromStarlark(v starlark.Value, seen map[starlark.Value]bool) (value.Value, error) {
	switch v.(type) {
	case *starlark.List, *starlark.Dict:
		if seen[v] {
			return nil, fmt.Errorf("cyclic %s cannot be converted", v.Type())
		}
		seen[v] = true
		defer delete(seen, v)
	}

	switch x := v.(type) {
	case starlark.NoneType:
		return value.None, nil
	case starlark.Bool:
		return value.Bool(x), nil
	case starlark.Int:
		return value.FromBig(new(big.Rat).SetInt(x.BigInt())), nil
	case starlark.Float:
		f := float64(x)
		if math.IsInf(f, 0) || math.IsNaN(f) {
			return nil, fmt.Errorf("float %s has no rational value", x.String())
		}
		return value.FromBig(simplestRational(f)), nil
	case starlark.String:
		return value.Text(x), nil
	case starlark.Bytes:
		return value.Text(x), nil
	case starlark.Indexable:
		// list and tuple
		out := make(value.List, x.Len())
		for i := 0; i < x.Len(); i++ {
			item, err := c.fromStarlark(x.Index(i), seen)
			if err != nil {
				return nil, fmt.Errorf("index %d: %w", i, err)
			}
			out[i] = item
		}
		return out, nil
	case *starlark.Dict:
		out := make(value.List, 0, x.Len())
		for _, kv := range x.Items() {
			pair, err := c.fromStarlark(kv, seen)
			if err != nil {
				return nil, fmt.Errorf("dict key %s: %w", kv[0].String(), err)
			}
			out = append(out, pair)
		}
		return out, nil
	case starlark.Callable:
		return c.builtin(x.Name(), Category, x), nil
	default:
		return nil, fmt.Errorf("unsupported starlark type: %s", v.Type())
	}
}

// simplestRational returns the first continued-fraction convergent of f's
// exact value that rounds back to f. The last convergent is f itself.
func simplestRational(f float64) *big.Rat {
	exact := new(big.Rat).SetFloat64(f)
	if exact.IsInt() {
		return exact
	}

	num := new(big.Int).Set(exact.Num())
	den := new(big.Int).Set(exact.Denom())
	h0, h1 := big.NewInt(0), big.NewInt(1)
	k0, k1 := big.NewInt(1), big.NewInt(0)
	for den.Sign() != 0 {
		a, r := new(big.Int).DivMod(num, den, new(big.Int))
		h := new(big.Int).Add(new(big.Int).Mul(a, h1), h0)
		k := new(big.Int).Add(new(big.Int).Mul(a, k1), k0)
		h0, h1 = h1, h
		k0, k1 = k1, k

		candidate := new(big.Rat).SetFrac(h, k)
		if g, _ := candidate.Float64(); g == f {
			return candidate
		}
		num, den = den, r
	}
	return exact
}

// builtin wraps a Starlark callable as a variadic lispy builtin.
func (c *converter) builtin(name, category string, fn starlark.Callable) *value.Builtin {
	return &value.Builtin{
		Name:     name,
		Category: category,
		MinArgs:  0,
		MaxArgs:  value.Variadic,
		Fn: func(args []value.Value) (value.Value, error) {
			sargs := make(starlark.Tuple, len(args))
			for i, a := range args {
				sv, err := c.ToStarlark(a)
				if err != nil {
					return nil, fmt.Errorf("%s: argument %d: %w", name, i+1, err)
				}
				sargs[i] = sv
			}
			result, err := starlark.Call(c.thread, fn, sargs, nil)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", name, err)
			}
			out, err := c.FromStarlark(result)
			if err != nil {
				return nil, fmt.Errorf("%s: result: %w", name, err)
			}
			return out, nil
		},
	}
}

// callback exposes a lispy callable to Starlark code.
func (c *converter) callback(fn value.Value) *starlark.Builtin {
	return starlark.NewBuiltin(c.in.Repr(fn), func(_ *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
		if len(kwargs) > 0 {
			return nil, fmt.Errorf("%s: unexpected keyword arguments", b.Name())
		}
		largs := make([]value.Value, len(args))
		for i, a := range args {
			lv, err := c.FromStarlark(a)
			if err != nil {
				return nil, fmt.Errorf("%s: argument %d: %w", b.Name(), i+1, err)
			}
			largs[i] = lv
		}
		result, err := c.in.Call(fn, largs...)
		if err != nil {
			return nil, err
		}
		return c.ToStarlark(result)
	})
}
