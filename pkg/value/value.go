// Package value defines the runtime values of lispy.
//
// The same values make up both the syntax tree produced by the parser and
// the results of evaluation: a program is just a List of atoms and Lists.
package value

import (
	"fmt"

	"github.com/leapstack-labs/lispy/pkg/intern"
)

// Kind identifies the variant of a Value.
type Kind int

// Kind constants for each value variant.
const (
	KindNull Kind = iota
	KindBool
	KindRational
	KindText
	KindSymbol
	KindList
	KindBuiltin
	KindClosure
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "bool"
	case KindRational:
		return "rational"
	case KindText:
		return "text"
	case KindSymbol:
		return "symbol"
	case KindList:
		return "list"
	case KindBuiltin:
		return "builtin"
	case KindClosure:
		return "closure"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Value is implemented by every lispy value.
type Value interface {
	Kind() Kind
}

// Null is the value written None.
type Null struct{}

// None is the only Null value.
var None = Null{}

// Bool is True or False.
type Bool bool

// Boolean values.
const (
	True  Bool = true
	False Bool = false
)

// Text is a string literal, stored without its quotes.
type Text string

// Symbol is an interned identifier.
type Symbol intern.Symbol

// ID returns the interned id.
func (s Symbol) ID() intern.Symbol { return intern.Symbol(s) }

// List is an ordered sequence of values. A non-nil empty List is the
// empty s-expression ().
type List []Value

// Variadic marks a builtin without an upper argument bound.
const Variadic = -1

// Builtin is a native function.
type Builtin struct {
	Name     string
	Category string
	MinArgs  int
	MaxArgs  int // Variadic for no upper bound
	Fn       func(args []Value) (Value, error)
}

// Accepts reports whether n arguments satisfy the builtin's arity.
func (b *Builtin) Accepts(n int) bool {
	if n < b.MinArgs {
		return false
	}
	return b.MaxArgs == Variadic || n <= b.MaxArgs
}

// Arity describes the accepted argument counts, e.g. "2", "0+" or "1-2".
func (b *Builtin) Arity() string {
	switch {
	case b.MaxArgs == Variadic:
		return fmt.Sprintf("%d+", b.MinArgs)
	case b.MinArgs == b.MaxArgs:
		return fmt.Sprintf("%d", b.MinArgs)
	default:
		return fmt.Sprintf("%d-%d", b.MinArgs, b.MaxArgs)
	}
}

// Closure is a function literal. It does not capture the frames it was
// created in; calls run against whatever frames are live at call time.
type Closure struct {
	Params []intern.Symbol
	Body   Value
}

func (Null) Kind() Kind     { return KindNull }
func (Bool) Kind() Kind     { return KindBool }
func (Rational) Kind() Kind { return KindRational }
func (Text) Kind() Kind     { return KindText }
func (Symbol) Kind() Kind   { return KindSymbol }
func (List) Kind() Kind     { return KindList }
func (*Builtin) Kind() Kind { return KindBuiltin }
func (*Closure) Kind() Kind { return KindClosure }

// Truthy implements the language's truthiness: only False and None are
// falsy. Zero, empty text and the empty list are all true.
func Truthy(v Value) bool {
	switch x := v.(type) {
	case nil, Null:
		return false
	case Bool:
		return bool(x)
	default:
		return true
	}
}

// Equal reports structural equality. Lists compare element-wise and
// callables compare by identity.
func Equal(a, b Value) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	if a.Kind() != b.Kind() {
		return false
	}
	switch x := a.(type) {
	case Null:
		return true
	case Bool:
		return x == b.(Bool)
	case Rational:
		return x.Cmp(b.(Rational)) == 0
	case Text:
		return x == b.(Text)
	case Symbol:
		return x == b.(Symbol)
	case List:
		y := b.(List)
		if len(x) != len(y) {
			return false
		}
		for i := range x {
			if !Equal(x[i], y[i]) {
				return false
			}
		}
		return true
	case *Builtin:
		return x == b.(*Builtin)
	case *Closure:
		return x == b.(*Closure)
	default:
		return false
	}
}

// Compare orders two rationals numerically or two texts lexically.
// The boolean is false when the operands are not mutually ordered.
func Compare(a, b Value) (int, bool) {
	switch x := a.(type) {
	case Rational:
		if y, ok := b.(Rational); ok {
			return x.Cmp(y), true
		}
	case Text:
		if y, ok := b.(Text); ok {
			switch {
			case x < y:
				return -1, true
			case x > y:
				return 1, true
			default:
				return 0, true
			}
		}
	}
	return 0, false
}
