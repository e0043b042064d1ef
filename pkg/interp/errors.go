package interp

import (
	"fmt"

	"github.com/leapstack-labs/lispy/pkg/intern"
)

// UnknownSymbolError is returned when a symbol is looked up or assigned
// without being bound in any frame.
type UnknownSymbolError struct {
	Symbol intern.Symbol
	Name   string
}

func (e *UnknownSymbolError) Error() string {
	return fmt.Sprintf("unknown symbol '%s'", e.Name)
}

// ArithmeticError wraps a failed arithmetic operation such as division by
// zero.
type ArithmeticError struct {
	Op  string
	Err error
}

func (e *ArithmeticError) Error() string {
	return fmt.Sprintf("arithmetic error in '%s': %v", e.Op, e.Err)
}

func (e *ArithmeticError) Unwrap() error {
	return e.Err
}

// ArityError is returned when a callable or special form receives the
// wrong number of arguments.
type ArityError struct {
	Callee string // quoted spelling, e.g. 'f'
	Want   string // accepted counts, e.g. "2" or "1-2"
	Got    int
}

func (e *ArityError) Error() string {
	noun := "arguments"
	if e.Want == "1" {
		noun = "argument"
	}
	return fmt.Sprintf("%s expects %s %s, got %d", e.Callee, e.Want, noun, e.Got)
}

// TypeError is returned when an operation receives a value of the wrong
// kind.
type TypeError struct {
	Message string
}

func (e *TypeError) Error() string {
	return "type error: " + e.Message
}

func typeErrorf(format string, args ...any) *TypeError {
	return &TypeError{Message: fmt.Sprintf(format, args...)}
}

// RecursionError is returned when evaluation nests deeper than the
// interpreter's depth limit.
type RecursionError struct {
	Limit int
}

func (e *RecursionError) Error() string {
	return fmt.Sprintf("maximum evaluation depth of %d exceeded", e.Limit)
}
