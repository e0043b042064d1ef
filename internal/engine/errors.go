package engine

import (
	"errors"
	"fmt"

	"github.com/leapstack-labs/lispy/pkg/interp"
	"github.com/leapstack-labs/lispy/pkg/lexer"
	"github.com/leapstack-labs/lispy/pkg/parser"
)

// FatalError is a lex, parse or evaluation error that ended a script.
type FatalError struct {
	Script string
	Err    error
}

func (e *FatalError) Error() string {
	return fmt.Sprintf("%s: %v", e.Script, e.Err)
}

func (e *FatalError) Unwrap() error {
	return e.Err
}

// IsFatal reports whether err is a FatalError or a bare language error
// from the lexer, parser or interpreter.
func IsFatal(err error) bool {
	var (
		fatal     *FatalError
		lexErr    *lexer.LexError
		parseErr  *parser.ParseError
		unknown   *interp.UnknownSymbolError
		arith     *interp.ArithmeticError
		arity     *interp.ArityError
		typeErr   *interp.TypeError
		recursion *interp.RecursionError
	)
	return errors.As(err, &fatal) ||
		errors.As(err, &lexErr) ||
		errors.As(err, &parseErr) ||
		errors.As(err, &unknown) ||
		errors.As(err, &arith) ||
		errors.As(err, &arity) ||
		errors.As(err, &typeErr) ||
		errors.As(err, &recursion)
}
