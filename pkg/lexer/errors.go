package lexer

import (
	"errors"
	"fmt"

	"github.com/leapstack-labs/lispy/pkg/token"
)

// Sentinel causes wrapped by LexError.
var (
	ErrQuoteInToken       = errors.New("quotation mark cannot appear within a value")
	ErrUnterminatedString = errors.New("unterminated string literal")
)

// LexError represents a lexical analysis error.
type LexError struct {
	Pos token.Position
	Err error
}

// NewLexError creates a new lexer error wrapping cause.
func NewLexError(pos token.Position, cause error) *LexError {
	return &LexError{Pos: pos, Err: cause}
}

func (e *LexError) Error() string {
	return fmt.Sprintf("lexer error at line %d, column %d: %v", e.Pos.Line, e.Pos.Column, e.Err)
}

func (e *LexError) Unwrap() error {
	return e.Err
}
