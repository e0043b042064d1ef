package parser

import (
	"fmt"

	"github.com/leapstack-labs/lispy/pkg/token"
)

// ParseError represents a parsing error with position information.
type ParseError struct {
	Pos     token.Position
	Message string
}

func (e *ParseError) Error() string {
	if !e.Pos.IsValid() {
		return fmt.Sprintf("parse error: %s", e.Message)
	}
	return fmt.Sprintf("parse error at line %d, column %d: %s", e.Pos.Line, e.Pos.Column, e.Message)
}

func newParseErrorf(pos token.Position, format string, args ...any) *ParseError {
	return &ParseError{Pos: pos, Message: fmt.Sprintf(format, args...)}
}

// Common error messages
const (
	ErrMissingOpenParen = "source must begin with '('"
	ErrUnbalancedParens = "unbalanced parens: list opened here is never closed"
	ErrTrailingTokens   = "unexpected token %q after top-level list"
)
