// Package lexer splits lispy source text into tokens.
//
// The lexer is a single forward pass with no backtracking. It only knows
// about whitespace, parentheses and double-quoted strings; everything else
// accumulates into the pending atom.
package lexer

import (
	"strings"
	"unicode/utf8"

	"github.com/leapstack-labs/lispy/pkg/token"
)

// Lexer tokenizes a source string.
type Lexer struct {
	input  string
	pos    int // current byte offset in input
	line   int // current line number (1-based)
	col    int // current column number (1-based)
	buf    strings.Builder
	start  token.Position // where the pending atom began
	tokens []token.Token
}

// NewLexer creates a new lexer for the given input.
func NewLexer(input string) *Lexer {
	return &Lexer{
		input: input,
		line:  1,
		col:   1,
	}
}

// Tokenize is shorthand for NewLexer(source).Tokenize().
func Tokenize(source string) ([]token.Token, error) {
	return NewLexer(source).Tokenize()
}

// Tokenize converts the input into a slice of tokens.
func (l *Lexer) Tokenize() ([]token.Token, error) {
	for l.pos < len(l.input) {
		switch r := l.peek(); r {
		case ' ', '\t', '\r', '\n':
			l.flush()
			l.advance()

		case '(', ')':
			l.flush()
			l.tokens = append(l.tokens, token.Token{Value: string(r), Pos: l.position()})
			l.advance()

		case '"':
			if l.buf.Len() > 0 {
				return nil, NewLexError(l.position(), ErrQuoteInToken)
			}
			if err := l.scanString(); err != nil {
				return nil, err
			}

		default:
			if l.buf.Len() == 0 {
				l.start = l.position()
			}
			l.consume()
		}
	}
	l.flush()

	return l.tokens, nil
}

// scanString consumes a string literal including both quotes. Everything
// between the quotes is kept verbatim.
func (l *Lexer) scanString() error {
	l.start = l.position()
	l.consume() // opening quote

	for l.pos < len(l.input) {
		closing := l.peek() == '"'
		l.consume()
		if closing {
			l.flush()
			return nil
		}
	}

	return NewLexError(l.start, ErrUnterminatedString)
}

// flush emits the pending atom, if any.
func (l *Lexer) flush() {
	if l.buf.Len() == 0 {
		return
	}
	l.tokens = append(l.tokens, token.Token{Value: l.buf.String(), Pos: l.start})
	l.buf.Reset()
}

// consume appends the current rune's bytes to the pending atom and advances.
func (l *Lexer) consume() {
	_, size := utf8.DecodeRuneInString(l.input[l.pos:])
	l.buf.WriteString(l.input[l.pos : l.pos+size])
	l.advance()
}

// peek returns the current rune without advancing.
func (l *Lexer) peek() rune {
	if l.pos >= len(l.input) {
		return 0
	}
	r, _ := utf8.DecodeRuneInString(l.input[l.pos:])
	return r
}

// advance moves to the next rune, updating position tracking.
func (l *Lexer) advance() {
	if l.pos >= len(l.input) {
		return
	}

	r, size := utf8.DecodeRuneInString(l.input[l.pos:])
	l.pos += size

	if r == '\n' {
		l.line++
		l.col = 1
	} else {
		l.col++
	}
}

// position returns the current position.
func (l *Lexer) position() token.Position {
	return token.Position{Line: l.line, Column: l.col, Offset: l.pos}
}

// Depth returns the number of opened lists not yet closed by tokens.
// A negative result means there are more closing than opening parens.
func Depth(tokens []token.Token) int {
	depth := 0
	for _, t := range tokens {
		switch {
		case t.IsOpen():
			depth++
		case t.IsClose():
			depth--
		}
	}
	return depth
}
