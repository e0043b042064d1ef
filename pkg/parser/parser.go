// Package parser builds the syntax tree of a lispy program.
//
// The tree is made of ordinary values: every parenthesized group becomes a
// value.List and every atom becomes a Rational, Text, Bool, Null or an
// interned Symbol. Symbols are interned as a side effect of parsing.
//
// # Grammar
//
//	program → "(" item* ")"
//	item    → "(" item* ")" | atom
//	atom    → digits | '"' chars '"' | "None" | "True" | "False" | symbol
package parser

import (
	"github.com/leapstack-labs/lispy/pkg/intern"
	"github.com/leapstack-labs/lispy/pkg/lexer"
	"github.com/leapstack-labs/lispy/pkg/token"
	"github.com/leapstack-labs/lispy/pkg/value"
)

// Reserved literal spellings. They are matched exactly and cannot be
// rebound.
const (
	LiteralNone  = "None"
	LiteralTrue  = "True"
	LiteralFalse = "False"
)

// Parser consumes a token sequence through a single shared cursor, so each
// nested list picks up exactly where its parent left off.
type Parser struct {
	tokens  []token.Token
	pos     int
	symbols *intern.Interner
}

// New creates a parser over tokens that interns symbols into symbols.
func New(tokens []token.Token, symbols *intern.Interner) *Parser {
	return &Parser{tokens: tokens, symbols: symbols}
}

// Parse parses a whole program: exactly one top-level list.
func Parse(tokens []token.Token, symbols *intern.Interner) (value.List, error) {
	return New(tokens, symbols).Parse()
}

// ParseSource tokenizes and parses source.
func ParseSource(source string, symbols *intern.Interner) (value.List, error) {
	tokens, err := lexer.Tokenize(source)
	if err != nil {
		return nil, err
	}
	return Parse(tokens, symbols)
}

// Parse parses the program held by the parser.
func (p *Parser) Parse() (value.List, error) {
	if len(p.tokens) == 0 {
		return nil, newParseErrorf(token.Position{}, ErrMissingOpenParen)
	}
	first := p.tokens[0]
	if !first.IsOpen() {
		return nil, newParseErrorf(first.Pos, ErrMissingOpenParen)
	}

	p.pos = 1
	tree, err := p.parseList(first.Pos)
	if err != nil {
		return nil, err
	}
	p.pos++ // past the closing paren

	if p.pos < len(p.tokens) {
		extra := p.tokens[p.pos]
		return nil, newParseErrorf(extra.Pos, ErrTrailingTokens, extra.Value)
	}
	return tree, nil
}

// parseList reads items until the ")" matching the "(" at open. On return
// the cursor rests on that ")".
func (p *Parser) parseList(open token.Position) (value.List, error) {
	list := value.List{}

	for p.pos < len(p.tokens) {
		tok := p.tokens[p.pos]

		switch {
		case tok.IsOpen():
			p.pos++
			child, err := p.parseList(tok.Pos)
			if err != nil {
				return nil, err
			}
			list = append(list, child)

		case tok.IsClose():
			return list, nil

		default:
			list = append(list, p.atom(tok.Value))
		}

		p.pos++
	}

	return nil, newParseErrorf(open, ErrUnbalancedParens)
}

// atom classifies a non-parenthesis token.
func (p *Parser) atom(text string) value.Value {
	if n, ok := value.ParseInteger(text); ok {
		return n
	}
	if len(text) >= 2 && text[0] == '"' && text[len(text)-1] == '"' {
		return value.Text(text[1 : len(text)-1])
	}
	switch text {
	case LiteralNone:
		return value.None
	case LiteralTrue:
		return value.True
	case LiteralFalse:
		return value.False
	}
	return value.Symbol(p.symbols.Intern(text))
}
