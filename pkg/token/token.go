// Package token defines the lexical tokens produced by the lexer.
//
// A token is just the raw text of an atom, a parenthesis or a quoted string
// together with where it started. Classification into numbers, strings,
// reserved literals and symbols happens later, in the parser.
package token

// Parenthesis tokens.
const (
	LParen = "("
	RParen = ")"
)

// Token is a single lexeme and its starting position.
type Token struct {
	Value string
	Pos   Position
}

func (t Token) String() string {
	return t.Value
}

// IsOpen reports whether the token opens a list.
func (t Token) IsOpen() bool { return t.Value == LParen }

// IsClose reports whether the token closes a list.
func (t Token) IsClose() bool { return t.Value == RParen }

// Values returns the raw text of each token, in order.
func Values(tokens []Token) []string {
	out := make([]string, len(tokens))
	for i, t := range tokens {
		out[i] = t.Value
	}
	return out
}
