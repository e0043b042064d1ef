package lexer

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/lispy/pkg/token"
)

func TestLexer_Basic(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{"empty", "", nil},
		{"whitespace only", " \t\r\n", nil},
		{"simple call", "(+ 1 2)", []string{"(", "+", "1", "2", ")"}},
		{"nested", "((a) b)", []string{"(", "(", "a", ")", "b", ")"}},
		{"parens end atoms", "(foo(bar)baz)", []string{"(", "foo", "(", "bar", ")", "baz", ")"}},
		{"all whitespace kinds", "(a\tb\r\nc d)", []string{"(", "a", "b", "c", "d", ")"}},
		{"trailing atom flushed", "abc", []string{"abc"}},
		{"string keeps spaces", `(print "hello  (world)")`, []string{"(", "print", `"hello  (world)"`, ")"}},
		{"empty string", `("")`, []string{"(", `""`, ")"}},
		{"atom after string", `("a"b)`, []string{"(", `"a"`, "b", ")"}},
		{"string keeps newline", "(\"a\nb\")", []string{"(", "\"a\nb\"", ")"}},
		{"symbols with punctuation", "(<= >= mod a.b)", []string{"(", "<=", ">=", "mod", "a.b", ")"}},
		{"unicode atom", "(héllo)", []string{"(", "héllo", ")"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tokens, err := Tokenize(tt.input)
			require.NoError(t, err)
			if tt.want == nil {
				assert.Empty(t, tokens)
				return
			}
			assert.Equal(t, tt.want, token.Values(tokens))
		})
	}
}

func TestLexer_Positions(t *testing.T) {
	tokens, err := Tokenize("(defvar x\n  \"hi\")")
	require.NoError(t, err)
	require.Len(t, tokens, 5)

	expected := []token.Position{
		{Line: 1, Column: 1, Offset: 0},
		{Line: 1, Column: 2, Offset: 1},
		{Line: 1, Column: 9, Offset: 8},
		{Line: 2, Column: 3, Offset: 12},
		{Line: 2, Column: 7, Offset: 16},
	}
	for i, exp := range expected {
		assert.Equal(t, exp, tokens[i].Pos, "token[%d] %q position", i, tokens[i].Value)
	}
}

func TestLexer_QuoteInToken(t *testing.T) {
	_, err := Tokenize(`(print ab"c")`)
	require.Error(t, err)

	var lexErr *LexError
	require.True(t, errors.As(err, &lexErr), "expected *LexError, got %T", err)
	assert.ErrorIs(t, err, ErrQuoteInToken)
	assert.Equal(t, 1, lexErr.Pos.Line)
	assert.Equal(t, 10, lexErr.Pos.Column)
	assert.Contains(t, err.Error(), "line 1, column 10")
}

func TestLexer_UnterminatedString(t *testing.T) {
	_, err := Tokenize("(print\n  \"never closed)")
	require.Error(t, err)

	var lexErr *LexError
	require.True(t, errors.As(err, &lexErr))
	assert.ErrorIs(t, err, ErrUnterminatedString)
	assert.Equal(t, token.Position{Line: 2, Column: 3, Offset: 9}, lexErr.Pos, "points at the opening quote")
}

func TestDepth(t *testing.T) {
	tests := []struct {
		input string
		want  int
	}{
		{"(a b)", 0},
		{"(a (b", 2},
		{"(a))", -1},
		{`("(" x`, 1},
		{"", 0},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			tokens, err := Tokenize(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, Depth(tokens))
		})
	}
}
