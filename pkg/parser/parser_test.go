package parser

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/lispy/pkg/intern"
	"github.com/leapstack-labs/lispy/pkg/lexer"
	"github.com/leapstack-labs/lispy/pkg/token"
	"github.com/leapstack-labs/lispy/pkg/value"
)

func parse(t *testing.T, src string) (value.List, *intern.Interner) {
	t.Helper()
	symbols := intern.New()
	tree, err := ParseSource(src, symbols)
	require.NoError(t, err, "parse %q", src)
	return tree, symbols
}

func TestParse_Atoms(t *testing.T) {
	tree, symbols := parse(t, `(42 "hello world" None True False foo "" 007)`)
	require.Len(t, tree, 8)

	assert.True(t, value.Equal(value.NewInt(42), tree[0]))
	assert.Equal(t, value.Text("hello world"), tree[1])
	assert.Equal(t, value.None, tree[2])
	assert.Equal(t, value.True, tree[3])
	assert.Equal(t, value.False, tree[4])
	require.IsType(t, value.Symbol(0), tree[5])
	assert.Equal(t, "foo", symbols.Spelling(tree[5].(value.Symbol).ID()))
	assert.Equal(t, value.Text(""), tree[6])
	assert.True(t, value.Equal(value.NewInt(7), tree[7]))
}

func TestParse_LiteralsAreCaseSensitive(t *testing.T) {
	tree, symbols := parse(t, "(none true FALSE)")
	for i, want := range []string{"none", "true", "FALSE"} {
		sym, ok := tree[i].(value.Symbol)
		require.True(t, ok, "element %d should be a symbol, got %T", i, tree[i])
		assert.Equal(t, want, symbols.Spelling(sym.ID()))
	}
}

func TestParse_NonNumericAtomsAreSymbols(t *testing.T) {
	tree, _ := parse(t, "(-1 1.5 1/2 +)")
	for i, item := range tree {
		assert.IsType(t, value.Symbol(0), item, "element %d", i)
	}
}

func TestParse_Nested(t *testing.T) {
	tree, _ := parse(t, "((defvar x 1) (print (+ x 2)) ())")
	require.Len(t, tree, 3)

	first, ok := tree[0].(value.List)
	require.True(t, ok)
	assert.Len(t, first, 3)

	second := tree[1].(value.List)
	inner, ok := second[1].(value.List)
	require.True(t, ok)
	assert.Len(t, inner, 3)

	empty, ok := tree[2].(value.List)
	require.True(t, ok)
	assert.NotNil(t, empty, "() parses to a non-nil empty list")
	assert.Empty(t, empty)
}

func TestParse_SharedSymbolIDs(t *testing.T) {
	tree, symbols := parse(t, "(x (y x) y)")
	x1 := tree[0].(value.Symbol)
	x2 := tree[1].(value.List)[1].(value.Symbol)
	y1 := tree[1].(value.List)[0].(value.Symbol)
	y2 := tree[2].(value.Symbol)

	assert.Equal(t, x1, x2)
	assert.Equal(t, y1, y2)
	assert.NotEqual(t, x1, y1)
	assert.Equal(t, 2, symbols.Len())
	assert.Equal(t, intern.Symbol(0), x1.ID(), "first occurrence gets id 0")
}

func TestParse_RoundTrip(t *testing.T) {
	inputs := []string{
		`(print "hello")`,
		`((defvar x 10) (setvar x (+ x 1)) (print x))`,
		`(if True (list 1 2 3) None)`,
		`(a () (b (c ())) "s p a c e s" False)`,
		`(lambda (x y) ((print x) (* x y)))`,
	}
	for _, in := range inputs {
		t.Run(in, func(t *testing.T) {
			tree, symbols := parse(t, in)
			printed := value.Repr(tree, symbols)
			assert.Equal(t, in, printed)

			again, err := ParseSource(printed, symbols)
			require.NoError(t, err)
			assert.True(t, value.Equal(tree, again))
		})
	}
}

func TestParse_CanonicalSpacing(t *testing.T) {
	tree, symbols := parse(t, "(  print\n\t(+   1 2 )\n)")
	assert.Equal(t, "(print (+ 1 2))", value.Repr(tree, symbols))
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		message string
		pos     token.Position
	}{
		{"empty source", "", ErrMissingOpenParen, token.Position{}},
		{"no leading paren", "print 1", ErrMissingOpenParen, token.Position{Line: 1, Column: 1, Offset: 0}},
		{"leading close paren", ")(", ErrMissingOpenParen, token.Position{Line: 1, Column: 1, Offset: 0}},
		{"unbalanced", "(+ 1 2", ErrUnbalancedParens, token.Position{Line: 1, Column: 1, Offset: 0}},
		{"unbalanced inner", "(a\n  (b c)\n  (d", ErrUnbalancedParens, token.Position{Line: 3, Column: 3, Offset: 13}},
		{"trailing tokens", "(a) b", `unexpected token "b"`, token.Position{Line: 1, Column: 5, Offset: 4}},
		{"extra close", "(a))", `unexpected token ")"`, token.Position{Line: 1, Column: 4, Offset: 3}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseSource(tt.input, intern.New())
			require.Error(t, err)

			var parseErr *ParseError
			require.True(t, errors.As(err, &parseErr), "expected *ParseError, got %T", err)
			assert.Contains(t, parseErr.Message, tt.message)
			assert.Equal(t, tt.pos, parseErr.Pos)
		})
	}
}

func TestParseSource_LexErrorPassesThrough(t *testing.T) {
	_, err := ParseSource(`(print a"b")`, intern.New())
	require.Error(t, err)

	var lexErr *lexer.LexError
	assert.True(t, errors.As(err, &lexErr), "expected *lexer.LexError, got %T", err)
}

func TestParseError_Message(t *testing.T) {
	err := &ParseError{Pos: token.Position{Line: 2, Column: 4}, Message: "boom"}
	assert.Equal(t, "parse error at line 2, column 4: boom", err.Error())

	err = &ParseError{Message: "boom"}
	assert.Equal(t, "parse error: boom", err.Error())
}
