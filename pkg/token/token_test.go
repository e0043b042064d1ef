package token

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPosition_String(t *testing.T) {
	assert.Equal(t, "3:7", Position{Line: 3, Column: 7}.String())
	assert.Equal(t, "-", Position{}.String())
}

func TestToken_Parens(t *testing.T) {
	assert.True(t, Token{Value: "("}.IsOpen())
	assert.True(t, Token{Value: ")"}.IsClose())
	assert.False(t, Token{Value: "x"}.IsOpen())
}

func TestValues(t *testing.T) {
	toks := []Token{{Value: "("}, {Value: "print"}, {Value: `"hi"`}, {Value: ")"}}
	assert.Equal(t, []string{"(", "print", `"hi"`, ")"}, Values(toks))
}
