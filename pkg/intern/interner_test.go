package intern

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInternIdempotent(t *testing.T) {
	in := New()
	id1 := in.Intern("foo")
	id2 := in.Intern("foo")

	assert.Equal(t, id1, id2, "same spelling should return same ID")
	assert.Equal(t, 1, in.Len())
}

func TestInternDenseInsertionOrder(t *testing.T) {
	in := New()
	for i, name := range []string{"list", "+", "x", "lambda"} {
		assert.Equal(t, Symbol(i), in.Intern(name), "id of %q", name)
	}
	// Re-interning does not allocate.
	assert.Equal(t, Symbol(2), in.Intern("x"))
	assert.Equal(t, Symbol(4), in.Intern("y"))
}

func TestInternCaseSensitive(t *testing.T) {
	in := New()
	assert.NotEqual(t, in.Intern("Foo"), in.Intern("foo"))
}

func TestInternConcurrent(t *testing.T) {
	const numGoroutines = 100
	in := New()
	var wg sync.WaitGroup
	ids := make([]Symbol, numGoroutines)

	for i := 0; i < numGoroutines; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			ids[idx] = in.Intern("shared")
			in.Intern(fmt.Sprintf("own-%d", idx))
		}(i)
	}
	wg.Wait()

	for i := 1; i < numGoroutines; i++ {
		require.Equal(t, ids[0], ids[i], "concurrent interning should return same ID")
	}
	assert.Equal(t, numGoroutines+1, in.Len())

	// Ids stay dense.
	for i, s := range in.Spellings() {
		id, ok := in.Lookup(s)
		require.True(t, ok)
		assert.Equal(t, Symbol(i), id)
	}
}

func TestLookup(t *testing.T) {
	in := New()
	expected := in.Intern("defvar")

	got, ok := in.Lookup("defvar")
	require.True(t, ok, "interned spelling should be found")
	assert.Equal(t, expected, got)

	_, ok = in.Lookup("nonexistent")
	assert.False(t, ok, "lookup must not allocate")
	assert.Equal(t, 1, in.Len())
}

func TestSpellingAndQuote(t *testing.T) {
	in := New()
	id := in.Intern("counter")

	assert.Equal(t, "counter", in.Spelling(id))
	assert.Equal(t, "'counter'", in.Quote(id))
	assert.Equal(t, "", in.Spelling(Symbol(42)))
	assert.Equal(t, "", in.Spelling(Symbol(-1)))
}

func TestSpellingsIsCopy(t *testing.T) {
	in := New()
	in.Intern("a")

	s := in.Spellings()
	s[0] = "MODIFIED"
	assert.Equal(t, "a", in.Spellings()[0], "Spellings should return a copy")
}
