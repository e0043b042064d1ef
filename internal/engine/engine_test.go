package engine

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/lispy/internal/state"
	"github.com/leapstack-labs/lispy/internal/testutil"
	"github.com/leapstack-labs/lispy/pkg/interp"
	"github.com/leapstack-labs/lispy/pkg/parser"
	"github.com/leapstack-labs/lispy/pkg/value"
)

func writeScript(t *testing.T, dir, name, source string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(source), 0o600))
	return path
}

func newTestEngine(t *testing.T, cfg Config) *Engine {
	t.Helper()
	cfg.Logger = testutil.NewTestLogger(t)
	e, err := New(cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = e.Close() })
	return e
}

func TestNew_Defaults(t *testing.T) {
	e := newTestEngine(t, Config{})
	assert.Equal(t, 1, e.jobs)
	assert.Nil(t, e.store)
	assert.Empty(t, e.Modules())

	_, err := e.History(context.Background(), 10)
	assert.ErrorIs(t, err, ErrHistoryDisabled)
}

func TestNew_CreatesStateDirectory(t *testing.T) {
	statePath := filepath.Join(t.TempDir(), ".lispy", "state.db")
	e := newTestEngine(t, Config{StatePath: statePath, RecordHistory: true})

	assert.NotNil(t, e.store)
	assert.FileExists(t, statePath)
}

func TestNew_HistoryOffSkipsStore(t *testing.T) {
	statePath := filepath.Join(t.TempDir(), "state.db")
	e := newTestEngine(t, Config{StatePath: statePath})

	assert.Nil(t, e.store)
	assert.NoFileExists(t, statePath)
}

func TestNew_BadExtensions(t *testing.T) {
	dir := t.TempDir()
	writeScript(t, dir, "bad.star", "def (:\n")

	_, err := New(Config{ExtensionsDir: dir})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to load extensions")
}

func TestRunSource(t *testing.T) {
	e := newTestEngine(t, Config{})
	var out bytes.Buffer

	v, err := e.RunSource(context.Background(), "inline", []byte(`((print "hello") (+ 1 2))`), &out)
	require.NoError(t, err)
	assert.Equal(t, "3", value.Repr(v, nil))
	assert.Equal(t, "hello\n", out.String())
}

func TestRunSource_FatalErrors(t *testing.T) {
	e := newTestEngine(t, Config{})

	_, err := e.RunSource(context.Background(), "broken.lispy", []byte("(+ 1 2"), &bytes.Buffer{})
	require.Error(t, err)
	assert.True(t, IsFatal(err))
	var parseErr *parser.ParseError
	assert.ErrorAs(t, err, &parseErr)
	assert.Contains(t, err.Error(), "broken.lispy: parse error")

	_, err = e.RunSource(context.Background(), "x.lispy", []byte("(nope)"), &bytes.Buffer{})
	var unknown *interp.UnknownSymbolError
	require.ErrorAs(t, err, &unknown)
	assert.Equal(t, "nope", unknown.Name)
}

func TestRunSource_MaxDepth(t *testing.T) {
	e := newTestEngine(t, Config{MaxDepth: 50})
	_, err := e.RunSource(context.Background(), "loop", []byte("((defvar f (lambda () (f))) (f))"), &bytes.Buffer{})
	var recursion *interp.RecursionError
	require.ErrorAs(t, err, &recursion)
	assert.Equal(t, 50, recursion.Limit)
}

func TestRunFile_Missing(t *testing.T) {
	e := newTestEngine(t, Config{})
	_, err := e.RunFile(context.Background(), filepath.Join(t.TempDir(), "missing.lispy"), &bytes.Buffer{})
	require.Error(t, err)
	assert.False(t, IsFatal(err))
	assert.Contains(t, err.Error(), "failed to read script")
}

func TestRunFile_WithExtensions(t *testing.T) {
	dir := t.TempDir()
	extDir := filepath.Join(dir, "extensions")
	require.NoError(t, os.Mkdir(extDir, 0o750))
	writeScript(t, extDir, "text.star", "def join(a, b):\n    return a + \"-\" + b\n")
	script := writeScript(t, dir, "main.lispy", `(print (text.join "a" "b"))`)

	e := newTestEngine(t, Config{ExtensionsDir: extDir})
	require.Len(t, e.Modules(), 1)

	var out bytes.Buffer
	_, err := e.RunFile(context.Background(), script, &out)
	require.NoError(t, err)
	assert.Equal(t, "a-b\n", out.String())
}

func TestRunFiles_OrderedOutput(t *testing.T) {
	dir := t.TempDir()
	var paths []string
	for _, word := range []string{"one", "two", "three", "four"} {
		paths = append(paths, writeScript(t, dir, word+".lispy", `(print "`+word+`")`))
	}

	e := newTestEngine(t, Config{Jobs: 3})
	var out bytes.Buffer
	require.NoError(t, e.RunFiles(context.Background(), paths, &out))
	assert.Equal(t, "one\ntwo\nthree\nfour\n", out.String())
}

func TestRunFiles_FirstFailureInArgumentOrder(t *testing.T) {
	dir := t.TempDir()
	paths := []string{
		writeScript(t, dir, "a.lispy", `(print "a")`),
		writeScript(t, dir, "b.lispy", `((print "b") (/ 1 0))`),
		writeScript(t, dir, "c.lispy", `(nope)`),
		writeScript(t, dir, "d.lispy", `(print "d")`),
	}

	e := newTestEngine(t, Config{Jobs: 4})
	var out bytes.Buffer
	err := e.RunFiles(context.Background(), paths, &out)

	var fatal *FatalError
	require.ErrorAs(t, err, &fatal)
	assert.Equal(t, paths[1], fatal.Script)
	var arith *interp.ArithmeticError
	assert.ErrorAs(t, err, &arith)
	assert.Equal(t, "a\nb\n", out.String())
}

func TestRunFiles_RecordsHistory(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	store, err := state.Open(state.MemoryPath, testutil.NewTestLogger(t))
	require.NoError(t, err)

	e := newTestEngine(t, Config{Store: store, Jobs: 2})
	paths := []string{
		writeScript(t, dir, "ok.lispy", "(+ 1 1)"),
		writeScript(t, dir, "bad.lispy", "(nope)"),
	}
	err = e.RunFiles(ctx, paths, &bytes.Buffer{})
	require.Error(t, err)

	runs, err := e.History(ctx, 10)
	require.NoError(t, err)
	require.Len(t, runs, 2)

	byScript := map[string]*state.Run{}
	for _, r := range runs {
		byScript[filepath.Base(r.Script)] = r
	}
	assert.Equal(t, state.RunStatusCompleted, byScript["ok.lispy"].Status)
	assert.Equal(t, state.RunStatusFailed, byScript["bad.lispy"].Status)
	assert.Equal(t, "unknown symbol 'nope'", byScript["bad.lispy"].Error)
	assert.Equal(t, state.HashSource([]byte("(+ 1 1)")), byScript["ok.lispy"].SourceHash)
}

func TestFatalError(t *testing.T) {
	inner := &interp.TypeError{Message: "bad"}
	err := &FatalError{Script: "s.lispy", Err: inner}
	assert.Equal(t, "s.lispy: type error: bad", err.Error())
	assert.ErrorIs(t, err, inner)
	assert.True(t, IsFatal(inner))
	assert.False(t, IsFatal(os.ErrNotExist))
}
