package commands

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/leapstack-labs/lispy/internal/cli/config"
	"github.com/leapstack-labs/lispy/internal/cli/testutil"
	"github.com/leapstack-labs/lispy/pkg/intern"
	"github.com/leapstack-labs/lispy/pkg/parser"
	"github.com/leapstack-labs/lispy/pkg/value"
)

const inspectSource = `((defvar half (/ 1 2)) (print "hi" half None True))`

func executeCommand(t *testing.T, cmd *cobra.Command, args ...string) (string, error) {
	t.Helper()
	config.ResetConfig()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func writeInspectSource(t *testing.T, source string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "script.lispy")
	testutil.WriteFile(t, path, source)
	return path
}

func TestTreeData(t *testing.T) {
	symbols := intern.New()
	tree, err := parser.ParseSource(`(f 12 "s" None False (g 123456789012345678901234567890))`, symbols)
	require.NoError(t, err)

	got := treeData(tree, symbols)
	want := []any{
		map[string]string{"symbol": "f"},
		int64(12),
		"s",
		nil,
		false,
		[]any{map[string]string{"symbol": "g"}, "123456789012345678901234567890"},
	}
	assert.Equal(t, want, got)

	assert.Equal(t, "1/2", treeData(value.NewRat(1, 2), symbols))
	assert.Equal(t, int64(-3), treeData(value.NewInt(-3), symbols))
}

func TestParseCommand_Formats(t *testing.T) {
	path := writeInspectSource(t, inspectSource)

	out, err := executeCommand(t, NewParseCommand(), path)
	require.NoError(t, err)
	assert.Equal(t, "((defvar half (/ 1 2)) (print \"hi\" half None True))\n", out)

	out, err = executeCommand(t, NewParseCommand(), path, "--format", "json")
	require.NoError(t, err)
	var decoded []any
	require.NoError(t, json.Unmarshal([]byte(out), &decoded))
	require.Len(t, decoded, 2)
	assert.Equal(t, []any{map[string]any{"symbol": "defvar"}, map[string]any{"symbol": "half"},
		[]any{map[string]any{"symbol": "/"}, float64(1), float64(2)}}, decoded[0])

	out, err = executeCommand(t, NewParseCommand(), path, "-f", "yaml")
	require.NoError(t, err)
	assert.Contains(t, out, "- symbol: print")
	var fromYAML []any
	require.NoError(t, yaml.Unmarshal([]byte(out), &fromYAML))
	assert.Len(t, fromYAML, 2)
}

func TestParseCommand_Errors(t *testing.T) {
	_, err := executeCommand(t, NewParseCommand(), writeInspectSource(t, "(1 2)"), "--format", "xml")
	require.Error(t, err)
	assert.Equal(t, `unknown format "xml" (want sexpr, json or yaml)`, err.Error())

	_, err = executeCommand(t, NewParseCommand(), writeInspectSource(t, "(1 2"))
	require.Error(t, err)

	_, err = executeCommand(t, NewParseCommand(), filepath.Join(t.TempDir(), "missing.lispy"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read script")
}

func TestTokensCommand(t *testing.T) {
	path := writeInspectSource(t, "(print\n  \"a b\")")

	out, err := executeCommand(t, NewTokensCommand(), path)
	require.NoError(t, err)
	assert.Contains(t, out, "| # | Position | Token |")
	assert.Contains(t, out, "| 0 | 1:1 | ( |")
	assert.Contains(t, out, "| 1 | 1:2 | print |")
	assert.Contains(t, out, `| 2 | 2:3 | "a b" |`)
	assert.Contains(t, out, "| 3 | 2:8 | ) |")
}
