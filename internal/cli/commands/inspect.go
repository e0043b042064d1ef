package commands

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/leapstack-labs/lispy/internal/cli/output"
	"github.com/leapstack-labs/lispy/pkg/intern"
	"github.com/leapstack-labs/lispy/pkg/lexer"
	"github.com/leapstack-labs/lispy/pkg/parser"
	"github.com/leapstack-labs/lispy/pkg/value"
)

// Tree dump formats for the parse command.
const (
	FormatSexpr = "sexpr"
	FormatJSON  = "json"
	FormatYAML  = "yaml"
)

func readSource(path string) (string, error) {
	b, err := os.ReadFile(path) //nolint:gosec // G304: path is user-specified
	if err != nil {
		return "", fmt.Errorf("failed to read script: %w", err)
	}
	return string(b), nil
}

func encodeJSON(r *output.Renderer, v any) error {
	enc := json.NewEncoder(r.Writer())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// NewTokensCommand creates the tokens command.
func NewTokensCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "tokens <file>",
		Short: "Show the tokens of a script",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cc := NewCommandContextWithoutEngine(cmd)
			source, err := readSource(args[0])
			if err != nil {
				return err
			}
			tokens, err := lexer.Tokenize(source)
			if err != nil {
				return err
			}

			if cc.Renderer.EffectiveMode() == output.ModeJSON {
				type jsonToken struct {
					Index  int    `json:"index"`
					Line   int    `json:"line"`
					Column int    `json:"column"`
					Value  string `json:"value"`
				}
				out := make([]jsonToken, len(tokens))
				for i, t := range tokens {
					out[i] = jsonToken{Index: i, Line: t.Pos.Line, Column: t.Pos.Column, Value: t.Value}
				}
				return encodeJSON(cc.Renderer, out)
			}

			rows := make([][]string, len(tokens))
			for i, t := range tokens {
				rows[i] = []string{strconv.Itoa(i), t.Pos.String(), t.Value}
			}
			cc.Renderer.Table([]string{"#", "Position", "Token"}, rows)
			return nil
		},
	}
}

// NewParseCommand creates the parse command.
func NewParseCommand() *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "parse <file>",
		Short: "Parse a script and print its syntax tree",
		Long: `Parse a script and print the tree.

The sexpr format is the canonical re-print of the source. The json and yaml
formats show the nested structure, with symbols as {"symbol": name} and
non-integer or oversized numbers as strings.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cc := NewCommandContextWithoutEngine(cmd)
			source, err := readSource(args[0])
			if err != nil {
				return err
			}
			symbols := intern.New()
			tree, err := parser.ParseSource(source, symbols)
			if err != nil {
				return err
			}

			switch format {
			case FormatSexpr:
				cc.Renderer.Println(value.Repr(tree, symbols))
				return nil
			case FormatJSON:
				return encodeJSON(cc.Renderer, treeData(tree, symbols))
			case FormatYAML:
				enc := yaml.NewEncoder(cc.Renderer.Writer())
				enc.SetIndent(2)
				if err := enc.Encode(treeData(tree, symbols)); err != nil {
					return fmt.Errorf("failed to encode yaml: %w", err)
				}
				return enc.Close()
			default:
				return fmt.Errorf("unknown format %q (want sexpr, json or yaml)", format)
			}
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", FormatSexpr, "Output format (sexpr|json|yaml)")
	_ = cmd.RegisterFlagCompletionFunc("format", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return []string{FormatSexpr, FormatJSON, FormatYAML}, cobra.ShellCompDirectiveNoFileComp
	})
	return cmd
}

// treeData converts a parsed tree into plain data for encoders.
func treeData(v value.Value, symbols *intern.Interner) any {
	switch x := v.(type) {
	case value.Null:
		return nil
	case value.Bool:
		return bool(x)
	case value.Rational:
		if x.IsInt() && x.Num().IsInt64() {
			return x.Num().Int64()
		}
		return x.String()
	case value.Text:
		return string(x)
	case value.Symbol:
		return map[string]string{"symbol": symbols.Spelling(x.ID())}
	case value.List:
		out := make([]any, len(x))
		for i, item := range x {
			out[i] = treeData(item, symbols)
		}
		return out
	default:
		return value.Repr(v, symbols)
	}
}

// NewSymbolsCommand creates the symbols command.
func NewSymbolsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "symbols <file>",
		Short: "Show the symbol table after parsing a script",
		Long: `Parse a script in a fresh interpreter and list every interned symbol.
Builtin names come first because they are interned when the interpreter
starts.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cc, cleanup, err := NewCommandContext(cmd)
			if err != nil {
				return err
			}
			defer cleanup()

			source, err := readSource(args[0])
			if err != nil {
				return err
			}
			in, err := cc.Engine.NewInterpreter(cmd.OutOrStdout())
			if err != nil {
				return err
			}
			if _, err := in.Parse(source); err != nil {
				return err
			}

			spellings := in.Symbols().Spellings()
			if cc.Renderer.EffectiveMode() == output.ModeJSON {
				return encodeJSON(cc.Renderer, spellings)
			}
			rows := make([][]string, len(spellings))
			for i, sp := range spellings {
				rows[i] = []string{strconv.Itoa(i), sp}
			}
			cc.Renderer.Table([]string{"ID", "Symbol"}, rows)
			return nil
		},
	}
}
