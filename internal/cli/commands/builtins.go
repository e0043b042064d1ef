package commands

import (
	"sort"

	"github.com/spf13/cobra"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/leapstack-labs/lispy/internal/cli/output"
)

// NewBuiltinsCommand creates the builtins command.
func NewBuiltinsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "builtins",
		Short: "List builtin functions, including extensions",
		Args:  cobra.NoArgs,
		RunE:  runBuiltins,
	}
}

type builtinInfo struct {
	Name     string `json:"name"`
	Arity    string `json:"arity"`
	Category string `json:"category"`
}

func runBuiltins(cmd *cobra.Command, _ []string) error {
	cc, cleanup, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	in, err := cc.Engine.NewInterpreter(cmd.OutOrStdout())
	if err != nil {
		return err
	}

	var infos []builtinInfo
	for _, b := range in.Builtins() {
		infos = append(infos, builtinInfo{Name: b.Name, Arity: b.Arity(), Category: b.Category})
	}
	sort.SliceStable(infos, func(i, j int) bool {
		return infos[i].Category < infos[j].Category
	})

	if cc.Renderer.EffectiveMode() == output.ModeJSON {
		return encodeJSON(cc.Renderer, infos)
	}

	titleCaser := cases.Title(language.English)
	rows := make([][]string, len(infos))
	for i, b := range infos {
		rows[i] = []string{b.Name, b.Arity, titleCaser.String(b.Category)}
	}
	cc.Renderer.Table([]string{"Name", "Arity", "Category"}, rows)
	return nil
}
