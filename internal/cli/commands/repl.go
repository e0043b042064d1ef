package commands

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/chzyer/readline"
	"github.com/spf13/cobra"

	"github.com/leapstack-labs/lispy/internal/cli/output"
	"github.com/leapstack-labs/lispy/pkg/interp"
	"github.com/leapstack-labs/lispy/pkg/lexer"
	"github.com/leapstack-labs/lispy/pkg/value"
)

const continuationPrompt = "   ...> "

// NewREPLCommand creates the repl command.
func NewREPLCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "repl",
		Short: "Start an interactive session",
		Long: `Start an interactive lispy session.

Each input is one top-level list; input continues over several lines until
its parentheses balance. Definitions persist for the whole session and
errors are reported without ending it.`,
		Args: cobra.NoArgs,
		RunE: runREPL,
	}
}

func runREPL(cmd *cobra.Command, _ []string) error {
	cc, cleanup, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	in, err := cc.Engine.NewInterpreter(cmd.OutOrStdout())
	if err != nil {
		return err
	}
	s := newREPLSession(in, cc.Renderer)

	historyFile := cc.Cfg.REPL.HistoryFile
	if historyFile != "" {
		if err := os.MkdirAll(filepath.Dir(historyFile), 0o750); err != nil {
			cc.Logger.Warn("REPL history disabled", "error", err)
			historyFile = ""
		}
	}

	prompt := cc.Cfg.REPL.Prompt
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          prompt,
		HistoryFile:     historyFile,
		AutoComplete:    s,
		InterruptPrompt: "^C",
		EOFPrompt:       ".quit",
		Stdout:          cmd.OutOrStdout(),
		Stderr:          cmd.ErrOrStderr(),
	})
	if err != nil {
		return fmt.Errorf("failed to initialize REPL: %w", err)
	}
	defer func() { _ = rl.Close() }()

	cc.Renderer.Println("lispy REPL. Type .help for commands, .quit to exit")

	for {
		line, err := rl.Readline()
		if errors.Is(err, readline.ErrInterrupt) {
			s.reset()
			rl.SetPrompt(prompt)
			continue
		}
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to read input: %w", err)
		}

		if s.handleLine(line) {
			return nil
		}
		if s.pending() {
			rl.SetPrompt(continuationPrompt)
		} else {
			rl.SetPrompt(prompt)
		}
	}
}

// replSession evaluates input lines against one interpreter.
type replSession struct {
	in     *interp.Interpreter
	r      *output.Renderer
	buffer strings.Builder
}

func newREPLSession(in *interp.Interpreter, r *output.Renderer) *replSession {
	return &replSession{in: in, r: r}
}

func (s *replSession) pending() bool {
	return s.buffer.Len() > 0
}

func (s *replSession) reset() {
	s.buffer.Reset()
}

// handleLine consumes one line of input and reports whether the session
// should end.
func (s *replSession) handleLine(line string) bool {
	trimmed := strings.TrimSpace(line)
	if !s.pending() {
		if trimmed == "" {
			return false
		}
		if strings.HasPrefix(trimmed, ".") {
			return s.dotCommand(trimmed)
		}
	}

	if s.pending() {
		s.buffer.WriteByte('\n')
	}
	s.buffer.WriteString(line)

	source := s.buffer.String()
	if incomplete(source) {
		return false
	}
	s.reset()
	s.eval(source)
	return false
}

// incomplete reports whether source needs more lines: an open string or
// more opening than closing parentheses.
func incomplete(source string) bool {
	tokens, err := lexer.Tokenize(source)
	if err != nil {
		return errors.Is(err, lexer.ErrUnterminatedString)
	}
	return lexer.Depth(tokens) > 0
}

func (s *replSession) eval(source string) {
	v, err := s.in.Run(source)
	if err != nil {
		_, _ = fmt.Fprintf(s.r.ErrWriter(), "Error: %v\n", err)
		return
	}
	if _, isNone := v.(value.Null); !isNone {
		s.r.Println(s.in.Repr(v))
	}
}

func (s *replSession) dotCommand(line string) bool {
	parts := strings.Fields(line)
	switch strings.ToLower(parts[0]) {
	case ".quit", ".exit":
		return true
	case ".help":
		printREPLHelp(s.r.Writer())
	case ".env":
		s.printEnv()
	case ".symbols":
		s.printSymbols()
	case ".clear":
		_, _ = fmt.Fprint(s.r.Writer(), "\033[H\033[2J")
	default:
		_, _ = fmt.Fprintf(s.r.ErrWriter(), "Unknown command: %s (type .help for commands)\n", parts[0])
	}
	return false
}

func (s *replSession) printEnv() {
	var rows [][]string
	for _, name := range s.in.Globals() {
		v, _ := s.in.Lookup(name)
		if _, ok := v.(*value.Builtin); ok {
			continue
		}
		rows = append(rows, []string{name, v.Kind().String(), s.in.Repr(v)})
	}
	if len(rows) == 0 {
		s.r.Println("(no definitions)")
		return
	}
	s.r.Table([]string{"Name", "Kind", "Value"}, rows)
}

func (s *replSession) printSymbols() {
	spellings := s.in.Symbols().Spellings()
	rows := make([][]string, len(spellings))
	for i, sp := range spellings {
		rows[i] = []string{strconv.Itoa(i), sp}
	}
	s.r.Table([]string{"ID", "Symbol"}, rows)
}

// Do completes global names and dot commands for readline.
func (s *replSession) Do(line []rune, pos int) ([][]rune, int) {
	start := pos
	for start > 0 && !isDelimiter(line[start-1]) {
		start--
	}
	prefix := string(line[start:pos])
	if prefix == "" {
		return nil, 0
	}

	var candidates []string
	if start == 0 && strings.HasPrefix(prefix, ".") {
		candidates = dotCommands
	} else {
		candidates = append(s.in.Globals(), interp.FormIf, interp.FormLambda, interp.FormDefvar, interp.FormSetvar)
	}

	var out [][]rune
	for _, c := range candidates {
		if strings.HasPrefix(c, prefix) && c != prefix {
			out = append(out, []rune(c[len(prefix):]))
		}
	}
	return out, len([]rune(prefix))
}

func isDelimiter(r rune) bool {
	return r == '(' || r == ')' || r == ' ' || r == '\t' || r == '\n'
}

var dotCommands = []string{".help", ".env", ".symbols", ".clear", ".quit", ".exit"}

func printREPLHelp(w io.Writer) {
	help := `
Commands:
  .help           Show this help message
  .env            List names defined in the session
  .symbols        Show the symbol table
  .clear          Clear the screen
  .quit / .exit   Exit the REPL

Tips:
  - Each input is one list, e.g. (print (+ 1 2))
  - Input continues until parentheses balance
  - Tab completes defined names
`
	_, _ = fmt.Fprintln(w, help)
}
