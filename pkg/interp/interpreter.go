// Package interp evaluates lispy syntax trees.
//
// An Interpreter owns everything a program can observe: the symbol
// interner, the stack of scope frames and the output writer used by print.
// Independent interpreters share nothing unless given the same interner.
package interp

import (
	"io"
	"log/slog"
	"os"

	"github.com/leapstack-labs/lispy/pkg/intern"
	"github.com/leapstack-labs/lispy/pkg/lexer"
	"github.com/leapstack-labs/lispy/pkg/parser"
	"github.com/leapstack-labs/lispy/pkg/value"
)

// DefaultMaxDepth bounds evaluation nesting unless overridden.
const DefaultMaxDepth = 10000

// Interpreter is a single-threaded evaluation context. It is not safe for
// concurrent use; run one interpreter per goroutine.
type Interpreter struct {
	symbols  *intern.Interner
	frames   []frame
	forms    map[intern.Symbol]specialForm
	out      io.Writer
	logger   *slog.Logger
	maxDepth int
	depth    int
}

// Option configures an Interpreter.
type Option func(*Interpreter)

// WithOutput sets the writer print writes to. Defaults to os.Stdout.
func WithOutput(w io.Writer) Option {
	return func(in *Interpreter) { in.out = w }
}

// WithLogger sets the structured logger (discard if nil).
func WithLogger(l *slog.Logger) Option {
	return func(in *Interpreter) { in.logger = l }
}

// WithMaxDepth sets the evaluation depth limit. Zero or less disables it.
func WithMaxDepth(n int) Option {
	return func(in *Interpreter) { in.maxDepth = n }
}

// WithInterner makes the interpreter intern symbols into symbols.
func WithInterner(symbols *intern.Interner) Option {
	return func(in *Interpreter) { in.symbols = symbols }
}

// New creates an interpreter with the builtin library installed in the
// global frame.
func New(opts ...Option) *Interpreter {
	in := &Interpreter{
		out:      os.Stdout,
		maxDepth: DefaultMaxDepth,
	}
	for _, opt := range opts {
		opt(in)
	}
	if in.symbols == nil {
		in.symbols = intern.New()
	}
	if in.logger == nil {
		in.logger = slog.New(slog.DiscardHandler)
	}

	in.frames = []frame{make(frame)}
	in.installBuiltins()
	in.installForms()

	in.logger.Debug("interpreter ready", "globals", len(in.frames[0]), "max_depth", in.maxDepth)
	return in
}

// Symbols returns the interpreter's interner.
func (in *Interpreter) Symbols() *intern.Interner {
	return in.symbols
}

// Output returns the writer print writes to.
func (in *Interpreter) Output() io.Writer {
	return in.out
}

// Parse tokenizes and parses source, interning symbols into this
// interpreter.
func (in *Interpreter) Parse(source string) (value.List, error) {
	tokens, err := lexer.Tokenize(source)
	if err != nil {
		return nil, err
	}
	tree, err := parser.Parse(tokens, in.symbols)
	if err != nil {
		return nil, err
	}
	in.logger.Debug("parsed program", "tokens", len(tokens), "symbols", in.symbols.Len())
	return tree, nil
}

// Run parses and evaluates source, returning the value of the top-level
// list.
func (in *Interpreter) Run(source string) (value.Value, error) {
	tree, err := in.Parse(source)
	if err != nil {
		return nil, err
	}
	return in.Eval(tree)
}

// Repr renders v in source form using this interpreter's symbols.
func (in *Interpreter) Repr(v value.Value) string {
	return value.Repr(v, in.symbols)
}
