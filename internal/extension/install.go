package extension

import (
	"fmt"
	"log/slog"

	"go.starlark.net/starlark"

	"github.com/leapstack-labs/lispy/pkg/interp"
)

// Category is the builtin category of extension callables.
const Category = "extension"

// Install binds every export of modules into the interpreter's global
// frame. Callables become builtins; other values are converted once.
// Starlark print output goes to the interpreter's output.
func Install(in *interp.Interpreter, modules []*Module, logger *slog.Logger) error {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	c := &converter{
		in: in,
		thread: &starlark.Thread{
			Name: "lispy",
			Print: func(_ *starlark.Thread, msg string) {
				_, _ = fmt.Fprintln(in.Output(), msg)
			},
		},
	}

	for _, m := range modules {
		for _, name := range m.Names() {
			qualified := m.Namespace + "." + name
			export := m.Exports[name]

			if fn, ok := export.(starlark.Callable); ok {
				in.DefineBuiltin(c.builtin(qualified, Category, fn))
				continue
			}

			v, err := c.FromStarlark(export)
			if err != nil {
				return &LoadError{File: m.Path, Message: fmt.Sprintf("export %s: %v", name, err)}
			}
			in.Define(qualified, v)
		}
		logger.Debug("installed extension module", "module", m.Namespace, "exports", len(m.Exports))
	}
	return nil
}

// LoadInto loads dir and installs its modules into in.
func LoadInto(in *interp.Interpreter, dir string, logger *slog.Logger) ([]*Module, error) {
	modules, err := NewLoader(dir, logger).Load()
	if err != nil {
		return nil, err
	}
	if err := Install(in, modules, logger); err != nil {
		return nil, err
	}
	return modules, nil
}
