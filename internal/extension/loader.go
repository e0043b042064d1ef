// Package extension loads Starlark files and exposes their exports as lispy
// builtins.
//
// Every *.star file in the extensions directory is one module. Its namespace
// is the file name without extension; exported names (those not starting
// with an underscore) are installed as "<namespace>.<name>".
package extension

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"go.starlark.net/starlark"
	"go.starlark.net/syntax"
)

// FileExt is the extension of loadable module files.
const FileExt = ".star"

// Loader scans a directory for Starlark modules.
type Loader struct {
	dir    string
	logger *slog.Logger
}

// NewLoader creates a loader for dir. A nil logger discards.
func NewLoader(dir string, logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Loader{dir: dir, logger: logger}
}

// Module is one executed .star file.
type Module struct {
	// Namespace is the file name without ".star", e.g. "strings".
	Namespace string

	// Path is the file the module was loaded from.
	Path string

	// Exports holds the module's public globals.
	Exports starlark.StringDict
}

// Names returns the export names in sorted order.
func (m *Module) Names() []string {
	names := make([]string, 0, len(m.Exports))
	for name := range m.Exports {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Load executes every module in the directory, in file name order.
// A missing directory yields no modules and no error.
func (l *Loader) Load() ([]*Module, error) {
	if l.dir == "" {
		return nil, nil
	}

	info, err := os.Stat(l.dir)
	if err != nil {
		if os.IsNotExist(err) {
			l.logger.Debug("no extensions directory", "dir", l.dir)
			return nil, nil
		}
		return nil, fmt.Errorf("failed to access extensions directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("extensions path is not a directory: %s", l.dir)
	}

	files, err := filepath.Glob(filepath.Join(l.dir, "*"+FileExt))
	if err != nil {
		return nil, fmt.Errorf("failed to scan extensions directory: %w", err)
	}
	sort.Strings(files)

	modules := make([]*Module, 0, len(files))
	for _, file := range files {
		module, err := l.LoadFile(file)
		if err != nil {
			return nil, err
		}
		modules = append(modules, module)
	}

	l.logger.Debug("loaded extensions", "dir", l.dir, "modules", len(modules))
	return modules, nil
}

// LoadFile executes a single module file.
func (l *Loader) LoadFile(path string) (*Module, error) {
	content, err := os.ReadFile(path) //nolint:gosec // G304: path comes from a glob inside the extensions directory
	if err != nil {
		return nil, &LoadError{File: path, Message: fmt.Sprintf("failed to read file: %v", err)}
	}

	namespace := strings.TrimSuffix(filepath.Base(path), FileExt)
	if err := validateNamespace(namespace); err != nil {
		return nil, &LoadError{File: path, Message: err.Error()}
	}

	thread := &starlark.Thread{
		Name: "load:" + namespace,
		Print: func(_ *starlark.Thread, msg string) {
			l.logger.Debug("extension print", "module", namespace, "msg", msg)
		},
	}

	globals, err := starlark.ExecFileOptions(&syntax.FileOptions{}, thread, path, content, nil)
	if err != nil {
		return nil, &LoadError{File: path, Message: fmt.Sprintf("starlark execution error: %v", err)}
	}

	exports := make(starlark.StringDict, len(globals))
	for name, v := range globals {
		if !strings.HasPrefix(name, "_") {
			exports[name] = v
		}
	}
	// Modules are shared by interpreters running concurrently.
	exports.Freeze()

	l.logger.Debug("loaded extension module", "module", namespace, "exports", len(exports))
	return &Module{Namespace: namespace, Path: path, Exports: exports}, nil
}

func validateNamespace(name string) error {
	if name == "" {
		return fmt.Errorf("namespace cannot be empty")
	}
	for i, r := range name {
		switch {
		case r == '_' || isLetter(r):
		case i > 0 && isDigit(r):
		case i == 0:
			return fmt.Errorf("namespace must start with letter or underscore: %s", name)
		default:
			return fmt.Errorf("namespace contains invalid character: %s", name)
		}
	}
	return nil
}

func isLetter(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}

// LoadError reports a module that could not be loaded.
type LoadError struct {
	File    string
	Message string
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("extensions/%s: %s", filepath.Base(e.File), e.Message)
}
