// Package engine runs lispy scripts.
// It owns the extension modules and run history shared by every interpreter
// it creates; each script run gets a fresh interpreter.
package engine

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/leapstack-labs/lispy/internal/extension"
	"github.com/leapstack-labs/lispy/internal/state"
	"github.com/leapstack-labs/lispy/pkg/interp"
)

// ErrHistoryDisabled is returned by History when no state store is open.
var ErrHistoryDisabled = errors.New("run history is disabled")

// Engine creates interpreters and records their runs.
type Engine struct {
	logger   *slog.Logger
	maxDepth int
	jobs     int
	modules  []*extension.Module
	store    state.Store
}

// Config holds engine configuration.
type Config struct {
	// MaxDepth bounds evaluation depth; zero disables the guard.
	MaxDepth int
	// ExtensionsDir holds Starlark modules (optional).
	ExtensionsDir string
	// StatePath is the SQLite run history database.
	StatePath string
	// RecordHistory enables writing runs to StatePath.
	RecordHistory bool
	// Jobs limits concurrent scripts in RunFiles (1 when <= 0).
	Jobs int
	// Logger is the structured logger (optional, uses discard if nil).
	Logger *slog.Logger
	// Store overrides the store opened from StatePath.
	Store state.Store
}

// New loads extensions and opens the run history store.
func New(cfg Config) (*Engine, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	logger.Debug("initializing engine",
		"extensions_dir", cfg.ExtensionsDir,
		"state_path", cfg.StatePath,
		"history", cfg.RecordHistory,
	)

	modules, err := extension.NewLoader(cfg.ExtensionsDir, logger).Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load extensions: %w", err)
	}

	store := cfg.Store
	if store == nil && cfg.RecordHistory && cfg.StatePath != "" {
		if err := ensureParentDir(cfg.StatePath); err != nil {
			return nil, err
		}
		sqlite, err := state.Open(cfg.StatePath, logger)
		if err != nil {
			return nil, fmt.Errorf("failed to open state store: %w", err)
		}
		store = sqlite
	}

	jobs := cfg.Jobs
	if jobs <= 0 {
		jobs = 1
	}

	return &Engine{
		logger:   logger,
		maxDepth: cfg.MaxDepth,
		jobs:     jobs,
		modules:  modules,
		store:    store,
	}, nil
}

func ensureParentDir(path string) error {
	if path == state.MemoryPath {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return fmt.Errorf("failed to create state directory: %w", err)
	}
	return nil
}

// NewInterpreter returns an interpreter writing to out with extensions
// installed.
func (e *Engine) NewInterpreter(out io.Writer) (*interp.Interpreter, error) {
	in := interp.New(
		interp.WithOutput(out),
		interp.WithLogger(e.logger),
		interp.WithMaxDepth(e.maxDepth),
	)
	if err := extension.Install(in, e.modules, e.logger); err != nil {
		return nil, err
	}
	return in, nil
}

// Modules returns the loaded extension modules.
func (e *Engine) Modules() []*extension.Module {
	return e.modules
}

// History returns up to limit recent runs.
func (e *Engine) History(ctx context.Context, limit int) ([]*state.Run, error) {
	if e.store == nil {
		return nil, ErrHistoryDisabled
	}
	return e.store.ListRuns(ctx, limit)
}

// Close releases the state store.
func (e *Engine) Close() error {
	e.logger.Debug("closing engine")
	if e.store != nil {
		if err := e.store.Close(); err != nil {
			return fmt.Errorf("errors closing engine: %w", err)
		}
	}
	return nil
}
