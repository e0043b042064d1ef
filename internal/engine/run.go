package engine

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/leapstack-labs/lispy/internal/state"
	"github.com/leapstack-labs/lispy/pkg/value"
)

// RunFile reads and runs the script at path.
func (e *Engine) RunFile(ctx context.Context, path string, out io.Writer) (value.Value, error) {
	source, err := os.ReadFile(path) //nolint:gosec // G304: scripts are user-specified
	if err != nil {
		return nil, fmt.Errorf("failed to read script: %w", err)
	}
	return e.RunSource(ctx, path, source, out)
}

// RunSource runs source in a fresh interpreter. Language errors come back
// as *FatalError; the run is recorded when history is enabled.
func (e *Engine) RunSource(ctx context.Context, name string, source []byte, out io.Writer) (value.Value, error) {
	in, err := e.NewInterpreter(out)
	if err != nil {
		return nil, err
	}

	run := e.startRun(ctx, name, source)
	start := time.Now()

	result, runErr := in.Run(string(source))

	e.logger.Debug("script finished", "script", name, "duration", time.Since(start), "ok", runErr == nil)
	e.finishRun(ctx, run, runErr)

	if runErr != nil {
		return nil, &FatalError{Script: name, Err: runErr}
	}
	return result, nil
}

// startRun records a running script. History failures are logged, never
// fatal to the script.
func (e *Engine) startRun(ctx context.Context, name string, source []byte) *state.Run {
	if e.store == nil {
		return nil
	}
	run, err := e.store.CreateRun(ctx, name, source)
	if err != nil {
		e.logger.Warn("failed to record run", "script", name, "error", err)
		return nil
	}
	return run
}

func (e *Engine) finishRun(ctx context.Context, run *state.Run, runErr error) {
	if run == nil {
		return
	}
	status, msg := state.RunStatusCompleted, ""
	if runErr != nil {
		status, msg = state.RunStatusFailed, runErr.Error()
	}
	if err := e.store.CompleteRun(ctx, run.ID, status, msg); err != nil {
		e.logger.Warn("failed to complete run", "id", run.ID, "error", err)
	}
}

// RunFiles runs every path, at most Jobs at a time, each with its own
// interpreter and output buffer. Buffers are written to out in argument
// order. On failure the output up to and including the first failing
// script (in argument order) is written and its error returned; later
// scripts still run but their output is dropped.
func (e *Engine) RunFiles(ctx context.Context, paths []string, out io.Writer) error {
	buffers := make([]bytes.Buffer, len(paths))
	errs := make([]error, len(paths))

	var g errgroup.Group
	g.SetLimit(e.jobs)
	for i, path := range paths {
		g.Go(func() error {
			_, errs[i] = e.RunFile(ctx, path, &buffers[i])
			return nil
		})
	}
	_ = g.Wait()

	for i := range paths {
		if _, err := buffers[i].WriteTo(out); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
		if errs[i] != nil {
			return errs[i]
		}
	}
	return nil
}
