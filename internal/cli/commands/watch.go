package commands

import (
	"context"
	"fmt"
	"log/slog"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/leapstack-labs/lispy/internal/engine"
)

// NewWatchCommand creates the watch command.
func NewWatchCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "watch [file]",
		Short: "Re-run a script whenever it changes",
		Long: `Run a script, then run it again every time the file is saved.

Language errors are reported and watching continues. Rapid successive
writes are coalesced by the watch.debounce setting. Stop with Ctrl+C.`,
		Args: cobra.MaximumNArgs(1),
		RunE: runWatch,
	}
}

func runWatch(cmd *cobra.Command, args []string) error {
	cc, cleanup, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	path := cc.Cfg.Entry
	if len(args) == 1 {
		path = args[0]
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("failed to resolve %s: %w", path, err)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	runOnce := func() {
		_, err := cc.Engine.RunFile(ctx, abs, cmd.OutOrStdout())
		switch {
		case err == nil:
		case engine.IsFatal(err):
			cc.Renderer.Fatal(err.Error())
		default:
			cc.Renderer.Warn(err.Error())
		}
	}

	cc.Renderer.Println(cc.Renderer.Styles().Muted.Render("Watching " + path + " (Ctrl+C to stop)"))
	return watchFile(ctx, abs, cc.Cfg.Watch.Debounce, cc.Logger, runOnce)
}

// watchFile calls run once, then again after each change to path settles
// for debounce. It returns when ctx is done.
//
// The parent directory is watched rather than the file so that editors
// which save by renaming a temp file over the original keep triggering.
func watchFile(ctx context.Context, path string, debounce time.Duration, logger *slog.Logger, run func()) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer func() { _ = watcher.Close() }()

	if err := watcher.Add(filepath.Dir(path)); err != nil {
		return fmt.Errorf("failed to watch %s: %w", filepath.Dir(path), err)
	}

	run()

	var timer *time.Timer
	fire := make(chan struct{}, 1)
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != path || event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			logger.Debug("change detected", "file", event.Name, "op", event.Op.String())
			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(debounce, func() {
				select {
				case fire <- struct{}{}:
				default:
				}
			})

		case <-fire:
			run()

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watcher error", "error", err)
		}
	}
}
