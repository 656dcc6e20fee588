package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/lex00/wetwire-mkdocs-go/internal/log"
)

type watchOptions struct {
	synth    synthOptions
	debounce time.Duration
}

// newWatchCmd creates the "watch" subcommand for re-synthesizing on env file changes.
func newWatchCmd() *cobra.Command {
	var opts watchOptions

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Re-synthesize when the env file changes",
		Long: `Watch synthesizes the stack, then again every time the env file changes.

The watch command:
- Monitors the directory of the env file, so editors that replace files are seen
- Debounces rapid changes to avoid excessive rebuilds
- Keeps running after a failed synthesis

Examples:
    wetwire-mkdocs watch -o template.json
    wetwire-mkdocs watch --env-file deploy/.env --debounce 1s`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWatch(cmd.Context(), cmd.OutOrStdout(), opts)
		},
	}

	addSynthFlags(cmd, &opts.synth)
	cmd.Flags().DurationVar(&opts.debounce, "debounce", 500*time.Millisecond, "Debounce duration for rapid changes")

	return cmd
}

// runWatch synthesizes once, then on every debounced change of the env
// file, until ctx is done or a signal arrives.
func runWatch(ctx context.Context, out io.Writer, opts watchOptions) error {
	logger := log.FromContext(ctx)

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	envPath, err := filepath.Abs(opts.synth.stack.envFile)
	if err != nil {
		return fmt.Errorf("failed to resolve %s: %w", opts.synth.stack.envFile, err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer func() {
		_ = watcher.Close()
	}()

	dir := filepath.Dir(envPath)
	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("failed to watch %s: %w", dir, err)
	}
	logger.Info(ctx, "watching", "env_file", envPath)

	resynth := func() {
		if err := runSynth(ctx, out, opts.synth); err != nil {
			logger.Error(ctx, err, "synth failed")
			return
		}
		logger.Info(ctx, "synth complete", "stack", opts.synth.stack.name)
	}
	resynth()

	var debounceTimer *time.Timer
	rebuildChan := make(chan struct{}, 1)

	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !isEnvChange(event, envPath) {
				continue
			}

			// Debounce: reset timer on each change
			if debounceTimer != nil {
				debounceTimer.Stop()
			}
			debounceTimer = time.AfterFunc(opts.debounce, func() {
				select {
				case rebuildChan <- struct{}{}:
				default:
				}
			})

		case <-rebuildChan:
			logger.Info(ctx, "change detected, re-synthesizing")
			resynth()

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Error(ctx, err, "watch error")

		case <-ctx.Done():
			if debounceTimer != nil {
				debounceTimer.Stop()
			}
			logger.Info(ctx, "stopping watch")
			return nil
		}
	}
}

// isEnvChange reports whether event writes, creates, renames or
// removes the env file.
func isEnvChange(event fsnotify.Event, envPath string) bool {
	if filepath.Clean(event.Name) != envPath {
		return false
	}
	return event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename|fsnotify.Remove) != 0
}
