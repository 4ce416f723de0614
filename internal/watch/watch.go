// Package watch re-runs a callback when watched files change.
package watch

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
)

// DefaultDebounce collapses bursts of editor writes into a single run.
const DefaultDebounce = 500 * time.Millisecond

// Option tunes a watch loop.
type Option func(*options)

type options struct {
	filter func(name string) bool
}

// WithFilter restricts the events that trigger a run to file names accepted
// by fn.
func WithFilter(fn func(name string) bool) Option {
	return func(o *options) {
		o.filter = fn
	}
}

// Watch blocks until ctx is done, calling fn after a debounced Write or
// Create event on any of paths. Directories are watched non-recursively. Errors
// returned by fn are logged and do not stop the loop.
func Watch(ctx context.Context, logger zerolog.Logger, paths []string, debounce time.Duration, fn func(context.Context) error, opts ...Option) error {
	if len(paths) == 0 {
		return errors.New("watch: no paths to watch")
	}
	if fn == nil {
		return errors.New("watch: callback is required")
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	cfg := options{}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("watch: create watcher: %w", err)
	}
	defer func() {
		_ = watcher.Close()
	}()

	for _, p := range paths {
		if err := watcher.Add(p); err != nil {
			return fmt.Errorf("watch: add %s: %w", p, err)
		}
	}
	logger.Info().Strs("paths", paths).Msg("watching for changes")

	timer := time.NewTimer(debounce)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info().Msg("watcher stopped")
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			if cfg.filter != nil && !cfg.filter(event.Name) {
				continue
			}
			logger.Debug().
				Str("path", event.Name).
				Str("op", event.Op.String()).
				Msg("file changed")
			timer.Reset(debounce)

		case <-timer.C:
			if err := fn(ctx); err != nil {
				logger.Error().Err(err).Msg("run after change failed")
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Error().Err(err).Msg("watcher error")
		}
	}
}
