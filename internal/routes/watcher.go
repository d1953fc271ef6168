// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package routes

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/ngsim/botindex/internal/log"
	"github.com/rs/zerolog"
)

// DefaultDebounce collapses bursts of editor writes into one reload.
const DefaultDebounce = 500 * time.Millisecond

// ReloadFunc is invoked after the routing file settled on a change.
type ReloadFunc func(ctx context.Context) error

// Watcher calls a ReloadFunc whenever the routing file changes.
type Watcher struct {
	path     string
	debounce time.Duration
	onChange ReloadFunc
	logger   zerolog.Logger

	mu    sync.Mutex
	timer *time.Timer
	wg    sync.WaitGroup
}

// NewWatcher creates a watcher for path. A zero debounce uses DefaultDebounce.
func NewWatcher(path string, debounce time.Duration, onChange ReloadFunc) *Watcher {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	return &Watcher{
		path:     path,
		debounce: debounce,
		onChange: onChange,
		logger:   log.WithComponent("routes"),
	}
}

// Run watches until ctx is cancelled. The parent directory is watched so
// that editors replacing the file via rename keep triggering reloads.
func (w *Watcher) Run(ctx context.Context) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer func() {
		_ = fw.Close()
		w.stopTimer()
		w.wg.Wait()
	}()

	abs, err := filepath.Abs(w.path)
	if err != nil {
		return fmt.Errorf("resolve routing config path: %w", err)
	}
	if err := fw.Add(filepath.Dir(abs)); err != nil {
		return fmt.Errorf("watch routing config dir: %w", err)
	}

	w.logger.Info().
		Str(log.FieldEvent, "routes.watcher_started").
		Str(log.FieldRoutesPath, abs).
		Msg("watching routing config for changes")

	for {
		select {
		case <-ctx.Done():
			w.logger.Info().Str(log.FieldEvent, "routes.watcher_stopped").Msg("routing config watcher stopped")
			return nil

		case event, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != abs {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			w.logger.Debug().
				Str(log.FieldEvent, "routes.file_changed").
				Str("op", event.Op.String()).
				Msg("routing config changed")
			w.schedule(ctx)

		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			w.logger.Error().
				Err(err).
				Str(log.FieldEvent, "routes.watcher_error").
				Msg("routing config watcher error")
		}
	}
}

// schedule (re)arms the debounce timer.
func (w *Watcher) schedule(ctx context.Context) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.timer != nil && w.timer.Stop() {
		w.wg.Done()
	}
	w.wg.Add(1)
	w.timer = time.AfterFunc(w.debounce, func() {
		defer w.wg.Done()
		if ctx.Err() != nil {
			return
		}
		if err := w.onChange(ctx); err != nil {
			w.logger.Error().
				Err(err).
				Str(log.FieldEvent, "routes.reload_failed").
				Msg("automatic rebuild failed")
		}
	})
}

func (w *Watcher) stopTimer() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.timer != nil && w.timer.Stop() {
		w.wg.Done()
	}
	w.timer = nil
}
