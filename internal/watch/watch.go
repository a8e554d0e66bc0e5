// Package watch merges invoice records as they appear in a directory.
package watch

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// ErrNilHandler is returned by New when no handler is given.
var ErrNilHandler = errors.New("watch handler cannot be nil")

// Handler processes one settled record file.
type Handler func(ctx context.Context, path string)

// Watcher debounces create and write events on .json files in one
// directory and hands each settled file to a Handler, one at a time.
type Watcher struct {
	dir     string
	settle  time.Duration
	handle  Handler
	logger  *zap.Logger
	watcher *fsnotify.Watcher
}

// Option configures a Watcher.
type Option func(*Watcher)

// WithLogger sets the logger. The default discards everything.
func WithLogger(l *zap.Logger) Option {
	return func(w *Watcher) {
		if l != nil {
			w.logger = l
		}
	}
}

// New starts watching dir. A file is handed to handle once no event has
// touched it for settle. Events are recorded from the moment New returns.
func New(dir string, settle time.Duration, handle Handler, opts ...Option) (*Watcher, error) {
	if handle == nil {
		return nil, ErrNilHandler
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating watcher: %w", err)
	}
	if err := fw.Add(dir); err != nil {
		_ = fw.Close()
		return nil, fmt.Errorf("watching %s: %w", dir, err)
	}

	w := &Watcher{
		dir:     dir,
		settle:  settle,
		handle:  handle,
		logger:  zap.NewNop(),
		watcher: fw,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w, nil
}

// Run dispatches settled files until ctx is done, then closes the watcher.
// It returns nil on cancellation.
func (w *Watcher) Run(ctx context.Context) error {
	defer w.watcher.Close()

	pending := make(map[string]time.Time)
	timer := time.NewTimer(time.Hour)
	timer.Stop()
	defer timer.Stop()

	arm := func() {
		if len(pending) == 0 {
			return
		}
		next := time.Time{}
		for _, due := range pending {
			if next.IsZero() || due.Before(next) {
				next = due
			}
		}
		timer.Reset(max(0, time.Until(next)))
	}

	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			if !relevant(ev) {
				continue
			}
			w.logger.Debug("record event", zap.String("path", ev.Name), zap.String("op", ev.Op.String()))
			pending[ev.Name] = time.Now().Add(w.settle)
			arm()

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("watch error", zap.String("dir", w.dir), zap.Error(err))

		case now := <-timer.C:
			for _, path := range due(pending, now) {
				if ctx.Err() != nil {
					return nil
				}
				delete(pending, path)
				w.handle(ctx, path)
			}
			arm()
		}
	}
}

// due returns the pending paths whose settle time has passed, sorted.
func due(pending map[string]time.Time, now time.Time) []string {
	var paths []string
	for path, at := range pending {
		if !at.After(now) {
			paths = append(paths, path)
		}
	}
	slices.Sort(paths)
	return paths
}

// relevant reports whether ev creates or writes a visible .json file.
func relevant(ev fsnotify.Event) bool {
	if !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Write) {
		return false
	}
	base := filepath.Base(ev.Name)
	return filepath.Ext(base) == ".json" && !strings.HasPrefix(base, ".")
}
