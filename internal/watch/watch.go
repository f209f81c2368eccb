// Package watch reports changes to a fixed set of files.
package watch

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"slices"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce groups bursts of editor writes into one change set.
const DefaultDebounce = 100 * time.Millisecond

// Watcher watches the parent directories of its files, which also catches
// editors that save by renaming a temporary file over the original.
type Watcher struct {
	fsw      *fsnotify.Watcher
	files    map[string]string // absolute path -> path as given
	debounce time.Duration
	logger   *slog.Logger
}

// New starts watching files. Call Run to receive changes.
func New(files []string, debounce time.Duration, logger *slog.Logger) (*Watcher, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}

	w := &Watcher{
		fsw:      fsw,
		files:    make(map[string]string, len(files)),
		debounce: debounce,
		logger:   logger,
	}

	dirs := make(map[string]bool)
	for _, f := range files {
		abs, err := filepath.Abs(f)
		if err != nil {
			_ = fsw.Close()
			return nil, fmt.Errorf("resolve %s: %w", f, err)
		}
		w.files[abs] = f
		dirs[filepath.Dir(abs)] = true
	}
	for dir := range dirs {
		if err := fsw.Add(dir); err != nil {
			_ = fsw.Close()
			return nil, fmt.Errorf("failed to watch %s: %w", dir, err)
		}
	}
	return w, nil
}

// Run delivers changed files, as they were given to New and in sorted
// order, until ctx is cancelled. onChange runs on the Run goroutine; events
// arriving meanwhile are batched for the next call.
func (w *Watcher) Run(ctx context.Context, onChange func(ctx context.Context, changed []string)) error {
	defer func() { _ = w.fsw.Close() }()

	pending := make(map[string]bool)
	timer := time.NewTimer(w.debounce)
	timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-w.fsw.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			name, tracked := w.files[filepath.Clean(event.Name)]
			if !tracked {
				continue
			}
			w.logger.Debug("file changed", "file", name, "op", event.Op.String())
			pending[name] = true
			timer.Reset(w.debounce)

		case <-timer.C:
			if len(pending) == 0 {
				continue
			}
			changed := make([]string, 0, len(pending))
			for f := range pending {
				changed = append(changed, f)
			}
			slices.Sort(changed)
			clear(pending)
			onChange(ctx, changed)

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return nil
			}
			w.logger.Error("watcher error", "error", err)
		}
	}
}
