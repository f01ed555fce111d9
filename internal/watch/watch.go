// Package watch implements the change watcher: an fsnotify-backed
// filesystem watch over a project root that debounces bursty events per
// path and triggers an incremental re-index or clear through
// internal/driver.
package watch

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/vibegraph/vibegraph/internal/discover"
	"github.com/vibegraph/vibegraph/internal/driver"
)

// debounceWindow is the per-path coalescing window: a burst of events for
// the same path (editors often save in several syscalls) collapses into
// one re-index fired this long after the last event.
const debounceWindow = 250 * time.Millisecond

// queueCapacity bounds the number of paths waiting for the driver. A full
// queue drops the newest path with a warning; a path already queued is
// coalesced (its action replaced) rather than queued twice.
const queueCapacity = 256

// Watcher watches a project root for filesystem changes and triggers
// incremental re-indexing through a Driver.
type Watcher struct {
	driver  *driver.Driver
	ignores []string
	jobs    chan string

	mu      sync.Mutex
	timers  map[string]*time.Timer
	pending map[string]func() // queued paths -> latest action
}

// New returns a Watcher that drives re-indexing through d, filtering events
// through the same ignore rules the driver's discovery applies.
func New(d *driver.Driver) *Watcher {
	ignoreFile := d.IgnoreFile
	if ignoreFile == "" {
		ignoreFile = filepath.Join(d.Root, discover.DefaultIgnoreFile)
	}
	return &Watcher{
		driver:  d,
		ignores: discover.LoadIgnorePatterns(ignoreFile),
		jobs:    make(chan string, queueCapacity),
		timers:  make(map[string]*time.Timer),
		pending: make(map[string]func()),
	}
}

// Run blocks until ctx is cancelled, watching the project root and every
// subdirectory discovered under it, adding newly created directories to
// the watch set as they appear.
func (w *Watcher) Run(ctx context.Context) error {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer fsw.Close()

	if err := w.addDirs(fsw, w.driver.Root); err != nil {
		return fmt.Errorf("watch root: %w", err)
	}
	slog.Info("watch.start", "root", w.driver.Root)

	// All queued actions run on this one goroutine, so two re-indexes
	// never overlap and store writes stay serialized behind the driver.
	go w.drain(ctx)

	for {
		select {
		case <-ctx.Done():
			w.cancelPending()
			return nil
		case event, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			w.handleEvent(ctx, fsw, event)
		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			slog.Warn("watch.error", "err", err)
		}
	}
}

// addDirs registers root and every non-ignored subdirectory beneath it
// with fsw. fsnotify watches are not recursive, so every directory must be
// added individually.
func (w *Watcher) addDirs(fsw *fsnotify.Watcher, root string) error {
	return filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return nil
		}
		if !info.IsDir() {
			return nil
		}
		if path != root && discover.IgnorePatterns[info.Name()] {
			return filepath.SkipDir
		}
		return fsw.Add(path)
	})
}

func (w *Watcher) handleEvent(ctx context.Context, fsw *fsnotify.Watcher, event fsnotify.Event) {
	if event.Op&(fsnotify.Create) != 0 {
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			if err := w.addDirs(fsw, event.Name); err != nil {
				slog.Warn("watch.add_dir", "path", event.Name, "err", err)
			}
			return
		}
	}

	if rel, err := filepath.Rel(w.driver.Root, event.Name); err == nil {
		if discover.IgnoredPath(filepath.ToSlash(rel), w.ignores) {
			return
		}
	}

	switch {
	case event.Op&(fsnotify.Remove|fsnotify.Rename) != 0:
		w.debounce(event.Name, func() {
			if err := w.driver.ClearPath(event.Name); err != nil {
				slog.Warn("watch.clear", "path", event.Name, "err", err)
			}
		})
	case event.Op&(fsnotify.Create|fsnotify.Write) != 0:
		w.debounce(event.Name, func() {
			if err := w.driver.ReindexPath(ctx, event.Name); err != nil {
				slog.Warn("watch.reindex", "path", event.Name, "err", err)
			}
		})
	}
}

// debounce coalesces repeated events for path into one queued action fired
// debounceWindow after the last event. At most one timer is pending per
// path, and firing hands the action to the bounded queue rather than
// running it inline.
func (w *Watcher) debounce(path string, action func()) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if t, ok := w.timers[path]; ok {
		t.Stop()
	}
	w.timers[path] = time.AfterFunc(debounceWindow, func() {
		w.enqueue(path, action)
	})
}

// enqueue hands a path's action to the driver goroutine. A path already
// waiting in the queue has its action replaced (latest event wins) instead
// of being queued a second time.
func (w *Watcher) enqueue(path string, action func()) {
	w.mu.Lock()
	delete(w.timers, path)
	_, queued := w.pending[path]
	w.pending[path] = action
	w.mu.Unlock()
	if queued {
		return
	}
	select {
	case w.jobs <- path:
	default:
		w.mu.Lock()
		delete(w.pending, path)
		w.mu.Unlock()
		slog.Warn("watch.queue_full", "path", path)
	}
}

// takeAction pops the queued action for path, if any.
func (w *Watcher) takeAction(path string) func() {
	w.mu.Lock()
	defer w.mu.Unlock()
	action := w.pending[path]
	delete(w.pending, path)
	return action
}

func (w *Watcher) drain(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case path := <-w.jobs:
			if action := w.takeAction(path); action != nil {
				action()
			}
		}
	}
}

func (w *Watcher) cancelPending() {
	w.mu.Lock()
	defer w.mu.Unlock()
	for _, t := range w.timers {
		t.Stop()
	}
	w.timers = make(map[string]*time.Timer)
}
