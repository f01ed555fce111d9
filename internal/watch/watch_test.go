package watch

import (
	"context"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/vibegraph/vibegraph/internal/driver"
	"github.com/vibegraph/vibegraph/internal/store"
)

func newTestWatcher(t *testing.T) (*Watcher, *driver.Driver, string) {
	t.Helper()
	root := t.TempDir()
	s, err := store.OpenMemory()
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	d := driver.New(s, root)
	return New(d), d, root
}

func runNext(t *testing.T, w *Watcher) {
	t.Helper()
	select {
	case path := <-w.jobs:
		if action := w.takeAction(path); action != nil {
			action()
		}
	case <-time.After(2 * time.Second):
		t.Fatal("expected a queued job after the debounce window")
	}
}

func TestDebounceCoalescesBurstsPerPath(t *testing.T) {
	w, _, _ := newTestWatcher(t)

	var fired atomic.Int32

	// A burst of events for one path collapses to one queued action.
	w.debounce("a.py", func() { fired.Add(1) })
	w.debounce("a.py", func() { fired.Add(1) })
	w.debounce("a.py", func() { fired.Add(1) })

	runNext(t, w)
	if got := fired.Load(); got != 1 {
		t.Fatalf("expected one coalesced firing, got %d", got)
	}

	select {
	case <-w.jobs:
		t.Fatal("expected no second job for a coalesced burst")
	case <-time.After(2 * debounceWindow):
	}

	w.mu.Lock()
	pending := len(w.timers)
	w.mu.Unlock()
	if pending != 0 {
		t.Fatalf("expected no pending timers after firing, got %d", pending)
	}
}

func TestDebounceKeepsPathsIndependent(t *testing.T) {
	w, _, _ := newTestWatcher(t)

	var fired atomic.Int32
	for _, path := range []string{"a.py", "b.py"} {
		w.debounce(path, func() {
			fired.Add(1)
		})
	}
	runNext(t, w)
	runNext(t, w)
	if got := fired.Load(); got != 2 {
		t.Fatalf("expected one firing per path, got %d", got)
	}
}

func TestEnqueueReplacesPendingAction(t *testing.T) {
	w, _, _ := newTestWatcher(t)

	var first, second atomic.Int32
	w.enqueue("a.py", func() { first.Add(1) })
	w.enqueue("a.py", func() { second.Add(1) })

	runNext(t, w)
	if first.Load() != 0 || second.Load() != 1 {
		t.Fatalf("expected the latest action to win, got first=%d second=%d", first.Load(), second.Load())
	}
	select {
	case <-w.jobs:
		t.Fatal("expected a queued path to be coalesced, not queued twice")
	default:
	}
}

func TestHandleEventSkipsIgnoredPaths(t *testing.T) {
	w, d, root := newTestWatcher(t)

	if err := os.MkdirAll(filepath.Join(root, "dist"), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	ignored := filepath.Join(root, "dist", "bundle.py")
	if err := os.WriteFile(ignored, []byte("def x():\n    pass\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	w.handleEvent(context.Background(), nil, fsnotify.Event{Name: ignored, Op: fsnotify.Write})

	w.mu.Lock()
	pending := len(w.timers)
	w.mu.Unlock()
	if pending != 0 {
		t.Fatalf("expected no re-index scheduled for an ignored path, got %d pending", pending)
	}
	_ = d
}

func TestWatcherReindexesOnWrite(t *testing.T) {
	w, d, root := newTestWatcher(t)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	// Give the watch registration a moment before producing events.
	time.Sleep(200 * time.Millisecond)

	path := filepath.Join(root, "solo.py")
	if err := os.WriteFile(path, []byte("def solo():\n    return 1\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		if n, _ := d.Store.FindNodeByQN("solo.solo"); n != nil {
			cancel()
			<-done
			return
		}
		time.Sleep(50 * time.Millisecond)
	}
	t.Fatal("expected solo.solo to be indexed after a write event")
}

func TestWatcherClearsOnDelete(t *testing.T) {
	w, d, root := newTestWatcher(t)

	path := filepath.Join(root, "gone.py")
	if err := os.WriteFile(path, []byte("def gone():\n    return 1\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := d.ReindexAll(context.Background()); err != nil {
		t.Fatalf("reindex: %v", err)
	}
	if n, _ := d.Store.FindNodeByQN("gone.gone"); n == nil {
		t.Fatal("expected gone.gone before deletion")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()
	time.Sleep(200 * time.Millisecond)

	if err := os.Remove(path); err != nil {
		t.Fatalf("remove: %v", err)
	}

	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		if n, _ := d.Store.FindNodeByQN("gone.gone"); n == nil {
			cancel()
			<-done
			return
		}
		time.Sleep(50 * time.Millisecond)
	}
	t.Fatal("expected gone.gone to be cleared after a delete event")
}
