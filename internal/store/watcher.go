package store

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"time"

	"promptfan/internal/logging"

	"github.com/fsnotify/fsnotify"
)

// Watcher notifies a callback when the state file changes on disk, so a
// long-running serve process picks up edits made by another promptfan
// invocation (the stand-in for the extension's storage change listener).
type Watcher struct {
	mu       sync.Mutex
	watcher  *fsnotify.Watcher
	store    *Store
	onChange func(State)
	lastFire time.Time
	debounce time.Duration
	stopCh   chan struct{}
	doneCh   chan struct{}
	running  bool
}

// NewWatcher creates a watcher for the store's state file.
func NewWatcher(s *Store, onChange func(State)) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	return &Watcher{
		watcher:  fw,
		store:    s,
		onChange: onChange,
		debounce: 250 * time.Millisecond, // editors fire bursts of writes
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}, nil
}

// Start begins watching. Non-blocking; events are handled in a goroutine.
func (w *Watcher) Start(ctx context.Context) error {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return nil
	}
	w.running = true
	w.mu.Unlock()

	// Watch the directory, not the file: saves that replace the file would
	// otherwise drop the watch.
	dir := filepath.Dir(w.store.Path())
	if err := os.MkdirAll(dir, 0755); err != nil {
		logging.Get(logging.CategoryStore).Warn("watcher: failed to create state dir %s: %v", dir, err)
	}
	if err := w.watcher.Add(dir); err != nil {
		logging.Get(logging.CategoryStore).Warn("watcher: initial watch failed: %v", err)
	} else {
		logging.Store("watcher: watching %s", dir)
	}

	go w.run(ctx)
	return nil
}

// Stop stops the watcher and waits for cleanup.
func (w *Watcher) Stop() {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return
	}
	w.running = false
	w.mu.Unlock()

	close(w.stopCh)
	<-w.doneCh

	if err := w.watcher.Close(); err != nil {
		logging.Get(logging.CategoryStore).Error("watcher: close error: %v", err)
	}
}

func (w *Watcher) run(ctx context.Context) {
	defer close(w.doneCh)

	for {
		select {
		case <-ctx.Done():
			return
		case <-w.stopCh:
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			w.handleEvent(event)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			logging.Get(logging.CategoryStore).Error("watcher error: %v", err)
		}
	}
}

func (w *Watcher) handleEvent(event fsnotify.Event) {
	if filepath.Base(event.Name) != stateFileName {
		return
	}
	if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
		return
	}

	w.mu.Lock()
	if time.Since(w.lastFire) < w.debounce {
		w.mu.Unlock()
		return
	}
	w.lastFire = time.Now()
	w.mu.Unlock()

	state, err := w.store.Load()
	if err != nil {
		logging.Get(logging.CategoryStore).Warn("watcher: reload after change failed: %v", err)
		return
	}
	logging.Store("watcher: state file changed, reloaded")
	if w.onChange != nil {
		w.onChange(state)
	}
}
