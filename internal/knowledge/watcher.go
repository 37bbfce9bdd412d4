package knowledge

import (
	"context"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"sourcerer/internal/logging"
)

// Watcher watches a sources directory for changes to *.txt files and
// reloads the index so a running session picks up edits without a
// restart.
type Watcher struct {
	mu          sync.RWMutex
	watcher     *fsnotify.Watcher
	index       *Index
	dir         string
	debounceMap map[string]time.Time
	debounceDur time.Duration
	stopCh      chan struct{}
	doneCh      chan struct{}
	running     bool

	stats WatcherStats
}

// WatcherStats tracks watcher activity for debugging.
type WatcherStats struct {
	Reloads       int
	Errors        int
	LastEventTime time.Time
	LastEventPath string
}

// NewWatcher creates a Watcher that reloads index from dir on change.
func NewWatcher(dir string, index *Index) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	return &Watcher{
		watcher:     fsw,
		index:       index,
		dir:         dir,
		debounceMap: make(map[string]time.Time),
		debounceDur: 500 * time.Millisecond, // Debounce rapid saves
		stopCh:      make(chan struct{}),
		doneCh:      make(chan struct{}),
	}, nil
}

// Start begins watching the sources directory. Non-blocking; the
// event loop runs in a goroutine until Stop or ctx cancellation.
func (w *Watcher) Start(ctx context.Context) error {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return nil // Already running
	}
	w.running = true
	w.mu.Unlock()

	if err := w.watcher.Add(w.dir); err != nil {
		// Directory may not exist yet; the session still works from the
		// initial load.
		logging.Get(logging.CategoryKnowledge).Warn("Watcher: initial watch of %s failed: %v", w.dir, err)
	} else {
		logging.Knowledge("Watcher: watching directory: %s", w.dir)
	}

	go w.run(ctx)
	return nil
}

// Stop stops the watcher and waits for the event loop to exit.
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
		logging.Get(logging.CategoryKnowledge).Error("Watcher: error closing: %v", err)
	}
	logging.Knowledge("Watcher: stopped")
}

// Stats returns a snapshot of watcher activity.
func (w *Watcher) Stats() WatcherStats {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.stats
}

// run is the watcher event loop.
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
			w.handleEvent(ctx, event)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.mu.Lock()
			w.stats.Errors++
			w.mu.Unlock()
			logging.Get(logging.CategoryKnowledge).Warn("Watcher: fsnotify error: %v", err)
		}
	}
}

// handleEvent reloads the index for relevant, debounced events.
func (w *Watcher) handleEvent(ctx context.Context, event fsnotify.Event) {
	if filepath.Ext(event.Name) != ".txt" {
		return
	}
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
		return
	}

	w.mu.Lock()
	now := time.Now()
	if last, ok := w.debounceMap[event.Name]; ok && now.Sub(last) < w.debounceDur {
		w.mu.Unlock()
		return
	}
	w.debounceMap[event.Name] = now
	w.stats.LastEventTime = now
	w.stats.LastEventPath = event.Name
	w.mu.Unlock()

	logging.Knowledge("Watcher: %s changed, reloading knowledge base", event.Name)

	records, err := LoadDir(ctx, w.dir)
	if err != nil {
		w.mu.Lock()
		w.stats.Errors++
		w.mu.Unlock()
		logging.Get(logging.CategoryKnowledge).Error("Watcher: reload failed: %v", err)
		return
	}

	w.index.Load(records)
	w.mu.Lock()
	w.stats.Reloads++
	w.mu.Unlock()
}
