package dataset

import (
	"log"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Watcher invalidates the store as soon as either input file changes, instead
// of waiting for the next request's mtime check. It watches the parent
// directories because editors and upload jobs typically replace files via
// rename.
type Watcher struct {
	watcher     *fsnotify.Watcher
	store       *Store
	targets     map[string]bool
	debounceDur time.Duration
	stopCh      chan struct{}
	doneCh      chan struct{}
}

// NewWatcher creates a watcher over the store's two input files.
func NewWatcher(store *Store) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	measures, boundaries := store.Paths()
	w := &Watcher{
		watcher: fsw,
		store:   store,
		targets: map[string]bool{
			filepath.Clean(measures):   true,
			filepath.Clean(boundaries): true,
		},
		debounceDur: 500 * time.Millisecond, // coalesce rapid rewrites
		stopCh:      make(chan struct{}),
		doneCh:      make(chan struct{}),
	}

	dirs := map[string]bool{
		filepath.Dir(measures):   true,
		filepath.Dir(boundaries): true,
	}
	for dir := range dirs {
		if err := fsw.Add(dir); err != nil {
			fsw.Close()
			return nil, err
		}
	}

	return w, nil
}

// Start begins watching in a goroutine; non-blocking.
func (w *Watcher) Start() {
	go w.loop()
}

// Stop terminates the watcher and waits for the loop to exit.
func (w *Watcher) Stop() {
	close(w.stopCh)
	<-w.doneCh
	w.watcher.Close()
}

func (w *Watcher) loop() {
	defer close(w.doneCh)

	lastEvent := make(map[string]time.Time)
	for {
		select {
		case <-w.stopCh:
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			path := filepath.Clean(event.Name)
			if !w.targets[path] {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			now := time.Now()
			if now.Sub(lastEvent[path]) < w.debounceDur {
				continue
			}
			lastEvent[path] = now

			log.Printf("Input file changed, invalidating dataset cache: %s", path)
			w.store.Invalidate()
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			log.Printf("Dataset watcher error: %v", err)
		}
	}
}
