package storage

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is how long the watcher waits for writes to settle.
const DefaultDebounce = 200 * time.Millisecond

// DataFiles returns the file names under the storage directory that hold
// key for the given backend.
func DataFiles(backend Backend, key string) []string {
	switch backend {
	case BackendSQLite:
		return []string{sqliteFile, sqliteFile + "-wal"}
	default:
		return []string{key + valueSuffix}
	}
}

// Watcher reports changes to the store's files made by any process, e.g.
// an MCP server toggling tasks while the plan browser is open.
type Watcher struct {
	watcher *fsnotify.Watcher
	names   map[string]struct{}
	changes chan struct{}

	mu      sync.Mutex
	timer   *time.Timer
	delay   time.Duration
	stopped bool

	done chan struct{}
	wg   sync.WaitGroup
}

// NewWatcher watches dir for writes to the named files. Bursts of events
// are collapsed into one notification after delay.
func NewWatcher(dir string, delay time.Duration, names ...string) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create fsnotify watcher: %w", err)
	}
	if err := fw.Add(dir); err != nil {
		_ = fw.Close()
		return nil, fmt.Errorf("watch %s: %w", dir, err)
	}
	if delay <= 0 {
		delay = DefaultDebounce
	}

	w := &Watcher{
		watcher: fw,
		names:   make(map[string]struct{}, len(names)),
		changes: make(chan struct{}, 1),
		delay:   delay,
		done:    make(chan struct{}),
	}
	for _, n := range names {
		w.names[n] = struct{}{}
	}

	w.wg.Add(1)
	go w.eventLoop()
	return w, nil
}

// Changes delivers one value per settled burst of changes. It is closed by Close.
func (w *Watcher) Changes() <-chan struct{} {
	return w.changes
}

func (w *Watcher) eventLoop() {
	defer w.wg.Done()
	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if _, tracked := w.names[filepath.Base(event.Name)]; !tracked {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			w.schedule()

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			slog.Debug("storage watch error", "error", err)

		case <-w.done:
			return
		}
	}
}

func (w *Watcher) schedule() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.stopped {
		return
	}
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.delay, w.flush)
}

func (w *Watcher) flush() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.stopped {
		return
	}
	// A pending notification already covers this change.
	select {
	case w.changes <- struct{}{}:
	default:
	}
}

// Close stops watching and closes the Changes channel.
func (w *Watcher) Close() error {
	w.mu.Lock()
	if w.stopped {
		w.mu.Unlock()
		return nil
	}
	w.stopped = true
	if w.timer != nil {
		w.timer.Stop()
	}
	w.mu.Unlock()

	close(w.done)
	err := w.watcher.Close()
	w.wg.Wait()
	close(w.changes)
	return err
}
