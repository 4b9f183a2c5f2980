package source

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is how long a burst of writes is coalesced into one change
const DefaultDebounce = 200 * time.Millisecond

// Watcher reports changes to a single file. The parent directory is watched
// so editors that replace the file on save are still noticed.
type Watcher struct {
	path     string
	watcher  *fsnotify.Watcher
	changes  chan struct{}
	debounce time.Duration

	ctx    context.Context
	cancel context.CancelFunc
}

// NewWatcher creates a watcher for path
func NewWatcher(path string, debounce time.Duration) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve %s: %w", path, err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create fsnotify watcher: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &Watcher{
		path:     abs,
		watcher:  watcher,
		changes:  make(chan struct{}, 1),
		debounce: debounce,
		ctx:      ctx,
		cancel:   cancel,
	}, nil
}

// Start begins watching
func (w *Watcher) Start() error {
	if err := w.watcher.Add(filepath.Dir(w.path)); err != nil {
		return fmt.Errorf("watch %s: %w", w.path, err)
	}
	go w.watchLoop()
	return nil
}

// Changes delivers one signal per debounced burst of changes
func (w *Watcher) Changes() <-chan struct{} {
	return w.changes
}

// Stop shuts the watcher down
func (w *Watcher) Stop() {
	w.cancel()
	w.watcher.Close()
}

func (w *Watcher) watchLoop() {
	var (
		timer  *time.Timer
		timerC <-chan time.Time
	)
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-w.ctx.Done():
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != w.path {
				continue
			}
			// Only react to content changes (not chmod)
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				timer.Reset(w.debounce)
			}
			timerC = timer.C

		case <-timerC:
			timerC = nil
			select {
			case w.changes <- struct{}{}:
			default:
				// a change is already pending
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			log.WithError(err).Warn("file watcher error")
		}
	}
}
