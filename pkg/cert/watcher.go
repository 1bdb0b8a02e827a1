package cert

import (
	"fmt"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/golang/glog"
)

// Watcher monitors credential and trust-material files so callers can rebuild
// their clients when material rotates on disk. The configuration core never
// starts a watcher on its own; this is an opt-in helper.
type Watcher struct {
	paths    map[string]bool
	watcher  *fsnotify.Watcher
	stopChan chan struct{}

	mu      sync.Mutex
	running bool
}

// NewWatcher creates a watcher for the given material files. Parent
// directories are watched so atomic rename-style rotations are seen.
func NewWatcher(paths ...string) (*Watcher, error) {
	if len(paths) == 0 {
		return nil, fmt.Errorf("no files to watch")
	}

	tracked := make(map[string]bool, len(paths))
	for _, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			return nil, fmt.Errorf("cannot resolve watch path %s: %w", p, err)
		}
		tracked[abs] = true
	}

	return &Watcher{paths: tracked}, nil
}

// Start begins monitoring and invokes onChange with the path of each material
// file that is written or replaced. Removal or rename of a watched file is
// logged but does not trigger onChange; the replacement write does. A stopped
// watcher may be started again.
func (w *Watcher) Start(onChange func(path string)) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.running {
		return fmt.Errorf("watcher already started")
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create material watcher: %w", err)
	}

	dirs := make(map[string]bool)
	for p := range w.paths {
		dirs[filepath.Dir(p)] = true
	}
	for dir := range dirs {
		if err := watcher.Add(dir); err != nil {
			watcher.Close()
			return fmt.Errorf("failed to watch directory %s: %w", dir, err)
		}
	}

	w.watcher = watcher
	w.stopChan = make(chan struct{})
	w.running = true
	// The goroutine gets its own handles; Start after Stop swaps in fresh
	// ones without racing a previous goroutine that is still winding down.
	go w.run(watcher, w.stopChan, onChange)

	glog.V(1).Infof("Started security-material monitoring (%d files, %d directories)", len(w.paths), len(dirs))
	return nil
}

// Stop ends monitoring. Stopping a watcher that is not running is a no-op.
func (w *Watcher) Stop() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if !w.running {
		return
	}

	close(w.stopChan)
	w.watcher.Close()
	w.running = false
	glog.V(1).Info("Stopped security-material monitoring")
}

func (w *Watcher) run(fsw *fsnotify.Watcher, stop <-chan struct{}, onChange func(path string)) {
	glog.V(2).Info("Security-material monitoring goroutine started")

	for {
		select {
		case <-stop:
			glog.V(2).Info("Security-material monitoring stopped")
			return

		case event, ok := <-fsw.Events:
			if !ok {
				glog.Warning("Material watcher events channel closed")
				return
			}

			abs, err := filepath.Abs(event.Name)
			if err != nil || !w.paths[abs] {
				continue
			}

			glog.V(1).Infof("Security-material file event: %v", event)

			if event.Op&(fsnotify.Write|fsnotify.Create) != 0 {
				onChange(abs)
			}
			if event.Op&(fsnotify.Remove|fsnotify.Rename) != 0 {
				glog.Warningf("Security-material file %s was removed or renamed", abs)
			}

		case err, ok := <-fsw.Errors:
			if !ok {
				return
			}
			glog.Errorf("Material watcher error: %v", err)
		}
	}
}
