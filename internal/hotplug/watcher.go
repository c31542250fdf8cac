// Package hotplug turns USB attach/detach activity into debounced rescan
// triggers by watching the bus device nodes.
package hotplug

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Event marks a change on a watched bus path.
type Event struct {
	Path      string
	Timestamp time.Time
}

type Watcher struct {
	fsWatcher *fsnotify.Watcher
	debounce  time.Duration
}

func New(debounce time.Duration) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	return &Watcher{fsWatcher: fsw, debounce: debounce}, nil
}

// DefaultRoots returns the bus directories worth watching on this host.
// Hosts without any (non-Linux, mostly) get an empty list; the caller then
// relies on its periodic rescan alone.
func DefaultRoots() []string {
	var roots []string
	for _, candidate := range []string{"/dev/bus/usb", "/sys/bus/usb/devices"} {
		if _, err := os.Stat(candidate); err == nil {
			roots = append(roots, candidate)
		}
	}
	return roots
}

// AddRecursive adds a directory and all subdirectories. Unwatchable
// subdirectories are skipped.
func (w *Watcher) AddRecursive(root string) error {
	return filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return nil
		}
		if info.IsDir() {
			if err := w.fsWatcher.Add(path); err != nil {
				return nil
			}
		}
		return nil
	})
}

// Watch returns a channel emitting debounced events. Rapid bursts from a
// single attach (node created, chmodded, populated) collapse into one.
func (w *Watcher) Watch(ctx context.Context) <-chan Event {
	out := make(chan Event)

	go func() {
		defer close(out)

		var mu sync.Mutex
		var pending *time.Timer
		var lastPath string

		for {
			select {
			case <-ctx.Done():
				if pending != nil {
					pending.Stop()
				}
				return

			case event, ok := <-w.fsWatcher.Events:
				if !ok {
					return
				}

				if event.Op&(fsnotify.Create|fsnotify.Remove|fsnotify.Write|fsnotify.Chmod) == 0 {
					continue
				}

				mu.Lock()
				lastPath = event.Name

				if pending != nil {
					pending.Stop()
				}

				pending = time.AfterFunc(w.debounce, func() {
					mu.Lock()
					p := lastPath
					mu.Unlock()

					select {
					case out <- Event{Path: p, Timestamp: time.Now()}:
					case <-ctx.Done():
					}
				})
				mu.Unlock()

			case _, ok := <-w.fsWatcher.Errors:
				if !ok {
					return
				}
			}
		}
	}()

	return out
}

func (w *Watcher) Close() error {
	return w.fsWatcher.Close()
}
