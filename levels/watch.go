package levels

import (
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

const watchDebounce = 100 * time.Millisecond

// Watcher reports changes to level files. It watches the parent directory of
// every path so editors that save by rename are still seen.
type Watcher struct {
	watcher *fsnotify.Watcher
	Events  chan string
	Errors  chan error
	closeCh chan struct{}
	once    sync.Once

	mu     sync.Mutex
	files  map[string]struct{}
	ignore map[string]time.Time
}

func NewWatcher(paths ...string) (*Watcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	files := make(map[string]struct{}, len(paths))
	dirs := make(map[string]struct{})
	for _, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			_ = w.Close()
			return nil, err
		}
		files[abs] = struct{}{}
		dirs[filepath.Dir(abs)] = struct{}{}
	}
	for dir := range dirs {
		if err := w.Add(dir); err != nil {
			_ = w.Close()
			return nil, err
		}
	}

	watcher := &Watcher{
		watcher: w,
		Events:  make(chan string, 16),
		Errors:  make(chan error, 1),
		closeCh: make(chan struct{}),
		files:   files,
		ignore:  make(map[string]time.Time),
	}
	go watcher.run()
	return watcher, nil
}

// IgnoreFor drops events for path until d has passed. The editor calls it
// before writing a level so its own save does not trigger a reload.
func (w *Watcher) IgnoreFor(path string, d time.Duration) {
	if w == nil {
		return
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return
	}
	w.mu.Lock()
	w.ignore[abs] = time.Now().Add(d)
	w.mu.Unlock()
}

func (w *Watcher) Close() error {
	if w == nil {
		return nil
	}
	var err error
	w.once.Do(func() {
		close(w.closeCh)
		err = w.watcher.Close()
	})
	return err
}

// run reports a file once it has been quiet for watchDebounce, so a burst
// of writes yields one event after the last of them.
func (w *Watcher) run() {
	defer close(w.Events)
	defer close(w.Errors)

	ready := make(chan string)
	timers := make(map[string]*time.Timer)
	defer func() {
		for _, t := range timers {
			t.Stop()
		}
	}()

	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			name, err := filepath.Abs(event.Name)
			if err != nil || !w.watched(name) {
				continue
			}
			if t, ok := timers[name]; ok {
				t.Reset(watchDebounce)
				continue
			}
			timers[name] = time.AfterFunc(watchDebounce, func() {
				select {
				case ready <- name:
				case <-w.closeCh:
				}
			})
		case name := <-ready:
			delete(timers, name)
			select {
			case w.Events <- name:
			case <-w.closeCh:
				return
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			select {
			case w.Errors <- err:
			default:
			}
		case <-w.closeCh:
			return
		}
	}
}

func (w *Watcher) watched(path string) bool {
	if _, ok := w.files[path]; !ok {
		return false
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	if until, ok := w.ignore[path]; ok {
		if time.Now().Before(until) {
			return false
		}
		delete(w.ignore, path)
	}
	return true
}

// Pending drains whatever changes and errors are queued without blocking.
// Repeated changes to one file are reported once. A nil Watcher has nothing
// pending.
func (w *Watcher) Pending() ([]string, []error) {
	if w == nil {
		return nil, nil
	}
	var paths []string
	var errs []error
	seen := make(map[string]bool)
	events, errCh := w.Events, w.Errors
	for events != nil || errCh != nil {
		select {
		case p, ok := <-events:
			if !ok {
				events = nil
				continue
			}
			if !seen[p] {
				seen[p] = true
				paths = append(paths, p)
			}
		case err, ok := <-errCh:
			if !ok {
				errCh = nil
				continue
			}
			errs = append(errs, err)
		default:
			return paths, errs
		}
	}
	return paths, errs
}
