package config

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/dshills/mirror/internal/logging"
)

// DefaultDebounce is how long a file must stay quiet before it is reloaded.
const DefaultDebounce = 100 * time.Millisecond

// Reload is the result of re-reading a watched options file.
type Reload struct {
	Path   string
	Values map[string]any
	Err    error
	Time   time.Time
}

// Watcher reloads an options file when it changes.
//
// The file's directory is watched rather than the file itself, so editors
// that save by writing a new file and renaming it over the old one are
// seen. Bursts of events are coalesced into one reload.
type Watcher struct {
	mu sync.Mutex

	path     string
	fsw      *fsnotify.Watcher
	loader   *Loader
	debounce time.Duration
	logger   *logging.Logger

	reloads chan Reload
	closeCh chan struct{}
	wg      sync.WaitGroup
	closed  bool
}

// WatcherOption configures a Watcher.
type WatcherOption func(*Watcher)

// WithDebounce sets the quiet period before a reload.
func WithDebounce(d time.Duration) WatcherOption {
	return func(w *Watcher) {
		if d >= 0 {
			w.debounce = d
		}
	}
}

// WithLoader reads the file through l.
func WithLoader(l *Loader) WatcherOption {
	return func(w *Watcher) {
		if l != nil {
			w.loader = l
		}
	}
}

// WithWatcherLogger sets the watcher's logger.
func WithWatcherLogger(l *logging.Logger) WatcherOption {
	return func(w *Watcher) {
		w.logger = logging.OrNull(l).WithComponent("config-watcher")
	}
}

// NewWatcher starts watching path. It stops when ctx is done or Close is
// called; the Reloads channel is closed then.
func NewWatcher(ctx context.Context, path string, opts ...WatcherOption) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	w := &Watcher{
		path:     abs,
		loader:   NewLoader(),
		debounce: DefaultDebounce,
		logger:   logging.NullLogger,
		reloads:  make(chan Reload, 1),
		closeCh:  make(chan struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating file watcher: %w", err)
	}
	if err := fsw.Add(filepath.Dir(abs)); err != nil {
		_ = fsw.Close()
		return nil, fmt.Errorf("watching %s: %w", filepath.Dir(abs), err)
	}
	w.fsw = fsw

	w.wg.Add(1)
	go w.loop(ctx)
	return w, nil
}

// Path returns the watched file.
func (w *Watcher) Path() string {
	return w.path
}

// Reloads delivers the values read after each change.
func (w *Watcher) Reloads() <-chan Reload {
	return w.reloads
}

// Close stops the watcher. It is safe to call more than once.
func (w *Watcher) Close() error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return nil
	}
	w.closed = true
	close(w.closeCh)
	w.mu.Unlock()

	w.wg.Wait()
	return w.fsw.Close()
}

func (w *Watcher) loop(ctx context.Context) {
	defer w.wg.Done()
	defer close(w.reloads)

	timer := time.NewTimer(time.Hour)
	timer.Stop()
	defer timer.Stop()
	var pending <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			return
		case <-w.closeCh:
			return

		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if !w.relevant(ev) {
				continue
			}
			w.logger.Debug("%s: %s", ev.Op, ev.Name)
			timer.Reset(w.debounce)
			pending = timer.C

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			w.logger.Warn("watch error: %v", err)

		case <-pending:
			pending = nil
			r := w.reload()
			select {
			case w.reloads <- r:
			case <-ctx.Done():
				return
			case <-w.closeCh:
				return
			}
		}
	}
}

func (w *Watcher) relevant(ev fsnotify.Event) bool {
	if filepath.Clean(ev.Name) != w.path {
		return false
	}
	return ev.Op.Has(fsnotify.Write) || ev.Op.Has(fsnotify.Create) || ev.Op.Has(fsnotify.Rename)
}

func (w *Watcher) reload() Reload {
	values, err := w.loader.Load(w.path)
	if err != nil {
		w.logger.Warn("reloading %s: %v", w.path, err)
	} else {
		w.logger.Info("reloaded %s", w.path)
	}
	return Reload{Path: w.path, Values: values, Err: err, Time: time.Now()}
}
