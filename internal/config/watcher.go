package config

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounceDuration collapses bursts of editor writes into one reload.
const DefaultDebounceDuration = 150 * time.Millisecond

// ErrWatcherStarted is returned when Start is called twice.
var ErrWatcherStarted = errors.New("settings watcher already started")

// WatcherOption configures a Watcher.
type WatcherOption func(*Watcher)

// WithDebounce sets the debounce duration.
func WithDebounce(d time.Duration) WatcherOption {
	return func(w *Watcher) {
		w.debounce = d
	}
}

// WithOnReload sets the callback invoked with freshly loaded settings.
func WithOnReload(fn func(*Settings)) WatcherOption {
	return func(w *Watcher) {
		w.onReload = fn
	}
}

// WithOnError sets the callback invoked when a reload fails.
func WithOnError(fn func(error)) WatcherOption {
	return func(w *Watcher) {
		w.onError = fn
	}
}

// Watcher reloads a settings file whenever it changes on disk. The parent
// directory is watched so that editors replacing the file are noticed.
type Watcher struct {
	path     string
	debounce time.Duration
	onReload func(*Settings)
	onError  func(error)

	mu      sync.Mutex
	fs      *fsnotify.Watcher
	timer   *time.Timer
	cancel  context.CancelFunc
	done    chan struct{}
	started bool

	// reloads counts reload callbacks in flight; Stop waits for them.
	reloads sync.WaitGroup
}

// NewWatcher creates a watcher for the settings file at path.
func NewWatcher(path string, opts ...WatcherOption) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("invalid settings path %s: %w", path, err)
	}

	w := &Watcher{
		path:     abs,
		debounce: DefaultDebounceDuration,
		onReload: func(*Settings) {},
		onError:  func(error) {},
	}
	for _, opt := range opts {
		opt(w)
	}
	return w, nil
}

// Path returns the watched file.
func (w *Watcher) Path() string {
	return w.path
}

// Start begins watching until ctx is cancelled or Stop is called.
func (w *Watcher) Start(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.started {
		return ErrWatcherStarted
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	if err := fsw.Add(filepath.Dir(w.path)); err != nil {
		fsw.Close()
		return fmt.Errorf("failed to watch %s: %w", filepath.Dir(w.path), err)
	}

	ctx, cancel := context.WithCancel(ctx)
	w.fs = fsw
	w.cancel = cancel
	w.done = make(chan struct{})
	w.started = true

	go w.loop(ctx)
	return nil
}

// Stop ends watching and waits for the event loop and any running reload
// to finish. No callback fires after Stop returns.
func (w *Watcher) Stop() {
	w.mu.Lock()
	if !w.started {
		w.mu.Unlock()
		return
	}
	w.started = false
	w.cancel()
	if w.timer != nil {
		w.timer.Stop()
	}
	done := w.done
	w.mu.Unlock()

	<-done
	w.reloads.Wait()
}

func (w *Watcher) loop(ctx context.Context) {
	defer close(w.done)
	defer w.fs.Close()

	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-w.fs.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != w.path {
				continue
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) || event.Has(fsnotify.Rename) || event.Has(fsnotify.Remove) {
				w.schedule()
			}
		case err, ok := <-w.fs.Errors:
			if !ok {
				return
			}
			w.onError(fmt.Errorf("settings watcher: %w", err))
		}
	}
}

func (w *Watcher) schedule() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.debounce, w.reload)
}

func (w *Watcher) reload() {
	w.mu.Lock()
	if !w.started {
		w.mu.Unlock()
		return
	}
	w.reloads.Add(1)
	w.mu.Unlock()
	defer w.reloads.Done()

	s, err := LoadSettings(w.path)
	if err != nil {
		w.onError(err)
		return
	}
	w.onReload(s)
}
