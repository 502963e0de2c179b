package dataset

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/okian/baton/pkg/logger"
	"github.com/okian/baton/pkg/metrics"
)

const defaultDebounce = 250 * time.Millisecond

// ChangeFunc is called once a burst of writes to the watched file settles.
type ChangeFunc func(ctx context.Context) error

// Watcher reports changes to one file. It watches the parent directory so
// that editors which replace the file atomically are still seen.
type Watcher struct {
	path     string
	onChange ChangeFunc
	debounce time.Duration
	log      logger.Logger

	mu      sync.Mutex
	watcher *fsnotify.Watcher
}

// WatcherOption configures a Watcher.
type WatcherOption func(*Watcher)

// WithDebounce sets how long the file must stay quiet before onChange runs.
func WithDebounce(d time.Duration) WatcherOption {
	return func(w *Watcher) {
		if d > 0 {
			w.debounce = d
		}
	}
}

// WithLogger sets the watcher logger.
func WithLogger(l logger.Logger) WatcherOption {
	return func(w *Watcher) {
		if l != nil {
			w.log = l
		}
	}
}

// NewWatcher prepares a watcher for path. Nothing is watched until Run.
func NewWatcher(path string, onChange ChangeFunc, opts ...WatcherOption) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrWatchDataset, err)
	}
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrWatchDataset, err)
	}
	w := &Watcher{
		path:     abs,
		onChange: onChange,
		debounce: defaultDebounce,
		watcher:  fw,
	}
	for _, opt := range opts {
		opt(w)
	}
	if w.log == nil {
		w.log = logger.Get().Named("dataset_watcher")
	}
	return w, nil
}

// Run watches until ctx is done and then releases the underlying watcher.
// Errors from onChange are logged and do not stop the loop.
func (w *Watcher) Run(ctx context.Context) error {
	w.mu.Lock()
	fw := w.watcher
	w.mu.Unlock()
	if fw == nil {
		return fmt.Errorf("%w: watcher closed", ErrWatchDataset)
	}
	defer w.Close()

	if err := fw.Add(filepath.Dir(w.path)); err != nil {
		return fmt.Errorf("%w: %w", ErrWatchDataset, err)
	}
	w.log.Info(ctx, "watching dataset", logger.String("path", w.path))

	timer := time.NewTimer(w.debounce)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != w.path {
				continue
			}
			op := opName(ev.Op)
			if op == "" {
				continue
			}
			metrics.RecordWatcherEvent(op)
			w.log.Debug(ctx, "dataset event", logger.String("op", op))
			timer.Reset(w.debounce)

		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			metrics.RecordErrorByComponent("dataset_watcher", "fsnotify")
			w.log.Error(ctx, "dataset watcher error", logger.Error(err))

		case <-timer.C:
			if err := w.onChange(ctx); err != nil {
				w.log.Warn(ctx, "dataset reload failed", logger.Error(err), logger.String("path", w.path))
			}
		}
	}
}

// Close releases the underlying watcher. It is safe to call more than once.
func (w *Watcher) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.watcher == nil {
		return nil
	}
	err := w.watcher.Close()
	w.watcher = nil
	return err
}

func opName(op fsnotify.Op) string {
	switch {
	case op.Has(fsnotify.Create):
		return "create"
	case op.Has(fsnotify.Write):
		return "write"
	case op.Has(fsnotify.Rename):
		return "rename"
	case op.Has(fsnotify.Remove):
		return "remove"
	default:
		return ""
	}
}
