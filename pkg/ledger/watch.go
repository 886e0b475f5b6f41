package ledger

import (
	"context"
	"log/slog"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// Watcher observes the primary ledger file for out-of-band modifications
// between scheduled scans. The store's own writes also show up here; the
// point is an early warning when something other than this process touches
// the single source of truth.
//
// The parent directory is watched rather than the file itself so that the
// atomic temp-file-plus-rename write pattern is still observed.
type Watcher struct {
	path    string
	watcher *fsnotify.Watcher
	logger  *slog.Logger
}

// NewWatcher creates a watcher for the given ledger file.
func NewWatcher(path string) (*Watcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := w.Add(filepath.Dir(path)); err != nil {
		w.Close()
		return nil, err
	}
	return &Watcher{
		path:    path,
		watcher: w,
		logger:  slog.Default().With("component", "ledger.watcher"),
	}, nil
}

// Run delivers ledger modification events to onChange until ctx is
// cancelled. Events for other files in the directory (including the
// store's temp files and the lock file) are filtered out.
func (w *Watcher) Run(ctx context.Context, onChange func(op string)) {
	defer w.watcher.Close()
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != filepath.Clean(w.path) {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename|fsnotify.Remove) == 0 {
				continue
			}
			w.logger.Info("ledger file changed on disk",
				"path", w.path,
				"op", event.Op.String(),
			)
			if onChange != nil {
				onChange(event.Op.String())
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Warn("ledger watch error", "error", err)
		}
	}
}
