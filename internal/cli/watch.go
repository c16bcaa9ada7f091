package cli

import (
	"context"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
	"github.com/fsnotify/fsnotify"

	"github.com/matzehuels/texgraph/pkg/errors"
)

// watchDebounce collapses the burst of events an editor emits on save.
var watchDebounce = 150 * time.Millisecond

// watchScene calls render after every change to path until ctx is done.
// The parent directory is watched, since many editors save by writing a
// temporary file and renaming it over the original.
func watchScene(ctx context.Context, path string, logger *log.Logger, render func() error) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return errors.Wrap(errors.ErrCodeIO, err, "create watcher")
	}
	defer watcher.Close()

	target, err := filepath.Abs(path)
	if err != nil {
		return errors.Wrap(errors.ErrCodeIO, err, "resolve %s", path)
	}
	if err := watcher.Add(filepath.Dir(target)); err != nil {
		return errors.Wrap(errors.ErrCodeIO, err, "watch %s", filepath.Dir(target))
	}
	logger.Debug("watching", "path", target)

	var pending <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			name, _ := filepath.Abs(event.Name)
			if name != target {
				continue
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) || event.Has(fsnotify.Rename) {
				pending = time.After(watchDebounce)
			}

		case <-pending:
			pending = nil
			logger.Info("scene changed", "path", path)
			if err := render(); err != nil {
				logger.Error("render failed", "error", err)
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watcher error", "error", err)
		}
	}
}
