package scryfall

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// DefaultDebounce is the quiet period after the last write before a watched
// file is re-imported.
const DefaultDebounce = 2 * time.Second

// Watch re-imports the bulk file at path whenever it is written or replaced,
// until ctx is cancelled. Bursts of events within debounce trigger a single
// import. Import failures are logged and do not stop the watch.
func (imp *Importer) Watch(ctx context.Context, path string, debounce time.Duration) error {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	path, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("failed to resolve watch path: %w", err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	defer watcher.Close()

	// The directory is watched so that files replaced by rename are seen.
	if err := watcher.Add(filepath.Dir(path)); err != nil {
		return fmt.Errorf("failed to watch %s: %w", filepath.Dir(path), err)
	}

	imp.logger.Info("watching bulk file", zap.String("path", path), zap.Duration("debounce", debounce))

	timer := time.NewTimer(debounce)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != path {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			timer.Reset(debounce)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			imp.logger.Warn("file watcher error", zap.Error(err))

		case <-timer.C:
			if _, err := imp.ImportFile(ctx, path); err != nil {
				if ctx.Err() != nil {
					return nil
				}
				imp.logger.Error("failed to re-import bulk file", zap.String("path", path), zap.Error(err))
			}
		}
	}
}
