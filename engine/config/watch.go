package config

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/Carmen-Shannon/neothauma/engine/logger"
	"github.com/fsnotify/fsnotify"
)

// Watch reloads the file at path whenever it is written or replaced and delivers each
// successfully parsed configuration on the returned channel. Invalid edits are logged and skipped.
// The containing directory is watched so editors that save by renaming are still observed.
// The channel is closed when ctx is cancelled.
//
// Parameters:
//   - ctx: controls the lifetime of the watcher
//   - path: TOML file to watch
//
// Returns:
//   - <-chan Config: reloaded configurations, buffered by one
//   - error: if the watcher cannot be created
func Watch(ctx context.Context, path string) (<-chan Config, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("config: create watcher: %w", err)
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		w.Close()
		return nil, fmt.Errorf("config: resolve %s: %w", path, err)
	}
	if err := w.Add(filepath.Dir(abs)); err != nil {
		w.Close()
		return nil, fmt.Errorf("config: watch %s: %w", path, err)
	}

	out := make(chan Config, 1)
	go func() {
		defer close(out)
		defer w.Close()
		for {
			select {
			case e, ok := <-w.Events:
				if !ok {
					return
				}
				if filepath.Clean(e.Name) != abs || e.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
					continue
				}
				cfg, err := Load(abs)
				if err != nil {
					logger.Warn("config reload skipped: %v", err)
					continue
				}
				select {
				case out <- cfg:
				case <-ctx.Done():
					return
				}
			case err, ok := <-w.Errors:
				if !ok {
					return
				}
				logger.Error("config watcher: %v", err)
			case <-ctx.Done():
				return
			}
		}
	}()
	return out, nil
}
