package config

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Watcher reloads the config file on change so a long-running runner can
// pick up limit/estimator changes between ticks.
type Watcher struct {
	Path     string
	Cooldown time.Duration // minimum spacing between reloads
}

// Start blocks until ctx is done, invoking onUpdate with each successfully
// reloaded and validated config. Invalid intermediate states (editors write
// files in several steps) are skipped silently.
func (w Watcher) Start(ctx context.Context, onUpdate func(AppConfig)) error {
	if w.Cooldown <= 0 {
		w.Cooldown = time.Second
	}
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()

	// Watch the directory: editors replace the file, which drops a watch
	// set on the file itself.
	if err := watcher.Add(filepath.Dir(w.Path)); err != nil {
		return fmt.Errorf("watch %s: %w", w.Path, err)
	}

	var lastReload time.Time
	target := filepath.Clean(w.Path)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != target {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			if time.Since(lastReload) < w.Cooldown {
				continue
			}
			cfg, err := LoadWithEnvOverrides(w.Path)
			if err != nil {
				continue
			}
			lastReload = time.Now()
			if onUpdate != nil {
				onUpdate(cfg)
			}
		case _, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
		}
	}
}
