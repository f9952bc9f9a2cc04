// Package watcher triggers regeneration when the preset tree changes.
package watcher

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/starford/presetgen/internal/console"
)

// Watch observes root and its immediate subdirectories until ctx is cancelled.
// Changes to .txt files, and directories appearing or disappearing under
// root, call onChange once the tree has been quiet for debounce.
func Watch(ctx context.Context, root string, debounce time.Duration, logger *slog.Logger, onChange func()) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	absRoot, err := filepath.Abs(root)
	if err != nil {
		return err
	}
	if err := w.Add(absRoot); err != nil {
		return err
	}
	entries, err := os.ReadDir(absRoot)
	if err != nil {
		return err
	}
	for _, e := range entries {
		if e.IsDir() {
			addDir(w, filepath.Join(absRoot, e.Name()), logger)
		}
	}

	console.Trace(logger, "watcher: started", slog.String("root", root))

	var timer *time.Timer
	var fire <-chan time.Time
	schedule := func() {
		if timer == nil {
			timer = time.NewTimer(debounce)
			fire = timer.C
		} else {
			timer.Reset(debounce)
		}
	}

	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			console.Trace(logger, "watcher: stopped")
			return nil

		case <-fire:
			timer = nil
			fire = nil
			onChange()

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if relevant(w, absRoot, ev, logger) {
				schedule()
			}

		case watchErr, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Error("watcher: error", slog.String("error", watchErr.Error()))
		}
	}
}

// relevant decides whether ev affects the generated document, registering
// newly created preset directories along the way.
func relevant(w *fsnotify.Watcher, root string, ev fsnotify.Event, logger *slog.Logger) bool {
	if ev.Op == fsnotify.Chmod {
		return false
	}
	parent := filepath.Dir(ev.Name)

	if parent == root {
		if ev.Op&fsnotify.Create != 0 {
			if info, err := os.Stat(ev.Name); err == nil && info.IsDir() {
				addDir(w, ev.Name, logger)
				return true
			}
		}
		// Removed or renamed directories cannot be stat'ed any more.
		return ev.Op&(fsnotify.Remove|fsnotify.Rename) != 0
	}

	return filepath.Dir(parent) == root && filepath.Ext(ev.Name) == ".txt"
}

func addDir(w *fsnotify.Watcher, dir string, logger *slog.Logger) {
	if err := w.Add(dir); err != nil {
		logger.Warn("watcher: add dir failed", slog.String("path", dir), slog.String("error", err.Error()))
		return
	}
	console.Trace(logger, "watcher: watching dir", slog.String("path", dir))
}
