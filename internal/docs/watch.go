package docs

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/underrout/callisto-release/internal/logfields"
)

// DefaultDebounce collapses editor save bursts into one regeneration.
const DefaultDebounce = 500 * time.Millisecond

// Watch calls regenerate whenever files under dir change, until ctx is done. Bursts of events
// within debounce trigger a single call. Regeneration errors are logged and watching goes on.
func Watch(ctx context.Context, dir string, debounce time.Duration, regenerate func(context.Context) error) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	defer func() { _ = watcher.Close() }()

	if err := addTree(watcher, dir); err != nil {
		return fmt.Errorf("failed to watch %s: %w", dir, err)
	}
	slog.Info("Watching documentation sources", logfields.Path(dir))

	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	timer := time.NewTimer(debounce)
	if !timer.Stop() {
		<-timer.C
	}

	for {
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if hidden(dir, event.Name) {
				continue
			}
			if event.Op&fsnotify.Create == fsnotify.Create {
				// New folders (e.g. images/) need their own watch.
				_ = addTree(watcher, event.Name)
			}
			slog.Debug("Documentation change detected", logfields.File(event.Name), slog.String("op", event.Op.String()))
			timer.Reset(debounce)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			slog.Error("Documentation watcher error", logfields.Error(err))
		case <-timer.C:
			if err := regenerate(ctx); err != nil {
				slog.Error("Documentation regeneration failed", logfields.Error(err))
			}
		}
	}
}

func addTree(watcher *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if path != root && strings.HasPrefix(d.Name(), ".") {
			return filepath.SkipDir
		}
		return watcher.Add(path)
	})
}

// hidden reports whether path lies in a dot-folder (such as .git) or is a dot-file.
func hidden(root, path string) bool {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return false
	}
	for _, part := range strings.Split(filepath.ToSlash(rel), "/") {
		if strings.HasPrefix(part, ".") && part != "." && part != ".." {
			return true
		}
	}
	return false
}
