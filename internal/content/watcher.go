package content

import (
	"context"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is the quiet period Watch waits for before reporting.
const DefaultDebounce = 250 * time.Millisecond

// ChangeFunc is called once per burst of content file changes. paths holds
// the changed files relative to the content root, in event order.
type ChangeFunc func(ctx context.Context, paths []string)

// Watch starts an fsnotify watcher on root and calls onChange after every
// burst of relevant events, until ctx is cancelled. Only article files and
// roadmap files are relevant. New directories created at runtime are added
// to the watch list.
func Watch(ctx context.Context, root string, debounce time.Duration, logger *slog.Logger, onChange ChangeFunc) error {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	if err := addDirsRecursive(w, root); err != nil {
		return err
	}

	logger.Info("watcher: started", slog.String("root", root))

	var (
		timer   *time.Timer
		timerCh <-chan time.Time
		pending []string
		seen    = make(map[string]struct{})
	)
	schedule := func(rel string) {
		if _, ok := seen[rel]; !ok {
			seen[rel] = struct{}{}
			pending = append(pending, rel)
		}
		if timer == nil {
			timer = time.NewTimer(debounce)
			timerCh = timer.C
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
			logger.Info("watcher: stopped")
			return nil

		case <-timerCh:
			paths := pending
			pending = nil
			clear(seen)
			logger.Debug("watcher: change burst", slog.Int("files", len(paths)))
			onChange(ctx, paths)

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}

			if ev.Op&fsnotify.Create != 0 {
				if info, statErr := os.Stat(ev.Name); statErr == nil && info.IsDir() {
					if addErr := addDirsRecursive(w, ev.Name); addErr != nil {
						logger.Warn("watcher: add new dir failed",
							slog.String("path", ev.Name),
							slog.String("error", addErr.Error()))
						continue
					}
					logger.Debug("watcher: watching new dir", slog.String("path", ev.Name))
					rel, relErr := filepath.Rel(root, ev.Name)
					if relErr == nil {
						schedule(filepath.ToSlash(rel))
					}
					continue
				}
			}

			if ev.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			rel, relErr := filepath.Rel(root, ev.Name)
			if relErr != nil {
				continue
			}
			rel = filepath.ToSlash(rel)
			if !relevant(rel) {
				continue
			}
			schedule(rel)

		case watchErr, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Error("watcher: error", slog.String("error", watchErr.Error()))
		}
	}
}

// relevant reports whether a change to rel can alter the loaded content.
func relevant(rel string) bool {
	switch rel {
	case RoadmapHCL, RoadmapYAML:
		return true
	}
	if strings.HasPrefix(filepath.Base(rel), ".") {
		return false
	}
	return strings.HasPrefix(rel, ArticlesDir+"/") && strings.HasSuffix(rel, ".md")
}

// addDirsRecursive adds root and all its non-hidden subdirectories to the
// watcher.
func addDirsRecursive(w *fsnotify.Watcher, root string) error {
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
		return w.Add(path)
	})
}
