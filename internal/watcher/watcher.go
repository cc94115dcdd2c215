package watcher

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"time"

	"doctree/internal/analyzer"
	"doctree/internal/logger"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is the quiet period before a batch of changes is reported
const DefaultDebounce = 500 * time.Millisecond

// Watcher reports batches of changed Java sources under a root directory.
// New directories are watched as they appear; excluded ones never are.
type Watcher struct {
	fs       *fsnotify.Watcher
	root     string
	exclude  *analyzer.Excluder
	debounce time.Duration
}

// New watches root and every non-excluded directory below it
func New(root string, excludePatterns []string) (*Watcher, error) {
	exclude, err := analyzer.NewExcluder(excludePatterns)
	if err != nil {
		return nil, err
	}
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}

	w := &Watcher{fs: fsw, root: root, exclude: exclude, debounce: DefaultDebounce}
	if err := w.addTree(root, nil); err != nil {
		fsw.Close()
		return nil, err
	}
	return w, nil
}

// SetDebounce changes the quiet period. Call before Run.
func (w *Watcher) SetDebounce(d time.Duration) {
	w.debounce = d
}

// Close releases the underlying watcher
func (w *Watcher) Close() error {
	return w.fs.Close()
}

// Run blocks until ctx is done, calling onChange with the sorted paths of
// the sources created, written, removed or renamed since the last call.
// onChange runs on the watching goroutine; events keep queueing meanwhile.
func (w *Watcher) Run(ctx context.Context, onChange func(files []string)) error {
	pending := make(map[string]bool)
	timer := time.NewTimer(w.debounce)
	timer.Stop()
	defer timer.Stop()

	mark := func(path string) {
		pending[path] = true
		timer.Reset(w.debounce)
	}

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-w.fs.Events:
			if !ok {
				return nil
			}
			if event.Has(fsnotify.Create) {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					// Sources may land in the directory before it is watched
					err := w.addTree(event.Name, func(path string) {
						if w.wanted(path) {
							mark(path)
						}
					})
					if err != nil {
						logger.Warn("failed to watch new directory %s: %v", event.Name, err)
					}
					continue
				}
			}
			if !w.relevant(event) {
				continue
			}
			logger.Debug("[WATCH] %s %s", event.Op, event.Name)
			mark(event.Name)

		case <-timer.C:
			if len(pending) == 0 {
				continue
			}
			files := make([]string, 0, len(pending))
			for f := range pending {
				files = append(files, f)
			}
			sort.Strings(files)
			clear(pending)
			onChange(files)

		case err, ok := <-w.fs.Errors:
			if !ok {
				return nil
			}
			logger.Warn("file watcher error: %v", err)
		}
	}
}

func (w *Watcher) relevant(event fsnotify.Event) bool {
	if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) &&
		!event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
		return false
	}
	return w.wanted(event.Name)
}

// wanted reports whether path is a source outside the excluded patterns
func (w *Watcher) wanted(path string) bool {
	if !analyzer.IsSource(path) {
		return false
	}
	rel, err := filepath.Rel(w.root, path)
	if err != nil {
		return false
	}
	return !w.exclude.Excluded(filepath.ToSlash(rel), false)
}

// addTree adds dir and its non-excluded subdirectories. Files found on the
// way are passed to onFile when it is not nil.
func (w *Watcher) addTree(dir string, onFile func(path string)) error {
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == dir {
				return err
			}
			logger.Debug("[WATCH] skipping %s: %v", path, err)
			return nil
		}
		if !d.IsDir() {
			if onFile != nil {
				onFile(path)
			}
			return nil
		}
		if rel, err := filepath.Rel(w.root, path); err == nil && rel != "." {
			if d.Name() == ".git" || d.Name() == ".svn" || w.exclude.Excluded(filepath.ToSlash(rel), true) {
				return filepath.SkipDir
			}
		}
		if err := w.fs.Add(path); err != nil {
			return fmt.Errorf("failed to watch %s: %w", path, err)
		}
		return nil
	})
}
