package validator

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is the quiet period after the last change before a
// watch run re-validates.
const DefaultDebounce = 300 * time.Millisecond

// Handler receives the result of every watch run.
type Handler func(*Result, error)

// Watch validates paths once, then again after every batch of changes to
// a matching file, until ctx is done. Each run re-analyzes whole files.
func (v *Validator) Watch(ctx context.Context, paths []string, debounce time.Duration, handle Handler) error {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer func() { _ = watcher.Close() }()

	explicit := make(map[string]bool)
	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			// patterns are resolved on every run; watch the working directory
			if err := v.addRecursive(watcher, "."); err != nil {
				return err
			}
			continue
		}
		if info.IsDir() {
			if err := v.addRecursive(watcher, p); err != nil {
				return err
			}
			continue
		}
		explicit[filepath.Clean(p)] = true
		if err := watcher.Add(filepath.Dir(p)); err != nil {
			return fmt.Errorf("failed to watch %s: %w", p, err)
		}
	}

	handle(v.Validate(ctx, paths))

	var timer *time.Timer
	var timerC <-chan time.Time
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Has(fsnotify.Create) {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					if err := v.addRecursive(watcher, event.Name); err != nil {
						v.logger.Warn("failed to watch new directory", "path", event.Name, "error", err)
					}
					continue
				}
			}
			if event.Has(fsnotify.Chmod) && !event.Has(fsnotify.Write) {
				continue
			}
			if !v.relevant(event.Name, explicit) {
				continue
			}
			v.logger.Debug("change", "path", event.Name, "op", event.Op.String())

			if timer == nil {
				timer = time.NewTimer(debounce)
				timerC = timer.C
			} else {
				timer.Reset(debounce)
			}

		case <-timerC:
			timer, timerC = nil, nil
			handle(v.Validate(ctx, paths))

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			v.logger.Warn("watch error", "error", err)
		}
	}
}

func (v *Validator) addRecursive(watcher *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if path != root && skipDirs[d.Name()] {
			return filepath.SkipDir
		}
		if err := watcher.Add(path); err != nil {
			return fmt.Errorf("failed to watch %s: %w", path, err)
		}
		return nil
	})
}

func (v *Validator) relevant(path string, explicit map[string]bool) bool {
	path = filepath.Clean(path)
	if explicit[path] {
		return true
	}
	s := NewFileSelector(v.cfg.Selector())
	return s.matchesLanguage(path) && !s.excluded(path)
}
