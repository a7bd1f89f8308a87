package validator

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/DevSymphony/codecleaner/internal/engine/core"
)

// skipDirs are never descended into.
var skipDirs = map[string]bool{
	".git":         true,
	".hg":          true,
	".svn":         true,
	"node_modules": true,
	"vendor":       true,
}

// FileSelector handles file discovery and filtering based on a selector.
type FileSelector struct {
	selector *core.Selector
}

// NewFileSelector creates a new file selector.
func NewFileSelector(selector *core.Selector) *FileSelector {
	return &FileSelector{selector: selector}
}

// SelectFiles expands paths into the sorted set of matching files.
// A path may be a file, a directory (walked recursively) or a doublestar
// pattern. Explicitly named files skip the selector's language filter and
// pattern matches skip its include patterns; exclude patterns always apply.
func (s *FileSelector) SelectFiles(paths []string) ([]string, error) {
	seen := make(map[string]bool)
	var files []string
	add := func(path string) {
		path = filepath.Clean(path)
		if !seen[path] {
			seen[path] = true
			files = append(files, path)
		}
	}

	for _, path := range paths {
		info, err := os.Stat(path)
		switch {
		case err == nil && info.IsDir():
			found, err := s.walk(path)
			if err != nil {
				return nil, err
			}
			for _, f := range found {
				add(f)
			}

		case err == nil:
			if s.excluded(path) {
				continue
			}
			add(path)

		case os.IsNotExist(err) && hasMeta(path):
			matches, err := doublestar.FilepathGlob(path, doublestar.WithFilesOnly())
			if err != nil {
				return nil, fmt.Errorf("bad pattern %s: %w", path, err)
			}
			for _, m := range matches {
				if s.matchesLanguage(m) && !s.excluded(m) {
					add(m)
				}
			}

		default:
			return nil, fmt.Errorf("failed to access %s: %w", path, err)
		}
	}

	sort.Strings(files)
	return files, nil
}

// walk finds matching files under root. Selector patterns are matched
// against paths relative to root.
func (s *FileSelector) walk(root string) ([]string, error) {
	var files []string

	err := filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != root && skipDirs[d.Name()] {
				return filepath.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() {
			return nil
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		if core.MatchesSelector(rel, s.selector) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walk %s: %w", root, err)
	}
	return files, nil
}

func (s *FileSelector) excluded(path string) bool {
	if s.selector == nil {
		return false
	}
	for _, pattern := range s.selector.Exclude {
		if m, err := core.MatchGlob(path, pattern); err == nil && m {
			return true
		}
	}
	return false
}

func (s *FileSelector) matchesLanguage(path string) bool {
	if s.selector == nil || len(s.selector.Languages) == 0 {
		return true
	}
	for _, lang := range s.selector.Languages {
		if core.MatchesLanguage(path, lang) {
			return true
		}
	}
	return false
}

func hasMeta(path string) bool {
	for _, c := range path {
		switch c {
		case '*', '?', '[', '{':
			return true
		}
	}
	return false
}
