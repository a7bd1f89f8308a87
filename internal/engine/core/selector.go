package core

import (
	"path/filepath"
	"slices"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// Languages whose sources the C-family lexer can tokenize.
var langExtMap = map[string][]string{
	"csharp":     {".cs"},
	"cs":         {".cs"},
	"c#":         {".cs"},
	"java":       {".java"},
	"c":          {".c", ".h"},
	"cpp":        {".cpp", ".cc", ".cxx", ".hpp", ".hh", ".hxx"},
	"c++":        {".cpp", ".cc", ".cxx", ".hpp", ".hh", ".hxx"},
	"javascript": {".js", ".mjs", ".cjs"},
	"js":         {".js", ".mjs", ".cjs"},
	"typescript": {".ts", ".mts", ".cts"},
	"ts":         {".ts", ".mts", ".cts"},
	"kotlin":     {".kt", ".kts"},
	"scala":      {".scala"},
	"swift":      {".swift"},
}

// DefaultLanguages is used when neither the config nor a rule names any.
var DefaultLanguages = []string{"csharp"}

// MatchGlob checks if a file path matches a glob pattern.
// Supports doublestar patterns (e.g., "**/*.cs", "src/**/Test*.cs").
func MatchGlob(filePath, pattern string) (bool, error) {
	filePath = filepath.ToSlash(filePath)
	pattern = filepath.ToSlash(pattern)

	return doublestar.Match(pattern, filePath)
}

// MatchesLanguage checks if a file extension matches a language.
func MatchesLanguage(filePath, language string) bool {
	ext := strings.ToLower(filepath.Ext(filePath))

	exts, ok := langExtMap[strings.ToLower(language)]
	if !ok {
		return false
	}
	return slices.Contains(exts, ext)
}

// KnownLanguage reports whether language has an extension mapping.
func KnownLanguage(language string) bool {
	_, ok := langExtMap[strings.ToLower(language)]
	return ok
}

// SupportedLanguages returns the canonical language names, sorted.
func SupportedLanguages() []string {
	return []string{"c", "cpp", "csharp", "java", "javascript", "kotlin", "scala", "swift", "typescript"}
}

// Extensions returns the file extensions of the given languages,
// deduplicated and sorted.
func Extensions(languages []string) []string {
	seen := make(map[string]bool)
	var out []string
	for _, lang := range languages {
		for _, ext := range langExtMap[strings.ToLower(lang)] {
			if !seen[ext] {
				seen[ext] = true
				out = append(out, ext)
			}
		}
	}
	sort.Strings(out)
	return out
}

// MatchesSelector checks if a file matches the selector criteria.
// Returns true if the file passes all selector filters.
func MatchesSelector(filePath string, selector *Selector) bool {
	if selector == nil {
		return true
	}

	filePath = filepath.ToSlash(filePath)

	if len(selector.Languages) > 0 {
		matched := false
		for _, lang := range selector.Languages {
			if MatchesLanguage(filePath, lang) {
				matched = true
				break
			}
		}
		if !matched {
			return false
		}
	}

	// Include filter (if specified, file must match at least one pattern)
	if len(selector.Include) > 0 {
		matched := false
		for _, pattern := range selector.Include {
			if m, err := MatchGlob(filePath, pattern); err == nil && m {
				matched = true
				break
			}
		}
		if !matched {
			return false
		}
	}

	for _, pattern := range selector.Exclude {
		if m, err := MatchGlob(filePath, pattern); err == nil && m {
			return false
		}
	}

	return true
}

// FilterFiles filters a list of files based on the selector criteria.
// Returns a new slice containing only the files that match.
func FilterFiles(files []string, selector *Selector) []string {
	if selector == nil {
		return files
	}

	filtered := make([]string, 0, len(files))
	for _, file := range files {
		if MatchesSelector(file, selector) {
			filtered = append(filtered, file)
		}
	}
	return filtered
}

// ValidatePatterns returns the first malformed glob in patterns.
func ValidatePatterns(patterns []string) (string, bool) {
	for _, p := range patterns {
		if !doublestar.ValidatePattern(filepath.ToSlash(p)) {
			return p, false
		}
	}
	return "", true
}
