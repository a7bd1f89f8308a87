// Package dictionary answers whether a word is a real word.
//
// The base vocabulary is embedded in the binary. It can be extended with a
// hunspell .dic file and with project specific words from the config.
package dictionary

import (
	"bufio"
	_ "embed"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"unicode"
)

//go:embed words.txt
var baseWords string

// DefaultAcronyms are accepted when written in capitals.
var DefaultAcronyms = []string{
	"API", "ASCII", "CPU", "CSS", "CSV", "DB", "DNS", "DTO", "FTP", "GUI",
	"GUID", "HTML", "HTTP", "HTTPS", "ID", "IO", "IP", "JSON", "OS", "PDF",
	"SQL", "SSL", "TCP", "TLS", "UDP", "UI", "URI", "URL", "UTF", "UUID",
	"XML", "YAML",
}

// Dictionary is immutable once built and safe for concurrent Spell calls.
type Dictionary struct {
	words    map[string]struct{}
	acronyms map[string]struct{}
}

// Option configures New.
type Option func(*builder) error

type builder struct {
	d *Dictionary
}

// WithWords adds extra words.
func WithWords(words ...string) Option {
	return func(b *builder) error {
		for _, w := range words {
			b.d.add(w)
		}
		return nil
	}
}

// WithAcronyms adds upper-case abbreviations accepted as-is.
func WithAcronyms(acronyms ...string) Option {
	return func(b *builder) error {
		for _, a := range acronyms {
			if a = strings.TrimSpace(a); a != "" {
				b.d.acronyms[strings.ToUpper(a)] = struct{}{}
			}
		}
		return nil
	}
}

// WithHunspell loads the words of a hunspell .dic file. Affix flags are
// ignored; Spell applies its own small set of suffix rules instead.
func WithHunspell(path string) Option {
	return func(b *builder) error {
		f, err := os.Open(path)
		if err != nil {
			return fmt.Errorf("failed to open dictionary: %w", err)
		}
		defer f.Close()

		if err := b.d.loadDic(f); err != nil {
			return fmt.Errorf("failed to read dictionary %s: %w", path, err)
		}
		return nil
	}
}

// New builds a dictionary from the embedded vocabulary, the word "args",
// the default acronyms and the given options.
func New(opts ...Option) (*Dictionary, error) {
	d := &Dictionary{
		words:    make(map[string]struct{}, 2048),
		acronyms: make(map[string]struct{}, len(DefaultAcronyms)),
	}
	d.loadWords(baseWords)
	d.add("args")

	b := &builder{d: d}
	if err := WithAcronyms(DefaultAcronyms...)(b); err != nil {
		return nil, err
	}
	for _, opt := range opts {
		if err := opt(b); err != nil {
			return nil, err
		}
	}
	return d, nil
}

var (
	defaultOnce sync.Once
	defaultDict *Dictionary
)

// Default returns the shared dictionary built without options.
func Default() *Dictionary {
	defaultOnce.Do(func() {
		// New cannot fail without options
		defaultDict, _ = New()
	})
	return defaultDict
}

// Len returns the number of known words.
func (d *Dictionary) Len() int {
	return len(d.words)
}

// Spell reports whether word is known. Matching ignores case, except that
// all-caps words are also checked against the acronym list.
func (d *Dictionary) Spell(word string) bool {
	if word == "" {
		return false
	}
	if len(word) > 1 && isUpper(word) {
		if _, ok := d.acronyms[word]; ok {
			return true
		}
	}

	w := strings.ToLower(word)
	if d.has(w) {
		return true
	}
	for _, stem := range stems(w) {
		if d.has(stem) {
			return true
		}
	}
	return false
}

func (d *Dictionary) has(w string) bool {
	_, ok := d.words[w]
	return ok
}

func (d *Dictionary) add(w string) {
	if w = strings.TrimSpace(w); w != "" {
		d.words[strings.ToLower(w)] = struct{}{}
	}
}

func (d *Dictionary) loadWords(text string) {
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		for _, w := range strings.Fields(line) {
			d.add(w)
		}
	}
}

// loadDic reads "word/FLAGS" lines. The first line of a .dic file holds the
// approximate word count and is skipped.
func (d *Dictionary) loadDic(r io.Reader) error {
	sc := bufio.NewScanner(r)
	first := true
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if first {
			first = false
			if isDigits(line) {
				continue
			}
		}
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if i := strings.IndexAny(line, "/\t "); i >= 0 {
			line = line[:i]
		}
		d.add(line)
	}
	return sc.Err()
}

// stems returns candidate base forms for an inflected word.
func stems(w string) []string {
	var out []string
	switch {
	case strings.HasSuffix(w, "ies") && len(w) > 4:
		out = append(out, w[:len(w)-3]+"y")
	case strings.HasSuffix(w, "es") && len(w) > 3:
		out = append(out, w[:len(w)-2], w[:len(w)-1])
	case strings.HasSuffix(w, "s") && !strings.HasSuffix(w, "ss") && len(w) > 2:
		out = append(out, w[:len(w)-1])
	}

	for _, suffix := range []string{"ing", "ed", "er", "ers", "ly"} {
		if !strings.HasSuffix(w, suffix) || len(w) <= len(suffix)+2 {
			continue
		}
		base := w[:len(w)-len(suffix)]
		out = append(out, base, base+"e")
		// stopped -> stop
		if n := len(base); n > 2 && base[n-1] == base[n-2] {
			out = append(out, base[:n-1])
		}
		// copied -> copy
		if strings.HasSuffix(base, "i") {
			out = append(out, base[:len(base)-1]+"y")
		}
	}
	return out
}

func isUpper(s string) bool {
	for _, r := range s {
		if !unicode.IsUpper(r) && !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
