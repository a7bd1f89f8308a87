// Package config loads and saves the project file .codecleaner.yaml.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/DevSymphony/codecleaner/internal/cleaner"
	"github.com/DevSymphony/codecleaner/internal/dictionary"
	"github.com/DevSymphony/codecleaner/internal/engine/core"
	"github.com/DevSymphony/codecleaner/internal/logging"
)

// FileName is the project config file looked up in the working directory.
const FileName = ".codecleaner.yaml"

// Encodings of BOM-less input.
const (
	EncodingLatin1 = "latin1"
	EncodingUTF8   = "utf8"
)

// ErrNotFound is returned by Load when the file does not exist.
var ErrNotFound = errors.New("config file not found")

// Config is the project configuration.
type Config struct {
	Thresholds  Thresholds  `yaml:"thresholds"`
	Dictionary  Dictionary  `yaml:"dictionary,omitempty"`
	Include     []string    `yaml:"include,omitempty"`
	Exclude     []string    `yaml:"exclude,omitempty"`
	Languages   []string    `yaml:"languages,omitempty"`
	Concurrency int         `yaml:"concurrency,omitempty"` // 0 = NumCPU/2, clamped to [1, 8]
	LogLevel    string      `yaml:"log_level,omitempty"`
	Encoding    string      `yaml:"encoding,omitempty"` // "latin1" (default) or "utf8"
	Rules       []core.Rule `yaml:"rules,omitempty"`
}

// Thresholds are the size limits of the clean code checks.
type Thresholds struct {
	MaxParams int `yaml:"max_params"`
	MaxLines  int `yaml:"max_lines"`
	MaxIndent int `yaml:"max_indent"`
}

// Dictionary configures the word oracle.
type Dictionary struct {
	Path     string   `yaml:"path,omitempty"` // hunspell .dic file
	Words    []string `yaml:"words,omitempty"`
	Acronyms []string `yaml:"acronyms,omitempty"`
}

// Default returns the configuration used when no file exists.
func Default() *Config {
	t := cleaner.DefaultThresholds()
	return &Config{
		Thresholds: Thresholds{
			MaxParams: t.MaxParameters,
			MaxLines:  t.MaxLines,
			MaxIndent: t.MaxIndent,
		},
		Exclude:   []string{"**/bin/**", "**/obj/**", "**/.git/**"},
		Languages: append([]string(nil), core.DefaultLanguages...),
		LogLevel:  "warn",
		Encoding:  EncodingLatin1,
		Rules: []core.Rule{
			{ID: "clean-code", Engine: "cleancode", Enabled: true, Severity: core.SeverityWarning},
			{ID: "lexical", Engine: "lexical", Enabled: true},
		},
	}
}

// Load reads the config at path. Missing fields keep their defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	cfg := Default()
	cfg.Rules = nil
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("invalid config file %s: %w", path, err)
	}
	if len(cfg.Rules) == 0 {
		cfg.Rules = Default().Rules
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config file %s: %w", path, err)
	}
	return cfg, nil
}

// LoadOrDefault loads FileName from dir, falling back to Default when the
// file does not exist. The returned path is empty in that case.
func LoadOrDefault(dir string) (*Config, string, error) {
	path := filepath.Join(dir, FileName)
	cfg, err := Load(path)
	if errors.Is(err, ErrNotFound) {
		return Default(), "", nil
	}
	if err != nil {
		return nil, "", err
	}
	return cfg, path, nil
}

// Save writes cfg to path.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create config directory: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

// Validate checks values that would otherwise fail late.
func (c *Config) Validate() error {
	var errs []error

	if c.Thresholds.MaxParams < 0 || c.Thresholds.MaxLines < 0 || c.Thresholds.MaxIndent < 0 {
		errs = append(errs, errors.New("thresholds must not be negative"))
	}
	if c.Concurrency < 0 {
		errs = append(errs, errors.New("concurrency must not be negative"))
	}
	switch strings.ToLower(c.Encoding) {
	case "", EncodingLatin1, EncodingUTF8:
	default:
		errs = append(errs, fmt.Errorf("unknown encoding %q", c.Encoding))
	}
	if _, err := logging.ParseLevel(c.LogLevel); err != nil {
		errs = append(errs, err)
	}
	for _, lang := range c.Languages {
		if !core.KnownLanguage(lang) {
			errs = append(errs, fmt.Errorf("unknown language %q", lang))
		}
	}
	if p, ok := core.ValidatePatterns(append(append([]string(nil), c.Include...), c.Exclude...)); !ok {
		errs = append(errs, fmt.Errorf("bad glob pattern %q", p))
	}

	seen := make(map[string]bool)
	for i, r := range c.Rules {
		switch {
		case r.ID == "":
			errs = append(errs, fmt.Errorf("rule %d has no id", i+1))
		case seen[r.ID]:
			errs = append(errs, fmt.Errorf("duplicate rule id %q", r.ID))
		}
		seen[r.ID] = true
		if r.Engine == "" {
			errs = append(errs, fmt.Errorf("rule %q has no engine", r.ID))
		}
	}

	return errors.Join(errs...)
}

// CleanerThresholds converts the size limits for the lint engine.
func (c *Config) CleanerThresholds() cleaner.Thresholds {
	return cleaner.Thresholds{
		MaxParameters: c.Thresholds.MaxParams,
		MaxLines:      c.Thresholds.MaxLines,
		MaxIndent:     c.Thresholds.MaxIndent,
	}
}

// UTF8 reports whether BOM-less files are decoded as UTF-8.
func (c *Config) UTF8() bool {
	return strings.EqualFold(c.Encoding, EncodingUTF8)
}

// Selector returns the project-wide file selector.
func (c *Config) Selector() *core.Selector {
	langs := c.Languages
	if len(langs) == 0 {
		langs = core.DefaultLanguages
	}
	return &core.Selector{
		Languages: langs,
		Include:   c.Include,
		Exclude:   c.Exclude,
	}
}

// EnabledRules returns the rules with Enabled set, in file order.
func (c *Config) EnabledRules() []core.Rule {
	var out []core.Rule
	for _, r := range c.Rules {
		if r.Enabled {
			out = append(out, r)
		}
	}
	return out
}

// Words builds the word oracle. Without dictionary settings it returns the
// shared embedded dictionary.
func (c *Config) Words() (*dictionary.Dictionary, error) {
	d := c.Dictionary
	if d.Path == "" && len(d.Words) == 0 && len(d.Acronyms) == 0 {
		return dictionary.Default(), nil
	}

	var opts []dictionary.Option
	if d.Path != "" {
		opts = append(opts, dictionary.WithHunspell(d.Path))
	}
	if len(d.Words) > 0 {
		opts = append(opts, dictionary.WithWords(d.Words...))
	}
	if len(d.Acronyms) > 0 {
		opts = append(opts, dictionary.WithAcronyms(d.Acronyms...))
	}
	return dictionary.New(opts...)
}
