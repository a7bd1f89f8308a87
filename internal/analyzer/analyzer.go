// Package analyzer runs the lexer, the parser and the lint engine over one
// compilation unit.
package analyzer

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/DevSymphony/codecleaner/internal/cleaner"
	"github.com/DevSymphony/codecleaner/internal/diagnostics"
	"github.com/DevSymphony/codecleaner/internal/dictionary"
	"github.com/DevSymphony/codecleaner/internal/lexer"
	"github.com/DevSymphony/codecleaner/internal/parser"
)

// Options configures one analysis.
type Options struct {
	// Words decides which words are meaningful. Nil uses the embedded
	// dictionary.
	Words cleaner.WordChecker

	// Thresholds overrides the size limits. Nil keeps the defaults.
	Thresholds *cleaner.Thresholds

	// UTF8 decodes input without a byte order mark as UTF-8 instead of
	// one byte per character.
	UTF8 bool

	// Suggestions, when set, receives every suggestion as a text line.
	Suggestions io.Writer

	Logger *slog.Logger
}

// Result is the outcome of analyzing one unit.
type Result struct {
	Name        string
	Suggestions []cleaner.Suggestion
	Errors      []diagnostics.Error // syntax, semantic and warning records
	ErrorCount  int                 // syntax and semantic errors
	Stats       parser.Stats
}

// Semantic returns the scope errors of r.
func (r *Result) Semantic() []diagnostics.Error {
	var out []diagnostics.Error
	for _, e := range r.Errors {
		if e.Phase == diagnostics.Semantic {
			out = append(out, e)
		}
	}
	return out
}

// Analyze analyzes the unit read from src. It returns an error only when
// the input cannot be read or decoded; style findings and coded errors are
// part of the Result.
func Analyze(ctx context.Context, name string, src io.Reader, opts Options) (*Result, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	words := opts.Words
	if words == nil {
		words = dictionary.Default()
	}

	var lexOpts []lexer.Option
	if opts.UTF8 {
		lexOpts = append(lexOpts, lexer.WithUTF8())
	}
	lx, err := lexer.New(src, lexOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", name, err)
	}

	errs := diagnostics.NewErrorList()
	cleanerOpts := []cleaner.Option{cleaner.WithLogger(logger)}
	if opts.Thresholds != nil {
		cleanerOpts = append(cleanerOpts, cleaner.WithThresholds(*opts.Thresholds))
	}
	if opts.Suggestions != nil {
		cleanerOpts = append(cleanerOpts, cleaner.WithWriter(opts.Suggestions))
	}
	c := cleaner.New(words, errs, cleanerOpts...)

	p := parser.New(lx, c, errs, parser.WithLogger(logger))
	if err := p.Parse(ctx); err != nil {
		return nil, fmt.Errorf("failed to analyze %s: %w", name, err)
	}

	res := &Result{
		Name:        name,
		Suggestions: c.Suggestions(),
		Errors:      errs.Errors(),
		ErrorCount:  errs.Count(),
		Stats:       p.Stats(),
	}
	logger.Debug("analyzed", "file", name,
		"tokens", res.Stats.Tokens,
		"suggestions", len(res.Suggestions),
		"errors", res.ErrorCount)
	return res, nil
}

// AnalyzeString analyzes in-memory source text.
func AnalyzeString(ctx context.Context, name, text string, opts Options) (*Result, error) {
	return Analyze(ctx, name, strings.NewReader(text), opts)
}

// AnalyzeFile analyzes the file at path.
func AnalyzeFile(ctx context.Context, path string, opts Options) (*Result, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	return Analyze(ctx, path, f, opts)
}
