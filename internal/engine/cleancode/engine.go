// Package cleancode checks naming, scope and size rules by running the
// lexer, the declaration recognizer and the lint engine over each file.
package cleancode

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/DevSymphony/codecleaner/internal/analyzer"
	"github.com/DevSymphony/codecleaner/internal/cleaner"
	"github.com/DevSymphony/codecleaner/internal/diagnostics"
	"github.com/DevSymphony/codecleaner/internal/engine/core"
)

// Name is the registry name of the engine.
const Name = "cleancode"

// Rule categories.
const (
	CategoryNaming = "naming"
	CategorySize   = "size"
	CategoryScope  = "scope"
	CategorySyntax = "syntax"
)

// Engine validates clean code rules.
//
// Rule check options:
//   - max_params, max_lines, max_indent: override the configured thresholds
//   - kinds: suggestion kinds to report (default all)
//   - skip_errors: do not report syntax and scope errors
type Engine struct {
	mu     sync.RWMutex
	config core.EngineConfig
	logger *slog.Logger
}

// NewEngine creates a new clean code engine.
func NewEngine() *Engine {
	return &Engine{logger: slog.Default()}
}

// Init initializes the engine.
func (e *Engine) Init(ctx context.Context, config core.EngineConfig) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.config = config
	if config.Logger != nil {
		e.logger = config.Logger
	}
	return nil
}

// Validate validates files against a clean code rule.
func (e *Engine) Validate(ctx context.Context, rule core.Rule, files []string) (*core.ValidationResult, error) {
	start := time.Now()

	e.mu.RLock()
	config, logger := e.config, e.logger
	e.mu.RUnlock()

	kinds, err := kindFilter(rule)
	if err != nil {
		return nil, fmt.Errorf("rule %s: %w", rule.ID, err)
	}

	opts := analyzer.Options{
		Words:      config.Words,
		Thresholds: thresholds(config.Thresholds, rule),
		UTF8:       config.UTF8,
		Logger:     logger,
	}

	files = core.FilterFiles(files, rule.When)
	metrics := &core.Metrics{}
	var violations []core.Violation

	for _, file := range files {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		res, err := analyzeFile(ctx, file, config.Timeout, opts)
		if err != nil {
			return nil, err
		}

		metrics.FilesProcessed++
		metrics.Tokens += res.Stats.Tokens
		metrics.Directives += res.Stats.Directives

		violations = append(violations, suggestionViolations(rule, file, res.Suggestions, kinds)...)
		if !rule.GetBool("skip_errors") {
			violations = append(violations, errorViolations(rule, file, res.Errors)...)
		}
	}

	logger.Debug("rule checked", "rule", rule.ID, "files", len(files), "violations", len(violations))

	return &core.ValidationResult{
		RuleID:     rule.ID,
		Passed:     len(violations) == 0,
		Violations: violations,
		Metrics:    metrics,
		Duration:   time.Since(start),
		Engine:     Name,
	}, nil
}

// GetCapabilities returns engine capabilities.
func (e *Engine) GetCapabilities() core.EngineCapabilities {
	return core.EngineCapabilities{
		Name:                Name,
		SupportedLanguages:  core.SupportedLanguages(),
		SupportedCategories: []string{CategoryNaming, CategorySize, CategoryScope, CategorySyntax},
		SupportsAutofix:     true,
	}
}

// Close cleans up resources.
func (e *Engine) Close() error {
	return nil
}

func analyzeFile(ctx context.Context, file string, timeout time.Duration, opts analyzer.Options) (*analyzer.Result, error) {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}
	return analyzer.AnalyzeFile(ctx, file, opts)
}

func thresholds(base *cleaner.Thresholds, rule core.Rule) *cleaner.Thresholds {
	t := cleaner.DefaultThresholds()
	if base != nil {
		t = *base
	}
	override := func(key string, dst *int) {
		if _, ok := rule.Check[key]; ok {
			if n := rule.GetInt(key); n >= 0 {
				*dst = n
			}
		}
	}
	override("max_params", &t.MaxParameters)
	override("max_lines", &t.MaxLines)
	override("max_indent", &t.MaxIndent)
	return &t
}

// kindFilter returns nil when the rule reports every kind.
func kindFilter(rule core.Rule) (map[cleaner.Kind]bool, error) {
	names := rule.GetStringSlice("kinds")
	if len(names) == 0 {
		return nil, nil
	}

	kinds := make(map[cleaner.Kind]bool, len(names))
	for _, name := range names {
		k, err := cleaner.ParseKind(name)
		if err != nil {
			return nil, err
		}
		kinds[k] = true
	}
	return kinds, nil
}

// CategoryOf returns the rule category a suggestion kind belongs to.
func CategoryOf(k cleaner.Kind) string {
	switch k {
	case cleaner.ParameterCount, cleaner.LineCount, cleaner.IndentBlockCount:
		return CategorySize
	default:
		return CategoryNaming
	}
}

func suggestionViolations(rule core.Rule, file string, ss []cleaner.Suggestion, kinds map[cleaner.Kind]bool) []core.Violation {
	var out []core.Violation
	for _, s := range ss {
		if kinds != nil && !kinds[s.Kind] {
			continue
		}

		v := core.Violation{
			File:     file,
			Line:     s.Line,
			Column:   s.Column,
			Message:  s.Message,
			Severity: rule.SeverityOr(core.SeverityWarning),
			RuleID:   rule.ID,
			Category: CategoryOf(s.Kind),
			Kind:     s.Kind.String(),
		}
		if rule.Message != "" {
			v.Message = rule.Message
		}
		if s.HasWord {
			v.Context = map[string]interface{}{"word": s.Word}
		}
		if s.HasFix {
			v.Suggestion = &core.Suggestion{
				Desc:        fmt.Sprintf("Rename %s to %s", s.Word, s.Fix),
				Replacement: s.Fix,
			}
		}
		out = append(out, v)
	}
	return out
}

// errorViolations converts scope errors and structural syntax errors.
// Illegal characters and directive warnings belong to the lexical engine.
func errorViolations(rule core.Rule, file string, errs []diagnostics.Error) []core.Violation {
	var out []core.Violation
	for _, e := range errs {
		category := CategoryScope
		switch {
		case e.Phase == diagnostics.Warn:
			continue
		case e.Phase == diagnostics.Syntax && e.Code == diagnostics.CodeIllegalCharacter:
			continue
		case e.Phase == diagnostics.Syntax:
			category = CategorySyntax
		}

		out = append(out, core.Violation{
			File:     file,
			Line:     e.Line,
			Column:   e.Column,
			Message:  e.Message,
			Severity: core.SeverityError,
			RuleID:   rule.ID,
			Category: category,
			Kind:     fmt.Sprintf("error-%d", e.Code),
		})
	}
	return out
}
