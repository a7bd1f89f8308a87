// Package validator runs the configured rules over a set of files.
//
// Every (rule, file) pair is an independent unit. Units run concurrently
// on an errgroup with a bounded limit; results are merged in unit order,
// so the output does not depend on scheduling.
package validator

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"sort"
	"strconv"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/DevSymphony/codecleaner/internal/config"
	"github.com/DevSymphony/codecleaner/internal/engine/core"
	"github.com/DevSymphony/codecleaner/internal/engine/registry"
	"github.com/DevSymphony/codecleaner/internal/metrics"
)

// ValidationError is a unit that could not run, e.g. an unreadable file.
type ValidationError struct {
	File    string `json:"file"`
	RuleID  string `json:"ruleId"`
	Engine  string `json:"engine"`
	Message string `json:"message"`
}

// Result is the merged outcome of one validation run.
type Result struct {
	Files      []string          `json:"files"`
	Violations []core.Violation  `json:"violations"`
	Errors     []ValidationError `json:"errors,omitempty"`
	Checked    int               `json:"checked"`
	Passed     int               `json:"passed"`
	Failed     int               `json:"failed"`
	Tokens     int               `json:"tokens"`
	Duration   time.Duration     `json:"-"`
}

// ErrorCount returns the number of error-severity violations.
func (r *Result) ErrorCount() int {
	n := 0
	for i := range r.Violations {
		if r.Violations[i].IsError() {
			n++
		}
	}
	return n
}

// SuggestionCount returns the number of violations below error severity.
func (r *Result) SuggestionCount() int {
	return len(r.Violations) - r.ErrorCount()
}

// Option configures a Validator.
type Option func(*Validator)

// WithRegistry replaces the global engine registry.
func WithRegistry(r *registry.Registry) Option {
	return func(v *Validator) { v.registry = r }
}

// WithMetrics records counters for every unit.
func WithMetrics(m *metrics.Recorder) Option {
	return func(v *Validator) { v.metrics = m }
}

// WithLogger sets the logger. The default is slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(v *Validator) {
		if l != nil {
			v.logger = l
		}
	}
}

// WithWorkDir sets the directory passed to engines.
func WithWorkDir(dir string) Option {
	return func(v *Validator) { v.workDir = dir }
}

// Validator validates files against the rules of a config.
type Validator struct {
	cfg      *config.Config
	registry *registry.Registry
	metrics  *metrics.Recorder
	logger   *slog.Logger
	workDir  string
}

// New creates a validator for cfg.
func New(cfg *config.Config, opts ...Option) *Validator {
	v := &Validator{
		cfg:      cfg,
		registry: registry.Global(),
		logger:   slog.Default(),
		workDir:  ".",
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// getDefaultConcurrency returns the default concurrency level (CPU/2, min 1, max 8)
func getDefaultConcurrency() int {
	return min(max(runtime.NumCPU()/2, 1), 8)
}

func (v *Validator) concurrency() int {
	if v.cfg.Concurrency > 0 {
		return v.cfg.Concurrency
	}
	return getDefaultConcurrency()
}

// SelectFiles expands paths using the config's selector.
func (v *Validator) SelectFiles(paths []string) ([]string, error) {
	return NewFileSelector(v.cfg.Selector()).SelectFiles(paths)
}

// Validate expands paths and validates the resulting files.
func (v *Validator) Validate(ctx context.Context, paths []string) (*Result, error) {
	files, err := v.SelectFiles(paths)
	if err != nil {
		return nil, err
	}
	return v.ValidateFiles(ctx, files)
}

type unit struct {
	rule   core.Rule
	engine core.Engine
	file   string
}

type unitResult struct {
	res      *core.ValidationResult
	err      error
	duration time.Duration
}

// ValidateFiles validates files as given, without expanding them.
func (v *Validator) ValidateFiles(ctx context.Context, files []string) (*Result, error) {
	start := time.Now()

	engines, err := v.initEngines(ctx)
	if err != nil {
		return nil, err
	}
	units := v.createUnits(engines, files)

	v.logger.Info("validating",
		"files", len(files),
		"rules", len(engines),
		"units", len(units),
		"concurrency", v.concurrency())

	results := make([]unitResult, len(units))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(v.concurrency())
	for i, u := range units {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			t := time.Now()
			res, err := u.engine.Validate(gctx, u.rule, []string{u.file})
			results[i] = unitResult{res: res, err: err, duration: time.Since(t)}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	result := v.merge(files, units, results)
	result.Duration = time.Since(start)
	return result, nil
}

// initEngines resolves and initializes the engine of every enabled rule.
// The returned map is keyed by rule ID.
func (v *Validator) initEngines(ctx context.Context) (map[string]core.Engine, error) {
	words, err := v.cfg.Words()
	if err != nil {
		return nil, fmt.Errorf("failed to load dictionary: %w", err)
	}
	limits := v.cfg.CleanerThresholds()
	engineConfig := core.EngineConfig{
		WorkDir:    v.workDir,
		Words:      words,
		Thresholds: &limits,
		UTF8:       v.cfg.UTF8(),
		Logger:     v.logger,
	}

	initialized := make(map[string]core.Engine)
	byRule := make(map[string]core.Engine)
	for _, rule := range v.cfg.EnabledRules() {
		engine, ok := initialized[rule.Engine]
		if !ok {
			engine, err = v.registry.Get(rule.Engine)
			if err != nil {
				return nil, fmt.Errorf("rule %s: %w", rule.ID, err)
			}
			if err := engine.Init(ctx, engineConfig); err != nil {
				return nil, fmt.Errorf("failed to initialize engine %s: %w", rule.Engine, err)
			}
			initialized[rule.Engine] = engine
		}
		byRule[rule.ID] = engine
	}
	return byRule, nil
}

// createUnits creates one unit per enabled rule and matching file, ordered
// by file, then by rule position in the config.
func (v *Validator) createUnits(engines map[string]core.Engine, files []string) []unit {
	rules := v.cfg.EnabledRules()

	var units []unit
	for _, file := range files {
		for _, rule := range rules {
			if !core.MatchesSelector(file, rule.When) {
				continue
			}
			units = append(units, unit{rule: rule, engine: engines[rule.ID], file: file})
		}
	}
	return units
}

func (v *Validator) merge(files []string, units []unit, results []unitResult) *Result {
	result := &Result{
		Files:      files,
		Violations: make([]core.Violation, 0),
		Checked:    len(files),
	}

	type fileStats struct {
		tokens, directives int
		counted            bool
		failed             bool
		elapsed            time.Duration
	}
	stats := make(map[string]*fileStats, len(files))
	for _, f := range files {
		stats[f] = &fileStats{}
	}

	for i, u := range units {
		r := results[i]
		fs := stats[u.file]
		fs.elapsed += r.duration

		if r.err != nil {
			fs.failed = true
			result.Errors = append(result.Errors, ValidationError{
				File:    u.file,
				RuleID:  u.rule.ID,
				Engine:  u.rule.Engine,
				Message: r.err.Error(),
			})
			v.logger.Warn("unit failed", "file", u.file, "rule", u.rule.ID, "error", r.err)
			continue
		}

		if r.res.Metrics != nil && !fs.counted {
			fs.tokens = r.res.Metrics.Tokens
			fs.directives = r.res.Metrics.Directives
			fs.counted = true
		}
		result.Violations = append(result.Violations, r.res.Violations...)
		for j := range r.res.Violations {
			v.recordViolation(&r.res.Violations[j])
		}
	}

	for _, f := range files {
		fs := stats[f]
		result.Tokens += fs.tokens
		if v.metrics == nil {
			continue
		}
		if fs.failed {
			v.metrics.FileFailed()
		} else {
			v.metrics.FileDone(fs.tokens, fs.directives, fs.elapsed.Seconds())
		}
	}

	sort.SliceStable(result.Violations, func(i, j int) bool {
		a, b := &result.Violations[i], &result.Violations[j]
		if a.File != b.File {
			return a.File < b.File
		}
		if a.Line != b.Line {
			return a.Line < b.Line
		}
		return a.Column < b.Column
	})

	failed := make(map[string]bool)
	for i := range result.Violations {
		failed[result.Violations[i].File] = true
	}
	for _, e := range result.Errors {
		failed[e.File] = true
	}
	result.Failed = len(failed)
	result.Passed = result.Checked - result.Failed
	return result
}

func (v *Validator) recordViolation(vl *core.Violation) {
	if v.metrics == nil || vl.Kind == "" {
		return
	}
	if code, ok := strings.CutPrefix(vl.Kind, "error-"); ok {
		if n, err := strconv.Atoi(code); err == nil {
			v.metrics.Error(n)
			return
		}
	}
	v.metrics.Suggestion(vl.Kind)
}
