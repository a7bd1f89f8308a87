// Package lexical reports problems the lexer alone can see: characters no
// token accepts, #error and #warning directives, and unbalanced #if and
// #region directives.
package lexical

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/DevSymphony/codecleaner/internal/engine/core"
	"github.com/DevSymphony/codecleaner/internal/lexer"
)

// Name is the registry name of the engine.
const Name = "lexical"

// CategoryLexical is the category of every violation of this engine.
const CategoryLexical = "lexical"

// Violation kinds.
const (
	KindIllegalCharacter = "illegal-character"
	KindErrorDirective   = "error-directive"
	KindWarningDirective = "warning-directive"
	KindUnbalanced       = "unbalanced-directive"
)

// ctx is checked every this many tokens.
const cancelCheckInterval = 1024

// Engine validates lexical rules.
//
// Rule check options:
//   - skip_directives: do not report #error, #warning and unbalanced
//     directives
type Engine struct {
	mu     sync.RWMutex
	config core.EngineConfig
	logger *slog.Logger
}

// NewEngine creates a new lexical engine.
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

// Validate scans every file and reports lexical violations.
func (e *Engine) Validate(ctx context.Context, rule core.Rule, files []string) (*core.ValidationResult, error) {
	start := time.Now()

	e.mu.RLock()
	config, logger := e.config, e.logger
	e.mu.RUnlock()

	var opts []lexer.Option
	if config.UTF8 {
		opts = append(opts, lexer.WithUTF8())
	}

	files = core.FilterFiles(files, rule.When)
	metrics := &core.Metrics{}
	var violations []core.Violation

	for _, file := range files {
		s, err := scanFile(ctx, file, opts)
		if err != nil {
			return nil, err
		}

		metrics.FilesProcessed++
		metrics.Tokens += s.tokens
		metrics.Directives += s.directives

		for _, f := range s.findings {
			if rule.GetBool("skip_directives") && f.kind != KindIllegalCharacter {
				continue
			}
			v := core.Violation{
				File:     file,
				Line:     f.line,
				Column:   f.column,
				Message:  f.message,
				Severity: f.severity,
				RuleID:   rule.ID,
				Category: CategoryLexical,
				Kind:     f.kind,
			}
			if rule.Severity != "" {
				v.Severity = rule.Severity
			}
			if rule.Message != "" {
				v.Message = rule.Message
			}
			violations = append(violations, v)
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
		SupportedCategories: []string{CategoryLexical},
	}
}

// Close cleans up resources.
func (e *Engine) Close() error {
	return nil
}

type finding struct {
	line, column int
	kind         string
	severity     string
	message      string
}

type scan struct {
	tokens     int
	directives int
	findings   []finding
}

func scanFile(ctx context.Context, path string, opts []lexer.Option) (*scan, error) {
	lx, err := lexer.Open(path, opts...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = lx.Close() }()

	s := &scan{}
	var conditions, regions []lexer.Token

	for n := 0; ; n++ {
		if n%cancelCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}

		t := lx.Scan()
		if t.Kind == lexer.EOF {
			break
		}
		if !t.Kind.IsDirective() {
			s.tokens++
			if t.Kind == lexer.NoSym {
				s.add(t, KindIllegalCharacter, core.SeverityError, fmt.Sprintf("illegal character %q", t.Text))
			}
			continue
		}

		s.directives++
		switch t.Kind {
		case lexer.DirError:
			s.add(t, KindErrorDirective, core.SeverityError, directiveText(t))
		case lexer.DirWarning:
			s.add(t, KindWarningDirective, core.SeverityWarning, directiveText(t))
		case lexer.DirIf:
			conditions = append(conditions, t)
		case lexer.DirElif, lexer.DirElse:
			if len(conditions) == 0 {
				s.add(t, KindUnbalanced, core.SeverityError, fmt.Sprintf("%s without #if", t.Kind))
			}
		case lexer.DirEndif:
			if len(conditions) == 0 {
				s.add(t, KindUnbalanced, core.SeverityError, "#endif without #if")
			} else {
				conditions = conditions[:len(conditions)-1]
			}
		case lexer.DirRegion:
			regions = append(regions, t)
		case lexer.DirEndregion:
			if len(regions) == 0 {
				s.add(t, KindUnbalanced, core.SeverityError, "#endregion without #region")
			} else {
				regions = regions[:len(regions)-1]
			}
		}
	}
	if err := lx.Err(); err != nil {
		return nil, fmt.Errorf("failed to scan %s: %w", path, err)
	}

	for _, t := range conditions {
		s.add(t, KindUnbalanced, core.SeverityError, "#if without #endif")
	}
	for _, t := range regions {
		s.add(t, KindUnbalanced, core.SeverityError, "#region without #endregion")
	}
	return s, nil
}

func (s *scan) add(t lexer.Token, kind, severity, message string) {
	s.findings = append(s.findings, finding{
		line:     t.Line,
		column:   t.Column,
		kind:     kind,
		severity: severity,
		message:  message,
	})
}

// directiveText strips the directive keyword, leaving the user message.
func directiveText(t lexer.Token) string {
	text := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(t.Text), "#"))
	if i := strings.IndexAny(text, " \t"); i >= 0 {
		return strings.TrimSpace(text[i:])
	}
	return text
}
