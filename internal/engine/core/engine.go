package core

import (
	"context"
	"log/slog"
	"time"

	"github.com/DevSymphony/codecleaner/internal/cleaner"
)

// Engine is the interface that all validation engines must implement.
// An engine checks files against one rule and reports Violations.
type Engine interface {
	// Init initializes the engine with configuration.
	// Called once before validation begins.
	Init(ctx context.Context, config EngineConfig) error

	// Validate validates files against a rule.
	// A file that cannot be read or decoded is returned as an error; style
	// findings are Violations.
	Validate(ctx context.Context, rule Rule, files []string) (*ValidationResult, error)

	// GetCapabilities returns engine capabilities (languages, categories).
	GetCapabilities() EngineCapabilities

	// Close releases resources held by the engine.
	Close() error
}

// EngineConfig holds engine initialization settings.
type EngineConfig struct {
	// WorkDir is the working directory (usually project root).
	WorkDir string

	// Words decides which words are meaningful.
	// Nil means the embedded dictionary.
	Words cleaner.WordChecker

	// Thresholds are the project-wide size limits. Nil means the defaults.
	// Rule options override them field by field.
	Thresholds *cleaner.Thresholds

	// UTF8 decodes files without a byte order mark as UTF-8.
	UTF8 bool

	// Timeout is the max time for a single file. Zero means no limit.
	Timeout time.Duration

	Logger *slog.Logger
}

// EngineCapabilities describes what an engine supports.
type EngineCapabilities struct {
	// Name is the engine identifier (e.g., "cleancode", "lexical").
	Name string

	// SupportedLanguages lists supported languages.
	SupportedLanguages []string

	// SupportedCategories lists rule categories this engine handles.
	// Example: ["naming", "scope", "size"] for the cleancode engine.
	SupportedCategories []string

	// SupportsAutofix indicates if violations carry a replacement.
	SupportsAutofix bool
}
