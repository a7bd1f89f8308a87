package core

import (
	"encoding/json"
	"fmt"
	"time"

	"gopkg.in/yaml.v3"
)

// Severity levels.
const (
	SeverityError   = "error"
	SeverityWarning = "warning"
	SeverityInfo    = "info"
)

// Rule represents a validation rule from the project config.
type Rule struct {
	ID       string                 `json:"id" yaml:"id"`
	Engine   string                 `json:"engine" yaml:"engine"`
	Enabled  bool                   `json:"enabled" yaml:"enabled"`
	Category string                 `json:"category,omitempty" yaml:"category,omitempty"`
	Severity string                 `json:"severity,omitempty" yaml:"severity,omitempty"` // "error", "warning", "info"
	Desc     string                 `json:"desc,omitempty" yaml:"desc,omitempty"`
	When     *Selector              `json:"when,omitempty" yaml:"when,omitempty"`
	Check    map[string]interface{} `json:"check,omitempty" yaml:"check,omitempty"` // Engine-specific config
	Message  string                 `json:"message,omitempty" yaml:"message,omitempty"`
}

// UnmarshalYAML decodes a rule, treating a missing enabled key as true.
func (r *Rule) UnmarshalYAML(value *yaml.Node) error {
	type plain Rule
	p := plain{Enabled: true}
	if err := value.Decode(&p); err != nil {
		return err
	}
	*r = Rule(p)
	return nil
}

// Selector defines when a rule applies.
type Selector struct {
	Languages []string `json:"languages,omitempty" yaml:"languages,omitempty"` // ["csharp", "java"]
	Include   []string `json:"include,omitempty" yaml:"include,omitempty"`     // ["src/**/*.cs"]
	Exclude   []string `json:"exclude,omitempty" yaml:"exclude,omitempty"`     // ["**/obj/**"]
}

// ValidationResult is the outcome of validating files against a rule.
type ValidationResult struct {
	RuleID     string        `json:"ruleId"`
	Passed     bool          `json:"passed"`
	Violations []Violation   `json:"violations,omitempty"`
	Metrics    *Metrics      `json:"metrics,omitempty"`
	Duration   time.Duration `json:"-"` // Serialized separately
	Engine     string        `json:"engine"`
}

// Violation represents a single rule violation.
type Violation struct {
	File       string                 `json:"file"`
	Line       int                    `json:"line"`   // 1-indexed, 0 if N/A
	Column     int                    `json:"column"` // 1-indexed, 0 if N/A
	Message    string                 `json:"message"`
	Severity   string                 `json:"severity"` // "error", "warning", "info"
	RuleID     string                 `json:"ruleId"`
	Category   string                 `json:"category,omitempty"`
	Kind       string                 `json:"kind,omitempty"` // suggestion kind or "error-<code>"
	Suggestion *Suggestion            `json:"suggestion,omitempty"`
	Context    map[string]interface{} `json:"context,omitempty"` // Extra info
}

// Suggestion represents a rename proposal.
type Suggestion struct {
	Desc        string `json:"desc"`
	Replacement string `json:"replacement,omitempty"`
}

// Metrics contains validation metrics.
type Metrics struct {
	FilesProcessed int `json:"filesProcessed"`
	FilesFailed    int `json:"filesFailed,omitempty"`
	Tokens         int `json:"tokens"`
	Directives     int `json:"directives,omitempty"`
}

// String returns a human-readable violation description.
// Format: "path/to/File.cs:10:5: message [RULE-ID]"
func (v *Violation) String() string {
	loc := v.File
	if v.Line > 0 {
		loc = fmt.Sprintf("%s:%d", loc, v.Line)
		if v.Column > 0 {
			loc = fmt.Sprintf("%s:%d", loc, v.Column)
		}
	}
	return fmt.Sprintf("%s: %s [%s]", loc, v.Message, v.RuleID)
}

// IsError reports whether v has error severity.
func (v *Violation) IsError() bool {
	return v.Severity == SeverityError
}

// MarshalJSON customizes JSON serialization for ValidationResult.
// Converts Duration to string (e.g., "1.5s").
func (r *ValidationResult) MarshalJSON() ([]byte, error) {
	type Alias ValidationResult
	return json.Marshal(&struct {
		Duration string `json:"duration"`
		*Alias
	}{
		Duration: r.Duration.String(),
		Alias:    (*Alias)(r),
	})
}

// GetString safely extracts a string value from Check config.
// Returns empty string if key doesn't exist or type mismatch.
func (r *Rule) GetString(key string) string {
	if v, ok := r.Check[key]; ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

// GetInt safely extracts an int value from Check config.
// Returns 0 if key doesn't exist or type mismatch.
func (r *Rule) GetInt(key string) int {
	if v, ok := r.Check[key]; ok {
		switch val := v.(type) {
		case int:
			return val
		case int64:
			return int(val)
		case float64: // JSON numbers are float64
			return int(val)
		}
	}
	return 0
}

// GetBool safely extracts a bool value from Check config.
// Returns false if key doesn't exist or type mismatch.
func (r *Rule) GetBool(key string) bool {
	if v, ok := r.Check[key]; ok {
		if b, ok := v.(bool); ok {
			return b
		}
	}
	return false
}

// GetStringSlice safely extracts a []string from Check config.
// Returns nil if key doesn't exist or type mismatch.
func (r *Rule) GetStringSlice(key string) []string {
	if v, ok := r.Check[key]; ok {
		// YAML and JSON decode sequences as []interface{}
		if arr, ok := v.([]interface{}); ok {
			result := make([]string, 0, len(arr))
			for _, item := range arr {
				if s, ok := item.(string); ok {
					result = append(result, s)
				}
			}
			return result
		}
		if arr, ok := v.([]string); ok {
			return arr
		}
	}
	return nil
}

// SeverityOr returns the rule severity, or def when none is set.
func (r *Rule) SeverityOr(def string) string {
	if r.Severity == "" {
		return def
	}
	return r.Severity
}
