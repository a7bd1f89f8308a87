package cleancode

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DevSymphony/codecleaner/internal/cleaner"
	"github.com/DevSymphony/codecleaner/internal/engine/core"
)

const orderSource = `class order
{
    void Add(int amount)
    {
        total = amount;
    }
}
`

const sizeSource = `class Order
{
    void Add(int first, int second)
    {
    }
}
`

const nestedSource = `class Order
{
    void Add(int amount)
    {
        if (amount > 0)
        {
            amount = 0;
        }
    }
}
`

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func newEngine(t *testing.T, cfg core.EngineConfig) *Engine {
	t.Helper()
	e := NewEngine()
	require.NoError(t, e.Init(context.Background(), cfg))
	return e
}

func TestValidate_SuggestionsAndErrors(t *testing.T) {
	dir := t.TempDir()
	file := writeFile(t, dir, "Order.cs", orderSource)
	e := newEngine(t, core.EngineConfig{})

	res, err := e.Validate(context.Background(), core.Rule{ID: "clean", Enabled: true}, []string{file})
	require.NoError(t, err)

	assert.Equal(t, Name, res.Engine)
	assert.False(t, res.Passed)
	require.Len(t, res.Violations, 2)

	naming := res.Violations[0]
	assert.Equal(t, file, naming.File)
	assert.Equal(t, 1, naming.Line)
	assert.Equal(t, core.SeverityWarning, naming.Severity)
	assert.Equal(t, CategoryNaming, naming.Category)
	assert.Equal(t, "upper-case", naming.Kind)
	require.NotNil(t, naming.Suggestion)
	assert.Equal(t, "Order", naming.Suggestion.Replacement)
	assert.Equal(t, "order", naming.Context["word"])

	scope := res.Violations[1]
	assert.Equal(t, 5, scope.Line)
	assert.Equal(t, core.SeverityError, scope.Severity)
	assert.Equal(t, CategoryScope, scope.Category)
	assert.Equal(t, "error-214", scope.Kind)
	assert.True(t, scope.IsError())

	require.NotNil(t, res.Metrics)
	assert.Equal(t, 1, res.Metrics.FilesProcessed)
	assert.Positive(t, res.Metrics.Tokens)
}

func TestValidate_KindsFilterAndSkipErrors(t *testing.T) {
	file := writeFile(t, t.TempDir(), "Order.cs", orderSource)
	e := newEngine(t, core.EngineConfig{})

	rule := core.Rule{
		ID: "sizes",
		Check: map[string]interface{}{
			"kinds":       []interface{}{"line-count", "parameter-count"},
			"skip_errors": true,
		},
	}
	res, err := e.Validate(context.Background(), rule, []string{file})
	require.NoError(t, err)
	assert.True(t, res.Passed)
	assert.Empty(t, res.Violations)
}

func TestValidate_UnknownKind(t *testing.T) {
	e := newEngine(t, core.EngineConfig{})
	rule := core.Rule{ID: "bad", Check: map[string]interface{}{"kinds": []interface{}{"shouting"}}}

	_, err := e.Validate(context.Background(), rule, nil)
	assert.Error(t, err)
}

func TestValidate_RuleThresholdsOverrideConfig(t *testing.T) {
	file := writeFile(t, t.TempDir(), "Order.cs", sizeSource)
	limits := cleaner.DefaultThresholds()
	limits.MaxParameters = 3
	e := newEngine(t, core.EngineConfig{Thresholds: &limits})

	res, err := e.Validate(context.Background(), core.Rule{ID: "size"}, []string{file})
	require.NoError(t, err)
	assert.Empty(t, res.Violations)

	rule := core.Rule{ID: "size", Severity: core.SeverityError, Check: map[string]interface{}{"max_params": 1}}
	res, err = e.Validate(context.Background(), rule, []string{file})
	require.NoError(t, err)
	require.Len(t, res.Violations, 1)
	assert.Equal(t, "parameter-count", res.Violations[0].Kind)
	assert.Equal(t, CategorySize, res.Violations[0].Category)
	assert.Equal(t, core.SeverityError, res.Violations[0].Severity)
	assert.Equal(t, "More than 1 parameter!", res.Violations[0].Message)
	assert.Nil(t, res.Violations[0].Suggestion)
}

func TestValidate_ZeroIndentLimit(t *testing.T) {
	file := writeFile(t, t.TempDir(), "Order.cs", nestedSource)
	e := newEngine(t, core.EngineConfig{})

	res, err := e.Validate(context.Background(), core.Rule{ID: "size"}, []string{file})
	require.NoError(t, err)
	assert.Empty(t, res.Violations)

	rule := core.Rule{ID: "size", Check: map[string]interface{}{"max_indent": 0}}
	res, err = e.Validate(context.Background(), rule, []string{file})
	require.NoError(t, err)
	require.Len(t, res.Violations, 1)
	assert.Equal(t, "indent-block-count", res.Violations[0].Kind)
	assert.Equal(t, "More than 0 indent block!", res.Violations[0].Message)
}

func TestValidate_RuleMessageAndSelector(t *testing.T) {
	dir := t.TempDir()
	cs := writeFile(t, dir, "Order.cs", orderSource)
	java := writeFile(t, dir, "Order.java", orderSource)
	e := newEngine(t, core.EngineConfig{})

	rule := core.Rule{
		ID:      "naming",
		Message: "Use PascalCase for types",
		When:    &core.Selector{Languages: []string{"java"}},
		Check:   map[string]interface{}{"kinds": []interface{}{"upper-case"}},
	}
	res, err := e.Validate(context.Background(), rule, []string{cs, java})
	require.NoError(t, err)

	require.Len(t, res.Violations, 2)
	assert.Equal(t, java, res.Violations[0].File)
	assert.Equal(t, "Use PascalCase for types", res.Violations[0].Message)
	assert.Equal(t, "error-214", res.Violations[1].Kind)
	assert.Equal(t, 1, res.Metrics.FilesProcessed)
}

func TestValidate_MissingFile(t *testing.T) {
	e := newEngine(t, core.EngineConfig{})
	_, err := e.Validate(context.Background(), core.Rule{ID: "clean"}, []string{filepath.Join(t.TempDir(), "Gone.cs")})
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestValidate_Cancelled(t *testing.T) {
	file := writeFile(t, t.TempDir(), "Order.cs", orderSource)
	e := newEngine(t, core.EngineConfig{})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := e.Validate(ctx, core.Rule{ID: "clean"}, []string{file})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestCategoryOf(t *testing.T) {
	assert.Equal(t, CategoryNaming, CategoryOf(cleaner.MeaninglessWord))
	assert.Equal(t, CategoryNaming, CategoryOf(cleaner.LowerCase))
	assert.Equal(t, CategorySize, CategoryOf(cleaner.IndentBlockCount))
}

func TestGetCapabilities(t *testing.T) {
	caps := NewEngine().GetCapabilities()
	assert.Equal(t, Name, caps.Name)
	assert.True(t, caps.SupportsAutofix)
	assert.Contains(t, caps.SupportedLanguages, "csharp")
}
