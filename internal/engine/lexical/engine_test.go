package lexical

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DevSymphony/codecleaner/internal/engine/core"
	"github.com/DevSymphony/codecleaner/internal/lexer"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func validate(t *testing.T, rule core.Rule, files ...string) *core.ValidationResult {
	t.Helper()
	e := NewEngine()
	require.NoError(t, e.Init(context.Background(), core.EngineConfig{}))
	res, err := e.Validate(context.Background(), rule, files)
	require.NoError(t, err)
	return res
}

func kinds(vs []core.Violation) []string {
	var out []string
	for _, v := range vs {
		out = append(out, v.Kind)
	}
	return out
}

func TestValidate_Clean(t *testing.T) {
	file := writeFile(t, "Order.cs", "#region Model\nclass Order { }\n#endregion\n")

	res := validate(t, core.Rule{ID: "lex"}, file)
	assert.True(t, res.Passed)
	assert.Empty(t, res.Violations)
	assert.Equal(t, 1, res.Metrics.FilesProcessed)
	assert.Equal(t, 4, res.Metrics.Tokens)
	assert.Equal(t, 2, res.Metrics.Directives)
}

func TestValidate_IllegalCharacter(t *testing.T) {
	file := writeFile(t, "Order.cs", "class Order {\n  int count = 1 $ 2;\n}\n")

	res := validate(t, core.Rule{ID: "lex"}, file)
	require.Len(t, res.Violations, 1)

	v := res.Violations[0]
	assert.Equal(t, KindIllegalCharacter, v.Kind)
	assert.Equal(t, 2, v.Line)
	assert.Equal(t, 17, v.Column)
	assert.Equal(t, core.SeverityError, v.Severity)
	assert.Equal(t, CategoryLexical, v.Category)
	assert.Equal(t, `illegal character "$"`, v.Message)
}

func TestValidate_Directives(t *testing.T) {
	src := "#error Do not build\n" +
		"#warning Slow path\n" +
		"#if DEBUG\n" +
		"#endif\n" +
		"#endif\n" +
		"#region Open\n" +
		"class Order { }\n"
	file := writeFile(t, "Order.cs", src)

	res := validate(t, core.Rule{ID: "lex"}, file)
	assert.Equal(t, []string{KindErrorDirective, KindWarningDirective, KindUnbalanced, KindUnbalanced}, kinds(res.Violations))

	assert.Equal(t, "Do not build", res.Violations[0].Message)
	assert.Equal(t, core.SeverityError, res.Violations[0].Severity)
	assert.Equal(t, "Slow path", res.Violations[1].Message)
	assert.Equal(t, core.SeverityWarning, res.Violations[1].Severity)
	assert.Equal(t, "#endif without #if", res.Violations[2].Message)
	assert.Equal(t, 5, res.Violations[2].Line)
	assert.Equal(t, "#region without #endregion", res.Violations[3].Message)
	assert.Equal(t, 6, res.Violations[3].Line)
	assert.Equal(t, 6, res.Metrics.Directives)
}

func TestValidate_SkipDirectivesAndOverrides(t *testing.T) {
	file := writeFile(t, "Order.cs", "#error Stop\nclass Order { int x = 1 ` 2; }\n")

	rule := core.Rule{
		ID:       "lex",
		Severity: core.SeverityWarning,
		Message:  "Remove stray characters",
		Check:    map[string]interface{}{"skip_directives": true},
	}
	res := validate(t, rule, file)
	require.Len(t, res.Violations, 1)
	assert.Equal(t, KindIllegalCharacter, res.Violations[0].Kind)
	assert.Equal(t, core.SeverityWarning, res.Violations[0].Severity)
	assert.Equal(t, "Remove stray characters", res.Violations[0].Message)
}

func TestValidate_SelectorAndMissingFile(t *testing.T) {
	file := writeFile(t, "notes.txt", "$$$")
	res := validate(t, core.Rule{ID: "lex", When: &core.Selector{Languages: []string{"csharp"}}}, file)
	assert.Empty(t, res.Violations)
	assert.Equal(t, 0, res.Metrics.FilesProcessed)

	e := NewEngine()
	_, err := e.Validate(context.Background(), core.Rule{ID: "lex"}, []string{filepath.Join(t.TempDir(), "Gone.cs")})
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestValidate_Cancelled(t *testing.T) {
	file := writeFile(t, "Order.cs", "class Order { }")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewEngine().Validate(ctx, core.Rule{ID: "lex"}, []string{file})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestDirectiveText(t *testing.T) {
	tests := map[string]string{
		"#error Broken build": "Broken build",
		"#  warning  spaced":  "spaced",
		"#error":              "error",
	}
	for text, want := range tests {
		assert.Equal(t, want, directiveText(lexer.Token{Kind: lexer.DirError, Text: text}), text)
	}
}
