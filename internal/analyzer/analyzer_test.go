package analyzer

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DevSymphony/codecleaner/internal/cleaner"
	"github.com/DevSymphony/codecleaner/internal/diagnostics"
	"github.com/DevSymphony/codecleaner/internal/dictionary"
	"github.com/DevSymphony/codecleaner/internal/source"
)

const sample = `class order
{
    void Add(int amount)
    {
        total = amount;
    }
}
`

func TestAnalyzeString(t *testing.T) {
	res, err := AnalyzeString(context.Background(), "order.cs", sample, Options{})
	require.NoError(t, err)

	assert.Equal(t, "order.cs", res.Name)
	require.Len(t, res.Suggestions, 1)
	assert.Equal(t, cleaner.UpperCase, res.Suggestions[0].Kind)
	assert.Equal(t, "Order", res.Suggestions[0].Fix)

	assert.Equal(t, 1, res.ErrorCount)
	sem := res.Semantic()
	require.Len(t, sem, 1)
	assert.Equal(t, diagnostics.CodeUndeclared, sem[0].Code)
	assert.Equal(t, 5, sem[0].Line)

	assert.Equal(t, 1, res.Stats.Types)
	assert.Equal(t, 1, res.Stats.Functions)
}

func TestAnalyze_Options(t *testing.T) {
	words, err := dictionary.New(dictionary.WithWords("frobnicate"))
	require.NoError(t, err)

	var out bytes.Buffer
	src := "class Frobnicate { void Run(int a, int b) { } }"
	limits := cleaner.DefaultThresholds()
	limits.MaxParameters = 1
	res, err := AnalyzeString(context.Background(), "x.cs", src, Options{
		Words:       words,
		Thresholds:  &limits,
		Suggestions: &out,
	})
	require.NoError(t, err)

	var kinds []cleaner.Kind
	for _, s := range res.Suggestions {
		kinds = append(kinds, s.Kind)
	}
	assert.Equal(t, []cleaner.Kind{cleaner.MeaninglessWord, cleaner.MeaninglessWord, cleaner.ParameterCount}, kinds)
	assert.Contains(t, out.String(), "More than 1 parameter!")
}

func TestAnalyzeFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "order.cs")
	require.NoError(t, os.WriteFile(path, []byte(sample), 0o644))

	res, err := AnalyzeFile(context.Background(), path, Options{})
	require.NoError(t, err)
	assert.Equal(t, path, res.Name)
	assert.Len(t, res.Suggestions, 1)

	_, err = AnalyzeFile(context.Background(), filepath.Join(t.TempDir(), "missing.cs"), Options{})
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestAnalyze_BadByteOrderMark(t *testing.T) {
	_, err := AnalyzeString(context.Background(), "bom.cs", "\xEF\xBB\x00class A {}", Options{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, source.ErrBadBOM))
}

func TestAnalyze_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var src bytes.Buffer
	src.WriteString("class Data {\n")
	for range 2000 {
		src.WriteString("int value;\n")
	}
	src.WriteString("}\n")

	_, err := Analyze(ctx, "big.cs", &src, Options{})
	assert.ErrorIs(t, err, context.Canceled)
}
