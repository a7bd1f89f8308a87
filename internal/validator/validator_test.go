package validator

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DevSymphony/codecleaner/internal/config"
	"github.com/DevSymphony/codecleaner/internal/engine/core"
	"github.com/DevSymphony/codecleaner/internal/metrics"
)

const orderSource = `class order
{
    void Add(int amount)
    {
        total = amount;
    }
}
`

const cleanSource = `class Clean
{
    int Count()
    {
        return 1;
    }
}
`

func writeTree(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		path := filepath.Join(dir, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
	return dir
}

func rel(t *testing.T, dir string, files []string) []string {
	t.Helper()
	out := make([]string, len(files))
	for i, f := range files {
		r, err := filepath.Rel(dir, f)
		require.NoError(t, err)
		out[i] = filepath.ToSlash(r)
	}
	return out
}

func TestGetDefaultConcurrency(t *testing.T) {
	result := getDefaultConcurrency()
	assert.GreaterOrEqual(t, result, 1, "concurrency should be at least 1")
	assert.LessOrEqual(t, result, 8, "concurrency should be at most 8")
}

func TestSelectFiles(t *testing.T) {
	dir := writeTree(t, map[string]string{
		"src/Order.cs":        orderSource,
		"src/Main.java":       "class Main {}",
		"obj/Gen.cs":          "class Gen {}",
		".git/Hook.cs":        "class Hook {}",
		"node_modules/Lib.cs": "class Lib {}",
		"notes.txt":           "notes",
	})
	v := New(config.Default())

	files, err := v.SelectFiles([]string{dir})
	require.NoError(t, err)
	assert.Equal(t, []string{"src/Order.cs"}, rel(t, dir, files))

	files, err = v.SelectFiles([]string{filepath.Join(dir, "notes.txt"), dir, filepath.Join(dir, "src", "Order.cs")})
	require.NoError(t, err)
	assert.Equal(t, []string{"notes.txt", "src/Order.cs"}, rel(t, dir, files))

	files, err = v.SelectFiles([]string{filepath.Join(dir, "obj", "Gen.cs")})
	require.NoError(t, err)
	assert.Empty(t, files)

	_, err = v.SelectFiles([]string{filepath.Join(dir, "missing")})
	assert.Error(t, err)
}

func TestSelectFiles_Patterns(t *testing.T) {
	dir := writeTree(t, map[string]string{
		"src/Order.cs":     orderSource,
		"src/sub/Clean.cs": cleanSource,
		"src/Main.java":    "class Main {}",
		"src/obj/Gen.cs":   "class Gen {}",
	})
	v := New(config.Default())

	files, err := v.SelectFiles([]string{filepath.Join(dir, "src", "**", "*")})
	require.NoError(t, err)
	assert.Equal(t, []string{"src/Order.cs", "src/sub/Clean.cs"}, rel(t, dir, files))
}

func TestSelectFiles_IncludeRelativeToRoot(t *testing.T) {
	dir := writeTree(t, map[string]string{
		"src/Order.cs":  orderSource,
		"test/Order.cs": orderSource,
	})
	cfg := config.Default()
	cfg.Include = []string{"src/**"}

	files, err := New(cfg).SelectFiles([]string{dir})
	require.NoError(t, err)
	assert.Equal(t, []string{"src/Order.cs"}, rel(t, dir, files))
}

func TestValidate(t *testing.T) {
	dir := writeTree(t, map[string]string{
		"Order.cs": orderSource,
		"Clean.cs": cleanSource,
	})
	rec := metrics.New()
	v := New(config.Default(), WithMetrics(rec))

	res, err := v.Validate(context.Background(), []string{dir})
	require.NoError(t, err)

	assert.Equal(t, 2, res.Checked)
	assert.Equal(t, 1, res.Failed)
	assert.Equal(t, 1, res.Passed)
	assert.Empty(t, res.Errors)
	assert.Positive(t, res.Tokens)

	require.Len(t, res.Violations, 2)
	assert.Equal(t, "upper-case", res.Violations[0].Kind)
	assert.Equal(t, "clean-code", res.Violations[0].RuleID)
	assert.Equal(t, "error-214", res.Violations[1].Kind)
	assert.Equal(t, 1, res.ErrorCount())
	assert.Equal(t, 1, res.SuggestionCount())

	assert.Equal(t, 2.0, testutil.ToFloat64(rec.FilesTotal.WithLabelValues("ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(rec.ErrorsTotal.WithLabelValues("214")))
	assert.Equal(t, 1.0, testutil.ToFloat64(rec.SuggestionsTotal.WithLabelValues("upper-case")))
}

func TestValidate_DeterministicAcrossConcurrency(t *testing.T) {
	files := map[string]string{}
	for _, name := range []string{"A.cs", "B.cs", "C.cs", "D.cs", "E.cs", "F.cs"} {
		files[name] = orderSource + "#warning check\n"
	}
	dir := writeTree(t, files)

	run := func(concurrency int) []core.Violation {
		cfg := config.Default()
		cfg.Concurrency = concurrency
		res, err := New(cfg).Validate(context.Background(), []string{dir})
		require.NoError(t, err)
		return res.Violations
	}

	serial := run(1)
	assert.Len(t, serial, 18)
	for range 3 {
		assert.Equal(t, serial, run(8))
	}
}

func TestValidate_FileErrorsDoNotAbort(t *testing.T) {
	dir := writeTree(t, map[string]string{
		"Bad.cs":   "\xEF\xBB\x00class Bad {}",
		"Clean.cs": cleanSource,
	})
	rec := metrics.New()

	res, err := New(config.Default(), WithMetrics(rec)).Validate(context.Background(), []string{dir})
	require.NoError(t, err)

	require.Len(t, res.Errors, 2)
	assert.Equal(t, filepath.Join(dir, "Bad.cs"), res.Errors[0].File)
	assert.Equal(t, "cleancode", res.Errors[0].Engine)
	assert.Equal(t, "lexical", res.Errors[1].Engine)
	assert.Equal(t, 1, res.Failed)
	assert.Equal(t, 1, res.Passed)
	assert.Equal(t, 1.0, testutil.ToFloat64(rec.FilesTotal.WithLabelValues("failed")))
}

func TestValidate_RuleSelector(t *testing.T) {
	dir := writeTree(t, map[string]string{"Order.cs": orderSource})
	cfg := config.Default()
	cfg.Rules = []core.Rule{{
		ID:      "naming-only-in-src",
		Engine:  "cleancode",
		Enabled: true,
		When:    &core.Selector{Include: []string{"**/src/**"}},
	}}

	res, err := New(cfg).Validate(context.Background(), []string{dir})
	require.NoError(t, err)
	assert.Empty(t, res.Violations)
	assert.Equal(t, 1, res.Passed)
}

func TestValidate_UnknownEngine(t *testing.T) {
	dir := writeTree(t, map[string]string{"Order.cs": orderSource})
	cfg := config.Default()
	cfg.Rules = []core.Rule{{ID: "x", Engine: "nope", Enabled: true}}

	_, err := New(cfg).Validate(context.Background(), []string{dir})
	assert.Error(t, err)
}

func TestValidate_Cancelled(t *testing.T) {
	dir := writeTree(t, map[string]string{"Order.cs": orderSource})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := New(config.Default()).Validate(ctx, []string{dir})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestWatch(t *testing.T) {
	dir := writeTree(t, map[string]string{"Order.cs": orderSource})
	v := New(config.Default())

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	results := make(chan *Result, 4)
	done := make(chan error, 1)
	go func() {
		done <- v.Watch(ctx, []string{dir}, 50*time.Millisecond, func(r *Result, err error) {
			if err != nil {
				return
			}
			select {
			case results <- r:
			default:
			}
		})
	}()

	first := <-results
	assert.Len(t, first.Violations, 2)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "Order.cs"), []byte(cleanSource), 0o644))

	select {
	case second := <-results:
		assert.Empty(t, second.Violations)
	case <-ctx.Done():
		t.Fatal("no result after change")
	}

	cancel()
	assert.NoError(t, <-done)
}
