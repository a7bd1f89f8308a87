package metrics

import (
	"bytes"
	"sync"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecorder_Counters(t *testing.T) {
	r := New()

	r.FileDone(120, 2, 0.01)
	r.FileDone(30, 0, 0.02)
	r.FileFailed()
	r.Suggestion("meaningless-word")
	r.Suggestion("meaningless-word")
	r.Suggestion("line-count")
	r.Error(214)

	assert.Equal(t, 2.0, testutil.ToFloat64(r.FilesTotal.WithLabelValues("ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.FilesTotal.WithLabelValues("failed")))
	assert.Equal(t, 150.0, testutil.ToFloat64(r.TokensTotal))
	assert.Equal(t, 2.0, testutil.ToFloat64(r.DirectivesTotal))
	assert.Equal(t, 2.0, testutil.ToFloat64(r.SuggestionsTotal.WithLabelValues("meaningless-word")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.ErrorsTotal.WithLabelValues("214")))
	assert.Equal(t, 2, testutil.CollectAndCount(r.SuggestionsTotal))
}

func TestRecorder_Concurrent(t *testing.T) {
	r := New()

	var wg sync.WaitGroup
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range 100 {
				r.Suggestion("upper-case")
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 800.0, testutil.ToFloat64(r.SuggestionsTotal.WithLabelValues("upper-case")))
}

func TestRecorder_WriteText(t *testing.T) {
	r := New()
	r.FileDone(10, 0, 0.001)
	r.Error(2)

	var buf bytes.Buffer
	require.NoError(t, r.WriteText(&buf))

	out := buf.String()
	assert.Contains(t, out, "# TYPE codecleaner_files_total counter")
	assert.Contains(t, out, `codecleaner_files_total{outcome="ok"} 1`)
	assert.Contains(t, out, `codecleaner_errors_total{code="2"} 1`)
	assert.Contains(t, out, "codecleaner_tokens_total 10")
}

func TestRecorder_PrivateRegistries(t *testing.T) {
	a, b := New(), New()
	a.Suggestion("upper-case")

	assert.Equal(t, 0.0, testutil.ToFloat64(b.SuggestionsTotal.WithLabelValues("upper-case")))
	assert.NotSame(t, a.Registry(), b.Registry())
}
