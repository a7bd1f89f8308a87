// Package metrics counts analysis work in a private Prometheus registry.
//
// The counters are written in the Prometheus text format at the end of a
// run; nothing is served over HTTP. All methods are safe for concurrent use.
package metrics

import (
	"fmt"
	"io"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
)

const namespace = "codecleaner"

// Recorder holds the counters of one process.
type Recorder struct {
	registry *prometheus.Registry

	// FilesTotal counts analyzed files by outcome (ok, failed).
	FilesTotal *prometheus.CounterVec

	// TokensTotal counts tokens delivered to the parser.
	TokensTotal prometheus.Counter

	// DirectivesTotal counts preprocessor directives.
	DirectivesTotal prometheus.Counter

	// SuggestionsTotal counts non-error findings by kind.
	SuggestionsTotal *prometheus.CounterVec

	// ErrorsTotal counts coded errors by code.
	ErrorsTotal *prometheus.CounterVec

	// AnalysisSeconds observes the time spent per file.
	AnalysisSeconds prometheus.Histogram
}

// New creates a Recorder with its own registry.
func New() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		FilesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "files_total",
			Help:      "Analyzed files by outcome",
		}, []string{"outcome"}),
		TokensTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "tokens_total",
			Help:      "Tokens delivered to the parser",
		}),
		DirectivesTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "directives_total",
			Help:      "Preprocessor directives seen",
		}),
		SuggestionsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "suggestions_total",
			Help:      "Suggestions and lexical findings by kind",
		}, []string{"kind"}),
		ErrorsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "errors_total",
			Help:      "Coded syntax and semantic errors by code",
		}, []string{"code"}),
		AnalysisSeconds: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "analysis_seconds",
			Help:      "Time spent analyzing one file",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
		}),
	}

	r.registry.MustRegister(
		r.FilesTotal,
		r.TokensTotal,
		r.DirectivesTotal,
		r.SuggestionsTotal,
		r.ErrorsTotal,
		r.AnalysisSeconds,
	)
	return r
}

// Registry returns the registry the counters are registered with.
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

// FileDone records a successfully analyzed file.
func (r *Recorder) FileDone(tokens, directives int, seconds float64) {
	r.FilesTotal.WithLabelValues("ok").Inc()
	r.TokensTotal.Add(float64(tokens))
	r.DirectivesTotal.Add(float64(directives))
	r.AnalysisSeconds.Observe(seconds)
}

// FileFailed records a file that could not be analyzed.
func (r *Recorder) FileFailed() {
	r.FilesTotal.WithLabelValues("failed").Inc()
}

// Suggestion records one suggestion of the named kind.
func (r *Recorder) Suggestion(kind string) {
	r.SuggestionsTotal.WithLabelValues(kind).Inc()
}

// Error records one coded error.
func (r *Recorder) Error(code int) {
	r.ErrorsTotal.WithLabelValues(strconv.Itoa(code)).Inc()
}

// WriteText writes all counters in the Prometheus text format.
func (r *Recorder) WriteText(w io.Writer) error {
	families, err := r.registry.Gather()
	if err != nil {
		return fmt.Errorf("failed to gather metrics: %w", err)
	}
	for _, mf := range families {
		if _, err := expfmt.MetricFamilyToText(w, mf); err != nil {
			return fmt.Errorf("failed to write metrics: %w", err)
		}
	}
	return nil
}
