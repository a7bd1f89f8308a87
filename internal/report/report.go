// Package report renders validation results as text, JSON or HTML.
package report

import (
	"embed"
	"encoding/json"
	"fmt"
	"html/template"
	"io"
	"strings"

	"github.com/DevSymphony/codecleaner/internal/engine/core"
	"github.com/DevSymphony/codecleaner/internal/ui"
	"github.com/DevSymphony/codecleaner/internal/validator"
)

// Format selects a renderer.
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
	FormatHTML Format = "html"
)

// ParseFormat accepts text, json and html, case-insensitively.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatText, FormatJSON, FormatHTML:
		return f, nil
	case "":
		return FormatText, nil
	default:
		return "", fmt.Errorf("unknown format %q (want text, json or html)", s)
	}
}

//go:embed templates/report.html
var templates embed.FS

var htmlTemplate = template.Must(template.ParseFS(templates, "templates/report.html"))

// FileReport holds the violations of one file.
type FileReport struct {
	File       string           `json:"file"`
	Violations []core.Violation `json:"violations"`
}

// Summary counts the whole run.
type Summary struct {
	Files       int `json:"files"`
	Errors      int `json:"errors"`
	Suggestions int `json:"suggestions"`
	Failed      int `json:"failed"`
}

// Report is the renderer-independent view of a Result.
type Report struct {
	Title   string                      `json:"-"`
	Files   []FileReport                `json:"files"`
	Errors  []validator.ValidationError `json:"errors,omitempty"`
	Summary Summary                     `json:"summary"`
}

// Build groups the violations of res by file, in checked-file order.
func Build(res *validator.Result) *Report {
	r := &Report{
		Title:  "Clean code report",
		Files:  make([]FileReport, 0, len(res.Files)),
		Errors: res.Errors,
		Summary: Summary{
			Files:       res.Checked,
			Errors:      res.ErrorCount(),
			Suggestions: res.SuggestionCount(),
			Failed:      res.Failed,
		},
	}

	byFile := make(map[string][]core.Violation)
	for _, v := range res.Violations {
		byFile[v.File] = append(byFile[v.File], v)
	}
	for _, f := range res.Files {
		vs := byFile[f]
		if vs == nil {
			vs = []core.Violation{}
		}
		r.Files = append(r.Files, FileReport{File: f, Violations: vs})
	}
	return r
}

// Options tune the renderers.
type Options struct {
	// Color enables ANSI colors in the text format.
	Color bool
}

// Write renders res in format.
func Write(w io.Writer, format Format, res *validator.Result, opts Options) error {
	r := Build(res)
	switch format {
	case FormatJSON:
		return WriteJSON(w, r)
	case FormatHTML:
		return WriteHTML(w, r)
	default:
		return WriteText(w, r, opts)
	}
}

// WriteJSON writes r as indented JSON.
func WriteJSON(w io.Writer, r *Report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(r); err != nil {
		return fmt.Errorf("failed to write JSON report: %w", err)
	}
	return nil
}

// WriteHTML writes r as a standalone HTML page.
func WriteHTML(w io.Writer, r *Report) error {
	if err := htmlTemplate.Execute(w, r); err != nil {
		return fmt.Errorf("failed to write HTML report: %w", err)
	}
	return nil
}

// WriteText writes one block per file with violations, then a summary line.
func WriteText(w io.Writer, r *Report, opts Options) error {
	var b strings.Builder

	for _, e := range r.Errors {
		fmt.Fprintf(&b, "%s %s: %s [%s]\n", ui.Paint(opts.Color, ui.Red, "[ERROR]"), e.File, e.Message, e.RuleID)
	}

	for _, f := range r.Files {
		if len(f.Violations) == 0 {
			continue
		}
		fmt.Fprintln(&b, ui.Paint(opts.Color, ui.Bold, f.File))
		for _, v := range f.Violations {
			loc := fmt.Sprintf("%d:%d", v.Line, v.Column)
			sev := fmt.Sprintf("%-7s", v.Severity)
			fmt.Fprintf(&b, "  %-8s %s  %s  %s\n",
				loc,
				ui.Paint(opts.Color, ui.SeverityColor(v.Severity), sev),
				v.Message,
				ui.Paint(opts.Color, ui.Gray, fmt.Sprintf("%s [%s]", v.Kind, v.RuleID)))
		}
		fmt.Fprintln(&b)
	}

	s := r.Summary
	fmt.Fprintf(&b, "%d %s checked, %d %s, %d %s\n",
		s.Files, plural(s.Files, "file"),
		s.Errors, plural(s.Errors, "error"),
		s.Suggestions, plural(s.Suggestions, "suggestion"))

	if _, err := io.WriteString(w, b.String()); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	return nil
}

func plural(n int, word string) string {
	if n == 1 {
		return word
	}
	return word + "s"
}
