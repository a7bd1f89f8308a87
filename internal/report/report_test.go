package report

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DevSymphony/codecleaner/internal/engine/core"
	"github.com/DevSymphony/codecleaner/internal/validator"
)

func sampleResult() *validator.Result {
	return &validator.Result{
		Files: []string{"src/Order.cs", "src/Clean.cs"},
		Violations: []core.Violation{
			{
				File: "src/Order.cs", Line: 1, Column: 7,
				Message: "Class name should start with upper case", Severity: "warning",
				RuleID: "clean-code", Kind: "upper-case",
				Suggestion: &core.Suggestion{Desc: "Rename order to Order", Replacement: "Order"},
			},
			{
				File: "src/Order.cs", Line: 5, Column: 9,
				Message: "Undeclared identifier <total>", Severity: "error",
				RuleID: "clean-code", Kind: "error-214",
			},
		},
		Checked: 2,
		Passed:  1,
		Failed:  1,
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{"text", FormatText, false},
		{"JSON", FormatJSON, false},
		{" html ", FormatHTML, false},
		{"", FormatText, false},
		{"xml", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseFormat(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestBuild(t *testing.T) {
	r := Build(sampleResult())

	require.Len(t, r.Files, 2)
	assert.Equal(t, "src/Order.cs", r.Files[0].File)
	assert.Len(t, r.Files[0].Violations, 2)
	assert.NotNil(t, r.Files[1].Violations)
	assert.Empty(t, r.Files[1].Violations)
	assert.Equal(t, Summary{Files: 2, Errors: 1, Suggestions: 1, Failed: 1}, r.Summary)
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, FormatJSON, sampleResult(), Options{}))

	var got struct {
		Files []struct {
			File       string           `json:"file"`
			Violations []core.Violation `json:"violations"`
		} `json:"files"`
		Summary struct {
			Errors      int `json:"errors"`
			Suggestions int `json:"suggestions"`
		} `json:"summary"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))

	require.Len(t, got.Files, 2)
	assert.Equal(t, "upper-case", got.Files[0].Violations[0].Kind)
	assert.Equal(t, "Order", got.Files[0].Violations[0].Suggestion.Replacement)
	assert.Equal(t, 1, got.Summary.Errors)
	assert.Equal(t, 1, got.Summary.Suggestions)
	assert.Contains(t, buf.String(), `"violations": []`)
}

func TestWriteText(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, FormatText, sampleResult(), Options{}))

	out := buf.String()
	assert.NotContains(t, out, "\033[")
	assert.Contains(t, out, "src/Order.cs\n")
	assert.Contains(t, out, "1:7")
	assert.Contains(t, out, "Class name should start with upper case")
	assert.Contains(t, out, "error-214 [clean-code]")
	assert.NotContains(t, out, "src/Clean.cs")
	assert.True(t, strings.HasSuffix(out, "2 files checked, 1 error, 1 suggestion\n"))
}

func TestWriteText_Color(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, FormatText, sampleResult(), Options{Color: true}))
	assert.Contains(t, buf.String(), "\033[31m")
}

func TestWriteText_ValidationErrors(t *testing.T) {
	res := &validator.Result{
		Files:   []string{"Bad.cs"},
		Errors:  []validator.ValidationError{{File: "Bad.cs", RuleID: "lexical", Engine: "lexical", Message: "bad byte order mark"}},
		Checked: 1,
		Failed:  1,
	}

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, FormatText, res, Options{}))
	assert.Contains(t, buf.String(), "[ERROR] Bad.cs: bad byte order mark [lexical]")
	assert.Contains(t, buf.String(), "1 file checked, 0 errors, 0 suggestions")
}

func TestWriteHTML(t *testing.T) {
	res := sampleResult()
	res.Violations[1].Message = "Undeclared identifier <total>"

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, FormatHTML, res, Options{}))

	out := buf.String()
	assert.True(t, strings.HasPrefix(out, "<!DOCTYPE html>"))
	assert.Contains(t, out, "<title>Clean code report</title>")
	assert.Contains(t, out, "&lt;total&gt;")
	assert.NotContains(t, out, "<total>")
	assert.Contains(t, out, "Rename order to Order")
	assert.Contains(t, out, `<td class="error">error</td>`)
	assert.NotContains(t, out, "<code>src/Clean.cs</code>")
}
