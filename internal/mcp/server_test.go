package mcp

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DevSymphony/codecleaner/internal/config"
	"github.com/DevSymphony/codecleaner/internal/engine/core"
	"github.com/DevSymphony/codecleaner/internal/report"
)

const orderSource = `class order
{
    void Add(int amount)
    {
        total = amount;
    }
}
`

func TestAnalyzeCode_Content(t *testing.T) {
	server := NewServer(config.Default())

	result, rpcErr := server.handleAnalyzeCode(context.Background(), AnalyzeCodeInput{Content: orderSource})
	require.Nil(t, rpcErr)

	assert.Equal(t, defaultFilename, result["file"])
	assert.Equal(t, 1, result["errorCount"])

	suggestions := result["suggestions"].([]SuggestionItem)
	require.Len(t, suggestions, 1)
	assert.Equal(t, "upper-case", suggestions[0].Kind)
	assert.Equal(t, 1, suggestions[0].Line)
	assert.Equal(t, "Order", suggestions[0].Fix)

	errs := result["errors"].([]ErrorItem)
	require.NotEmpty(t, errs)
	assert.Equal(t, 214, errs[0].Code)
	assert.Equal(t, "semantic", errs[0].Phase)
	assert.Equal(t, 5, errs[0].Line)

	assert.Contains(t, result["summary"], "Clean code suggestion in line 1")
}

func TestAnalyzeCode_Path(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "Order.cs"), []byte(orderSource), 0o644))
	server := NewServer(config.Default(), WithWorkDir(dir))

	result, rpcErr := server.handleAnalyzeCode(context.Background(), AnalyzeCodeInput{Path: "Order.cs"})
	require.Nil(t, rpcErr)
	assert.Equal(t, filepath.Join(dir, "Order.cs"), result["file"])
	assert.Len(t, result["suggestions"], 1)
}

func TestAnalyzeCode_Clean(t *testing.T) {
	server := NewServer(nil)

	result, rpcErr := server.handleAnalyzeCode(context.Background(), AnalyzeCodeInput{
		Content:  "class Clean\n{\n}\n",
		Filename: "Clean.cs",
	})
	require.Nil(t, rpcErr)
	assert.Empty(t, result["suggestions"])
	assert.Equal(t, "✓ Clean.cs: no suggestions, no errors", result["summary"])
}

func TestAnalyzeCode_Errors(t *testing.T) {
	server := NewServer(config.Default(), WithWorkDir(t.TempDir()))

	_, rpcErr := server.handleAnalyzeCode(context.Background(), AnalyzeCodeInput{})
	require.NotNil(t, rpcErr)
	assert.Equal(t, -32602, rpcErr.Code)

	_, rpcErr = server.handleAnalyzeCode(context.Background(), AnalyzeCodeInput{Path: "Missing.cs"})
	require.NotNil(t, rpcErr)
	assert.Contains(t, rpcErr.Message, "Missing.cs")
}

func TestValidateCode(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "Order.cs"), []byte(orderSource), 0o644))
	server := NewServer(config.Default(), WithWorkDir(dir))

	result, rpcErr := server.handleValidateCode(context.Background(), ValidateCodeInput{})
	require.Nil(t, rpcErr)

	assert.Equal(t, false, result["passed"])
	summary := result["summary"].(report.Summary)
	assert.Equal(t, 1, summary.Files)
	assert.Equal(t, 1, summary.Errors)
	assert.Equal(t, 1, summary.Suggestions)
	assert.Contains(t, result["report"], "1 file checked, 1 error, 1 suggestion")
}

func TestListRules(t *testing.T) {
	server := NewServer(config.Default())

	result, rpcErr := server.handleListRules()
	require.Nil(t, rpcErr)

	rules := result["rules"].([]map[string]any)
	require.Len(t, rules, 2)
	assert.Equal(t, "clean-code", rules[0]["id"])
	assert.Contains(t, result["kinds"], "meaningless-word")

	engines := result["engines"].([]core.EngineCapabilities)
	require.Len(t, engines, 2)
	assert.Equal(t, "cleancode", engines[0].Name)
	assert.Equal(t, "lexical", engines[1].Name)
	assert.Equal(t, 4, result["thresholds"].(map[string]int)["max_params"])
	assert.Equal(t, []string{"csharp"}, result["languages"])
}

func TestSDKServer_RegistersTools(t *testing.T) {
	assert.NotPanics(t, func() {
		NewServer(config.Default()).sdkServer()
	})
}
