// Package mcp exposes the analyzer as Model Context Protocol tools.
package mcp

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/DevSymphony/codecleaner/internal/analyzer"
	"github.com/DevSymphony/codecleaner/internal/cleaner"
	"github.com/DevSymphony/codecleaner/internal/config"
	"github.com/DevSymphony/codecleaner/internal/diagnostics"
	"github.com/DevSymphony/codecleaner/internal/engine/registry"
	"github.com/DevSymphony/codecleaner/internal/report"
	"github.com/DevSymphony/codecleaner/internal/validator"
)

const defaultFilename = "input.cs"

// RPCError is an error type used for internal error handling.
type RPCError struct {
	Code    int
	Message string
}

// AnalyzeCodeInput represents the input schema for the analyze_code tool.
type AnalyzeCodeInput struct {
	Path     string `json:"path,omitempty" jsonschema:"Source file to analyze, relative to the server working directory. Ignored when content is set."`
	Content  string `json:"content,omitempty" jsonschema:"Source text to analyze in memory"`
	Filename string `json:"filename,omitempty" jsonschema:"Name reported for content (optional, defaults to input.cs)"`
	UTF8     bool   `json:"utf8,omitempty" jsonschema:"Decode input without a byte order mark as UTF-8"`
}

// ValidateCodeInput represents the input schema for the validate_code tool.
type ValidateCodeInput struct {
	Paths []string `json:"paths,omitempty" jsonschema:"Files, directories or glob patterns to validate (optional, defaults to the working directory)"`
}

// ListRulesInput represents the input schema for the list_rules tool.
type ListRulesInput struct{}

// SuggestionItem is one style finding in a tool result.
type SuggestionItem struct {
	Kind    string `json:"kind"`
	Line    int    `json:"line"`
	Column  int    `json:"column"`
	Word    string `json:"word,omitempty"`
	Message string `json:"message"`
	Fix     string `json:"fix,omitempty"`
}

// ErrorItem is one syntax or scope error in a tool result.
type ErrorItem struct {
	Line    int    `json:"line"`
	Column  int    `json:"column"`
	Code    int    `json:"code,omitempty"`
	Phase   string `json:"phase"`
	Message string `json:"message"`
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the logger. Output must not go to stdout, which carries
// the protocol.
func WithLogger(l *slog.Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithWorkDir resolves relative tool paths against dir.
func WithWorkDir(dir string) Option {
	return func(s *Server) { s.workDir = dir }
}

// Server is a MCP (Model Context Protocol) server.
// It communicates via JSON-RPC over stdio.
type Server struct {
	cfg     *config.Config
	workDir string
	logger  *slog.Logger
}

// NewServer creates a new MCP server instance.
func NewServer(cfg *config.Config, opts ...Option) *Server {
	if cfg == nil {
		cfg = config.Default()
	}
	s := &Server{
		cfg:     cfg,
		workDir: ".",
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start serves over stdio until the client disconnects or ctx is done.
func (s *Server) Start(ctx context.Context) error {
	s.logger.Info("MCP server started (stdio mode)", "tools", "analyze_code, validate_code, list_rules")
	return s.sdkServer().Run(ctx, &sdkmcp.StdioTransport{})
}

func (s *Server) sdkServer() *sdkmcp.Server {
	server := sdkmcp.NewServer(&sdkmcp.Implementation{
		Name:    "codecleaner",
		Version: "1.0.0",
	}, nil)

	// Tool: analyze_code
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "analyze_code",
		Description: "Analyze one C# compilation unit for naming and size problems. Pass either 'content' or 'path'. Returns clean code suggestions plus syntax and scope errors.",
	}, func(ctx context.Context, req *sdkmcp.CallToolRequest, input AnalyzeCodeInput) (*sdkmcp.CallToolResult, map[string]any, error) {
		result, rpcErr := s.handleAnalyzeCode(ctx, input)
		if rpcErr != nil {
			return &sdkmcp.CallToolResult{IsError: true}, nil, fmt.Errorf("%s", rpcErr.Message)
		}
		return nil, result, nil
	})

	// Tool: validate_code
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "validate_code",
		Description: "Run every enabled rule of the project configuration over files or directories and return the violations.",
	}, func(ctx context.Context, req *sdkmcp.CallToolRequest, input ValidateCodeInput) (*sdkmcp.CallToolResult, map[string]any, error) {
		result, rpcErr := s.handleValidateCode(ctx, input)
		if rpcErr != nil {
			return &sdkmcp.CallToolResult{IsError: true}, nil, fmt.Errorf("%s", rpcErr.Message)
		}
		return nil, result, nil
	})

	// Tool: list_rules
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "list_rules",
		Description: "List the configured rules, the suggestion kinds and the size thresholds.",
	}, func(ctx context.Context, req *sdkmcp.CallToolRequest, input ListRulesInput) (*sdkmcp.CallToolResult, map[string]any, error) {
		result, rpcErr := s.handleListRules()
		if rpcErr != nil {
			return &sdkmcp.CallToolResult{IsError: true}, nil, fmt.Errorf("%s", rpcErr.Message)
		}
		return nil, result, nil
	})

	return server
}

func (s *Server) resolve(path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(s.workDir, path)
}

func (s *Server) analyzerOptions(utf8 bool) (analyzer.Options, *RPCError) {
	words, err := s.cfg.Words()
	if err != nil {
		return analyzer.Options{}, &RPCError{Code: -32000, Message: fmt.Sprintf("dictionary not available: %v", err)}
	}
	limits := s.cfg.CleanerThresholds()
	return analyzer.Options{
		Words:      words,
		Thresholds: &limits,
		UTF8:       utf8 || s.cfg.UTF8(),
		Logger:     s.logger,
	}, nil
}

// handleAnalyzeCode analyzes inline content or a single file.
func (s *Server) handleAnalyzeCode(ctx context.Context, input AnalyzeCodeInput) (map[string]any, *RPCError) {
	if input.Content == "" && input.Path == "" {
		return nil, &RPCError{Code: -32602, Message: "either content or path is required"}
	}

	opts, rpcErr := s.analyzerOptions(input.UTF8)
	if rpcErr != nil {
		return nil, rpcErr
	}

	var res *analyzer.Result
	var err error
	if input.Content != "" {
		name := input.Filename
		if name == "" {
			name = defaultFilename
		}
		res, err = analyzer.AnalyzeString(ctx, name, input.Content, opts)
	} else {
		res, err = analyzer.AnalyzeFile(ctx, s.resolve(input.Path), opts)
	}
	if err != nil {
		return nil, &RPCError{Code: -32000, Message: err.Error()}
	}

	suggestions := make([]SuggestionItem, 0, len(res.Suggestions))
	for _, sg := range res.Suggestions {
		suggestions = append(suggestions, toSuggestionItem(sg))
	}
	errs := make([]ErrorItem, 0, len(res.Errors))
	for _, e := range res.Errors {
		errs = append(errs, toErrorItem(e))
	}

	return map[string]any{
		"file":        res.Name,
		"suggestions": suggestions,
		"errors":      errs,
		"errorCount":  res.ErrorCount,
		"tokens":      res.Stats.Tokens,
		"summary":     analyzeSummary(res),
	}, nil
}

func analyzeSummary(res *analyzer.Result) string {
	if len(res.Suggestions) == 0 && len(res.Errors) == 0 {
		return fmt.Sprintf("✓ %s: no suggestions, no errors", res.Name)
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%s: %d suggestions, %d errors\n", res.Name, len(res.Suggestions), res.ErrorCount)
	for _, sg := range res.Suggestions {
		fmt.Fprintln(&b, sg.String())
	}
	for _, e := range res.Errors {
		fmt.Fprintln(&b, e.String())
	}
	return strings.TrimRight(b.String(), "\n")
}

// handleValidateCode runs the project rules over paths.
func (s *Server) handleValidateCode(ctx context.Context, input ValidateCodeInput) (map[string]any, *RPCError) {
	paths := input.Paths
	if len(paths) == 0 {
		paths = []string{"."}
	}
	resolved := make([]string, len(paths))
	for i, p := range paths {
		resolved[i] = s.resolve(p)
	}

	v := validator.New(s.cfg, validator.WithLogger(s.logger), validator.WithWorkDir(s.workDir))
	res, err := v.Validate(ctx, resolved)
	if err != nil {
		return nil, &RPCError{Code: -32000, Message: fmt.Sprintf("validation failed: %v", err)}
	}

	var text strings.Builder
	if err := report.Write(&text, report.FormatText, res, report.Options{}); err != nil {
		return nil, &RPCError{Code: -32603, Message: err.Error()}
	}

	r := report.Build(res)
	return map[string]any{
		"files":   r.Files,
		"errors":  r.Errors,
		"summary": r.Summary,
		"passed":  res.ErrorCount() == 0 && len(res.Errors) == 0,
		"report":  text.String(),
	}, nil
}

// handleListRules describes the active configuration and the engines
// available to it.
func (s *Server) handleListRules() (map[string]any, *RPCError) {
	engines, err := registry.Global().Capabilities()
	if err != nil {
		return nil, &RPCError{Code: -32000, Message: err.Error()}
	}

	rules := make([]map[string]any, 0, len(s.cfg.Rules))
	for _, r := range s.cfg.Rules {
		rules = append(rules, map[string]any{
			"id":       r.ID,
			"engine":   r.Engine,
			"enabled":  r.Enabled,
			"severity": r.Severity,
			"desc":     r.Desc,
		})
	}

	kinds := make([]string, 0, len(cleaner.Kinds()))
	for _, k := range cleaner.Kinds() {
		kinds = append(kinds, k.String())
	}

	t := s.cfg.CleanerThresholds()
	return map[string]any{
		"rules":   rules,
		"engines": engines,
		"kinds":   kinds,
		"thresholds": map[string]int{
			"max_params": t.MaxParameters,
			"max_lines":  t.MaxLines,
			"max_indent": t.MaxIndent,
		},
		"languages": s.cfg.Selector().Languages,
	}, nil
}

func toSuggestionItem(sg cleaner.Suggestion) SuggestionItem {
	item := SuggestionItem{
		Kind:    sg.Kind.String(),
		Line:    sg.Line,
		Column:  sg.Column,
		Message: sg.Message,
	}
	if sg.HasWord {
		item.Word = sg.Word
	}
	if sg.HasFix {
		item.Fix = sg.Fix
	}
	return item
}

func toErrorItem(e diagnostics.Error) ErrorItem {
	return ErrorItem{
		Line:    e.Line,
		Column:  e.Column,
		Code:    e.Code,
		Phase:   e.Phase.String(),
		Message: e.Message,
	}
}
