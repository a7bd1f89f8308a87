// Package parser recognizes the declarations and statements of a C#-like
// compilation unit and reports them to the lint hooks.
//
// It is a token-pattern recognizer, not a full grammar: expressions are
// skipped with bracket balancing and only the constructs that declare or
// assign names, open blocks or delimit functions are analyzed. Directives
// are consumed without evaluating conditional compilation.
package parser

import (
	"context"
	"log/slog"

	"github.com/DevSymphony/codecleaner/internal/cleaner"
	"github.com/DevSymphony/codecleaner/internal/diagnostics"
	"github.com/DevSymphony/codecleaner/internal/lexer"
)

// cancelCheckInterval is the number of tokens between context checks.
const cancelCheckInterval = 1024

// Linter receives the semantic events of a unit. *cleaner.Cleaner
// implements it.
type Linter interface {
	EnterBlock()
	LeaveBlock()
	DiscardPending()
	EnterFunction()
	LeaveFunction()
	DeclareMember(name string)
	CheckClassName(name string, pos lexer.Position)
	CheckNamespaceName(name string, pos lexer.Position)
	CheckFunctionName(name string, pos lexer.Position)
	CheckParameterName(name string, pos lexer.Position)
	CheckNewVariableName(name string, pos lexer.Position, kind cleaner.DeclKind)
	CheckVariableDefinition(name string, pos lexer.Position)
	CheckParameterCount(count int, pos lexer.Position)
	CheckLineCount(startLine, endLine int, pos lexer.Position)
	CheckIndentBlockCount(pos lexer.Position)
}

// ErrorSink receives syntax errors and directive warnings.
// *diagnostics.ErrorList implements it.
type ErrorSink interface {
	SynErr(line, col, code int)
	Warning(line, col int, msg string)
}

// Stats counts what a parse has seen.
type Stats struct {
	Tokens     int
	Directives int
	Types      int
	Functions  int
}

// Option configures a Parser.
type Option func(*Parser)

// WithLogger sets the logger. The default is slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(p *Parser) {
		if l != nil {
			p.logger = l
		}
	}
}

// Parser drives one Lexer and one Linter. It is not safe for concurrent use.
type Parser struct {
	lx     *lexer.Lexer
	lint   Linter
	errs   ErrorSink
	logger *slog.Logger

	ctx context.Context
	err error

	t  lexer.Token // last consumed token
	la lexer.Token // lookahead token

	stats      Stats
	unbalanced bool
}

// New creates a parser.
func New(lx *lexer.Lexer, lint Linter, errs ErrorSink, opts ...Option) *Parser {
	p := &Parser{
		lx:     lx,
		lint:   lint,
		errs:   errs,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Parse analyzes the whole unit. It returns the lexer's fatal error or the
// context error when the parse was cancelled; syntax problems are reported
// to the error sink instead.
func (p *Parser) Parse(ctx context.Context) error {
	p.ctx = ctx
	p.get()
	for p.la.Kind != lexer.EOF {
		if p.la.Kind == lexer.RBrace {
			p.reportUnbalanced(p.la)
			p.get()
			continue
		}
		p.parseTopLevel()
	}

	if p.err != nil {
		return p.err
	}
	return p.lx.Err()
}

// Stats returns the counters of the last parse.
func (p *Parser) Stats() Stats {
	return p.stats
}

// get advances to the next token that is neither a directive nor an
// illegal character.
func (p *Parser) get() {
	p.t = p.la
	if p.err != nil {
		p.la = lexer.Token{Kind: lexer.EOF, Line: p.t.Line, Column: p.t.Column}
		return
	}

	for {
		p.la = p.lx.Scan()
		p.stats.Tokens++

		if p.stats.Tokens%cancelCheckInterval == 0 {
			if err := p.ctx.Err(); err != nil {
				p.err = err
				p.la = lexer.Token{Kind: lexer.EOF, Line: p.la.Line, Column: p.la.Column}
				return
			}
		}

		switch {
		case p.la.Kind.IsDirective():
			p.directive(p.la)
		case p.la.Kind == lexer.NoSym:
			p.errs.SynErr(p.la.Line, p.la.Column, diagnostics.CodeIllegalCharacter)
		default:
			return
		}
	}
}

func (p *Parser) directive(t lexer.Token) {
	p.stats.Directives++
	switch t.Kind {
	case lexer.DirError, lexer.DirWarning:
		p.errs.Warning(t.Line, t.Column, t.Text)
	default:
		p.logger.Debug("directive", "line", t.Line, "text", t.Text)
	}
}

func (p *Parser) skip(n int) {
	for range n {
		p.get()
	}
}

// peekType checks whether a type starts at the lookahead token. The peek
// cursor is left on the token after the type.
func (p *Parser) peekType() (int, lexer.Token, bool) {
	p.lx.ResetPeek()
	return scanType(p.la, p.lx.Peek)
}

// peek returns the token after the lookahead.
func (p *Parser) peek() lexer.Token {
	p.lx.ResetPeek()
	return p.lx.Peek()
}

func (p *Parser) syntaxError(t lexer.Token) {
	p.errs.SynErr(t.Line, t.Column, diagnostics.CodeUnexpectedToken)
}

func (p *Parser) expect(k lexer.Kind) {
	if p.la.Kind == k {
		p.get()
		return
	}
	p.syntaxError(p.la)
}

// expectClose consumes the '}' of a block. A missing one at the end of the
// input is reported once.
func (p *Parser) expectClose() {
	if p.la.Kind == lexer.RBrace {
		p.get()
		return
	}
	p.reportUnbalanced(p.la)
}

func (p *Parser) reportUnbalanced(t lexer.Token) {
	if t.Kind == lexer.EOF {
		if p.unbalanced {
			return
		}
		p.unbalanced = true
	}
	p.errs.SynErr(t.Line, t.Column, diagnostics.CodeUnbalancedBrace)
}

func isSemicolon(k lexer.Kind) bool { return k == lexer.Semicolon }

func isListEnd(k lexer.Kind) bool { return k == lexer.Comma || k == lexer.Semicolon }

func never(lexer.Kind) bool { return false }

// skipExpr consumes tokens until stop matches at bracket depth zero, or an
// unmatched closing bracket or brace is reached. Blocks of lambdas are
// parsed as statement blocks; other braces are initializers and skipped.
func (p *Parser) skipExpr(stop func(lexer.Kind) bool) {
	depth := 0
	for {
		k := p.la.Kind
		if k == lexer.EOF || depth == 0 && stop(k) {
			return
		}

		switch k {
		case lexer.LParen, lexer.LBrack:
			depth++
		case lexer.RParen, lexer.RBrack:
			if depth == 0 {
				return
			}
			depth--
		case lexer.LBrace:
			if p.t.Kind == lexer.FatArrow {
				p.parseBlock()
			} else {
				p.skipBraces()
			}
			continue
		case lexer.RBrace:
			return
		case lexer.KwOut, lexer.KwIs:
			p.get()
			p.patternVariable()
			continue
		}
		p.get()
	}
}

// patternVariable declares the variable of an `out T name` argument or an
// `is T name` pattern.
func (p *Parser) patternVariable() {
	if isPatternWord(p.la) {
		return
	}
	n, after, ok := p.peekType()
	if !ok || !isName(after) || isPatternWord(after) {
		return
	}
	p.skip(n)
	p.lint.CheckNewVariableName(nameOf(p.la), p.la.Pos(), cleaner.OrdinaryLocal)
	p.get()
}

// skipBraces consumes a balanced {...} group without analyzing it.
func (p *Parser) skipBraces() {
	depth := 0
	for p.la.Kind != lexer.EOF {
		switch p.la.Kind {
		case lexer.LBrace:
			depth++
		case lexer.RBrace:
			depth--
		}
		p.get()
		if depth == 0 {
			return
		}
	}
	p.reportUnbalanced(p.la)
}

// skipGroup consumes a balanced (...) or [...] group.
func (p *Parser) skipGroup() {
	closer := lexer.RParen
	if p.la.Kind == lexer.LBrack {
		closer = lexer.RBrack
	}
	p.get()
	p.skipExpr(never)
	p.expect(closer)
}

func (p *Parser) skipAttributes() {
	for p.la.Kind == lexer.LBrack {
		p.skipGroup()
	}
}

// skipStatement consumes the rest of a statement including its ';'. It
// always makes progress unless a '}' or the end of input is reached.
func (p *Parser) skipStatement() {
	start := p.la
	p.skipExpr(isSemicolon)
	if p.la.Kind == lexer.Semicolon {
		p.get()
		return
	}
	if p.la.BytePos == start.BytePos && p.la.Kind != lexer.RBrace && p.la.Kind != lexer.EOF {
		p.syntaxError(p.la)
		p.get()
	}
}
