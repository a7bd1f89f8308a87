package parser

import (
	"slices"

	"github.com/DevSymphony/codecleaner/internal/cleaner"
	"github.com/DevSymphony/codecleaner/internal/lexer"
)

// Tokens that may follow the name of a local declarator.
var declaratorFollow = []lexer.Kind{lexer.Assign, lexer.Semicolon, lexer.Comma}

// parseStatements parses statements up to the '}' of the enclosing block.
func (p *Parser) parseStatements() {
	for p.la.Kind != lexer.RBrace && p.la.Kind != lexer.EOF {
		p.parseStatement()
	}
}

// parseBlock parses a nested statement block.
func (p *Parser) parseBlock() {
	open := p.la
	p.get()
	p.lint.EnterBlock()
	p.lint.CheckIndentBlockCount(open.Pos())
	p.parseStatements()
	p.expectClose()
	p.lint.LeaveBlock()
}

// parseEmbedded parses the body of a control statement. Names declared for
// a body that is not a block are dropped after it.
func (p *Parser) parseEmbedded() {
	if p.la.Kind == lexer.LBrace {
		p.parseBlock()
		return
	}
	p.parseStatement()
	p.lint.DiscardPending()
}

func (p *Parser) parseStatement() {
	switch p.la.Kind {
	case lexer.LBrace:
		p.parseBlock()
	case lexer.Semicolon:
		p.get()
	case lexer.KwIf:
		p.get()
		p.parseCondition()
		p.parseEmbedded()
		if p.la.Kind == lexer.KwElse {
			p.get()
			p.parseEmbedded()
		}
	case lexer.KwWhile, lexer.KwSwitch, lexer.KwLock:
		p.get()
		p.parseCondition()
		p.parseEmbedded()
	case lexer.KwDo:
		p.get()
		p.parseEmbedded()
		p.expect(lexer.KwWhile)
		p.parseCondition()
		p.expect(lexer.Semicolon)
	case lexer.KwFor:
		p.parseFor()
	case lexer.KwForeach:
		p.parseForeach()
	case lexer.KwTry:
		p.parseTry()
	case lexer.KwUsing, lexer.KwFixed:
		p.parseResource()
	case lexer.KwChecked, lexer.KwUnchecked, lexer.KwUnsafe:
		if p.peek().Kind == lexer.LBrace {
			p.get()
			p.parseBlock()
			return
		}
		p.parseSimpleStatement()
	case lexer.KwReturn, lexer.KwThrow, lexer.KwBreak, lexer.KwContinue, lexer.KwGoto:
		p.get()
		p.skipExpr(isSemicolon)
		p.expect(lexer.Semicolon)
	case lexer.KwConst:
		p.get()
		if !p.parseLocalDecl(cleaner.OrdinaryLocal) {
			p.syntaxError(p.la)
			p.skipStatement()
			return
		}
		p.expect(lexer.Semicolon)
	case lexer.KwCase:
		p.get()
		p.skipExpr(func(k lexer.Kind) bool { return k == lexer.Colon })
		p.expect(lexer.Colon)
	case lexer.KwDefault:
		if p.peek().Kind == lexer.Colon {
			p.skip(2)
			return
		}
		p.parseSimpleStatement()
	default:
		p.parseSimpleStatement()
	}
}

// parseSimpleStatement parses a label, a local function, a local
// declaration or an expression statement.
func (p *Parser) parseSimpleStatement() {
	if isName(p.la) && p.peek().Kind == lexer.Colon {
		p.skip(2)
		return
	}
	if p.parseLocalFunction() {
		return
	}
	if p.parseLocalDecl(cleaner.OrdinaryLocal) {
		p.expect(lexer.Semicolon)
		return
	}
	p.checkAssignment()
	p.skipStatement()
}

// parseCondition skips the parenthesized expression of a control statement.
// Variables it declares with `out` or `is` belong to the enclosing block.
func (p *Parser) parseCondition() {
	if p.la.Kind != lexer.LParen {
		p.syntaxError(p.la)
		return
	}
	p.skipGroup()
}

// startsDecl reports whether a type followed by a name starts at the
// lookahead and returns the length of the type and the token after the name.
func (p *Parser) startsDecl() (int, lexer.Token, bool) {
	if isStatementWord(p.la) {
		return 0, lexer.Token{}, false
	}
	n, after, ok := p.peekType()
	if !ok || !isName(after) {
		return 0, lexer.Token{}, false
	}
	return n, p.lx.Peek(), true
}

// parseLocalDecl parses `Type name [= init] {, name [= init]}` or a `var
// (a, b)` deconstruction when one starts at the lookahead, and reports
// whether it did. The terminating token is left for the caller.
func (p *Parser) parseLocalDecl(kind cleaner.DeclKind) bool {
	if isWord(p.la, "var") && p.peek().Kind == lexer.LParen {
		p.get()
		p.parseDeconstruction(kind)
		if p.la.Kind == lexer.Assign {
			p.get()
			p.skipExpr(isSemicolon)
		}
		return true
	}

	n, next, ok := p.startsDecl()
	if !ok || !slices.Contains(declaratorFollow, next.Kind) {
		return false
	}
	p.skip(n)
	p.parseDeclarator(kind)
	for p.la.Kind == lexer.Comma {
		p.get()
		if isName(p.la) && slices.Contains(declaratorFollow, p.peek().Kind) {
			p.parseDeclarator(kind)
			continue
		}
		// a comma of the initializer, such as between generic arguments
		p.skipExpr(isListEnd)
	}
	return true
}

func (p *Parser) parseDeclarator(kind cleaner.DeclKind) {
	p.lint.CheckNewVariableName(nameOf(p.la), p.la.Pos(), kind)
	p.get()
	if p.la.Kind == lexer.Assign {
		p.get()
		p.skipExpr(isListEnd)
	}
}

// parseDeconstruction declares the names of a (a, b, ...) designation.
func (p *Parser) parseDeconstruction(kind cleaner.DeclKind) {
	p.get()
	for p.la.Kind != lexer.RParen && p.la.Kind != lexer.RBrace && p.la.Kind != lexer.EOF {
		if isName(p.la) {
			if k := p.peek().Kind; k == lexer.Comma || k == lexer.RParen {
				p.lint.CheckNewVariableName(nameOf(p.la), p.la.Pos(), kind)
			}
		}
		p.get()
	}
	p.expect(lexer.RParen)
}

// parseLocalFunction parses `[static] Type Name(params) body` when one
// starts at the lookahead.
func (p *Parser) parseLocalFunction() bool {
	start := p.la
	p.lx.ResetPeek()
	tok, offset := p.la, 0
	if tok.Kind == lexer.KwStatic || isWord(tok, "async") {
		tok, offset = p.lx.Peek(), 1
	}
	if isStatementWord(tok) {
		return false
	}
	n, after, ok := scanType(tok, p.lx.Peek)
	if !ok || !isName(after) {
		return false
	}
	if k := p.lx.Peek().Kind; k != lexer.LParen && k != lexer.Lt {
		return false
	}

	p.skip(offset + n)
	name := p.la
	p.get()
	p.stats.Functions++
	p.lint.CheckFunctionName(nameOf(name), name.Pos())
	p.skipTypeParams()
	if p.la.Kind != lexer.LParen {
		p.syntaxError(p.la)
		p.skipStatement()
		return true
	}
	count := p.parseParams(lexer.RParen)
	p.lint.CheckParameterCount(count, name.Pos())

	// constraints
	for p.la.Kind != lexer.LBrace && p.la.Kind != lexer.FatArrow && p.la.Kind != lexer.Semicolon &&
		p.la.Kind != lexer.RBrace && p.la.Kind != lexer.EOF {
		p.get()
	}

	switch p.la.Kind {
	case lexer.LBrace:
		p.parseBlock()
		p.lint.CheckLineCount(start.Line, p.t.Line, start.Pos())
		return true
	case lexer.FatArrow:
		p.get()
		p.skipExpr(isSemicolon)
		p.expect(lexer.Semicolon)
	default:
		p.syntaxError(p.la)
	}
	p.lint.DiscardPending()
	return true
}

// checkAssignment reports the target of an assignment or increment at the
// start of an expression statement.
func (p *Parser) checkAssignment() {
	switch {
	case isName(p.la):
		if k := p.peek().Kind; isAssignOp(k) || k == lexer.Inc || k == lexer.Dec {
			p.lint.CheckVariableDefinition(nameOf(p.la), p.la.Pos())
		}
	case p.la.Kind == lexer.Inc || p.la.Kind == lexer.Dec:
		if next := p.peek(); isName(next) {
			p.lint.CheckVariableDefinition(nameOf(next), next.Pos())
		}
	}
}

// parseExprList skips a comma separated expression list, checking the
// target of each element.
func (p *Parser) parseExprList() {
	for {
		p.checkAssignment()
		p.skipExpr(isListEnd)
		if p.la.Kind != lexer.Comma {
			return
		}
		p.get()
	}
}

func (p *Parser) parseFor() {
	p.get()
	if p.la.Kind != lexer.LParen {
		p.syntaxError(p.la)
		return
	}
	p.get()

	if p.la.Kind != lexer.Semicolon && !p.parseLocalDecl(cleaner.LoopControlVariable) {
		p.parseExprList()
	}
	p.expect(lexer.Semicolon)
	p.skipExpr(isSemicolon)
	p.expect(lexer.Semicolon)
	if p.la.Kind != lexer.RParen {
		p.parseExprList()
	}
	p.expect(lexer.RParen)
	p.parseEmbedded()
}

func (p *Parser) parseForeach() {
	p.get()
	if p.la.Kind != lexer.LParen {
		p.syntaxError(p.la)
		return
	}
	p.get()
	if p.la.Kind == lexer.KwRef {
		p.get()
	}

	switch n, after, ok := p.peekType(); {
	case ok && isName(after):
		p.skip(n)
		p.lint.CheckNewVariableName(nameOf(p.la), p.la.Pos(), cleaner.LoopControlVariable)
		p.get()
	case ok && after.Kind == lexer.LParen:
		p.skip(n)
		p.parseDeconstruction(cleaner.LoopControlVariable)
	case p.la.Kind == lexer.LParen:
		p.parseDeconstruction(cleaner.LoopControlVariable)
	default:
		p.syntaxError(p.la)
	}

	p.expect(lexer.KwIn)
	p.skipExpr(never)
	p.expect(lexer.RParen)
	p.parseEmbedded()
}

func (p *Parser) parseTry() {
	p.get()
	p.parseRequiredBlock()

	for p.la.Kind == lexer.KwCatch {
		p.get()
		if p.la.Kind == lexer.LParen {
			p.get()
			if n, after, ok := p.peekType(); ok {
				p.skip(n)
				if isName(after) {
					// the exception variable lives in the handler
					p.lint.CheckNewVariableName(nameOf(p.la), p.la.Pos(), cleaner.LoopControlVariable)
					p.get()
				}
			}
			p.expect(lexer.RParen)
		}
		if isWord(p.la, "when") {
			p.get()
			p.parseCondition()
		}
		p.parseRequiredBlock()
	}

	if p.la.Kind == lexer.KwFinally {
		p.get()
		p.parseRequiredBlock()
	}
}

func (p *Parser) parseRequiredBlock() {
	if p.la.Kind == lexer.LBrace {
		p.parseBlock()
		return
	}
	p.syntaxError(p.la)
	p.lint.DiscardPending()
}

// parseResource parses using and fixed statements and using declarations.
func (p *Parser) parseResource() {
	p.get()
	if p.la.Kind != lexer.LParen {
		if !p.parseLocalDecl(cleaner.OrdinaryLocal) {
			p.syntaxError(p.la)
			p.skipStatement()
			return
		}
		p.expect(lexer.Semicolon)
		return
	}

	p.get()
	if !p.parseLocalDecl(cleaner.LoopControlVariable) {
		p.skipExpr(never)
	}
	p.expect(lexer.RParen)
	p.parseEmbedded()
}
