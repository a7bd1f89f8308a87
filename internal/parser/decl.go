package parser

import (
	"github.com/DevSymphony/codecleaner/internal/cleaner"
	"github.com/DevSymphony/codecleaner/internal/lexer"
)

type modifiers struct {
	exposed  bool // public, protected or internal
	constant bool
	event    bool
}

func isModifier(k lexer.Kind) bool {
	switch k {
	case lexer.KwPublic, lexer.KwProtected, lexer.KwInternal, lexer.KwPrivate,
		lexer.KwStatic, lexer.KwReadonly, lexer.KwVolatile, lexer.KwVirtual,
		lexer.KwOverride, lexer.KwAbstract, lexer.KwSealed, lexer.KwExtern,
		lexer.KwUnsafe, lexer.KwNew, lexer.KwConst, lexer.KwEvent, lexer.KwFixed:
		return true
	}
	return false
}

func (p *Parser) parseTopLevel() {
	p.skipAttributes()
	switch {
	case p.la.Kind == lexer.KwUsing:
		p.skipStatement()
	case p.la.Kind == lexer.KwExtern && isWord(p.peek(), "alias"):
		p.skipStatement()
	case p.la.Kind == lexer.KwNamespace:
		p.parseNamespace()
	default:
		p.parseMember()
	}
}

func (p *Parser) parseNamespace() {
	p.get()
	for isName(p.la) {
		p.lint.CheckNamespaceName(nameOf(p.la), p.la.Pos())
		p.get()
		if p.la.Kind != lexer.Dot {
			break
		}
		p.get()
	}

	switch p.la.Kind {
	case lexer.Semicolon:
		p.get()
	case lexer.LBrace:
		p.get()
		p.lint.EnterBlock()
		for p.la.Kind != lexer.RBrace && p.la.Kind != lexer.EOF {
			p.parseTopLevel()
		}
		p.expectClose()
		p.lint.LeaveBlock()
	default:
		p.syntaxError(p.la)
	}
}

func (p *Parser) parseModifiers() modifiers {
	var m modifiers
	for {
		switch {
		case p.la.Kind == lexer.KwPublic, p.la.Kind == lexer.KwProtected, p.la.Kind == lexer.KwInternal:
			m.exposed = true
		case p.la.Kind == lexer.KwConst:
			m.constant = true
		case p.la.Kind == lexer.KwEvent:
			m.event = true
		case isModifier(p.la.Kind):
		case isWord(p.la, "partial"), isWord(p.la, "async"), isWord(p.la, "required"):
			next := p.peek()
			if !isName(next) && !isBuiltinType(next.Kind) && !isTypeKeyword(next.Kind) && !isModifier(next.Kind) {
				return m
			}
		default:
			return m
		}
		p.get()
	}
}

// parseMember parses a type declaration or a member of a type body.
func (p *Parser) parseMember() {
	p.skipAttributes()
	start := p.la
	mods := p.parseModifiers()

	switch {
	case isTypeKeyword(p.la.Kind):
		p.parseTypeDecl()
		return
	case isWord(p.la, "record"):
		if next := p.peek(); isName(next) || next.Kind == lexer.KwClass || next.Kind == lexer.KwStruct {
			p.parseTypeDecl()
			return
		}
	case p.la.Kind == lexer.KwDelegate, p.la.Kind == lexer.KwUsing:
		p.skipStatement()
		return
	case p.la.Kind == lexer.KwNamespace:
		p.parseNamespace()
		return
	case p.la.Kind == lexer.KwImplicit, p.la.Kind == lexer.KwExplicit:
		p.get()
		p.parseOperator(start)
		return
	case p.la.Kind == lexer.Tilde:
		p.get()
		name := p.la
		p.expectName()
		p.parseMethod(start, name, false)
		return
	case isName(p.la) && p.peek().Kind == lexer.LParen:
		// constructor; its name repeats the type name
		name := p.la
		p.get()
		p.parseMethod(start, name, false)
		return
	}

	n, _, ok := p.peekType()
	if !ok {
		p.skipStatement()
		return
	}
	p.skip(n)

	switch {
	case p.la.Kind == lexer.KwOperator:
		p.parseOperator(start)
	case p.la.Kind == lexer.KwThis && p.peek().Kind == lexer.LBrack:
		p.parseIndexer(start)
	case isName(p.la):
		name := p.la
		p.get()
		// explicit interface implementation
		for p.la.Kind == lexer.Dot && isName(p.peek()) {
			p.get()
			name = p.la
			p.get()
		}
		p.parseNamedMember(start, name, mods)
	default:
		p.syntaxError(p.la)
		p.skipStatement()
	}
}

func (p *Parser) parseNamedMember(start, name lexer.Token, mods modifiers) {
	switch p.la.Kind {
	case lexer.LParen, lexer.Lt:
		p.parseMethod(start, name, true)
	case lexer.LBrace:
		p.lint.DeclareMember(nameOf(name))
		p.parseAccessors()
		if p.la.Kind == lexer.Assign {
			p.get()
			p.skipExpr(isSemicolon)
			p.expect(lexer.Semicolon)
		}
	case lexer.FatArrow:
		p.lint.DeclareMember(nameOf(name))
		p.get()
		p.skipExpr(isSemicolon)
		p.expect(lexer.Semicolon)
	default:
		p.parseFields(name, mods)
	}
}

func (p *Parser) expectName() {
	if isName(p.la) {
		p.get()
		return
	}
	p.syntaxError(p.la)
}

func (p *Parser) parseTypeDecl() {
	isEnum := p.la.Kind == lexer.KwEnum
	p.get()
	if isTypeKeyword(p.la.Kind) {
		// record class, record struct
		p.get()
	}
	p.stats.Types++

	if isName(p.la) {
		p.lint.CheckClassName(nameOf(p.la), p.la.Pos())
		p.get()
	} else {
		p.syntaxError(p.la)
	}

	// type parameters, base list, constraints
header:
	for {
		switch p.la.Kind {
		case lexer.LBrace, lexer.Semicolon, lexer.RBrace, lexer.EOF:
			break header
		case lexer.LParen:
			p.skipGroup()
		default:
			p.get()
		}
	}

	switch p.la.Kind {
	case lexer.Semicolon:
		p.get()
		return
	case lexer.LBrace:
	default:
		p.syntaxError(p.la)
		return
	}

	if isEnum {
		p.skipBraces()
	} else {
		p.get()
		p.lint.EnterBlock()
		for p.la.Kind != lexer.RBrace && p.la.Kind != lexer.EOF {
			p.parseMember()
		}
		p.expectClose()
		p.lint.LeaveBlock()
	}
	if p.la.Kind == lexer.Semicolon {
		p.get()
	}
}

func (p *Parser) parseOperator(start lexer.Token) {
	op := p.la
	p.expect(lexer.KwOperator)
	for {
		switch p.la.Kind {
		case lexer.LParen, lexer.LBrace, lexer.Semicolon, lexer.RBrace, lexer.EOF:
			p.parseMethod(start, op, false)
			return
		}
		p.get()
	}
}

// parseMethod parses type parameters, the parameter list and the body of a
// method, constructor or operator whose name has been consumed.
func (p *Parser) parseMethod(start, name lexer.Token, checkName bool) {
	p.stats.Functions++
	if checkName {
		p.lint.CheckFunctionName(nameOf(name), name.Pos())
	}
	p.skipTypeParams()

	if p.la.Kind != lexer.LParen {
		p.syntaxError(p.la)
		p.skipStatement()
		return
	}
	count := p.parseParams(lexer.RParen)
	p.lint.CheckParameterCount(count, name.Pos())
	p.parseFunctionTail(start)
}

func (p *Parser) skipTypeParams() {
	if p.la.Kind != lexer.Lt {
		return
	}
	for p.la.Kind != lexer.Gt && p.la.Kind != lexer.LParen && p.la.Kind != lexer.EOF {
		p.get()
	}
	p.expect(lexer.Gt)
}

// parseParams parses a parenthesized or bracketed parameter list starting at
// the lookahead and returns the number of parameters.
func (p *Parser) parseParams(closer lexer.Kind) int {
	p.get()
	count := 0
	for p.la.Kind != closer && p.la.Kind != lexer.RBrace && p.la.Kind != lexer.EOF {
		p.skipAttributes()
		for p.la.Kind == lexer.KwRef || p.la.Kind == lexer.KwOut || p.la.Kind == lexer.KwIn ||
			p.la.Kind == lexer.KwParams || p.la.Kind == lexer.KwThis || p.la.Kind == lexer.KwReadonly {
			p.get()
		}

		if n, after, ok := p.peekType(); ok && isName(after) {
			p.skip(n)
		}
		if isName(p.la) {
			p.lint.CheckParameterName(nameOf(p.la), p.la.Pos())
			count++
			p.get()
		} else {
			p.syntaxError(p.la)
		}

		if p.la.Kind == lexer.Assign {
			p.get()
			p.skipExpr(isListEnd)
		}
		if p.la.Kind != lexer.Comma {
			break
		}
		p.get()
	}
	p.expect(closer)
	return count
}

// parseFunctionTail parses what follows a parameter list: initializers and
// constraints, then a block body, an expression body or a ';'. Parameters
// of a member without a block body are discarded.
func (p *Parser) parseFunctionTail(start lexer.Token) {
	for {
		switch p.la.Kind {
		case lexer.LBrace, lexer.FatArrow, lexer.Semicolon, lexer.RBrace, lexer.EOF:
		case lexer.LParen, lexer.LBrack:
			p.skipGroup()
			continue
		default:
			p.get()
			continue
		}
		break
	}

	switch p.la.Kind {
	case lexer.LBrace:
		p.parseFunctionBody(start)
		return
	case lexer.FatArrow:
		p.get()
		p.skipExpr(isSemicolon)
		p.expect(lexer.Semicolon)
	case lexer.Semicolon:
		p.get()
	default:
		p.syntaxError(p.la)
	}
	p.lint.DiscardPending()
}

// parseFunctionBody parses the block body of the function declared at start
// and checks its length.
func (p *Parser) parseFunctionBody(start lexer.Token) {
	p.get()
	p.lint.EnterBlock()
	p.lint.EnterFunction()
	p.parseStatements()
	end := p.la
	p.expectClose()
	p.lint.LeaveFunction()
	p.lint.LeaveBlock()
	p.lint.CheckLineCount(start.Line, end.Line, start.Pos())
}

// parseAccessors parses the { get ... set ... } list of a property, an
// indexer or an event.
func (p *Parser) parseAccessors() {
	p.get()
	for p.la.Kind != lexer.RBrace && p.la.Kind != lexer.EOF {
		p.skipAttributes()
		for isModifier(p.la.Kind) {
			p.get()
		}

		acc := p.la
		if !isName(acc) {
			p.syntaxError(acc)
			p.get()
			continue
		}
		p.get()

		switch p.la.Kind {
		case lexer.LBrace:
			p.stats.Functions++
			p.parseFunctionBody(acc)
		case lexer.FatArrow:
			p.get()
			p.skipExpr(isSemicolon)
			p.expect(lexer.Semicolon)
		case lexer.Semicolon:
			p.get()
		default:
			p.syntaxError(p.la)
		}
	}
	p.expectClose()
}

func (p *Parser) parseIndexer(start lexer.Token) {
	this := p.la
	p.get()
	count := p.parseParams(lexer.RBrack)
	p.lint.CheckParameterCount(count, this.Pos())

	switch p.la.Kind {
	case lexer.LBrace:
		p.parseAccessors()
	case lexer.FatArrow:
		p.get()
		p.skipExpr(isSemicolon)
		p.expect(lexer.Semicolon)
	default:
		p.syntaxError(p.la)
	}
	p.lint.DiscardPending()
}

// parseFields parses a field declarator list whose first name has been
// consumed. Private fields are checked like locals; exposed, constant and
// event fields follow other naming rules and are only declared.
func (p *Parser) parseFields(name lexer.Token, mods modifiers) {
	for {
		if mods.exposed || mods.constant || mods.event {
			p.lint.DeclareMember(nameOf(name))
		} else {
			p.lint.CheckNewVariableName(nameOf(name), name.Pos(), cleaner.OrdinaryLocal)
		}

		if p.la.Kind == lexer.LBrack {
			// fixed size buffer
			p.skipGroup()
		}
		if p.la.Kind == lexer.Assign {
			p.get()
			p.skipExpr(isListEnd)
		}
		if p.la.Kind != lexer.Comma {
			break
		}
		p.get()
		if !isName(p.la) {
			p.syntaxError(p.la)
			break
		}
		name = p.la
		p.get()
	}
	if p.la.Kind == lexer.Semicolon {
		p.get()
		return
	}
	p.syntaxError(p.la)
	p.skipStatement()
}
