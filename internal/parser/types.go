package parser

import (
	"strings"

	"github.com/DevSymphony/codecleaner/internal/lexer"
)

func isName(t lexer.Token) bool {
	return t.Kind == lexer.Ident || t.Kind.IsContextual()
}

// nameOf strips the verbatim prefix of @identifiers.
func nameOf(t lexer.Token) string {
	return strings.TrimPrefix(t.Text, "@")
}

func isBuiltinType(k lexer.Kind) bool {
	switch k {
	case lexer.KwBool, lexer.KwByte, lexer.KwChar, lexer.KwDecimal, lexer.KwDouble,
		lexer.KwFloat, lexer.KwInt, lexer.KwLong, lexer.KwObject, lexer.KwSbyte,
		lexer.KwShort, lexer.KwString, lexer.KwUint, lexer.KwUlong, lexer.KwUshort,
		lexer.KwVoid:
		return true
	}
	return false
}

func isAssignOp(k lexer.Kind) bool {
	switch k {
	case lexer.Assign, lexer.PlusAssign, lexer.MinusAssign, lexer.StarAssign,
		lexer.SlashAssign, lexer.PercentAssign, lexer.AmpAssign, lexer.OrAssign,
		lexer.XorAssign, lexer.ShlAssign:
		return true
	}
	return false
}

func isTypeKeyword(k lexer.Kind) bool {
	switch k {
	case lexer.KwClass, lexer.KwStruct, lexer.KwInterface, lexer.KwEnum:
		return true
	}
	return false
}

func isWord(t lexer.Token, word string) bool {
	return t.Kind == lexer.Ident && t.Text == word
}

// Words that continue a pattern or an expression rather than name a variable.
func isPatternWord(t lexer.Token) bool {
	switch {
	case isWord(t, "and"), isWord(t, "or"), isWord(t, "not"), isWord(t, "when"):
		return true
	}
	return false
}

// Words that start an expression statement even though they scan as a type.
func isStatementWord(t lexer.Token) bool {
	return isWord(t, "await") || isWord(t, "yield")
}

// scanTuple walks a tuple type with at least two elements.
//
//	TupleType = "(" Type [Name] {"," Type [Name]} ")"
func scanTuple(tok lexer.Token, next func() lexer.Token) (int, lexer.Token, bool) {
	n, tok := 1, next()
	elems := 0
	for {
		m, after, ok := scanType(tok, next)
		if !ok {
			return 0, after, false
		}
		n, tok = n+m, after
		elems++
		if isName(tok) {
			n, tok = n+1, next()
		}
		if tok.Kind != lexer.Comma {
			break
		}
		n, tok = n+1, next()
	}
	if tok.Kind != lexer.RParen || elems < 2 {
		return 0, tok, false
	}
	return n + 1, next(), true
}

// scanType walks a type starting at tok, pulling following tokens from next.
// It returns the number of tokens the type spans and the token after it.
//
//	Type = (TupleType | builtin | Name {"." Name | "::" Name} [TypeArgs]) {"?" | "*" | "[" {","} "]"}
func scanType(tok lexer.Token, next func() lexer.Token) (int, lexer.Token, bool) {
	n := 0
	switch {
	case tok.Kind == lexer.LParen:
		m, after, ok := scanTuple(tok, next)
		if !ok {
			return 0, after, false
		}
		n, tok = m, after
	case isBuiltinType(tok.Kind):
		n, tok = 1, next()
	case isName(tok):
		n, tok = 1, next()
		for tok.Kind == lexer.Dot || tok.Kind == lexer.DoubleColon {
			tok = next()
			if !isName(tok) {
				return 0, tok, false
			}
			n, tok = n+2, next()
		}
		if tok.Kind == lexer.Lt {
			n, tok = n+1, next()
			for {
				m, after, ok := scanType(tok, next)
				if !ok {
					return 0, after, false
				}
				n, tok = n+m, after
				if tok.Kind == lexer.Comma {
					n, tok = n+1, next()
					continue
				}
				if tok.Kind != lexer.Gt {
					return 0, tok, false
				}
				n, tok = n+1, next()
				break
			}
		}
	default:
		return 0, tok, false
	}

	for {
		switch tok.Kind {
		case lexer.Question, lexer.Star:
			n, tok = n+1, next()
		case lexer.LBrack:
			n, tok = n+1, next()
			for tok.Kind == lexer.Comma {
				n, tok = n+1, next()
			}
			if tok.Kind != lexer.RBrack {
				return 0, tok, false
			}
			n, tok = n+1, next()
		default:
			return n, tok, true
		}
	}
}
