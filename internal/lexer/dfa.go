package lexer

import (
	"strings"
	"unicode"

	"github.com/DevSymphony/codecleaner/internal/source"
)

// class is a predicate over code points. source.EOF never matches.
type class func(ch int) bool

func chars(set string) class {
	return func(ch int) bool {
		return ch < 0x80 && strings.IndexByte(set, byte(ch)) >= 0
	}
}

func span(lo, hi int) class {
	return func(ch int) bool {
		return ch >= lo && ch <= hi
	}
}

// except matches every code point except those in set, EOF excluded.
func except(set string) class {
	return func(ch int) bool {
		if ch == source.EOF {
			return false
		}
		return ch >= 0x80 || strings.IndexByte(set, byte(ch)) < 0
	}
}

var (
	digit    = span('0', '9')
	hexDigit = func(ch int) bool {
		return ch >= '0' && ch <= '9' || ch >= 'a' && ch <= 'f' || ch >= 'A' && ch <= 'F'
	}
	realSuffix   = chars("DdFfMm")
	simpleEscape = chars(`"'0\abfnrtv`)
	blank        = chars(" \t\v\f")
	restOfLine   = except("\n\r")
)

func identStart(ch int) bool {
	switch {
	case ch >= 'a' && ch <= 'z', ch >= 'A' && ch <= 'Z', ch == '_':
		return true
	case ch < 0x80 || ch >= source.EOF:
		return false
	}
	return unicode.IsLetter(rune(ch))
}

func identPart(ch int) bool {
	if identStart(ch) || ch >= '0' && ch <= '9' {
		return true
	}
	if ch < 0x80 || ch >= source.EOF {
		return false
	}
	r := rune(ch)
	return unicode.IsDigit(r) || unicode.IsMark(r) || unicode.Is(unicode.Pc, r)
}

const noAccept Kind = -1

type edge struct {
	on class
	to int
}

// state is one row of the transition table. Literal transitions are tried
// before class transitions, class transitions in insertion order.
type state struct {
	accept   Kind
	keywords bool // accepted text is looked up in the keyword table
	lit      map[int]int
	edges    []edge
}

// dfa is the scanner automaton. State 0 is the start state; it never accepts.
type dfa struct {
	states []state
}

func (d *dfa) add(accept Kind) int {
	d.states = append(d.states, state{accept: accept})
	return len(d.states) - 1
}

func (d *dfa) lit(from, ch, to int) {
	s := &d.states[from]
	if s.lit == nil {
		s.lit = make(map[int]int)
	}
	s.lit[ch] = to
}

func (d *dfa) on(from int, c class, to int) {
	d.states[from].edges = append(d.states[from].edges, edge{on: c, to: to})
}

// chain adds n states that each consume one code point of c and ends in to.
// It returns the first of them.
func (d *dfa) chain(c class, n, to int) int {
	first := d.add(noAccept)
	cur := first
	for i := 1; i < n; i++ {
		nxt := d.add(noAccept)
		d.on(cur, c, nxt)
		cur = nxt
	}
	d.on(cur, c, to)
	return first
}

// word follows or creates the literal path for s starting at from and makes
// its last state accept k.
func (d *dfa) word(from int, s string, k Kind) int {
	cur := from
	for _, ch := range s {
		nxt, ok := d.states[cur].lit[int(ch)]
		if !ok {
			nxt = d.add(noAccept)
			d.lit(cur, int(ch), nxt)
		}
		cur = nxt
	}
	d.states[cur].accept = k
	return cur
}

func (d *dfa) next(from, ch int) (int, bool) {
	if ch == source.EOF {
		return 0, false
	}
	s := &d.states[from]
	if to, ok := s.lit[ch]; ok {
		return to, true
	}
	for _, e := range s.edges {
		if e.on(ch) {
			return e.to, true
		}
	}
	return 0, false
}

var automaton = buildDFA()

func buildDFA() *dfa {
	d := &dfa{}
	root := d.add(noAccept)

	// identifiers, with \uXXXX and \UXXXXXXXX escapes
	ident := d.add(Ident)
	d.states[ident].keywords = true
	identEsc := d.add(noAccept)
	d.on(root, identStart, ident)
	d.lit(root, '\\', identEsc)
	d.on(ident, identPart, ident)
	d.lit(ident, '\\', identEsc)
	d.lit(identEsc, 'u', d.chain(hexDigit, 4, ident))
	d.lit(identEsc, 'U', d.chain(hexDigit, 8, ident))

	// numbers
	dec := d.add(IntLit)
	zero := d.add(IntLit)
	hex0 := d.add(noAccept)
	hex := d.add(IntLit)
	sufU := d.add(IntLit)
	sufL := d.add(IntLit)
	sufDone := d.add(IntLit)
	dot := d.add(noAccept)
	frac := d.add(RealLit)
	exp := d.add(noAccept)
	expSign := d.add(noAccept)
	expDigits := d.add(RealLit)
	realDone := d.add(RealLit)

	d.on(root, span('1', '9'), dec)
	d.lit(root, '0', zero)
	for _, s := range []int{dec, zero} {
		d.on(s, digit, dec)
		d.on(s, chars("Uu"), sufU)
		d.on(s, chars("Ll"), sufL)
		d.lit(s, '.', dot)
		d.on(s, chars("Ee"), exp)
		d.on(s, realSuffix, realDone)
	}
	d.on(zero, chars("Xx"), hex0)
	d.on(hex0, hexDigit, hex)
	d.on(hex, hexDigit, hex)
	d.on(hex, chars("Uu"), sufU)
	d.on(hex, chars("Ll"), sufL)
	d.on(sufU, chars("Ll"), sufDone)
	d.on(sufL, chars("Uu"), sufDone)
	d.on(dot, digit, frac)
	d.on(frac, digit, frac)
	d.on(frac, chars("Ee"), exp)
	d.on(frac, realSuffix, realDone)
	d.on(exp, digit, expDigits)
	d.on(exp, chars("+-"), expSign)
	d.on(expSign, digit, expDigits)
	d.on(expDigits, digit, expDigits)
	d.on(expDigits, realSuffix, realDone)

	// character literals
	chr := d.add(noAccept)
	chrClose := d.add(noAccept)
	chrEsc := d.add(noAccept)
	chrDone := d.add(CharLit)
	d.lit(root, '\'', chr)
	d.lit(chr, '\\', chrEsc)
	d.on(chr, except("'\\\n\r"), chrClose)
	d.lit(chrClose, '\'', chrDone)
	d.on(chrEsc, simpleEscape, chrClose)
	d.lit(chrEsc, 'u', d.chain(hexDigit, 4, chrClose))
	d.lit(chrEsc, 'U', d.chain(hexDigit, 8, chrClose))
	// \x takes one to four hex digits
	x := chrClose
	for range 3 {
		s := d.add(noAccept)
		d.lit(s, '\'', chrDone)
		d.on(s, hexDigit, x)
		x = s
	}
	xFirst := d.add(noAccept)
	d.on(xFirst, hexDigit, x)
	d.lit(chrEsc, 'x', xFirst)

	// regular strings
	str := d.add(noAccept)
	strEsc := d.add(noAccept)
	strDone := d.add(StringLit)
	d.lit(root, '"', str)
	d.lit(str, '\\', strEsc)
	d.lit(str, '"', strDone)
	d.on(str, except("\"\\\n\r"), str)
	d.on(strEsc, simpleEscape, str)
	d.lit(strEsc, 'u', d.chain(hexDigit, 4, str))
	d.lit(strEsc, 'U', d.chain(hexDigit, 8, str))
	d.lit(strEsc, 'x', d.chain(hexDigit, 1, str))

	// @ident and @"verbatim ""strings"""
	at := d.add(noAccept)
	verb := d.add(noAccept)
	verbQuote := d.add(StringLit)
	d.lit(root, '@', at)
	d.on(at, identStart, ident)
	d.lit(at, '\\', identEsc)
	d.lit(at, '"', verb)
	d.lit(verb, '"', verbQuote)
	d.on(verb, except(`"`), verb)
	d.lit(verbQuote, '"', verb)

	// operators
	for k := Amp; k <= Leq; k++ {
		d.word(root, kindNames[k], k)
	}
	for k := OrOr; k <= Arrow; k++ {
		d.word(root, kindNames[k], k)
	}
	d.on(d.word(root, ".", Dot), digit, frac)

	// directives run to the end of the line
	hash := d.add(noAccept)
	d.lit(root, '#', hash)
	d.on(hash, blank, hash)
	for k := DirDefine; k <= DirPragma; k++ {
		end := d.word(hash, kindNames[k][1:], k)
		d.on(end, restOfLine, end)
	}

	return d
}
