package lexer

import "fmt"

// Position is a 1-based line and column.
type Position struct {
	Line   int
	Column int
}

// String formats the position as line:column.
func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// Token is a lexeme with its location. BytePos and CharPos are 0-based
// offsets of the first code point; Line and Column are 1-based.
type Token struct {
	Kind    Kind
	Text    string
	BytePos int
	CharPos int
	Line    int
	Column  int
}

// Pos returns the line and column of the token.
func (t Token) Pos() Position {
	return Position{Line: t.Line, Column: t.Column}
}

func (t Token) String() string {
	return fmt.Sprintf("%d:%d %s %q", t.Line, t.Column, t.Kind, t.Text)
}

// node links tokens into the lookahead list.
type node struct {
	tok  Token
	next *node
}
