// Package lexer turns source text into a stream of position-tracked tokens.
//
// The scanner is a table-driven automaton (see dfa.go) run with longest
// match and backtracking. Tokens are kept in a singly linked list so that
// callers can look ahead arbitrarily far with Peek and rewind the lookahead
// with ResetPeek without ever re-lexing.
package lexer

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/DevSymphony/codecleaner/internal/source"
)

const eol = '\n'

// noToken marks the list head, which is never handed out.
const noToken Kind = -2

// Option configures a Lexer.
type Option func(*options)

type options struct {
	sourceOpts []source.Option
}

// WithUTF8 decodes BOM-less input as UTF-8 instead of one byte per code point.
func WithUTF8() Option {
	return func(o *options) {
		o.sourceOpts = append(o.sourceOpts, source.WithUTF8())
	}
}

// Lexer scans one compilation unit. It is not safe for concurrent use.
type Lexer struct {
	r      *source.Reader
	closer io.Closer

	ch      int // current code point
	pos     int // byte position of ch
	charPos int // code point position of ch
	line    int
	col     int

	// newlines swallowed by the last comment, replayed as EOL characters
	pendingEOLs int

	text []rune
	err  error

	tokens *node // last token returned by Scan, or the list head
	pt     *node // peek cursor
}

// New creates a lexer reading from r. Readers implementing io.ReadSeeker are
// windowed, anything else is buffered as it arrives.
func New(r io.Reader, opts ...Option) (*Lexer, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	rd, err := source.Open(r, o.sourceOpts...)
	if err != nil {
		return nil, err
	}
	if _, err := rd.ProbeBOM(); err != nil {
		return nil, err
	}

	l := &Lexer{r: rd, pos: -1, charPos: -1, line: 1}
	l.nextCh()
	if l.err != nil {
		return nil, l.err
	}

	head := &node{tok: Token{Kind: noToken}}
	l.tokens, l.pt = head, head
	return l, nil
}

// NewFromString creates a lexer over an in-memory text.
func NewFromString(text string, opts ...Option) (*Lexer, error) {
	return New(strings.NewReader(text), opts...)
}

// Open creates a lexer over the file at path. Close releases the file.
func Open(path string, opts ...Option) (*Lexer, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}

	l, err := New(f, opts...)
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	l.closer = f
	return l, nil
}

// Close releases the file opened by Open. It is a no-op otherwise.
func (l *Lexer) Close() error {
	if l.closer == nil {
		return nil
	}
	err := l.closer.Close()
	l.closer = nil
	return err
}

// Err returns the fatal error that stopped scanning, if any. Once set, the
// lexer only produces EOF tokens.
func (l *Lexer) Err() error {
	return l.err
}

// Slice returns the raw source bytes in [begin, end).
func (l *Lexer) Slice(begin, end int) (string, error) {
	return l.r.Slice(begin, end)
}

// Scan returns the next token, including directives, and resets the peek
// cursor to it.
func (l *Lexer) Scan() Token {
	if l.tokens.next == nil {
		if l.tokens.tok.Kind == EOF {
			return l.tokens.tok
		}
		l.tokens.next = &node{tok: l.nextToken()}
	}
	l.tokens = l.tokens.next
	l.pt = l.tokens
	return l.tokens.tok
}

// Peek returns the token after the peek cursor and advances the cursor,
// skipping directives. Peeked tokens are delivered later by Scan.
func (l *Lexer) Peek() Token {
	for {
		l.advancePeek()
		if l.pt.tok.Kind <= MaxT {
			return l.pt.tok
		}
	}
}

// PeekWithDirectives is Peek without skipping directives.
func (l *Lexer) PeekWithDirectives() Token {
	l.advancePeek()
	return l.pt.tok
}

// ResetPeek moves the peek cursor back to the last scanned token.
func (l *Lexer) ResetPeek() {
	l.pt = l.tokens
}

func (l *Lexer) advancePeek() {
	if l.pt.next == nil {
		if l.pt.tok.Kind == EOF {
			return
		}
		l.pt.next = &node{tok: l.nextToken()}
	}
	l.pt = l.pt.next
}

func (l *Lexer) fail(err error) {
	if l.err == nil {
		l.err = err
	}
	l.ch = source.EOF
}

func (l *Lexer) nextCh() {
	if l.err != nil {
		l.ch = source.EOF
		return
	}
	if l.pendingEOLs > 0 {
		l.ch = eol
		l.pendingEOLs--
		return
	}

	l.pos = l.r.Pos()
	l.ch = l.r.Read()
	l.col++
	l.charPos++

	// an isolated \r is a line end
	if l.ch == '\r' && l.r.Peek() != '\n' {
		l.ch = eol
	}
	if l.ch == eol {
		l.line++
		l.col = 0
	}

	if err := l.r.Err(); err != nil {
		l.fail(err)
	}
}

func (l *Lexer) addCh() {
	if l.ch != source.EOF {
		l.text = append(l.text, rune(l.ch))
		l.nextCh()
	}
}

type mark struct {
	pos, charPos, line, col int
}

func (l *Lexer) mark() mark {
	return mark{pos: l.pos, charPos: l.charPos, line: l.line, col: l.col}
}

// reset rereads the code point at m and restores the counters saved with it.
func (l *Lexer) reset(m mark) {
	if err := l.r.SetPos(m.pos); err != nil {
		l.fail(err)
		return
	}
	l.nextCh()
	l.pos, l.charPos, l.line, l.col = m.pos, m.charPos, m.line, m.col
}

// skipComment consumes a // or /* */ comment starting at the current '/'.
// It restores the position and returns false if no comment starts here.
func (l *Lexer) skipComment() bool {
	m := l.mark()
	line0 := l.line
	l.nextCh()

	switch l.ch {
	case '/':
		for {
			l.nextCh()
			switch l.ch {
			case eol:
				l.pendingEOLs = l.line - line0
				l.nextCh()
				return true
			case source.EOF:
				return true
			}
		}
	case '*':
		l.nextCh()
		for {
			switch l.ch {
			case '*':
				l.nextCh()
				if l.ch == '/' {
					l.pendingEOLs = l.line - line0
					l.nextCh()
					return true
				}
				continue
			case source.EOF:
				// unterminated: the comment runs to the end of input
				return true
			}
			l.nextCh()
		}
	}

	l.reset(m)
	return false
}

func (l *Lexer) skipBlanks() {
	for {
		for l.ch == ' ' || l.ch == '\t' || l.ch == '\r' || l.ch == eol {
			l.nextCh()
		}
		if l.ch != '/' || !l.skipComment() {
			return
		}
	}
}

func (l *Lexer) nextToken() Token {
	l.skipBlanks()

	t := Token{BytePos: l.pos, CharPos: l.charPos, Line: l.line, Column: l.col}
	if l.ch == source.EOF {
		t.Kind = EOF
		return t
	}

	l.text = l.text[:0]
	cur, rec, recLen := 0, -1, 0
	for {
		if automaton.states[cur].accept != noAccept {
			rec, recLen = cur, len(l.text)
		}
		nxt, ok := automaton.next(cur, l.ch)
		if !ok {
			break
		}
		l.addCh()
		cur = nxt
	}

	switch {
	case cur == 0:
		// nothing starts with this code point
		l.addCh()
		t.Kind = NoSym
		t.Text = string(l.text)
	case rec < 0:
		t.Kind = NoSym
		t.Text = string(l.text)
	default:
		if len(l.text) > recLen {
			l.backtrack(t, recLen)
		}
		t.Kind = automaton.states[rec].accept
		t.Text = string(l.text)
		if automaton.states[rec].keywords {
			if k, ok := keywords[t.Text]; ok {
				t.Kind = k
			} else {
				t.Text = decodeEscapes(t.Text)
			}
		}
	}

	return t
}

// backtrack re-synchronises the reader so that the current code point is
// the one right after the first n code points of t.
func (l *Lexer) backtrack(t Token, n int) {
	l.reset(mark{pos: t.BytePos, charPos: t.CharPos, line: t.Line, col: t.Column})
	for range n {
		l.nextCh()
	}
	l.text = l.text[:n]
}

// decodeEscapes replaces \uXXXX and \UXXXXXXXX in an identifier.
func decodeEscapes(s string) string {
	if !strings.Contains(s, `\`) {
		return s
	}

	var sb strings.Builder
	for i := 0; i < len(s); i++ {
		if s[i] != '\\' || i+1 >= len(s) {
			sb.WriteByte(s[i])
			continue
		}
		n := 4
		if s[i+1] == 'U' {
			n = 8
		}
		if i+2+n > len(s) {
			sb.WriteString(s[i:])
			break
		}
		cp, err := strconv.ParseUint(s[i+2:i+2+n], 16, 32)
		if err != nil {
			sb.WriteByte(s[i])
			continue
		}
		sb.WriteRune(rune(cp))
		i += 1 + n
	}
	return sb.String()
}
