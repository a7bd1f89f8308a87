// Package diagnostics collects coded syntax and semantic errors reported
// while a unit is parsed and linted.
package diagnostics

import (
	"fmt"
	"io"
	"sort"
	"sync"
)

// Error codes.
const (
	CodeUnexpectedToken  = 1
	CodeUnbalancedBrace  = 2
	CodeIllegalCharacter = 3
	CodeUndeclared       = 214
	CodeRedeclared       = 215
)

var messages = map[int]string{
	CodeUnexpectedToken:  "unexpected token",
	CodeUnbalancedBrace:  "unbalanced braces",
	CodeIllegalCharacter: "illegal character",
	CodeUndeclared:       "name is not declared",
	CodeRedeclared:       "name is already declared in an enclosing scope",
}

// Message returns the text for a code.
func Message(code int) string {
	if msg, ok := messages[code]; ok {
		return msg
	}
	return fmt.Sprintf("error %d", code)
}

// Phase tells which stage reported an error.
type Phase int

const (
	Syntax Phase = iota
	Semantic
	Warn
)

func (p Phase) String() string {
	switch p {
	case Syntax:
		return "syntax"
	case Semantic:
		return "semantic"
	case Warn:
		return "warning"
	default:
		return "unknown"
	}
}

// Error is a single reported problem.
type Error struct {
	Line    int
	Column  int
	Code    int // 0 for warnings
	Phase   Phase
	Message string
}

// String formats e as "-- line L col C: message".
func (e Error) String() string {
	return fmt.Sprintf("-- line %d col %d: %s", e.Line, e.Column, e.Message)
}

// ErrorList is an append-only error sink. It is safe for concurrent use.
type ErrorList struct {
	mu         sync.Mutex
	items      []Error
	errorCount int
	warnCount  int
}

// NewErrorList creates an empty list.
func NewErrorList() *ErrorList {
	return &ErrorList{}
}

// SynErr records a syntax error.
func (l *ErrorList) SynErr(line, col, code int) {
	l.add(Error{Line: line, Column: col, Code: code, Phase: Syntax, Message: Message(code)})
}

// SemErr records a semantic error.
func (l *ErrorList) SemErr(line, col, code int) {
	l.add(Error{Line: line, Column: col, Code: code, Phase: Semantic, Message: Message(code)})
}

// Warning records a non-counting message.
func (l *ErrorList) Warning(line, col int, msg string) {
	l.add(Error{Line: line, Column: col, Phase: Warn, Message: msg})
}

func (l *ErrorList) add(e Error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.items = append(l.items, e)
	if e.Phase == Warn {
		l.warnCount++
	} else {
		l.errorCount++
	}
}

// Count returns the number of syntax and semantic errors.
func (l *ErrorList) Count() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.errorCount
}

// WarningCount returns the number of warnings.
func (l *ErrorList) WarningCount() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.warnCount
}

// Errors returns a copy of everything recorded, in report order.
func (l *ErrorList) Errors() []Error {
	l.mu.Lock()
	defer l.mu.Unlock()

	out := make([]Error, len(l.items))
	copy(out, l.items)
	return out
}

// CountByCode returns how many errors were recorded per code.
func (l *ErrorList) CountByCode() map[int]int {
	l.mu.Lock()
	defer l.mu.Unlock()

	counts := make(map[int]int)
	for _, e := range l.items {
		if e.Phase != Warn {
			counts[e.Code]++
		}
	}
	return counts
}

// WriteTo prints one line per entry sorted by position, followed by the
// error count.
func (l *ErrorList) WriteTo(w io.Writer) (int64, error) {
	items := l.Errors()
	sort.SliceStable(items, func(i, j int) bool {
		if items[i].Line != items[j].Line {
			return items[i].Line < items[j].Line
		}
		return items[i].Column < items[j].Column
	})

	var written int64
	for _, e := range items {
		n, err := fmt.Fprintln(w, e.String())
		written += int64(n)
		if err != nil {
			return written, err
		}
	}

	n, err := fmt.Fprintf(w, "Number of errors detected: %d\n", l.Count())
	written += int64(n)
	return written, err
}
