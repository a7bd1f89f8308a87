// Package cleaner keeps a lexically scoped symbol table and turns naming,
// scoping and size events reported by a parser into Suggestions and coded
// semantic errors.
//
// One Cleaner serves one compilation unit. Block depth starts at 0; every
// EnterBlock opens a deeper scope frame and LeaveBlock drops the frame of
// the block being closed together with everything declared in it.
package cleaner

import (
	"fmt"
	"io"
	"log/slog"
	"slices"
	"sort"

	"github.com/DevSymphony/codecleaner/internal/diagnostics"
	"github.com/DevSymphony/codecleaner/internal/lexer"
	"github.com/DevSymphony/codecleaner/internal/naming"
)

// WordChecker decides whether a word is meaningful.
type WordChecker interface {
	Spell(word string) bool
}

// ErrorSink receives coded semantic errors.
type ErrorSink interface {
	SemErr(line, col, code int)
}

// DeclKind selects how a new local is checked and where it lives.
type DeclKind int

const (
	// OrdinaryLocal lives in the innermost open block and has its words
	// checked.
	OrdinaryLocal DeclKind = iota
	// LoopControlVariable lives in the loop body about to be entered and
	// may be a short name such as i.
	LoopControlVariable
)

// Thresholds are the size limits checked by the count hooks.
type Thresholds struct {
	MaxParameters int
	MaxLines      int
	MaxIndent     int
}

// DefaultThresholds returns 4 parameters, 24 lines and 2 nested blocks.
func DefaultThresholds() Thresholds {
	return Thresholds{MaxParameters: 4, MaxLines: 24, MaxIndent: 2}
}

// Option configures a Cleaner.
type Option func(*Cleaner)

// WithThresholds overrides the size limits. Zero is a valid limit: a
// MaxIndent of 0 flags every block nested inside a function body.
// Negative values keep the defaults.
func WithThresholds(t Thresholds) Option {
	return func(c *Cleaner) {
		if t.MaxParameters >= 0 {
			c.limits.MaxParameters = t.MaxParameters
		}
		if t.MaxLines >= 0 {
			c.limits.MaxLines = t.MaxLines
		}
		if t.MaxIndent >= 0 {
			c.limits.MaxIndent = t.MaxIndent
		}
	}
}

// WithWriter writes every suggestion as a formatted line to w.
func WithWriter(w io.Writer) Option {
	return func(c *Cleaner) {
		c.out = w
	}
}

// WithLogger sets the logger. The default is slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(c *Cleaner) {
		if l != nil {
			c.logger = l
		}
	}
}

type scope struct {
	depth int
	names map[string]struct{}
}

// Cleaner is the lint state of one unit. It is not safe for concurrent use.
type Cleaner struct {
	oracle WordChecker
	errs   ErrorSink
	limits Thresholds
	out    io.Writer
	logger *slog.Logger

	scopes        []scope // ascending depth
	blockNumber   int
	inFunction    bool
	functionBlock int

	suggestions []Suggestion
}

// New creates a Cleaner.
func New(oracle WordChecker, errs ErrorSink, opts ...Option) *Cleaner {
	c := &Cleaner{
		oracle: oracle,
		errs:   errs,
		limits: DefaultThresholds(),
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Thresholds returns the limits in effect.
func (c *Cleaner) Thresholds() Thresholds {
	return c.limits
}

// BlockNumber returns the current block depth.
func (c *Cleaner) BlockNumber() int {
	return c.blockNumber
}

// InFunction reports whether a function body is being analyzed.
func (c *Cleaner) InFunction() bool {
	return c.inFunction
}

// EnterBlock opens a nested block.
func (c *Cleaner) EnterBlock() {
	c.blockNumber++
}

// LeaveBlock removes every name declared in the block being closed and
// returns to the enclosing block. Pending names of a body that was never
// entered are dropped too.
func (c *Cleaner) LeaveBlock() {
	if c.blockNumber == 0 {
		c.logger.Warn("unbalanced block exit ignored")
		return
	}
	c.truncate(c.blockNumber)
	c.blockNumber--
}

// DiscardPending drops names declared for a block that will not be entered,
// such as the parameters of a member without a body.
func (c *Cleaner) DiscardPending() {
	c.truncate(c.blockNumber + 1)
}

// EnterFunction marks the current block as a function body.
func (c *Cleaner) EnterFunction() {
	c.inFunction = true
	c.functionBlock = c.blockNumber
}

// LeaveFunction marks the end of the current function.
func (c *Cleaner) LeaveFunction() {
	c.inFunction = false
}

// Declared reports whether name is visible from the current block.
func (c *Cleaner) Declared(name string) bool {
	for i := len(c.scopes) - 1; i >= 0; i-- {
		if _, ok := c.scopes[i].names[name]; ok {
			return true
		}
	}
	return false
}

// Len returns the number of names in the table.
func (c *Cleaner) Len() int {
	n := 0
	for _, s := range c.scopes {
		n += len(s.names)
	}
	return n
}

// Depth returns the number of scope frames that hold names.
func (c *Cleaner) Depth() int {
	return len(c.scopes)
}

// CheckClassName checks a class, struct, interface or enum name.
func (c *Cleaner) CheckClassName(name string, pos lexer.Position) {
	c.checkUpperCase(name, pos)
	c.checkMeaning(name, pos)
}

// CheckNamespaceName checks one segment of a namespace name.
func (c *Cleaner) CheckNamespaceName(name string, pos lexer.Position) {
	c.checkUpperCase(name, pos)
	c.checkMeaning(name, pos)
}

// CheckFunctionName checks a method or constructor name.
func (c *Cleaner) CheckFunctionName(name string, pos lexer.Position) {
	c.checkUpperCase(name, pos)
	c.checkMeaning(name, pos)
}

// CheckParameterName checks a parameter and declares it in the function
// body that follows.
func (c *Cleaner) CheckParameterName(name string, pos lexer.Position) {
	c.checkLowerCase(name, pos)
	c.checkMeaning(name, pos)
	if !c.Declared(name) {
		c.declare(name, c.blockNumber+1)
	}
}

// CheckNewVariableName checks and declares a local. A name already visible
// anywhere in the scope chain is reported as redeclared and not added.
func (c *Cleaner) CheckNewVariableName(name string, pos lexer.Position, kind DeclKind) {
	c.checkLowerCase(name, pos)
	if kind == OrdinaryLocal {
		c.checkMeaning(name, pos)
	}

	if c.Declared(name) {
		c.errs.SemErr(pos.Line, pos.Column, diagnostics.CodeRedeclared)
		return
	}

	depth := c.blockNumber
	if kind == LoopControlVariable {
		depth++
	}
	c.declare(name, depth)
}

// DeclareMember registers a property, event or non-private field in the
// current block without checking its name.
func (c *Cleaner) DeclareMember(name string) {
	if !c.Declared(name) {
		c.declare(name, c.blockNumber)
	}
}

// CheckVariableDefinition reports a reference to an undeclared name.
func (c *Cleaner) CheckVariableDefinition(name string, pos lexer.Position) {
	if !c.Declared(name) {
		c.errs.SemErr(pos.Line, pos.Column, diagnostics.CodeUndeclared)
	}
}

// CheckParameterCount flags a parameter list longer than the limit.
func (c *Cleaner) CheckParameterCount(count int, pos lexer.Position) {
	if count > c.limits.MaxParameters {
		c.suggest(ParameterCount, pos, "")
	}
}

// CheckLineCount flags a body spanning more lines than the limit. The
// suggestion is placed at pos, the start of the declaration.
func (c *Cleaner) CheckLineCount(startLine, endLine int, pos lexer.Position) {
	if endLine-startLine+1 > c.limits.MaxLines {
		c.suggest(LineCount, pos, "")
	}
}

// CheckIndentBlockCount flags a block nested too deep inside a function.
func (c *Cleaner) CheckIndentBlockCount(pos lexer.Position) {
	if c.inFunction && c.blockNumber > c.functionBlock+c.limits.MaxIndent {
		c.suggest(IndentBlockCount, pos, "")
	}
}

// Suggestions returns a copy of the suggestions so far, in report order.
func (c *Cleaner) Suggestions() []Suggestion {
	return slices.Clone(c.suggestions)
}

func (c *Cleaner) checkUpperCase(name string, pos lexer.Position) {
	if !naming.StartsWithUpperCase(name) {
		c.suggest(UpperCase, pos, name)
	}
}

func (c *Cleaner) checkLowerCase(name string, pos lexer.Position) {
	if naming.StartsWithUpperCase(name) {
		c.suggest(LowerCase, pos, name)
	}
}

// checkMeaning flags every word of name that is unknown or a single letter
// other than "I", at the column where the word starts.
func (c *Cleaner) checkMeaning(name string, pos lexer.Position) {
	col := pos.Column
	for _, w := range naming.SplitWords(name) {
		if !c.oracle.Spell(w) || (len([]rune(w)) == 1 && w != "I") {
			c.suggest(MeaninglessWord, lexer.Position{Line: pos.Line, Column: col}, name)
		}
		col += len([]rune(w))
	}
}

func (c *Cleaner) suggest(kind Kind, pos lexer.Position, word string) {
	s := Suggestion{
		Kind:    kind,
		Line:    pos.Line,
		Column:  pos.Column,
		Word:    word,
		HasWord: word != "",
	}

	switch kind {
	case MeaninglessWord:
		s.Message = "Meaningless word!"
	case UpperCase:
		s.Fix = naming.FlipFirst(word, true)
		s.Message = fmt.Sprintf("Illegal lower case start -> Click to rename to %q", s.Fix)
	case LowerCase:
		s.Fix = naming.FlipFirst(word, false)
		s.Message = fmt.Sprintf("Illegal upper case start -> Click to rename to %q", s.Fix)
	case ParameterCount:
		s.Message = fmt.Sprintf("More than %d parameter!", c.limits.MaxParameters)
	case LineCount:
		s.Message = fmt.Sprintf("More than %d line!", c.limits.MaxLines)
	case IndentBlockCount:
		s.Message = fmt.Sprintf("More than %d indent block!", c.limits.MaxIndent)
	}
	s.HasFix = s.Fix != ""

	c.suggestions = append(c.suggestions, s)
	c.logger.Debug("suggestion", "kind", kind, "line", s.Line, "column", s.Column, "word", word)

	if c.out != nil {
		if _, err := fmt.Fprintln(c.out, s.String()); err != nil {
			c.logger.Warn("failed to write suggestion", "error", err)
		}
	}
}

func (c *Cleaner) declare(name string, depth int) {
	i := sort.Search(len(c.scopes), func(i int) bool {
		return c.scopes[i].depth >= depth
	})
	if i == len(c.scopes) || c.scopes[i].depth != depth {
		c.scopes = slices.Insert(c.scopes, i, scope{depth: depth, names: make(map[string]struct{})})
	}
	c.scopes[i].names[name] = struct{}{}
}

// truncate drops every frame at depth or deeper.
func (c *Cleaner) truncate(depth int) {
	i := sort.Search(len(c.scopes), func(i int) bool {
		return c.scopes[i].depth >= depth
	})
	clear(c.scopes[i:])
	c.scopes = c.scopes[:i]
}
