package lexer

import "fmt"

// Kind identifies the lexical class of a token.
//
// Grammar terminals are numbered 0..MaxT-1, NoSym equals MaxT and directive
// kinds are numbered above MaxT so that Peek can skip them with a single
// comparison.
type Kind int

// Literal classes.
const (
	EOF Kind = iota
	Ident
	IntLit
	RealLit
	CharLit
	StringLit
)

// Reserved words.
const (
	KwAbstract Kind = iota + 6
	KwAs
	KwBase
	KwBool
	KwBreak
	KwByte
	KwCase
	KwCatch
	KwChar
	KwChecked
	KwClass
	KwConst
	KwContinue
	KwDecimal
	KwDefault
	KwDelegate
	KwDo
	KwDouble
	KwElse
	KwEnum
	KwEvent
	KwExplicit
	KwExtern
	KwFalse
	KwFinally
	KwFixed
	KwFloat
	KwFor
	KwForeach
	KwGoto
	KwIf
	KwImplicit
	KwIn
	KwInt
	KwInterface
	KwInternal
	KwIs
	KwLock
	KwLong
	KwNamespace
	KwNew
	KwNull
	KwObject
	KwOperator
	KwOut
	KwOverride
	KwParams
	KwPrivate
	KwProtected
	KwPublic
	KwReadonly
	KwRef
	KwReturn
	KwSbyte
	KwSealed
	KwShort
	KwSizeof
	KwStackalloc
	KwStatic
	KwString
	KwStruct
	KwSwitch
	KwThis
	KwThrow
	KwTrue
	KwTry
	KwTypeof
	KwUint
	KwUlong
	KwUnchecked
	KwUnsafe
	KwUshort
	KwUsing
	KwVirtual
	KwVoid
	KwVolatile
	KwWhile
)

// Operators and punctuation.
const (
	Amp Kind = iota + 83
	AmpAssign
	FatArrow
	Assign
	Colon
	Comma
	Dec
	SlashAssign
	Dot
	DoubleColon
	Eq
	Gt
	Geq
	Inc
	LBrace
	LBrack
	LParen
	ShlAssign
	Lt
	Shl
	Minus
	MinusAssign
	PercentAssign
	Neq
	Not
	Coalesce
	OrAssign
	Plus
	PlusAssign
	Question
	RBrace
	RBrack
	RParen
	Semicolon
	Tilde
	Star
	StarAssign
	XorAssign
	AndAnd
	Leq
)

// Contextual query keywords.
const (
	KwFrom Kind = iota + 123
	KwWhere
	KwJoin
	KwOn
	KwEquals
	KwInto
	KwLet
	KwOrderby
	KwAscending
	KwDescending
	KwSelect
	KwGroup
	KwBy
)

// Remaining operators.
const (
	OrOr Kind = iota + 136
	Or
	Xor
	Slash
	Percent
	Arrow
)

// MaxT is the number of grammar terminals. NoSym is produced for input no
// token definition matches.
const (
	MaxT  Kind = 142
	NoSym      = MaxT
)

// Preprocessor directives. They are delivered by Scan and PeekWithDirectives
// but never by Peek.
const (
	DirDefine Kind = iota + 143
	DirUndef
	DirIf
	DirElif
	DirElse
	DirEndif
	DirLine
	DirError
	DirWarning
	DirRegion
	DirEndregion
	DirPragma
)

const lastKind = DirPragma

var kindNames = [...]string{
	EOF:       "EOF",
	Ident:     "ident",
	IntLit:    "intCon",
	RealLit:   "realCon",
	CharLit:   "charCon",
	StringLit: "stringCon",

	KwAbstract:   "abstract",
	KwAs:         "as",
	KwBase:       "base",
	KwBool:       "bool",
	KwBreak:      "break",
	KwByte:       "byte",
	KwCase:       "case",
	KwCatch:      "catch",
	KwChar:       "char",
	KwChecked:    "checked",
	KwClass:      "class",
	KwConst:      "const",
	KwContinue:   "continue",
	KwDecimal:    "decimal",
	KwDefault:    "default",
	KwDelegate:   "delegate",
	KwDo:         "do",
	KwDouble:     "double",
	KwElse:       "else",
	KwEnum:       "enum",
	KwEvent:      "event",
	KwExplicit:   "explicit",
	KwExtern:     "extern",
	KwFalse:      "false",
	KwFinally:    "finally",
	KwFixed:      "fixed",
	KwFloat:      "float",
	KwFor:        "for",
	KwForeach:    "foreach",
	KwGoto:       "goto",
	KwIf:         "if",
	KwImplicit:   "implicit",
	KwIn:         "in",
	KwInt:        "int",
	KwInterface:  "interface",
	KwInternal:   "internal",
	KwIs:         "is",
	KwLock:       "lock",
	KwLong:       "long",
	KwNamespace:  "namespace",
	KwNew:        "new",
	KwNull:       "null",
	KwObject:     "object",
	KwOperator:   "operator",
	KwOut:        "out",
	KwOverride:   "override",
	KwParams:     "params",
	KwPrivate:    "private",
	KwProtected:  "protected",
	KwPublic:     "public",
	KwReadonly:   "readonly",
	KwRef:        "ref",
	KwReturn:     "return",
	KwSbyte:      "sbyte",
	KwSealed:     "sealed",
	KwShort:      "short",
	KwSizeof:     "sizeof",
	KwStackalloc: "stackalloc",
	KwStatic:     "static",
	KwString:     "string",
	KwStruct:     "struct",
	KwSwitch:     "switch",
	KwThis:       "this",
	KwThrow:      "throw",
	KwTrue:       "true",
	KwTry:        "try",
	KwTypeof:     "typeof",
	KwUint:       "uint",
	KwUlong:      "ulong",
	KwUnchecked:  "unchecked",
	KwUnsafe:     "unsafe",
	KwUshort:     "ushort",
	KwUsing:      "using",
	KwVirtual:    "virtual",
	KwVoid:       "void",
	KwVolatile:   "volatile",
	KwWhile:      "while",

	Amp:           "&",
	AmpAssign:     "&=",
	FatArrow:      "=>",
	Assign:        "=",
	Colon:         ":",
	Comma:         ",",
	Dec:           "--",
	SlashAssign:   "/=",
	Dot:           ".",
	DoubleColon:   "::",
	Eq:            "==",
	Gt:            ">",
	Geq:           ">=",
	Inc:           "++",
	LBrace:        "{",
	LBrack:        "[",
	LParen:        "(",
	ShlAssign:     "<<=",
	Lt:            "<",
	Shl:           "<<",
	Minus:         "-",
	MinusAssign:   "-=",
	PercentAssign: "%=",
	Neq:           "!=",
	Not:           "!",
	Coalesce:      "??",
	OrAssign:      "|=",
	Plus:          "+",
	PlusAssign:    "+=",
	Question:      "?",
	RBrace:        "}",
	RBrack:        "]",
	RParen:        ")",
	Semicolon:     ";",
	Tilde:         "~",
	Star:          "*",
	StarAssign:    "*=",
	XorAssign:     "^=",
	AndAnd:        "&&",
	Leq:           "<=",

	KwFrom:       "from",
	KwWhere:      "where",
	KwJoin:       "join",
	KwOn:         "on",
	KwEquals:     "equals",
	KwInto:       "into",
	KwLet:        "let",
	KwOrderby:    "orderby",
	KwAscending:  "ascending",
	KwDescending: "descending",
	KwSelect:     "select",
	KwGroup:      "group",
	KwBy:         "by",

	OrOr:    "||",
	Or:      "|",
	Xor:     "^",
	Slash:   "/",
	Percent: "%",
	Arrow:   "->",

	NoSym: "???",

	DirDefine:    "#define",
	DirUndef:     "#undef",
	DirIf:        "#if",
	DirElif:      "#elif",
	DirElse:      "#else",
	DirEndif:     "#endif",
	DirLine:      "#line",
	DirError:     "#error",
	DirWarning:   "#warning",
	DirRegion:    "#region",
	DirEndregion: "#endregion",
	DirPragma:    "#pragma",
}

// keywords maps reserved and contextual words to their kinds.
var keywords = func() map[string]Kind {
	m := make(map[string]Kind, int(KwWhile-KwAbstract)+int(KwBy-KwFrom)+2)
	for k := KwAbstract; k <= KwWhile; k++ {
		m[kindNames[k]] = k
	}
	for k := KwFrom; k <= KwBy; k++ {
		m[kindNames[k]] = k
	}
	return m
}()

// String returns the spelling of fixed tokens and a class name otherwise.
func (k Kind) String() string {
	if k >= 0 && k <= lastKind {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// IsKeyword reports whether k is a reserved word.
func (k Kind) IsKeyword() bool {
	return k >= KwAbstract && k <= KwWhile
}

// IsContextual reports whether k is a query keyword that is only reserved
// inside query expressions and may otherwise name things.
func (k Kind) IsContextual() bool {
	return k >= KwFrom && k <= KwBy
}

// IsDirective reports whether k is a preprocessor directive.
func (k Kind) IsDirective() bool {
	return k > MaxT && k <= lastKind
}

// IsLiteral reports whether k is a number, character or string literal.
func (k Kind) IsLiteral() bool {
	return k >= IntLit && k <= StringLit
}

// Lookup returns the keyword kind for word, or Ident.
func Lookup(word string) Kind {
	if k, ok := keywords[word]; ok {
		return k
	}
	return Ident
}
