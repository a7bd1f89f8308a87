package cleaner

import (
	"fmt"
	"strings"
)

// Kind classifies a Suggestion.
type Kind int

const (
	MeaninglessWord Kind = iota
	UpperCase            // name must start with an upper-case letter
	LowerCase            // name must start with a lower-case letter
	ParameterCount
	LineCount
	IndentBlockCount
)

var kindNames = [...]string{
	MeaninglessWord:  "meaningless-word",
	UpperCase:        "upper-case",
	LowerCase:        "lower-case",
	ParameterCount:   "parameter-count",
	LineCount:        "line-count",
	IndentBlockCount: "indent-block-count",
}

func (k Kind) String() string {
	if k >= 0 && int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Kinds returns every suggestion kind in declaration order.
func Kinds() []Kind {
	return []Kind{MeaninglessWord, UpperCase, LowerCase, ParameterCount, LineCount, IndentBlockCount}
}

// ParseKind accepts the names produced by Kind.String, case-insensitively.
func ParseKind(s string) (Kind, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for i, name := range kindNames {
		if name == s {
			return Kind(i), nil
		}
	}
	return 0, fmt.Errorf("unknown suggestion kind %q", s)
}

// Suggestion is a style finding. Word is the offending name when HasWord is
// set, Fix the proposed rename when HasFix is set.
type Suggestion struct {
	Kind    Kind
	Line    int
	Column  int
	Word    string
	HasWord bool
	Message string
	Fix     string
	HasFix  bool
}

// String formats s the way it is written to the suggestion stream.
func (s Suggestion) String() string {
	return fmt.Sprintf("Clean code suggestion in line %d column %d: %s", s.Line, s.Column, s.Message)
}
