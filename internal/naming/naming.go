// Package naming splits identifiers into words and checks their case.
package naming

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

var (
	// HTMLParser -> HTML Parser: a boundary before an upper-case letter that
	// starts a lower-case word and follows another non-lower-case rune.
	acronymBoundary = regexp.MustCompile(`(\P{Ll})(\P{Ll}\p{Ll})`)

	// camelCase -> camel Case
	camelBoundary = regexp.MustCompile(`(\p{Ll})(\P{Ll})`)
)

// SplitWords splits an identifier into its camel-case words.
//
//	SplitWords("HTTPServerError") // ["HTTP" "Server" "Error"]
//	SplitWords("camelCase")       // ["camel" "Case"]
//	SplitWords("value2")          // ["value" "2"]
//
// An empty name has no words.
func SplitWords(name string) []string {
	if name == "" {
		return nil
	}
	spaced := acronymBoundary.ReplaceAllString(name, "$1 $2")
	spaced = camelBoundary.ReplaceAllString(spaced, "$1 $2")
	return strings.Split(spaced, " ")
}

// StartsWithUpperCase reports whether name starts with an ASCII letter A-Z.
func StartsWithUpperCase(name string) bool {
	return name != "" && name[0] >= 'A' && name[0] <= 'Z'
}

// FlipFirst returns name with its first rune upper-cased (upper) or
// lower-cased, leaving the rest unchanged.
func FlipFirst(name string, upper bool) string {
	r, size := utf8.DecodeRuneInString(name)
	if size == 0 {
		return name
	}
	if upper {
		r = unicode.ToUpper(r)
	} else {
		r = unicode.ToLower(r)
	}
	return string(r) + name[size:]
}
