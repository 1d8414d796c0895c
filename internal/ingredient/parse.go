// Package ingredient normalizes free-form ingredient input typed by users.
package ingredient

import (
	"strings"
	"unicode"
)

// Tokens splits input on commas and then on runs of whitespace, dropping
// empty tokens. Order and duplicates are preserved.
func Tokens(input string) []string {
	var tokens []string
	for _, segment := range strings.Split(input, ",") {
		tokens = append(tokens, strings.FieldsFunc(segment, isSpace)...)
	}
	return tokens
}

// isSpace reports Unicode white space plus U+FEFF, which browsers treat as a
// separator in regular expressions and which often leaks in from pasted text.
func isSpace(r rune) bool {
	return unicode.IsSpace(r) || r == '\ufeff'
}

// Parse returns the canonical comma-joined form of input, e.g.
// "chicken, tomatoes   basil" becomes "chicken,tomatoes,basil".
func Parse(input string) string {
	return strings.Join(Tokens(input), ",")
}
