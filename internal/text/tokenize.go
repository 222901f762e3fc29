// Package text normalizes and tokenizes free text for the query parser and
// both search engines.
package text

import (
	"iter"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// Tokens yields lowercase tokens of s split on Unicode whitespace.
// Leading and trailing runes that are neither letters nor digits are trimmed;
// tokens that become empty are skipped.
func Tokens(s string) iter.Seq[string] {
	return func(yield func(string) bool) {
		for _, field := range strings.Fields(norm.NFC.String(s)) {
			tok := strings.TrimFunc(strings.ToLower(field), notAlnum)
			if tok == "" {
				continue
			}
			if !yield(tok) {
				return
			}
		}
	}
}

// Tokenize collects Tokens(s) into a slice.
func Tokenize(s string) []string {
	var out []string
	for tok := range Tokens(s) {
		out = append(out, tok)
	}
	return out
}

// StripPunct drops every rune of tok that is not a letter, digit or underscore.
func StripPunct(tok string) string {
	return strings.Map(func(r rune) rune {
		if r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r) {
			return r
		}
		return -1
	}, tok)
}

// IsDigits reports whether s is non-empty and made of decimal digits only.
func IsDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}

func notAlnum(r rune) bool {
	return !unicode.IsLetter(r) && !unicode.IsDigit(r)
}
