// Package tokenize turns sentences into surface tokens and locates entity
// mentions inside them. Head, tail and sentence strings must all go through
// the same Tokenize so that span matching compares like with like.
package tokenize

import (
	"strings"
	"unicode"
)

// Tokenize splits a sentence into words, numbers and punctuation marks.
// Whitespace is never part of a token and empty tokens are never produced.
//
// A word is a run of letters, digits and combining marks. Runs are joined
// across an apostrophe or hyphen ("don't", "state-owned"), across a period or
// comma between digits ("3.14", "1,000"), and across periods in single-letter
// abbreviations ("U.S.", "e.g."). Every other symbol is a token of its own.
func Tokenize(sentence string) []string {
	runes := []rune(sentence)
	tokens := make([]string, 0, len(runes)/4+1)

	var current strings.Builder
	flush := func() {
		if current.Len() > 0 {
			tokens = append(tokens, current.String())
			current.Reset()
		}
	}

	segment := 0 // word runes since the last joiner inside the current token
	abbrev := true

	for i := 0; i < len(runes); i++ {
		r := runes[i]

		switch {
		case unicode.IsSpace(r):
			flush()
			segment, abbrev = 0, true

		case isWordRune(r):
			current.WriteRune(r)
			segment++
			if !unicode.IsLetter(r) && !unicode.IsMark(r) {
				abbrev = false
			}

		case current.Len() > 0 && joins(runes, i, segment):
			current.WriteRune(r)
			if r != '.' {
				abbrev = false
			} else if segment != 1 {
				abbrev = false
			}
			segment = 0

		case r == '.' && abbrev && segment == 1 && strings.ContainsRune(current.String(), '.'):
			// Closing period of an abbreviation like "U.S."
			current.WriteRune(r)
			flush()
			segment, abbrev = 0, true

		default:
			flush()
			tokens = append(tokens, string(r))
			segment, abbrev = 0, true
		}
	}
	flush()

	return tokens
}

// isWordRune reports whether r can be part of a word
func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsMark(r)
}

// joins reports whether the punctuation at runes[i] glues the word before it
// to the word after it
func joins(runes []rune, i int, segment int) bool {
	if i == 0 || i+1 >= len(runes) {
		return false
	}
	prev, next := runes[i-1], runes[i+1]
	if !isWordRune(prev) || !isWordRune(next) {
		return false
	}

	switch runes[i] {
	case '\'', '’', '-', '‐', '‑':
		return true
	case '.', ',':
		if unicode.IsDigit(prev) && unicode.IsDigit(next) {
			return true
		}
		// Single-letter abbreviation segments: "U.S", "e.g"
		return runes[i] == '.' && segment == 1 && unicode.IsLetter(prev) &&
			unicode.IsLetter(next) && (i+2 >= len(runes) || !isWordRune(runes[i+2]))
	}
	return false
}
