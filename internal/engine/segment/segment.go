// Package segment splits raw text into word units: maximal runs of
// characters that share a class.
package segment

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Class is the character class used to find word-unit boundaries.
type Class int

const (
	Letter Class = iota // letters and combining marks
	Digit
	Space
	Other // punctuation, symbols, controls
)

// Classify returns the class of r.
func Classify(r rune) Class {
	switch {
	case isLetter(r):
		return Letter
	case unicode.IsDigit(r):
		return Digit
	case isWhitespace(r):
		return Space
	default:
		return Other
	}
}

// Split returns the word units of text in order. Concatenating the result
// yields text unchanged.
func Split(text string) []string {
	if text == "" {
		return nil
	}
	var units []string
	start := 0
	prev := Classify(firstRune(text))
	for i, r := range text {
		c := Classify(r)
		if c != prev {
			units = append(units, text[start:i])
			start = i
			prev = c
		}
	}
	return append(units, text[start:])
}

// Join reassembles units produced by Split.
func Join(units []string) string {
	return strings.Join(units, "")
}

func firstRune(s string) rune {
	r, _ := utf8.DecodeRuneInString(s)
	return r
}

func isLetter(r rune) bool {
	return unicode.IsLetter(r) || unicode.In(r, unicode.Mn, unicode.Mc, unicode.Me)
}

func isWhitespace(r rune) bool {
	if r == ' ' || r == '\t' || r == '\n' || r == '\r' {
		return true
	}
	return unicode.IsSpace(r)
}
