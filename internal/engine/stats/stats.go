// Package stats measures how well a vocabulary compresses text.
package stats

import (
	"math"
	"strings"
	"unicode/utf8"
)

// EstimateTokens returns an approximate token count using a whitespace heuristic.
// Splits on whitespace, applies a 1.3x subword expansion factor (rounded up).
// Used as a baseline when reporting compression of a learned vocabulary.
func EstimateTokens(s string) int {
	if s == "" {
		return 0
	}
	words := len(strings.Fields(s))
	return int(math.Ceil(float64(words) * 1.3))
}

// Compression summarizes a text and its encoding.
type Compression struct {
	Runes         int     `json:"runes"`
	Tokens        int     `json:"tokens"`
	Estimated     int     `json:"estimated"`       // EstimateTokens baseline
	RunesPerToken float64 `json:"runes_per_token"` // 0 when there are no tokens
}

// Measure reports compression of text that encoded to the given number of tokens.
func Measure(text string, tokens int) Compression {
	c := Compression{
		Runes:     utf8.RuneCountInString(text),
		Tokens:    tokens,
		Estimated: EstimateTokens(text),
	}
	if tokens > 0 {
		c.RunesPerToken = float64(c.Runes) / float64(tokens)
	}
	return c
}

// Ratio returns tokens relative to the whitespace estimate. Below 1 the
// vocabulary beats the heuristic. Returns 0 when the estimate is 0.
func (c Compression) Ratio() float64 {
	if c.Estimated == 0 {
		return 0
	}
	return float64(c.Tokens) / float64(c.Estimated)
}
