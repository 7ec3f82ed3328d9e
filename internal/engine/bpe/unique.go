package bpe

import "strings"

// Uniqueness returns the fraction of other vocabulary entries that contain
// token as a substring. It scans the whole vocabulary.
func (t *Tokenizer) Uniqueness(token string) float64 {
	others, containing := 0, 0
	for _, entry := range t.vocab.idToToken {
		if entry == token {
			continue
		}
		others++
		if strings.Contains(entry, token) {
			containing++
		}
	}
	if others == 0 {
		return 0
	}
	return float64(containing) / float64(others)
}

// IsRelativelyUnique reports whether fewer than threshold of the other
// entries contain token. Low-uniqueness tokens are building blocks of many
// longer entries.
func (t *Tokenizer) IsRelativelyUnique(token string, threshold float64) bool {
	return t.Uniqueness(token) < threshold
}
