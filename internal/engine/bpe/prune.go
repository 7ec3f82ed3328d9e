package bpe

import (
	"cmp"
	"fmt"
	"slices"
	"unicode/utf8"
)

// PurgeVocabulary keeps the targetVocabSize highest-ranked entries and
// reassigns IDs 0..n-1 in rank order. Entries rank by descending frequency,
// then descending length; remaining ties keep their current ID order. With
// coverage preservation on, single characters rank ahead of everything else.
//
// Discarded entries are gone for good; learning again is the only way back.
func (t *Tokenizer) PurgeVocabulary(targetVocabSize int) error {
	if targetVocabSize <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidVocabSize, targetVocabSize)
	}

	before := t.vocab.size()
	ranked := t.rank()
	if len(ranked) > targetVocabSize {
		ranked = ranked[:targetVocabSize]
	}

	v := vocabOf(ranked)
	freq := make(map[string]int, v.size())
	for _, tok := range ranked {
		freq[tok] = t.freq[tok]
	}
	t.replaceVocab(v, freq)

	t.logger.Info("vocabulary pruned",
		"target", targetVocabSize, "before", before, "after", v.size(),
		"coverage_preserved", t.preserveCoverage)
	return nil
}

// rank returns the vocabulary sorted by pruning priority.
func (t *Tokenizer) rank() []string {
	ranked := t.vocab.tokens()
	slices.SortStableFunc(ranked, func(a, b string) int {
		la, lb := utf8.RuneCountInString(a), utf8.RuneCountInString(b)
		if t.preserveCoverage && (la == 1) != (lb == 1) {
			if la == 1 {
				return -1
			}
			return 1
		}
		if c := cmp.Compare(t.freq[b], t.freq[a]); c != 0 {
			return c
		}
		return cmp.Compare(lb, la)
	})
	return ranked
}

// Ranked returns the vocabulary in the order PurgeVocabulary would keep it.
func (t *Tokenizer) Ranked() []string {
	return t.rank()
}
