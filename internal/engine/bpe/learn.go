package bpe

import (
	"fmt"
	"strings"

	"github.com/crimson-sun/subword/internal/model"
)

// LearnVocab builds the vocabulary from corpus, a sequence of word units.
//
// Every substring of 1..MaxSubwordLen runes of every word seeds the
// vocabulary. Then, for up to numIterations rounds, the most frequent
// substring of 2..MaxSubwordLen runes across the vocabulary entries still
// present in the working corpus is promoted and stripped from every working
// word. Ties go to the substring seen first. Learning stops early once no
// candidate remains.
//
// corpus is not modified. Any previously learned state is discarded. A word
// that is not valid UTF-8 fails with an *InvalidUTF8Error and leaves the
// tokenizer unchanged.
func (t *Tokenizer) LearnVocab(corpus []string, numIterations int) error {
	if numIterations < 0 {
		return fmt.Errorf("%w: %d", ErrNegativeIterations, numIterations)
	}
	for i, word := range corpus {
		if err := checkUTF8(word); err != nil {
			return fmt.Errorf("bpe: word %d: %w", i, err)
		}
	}

	v := newVocab(len(corpus) * t.maxLen)
	for _, word := range corpus {
		t.seed(v, word)
	}
	seeded := v.size()

	work := make([]string, 0, len(corpus))
	for _, word := range corpus {
		if word != "" {
			work = append(work, word)
		}
	}

	var merges []model.Merge
	for round := 0; round < numIterations; round++ {
		best, count := t.bestSubword(v, work)
		if count == 0 {
			t.logger.Debug("no merge candidates left", "round", round)
			break
		}
		v.add(best)
		merges = append(merges, model.Merge{Subword: best, Count: count})
		work = strip(work, best)
		t.logger.Debug("merged subword",
			"round", round+1, "subword", best, "count", count, "remaining_words", len(work))
	}

	t.merges = merges
	t.residue = work
	t.replaceVocab(v, t.subwordFrequency(v))

	t.logger.Info("vocabulary learned",
		"words", len(corpus), "seeded", seeded, "merges", len(merges), "size", v.size())
	return nil
}

// seed inserts every substring of word of 1..maxLen runes.
func (t *Tokenizer) seed(v *vocab, word string) {
	runes := []rune(word)
	for i := range runes {
		for n := 1; n <= t.maxLen && i+n <= len(runes); n++ {
			v.add(string(runes[i : i+n]))
		}
	}
}

// bestSubword counts substrings of 2..maxLen runes over every live vocabulary
// entry, in vocabulary order, and returns the first one with the highest
// count. An entry is live while it still occurs in a working word.
func (t *Tokenizer) bestSubword(v *vocab, work []string) (string, int) {
	live := t.substrings(work, 1)

	counts := make(map[string]int)
	var order []string
	for _, entry := range v.idToToken {
		if _, ok := live[entry]; !ok {
			continue
		}
		runes := []rune(entry)
		for n := 2; n <= t.maxLen; n++ {
			for i := 0; i+n <= len(runes); i++ {
				sub := string(runes[i : i+n])
				if _, seen := counts[sub]; !seen {
					order = append(order, sub)
				}
				counts[sub]++
			}
		}
	}

	var best string
	bestCount := 0
	for _, sub := range order {
		if c := counts[sub]; c > bestCount {
			best, bestCount = sub, c
		}
	}
	return best, bestCount
}

// substrings returns the set of substrings of minLen..maxLen runes found in words.
// Every vocabulary entry is at most maxLen runes, so an entry occurs in a
// word exactly when it belongs to this set.
func (t *Tokenizer) substrings(words []string, minLen int) map[string]struct{} {
	set := make(map[string]struct{})
	for _, word := range words {
		runes := []rune(word)
		for i := range runes {
			for n := minLen; n <= t.maxLen && i+n <= len(runes); n++ {
				set[string(runes[i:i+n])] = struct{}{}
			}
		}
	}
	return set
}

// subwordFrequency counts, for every vocabulary entry, how often it occurs as
// a substring of 1..maxLen runes across all entries.
func (t *Tokenizer) subwordFrequency(v *vocab) map[string]int {
	freq := make(map[string]int, v.size())
	for _, entry := range v.idToToken {
		runes := []rune(entry)
		for n := 1; n <= t.maxLen; n++ {
			for i := 0; i+n <= len(runes); i++ {
				sub := string(runes[i : i+n])
				if v.contains(sub) {
					freq[sub]++
				}
			}
		}
	}
	return freq
}

// strip removes every occurrence of sub from each word, dropping words that
// become empty. The input slice is left untouched.
func strip(words []string, sub string) []string {
	out := make([]string, 0, len(words))
	for _, w := range words {
		if w = strings.ReplaceAll(w, sub, ""); w != "" {
			out = append(out, w)
		}
	}
	return out
}
