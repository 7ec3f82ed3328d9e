package bpe

import (
	"fmt"
	"unicode/utf8"

	"github.com/crimson-sun/subword/internal/model"
)

// Snapshot captures the vocabulary, frequencies and training diagnostics.
func (t *Tokenizer) Snapshot() model.Snapshot {
	entries := make([]model.VocabEntry, t.vocab.size())
	for id, tok := range t.vocab.idToToken {
		entries[id] = model.VocabEntry{Token: tok, Frequency: t.freq[tok]}
	}
	return model.Snapshot{
		Version:       model.SnapshotVersion,
		MaxSubwordLen: t.maxLen,
		Tokens:        entries,
		Merges:        t.Merges(),
		Residue:       t.Residue(),
	}
}

// Restore replaces the tokenizer state with s. IDs follow the order of
// s.Tokens. On error the tokenizer is left unchanged.
func (t *Tokenizer) Restore(s model.Snapshot) error {
	if s.Version != model.SnapshotVersion {
		return fmt.Errorf("%w: unsupported version %d", ErrInvalidSnapshot, s.Version)
	}
	if s.MaxSubwordLen < 1 {
		return fmt.Errorf("%w: max subword length %d", ErrInvalidSnapshot, s.MaxSubwordLen)
	}

	v := newVocab(len(s.Tokens))
	freq := make(map[string]int, len(s.Tokens))
	for i, e := range s.Tokens {
		n := utf8.RuneCountInString(e.Token)
		if n == 0 || n > s.MaxSubwordLen {
			return fmt.Errorf("%w: token %d %q has length %d", ErrInvalidSnapshot, i, e.Token, n)
		}
		if !v.add(e.Token) {
			return fmt.Errorf("%w: duplicate token %q", ErrInvalidSnapshot, e.Token)
		}
		freq[e.Token] = e.Frequency
	}

	t.maxLen = s.MaxSubwordLen
	t.merges = append([]model.Merge(nil), s.Merges...)
	t.residue = append([]string(nil), s.Residue...)
	t.replaceVocab(v, freq)
	return nil
}
