// Package bpe implements a subword tokenizer that learns its vocabulary by
// repeatedly promoting the most frequent substring of the current vocabulary
// and segments text by greedy longest match.
//
// Frequencies are counted over vocabulary entries rather than adjacent symbol
// pairs in the corpus, so this is not textbook BPE. The learned vocabulary
// always contains every single character of the corpus until it is pruned.
//
// A Tokenizer is not safe for concurrent mutation. Once LearnVocab,
// PurgeVocabulary and Restore are finished, Tokenize, Encode and Decode may
// be called from multiple goroutines.
package bpe

import (
	"fmt"
	"log/slog"

	lru "github.com/hashicorp/golang-lru"

	"github.com/crimson-sun/subword/internal/model"
)

const (
	// DefaultMaxSubwordLen is the longest subword, in runes, the vocabulary holds.
	DefaultMaxSubwordLen = 4

	// DefaultCacheSize is the number of word units whose segmentation is memoized.
	DefaultCacheSize = 4096
)

// Tokenizer learns a subword vocabulary and converts text to token IDs.
type Tokenizer struct {
	maxLen           int
	preserveCoverage bool
	cacheSize        int
	logger           *slog.Logger

	vocab   *vocab
	freq    map[string]int
	merges  []model.Merge
	residue []string
	cache   *lru.Cache // word unit -> segment; nil when disabled
}

// Option configures a Tokenizer.
type Option func(*Tokenizer)

// WithMaxSubwordLen sets the longest subword length in runes. Default: 4.
func WithMaxSubwordLen(n int) Option {
	return func(t *Tokenizer) { t.maxLen = n }
}

// WithCacheSize sets how many word-unit segmentations are memoized.
// 0 disables the cache. Default: 4096.
func WithCacheSize(n int) Option {
	return func(t *Tokenizer) { t.cacheSize = n }
}

// WithCoveragePreserved controls whether PurgeVocabulary ranks single
// characters ahead of longer entries so that pruning keeps every character
// encodable while the target size allows it. Default: true.
func WithCoveragePreserved(preserve bool) Option {
	return func(t *Tokenizer) { t.preserveCoverage = preserve }
}

// WithLogger sets the logger for training progress. Default: slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(t *Tokenizer) { t.logger = l }
}

// New creates an empty Tokenizer.
func New(opts ...Option) (*Tokenizer, error) {
	t := &Tokenizer{
		maxLen:           DefaultMaxSubwordLen,
		preserveCoverage: true,
		cacheSize:        DefaultCacheSize,
	}
	for _, opt := range opts {
		opt(t)
	}
	if t.maxLen < 1 {
		return nil, fmt.Errorf("bpe: max subword length must be positive, got %d", t.maxLen)
	}
	if t.logger == nil {
		t.logger = slog.Default()
	}
	if t.cacheSize > 0 {
		c, err := lru.New(t.cacheSize)
		if err != nil {
			return nil, fmt.Errorf("bpe: cache: %w", err)
		}
		t.cache = c
	}
	t.vocab = newVocab(0)
	t.freq = make(map[string]int)
	return t, nil
}

// MaxSubwordLen returns the longest subword length in runes.
func (t *Tokenizer) MaxSubwordLen() int {
	return t.maxLen
}

// Size returns the number of vocabulary entries.
func (t *Tokenizer) Size() int {
	return t.vocab.size()
}

// Vocabulary returns the entries in ID order.
func (t *Tokenizer) Vocabulary() []string {
	return t.vocab.tokens()
}

// ID returns the token ID assigned to token.
func (t *Tokenizer) ID(token string) (int, bool) {
	return t.vocab.lookup(token)
}

// Token returns the vocabulary entry with the given ID.
func (t *Tokenizer) Token(id int) (string, bool) {
	return t.vocab.token(id)
}

// Frequency returns the pruning frequency of token, or 0 if it is unknown.
func (t *Tokenizer) Frequency(token string) int {
	return t.freq[token]
}

// Merges returns the subwords promoted during learning, in order.
func (t *Tokenizer) Merges() []model.Merge {
	out := make([]model.Merge, len(t.merges))
	copy(out, t.merges)
	return out
}

// Residue returns what remained of the working corpus after the last merge.
func (t *Tokenizer) Residue() []string {
	out := make([]string, len(t.residue))
	copy(out, t.residue)
	return out
}

// replaceVocab installs v and freq together and drops memoized segmentations.
func (t *Tokenizer) replaceVocab(v *vocab, freq map[string]int) {
	t.vocab = v
	t.freq = freq
	if t.cache != nil {
		t.cache.Purge()
	}
}
