package subword

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/crimson-sun/subword/internal/engine"
	"github.com/crimson-sun/subword/internal/engine/bpe"
	"github.com/crimson-sun/subword/internal/engine/segment"
	"github.com/crimson-sun/subword/internal/model"
)

// Merge is one accepted merge from training: the subword and the count it
// won with.
type Merge = model.Merge

// Segmentation is the tokens of a text and their IDs, in parallel.
type Segmentation struct {
	Tokens []string
	IDs    []int
}

// Report summarizes a training run.
type Report struct {
	Words         int     // word units in the training corpus
	Merges        []Merge // accepted merges, in order
	Learned       int     // vocabulary size after learning
	Size          int     // vocabulary size after pruning
	RunesPerToken float64 // compression on the training corpus, 0 if it no longer encodes
}

// Tokenizer learns and applies a subword vocabulary.
// Safe for concurrent use.
type Tokenizer struct {
	mu        sync.RWMutex
	engine    *engine.Engine
	tok       *bpe.Tokenizer
	threshold float64
}

// New creates a Tokenizer with an empty vocabulary.
func New(opts ...Option) (*Tokenizer, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	logger := o.logger
	if logger == nil {
		logger = slog.Default()
	}

	norm, err := segment.NewNormalizer(o.normalize)
	if err != nil {
		return nil, fmt.Errorf("subword: %w", err)
	}
	tok, err := bpe.New(
		bpe.WithMaxSubwordLen(o.maxSubwordLen),
		bpe.WithCacheSize(o.cacheSize),
		bpe.WithCoveragePreserved(o.preserveCoverage),
		bpe.WithLogger(logger),
	)
	if err != nil {
		return nil, fmt.Errorf("subword: %w", err)
	}

	return &Tokenizer{
		engine:    engine.New(tok, norm, logger),
		tok:       tok,
		threshold: o.uniquenessThreshold,
	}, nil
}

// Learn builds a vocabulary from pre-split words, replacing any previous
// one, running at most iterations merge rounds.
func (t *Tokenizer) Learn(words []string, iterations int) (Report, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	r, err := t.engine.Train(words, iterations, 0)
	if err != nil {
		return Report{}, err
	}
	return reportFrom(r), nil
}

// LearnText splits text into word units and learns from them.
func (t *Tokenizer) LearnText(text string, iterations int) (Report, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	r, err := t.engine.TrainText(text, iterations, 0)
	if err != nil {
		return Report{}, err
	}
	return reportFrom(r), nil
}

// Prune keeps the size highest-ranked vocabulary entries and renumbers
// them from 0.
func (t *Tokenizer) Prune(size int) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if err := t.tok.PurgeVocabulary(size); err != nil {
		return fmt.Errorf("subword: %w", err)
	}
	return nil
}

// Tokenize segments text into vocabulary entries.
func (t *Tokenizer) Tokenize(text string) (Segmentation, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	seg, err := t.engine.Tokenize(text)
	if err != nil {
		return Segmentation{}, err
	}
	return Segmentation{Tokens: seg.Tokens, IDs: seg.IDs}, nil
}

// Encode returns the token IDs of text.
func (t *Tokenizer) Encode(text string) ([]int, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.engine.Encode(text)
}

// Decode concatenates the entries for ids.
func (t *Tokenizer) Decode(ids []int) (string, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.engine.Decode(ids)
}

// Uniqueness returns the fraction of other entries that contain token.
func (t *Tokenizer) Uniqueness(token string) float64 {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.tok.Uniqueness(token)
}

// IsRelativelyUnique reports whether token is contained in fewer than the
// configured threshold of the other entries.
func (t *Tokenizer) IsRelativelyUnique(token string) bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.tok.IsRelativelyUnique(token, t.threshold)
}

// Vocabulary returns the entries in ID order.
func (t *Tokenizer) Vocabulary() []string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.tok.Vocabulary()
}

// Size returns the number of vocabulary entries.
func (t *Tokenizer) Size() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.tok.Size()
}

// Frequency returns how often token occurred as a substring of the learned
// vocabulary.
func (t *Tokenizer) Frequency(token string) int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.tok.Frequency(token)
}

func reportFrom(r engine.Report) Report {
	return Report{
		Words:         r.Words,
		Merges:        r.Merges,
		Learned:       r.Learned,
		Size:          r.Size,
		RunesPerToken: r.Compression.RunesPerToken,
	}
}
