package engine

import (
	"fmt"
	"log/slog"

	"github.com/crimson-sun/subword/internal/engine/bpe"
	"github.com/crimson-sun/subword/internal/engine/segment"
	"github.com/crimson-sun/subword/internal/engine/stats"
	"github.com/crimson-sun/subword/internal/model"
)

// Engine orchestrates the normalize → segment → learn/encode flow around a
// bpe.Tokenizer.
type Engine struct {
	tok    *bpe.Tokenizer
	norm   segment.Normalizer
	logger *slog.Logger
}

// New creates an Engine with the provided components. A nil logger uses
// slog.Default().
func New(tok *bpe.Tokenizer, norm segment.Normalizer, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{tok: tok, norm: norm, logger: logger}
}

// Report summarizes a training run.
type Report struct {
	Words       int               `json:"words"`
	Merges      []model.Merge     `json:"merges"`
	Learned     int               `json:"learned"` // vocabulary size before pruning
	Size        int               `json:"size"`
	Compression stats.Compression `json:"compression"`
}

// Train learns a vocabulary from word units and, when vocabSize > 0, prunes
// it to that size.
func (e *Engine) Train(corpus []string, iterations, vocabSize int) (Report, error) {
	if e.norm.Enabled() {
		corpus = e.norm.Strings(corpus)
	}
	if err := e.tok.LearnVocab(corpus, iterations); err != nil {
		return Report{}, fmt.Errorf("engine: %w", err)
	}
	learned := e.tok.Size()
	if vocabSize > 0 {
		if err := e.tok.PurgeVocabulary(vocabSize); err != nil {
			return Report{}, fmt.Errorf("engine: %w", err)
		}
	}

	report := Report{
		Words:   len(corpus),
		Merges:  e.tok.Merges(),
		Learned: learned,
		Size:    e.tok.Size(),
	}

	text := segment.Join(corpus)
	ids, err := e.tok.Encode(text)
	if err != nil {
		// Pruning can drop characters the corpus still needs.
		e.logger.Warn("corpus no longer encodable after pruning", "error", err)
	} else {
		report.Compression = stats.Measure(text, len(ids))
	}

	e.logger.Info("training complete",
		"words", report.Words, "merges", len(report.Merges),
		"learned", report.Learned, "size", report.Size,
		"runes_per_token", report.Compression.RunesPerToken)
	return report, nil
}

// TrainText segments raw text into word units and trains on them.
func (e *Engine) TrainText(text string, iterations, vocabSize int) (Report, error) {
	return e.Train(segment.Split(e.norm.String(text)), iterations, vocabSize)
}

// Tokenize normalizes and segments text into tokens and IDs.
func (e *Engine) Tokenize(text string) (bpe.Segmentation, error) {
	return e.tok.Tokenize(e.norm.String(text))
}

// Encode returns the token IDs of text.
func (e *Engine) Encode(text string) ([]int, error) {
	return e.tok.Encode(e.norm.String(text))
}

// Decode returns the text for ids.
func (e *Engine) Decode(ids []int) (string, error) {
	return e.tok.Decode(ids)
}

// Process encodes a single line into a record.
func (e *Engine) Process(line model.Line) (model.Record, error) {
	seg, err := e.Tokenize(line.Text)
	if err != nil {
		return model.Record{}, fmt.Errorf("engine: line %d: %w", line.Number, err)
	}
	return model.Record{
		Line:   line.Number,
		Text:   line.Text,
		Tokens: seg.Tokens,
		IDs:    seg.IDs,
	}, nil
}

// Snapshot captures the tokenizer state together with the normal form the
// vocabulary was trained under.
func (e *Engine) Snapshot() model.Snapshot {
	snap := e.tok.Snapshot()
	snap.Normalize = e.norm.Name()
	return snap
}

// Restore loads snap into the tokenizer and adopts its normal form, so input
// is normalized the way the training corpus was. A configured form that
// disagrees with the snapshot is logged and overridden.
func (e *Engine) Restore(snap model.Snapshot) error {
	norm, err := segment.NewNormalizer(snap.Normalize)
	if err != nil {
		return fmt.Errorf("engine: %w: %w", bpe.ErrInvalidSnapshot, err)
	}
	if err := e.tok.Restore(snap); err != nil {
		return fmt.Errorf("engine: %w", err)
	}
	if norm.Name() != e.norm.Name() {
		e.logger.Warn("using the snapshot's normal form",
			"configured", e.norm.Name(), "snapshot", norm.Name())
	}
	e.norm = norm
	return nil
}

// Tokenizer returns the underlying tokenizer.
func (e *Engine) Tokenizer() *bpe.Tokenizer {
	return e.tok
}
