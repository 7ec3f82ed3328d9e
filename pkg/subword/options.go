package subword

import (
	"log/slog"

	"github.com/crimson-sun/subword/internal/engine/bpe"
)

type options struct {
	maxSubwordLen       int
	cacheSize           int
	preserveCoverage    bool
	normalize           string
	uniquenessThreshold float64
	logger              *slog.Logger
}

// Option configures a Tokenizer.
type Option func(*options)

// WithMaxSubwordLen sets the longest vocabulary entry, in runes. Default: 4.
func WithMaxSubwordLen(n int) Option {
	return func(o *options) {
		o.maxSubwordLen = n
	}
}

// WithCacheSize sets how many segmented words the encoder memoizes.
// 0 disables the cache. Default: 4096.
func WithCacheSize(n int) Option {
	return func(o *options) {
		o.cacheSize = n
	}
}

// WithCoveragePreserved controls whether pruning keeps single characters
// ahead of longer entries. Default: true.
func WithCoveragePreserved(preserve bool) Option {
	return func(o *options) {
		o.preserveCoverage = preserve
	}
}

// WithNormalization applies a Unicode normalization form ("nfc", "nfd",
// "nfkc", "nfkd") to training and input text. Default: none.
func WithNormalization(form string) Option {
	return func(o *options) {
		o.normalize = form
	}
}

// WithUniquenessThreshold sets the threshold used by IsRelativelyUnique.
// Default: 0.1.
func WithUniquenessThreshold(t float64) Option {
	return func(o *options) {
		o.uniquenessThreshold = t
	}
}

// WithLogger sets the logger for training and pruning summaries.
// Default: slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}

func defaultOptions() options {
	return options{
		maxSubwordLen:       bpe.DefaultMaxSubwordLen,
		cacheSize:           bpe.DefaultCacheSize,
		preserveCoverage:    true,
		uniquenessThreshold: 0.1,
	}
}
