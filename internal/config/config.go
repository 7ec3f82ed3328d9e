package config

import (
	"os"
	"strconv"
	"strings"
)

// Config holds all subword configuration.
type Config struct {
	Tokenizer TokenizerConfig
	Store     StoreConfig
	Output    OutputConfig
	LogLevel  string
}

// TokenizerConfig holds vocabulary learning and encoding settings.
type TokenizerConfig struct {
	MaxSubwordLen       int
	Iterations          int
	VocabSize           int // 0 = no pruning
	CacheSize           int // 0 = no encode cache
	PreserveCoverage    bool
	Normalize           string // "", "nfc", "nfd", "nfkc", "nfkd"
	UniquenessThreshold float64
}

// StoreConfig selects where trained vocabularies are persisted.
type StoreConfig struct {
	Backend string // "file" or "sqlite"
	Path    string // directory for file, database path for sqlite
	Name    string // vocabulary name within the store
}

// OutputConfig holds encode output settings.
type OutputConfig struct {
	Destination string // "stdout", "file", "both"
	Path        string
	Verbosity   string // "minimal", "standard", "full"
	Pretty      bool
	Async       bool
	MaxSize     int64 // file rotation threshold in bytes, 0 = off
}

// Load reads configuration from environment variables with sensible defaults.
func Load() Config {
	return Config{
		Tokenizer: TokenizerConfig{
			MaxSubwordLen:       getenvInt("SUBWORD_MAX_SUBWORD_LEN", 4),
			Iterations:          getenvInt("SUBWORD_ITERATIONS", 100),
			VocabSize:           getenvInt("SUBWORD_VOCAB_SIZE", 0),
			CacheSize:           getenvInt("SUBWORD_CACHE_SIZE", 4096),
			PreserveCoverage:    getenvBool("SUBWORD_PRESERVE_COVERAGE", true),
			Normalize:           getenv("SUBWORD_NORMALIZE", ""),
			UniquenessThreshold: getenvFloat("SUBWORD_UNIQUENESS_THRESHOLD", 0.1),
		},
		Store: StoreConfig{
			Backend: getenv("SUBWORD_STORE", "file"),
			Path:    getenv("SUBWORD_STORE_PATH", "vocab"),
			Name:    getenv("SUBWORD_NAME", "default"),
		},
		Output: OutputConfig{
			Destination: getenv("SUBWORD_OUTPUT", "stdout"),
			Path:        getenv("SUBWORD_OUTPUT_PATH", "tokens.jsonl"),
			Verbosity:   getenv("SUBWORD_OUTPUT_VERBOSITY", "standard"),
			Pretty:      getenvBool("SUBWORD_OUTPUT_PRETTY", false),
			Async:       getenvBool("SUBWORD_OUTPUT_ASYNC", false),
			MaxSize:     int64(getenvInt("SUBWORD_OUTPUT_MAX_SIZE", 0)),
		},
		LogLevel: getenv("SUBWORD_LOG_LEVEL", "info"),
	}
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getenvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func getenvFloat(key string, fallback float64) float64 {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return fallback
	}
	return f
}

func getenvBool(key string, fallback bool) bool {
	switch strings.ToLower(os.Getenv(key)) {
	case "1", "true", "yes", "on":
		return true
	case "0", "false", "no", "off":
		return false
	default:
		return fallback
	}
}
