package model

// SnapshotVersion is the current snapshot schema version.
const SnapshotVersion = 1

// Merge records one promoted subword and the count that made it win its round.
type Merge struct {
	Subword string `yaml:"subword" json:"subword"`
	Count   int    `yaml:"count" json:"count"`
}

// VocabEntry is a vocabulary token with its pruning frequency.
// The entry's position in Snapshot.Tokens is its token ID.
type VocabEntry struct {
	Token     string `yaml:"token" json:"token"`
	Frequency int    `yaml:"frequency" json:"frequency"`
}

// Snapshot is the persisted state of a trained tokenizer.
type Snapshot struct {
	Version       int          `yaml:"version" json:"version"`
	MaxSubwordLen int          `yaml:"max_subword_len" json:"max_subword_len"`
	Normalize     string       `yaml:"normalize,omitempty" json:"normalize,omitempty"` // Unicode form applied before training, "" for none
	Tokens        []VocabEntry `yaml:"tokens" json:"tokens"`
	Merges        []Merge      `yaml:"merges,omitempty" json:"merges,omitempty"`
	Residue       []string     `yaml:"residue,omitempty" json:"residue,omitempty"`
}
