package file

import (
	"gopkg.in/yaml.v3"

	"github.com/crimson-sun/subword/internal/model"
)

// quoted is a string that always encodes as a double-quoted scalar. Plain
// and block styles lose tokens made only of line breaks or edge whitespace.
type quoted string

func (q quoted) MarshalYAML() (any, error) {
	return &yaml.Node{
		Kind:  yaml.ScalarNode,
		Tag:   "!!str",
		Style: yaml.DoubleQuotedStyle,
		Value: string(q),
	}, nil
}

type diskEntry struct {
	Token     quoted `yaml:"token"`
	Frequency int    `yaml:"frequency"`
}

type diskMerge struct {
	Subword quoted `yaml:"subword"`
	Count   int    `yaml:"count"`
}

// diskSnapshot is the on-disk layout of a model.Snapshot.
type diskSnapshot struct {
	Version       int         `yaml:"version"`
	MaxSubwordLen int         `yaml:"max_subword_len"`
	Normalize     string      `yaml:"normalize,omitempty"`
	Tokens        []diskEntry `yaml:"tokens"`
	Merges        []diskMerge `yaml:"merges,omitempty"`
	Residue       []quoted    `yaml:"residue,omitempty"`
}

func toDisk(s model.Snapshot) diskSnapshot {
	d := diskSnapshot{
		Version:       s.Version,
		MaxSubwordLen: s.MaxSubwordLen,
		Normalize:     s.Normalize,
		Tokens:        make([]diskEntry, len(s.Tokens)),
	}
	for i, e := range s.Tokens {
		d.Tokens[i] = diskEntry{Token: quoted(e.Token), Frequency: e.Frequency}
	}
	for _, m := range s.Merges {
		d.Merges = append(d.Merges, diskMerge{Subword: quoted(m.Subword), Count: m.Count})
	}
	for _, r := range s.Residue {
		d.Residue = append(d.Residue, quoted(r))
	}
	return d
}

func (d diskSnapshot) snapshot() model.Snapshot {
	s := model.Snapshot{
		Version:       d.Version,
		MaxSubwordLen: d.MaxSubwordLen,
		Normalize:     d.Normalize,
		Tokens:        make([]model.VocabEntry, len(d.Tokens)),
	}
	for i, e := range d.Tokens {
		s.Tokens[i] = model.VocabEntry{Token: string(e.Token), Frequency: e.Frequency}
	}
	for _, m := range d.Merges {
		s.Merges = append(s.Merges, model.Merge{Subword: string(m.Subword), Count: m.Count})
	}
	for _, r := range d.Residue {
		s.Residue = append(s.Residue, string(r))
	}
	return s
}
