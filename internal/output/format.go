package output

import (
	"strings"

	"github.com/crimson-sun/subword/internal/model"
)

// Verbosity controls which record fields are written.
type Verbosity int

const (
	Minimal  Verbosity = iota // line number and IDs
	Standard                  // plus token strings
	Full                      // plus the source text
)

// ParseVerbosity maps "minimal", "standard", "full" to a Verbosity.
// Unknown strings default to Standard.
func ParseVerbosity(s string) Verbosity {
	switch strings.ToLower(s) {
	case "minimal":
		return Minimal
	case "full":
		return Full
	default:
		return Standard
	}
}

// FormatRecord returns a copy of the record with fields stripped according to verbosity.
// At Minimal: Tokens and Text are dropped (omitted from JSON via omitempty).
// At Standard: Text is dropped.
// At Full: all fields preserved.
func FormatRecord(r model.Record, verbosity Verbosity) model.Record {
	switch verbosity {
	case Minimal:
		r.Tokens = nil
		r.Text = ""
	case Standard:
		r.Text = ""
	}
	return r
}
