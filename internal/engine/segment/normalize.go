package segment

import (
	"fmt"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Normalizer rewrites text into a Unicode normal form before segmentation.
// The zero value leaves text untouched.
type Normalizer struct {
	form    norm.Form
	name    string
	enabled bool
}

// NewNormalizer parses a form name: "", "none", "nfc", "nfd", "nfkc", "nfkd".
func NewNormalizer(name string) (Normalizer, error) {
	switch strings.ToLower(name) {
	case "", "none":
		return Normalizer{}, nil
	case "nfc":
		return Normalizer{form: norm.NFC, name: "nfc", enabled: true}, nil
	case "nfd":
		return Normalizer{form: norm.NFD, name: "nfd", enabled: true}, nil
	case "nfkc":
		return Normalizer{form: norm.NFKC, name: "nfkc", enabled: true}, nil
	case "nfkd":
		return Normalizer{form: norm.NFKD, name: "nfkd", enabled: true}, nil
	default:
		return Normalizer{}, fmt.Errorf("segment: unknown normal form %q", name)
	}
}

// Name returns the form name in lower case, "" when disabled. It is
// accepted by NewNormalizer.
func (n Normalizer) Name() string {
	return n.name
}

// Enabled reports whether the normalizer changes text.
func (n Normalizer) Enabled() bool {
	return n.enabled
}

// String applies the normal form to s.
func (n Normalizer) String(s string) string {
	if !n.enabled || n.form.IsNormalString(s) {
		return s
	}
	return n.form.String(s)
}

// Strings applies the normal form to every element of ss, returning a new slice.
func (n Normalizer) Strings(ss []string) []string {
	out := make([]string, len(ss))
	for i, s := range ss {
		out[i] = n.String(s)
	}
	return out
}
