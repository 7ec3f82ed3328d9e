package output

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/crimson-sun/subword/internal/model"
)

func testRecord() model.Record {
	return model.Record{
		Line:   3,
		Text:   "ab ba",
		Tokens: []string{"ab", " ", "b", "a"},
		IDs:    []int{2, 3, 1, 0},
	}
}

func TestFormatRecordMinimal(t *testing.T) {
	r := FormatRecord(testRecord(), Minimal)
	if r.Tokens != nil || r.Text != "" {
		t.Errorf("minimal kept tokens/text: %+v", r)
	}
	if len(r.IDs) != 4 || r.Line != 3 {
		t.Errorf("minimal dropped ids/line: %+v", r)
	}

	data, _ := json.Marshal(r)
	if strings.Contains(string(data), "tokens") || strings.Contains(string(data), "text") {
		t.Errorf("minimal JSON should omit tokens and text: %s", data)
	}
}

func TestFormatRecordStandard(t *testing.T) {
	r := FormatRecord(testRecord(), Standard)
	if r.Text != "" {
		t.Errorf("standard kept text: %q", r.Text)
	}
	if len(r.Tokens) != 4 {
		t.Errorf("standard dropped tokens: %+v", r)
	}
}

func TestFormatRecordFull(t *testing.T) {
	r := FormatRecord(testRecord(), Full)
	if r.Text != "ab ba" || len(r.Tokens) != 4 {
		t.Errorf("full should keep everything: %+v", r)
	}
}

func TestFormatRecordDoesNotMutateInput(t *testing.T) {
	orig := testRecord()
	_ = FormatRecord(orig, Minimal)
	if orig.Text == "" || orig.Tokens == nil {
		t.Error("FormatRecord mutated its input")
	}
}

func TestEmptyIDsStillSerialized(t *testing.T) {
	data, _ := json.Marshal(FormatRecord(model.Record{Line: 1, IDs: []int{}}, Minimal))
	if !strings.Contains(string(data), `"ids":[]`) {
		t.Errorf("expected empty ids array, got %s", data)
	}
}

func TestParseVerbosity(t *testing.T) {
	tests := []struct {
		in   string
		want Verbosity
	}{
		{"minimal", Minimal},
		{"FULL", Full},
		{"standard", Standard},
		{"", Standard},
		{"verbose", Standard},
	}
	for _, tt := range tests {
		if got := ParseVerbosity(tt.in); got != tt.want {
			t.Errorf("ParseVerbosity(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
