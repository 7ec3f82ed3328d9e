package corpus

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"testing/iotest"

	"github.com/crimson-sun/subword/internal/model"
)

func TestRead(t *testing.T) {
	units, err := Read(strings.NewReader("the cat, 9 lives"))
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	want := []string{"the", " ", "cat", ",", " ", "9", " ", "lives"}
	if !reflect.DeepEqual(units, want) {
		t.Errorf("Read = %q, want %q", units, want)
	}
}

func TestReadError(t *testing.T) {
	_, err := Read(iotest.ErrReader(errors.New("boom")))
	if err == nil || !strings.Contains(err.Error(), "boom") {
		t.Fatalf("expected wrapped read error, got %v", err)
	}
}

func TestReadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "corpus.txt")
	if err := os.WriteFile(path, []byte("ab ab\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	units, err := ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if want := []string{"ab", " ", "ab", "\n"}; !reflect.DeepEqual(units, want) {
		t.Errorf("ReadFile = %q, want %q", units, want)
	}

	if _, err := ReadFile(filepath.Join(t.TempDir(), "missing.txt")); err == nil {
		t.Error("expected error for missing file")
	}
}

func collect(t *testing.T, s *LineSource) []model.Line {
	t.Helper()
	ch, err := s.Stream(context.Background())
	if err != nil {
		t.Fatalf("Stream: %v", err)
	}
	var lines []model.Line
	for l := range ch {
		lines = append(lines, l)
	}
	return lines
}

func TestLineSource(t *testing.T) {
	s := NewLineSource(strings.NewReader("first\r\nsecond\n\nfourth"))
	got := collect(t, s)
	want := []model.Line{
		{Number: 1, Text: "first"},
		{Number: 2, Text: "second"},
		{Number: 3, Text: ""},
		{Number: 4, Text: "fourth"},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("lines = %+v, want %+v", got, want)
	}
	if s.Err() != nil {
		t.Errorf("unexpected Err: %v", s.Err())
	}
}

func TestLines(t *testing.T) {
	got := collect(t, Lines("a", "b\nc", "", "d"))
	want := []model.Line{
		{Number: 1, Text: "a"},
		{Number: 2, Text: "b\nc"},
		{Number: 3, Text: ""},
		{Number: 4, Text: "d"},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("lines = %+v, want %+v", got, want)
	}
	if s := Lines(); len(collect(t, s)) != 0 || s.Err() != nil {
		t.Error("expected no lines from an empty list")
	}
}

func TestLineSourceReadError(t *testing.T) {
	s := NewLineSource(iotest.ErrReader(errors.New("disk gone")))
	if lines := collect(t, s); len(lines) != 0 {
		t.Errorf("expected no lines, got %+v", lines)
	}
	if s.Err() == nil {
		t.Fatal("expected read error")
	}
}

func TestLineSourceCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	s := NewLineSource(strings.NewReader(strings.Repeat("x\n", 1000)))
	ch, _ := s.Stream(ctx)

	<-ch
	cancel()
	// The producer must stop and close the channel.
	for range ch {
	}
}
