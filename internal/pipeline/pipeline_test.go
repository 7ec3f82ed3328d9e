package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/crimson-sun/subword/internal/corpus"
	"github.com/crimson-sun/subword/internal/engine"
	"github.com/crimson-sun/subword/internal/engine/bpe"
	"github.com/crimson-sun/subword/internal/engine/segment"
	"github.com/crimson-sun/subword/internal/model"
)

// --- mocks ---

// mockProcessor echoes the line as a single token, except when the text
// matches failOn.
type mockProcessor struct {
	failOn string
}

func (m *mockProcessor) Process(line model.Line) (model.Record, error) {
	if line.Text == m.failOn {
		return model.Record{}, fmt.Errorf("mock: cannot process %q", line.Text)
	}
	return model.Record{
		Line:   line.Number,
		Text:   line.Text,
		Tokens: []string{line.Text},
		IDs:    []int{line.Number},
	}, nil
}

type mockOutput struct {
	mu      sync.Mutex
	records []model.Record
	closed  bool
	err     error
}

func (m *mockOutput) Write(_ context.Context, rec model.Record) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.records = append(m.records, rec)
	return nil
}

func (m *mockOutput) Close() error {
	m.closed = true
	return nil
}

// blockingSource sends its lines and then holds the channel open until ctx
// is cancelled. exited, when set, is closed as the goroutine returns.
type blockingSource struct {
	lines  []model.Line
	exited chan struct{}
}

func (s *blockingSource) Stream(ctx context.Context) (<-chan model.Line, error) {
	ch := make(chan model.Line)
	go func() {
		defer close(ch)
		if s.exited != nil {
			defer close(s.exited)
		}
		for _, l := range s.lines {
			select {
			case ch <- l:
			case <-ctx.Done():
				return
			}
		}
		<-ctx.Done()
	}()
	return ch, nil
}

type failingSource struct{}

func (failingSource) Stream(context.Context) (<-chan model.Line, error) {
	return nil, errors.New("no input")
}

type errReader struct{}

func (errReader) Read([]byte) (int, error) { return 0, errors.New("disk gone") }

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// --- tests ---

func TestRunWritesEveryLine(t *testing.T) {
	out := &mockOutput{}
	p := New(corpus.Lines("one", "two", "three"), &mockProcessor{}, out)

	sum, err := p.Run(context.Background())
	if err != nil {
		t.Fatalf("Run error: %v", err)
	}
	want := Summary{Lines: 3, Written: 3}
	if sum != want {
		t.Errorf("summary = %+v, want %+v", sum, want)
	}
	for i, rec := range out.records {
		if rec.Line != i+1 {
			t.Errorf("record %d: line %d, want %d", i, rec.Line, i+1)
		}
	}
}

func TestRunSkipsFailedLines(t *testing.T) {
	out := &mockOutput{}
	p := New(corpus.Lines("ok", "bad", "fine"), &mockProcessor{failOn: "bad"}, out,
		WithLogger(quietLogger()))

	sum, err := p.Run(context.Background())
	if err != nil {
		t.Fatalf("Run error: %v", err)
	}
	want := Summary{Lines: 3, Written: 2, Failed: 1}
	if sum != want {
		t.Errorf("summary = %+v, want %+v", sum, want)
	}
	if len(out.records) != 2 || out.records[1].Text != "fine" {
		t.Errorf("records = %+v", out.records)
	}
}

func TestRunStopOnError(t *testing.T) {
	out := &mockOutput{}
	p := New(corpus.Lines("ok", "bad", "fine"), &mockProcessor{failOn: "bad"}, out,
		WithStopOnError())

	sum, err := p.Run(context.Background())
	if err == nil || !strings.Contains(err.Error(), "pipeline process") {
		t.Fatalf("Run error = %v, want pipeline process error", err)
	}
	if sum.Written != 1 || sum.Failed != 1 {
		t.Errorf("summary = %+v", sum)
	}
}

func TestRunOutputErrorStops(t *testing.T) {
	writeErr := errors.New("disk full")
	out := &mockOutput{err: writeErr}
	p := New(corpus.Lines("a", "b"), &mockProcessor{}, out)

	sum, err := p.Run(context.Background())
	if !errors.Is(err, writeErr) {
		t.Fatalf("Run error = %v, want %v", err, writeErr)
	}
	if sum.Written != 0 {
		t.Errorf("Written = %d, want 0", sum.Written)
	}
}

func TestRunStopsOnCancel(t *testing.T) {
	src := &blockingSource{lines: []model.Line{{Number: 1, Text: "a"}}}
	out := &mockOutput{}
	p := New(src, &mockProcessor{}, out)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		_, err := p.Run(ctx)
		done <- err
	}()

	cancel()
	if err := <-done; !errors.Is(err, context.Canceled) && err != nil {
		t.Errorf("Run error = %v, want context.Canceled or nil", err)
	}
}

func TestRunStopsSourceOnEarlyReturn(t *testing.T) {
	tests := []struct {
		name string
		proc *mockProcessor
		out  *mockOutput
		opts []Option
	}{
		{"stop on error", &mockProcessor{failOn: "bad"}, &mockOutput{}, []Option{WithStopOnError()}},
		{"output error", &mockProcessor{}, &mockOutput{err: errors.New("disk full")}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := &blockingSource{
				lines:  []model.Line{{Number: 1, Text: "bad"}, {Number: 2, Text: "more"}},
				exited: make(chan struct{}),
			}
			p := New(src, tt.proc, tt.out, tt.opts...)

			if _, err := p.Run(context.Background()); err == nil {
				t.Fatal("expected Run to fail")
			}
			select {
			case <-src.exited:
			case <-time.After(2 * time.Second):
				t.Fatal("source goroutine still running after Run returned")
			}
		})
	}
}

func TestRunSourceError(t *testing.T) {
	p := New(failingSource{}, &mockProcessor{}, &mockOutput{})
	if _, err := p.Run(context.Background()); err == nil {
		t.Fatal("expected error from failing source")
	}
}

func TestRunReportsReadError(t *testing.T) {
	p := New(corpus.NewLineSource(errReader{}), &mockProcessor{}, &mockOutput{})
	_, err := p.Run(context.Background())
	if err == nil || !strings.Contains(err.Error(), "disk gone") {
		t.Fatalf("Run error = %v, want read error", err)
	}
}

func TestCloseClosesOutput(t *testing.T) {
	out := &mockOutput{}
	p := New(corpus.Lines(), &mockProcessor{}, out)
	if err := p.Close(); err != nil {
		t.Fatalf("Close error: %v", err)
	}
	if !out.closed {
		t.Error("output not closed")
	}
}

func TestRunWithEngine(t *testing.T) {
	tok, err := bpe.New(bpe.WithLogger(quietLogger()))
	if err != nil {
		t.Fatal(err)
	}
	norm, _ := segment.NewNormalizer("")
	eng := engine.New(tok, norm, quietLogger())
	if _, err := eng.TrainText("aaabdaaabac", 3, 0); err != nil {
		t.Fatalf("TrainText error: %v", err)
	}

	out := &mockOutput{}
	p := New(corpus.Lines("aaabdaaabac", "xyz", "abba"), eng, out, WithLogger(quietLogger()))
	sum, err := p.Run(context.Background())
	if err != nil {
		t.Fatalf("Run error: %v", err)
	}
	want := Summary{Lines: 3, Written: 2, Failed: 1}
	if sum != want {
		t.Fatalf("summary = %+v, want %+v", sum, want)
	}

	first := out.records[0]
	if strings.Join(first.Tokens, "|") != "aaab|daaa|bac" {
		t.Errorf("tokens = %v, want [aaab daaa bac]", first.Tokens)
	}
	decoded, err := eng.Decode(out.records[1].IDs)
	if err != nil || decoded != "abba" {
		t.Errorf("Decode = %q, %v; want abba", decoded, err)
	}
}
