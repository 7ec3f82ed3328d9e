// Package corpus reads training text and streams input lines.
package corpus

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"

	"github.com/crimson-sun/subword/internal/engine/segment"
	"github.com/crimson-sun/subword/internal/model"
)

// maxLineSize bounds a single line read by LineSource.
const maxLineSize = 1 << 20

// Read reads all of r and splits it into word units.
func Read(r io.Reader) ([]string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("corpus: read: %w", err)
	}
	return segment.Split(string(data)), nil
}

// ReadFile reads the file at path and splits it into word units.
func ReadFile(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("corpus: %w", err)
	}
	defer f.Close()
	return Read(f)
}

// LineSource streams the lines of a reader, without their line endings, or
// a fixed list of texts.
type LineSource struct {
	r     io.Reader
	texts []string
	err   error
}

// NewLineSource creates a LineSource over r.
func NewLineSource(r io.Reader) *LineSource {
	return &LineSource{r: r}
}

// Lines returns a LineSource that yields each text as one line, unsplit.
// Empty texts still produce a line.
func Lines(texts ...string) *LineSource {
	return &LineSource{texts: texts}
}

// Stream sends each line on the returned channel until the reader is
// exhausted or ctx is cancelled. The channel is closed when streaming ends;
// check Err afterwards for a read error.
func (s *LineSource) Stream(ctx context.Context) (<-chan model.Line, error) {
	ch := make(chan model.Line)
	if s.r == nil {
		go func() {
			defer close(ch)
			for i, text := range s.texts {
				select {
				case ch <- model.Line{Number: i + 1, Text: text}:
				case <-ctx.Done():
					return
				}
			}
		}()
		return ch, nil
	}
	go func() {
		defer close(ch)
		scanner := bufio.NewScanner(s.r)
		scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)
		n := 0
		for scanner.Scan() {
			n++
			select {
			case ch <- model.Line{Number: n, Text: scanner.Text()}:
			case <-ctx.Done():
				return
			}
		}
		if err := scanner.Err(); err != nil {
			s.err = fmt.Errorf("corpus: line %d: %w", n+1, err)
		}
	}()
	return ch, nil
}

// Err returns the read error that ended the stream, if any. Only valid after
// the channel from Stream is closed.
func (s *LineSource) Err() error {
	return s.err
}
