package file

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/crimson-sun/subword/internal/model"
	"github.com/crimson-sun/subword/internal/output"
)

const (
	defaultBufSize    = 64 * 1024
	defaultMaxBackups = 10
)

// Option configures a file Output.
type Option func(*Output)

// WithMaxSize sets the file size in bytes at which the file is rotated.
// 0 (default) disables rotation.
func WithMaxSize(bytes int64) Option {
	return func(o *Output) { o.maxSize = bytes }
}

// WithBufSize sets the write buffer size. Default: 64KB.
func WithBufSize(bytes int) Option {
	return func(o *Output) { o.bufSize = bytes }
}

// WithMaxBackups sets how many rotated files ({path}.1 is the newest) are
// kept. Default: 10.
func WithMaxBackups(n int) Option {
	return func(o *Output) { o.maxBackups = n }
}

// Output appends encode records as NDJSON to a file, rotating it once it
// would grow past the size limit.
type Output struct {
	mu         sync.Mutex
	path       string
	verbosity  output.Verbosity
	maxSize    int64
	maxBackups int
	bufSize    int

	f         *os.File
	w         *bufio.Writer
	size      int64 // bytes in the current file, buffered included
	rotations int
}

// New opens path for appending, creating it and its directory if needed.
func New(path string, verbosity output.Verbosity, opts ...Option) (*Output, error) {
	o := &Output{
		path:       path,
		verbosity:  verbosity,
		bufSize:    defaultBufSize,
		maxBackups: defaultMaxBackups,
	}
	for _, opt := range opts {
		opt(o)
	}
	if o.maxBackups < 1 {
		o.maxBackups = 1
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("file output: %w", err)
	}
	if err := o.open(); err != nil {
		return nil, err
	}
	return o, nil
}

// Write appends rec as one JSON line.
func (o *Output) Write(_ context.Context, rec model.Record) error {
	line, err := json.Marshal(output.FormatRecord(rec, o.verbosity))
	if err != nil {
		return fmt.Errorf("file output: marshal line %d: %w", rec.Line, err)
	}
	line = append(line, '\n')

	o.mu.Lock()
	defer o.mu.Unlock()

	// A line larger than maxSize still goes to a file of its own.
	if o.maxSize > 0 && o.size > 0 && o.size+int64(len(line)) > o.maxSize {
		if err := o.rotate(); err != nil {
			return fmt.Errorf("file output: rotate: %w", err)
		}
	}
	n, err := o.w.Write(line)
	o.size += int64(n)
	if err != nil {
		return fmt.Errorf("file output: write: %w", err)
	}
	return nil
}

// Rotations returns how many times the file has been rotated.
func (o *Output) Rotations() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.rotations
}

// Close flushes buffered lines and closes the file.
func (o *Output) Close() error {
	o.mu.Lock()
	defer o.mu.Unlock()
	flushErr := o.w.Flush()
	closeErr := o.f.Close()
	if err := errors.Join(flushErr, closeErr); err != nil {
		return fmt.Errorf("file output: close: %w", err)
	}
	return nil
}

func (o *Output) open() error {
	f, err := os.OpenFile(o.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("file output: open %s: %w", o.path, err)
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return fmt.Errorf("file output: stat %s: %w", o.path, err)
	}
	o.f = f
	o.w = bufio.NewWriterSize(f, o.bufSize)
	o.size = info.Size()
	return nil
}

func (o *Output) backup(n int) string {
	return fmt.Sprintf("%s.%d", o.path, n)
}

// rotate closes the current file, shifts {path}.N to {path}.N+1 dropping the
// oldest, moves the current file to {path}.1 and reopens {path}.
func (o *Output) rotate() error {
	if err := o.w.Flush(); err != nil {
		return err
	}
	if err := o.f.Close(); err != nil {
		return err
	}

	if err := os.Remove(o.backup(o.maxBackups)); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	for n := o.maxBackups - 1; n >= 1; n-- {
		if err := os.Rename(o.backup(n), o.backup(n+1)); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return err
		}
	}
	if err := os.Rename(o.path, o.backup(1)); err != nil {
		return err
	}

	o.rotations++
	return o.open()
}
