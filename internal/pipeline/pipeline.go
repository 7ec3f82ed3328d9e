package pipeline

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/crimson-sun/subword/internal/model"
	"github.com/crimson-sun/subword/internal/output"
)

// Source produces input lines. The channel is closed when the source is
// exhausted.
type Source interface {
	Stream(ctx context.Context) (<-chan model.Line, error)
}

// Processor turns a line into an encode record.
type Processor interface {
	Process(line model.Line) (model.Record, error)
}

// Summary counts what a run did.
type Summary struct {
	Lines   int // lines received from the source
	Written int // records delivered to the output
	Failed  int // lines skipped because they could not be processed
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithLogger sets the logger used for skipped lines. Default: slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(p *Pipeline) { p.logger = l }
}

// WithStopOnError makes Run return on the first line that fails to process
// instead of skipping it.
func WithStopOnError() Option {
	return func(p *Pipeline) { p.stopOnError = true }
}

// Pipeline connects a line source, an encoder and an output.
type Pipeline struct {
	source      Source
	proc        Processor
	output      output.Output
	logger      *slog.Logger
	stopOnError bool
}

// New creates a Pipeline from the given components.
func New(src Source, proc Processor, out output.Output, opts ...Option) *Pipeline {
	p := &Pipeline{
		source: src,
		proc:   proc,
		output: out,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Run streams every line through the processor to the output. Lines that
// fail to process are logged and skipped. Run blocks until the source is
// exhausted, ctx is cancelled, or the output fails. The source is stopped
// before Run returns.
func (p *Pipeline) Run(ctx context.Context) (Summary, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var sum Summary
	ch, err := p.source.Stream(ctx)
	if err != nil {
		return sum, fmt.Errorf("pipeline stream: %w", err)
	}

	for {
		select {
		case <-ctx.Done():
			return sum, ctx.Err()
		case line, ok := <-ch:
			if !ok {
				return sum, p.sourceErr()
			}
			sum.Lines++
			rec, err := p.proc.Process(line)
			if err != nil {
				sum.Failed++
				if p.stopOnError {
					return sum, fmt.Errorf("pipeline process: %w", err)
				}
				p.logger.Warn("skipping line", "line", line.Number, "error", err)
				continue
			}
			if err := p.output.Write(ctx, rec); err != nil {
				return sum, fmt.Errorf("pipeline output: %w", err)
			}
			sum.Written++
		}
	}
}

// sourceErr reports a read error from sources that expose one.
func (p *Pipeline) sourceErr() error {
	if s, ok := p.source.(interface{ Err() error }); ok {
		if err := s.Err(); err != nil {
			return fmt.Errorf("pipeline source: %w", err)
		}
	}
	return nil
}

// Close shuts down the output.
func (p *Pipeline) Close() error {
	return p.output.Close()
}
