package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"text/tabwriter"
	"unicode/utf8"

	"github.com/crimson-sun/subword/internal/config"
	"github.com/crimson-sun/subword/internal/corpus"
	"github.com/crimson-sun/subword/internal/engine"
	"github.com/crimson-sun/subword/internal/engine/bpe"
	"github.com/crimson-sun/subword/internal/engine/segment"
	"github.com/crimson-sun/subword/internal/output"
	"github.com/crimson-sun/subword/internal/output/async"
	"github.com/crimson-sun/subword/internal/output/file"
	"github.com/crimson-sun/subword/internal/output/multi"
	"github.com/crimson-sun/subword/internal/output/stdout"
	"github.com/crimson-sun/subword/internal/pipeline"
	"github.com/crimson-sun/subword/internal/store"
)

func (a *app) train(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("train", flag.ContinueOnError)
	corpusPath := fs.String("corpus", "", "path to the training corpus (required)")
	iterations := fs.Int("iterations", a.cfg.Tokenizer.Iterations, "merge rounds")
	vocabSize := fs.Int("vocab-size", a.cfg.Tokenizer.VocabSize, "prune to this many entries, 0 keeps all")
	name := fs.String("name", a.cfg.Store.Name, "vocabulary name in the store")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *corpusPath == "" {
		return fmt.Errorf("train: -corpus is required")
	}

	words, err := corpus.ReadFile(*corpusPath)
	if err != nil {
		return fmt.Errorf("train: %w", err)
	}
	eng, err := a.newEngine()
	if err != nil {
		return fmt.Errorf("train: %w", err)
	}
	report, err := eng.Train(words, *iterations, *vocabSize)
	if err != nil {
		return fmt.Errorf("train: %w", err)
	}

	st, err := store.Open(a.cfg.Store.Backend, a.cfg.Store.Path)
	if err != nil {
		return fmt.Errorf("train: %w", err)
	}
	defer st.Close()
	if err := st.Save(ctx, *name, eng.Snapshot()); err != nil {
		return fmt.Errorf("train: %w", err)
	}

	fmt.Fprintf(a.stdout, "saved %s: %d entries (%d learned, %d merges), %.2f runes/token, %.2fx whitespace estimate\n",
		*name, report.Size, report.Learned, len(report.Merges),
		report.Compression.RunesPerToken, report.Compression.Ratio())
	return nil
}

func (a *app) encode(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("encode", flag.ContinueOnError)
	name := fs.String("name", a.cfg.Store.Name, "vocabulary name in the store")
	in := fs.String("in", "", "read lines from this file instead of stdin")
	if err := fs.Parse(args); err != nil {
		return err
	}

	eng, err := a.loadEngine(ctx, *name)
	if err != nil {
		return fmt.Errorf("encode: %w", err)
	}

	var src pipeline.Source
	switch {
	case fs.NArg() > 0:
		src = corpus.Lines(fs.Args()...)
	case *in != "":
		f, err := os.Open(*in)
		if err != nil {
			return fmt.Errorf("encode: %w", err)
		}
		defer f.Close()
		src = corpus.NewLineSource(f)
	default:
		src = corpus.NewLineSource(a.stdin)
	}

	out, err := newOutput(a.cfg.Output, a.stdout)
	if err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	p := pipeline.New(src, eng, out, pipeline.WithLogger(a.logger))
	sum, runErr := p.Run(ctx)
	if err := p.Close(); err != nil && runErr == nil {
		runErr = err
	}
	a.logger.Info("encode complete", "lines", sum.Lines, "written", sum.Written, "failed", sum.Failed)
	if runErr != nil {
		return fmt.Errorf("encode: %w", runErr)
	}
	return nil
}

func (a *app) decode(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("decode", flag.ContinueOnError)
	name := fs.String("name", a.cfg.Store.Name, "vocabulary name in the store")
	if err := fs.Parse(args); err != nil {
		return err
	}

	ids, err := parseIDs(fs.Args())
	if err != nil {
		return fmt.Errorf("decode: %w", err)
	}
	eng, err := a.loadEngine(ctx, *name)
	if err != nil {
		return fmt.Errorf("decode: %w", err)
	}
	text, err := eng.Decode(ids)
	if err != nil {
		return fmt.Errorf("decode: %w", err)
	}
	fmt.Fprintln(a.stdout, text)
	return nil
}

func (a *app) inspect(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("inspect", flag.ContinueOnError)
	name := fs.String("name", a.cfg.Store.Name, "vocabulary name in the store")
	top := fs.Int("top", 20, "number of entries to list, 0 lists all")
	threshold := fs.Float64("threshold", a.cfg.Tokenizer.UniquenessThreshold, "uniqueness threshold")
	if err := fs.Parse(args); err != nil {
		return err
	}

	eng, err := a.loadEngine(ctx, *name)
	if err != nil {
		return fmt.Errorf("inspect: %w", err)
	}
	tok := eng.Tokenizer()
	ranked := tok.Ranked()
	if *top > 0 && len(ranked) > *top {
		ranked = ranked[:*top]
	}

	tw := tabwriter.NewWriter(a.stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tTOKEN\tLEN\tFREQ\tUNIQUENESS\tUNIQUE")
	for _, t := range ranked {
		id, _ := tok.ID(t)
		fmt.Fprintf(tw, "%d\t%q\t%d\t%d\t%.3f\t%t\n",
			id, t, utf8.RuneCountInString(t), tok.Frequency(t),
			tok.Uniqueness(t), tok.IsRelativelyUnique(t, *threshold))
	}
	return tw.Flush()
}

// newEngine builds an engine with an empty vocabulary from the tokenizer
// settings.
func (a *app) newEngine() (*engine.Engine, error) {
	tc := a.cfg.Tokenizer
	norm, err := segment.NewNormalizer(tc.Normalize)
	if err != nil {
		return nil, err
	}
	tok, err := bpe.New(
		bpe.WithMaxSubwordLen(tc.MaxSubwordLen),
		bpe.WithCacheSize(tc.CacheSize),
		bpe.WithCoveragePreserved(tc.PreserveCoverage),
		bpe.WithLogger(a.logger),
	)
	if err != nil {
		return nil, err
	}
	return engine.New(tok, norm, a.logger), nil
}

// loadEngine builds an engine and restores the named vocabulary into it.
func (a *app) loadEngine(ctx context.Context, name string) (*engine.Engine, error) {
	st, err := store.Open(a.cfg.Store.Backend, a.cfg.Store.Path)
	if err != nil {
		return nil, err
	}
	defer st.Close()

	snap, err := st.Load(ctx, name)
	if err != nil {
		return nil, err
	}
	eng, err := a.newEngine()
	if err != nil {
		return nil, err
	}
	if err := eng.Restore(snap); err != nil {
		return nil, err
	}
	return eng, nil
}

// newOutput resolves the configured destination. w stands in for stdout.
func newOutput(cfg config.OutputConfig, w io.Writer) (output.Output, error) {
	v := output.ParseVerbosity(cfg.Verbosity)

	var out output.Output
	switch cfg.Destination {
	case "stdout":
		out = stdout.New(w, v, cfg.Pretty)
	case "file", "both":
		f, err := file.New(cfg.Path, v, file.WithMaxSize(cfg.MaxSize))
		if err != nil {
			return nil, err
		}
		out = f
		if cfg.Destination == "both" {
			out = multi.New(stdout.New(w, v, cfg.Pretty), f)
		}
	default:
		return nil, fmt.Errorf("unknown output destination %q", cfg.Destination)
	}

	if cfg.Async {
		out = async.New(out)
	}
	return out, nil
}

func parseIDs(args []string) ([]int, error) {
	ids := make([]int, 0, len(args))
	for _, arg := range args {
		id, err := strconv.Atoi(arg)
		if err != nil {
			return nil, fmt.Errorf("invalid token id %q", arg)
		}
		ids = append(ids, id)
	}
	return ids, nil
}
