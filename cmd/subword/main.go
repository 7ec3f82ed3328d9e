package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/crimson-sun/subword/internal/config"
	"github.com/crimson-sun/subword/internal/logging"

	// Register store implementations.
	_ "github.com/crimson-sun/subword/internal/store/file"
	_ "github.com/crimson-sun/subword/internal/store/sqlite"
)

const usage = `usage: subword <command> [flags]

commands:
  train    learn a vocabulary from a corpus file and save it
  encode   encode lines of text as NDJSON token records
  decode   turn token IDs back into text
  inspect  list top-ranked vocabulary entries
`

func main() {
	cfg := config.Load()

	// NDJSON on stdout means logs on stderr are JSON too.
	logger := logging.Init(os.Stderr, cfg.Output.Destination != "file", logging.ParseLevel(cfg.LogLevel))

	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	// Set up graceful shutdown.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logger.Info("shutting down", "signal", sig.String())
		cancel()
	}()

	a := &app{cfg: cfg, logger: logger, stdin: os.Stdin, stdout: os.Stdout}
	if err := a.run(ctx, os.Args[1], os.Args[2:]); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("subword failed", "command", os.Args[1], "error", err)
		os.Exit(1)
	}
}

// app carries what every command needs.
type app struct {
	cfg    config.Config
	logger *slog.Logger
	stdin  io.Reader
	stdout io.Writer
}

func (a *app) run(ctx context.Context, cmd string, args []string) error {
	switch cmd {
	case "train":
		return a.train(ctx, args)
	case "encode":
		return a.encode(ctx, args)
	case "decode":
		return a.decode(ctx, args)
	case "inspect":
		return a.inspect(ctx, args)
	case "help", "-h", "--help":
		fmt.Fprint(a.stdout, usage)
		return nil
	default:
		return fmt.Errorf("unknown command %q", cmd)
	}
}
