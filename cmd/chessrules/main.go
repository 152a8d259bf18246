// chessrules replays, plays and serves chess games under the full rules.
package main

import (
	"context"
	stderrors "errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/lgbarn/chessrules-go/internal/config"
)

const programVersion = "0.1.0"

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

// run executes the command and returns the exit status.
func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	opts, err := parseFlags(args, stderr)
	if err != nil {
		if stderrors.Is(err, flag.ErrHelp) {
			return 0
		}
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 2
	}
	if opts.help {
		usage(newFlagSet(&options{}, stderr), stderr)
		return 0
	}
	if opts.version {
		fmt.Fprintf(stdout, "chessrules version %s\n", programVersion)
		return 0
	}

	cfg, err := config.Load(opts.configPath)
	if err != nil {
		fmt.Fprintf(stderr, "Error loading config: %v\n", err)
		return 1
	}
	cfg = applyFlags(cfg, opts)
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}

	logger, err := newLogger(cfg)
	if err != nil {
		fmt.Fprintf(stderr, "Error creating logger: %v\n", err)
		return 1
	}
	defer logger.Sync() //nolint:errcheck // stderr sync fails on some terminals

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	switch opts.mode {
	case "play":
		err = runPlay(ctx, cfg, opts, logger, stdin, stdout)
	case "serve":
		err = runServe(ctx, cfg, logger)
	default:
		err = runReplay(ctx, cfg, opts, logger, stdin, stdout, stderr)
	}
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

func newLogger(cfg *config.Config) (*zap.Logger, error) {
	if cfg.Log.Development {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}
