// flags.go - Command-line flag definitions and configuration
package main

import (
	"flag"
	"fmt"
	"io"

	"github.com/lgbarn/chessrules-go/internal/config"
	"github.com/lgbarn/chessrules-go/internal/output"
)

// options holds the parsed command line.
type options struct {
	mode       string
	configPath string

	// Search
	depth        int
	openingMoves int
	seed         int64

	// Replay
	workers  int
	format   string
	jsonOut  bool
	archive  bool
	failFast bool

	// Play
	fen      string
	engine   string
	maxPlies int

	// Serve
	addr string

	// Logging
	development bool

	help    bool
	version bool

	// set records which flags were given explicitly so they override the
	// config file only when present.
	set  map[string]bool
	args []string
}

func newFlagSet(opts *options, out io.Writer) *flag.FlagSet {
	fs := flag.NewFlagSet("chessrules", flag.ContinueOnError)
	fs.SetOutput(out)

	fs.StringVar(&opts.mode, "mode", "replay", "Mode: replay, play or serve")
	fs.StringVar(&opts.configPath, "config", "", "Config file (yaml, toml or json)")

	fs.IntVar(&opts.depth, "depth", 0, "Base search depth")
	fs.IntVar(&opts.openingMoves, "opening", 0, "Moves searched one ply shallower")
	fs.Int64Var(&opts.seed, "seed", 0, "Search seed (0 = time seeded)")

	fs.IntVar(&opts.workers, "workers", 0, "Number of replay workers")
	fs.StringVar(&opts.format, "W", "", "Output format: san, lalg, states, json, jsonseq")
	fs.BoolVar(&opts.jsonOut, "J", false, "Output replayed games in JSON format")
	fs.BoolVar(&opts.archive, "archive", false, "Store replayed games in MongoDB (needs store.mongo_uri)")
	fs.BoolVar(&opts.failFast, "strict", false, "Exit non-zero if any game fails to replay")

	fs.StringVar(&opts.fen, "fen", "", "Starting position for play mode")
	fs.StringVar(&opts.engine, "engine", "B", "Side the engine plays: W, B, both or none")
	fs.IntVar(&opts.maxPlies, "maxply", 0, "Stop play after N plies (0 = no limit)")

	fs.StringVar(&opts.addr, "addr", "", "Listen address for serve mode")

	fs.BoolVar(&opts.development, "dev", false, "Development logging")

	fs.BoolVar(&opts.help, "h", false, "Show help")
	fs.BoolVar(&opts.version, "version", false, "Show version")

	fs.Usage = func() { usage(fs, out) }
	return fs
}

// parseFlags parses args into options.
func parseFlags(args []string, out io.Writer) (*options, error) {
	opts := &options{set: make(map[string]bool)}
	fs := newFlagSet(opts, out)
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	fs.Visit(func(f *flag.Flag) { opts.set[f.Name] = true })
	opts.args = fs.Args()

	switch opts.mode {
	case "replay", "play", "serve":
	default:
		return nil, fmt.Errorf("unknown mode %q", opts.mode)
	}
	if _, err := opts.outputFormat(); err != nil {
		return nil, err
	}
	switch opts.engine {
	case "W", "B", "both", "none":
	default:
		return nil, fmt.Errorf("unknown engine side %q", opts.engine)
	}
	return opts, nil
}

// outputFormat resolves -W and -J; -J wins.
func (o *options) outputFormat() (output.Format, error) {
	if o.jsonOut {
		return output.JSON, nil
	}
	return output.ParseFormat(o.format)
}

// applyFlags applies explicitly given command-line flags to the configuration.
func applyFlags(cfg *config.Config, opts *options) *config.Config {
	b := config.From(cfg)
	if opts.set["depth"] {
		b.WithSearchDepth(opts.depth)
	}
	if opts.set["opening"] {
		b.WithOpeningMoves(opts.openingMoves)
	}
	if opts.set["seed"] {
		b.WithSeed(opts.seed)
	}
	if opts.set["workers"] {
		b.WithWorkers(opts.workers)
	}
	if opts.set["addr"] {
		b.WithServerAddr(opts.addr)
	}
	if opts.set["dev"] {
		b.WithDevelopmentLogging(opts.development)
	}
	return b.Build()
}

func usage(fs *flag.FlagSet, out io.Writer) {
	fmt.Fprintf(out, "Usage: chessrules [options] [input-files...]\n\n")
	fmt.Fprintf(out, "Chess rules engine: replays recorded games, plays against the search\n")
	fmt.Fprintf(out, "engine and serves games over HTTP.\n\n")
	fmt.Fprintf(out, "Options:\n")
	fs.PrintDefaults()
	fmt.Fprintf(out, "\nModes (-mode):\n")
	fmt.Fprintf(out, "  replay  Validate movetext from files or stdin (default)\n")
	fmt.Fprintf(out, "  play    Play on the terminal against the engine\n")
	fmt.Fprintf(out, "  serve   Serve the HTTP and websocket API\n")
	fmt.Fprintf(out, "\nOutput formats (-W):\n")
	fmt.Fprintf(out, "  san     Standard Algebraic Notation (default)\n")
	fmt.Fprintf(out, "  lalg    Long algebraic (e2e4)\n")
	fmt.Fprintf(out, "  states  Serialized board after every ply\n")
	fmt.Fprintf(out, "  json    JSON array of game records\n")
	fmt.Fprintf(out, "  jsonseq One JSON document per game record\n")
	fmt.Fprintf(out, "\nEnvironment variables prefixed %s_ override config keys,\n", config.EnvPrefix)
	fmt.Fprintf(out, "e.g. %s_SEARCH_DEPTH=4.\n", config.EnvPrefix)
}
