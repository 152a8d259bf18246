package main

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"net/http"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/lgbarn/chessrules-go/internal/config"
	"github.com/lgbarn/chessrules-go/internal/engine"
	"github.com/lgbarn/chessrules-go/internal/game"
	"github.com/lgbarn/chessrules-go/internal/output"
	"github.com/lgbarn/chessrules-go/internal/replay"
	"github.com/lgbarn/chessrules-go/internal/search"
	"github.com/lgbarn/chessrules-go/internal/server"
	"github.com/lgbarn/chessrules-go/internal/store"
)

// runReplay validates every game read from the inputs and writes each
// replayed game in the selected output format.
func runReplay(ctx context.Context, cfg *config.Config, opts *options, logger *zap.Logger, stdin io.Reader, stdout, stderr io.Writer) error {
	games, err := readInputs(opts.args, stdin)
	if err != nil {
		return err
	}

	var archive store.RecordArchive
	if opts.archive {
		a, closeArchive, err := openArchive(ctx, cfg)
		if err != nil {
			return err
		}
		if a == nil {
			return fmt.Errorf("-archive needs store.mongo_uri")
		}
		defer closeArchive()
		archive = a
	}

	format, err := opts.outputFormat()
	if err != nil {
		return err
	}
	outcomes := replay.New(logger).ReplayAll(ctx, games, cfg.Replay.Workers)
	failed, err := writeRecords(ctx, outcomes, archive, output.New(stdout, format), stderr)
	if err != nil {
		return err
	}

	fmt.Fprintf(stderr, "%d game(s) replayed, %d failed out of %d.\n", len(outcomes)-failed, failed, len(outcomes))
	if failed > 0 && opts.failFast {
		return fmt.Errorf("%d game(s) failed to replay", failed)
	}
	return nil
}

// writeRecords archives and writes every replayed game, reporting failed
// games to stderr. The writer is closed on every path so records written
// before an error are not lost.
func writeRecords(ctx context.Context, outcomes []replay.Outcome, archive store.RecordArchive, w output.RecordWriter, stderr io.Writer) (failed int, err error) {
	defer func() {
		if cerr := w.Close(); err == nil {
			err = cerr
		}
	}()

	for _, o := range outcomes {
		if o.Err != nil {
			failed++
			fmt.Fprintf(stderr, "%v\n", o.Err)
			continue
		}
		if archive != nil {
			if err := archive.Put(ctx, o.Record); err != nil {
				return failed, fmt.Errorf("archiving %s: %w", o.Record.ID, err)
			}
		}
		if err := w.WriteRecord(o.Record); err != nil {
			return failed, err
		}
	}
	return failed, nil
}

// runPlay plays a terminal game against the search engine.
func runPlay(ctx context.Context, cfg *config.Config, opts *options, logger *zap.Logger, stdin io.Reader, stdout io.Writer) error {
	st := game.NewGameState()
	if opts.fen != "" {
		pos, err := engine.ParseFEN(opts.fen)
		if err != nil {
			return err
		}
		st, err = game.RestoreState(uuid.New(), engine.BoardToString(pos.Board, pos.ToMove), pos.MoveNumber)
		if err != nil {
			return err
		}
	}

	human := game.NewInteractive(stdin, stdout)
	bot := game.NewSearcher(search.New(cfg.Search, logger))
	white, black := sides(opts.engine, human, bot)

	g := game.New(st, white, black, logger)
	res, err := g.Run(ctx, opts.maxPlies)
	if err != nil {
		return err
	}

	fmt.Fprintf(stdout, "%s\n", st.Board)
	if res.Outcome == game.Checkmate {
		fmt.Fprintf(stdout, "%s: %s wins after %d plies\n", res.Outcome, res.Winner, res.Plies)
	} else {
		fmt.Fprintf(stdout, "%s after %d plies\n", res.Outcome, res.Plies)
	}

	if cfg.Store.RedisURL == "" {
		return nil
	}
	states, closeStates, err := openStateStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeStates()
	if err := states.Save(ctx, st.ID.String(), st.Serialize()); err != nil {
		return err
	}
	fmt.Fprintf(stdout, "saved as %s\n", st.ID)
	return nil
}

// sides assigns the move sources for White and Black.
func sides(engineSide string, human, bot game.MoveSource) (white, black game.MoveSource) {
	switch engineSide {
	case "W":
		return bot, human
	case "both":
		return bot, bot
	case "none":
		return human, human
	}
	return human, bot
}

// runServe serves the HTTP API until ctx is cancelled.
func runServe(ctx context.Context, cfg *config.Config, logger *zap.Logger) error {
	states, closeStates, err := openStateStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeStates()

	srvOpts := []server.Option{server.WithEngine(search.New(cfg.Search, logger))}
	archive, closeArchive, err := openArchive(ctx, cfg)
	if err != nil {
		return err
	}
	if archive != nil {
		defer closeArchive()
		srvOpts = append(srvOpts, server.WithArchive(archive))
	}

	srv := server.New(cfg.Server, states, logger, srvOpts...)
	if err := srv.ListenAndServe(ctx); err != nil && !stderrors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// openStateStore returns a Redis store when store.redis_url is set and an
// in-memory store otherwise.
func openStateStore(ctx context.Context, cfg *config.Config) (store.StateStore, func(), error) {
	if cfg.Store.RedisURL == "" {
		return store.NewMemoryStore(), func() {}, nil
	}
	client, err := store.OpenRedis(ctx, cfg.Store.RedisURL)
	if err != nil {
		return nil, nil, err
	}
	closeFn := func() { client.Close() } //nolint:errcheck,gosec // cleanup on exit
	return store.NewRedisStore(client, cfg.Store.RedisPrefix, cfg.Store.RedisTTL), closeFn, nil
}

// openArchive returns a MongoDB archive when store.mongo_uri is set, and a
// nil archive otherwise.
func openArchive(ctx context.Context, cfg *config.Config) (store.RecordArchive, func(), error) {
	if cfg.Store.MongoURI == "" {
		return nil, func() {}, nil
	}
	client, err := store.OpenMongo(ctx, cfg.Store.MongoURI)
	if err != nil {
		return nil, nil, err
	}
	closeFn := func() { client.Disconnect(context.Background()) } //nolint:errcheck,gosec // cleanup on exit
	return store.NewMongoArchive(client.Database(cfg.Store.MongoDatabase)), closeFn, nil
}
