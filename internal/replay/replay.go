// Package replay replays recorded games move by move through the notation
// parser and the move validator.
package replay

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/lgbarn/chessrules-go/internal/chess"
	"github.com/lgbarn/chessrules-go/internal/engine"
	"github.com/lgbarn/chessrules-go/internal/errors"
	"github.com/lgbarn/chessrules-go/internal/parser"
	"github.com/lgbarn/chessrules-go/internal/worker"
)

// GameInput is one recorded game: its result string and its move tokens.
type GameInput struct {
	ID     string // optional; a UUID is generated when empty
	Result string
	Tokens []string
}

// GameRecord is a successfully replayed game.
type GameRecord struct {
	ID     string       `json:"id" bson:"_id"`
	Result string       `json:"result" bson:"result"`
	Moves  []chess.Move `json:"moves" bson:"moves"`
	SAN    []string     `json:"san" bson:"san"`
	// States holds the serialized board before the first move and after
	// every ply.
	States []string `json:"states" bson:"states"`
	Plies  int      `json:"plies" bson:"plies"`
}

// Final returns the serialized final state.
func (r *GameRecord) Final() string {
	if len(r.States) == 0 {
		return ""
	}
	return r.States[len(r.States)-1]
}

// Replayer replays games. The zero value is not usable; create one with New.
type Replayer struct {
	logger *zap.Logger
}

// New creates a Replayer. A nil logger disables logging.
func New(logger *zap.Logger) *Replayer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Replayer{logger: logger}
}

// Replay plays in from the initial position. Every token is resolved with
// parser.ParseMove and every resulting transition is confirmed with
// engine.CheckTransition. Failures return a *errors.GameError naming the
// ply and token.
func (r *Replayer) Replay(ctx context.Context, in GameInput) (*GameRecord, error) {
	id := in.ID
	if id == "" {
		id = uuid.NewString()
	}

	board := chess.NewInitialBoard()
	team := chess.White
	rec := &GameRecord{
		ID:     id,
		Result: in.Result,
		States: []string{engine.BoardToString(board, team)},
	}

	fail := func(ply int, token string, err error) (*GameRecord, error) {
		r.logger.Debug("replay failed",
			zap.String("game", id),
			zap.Int("ply", ply),
			zap.String("token", token),
			zap.Error(err),
		)
		return nil, &errors.GameError{Err: err, GameID: id, PlyNum: ply, MoveText: token}
	}

	for i, token := range in.Tokens {
		ply := i + 1
		if err := ctx.Err(); err != nil {
			return fail(ply, token, err)
		}

		m, err := parser.ParseMove(board, token, team)
		if err != nil {
			return fail(ply, token, err)
		}
		san := parser.Format(board, m, team)

		next := board.Copy()
		if err := engine.ApplyMove(next, m, team); err != nil {
			return fail(ply, token, err)
		}
		if err := engine.CheckTransition(board, next, team); err != nil {
			return fail(ply, token, fmt.Errorf("validator rejected %v: %w", m, err))
		}

		board = next
		team = team.Opponent()
		rec.Moves = append(rec.Moves, m)
		rec.SAN = append(rec.SAN, san)
		rec.States = append(rec.States, engine.BoardToString(board, team))
	}

	rec.Plies = len(rec.Moves)
	r.logger.Debug("replayed game",
		zap.String("game", id),
		zap.Int("plies", rec.Plies),
		zap.String("result", rec.Result),
		zap.String("final", rec.Final()),
	)
	return rec, nil
}

// Outcome is the result of one game in a batch: a record or an error.
type Outcome struct {
	Record *GameRecord
	Err    error
}

// ReplayAll replays games on the given number of workers and returns one
// outcome per game in input order.
func (r *Replayer) ReplayAll(ctx context.Context, games []GameInput, workers int) []Outcome {
	results := worker.Map(ctx, games, workers, r.Replay)

	out := make([]Outcome, len(results))
	failed := 0
	for i, res := range results {
		out[i] = Outcome{Record: res.Value, Err: res.Err}
		if res.Err != nil {
			failed++
		}
	}
	r.logger.Info("replay batch finished",
		zap.Int("games", len(games)),
		zap.Int("failed", failed),
		zap.Int("workers", workers),
	)
	return out
}
