package game

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"

	"go.uber.org/zap"

	"github.com/lgbarn/chessrules-go/internal/chess"
	"github.com/lgbarn/chessrules-go/internal/engine"
	"github.com/lgbarn/chessrules-go/internal/errors"
	"github.com/lgbarn/chessrules-go/internal/parser"
)

// Outcome says why Run stopped.
type Outcome int

const (
	// InProgress is reported when Run stops on an error.
	InProgress Outcome = iota
	Checkmate
	NoLegalMoves
	SourceExhausted
	Cancelled
	PlyLimit
)

// String returns the name of an outcome.
func (o Outcome) String() string {
	switch o {
	case Checkmate:
		return "checkmate"
	case NoLegalMoves:
		return "no legal moves"
	case SourceExhausted:
		return "source exhausted"
	case Cancelled:
		return "cancelled"
	case PlyLimit:
		return "ply limit"
	}
	return "in progress"
}

// Result summarizes a finished Run.
type Result struct {
	Outcome Outcome
	// Winner is set for Checkmate only.
	Winner chess.Team
	Plies  int
}

// Game drives one game between two move sources.
type Game struct {
	state  *GameState
	white  MoveSource
	black  MoveSource
	logger *zap.Logger
}

// New creates a game. A nil logger disables logging.
func New(state *GameState, white, black MoveSource, logger *zap.Logger) *Game {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Game{
		state:  state,
		white:  white,
		black:  black,
		logger: logger.With(zap.Stringer("game", state.ID)),
	}
}

// State returns the live game state.
func (g *Game) State() *GameState {
	return g.state
}

func (g *Game) source(team chess.Team) MoveSource {
	if team == chess.White {
		return g.white
	}
	return g.black
}

// Step plays one ply. The move is checked against the legal move list,
// applied on a copy and confirmed by the transition validator before the
// state changes. Errors from the source are returned unchanged; rule
// violations return a *errors.GameError.
func (g *Game) Step(ctx context.Context) (chess.Move, error) {
	s := g.state
	team := s.ToMove
	ply := s.Plies() + 1

	m, err := g.source(team).NextMove(ctx, s)
	if err != nil {
		return chess.Move{}, err
	}

	fail := func(err error) (chess.Move, error) {
		return chess.Move{}, &errors.GameError{
			Err:      err,
			GameID:   s.ID.String(),
			PlyNum:   ply,
			MoveText: m.String(),
		}
	}

	if !engine.IsLegal(s.Board, team, m) {
		return fail(errors.ErrIllegalMove)
	}
	san := parser.Format(s.Board, m, team)

	next := s.Board.Copy()
	if err := engine.ApplyMove(next, m, team); err != nil {
		return fail(err)
	}
	if err := engine.CheckTransition(s.Board, next, team); err != nil {
		return fail(fmt.Errorf("validator rejected %v: %w", m, err))
	}

	s.Board = next
	s.ToMove = team.Opponent()
	if team == chess.Black {
		s.MoveNumber++
	}
	s.History = append(s.History, s.Serialize())

	g.logger.Info("ply",
		zap.Int("ply", ply),
		zap.Stringer("team", team),
		zap.String("move", san),
	)
	return m, nil
}

// Run steps until the side to move is mated or has no legal move, a
// source returns io.EOF, ctx is cancelled or maxPlies plies have been
// played in this call (0 means no limit).
func (g *Game) Run(ctx context.Context, maxPlies int) (Result, error) {
	played := 0
	for {
		s := g.state
		res := Result{Plies: s.Plies()}

		if err := ctx.Err(); err != nil {
			res.Outcome = Cancelled
			return g.finish(res), nil
		}
		if maxPlies > 0 && played >= maxPlies {
			res.Outcome = PlyLimit
			return g.finish(res), nil
		}
		switch {
		case engine.IsCheckmate(s.Board, s.ToMove):
			res.Outcome = Checkmate
			res.Winner = s.ToMove.Opponent()
			return g.finish(res), nil
		case engine.IsStalemate(s.Board, s.ToMove):
			res.Outcome = NoLegalMoves
			return g.finish(res), nil
		}

		if _, err := g.Step(ctx); err != nil {
			switch {
			case stderrors.Is(err, io.EOF):
				res.Outcome = SourceExhausted
				return g.finish(res), nil
			case ctx.Err() != nil:
				res.Outcome = Cancelled
				return g.finish(res), nil
			}
			g.logger.Warn("game stopped", zap.Error(err))
			return res, err
		}
		played++
	}
}

func (g *Game) finish(res Result) Result {
	fields := []zap.Field{
		zap.Stringer("outcome", res.Outcome),
		zap.Int("plies", res.Plies),
	}
	if res.Outcome == Checkmate {
		fields = append(fields, zap.Stringer("winner", res.Winner))
	}
	g.logger.Info("game over", fields...)
	return res
}
