// Package search selects moves for the automated side with a fixed-depth
// alpha-beta search.
package search

import (
	"fmt"
	"math/rand"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/lgbarn/chessrules-go/internal/chess"
	"github.com/lgbarn/chessrules-go/internal/config"
	"github.com/lgbarn/chessrules-go/internal/engine"
	"github.com/lgbarn/chessrules-go/internal/errors"
)

// infinity bounds every reachable score.
const infinity = 2 * MateScore

// Engine chooses moves. It is safe for concurrent use; searches are
// serialized because they share the random source.
type Engine struct {
	cfg    config.SearchConfig
	logger *zap.Logger

	mu  sync.Mutex
	rng *rand.Rand
}

// Option configures an Engine.
type Option func(*Engine)

// WithRand replaces the random source used for move shuffling and tie
// breaks.
func WithRand(rng *rand.Rand) Option {
	return func(e *Engine) {
		e.rng = rng
	}
}

// New creates an Engine. A nil logger disables logging. A zero seed in cfg
// seeds from the clock.
func New(cfg config.SearchConfig, logger *zap.Logger, opts ...Option) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	e := &Engine{
		cfg:    cfg,
		logger: logger,
		rng:    rand.New(rand.NewSource(seed)),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Depth returns the search depth for team at moveNumber: the base depth,
// one less during the opening (never below 1) and one more when team is
// behind in material by more than the deficit threshold.
func (e *Engine) Depth(board *chess.Board, team chess.Team, moveNumber int) int {
	depth := e.cfg.Depth
	if moveNumber <= e.cfg.OpeningMoves {
		depth--
	}
	if depth < 1 {
		depth = 1
	}
	deficit := Material(board, team.Opponent()) - Material(board, team)
	if deficit > e.cfg.DeficitThreshold {
		depth++
	}
	return depth
}

// ChooseMove picks a move for team. Moves are searched in random order and
// ties among the best root moves are broken at random. The board is not
// modified. It returns ErrNoLegalMoves when team cannot move.
func (e *Engine) ChooseMove(board *chess.Board, team chess.Team, moveNumber int) (chess.Move, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	moves := engine.LegalMoves(board, team)
	if len(moves) == 0 {
		return chess.Move{}, fmt.Errorf("%s to move: %w", team, errors.ErrNoLegalMoves)
	}

	depth := e.Depth(board, team, moveNumber)
	s := &searcher{team: team, rng: e.rng}
	s.shuffle(moves)

	best := -infinity
	var ties []chess.Move
	for _, m := range moves {
		child := board.Copy()
		if err := engine.ApplyMove(child, m, team); err != nil {
			return chess.Move{}, fmt.Errorf("applying %v: %w", m, err)
		}
		// A window just below best keeps equal scores exact, so ties are real.
		score := s.alphaBeta(child, team.Opponent(), depth-1, best-1, infinity)
		switch {
		case score > best:
			best = score
			ties = append(ties[:0], m)
		case score == best:
			ties = append(ties, m)
		}
	}

	choice := ties[e.rng.Intn(len(ties))]
	e.logger.Debug("move chosen",
		zap.Stringer("team", team),
		zap.Stringer("move", choice),
		zap.Int("score", best),
		zap.Int("depth", depth),
		zap.Int("ties", len(ties)),
		zap.Int("nodes", s.nodes),
	)
	return choice, nil
}

// searcher holds the state of one ChooseMove call.
type searcher struct {
	team  chess.Team
	rng   *rand.Rand
	nodes int
}

func (s *searcher) shuffle(moves []chess.Move) {
	s.rng.Shuffle(len(moves), func(i, j int) {
		moves[i], moves[j] = moves[j], moves[i]
	})
}

// alphaBeta returns the minimax value of board for s.team with toMove on
// move. Nodes where s.team moves maximize; the others minimize.
func (s *searcher) alphaBeta(board *chess.Board, toMove chess.Team, depth, alpha, beta int) int {
	s.nodes++
	if depth <= 0 {
		return Evaluate(board, s.team)
	}

	moves := engine.LegalMoves(board, toMove)
	if len(moves) == 0 {
		if !engine.IsInCheck(board, toMove) {
			return 0
		}
		// Prefer the quickest mate and the slowest loss.
		if toMove == s.team {
			return -MateScore - depth
		}
		return MateScore + depth
	}
	s.shuffle(moves)

	maximizing := toMove == s.team
	for _, m := range moves {
		child := board.Copy()
		if err := engine.ApplyMove(child, m, toMove); err != nil {
			continue
		}
		score := s.alphaBeta(child, toMove.Opponent(), depth-1, alpha, beta)
		if maximizing {
			if score > alpha {
				alpha = score
			}
		} else if score < beta {
			beta = score
		}
		if alpha >= beta {
			break
		}
	}
	if maximizing {
		return alpha
	}
	return beta
}
