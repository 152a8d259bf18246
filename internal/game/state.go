// Package game runs turn-based games between move sources.
package game

import (
	"github.com/google/uuid"

	"github.com/lgbarn/chessrules-go/internal/chess"
	"github.com/lgbarn/chessrules-go/internal/engine"
)

// GameState is the full state of one game. History holds the serialized
// board before the first ply and after every ply.
type GameState struct {
	ID         uuid.UUID
	Board      *chess.Board
	ToMove     chess.Team
	MoveNumber int
	History    []string
}

// NewGameState creates a game in the standard starting position.
func NewGameState() *GameState {
	s := &GameState{
		ID:         uuid.New(),
		Board:      chess.NewInitialBoard(),
		ToMove:     chess.White,
		MoveNumber: 1,
	}
	s.History = []string{s.Serialize()}
	return s
}

// RestoreState rebuilds a game from a serialized board. The history
// restarts at that board.
func RestoreState(id uuid.UUID, state string, moveNumber int) (*GameState, error) {
	board, toMove, err := engine.StringToBoard(state)
	if err != nil {
		return nil, err
	}
	if moveNumber < 1 {
		moveNumber = 1
	}
	return &GameState{
		ID:         id,
		Board:      board,
		ToMove:     toMove,
		MoveNumber: moveNumber,
		History:    []string{state},
	}, nil
}

// Serialize returns the board and side to move in engine.BoardToString form.
func (s *GameState) Serialize() string {
	return engine.BoardToString(s.Board, s.ToMove)
}

// Plies returns the number of plies played since the history started.
func (s *GameState) Plies() int {
	return len(s.History) - 1
}
