package server

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"github.com/lgbarn/chessrules-go/internal/chess"
	"github.com/lgbarn/chessrules-go/internal/engine"
	"github.com/lgbarn/chessrules-go/internal/game"
	"github.com/lgbarn/chessrules-go/internal/parser"
)

// session is what the server persists per game.
type session struct {
	State      string `json:"state"`
	MoveNumber int    `json:"move_number"`
	// Engine is the team letter of the engine side, empty for none.
	Engine string `json:"engine,omitempty"`
}

func (s session) engineTeam() (chess.Team, bool) {
	if s.Engine == "" {
		return 0, false
	}
	return chess.TeamFromLetter(s.Engine[0])
}

func (s *Server) loadSession(ctx context.Context, id uuid.UUID) (session, *game.GameState, error) {
	raw, err := s.states.Load(ctx, id.String())
	if err != nil {
		return session{}, nil, err
	}
	var sess session
	if err := json.Unmarshal([]byte(raw), &sess); err != nil {
		return session{}, nil, fmt.Errorf("decode session %s: %w", id, err)
	}
	st, err := game.RestoreState(id, sess.State, sess.MoveNumber)
	if err != nil {
		return session{}, nil, err
	}
	return sess, st, nil
}

func (s *Server) saveSession(ctx context.Context, sess session, st *game.GameState) error {
	sess.State = st.Serialize()
	sess.MoveNumber = st.MoveNumber
	data, err := json.Marshal(sess)
	if err != nil {
		return err
	}
	return s.states.Save(ctx, st.ID.String(), string(data))
}

// GameView is the client-facing description of a game.
type GameView struct {
	ID         string   `json:"id"`
	State      string   `json:"state"`
	FEN        string   `json:"fen"`
	ToMove     string   `json:"to_move"`
	MoveNumber int      `json:"move_number"`
	Status     string   `json:"status"`
	Check      bool     `json:"check"`
	LegalMoves []string `json:"legal_moves"`
	Engine     string   `json:"engine,omitempty"`
	Played     []string `json:"played,omitempty"`
}

func newGameView(sess session, st *game.GameState, played []string) GameView {
	legal := engine.LegalMoves(st.Board, st.ToMove)
	san := make([]string, 0, len(legal))
	for _, m := range legal {
		san = append(san, parser.Format(st.Board, m, st.ToMove))
	}

	status := "active"
	switch {
	case engine.IsCheckmate(st.Board, st.ToMove):
		status = "checkmate"
	case engine.IsStalemate(st.Board, st.ToMove):
		status = "stalemate"
	}
	pos := &engine.Position{Board: st.Board, ToMove: st.ToMove, MoveNumber: st.MoveNumber}

	return GameView{
		ID:         st.ID.String(),
		State:      st.Serialize(),
		FEN:        engine.BoardToFEN(pos),
		ToMove:     string(st.ToMove.Letter()),
		MoveNumber: st.MoveNumber,
		Status:     status,
		Check:      engine.IsInCheck(st.Board, st.ToMove),
		LegalMoves: san,
		Engine:     sess.Engine,
		Played:     played,
	}
}
