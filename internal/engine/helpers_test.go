package engine

import (
	"testing"

	"github.com/lgbarn/chessrules-go/internal/chess"
)

func mustFEN(t testing.TB, fen string) *Position {
	t.Helper()
	pos, err := ParseFEN(fen)
	if err != nil {
		t.Fatalf("ParseFEN(%q) failed: %v", fen, err)
	}
	return pos
}

func mustDiagram(t testing.TB, diagram string) *chess.Board {
	t.Helper()
	b, err := chess.ParseDiagram(diagram)
	if err != nil {
		t.Fatalf("ParseDiagram failed: %v", err)
	}
	return b
}

// sq converts "e4" to a Square, panicking on bad input since it is only
// used with literals.
func sq(name string) chess.Square {
	s, err := chess.ParseSquare(name)
	if err != nil {
		panic(err)
	}
	return s
}

func containsMove(moves []chess.Move, want chess.Move) bool {
	for _, m := range moves {
		if m == want {
			return true
		}
	}
	return false
}

// applied returns a copy of board with move applied for team.
func applied(t testing.TB, board *chess.Board, move chess.Move, team chess.Team) *chess.Board {
	t.Helper()
	next := board.Copy()
	if err := ApplyMove(next, move, team); err != nil {
		t.Fatalf("ApplyMove(%v) failed: %v", move, err)
	}
	return next
}
