package engine

import "github.com/lgbarn/chessrules-go/internal/chess"

// Diff returns the squares whose contents differ between before and after,
// in rank-major order. A fresh pawn that became an ordinary pawn of the same
// team is bookkeeping, not a move, and is left out.
func Diff(before, after *chess.Board) []chess.Square {
	var out []chess.Square
	for r := 1; r <= chess.BoardSize; r++ {
		for f := 1; f <= chess.BoardSize; f++ {
			was := before.Squares[r-1][f-1]
			now := after.Squares[r-1][f-1]
			if was == now || isReversion(was, now) {
				continue
			}
			out = append(out, chess.Sq(r, f))
		}
	}
	return out
}

func isReversion(was, now chess.Piece) bool {
	return was.Kind() == chess.FreshPawn && now.Kind() == chess.Pawn && was.Team() == now.Team()
}

// Placement is a piece observed on a square.
type Placement struct {
	Piece  chess.Piece
	Square chess.Square
}

// Changes groups the differing squares of a transition.
type Changes struct {
	Squares  []chess.Square
	MoveTo   []Placement // empty before, occupied after; piece as it is after
	MoveFrom []Placement // occupied before, empty after; piece as it was before
	Take     []Placement // occupied before and after; piece as it is after
}

// ClassifyDiff sorts the differing squares of before and after into
// MoveTo, MoveFrom and Take.
func ClassifyDiff(before, after *chess.Board) Changes {
	var c Changes
	c.Squares = Diff(before, after)
	for _, sq := range c.Squares {
		was, now := before.At(sq), after.At(sq)
		switch {
		case was.IsEmpty():
			c.MoveTo = append(c.MoveTo, Placement{Piece: now, Square: sq})
		case now.IsEmpty():
			c.MoveFrom = append(c.MoveFrom, Placement{Piece: was, Square: sq})
		default:
			c.Take = append(c.Take, Placement{Piece: now, Square: sq})
		}
	}
	return c
}

// vacated reports whether sq is in MoveFrom and held want before.
func (c Changes) vacated(sq chess.Square, want chess.Piece) bool {
	for _, p := range c.MoveFrom {
		if p.Square == sq && p.Piece == want {
			return true
		}
	}
	return false
}

// landed reports whether sq is in MoveTo and holds want after.
func (c Changes) landed(sq chess.Square, want chess.Piece) bool {
	for _, p := range c.MoveTo {
		if p.Square == sq && p.Piece == want {
			return true
		}
	}
	return false
}
