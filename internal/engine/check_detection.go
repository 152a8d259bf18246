package engine

import "github.com/lgbarn/chessrules-go/internal/chess"

// IsInCheck returns true if team's king is attacked by the opposing team.
// A board without a king for team is never in check.
func IsInCheck(board *chess.Board, team chess.Team) bool {
	king, ok := board.KingSquare(team)
	if !ok {
		return false
	}
	return IsSquareAttacked(board, king, team.Opponent())
}

// IsSquareAttacked returns true if any piece of team by could capture on sq.
func IsSquareAttacked(board *chess.Board, sq chess.Square, by chess.Team) bool {
	// Pawns attack diagonally forward, so look one rank behind sq from
	// the attacker's point of view. Fresh pawns attack like any pawn.
	for _, df := range [2]int{-1, 1} {
		from, ok := sq.Offset(-by.Forward(), df)
		if !ok {
			continue
		}
		if p := board.At(from); p.BelongsTo(by) && p.Kind().IsPawn() {
			return true
		}
	}

	knight := chess.MakePiece(by, chess.Knight)
	for _, off := range knightOffsets {
		if from, ok := sq.Offset(off[0], off[1]); ok && board.At(from) == knight {
			return true
		}
	}

	king := chess.MakePiece(by, chess.King)
	for _, off := range kingOffsets {
		if from, ok := sq.Offset(off[0], off[1]); ok && board.At(from) == king {
			return true
		}
	}

	queen := chess.MakePiece(by, chess.Queen)
	if rayHits(board, sq, diagonalDirs, chess.MakePiece(by, chess.Bishop), queen) {
		return true
	}
	return rayHits(board, sq, straightDirs, chess.MakePiece(by, chess.Rook), queen)
}

// rayHits reports whether the first piece along any direction from sq is
// one of the given sliders.
func rayHits(board *chess.Board, sq chess.Square, dirs [4][2]int, slider, queen chess.Piece) bool {
	for _, dir := range dirs {
		at, ok := sq.Offset(dir[0], dir[1])
		for ok {
			piece := board.At(at)
			if !piece.IsEmpty() {
				if piece == slider || piece == queen {
					return true
				}
				break // Blocked
			}
			at, ok = at.Offset(dir[0], dir[1])
		}
	}
	return false
}
