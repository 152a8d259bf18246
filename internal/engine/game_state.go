package engine

import "github.com/lgbarn/chessrules-go/internal/chess"

// IsCheckmate returns true if team is in check with no legal move.
func IsCheckmate(board *chess.Board, team chess.Team) bool {
	return IsInCheck(board, team) && !HasLegalMoves(board, team)
}

// IsStalemate returns true if team is not in check but has no legal move.
// Other draw conditions are not detected.
func IsStalemate(board *chess.Board, team chess.Team) bool {
	return !IsInCheck(board, team) && !HasLegalMoves(board, team)
}
