package engine

import "github.com/lgbarn/chessrules-go/internal/chess"

// LegalMoves returns every legal move for team: pseudo-legal moves plus en
// passant and castling, minus any that leave team's own king in check.
func LegalMoves(board *chess.Board, team chess.Team) []chess.Move {
	candidates := PossibleMoves(board, team)
	candidates = append(candidates, EnPassantMoves(board, team)...)
	candidates = append(candidates, CastlingMoves(board, team)...)
	return filterLegal(board, team, candidates)
}

// LegalMovesFrom returns the legal moves of the piece on origin.
func LegalMovesFrom(board *chess.Board, team chess.Team, origin chess.Square) []chess.Move {
	var candidates []chess.Move
	for _, m := range LegalMoves(board, team) {
		if m.From == origin {
			candidates = append(candidates, m)
		}
	}
	return candidates
}

// HasLegalMoves returns true if team has at least one legal move.
func HasLegalMoves(board *chess.Board, team chess.Team) bool {
	for _, m := range PossibleMoves(board, team) {
		if tryMove(board, team, m) {
			return true
		}
	}
	for _, m := range EnPassantMoves(board, team) {
		if tryMove(board, team, m) {
			return true
		}
	}
	// Castling needs an empty corridor, so some other king or rook move
	// exists whenever castling does; no need to try it here.
	return false
}

// IsLegal reports whether move is among team's legal moves.
func IsLegal(board *chess.Board, team chess.Team, move chess.Move) bool {
	for _, m := range LegalMoves(board, team) {
		if m == move {
			return true
		}
	}
	return false
}

func filterLegal(board *chess.Board, team chess.Team, candidates []chess.Move) []chess.Move {
	legal := candidates[:0]
	for _, m := range candidates {
		if tryMove(board, team, m) {
			legal = append(legal, m)
		}
	}
	return legal
}

// tryMove makes a move on a copied board and checks if it leaves the king in check.
func tryMove(board *chess.Board, team chess.Team, move chess.Move) bool {
	testBoard := board.Copy()
	if err := ApplyMove(testBoard, move, team); err != nil {
		return false
	}
	return !IsInCheck(testBoard, team)
}
