package engine

import "github.com/lgbarn/chessrules-go/internal/chess"

// PossibleMoves returns the pseudo-legal moves of every piece of team.
// Castling and en passant are not included.
func PossibleMoves(board *chess.Board, team chess.Team) []chess.Move {
	var moves []chess.Move
	for _, origin := range board.Occupied(team) {
		moves = append(moves, PossibleMovesFrom(board, team, origin)...)
	}
	return moves
}

// PossibleMovesFrom returns the pseudo-legal moves of the piece on origin,
// or nil when origin does not hold a piece of team.
func PossibleMovesFrom(board *chess.Board, team chess.Team, origin chess.Square) []chess.Move {
	piece, ok := board.Get(origin)
	if !ok || !piece.BelongsTo(team) {
		return nil
	}

	switch piece.Kind() {
	case chess.Pawn, chess.FreshPawn:
		return pawnMoves(board, team, origin)
	case chess.Knight:
		return stepMoves(board, team, origin, chess.Knight, knightOffsets)
	case chess.King:
		return stepMoves(board, team, origin, chess.King, kingOffsets)
	case chess.Bishop:
		return slidingMoves(board, team, origin, chess.Bishop, diagonalDirs)
	case chess.Rook:
		return slidingMoves(board, team, origin, chess.Rook, straightDirs)
	case chess.Queen:
		return slidingMoves(board, team, origin, chess.Queen, straightDirs, diagonalDirs)
	}
	return nil
}
