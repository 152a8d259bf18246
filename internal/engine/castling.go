package engine

import "github.com/lgbarn/chessrules-go/internal/chess"

// castleSide describes one castling geometry by file, on the castling
// team's back rank.
type castleSide struct {
	kingTo   int
	rookFrom int
	rookTo   int
	between  []int // squares strictly between king and rook
	transit  int   // square the king passes over
}

// kingHomeFile is the king's starting file (e).
const kingHomeFile = 5

var castleSides = [2]castleSide{
	{kingTo: 7, rookFrom: 8, rookTo: 6, between: []int{6, 7}, transit: 6},
	{kingTo: 3, rookFrom: 1, rookTo: 4, between: []int{2, 3, 4}, transit: 4},
}

// sideForKingFile returns the geometry whose king destination is file.
func sideForKingFile(file int) (castleSide, bool) {
	for _, side := range castleSides {
		if side.kingTo == file {
			return side, true
		}
	}
	return castleSide{}, false
}

// canCastle checks king and rook placement, the empty corridor, that the
// king is not in check and that the transit square is not attacked. The
// landing square is left to the legal move filter.
func canCastle(board *chess.Board, team chess.Team, side castleSide) bool {
	rank := team.BackRank()
	if board.At(chess.Sq(rank, kingHomeFile)) != chess.MakePiece(team, chess.King) {
		return false
	}
	if board.At(chess.Sq(rank, side.rookFrom)) != chess.MakePiece(team, chess.Rook) {
		return false
	}
	for _, f := range side.between {
		if !board.At(chess.Sq(rank, f)).IsEmpty() {
			return false
		}
	}
	if IsInCheck(board, team) {
		return false
	}
	return !IsSquareAttacked(board, chess.Sq(rank, side.transit), team.Opponent())
}

// CastlingMoves returns the castling moves currently open to team.
// Castling rights are derived from the board alone: king and rook on
// their home squares.
func CastlingMoves(board *chess.Board, team chess.Team) []chess.Move {
	var moves []chess.Move
	rank := team.BackRank()
	for _, side := range castleSides {
		if !canCastle(board, team, side) {
			continue
		}
		moves = append(moves, chess.Move{
			Piece:  chess.King,
			From:   chess.Sq(rank, kingHomeFile),
			To:     chess.Sq(rank, side.kingTo),
			Castle: true,
		})
	}
	return moves
}
