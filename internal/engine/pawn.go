package engine

import "github.com/lgbarn/chessrules-go/internal/chess"

// pawnMoves generates pseudo-legal pawn moves from origin: single and
// double pushes and diagonal captures. Moves onto the far back rank are
// expanded once per promotion kind. En passant is generated separately.
func pawnMoves(board *chess.Board, team chess.Team, origin chess.Square) []chess.Move {
	var moves []chess.Move
	dir := team.Forward()

	if one, ok := origin.Offset(dir, 0); ok && board.At(one).IsEmpty() {
		moves = appendPawnMove(moves, team, origin, one)

		if origin.Rank == team.PawnRank() {
			if two, ok := origin.Offset(2*dir, 0); ok && board.At(two).IsEmpty() {
				moves = append(moves, chess.Move{Piece: chess.FreshPawn, From: origin, To: two})
			}
		}
	}

	for _, df := range [2]int{-1, 1} {
		to, ok := origin.Offset(dir, df)
		if !ok {
			continue
		}
		if board.At(to).IsEnemyOf(team) {
			moves = appendPawnMove(moves, team, origin, to)
		}
	}
	return moves
}

// appendPawnMove adds a single-step pawn move, or its four promotions when
// it lands on the opponent's back rank.
func appendPawnMove(moves []chess.Move, team chess.Team, from, to chess.Square) []chess.Move {
	if to.Rank != team.Opponent().BackRank() {
		return append(moves, chess.Move{Piece: chess.Pawn, From: from, To: to})
	}
	for _, k := range chess.PromotionKinds {
		moves = append(moves, chess.Move{Piece: k, From: from, To: to, Promotion: k})
	}
	return moves
}

// EnPassantMoves returns en passant captures available to team: an own
// pawn beside an enemy fresh pawn captures onto the square behind it.
func EnPassantMoves(board *chess.Board, team chess.Team) []chess.Move {
	var moves []chess.Move
	enemyFresh := chess.MakePiece(team.Opponent(), chess.FreshPawn)

	for _, from := range board.Occupied(team) {
		if !board.At(from).Kind().IsPawn() {
			continue
		}
		for _, df := range [2]int{-1, 1} {
			beside, ok := from.Offset(0, df)
			if !ok || board.At(beside) != enemyFresh {
				continue
			}
			to, ok := from.Offset(team.Forward(), df)
			if !ok || !board.At(to).IsEmpty() {
				continue
			}
			moves = append(moves, chess.Move{Piece: chess.Pawn, From: from, To: to, EnPassant: true})
		}
	}
	return moves
}
