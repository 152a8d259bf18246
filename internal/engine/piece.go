package engine

import "github.com/lgbarn/chessrules-go/internal/chess"

// stepMoves generates single-step moves for knights and kings.
func stepMoves(board *chess.Board, team chess.Team, origin chess.Square, kind chess.Kind, offsets [8][2]int) []chess.Move {
	var moves []chess.Move
	for _, off := range offsets {
		to, ok := origin.Offset(off[0], off[1])
		if !ok {
			continue
		}
		if target := board.At(to); target.IsEmpty() || target.IsEnemyOf(team) {
			moves = append(moves, chess.Move{Piece: kind, From: origin, To: to})
		}
	}
	return moves
}

// slidingMoves ray-casts along each direction until the edge or the first
// occupied square, which is included only when it holds an enemy.
func slidingMoves(board *chess.Board, team chess.Team, origin chess.Square, kind chess.Kind, dirs ...[4][2]int) []chess.Move {
	var moves []chess.Move
	for _, set := range dirs {
		for _, dir := range set {
			to, ok := origin.Offset(dir[0], dir[1])
			for ok {
				target := board.At(to)
				if !target.IsEmpty() {
					if target.IsEnemyOf(team) {
						moves = append(moves, chess.Move{Piece: kind, From: origin, To: to})
					}
					break
				}
				moves = append(moves, chess.Move{Piece: kind, From: origin, To: to})
				to, ok = to.Offset(dir[0], dir[1])
			}
		}
	}
	return moves
}
