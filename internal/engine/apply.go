package engine

import (
	"fmt"

	"github.com/lgbarn/chessrules-go/internal/chess"
	"github.com/lgbarn/chessrules-go/internal/errors"
)

// ApplyMove applies move for team to the board. In order it reverts team's
// fresh pawns, places the landing piece (promoted piece, fresh pawn after a
// double advance, or the moving piece), removes a pawn captured en passant,
// clears the origin, and relocates the rook when the king moves two files.
//
// ApplyMove checks only that the origin holds a piece of team; use
// LegalMoves or IsLegal to check the move itself.
func ApplyMove(board *chess.Board, move chess.Move, team chess.Team) error {
	if !move.From.Valid() || !move.To.Valid() {
		return fmt.Errorf("apply %v: %w", move, errors.ErrOutOfRange)
	}
	if !board.At(move.From).BelongsTo(team) {
		return fmt.Errorf("apply %v: no %s piece on %v: %w", move, team, move.From, errors.ErrIllegalMove)
	}

	revertFreshPawns(board, team)

	piece := board.At(move.From)
	kind := piece.Kind()

	switch {
	case kind.IsPawn() && move.To.Rank == team.Opponent().BackRank():
		promoted := move.Promotion
		if !promoted.IsPromotion() {
			promoted = chess.Queen
		}
		_ = board.Set(move.To, chess.MakePiece(team, promoted))
	case isDoubleAdvance(team, kind, move.From, move.To):
		_ = board.Set(move.To, chess.MakePiece(team, chess.FreshPawn))
	default:
		_ = board.Set(move.To, piece)
	}

	if move.EnPassant {
		if captured, ok := move.To.Offset(-team.Forward(), 0); ok {
			_ = board.Clear(captured)
		}
	}

	_ = board.Clear(move.From)

	if kind == chess.King && move.From.Rank == move.To.Rank && abs(move.To.File-move.From.File) == 2 {
		relocateRook(board, team, move.To)
	}
	return nil
}

// revertFreshPawns turns team's fresh pawns back into ordinary pawns.
func revertFreshPawns(board *chess.Board, team chess.Team) {
	fresh := chess.MakePiece(team, chess.FreshPawn)
	pawn := chess.MakePiece(team, chess.Pawn)
	for r := 0; r < chess.BoardSize; r++ {
		for f := 0; f < chess.BoardSize; f++ {
			if board.Squares[r][f] == fresh {
				board.Squares[r][f] = pawn
			}
		}
	}
}

// isDoubleAdvance reports a pawn moving two squares straight ahead from
// its team's pawn rank.
func isDoubleAdvance(team chess.Team, kind chess.Kind, from, to chess.Square) bool {
	return kind.IsPawn() &&
		from.Rank == team.PawnRank() &&
		from.File == to.File &&
		to.Rank-from.Rank == 2*team.Forward()
}

// relocateRook moves the rook beside a king that has just castled onto
// kingTo: h-rook to f, a-rook to d.
func relocateRook(board *chess.Board, team chess.Team, kingTo chess.Square) {
	side, ok := sideForKingFile(kingTo.File)
	if !ok {
		return
	}
	from := chess.Sq(kingTo.Rank, side.rookFrom)
	rook := board.At(from)
	if rook != chess.MakePiece(team, chess.Rook) {
		return
	}
	_ = board.Clear(from)
	_ = board.Set(chess.Sq(kingTo.Rank, side.rookTo), rook)
}
