package parser

import (
	"strings"

	"github.com/lgbarn/chessrules-go/internal/chess"
	"github.com/lgbarn/chessrules-go/internal/engine"
)

// Format renders move in standard algebraic notation for team on board,
// adding the least origin detail that tells it apart from other legal moves
// and a + or # suffix. The move is expected to be legal on board.
func Format(board *chess.Board, move chess.Move, team chess.Team) string {
	var sb strings.Builder

	kind := board.At(move.From).Kind().Unfresh()
	capture := move.EnPassant || board.At(move.To).IsEnemyOf(team)

	switch {
	case move.Castle:
		sb.WriteString(move.String())
	case kind == chess.Pawn:
		if capture {
			sb.WriteByte(byte('a' + move.From.File - 1))
			sb.WriteByte('x')
		}
		sb.WriteString(move.To.String())
		if move.IsPromotion() {
			sb.WriteByte('=')
			sb.WriteByte(move.Promotion.Letter())
		}
	default:
		sb.WriteByte(kind.Letter())
		sb.WriteString(disambiguation(board, move, team, kind))
		if capture {
			sb.WriteByte('x')
		}
		sb.WriteString(move.To.String())
	}

	after := board.Copy()
	if err := engine.ApplyMove(after, move, team); err != nil {
		return sb.String()
	}
	opponent := team.Opponent()
	if engine.IsInCheck(after, opponent) {
		if engine.HasLegalMoves(after, opponent) {
			sb.WriteByte('+')
		} else {
			sb.WriteByte('#')
		}
	}
	return sb.String()
}

// disambiguation returns the origin file, rank or square needed when
// another piece of the same kind can also reach the destination.
func disambiguation(board *chess.Board, move chess.Move, team chess.Team, kind chess.Kind) string {
	rivals, sameFile, sameRank := 0, false, false
	for _, m := range engine.LegalMoves(board, team) {
		if m.To != move.To || m.From == move.From || m.Castle {
			continue
		}
		if board.At(m.From).Kind() != kind {
			continue
		}
		rivals++
		if m.From.File == move.From.File {
			sameFile = true
		}
		if m.From.Rank == move.From.Rank {
			sameRank = true
		}
	}

	switch {
	case rivals == 0:
		return ""
	case !sameFile:
		return move.From.String()[:1]
	case !sameRank:
		return move.From.String()[1:]
	}
	return move.From.String()
}
