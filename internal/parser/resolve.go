package parser

import (
	"fmt"
	"strings"

	"github.com/lgbarn/chessrules-go/internal/chess"
	"github.com/lgbarn/chessrules-go/internal/engine"
	"github.com/lgbarn/chessrules-go/internal/errors"
)

// ParseMove decodes token and resolves it against board for team. The
// result is one of team's legal moves. A token matching no legal move
// returns ErrIllegalMove; one matching several returns ErrAmbiguousNotation.
func ParseMove(board *chess.Board, token string, team chess.Team) (chess.Move, error) {
	n, err := Decode(token)
	if err != nil {
		return chess.Move{}, err
	}
	return Resolve(board, n, team)
}

// Resolve picks the legal move of team that a decoded notation describes.
func Resolve(board *chess.Board, n Notation, team chess.Team) (chess.Move, error) {
	legal := engine.LegalMoves(board, team)

	var match func(chess.Move) bool
	switch {
	case n.Castle != NoCastle:
		rank := team.BackRank()
		to := chess.Sq(rank, 7)
		if n.Castle == Queenside {
			to = chess.Sq(rank, 3)
		}
		match = func(m chess.Move) bool {
			return m.Castle && m.To == to
		}

	case n.Piece == chess.Pawn && n.FromFile == 0 && n.FromRank == 0:
		from := pawnAdvanceOrigin(board, n.To, team)
		match = func(m chess.Move) bool {
			return m.From == from && m.To == n.To && !m.EnPassant && promotionMatches(n, m)
		}

	case n.Piece == chess.Pawn && n.FromFile != 0 && n.FromRank == 0:
		from := chess.Sq(n.To.Rank-team.Forward(), n.FromFile)
		ep := isEnPassantTarget(board, n.To, team)
		match = func(m chess.Move) bool {
			return m.From == from && m.To == n.To && m.EnPassant == ep && promotionMatches(n, m)
		}

	default:
		match = func(m chess.Move) bool {
			if m.To != n.To || m.Castle {
				return false
			}
			if n.Piece != chess.NoKind && board.At(m.From).Kind().Unfresh() != n.Piece {
				return false
			}
			if n.FromFile != 0 && m.From.File != n.FromFile {
				return false
			}
			if n.FromRank != 0 && m.From.Rank != n.FromRank {
				return false
			}
			if n.EnPassant && !m.EnPassant {
				return false
			}
			return promotionMatches(n, m)
		}
	}

	var candidates []chess.Move
	for _, m := range legal {
		if match(m) {
			candidates = append(candidates, m)
		}
	}

	switch len(candidates) {
	case 0:
		return chess.Move{}, fmt.Errorf("%q for %s: %w", n.Text, team, errors.ErrIllegalMove)
	case 1:
		return candidates[0], nil
	}

	names := make([]string, len(candidates))
	for i, m := range candidates {
		names[i] = m.String()
	}
	return chess.Move{}, fmt.Errorf("%q for %s matches %s: %w",
		n.Text, team, strings.Join(names, ", "), errors.ErrAmbiguousNotation)
}

// pawnAdvanceOrigin finds the origin of a bare pawn advance such as e4:
// one step back, or two when that square holds no pawn of team.
func pawnAdvanceOrigin(board *chess.Board, to chess.Square, team chess.Team) chess.Square {
	back := team.Forward()
	from := chess.Sq(to.Rank-back, to.File)
	if p := board.At(from); p.BelongsTo(team) && p.Kind().IsPawn() {
		return from
	}
	return chess.Sq(to.Rank-2*back, to.File)
}

// isEnPassantTarget reports an empty destination with an enemy fresh pawn
// directly behind it.
func isEnPassantTarget(board *chess.Board, to chess.Square, team chess.Team) bool {
	if !board.At(to).IsEmpty() {
		return false
	}
	behind, ok := to.Offset(-team.Forward(), 0)
	return ok && board.At(behind) == chess.MakePiece(team.Opponent(), chess.FreshPawn)
}

// promotionMatches compares the notation's promotion with a candidate. A
// promotion without a piece letter means a queen.
func promotionMatches(n Notation, m chess.Move) bool {
	if !m.IsPromotion() {
		return n.Promotion == chess.NoKind
	}
	if n.Promotion == chess.NoKind {
		return m.Promotion == chess.Queen
	}
	return m.Promotion == n.Promotion
}
