package search

import "github.com/lgbarn/chessrules-go/internal/chess"

// Piece values in centipawns.
const (
	PawnValue   = 100
	KnightValue = 300
	BishopValue = 300
	RookValue   = 500
	QueenValue  = 900
	KingValue   = 60000
)

// MateScore is the score of a position whose king is gone or mated.
const MateScore = 100000

const (
	centreBonus      = 10
	kingFilePenalty  = 30
	kingStartingFile = 5
)

// PieceValue returns the value of a kind. Fresh pawns count as pawns.
func PieceValue(k chess.Kind) int {
	switch k.Unfresh() {
	case chess.Pawn:
		return PawnValue
	case chess.Knight:
		return KnightValue
	case chess.Bishop:
		return BishopValue
	case chess.Rook:
		return RookValue
	case chess.Queen:
		return QueenValue
	case chess.King:
		return KingValue
	}
	return 0
}

// Evaluate scores board from team's point of view: material, a bonus for
// knights, bishops, rooks and queens in the central 4x4, and a penalty for
// a king that has left its starting file. A missing king decides the score
// outright.
func Evaluate(board *chess.Board, team chess.Team) int {
	if _, ok := board.KingSquare(team); !ok {
		return -MateScore
	}
	if _, ok := board.KingSquare(team.Opponent()); !ok {
		return MateScore
	}

	score := 0
	for r := 1; r <= chess.BoardSize; r++ {
		for f := 1; f <= chess.BoardSize; f++ {
			p := board.At(chess.Sq(r, f))
			if p.IsEmpty() {
				continue
			}
			v := PieceValue(p.Kind())
			switch p.Kind() {
			case chess.Knight, chess.Bishop, chess.Rook, chess.Queen:
				if inCentre(r, f) {
					v += centreBonus
				}
			case chess.King:
				if f != kingStartingFile {
					v -= kingFilePenalty
				}
			}
			if p.BelongsTo(team) {
				score += v
			} else {
				score -= v
			}
		}
	}
	return score
}

func inCentre(rank, file int) bool {
	return rank >= 3 && rank <= 6 && file >= 3 && file <= 6
}

// Material sums the piece values of team, kings excluded.
func Material(board *chess.Board, team chess.Team) int {
	total := 0
	for _, sq := range board.Occupied(team) {
		if k := board.At(sq).Kind(); k != chess.King {
			total += PieceValue(k)
		}
	}
	return total
}
