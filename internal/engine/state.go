package engine

import (
	"fmt"
	"strings"

	"github.com/lgbarn/chessrules-go/internal/chess"
	"github.com/lgbarn/chessrules-go/internal/errors"
)

// groupLen is the length of one serialized piece group: team letter,
// piece letter, rank digit, file digit.
const groupLen = 4

// BoardToString serializes a board and the side to move. The result is the
// side's team letter followed by one group per occupied square in
// rank-major, file-minor order, e.g. "WWR11WN12...". Fresh pawns keep their
// own letter so the round trip is exact.
func BoardToString(board *chess.Board, toMove chess.Team) string {
	var sb strings.Builder
	sb.Grow(1 + 32*groupLen)
	sb.WriteByte(toMove.Letter())

	for r := 1; r <= chess.BoardSize; r++ {
		for f := 1; f <= chess.BoardSize; f++ {
			p := board.Squares[r-1][f-1]
			if p.IsEmpty() {
				continue
			}
			sb.WriteByte(p.Team().Letter())
			sb.WriteByte(p.Kind().Letter())
			sb.WriteByte(byte('0' + r))
			sb.WriteByte(byte('0' + f))
		}
	}
	return sb.String()
}

// StringToBoard is the inverse of BoardToString.
func StringToBoard(s string) (*chess.Board, chess.Team, error) {
	if len(s) == 0 {
		return nil, 0, fmt.Errorf("empty state: %w", errors.ErrInvalidState)
	}
	toMove, ok := chess.TeamFromLetter(s[0])
	if !ok {
		return nil, 0, stateError(s, 1, "team letter", s[0])
	}
	if (len(s)-1)%groupLen != 0 {
		return nil, 0, fmt.Errorf("state length %d is not 1+4n: %w", len(s), errors.ErrInvalidState)
	}

	board := chess.NewBoard()
	for i := 1; i < len(s); i += groupLen {
		team, ok := chess.TeamFromLetter(s[i])
		if !ok {
			return nil, 0, stateError(s, i+1, "team letter", s[i])
		}
		kind, ok := chess.KindFromLetter(s[i+1])
		if !ok {
			return nil, 0, stateError(s, i+2, "piece letter", s[i+1])
		}
		if s[i+2] < '1' || s[i+2] > '8' {
			return nil, 0, stateError(s, i+3, "rank digit", s[i+2])
		}
		if s[i+3] < '1' || s[i+3] > '8' {
			return nil, 0, stateError(s, i+4, "file digit", s[i+3])
		}
		sq := chess.Sq(int(s[i+2]-'0'), int(s[i+3]-'0'))
		if !board.At(sq).IsEmpty() {
			return nil, 0, fmt.Errorf("square %v listed twice: %w", sq, errors.ErrInvalidState)
		}
		_ = board.Set(sq, chess.MakePiece(team, kind))
	}
	return board, toMove, nil
}

func stateError(s string, column int, expected string, got byte) error {
	return &errors.ParseError{
		Err:      errors.ErrInvalidState,
		Input:    s,
		Column:   column,
		Expected: expected,
		Got:      fmt.Sprintf("%q", got),
	}
}
