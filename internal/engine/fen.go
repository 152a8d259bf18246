// Package engine provides chess move generation, legality checking, move
// application, diff-based validation and board state serialization.
package engine

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"github.com/lgbarn/chessrules-go/internal/chess"
	"github.com/lgbarn/chessrules-go/internal/errors"
)

// InitialFEN is the FEN string for the standard starting position.
const InitialFEN = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"

// Position is a board together with the side to move and the move number.
type Position struct {
	Board      *chess.Board
	ToMove     chess.Team
	MoveNumber int
}

// ParseFEN reads a FEN string. Castling availability is accepted but not
// stored: castling is derived from king and rook placement. An en passant
// target square marks the pawn in front of it as a fresh pawn.
func ParseFEN(fen string) (*Position, error) {
	parts := strings.Fields(fen)
	if len(parts) < 1 {
		return nil, fmt.Errorf("empty FEN string: %w", errors.ErrInvalidFEN)
	}

	pos := &Position{Board: chess.NewBoard(), ToMove: chess.White, MoveNumber: 1}

	if err := parsePiecePositions(pos.Board, parts[0]); err != nil {
		return nil, err
	}
	if err := parseSideToMove(pos, parts); err != nil {
		return nil, err
	}
	if err := parseEnPassant(pos, parts); err != nil {
		return nil, err
	}
	parseMoveNumber(pos, parts)

	return pos, nil
}

// parsePiecePositions parses the piece placement field of a FEN string.
func parsePiecePositions(board *chess.Board, positions string) error {
	rank, file := chess.BoardSize, 1

	for _, c := range positions {
		switch {
		case c == '/':
			rank--
			file = 1
		case c >= '1' && c <= '8':
			file += int(c - '0')
		default:
			kind, ok := chess.KindFromLetter(byte(unicode.ToUpper(c)))
			if !ok || kind == chess.FreshPawn {
				return fmt.Errorf("invalid piece character: %c: %w", c, errors.ErrInvalidFEN)
			}
			team := chess.White
			if unicode.IsLower(c) {
				team = chess.Black
			}
			if err := board.Set(chess.Sq(rank, file), chess.MakePiece(team, kind)); err != nil {
				return fmt.Errorf("position out of bounds: %w", errors.ErrInvalidFEN)
			}
			file++
		}
	}
	return nil
}

// parseSideToMove parses the side to move field.
func parseSideToMove(pos *Position, parts []string) error {
	if len(parts) < 2 {
		return nil
	}
	switch parts[1] {
	case "w":
		pos.ToMove = chess.White
	case "b":
		pos.ToMove = chess.Black
	default:
		return fmt.Errorf("invalid side to move: %s: %w", parts[1], errors.ErrInvalidFEN)
	}
	return nil
}

// parseEnPassant turns the en passant target square into a fresh pawn of
// the side that just moved.
func parseEnPassant(pos *Position, parts []string) error {
	if len(parts) < 4 || parts[3] == "-" {
		return nil
	}
	target, err := chess.ParseSquare(parts[3])
	if err != nil {
		return fmt.Errorf("invalid en passant square: %s: %w", parts[3], errors.ErrInvalidFEN)
	}
	mover := pos.ToMove.Opponent()
	pawnSq, ok := target.Offset(mover.Forward(), 0)
	if !ok || pos.Board.At(pawnSq) != chess.MakePiece(mover, chess.Pawn) {
		return fmt.Errorf("no %s pawn in front of en passant square %s: %w", mover, parts[3], errors.ErrInvalidFEN)
	}
	return pos.Board.Set(pawnSq, chess.MakePiece(mover, chess.FreshPawn))
}

// parseMoveNumber parses the fullmove number field.
func parseMoveNumber(pos *Position, parts []string) {
	if len(parts) < 6 {
		return
	}
	if n, err := strconv.Atoi(parts[5]); err == nil && n > 0 {
		pos.MoveNumber = n
	}
}

// BoardToFEN converts a position to a FEN string. The halfmove clock is
// not tracked and is always written as 0.
func BoardToFEN(pos *Position) string {
	var sb strings.Builder

	writePiecePositions(&sb, pos.Board)
	sb.WriteByte(' ')
	if pos.ToMove == chess.Black {
		sb.WriteByte('b')
	} else {
		sb.WriteByte('w')
	}
	sb.WriteByte(' ')
	writeCastlingRights(&sb, pos.Board)
	sb.WriteByte(' ')
	writeEnPassant(&sb, pos)
	fmt.Fprintf(&sb, " 0 %d", pos.MoveNumber)

	return sb.String()
}

// writePiecePositions writes the piece placement to the builder.
func writePiecePositions(sb *strings.Builder, board *chess.Board) {
	for rank := chess.BoardSize; rank >= 1; rank-- {
		emptyCount := 0
		for file := 1; file <= chess.BoardSize; file++ {
			piece := board.At(chess.Sq(rank, file))
			if piece.IsEmpty() {
				emptyCount++
				continue
			}
			if emptyCount > 0 {
				sb.WriteByte(byte('0' + emptyCount))
				emptyCount = 0
			}
			letter := piece.Kind().Unfresh().Letter()
			if piece.Team() == chess.Black {
				letter = byte(unicode.ToLower(rune(letter)))
			}
			sb.WriteByte(letter)
		}
		if emptyCount > 0 {
			sb.WriteByte(byte('0' + emptyCount))
		}
		if rank > 1 {
			sb.WriteByte('/')
		}
	}
}

// writeCastlingRights writes the castling availability implied by king
// and rook placement.
func writeCastlingRights(sb *strings.Builder, board *chess.Board) {
	hasCastling := false
	for _, team := range [2]chess.Team{chess.White, chess.Black} {
		rank := team.BackRank()
		if board.At(chess.Sq(rank, kingHomeFile)) != chess.MakePiece(team, chess.King) {
			continue
		}
		for i, letter := range [2]byte{'K', 'Q'} {
			if board.At(chess.Sq(rank, castleSides[i].rookFrom)) != chess.MakePiece(team, chess.Rook) {
				continue
			}
			if team == chess.Black {
				letter = byte(unicode.ToLower(rune(letter)))
			}
			sb.WriteByte(letter)
			hasCastling = true
		}
	}
	if !hasCastling {
		sb.WriteByte('-')
	}
}

// writeEnPassant writes the square behind the opponent's fresh pawn.
func writeEnPassant(sb *strings.Builder, pos *Position) {
	mover := pos.ToMove.Opponent()
	fresh := chess.MakePiece(mover, chess.FreshPawn)
	for _, sq := range pos.Board.Occupied(mover) {
		if pos.Board.At(sq) != fresh {
			continue
		}
		if target, ok := sq.Offset(-mover.Forward(), 0); ok {
			sb.WriteString(target.String())
			return
		}
	}
	sb.WriteByte('-')
}

// NewInitialPosition returns the standard starting position, White to move.
func NewInitialPosition() *Position {
	return &Position{Board: chess.NewInitialBoard(), ToMove: chess.White, MoveNumber: 1}
}
