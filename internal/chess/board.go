package chess

import (
	"fmt"
	"strings"

	"github.com/lgbarn/chessrules-go/internal/errors"
)

// Square is a 1-indexed board coordinate. Rank runs 1-8 from White's side,
// File runs 1-8 from the a-file.
type Square struct {
	Rank int
	File int
}

// Sq is shorthand for Square{Rank: rank, File: file}.
func Sq(rank, file int) Square {
	return Square{Rank: rank, File: file}
}

// Valid reports whether the square lies on the board.
func (s Square) Valid() bool {
	return s.Rank >= 1 && s.Rank <= BoardSize && s.File >= 1 && s.File <= BoardSize
}

// Offset returns the square dr ranks and df files away, and false when
// that square is off the board.
func (s Square) Offset(dr, df int) (Square, bool) {
	n := Square{Rank: s.Rank + dr, File: s.File + df}
	return n, n.Valid()
}

// String returns algebraic form such as "e4", or "??" for an invalid square.
func (s Square) String() string {
	if !s.Valid() {
		return "??"
	}
	return string([]byte{byte('a' + s.File - 1), byte('0' + s.Rank)})
}

// ParseSquare converts algebraic form such as "e4" to a Square.
func ParseSquare(s string) (Square, error) {
	if len(s) != 2 || s[0] < 'a' || s[0] > 'h' || s[1] < '1' || s[1] > '8' {
		return Square{}, fmt.Errorf("square %q: %w", s, errors.ErrOutOfRange)
	}
	return Square{Rank: int(s[1]-'1') + 1, File: int(s[0]-'a') + 1}, nil
}

// Board is an 8x8 grid of piece codes indexed [rank-1][file-1].
type Board struct {
	Squares [BoardSize][BoardSize]Piece
}

// NewBoard creates a new empty board.
func NewBoard() *Board {
	return &Board{}
}

// NewInitialBoard creates a board in the standard starting position.
func NewInitialBoard() *Board {
	b := NewBoard()
	b.SetupInitialPosition()
	return b
}

// SetupInitialPosition sets up the standard chess starting position.
func (b *Board) SetupInitialPosition() {
	b.Squares = [BoardSize][BoardSize]Piece{}

	backRank := [BoardSize]Kind{Rook, Knight, Bishop, Queen, King, Bishop, Knight, Rook}
	for file := 0; file < BoardSize; file++ {
		b.Squares[0][file] = W(backRank[file])
		b.Squares[1][file] = W(Pawn)
		b.Squares[6][file] = B(Pawn)
		b.Squares[7][file] = B(backRank[file])
	}
}

// Get returns the piece on sq. Off-board squares report (Empty, false).
func (b *Board) Get(sq Square) (Piece, bool) {
	if !sq.Valid() {
		return Empty, false
	}
	return b.Squares[sq.Rank-1][sq.File-1], true
}

// At returns the piece on sq, or Empty when sq is off the board.
func (b *Board) At(sq Square) Piece {
	p, _ := b.Get(sq)
	return p
}

// Set places a piece on sq.
func (b *Board) Set(sq Square, p Piece) error {
	if !sq.Valid() {
		return fmt.Errorf("set %d,%d: %w", sq.Rank, sq.File, errors.ErrOutOfRange)
	}
	b.Squares[sq.Rank-1][sq.File-1] = p
	return nil
}

// Clear empties sq.
func (b *Board) Clear(sq Square) error {
	return b.Set(sq, Empty)
}

// Copy creates a deep copy of the board.
func (b *Board) Copy() *Board {
	newBoard := &Board{}
	*newBoard = *b
	return newBoard
}

// Equal reports whether both boards hold the same pieces.
func (b *Board) Equal(other *Board) bool {
	if b == nil || other == nil {
		return b == other
	}
	return b.Squares == other.Squares
}

// Occupied returns the occupied squares of team in rank-major, file-minor order.
func (b *Board) Occupied(team Team) []Square {
	var out []Square
	for r := 1; r <= BoardSize; r++ {
		for f := 1; f <= BoardSize; f++ {
			if b.Squares[r-1][f-1].BelongsTo(team) {
				out = append(out, Square{Rank: r, File: f})
			}
		}
	}
	return out
}

// KingSquare finds the king of team.
func (b *Board) KingSquare(team Team) (Square, bool) {
	want := MakePiece(team, King)
	for r := 1; r <= BoardSize; r++ {
		for f := 1; f <= BoardSize; f++ {
			if b.Squares[r-1][f-1] == want {
				return Square{Rank: r, File: f}, true
			}
		}
	}
	return Square{}, false
}

// CountKind counts pieces of team with the given kind. Pawn counts fresh
// pawns too.
func (b *Board) CountKind(team Team, kind Kind) int {
	n := 0
	for r := 0; r < BoardSize; r++ {
		for f := 0; f < BoardSize; f++ {
			p := b.Squares[r][f]
			if !p.BelongsTo(team) {
				continue
			}
			k := p.Kind()
			if k == kind || (kind == Pawn && k == FreshPawn) {
				n++
			}
		}
	}
	return n
}

// String draws the board from rank 8 down, one rank per line. Empty
// squares print as '.', White pieces upper case, Black lower case.
func (b *Board) String() string {
	var sb strings.Builder
	for r := BoardSize; r >= 1; r-- {
		for f := 1; f <= BoardSize; f++ {
			sb.WriteByte(DiagramChar(b.Squares[r-1][f-1]))
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}

// DiagramChar returns the single character used for p in board diagrams.
func DiagramChar(p Piece) byte {
	if p == Empty {
		return '.'
	}
	c := p.Kind().Letter()
	if p.Team() == Black {
		c += 'a' - 'A'
	}
	return c
}

// ParseDiagram builds a board from eight lines in the String format, rank 8
// first. Whitespace around lines is ignored.
func ParseDiagram(diagram string) (*Board, error) {
	var rows []string
	for _, line := range strings.Split(diagram, "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			rows = append(rows, line)
		}
	}
	if len(rows) != BoardSize {
		return nil, fmt.Errorf("diagram has %d ranks: %w", len(rows), errors.ErrMalformedSnapshot)
	}

	b := NewBoard()
	for i, row := range rows {
		if len(row) != BoardSize {
			return nil, fmt.Errorf("diagram rank %d has %d files: %w", BoardSize-i, len(row), errors.ErrMalformedSnapshot)
		}
		for f := 0; f < BoardSize; f++ {
			c := row[f]
			if c == '.' {
				continue
			}
			team := White
			if c >= 'a' && c <= 'z' {
				team = Black
				c -= 'a' - 'A'
			}
			kind, ok := KindFromLetter(c)
			if !ok {
				return nil, fmt.Errorf("diagram char %q: %w", row[f], errors.ErrMalformedSnapshot)
			}
			b.Squares[BoardSize-1-i][f] = MakePiece(team, kind)
		}
	}
	return b, nil
}
