// Package chess provides core chess types and operations.
package chess

// Team represents the side a piece belongs to. Its value is the signum
// used to build signed piece codes.
type Team int8

const (
	Black Team = -1
	White Team = 1
)

// String returns the string representation of a team.
func (t Team) String() string {
	if t == White {
		return "White"
	}
	return "Black"
}

// Sign returns +1 for White and -1 for Black.
func (t Team) Sign() int {
	return int(t)
}

// Opponent returns the opposing team.
func (t Team) Opponent() Team {
	return -t
}

// Valid reports whether t is White or Black.
func (t Team) Valid() bool {
	return t == White || t == Black
}

// BackRank returns the rank holding the team's king and rooks at the start.
func (t Team) BackRank() int {
	if t == White {
		return 1
	}
	return BoardSize
}

// PawnRank returns the rank the team's pawns start on.
func (t Team) PawnRank() int {
	return t.BackRank() + t.Forward()
}

// Forward returns the rank direction the team's pawns advance in.
func (t Team) Forward() int {
	return t.Sign()
}

// Letter returns the single letter used for the team in serialized states.
func (t Team) Letter() byte {
	if t == White {
		return 'W'
	}
	return 'B'
}

// TeamFromLetter converts a serialized team letter back to a Team.
func TeamFromLetter(c byte) (Team, bool) {
	switch c {
	case 'W':
		return White, true
	case 'B':
		return Black, true
	}
	return 0, false
}

// Kind represents a piece type. The zero value means no piece.
type Kind int8

const (
	NoKind Kind = iota
	Pawn
	Rook
	Knight
	Bishop
	Queen
	King
	_
	// FreshPawn is a pawn that advanced two squares on its team's last move
	// and may be captured en passant until that team moves again.
	FreshPawn
)

// PromotionKinds lists the kinds a pawn may promote to, in preference order.
var PromotionKinds = [...]Kind{Queen, Rook, Bishop, Knight}

// String returns the name of a kind.
func (k Kind) String() string {
	switch k {
	case Pawn:
		return "Pawn"
	case Rook:
		return "Rook"
	case Knight:
		return "Knight"
	case Bishop:
		return "Bishop"
	case Queen:
		return "Queen"
	case King:
		return "King"
	case FreshPawn:
		return "FreshPawn"
	}
	return "None"
}

// Letter returns the uppercase letter for a kind. Fresh pawns use 'F'.
func (k Kind) Letter() byte {
	switch k {
	case Pawn:
		return 'P'
	case Rook:
		return 'R'
	case Knight:
		return 'N'
	case Bishop:
		return 'B'
	case Queen:
		return 'Q'
	case King:
		return 'K'
	case FreshPawn:
		return 'F'
	}
	return '?'
}

// KindFromLetter converts an uppercase piece letter to a Kind.
func KindFromLetter(c byte) (Kind, bool) {
	switch c {
	case 'P':
		return Pawn, true
	case 'R':
		return Rook, true
	case 'N':
		return Knight, true
	case 'B':
		return Bishop, true
	case 'Q':
		return Queen, true
	case 'K':
		return King, true
	case 'F':
		return FreshPawn, true
	}
	return NoKind, false
}

// Valid reports whether k names a real piece.
func (k Kind) Valid() bool {
	return (k >= Pawn && k <= King) || k == FreshPawn
}

// IsPawn reports whether k is a pawn, fresh or not.
func (k Kind) IsPawn() bool {
	return k == Pawn || k == FreshPawn
}

// Unfresh maps FreshPawn to Pawn and leaves other kinds alone.
func (k Kind) Unfresh() Kind {
	if k == FreshPawn {
		return Pawn
	}
	return k
}

// IsPromotion reports whether a pawn may promote to k.
func (k Kind) IsPromotion() bool {
	switch k {
	case Queen, Rook, Bishop, Knight:
		return true
	}
	return false
}

// Piece is a signed piece code: the magnitude is the Kind and the sign is
// the Team. Zero is an empty square.
type Piece int8

// Empty is the code of an unoccupied square.
const Empty Piece = 0

// MakePiece builds the piece code for a team and kind.
func MakePiece(team Team, kind Kind) Piece {
	return Piece(int8(kind) * int8(team))
}

// W creates a white piece.
func W(kind Kind) Piece {
	return MakePiece(White, kind)
}

// B creates a black piece.
func B(kind Kind) Piece {
	return MakePiece(Black, kind)
}

// Kind extracts the piece kind.
func (p Piece) Kind() Kind {
	if p < 0 {
		return Kind(-p)
	}
	return Kind(p)
}

// Team extracts the team. It is meaningless for Empty.
func (p Piece) Team() Team {
	if p < 0 {
		return Black
	}
	return White
}

// IsEmpty reports whether the square holds nothing.
func (p Piece) IsEmpty() bool {
	return p == Empty
}

// BelongsTo reports whether p is a piece of team.
func (p Piece) BelongsTo(team Team) bool {
	return int(p)*team.Sign() > 0
}

// IsEnemyOf reports whether p is a piece of the team opposing team.
func (p Piece) IsEnemyOf(team Team) bool {
	return int(p)*team.Sign() < 0
}

// String returns a two character form such as "wN" or "bF", or "--" for Empty.
func (p Piece) String() string {
	if p == Empty {
		return "--"
	}
	c := byte('w')
	if p.Team() == Black {
		c = 'b'
	}
	return string([]byte{c, p.Kind().Letter()})
}

// BoardSize is the number of ranks and files.
const BoardSize = 8
