package chess

// Move is a concrete move on a board.
type Move struct {
	// Piece is the kind that lands on To: FreshPawn for a double advance,
	// the promotion kind for a promotion.
	Piece Kind

	From Square
	To   Square

	// EnPassant marks a pawn capturing the enemy fresh pawn beside it.
	EnPassant bool

	// Promotion is the kind a pawn becomes on the far back rank, or NoKind.
	Promotion Kind

	// Castle marks a king moving two files with its rook.
	Castle bool
}

// IsPromotion reports whether the move promotes a pawn.
func (m Move) IsPromotion() bool {
	return m.Promotion != NoKind
}

// IsKingside reports whether a castling move goes towards the h-file.
func (m Move) IsKingside() bool {
	return m.Castle && m.To.File > m.From.File
}

// String renders long algebraic form such as "e2e4", "e7e8=Q" or "O-O".
func (m Move) String() string {
	if m.Castle {
		if m.IsKingside() {
			return "O-O"
		}
		return "O-O-O"
	}
	s := m.From.String() + m.To.String()
	if m.IsPromotion() {
		s += "=" + string(m.Promotion.Letter())
	}
	return s
}
