// Package parser converts algebraic notation into concrete moves.
package parser

import (
	"fmt"
	"strings"

	"github.com/lgbarn/chessrules-go/internal/chess"
	"github.com/lgbarn/chessrules-go/internal/errors"
)

// CastleSide identifies a castling token.
type CastleSide int

const (
	NoCastle CastleSide = iota
	Kingside
	Queenside
)

// Notation is a decoded move token before it is resolved against a board.
type Notation struct {
	Text string

	// Piece is the moving kind. NoKind means the token was long algebraic
	// without a piece letter (e2e4, g1f3) and the origin decides.
	Piece chess.Kind

	// Origin hints, 0 when absent.
	FromFile int
	FromRank int

	To        chess.Square
	Capture   bool
	Promotion chess.Kind
	Castle    CastleSide
	EnPassant bool
}

// isCol returns true if c is a valid column (file) character.
func isCol(c byte) bool {
	return c >= 'a' && c <= 'h'
}

// isRank returns true if c is a valid rank character.
func isRank(c byte) bool {
	return c >= '1' && c <= '8'
}

// isCapture returns true if c is a capture or separator character.
func isCapture(c byte) bool {
	return c == 'x' || c == 'X' || c == ':' || c == '-'
}

// isCastlingChar returns true if c is a castling character.
func isCastlingChar(c byte) bool {
	return c == 'O' || c == '0' || c == 'o'
}

// isAnnotation returns true for check, mate and evaluation marks.
func isAnnotation(c byte) bool {
	return c == '+' || c == '#' || c == '!' || c == '?' || c == ' '
}

// pieceLetter returns the piece kind for an upper case SAN letter.
// P is accepted for explicit pawn moves such as Pc5.
func pieceLetter(c byte) chess.Kind {
	switch c {
	case 'K':
		return chess.King
	case 'Q':
		return chess.Queen
	case 'R':
		return chess.Rook
	case 'N':
		return chess.Knight
	case 'B':
		return chess.Bishop
	case 'P':
		return chess.Pawn
	}
	return chess.NoKind
}

// promotionLetter accepts upper or lower case promotion letters.
func promotionLetter(c byte) chess.Kind {
	if c >= 'a' && c <= 'z' {
		c -= 'a' - 'A'
	}
	if k := pieceLetter(c); k.IsPromotion() {
		return k
	}
	return chess.NoKind
}

// normalize drops annotation marks and an en passant suffix.
func normalize(token string) (string, bool) {
	var sb strings.Builder
	for i := 0; i < len(token); i++ {
		if !isAnnotation(token[i]) {
			sb.WriteByte(token[i])
		}
	}
	s := sb.String()
	for _, suffix := range []string{"e.p.", "ep"} {
		if strings.HasSuffix(s, suffix) && len(s) > len(suffix) {
			return s[:len(s)-len(suffix)], true
		}
	}
	return s, false
}

// Decode parses a move token in algebraic notation: SAN (e4, exd5, Nbd7,
// R1e2, cxb8=N, O-O), long algebraic (e2e4, g1-f3, Ng1xf3) and explicit
// pawn moves (Pc5). Check marks, annotation glyphs and an e.p. suffix are
// accepted and dropped. Malformed tokens return a *errors.ParseError
// wrapping ErrInvalidNotation.
func Decode(token string) (Notation, error) {
	n := Notation{Text: token}
	s, ep := normalize(token)
	n.EnPassant = ep

	pos := 0

	currentChar := func() byte {
		if pos >= len(s) {
			return 0
		}
		return s[pos]
	}

	advance := func() {
		if pos < len(s) {
			pos++
		}
	}

	fail := func(expected string) (Notation, error) {
		got := "end of move"
		if c := currentChar(); c != 0 {
			got = fmt.Sprintf("%q", c)
		}
		return Notation{}, &errors.ParseError{
			Err:      errors.ErrInvalidNotation,
			Input:    token,
			Column:   pos + 1,
			Expected: expected,
			Got:      got,
		}
	}

	if s == "" {
		return fail("move")
	}

	if isCastlingChar(currentChar()) {
		count := 0
		for isCastlingChar(currentChar()) || currentChar() == '-' {
			if currentChar() != '-' {
				count++
			}
			advance()
		}
		if currentChar() != 0 {
			return fail("end of castling move")
		}
		switch count {
		case 2:
			n.Castle = Kingside
		case 3:
			n.Castle = Queenside
		default:
			return fail("O-O or O-O-O")
		}
		n.Piece = chess.King
		return n, nil
	}

	// Make an initial distinction between pawn moves and piece moves.
	leadingFile := isCol(currentChar())
	if leadingFile {
		n.Piece = chess.Pawn
	} else if n.Piece = pieceLetter(currentChar()); n.Piece != chess.NoKind {
		advance()
	} else {
		return fail("piece letter, file or castling")
	}

	// Collect coordinates, dropping capture markers once recorded.
	var coords []byte
	for {
		c := currentChar()
		if isCol(c) && pos == len(s)-1 && len(coords) >= 2 && isRank(coords[len(coords)-1]) {
			// Trailing file letter after a full square: e8b promotes.
			break
		}
		if isCol(c) || isRank(c) {
			coords = append(coords, c)
		} else if isCapture(c) {
			if c != '-' {
				n.Capture = true
			}
		} else {
			break
		}
		advance()
	}

	if len(coords) < 2 || len(coords) > 4 {
		return fail("destination square")
	}
	dest := coords[len(coords)-2:]
	if !isCol(dest[0]) || !isRank(dest[1]) {
		return fail("destination square")
	}
	n.To = chess.Sq(int(dest[1]-'0'), int(dest[0]-'a')+1)

	switch hint := coords[:len(coords)-2]; len(hint) {
	case 0:
	case 1:
		if isCol(hint[0]) {
			n.FromFile = int(hint[0]-'a') + 1
		} else {
			n.FromRank = int(hint[0] - '0')
		}
	case 2:
		if !isCol(hint[0]) || !isRank(hint[1]) {
			return fail("origin square")
		}
		n.FromFile = int(hint[0]-'a') + 1
		n.FromRank = int(hint[1] - '0')
		if leadingFile {
			n.Piece = chess.NoKind
		}
	}

	if leadingFile && n.FromFile != 0 && n.FromRank == 0 {
		// exd5 and ed5 are pawn captures.
		n.Capture = true
	}

	// Look for promotions.
	if currentChar() == '=' {
		advance()
		if n.Promotion = promotionLetter(currentChar()); n.Promotion == chess.NoKind {
			return fail("promotion piece")
		}
		advance()
	} else if k := promotionLetter(currentChar()); k != chess.NoKind && (n.Piece == chess.Pawn || n.Piece == chess.NoKind) {
		n.Promotion = k
		advance()
	}

	if currentChar() != 0 {
		return fail("end of move")
	}
	if n.EnPassant && n.Piece != chess.Pawn && n.Piece != chess.NoKind {
		return fail("pawn move before e.p.")
	}
	return n, nil
}
