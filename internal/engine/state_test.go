package engine

import (
	"errors"
	"strings"
	"testing"

	"github.com/lgbarn/chessrules-go/internal/chess"
	chesserrors "github.com/lgbarn/chessrules-go/internal/errors"
)

func TestBoardToString_Initial(t *testing.T) {
	got := BoardToString(chess.NewInitialBoard(), chess.White)

	if len(got) != 1+32*4 {
		t.Errorf("len = %d, want %d", len(got), 1+32*4)
	}
	if !strings.HasPrefix(got, "WWR11WN12WB13WQ14WK15WB16WN17WR18WP21") {
		t.Errorf("prefix = %q", got[:37])
	}
	if !strings.HasSuffix(got, "BK85BB86BN87BR88") {
		t.Errorf("suffix = %q", got[len(got)-16:])
	}
}

func TestStateRoundTrip(t *testing.T) {
	tests := []struct {
		name string
		fen  string
	}{
		{"initial", InitialFEN},
		{"black to move with fresh pawn", "rnbqkbnr/pppppppp/8/8/4P3/8/PPPP1PPP/RNBQKBNR b KQkq e3 0 1"},
		{"complex", benchFENs["Complex"]},
		{"bare kings", "8/8/8/3k4/8/8/8/4K3 w - - 0 1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pos := mustFEN(t, tt.fen)
			s := BoardToString(pos.Board, pos.ToMove)
			board, team, err := StringToBoard(s)
			if err != nil {
				t.Fatalf("StringToBoard(%q) error = %v", s, err)
			}
			if team != pos.ToMove {
				t.Errorf("team = %v, want %v", team, pos.ToMove)
			}
			if !board.Equal(pos.Board) {
				t.Errorf("board mismatch:\n%s\nwant\n%s", board, pos.Board)
			}
		})
	}
}

func TestStateRoundTrip_FreshPawnLetter(t *testing.T) {
	pos := mustFEN(t, "rnbqkbnr/pppppppp/8/8/4P3/8/PPPP1PPP/RNBQKBNR b KQkq e3 0 1")
	s := BoardToString(pos.Board, pos.ToMove)
	if !strings.Contains(s, "WF45") {
		t.Errorf("BoardToString() = %q, want a WF45 group", s)
	}
}

func TestStringToBoard_Errors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"empty", ""},
		{"bad side", "XWK15"},
		{"bad length", "WWK1"},
		{"bad team letter", "WXK15"},
		{"bad piece letter", "WWZ15"},
		{"rank out of range", "WWK95"},
		{"file out of range", "WWK10"},
		{"duplicate square", "WWK15BK15"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := StringToBoard(tt.input)
			if !errors.Is(err, chesserrors.ErrInvalidState) {
				t.Errorf("StringToBoard(%q) error = %v, want ErrInvalidState", tt.input, err)
			}
		})
	}
}

func TestStringToBoard_EmptyBoard(t *testing.T) {
	board, team, err := StringToBoard("B")
	if err != nil {
		t.Fatalf("StringToBoard(\"B\") error = %v", err)
	}
	if team != chess.Black || !board.Equal(chess.NewBoard()) {
		t.Errorf("StringToBoard(\"B\") = %v, %v", board, team)
	}
}

func TestParseFEN(t *testing.T) {
	tests := []struct {
		name    string
		fen     string
		wantErr bool
		checkFn func(*Position) bool
	}{
		{
			name: "initial position",
			fen:  InitialFEN,
			checkFn: func(p *Position) bool {
				return p.Board.Equal(chess.NewInitialBoard()) && p.ToMove == chess.White && p.MoveNumber == 1
			},
		},
		{
			name: "en passant square marks the fresh pawn",
			fen:  "rnbqkbnr/pppppppp/8/8/4P3/8/PPPP1PPP/RNBQKBNR b KQkq e3 0 1",
			checkFn: func(p *Position) bool {
				return p.Board.At(sq("e4")) == chess.W(chess.FreshPawn) && p.ToMove == chess.Black
			},
		},
		{
			name: "move number",
			fen:  "8/8/8/3k4/8/8/8/4K3 w - - 10 42",
			checkFn: func(p *Position) bool {
				return p.MoveNumber == 42
			},
		},
		{"bad piece", "rnbqkbnr/ppppxppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1", true, nil},
		{"bad side", "8/8/8/3k4/8/8/8/4K3 x - - 0 1", true, nil},
		{"en passant without pawn", "8/8/8/3k4/8/8/8/4K3 b - e3 0 1", true, nil},
		{"empty", "", true, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pos, err := ParseFEN(tt.fen)
			if tt.wantErr {
				if !errors.Is(err, chesserrors.ErrInvalidFEN) {
					t.Errorf("ParseFEN() error = %v, want ErrInvalidFEN", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseFEN() error = %v", err)
			}
			if !tt.checkFn(pos) {
				t.Errorf("ParseFEN(%q) produced\n%s", tt.fen, pos.Board)
			}
		})
	}
}

func TestBoardToFEN(t *testing.T) {
	tests := []struct {
		name string
		fen  string
		want string
	}{
		{"initial", InitialFEN, InitialFEN},
		{"en passant", "rnbqkbnr/pppppppp/8/8/4P3/8/PPPP1PPP/RNBQKBNR b KQkq e3 0 1", "rnbqkbnr/pppppppp/8/8/4P3/8/PPPP1PPP/RNBQKBNR b KQkq e3 0 1"},
		{"castling from placement", "r3k2r/8/8/8/8/8/8/4K3 w KQkq - 0 7", "r3k2r/8/8/8/8/8/8/4K3 w kq - 0 7"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := BoardToFEN(mustFEN(t, tt.fen)); got != tt.want {
				t.Errorf("BoardToFEN() = %q, want %q", got, tt.want)
			}
		})
	}
}
