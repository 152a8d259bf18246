package errors

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestSentinelErrors_Wrapping(t *testing.T) {
	tests := []struct {
		name     string
		sentinel error
	}{
		{"ErrOutOfRange", ErrOutOfRange},
		{"ErrIllegalMove", ErrIllegalMove},
		{"ErrAmbiguousNotation", ErrAmbiguousNotation},
		{"ErrInvalidNotation", ErrInvalidNotation},
		{"ErrMalformedSnapshot", ErrMalformedSnapshot},
		{"ErrInvalidState", ErrInvalidState},
		{"ErrInvalidFEN", ErrInvalidFEN},
		{"ErrNoLegalMoves", ErrNoLegalMoves},
		{"ErrInvalidConfig", ErrInvalidConfig},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			wrapped := fmt.Errorf("while replaying: %w", tt.sentinel)
			if !errors.Is(wrapped, tt.sentinel) {
				t.Errorf("errors.Is(wrapped, %v) = false, want true", tt.sentinel)
			}
		})
	}
}

func TestSentinelErrors_Distinct(t *testing.T) {
	all := []error{
		ErrOutOfRange, ErrIllegalMove, ErrAmbiguousNotation, ErrInvalidNotation,
		ErrMalformedSnapshot, ErrInvalidState, ErrInvalidFEN, ErrNoLegalMoves, ErrInvalidConfig,
	}
	for i, a := range all {
		for j, b := range all {
			if i != j && errors.Is(a, b) {
				t.Errorf("errors.Is(%v, %v) = true, want false", a, b)
			}
		}
	}
}

func TestGameError_Error(t *testing.T) {
	tests := []struct {
		name     string
		err      *GameError
		contains []string
	}{
		{
			name: "full context",
			err: &GameError{
				Err:      ErrIllegalMove,
				GameID:   "3f1c",
				PlyNum:   12,
				MoveText: "Nxe5",
			},
			contains: []string{"game 3f1c", "ply 12", "Nxe5", "illegal move"},
		},
		{
			name: "game number without id",
			err: &GameError{
				Err:     ErrAmbiguousNotation,
				GameNum: 4,
			},
			contains: []string{"game 4", "ambiguous notation"},
		},
		{
			name:     "bare error",
			err:      &GameError{Err: ErrNoLegalMoves},
			contains: []string{"no legal moves"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := tt.err.Error()
			for _, s := range tt.contains {
				if !containsIgnoreCase(msg, s) {
					t.Errorf("GameError.Error() = %q, should contain %q", msg, s)
				}
			}
		})
	}
}

func TestGameError_As(t *testing.T) {
	gameErr := &GameError{
		Err:      ErrIllegalMove,
		GameNum:  3,
		PlyNum:   24,
		MoveText: "O-O-O",
	}

	wrapped := fmt.Errorf("replay failed: %w", gameErr)

	var extracted *GameError
	if !errors.As(wrapped, &extracted) {
		t.Fatal("errors.As() could not extract GameError")
	}
	if extracted.PlyNum != 24 {
		t.Errorf("extracted.PlyNum = %d, want 24", extracted.PlyNum)
	}
	if !errors.Is(wrapped, ErrIllegalMove) {
		t.Error("errors.Is(wrapped, ErrIllegalMove) = false, want true")
	}
}

func TestParseError_Error(t *testing.T) {
	err := &ParseError{
		Err:      ErrInvalidNotation,
		Input:    "Nz9",
		Column:   2,
		Expected: "file letter",
		Got:      "'z'",
	}

	msg := err.Error()
	for _, s := range []string{`"Nz9"`, "column 2", "expected file letter", "invalid notation"} {
		if !containsIgnoreCase(msg, s) {
			t.Errorf("ParseError.Error() = %q, should contain %q", msg, s)
		}
	}
	if !errors.Is(err, ErrInvalidNotation) {
		t.Error("errors.Is(err, ErrInvalidNotation) = false, want true")
	}
}

// containsIgnoreCase checks if s contains substr (case-insensitive).
func containsIgnoreCase(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}
