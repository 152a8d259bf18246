package testutil

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/lgbarn/chessrules-go/internal/chess"
	"github.com/lgbarn/chessrules-go/internal/engine"
)

// MustBoard builds a board from a diagram (rank 8 first, '.' for empty,
// upper case White, lower case Black, F/f for fresh pawns). It calls
// t.Fatal if the diagram is malformed.
func MustBoard(t testing.TB, diagram string) *chess.Board {
	t.Helper()
	b, err := chess.ParseDiagram(diagram)
	if err != nil {
		t.Fatalf("bad diagram: %v\n%s", err, diagram)
	}
	return b
}

// MustState decodes a serialized board state. It calls t.Fatal on error.
func MustState(t testing.TB, state string) (*chess.Board, chess.Team) {
	t.Helper()
	b, team, err := engine.StringToBoard(state)
	if err != nil {
		t.Fatalf("bad state %q: %v", state, err)
	}
	return b, team
}

// AssertBoard compares a board with a diagram and prints both on mismatch.
func AssertBoard(t testing.TB, got *chess.Board, wantDiagram string, msgAndArgs ...interface{}) {
	t.Helper()
	want := MustBoard(t, wantDiagram)
	if diff := cmp.Diff(strings.Split(want.String(), "\n"), strings.Split(got.String(), "\n")); diff != "" {
		report(t, msgAndArgs, "board mismatch (-want +got):\n%s", diff)
	}
}
