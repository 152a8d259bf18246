// Package errors provides sentinel errors and error types for the chess rules engine.
// It defines common error conditions and structured error types that preserve
// context while allowing error inspection with errors.Is() and errors.As().
package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for common failure conditions.
// Use these with errors.Is() to check for specific error types.
var (
	// ErrOutOfRange indicates a coordinate outside the 8x8 board.
	ErrOutOfRange = errors.New("square out of range")

	// ErrIllegalMove indicates a move that violates chess rules.
	ErrIllegalMove = errors.New("illegal move")

	// ErrAmbiguousNotation indicates a notation token that matches more
	// than one legal move.
	ErrAmbiguousNotation = errors.New("ambiguous notation")

	// ErrInvalidNotation indicates a token that is not algebraic notation.
	ErrInvalidNotation = errors.New("invalid notation")

	// ErrMalformedSnapshot indicates a board snapshot of the wrong shape.
	ErrMalformedSnapshot = errors.New("malformed board snapshot")

	// ErrInvalidState indicates a malformed serialized board state.
	ErrInvalidState = errors.New("invalid board state")

	// ErrInvalidFEN indicates a malformed FEN string.
	ErrInvalidFEN = errors.New("invalid FEN")

	// ErrNoLegalMoves indicates the side to move has no legal move.
	ErrNoLegalMoves = errors.New("no legal moves")

	// ErrInvalidConfig indicates invalid configuration values.
	ErrInvalidConfig = errors.New("invalid configuration")
)

// GameError wraps errors with game context: the game identifier, the ply
// at which the failure happened and the move text being processed.
type GameError struct {
	Err      error  // The underlying error
	GameID   string // Game identifier (if known)
	GameNum  int    // 1-based game number in a batch (0 if not applicable)
	PlyNum   int    // Ply number where error occurred (0 if not applicable)
	MoveText string // The move text that caused the error (if applicable)
}

// Error returns a formatted error message including all available context.
func (e *GameError) Error() string {
	var parts []string

	if e.GameID != "" {
		parts = append(parts, fmt.Sprintf("game %s", e.GameID))
	} else if e.GameNum > 0 {
		parts = append(parts, fmt.Sprintf("game %d", e.GameNum))
	}

	if e.PlyNum > 0 {
		parts = append(parts, fmt.Sprintf("ply %d", e.PlyNum))
	}

	if e.MoveText != "" {
		parts = append(parts, fmt.Sprintf("move %q", e.MoveText))
	}

	context := strings.Join(parts, ", ")
	switch {
	case e.Err != nil && context != "":
		return fmt.Sprintf("%s: %v", context, e.Err)
	case e.Err != nil:
		return e.Err.Error()
	case context != "":
		return context
	}
	return "game error"
}

// Unwrap returns the underlying error, enabling errors.Is() and errors.As()
// to work through the GameError wrapper.
func (e *GameError) Unwrap() error {
	return e.Err
}

// ParseError represents a notation or state parsing error with position context.
type ParseError struct {
	Err      error  // The underlying error
	Input    string // The text being parsed
	Column   int    // Column number (1-based, 0 if unknown)
	Expected string // What was expected (for syntax errors)
	Got      string // What was found instead
}

// Error returns a formatted error message with location and context.
func (e *ParseError) Error() string {
	var parts []string

	if e.Input != "" {
		loc := fmt.Sprintf("%q", e.Input)
		if e.Column > 0 {
			loc += fmt.Sprintf(" at column %d", e.Column)
		}
		parts = append(parts, loc)
	}

	if e.Expected != "" && e.Got != "" {
		parts = append(parts, fmt.Sprintf("expected %s, got %s", e.Expected, e.Got))
	} else if e.Expected != "" {
		parts = append(parts, fmt.Sprintf("expected %s", e.Expected))
	} else if e.Got != "" {
		parts = append(parts, fmt.Sprintf("unexpected %s", e.Got))
	}

	if e.Err != nil {
		if len(parts) > 0 {
			return fmt.Sprintf("%s: %v", strings.Join(parts, ": "), e.Err)
		}
		return e.Err.Error()
	}

	if len(parts) > 0 {
		return strings.Join(parts, ": ")
	}
	return "parse error"
}

// Unwrap returns the underlying error.
func (e *ParseError) Unwrap() error {
	return e.Err
}
