package game

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/lgbarn/chessrules-go/internal/chess"
	"github.com/lgbarn/chessrules-go/internal/parser"
	"github.com/lgbarn/chessrules-go/internal/search"
)

// MoveSource supplies the moves of one side. Returning io.EOF ends the game
// without error.
type MoveSource interface {
	NextMove(ctx context.Context, state *GameState) (chess.Move, error)
}

// Scripted plays a fixed list of notation tokens in order.
type Scripted struct {
	tokens []string
	next   int
}

// NewScripted creates a source that plays tokens.
func NewScripted(tokens ...string) *Scripted {
	return &Scripted{tokens: tokens}
}

// NextMove resolves the next token, or returns io.EOF when none remain.
func (s *Scripted) NextMove(_ context.Context, state *GameState) (chess.Move, error) {
	if s.next >= len(s.tokens) {
		return chess.Move{}, io.EOF
	}
	token := s.tokens[s.next]
	s.next++
	return parser.ParseMove(state.Board, token, state.ToMove)
}

// Interactive reads moves from a line-oriented reader, prompting on w.
// Unparsable or illegal input is reported and asked for again. End of
// input or "quit" returns io.EOF. A cancelled context ends a pending
// prompt.
type Interactive struct {
	in  io.Reader
	out io.Writer

	once  sync.Once
	lines chan string
	err   error // read error, set before lines is closed
}

// NewInteractive creates a source reading from r and prompting on w.
func NewInteractive(r io.Reader, w io.Writer) *Interactive {
	return &Interactive{in: r, out: w}
}

// readLines starts the goroutine that feeds lines. It stays blocked on
// the reader after a cancelled game until the reader is closed.
func (s *Interactive) readLines() {
	s.once.Do(func() {
		s.lines = make(chan string)
		go func() {
			defer close(s.lines)
			sc := bufio.NewScanner(s.in)
			for sc.Scan() {
				s.lines <- sc.Text()
			}
			s.err = sc.Err()
		}()
	})
}

// NextMove shows the board and prompts until a legal move is entered.
func (s *Interactive) NextMove(ctx context.Context, state *GameState) (chess.Move, error) {
	s.readLines()
	fmt.Fprintf(s.out, "\n%s\n", state.Board)
	for {
		if err := ctx.Err(); err != nil {
			return chess.Move{}, err
		}
		fmt.Fprintf(s.out, "%d. %s to move: ", state.MoveNumber, state.ToMove)

		var line string
		select {
		case <-ctx.Done():
			fmt.Fprintln(s.out)
			return chess.Move{}, ctx.Err()
		case l, ok := <-s.lines:
			if !ok {
				if s.err != nil {
					return chess.Move{}, s.err
				}
				return chess.Move{}, io.EOF
			}
			line = strings.TrimSpace(l)
		}

		switch line {
		case "":
			continue
		case "quit", "exit":
			return chess.Move{}, io.EOF
		}

		m, err := parser.ParseMove(state.Board, line, state.ToMove)
		if err != nil {
			fmt.Fprintf(s.out, "%v\n", err)
			continue
		}
		return m, nil
	}
}

// Searcher asks a search engine for each move.
type Searcher struct {
	engine *search.Engine
}

// NewSearcher wraps e.
func NewSearcher(e *search.Engine) *Searcher {
	return &Searcher{engine: e}
}

// NextMove runs the search on the current board.
func (s *Searcher) NextMove(ctx context.Context, state *GameState) (chess.Move, error) {
	if err := ctx.Err(); err != nil {
		return chess.Move{}, err
	}
	return s.engine.ChooseMove(state.Board, state.ToMove, state.MoveNumber)
}
