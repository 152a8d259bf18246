package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/lgbarn/chessrules-go/internal/replay"
)

// readGames splits movetext into games. Tag pair lines are skipped and a
// game ends at a line whose last field is a result marker. Games are
// identified as name:N.
func readGames(r io.Reader, name string) ([]replay.GameInput, error) {
	var games []replay.GameInput
	var movetext strings.Builder

	flush := func() {
		tokens, result := replay.Tokenize(movetext.String())
		movetext.Reset()
		if len(tokens) == 0 && result == "" {
			return
		}
		games = append(games, replay.GameInput{
			ID:     fmt.Sprintf("%s:%d", name, len(games)+1),
			Result: result,
			Tokens: tokens,
		})
	}

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if strings.HasPrefix(line, "[") {
			continue
		}
		movetext.WriteString(line)
		movetext.WriteByte('\n')

		if fields := strings.Fields(line); len(fields) > 0 && isResult(fields[len(fields)-1]) {
			flush()
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	flush()
	return games, nil
}

func isResult(s string) bool {
	switch s {
	case "1-0", "0-1", "1/2-1/2", "*":
		return true
	}
	return false
}

// readInputs reads games from the named files, or from stdin when none
// are given.
func readInputs(names []string, stdin io.Reader) ([]replay.GameInput, error) {
	if len(names) == 0 {
		return readGames(stdin, "stdin")
	}

	var all []replay.GameInput
	for _, name := range names {
		file, err := os.Open(name) //nolint:gosec // G304: CLI tool opens user-specified files
		if err != nil {
			return nil, fmt.Errorf("opening %s: %w", name, err)
		}
		games, err := readGames(file, name)
		file.Close() //nolint:errcheck,gosec // read-only file
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", name, err)
		}
		all = append(all, games...)
	}
	return all, nil
}
