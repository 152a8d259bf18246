package replay

import (
	"strings"
	"unicode"
)

// results lists the game termination markers.
var results = map[string]bool{
	"1-0":     true,
	"0-1":     true,
	"1/2-1/2": true,
	"*":       true,
}

// Tokenize splits movetext into move tokens and the game result. Move
// numbers, brace and semicolon comments, variations in parentheses and
// numeric annotation glyphs are dropped. A detached e.p. marker is joined
// to the move before it.
func Tokenize(movetext string) (tokens []string, result string) {
	var sb strings.Builder
	depth := 0
	inBrace, inLine := false, false

	for _, c := range movetext {
		switch {
		case inBrace:
			if c == '}' {
				inBrace = false
				sb.WriteByte(' ')
			}
		case inLine:
			if c == '\n' {
				inLine = false
				sb.WriteByte(' ')
			}
		case c == '{':
			inBrace = true
		case c == ';':
			inLine = true
		case c == '(':
			depth++
		case c == ')':
			if depth > 0 {
				depth--
			}
		case depth > 0:
		default:
			sb.WriteRune(c)
		}
	}

	for _, field := range strings.Fields(sb.String()) {
		if results[field] {
			result = field
			continue
		}
		field = stripMoveNumber(field)
		if field == "" || strings.HasPrefix(field, "$") {
			continue
		}
		if (field == "e.p." || field == "ep") && len(tokens) > 0 {
			tokens[len(tokens)-1] += field
			continue
		}
		tokens = append(tokens, field)
	}
	return tokens, result
}

// stripMoveNumber removes a leading "12." or "12..." from a field.
func stripMoveNumber(field string) string {
	i := 0
	for i < len(field) && unicode.IsDigit(rune(field[i])) {
		i++
	}
	if i == 0 || i == len(field) || field[i] != '.' {
		return field
	}
	return strings.TrimLeft(field[i:], ".")
}
