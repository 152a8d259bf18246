// Package output writes replayed game records in various notations.
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/lgbarn/chessrules-go/internal/replay"
)

// Format selects how records are written.
type Format int

const (
	// SAN writes one line per game with moves in standard algebraic notation.
	SAN Format = iota
	// LALG writes moves in long algebraic notation (e2e4, e7e8=Q, O-O).
	LALG
	// States writes every serialized board of a game, one per line.
	States
	// JSON writes all records as one JSON array.
	JSON
	// JSONSeq writes each record as its own JSON document.
	JSONSeq
)

var formatNames = map[string]Format{
	"san":     SAN,
	"lalg":    LALG,
	"states":  States,
	"json":    JSON,
	"jsonseq": JSONSeq,
}

// ParseFormat maps a format name to a Format. The empty name means SAN.
func ParseFormat(name string) (Format, error) {
	if name == "" {
		return SAN, nil
	}
	f, ok := formatNames[name]
	if !ok {
		return SAN, fmt.Errorf("unknown output format %q", name)
	}
	return f, nil
}

// RecordWriter is the interface for writing replayed games.
type RecordWriter interface {
	// WriteRecord writes a single game record.
	WriteRecord(rec *replay.GameRecord) error

	// Flush flushes any buffered data to the underlying writer.
	Flush() error

	// Close flushes and releases the writer. Batch writers emit their
	// output here.
	Close() error
}

// New returns the writer for format.
func New(w io.Writer, format Format) RecordWriter {
	switch format {
	case JSON:
		return NewJSONWriter(w)
	case JSONSeq:
		return NewJSONWriterSingle(w)
	}
	return NewTextWriter(w, format)
}

// TextWriter writes records as plain text lines.
type TextWriter struct {
	w      io.Writer
	format Format
}

// NewTextWriter creates a text writer for the SAN, LALG or States format.
func NewTextWriter(w io.Writer, format Format) *TextWriter {
	return &TextWriter{w: w, format: format}
}

// WriteRecord writes a header line "id<TAB>result<TAB>plies" followed by
// the moves on the same line, or by one state per line for States.
func (tw *TextWriter) WriteRecord(rec *replay.GameRecord) error {
	var body string
	switch tw.format {
	case States:
		body = "\n" + strings.Join(rec.States, "\n")
	case LALG:
		moves := make([]string, len(rec.Moves))
		for i, m := range rec.Moves {
			moves[i] = m.String()
		}
		body = "\t" + strings.Join(moves, " ")
	default:
		body = "\t" + strings.Join(rec.SAN, " ")
	}
	_, err := fmt.Fprintf(tw.w, "%s\t%s\t%d%s\n", rec.ID, rec.Result, rec.Plies, body)
	return err
}

// Flush is a no-op; text is written immediately.
func (tw *TextWriter) Flush() error {
	return nil
}

// Close closes the text writer.
func (tw *TextWriter) Close() error {
	return nil
}

// JSONWriter writes records in JSON format. It buffers records and writes
// them as a JSON array on Close or Flush.
type JSONWriter struct {
	w       io.Writer
	records []*replay.GameRecord
	single  bool // write each record immediately instead of batching
}

// NewJSONWriter creates a batching JSON writer.
func NewJSONWriter(w io.Writer) *JSONWriter {
	return &JSONWriter{w: w, records: make([]*replay.GameRecord, 0)}
}

// NewJSONWriterSingle creates a JSON writer that writes each record
// immediately as its own document.
func NewJSONWriterSingle(w io.Writer) *JSONWriter {
	return &JSONWriter{w: w, single: true}
}

// WriteRecord buffers a record (or writes it immediately in single mode).
func (jw *JSONWriter) WriteRecord(rec *replay.GameRecord) error {
	if jw.single {
		return jw.encode(rec)
	}
	jw.records = append(jw.records, rec)
	return nil
}

// Flush writes all buffered records as a JSON array. An empty batch is
// written as an empty array.
func (jw *JSONWriter) Flush() error {
	if jw.single {
		return nil
	}
	err := jw.encode(jw.records)
	jw.records = jw.records[:0]
	return err
}

// Close flushes the JSON writer.
func (jw *JSONWriter) Close() error {
	return jw.Flush()
}

func (jw *JSONWriter) encode(v any) error {
	enc := json.NewEncoder(jw.w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
