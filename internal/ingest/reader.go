// Package ingest decodes uploaded billing exports into a raw table.
//
// Exports are semicolon-delimited and Latin-1 encoded; neither is
// negotiable with the upstream system, so the reader decodes through
// golang.org/x/text rather than assuming UTF-8. Rows that fail
// structural parsing are skipped, not fatal; only a file that yields
// no usable header at all aborts the upload.
package ingest

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
)

// Encoding names accepted in configuration.
const (
	EncodingLatin1 = "latin1"
	EncodingUTF8   = "utf8"
)

// DelimiterAuto asks the reader to sniff the delimiter from the
// header line instead of fixing it.
const DelimiterAuto rune = 0

// Config controls upload decoding.
type Config struct {
	// Delimiter between fields; DelimiterAuto sniffs it.
	Delimiter rune
	// Encoding of the raw bytes, EncodingLatin1 by default.
	Encoding string
}

// ParseError means the file could not be decoded or parsed at all.
// Surfaced to the user as a single message; no partial results follow.
type ParseError struct {
	Reason string
	Err    error
}

func (e *ParseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("unreadable upload: %s: %v", e.Reason, e.Err)
	}
	return "unreadable upload: " + e.Reason
}

func (e *ParseError) Unwrap() error { return e.Err }

// RawTable is the parsed upload before schema binding: the header row
// and the data rows, plus how many rows were skipped for structural
// reasons (bad quoting, field count mismatch).
type RawTable struct {
	Headers []string
	Rows    [][]string
	Skipped int
}

// ReadTable decodes and parses one uploaded export.
func ReadTable(r io.Reader, cfg Config) (*RawTable, error) {
	decoded, err := decode(r, cfg.Encoding)
	if err != nil {
		return nil, err
	}

	buffered := bufio.NewReader(decoded)
	delim := cfg.Delimiter
	if delim == DelimiterAuto {
		delim, err = sniffDelimiter(buffered)
		if err != nil {
			return nil, &ParseError{Reason: "cannot detect delimiter", Err: err}
		}
	}

	cr := csv.NewReader(buffered)
	cr.Comma = delim
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	headers, err := cr.Read()
	if err != nil {
		return nil, &ParseError{Reason: "cannot read header row", Err: err}
	}
	if len(headers) < 2 {
		return nil, &ParseError{Reason: fmt.Sprintf("header has %d column(s), wrong delimiter or encoding", len(headers))}
	}

	table := &RawTable{Headers: trimAll(headers)}
	for {
		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			// Structural damage is limited to this row.
			table.Skipped++
			continue
		}
		if len(record) != len(headers) {
			table.Skipped++
			continue
		}
		table.Rows = append(table.Rows, record)
	}
	return table, nil
}

func decode(r io.Reader, encoding string) (io.Reader, error) {
	switch encoding {
	case "", EncodingLatin1:
		return transform.NewReader(r, charmap.ISO8859_1.NewDecoder()), nil
	case EncodingUTF8:
		return r, nil
	default:
		return nil, &ParseError{Reason: fmt.Sprintf("unsupported encoding %q", encoding)}
	}
}

// sniffDelimiter peeks at the first line and picks the candidate that
// splits it into the most fields. Semicolon wins ties, matching the
// dominant export format.
func sniffDelimiter(r *bufio.Reader) (rune, error) {
	peek, err := r.Peek(4096)
	if len(peek) == 0 {
		if err != nil && !errors.Is(err, io.EOF) {
			return 0, err
		}
		return 0, errors.New("empty file")
	}
	line := string(peek)
	if i := strings.IndexByte(line, '\n'); i >= 0 {
		line = line[:i]
	}

	best := ';'
	bestCount := strings.Count(line, ";")
	for _, c := range []rune{',', '\t', '|'} {
		if n := strings.Count(line, string(c)); n > bestCount {
			best, bestCount = c, n
		}
	}
	if bestCount == 0 {
		return 0, errors.New("no delimiter found in header line")
	}
	return best, nil
}

func trimAll(fields []string) []string {
	out := make([]string, len(fields))
	for i, f := range fields {
		out[i] = strings.TrimSpace(strings.TrimPrefix(f, "\uFEFF"))
	}
	return out
}
