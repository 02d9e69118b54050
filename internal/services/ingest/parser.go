package ingest

import (
	"encoding/csv"
	"strings"
)

// RawRow is one source line keyed by field. Absent optional columns read as "".
// It never leaves this package.
type RawRow struct {
	values [fieldCount]string
}

// Get returns the raw cell for f
func (r *RawRow) Get(f Field) string {
	return r.values[f]
}

// ParseLine splits one delimited line and maps it through header.
// Returns false when the line cannot be split or is shorter than the header.
func ParseLine(header *HeaderMap, line string, delimiter rune) (*RawRow, bool) {
	reader := csv.NewReader(strings.NewReader(line))
	reader.Comma = delimiter
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1

	cells, err := reader.Read()
	if err != nil {
		return nil, false
	}
	return ParseRow(header, cells)
}

// ParseRow maps already-split cells through header. A row with fewer cells
// than the header is skipped rather than treated as an error.
func ParseRow(header *HeaderMap, cells []string) (*RawRow, bool) {
	if header == nil || len(cells) < header.Width() {
		return nil, false
	}

	row := &RawRow{}
	for f := Field(0); f < fieldCount; f++ {
		pos := header.Position(f)
		if pos < 0 {
			continue
		}
		row.values[f] = stripQuotes(cells[pos])
	}
	return row, true
}

// stripQuotes removes one pair of wrapping quotes left by hand-edited files
func stripQuotes(s string) string {
	s = strings.TrimSpace(s)
	if len(s) >= 2 {
		first, last := s[0], s[len(s)-1]
		if (first == '"' && last == '"') || (first == '\'' && last == '\'') {
			return s[1 : len(s)-1]
		}
	}
	return s
}
