package ingest

import (
	"bufio"
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/treatyview/internal/common"
	"github.com/ternarybob/treatyview/internal/models"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Stats counts what happened to each source row
type Stats struct {
	RowsRead        int `json:"rows_read"`        // Data rows seen, excluding header and blank lines
	RowsSkipped     int `json:"rows_skipped"`     // Rows shorter than the header
	RecordsRejected int `json:"records_rejected"` // Rows without an underwriting year
	RecordsLoaded   int `json:"records_loaded"`
}

// LoadResult is the outcome of parsing a whole source
type LoadResult struct {
	Policies []models.Policy
	Stats    Stats
}

// Loader reads a full CSV source into canonical policies
type Loader struct {
	encoding  string
	delimiter rune
	logger    arbor.ILogger
}

// NewLoader creates a loader for the configured source encoding and delimiter
func NewLoader(config *common.SourceConfig, logger arbor.ILogger) *Loader {
	return &Loader{
		encoding:  strings.ToLower(config.Encoding),
		delimiter: config.DelimiterRune(),
		logger:    logger,
	}
}

// Load parses r. Structural problems in individual rows are counted, never
// returned. Only an unreadable stream or an invalid header fails the load.
func (l *Loader) Load(ctx context.Context, r io.Reader) (*LoadResult, error) {
	reader := csv.NewReader(l.decode(r))
	reader.Comma = l.delimiter
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	headers, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("source is empty: %w", ErrMissingColumn)
		}
		return nil, fmt.Errorf("failed to read header row: %w", err)
	}

	header, err := BuildHeaderMap(headers)
	if err != nil {
		return nil, err
	}
	if unknown := header.Unknown(); len(unknown) > 0 {
		l.logger.Debug().Strs("columns", unknown).Msg("Ignoring unrecognised columns")
	}

	result := &LoadResult{}
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		cells, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			var parseErr *csv.ParseError
			if errors.As(err, &parseErr) {
				result.Stats.RowsRead++
				result.Stats.RowsSkipped++
				l.logger.Debug().Err(err).Msg("Skipping malformed row")
				continue
			}
			return nil, fmt.Errorf("failed to read source: %w", err)
		}

		if isBlank(cells) {
			continue
		}
		result.Stats.RowsRead++

		row, ok := ParseRow(header, cells)
		if !ok {
			result.Stats.RowsSkipped++
			continue
		}

		policy, ok := Normalize(row)
		if !ok {
			result.Stats.RecordsRejected++
			continue
		}
		result.Policies = append(result.Policies, policy)
	}

	result.Stats.RecordsLoaded = len(result.Policies)

	l.logger.Debug().
		Int("rows_read", result.Stats.RowsRead).
		Int("rows_skipped", result.Stats.RowsSkipped).
		Int("records_rejected", result.Stats.RecordsRejected).
		Int("records_loaded", result.Stats.RecordsLoaded).
		Msg("Parsed policy source")

	return result, nil
}

// decode strips a UTF-8 BOM and converts Windows-1252 input to UTF-8
func (l *Loader) decode(r io.Reader) io.Reader {
	if l.encoding == "windows-1252" {
		return transform.NewReader(r, charmap.Windows1252.NewDecoder())
	}

	br := bufio.NewReader(r)
	if prefix, err := br.Peek(len(utf8BOM)); err == nil && bytes.Equal(prefix, utf8BOM) {
		_, _ = br.Discard(len(utf8BOM))
	}
	return br
}

func isBlank(cells []string) bool {
	for _, c := range cells {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
