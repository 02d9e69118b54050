package ingest

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
)

var (
	// ErrMissingColumn is returned when a required column is absent from the header
	ErrMissingColumn = errors.New("required column missing")
	// ErrAmbiguousColumn is returned when two header cells map to the same field
	ErrAmbiguousColumn = errors.New("ambiguous column")
)

// Field identifies one source column
type Field int

const (
	FieldUY Field = iota
	FieldExtType
	FieldBroker
	FieldCedant
	FieldInsured
	FieldCountry
	FieldRegion
	FieldHub
	FieldInceptionYear
	FieldInceptionQuarter
	FieldInceptionMonth
	FieldComDate
	FieldMaxLiability
	FieldGrossUWPrem
	FieldGrossBookPrem
	FieldGrossActualAcq
	FieldGrossPaidClaims
	FieldGrossOSLoss

	fieldCount
)

type column struct {
	name     string
	required bool
	aliases  []string
}

// columns is the full header table. Aliases are compared after normalizeHeader.
var columns = [fieldCount]column{
	FieldUY:               {name: "UY", required: true, aliases: []string{"uy", "underwriting year", "uw year"}},
	FieldExtType:          {name: "Ext Type", aliases: []string{"ext type", "extension type"}},
	FieldBroker:           {name: "Broker Name", aliases: []string{"broker name", "broker"}},
	FieldCedant:           {name: "Cedant Name", aliases: []string{"cedant name", "cedant"}},
	FieldInsured:          {name: "Org Insured/Treaty Name", aliases: []string{"org insured treaty name", "org insured", "treaty name", "insured name"}},
	FieldCountry:          {name: "Country Name", aliases: []string{"country name", "country"}},
	FieldRegion:           {name: "Region", aliases: []string{"region"}},
	FieldHub:              {name: "Hub", aliases: []string{"hub"}},
	FieldInceptionYear:    {name: "Inception Year", aliases: []string{"inception year"}},
	FieldInceptionQuarter: {name: "Inception Quarter", aliases: []string{"inception quarter", "inception qtr"}},
	FieldInceptionMonth:   {name: "Inception Month", aliases: []string{"inception month"}},
	FieldComDate:          {name: "Com Date", aliases: []string{"com date", "commitment date", "comm date"}},
	FieldMaxLiability:     {name: "Max Liability", aliases: []string{"max liability", "max liab"}},
	FieldGrossUWPrem:      {name: "Gross UW Prem", required: true, aliases: []string{"gross uw prem", "gross uw premium"}},
	FieldGrossBookPrem:    {name: "Gross Book Prem", aliases: []string{"gross book prem", "gross booked prem", "gross booked premium"}},
	FieldGrossActualAcq:   {name: "Gross Actual Acq.", required: true, aliases: []string{"gross actual acq", "gross actual acquisition"}},
	FieldGrossPaidClaims:  {name: "Gross Paid Claims", required: true, aliases: []string{"gross paid claims"}},
	FieldGrossOSLoss:      {name: "Gross OS Loss", required: true, aliases: []string{"gross os loss", "gross outstanding loss"}},
}

var aliasIndex = buildAliasIndex()

func buildAliasIndex() map[string]Field {
	index := make(map[string]Field)
	for f, c := range columns {
		for _, alias := range c.aliases {
			index[normalizeHeader(alias)] = Field(f)
		}
	}
	return index
}

// String returns the canonical column name
func (f Field) String() string {
	if f < 0 || f >= fieldCount {
		return fmt.Sprintf("Field(%d)", int(f))
	}
	return columns[f].name
}

// normalizeHeader lowercases, drops punctuation and collapses whitespace:
// "Gross Actual Acq." -> "gross actual acq", "Org Insured/Treaty Name" ->
// "org insured treaty name".
func normalizeHeader(s string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(s) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
		case r == '.' || r == '\'' || r == '\uFEFF':
			// dropped
		default:
			b.WriteRune(' ')
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

// HeaderMap maps each known field to its column position. It is built once
// per load from the header row.
type HeaderMap struct {
	positions [fieldCount]int
	width     int
	unknown   []string
}

// BuildHeaderMap validates a header row against the column table. Every
// required column must be present and no field may be claimed by two columns.
// Unrecognised columns are ignored and reported by Unknown.
func BuildHeaderMap(headers []string) (*HeaderMap, error) {
	h := &HeaderMap{width: len(headers)}
	for i := range h.positions {
		h.positions[i] = -1
	}

	for pos, header := range headers {
		f, ok := aliasIndex[normalizeHeader(header)]
		if !ok {
			if strings.TrimSpace(header) != "" {
				h.unknown = append(h.unknown, header)
			}
			continue
		}
		if prev := h.positions[f]; prev >= 0 {
			return nil, fmt.Errorf("%w: %q matches both column %d (%q) and column %d (%q)",
				ErrAmbiguousColumn, f.String(), prev+1, headers[prev], pos+1, header)
		}
		h.positions[f] = pos
	}

	var missing []string
	for f, c := range columns {
		if c.required && h.positions[f] < 0 {
			missing = append(missing, c.name)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrMissingColumn, strings.Join(missing, ", "))
	}

	return h, nil
}

// Width is the number of cells in the header row
func (h *HeaderMap) Width() int {
	return h.width
}

// Position returns the column index of f, or -1 when the column is absent
func (h *HeaderMap) Position(f Field) int {
	return h.positions[f]
}

// Has reports whether the header contains f
func (h *HeaderMap) Has(f Field) bool {
	return h.positions[f] >= 0
}

// Unknown returns header cells that matched no field
func (h *HeaderMap) Unknown() []string {
	return h.unknown
}
