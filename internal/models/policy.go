package models

import (
	"strings"
)

// Label is a dimension value in both of its forms: Raw is the trimmed value
// shown to users, Key is the lowercased, whitespace-collapsed value used for
// grouping and filtering.
type Label struct {
	Raw string `json:"raw"`
	Key string `json:"key"`
}

// NormalizeLabel builds a Label from a raw cell value.
// NormalizeLabel(l.Raw) == l for any Label it returned.
func NormalizeLabel(s string) Label {
	raw := strings.TrimSpace(s)
	return Label{
		Raw: raw,
		Key: NormalizeKey(raw),
	}
}

// NormalizeKey lowercases s and collapses runs of whitespace to one space
func NormalizeKey(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}

// NullableLabel returns nil when the trimmed value is empty
func NullableLabel(s string) *Label {
	l := NormalizeLabel(s)
	if l.Raw == "" {
		return nil
	}
	return &l
}

// IsEmpty reports whether the label carries no value
func (l Label) IsEmpty() bool {
	return l.Key == ""
}

// Policy is the canonical policy record. It is produced once by the ingest
// normalizer and never mutated afterwards.
type Policy struct {
	// Dimensions
	UY      Label  `json:"uy"`
	ExtType Label  `json:"ext_type"`
	Broker  *Label `json:"broker"`  // nil when blank in the source
	Cedant  *Label `json:"cedant"`  // nil when blank in the source
	Insured *Label `json:"insured"` // Org insured / treaty name, nil when blank
	Country Label  `json:"country"`
	Region  Label  `json:"region"`
	Hub     Label  `json:"hub"`

	// Temporal inputs, kept raw for the period resolver
	InceptionYear    *int   `json:"inception_year,omitempty"`
	InceptionQuarter string `json:"inception_quarter,omitempty"` // "Q1".."Q4" or "1".."4"
	InceptionMonth   string `json:"inception_month,omitempty"`
	ComDate          string `json:"com_date,omitempty"` // Free-text commitment date

	// Financial measures, always finite and non-negative
	MaxLiability    float64 `json:"max_liability"`
	GrossUWPrem     float64 `json:"gross_uw_prem"`
	GrossBookPrem   float64 `json:"gross_book_prem"`
	GrossActualAcq  float64 `json:"gross_actual_acq"`
	GrossPaidClaims float64 `json:"gross_paid_claims"`
	GrossOSLoss     float64 `json:"gross_os_loss"`
}

// Dimension names a filterable / groupable attribute of a Policy
type Dimension string

const (
	DimensionUY      Dimension = "uy"
	DimensionExtType Dimension = "ext_type"
	DimensionBroker  Dimension = "broker"
	DimensionCedant  Dimension = "cedant"
	DimensionInsured Dimension = "insured"
	DimensionCountry Dimension = "country"
	DimensionRegion  Dimension = "region"
	DimensionHub     Dimension = "hub"

	// DimensionYear is virtual: its value is the resolved period year
	DimensionYear Dimension = "year"
)

// FieldDimensions lists the dimensions read directly from policy fields
var FieldDimensions = []Dimension{
	DimensionUY,
	DimensionExtType,
	DimensionBroker,
	DimensionCedant,
	DimensionInsured,
	DimensionCountry,
	DimensionRegion,
	DimensionHub,
}

// FilterDimensions lists every dimension accepted in filter selections
var FilterDimensions = append(append([]Dimension{}, FieldDimensions...), DimensionYear)

// ParseDimension validates a dimension name (case-insensitive)
func ParseDimension(s string) (Dimension, bool) {
	d := Dimension(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range FilterDimensions {
		if d == known {
			return d, true
		}
	}
	return "", false
}

// IsField reports whether the dimension is read from a policy field
func (d Dimension) IsField() bool {
	return d != DimensionYear
}

// Label returns the policy's value for a field dimension, or nil when the
// value is absent. Virtual dimensions always return nil.
func (p *Policy) Label(d Dimension) *Label {
	var l *Label
	switch d {
	case DimensionUY:
		l = &p.UY
	case DimensionExtType:
		l = &p.ExtType
	case DimensionBroker:
		l = p.Broker
	case DimensionCedant:
		l = p.Cedant
	case DimensionInsured:
		l = p.Insured
	case DimensionCountry:
		l = &p.Country
	case DimensionRegion:
		l = &p.Region
	case DimensionHub:
		l = &p.Hub
	}
	if l == nil || l.IsEmpty() {
		return nil
	}
	return l
}

// Selections maps a dimension to the values selected for it.
// Values within one dimension are OR'd, dimensions are AND'd.
type Selections map[Dimension][]string

// IsEmpty reports whether no facet constrains the result
func (s Selections) IsEmpty() bool {
	for _, values := range s {
		if len(values) > 0 {
			return false
		}
	}
	return true
}
