package models

import "fmt"

// Quarter is a calendar quarter, "Q1".."Q4"
type Quarter string

const (
	Q1 Quarter = "Q1"
	Q2 Quarter = "Q2"
	Q3 Quarter = "Q3"
	Q4 Quarter = "Q4"
)

// Quarters in calendar order
var Quarters = []Quarter{Q1, Q2, Q3, Q4}

// QuarterOfMonth maps a month 1..12 to its quarter
func QuarterOfMonth(month int) (Quarter, bool) {
	if month < 1 || month > 12 {
		return "", false
	}
	return Quarters[(month-1)/3], true
}

// Index returns 1..4 for a valid quarter and 0 otherwise
func (q Quarter) Index() int {
	for i, known := range Quarters {
		if q == known {
			return i + 1
		}
	}
	return 0
}

// ResolvedPeriod is the canonical (year, quarter) of a policy
type ResolvedPeriod struct {
	Year    int     `json:"year"`
	Quarter Quarter `json:"quarter"`
}

// Key returns "2020-Q1"
func (p ResolvedPeriod) Key() string {
	return fmt.Sprintf("%d-%s", p.Year, p.Quarter)
}

// PeriodParts holds each period component resolved independently.
// A policy counts toward every granularity whose parts are resolved.
type PeriodParts struct {
	Year       int     `json:"year,omitempty"`
	HasYear    bool    `json:"has_year"`
	Quarter    Quarter `json:"quarter,omitempty"`
	HasQuarter bool    `json:"has_quarter"`
	Month      int     `json:"month,omitempty"`
	HasMonth   bool    `json:"has_month"`
}

// Granularity of a period summary
type Granularity string

const (
	GranularityMonthly   Granularity = "monthly"
	GranularityQuarterly Granularity = "quarterly"
	GranularityYearly    Granularity = "yearly"
)

// Key returns the bucket key of parts at granularity g, or false when the
// parts needed for g are not resolved.
func (parts PeriodParts) Key(g Granularity) (string, bool) {
	if !parts.HasYear {
		return "", false
	}
	switch g {
	case GranularityYearly:
		return YearKey(parts.Year), true
	case GranularityQuarterly:
		if !parts.HasQuarter {
			return "", false
		}
		return QuarterKey(parts.Year, parts.Quarter), true
	case GranularityMonthly:
		if !parts.HasMonth {
			return "", false
		}
		return MonthKey(parts.Year, parts.Month), true
	}
	return "", false
}

// YearKey returns "2020"
func YearKey(year int) string {
	return fmt.Sprintf("%d", year)
}

// QuarterKey returns "2020-Q1"
func QuarterKey(year int, q Quarter) string {
	return fmt.Sprintf("%d-%s", year, q)
}

// MonthKey returns "2020-05"
func MonthKey(year, month int) string {
	return fmt.Sprintf("%d-%02d", year, month)
}
