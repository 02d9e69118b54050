package common

import (
	"math"
	"strings"

	"github.com/shopspring/decimal"
)

// SafeNumber returns v when it is a finite, non-negative number and 0 otherwise.
// Every measure that enters a policy record passes through here.
func SafeNumber(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return 0
	}
	return v
}

// SafePercent returns numerator/denominator*100, or 0 when the denominator is
// zero or the result would not be finite.
func SafePercent(numerator, denominator float64) float64 {
	if denominator == 0 {
		return 0
	}
	return SafeNumber(numerator / denominator * 100)
}

// ParseAmount converts a raw CSV amount cell into a safe number.
// Thousands separators, spaces and wrapping quotes are removed; anything that
// still does not parse yields 0.
func ParseAmount(raw string) float64 {
	s := strings.TrimSpace(raw)
	s = strings.Trim(s, "\"'")
	if s == "" {
		return 0
	}

	s = strings.ReplaceAll(s, ",", "")
	s = strings.ReplaceAll(s, " ", "")
	s = strings.ReplaceAll(s, "\u00a0", "")

	// Accounting negatives "(123)" are still negatives and get clamped below
	if strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") {
		s = "-" + s[1:len(s)-1]
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0
	}
	f, _ := d.Float64()
	return SafeNumber(f)
}

// RoundFloat rounds val to the given number of decimal places.
// Non-finite input rounds to 0.
func RoundFloat(val float64, precision int32) float64 {
	if math.IsNaN(val) || math.IsInf(val, 0) {
		return 0
	}
	return decimal.NewFromFloat(val).Round(precision).InexactFloat64()
}
