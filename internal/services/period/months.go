package period

import (
	"strconv"
	"strings"
)

var monthNames = map[string]int{
	"jan": 1, "january": 1,
	"feb": 2, "february": 2,
	"mar": 3, "march": 3,
	"apr": 4, "april": 4,
	"may": 5,
	"jun": 6, "june": 6,
	"jul": 7, "july": 7,
	"aug": 8, "august": 8,
	"sep": 9, "sept": 9, "september": 9,
	"oct": 10, "october": 10,
	"nov": 11, "november": 11,
	"dec": 12, "december": 12,
}

var monthCodes = [...]string{"", "Jan", "Feb", "Mar", "Apr", "May", "Jun", "Jul", "Aug", "Sep", "Oct", "Nov", "Dec"}

// NormalizeMonth maps a month spelling to 1..12. Accepts full names,
// three-letter abbreviations, "Sept" and numbers, in any case, with or
// without a trailing dot.
func NormalizeMonth(raw string) (int, bool) {
	s := strings.ToLower(strings.TrimSpace(raw))
	s = strings.TrimRight(s, ".")
	if s == "" {
		return 0, false
	}

	if m, ok := monthNames[s]; ok {
		return m, true
	}

	if n, err := strconv.Atoi(s); err == nil && n >= 1 && n <= 12 {
		return n, true
	}

	return 0, false
}

// MonthCode returns the three-letter code of a month, "" when out of range
func MonthCode(month int) string {
	if month < 1 || month > 12 {
		return ""
	}
	return monthCodes[month]
}
