package period

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/araddon/dateparse"
	"github.com/patrickmn/go-cache"
)

var (
	// A trailing time part, as in spreadsheet datetime exports, is ignored
	isoDatePattern     = regexp.MustCompile(`^(\d{4})-(\d{2})-(\d{2})(?:[ T].*)?$`)
	numericDatePattern = regexp.MustCompile(`^(\d{1,2})[/.-](\d{1,2})[/.-](\d{2}|\d{4})(?:[ T].*)?$`)
)

// textLayouts are tried before the generic parser
var textLayouts = []string{
	"02 Jan 2006",
	"2 Jan 2006",
	"02-Jan-2006",
	"2-Jan-2006",
	"2-Jan-06",
	"02 January 2006",
	"2 January 2006",
	"January 2, 2006",
	"Jan 2, 2006",
}

type parsedDate struct {
	t  time.Time
	ok bool
}

// DateParser parses free-text commitment dates. The same strings repeat
// across thousands of rows, so every result, failures included, is cached
// by input string. Safe for concurrent use.
type DateParser struct {
	cache *cache.Cache
}

// NewDateParser creates a parser with an unbounded, non-expiring cache
func NewDateParser() *DateParser {
	return &DateParser{
		cache: cache.New(cache.NoExpiration, 0),
	}
}

// Parse tries, in order: strict YYYY-MM-DD, numeric D/M/Y, then text formats.
func (p *DateParser) Parse(raw string) (time.Time, bool) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return time.Time{}, false
	}

	if cached, found := p.cache.Get(s); found {
		d := cached.(parsedDate)
		return d.t, d.ok
	}

	t, ok := parseDate(s)
	p.cache.Set(s, parsedDate{t: t, ok: ok}, cache.NoExpiration)
	return t, ok
}

// CacheSize returns the number of distinct inputs seen
func (p *DateParser) CacheSize() int {
	return p.cache.ItemCount()
}

func parseDate(s string) (time.Time, bool) {
	if m := isoDatePattern.FindStringSubmatch(s); m != nil {
		return buildDate(m[1], m[2], m[3])
	}

	if m := numericDatePattern.FindStringSubmatch(s); m != nil {
		return parseNumericDate(m[1], m[2], m[3])
	}

	for _, layout := range textLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}

	t, err := dateparse.ParseAny(s, dateparse.PreferMonthFirst(false))
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// parseNumericDate reads a/b/year day-first. Only when a fits a month and b
// cannot (a <= 12, b > 12) is it read month-first, so "05/04/2020" is
// 5 April 2020. Two-digit years are 20xx.
func parseNumericDate(a, b, year string) (time.Time, bool) {
	first, _ := strconv.Atoi(a)
	second, _ := strconv.Atoi(b)

	if len(year) == 2 {
		y, _ := strconv.Atoi(year)
		year = strconv.Itoa(2000 + y)
	}

	day, month := first, second
	if first <= 12 && second > 12 {
		day, month = second, first
	}
	return buildDate(year, strconv.Itoa(month), strconv.Itoa(day))
}

// buildDate rejects dates that time.Date would normalise, such as 31 April
func buildDate(year, month, day string) (time.Time, bool) {
	y, err := strconv.Atoi(year)
	if err != nil {
		return time.Time{}, false
	}
	m, err := strconv.Atoi(month)
	if err != nil || m < 1 || m > 12 {
		return time.Time{}, false
	}
	d, err := strconv.Atoi(day)
	if err != nil || d < 1 {
		return time.Time{}, false
	}

	t := time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.UTC)
	if t.Year() != y || int(t.Month()) != m || t.Day() != d {
		return time.Time{}, false
	}
	return t, true
}
