package period

import (
	"strconv"
	"strings"

	"github.com/ternarybob/treatyview/internal/common"
	"github.com/ternarybob/treatyview/internal/models"
)

// Resolver derives canonical periods from a policy's unreliable temporal
// fields. It holds no per-policy state and is safe for concurrent use.
type Resolver struct {
	minYear int
	maxYear int
	dates   *DateParser
}

// NewResolver creates a resolver accepting years in the configured range
func NewResolver(config *common.PeriodConfig) *Resolver {
	return &Resolver{
		minYear: config.MinYear,
		maxYear: config.MaxYear,
		dates:   NewDateParser(),
	}
}

// Years returns every year in range in ascending order
func (r *Resolver) Years() []int {
	years := make([]int, 0, r.maxYear-r.minYear+1)
	for y := r.minYear; y <= r.maxYear; y++ {
		years = append(years, y)
	}
	return years
}

// InRange reports whether year lies in the accepted range
func (r *Resolver) InRange(year int) bool {
	return year >= r.minYear && year <= r.maxYear
}

// Dates exposes the shared commitment-date parser
func (r *Resolver) Dates() *DateParser {
	return r.dates
}

// Resolve returns the policy's (year, quarter), or nil when either fails
func (r *Resolver) Resolve(p *models.Policy) *models.ResolvedPeriod {
	year, ok := r.ResolveYear(p)
	if !ok {
		return nil
	}
	quarter, ok := r.ResolveQuarter(p)
	if !ok {
		return nil
	}
	return &models.ResolvedPeriod{Year: year, Quarter: quarter}
}

// Parts resolves year, quarter and month independently of each other
func (r *Resolver) Parts(p *models.Policy) models.PeriodParts {
	var parts models.PeriodParts
	parts.Year, parts.HasYear = r.ResolveYear(p)
	parts.Quarter, parts.HasQuarter = r.ResolveQuarter(p)
	parts.Month, parts.HasMonth = r.ResolveMonth(p)
	return parts
}

// ResolveYear uses the inception year when in range, else the underwriting
// year label parsed as an integer when in range.
func (r *Resolver) ResolveYear(p *models.Policy) (int, bool) {
	if p.InceptionYear != nil && r.InRange(*p.InceptionYear) {
		return *p.InceptionYear, true
	}

	if y, err := strconv.Atoi(p.UY.Raw); err == nil && r.InRange(y) {
		return y, true
	}

	return 0, false
}

// ResolveQuarter tries the inception quarter ("Q3" or "3"), then the
// inception month, then the commitment date's month.
func (r *Resolver) ResolveQuarter(p *models.Policy) (models.Quarter, bool) {
	if q, ok := parseQuarter(p.InceptionQuarter); ok {
		return q, true
	}

	if m, ok := r.ResolveMonth(p); ok {
		return models.QuarterOfMonth(m)
	}

	return "", false
}

// ResolveMonth tries the inception month, then the commitment date. A quarter
// never implies a month.
func (r *Resolver) ResolveMonth(p *models.Policy) (int, bool) {
	if m, ok := NormalizeMonth(p.InceptionMonth); ok {
		return m, true
	}

	if t, ok := r.dates.Parse(p.ComDate); ok {
		return int(t.Month()), true
	}

	return 0, false
}

func parseQuarter(raw string) (models.Quarter, bool) {
	s := strings.ToUpper(strings.TrimSpace(raw))
	if len(s) == 2 && s[0] == 'Q' {
		s = s[1:]
	}
	if len(s) != 1 || s[0] < '1' || s[0] > '4' {
		return "", false
	}
	return models.Quarter("Q" + s), true
}
