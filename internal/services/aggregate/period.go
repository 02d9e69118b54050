package aggregate

import (
	"fmt"

	"github.com/ternarybob/treatyview/internal/models"
	"github.com/ternarybob/treatyview/internal/services/period"
)

// PeriodQuery selects the grid of a period summary
type PeriodQuery struct {
	Granularity models.Granularity
	Year        *int // nil for every year in range
}

type gridCell struct {
	key   string
	label string
}

// ByPeriod groups records into a complete calendar grid. Every period in
// range appears in chronological order, empty ones as zero buckets. A record
// counts at this granularity when the parts it needs resolve; the others are
// reported as Unresolved. Total is the sum of the grid.
func ByPeriod(records []models.Policy, resolver *period.Resolver, q PeriodQuery) (models.PeriodSummary, error) {
	cells, err := grid(resolver, q)
	if err != nil {
		return models.PeriodSummary{}, err
	}

	inGrid := make(map[string]bool, len(cells))
	for _, c := range cells {
		inGrid[c.key] = true
	}

	unresolved := 0
	groups := group(records, func(p *models.Policy) (string, string, bool) {
		key, ok := resolver.Parts(p).Key(q.Granularity)
		if !ok {
			unresolved++
			return "", "", false
		}
		if !inGrid[key] {
			return "", "", false
		}
		return key, key, true
	})

	summary := models.PeriodSummary{
		Granularity: q.Granularity,
		Year:        q.Year,
		Buckets:     make([]models.Bucket, 0, len(cells)),
		Unresolved:  unresolved,
	}

	total := newAccumulator("total", "Total")
	for _, c := range cells {
		acc, ok := groups[c.key]
		if !ok {
			acc = newAccumulator(c.key, c.label)
		}
		acc.label = c.label
		total.merge(acc)
		summary.Buckets = append(summary.Buckets, acc.bucket())
	}
	summary.Total = total.bucket()

	return summary, nil
}

// grid lists the period cells of a query in chronological order
func grid(resolver *period.Resolver, q PeriodQuery) ([]gridCell, error) {
	years := resolver.Years()
	if q.Year != nil {
		if !resolver.InRange(*q.Year) {
			return nil, fmt.Errorf("%w: %d", ErrYearOutOfRange, *q.Year)
		}
		years = []int{*q.Year}
	}

	var cells []gridCell
	for _, y := range years {
		switch q.Granularity {
		case models.GranularityYearly:
			cells = append(cells, gridCell{key: models.YearKey(y), label: models.YearKey(y)})
		case models.GranularityQuarterly:
			for _, quarter := range models.Quarters {
				cells = append(cells, gridCell{
					key:   models.QuarterKey(y, quarter),
					label: fmt.Sprintf("%s %d", quarter, y),
				})
			}
		case models.GranularityMonthly:
			for m := 1; m <= 12; m++ {
				cells = append(cells, gridCell{
					key:   models.MonthKey(y, m),
					label: fmt.Sprintf("%s %d", period.MonthCode(m), y),
				})
			}
		default:
			return nil, fmt.Errorf("%w: %q", ErrUnknownGranularity, q.Granularity)
		}
	}
	return cells, nil
}
