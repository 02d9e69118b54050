package aggregate

import (
	"sort"

	"github.com/ternarybob/treatyview/internal/common"
	"github.com/ternarybob/treatyview/internal/models"
)

// ByDimension groups records by a field dimension, sorted by premium
// descending with ties broken by label then key. When top > 0 only the first
// top buckets are returned, but Total and each bucket's premium share are
// computed over every group.
func ByDimension(records []models.Policy, d models.Dimension, top int) (models.DimensionSummary, error) {
	if !d.IsField() {
		return models.DimensionSummary{}, ErrNotGroupable
	}

	groups := group(records, ByLabel(d))

	total := newAccumulator("total", "Total")
	buckets := make([]models.Bucket, 0, len(groups))
	for _, acc := range groups {
		total.merge(acc)
		buckets = append(buckets, acc.bucket())
	}
	totalBucket := total.bucket()

	sort.Slice(buckets, func(i, j int) bool {
		a, b := buckets[i], buckets[j]
		if a.Premium != b.Premium {
			return a.Premium > b.Premium
		}
		if a.Label != b.Label {
			return a.Label < b.Label
		}
		return a.Key < b.Key
	})

	for i := range buckets {
		buckets[i].PremiumSharePct = common.SafePercent(buckets[i].Premium, totalBucket.Premium)
	}

	summary := models.DimensionSummary{
		Dimension:  d,
		Total:      totalBucket,
		GroupCount: len(buckets),
		Excluded:   len(records) - totalBucket.PolicyCount,
	}
	if top > 0 && len(buckets) > top {
		buckets = buckets[:top]
		summary.Truncated = true
	}
	summary.Buckets = buckets

	return summary, nil
}
