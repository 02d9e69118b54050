package aggregate

import (
	"github.com/shopspring/decimal"

	"github.com/ternarybob/treatyview/internal/common"
	"github.com/ternarybob/treatyview/internal/models"
)

// KeyFunc assigns a policy to a group. ok=false leaves the policy out of the
// grouping. label is the display form; the first policy of a group sets it.
type KeyFunc func(p *models.Policy) (key, label string, ok bool)

// accumulator sums base measures exactly so grouping order cannot drift totals
type accumulator struct {
	key         string
	label       string
	count       int
	premium     decimal.Decimal
	acquisition decimal.Decimal
	paidClaims  decimal.Decimal
	osLoss      decimal.Decimal
}

func newAccumulator(key, label string) *accumulator {
	return &accumulator{key: key, label: label}
}

func (a *accumulator) add(p *models.Policy) {
	a.count++
	a.premium = a.premium.Add(decimal.NewFromFloat(p.GrossUWPrem))
	a.acquisition = a.acquisition.Add(decimal.NewFromFloat(p.GrossActualAcq))
	a.paidClaims = a.paidClaims.Add(decimal.NewFromFloat(p.GrossPaidClaims))
	a.osLoss = a.osLoss.Add(decimal.NewFromFloat(p.GrossOSLoss))
}

func (a *accumulator) merge(other *accumulator) {
	a.count += other.count
	a.premium = a.premium.Add(other.premium)
	a.acquisition = a.acquisition.Add(other.acquisition)
	a.paidClaims = a.paidClaims.Add(other.paidClaims)
	a.osLoss = a.osLoss.Add(other.osLoss)
}

// bucket computes derived measures from the sums
func (a *accumulator) bucket() models.Bucket {
	incurred := a.paidClaims.Add(a.osLoss)
	technical := a.premium.Sub(incurred).Sub(a.acquisition)

	b := models.Bucket{
		Key:             a.key,
		Label:           a.label,
		PolicyCount:     a.count,
		Premium:         a.premium.InexactFloat64(),
		Acquisition:     a.acquisition.InexactFloat64(),
		PaidClaims:      a.paidClaims.InexactFloat64(),
		OSLoss:          a.osLoss.InexactFloat64(),
		IncurredClaims:  incurred.InexactFloat64(),
		TechnicalResult: technical.InexactFloat64(),
	}
	b.LossRatioPct = common.SafePercent(b.IncurredClaims, b.Premium)
	b.AcquisitionPct = common.SafePercent(b.Acquisition, b.Premium)
	b.CombinedRatioPct = b.LossRatioPct + b.AcquisitionPct
	return b
}

// Aggregate partitions records by key and returns one bucket per group
func Aggregate(records []models.Policy, key KeyFunc) map[string]*models.Bucket {
	groups := group(records, key)

	buckets := make(map[string]*models.Bucket, len(groups))
	for k, acc := range groups {
		b := acc.bucket()
		buckets[k] = &b
	}
	return buckets
}

// Total aggregates every record into a single bucket
func Total(records []models.Policy) models.Bucket {
	acc := newAccumulator("total", "Total")
	for i := range records {
		acc.add(&records[i])
	}
	return acc.bucket()
}

func group(records []models.Policy, key KeyFunc) map[string]*accumulator {
	groups := make(map[string]*accumulator)
	for i := range records {
		p := &records[i]
		k, label, ok := key(p)
		if !ok {
			continue
		}
		acc, exists := groups[k]
		if !exists {
			acc = newAccumulator(k, label)
			groups[k] = acc
		}
		acc.add(p)
	}
	return groups
}

// ByLabel groups by a field dimension's normalized key; the label is the
// first policy's trimmed value. Policies without a value are left out.
func ByLabel(d models.Dimension) KeyFunc {
	return func(p *models.Policy) (string, string, bool) {
		l := p.Label(d)
		if l == nil {
			return "", "", false
		}
		return l.Key, l.Raw, true
	}
}
