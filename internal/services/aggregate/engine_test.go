package aggregate

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ternarybob/treatyview/internal/common"
	"github.com/ternarybob/treatyview/internal/models"
	"github.com/ternarybob/treatyview/internal/services/period"
)

func newTestResolver() *period.Resolver {
	return period.NewResolver(&common.PeriodConfig{MinYear: 2019, MaxYear: 2021})
}

func policy(uy string, premium, acq, paid, os float64) models.Policy {
	return models.Policy{
		UY:              models.NormalizeLabel(uy),
		GrossUWPrem:     premium,
		GrossActualAcq:  acq,
		GrossPaidClaims: paid,
		GrossOSLoss:     os,
	}
}

// scenarioRecords is the three-policy 2020 book used across the tests
func scenarioRecords() []models.Policy {
	q1 := policy("2020", 1000, 200, 100, 50)
	q1.InceptionQuarter = "Q1"

	may := policy("2020", 500, 50, 600, 0)
	may.InceptionMonth = "May"

	aug := policy("2020", 0, 0, 10, 0)
	aug.ComDate = "15 Aug 2020"

	return []models.Policy{q1, may, aug}
}

func assertFinite(t *testing.T, b models.Bucket) {
	t.Helper()
	for name, v := range map[string]float64{
		"premium":         b.Premium,
		"acquisition":     b.Acquisition,
		"incurred":        b.IncurredClaims,
		"technical":       b.TechnicalResult,
		"loss ratio":      b.LossRatioPct,
		"acquisition pct": b.AcquisitionPct,
		"combined":        b.CombinedRatioPct,
	} {
		assert.False(t, math.IsNaN(v) || math.IsInf(v, 0), "%s of %s is not finite", name, b.Key)
	}
}

func TestAggregate_DerivedMeasures(t *testing.T) {
	records := []models.Policy{
		policy("2020", 1000, 200, 100, 50),
		policy("2020", 500, 50, 600, 0),
		policy("2021", 0, 0, 10, 5),
	}

	buckets := Aggregate(records, func(p *models.Policy) (string, string, bool) {
		return p.UY.Key, p.UY.Raw, true
	})
	require.Len(t, buckets, 2)

	b2020 := buckets["2020"]
	require.NotNil(t, b2020)
	assert.Equal(t, 2, b2020.PolicyCount)
	assert.Equal(t, 1500.0, b2020.Premium)
	assert.Equal(t, 250.0, b2020.Acquisition)
	assert.Equal(t, 750.0, b2020.IncurredClaims)
	assert.Equal(t, 500.0, b2020.TechnicalResult)
	assert.Equal(t, 50.0, b2020.LossRatioPct)
	assert.InDelta(t, 16.6667, b2020.AcquisitionPct, 1e-4)
	assert.InDelta(t, 66.6667, b2020.CombinedRatioPct, 1e-4)

	b2021 := buckets["2021"]
	require.NotNil(t, b2021)
	assert.Equal(t, 15.0, b2021.IncurredClaims)
	assert.Equal(t, -15.0, b2021.TechnicalResult, "technical result may be negative")
}

func TestAggregate_RatioGuard(t *testing.T) {
	records := []models.Policy{
		policy("2020", 0, 0, 100, 0),
		policy("2021", 0, 50, 0, 0),
		policy("2019", 0, 0, 0, 0),
	}

	buckets := Aggregate(records, func(p *models.Policy) (string, string, bool) {
		return p.UY.Key, p.UY.Raw, true
	})

	for _, b := range buckets {
		assert.Equal(t, 0.0, b.Premium)
		assert.Equal(t, 0.0, b.LossRatioPct)
		assert.Equal(t, 0.0, b.AcquisitionPct)
		assert.Equal(t, 0.0, b.CombinedRatioPct)
		assertFinite(t, *b)
	}
}

func TestAggregate_KeyFuncExcludes(t *testing.T) {
	records := []models.Policy{policy("2020", 1, 0, 0, 0), policy("2021", 2, 0, 0, 0)}

	buckets := Aggregate(records, func(p *models.Policy) (string, string, bool) {
		return p.UY.Key, p.UY.Raw, p.UY.Key == "2021"
	})
	require.Len(t, buckets, 1)
	assert.Equal(t, 2.0, buckets["2021"].Premium)
}

func TestAggregate_SumsDoNotDrift(t *testing.T) {
	records := make([]models.Policy, 0, 1000)
	for i := 0; i < 1000; i++ {
		records = append(records, policy("2020", 0.1, 0.01, 0.2, 0))
	}

	total := Total(records)
	assert.Equal(t, 100.0, total.Premium)
	assert.Equal(t, 10.0, total.Acquisition)
	assert.Equal(t, 200.0, total.PaidClaims)
}

func TestTotal_Empty(t *testing.T) {
	total := Total(nil)
	assert.Equal(t, 0, total.PolicyCount)
	assert.Equal(t, 0.0, total.LossRatioPct)
	assertFinite(t, total)
}
