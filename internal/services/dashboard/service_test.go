package dashboard

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"

	"github.com/ternarybob/treatyview/internal/common"
	"github.com/ternarybob/treatyview/internal/models"
	"github.com/ternarybob/treatyview/internal/services/dataset"
	"github.com/ternarybob/treatyview/internal/services/filter"
	"github.com/ternarybob/treatyview/internal/services/period"
)

type staticSnapshots struct {
	snap *dataset.Snapshot
	err  error
}

func (s *staticSnapshots) Get(ctx context.Context) (*dataset.Snapshot, error) {
	return s.snap, s.err
}

func testPolicy(uy, broker, country string, premium, acq, paid, os float64) models.Policy {
	return models.Policy{
		UY:              models.NormalizeLabel(uy),
		Broker:          models.NullableLabel(broker),
		Country:         models.NormalizeLabel(country),
		GrossUWPrem:     premium,
		GrossActualAcq:  acq,
		GrossPaidClaims: paid,
		GrossOSLoss:     os,
	}
}

func newTestService(t *testing.T) *Service {
	t.Helper()

	q1 := testPolicy("2020", "Aon", "Kenya", 1000, 200, 100, 50)
	q1.InceptionQuarter = "Q1"
	may := testPolicy("2020", "Marsh", "Kenya", 500, 50, 600, 0)
	may.InceptionMonth = "May"
	aug := testPolicy("2020", "", "Ghana", 0, 0, 10, 0)
	aug.ComDate = "15 Aug 2020"
	other := testPolicy("2021", "aon", "Ghana", 300, 30, 0, 0)
	other.InceptionQuarter = "2"

	policies := []models.Policy{q1, may, aug, other}
	resolver := period.NewResolver(&common.PeriodConfig{MinYear: 2019, MaxYear: 2021})
	snap := &dataset.Snapshot{
		ID:       "snap_test",
		Policies: policies,
		Indexes:  filter.BuildIndexes(policies, resolver),
	}

	return NewService(&staticSnapshots{snap: snap}, resolver,
		&common.DashboardConfig{DefaultTop: 10, MaxRecords: 3}, arbor.NewLogger())
}

func TestService_Load(t *testing.T) {
	svc := newTestService(t)

	resp, err := svc.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 4, resp.Count)
	assert.Equal(t, "snap_test", resp.SnapshotID)
}

func TestService_LoadPropagatesSourceFailure(t *testing.T) {
	svc := NewService(&staticSnapshots{err: dataset.ErrSourceUnavailable}, nil, &common.DashboardConfig{}, arbor.NewLogger())

	_, err := svc.Load(context.Background())
	assert.ErrorIs(t, err, dataset.ErrSourceUnavailable)
}

func TestService_Status(t *testing.T) {
	svc := newTestService(t)

	meta, err := svc.Status(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "snap_test", meta.SnapshotID)

	failing := NewService(&staticSnapshots{err: dataset.ErrSourceUnavailable}, nil, &common.DashboardConfig{}, arbor.NewLogger())
	_, err = failing.Status(context.Background())
	assert.ErrorIs(t, err, dataset.ErrSourceUnavailable, "status loads through the cache")
}

func TestService_Dimensions(t *testing.T) {
	svc := newTestService(t)

	resp, err := svc.Dimensions(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"Aon", "Marsh"}, resp.Dimensions[models.DimensionBroker])
	assert.Equal(t, []string{"Ghana", "Kenya"}, resp.Dimensions[models.DimensionCountry])
	assert.Equal(t, []int{2019, 2020, 2021}, resp.Years)
}

func TestService_Filtered(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	resp, err := svc.Filtered(ctx, models.FilterRequest{
		Selections: models.Selections{models.DimensionBroker: {"AON"}},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, resp.Total)
	assert.Equal(t, 2, resp.Returned)
	assert.Equal(t, []string{"Ghana", "Kenya"}, resp.Options[models.DimensionCountry])

	capped, err := svc.Filtered(ctx, models.FilterRequest{Limit: 2})
	require.NoError(t, err)
	assert.Equal(t, 4, capped.Total, "total is counted before the cap")
	assert.Equal(t, 2, capped.Returned)

	maxed, err := svc.Filtered(ctx, models.FilterRequest{Limit: 100})
	require.NoError(t, err)
	assert.Equal(t, 3, maxed.Returned, "configured maximum still applies")

	_, err = svc.Filtered(ctx, models.FilterRequest{Limit: -1})
	assert.ErrorIs(t, err, ErrInvalidRequest)

	_, err = svc.Filtered(ctx, models.FilterRequest{Selections: models.Selections{"colour": {"red"}}})
	assert.ErrorIs(t, err, ErrUnknownDimension)
}

func TestService_Periods(t *testing.T) {
	svc := newTestService(t)
	year := 2020

	summary, err := svc.Periods(context.Background(), models.PeriodRequest{
		Granularity: models.GranularityQuarterly,
		Year:        &year,
	})
	require.NoError(t, err)
	require.Len(t, summary.Buckets, 4)
	assert.Equal(t, 1500.0, summary.Total.Premium)
	assert.Equal(t, 760.0, summary.Total.IncurredClaims)
	assert.Equal(t, 50.67, common.RoundFloat(summary.Total.LossRatioPct, 2))

	filtered, err := svc.Periods(context.Background(), models.PeriodRequest{
		Granularity: models.GranularityYearly,
		Selections:  models.Selections{models.DimensionCountry: {"ghana"}},
	})
	require.NoError(t, err)
	require.Len(t, filtered.Buckets, 3)
	assert.Equal(t, 1, filtered.Buckets[1].PolicyCount)
	assert.Equal(t, 300.0, filtered.Buckets[2].Premium)
}

func TestService_PeriodsValidation(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	_, err := svc.Periods(ctx, models.PeriodRequest{Granularity: "weekly"})
	assert.ErrorIs(t, err, ErrInvalidRequest)

	_, err = svc.Periods(ctx, models.PeriodRequest{})
	assert.ErrorIs(t, err, ErrInvalidRequest)

	year := 2030
	_, err = svc.Periods(ctx, models.PeriodRequest{Granularity: models.GranularityMonthly, Year: &year})
	assert.ErrorIs(t, err, ErrInvalidRequest)
}

func TestService_ByDimension(t *testing.T) {
	svc := newTestService(t)

	summary, err := svc.ByDimension(context.Background(), models.DimensionRequest{
		Dimension: "Broker",
		Top:       1,
	})
	require.NoError(t, err)
	require.Len(t, summary.Buckets, 1)
	assert.Equal(t, "Aon", summary.Buckets[0].Label)
	assert.Equal(t, 1300.0, summary.Buckets[0].Premium)
	assert.Equal(t, 1800.0, summary.Total.Premium, "total covers truncated groups")
	assert.Equal(t, 2, summary.GroupCount)
	assert.True(t, summary.Truncated)
	assert.Equal(t, 1, summary.Excluded)
}

func TestService_ByDimensionUnknown(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.ByDimension(context.Background(), models.DimensionRequest{Dimension: "premium"})
	assert.True(t, errors.Is(err, ErrUnknownDimension))

	_, err = svc.ByDimension(context.Background(), models.DimensionRequest{Dimension: "year"})
	assert.ErrorIs(t, err, ErrUnknownDimension)
}
