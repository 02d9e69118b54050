package dashboard

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/ternarybob/arbor"

	"github.com/ternarybob/treatyview/internal/common"
	"github.com/ternarybob/treatyview/internal/models"
	"github.com/ternarybob/treatyview/internal/services/aggregate"
	"github.com/ternarybob/treatyview/internal/services/dataset"
	"github.com/ternarybob/treatyview/internal/services/filter"
	"github.com/ternarybob/treatyview/internal/services/period"
)

var (
	// ErrInvalidRequest wraps request validation failures
	ErrInvalidRequest = errors.New("invalid request")
	// ErrUnknownDimension is returned for dimension names that do not exist
	ErrUnknownDimension = filter.ErrUnknownDimension
)

// SnapshotProvider returns the current dataset snapshot
type SnapshotProvider interface {
	Get(ctx context.Context) (*dataset.Snapshot, error)
}

// Service answers dashboard queries against the cached snapshot. Every call
// is a pure function of one snapshot, so concurrent calls need no locking.
type Service struct {
	snapshots SnapshotProvider
	resolver  *period.Resolver
	config    *common.DashboardConfig
	validate  *validator.Validate
	logger    arbor.ILogger
}

// NewService creates a dashboard service
func NewService(snapshots SnapshotProvider, resolver *period.Resolver, config *common.DashboardConfig, logger arbor.ILogger) *Service {
	return &Service{
		snapshots: snapshots,
		resolver:  resolver,
		config:    config,
		validate:  validator.New(),
		logger:    logger,
	}
}

// LoadResponse is the full canonical dataset
type LoadResponse struct {
	dataset.Meta
	Count    int             `json:"count"`
	Policies []models.Policy `json:"policies"`
}

// DimensionsResponse lists every dimension's values in the full dataset
type DimensionsResponse struct {
	Dimensions map[models.Dimension][]string `json:"dimensions"`
	Years      []int                         `json:"years"`
}

// FilteredResponse is the result of a filtered data request
type FilteredResponse struct {
	Total    int                           `json:"total"`    // Matches before the cap
	Returned int                           `json:"returned"` // len(Policies)
	Policies []models.Policy               `json:"policies"`
	Options  map[models.Dimension][]string `json:"options"`
}

// Load returns every canonical policy with the snapshot's freshness stamp
func (s *Service) Load(ctx context.Context) (*LoadResponse, error) {
	snap, err := s.snapshots.Get(ctx)
	if err != nil {
		return nil, err
	}
	return &LoadResponse{
		Meta:     snap.Meta(),
		Count:    len(snap.Policies),
		Policies: snap.Policies,
	}, nil
}

// Dimensions returns the sorted distinct display values per dimension and
// the valid years
func (s *Service) Dimensions(ctx context.Context) (*DimensionsResponse, error) {
	snap, err := s.snapshots.Get(ctx)
	if err != nil {
		return nil, err
	}
	return &DimensionsResponse{
		Dimensions: filter.Values(snap.Indexes),
		Years:      s.resolver.Years(),
	}, nil
}

// Filtered returns matching policies in dataset order, capped at the request
// limit (or the configured maximum), with the dependent filter options
func (s *Service) Filtered(ctx context.Context, req models.FilterRequest) (*FilteredResponse, error) {
	if err := s.validateRequest(req); err != nil {
		return nil, err
	}

	snap, err := s.snapshots.Get(ctx)
	if err != nil {
		return nil, err
	}

	matched, err := filter.Apply(snap.Policies, snap.Indexes, req.Selections)
	if err != nil {
		return nil, err
	}
	options, err := filter.Options(snap.Indexes, req.Selections)
	if err != nil {
		return nil, err
	}

	limit := s.config.MaxRecords
	if req.Limit > 0 && req.Limit < limit {
		limit = req.Limit
	}

	total := len(matched)
	if len(matched) > limit {
		matched = matched[:limit]
	}

	return &FilteredResponse{
		Total:    total,
		Returned: len(matched),
		Policies: matched,
		Options:  options,
	}, nil
}

// Periods returns a complete period grid for the filtered policies
func (s *Service) Periods(ctx context.Context, req models.PeriodRequest) (*models.PeriodSummary, error) {
	if err := s.validateRequest(req); err != nil {
		return nil, err
	}

	records, err := s.filtered(ctx, req.Selections)
	if err != nil {
		return nil, err
	}

	summary, err := aggregate.ByPeriod(records, s.resolver, aggregate.PeriodQuery{
		Granularity: req.Granularity,
		Year:        req.Year,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidRequest, err)
	}
	return &summary, nil
}

// ByDimension returns the premium-ordered breakdown of the filtered policies
func (s *Service) ByDimension(ctx context.Context, req models.DimensionRequest) (*models.DimensionSummary, error) {
	d, ok := models.ParseDimension(string(req.Dimension))
	if !ok || !d.IsField() {
		return nil, fmt.Errorf("%w: %q", ErrUnknownDimension, req.Dimension)
	}
	req.Dimension = d

	if req.Top == 0 {
		req.Top = s.config.DefaultTop
	}
	if err := s.validateRequest(req); err != nil {
		return nil, err
	}

	records, err := s.filtered(ctx, req.Selections)
	if err != nil {
		return nil, err
	}

	summary, err := aggregate.ByDimension(records, d, req.Top)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidRequest, err)
	}
	return &summary, nil
}

// Status describes the current snapshot, loading or refreshing it first when
// the source is missing from memory or stale
func (s *Service) Status(ctx context.Context) (*dataset.Meta, error) {
	snap, err := s.snapshots.Get(ctx)
	if err != nil {
		return nil, err
	}
	meta := snap.Meta()
	return &meta, nil
}

func (s *Service) filtered(ctx context.Context, selections models.Selections) ([]models.Policy, error) {
	snap, err := s.snapshots.Get(ctx)
	if err != nil {
		return nil, err
	}
	if selections.IsEmpty() {
		if err := snap.Indexes.Validate(selections); err != nil {
			return nil, err
		}
		return snap.Policies, nil
	}
	return filter.Apply(snap.Policies, snap.Indexes, selections)
}

func (s *Service) validateRequest(req interface{}) error {
	if err := s.validate.Struct(req); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}
	return nil
}
