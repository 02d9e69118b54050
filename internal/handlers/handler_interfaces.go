package handlers

import (
	"context"

	"github.com/ternarybob/treatyview/internal/models"
	"github.com/ternarybob/treatyview/internal/services/dashboard"
	"github.com/ternarybob/treatyview/internal/services/dataset"
)

// DashboardService defines the read operations behind the dashboard API.
type DashboardService interface {
	Load(ctx context.Context) (*dashboard.LoadResponse, error)
	Dimensions(ctx context.Context) (*dashboard.DimensionsResponse, error)
	Filtered(ctx context.Context, req models.FilterRequest) (*dashboard.FilteredResponse, error)
	Periods(ctx context.Context, req models.PeriodRequest) (*models.PeriodSummary, error)
	ByDimension(ctx context.Context, req models.DimensionRequest) (*models.DimensionSummary, error)
	Status(ctx context.Context) (*dataset.Meta, error)
}

// DatasetReloader defines the interface for forcing a re-read of the policy source.
type DatasetReloader interface {
	Reload(ctx context.Context) (*dataset.Snapshot, error)
}
