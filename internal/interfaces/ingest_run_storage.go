package interfaces

import (
	"context"
	"errors"

	"github.com/ternarybob/treatyview/internal/models"
)

// ErrRunNotFound is returned when an ingest run does not exist
var ErrRunNotFound = errors.New("ingest run not found")

// IngestRunStorage keeps the history of dataset loads
type IngestRunStorage interface {
	// SaveRun inserts or replaces a run
	SaveRun(ctx context.Context, run *models.IngestRun) error

	// GetRun returns a run by ID
	GetRun(ctx context.Context, id string) (*models.IngestRun, error)

	// ListRuns returns the most recent runs first, at most limit (0 = all)
	ListRuns(ctx context.Context, limit int) ([]*models.IngestRun, error)

	// PruneRuns deletes all but the newest keep runs and returns how many were removed
	PruneRuns(ctx context.Context, keep int) (int, error)
}
