package badger

import (
	"context"
	"errors"
	"fmt"

	"github.com/ternarybob/arbor"
	"github.com/timshannon/badgerhold/v4"

	"github.com/ternarybob/treatyview/internal/interfaces"
	"github.com/ternarybob/treatyview/internal/models"
)

// IngestRunStorage implements the IngestRunStorage interface for Badger
type IngestRunStorage struct {
	db     *BadgerDB
	logger arbor.ILogger
}

// NewIngestRunStorage creates a new IngestRunStorage instance
func NewIngestRunStorage(db *BadgerDB, logger arbor.ILogger) interfaces.IngestRunStorage {
	return &IngestRunStorage{
		db:     db,
		logger: logger,
	}
}

// SaveRun inserts or replaces a run keyed by its ID
func (s *IngestRunStorage) SaveRun(ctx context.Context, run *models.IngestRun) error {
	if run.ID == "" {
		return fmt.Errorf("ingest run ID is required")
	}
	if err := s.db.Store().Upsert(run.ID, run); err != nil {
		return fmt.Errorf("failed to save ingest run: %w", err)
	}
	return nil
}

// GetRun returns a run by ID
func (s *IngestRunStorage) GetRun(ctx context.Context, id string) (*models.IngestRun, error) {
	var run models.IngestRun
	err := s.db.Store().Get(id, &run)
	if errors.Is(err, badgerhold.ErrNotFound) {
		return nil, interfaces.ErrRunNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get ingest run: %w", err)
	}
	return &run, nil
}

// ListRuns returns runs newest first
func (s *IngestRunStorage) ListRuns(ctx context.Context, limit int) ([]*models.IngestRun, error) {
	query := (&badgerhold.Query{}).SortBy("LoadedAt").Reverse()
	if limit > 0 {
		query = query.Limit(limit)
	}

	var runs []models.IngestRun
	if err := s.db.Store().Find(&runs, query); err != nil {
		return nil, fmt.Errorf("failed to list ingest runs: %w", err)
	}

	result := make([]*models.IngestRun, len(runs))
	for i := range runs {
		result[i] = &runs[i]
	}
	return result, nil
}

// PruneRuns keeps the newest keep runs
func (s *IngestRunStorage) PruneRuns(ctx context.Context, keep int) (int, error) {
	runs, err := s.ListRuns(ctx, 0)
	if err != nil {
		return 0, err
	}
	if keep < 0 || len(runs) <= keep {
		return 0, nil
	}

	removed := 0
	for _, run := range runs[keep:] {
		if err := s.db.Store().Delete(run.ID, &models.IngestRun{}); err != nil {
			if errors.Is(err, badgerhold.ErrNotFound) {
				continue
			}
			return removed, fmt.Errorf("failed to delete ingest run %s: %w", run.ID, err)
		}
		removed++
	}

	if removed > 0 {
		s.logger.Debug().Int("removed", removed).Int("kept", keep).Msg("Pruned ingest run history")
	}
	return removed, nil
}
