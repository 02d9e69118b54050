package badger

import (
	"github.com/ternarybob/arbor"

	"github.com/ternarybob/treatyview/internal/common"
	"github.com/ternarybob/treatyview/internal/interfaces"
)

// Manager implements the StorageManager interface for Badger
type Manager struct {
	db         *BadgerDB
	ingestRuns interfaces.IngestRunStorage
	logger     arbor.ILogger
}

// NewManager creates a new Badger storage manager
func NewManager(logger arbor.ILogger, config *common.BadgerConfig) (interfaces.StorageManager, error) {
	db, err := NewBadgerDB(logger, config)
	if err != nil {
		return nil, err
	}

	manager := &Manager{
		db:         db,
		ingestRuns: NewIngestRunStorage(db, logger),
		logger:     logger,
	}

	logger.Debug().Msg("Badger storage manager initialized")

	return manager, nil
}

// IngestRunStorage returns the ingest run storage interface
func (m *Manager) IngestRunStorage() interfaces.IngestRunStorage {
	return m.ingestRuns
}

// Close closes the database
func (m *Manager) Close() error {
	return m.db.Close()
}
