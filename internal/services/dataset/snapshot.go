package dataset

import (
	"time"

	"github.com/ternarybob/treatyview/internal/models"
	"github.com/ternarybob/treatyview/internal/services/filter"
	"github.com/ternarybob/treatyview/internal/services/ingest"
)

// Snapshot is one fully parsed, indexed version of the dataset. It is never
// modified after publication; readers share it without locking.
type Snapshot struct {
	ID            string
	Policies      []models.Policy
	Indexes       *filter.Indexes
	Source        string
	SourceVersion time.Time
	LoadedAt      time.Time
	Stats         ingest.Stats
}

// Meta is the JSON-friendly description of a snapshot
type Meta struct {
	SnapshotID    string       `json:"snapshot_id"`
	Source        string       `json:"source"`
	SourceVersion time.Time    `json:"source_version"`
	LoadedAt      time.Time    `json:"loaded_at"`
	Stats         ingest.Stats `json:"stats"`
}

// Meta returns the snapshot description
func (s *Snapshot) Meta() Meta {
	return Meta{
		SnapshotID:    s.ID,
		Source:        s.Source,
		SourceVersion: s.SourceVersion,
		LoadedAt:      s.LoadedAt,
		Stats:         s.Stats,
	}
}
