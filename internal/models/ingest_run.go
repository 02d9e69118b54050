package models

import "time"

// IngestRun records one load of the policy source
type IngestRun struct {
	ID              string    `json:"id"` // run_{uuid}
	SnapshotID      string    `json:"snapshot_id,omitempty"`
	Source          string    `json:"source"`
	SourceVersion   time.Time `json:"source_version"`
	LoadedAt        time.Time `json:"loaded_at"`
	RowsRead        int       `json:"rows_read"`
	RowsSkipped     int       `json:"rows_skipped"`
	RecordsRejected int       `json:"records_rejected"`
	RecordsLoaded   int       `json:"records_loaded"`
	DurationMs      int64     `json:"duration_ms"`
	Status          string    `json:"status" badgerhold:"index"` // "success" or "failed"
	Error           string    `json:"error,omitempty"`
}

const (
	IngestStatusSuccess = "success"
	IngestStatusFailed  = "failed"
)
