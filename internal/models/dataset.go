package models

import "time"

// DatasetEvent is the payload of dataset reload events
type DatasetEvent struct {
	SnapshotID    string    `json:"snapshot_id,omitempty"`
	Source        string    `json:"source"`
	SourceVersion time.Time `json:"source_version"`
	LoadedAt      time.Time `json:"loaded_at"`
	RecordsLoaded int       `json:"records_loaded"`
	Error         string    `json:"error,omitempty"`
}
