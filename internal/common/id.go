package common

import (
	"github.com/google/uuid"
)

// NewSnapshotID generates a unique dataset snapshot ID with the "snap_" prefix
// Format: snap_<uuid>
func NewSnapshotID() string {
	return "snap_" + uuid.New().String()
}

// NewRunID generates a unique ingest run ID with the "run_" prefix
func NewRunID() string {
	return "run_" + uuid.New().String()
}
