package interfaces

import (
	"context"
	"io"
	"time"
)

// DatasetSource is the backing store of the policy CSV. Version is the
// freshness stamp (last-modified time for files); a changed version triggers
// a full reload.
type DatasetSource interface {
	// Name identifies the source in logs and ingest runs
	Name() string

	// Version returns the current freshness stamp without reading the data
	Version(ctx context.Context) (time.Time, error)

	// Open returns the full source content
	Open(ctx context.Context) (io.ReadCloser, error)
}
