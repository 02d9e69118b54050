package dataset

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/ternarybob/arbor"

	"github.com/ternarybob/treatyview/internal/common"
	"github.com/ternarybob/treatyview/internal/interfaces"
	"github.com/ternarybob/treatyview/internal/models"
	"github.com/ternarybob/treatyview/internal/services/filter"
	"github.com/ternarybob/treatyview/internal/services/ingest"
	"github.com/ternarybob/treatyview/internal/services/period"
)

// ErrSourceUnavailable is returned when the source cannot be read and no
// snapshot may be served in its place
var ErrSourceUnavailable = errors.New("policy source unavailable")

// Cache holds the current snapshot and replaces it when the source version
// changes. The snapshot pointer is swapped atomically, so a reader sees
// either the old or the new snapshot in full.
type Cache struct {
	source   interfaces.DatasetSource
	loader   *ingest.Loader
	resolver *period.Resolver
	runs     interfaces.IngestRunStorage // optional
	events   interfaces.EventService     // optional
	logger   arbor.ILogger
	now      func() time.Time

	current atomic.Pointer[Snapshot]
	reload  sync.Mutex
}

// Option customises a Cache
type Option func(*Cache)

// WithClock replaces time.Now
func WithClock(now func() time.Time) Option {
	return func(c *Cache) {
		c.now = now
	}
}

// WithRunStorage records every load in storage
func WithRunStorage(runs interfaces.IngestRunStorage) Option {
	return func(c *Cache) {
		c.runs = runs
	}
}

// WithEvents publishes reload events
func WithEvents(events interfaces.EventService) Option {
	return func(c *Cache) {
		c.events = events
	}
}

// NewCache creates an empty cache; the first Get loads the source
func NewCache(source interfaces.DatasetSource, loader *ingest.Loader, resolver *period.Resolver, logger arbor.ILogger, opts ...Option) *Cache {
	c := &Cache{
		source:   source,
		loader:   loader,
		resolver: resolver,
		logger:   logger,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Current returns the published snapshot without a freshness check, nil
// before the first load
func (c *Cache) Current() *Snapshot {
	return c.current.Load()
}

// Get returns a fresh snapshot, reloading when the source version changed.
// When only the version check fails the previous snapshot keeps serving.
// A failed read never replaces a snapshot.
func (c *Cache) Get(ctx context.Context) (*Snapshot, error) {
	version, err := c.source.Version(ctx)
	if err != nil {
		if snap := c.current.Load(); snap != nil {
			c.logger.Warn().Err(err).Str("source", c.source.Name()).Msg("Freshness check failed, serving previous snapshot")
			return snap, nil
		}
		return nil, c.fail(ctx, version, fmt.Errorf("%w: %v", ErrSourceUnavailable, err))
	}

	if snap := c.current.Load(); snap != nil && snap.SourceVersion.Equal(version) {
		return snap, nil
	}

	c.reload.Lock()
	defer c.reload.Unlock()

	// Another caller may have reloaded while we waited
	if snap := c.current.Load(); snap != nil && snap.SourceVersion.Equal(version) {
		return snap, nil
	}

	return c.load(ctx, version)
}

// Reload re-reads the source regardless of its version
func (c *Cache) Reload(ctx context.Context) (*Snapshot, error) {
	c.reload.Lock()
	defer c.reload.Unlock()

	version, err := c.source.Version(ctx)
	if err != nil {
		return nil, c.fail(ctx, version, fmt.Errorf("%w: %v", ErrSourceUnavailable, err))
	}
	return c.load(ctx, version)
}

// load must be called with the reload lock held
func (c *Cache) load(ctx context.Context, version time.Time) (*Snapshot, error) {
	started := c.now()

	rc, err := c.source.Open(ctx)
	if err != nil {
		return nil, c.fail(ctx, version, fmt.Errorf("%w: %v", ErrSourceUnavailable, err))
	}
	defer rc.Close()

	result, err := c.loader.Load(ctx, rc)
	if err != nil {
		return nil, c.fail(ctx, version, fmt.Errorf("%w: %w", ErrSourceUnavailable, err))
	}

	snap := &Snapshot{
		ID:            common.NewSnapshotID(),
		Policies:      result.Policies,
		Indexes:       filter.BuildIndexes(result.Policies, c.resolver),
		Source:        c.source.Name(),
		SourceVersion: version,
		LoadedAt:      c.now(),
		Stats:         result.Stats,
	}
	c.current.Store(snap)

	c.logger.Info().
		Str("snapshot_id", snap.ID).
		Str("source", snap.Source).
		Int("records", snap.Stats.RecordsLoaded).
		Int("skipped", snap.Stats.RowsSkipped).
		Int("rejected", snap.Stats.RecordsRejected).
		Int("date_cache_entries", c.resolver.Dates().CacheSize()).
		Msg("Policy dataset loaded")

	c.recordRun(ctx, &models.IngestRun{
		ID:              common.NewRunID(),
		SnapshotID:      snap.ID,
		Source:          snap.Source,
		SourceVersion:   version,
		LoadedAt:        snap.LoadedAt,
		RowsRead:        result.Stats.RowsRead,
		RowsSkipped:     result.Stats.RowsSkipped,
		RecordsRejected: result.Stats.RecordsRejected,
		RecordsLoaded:   result.Stats.RecordsLoaded,
		DurationMs:      snap.LoadedAt.Sub(started).Milliseconds(),
		Status:          models.IngestStatusSuccess,
	})

	c.publish(ctx, interfaces.EventDatasetReloaded, models.DatasetEvent{
		SnapshotID:    snap.ID,
		Source:        snap.Source,
		SourceVersion: version,
		LoadedAt:      snap.LoadedAt,
		RecordsLoaded: snap.Stats.RecordsLoaded,
	})

	return snap, nil
}

// fail records a failed load and returns err unchanged
func (c *Cache) fail(ctx context.Context, version time.Time, err error) error {
	c.logger.Error().Err(err).Str("source", c.source.Name()).Msg("Failed to load policy dataset")

	now := c.now()
	c.recordRun(ctx, &models.IngestRun{
		ID:            common.NewRunID(),
		Source:        c.source.Name(),
		SourceVersion: version,
		LoadedAt:      now,
		Status:        models.IngestStatusFailed,
		Error:         err.Error(),
	})

	c.publish(ctx, interfaces.EventDatasetReloadFailed, models.DatasetEvent{
		Source:        c.source.Name(),
		SourceVersion: version,
		LoadedAt:      now,
		Error:         err.Error(),
	})

	return err
}

func (c *Cache) recordRun(ctx context.Context, run *models.IngestRun) {
	if c.runs == nil {
		return
	}
	if err := c.runs.SaveRun(ctx, run); err != nil {
		c.logger.Warn().Err(err).Str("run_id", run.ID).Msg("Failed to record ingest run")
	}
}

func (c *Cache) publish(ctx context.Context, eventType interfaces.EventType, payload models.DatasetEvent) {
	if c.events == nil {
		return
	}
	event := interfaces.Event{Type: eventType, Payload: payload}
	if err := c.events.Publish(context.WithoutCancel(ctx), event); err != nil {
		c.logger.Warn().Err(err).Str("event_type", string(eventType)).Msg("Failed to publish dataset event")
	}
}
