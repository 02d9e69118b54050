package app

import (
	"context"
	"fmt"
	"time"

	"github.com/ternarybob/arbor"

	"github.com/ternarybob/treatyview/internal/common"
	"github.com/ternarybob/treatyview/internal/handlers"
	"github.com/ternarybob/treatyview/internal/interfaces"
	"github.com/ternarybob/treatyview/internal/services/dashboard"
	"github.com/ternarybob/treatyview/internal/services/dataset"
	"github.com/ternarybob/treatyview/internal/services/events"
	"github.com/ternarybob/treatyview/internal/services/ingest"
	"github.com/ternarybob/treatyview/internal/services/period"
	"github.com/ternarybob/treatyview/internal/services/scheduler"
	"github.com/ternarybob/treatyview/internal/storage/badger"
)

const (
	// RefreshJobName is the scheduled job that re-checks the source
	RefreshJobName = "refresh_dataset"

	jobTimeout     = 5 * time.Minute
	startupTimeout = 2 * time.Minute
)

// App holds all application components and dependencies
type App struct {
	Config         *common.Config
	Logger         arbor.ILogger
	StorageManager interfaces.StorageManager

	// Event-driven services
	EventService     interfaces.EventService
	SchedulerService interfaces.SchedulerService

	// Policy pipeline
	Resolver         *period.Resolver
	DatasetCache     *dataset.Cache
	DashboardService *dashboard.Service

	// HTTP handlers
	APIHandler       *handlers.APIHandler
	DashboardHandler *handlers.DashboardHandler
	DatasetHandler   *handlers.DatasetHandler
	ExportHandler    *handlers.ExportHandler
	WSHandler        *handlers.WebSocketHandler
}

// New initializes the application with all dependencies
func New(cfg *common.Config, logger arbor.ILogger) (*App, error) {
	app := &App{
		Config: cfg,
		Logger: logger,
	}

	// Initialize database
	if err := app.initDatabase(); err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	// EventService must exist before the cache publishes and the websocket subscribes
	app.EventService = events.NewService(app.Logger)
	if err := events.SubscribeLoggerToAllEvents(app.EventService, app.Logger); err != nil {
		app.closeOnError()
		return nil, fmt.Errorf("failed to subscribe event logger: %w", err)
	}

	if err := app.initServices(); err != nil {
		app.closeOnError()
		return nil, fmt.Errorf("failed to initialize services: %w", err)
	}

	app.SchedulerService = scheduler.NewService(app.Logger, jobTimeout)
	app.initHandlers()

	if err := app.initScheduler(); err != nil {
		app.closeOnError()
		return nil, fmt.Errorf("failed to initialize scheduler: %w", err)
	}

	app.warmCache()

	return app, nil
}

// closeOnError releases whatever New opened before failing
func (a *App) closeOnError() {
	if err := a.Close(); err != nil {
		a.Logger.Warn().Err(err).Msg("Failed to release resources after init error")
	}
}

// initDatabase opens the badger store holding ingest history
func (a *App) initDatabase() error {
	storageManager, err := badger.NewManager(a.Logger, &a.Config.Storage.Badger)
	if err != nil {
		return err
	}
	a.StorageManager = storageManager

	a.Logger.Debug().
		Str("path", a.Config.Storage.Badger.Path).
		Bool("in_memory", a.Config.Storage.Badger.InMemory).
		Msg("Storage initialized")
	return nil
}

// initServices builds the ingest, period and dashboard pipeline
func (a *App) initServices() error {
	if a.Config.Source.Path == "" {
		return fmt.Errorf("source path is required")
	}

	a.Resolver = period.NewResolver(&a.Config.Period)

	a.DatasetCache = dataset.NewCache(
		dataset.NewFileSource(a.Config.Source.Path),
		ingest.NewLoader(&a.Config.Source, a.Logger),
		a.Resolver,
		a.Logger,
		dataset.WithRunStorage(a.StorageManager.IngestRunStorage()),
		dataset.WithEvents(a.EventService),
	)

	a.DashboardService = dashboard.NewService(a.DatasetCache, a.Resolver, &a.Config.Dashboard, a.Logger)

	a.Logger.Debug().
		Str("source", a.Config.Source.Path).
		Str("encoding", a.Config.Source.Encoding).
		Int("min_year", a.Config.Period.MinYear).
		Int("max_year", a.Config.Period.MaxYear).
		Msg("Policy pipeline initialized")
	return nil
}

// initHandlers creates the HTTP handlers
func (a *App) initHandlers() {
	a.APIHandler = handlers.NewAPIHandler(a.DatasetCache, a.Logger)
	a.DashboardHandler = handlers.NewDashboardHandler(a.DashboardService, a.Logger)
	a.ExportHandler = handlers.NewExportHandler(a.DashboardService, a.Logger)
	a.DatasetHandler = handlers.NewDatasetHandler(
		a.DashboardService,
		a.DatasetCache,
		a.StorageManager.IngestRunStorage(),
		a.SchedulerService,
		a.Logger,
	)
	a.WSHandler = handlers.NewWebSocketHandler(a.EventService, a.Logger, &a.Config.WebSocket)
}

// initScheduler registers the refresh job when enabled
func (a *App) initScheduler() error {
	if !a.Config.Refresh.Enabled {
		a.Logger.Debug().Msg("Background refresh disabled")
		return nil
	}

	err := a.SchedulerService.RegisterJob(
		RefreshJobName,
		a.Config.Refresh.Schedule,
		"Re-read the policy source when it changed and prune ingest history",
		a.RefreshDataset,
	)
	if err != nil {
		return err
	}

	return a.SchedulerService.Start()
}

// RefreshDataset reloads the snapshot if the source changed, then prunes
// old ingest runs
func (a *App) RefreshDataset(ctx context.Context) error {
	if _, err := a.DatasetCache.Get(ctx); err != nil {
		return fmt.Errorf("refresh failed: %w", err)
	}

	removed, err := a.StorageManager.IngestRunStorage().PruneRuns(ctx, a.Config.Storage.Badger.KeepRuns)
	if err != nil {
		return fmt.Errorf("prune ingest runs: %w", err)
	}
	if removed > 0 {
		a.Logger.Debug().Int("removed", removed).Msg("Pruned ingest runs")
	}
	return nil
}

// warmCache loads the first snapshot. A missing source is not fatal; requests
// report it until the file appears.
func (a *App) warmCache() {
	ctx, cancel := context.WithTimeout(context.Background(), startupTimeout)
	defer cancel()

	snap, err := a.DatasetCache.Get(ctx)
	if err != nil {
		a.Logger.Warn().
			Err(err).
			Str("source", a.Config.Source.Path).
			Msg("Initial dataset load failed")
		return
	}

	a.Logger.Debug().
		Str("snapshot_id", snap.ID).
		Int("records", len(snap.Policies)).
		Msg("Dataset cache warmed")
}

// Close stops background work and releases storage
func (a *App) Close() error {
	if a.SchedulerService != nil {
		if err := a.SchedulerService.Stop(); err != nil {
			a.Logger.Warn().Err(err).Msg("Failed to stop scheduler")
		}
	}

	if a.WSHandler != nil {
		a.WSHandler.Close()
	}

	if a.EventService != nil {
		if err := a.EventService.Close(); err != nil {
			a.Logger.Warn().Err(err).Msg("Failed to close event service")
		}
	}

	if a.StorageManager != nil {
		if err := a.StorageManager.Close(); err != nil {
			return fmt.Errorf("failed to close storage: %w", err)
		}
	}

	a.Logger.Info().Msg("Application closed")
	return nil
}
