package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/ternarybob/arbor"

	"github.com/ternarybob/treatyview/internal/common"
	"github.com/ternarybob/treatyview/internal/interfaces"
)

// jobEntry represents a registered job with metadata
type jobEntry struct {
	name        string
	schedule    string
	description string
	handler     interfaces.JobHandler
	cronID      cron.EntryID
	lastRun     *time.Time
	isRunning   bool
	lastError   string
}

// Service implements SchedulerService interface
type Service struct {
	cron     *cron.Cron
	logger   arbor.ILogger
	timeout  time.Duration
	jobMu    sync.Mutex // Protects jobs map and entries
	globalMu sync.Mutex // Prevents concurrent job execution
	jobs     map[string]*jobEntry
	running  bool
}

// NewService creates a new scheduler service. Each job run is bounded by timeout.
func NewService(logger arbor.ILogger, timeout time.Duration) interfaces.SchedulerService {
	return &Service{
		cron:    cron.New(),
		logger:  logger,
		timeout: timeout,
		jobs:    make(map[string]*jobEntry),
	}
}

// RegisterJob validates the schedule and adds the job to cron
func (s *Service) RegisterJob(name, schedule, description string, handler interfaces.JobHandler) error {
	if handler == nil {
		return fmt.Errorf("job %s has no handler", name)
	}
	if err := common.ValidateSchedule(schedule); err != nil {
		return fmt.Errorf("invalid schedule: %w", err)
	}

	s.jobMu.Lock()
	defer s.jobMu.Unlock()

	if _, exists := s.jobs[name]; exists {
		return fmt.Errorf("job %s already registered", name)
	}

	cronID, err := s.cron.AddFunc(schedule, func() {
		s.executeJob(name)
	})
	if err != nil {
		return fmt.Errorf("failed to add job to cron: %w", err)
	}

	s.jobs[name] = &jobEntry{
		name:        name,
		schedule:    schedule,
		description: description,
		handler:     handler,
		cronID:      cronID,
	}

	s.logger.Info().
		Str("job_name", name).
		Str("schedule", schedule).
		Msg("Job registered")

	return nil
}

// Start starts the cron scheduler
func (s *Service) Start() error {
	s.jobMu.Lock()
	defer s.jobMu.Unlock()

	if s.running {
		return fmt.Errorf("scheduler already running")
	}
	s.cron.Start()
	s.running = true

	s.logger.Debug().Int("jobs", len(s.jobs)).Msg("Scheduler started")
	return nil
}

// Stop stops the scheduler and waits for a running job to finish
func (s *Service) Stop() error {
	s.jobMu.Lock()
	if !s.running {
		s.jobMu.Unlock()
		return nil
	}
	s.running = false
	s.jobMu.Unlock()

	<-s.cron.Stop().Done()
	s.logger.Debug().Msg("Scheduler stopped")
	return nil
}

// IsRunning reports whether Start has been called without Stop
func (s *Service) IsRunning() bool {
	s.jobMu.Lock()
	defer s.jobMu.Unlock()
	return s.running
}

// TriggerJob runs a job now in the background
func (s *Service) TriggerJob(name string) error {
	s.jobMu.Lock()
	_, exists := s.jobs[name]
	s.jobMu.Unlock()

	if !exists {
		return fmt.Errorf("job %s not found", name)
	}

	common.SafeGo(s.logger, "job:"+name, func() {
		s.executeJob(name)
	})
	return nil
}

// GetJobStatus returns the status of a job
func (s *Service) GetJobStatus(name string) (*interfaces.JobStatus, error) {
	s.jobMu.Lock()
	defer s.jobMu.Unlock()

	entry, exists := s.jobs[name]
	if !exists {
		return nil, fmt.Errorf("job %s not found", name)
	}

	var nextRun *time.Time
	if s.running {
		next := s.cron.Entry(entry.cronID).Next
		if !next.IsZero() {
			nextRun = &next
		}
	}

	return &interfaces.JobStatus{
		Name:        entry.name,
		Schedule:    entry.schedule,
		Description: entry.description,
		LastRun:     entry.lastRun,
		NextRun:     nextRun,
		IsRunning:   entry.isRunning,
		LastError:   entry.lastError,
	}, nil
}

// GetAllJobStatuses returns all job statuses
func (s *Service) GetAllJobStatuses() map[string]*interfaces.JobStatus {
	s.jobMu.Lock()
	names := make([]string, 0, len(s.jobs))
	for name := range s.jobs {
		names = append(names, name)
	}
	s.jobMu.Unlock()

	statuses := make(map[string]*interfaces.JobStatus, len(names))
	for _, name := range names {
		if status, err := s.GetJobStatus(name); err == nil {
			statuses[name] = status
		}
	}
	return statuses
}

// executeJob runs one job with panic recovery and status tracking
func (s *Service) executeJob(name string) {
	s.globalMu.Lock()
	defer s.globalMu.Unlock()

	s.jobMu.Lock()
	entry, exists := s.jobs[name]
	if !exists {
		s.jobMu.Unlock()
		s.logger.Warn().Str("job_name", name).Msg("Job not found")
		return
	}
	entry.isRunning = true
	handler := entry.handler
	s.jobMu.Unlock()

	started := time.Now()
	err := s.run(name, handler)
	finished := time.Now()

	s.jobMu.Lock()
	entry.isRunning = false
	entry.lastRun = &finished
	if err != nil {
		entry.lastError = err.Error()
	} else {
		entry.lastError = ""
	}
	s.jobMu.Unlock()

	if err != nil {
		s.logger.Error().
			Str("job_name", name).
			Err(err).
			Dur("duration", finished.Sub(started)).
			Msg("Job execution failed")
		return
	}

	s.logger.Debug().
		Str("job_name", name).
		Dur("duration", finished.Sub(started)).
		Msg("Job execution completed")
}

// run calls handler, turning a panic into an error
func (s *Service) run(name string, handler interfaces.JobHandler) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic in job %s: %v", name, r)
		}
	}()

	ctx := context.Background()
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}
	return handler(ctx)
}
