package interfaces

import (
	"context"
	"time"
)

// JobStatus describes a registered scheduled job
type JobStatus struct {
	Name        string     `json:"name"`
	Schedule    string     `json:"schedule"`
	Description string     `json:"description"`
	LastRun     *time.Time `json:"last_run,omitempty"`
	NextRun     *time.Time `json:"next_run,omitempty"`
	IsRunning   bool       `json:"is_running"`
	LastError   string     `json:"last_error,omitempty"`
}

// JobHandler is the work of a scheduled job
type JobHandler func(ctx context.Context) error

// SchedulerService runs background jobs on cron schedules
type SchedulerService interface {
	// RegisterJob adds a job; it runs once Start has been called
	RegisterJob(name, schedule, description string, handler JobHandler) error

	// TriggerJob runs a job immediately, outside its schedule
	TriggerJob(name string) error

	// GetJobStatus returns the status of one job
	GetJobStatus(name string) (*JobStatus, error)

	// GetAllJobStatuses returns every job's status keyed by name
	GetAllJobStatuses() map[string]*JobStatus

	Start() error
	Stop() error
	IsRunning() bool
}
