package app

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"moodtrack/internal/domain"
	"moodtrack/internal/logging"
)

// Ingest work parameters.
const (
	IngestWorkName       = "location-ingest"
	IngestPeriod         = 15 * time.Minute
	IngestInitialBackoff = 30 * time.Second
	IngestMaxBackoff     = 5 * time.Hour
)

// JobController enqueues and cancels the periodic ingest job.
type JobController struct {
	jobs   domain.JobScheduler
	worker domain.Worker
	log    *zap.Logger
}

// NewJobController creates a controller that schedules worker as the ingest job.
func NewJobController(jobs domain.JobScheduler, worker domain.Worker, log *zap.Logger) *JobController {
	return &JobController{jobs: jobs, worker: worker, log: logging.OrNop(log)}
}

// IngestWork returns the unique periodic work description for worker.
func IngestWork(worker domain.Worker) domain.PeriodicWork {
	return domain.PeriodicWork{
		Name:   IngestWorkName,
		Policy: domain.KeepExisting,
		Period: IngestPeriod,
		Constraints: domain.Constraints{
			BatteryNotLow:    true,
			NetworkConnected: true,
		},
		Backoff: domain.Backoff{Initial: IngestInitialBackoff, Max: IngestMaxBackoff},
		Worker:  worker,
	}
}

// Enable schedules the ingest job. Enabling twice leaves one job.
func (c *JobController) Enable(ctx context.Context) error {
	if err := c.jobs.EnqueueUniquePeriodic(ctx, IngestWork(c.worker)); err != nil {
		return fmt.Errorf("enqueue %s: %w", IngestWorkName, err)
	}
	c.log.Info("background ingest enabled")
	return nil
}

// Disable cancels the ingest job. It is safe to call when nothing is scheduled.
func (c *JobController) Disable(ctx context.Context) error {
	if err := c.jobs.CancelUnique(ctx, IngestWorkName); err != nil {
		return fmt.Errorf("cancel %s: %w", IngestWorkName, err)
	}
	c.log.Info("background ingest disabled")
	return nil
}

// Apply enables or disables the ingest job.
func (c *JobController) Apply(ctx context.Context, enabled bool) error {
	if enabled {
		return c.Enable(ctx)
	}
	return c.Disable(ctx)
}
