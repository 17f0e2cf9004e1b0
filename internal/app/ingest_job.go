package app

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"moodtrack/internal/domain"
	"moodtrack/internal/logging"
	"moodtrack/internal/metrics"
)

// BackgroundIngestJob captures one location fix per run and appends it to
// the ingest store.
type BackgroundIngestJob struct {
	gate     domain.PermissionGate
	location domain.LocationProvider
	repo     domain.IngestRepository
	log      *zap.Logger
}

var _ domain.Worker = (*BackgroundIngestJob)(nil)

// NewBackgroundIngestJob creates the ingest worker.
func NewBackgroundIngestJob(gate domain.PermissionGate, location domain.LocationProvider, repo domain.IngestRepository, log *zap.Logger) *BackgroundIngestJob {
	return &BackgroundIngestJob{
		gate:     gate,
		location: location,
		repo:     repo,
		log:      logging.OrNop(log),
	}
}

// Run performs one ingest. Missing location permission fails the run
// outright; a missing fix or a storage error asks for a retry.
func (j *BackgroundIngestJob) Run(ctx context.Context) (res domain.JobResult) {
	log := j.log.With(zap.String("run_id", uuid.NewString()))
	defer func() {
		if p := recover(); p != nil {
			log.Error("ingest run panicked", zap.Any("panic", p))
			res = domain.JobRetry
		}
	}()

	access := j.gate.LocationAccess()
	if !access.Any() {
		log.Warn("location permission not granted")
		return domain.JobFailure
	}

	fix, err := j.location.CurrentFix(ctx, domain.BalancedPower)
	if err != nil {
		log.Warn("location fetch failed", zap.Error(err))
		return domain.JobRetry
	}
	if fix == nil {
		log.Info("no location fix available yet")
		return domain.JobRetry
	}

	id, err := j.persist(ctx, fix)
	if err != nil {
		log.Error("failed to persist location fix", zap.Error(err))
		return domain.JobRetry
	}
	metrics.IngestRecords.Inc()
	log.Info("location fix ingested",
		zap.Int64("record_id", id),
		zap.Bool("fine", access.Fine),
		zap.Float64("accuracy_m", fix.AccuracyMeters),
	)
	return domain.JobSuccess
}

func (j *BackgroundIngestJob) persist(ctx context.Context, fix *domain.Location) (int64, error) {
	id, err := j.repo.AppendIngestRecord(ctx, domain.IngestRecord{
		Latitude:   fix.Latitude,
		Longitude:  fix.Longitude,
		CapturedAt: fix.At,
	})
	if err != nil {
		return 0, fmt.Errorf("append ingest record: %w", err)
	}
	return id, nil
}
