package app

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"moodtrack/internal/domain"
	"moodtrack/internal/logging"
	"moodtrack/internal/metrics"
)

// RepeatInterval is the cadence of the inexact daily backup alarm.
const RepeatInterval = 24 * time.Hour

// ScheduleResult reports what was armed for a category.
type ScheduleResult struct {
	Category       domain.Category `json:"category"`
	NextTrigger    time.Time       `json:"nextTrigger"`
	RepeatFrom     time.Time       `json:"repeatFrom"`
	ExactRequested bool            `json:"exactRequested"`
	ExactArmed     bool            `json:"exactArmed"`
}

// Degraded reports whether exact delivery was wanted but could not be armed.
func (r ScheduleResult) Degraded() bool {
	return r.ExactRequested && !r.ExactArmed
}

// ReminderScheduler computes trigger times and registers the one-shot and
// repeating alarm pair for each reminder category.
type ReminderScheduler struct {
	alarms domain.AlarmPort
	gate   domain.PermissionGate
	clock  domain.Clock
	loc    *time.Location
	log    *zap.Logger

	locks map[domain.Category]*sync.Mutex
}

// NewReminderScheduler creates a ReminderScheduler evaluating wall-clock times
// in loc (time.Local when nil).
func NewReminderScheduler(alarms domain.AlarmPort, gate domain.PermissionGate, clock domain.Clock, loc *time.Location, log *zap.Logger) *ReminderScheduler {
	if loc == nil {
		loc = time.Local
	}
	locks := make(map[domain.Category]*sync.Mutex, len(domain.Categories))
	for _, c := range domain.Categories {
		locks[c] = &sync.Mutex{}
	}
	return &ReminderScheduler{
		alarms: alarms,
		gate:   gate,
		clock:  clock,
		loc:    loc,
		log:    logging.OrNop(log),
		locks:  locks,
	}
}

func (s *ReminderScheduler) lock(c domain.Category) (func(), error) {
	mu, ok := s.locks[c]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrInvalidCategory, c)
	}
	mu.Lock()
	return mu.Unlock, nil
}

// ScheduleDaily arms the next firing of category at t and a daily inexact
// repeat starting one day later. A denied exact alarm is skipped and reported
// through the result, never as an error.
func (s *ReminderScheduler) ScheduleDaily(ctx context.Context, category domain.Category, t domain.ScheduledTime, exactRequested bool) (ScheduleResult, error) {
	unlock, err := s.lock(category)
	if err != nil {
		return ScheduleResult{}, err
	}
	defer unlock()

	next := domain.NextTrigger(s.clock.Now(), t, s.loc)
	res := ScheduleResult{
		Category:       category,
		NextTrigger:    next,
		RepeatFrom:     domain.AddDay(next, s.loc),
		ExactRequested: exactRequested,
	}
	log := s.log.With(zap.String("category", string(category)), zap.Time("next_trigger", next))

	var oneShotErr error
	switch {
	case exactRequested && !s.gate.CanScheduleExactAlarms():
		log.Warn("exact alarms not permitted, relying on inexact repeat")
		oneShotErr = s.dropExact(ctx, category, log)
	case exactRequested:
		err := s.alarms.RegisterOneShot(ctx, domain.ExactKey(category), next, true)
		switch {
		case err == nil:
			res.ExactArmed = true
		case errors.Is(err, domain.ErrPermissionDenied):
			log.Warn("exact alarm registration denied", zap.Error(err))
			oneShotErr = s.dropExact(ctx, category, log)
		default:
			log.Error("failed to register exact alarm", zap.Error(err))
			oneShotErr = err
		}
	default:
		if err := s.alarms.RegisterOneShot(ctx, domain.ExactKey(category), next, false); err != nil {
			log.Error("failed to register one-shot alarm", zap.Error(err))
			oneShotErr = err
		}
	}

	if err := s.alarms.RegisterInexactRepeating(ctx, domain.RepeatKey(category), res.RepeatFrom, RepeatInterval); err != nil {
		return res, fmt.Errorf("register daily repeat for %s: %w", category, err)
	}

	metrics.ReminderSchedules.WithLabelValues(string(category), exactOutcome(res)).Inc()
	log.Info("reminder scheduled",
		zap.Bool("exact_requested", res.ExactRequested),
		zap.Bool("exact_armed", res.ExactArmed),
		zap.Time("repeat_from", res.RepeatFrom),
	)
	if oneShotErr != nil {
		return res, fmt.Errorf("register one-shot for %s: %w", category, oneShotErr)
	}
	return res, nil
}

// dropExact cancels a one-shot left armed by an earlier schedule of category.
func (s *ReminderScheduler) dropExact(ctx context.Context, category domain.Category, log *zap.Logger) error {
	if err := s.alarms.Cancel(ctx, domain.ExactKey(category)); err != nil {
		log.Error("failed to cancel stale exact alarm", zap.Error(err))
		return err
	}
	return nil
}

func exactOutcome(r ScheduleResult) string {
	switch {
	case !r.ExactRequested:
		return "not_requested"
	case r.ExactArmed:
		return "armed"
	}
	return "degraded"
}

// Cancel disarms both alarms of category. Cancelling an unscheduled category
// is a no-op.
func (s *ReminderScheduler) Cancel(ctx context.Context, category domain.Category) error {
	unlock, err := s.lock(category)
	if err != nil {
		return err
	}
	defer unlock()

	if err := s.alarms.Cancel(ctx, domain.ExactKey(category)); err != nil {
		return fmt.Errorf("cancel %s: %w", domain.ExactKey(category), err)
	}
	if err := s.alarms.Cancel(ctx, domain.RepeatKey(category)); err != nil {
		return fmt.Errorf("cancel %s: %w", domain.RepeatKey(category), err)
	}
	s.log.Info("reminder cancelled", zap.String("category", string(category)))
	return nil
}

// Apply brings the armed alarms in line with p: enabled categories are
// scheduled and disabled ones cancelled. Every category is attempted; the
// first error is returned.
func (s *ReminderScheduler) Apply(ctx context.Context, p domain.PreferenceState) (map[domain.Category]ScheduleResult, error) {
	results := make(map[domain.Category]ScheduleResult, len(domain.Categories))
	var firstErr error
	for _, c := range domain.Categories {
		r := p.Reminder(c)
		if !r.Enabled {
			if err := s.Cancel(ctx, c); err != nil && firstErr == nil {
				firstErr = err
			}
			continue
		}
		res, err := s.ScheduleDaily(ctx, c, r.Time, c.RequestsExact())
		if err != nil && firstErr == nil {
			firstErr = err
		}
		results[c] = res
	}
	return results, firstErr
}
