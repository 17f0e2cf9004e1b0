package app

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/teambition/rrule-go"
	"go.uber.org/zap"

	"moodtrack/internal/domain"
	"moodtrack/internal/logging"
)

// ExactUnavailableAdvisory is shown when a reminder falls back to inexact timing.
const ExactUnavailableAdvisory = "exact alarms not available, using approximate timing"

// PreviewCount is how many upcoming firings Get lists per reminder.
const PreviewCount = 3

// ErrInvalidCategory is returned for unknown reminder categories.
var ErrInvalidCategory = errors.New("invalid reminder category")

// PermissionSnapshot is the permission state at one instant.
type PermissionSnapshot struct {
	ExactAlarms   bool                  `json:"exactAlarms"`
	Notifications bool                  `json:"notifications"`
	Location      domain.LocationAccess `json:"location"`
}

// Settings is what the settings screen renders.
type Settings struct {
	Preferences domain.PreferenceState          `json:"preferences"`
	Upcoming    map[domain.Category][]time.Time `json:"upcoming"`
	Permissions PermissionSnapshot              `json:"permissions"`
}

// ReminderUpdate is the outcome of changing one reminder. Result is nil when
// the reminder was disabled.
type ReminderUpdate struct {
	Result   *ScheduleResult `json:"result"`
	Advisory string          `json:"advisory,omitempty"`
}

// SettingsService persists preferences and applies them to the reminder
// scheduler and the ingest job controller.
type SettingsService struct {
	prefs     domain.PreferenceRepository
	reminders *ReminderScheduler
	jobs      *JobController
	gate      domain.PermissionGate
	clock     domain.Clock
	loc       *time.Location
	log       *zap.Logger

	mu sync.Mutex
}

// NewSettingsService wires the settings use cases.
func NewSettingsService(prefs domain.PreferenceRepository, reminders *ReminderScheduler, jobs *JobController, gate domain.PermissionGate, clock domain.Clock, loc *time.Location, log *zap.Logger) *SettingsService {
	if loc == nil {
		loc = time.Local
	}
	return &SettingsService{
		prefs:     prefs,
		reminders: reminders,
		jobs:      jobs,
		gate:      gate,
		clock:     clock,
		loc:       loc,
		log:       logging.OrNop(log),
	}
}

// Get returns the stored preferences, the next firings of each enabled
// reminder, and the current permissions.
func (s *SettingsService) Get(ctx context.Context) (Settings, error) {
	p, err := s.prefs.LoadPreferences(ctx)
	if err != nil {
		return Settings{}, fmt.Errorf("load preferences: %w", err)
	}
	upcoming := make(map[domain.Category][]time.Time)
	now := s.clock.Now()
	for _, c := range domain.Categories {
		r := p.Reminder(c)
		if !r.Enabled {
			continue
		}
		times, err := previewDaily(domain.NextTrigger(now, r.Time, s.loc), PreviewCount)
		if err != nil {
			return Settings{}, err
		}
		upcoming[c] = times
	}
	return Settings{
		Preferences: p,
		Upcoming:    upcoming,
		Permissions: s.Permissions(),
	}, nil
}

// Permissions returns the current permission snapshot.
func (s *SettingsService) Permissions() PermissionSnapshot {
	return PermissionSnapshot{
		ExactAlarms:   s.gate.CanScheduleExactAlarms(),
		Notifications: s.gate.NotificationsAllowed(),
		Location:      s.gate.LocationAccess(),
	}
}

func previewDaily(first time.Time, n int) ([]time.Time, error) {
	r, err := rrule.NewRRule(rrule.ROption{
		Freq:    rrule.DAILY,
		Dtstart: first,
		Count:   n,
	})
	if err != nil {
		return nil, fmt.Errorf("build preview rule: %w", err)
	}
	return r.All(), nil
}

// UpdateReminder stores the reminder setting for category and arms or
// cancels its alarms. A nil t keeps the stored time.
func (s *SettingsService) UpdateReminder(ctx context.Context, category string, enabled bool, t *domain.ScheduledTime) (ReminderUpdate, error) {
	c, err := domain.ParseCategory(category)
	if err != nil {
		return ReminderUpdate{}, fmt.Errorf("%w: %v", ErrInvalidCategory, err)
	}
	if t != nil {
		if _, err := domain.NewScheduledTime(t.Hour, t.Minute); err != nil {
			return ReminderUpdate{}, err
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	p, err := s.prefs.LoadPreferences(ctx)
	if err != nil {
		return ReminderUpdate{}, fmt.Errorf("load preferences: %w", err)
	}
	at := p.Reminder(c).Time
	if t != nil {
		at = *t
	}
	p = p.WithReminder(c, domain.ReminderPreference{Enabled: enabled, Time: at})
	if err := s.prefs.SavePreferences(ctx, p); err != nil {
		return ReminderUpdate{}, fmt.Errorf("save preferences: %w", err)
	}

	if !enabled {
		return ReminderUpdate{}, s.reminders.Cancel(ctx, c)
	}
	res, err := s.reminders.ScheduleDaily(ctx, c, at, c.RequestsExact())
	upd := ReminderUpdate{Result: &res}
	if res.Degraded() {
		upd.Advisory = ExactUnavailableAdvisory
	}
	return upd, err
}

// SetIngest stores the ingest flag and schedules or cancels the job.
func (s *SettingsService) SetIngest(ctx context.Context, enabled bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, err := s.prefs.LoadPreferences(ctx)
	if err != nil {
		return fmt.Errorf("load preferences: %w", err)
	}
	p.IngestEnabled = enabled
	if err := s.prefs.SavePreferences(ctx, p); err != nil {
		return fmt.Errorf("save preferences: %w", err)
	}
	return s.jobs.Apply(ctx, enabled)
}

// Rearm re-applies the stored preferences. Registered alarms do not survive
// a restart, so this runs at startup and from the login hook.
func (s *SettingsService) Rearm(ctx context.Context) (map[domain.Category]ScheduleResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, err := s.prefs.LoadPreferences(ctx)
	if err != nil {
		return nil, fmt.Errorf("load preferences: %w", err)
	}
	results, remErr := s.reminders.Apply(ctx, p)
	jobErr := s.jobs.Apply(ctx, p.IngestEnabled)

	for _, r := range results {
		if r.Degraded() {
			s.log.Warn(ExactUnavailableAdvisory, zap.String("category", string(r.Category)))
		}
	}
	s.log.Info("preferences re-armed", zap.Int("reminders", len(results)), zap.Bool("ingest", p.IngestEnabled))
	return results, errors.Join(remErr, jobErr)
}
