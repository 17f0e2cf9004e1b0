// Package memory implements an in-memory repository for development and testing.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"moodtrack/internal/domain"
)

// DB implements an in-memory database storage.
type DB struct {
	mu         sync.Mutex
	activities []domain.Activity
	ingest     []domain.IngestRecord
	prefs      *domain.PreferenceState

	activityIDCounter int64
	ingestIDCounter   int64
}

// New creates a new in-memory database.
func New() *DB {
	return &DB{}
}

// Ensure interfaces are met.
var _ domain.ActivityRepository = (*DB)(nil)
var _ domain.IngestRepository = (*DB)(nil)
var _ domain.PreferenceRepository = (*DB)(nil)

// Close is a no-op.
func (db *DB) Close() error { return nil }

// --- ActivityRepository ---

// AddActivity stores an activity and returns its ID.
func (db *DB) AddActivity(ctx context.Context, a domain.Activity) (int64, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	db.activityIDCounter++
	a.ID = db.activityIDCounter
	a.CreatedAt = a.CreatedAt.UTC()
	db.activities = append(db.activities, a)
	return a.ID, nil
}

// DeleteActivity deletes an activity by ID.
func (db *DB) DeleteActivity(ctx context.Context, id int64) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	for i, a := range db.activities {
		if a.ID == id {
			db.activities = append(db.activities[:i], db.activities[i+1:]...)
			return nil
		}
	}
	return nil
}

// ListRecentActivities lists the most recent activities.
func (db *DB) ListRecentActivities(ctx context.Context, limit int) ([]domain.Activity, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	result := make([]domain.Activity, len(db.activities))
	copy(result, db.activities)

	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})

	if len(result) > limit {
		result = result[:limit]
	}
	return result, nil
}

// ActivitiesForLocalDay returns the activities logged on the given day in loc.
func (db *DB) ActivitiesForLocalDay(ctx context.Context, localDay string, loc *time.Location) ([]domain.Activity, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	if loc == nil {
		loc = time.Local
	}
	dayStart, err := time.ParseInLocation("2006-01-02", localDay, loc)
	if err != nil {
		return nil, err
	}
	dayEnd := dayStart.AddDate(0, 0, 1)

	var out []domain.Activity
	for _, a := range db.activities {
		if !a.CreatedAt.Before(dayStart.UTC()) && a.CreatedAt.Before(dayEnd.UTC()) {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

// --- IngestRepository ---

// AppendIngestRecord appends a location fix.
func (db *DB) AppendIngestRecord(ctx context.Context, rec domain.IngestRecord) (int64, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	db.ingestIDCounter++
	rec.ID = db.ingestIDCounter
	rec.CapturedAt = rec.CapturedAt.UTC()
	db.ingest = append(db.ingest, rec)
	return rec.ID, nil
}

// ListRecentIngestRecords lists the most recent location fixes.
func (db *DB) ListRecentIngestRecords(ctx context.Context, limit int) ([]domain.IngestRecord, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	n := len(db.ingest)
	if n > limit {
		n = limit
	}
	out := make([]domain.IngestRecord, 0, n)
	for i := len(db.ingest) - 1; i >= 0 && len(out) < n; i-- {
		out = append(out, db.ingest[i])
	}
	return out, nil
}

// --- PreferenceRepository ---

// LoadPreferences returns the saved preferences, or the defaults.
func (db *DB) LoadPreferences(ctx context.Context) (domain.PreferenceState, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	if db.prefs == nil {
		return domain.DefaultPreferences(), nil
	}
	return clonePrefs(*db.prefs), nil
}

// SavePreferences replaces the saved preferences.
func (db *DB) SavePreferences(ctx context.Context, p domain.PreferenceState) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	cp := clonePrefs(p)
	db.prefs = &cp
	return nil
}

func clonePrefs(p domain.PreferenceState) domain.PreferenceState {
	out := domain.PreferenceState{
		Reminders:     make(map[domain.Category]domain.ReminderPreference, len(p.Reminders)),
		IngestEnabled: p.IngestEnabled,
	}
	for k, v := range p.Reminders {
		out.Reminders[k] = v
	}
	return out
}
