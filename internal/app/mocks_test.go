package app_test

import (
	"context"
	"sync"
	"time"

	"moodtrack/internal/domain"
)

type fixedClock struct{ t time.Time }

func (c fixedClock) Now() time.Time { return c.t }

type stubGate struct {
	exact, notify bool
	loc           domain.LocationAccess
}

func (g stubGate) CanScheduleExactAlarms() bool          { return g.exact }
func (g stubGate) NotificationsAllowed() bool            { return g.notify }
func (g stubGate) LocationAccess() domain.LocationAccess { return g.loc }

type oneShotCall struct {
	key   domain.AlarmKey
	at    time.Time
	exact bool
}

type repeatCall struct {
	key      domain.AlarmKey
	first    time.Time
	interval time.Duration
}

type mockAlarmPort struct {
	mu        sync.Mutex
	oneShotFn func(ctx context.Context, key domain.AlarmKey, at time.Time, exact bool) error
	repeatFn  func(ctx context.Context, key domain.AlarmKey, first time.Time, interval time.Duration) error
	oneShots  []oneShotCall
	repeats   []repeatCall
	cancelled []domain.AlarmKey
}

func (m *mockAlarmPort) RegisterOneShot(ctx context.Context, key domain.AlarmKey, at time.Time, exact bool) error {
	m.mu.Lock()
	m.oneShots = append(m.oneShots, oneShotCall{key, at, exact})
	m.mu.Unlock()
	if m.oneShotFn != nil {
		return m.oneShotFn(ctx, key, at, exact)
	}
	return nil
}

func (m *mockAlarmPort) RegisterInexactRepeating(ctx context.Context, key domain.AlarmKey, first time.Time, interval time.Duration) error {
	m.mu.Lock()
	m.repeats = append(m.repeats, repeatCall{key, first, interval})
	m.mu.Unlock()
	if m.repeatFn != nil {
		return m.repeatFn(ctx, key, first, interval)
	}
	return nil
}

func (m *mockAlarmPort) Cancel(_ context.Context, key domain.AlarmKey) error {
	m.mu.Lock()
	m.cancelled = append(m.cancelled, key)
	m.mu.Unlock()
	return nil
}

type mockSurface struct {
	ensureFn func(ctx context.Context, ch domain.Channel) error
	postFn   func(ctx context.Context, n domain.Notification) error
	channels []domain.Channel
	posted   []domain.Notification
}

func (m *mockSurface) EnsureChannel(ctx context.Context, ch domain.Channel) error {
	m.channels = append(m.channels, ch)
	if m.ensureFn != nil {
		return m.ensureFn(ctx, ch)
	}
	return nil
}

func (m *mockSurface) Post(ctx context.Context, n domain.Notification) error {
	if m.postFn != nil {
		if err := m.postFn(ctx, n); err != nil {
			return err
		}
	}
	m.posted = append(m.posted, n)
	return nil
}

type mockLocation struct {
	fixFn func(ctx context.Context, p domain.AccuracyProfile) (*domain.Location, error)
}

func (m *mockLocation) CurrentFix(ctx context.Context, p domain.AccuracyProfile) (*domain.Location, error) {
	if m.fixFn != nil {
		return m.fixFn(ctx, p)
	}
	return nil, nil
}

type mockIngestRepo struct {
	appendFn func(ctx context.Context, rec domain.IngestRecord) (int64, error)
	appended []domain.IngestRecord
}

func (m *mockIngestRepo) AppendIngestRecord(ctx context.Context, rec domain.IngestRecord) (int64, error) {
	if m.appendFn != nil {
		return m.appendFn(ctx, rec)
	}
	m.appended = append(m.appended, rec)
	return int64(len(m.appended)), nil
}

func (m *mockIngestRepo) ListRecentIngestRecords(_ context.Context, _ int) ([]domain.IngestRecord, error) {
	return m.appended, nil
}

type mockJobScheduler struct {
	enqueueFn func(ctx context.Context, w domain.PeriodicWork) error
	enqueued  []domain.PeriodicWork
	cancelled []string
}

func (m *mockJobScheduler) EnqueueUniquePeriodic(ctx context.Context, w domain.PeriodicWork) error {
	m.enqueued = append(m.enqueued, w)
	if m.enqueueFn != nil {
		return m.enqueueFn(ctx, w)
	}
	return nil
}

func (m *mockJobScheduler) CancelUnique(_ context.Context, name string) error {
	m.cancelled = append(m.cancelled, name)
	return nil
}

type mockActivityRepo struct {
	addFn  func(ctx context.Context, a domain.Activity) (int64, error)
	delFn  func(ctx context.Context, id int64) error
	listFn func(ctx context.Context, limit int) ([]domain.Activity, error)
	dayFn  func(ctx context.Context, day string) ([]domain.Activity, error)
	dayLoc *time.Location
}

func (m *mockActivityRepo) AddActivity(ctx context.Context, a domain.Activity) (int64, error) {
	if m.addFn != nil {
		return m.addFn(ctx, a)
	}
	return 0, nil
}

func (m *mockActivityRepo) DeleteActivity(ctx context.Context, id int64) error {
	if m.delFn != nil {
		return m.delFn(ctx, id)
	}
	return nil
}

func (m *mockActivityRepo) ListRecentActivities(ctx context.Context, limit int) ([]domain.Activity, error) {
	if m.listFn != nil {
		return m.listFn(ctx, limit)
	}
	return nil, nil
}

func (m *mockActivityRepo) ActivitiesForLocalDay(ctx context.Context, day string, loc *time.Location) ([]domain.Activity, error) {
	m.dayLoc = loc
	if m.dayFn != nil {
		return m.dayFn(ctx, day)
	}
	return nil, nil
}
