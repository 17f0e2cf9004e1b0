package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"moodtrack/internal/domain"
)

func openTemp(t *testing.T) *DB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestIngestAppendOnly(t *testing.T) {
	db := openTemp(t)
	ctx := context.Background()
	base := time.Date(2026, 2, 8, 10, 0, 0, 123456789, time.UTC)

	for i := 0; i < 3; i++ {
		_, err := db.AppendIngestRecord(ctx, domain.IngestRecord{
			Latitude:   48.1 + float64(i),
			Longitude:  11.5,
			CapturedAt: base.Add(time.Duration(i) * 15 * time.Minute),
		})
		require.NoError(t, err)
	}

	recs, err := db.ListRecentIngestRecords(ctx, 10)
	require.NoError(t, err)
	require.Len(t, recs, 3)
	assert.Equal(t, int64(3), recs[0].ID)
	assert.True(t, recs[2].CapturedAt.Equal(base))
	assert.InDelta(t, 50.1, recs[0].Latitude, 1e-9)
}

func TestActivities(t *testing.T) {
	db := openTemp(t)
	ctx := context.Background()
	now := time.Now()

	id, err := db.AddActivity(ctx, domain.Activity{Kind: "run", Mood: 4, Intensity: 3, DurationMin: 30, Note: "easy", CreatedAt: now})
	require.NoError(t, err)
	_, err = db.AddActivity(ctx, domain.Activity{Kind: "walk", Mood: 3, Intensity: 1, DurationMin: 60, CreatedAt: now.AddDate(0, 0, -2)})
	require.NoError(t, err)

	recent, err := db.ListRecentActivities(ctx, 1)
	require.NoError(t, err)
	require.Len(t, recent, 1)
	assert.Equal(t, "run", recent[0].Kind)
	assert.Equal(t, "easy", recent[0].Note)

	today, err := db.ActivitiesForLocalDay(ctx, now.In(time.Local).Format("2006-01-02"), time.Local)
	require.NoError(t, err)
	assert.Len(t, today, 1)

	require.NoError(t, db.DeleteActivity(ctx, id))
	recent, err = db.ListRecentActivities(ctx, 10)
	require.NoError(t, err)
	assert.Len(t, recent, 1)
}

func TestActivityCheckConstraint(t *testing.T) {
	db := openTemp(t)
	_, err := db.AddActivity(context.Background(), domain.Activity{Kind: "run", Mood: 9, Intensity: 3, CreatedAt: time.Now()})
	assert.Error(t, err)
}

func TestPreferencesRoundTrip(t *testing.T) {
	db := openTemp(t)
	ctx := context.Background()

	p, err := db.LoadPreferences(ctx)
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultPreferences(), p)

	p = p.WithReminder(domain.Hydration, domain.ReminderPreference{Enabled: true, Time: domain.ScheduledTime{Hour: 7, Minute: 45}})
	p.IngestEnabled = true
	require.NoError(t, db.SavePreferences(ctx, p))

	p = p.WithReminder(domain.Hydration, domain.ReminderPreference{Enabled: false, Time: domain.ScheduledTime{Hour: 8}})
	require.NoError(t, db.SavePreferences(ctx, p))

	got, err := db.LoadPreferences(ctx)
	require.NoError(t, err)
	assert.Equal(t, p, got)
}
