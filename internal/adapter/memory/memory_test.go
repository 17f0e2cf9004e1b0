package memory

import (
	"context"
	"testing"
	"time"

	"moodtrack/internal/domain"
)

func TestActivityRepository(t *testing.T) {
	db := New()
	ctx := context.Background()

	now := time.Now()
	id, err := db.AddActivity(ctx, domain.Activity{Kind: "run", Mood: 4, Intensity: 3, DurationMin: 30, CreatedAt: now})
	if err != nil {
		t.Fatalf("AddActivity: %v", err)
	}
	if id == 0 {
		t.Error("expected non-zero ID")
	}
	_, _ = db.AddActivity(ctx, domain.Activity{Kind: "yoga", Mood: 5, Intensity: 1, DurationMin: 20, CreatedAt: now.Add(time.Minute)})

	// List
	items, err := db.ListRecentActivities(ctx, 10)
	if err != nil {
		t.Fatalf("ListRecentActivities: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("expected 2 activities, got %d", len(items))
	}
	if items[0].Kind != "yoga" {
		t.Errorf("expected most recent first, got %s", items[0].Kind)
	}

	// Day
	day := now.In(time.Local).Format("2006-01-02")
	dayItems, err := db.ActivitiesForLocalDay(ctx, day, time.Local)
	if err != nil {
		t.Fatalf("ActivitiesForLocalDay: %v", err)
	}
	if len(dayItems) != 2 {
		t.Errorf("expected 2 activities for %s, got %d", day, len(dayItems))
	}

	// Delete
	if err := db.DeleteActivity(ctx, id); err != nil {
		t.Fatalf("DeleteActivity: %v", err)
	}
	items, _ = db.ListRecentActivities(ctx, 10)
	if len(items) != 1 {
		t.Errorf("expected 1 activity, got %d", len(items))
	}
}

func TestActivitiesForLocalDayUsesZone(t *testing.T) {
	db := New()
	ctx := context.Background()
	late := time.Date(2026, 3, 10, 23, 30, 0, 0, time.UTC)
	if _, err := db.AddActivity(ctx, domain.Activity{Kind: "walk", Mood: 3, Intensity: 2, CreatedAt: late}); err != nil {
		t.Fatal(err)
	}

	plus2 := time.FixedZone("UTC+2", 2*60*60)
	for day, want := range map[string]int{"2026-03-10": 0, "2026-03-11": 1} {
		items, err := db.ActivitiesForLocalDay(ctx, day, plus2)
		if err != nil {
			t.Fatalf("ActivitiesForLocalDay(%s): %v", day, err)
		}
		if len(items) != want {
			t.Errorf("%s: got %d activities, want %d", day, len(items), want)
		}
	}
}

func TestIngestRepository(t *testing.T) {
	db := New()
	ctx := context.Background()

	base := time.Date(2026, 2, 8, 10, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		if _, err := db.AppendIngestRecord(ctx, domain.IngestRecord{Latitude: float64(i), Longitude: 1, CapturedAt: base.Add(time.Duration(i) * time.Minute)}); err != nil {
			t.Fatalf("AppendIngestRecord: %v", err)
		}
	}

	recs, err := db.ListRecentIngestRecords(ctx, 2)
	if err != nil {
		t.Fatalf("ListRecentIngestRecords: %v", err)
	}
	if len(recs) != 2 {
		t.Fatalf("expected 2 records, got %d", len(recs))
	}
	if recs[0].Latitude != 2 || recs[0].ID != 3 {
		t.Errorf("expected newest record first, got %+v", recs[0])
	}
}

func TestPreferenceRepository(t *testing.T) {
	db := New()
	ctx := context.Background()

	p, err := db.LoadPreferences(ctx)
	if err != nil {
		t.Fatalf("LoadPreferences: %v", err)
	}
	if p.Reminder(domain.Hydration).Enabled {
		t.Error("expected defaults to be disabled")
	}

	p = p.WithReminder(domain.Hydration, domain.ReminderPreference{Enabled: true, Time: domain.ScheduledTime{Hour: 10, Minute: 30}})
	p.IngestEnabled = true
	if err := db.SavePreferences(ctx, p); err != nil {
		t.Fatalf("SavePreferences: %v", err)
	}

	// Mutating the caller's copy must not leak into the store.
	p.Reminders[domain.Hydration] = domain.ReminderPreference{}

	got, _ := db.LoadPreferences(ctx)
	if !got.IngestEnabled {
		t.Error("expected ingest enabled")
	}
	if r := got.Reminder(domain.Hydration); !r.Enabled || r.Time.Minute != 30 {
		t.Errorf("unexpected hydration preference %+v", r)
	}
}
