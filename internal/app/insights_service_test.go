package app_test

import (
	"context"
	"testing"
	"time"

	"moodtrack/internal/app"
	"moodtrack/internal/domain"
)

func TestGetDaily_BadDays(t *testing.T) {
	svc := app.NewInsightsService(&mockActivityRepo{}, fixedClock{morning}, nil)
	if _, err := svc.GetDaily(context.Background(), 0); err == nil {
		t.Fatal("expected error for zero days")
	}
}

func TestGetDaily_Aggregates(t *testing.T) {
	today := morning.Format("2006-01-02")
	repo := &mockActivityRepo{
		dayFn: func(_ context.Context, day string) ([]domain.Activity, error) {
			if day != today {
				return nil, nil
			}
			return []domain.Activity{
				{Mood: 4, Intensity: 2, DurationMin: 30},
				{Mood: 2, Intensity: 5, DurationMin: 15},
			}, nil
		},
	}
	svc := app.NewInsightsService(repo, fixedClock{morning}, time.UTC)
	points, err := svc.GetDaily(context.Background(), 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(points) != 3 {
		t.Fatalf("expected 3 points, got %d", len(points))
	}
	for _, p := range points[:2] {
		if p.Count != 0 || p.AvgMood != nil || p.AvgIntensity != nil {
			t.Errorf("expected empty day, got %+v", p)
		}
	}
	last := points[2]
	if last.Day != today || last.Count != 2 || last.TotalMinutes != 45 {
		t.Fatalf("unexpected point %+v", last)
	}
	if *last.AvgMood != 3 || *last.AvgIntensity != 3.5 {
		t.Fatalf("unexpected averages mood=%v intensity=%v", *last.AvgMood, *last.AvgIntensity)
	}
}

func TestGetDaily_Capped(t *testing.T) {
	calls := 0
	repo := &mockActivityRepo{
		dayFn: func(context.Context, string) ([]domain.Activity, error) {
			calls++
			return nil, nil
		},
	}
	svc := app.NewInsightsService(repo, fixedClock{morning}, time.UTC)
	points, err := svc.GetDaily(context.Background(), 1000)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(points) != app.MaxInsightDays || calls != app.MaxInsightDays {
		t.Fatalf("expected %d points, got %d (%d calls)", app.MaxInsightDays, len(points), calls)
	}
}

func TestGetDaily_BucketsInConfiguredZone(t *testing.T) {
	// 08:00 UTC on March 10 is still March 9 ten hours west.
	hst := time.FixedZone("HST", -10*60*60)
	repo := &mockActivityRepo{}
	svc := app.NewInsightsService(repo, fixedClock{morning}, hst)
	points, err := svc.GetDaily(context.Background(), 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if points[0].Day != "2026-03-09" {
		t.Fatalf("expected 2026-03-09, got %s", points[0].Day)
	}
	if repo.dayLoc != hst {
		t.Fatalf("repository queried in %v, want %v", repo.dayLoc, hst)
	}
}
