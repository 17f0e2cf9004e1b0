package app_test

import (
	"context"
	"strings"
	"testing"

	"moodtrack/internal/app"
	"moodtrack/internal/domain"
)

func TestRecordActivity_Validation(t *testing.T) {
	svc := app.NewActivityService(&mockActivityRepo{}, fixedClock{morning})

	tests := []struct {
		name      string
		kind      string
		mood      int
		intensity int
		duration  int
		note      string
	}{
		{"empty kind", "  ", 3, 3, 10, ""},
		{"long kind", strings.Repeat("x", 65), 3, 3, 10, ""},
		{"mood too low", "run", 0, 3, 10, ""},
		{"mood too high", "run", 6, 3, 10, ""},
		{"intensity too low", "run", 3, 0, 10, ""},
		{"intensity too high", "run", 3, 6, 10, ""},
		{"negative duration", "run", 3, 3, -1, ""},
		{"duration over a day", "run", 3, 3, 1441, ""},
		{"long note", "run", 3, 3, 10, strings.Repeat("n", 501)},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.RecordActivity(context.Background(), tc.kind, tc.mood, tc.intensity, tc.duration, tc.note)
			if err == nil {
				t.Fatal("expected validation error")
			}
		})
	}
}

func TestRecordActivity_Success(t *testing.T) {
	var got domain.Activity
	repo := &mockActivityRepo{
		addFn: func(_ context.Context, a domain.Activity) (int64, error) {
			got = a
			return 42, nil
		},
	}
	svc := app.NewActivityService(repo, fixedClock{morning})
	id, err := svc.RecordActivity(context.Background(), " yoga ", 4, 2, 30, " calm ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if id != 42 {
		t.Fatalf("expected id 42, got %d", id)
	}
	if got.Kind != "yoga" || got.Note != "calm" || !got.CreatedAt.Equal(morning) {
		t.Fatalf("unexpected activity %+v", got)
	}
}

func TestUndoLastActivity_Empty(t *testing.T) {
	svc := app.NewActivityService(&mockActivityRepo{}, fixedClock{morning})
	undone, _, err := svc.UndoLast(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if undone {
		t.Fatal("expected undone=false for empty list")
	}
}

func TestUndoLastActivity_Success(t *testing.T) {
	repo := &mockActivityRepo{
		listFn: func(_ context.Context, _ int) ([]domain.Activity, error) {
			return []domain.Activity{{ID: 7, Kind: "run"}}, nil
		},
		delFn: func(_ context.Context, id int64) error {
			if id != 7 {
				t.Fatalf("expected delete id 7, got %d", id)
			}
			return nil
		},
	}
	svc := app.NewActivityService(repo, fixedClock{morning})
	undone, id, err := svc.UndoLast(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !undone || id != 7 {
		t.Fatalf("expected undone=true id=7, got undone=%v id=%d", undone, id)
	}
}
