package app

import (
	"context"
	"errors"
	"strings"

	"moodtrack/internal/domain"
)

// ActivityService encapsulates activity-logging use cases.
type ActivityService struct {
	repo  domain.ActivityRepository
	clock domain.Clock
}

// NewActivityService creates an ActivityService backed by the given repository.
func NewActivityService(repo domain.ActivityRepository, clock domain.Clock) *ActivityService {
	return &ActivityService{repo: repo, clock: clock}
}

// RecordActivity validates and stores an activity.
func (s *ActivityService) RecordActivity(ctx context.Context, kind string, mood, intensity, durationMin int, note string) (int64, error) {
	kind = strings.TrimSpace(kind)
	switch {
	case kind == "":
		return 0, errors.New("kind is required")
	case len(kind) > 64:
		return 0, errors.New("kind must be at most 64 characters")
	case mood < 1 || mood > 5:
		return 0, errors.New("mood must be within [1, 5]")
	case intensity < 1 || intensity > 5:
		return 0, errors.New("intensity must be within [1, 5]")
	case durationMin < 0 || durationMin > 1440:
		return 0, errors.New("durationMin must be within [0, 1440]")
	case len(note) > 500:
		return 0, errors.New("note must be at most 500 characters")
	}
	return s.repo.AddActivity(ctx, domain.Activity{
		Kind:        kind,
		Mood:        mood,
		Intensity:   intensity,
		DurationMin: durationMin,
		Note:        strings.TrimSpace(note),
		CreatedAt:   s.clock.Now(),
	})
}

// ListRecent returns the most recent activities up to limit.
func (s *ActivityService) ListRecent(ctx context.Context, limit int) ([]domain.Activity, error) {
	return s.repo.ListRecentActivities(ctx, limit)
}

// UndoLast deletes the most recent activity.
func (s *ActivityService) UndoLast(ctx context.Context) (bool, int64, error) {
	items, err := s.repo.ListRecentActivities(ctx, 1)
	if err != nil {
		return false, 0, err
	}
	if len(items) == 0 {
		return false, 0, nil
	}
	if err := s.repo.DeleteActivity(ctx, items[0].ID); err != nil {
		return false, 0, err
	}
	return true, items[0].ID, nil
}
