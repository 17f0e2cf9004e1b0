package app

import (
	"context"
	"errors"
	"time"

	"moodtrack/internal/domain"
)

// MaxInsightDays caps the window GetDaily will aggregate.
const MaxInsightDays = 366

// InsightsService aggregates logged activities per day.
type InsightsService struct {
	repo  domain.ActivityRepository
	clock domain.Clock
	loc   *time.Location
}

// NewInsightsService creates an InsightsService backed by the given repository
// that buckets days in loc (time.Local when nil).
func NewInsightsService(repo domain.ActivityRepository, clock domain.Clock, loc *time.Location) *InsightsService {
	if loc == nil {
		loc = time.Local
	}
	return &InsightsService{repo: repo, clock: clock, loc: loc}
}

// DayPoint is a single data point returned by GetDaily.
type DayPoint struct {
	Day          string   `json:"day"`
	Count        int      `json:"count"`
	TotalMinutes int      `json:"totalMinutes"`
	AvgMood      *float64 `json:"avgMood"`
	AvgIntensity *float64 `json:"avgIntensity"`
}

// GetDaily returns one point per day for the last days days, oldest
// first. Averages are nil on days without activities.
func (s *InsightsService) GetDaily(ctx context.Context, days int) ([]DayPoint, error) {
	if days < 1 {
		return nil, errors.New("days must be at least 1")
	}
	if days > MaxInsightDays {
		days = MaxInsightDays
	}

	today := s.clock.Now().In(s.loc)
	points := make([]DayPoint, 0, days)

	for i := days - 1; i >= 0; i-- {
		dayStr := today.AddDate(0, 0, -i).Format("2006-01-02")

		items, err := s.repo.ActivitiesForLocalDay(ctx, dayStr, s.loc)
		if err != nil {
			return nil, err
		}

		p := DayPoint{Day: dayStr, Count: len(items)}
		if len(items) > 0 {
			var mood, intensity int
			for _, a := range items {
				p.TotalMinutes += a.DurationMin
				mood += a.Mood
				intensity += a.Intensity
			}
			am := float64(mood) / float64(len(items))
			ai := float64(intensity) / float64(len(items))
			p.AvgMood, p.AvgIntensity = &am, &ai
		}
		points = append(points, p)
	}
	return points, nil
}
