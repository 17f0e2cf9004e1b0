// Package domain contains the core business entities and ports.
package domain

import (
	"context"
	"time"
)

// Activity is a single logged exercise session with how it felt.
type Activity struct {
	ID          int64     `json:"id"`
	Kind        string    `json:"kind"`
	Mood        int       `json:"mood"`
	Intensity   int       `json:"intensity"`
	DurationMin int       `json:"durationMin"`
	Note        string    `json:"note,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
}

// ActivityRepository is the port for activity persistence.
type ActivityRepository interface {
	AddActivity(ctx context.Context, a Activity) (int64, error)
	DeleteActivity(ctx context.Context, id int64) error
	ListRecentActivities(ctx context.Context, limit int) ([]Activity, error)
	ActivitiesForLocalDay(ctx context.Context, localDay string, loc *time.Location) ([]Activity, error)
}
