package postgres

import (
	"context"
	"time"

	"moodtrack/internal/domain"
)

// AddActivity inserts a new activity.
func (d *DB) AddActivity(ctx context.Context, a domain.Activity) (int64, error) {
	var id int64
	err := d.sql.QueryRowContext(ctx,
		"INSERT INTO activities(kind, mood, intensity, duration_min, note, created_at) VALUES($1, $2, $3, $4, $5, $6) RETURNING id;",
		a.Kind, a.Mood, a.Intensity, a.DurationMin, a.Note, a.CreatedAt.UTC(),
	).Scan(&id)
	return id, err
}

// DeleteActivity removes an activity by ID.
func (d *DB) DeleteActivity(ctx context.Context, id int64) error {
	_, err := d.sql.ExecContext(ctx, "DELETE FROM activities WHERE id=$1;", id)
	return err
}

// ListRecentActivities returns the most recent activities up to limit.
func (d *DB) ListRecentActivities(ctx context.Context, limit int) ([]domain.Activity, error) {
	rows, err := d.sql.QueryContext(ctx,
		"SELECT id, kind, mood, intensity, duration_min, note, created_at FROM activities ORDER BY created_at DESC LIMIT $1;", limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close() //nolint:errcheck

	out := make([]domain.Activity, 0, limit)
	for rows.Next() {
		var a domain.Activity
		if err := rows.Scan(&a.ID, &a.Kind, &a.Mood, &a.Intensity, &a.DurationMin, &a.Note, &a.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// ActivitiesForLocalDay returns the activities logged on a calendar day in
// loc (time.Local when nil).
func (d *DB) ActivitiesForLocalDay(ctx context.Context, localDay string, loc *time.Location) ([]domain.Activity, error) {
	if loc == nil {
		loc = time.Local
	}
	dayStart, err := time.ParseInLocation("2006-01-02", localDay, loc)
	if err != nil {
		return nil, err
	}
	dayEnd := dayStart.AddDate(0, 0, 1)

	rows, err := d.sql.QueryContext(ctx,
		"SELECT id, kind, mood, intensity, duration_min, note, created_at FROM activities WHERE created_at >= $1 AND created_at < $2 ORDER BY created_at ASC;",
		dayStart.UTC(), dayEnd.UTC(),
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close() //nolint:errcheck

	var out []domain.Activity
	for rows.Next() {
		var a domain.Activity
		if err := rows.Scan(&a.ID, &a.Kind, &a.Mood, &a.Intensity, &a.DurationMin, &a.Note, &a.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}
