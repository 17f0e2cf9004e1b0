package postgres

import (
	"context"

	"moodtrack/internal/domain"
)

// AppendIngestRecord inserts a location fix.
func (d *DB) AppendIngestRecord(ctx context.Context, rec domain.IngestRecord) (int64, error) {
	var id int64
	err := d.sql.QueryRowContext(ctx,
		"INSERT INTO ingest_records(latitude, longitude, captured_at) VALUES($1, $2, $3) RETURNING id;",
		rec.Latitude, rec.Longitude, rec.CapturedAt.UTC(),
	).Scan(&id)
	return id, err
}

// ListRecentIngestRecords returns the newest location fixes up to limit.
func (d *DB) ListRecentIngestRecords(ctx context.Context, limit int) ([]domain.IngestRecord, error) {
	rows, err := d.sql.QueryContext(ctx,
		"SELECT id, latitude, longitude, captured_at FROM ingest_records ORDER BY id DESC LIMIT $1;", limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close() //nolint:errcheck

	out := make([]domain.IngestRecord, 0, limit)
	for rows.Next() {
		var r domain.IngestRecord
		if err := rows.Scan(&r.ID, &r.Latitude, &r.Longitude, &r.CapturedAt); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
