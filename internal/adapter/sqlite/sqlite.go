// Package sqlite implements the domain repositories on an on-device SQLite
// file. It is the default local persistence sink.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"time"

	_ "modernc.org/sqlite"

	"moodtrack/internal/domain"
)

const ingestEnabledKey = "ingest_enabled"

// DB wraps a SQLite connection.
type DB struct {
	sql *sql.DB
}

var _ domain.ActivityRepository = (*DB)(nil)
var _ domain.IngestRepository = (*DB)(nil)
var _ domain.PreferenceRepository = (*DB)(nil)

// Open opens (or creates) the database at path and ensures the schema exists.
func Open(path string) (*DB, error) {
	s, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// A single connection keeps appends serialized.
	s.SetMaxOpenConns(1)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if _, err := s.ExecContext(ctx, "PRAGMA journal_mode=WAL"); err != nil {
		_ = s.Close()
		return nil, fmt.Errorf("failed to set WAL mode: %w", err)
	}

	d := &DB{sql: s}
	if err := d.migrate(ctx); err != nil {
		_ = s.Close()
		return nil, err
	}
	return d, nil
}

// Close closes the underlying database.
func (d *DB) Close() error {
	return d.sql.Close()
}

func (d *DB) migrate(ctx context.Context) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS activities (
			id           INTEGER PRIMARY KEY AUTOINCREMENT,
			kind         TEXT    NOT NULL,
			mood         INTEGER NOT NULL CHECK(mood BETWEEN 1 AND 5),
			intensity    INTEGER NOT NULL CHECK(intensity BETWEEN 1 AND 5),
			duration_min INTEGER NOT NULL DEFAULT 0,
			note         TEXT    NOT NULL DEFAULT '',
			created_at   TEXT    NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_activities_created_at ON activities(created_at)`,
		`CREATE TABLE IF NOT EXISTS ingest_records (
			id          INTEGER PRIMARY KEY AUTOINCREMENT,
			latitude    REAL    NOT NULL,
			longitude   REAL    NOT NULL,
			captured_at TEXT    NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS reminder_preferences (
			category TEXT    PRIMARY KEY,
			enabled  INTEGER NOT NULL,
			hour     INTEGER NOT NULL CHECK(hour BETWEEN 0 AND 23),
			minute   INTEGER NOT NULL CHECK(minute BETWEEN 0 AND 59)
		)`,
		`CREATE TABLE IF NOT EXISTS app_settings (
			key   TEXT PRIMARY KEY,
			value TEXT NOT NULL
		)`,
	}
	for _, stmt := range stmts {
		if _, err := d.sql.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}
	return nil
}

// Timestamps are stored as fixed-width UTC text so they sort lexically.
const tsLayout = "2006-01-02T15:04:05.000000000Z"

func formatTS(t time.Time) string { return t.UTC().Format(tsLayout) }

func parseTS(s string) (time.Time, error) { return time.Parse(tsLayout, s) }

// --- ActivityRepository ---

// AddActivity inserts a new activity.
func (d *DB) AddActivity(ctx context.Context, a domain.Activity) (int64, error) {
	res, err := d.sql.ExecContext(ctx,
		`INSERT INTO activities (kind, mood, intensity, duration_min, note, created_at) VALUES (?, ?, ?, ?, ?, ?)`,
		a.Kind, a.Mood, a.Intensity, a.DurationMin, a.Note, formatTS(a.CreatedAt),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to insert activity: %w", err)
	}
	return res.LastInsertId()
}

// DeleteActivity removes an activity by ID.
func (d *DB) DeleteActivity(ctx context.Context, id int64) error {
	_, err := d.sql.ExecContext(ctx, `DELETE FROM activities WHERE id = ?`, id)
	return err
}

// ListRecentActivities returns the most recent activities up to limit.
func (d *DB) ListRecentActivities(ctx context.Context, limit int) ([]domain.Activity, error) {
	rows, err := d.sql.QueryContext(ctx,
		`SELECT id, kind, mood, intensity, duration_min, note, created_at FROM activities ORDER BY created_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanActivities(rows)
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
		`SELECT id, kind, mood, intensity, duration_min, note, created_at FROM activities WHERE created_at >= ? AND created_at < ? ORDER BY created_at ASC`,
		formatTS(dayStart), formatTS(dayEnd),
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanActivities(rows)
}

func scanActivities(rows *sql.Rows) ([]domain.Activity, error) {
	var out []domain.Activity
	for rows.Next() {
		var (
			a  domain.Activity
			ts string
		)
		if err := rows.Scan(&a.ID, &a.Kind, &a.Mood, &a.Intensity, &a.DurationMin, &a.Note, &ts); err != nil {
			return nil, err
		}
		t, err := parseTS(ts)
		if err != nil {
			return nil, fmt.Errorf("activity %d: %w", a.ID, err)
		}
		a.CreatedAt = t
		out = append(out, a)
	}
	return out, rows.Err()
}

// --- IngestRepository ---

// AppendIngestRecord appends a location fix.
func (d *DB) AppendIngestRecord(ctx context.Context, rec domain.IngestRecord) (int64, error) {
	res, err := d.sql.ExecContext(ctx,
		`INSERT INTO ingest_records (latitude, longitude, captured_at) VALUES (?, ?, ?)`,
		rec.Latitude, rec.Longitude, formatTS(rec.CapturedAt),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to append ingest record: %w", err)
	}
	return res.LastInsertId()
}

// ListRecentIngestRecords returns the newest location fixes up to limit.
func (d *DB) ListRecentIngestRecords(ctx context.Context, limit int) ([]domain.IngestRecord, error) {
	rows, err := d.sql.QueryContext(ctx,
		`SELECT id, latitude, longitude, captured_at FROM ingest_records ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]domain.IngestRecord, 0, limit)
	for rows.Next() {
		var (
			r  domain.IngestRecord
			ts string
		)
		if err := rows.Scan(&r.ID, &r.Latitude, &r.Longitude, &ts); err != nil {
			return nil, err
		}
		if r.CapturedAt, err = parseTS(ts); err != nil {
			return nil, fmt.Errorf("ingest record %d: %w", r.ID, err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// --- PreferenceRepository ---

// LoadPreferences returns the stored preferences merged over the defaults.
func (d *DB) LoadPreferences(ctx context.Context) (domain.PreferenceState, error) {
	p := domain.DefaultPreferences()

	rows, err := d.sql.QueryContext(ctx, `SELECT category, enabled, hour, minute FROM reminder_preferences`)
	if err != nil {
		return p, err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			cat     string
			enabled bool
			h, m    int
		)
		if err := rows.Scan(&cat, &enabled, &h, &m); err != nil {
			return p, err
		}
		c, err := domain.ParseCategory(cat)
		if err != nil {
			continue
		}
		p.Reminders[c] = domain.ReminderPreference{Enabled: enabled, Time: domain.ScheduledTime{Hour: h, Minute: m}}
	}
	if err := rows.Err(); err != nil {
		return p, err
	}

	var v string
	err = d.sql.QueryRowContext(ctx, `SELECT value FROM app_settings WHERE key = ?`, ingestEnabledKey).Scan(&v)
	switch {
	case errors.Is(err, sql.ErrNoRows):
	case err != nil:
		return p, err
	default:
		p.IngestEnabled, _ = strconv.ParseBool(v)
	}
	return p, nil
}

// SavePreferences replaces the stored preferences in one transaction.
func (d *DB) SavePreferences(ctx context.Context, p domain.PreferenceState) error {
	tx, err := d.sql.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback() //nolint:errcheck

	for c, r := range p.Reminders {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO reminder_preferences (category, enabled, hour, minute) VALUES (?, ?, ?, ?)
			 ON CONFLICT(category) DO UPDATE SET enabled = excluded.enabled, hour = excluded.hour, minute = excluded.minute`,
			string(c), r.Enabled, r.Time.Hour, r.Time.Minute,
		); err != nil {
			return fmt.Errorf("save reminder %s: %w", c, err)
		}
	}
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO app_settings (key, value) VALUES (?, ?) ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
		ingestEnabledKey, strconv.FormatBool(p.IngestEnabled),
	); err != nil {
		return fmt.Errorf("save ingest flag: %w", err)
	}
	return tx.Commit()
}
