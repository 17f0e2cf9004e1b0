// Package postgres implements the domain repositories using PostgreSQL.
package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"

	"moodtrack/internal/domain"
)

// DB wraps a *sql.DB and implements domain repository interfaces.
type DB struct {
	sql *sql.DB
}

var _ domain.ActivityRepository = (*DB)(nil)
var _ domain.IngestRepository = (*DB)(nil)
var _ domain.PreferenceRepository = (*DB)(nil)

// Open connects to PostgreSQL, pings, and runs migrations.
func Open(connStr string) (*DB, error) {
	s, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, err
	}
	s.SetMaxOpenConns(10)
	s.SetMaxIdleConns(5)
	s.SetConnMaxLifetime(5 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.PingContext(ctx); err != nil {
		_ = s.Close()
		return nil, err
	}

	d := &DB{sql: s}
	if err := d.migrate(ctx); err != nil {
		_ = s.Close()
		return nil, err
	}
	return d, nil
}

// Close closes the underlying database connection.
func (d *DB) Close() error {
	return d.sql.Close()
}

func (d *DB) migrate(ctx context.Context) error {
	stmts := []string{
		"CREATE TABLE IF NOT EXISTS activities (id BIGSERIAL PRIMARY KEY, kind TEXT NOT NULL, mood SMALLINT NOT NULL CHECK(mood BETWEEN 1 AND 5), intensity SMALLINT NOT NULL CHECK(intensity BETWEEN 1 AND 5), duration_min INTEGER NOT NULL DEFAULT 0, note TEXT NOT NULL DEFAULT '', created_at TIMESTAMPTZ NOT NULL);",
		"CREATE INDEX IF NOT EXISTS idx_activities_created_at ON activities(created_at);",
		"CREATE TABLE IF NOT EXISTS ingest_records (id BIGSERIAL PRIMARY KEY, latitude DOUBLE PRECISION NOT NULL, longitude DOUBLE PRECISION NOT NULL, captured_at TIMESTAMPTZ NOT NULL);",
		"CREATE INDEX IF NOT EXISTS idx_ingest_records_captured_at ON ingest_records(captured_at);",
		"CREATE TABLE IF NOT EXISTS reminder_preferences (category TEXT PRIMARY KEY, enabled BOOLEAN NOT NULL, hour SMALLINT NOT NULL CHECK(hour BETWEEN 0 AND 23), minute SMALLINT NOT NULL CHECK(minute BETWEEN 0 AND 59));",
		"CREATE TABLE IF NOT EXISTS app_settings (key TEXT PRIMARY KEY, value TEXT NOT NULL);",
	}

	for _, stmt := range stmts {
		if _, err := d.sql.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}
	return nil
}
