package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"

	"moodtrack/internal/domain"
)

const ingestEnabledKey = "ingest_enabled"

// LoadPreferences returns the stored preferences merged over the defaults.
func (d *DB) LoadPreferences(ctx context.Context) (domain.PreferenceState, error) {
	p := domain.DefaultPreferences()

	rows, err := d.sql.QueryContext(ctx, "SELECT category, enabled, hour, minute FROM reminder_preferences;")
	if err != nil {
		return p, err
	}
	defer rows.Close() //nolint:errcheck

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
	err = d.sql.QueryRowContext(ctx, "SELECT value FROM app_settings WHERE key=$1;", ingestEnabledKey).Scan(&v)
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
			"INSERT INTO reminder_preferences(category, enabled, hour, minute) VALUES($1, $2, $3, $4) ON CONFLICT (category) DO UPDATE SET enabled=EXCLUDED.enabled, hour=EXCLUDED.hour, minute=EXCLUDED.minute;",
			string(c), r.Enabled, r.Time.Hour, r.Time.Minute,
		); err != nil {
			return fmt.Errorf("save reminder %s: %w", c, err)
		}
	}
	if _, err := tx.ExecContext(ctx,
		"INSERT INTO app_settings(key, value) VALUES($1, $2) ON CONFLICT (key) DO UPDATE SET value=EXCLUDED.value;",
		ingestEnabledKey, strconv.FormatBool(p.IngestEnabled),
	); err != nil {
		return fmt.Errorf("save ingest flag: %w", err)
	}
	return tx.Commit()
}
