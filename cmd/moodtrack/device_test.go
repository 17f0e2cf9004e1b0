package main

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"moodtrack/internal/config"
	"moodtrack/internal/domain"
)

func TestOpenStore(t *testing.T) {
	st, err := openStore(config.StoreConfig{Driver: "memory"})
	require.NoError(t, err)
	require.NoError(t, st.Close())

	st, err = openStore(config.StoreConfig{Driver: "sqlite", SQLitePath: filepath.Join(t.TempDir(), "m.db")})
	require.NoError(t, err)
	require.NoError(t, st.Close())

	_, err = openStore(config.StoreConfig{Driver: "bolt"})
	assert.Error(t, err)
}

func TestNewDeviceRearmsStoredPreferences(t *testing.T) {
	cfg, err := config.Load("")
	require.NoError(t, err)
	cfg.Store.Driver = "memory"
	cfg.Timezone = "UTC"

	d, err := newDevice(cfg, zap.NewNop())
	require.NoError(t, err)
	defer d.Close()

	ctx := context.Background()
	p := domain.DefaultPreferences().WithReminder(domain.Medication, domain.ReminderPreference{Enabled: true, Time: domain.ScheduledTime{Hour: 20}})
	require.NoError(t, d.store.SavePreferences(ctx, p))

	results, err := d.settings.Rearm(ctx)
	require.NoError(t, err)
	require.Contains(t, results, domain.Medication)
	assert.True(t, results[domain.Medication].ExactArmed)

	_, ok := d.alarms.Lookup(domain.ExactKey(domain.Medication))
	assert.True(t, ok)
	_, ok = d.alarms.Lookup(domain.RepeatKey(domain.Medication))
	assert.True(t, ok)
}
