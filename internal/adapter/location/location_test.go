package location

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"moodtrack/internal/clock"
	"moodtrack/internal/domain"
)

func TestStatic(t *testing.T) {
	now := time.Date(2026, 4, 1, 12, 0, 0, 0, time.UTC)
	s := NewStatic(clock.NewFake(now))

	fix, err := s.CurrentFix(context.Background(), domain.BalancedPower)
	require.NoError(t, err)
	assert.Nil(t, fix)

	s.SetFix(&domain.Location{Latitude: 52.52, Longitude: 13.40, AccuracyMeters: 5})
	fix, err = s.CurrentFix(context.Background(), domain.BalancedPower)
	require.NoError(t, err)
	require.NotNil(t, fix)
	assert.Equal(t, 52.52, fix.Latitude)
	assert.Equal(t, now, fix.At)
	assert.Equal(t, 100.0, fix.AccuracyMeters)

	fix, err = s.CurrentFix(context.Background(), domain.HighAccuracy)
	require.NoError(t, err)
	assert.Equal(t, 5.0, fix.AccuracyMeters)
}

func TestStatic_CanceledContext(t *testing.T) {
	s := NewStatic(clock.Real{})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := s.CurrentFix(ctx, domain.BalancedPower)
	assert.ErrorIs(t, err, context.Canceled)
}
