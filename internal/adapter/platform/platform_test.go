package platform

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGate_OlderPlatformsAlwaysGrant(t *testing.T) {
	g := NewGate(30, Grants{})
	assert.True(t, g.CanScheduleExactAlarms())
	assert.True(t, g.NotificationsAllowed())
	assert.False(t, g.LocationAccess().Any(), "location is always runtime-gated")
}

func TestGate_NewerPlatformsUseGrants(t *testing.T) {
	g := NewGate(34, Grants{ExactAlarms: false, Notifications: true, CoarseLocation: true})
	assert.False(t, g.CanScheduleExactAlarms())
	assert.True(t, g.NotificationsAllowed())
	assert.True(t, g.LocationAccess().Any())
	assert.False(t, g.LocationAccess().Fine)

	g.Set(Grants{ExactAlarms: true})
	assert.True(t, g.CanScheduleExactAlarms())
	assert.False(t, g.NotificationsAllowed())
	assert.False(t, g.LocationAccess().Any())
}

func TestGate_NotificationGateStartsAt33(t *testing.T) {
	g := NewGate(32, Grants{})
	assert.False(t, g.CanScheduleExactAlarms())
	assert.True(t, g.NotificationsAllowed())
}

func TestConditions(t *testing.T) {
	c := NewConditions(ConditionsSnapshot{NetworkConnected: true})
	assert.False(t, c.BatteryLow())
	assert.True(t, c.NetworkConnected())

	c.Set(ConditionsSnapshot{BatteryLow: true, Idle: true})
	assert.Equal(t, ConditionsSnapshot{BatteryLow: true, Idle: true}, c.Snapshot())
}
