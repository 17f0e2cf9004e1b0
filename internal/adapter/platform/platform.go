// Package platform models the runtime-mutable permission grants and device
// conditions that the host operating system would otherwise own.
package platform

import (
	"sync/atomic"

	"moodtrack/internal/domain"
)

// API levels at which permissions became user-grantable.
const (
	ExactAlarmGatedFrom   = 31
	NotificationGatedFrom = 33
)

// Grants is a snapshot of runtime permission grants.
type Grants struct {
	ExactAlarms    bool `json:"exactAlarms"`
	Notifications  bool `json:"notifications"`
	FineLocation   bool `json:"fineLocation"`
	CoarseLocation bool `json:"coarseLocation"`
}

// Gate implements domain.PermissionGate. Grants may be changed at any time
// from another goroutine.
type Gate struct {
	apiLevel      int
	exactAlarms   atomic.Bool
	notifications atomic.Bool
	fine          atomic.Bool
	coarse        atomic.Bool
}

var _ domain.PermissionGate = (*Gate)(nil)

// NewGate returns a gate for the given platform API level.
func NewGate(apiLevel int, g Grants) *Gate {
	gate := &Gate{apiLevel: apiLevel}
	gate.Set(g)
	return gate
}

// APILevel returns the platform API level the gate evaluates against.
func (g *Gate) APILevel() int { return g.apiLevel }

// Set replaces the runtime grants.
func (g *Gate) Set(gr Grants) {
	g.exactAlarms.Store(gr.ExactAlarms)
	g.notifications.Store(gr.Notifications)
	g.fine.Store(gr.FineLocation)
	g.coarse.Store(gr.CoarseLocation)
}

// Grants returns the raw runtime grants.
func (g *Gate) Grants() Grants {
	return Grants{
		ExactAlarms:    g.exactAlarms.Load(),
		Notifications:  g.notifications.Load(),
		FineLocation:   g.fine.Load(),
		CoarseLocation: g.coarse.Load(),
	}
}

// CanScheduleExactAlarms reports whether exact alarms may be registered.
// Older platforms grant this unconditionally.
func (g *Gate) CanScheduleExactAlarms() bool {
	if g.apiLevel < ExactAlarmGatedFrom {
		return true
	}
	return g.exactAlarms.Load()
}

// NotificationsAllowed reports whether notifications may be posted.
func (g *Gate) NotificationsAllowed() bool {
	if g.apiLevel < NotificationGatedFrom {
		return true
	}
	return g.notifications.Load()
}

// LocationAccess reports the location precision currently granted.
func (g *Gate) LocationAccess() domain.LocationAccess {
	return domain.LocationAccess{Fine: g.fine.Load(), Coarse: g.coarse.Load()}
}

// Conditions is the device state consulted by job constraints and alarm
// delivery.
type Conditions struct {
	batteryLow atomic.Bool
	network    atomic.Bool
	idle       atomic.Bool
}

// ConditionsSnapshot is the JSON form of Conditions.
type ConditionsSnapshot struct {
	BatteryLow       bool `json:"batteryLow"`
	NetworkConnected bool `json:"networkConnected"`
	Idle             bool `json:"idle"`
}

// NewConditions returns device conditions seeded from s.
func NewConditions(s ConditionsSnapshot) *Conditions {
	c := &Conditions{}
	c.Set(s)
	return c
}

// Set replaces all conditions.
func (c *Conditions) Set(s ConditionsSnapshot) {
	c.batteryLow.Store(s.BatteryLow)
	c.network.Store(s.NetworkConnected)
	c.idle.Store(s.Idle)
}

// Snapshot returns the current conditions.
func (c *Conditions) Snapshot() ConditionsSnapshot {
	return ConditionsSnapshot{
		BatteryLow:       c.batteryLow.Load(),
		NetworkConnected: c.network.Load(),
		Idle:             c.idle.Load(),
	}
}

// BatteryLow reports whether the battery is below the low threshold.
func (c *Conditions) BatteryLow() bool { return c.batteryLow.Load() }

// NetworkConnected reports whether any network is available.
func (c *Conditions) NetworkConnected() bool { return c.network.Load() }

// Idle reports whether the device is dozing.
func (c *Conditions) Idle() bool { return c.idle.Load() }
