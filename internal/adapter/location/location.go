// Package location provides location fix sources.
package location

import (
	"context"
	"sync"

	"moodtrack/internal/domain"
)

// Static returns a configured fix, or no fix when none is set.
type Static struct {
	mu    sync.RWMutex
	clock domain.Clock
	fix   *domain.Location
}

var _ domain.LocationProvider = (*Static)(nil)

// NewStatic returns a provider with no fix.
func NewStatic(clock domain.Clock) *Static {
	return &Static{clock: clock}
}

// SetFix replaces the fix. A nil fix makes CurrentFix report no result.
func (s *Static) SetFix(fix *domain.Location) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if fix == nil {
		s.fix = nil
		return
	}
	cp := *fix
	s.fix = &cp
}

// CurrentFix returns the configured fix stamped with the current time.
// BalancedPower fixes are reported with at least 100m accuracy.
func (s *Static) CurrentFix(ctx context.Context, profile domain.AccuracyProfile) (*domain.Location, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.fix == nil {
		return nil, nil
	}
	out := *s.fix
	out.At = s.clock.Now()
	if profile == domain.BalancedPower && out.AccuracyMeters < 100 {
		out.AccuracyMeters = 100
	}
	return &out, nil
}
