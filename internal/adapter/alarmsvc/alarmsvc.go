// Package alarmsvc is an in-process alarm manager. It keeps one registration
// per alarm key and delivers due alarms to a handler.
package alarmsvc

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"go.uber.org/zap"

	"moodtrack/internal/domain"
	"moodtrack/internal/logging"
	"moodtrack/internal/metrics"
)

// Handler receives fired alarms by tag.
type Handler func(ctx context.Context, tag string)

// IdleReporter reports whether the device is dozing.
type IdleReporter interface {
	Idle() bool
}

// DefaultTick is how often Run checks for due alarms.
const DefaultTick = time.Second

// Service implements domain.AlarmPort.
type Service struct {
	mu      sync.Mutex
	regs    map[domain.AlarmKey]domain.AlarmRegistration
	clock   domain.Clock
	gate    domain.PermissionGate
	idle    IdleReporter
	handler Handler
	log     *zap.Logger
	tick    time.Duration
}

var _ domain.AlarmPort = (*Service)(nil)

// New returns a Service delivering to handler. idle may be nil.
func New(clock domain.Clock, gate domain.PermissionGate, idle IdleReporter, handler Handler, log *zap.Logger) *Service {
	return &Service{
		regs:    make(map[domain.AlarmKey]domain.AlarmRegistration),
		clock:   clock,
		gate:    gate,
		idle:    idle,
		handler: handler,
		log:     logging.OrNop(log),
		tick:    DefaultTick,
	}
}

// RegisterOneShot arms a single firing. Exact one-shots are refused with
// domain.ErrPermissionDenied while the gate denies exact alarms.
func (s *Service) RegisterOneShot(_ context.Context, key domain.AlarmKey, at time.Time, exact bool) error {
	if exact && !s.gate.CanScheduleExactAlarms() {
		return fmt.Errorf("register %s: %w", key, domain.ErrPermissionDenied)
	}
	s.put(domain.AlarmRegistration{
		Key:            key,
		Tag:            key.String(),
		TriggerAt:      at,
		Exact:          exact,
		AllowWhileIdle: true,
	})
	return nil
}

// RegisterInexactRepeating arms a repeating firing.
func (s *Service) RegisterInexactRepeating(_ context.Context, key domain.AlarmKey, first time.Time, interval time.Duration) error {
	if interval <= 0 {
		return fmt.Errorf("register %s: interval must be positive, got %v", key, interval)
	}
	s.put(domain.AlarmRegistration{
		Key:       key,
		Tag:       key.String(),
		TriggerAt: first,
		Interval:  interval,
	})
	return nil
}

func (s *Service) put(reg domain.AlarmRegistration) {
	s.mu.Lock()
	_, replaced := s.regs[reg.Key]
	s.regs[reg.Key] = reg
	n := len(s.regs)
	s.mu.Unlock()

	metrics.AlarmsRegistered.Set(float64(n))
	s.log.Debug("alarm registered",
		zap.String("tag", reg.Tag),
		zap.Time("trigger_at", reg.TriggerAt),
		zap.Duration("interval", reg.Interval),
		zap.Bool("exact", reg.Exact),
		zap.Bool("replaced", replaced),
	)
}

// Cancel removes key. Unknown keys are ignored.
func (s *Service) Cancel(_ context.Context, key domain.AlarmKey) error {
	s.mu.Lock()
	_, ok := s.regs[key]
	delete(s.regs, key)
	n := len(s.regs)
	s.mu.Unlock()

	metrics.AlarmsRegistered.Set(float64(n))
	if ok {
		s.log.Debug("alarm cancelled", zap.String("tag", key.String()))
	}
	return nil
}

// Registrations returns the armed alarms ordered by tag.
func (s *Service) Registrations() []domain.AlarmRegistration {
	s.mu.Lock()
	out := make([]domain.AlarmRegistration, 0, len(s.regs))
	for _, r := range s.regs {
		out = append(out, r)
	}
	s.mu.Unlock()

	sort.Slice(out, func(i, j int) bool { return out[i].Tag < out[j].Tag })
	return out
}

// Lookup returns the registration for key.
func (s *Service) Lookup(key domain.AlarmKey) (domain.AlarmRegistration, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.regs[key]
	return r, ok
}

// FireDue delivers every registration due at now and returns how many fired.
// One-shots are removed; repeating alarms move to their first trigger after
// now, so missed periods are delivered once. While the device is idle only
// allow-while-idle registrations fire; the rest wait.
func (s *Service) FireDue(ctx context.Context, now time.Time) int {
	idle := s.idle != nil && s.idle.Idle()

	s.mu.Lock()
	var due []domain.AlarmRegistration
	for key, r := range s.regs {
		if r.TriggerAt.After(now) {
			continue
		}
		if idle && !r.AllowWhileIdle {
			continue
		}
		due = append(due, r)
		if !r.Repeating() {
			delete(s.regs, key)
			continue
		}
		next := r.TriggerAt
		for !next.After(now) {
			next = next.Add(r.Interval)
		}
		r.TriggerAt = next
		s.regs[key] = r
	}
	n := len(s.regs)
	s.mu.Unlock()

	if len(due) == 0 {
		return 0
	}
	metrics.AlarmsRegistered.Set(float64(n))

	sort.Slice(due, func(i, j int) bool {
		if due[i].TriggerAt.Equal(due[j].TriggerAt) {
			return due[i].Tag < due[j].Tag
		}
		return due[i].TriggerAt.Before(due[j].TriggerAt)
	})
	for _, r := range due {
		metrics.AlarmsFired.WithLabelValues(r.Tag).Inc()
		s.log.Info("alarm fired", zap.String("tag", r.Tag), zap.Time("scheduled_for", r.TriggerAt))
		if s.handler != nil {
			s.handler(ctx, r.Tag)
		}
	}
	return len(due)
}

// Run checks for due alarms every tick until ctx is done.
func (s *Service) Run(ctx context.Context) error {
	t := time.NewTicker(s.tick)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-t.C:
			s.FireDue(ctx, s.clock.Now())
		}
	}
}
