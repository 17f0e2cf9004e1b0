// Package jobsched is an in-process periodic job scheduler with unique work
// names, run constraints, and exponential retry backoff.
package jobsched

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"moodtrack/internal/domain"
	"moodtrack/internal/logging"
	"moodtrack/internal/metrics"
)

// Defaults applied when neither the work nor the options say otherwise.
const (
	DefaultMinPeriod       = 15 * time.Minute
	DefaultExecutionBudget = 10 * time.Minute
	DefaultInitialBackoff  = 30 * time.Second
	DefaultMaxBackoff      = 5 * time.Hour
)

// ErrStopped is returned when enqueueing on a stopped scheduler.
var ErrStopped = errors.New("job scheduler stopped")

// Conditions reports the device state that constraints are checked against.
type Conditions interface {
	BatteryLow() bool
	NetworkConnected() bool
}

// Option configures a Scheduler.
type Option func(*Scheduler)

// WithMinPeriod overrides the minimum period work is clamped to.
func WithMinPeriod(d time.Duration) Option {
	return func(s *Scheduler) { s.minPeriod = d }
}

// WithExecutionBudget overrides how long one invocation may run.
func WithExecutionBudget(d time.Duration) Option {
	return func(s *Scheduler) { s.budget = d }
}

// Scheduler implements domain.JobScheduler.
type Scheduler struct {
	mu        sync.Mutex
	jobs      map[string]*job
	draining  map[string]*job
	cond      Conditions
	log       *zap.Logger
	minPeriod time.Duration
	budget    time.Duration

	ctx     context.Context
	cancel  context.CancelFunc
	wg      sync.WaitGroup
	stopped bool
}

type job struct {
	id     string
	work   domain.PeriodicWork
	cancel context.CancelFunc
	done   chan struct{}
	prev   <-chan struct{}
}

var _ domain.JobScheduler = (*Scheduler)(nil)

// New returns a running scheduler. Call Stop to release its goroutines.
func New(cond Conditions, log *zap.Logger, opts ...Option) *Scheduler {
	ctx, cancel := context.WithCancel(context.Background())
	s := &Scheduler{
		jobs:      make(map[string]*job),
		draining:  make(map[string]*job),
		cond:      cond,
		log:       logging.OrNop(log),
		minPeriod: DefaultMinPeriod,
		budget:    DefaultExecutionBudget,
		ctx:       ctx,
		cancel:    cancel,
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// EnqueueUniquePeriodic schedules w under w.Name. With KeepExisting an
// already scheduled name is left untouched; with ReplaceExisting the old work
// stops and the new work starts once any in-flight invocation has finished.
func (s *Scheduler) EnqueueUniquePeriodic(_ context.Context, w domain.PeriodicWork) error {
	if w.Name == "" {
		return errors.New("periodic work needs a name")
	}
	if w.Worker == nil {
		return fmt.Errorf("periodic work %q has no worker", w.Name)
	}
	if w.Period < s.minPeriod {
		w.Period = s.minPeriod
	}
	if w.Backoff.Initial <= 0 {
		w.Backoff.Initial = DefaultInitialBackoff
	}
	if w.Backoff.Max <= 0 {
		w.Backoff.Max = DefaultMaxBackoff
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stopped {
		return ErrStopped
	}

	var prev <-chan struct{}
	if existing, ok := s.jobs[w.Name]; ok {
		if w.Policy == domain.KeepExisting {
			s.log.Debug("periodic work already scheduled", zap.String("job", w.Name), zap.String("job_id", existing.id))
			return nil
		}
		existing.cancel()
		prev = existing.done
	} else if d, ok := s.draining[w.Name]; ok {
		prev = d.done
	}

	ctx, cancel := context.WithCancel(s.ctx)
	j := &job{
		id:     uuid.NewString(),
		work:   w,
		cancel: cancel,
		done:   make(chan struct{}),
		prev:   prev,
	}
	s.jobs[w.Name] = j
	s.wg.Add(1)
	go s.loop(ctx, j)

	s.log.Info("periodic work scheduled",
		zap.String("job", w.Name),
		zap.String("job_id", j.id),
		zap.Duration("period", w.Period),
		zap.Duration("backoff_initial", w.Backoff.Initial),
	)
	return nil
}

// CancelUnique stops future invocations of name. An invocation already
// running is allowed to finish, and work enqueued under name meanwhile waits
// for it. Unknown names are ignored.
func (s *Scheduler) CancelUnique(_ context.Context, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if j, ok := s.jobs[name]; ok {
		j.cancel()
		delete(s.jobs, name)
		s.draining[name] = j
		s.log.Info("periodic work cancelled", zap.String("job", name), zap.String("job_id", j.id))
	}
	return nil
}

// Active returns the names of scheduled work.
func (s *Scheduler) Active() []string {
	s.mu.Lock()
	out := make([]string, 0, len(s.jobs))
	for name := range s.jobs {
		out = append(out, name)
	}
	s.mu.Unlock()
	sort.Strings(out)
	return out
}

// Stop cancels all work and waits for in-flight invocations to return.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	s.stopped = true
	s.jobs = make(map[string]*job)
	s.draining = make(map[string]*job)
	s.mu.Unlock()

	s.cancel()
	s.wg.Wait()
}

func (s *Scheduler) loop(ctx context.Context, j *job) {
	defer s.wg.Done()
	defer s.retire(j)

	if j.prev != nil {
		// done must not close before prev, even when cancelled.
		select {
		case <-ctx.Done():
			<-j.prev
			return
		case <-j.prev:
		}
	}

	name := j.work.Name
	attempt := 0
	var delay time.Duration
	timer := time.NewTimer(delay)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-timer.C:
		}

		if unmet := s.unmet(j.work.Constraints); unmet != "" {
			metrics.JobsDeferred.WithLabelValues(name, unmet).Inc()
			s.log.Debug("periodic work deferred", zap.String("job", name), zap.String("constraint", unmet))
			timer.Reset(j.work.Period)
			continue
		}

		res := s.invoke(ctx, j)
		metrics.JobRuns.WithLabelValues(name, res.String()).Inc()

		if res == domain.JobRetry {
			attempt++
			delay = backoff(j.work.Backoff, attempt)
		} else {
			attempt = 0
			delay = j.work.Period
		}
		s.log.Info("periodic work finished",
			zap.String("job", name),
			zap.String("result", res.String()),
			zap.Int("attempt", attempt),
			zap.Duration("next_in", delay),
		)
		timer.Reset(delay)
	}
}

func (s *Scheduler) retire(j *job) {
	s.mu.Lock()
	if s.draining[j.work.Name] == j {
		delete(s.draining, j.work.Name)
	}
	s.mu.Unlock()
	close(j.done)
}

// invoke runs one invocation on a context that survives cancellation of the
// work, bounded by the execution budget.
func (s *Scheduler) invoke(ctx context.Context, j *job) (res domain.JobResult) {
	runCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.budget)
	defer cancel()
	defer func() {
		if r := recover(); r != nil {
			s.log.Error("periodic work panicked", zap.String("job", j.work.Name), zap.Any("panic", r))
			res = domain.JobRetry
		}
	}()
	return j.work.Worker.Run(runCtx)
}

func (s *Scheduler) unmet(c domain.Constraints) string {
	if s.cond == nil {
		return ""
	}
	if c.BatteryNotLow && s.cond.BatteryLow() {
		return "battery_not_low"
	}
	if c.NetworkConnected && !s.cond.NetworkConnected() {
		return "network_connected"
	}
	return ""
}

// backoff returns initial * 2^(attempt-1), capped at b.Max.
func backoff(b domain.Backoff, attempt int) time.Duration {
	d := b.Initial
	for i := 1; i < attempt; i++ {
		d *= 2
		if d >= b.Max {
			return b.Max
		}
	}
	if d > b.Max {
		return b.Max
	}
	return d
}
