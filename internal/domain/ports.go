package domain

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrPermissionDenied is returned by platform ports when the process lacks
	// the permission an operation needs.
	ErrPermissionDenied = errors.New("permission denied")
	// ErrNotFound indicates that a requested record does not exist.
	ErrNotFound = errors.New("not found")
)

// Clock abstracts the wall clock so scheduling can be tested.
type Clock interface {
	Now() time.Time
}

// AlarmPort is the platform alarm service. Registering a key that is already
// registered replaces the earlier registration.
type AlarmPort interface {
	// RegisterOneShot arms a single firing at at. Exact registrations may
	// fail with ErrPermissionDenied.
	RegisterOneShot(ctx context.Context, key AlarmKey, at time.Time, exact bool) error
	// RegisterInexactRepeating arms a batched firing at first and every
	// interval after it.
	RegisterInexactRepeating(ctx context.Context, key AlarmKey, first time.Time, interval time.Duration) error
	// Cancel removes key. Cancelling an unknown key is not an error.
	Cancel(ctx context.Context, key AlarmKey) error
}

// LocationAccess is the location permission currently held.
type LocationAccess struct {
	Fine   bool `json:"fine"`
	Coarse bool `json:"coarse"`
}

// Any reports whether either precision is granted.
func (a LocationAccess) Any() bool { return a.Fine || a.Coarse }

// PermissionGate answers permission questions. Answers may change at any time
// and implementations must never block.
type PermissionGate interface {
	CanScheduleExactAlarms() bool
	NotificationsAllowed() bool
	LocationAccess() LocationAccess
}

// Channel describes a notification channel.
type Channel struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Importance string `json:"importance"`
}

// Notification is a user-visible message with a tap action.
type Notification struct {
	ID        string    `json:"id"`
	ChannelID string    `json:"channelId"`
	Title     string    `json:"title"`
	Body      string    `json:"body"`
	TapRoute  string    `json:"tapRoute"`
	PostedAt  time.Time `json:"postedAt"`
}

// NotificationSurface posts notifications. Posting with an existing ID
// replaces the earlier notification.
type NotificationSurface interface {
	EnsureChannel(ctx context.Context, ch Channel) error
	Post(ctx context.Context, n Notification) error
}

// JobResult is the outcome a worker reports to the job scheduler.
type JobResult int

// Job results.
const (
	JobSuccess JobResult = iota
	JobRetry
	JobFailure
)

func (r JobResult) String() string {
	switch r {
	case JobSuccess:
		return "success"
	case JobRetry:
		return "retry"
	case JobFailure:
		return "failure"
	}
	return "unknown"
}

// Worker is a unit of background work.
type Worker interface {
	Run(ctx context.Context) JobResult
}

// ExistingWorkPolicy decides what happens when unique work is enqueued under a
// name that is already scheduled.
type ExistingWorkPolicy int

// Existing work policies.
const (
	KeepExisting ExistingWorkPolicy = iota
	ReplaceExisting
)

// Constraints gate when periodic work may run.
type Constraints struct {
	BatteryNotLow    bool
	NetworkConnected bool
}

// Backoff configures the delay after a JobRetry.
type Backoff struct {
	Initial time.Duration
	Max     time.Duration
}

// PeriodicWork describes a uniquely named periodic job.
type PeriodicWork struct {
	Name        string
	Policy      ExistingWorkPolicy
	Period      time.Duration
	Constraints Constraints
	Backoff     Backoff
	Worker      Worker
}

// JobScheduler is the platform job scheduler.
type JobScheduler interface {
	EnqueueUniquePeriodic(ctx context.Context, w PeriodicWork) error
	CancelUnique(ctx context.Context, name string) error
}
