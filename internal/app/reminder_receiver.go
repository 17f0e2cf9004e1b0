package app

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"moodtrack/internal/domain"
	"moodtrack/internal/logging"
	"moodtrack/internal/metrics"
)

// ReminderChannel is the notification channel all reminders are posted to.
var ReminderChannel = domain.Channel{ID: "reminders", Name: "Reminders", Importance: "high"}

// DefaultTapRoute opens the activity log.
const DefaultTapRoute = "/log"

type reminderCopy struct {
	title string
	body  string
}

var reminderCopies = map[domain.Category]reminderCopy{
	domain.Hydration:  {title: "Time to hydrate", body: "Drink a glass of water and log how you feel."},
	domain.Medication: {title: "Medication reminder", body: "It's time to take your medication."},
}

var genericCopy = reminderCopy{title: "Reminder", body: "You have a scheduled reminder."}

// ReminderReceiver turns fired alarms into notifications.
type ReminderReceiver struct {
	surface domain.NotificationSurface
	gate    domain.PermissionGate
	clock   domain.Clock
	route   string
	log     *zap.Logger

	channelMu sync.Mutex
	channelOK bool
}

// NewReminderReceiver creates a receiver whose notifications open route when
// tapped (DefaultTapRoute when empty).
func NewReminderReceiver(surface domain.NotificationSurface, gate domain.PermissionGate, clock domain.Clock, route string, log *zap.Logger) *ReminderReceiver {
	if route == "" {
		route = DefaultTapRoute
	}
	return &ReminderReceiver{
		surface: surface,
		gate:    gate,
		clock:   clock,
		route:   route,
		log:     logging.OrNop(log),
	}
}

// NotificationID is the tray slot used for alarms with the given tag.
func NotificationID(tag string) string {
	return "reminder." + tag
}

// OnAlarm handles one alarm delivery. It never returns an error or panics;
// failures are logged and the delivery is dropped.
func (r *ReminderReceiver) OnAlarm(ctx context.Context, tag string) {
	log := r.log.With(zap.String("tag", tag))
	defer func() {
		if p := recover(); p != nil {
			metrics.ReminderNotifications.WithLabelValues(tag, "error").Inc()
			log.Error("reminder receiver panicked", zap.Any("panic", p))
		}
	}()

	if !r.gate.NotificationsAllowed() {
		metrics.ReminderNotifications.WithLabelValues(tag, "blocked").Inc()
		log.Info("notifications not allowed, dropping reminder")
		return
	}

	if err := r.ensureChannel(ctx); err != nil {
		metrics.ReminderNotifications.WithLabelValues(tag, "error").Inc()
		log.Error("failed to create reminder channel", zap.Error(err))
		return
	}

	cp := genericCopy
	if key, err := domain.ParseAlarmKey(tag); err == nil {
		if c, ok := reminderCopies[key.Category]; ok {
			cp = c
		}
	} else {
		log.Warn("unrecognised alarm tag, using generic copy", zap.Error(err))
	}

	n := domain.Notification{
		ID:        NotificationID(tag),
		ChannelID: ReminderChannel.ID,
		Title:     cp.title,
		Body:      cp.body,
		TapRoute:  r.route,
		PostedAt:  r.clock.Now(),
	}
	if err := r.surface.Post(ctx, n); err != nil {
		metrics.ReminderNotifications.WithLabelValues(tag, "error").Inc()
		log.Error("failed to post reminder", zap.Error(err))
		return
	}
	metrics.ReminderNotifications.WithLabelValues(tag, "posted").Inc()
	log.Info("reminder posted", zap.String("notification_id", n.ID))
}

// A failed channel creation is retried on the next delivery.
func (r *ReminderReceiver) ensureChannel(ctx context.Context) error {
	r.channelMu.Lock()
	defer r.channelMu.Unlock()
	if r.channelOK {
		return nil
	}
	if err := r.surface.EnsureChannel(ctx, ReminderChannel); err != nil {
		return fmt.Errorf("ensure channel %s: %w", ReminderChannel.ID, err)
	}
	r.channelOK = true
	return nil
}
