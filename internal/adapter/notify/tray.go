// Package notify implements the notification surface as an in-process tray
// with one slot per notification ID.
package notify

import (
	"context"
	"errors"
	"sort"
	"sync"

	"go.uber.org/zap"

	"moodtrack/internal/domain"
	"moodtrack/internal/logging"
)

// ErrUnknownChannel is returned when posting to a channel that was never created.
var ErrUnknownChannel = errors.New("unknown notification channel")

// Tray stores the notifications currently shown to the user.
type Tray struct {
	mu       sync.Mutex
	log      *zap.Logger
	channels map[string]domain.Channel
	slots    map[string]domain.Notification
	posts    int
}

var _ domain.NotificationSurface = (*Tray)(nil)

// NewTray returns an empty tray.
func NewTray(log *zap.Logger) *Tray {
	return &Tray{
		log:      logging.OrNop(log),
		channels: make(map[string]domain.Channel),
		slots:    make(map[string]domain.Notification),
	}
}

// EnsureChannel creates ch if it does not exist. Existing channels keep their
// original settings.
func (t *Tray) EnsureChannel(_ context.Context, ch domain.Channel) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if _, ok := t.channels[ch.ID]; ok {
		return nil
	}
	t.channels[ch.ID] = ch
	t.log.Info("notification channel created", zap.String("channel", ch.ID), zap.String("importance", ch.Importance))
	return nil
}

// Post shows n, replacing any notification with the same ID.
func (t *Tray) Post(_ context.Context, n domain.Notification) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if _, ok := t.channels[n.ChannelID]; !ok {
		return ErrUnknownChannel
	}
	_, replaced := t.slots[n.ID]
	t.slots[n.ID] = n
	t.posts++
	t.log.Info("notification posted",
		zap.String("id", n.ID),
		zap.String("title", n.Title),
		zap.String("tap_route", n.TapRoute),
		zap.Bool("replaced", replaced),
	)
	return nil
}

// Dismiss removes the notification with the given ID, if shown.
func (t *Tray) Dismiss(id string) {
	t.mu.Lock()
	delete(t.slots, id)
	t.mu.Unlock()
}

// List returns the shown notifications, most recent first.
func (t *Tray) List() []domain.Notification {
	t.mu.Lock()
	out := make([]domain.Notification, 0, len(t.slots))
	for _, n := range t.slots {
		out = append(out, n)
	}
	t.mu.Unlock()

	sort.Slice(out, func(i, j int) bool {
		if out[i].PostedAt.Equal(out[j].PostedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].PostedAt.After(out[j].PostedAt)
	})
	return out
}

// Posts returns how many times Post succeeded, including replacements.
func (t *Tray) Posts() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.posts
}

// Channels returns the number of channels created.
func (t *Tray) Channels() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.channels)
}
