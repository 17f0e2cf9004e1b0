package domain

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Category identifies a kind of daily reminder.
type Category string

// Reminder categories.
const (
	Hydration  Category = "hydration"
	Medication Category = "medication"
)

// Categories lists every known reminder category in a stable order.
var Categories = []Category{Hydration, Medication}

// ParseCategory returns the category with the given wire name.
func ParseCategory(s string) (Category, error) {
	switch c := Category(strings.ToLower(strings.TrimSpace(s))); c {
	case Hydration, Medication:
		return c, nil
	}
	return "", fmt.Errorf("unknown reminder category %q", s)
}

// RequestsExact reports whether reminders of this category want exact delivery.
// Medication doses are time-sensitive; hydration nudges are not.
func (c Category) RequestsExact() bool {
	return c == Medication
}

// Variant distinguishes the two alarm identities owned by a category.
type Variant string

// Alarm variants.
const (
	VariantExact  Variant = "exact"
	VariantRepeat Variant = "repeat"
)

// AlarmKey is the stable identity of one alarm registration.
type AlarmKey struct {
	Category Category
	Variant  Variant
}

// ExactKey returns the one-shot identity of c.
func ExactKey(c Category) AlarmKey { return AlarmKey{Category: c, Variant: VariantExact} }

// RepeatKey returns the repeating identity of c.
func RepeatKey(c Category) AlarmKey { return AlarmKey{Category: c, Variant: VariantRepeat} }

// String returns the tag form "<category>.<variant>".
func (k AlarmKey) String() string {
	return string(k.Category) + "." + string(k.Variant)
}

// ParseAlarmKey parses the tag form produced by AlarmKey.String.
func ParseAlarmKey(tag string) (AlarmKey, error) {
	cat, variant, ok := strings.Cut(tag, ".")
	if !ok {
		return AlarmKey{}, fmt.Errorf("malformed alarm tag %q", tag)
	}
	c, err := ParseCategory(cat)
	if err != nil {
		return AlarmKey{}, err
	}
	switch v := Variant(variant); v {
	case VariantExact, VariantRepeat:
		return AlarmKey{Category: c, Variant: v}, nil
	}
	return AlarmKey{}, fmt.Errorf("unknown alarm variant %q", variant)
}

// ScheduledTime is a wall-clock time of day with minute resolution.
type ScheduledTime struct {
	Hour   int
	Minute int
}

// NewScheduledTime validates hour and minute.
func NewScheduledTime(hour, minute int) (ScheduledTime, error) {
	if hour < 0 || hour > 23 {
		return ScheduledTime{}, fmt.Errorf("hour %d out of range [0,23]", hour)
	}
	if minute < 0 || minute > 59 {
		return ScheduledTime{}, fmt.Errorf("minute %d out of range [0,59]", minute)
	}
	return ScheduledTime{Hour: hour, Minute: minute}, nil
}

// ParseScheduledTime parses "HH:MM".
func ParseScheduledTime(s string) (ScheduledTime, error) {
	hh, mm, ok := strings.Cut(strings.TrimSpace(s), ":")
	if !ok {
		return ScheduledTime{}, fmt.Errorf("time %q must be HH:MM", s)
	}
	h, err := strconv.Atoi(hh)
	if err != nil {
		return ScheduledTime{}, fmt.Errorf("time %q: bad hour: %w", s, err)
	}
	m, err := strconv.Atoi(mm)
	if err != nil {
		return ScheduledTime{}, fmt.Errorf("time %q: bad minute: %w", s, err)
	}
	return NewScheduledTime(h, m)
}

// String formats the time as "HH:MM".
func (t ScheduledTime) String() string {
	return fmt.Sprintf("%02d:%02d", t.Hour, t.Minute)
}

// MarshalText implements encoding.TextMarshaler.
func (t ScheduledTime) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (t *ScheduledTime) UnmarshalText(b []byte) error {
	v, err := ParseScheduledTime(string(b))
	if err != nil {
		return err
	}
	*t = v
	return nil
}

// NextTrigger returns the next instant after now that matches t in loc.
// A time equal to the current minute has already passed and rolls to tomorrow,
// so the result is always in the future and within one local day. Across a
// DST transition that day may be 23h or 25h of elapsed time.
func NextTrigger(now time.Time, t ScheduledTime, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.Local
	}
	local := now.In(loc)
	y, m, d := local.Date()
	candidate := time.Date(y, m, d, t.Hour, t.Minute, 0, 0, loc)
	if !candidate.After(local.Truncate(time.Minute)) {
		candidate = time.Date(y, m, d+1, t.Hour, t.Minute, 0, 0, loc)
	}
	return candidate
}

// AddDay returns the same wall-clock time one calendar day later in loc.
func AddDay(t time.Time, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.Local
	}
	l := t.In(loc)
	return time.Date(l.Year(), l.Month(), l.Day()+1, l.Hour(), l.Minute(), l.Second(), l.Nanosecond(), loc)
}

// AlarmRegistration is the platform-side record of one armed alarm.
type AlarmRegistration struct {
	Key            AlarmKey      `json:"-"`
	Tag            string        `json:"tag"`
	TriggerAt      time.Time     `json:"triggerAt"`
	Interval       time.Duration `json:"interval"`
	Exact          bool          `json:"exact"`
	AllowWhileIdle bool          `json:"allowWhileIdle"`
}

// Repeating reports whether the registration re-arms after firing.
func (r AlarmRegistration) Repeating() bool {
	return r.Interval > 0
}
