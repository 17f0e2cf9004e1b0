package domain

import "context"

// ReminderPreference is the user's choice for one reminder category.
type ReminderPreference struct {
	Enabled bool          `json:"enabled"`
	Time    ScheduledTime `json:"time"`
}

// PreferenceState is the full set of scheduling preferences. It is passed by
// value into scheduling calls rather than read from shared state.
type PreferenceState struct {
	Reminders     map[Category]ReminderPreference `json:"reminders"`
	IngestEnabled bool                            `json:"ingestEnabled"`
}

// DefaultPreferences returns the state used before the user saves anything.
func DefaultPreferences() PreferenceState {
	return PreferenceState{
		Reminders: map[Category]ReminderPreference{
			Hydration:  {Enabled: false, Time: ScheduledTime{Hour: 9}},
			Medication: {Enabled: false, Time: ScheduledTime{Hour: 20}},
		},
	}
}

// Reminder returns the preference for c, falling back to the default.
func (p PreferenceState) Reminder(c Category) ReminderPreference {
	if r, ok := p.Reminders[c]; ok {
		return r
	}
	return DefaultPreferences().Reminders[c]
}

// WithReminder returns a copy of p with the preference for c replaced.
func (p PreferenceState) WithReminder(c Category, r ReminderPreference) PreferenceState {
	out := PreferenceState{
		Reminders:     make(map[Category]ReminderPreference, len(Categories)),
		IngestEnabled: p.IngestEnabled,
	}
	for _, cat := range Categories {
		out.Reminders[cat] = p.Reminder(cat)
	}
	out.Reminders[c] = r
	return out
}

// PreferenceRepository is the port for preference persistence.
type PreferenceRepository interface {
	LoadPreferences(ctx context.Context) (PreferenceState, error)
	SavePreferences(ctx context.Context, p PreferenceState) error
}
