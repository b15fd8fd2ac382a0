package preferences

import (
	"time"

	"zentime/internal/core/model"
)

// Settings defines editable user preferences.
type Settings struct {
	Duration        time.Duration
	AmbientSound    model.AmbientSound
	BreathingPhase  time.Duration
	SmoothCountdown bool

	ReminderEnabled bool
	ReminderHour    int
	ReminderMinute  int
	LaunchAtLogin   bool
}

// DefaultSettings returns default settings for ZenTime.
func DefaultSettings() Settings {
	return Settings{
		Duration:        10 * time.Minute,
		AmbientSound:    model.AmbientNone,
		BreathingPhase:  5 * time.Second,
		SmoothCountdown: false,
		ReminderEnabled: false,
		ReminderHour:    8,
		ReminderMinute:  0,
		LaunchAtLogin:   false,
	}
}

// CountdownConfig converts settings to a CountdownConfig.
// Smooth countdowns tick ten times a second instead of once.
func (settings Settings) CountdownConfig() model.CountdownConfig {
	tick := time.Second
	if settings.SmoothCountdown {
		tick = 100 * time.Millisecond
	}
	return model.CountdownConfig{
		Total:        settings.Duration,
		TickInterval: tick,
		Ambient:      settings.AmbientSound,
	}
}

// BreathingConfig converts settings to a BreathingConfig.
func (settings Settings) BreathingConfig() model.BreathingConfig {
	return model.BreathingConfig{
		PhaseDuration: settings.BreathingPhase,
		TickInterval:  100 * time.Millisecond,
		Ambient:       settings.AmbientSound,
	}
}

// ReminderConfig converts settings to a ReminderConfig.
func (settings Settings) ReminderConfig() model.ReminderConfig {
	return model.ReminderConfig{
		Enabled: settings.ReminderEnabled,
		Hour:    settings.ReminderHour,
		Minute:  settings.ReminderMinute,
	}
}
