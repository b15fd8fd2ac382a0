package model

import "time"

// AmbientSound identifies a looping background sound.
type AmbientSound string

const (
	AmbientNone       AmbientSound = "none"
	AmbientRain       AmbientSound = "rain"
	AmbientBrownNoise AmbientSound = "brown_noise"
	AmbientOmTone     AmbientSound = "om_tone"
)

// AmbientSounds lists every selectable sound in display order.
var AmbientSounds = []AmbientSound{AmbientNone, AmbientRain, AmbientBrownNoise, AmbientOmTone}

// DisplayName returns the user facing name of the sound.
func (sound AmbientSound) DisplayName() string {
	switch sound {
	case AmbientRain:
		return "Rain"
	case AmbientBrownNoise:
		return "Brown Noise"
	case AmbientOmTone:
		return "Om Tone"
	default:
		return "None"
	}
}

// FileName returns the audio asset backing the sound, or "" for AmbientNone.
func (sound AmbientSound) FileName() string {
	switch sound {
	case AmbientRain:
		return "rain_sound.mp3"
	case AmbientBrownNoise:
		return "brown_noise.mp3"
	case AmbientOmTone:
		return "om_tone.mp3"
	default:
		return ""
	}
}

// ParseAmbientSound maps a stored identifier back to a sound.
// Unknown identifiers map to AmbientNone.
func ParseAmbientSound(value string) AmbientSound {
	for _, sound := range AmbientSounds {
		if string(sound) == value {
			return sound
		}
	}
	return AmbientNone
}

// DurationPresets are the session lengths offered by the duration selector.
var DurationPresets = []time.Duration{
	1 * time.Minute,
	5 * time.Minute,
	10 * time.Minute,
	15 * time.Minute,
	20 * time.Minute,
	30 * time.Minute,
	45 * time.Minute,
	60 * time.Minute,
}

// CountdownConfig contains runtime settings for the meditation countdown.
type CountdownConfig struct {
	Total        time.Duration
	TickInterval time.Duration
	Ambient      AmbientSound
}

// BreathingConfig contains runtime settings for the box breathing cycle.
type BreathingConfig struct {
	PhaseDuration time.Duration
	TickInterval  time.Duration
	Ambient       AmbientSound
}

// ReminderConfig defines the daily meditation reminder.
type ReminderConfig struct {
	Enabled bool
	Hour    int
	Minute  int
}
