package feedback

import (
	"math"
	"time"

	"github.com/faiface/beep"
	"github.com/rs/zerolog"

	"zentime/internal/core/timing"
)

// Bell tones. A bell decays exponentially over its length.
const (
	startBellHz     = 528
	endBellHz       = 432
	phaseTickHz     = 880
	bellLength      = 1500 * time.Millisecond
	phaseTickLength = 120 * time.Millisecond
	endBellGap      = 400 * time.Millisecond
)

// Chimes plays synthesized bells for cues. Desktops have no haptic engine,
// so light impacts become a short soft tick.
type Chimes struct {
	output Output
	volume float64
	logger zerolog.Logger
}

// NewChimes creates cue bells mixed into output at volume (0..1).
func NewChimes(output Output, volume float64, logger zerolog.Logger) *Chimes {
	return &Chimes{output: output, volume: volume, logger: logger}
}

// Impact rings the start bell, or a tick for light impacts.
func (chimes *Chimes) Impact(kind timing.ImpactKind) error {
	chimes.logger.Debug().Str("impact", string(kind)).Msg("cue")
	sampleRate := chimes.output.SampleRate()
	if kind == timing.ImpactLight {
		return chimes.play(tone(sampleRate, phaseTickHz, phaseTickLength, 0.5))
	}
	return chimes.play(tone(sampleRate, startBellHz, bellLength, 1))
}

// Success rings the end bell twice.
func (chimes *Chimes) Success() error {
	chimes.logger.Debug().Msg("success cue")
	sampleRate := chimes.output.SampleRate()
	return chimes.play(beep.Seq(
		tone(sampleRate, endBellHz, bellLength, 1),
		beep.Silence(sampleRate.N(endBellGap)),
		tone(sampleRate, endBellHz, bellLength, 1),
	))
}

func (chimes *Chimes) play(streamer beep.Streamer) error {
	return chimes.output.Play(withVolume(streamer, chimes.volume))
}

// tone is a decaying sine of the given frequency and length.
func tone(sampleRate beep.SampleRate, hz float64, length time.Duration, gain float64) beep.Streamer {
	total := sampleRate.N(length)
	decay := 5 / length.Seconds()
	position := 0
	return beep.StreamerFunc(func(samples [][2]float64) (int, bool) {
		if position >= total {
			return 0, false
		}
		n := 0
		for i := range samples {
			if position >= total {
				break
			}
			t := float64(position) / float64(sampleRate)
			value := gain * math.Exp(-decay*t) * math.Sin(2*math.Pi*hz*t)
			samples[i][0], samples[i][1] = value, value
			position++
			n++
		}
		return n, true
	})
}
