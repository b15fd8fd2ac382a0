package timing

import (
	"fmt"

	"github.com/rs/zerolog"

	"zentime/internal/core/model"
)

// ImpactKind is the strength of an impact feedback.
type ImpactKind string

const (
	ImpactLight  ImpactKind = "light"
	ImpactMedium ImpactKind = "medium"
)

// Feedback plays haptic or audible cues.
type Feedback interface {
	Impact(kind ImpactKind) error
	Success() error
}

// Notifier delivers a user notification.
type Notifier interface {
	Deliver(title, body string) error
}

// Ambient plays a looping background sound.
type Ambient interface {
	Play(sound model.AmbientSound) error
	Stop() error
}

// NopFeedback discards every cue.
type NopFeedback struct{}

func (NopFeedback) Impact(ImpactKind) error { return nil }
func (NopFeedback) Success() error          { return nil }

// NopNotifier discards every notification.
type NopNotifier struct{}

func (NopNotifier) Deliver(string, string) error { return nil }

// NopAmbient never plays anything.
type NopAmbient struct{}

func (NopAmbient) Play(model.AmbientSound) error { return nil }
func (NopAmbient) Stop() error                   { return nil }

// Effects collects side effects while an engine holds its lock and runs them
// once the lock is released. A failing or panicking effect is logged and the
// remaining effects still run.
type Effects struct {
	logger  zerolog.Logger
	pending []effect
}

type effect struct {
	name string
	run  func() error
}

// NewEffects returns an empty queue reporting failures to logger.
func NewEffects(logger zerolog.Logger) *Effects {
	return &Effects{logger: logger}
}

// Add queues a named side effect.
func (effects *Effects) Add(name string, run func() error) {
	effects.pending = append(effects.pending, effect{name: name, run: run})
}

// Run executes and clears the queue.
func (effects *Effects) Run() {
	pending := effects.pending
	effects.pending = nil
	for _, item := range pending {
		if err := safeRun(item.run); err != nil {
			effects.logger.Warn().Err(err).Str("effect", item.name).Msg("side effect failed")
		}
	}
}

func safeRun(run func() error) (err error) {
	defer func() {
		if recovered := recover(); recovered != nil {
			err = fmt.Errorf("panic: %v", recovered)
		}
	}()
	return run()
}
