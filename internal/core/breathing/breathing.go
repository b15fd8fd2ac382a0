// Package breathing drives the four phase box breathing cycle.
package breathing

import (
	"sync"
	"time"

	"github.com/rs/zerolog"

	"zentime/internal/core/clock"
	"zentime/internal/core/model"
	"zentime/internal/core/timing"
)

const (
	DefaultPhaseDuration = 5 * time.Second
	DefaultTickInterval  = 100 * time.Millisecond
)

// Deps are the collaborators an Engine drives.
type Deps struct {
	Clock    clock.Clock
	Feedback timing.Feedback
	Ambient  timing.Ambient
	Logger   *zerolog.Logger
}

// Engine cycles In, HoldIn, Out, HoldOut until reset or closed.
type Engine struct {
	mu              sync.Mutex
	config          model.BreathingConfig
	clock           clock.Clock
	feedback        timing.Feedback
	ambient         timing.Ambient
	ambientOn       bool
	logger          zerolog.Logger
	state           timing.State
	phase           Phase
	phaseRemaining  time.Duration
	phaseProgress   float64
	phaseStart      time.Time
	completedCycles int
	totalElapsed    time.Duration
	sub             clock.Subscription
	generation      uint64
	events          []chan Event
	closed          bool
}

// New creates an idle Engine.
func New(config model.BreathingConfig, deps Deps) *Engine {
	if config.PhaseDuration <= 0 {
		config.PhaseDuration = DefaultPhaseDuration
	}
	if config.TickInterval <= 0 {
		config.TickInterval = DefaultTickInterval
	}
	if config.Ambient == "" {
		config.Ambient = model.AmbientNone
	}

	engine := &Engine{
		config:   config,
		clock:    deps.Clock,
		feedback: deps.Feedback,
		ambient:  deps.Ambient,
		logger:   zerolog.Nop(),
	}
	if engine.clock == nil {
		engine.clock = clock.System
	}
	if engine.feedback == nil {
		engine.feedback = timing.NopFeedback{}
	}
	if engine.ambient == nil {
		engine.ambient = timing.NopAmbient{}
	}
	if deps.Logger != nil {
		engine.logger = deps.Logger.With().Str("engine", "breathing").Logger()
	}
	engine.resetFieldsLocked()
	return engine
}

// CycleDuration is the length of one full cycle.
func (engine *Engine) CycleDuration() time.Duration {
	return engine.config.PhaseDuration * PhaseCount
}

// Subscribe registers a new observer channel.
func (engine *Engine) Subscribe(buffer int) <-chan Event {
	if buffer <= 0 {
		buffer = 1
	}
	ch := make(chan Event, buffer)
	engine.mu.Lock()
	defer engine.mu.Unlock()
	if engine.closed {
		close(ch)
		return ch
	}
	engine.events = append(engine.events, ch)
	return ch
}

// Snapshot returns the current derived state.
func (engine *Engine) Snapshot() Snapshot {
	engine.mu.Lock()
	defer engine.mu.Unlock()
	return engine.snapshotLocked()
}

// SetAmbientSound selects the background sound.
func (engine *Engine) SetAmbientSound(sound model.AmbientSound) {
	engine.mu.Lock()
	if engine.closed || engine.config.Ambient == sound {
		engine.mu.Unlock()
		return
	}
	engine.config.Ambient = sound
	effects := timing.NewEffects(engine.logger)
	if engine.state != timing.StateIdle {
		engine.queueAmbientLocked(effects, sound)
	}
	engine.mu.Unlock()
	effects.Run()
}

// Start begins breathing from PhaseIn, or resumes a paused cycle.
func (engine *Engine) Start() {
	engine.mu.Lock()
	if engine.closed || engine.state == timing.StateRunning {
		engine.mu.Unlock()
		return
	}
	if engine.state == timing.StatePaused {
		engine.mu.Unlock()
		engine.Resume()
		return
	}

	now := engine.clock.Now()
	effects := timing.NewEffects(engine.logger)
	engine.state = timing.StateRunning
	engine.phase = PhaseIn
	engine.phaseRemaining = engine.config.PhaseDuration
	engine.phaseProgress = 0
	engine.phaseStart = now
	engine.totalElapsed = engine.cycleOffsetLocked()
	engine.subscribeLocked()
	effects.Add("start impact", func() error {
		return engine.feedback.Impact(timing.ImpactMedium)
	})
	engine.queueAmbientLocked(effects, engine.config.Ambient)
	engine.logger.Debug().Int("cycles", engine.completedCycles).Msg("breathing started")
	engine.emitLocked(EventStateChange, now)
	engine.mu.Unlock()

	effects.Run()
}

// Pause freezes the cycle at its last computed values.
func (engine *Engine) Pause() {
	engine.mu.Lock()
	defer engine.mu.Unlock()
	if engine.closed {
		return
	}
	if err := timing.CheckTransition(engine.state, timing.ActionPause); err != nil {
		engine.logger.Debug().Err(err).Msg("ignored")
		return
	}
	engine.cancelLocked()
	engine.state = timing.StatePaused
	engine.emitLocked(EventStateChange, engine.clock.Now())
}

// Resume continues the current phase from the point it was paused.
func (engine *Engine) Resume() {
	engine.mu.Lock()
	defer engine.mu.Unlock()
	if engine.closed {
		return
	}
	if err := timing.CheckTransition(engine.state, timing.ActionResume); err != nil {
		engine.logger.Debug().Err(err).Msg("ignored")
		return
	}
	now := engine.clock.Now()
	elapsed := engine.config.PhaseDuration - engine.phaseRemaining
	engine.phaseStart = now.Add(-elapsed)
	engine.state = timing.StateRunning
	engine.subscribeLocked()
	engine.emitLocked(EventStateChange, now)
}

// Reset stops the cycle and clears every counter.
func (engine *Engine) Reset() {
	engine.mu.Lock()
	if engine.closed {
		engine.mu.Unlock()
		return
	}
	effects := timing.NewEffects(engine.logger)
	engine.cancelLocked()
	engine.resetFieldsLocked()
	engine.stopAmbientLocked(effects)
	engine.emitLocked(EventStateChange, engine.clock.Now())
	engine.mu.Unlock()

	effects.Run()
}

// Close releases the tick subscription and ambient audio and closes
// observer channels.
func (engine *Engine) Close() {
	engine.mu.Lock()
	if engine.closed {
		engine.mu.Unlock()
		return
	}
	engine.closed = true
	engine.cancelLocked()
	events := engine.events
	engine.events = nil
	effects := timing.NewEffects(engine.logger)
	engine.stopAmbientLocked(effects)
	engine.mu.Unlock()

	for _, ch := range events {
		close(ch)
	}
	effects.Run()
}

func (engine *Engine) tick(generation uint64, now time.Time) {
	engine.mu.Lock()
	if engine.closed || generation != engine.generation || engine.state != timing.StateRunning {
		engine.mu.Unlock()
		return
	}

	elapsed := now.Sub(engine.phaseStart)
	remaining := engine.config.PhaseDuration - elapsed
	if remaining > 0 {
		engine.phaseRemaining = remaining
		engine.phaseProgress = timing.Ratio(elapsed, engine.config.PhaseDuration)
		engine.totalElapsed = engine.cycleOffsetLocked() + elapsed
		engine.emitLocked(EventProgress, now)
		engine.mu.Unlock()
		return
	}

	effects := timing.NewEffects(engine.logger)
	engine.advancePhaseLocked(now, effects)
	engine.mu.Unlock()
	effects.Run()
}

func (engine *Engine) advancePhaseLocked(now time.Time, effects *timing.Effects) {
	effects.Add("phase impact", func() error {
		return engine.feedback.Impact(timing.ImpactLight)
	})
	if engine.phase == PhaseHoldOut {
		engine.completedCycles++
	}
	engine.phase = engine.phase.Next()
	engine.phaseRemaining = engine.config.PhaseDuration
	engine.phaseProgress = 0
	engine.phaseStart = now
	engine.totalElapsed = engine.cycleOffsetLocked()
	engine.logger.Debug().Stringer("phase", engine.phase).Int("cycles", engine.completedCycles).Msg("phase advanced")
	engine.emitLocked(EventPhaseChange, now)
}

// cycleOffsetLocked is the elapsed time at the start of the current phase.
func (engine *Engine) cycleOffsetLocked() time.Duration {
	cycles := time.Duration(engine.completedCycles) * engine.config.PhaseDuration * PhaseCount
	return cycles + time.Duration(engine.phase.Index())*engine.config.PhaseDuration
}

func (engine *Engine) resetFieldsLocked() {
	engine.state = timing.StateIdle
	engine.phase = PhaseIn
	engine.phaseRemaining = engine.config.PhaseDuration
	engine.phaseProgress = 0
	engine.phaseStart = time.Time{}
	engine.completedCycles = 0
	engine.totalElapsed = 0
}

func (engine *Engine) queueAmbientLocked(effects *timing.Effects, sound model.AmbientSound) {
	engine.stopAmbientLocked(effects)
	if sound == model.AmbientNone {
		return
	}
	engine.ambientOn = true
	effects.Add("play ambient", func() error {
		return engine.ambient.Play(sound)
	})
}

// stopAmbientLocked stops the ambient sound only if this engine started it,
// so a shared player keeps playing for other engines.
func (engine *Engine) stopAmbientLocked(effects *timing.Effects) {
	if !engine.ambientOn {
		return
	}
	engine.ambientOn = false
	effects.Add("stop ambient", engine.ambient.Stop)
}

func (engine *Engine) subscribeLocked() {
	engine.cancelLocked()
	generation := engine.generation
	engine.sub = engine.clock.Every(engine.config.TickInterval, func(at time.Time) {
		engine.tick(generation, at)
	})
}

func (engine *Engine) cancelLocked() {
	engine.generation++
	if engine.sub != nil {
		engine.sub.Cancel()
		engine.sub = nil
	}
}

func (engine *Engine) snapshotLocked() Snapshot {
	return Snapshot{
		State:           engine.state,
		Phase:           engine.phase,
		PhaseDuration:   engine.config.PhaseDuration,
		PhaseRemaining:  engine.phaseRemaining,
		PhaseProgress:   engine.phaseProgress,
		CompletedCycles: engine.completedCycles,
		TotalElapsed:    engine.totalElapsed,
		Ambient:         engine.config.Ambient,
	}
}

func (engine *Engine) emitLocked(eventType EventType, at time.Time) {
	event := Event{
		Type:     eventType,
		Snapshot: engine.snapshotLocked(),
		At:       at,
	}
	for _, ch := range engine.events {
		select {
		case ch <- event:
		default:
		}
	}
}
