package countdown

import (
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"zentime/internal/core/clock"
	"zentime/internal/core/model"
	"zentime/internal/core/timing"
)

const (
	// DefaultTotal is the session length used when none is configured.
	DefaultTotal = 10 * time.Minute

	// NotificationTitle and NotificationBody are delivered when a session completes.
	NotificationTitle = "Meditation Complete"
	NotificationBody  = "Amazingly Done! Your meditation session has finished."
)

// Deps are the collaborators an Engine drives. Nil fields fall back to
// the system clock and no-op implementations.
type Deps struct {
	Clock    clock.Clock
	Feedback timing.Feedback
	Notifier timing.Notifier
	Ambient  timing.Ambient
	Logger   *zerolog.Logger
}

// Engine counts a meditation session down from its configured total to zero.
type Engine struct {
	mu         sync.Mutex
	config     model.CountdownConfig
	clock      clock.Clock
	feedback   timing.Feedback
	notifier   timing.Notifier
	ambient    timing.Ambient
	ambientOn  bool
	logger     zerolog.Logger
	state      timing.State
	total      time.Duration
	remaining  time.Duration
	progress   float64
	deadline   time.Time
	sub        clock.Subscription
	generation uint64
	completion *Completion
	doorbell   chan struct{}
	events     []chan Event
	closed     bool
}

// New creates an idle Engine. A non-positive total falls back to DefaultTotal.
func New(config model.CountdownConfig, deps Deps) *Engine {
	if config.Total <= 0 {
		config.Total = DefaultTotal
	}
	if config.TickInterval <= 0 {
		config.TickInterval = time.Second
	}
	if config.Ambient == "" {
		config.Ambient = model.AmbientNone
	}

	engine := &Engine{
		config:   config,
		clock:    deps.Clock,
		feedback: deps.Feedback,
		notifier: deps.Notifier,
		ambient:  deps.Ambient,
		logger:   zerolog.Nop(),
		state:    timing.StateIdle,
		doorbell: make(chan struct{}, 1),
	}
	if engine.clock == nil {
		engine.clock = clock.System
	}
	if engine.feedback == nil {
		engine.feedback = timing.NopFeedback{}
	}
	if engine.notifier == nil {
		engine.notifier = timing.NopNotifier{}
	}
	if engine.ambient == nil {
		engine.ambient = timing.NopAmbient{}
	}
	if deps.Logger != nil {
		engine.logger = deps.Logger.With().Str("engine", "countdown").Logger()
	}
	engine.rewindLocked()
	return engine
}

// Subscribe registers a new observer channel. Events are dropped for
// observers that fall behind.
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

// Configure sets the session length. Unless a session is running, the
// countdown is rewound to the new total and a completed session returns to idle.
func (engine *Engine) Configure(total time.Duration) error {
	if total <= 0 {
		return fmt.Errorf("%w: countdown total must be positive, got %s", timing.ErrInvalidConfiguration, total)
	}

	engine.mu.Lock()
	defer engine.mu.Unlock()
	if engine.closed {
		return nil
	}
	engine.config.Total = total
	if engine.state == timing.StateRunning {
		return nil
	}
	if engine.state == timing.StateCompleted {
		engine.state = timing.StateIdle
	}
	engine.rewindLocked()
	engine.emitLocked(EventStateChange, engine.clock.Now())
	return nil
}

// SetAmbientSound selects the background sound, switching it immediately
// when a session is in progress.
func (engine *Engine) SetAmbientSound(sound model.AmbientSound) {
	engine.mu.Lock()
	if engine.closed || engine.config.Ambient == sound {
		engine.mu.Unlock()
		return
	}
	engine.config.Ambient = sound
	effects := timing.NewEffects(engine.logger)
	if engine.state == timing.StateRunning || engine.state == timing.StatePaused {
		engine.queueAmbientLocked(effects, sound)
	}
	engine.mu.Unlock()
	effects.Run()
}

// Start begins a new session, or resumes a paused one.
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
	engine.rewindLocked()
	engine.deadline = now.Add(engine.total)
	engine.subscribeLocked()
	effects.Add("start bell", func() error {
		return engine.feedback.Impact(timing.ImpactMedium)
	})
	engine.queueAmbientLocked(effects, engine.config.Ambient)
	engine.logger.Debug().Dur("total", engine.total).Msg("countdown started")
	engine.emitLocked(EventStateChange, now)
	engine.mu.Unlock()

	effects.Run()
}

// Pause freezes the countdown at its last computed values.
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
	engine.logger.Debug().Dur("remaining", engine.remaining).Msg("countdown paused")
	engine.emitLocked(EventStateChange, engine.clock.Now())
}

// Resume continues a paused countdown from exactly where it stopped.
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
	engine.state = timing.StateRunning
	engine.deadline = now.Add(engine.remaining)
	engine.subscribeLocked()
	engine.logger.Debug().Dur("remaining", engine.remaining).Msg("countdown resumed")
	engine.emitLocked(EventStateChange, now)
}

// Reset stops the countdown and rewinds it to the configured total.
func (engine *Engine) Reset() {
	engine.mu.Lock()
	if engine.closed {
		engine.mu.Unlock()
		return
	}
	effects := timing.NewEffects(engine.logger)
	engine.cancelLocked()
	engine.state = timing.StateIdle
	engine.rewindLocked()
	engine.stopAmbientLocked(effects)
	engine.emitLocked(EventStateChange, engine.clock.Now())
	engine.mu.Unlock()

	effects.Run()
}

// Completed signals that a completion is waiting in TakeCompletion.
// Signals coalesce, so a receiver should drain TakeCompletion on every wake up.
// The channel is closed by Close.
func (engine *Engine) Completed() <-chan struct{} {
	return engine.doorbell
}

// TakeCompletion returns the most recent unconsumed completion. Each
// completion is handed out exactly once.
func (engine *Engine) TakeCompletion() (Completion, bool) {
	engine.mu.Lock()
	defer engine.mu.Unlock()
	if engine.completion == nil {
		return Completion{}, false
	}
	completion := *engine.completion
	engine.completion = nil
	return completion, true
}

// Close releases the tick subscription and ambient audio and closes
// observer channels. The engine ignores every call afterwards.
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
	close(engine.doorbell)
	effects.Run()
}

func (engine *Engine) tick(generation uint64, now time.Time) {
	engine.mu.Lock()
	if engine.closed || generation != engine.generation || engine.state != timing.StateRunning {
		engine.mu.Unlock()
		return
	}

	remaining := engine.deadline.Sub(now).Round(engine.config.TickInterval)
	if remaining > engine.remaining {
		remaining = engine.remaining
	}
	if remaining > 0 {
		engine.remaining = remaining
		engine.progress = timing.Ratio(remaining, engine.total)
		engine.emitLocked(EventProgress, now)
		engine.mu.Unlock()
		return
	}

	effects := timing.NewEffects(engine.logger)
	engine.completeLocked(now, effects)
	engine.mu.Unlock()
	effects.Run()
}

func (engine *Engine) completeLocked(now time.Time, effects *timing.Effects) {
	engine.cancelLocked()
	engine.state = timing.StateCompleted
	engine.remaining = 0
	engine.progress = 0
	engine.completion = &Completion{
		DurationMinutes: int(math.Round(engine.total.Minutes())),
		AmbientSound:    engine.config.Ambient,
		CompletedAt:     now,
	}
	select {
	case engine.doorbell <- struct{}{}:
	default:
	}

	effects.Add("end bell", engine.feedback.Success)
	engine.stopAmbientLocked(effects)
	effects.Add("notification", func() error {
		return engine.notifier.Deliver(NotificationTitle, NotificationBody)
	})
	engine.logger.Info().Dur("total", engine.total).Msg("countdown completed")
	engine.emitLocked(EventCompleted, now)
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

// cancelLocked drops the live subscription and invalidates any tick already in flight.
func (engine *Engine) cancelLocked() {
	engine.generation++
	if engine.sub != nil {
		engine.sub.Cancel()
		engine.sub = nil
	}
}

func (engine *Engine) rewindLocked() {
	engine.total = engine.config.Total
	engine.remaining = engine.total
	engine.progress = 1
}

func (engine *Engine) snapshotLocked() Snapshot {
	return Snapshot{
		State:     engine.state,
		Total:     engine.total,
		Remaining: engine.remaining,
		Progress:  engine.progress,
		Ambient:   engine.config.Ambient,
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
