// Package reminder delivers a daily nudge to meditate.
package reminder

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"zentime/internal/core/model"
	"zentime/internal/core/timing"
)

const (
	Title = "ZenTime"
	Body  = "Time to meditate"
)

// Next returns the first moment strictly after now at hour:minute local time.
func Next(now time.Time, hour, minute int) time.Time {
	candidate := time.Date(now.Year(), now.Month(), now.Day(), hour, minute, 0, 0, now.Location())
	if !candidate.After(now) {
		candidate = time.Date(now.Year(), now.Month(), now.Day()+1, hour, minute, 0, 0, now.Location())
	}
	return candidate
}

// Scheduler fires the daily reminder while enabled.
type Scheduler struct {
	mu       sync.Mutex
	config   model.ReminderConfig
	notifier timing.Notifier
	logger   zerolog.Logger
	cancel   context.CancelFunc
	done     chan struct{}

	now   func() time.Time
	sleep func(ctx context.Context, duration time.Duration) bool
}

// NewScheduler creates a stopped scheduler.
func NewScheduler(config model.ReminderConfig, notifier timing.Notifier, logger zerolog.Logger) *Scheduler {
	return &Scheduler{
		config:   config,
		notifier: notifier,
		logger:   logger,
		now:      time.Now,
		sleep:    sleepWithContext,
	}
}

// Start begins scheduling reminders, replacing any running loop.
// A disabled configuration leaves the scheduler stopped.
func (scheduler *Scheduler) Start(ctx context.Context) {
	scheduler.Stop()

	scheduler.mu.Lock()
	defer scheduler.mu.Unlock()
	if !scheduler.config.Enabled {
		return
	}
	runCtx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	scheduler.cancel = cancel
	scheduler.done = done
	go scheduler.run(runCtx, scheduler.config, done)
}

// Update swaps the configuration and restarts the loop.
func (scheduler *Scheduler) Update(ctx context.Context, config model.ReminderConfig) {
	scheduler.mu.Lock()
	scheduler.config = config
	scheduler.mu.Unlock()
	scheduler.Start(ctx)
}

// Stop terminates the loop and waits for it to exit.
func (scheduler *Scheduler) Stop() {
	scheduler.mu.Lock()
	cancel := scheduler.cancel
	done := scheduler.done
	scheduler.cancel = nil
	scheduler.done = nil
	scheduler.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	<-done
}

func (scheduler *Scheduler) run(ctx context.Context, config model.ReminderConfig, done chan struct{}) {
	defer close(done)
	for {
		now := scheduler.now()
		next := Next(now, config.Hour, config.Minute)
		scheduler.logger.Debug().Time("next", next).Msg("reminder scheduled")
		if !scheduler.sleep(ctx, next.Sub(now)) {
			return
		}
		if err := scheduler.notifier.Deliver(Title, Body); err != nil {
			scheduler.logger.Warn().Err(err).Msg("deliver reminder")
		}
	}
}

func sleepWithContext(ctx context.Context, duration time.Duration) bool {
	timer := time.NewTimer(duration)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}
