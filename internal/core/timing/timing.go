// Package timing holds the pieces shared by the countdown and breathing engines.
package timing

import (
	"errors"
	"fmt"
	"time"
)

// State represents the run state of an engine.
type State string

const (
	StateIdle      State = "idle"
	StateRunning   State = "running"
	StatePaused    State = "paused"
	StateCompleted State = "completed"
)

var (
	// ErrInvalidConfiguration indicates a non-positive duration was supplied.
	ErrInvalidConfiguration = errors.New("invalid configuration")
	// ErrIllegalTransition describes a control call the current state does not permit.
	// Engines treat such calls as no-ops; CheckTransition exposes the reason to callers.
	ErrIllegalTransition = errors.New("illegal transition")
)

// Action names a control operation.
type Action string

const (
	ActionStart  Action = "start"
	ActionPause  Action = "pause"
	ActionResume Action = "resume"
	ActionReset  Action = "reset"
)

// CheckTransition reports whether action is meaningful from state.
func CheckTransition(state State, action Action) error {
	switch action {
	case ActionPause:
		if state != StateRunning {
			return fmt.Errorf("%w: %s from %s", ErrIllegalTransition, action, state)
		}
	case ActionResume:
		if state != StatePaused {
			return fmt.Errorf("%w: %s from %s", ErrIllegalTransition, action, state)
		}
	case ActionStart:
		if state == StateRunning {
			return fmt.Errorf("%w: %s from %s", ErrIllegalTransition, action, state)
		}
	}
	return nil
}

// FormatClock renders d as MM:SS, truncating fractional seconds.
// Minutes are not wrapped at 60.
func FormatClock(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	seconds := int(d / time.Second)
	return fmt.Sprintf("%02d:%02d", seconds/60, seconds%60)
}

// Ratio returns part/total clamped to [0, 1]. A non-positive total yields 0.
func Ratio(part, total time.Duration) float64 {
	if total <= 0 {
		return 0
	}
	ratio := float64(part) / float64(total)
	if ratio < 0 {
		return 0
	}
	if ratio > 1 {
		return 1
	}
	return ratio
}
