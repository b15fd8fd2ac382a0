package breathing

import (
	"time"

	"zentime/internal/core/model"
	"zentime/internal/core/timing"
)

// EventType defines the type of breathing event.
type EventType string

const (
	EventStateChange EventType = "state_change"
	EventProgress    EventType = "progress"
	EventPhaseChange EventType = "phase_change"
)

// Snapshot is the read-only view of the breathing cycle.
type Snapshot struct {
	State           timing.State
	Phase           Phase
	PhaseDuration   time.Duration
	PhaseRemaining  time.Duration
	PhaseProgress   float64
	CompletedCycles int
	// TotalElapsed is for display and is derived from the cycle position.
	TotalElapsed time.Duration
	Ambient      model.AmbientSound
}

// Event represents a breathing update for observers.
type Event struct {
	Type     EventType
	Snapshot Snapshot
	At       time.Time
}
