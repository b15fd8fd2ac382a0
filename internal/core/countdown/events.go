package countdown

import (
	"time"

	"zentime/internal/core/model"
	"zentime/internal/core/timing"
)

// EventType defines the type of countdown event.
type EventType string

const (
	EventStateChange EventType = "state_change"
	EventProgress    EventType = "progress"
	EventCompleted   EventType = "completed"
)

// Snapshot is the read-only view of a countdown, replaced as a whole on every change.
type Snapshot struct {
	State     timing.State
	Total     time.Duration
	Remaining time.Duration
	Progress  float64
	Ambient   model.AmbientSound
}

// TimeString renders the remaining time as MM:SS.
func (snapshot Snapshot) TimeString() string {
	return timing.FormatClock(snapshot.Remaining)
}

// Completion describes a finished meditation session.
type Completion struct {
	DurationMinutes int
	AmbientSound    model.AmbientSound
	CompletedAt     time.Time
}

// Event represents a countdown update for observers.
type Event struct {
	Type     EventType
	Snapshot Snapshot
	At       time.Time
}
