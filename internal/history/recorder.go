package history

import (
	"context"

	"github.com/rs/zerolog"

	"zentime/internal/core/countdown"
)

// CompletionSource signals and hands out finished countdown sessions.
type CompletionSource interface {
	Completed() <-chan struct{}
	TakeCompletion() (countdown.Completion, bool)
}

// Recorder appends every finished countdown to a Store.
type Recorder struct {
	store      *Store
	logger     zerolog.Logger
	onRecorded func(Session)
}

// NewRecorder creates a Recorder writing to store.
func NewRecorder(store *Store, logger zerolog.Logger) *Recorder {
	return &Recorder{store: store, logger: logger}
}

// SetOnRecorded sets a callback fired after a session is stored.
func (recorder *Recorder) SetOnRecorded(handler func(Session)) {
	recorder.onRecorded = handler
}

// Run records completions from source until ctx is cancelled or the source closes.
func (recorder *Recorder) Run(ctx context.Context, source CompletionSource) {
	completed := source.Completed()
	for {
		select {
		case <-ctx.Done():
			return
		case _, ok := <-completed:
			if !ok {
				return
			}
			recorder.record(ctx, source)
		}
	}
}

func (recorder *Recorder) record(ctx context.Context, source CompletionSource) {
	completion, ok := source.TakeCompletion()
	if !ok {
		return
	}
	session, err := recorder.store.Add(ctx, Session{
		Date:            completion.CompletedAt,
		DurationMinutes: completion.DurationMinutes,
		AmbientSound:    completion.AmbientSound,
	})
	if err != nil {
		recorder.logger.Error().Err(err).Msg("record session")
		return
	}
	recorder.logger.Info().Str("session_id", session.ID).Int("minutes", session.DurationMinutes).Msg("session recorded")
	if recorder.onRecorded != nil {
		recorder.onRecorded(session)
	}
}
