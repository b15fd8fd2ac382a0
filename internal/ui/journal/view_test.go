package journal

import (
	"context"
	"testing"

	"fyne.io/fyne/v2/test"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"zentime/internal/core/model"
	"zentime/internal/history"
)

type memorySource struct {
	sessions []history.Session
}

func (source *memorySource) List(context.Context) ([]history.Session, error) {
	return source.sessions, nil
}

func (source *memorySource) Summary(context.Context) (history.Summary, error) {
	summary := history.Summary{Sessions: len(source.sessions)}
	for _, session := range source.sessions {
		summary.TotalMinutes += session.DurationMinutes
	}
	return summary, nil
}

func (source *memorySource) Clear(context.Context) error {
	source.sessions = nil
	return nil
}

func TestReloadFillsList(t *testing.T) {
	app := test.NewTempApp(t)
	window := app.NewWindow("history")
	source := &memorySource{sessions: []history.Session{
		{ID: "b", DurationMinutes: 15, AmbientSound: model.AmbientOmTone},
		{ID: "a", DurationMinutes: 5, AmbientSound: model.AmbientNone},
	}}

	view := New(source, window, zerolog.Nop())
	view.Reload(context.Background())

	require.Equal(t, 2, view.length())
	assert.Contains(t, view.line(0), "Om Tone")
	assert.Empty(t, view.line(5))
	assert.Equal(t, "2 sessions, 20 min total", view.summary.Text)
}
