package tui

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"zentime/internal/core/breathing"
	"zentime/internal/core/clock"
	"zentime/internal/core/countdown"
	"zentime/internal/core/model"
	"zentime/internal/core/timing"
)

func newTestApp(t *testing.T, options Options) (*App, *clock.Manual, Notices) {
	t.Helper()
	manual := clock.NewManual(time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC))
	notices := NewNotices()
	countdownEngine := countdown.New(model.CountdownConfig{Total: 10 * time.Minute}, countdown.Deps{Clock: manual, Notifier: notices})
	breathingEngine := breathing.New(model.BreathingConfig{}, breathing.Deps{Clock: manual})
	t.Cleanup(countdownEngine.Close)
	t.Cleanup(breathingEngine.Close)
	return New(countdownEngine, breathingEngine, notices, options), manual, notices
}

func key(value string) tea.KeyMsg {
	switch value {
	case " ":
		return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(value)}
}

func TestSpaceTogglesCountdown(t *testing.T) {
	app, manual, _ := newTestApp(t, Options{})

	app.Update(key(" "))
	assert.Equal(t, timing.StateRunning, app.countdown.Snapshot().State)

	manual.Advance(3 * time.Second)
	app.Update(key(" "))
	snapshot := app.countdown.Snapshot()
	assert.Equal(t, timing.StatePaused, snapshot.State)
	assert.Equal(t, 9*time.Minute+57*time.Second, snapshot.Remaining)

	app.Update(key("r"))
	assert.Equal(t, timing.StateIdle, app.countdown.Snapshot().State)
}

func TestTabSwitchesToBreathing(t *testing.T) {
	app, manual, _ := newTestApp(t, Options{})

	app.Update(key("tab"))
	app.Update(key(" "))
	manual.Advance(time.Second)

	assert.Equal(t, timing.StateRunning, app.breathing.Snapshot().State)
	assert.Equal(t, timing.StateIdle, app.countdown.Snapshot().State)

	app.breathingView = app.breathing.Snapshot()
	assert.Contains(t, app.View(), "Breathe In")
}

func TestEventsUpdateView(t *testing.T) {
	app, manual, _ := newTestApp(t, Options{})

	app.Update(key(" "))
	manual.Advance(2 * time.Second)

	cmd := waitCountdown(app.countdownEvents)
	for i := 0; i < 3; i++ {
		msg := cmd()
		_, cmd = app.Update(msg)
	}
	assert.Equal(t, "09:58", app.countdownView.TimeString())
	assert.Contains(t, app.View(), "09:58")
}

func TestCompletionShowsNotice(t *testing.T) {
	app, manual, notices := newTestApp(t, Options{})
	require.NoError(t, app.countdown.Configure(time.Minute))

	app.Update(key(" "))
	manual.Advance(time.Minute)

	msg := waitNotice(notices)()
	app.Update(msg)
	require.NotNil(t, app.notice)
	assert.Equal(t, countdown.NotificationTitle, app.notice.Title)
	assert.Contains(t, app.View(), countdown.NotificationBody)
}

func TestDurationStepsThroughPresets(t *testing.T) {
	var chosen []time.Duration
	app, _, _ := newTestApp(t, Options{OnDuration: func(duration time.Duration) {
		chosen = append(chosen, duration)
	}})

	app.Update(key("+"))
	app.Update(key("+"))
	app.Update(key("-"))
	assert.Equal(t, []time.Duration{15 * time.Minute, 20 * time.Minute, 15 * time.Minute}, chosen)
	assert.Equal(t, 15*time.Minute, app.countdown.Snapshot().Total)

	app.Update(key(" "))
	app.Update(key("+"))
	assert.Len(t, chosen, 3)
}

func TestNextPreset(t *testing.T) {
	assert.Equal(t, 5*time.Minute, nextPreset(time.Minute, 1))
	assert.Equal(t, time.Minute, nextPreset(time.Minute, -1))
	assert.Equal(t, 60*time.Minute, nextPreset(60*time.Minute, 1))
	assert.Equal(t, 10*time.Minute, nextPreset(7*time.Minute, 1))
	assert.Equal(t, 5*time.Minute, nextPreset(7*time.Minute, -1))
	assert.Equal(t, 60*time.Minute, nextPreset(90*time.Minute, -1))
}

func TestAmbientCyclesOnBothEngines(t *testing.T) {
	var chosen []model.AmbientSound
	app, _, _ := newTestApp(t, Options{OnAmbient: func(sound model.AmbientSound) {
		chosen = append(chosen, sound)
	}})

	app.Update(key("a"))
	app.Update(key("a"))
	assert.Equal(t, []model.AmbientSound{model.AmbientRain, model.AmbientBrownNoise}, chosen)
	assert.Equal(t, model.AmbientBrownNoise, app.breathing.Snapshot().Ambient)
}

func TestQuitPausesSessions(t *testing.T) {
	app, _, _ := newTestApp(t, Options{})
	app.Update(key(" "))

	_, cmd := app.Update(key("q"))
	require.NotNil(t, cmd)
	assert.Equal(t, tea.QuitMsg{}, cmd())
	assert.Equal(t, timing.StatePaused, app.countdown.Snapshot().State)
}

func TestBellsRingThroughTheRenderer(t *testing.T) {
	bells := NewBells()
	app, _, _ := newTestApp(t, Options{Bells: bells})

	n, err := bells.Write([]byte("\a\a"))
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	_, err = bells.Write([]byte("no bell"))
	require.NoError(t, err)

	msg := waitBells(bells)()
	assert.Equal(t, bellMsg(2), msg)
	select {
	case extra := <-bells:
		t.Fatalf("unexpected queued rings: %d", extra)
	default:
	}

	app.Update(msg)
	assert.Equal(t, 2, strings.Count(app.View(), "\a"))

	app.Update(tea.WindowSizeMsg{Width: 80, Height: 24})
	assert.Zero(t, strings.Count(app.View(), "\a"))
}

func TestBellsDropWhenFull(t *testing.T) {
	bells := make(Bells, 1)
	_, err := bells.Write([]byte("\a"))
	require.NoError(t, err)
	_, err = bells.Write([]byte("\a"))
	require.NoError(t, err)
	assert.Len(t, bells, 1)
}
