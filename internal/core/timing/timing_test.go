package timing

import (
	"bytes"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestFormatClock(t *testing.T) {
	cases := map[time.Duration]string{
		0:                       "00:00",
		-time.Second:            "00:00",
		59 * time.Second:        "00:59",
		600 * time.Second:       "10:00",
		1500 * time.Millisecond: "00:01",
		61 * time.Minute:        "61:00",
	}
	for input, want := range cases {
		assert.Equal(t, want, FormatClock(input), "FormatClock(%v)", input)
	}
}

func TestRatioClamps(t *testing.T) {
	assert.Equal(t, 0.5, Ratio(time.Second, 2*time.Second))
	assert.Equal(t, 1.0, Ratio(3*time.Second, 2*time.Second))
	assert.Equal(t, 0.0, Ratio(-time.Second, 2*time.Second))
	assert.Equal(t, 0.0, Ratio(time.Second, 0))
}

func TestCheckTransition(t *testing.T) {
	assert.NoError(t, CheckTransition(StateRunning, ActionPause))
	assert.ErrorIs(t, CheckTransition(StateIdle, ActionPause), ErrIllegalTransition)
	assert.NoError(t, CheckTransition(StatePaused, ActionResume))
	assert.ErrorIs(t, CheckTransition(StateRunning, ActionResume), ErrIllegalTransition)
	assert.ErrorIs(t, CheckTransition(StateRunning, ActionStart), ErrIllegalTransition)
	assert.NoError(t, CheckTransition(StateCompleted, ActionStart))
	assert.NoError(t, CheckTransition(StateIdle, ActionReset))
}

func TestEffectsContinueAfterFailure(t *testing.T) {
	var buf bytes.Buffer
	effects := NewEffects(zerolog.New(&buf))

	var ran []string
	effects.Add("boom", func() error { return errors.New("speaker missing") })
	effects.Add("panic", func() error { panic("driver crashed") })
	effects.Add("ok", func() error {
		ran = append(ran, "ok")
		return nil
	})
	effects.Run()
	effects.Run()

	assert.Equal(t, []string{"ok"}, ran)
	assert.Contains(t, buf.String(), "speaker missing")
	assert.Contains(t, buf.String(), "driver crashed")
}
