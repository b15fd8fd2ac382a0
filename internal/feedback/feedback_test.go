package feedback

import (
	"bytes"
	"errors"
	"testing"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"zentime/internal/core/timing"
)

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("closed") }

func TestBellRings(t *testing.T) {
	var out bytes.Buffer
	b := NewBell(&out)

	require.NoError(t, b.Impact(timing.ImpactMedium))
	require.NoError(t, b.Impact(timing.ImpactLight))
	assert.Equal(t, "\a", out.String())

	require.NoError(t, b.Success())
	assert.Equal(t, "\a\a\a", out.String())

	b.LightBells = true
	require.NoError(t, b.Impact(timing.ImpactLight))
	assert.Equal(t, "\a\a\a\a", out.String())
}

func TestBellReportsWriteErrors(t *testing.T) {
	assert.Error(t, NewBell(failingWriter{}).Success())
}

func TestDesktopNotifierSends(t *testing.T) {
	app := test.NewTempApp(t)
	notifier := NewDesktopNotifier(app)

	test.AssertNotificationSent(t, fyne.NewNotification("Meditation Complete", "done"), func() {
		require.NoError(t, notifier.Deliver("Meditation Complete", "done"))
	})
}

func TestDesktopNotifierWithoutApp(t *testing.T) {
	assert.ErrorIs(t, NewDesktopNotifier(nil).Deliver("a", "b"), ErrNoApp)
}
