package history

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"zentime/internal/core/model"
)

func TestSummaryLine(t *testing.T) {
	assert.Equal(t, "No sessions yet", SummaryLine(Summary{}))
	assert.Equal(t, "1 session, 10 min total", SummaryLine(Summary{Sessions: 1, TotalMinutes: 10}))
	assert.Equal(t, "7 sessions, 2h 05m total", SummaryLine(Summary{Sessions: 7, TotalMinutes: 125}))
}

func TestSessionLine(t *testing.T) {
	session := Session{
		Date:            time.Date(2025, 8, 30, 8, 15, 0, 0, time.Local),
		DurationMinutes: 20,
		AmbientSound:    model.AmbientRain,
	}
	assert.Equal(t, "Aug 30, 2025 08:15  ·  20 min  ·  Rain", SessionLine(session))
}
