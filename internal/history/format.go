package history

import (
	"fmt"
	"time"
)

// SessionLine formats one session for display.
func SessionLine(session Session) string {
	return fmt.Sprintf("%s  ·  %d min  ·  %s",
		session.Date.Local().Format("Jan 2, 2006 15:04"),
		session.DurationMinutes,
		session.AmbientSound.DisplayName(),
	)
}

// SummaryLine formats the history totals.
func SummaryLine(summary Summary) string {
	if summary.Sessions == 0 {
		return "No sessions yet"
	}
	noun := "sessions"
	if summary.Sessions == 1 {
		noun = "session"
	}
	return fmt.Sprintf("%d %s, %s total", summary.Sessions, noun, formatMinutes(summary.TotalMinutes))
}

func formatMinutes(minutes int) string {
	total := time.Duration(minutes) * time.Minute
	if total < time.Hour {
		return fmt.Sprintf("%d min", minutes)
	}
	return fmt.Sprintf("%dh %02dm", minutes/60, minutes%60)
}
