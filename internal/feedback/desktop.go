// Package feedback adapts the timing collaborators to desktop and terminal outputs.
package feedback

import (
	"errors"

	"fyne.io/fyne/v2"
)

// ErrNoApp is returned when a notifier has no application to deliver through.
var ErrNoApp = errors.New("no application to deliver notification")

// DesktopNotifier delivers notifications through the fyne application.
type DesktopNotifier struct {
	app fyne.App
}

// NewDesktopNotifier creates a notifier bound to app.
func NewDesktopNotifier(app fyne.App) *DesktopNotifier {
	return &DesktopNotifier{app: app}
}

// Deliver sends an OS notification.
func (notifier *DesktopNotifier) Deliver(title, body string) error {
	if notifier.app == nil {
		return ErrNoApp
	}
	notifier.app.SendNotification(fyne.NewNotification(title, body))
	return nil
}
