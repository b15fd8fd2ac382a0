package preferences

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/widget"

	"zentime/internal/core/model"
)

// Window handles the preferences UI.
type Window struct {
	window   fyne.Window
	settings Settings
	onSave   func(Settings)

	duration     *widget.Entry
	ambient      *widget.Select
	phase        *widget.Entry
	smooth       *widget.Check
	reminder     *widget.Check
	reminderTime *widget.Entry
	login        *widget.Check
}

// New creates a preferences window.
func New(app fyne.App, settings Settings, onSave func(Settings)) *Window {
	window := app.NewWindow("ZenTime Settings")

	prefs := &Window{
		window:       window,
		onSave:       onSave,
		duration:     widget.NewEntry(),
		phase:        widget.NewEntry(),
		smooth:       widget.NewCheck("Smooth countdown", nil),
		reminder:     widget.NewCheck("Daily reminder", nil),
		reminderTime: widget.NewEntry(),
		login:        widget.NewCheck("Launch ZenTime at login", nil),
	}
	ambientOptions := make([]string, 0, len(model.AmbientSounds))
	for _, sound := range model.AmbientSounds {
		ambientOptions = append(ambientOptions, sound.DisplayName())
	}
	prefs.ambient = widget.NewSelect(ambientOptions, nil)
	prefs.reminderTime.SetPlaceHolder("HH:MM")
	prefs.UpdateSettings(settings)

	form := container.NewVBox(
		widget.NewLabelWithStyle("Meditation", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		container.NewHBox(widget.NewLabel("Session length"), prefs.duration, widget.NewLabel("min")),
		container.NewHBox(widget.NewLabel("Ambient sound"), prefs.ambient),
		prefs.smooth,
		widget.NewLabelWithStyle("Box breathing", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		container.NewHBox(widget.NewLabel("Phase length"), prefs.phase, widget.NewLabel("sec")),
		widget.NewLabelWithStyle("Reminder", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		prefs.reminder,
		container.NewHBox(widget.NewLabel("Remind me at"), prefs.reminderTime),
		prefs.login,
		widget.NewLabelWithStyle("Smooth countdown and phase length apply on next launch.", fyne.TextAlignLeading, fyne.TextStyle{Italic: true}),
	)

	saveButton := widget.NewButton("Save", prefs.handleSave)
	cancelButton := widget.NewButton("Cancel", func() {
		prefs.UpdateSettings(prefs.settings)
		window.Hide()
	})
	buttons := container.NewHBox(saveButton, layout.NewSpacer(), cancelButton)

	window.SetContent(container.NewBorder(nil, buttons, nil, nil, form))
	window.Resize(fyne.NewSize(380, 400))
	window.SetCloseIntercept(window.Hide)
	return prefs
}

// Show displays the preferences window.
func (prefs *Window) Show() {
	prefs.window.Show()
	prefs.window.RequestFocus()
}

// UpdateSettings replaces window values.
func (prefs *Window) UpdateSettings(settings Settings) {
	prefs.settings = settings
	prefs.duration.SetText(strconv.Itoa(int(settings.Duration / time.Minute)))
	prefs.ambient.SetSelected(settings.AmbientSound.DisplayName())
	prefs.phase.SetText(strconv.Itoa(int(settings.BreathingPhase / time.Second)))
	prefs.smooth.SetChecked(settings.SmoothCountdown)
	prefs.reminder.SetChecked(settings.ReminderEnabled)
	prefs.reminderTime.SetText(fmt.Sprintf("%02d:%02d", settings.ReminderHour, settings.ReminderMinute))
	prefs.login.SetChecked(settings.LaunchAtLogin)
}

func (prefs *Window) handleSave() {
	settings := prefs.collect()
	prefs.UpdateSettings(settings)
	if prefs.onSave != nil {
		prefs.onSave(settings)
	}
	prefs.window.Hide()
}

// collect reads the form. Unparseable fields keep their previous value.
func (prefs *Window) collect() Settings {
	settings := prefs.settings

	if minutes, ok := parsePositiveInt(prefs.duration.Text); ok {
		settings.Duration = time.Duration(minutes) * time.Minute
	}
	if seconds, ok := parsePositiveInt(prefs.phase.Text); ok {
		settings.BreathingPhase = time.Duration(seconds) * time.Second
	}
	for _, sound := range model.AmbientSounds {
		if sound.DisplayName() == prefs.ambient.Selected {
			settings.AmbientSound = sound
		}
	}
	if hour, minute, ok := parseClock(prefs.reminderTime.Text); ok {
		settings.ReminderHour = hour
		settings.ReminderMinute = minute
	}
	settings.SmoothCountdown = prefs.smooth.Checked
	settings.ReminderEnabled = prefs.reminder.Checked
	settings.LaunchAtLogin = prefs.login.Checked
	return settings
}

func parsePositiveInt(value string) (int, bool) {
	parsed, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil || parsed <= 0 {
		return 0, false
	}
	return parsed, true
}

func parseClock(value string) (int, int, bool) {
	parsed, err := time.Parse("15:04", strings.TrimSpace(value))
	if err != nil {
		return 0, 0, false
	}
	return parsed.Hour(), parsed.Minute(), true
}
