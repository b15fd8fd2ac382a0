package meditation

import (
	"fmt"
	"image/color"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"zentime/internal/core/countdown"
	"zentime/internal/core/model"
	"zentime/internal/core/timing"
)

// Callbacks reports selections the user made on the screen.
type Callbacks struct {
	OnDuration func(time.Duration)
	OnAmbient  func(model.AmbientSound)
}

// Screen renders the meditation countdown.
type Screen struct {
	engine    *countdown.Engine
	callbacks Callbacks

	timeText    *canvas.Text
	stateLabel  *widget.Label
	progress    *widget.ProgressBar
	startButton *widget.Button
	resetButton *widget.Button
	durations   *widget.Select
	ambient     *widget.Select
	content     fyne.CanvasObject
}

// New builds the screen around engine.
func New(engine *countdown.Engine, callbacks Callbacks) *Screen {
	screen := &Screen{engine: engine, callbacks: callbacks}

	screen.timeText = canvas.NewText("00:00", theme.Color(theme.ColorNameForeground))
	screen.timeText.TextSize = 56
	screen.timeText.TextStyle = fyne.TextStyle{Monospace: true, Bold: true}
	screen.timeText.Alignment = fyne.TextAlignCenter

	screen.stateLabel = widget.NewLabelWithStyle("", fyne.TextAlignCenter, fyne.TextStyle{Italic: true})

	screen.progress = widget.NewProgressBar()
	screen.progress.TextFormatter = func() string { return "" }

	screen.startButton = widget.NewButtonWithIcon("Start", theme.MediaPlayIcon(), screen.toggle)
	screen.startButton.Importance = widget.HighImportance
	screen.resetButton = widget.NewButtonWithIcon("Reset", theme.MediaReplayIcon(), engine.Reset)

	screen.durations = widget.NewSelect(presetLabels(), nil)
	screen.ambient = widget.NewSelect(ambientLabels(), nil)
	snapshot := engine.Snapshot()

	controls := container.NewHBox(layout.NewSpacer(), screen.startButton, screen.resetButton, layout.NewSpacer())
	options := container.New(layout.NewFormLayout(),
		widget.NewLabel("Duration"), screen.durations,
		widget.NewLabel("Ambient sound"), screen.ambient,
	)

	screen.content = container.NewVBox(
		layout.NewSpacer(),
		screen.timeText,
		screen.stateLabel,
		screen.progress,
		controls,
		layout.NewSpacer(),
		options,
	)
	screen.render(snapshot)
	return screen
}

// Content returns the root canvas object.
func (screen *Screen) Content() fyne.CanvasObject {
	return screen.content
}

// Follow renders every event from events on the UI goroutine until the channel closes.
func (screen *Screen) Follow(events <-chan countdown.Event) {
	go func() {
		for event := range events {
			snapshot := event.Snapshot
			fyne.Do(func() {
				screen.render(snapshot)
			})
		}
	}()
}

func (screen *Screen) toggle() {
	if screen.engine.Snapshot().State == timing.StateRunning {
		screen.engine.Pause()
		return
	}
	screen.engine.Start()
}

func (screen *Screen) selectDuration(label string) {
	duration, ok := parsePresetLabel(label)
	if !ok {
		return
	}
	if err := screen.engine.Configure(duration); err != nil {
		return
	}
	if screen.callbacks.OnDuration != nil {
		screen.callbacks.OnDuration(duration)
	}
}

func (screen *Screen) selectAmbient(label string) {
	sound := ambientFromLabel(label)
	screen.engine.SetAmbientSound(sound)
	if screen.callbacks.OnAmbient != nil {
		screen.callbacks.OnAmbient(sound)
	}
}

func (screen *Screen) render(snapshot countdown.Snapshot) {
	screen.syncSelections(snapshot)
	screen.timeText.Text = snapshot.TimeString()
	screen.timeText.Refresh()
	screen.progress.SetValue(snapshot.Progress)

	switch snapshot.State {
	case timing.StateRunning:
		screen.startButton.SetText("Pause")
		screen.startButton.SetIcon(theme.MediaPauseIcon())
		screen.stateLabel.SetText("Meditating")
	case timing.StatePaused:
		screen.startButton.SetText("Resume")
		screen.startButton.SetIcon(theme.MediaPlayIcon())
		screen.stateLabel.SetText("Paused")
	case timing.StateCompleted:
		screen.startButton.SetText("Start")
		screen.startButton.SetIcon(theme.MediaPlayIcon())
		screen.stateLabel.SetText("Session complete")
	default:
		screen.startButton.SetText("Start")
		screen.startButton.SetIcon(theme.MediaPlayIcon())
		screen.stateLabel.SetText("Ready")
	}

	if snapshot.State == timing.StateRunning || snapshot.State == timing.StatePaused {
		screen.durations.Disable()
		screen.timeText.Color = theme.Color(theme.ColorNamePrimary)
	} else {
		screen.durations.Enable()
		screen.timeText.Color = theme.Color(theme.ColorNameForeground)
	}
	if snapshot.State == timing.StateCompleted {
		screen.timeText.Color = color.NRGBA{R: 0x10, G: 0xB9, B: 0x81, A: 0xFF}
	}
}

// syncSelections shows the engine's settings without reporting them back as user choices.
func (screen *Screen) syncSelections(snapshot countdown.Snapshot) {
	screen.durations.OnChanged = nil
	screen.ambient.OnChanged = nil
	screen.durations.SetSelected(presetLabel(snapshot.Total))
	screen.ambient.SetSelected(snapshot.Ambient.DisplayName())
	screen.durations.OnChanged = screen.selectDuration
	screen.ambient.OnChanged = screen.selectAmbient
}

func presetLabels() []string {
	labels := make([]string, 0, len(model.DurationPresets))
	for _, preset := range model.DurationPresets {
		labels = append(labels, presetLabel(preset))
	}
	return labels
}

func presetLabel(duration time.Duration) string {
	minutes := int(duration / time.Minute)
	if minutes == 1 {
		return "1 minute"
	}
	return fmt.Sprintf("%d minutes", minutes)
}

func parsePresetLabel(label string) (time.Duration, bool) {
	for _, preset := range model.DurationPresets {
		if presetLabel(preset) == label {
			return preset, true
		}
	}
	return 0, false
}

func ambientLabels() []string {
	labels := make([]string, 0, len(model.AmbientSounds))
	for _, sound := range model.AmbientSounds {
		labels = append(labels, sound.DisplayName())
	}
	return labels
}

func ambientFromLabel(label string) model.AmbientSound {
	for _, sound := range model.AmbientSounds {
		if sound.DisplayName() == label {
			return sound
		}
	}
	return model.AmbientNone
}
