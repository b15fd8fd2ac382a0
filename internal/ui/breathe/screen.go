// Package breathe renders the box breathing exercise.
package breathe

import (
	"fmt"
	"math"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"zentime/internal/core/breathing"
	"zentime/internal/core/timing"
)

const circleSize = 240

// Screen shows a circle that follows the breathing phases.
type Screen struct {
	engine *breathing.Engine

	circle      *canvas.Circle
	outline     *canvas.Circle
	circleArea  *fyne.Container
	circles     *circleLayout
	phaseLabel  *widget.Label
	countLabel  *widget.Label
	cycleLabel  *widget.Label
	startButton *widget.Button
	resetButton *widget.Button
	content     fyne.CanvasObject
}

// New builds the screen around engine.
func New(engine *breathing.Engine) *Screen {
	screen := &Screen{engine: engine}

	screen.outline = canvas.NewCircle(nil)
	screen.outline.StrokeColor = theme.Color(theme.ColorNameDisabled)
	screen.outline.StrokeWidth = 5
	screen.circle = canvas.NewCircle(theme.Color(theme.ColorNamePrimary))
	screen.circles = &circleLayout{scale: minScale}
	screen.circleArea = container.New(screen.circles, screen.outline, screen.circle)

	screen.phaseLabel = widget.NewLabelWithStyle("", fyne.TextAlignCenter, fyne.TextStyle{Bold: true})
	screen.countLabel = widget.NewLabelWithStyle("", fyne.TextAlignCenter, fyne.TextStyle{Monospace: true})
	screen.cycleLabel = widget.NewLabelWithStyle("", fyne.TextAlignCenter, fyne.TextStyle{})

	screen.startButton = widget.NewButtonWithIcon("Start", theme.MediaPlayIcon(), screen.toggle)
	screen.startButton.Importance = widget.HighImportance
	screen.resetButton = widget.NewButtonWithIcon("Reset", theme.MediaReplayIcon(), engine.Reset)

	screen.content = container.NewVBox(
		screen.phaseLabel,
		screen.circleArea,
		screen.countLabel,
		screen.cycleLabel,
		container.NewHBox(layout.NewSpacer(), screen.startButton, screen.resetButton, layout.NewSpacer()),
	)
	screen.render(engine.Snapshot())
	return screen
}

// Content returns the root canvas object.
func (screen *Screen) Content() fyne.CanvasObject {
	return screen.content
}

// Follow renders every event from events on the UI goroutine until the channel closes.
func (screen *Screen) Follow(events <-chan breathing.Event) {
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

func (screen *Screen) render(snapshot breathing.Snapshot) {
	active := snapshot.State == timing.StateRunning
	screen.circles.scale = float32(Scale(snapshot.Phase, snapshot.PhaseProgress, active))
	screen.circleArea.Refresh()

	if snapshot.State == timing.StateIdle {
		screen.phaseLabel.SetText("Box Breathing")
		screen.countLabel.SetText("")
	} else {
		screen.phaseLabel.SetText(snapshot.Phase.Label())
		screen.countLabel.SetText(fmt.Sprintf("%d", int(math.Ceil(snapshot.PhaseRemaining.Seconds()))))
	}
	screen.cycleLabel.SetText(fmt.Sprintf("Cycles: %d  ·  %s", snapshot.CompletedCycles, timing.FormatClock(snapshot.TotalElapsed)))

	switch snapshot.State {
	case timing.StateRunning:
		screen.startButton.SetText("Pause")
		screen.startButton.SetIcon(theme.MediaPauseIcon())
	case timing.StatePaused:
		screen.startButton.SetText("Resume")
		screen.startButton.SetIcon(theme.MediaPlayIcon())
	default:
		screen.startButton.SetText("Start")
		screen.startButton.SetIcon(theme.MediaPlayIcon())
	}
}

// circleLayout centers its objects, drawing the first at full size and the
// rest at scale.
type circleLayout struct {
	scale float32
}

func (circles *circleLayout) Layout(objects []fyne.CanvasObject, size fyne.Size) {
	full := fyne.Min(size.Width, size.Height)
	for index, object := range objects {
		diameter := full
		if index > 0 {
			diameter = full * circles.scale
		}
		object.Resize(fyne.NewSquareSize(diameter))
		object.Move(fyne.NewPos((size.Width-diameter)/2, (size.Height-diameter)/2))
	}
}

func (circles *circleLayout) MinSize([]fyne.CanvasObject) fyne.Size {
	return fyne.NewSquareSize(circleSize)
}
