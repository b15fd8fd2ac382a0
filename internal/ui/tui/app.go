// Package tui provides the terminal meditation timer.
package tui

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"zentime/internal/core/breathing"
	"zentime/internal/core/countdown"
	"zentime/internal/core/model"
	"zentime/internal/core/timing"
)

var (
	primaryColor = lipgloss.Color("#7C3AED")
	successColor = lipgloss.Color("#10B981")
	mutedColor   = lipgloss.Color("#6B7280")

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(primaryColor).
			Padding(0, 1)

	tabStyle = lipgloss.NewStyle().
			Foreground(mutedColor).
			Padding(0, 1)

	activeTabStyle = lipgloss.NewStyle().
			Background(primaryColor).
			Bold(true).
			Padding(0, 1)

	clockStyle = lipgloss.NewStyle().
			Bold(true).
			Padding(1, 2)

	stateStyle = lipgloss.NewStyle().
			Italic(true).
			Foreground(mutedColor)

	noticeStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(successColor).
			Padding(0, 1)

	helpStyle = lipgloss.NewStyle().
			Foreground(mutedColor).
			Italic(true)
)

type mode int

const (
	modeMeditate mode = iota
	modeBreathe
)

// Notice is a notification shown inside the terminal.
type Notice struct {
	Title string
	Body  string
}

// Notices queues notifications for the terminal. It implements timing.Notifier.
type Notices chan Notice

// NewNotices creates a small notification queue.
func NewNotices() Notices {
	return make(Notices, 4)
}

// Deliver queues a notice, dropping it if the queue is full.
func (notices Notices) Deliver(title, body string) error {
	select {
	case notices <- Notice{Title: title, Body: body}:
	default:
	}
	return nil
}

// Bells carries terminal bell characters to the renderer. It implements
// io.Writer, so cue writers never touch the terminal while the program owns it.
type Bells chan int

// NewBells creates a small bell queue.
func NewBells() Bells {
	return make(Bells, 8)
}

// Write queues one ring per bell character in p, dropping rings if the queue is full.
func (bells Bells) Write(p []byte) (int, error) {
	if rings := strings.Count(string(p), "\a"); rings > 0 {
		select {
		case bells <- rings:
		default:
		}
	}
	return len(p), nil
}

// Options reports selections so they can be persisted.
type Options struct {
	OnDuration func(time.Duration)
	OnAmbient  func(model.AmbientSound)
	Bells      Bells
}

type countdownMsg countdown.Event
type breathingMsg breathing.Event
type noticeMsg Notice
type bellMsg int

// App is the terminal UI model.
type App struct {
	countdown       *countdown.Engine
	breathing       *breathing.Engine
	countdownEvents <-chan countdown.Event
	breathingEvents <-chan breathing.Event
	notices         Notices
	options         Options

	mode          mode
	bar           progress.Model
	countdownView countdown.Snapshot
	breathingView breathing.Snapshot
	notice        *Notice
	rings         int
	width         int
}

// New creates the terminal UI for the two engines.
func New(countdownEngine *countdown.Engine, breathingEngine *breathing.Engine, notices Notices, options Options) *App {
	return &App{
		countdown:       countdownEngine,
		breathing:       breathingEngine,
		countdownEvents: countdownEngine.Subscribe(16),
		breathingEvents: breathingEngine.Subscribe(16),
		notices:         notices,
		options:         options,
		bar:             progress.New(progress.WithDefaultGradient(), progress.WithoutPercentage()),
		countdownView:   countdownEngine.Snapshot(),
		breathingView:   breathingEngine.Snapshot(),
	}
}

// Run starts the terminal program and blocks until the user quits.
func (a *App) Run() error {
	p := tea.NewProgram(a, tea.WithAltScreen())
	_, err := p.Run()
	return err
}

// Init implements tea.Model
func (a *App) Init() tea.Cmd {
	return tea.Batch(
		waitCountdown(a.countdownEvents),
		waitBreathing(a.breathingEvents),
		waitNotice(a.notices),
		waitBells(a.options.Bells),
	)
}

// Update implements tea.Model
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	// Bells ring once, in the frame rendered right after they arrive.
	if _, ok := msg.(bellMsg); !ok {
		a.rings = 0
	}

	switch msg := msg.(type) {
	case bellMsg:
		a.rings += int(msg)
		return a, waitBells(a.options.Bells)

	case tea.KeyMsg:
		return a, a.handleKey(msg)

	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.bar.Width = max(min(msg.Width-8, 60), 10)
		return a, nil

	case countdownMsg:
		a.countdownView = msg.Snapshot
		if msg.Type == countdown.EventStateChange && msg.Snapshot.State == timing.StateRunning {
			a.notice = nil
		}
		return a, waitCountdown(a.countdownEvents)

	case breathingMsg:
		a.breathingView = msg.Snapshot
		return a, waitBreathing(a.breathingEvents)

	case noticeMsg:
		notice := Notice(msg)
		a.notice = &notice
		return a, waitNotice(a.notices)
	}
	return a, nil
}

func (a *App) handleKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "ctrl+c", "q":
		a.countdown.Pause()
		a.breathing.Pause()
		return tea.Quit

	case "tab":
		if a.mode == modeMeditate {
			a.mode = modeBreathe
		} else {
			a.mode = modeMeditate
		}

	case " ", "enter":
		a.toggle()

	case "r":
		if a.mode == modeMeditate {
			a.countdown.Reset()
		} else {
			a.breathing.Reset()
		}
		a.notice = nil

	case "+", "right", "l":
		a.stepDuration(1)

	case "-", "left", "h":
		a.stepDuration(-1)

	case "a":
		a.cycleAmbient()
	}
	return nil
}

func (a *App) toggle() {
	if a.mode == modeMeditate {
		if a.countdown.Snapshot().State == timing.StateRunning {
			a.countdown.Pause()
		} else {
			a.countdown.Start()
		}
		return
	}
	if a.breathing.Snapshot().State == timing.StateRunning {
		a.breathing.Pause()
	} else {
		a.breathing.Start()
	}
}

// stepDuration moves to the neighbouring preset while no session is in progress.
func (a *App) stepDuration(step int) {
	if a.mode != modeMeditate {
		return
	}
	snapshot := a.countdown.Snapshot()
	if snapshot.State == timing.StateRunning || snapshot.State == timing.StatePaused {
		return
	}
	next := nextPreset(snapshot.Total, step)
	if err := a.countdown.Configure(next); err != nil {
		return
	}
	a.countdownView = a.countdown.Snapshot()
	if a.options.OnDuration != nil {
		a.options.OnDuration(next)
	}
}

func (a *App) cycleAmbient() {
	current := a.countdown.Snapshot().Ambient
	next := model.AmbientSounds[0]
	for index, sound := range model.AmbientSounds {
		if sound == current {
			next = model.AmbientSounds[(index+1)%len(model.AmbientSounds)]
		}
	}
	a.countdown.SetAmbientSound(next)
	a.breathing.SetAmbientSound(next)
	a.countdownView = a.countdown.Snapshot()
	a.breathingView = a.breathing.Snapshot()
	if a.options.OnAmbient != nil {
		a.options.OnAmbient(next)
	}
}

// View implements tea.Model
func (a *App) View() string {
	var b strings.Builder

	b.WriteString(strings.Repeat("\a", a.rings))
	b.WriteString(titleStyle.Render("ZenTime"))
	b.WriteString("  ")
	b.WriteString(a.renderTab("Meditate", modeMeditate))
	b.WriteString(a.renderTab("Breathe", modeBreathe))
	b.WriteString("\n\n")

	if a.mode == modeMeditate {
		b.WriteString(a.viewCountdown())
	} else {
		b.WriteString(a.viewBreathing())
	}

	if a.notice != nil {
		b.WriteString("\n")
		b.WriteString(noticeStyle.Render(a.notice.Title + "\n" + a.notice.Body))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(helpStyle.Render("space start/pause · r reset · tab switch · +/- duration · a ambient · q quit"))
	return b.String()
}

func (a *App) renderTab(label string, tab mode) string {
	if a.mode == tab {
		return activeTabStyle.Render(label)
	}
	return tabStyle.Render(label)
}

func (a *App) viewCountdown() string {
	snapshot := a.countdownView
	lines := []string{
		clockStyle.Render(snapshot.TimeString()),
		a.bar.ViewAs(snapshot.Progress),
		stateStyle.Render(countdownStatus(snapshot.State)),
		fmt.Sprintf("Duration: %d min   Ambient: %s", int(snapshot.Total/time.Minute), snapshot.Ambient.DisplayName()),
	}
	return strings.Join(lines, "\n") + "\n"
}

func (a *App) viewBreathing() string {
	snapshot := a.breathingView
	label := "Box Breathing"
	count := ""
	if snapshot.State != timing.StateIdle {
		label = snapshot.Phase.Label()
		count = fmt.Sprintf("%d", int(math.Ceil(snapshot.PhaseRemaining.Seconds())))
	}
	lines := []string{
		clockStyle.Render(label + "  " + count),
		a.bar.ViewAs(snapshot.PhaseProgress),
		stateStyle.Render(breathingStatus(snapshot.State)),
		fmt.Sprintf("Cycles: %d   Elapsed: %s   Ambient: %s",
			snapshot.CompletedCycles, timing.FormatClock(snapshot.TotalElapsed), snapshot.Ambient.DisplayName()),
	}
	return strings.Join(lines, "\n") + "\n"
}

func countdownStatus(state timing.State) string {
	switch state {
	case timing.StateRunning:
		return "meditating"
	case timing.StatePaused:
		return "paused"
	case timing.StateCompleted:
		return "session complete"
	default:
		return "ready"
	}
}

func breathingStatus(state timing.State) string {
	switch state {
	case timing.StateRunning:
		return "breathing"
	case timing.StatePaused:
		return "paused"
	default:
		return "ready"
	}
}

// nextPreset returns the closest preset above (step > 0) or below current.
func nextPreset(current time.Duration, step int) time.Duration {
	presets := model.DurationPresets
	if step > 0 {
		for _, preset := range presets {
			if preset > current {
				return preset
			}
		}
		return presets[len(presets)-1]
	}
	for i := len(presets) - 1; i >= 0; i-- {
		if presets[i] < current {
			return presets[i]
		}
	}
	return presets[0]
}

func waitCountdown(events <-chan countdown.Event) tea.Cmd {
	return func() tea.Msg {
		event, ok := <-events
		if !ok {
			return nil
		}
		return countdownMsg(event)
	}
}

func waitBreathing(events <-chan breathing.Event) tea.Cmd {
	return func() tea.Msg {
		event, ok := <-events
		if !ok {
			return nil
		}
		return breathingMsg(event)
	}
}

func waitNotice(notices Notices) tea.Cmd {
	if notices == nil {
		return nil
	}
	return func() tea.Msg {
		notice, ok := <-notices
		if !ok {
			return nil
		}
		return noticeMsg(notice)
	}
}

func waitBells(bells Bells) tea.Cmd {
	if bells == nil {
		return nil
	}
	return func() tea.Msg {
		rings, ok := <-bells
		if !ok {
			return nil
		}
		return bellMsg(rings)
	}
}
