// Package journal shows the history of finished meditation sessions.
package journal

import (
	"context"
	"sync"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
	"github.com/rs/zerolog"

	"zentime/internal/history"
)

// Source is the history the view reads from.
type Source interface {
	List(ctx context.Context) ([]history.Session, error)
	Summary(ctx context.Context) (history.Summary, error)
	Clear(ctx context.Context) error
}

// View lists sessions newest first under a summary line.
type View struct {
	source  Source
	logger  zerolog.Logger
	parent  fyne.Window
	summary *widget.Label
	list    *widget.List
	content fyne.CanvasObject

	mu       sync.Mutex
	sessions []history.Session
}

// New builds a history view. parent hosts the confirmation dialog.
func New(source Source, parent fyne.Window, logger zerolog.Logger) *View {
	view := &View{source: source, parent: parent, logger: logger}

	view.summary = widget.NewLabelWithStyle("", fyne.TextAlignLeading, fyne.TextStyle{Bold: true})
	view.list = widget.NewList(
		view.length,
		func() fyne.CanvasObject {
			return widget.NewLabel("")
		},
		func(id widget.ListItemID, object fyne.CanvasObject) {
			object.(*widget.Label).SetText(view.line(id))
		},
	)
	clearButton := widget.NewButtonWithIcon("Clear history", theme.DeleteIcon(), view.confirmClear)

	view.content = container.NewBorder(view.summary, clearButton, nil, nil, view.list)
	return view
}

// Content returns the root canvas object.
func (view *View) Content() fyne.CanvasObject {
	return view.content
}

// Reload reads the history and refreshes the widgets on the UI goroutine.
func (view *View) Reload(ctx context.Context) {
	sessions, err := view.source.List(ctx)
	if err != nil {
		view.logger.Error().Err(err).Msg("load history")
		return
	}
	summary, err := view.source.Summary(ctx)
	if err != nil {
		view.logger.Error().Err(err).Msg("load history summary")
		return
	}

	view.mu.Lock()
	view.sessions = sessions
	view.mu.Unlock()

	fyne.Do(func() {
		view.summary.SetText(history.SummaryLine(summary))
		view.list.Refresh()
	})
}

func (view *View) confirmClear() {
	dialog.ShowConfirm("Clear history", "Delete every recorded session?", func(confirmed bool) {
		if !confirmed {
			return
		}
		go func() {
			ctx := context.Background()
			if err := view.source.Clear(ctx); err != nil {
				view.logger.Error().Err(err).Msg("clear history")
				return
			}
			view.Reload(ctx)
		}()
	}, view.parent)
}

func (view *View) length() int {
	view.mu.Lock()
	defer view.mu.Unlock()
	return len(view.sessions)
}

func (view *View) line(id widget.ListItemID) string {
	view.mu.Lock()
	defer view.mu.Unlock()
	if id < 0 || id >= len(view.sessions) {
		return ""
	}
	return history.SessionLine(view.sessions[id])
}
