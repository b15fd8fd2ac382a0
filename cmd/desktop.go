package main

import (
	"context"
	"errors"
	"os"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/theme"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"zentime/internal/core/breathing"
	"zentime/internal/core/clock"
	"zentime/internal/core/countdown"
	"zentime/internal/core/model"
	"zentime/internal/core/timing"
	"zentime/internal/feedback"
	"zentime/internal/history"
	"zentime/internal/log"
	"zentime/internal/platform"
	"zentime/internal/reminder"
	"zentime/internal/ui/breathe"
	"zentime/internal/ui/journal"
	"zentime/internal/ui/meditation"
	"zentime/internal/ui/preferences"
	"zentime/internal/ui/tray"
)

func runDesktop(cmd *cobra.Command, args []string) error {
	logger := log.WithComponent("desktop")

	instance, err := platform.LockInstance(appName)
	if err != nil {
		if errors.Is(err, platform.ErrAlreadyRunning) {
			logger.Info().Err(err).Msg("ZenTime is already running")
			return nil
		}
		return err
	}
	defer func() {
		_ = instance.Release()
	}()

	settings := loadSettings(logger)
	store, err := openHistory()
	if err != nil {
		return err
	}
	defer store.Close()

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	fyneApp := app.NewWithID("com.zentime.app")
	window := fyneApp.NewWindow(appName)

	engineLogger := log.WithComponent("engine")
	notifier := feedback.NewDesktopNotifier(fyneApp)
	output, player := openAudio(logger)
	defer player.Close()
	cues := feedback.NewChimes(output, feedback.MeditationVolume, log.WithComponent("feedback"))

	countdownEngine := countdown.New(settings.CountdownConfig(), countdown.Deps{
		Clock:    clock.System,
		Feedback: cues,
		Notifier: notifier,
		Ambient:  player.Channel("meditation", feedback.MeditationVolume),
		Logger:   &engineLogger,
	})
	defer countdownEngine.Close()

	breathingEngine := breathing.New(settings.BreathingConfig(), breathing.Deps{
		Clock:    clock.System,
		Feedback: cues,
		Ambient:  player.Channel("breathing", feedback.BreathingVolume),
		Logger:   &engineLogger,
	})
	defer breathingEngine.Close()

	historyView := journal.New(store, window, log.WithComponent("history"))
	recorder := history.NewRecorder(store, log.WithComponent("history"))
	recorder.SetOnRecorded(func(history.Session) {
		historyView.Reload(ctx)
	})
	go recorder.Run(ctx, countdownEngine)
	go historyView.Reload(ctx)

	scheduler := reminder.NewScheduler(settings.ReminderConfig(), notifier, log.WithComponent("reminder"))
	scheduler.Start(ctx)
	defer scheduler.Stop()

	launcher := platform.NewLauncher(appName)
	syncLaunchAtLogin(logger, launcher, settings.LaunchAtLogin)

	prefsWindow := preferences.New(fyneApp, settings, func(updated preferences.Settings) {
		settings = updated
		saveSettings(logger, settings)
		if err := countdownEngine.Configure(settings.Duration); err != nil {
			logger.Warn().Err(err).Msg("apply session length")
		}
		countdownEngine.SetAmbientSound(settings.AmbientSound)
		breathingEngine.SetAmbientSound(settings.AmbientSound)
		scheduler.Update(ctx, settings.ReminderConfig())
		syncLaunchAtLogin(logger, launcher, settings.LaunchAtLogin)
	})

	meditationScreen := meditation.New(countdownEngine, meditation.Callbacks{
		OnDuration: func(duration time.Duration) {
			settings.Duration = duration
			prefsWindow.UpdateSettings(settings)
			saveSettings(logger, settings)
		},
		OnAmbient: func(sound model.AmbientSound) {
			settings.AmbientSound = sound
			breathingEngine.SetAmbientSound(sound)
			prefsWindow.UpdateSettings(settings)
			saveSettings(logger, settings)
		},
	})
	meditationScreen.Follow(countdownEngine.Subscribe(16))

	breatheScreen := breathe.New(breathingEngine)
	breatheScreen.Follow(breathingEngine.Subscribe(16))

	tabs := container.NewAppTabs(
		container.NewTabItemWithIcon("Meditate", theme.MediaPlayIcon(), meditationScreen.Content()),
		container.NewTabItemWithIcon("Breathe", theme.ViewRefreshIcon(), breatheScreen.Content()),
		container.NewTabItemWithIcon("History", theme.HistoryIcon(), historyView.Content()),
	)
	instance.OnActivate(func() {
		fyne.Do(func() {
			window.Show()
			window.RequestFocus()
		})
	})

	window.SetContent(tabs)
	window.Resize(fyne.NewSize(420, 560))
	window.SetMainMenu(fyne.NewMainMenu(fyne.NewMenu("ZenTime",
		fyne.NewMenuItem("Preferences", prefsWindow.Show),
	)))

	if desktopApp, ok := fyneApp.(desktop.App); ok {
		trayManager := tray.New(desktopApp, tray.Callbacks{
			OnShow: func() {
				window.Show()
				window.RequestFocus()
			},
			OnToggle: func() {
				if countdownEngine.Snapshot().State == timing.StateRunning {
					countdownEngine.Pause()
					return
				}
				countdownEngine.Start()
			},
			OnReset:       countdownEngine.Reset,
			OnPreferences: prefsWindow.Show,
			OnQuit:        fyneApp.Quit,
		})
		followTray(trayManager, countdownEngine.Subscribe(16))
		window.SetCloseIntercept(window.Hide)
	} else {
		logger.Info().Msg("system tray unsupported on this platform")
	}

	window.ShowAndRun()
	return nil
}

func followTray(trayManager *tray.Manager, events <-chan countdown.Event) {
	go func() {
		for event := range events {
			snapshot := event.Snapshot
			fyne.Do(func() {
				switch snapshot.State {
				case timing.StateRunning, timing.StatePaused:
					trayManager.SetStatus(snapshot.TimeString() + " left")
				case timing.StateCompleted:
					trayManager.SetStatus("session complete")
				default:
					trayManager.SetStatus("ready")
				}
				trayManager.SetSession(snapshot.State == timing.StateRunning, snapshot.State == timing.StatePaused)
			})
		}
	}()
}

func syncLaunchAtLogin(logger zerolog.Logger, launcher *platform.Launcher, enabled bool) {
	execPath, err := os.Executable()
	if err != nil {
		logger.Warn().Err(err).Msg("resolve executable for launch at login")
		return
	}
	if err := launcher.Sync(enabled, execPath); err != nil {
		logger.Warn().Err(err).Bool("enabled", enabled).Msg("launch at login")
	}
}
