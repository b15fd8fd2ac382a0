package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"zentime/internal/core/breathing"
	"zentime/internal/core/clock"
	"zentime/internal/core/countdown"
	"zentime/internal/core/model"
	"zentime/internal/feedback"
	"zentime/internal/history"
	"zentime/internal/log"
	"zentime/internal/ui/tui"
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Run the timer in the terminal",
	RunE:  runTUI,
}

var tuiLogFile string

func init() {
	tuiCmd.Flags().StringVar(&tuiLogFile, "log-file", "", "write logs to this file while the terminal UI is open")
}

func runTUI(cmd *cobra.Command, args []string) error {
	// The terminal belongs to the UI, so logs go to a file or nowhere.
	var logOutput io.Writer = io.Discard
	if tuiLogFile != "" {
		file, err := os.OpenFile(tuiLogFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return fmt.Errorf("open log file: %w", err)
		}
		defer file.Close()
		logOutput = file
	}
	log.Configure(log.Config{Level: logLevel, Output: logOutput})
	logger := log.WithComponent("tui")

	settings := loadSettings(logger)
	store, err := openHistory()
	if err != nil {
		return err
	}
	defer store.Close()

	engineLogger := log.WithComponent("engine")
	notices := tui.NewNotices()
	bells := tui.NewBells()
	_, player := openAudio(logger)
	defer player.Close()

	countdownEngine := countdown.New(settings.CountdownConfig(), countdown.Deps{
		Clock:    clock.System,
		Feedback: feedback.NewBell(bells),
		Notifier: notices,
		Ambient:  player.Channel("meditation", feedback.MeditationVolume),
		Logger:   &engineLogger,
	})
	defer countdownEngine.Close()

	phaseBell := feedback.NewBell(bells)
	phaseBell.LightBells = true
	breathingEngine := breathing.New(settings.BreathingConfig(), breathing.Deps{
		Clock:    clock.System,
		Feedback: phaseBell,
		Ambient:  player.Channel("breathing", feedback.BreathingVolume),
		Logger:   &engineLogger,
	})
	defer breathingEngine.Close()

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()
	recorder := history.NewRecorder(store, log.WithComponent("history"))
	go recorder.Run(ctx, countdownEngine)

	app := tui.New(countdownEngine, breathingEngine, notices, tui.Options{
		OnDuration: func(duration time.Duration) {
			settings.Duration = duration
			saveSettings(logger, settings)
		},
		OnAmbient: func(sound model.AmbientSound) {
			settings.AmbientSound = sound
			saveSettings(logger, settings)
		},
		Bells: bells,
	})
	if err := app.Run(); err != nil {
		return fmt.Errorf("terminal UI: %w", err)
	}
	return nil
}
