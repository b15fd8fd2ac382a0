package main

import (
	"fmt"

	"github.com/rs/zerolog"

	"zentime/internal/feedback"
	"zentime/internal/history"
	"zentime/internal/log"
	"zentime/internal/platform"
	"zentime/internal/storage"
	"zentime/internal/ui/preferences"
)

// loadSettings returns the saved preferences, or defaults if they cannot be read.
func loadSettings(logger zerolog.Logger) preferences.Settings {
	settings, err := storage.LoadSettings(appName)
	if err != nil {
		logger.Warn().Err(err).Msg("load settings, using defaults")
	}
	return settings
}

func saveSettings(logger zerolog.Logger, settings preferences.Settings) {
	if err := storage.SaveSettings(appName, settings); err != nil {
		logger.Error().Err(err).Msg("save settings")
	}
}

func openHistory() (*history.Store, error) {
	configDir, err := platform.ConfigDir()
	if err != nil {
		return nil, err
	}
	store, err := history.Open(history.DefaultPath(configDir, appName))
	if err != nil {
		return nil, fmt.Errorf("open history: %w", err)
	}
	return store, nil
}

// openAudio opens the speaker lazily and loads ambient sounds from the sounds directory.
func openAudio(logger zerolog.Logger) (*feedback.Speaker, *feedback.AmbientPlayer) {
	dir := soundsDir
	if dir == "" {
		resolved, err := storage.ResolveConfigPath(appName, "sounds")
		if err != nil {
			logger.Warn().Err(err).Msg("resolve sounds directory")
		}
		dir = resolved
	}
	output := feedback.NewSpeaker(feedback.DefaultSampleRate)
	return output, feedback.NewAmbientPlayer(dir, output, log.WithComponent("ambient"))
}
