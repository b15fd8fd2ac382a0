package storage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/renameio/v2"
	"gopkg.in/yaml.v3"

	"zentime/internal/core/model"
	"zentime/internal/platform"
	"zentime/internal/ui/preferences"
)

const settingsFileName = "settings.yaml"

type yamlSettings struct {
	DurationMinutes       int    `yaml:"duration_minutes"`
	AmbientSound          string `yaml:"ambient_sound"`
	BreathingPhaseSeconds int    `yaml:"breathing_phase_seconds"`
	SmoothCountdown       bool   `yaml:"smooth_countdown"`
	ReminderEnabled       bool   `yaml:"reminder_enabled"`
	ReminderTime          string `yaml:"reminder_time"`
	LaunchAtLogin         bool   `yaml:"launch_at_login"`
}

// LoadSettings reads user preferences from YAML.
// If the config file does not exist, default settings are returned.
func LoadSettings(appName string) (preferences.Settings, error) {
	configPath, err := ResolveConfigPath(appName, settingsFileName)
	if err != nil {
		return preferences.DefaultSettings(), err
	}
	return LoadSettingsFile(configPath)
}

// LoadSettingsFile reads user preferences from the YAML file at configPath.
func LoadSettingsFile(configPath string) (preferences.Settings, error) {
	settings := preferences.DefaultSettings()
	rawData, err := os.ReadFile(configPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return settings, nil
		}
		return settings, fmt.Errorf("read settings file: %w", err)
	}

	var fileData yamlSettings
	if err := yaml.Unmarshal(rawData, &fileData); err != nil {
		return settings, fmt.Errorf("parse settings yaml: %w", err)
	}

	applyYamlSettings(&settings, fileData)
	return settings, nil
}

// SaveSettings writes user preferences to YAML.
func SaveSettings(appName string, settings preferences.Settings) error {
	configPath, err := ResolveConfigPath(appName, settingsFileName)
	if err != nil {
		return err
	}
	return SaveSettingsFile(configPath, settings)
}

// SaveSettingsFile atomically replaces the YAML file at configPath.
func SaveSettingsFile(configPath string, settings preferences.Settings) error {
	if err := os.MkdirAll(filepath.Dir(configPath), 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}

	fileData := yamlSettings{
		DurationMinutes:       int(settings.Duration / time.Minute),
		AmbientSound:          string(settings.AmbientSound),
		BreathingPhaseSeconds: int(settings.BreathingPhase / time.Second),
		SmoothCountdown:       settings.SmoothCountdown,
		ReminderEnabled:       settings.ReminderEnabled,
		ReminderTime:          fmt.Sprintf("%02d:%02d", settings.ReminderHour, settings.ReminderMinute),
		LaunchAtLogin:         settings.LaunchAtLogin,
	}

	serialized, err := yaml.Marshal(fileData)
	if err != nil {
		return fmt.Errorf("marshal settings yaml: %w", err)
	}

	if err := renameio.WriteFile(configPath, serialized, 0o644); err != nil {
		return fmt.Errorf("write settings file: %w", err)
	}
	return nil
}

// ResolveConfigPath returns the path of fileName inside the app's config directory.
func ResolveConfigPath(appName, fileName string) (string, error) {
	configDir, err := platform.ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, appName, fileName), nil
}

func applyYamlSettings(settings *preferences.Settings, fileData yamlSettings) {
	if fileData.DurationMinutes > 0 && fileData.DurationMinutes <= 24*60 {
		settings.Duration = time.Duration(fileData.DurationMinutes) * time.Minute
	}
	if fileData.BreathingPhaseSeconds >= 2 && fileData.BreathingPhaseSeconds <= 30 {
		settings.BreathingPhase = time.Duration(fileData.BreathingPhaseSeconds) * time.Second
	}
	if fileData.AmbientSound != "" {
		settings.AmbientSound = model.ParseAmbientSound(fileData.AmbientSound)
	}
	if hour, minute, ok := parseClockTime(fileData.ReminderTime); ok {
		settings.ReminderHour = hour
		settings.ReminderMinute = minute
	}

	settings.SmoothCountdown = fileData.SmoothCountdown
	settings.ReminderEnabled = fileData.ReminderEnabled
	settings.LaunchAtLogin = fileData.LaunchAtLogin
}

func parseClockTime(value string) (int, int, bool) {
	parsed, err := time.Parse("15:04", value)
	if err != nil {
		return 0, 0, false
	}
	return parsed.Hour(), parsed.Minute(), true
}
