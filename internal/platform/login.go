package platform

import (
	"errors"
	"fmt"
	"os"
	"strings"
)

// ErrEmptyAppName is returned when a launcher has no app name to register.
var ErrEmptyAppName = errors.New("app name is empty")

// Launcher registers the application to start at login.
type Launcher struct {
	appName   string
	configDir func() (string, error)
	homeDir   func() (string, error)
}

// NewLauncher returns a launcher for appName using the OS-standard directories.
func NewLauncher(appName string) *Launcher {
	return &Launcher{
		appName:   appName,
		configDir: ConfigDir,
		homeDir:   os.UserHomeDir,
	}
}

// Sync enables or disables launch at login to match enabled.
func (launcher *Launcher) Sync(enabled bool, execPath string) error {
	if enabled {
		return launcher.Enable(execPath)
	}
	return launcher.Disable()
}

// ConfigDir returns the OS-standard configuration directory.
func ConfigDir() (string, error) {
	configDir, err := os.UserConfigDir()
	if err == nil && configDir != "" {
		return configDir, nil
	}

	homeDir, homeErr := os.UserHomeDir()
	if homeErr != nil {
		if err != nil {
			return "", fmt.Errorf("get config dir: %w", err)
		}
		return "", fmt.Errorf("get config dir: %w", homeErr)
	}

	return fallbackConfigDir(homeDir), nil
}

func (launcher *Launcher) validate() error {
	if strings.TrimSpace(launcher.appName) == "" {
		return ErrEmptyAppName
	}
	return nil
}

func slug(appName string) string {
	name := strings.ToLower(strings.TrimSpace(appName))
	return strings.ReplaceAll(name, " ", "-")
}
