//go:build linux

package platform

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Enable writes an XDG autostart entry pointing at execPath.
func (launcher *Launcher) Enable(execPath string) error {
	if err := launcher.validate(); err != nil {
		return fmt.Errorf("enable launch at login: %w", err)
	}
	if execPath == "" {
		return fmt.Errorf("enable launch at login: exec path is empty")
	}

	entryPath, err := launcher.entryPath()
	if err != nil {
		return fmt.Errorf("enable launch at login: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(entryPath), 0o755); err != nil {
		return fmt.Errorf("enable launch at login: create autostart dir: %w", err)
	}
	if err := os.WriteFile(entryPath, []byte(buildDesktopEntry(launcher.appName, execPath)), 0o644); err != nil {
		return fmt.Errorf("enable launch at login: write desktop entry: %w", err)
	}
	return nil
}

// Disable removes the autostart entry. A missing entry is not an error.
func (launcher *Launcher) Disable() error {
	if err := launcher.validate(); err != nil {
		return fmt.Errorf("disable launch at login: %w", err)
	}

	entryPath, err := launcher.entryPath()
	if err != nil {
		return fmt.Errorf("disable launch at login: %w", err)
	}
	if err := os.Remove(entryPath); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("disable launch at login: remove desktop entry: %w", err)
	}
	return nil
}

// Enabled reports whether the autostart entry exists.
func (launcher *Launcher) Enabled() (bool, error) {
	if err := launcher.validate(); err != nil {
		return false, err
	}
	entryPath, err := launcher.entryPath()
	if err != nil {
		return false, err
	}
	_, err = os.Stat(entryPath)
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	return err == nil, err
}

func (launcher *Launcher) entryPath() (string, error) {
	configDir, err := launcher.configDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "autostart", slug(launcher.appName)+".desktop"), nil
}

func fallbackConfigDir(homeDir string) string {
	return filepath.Join(homeDir, ".config")
}

func buildDesktopEntry(appName, execPath string) string {
	execLine := execPath
	if strings.Contains(execLine, " ") && !strings.HasPrefix(execLine, `"`) {
		execLine = `"` + execLine + `"`
	}

	return fmt.Sprintf(
		`[Desktop Entry]
Type=Application
Name=%s
Comment=Meditation timer and daily reminder
Exec=%s
X-GNOME-Autostart-enabled=true
Terminal=false
`,
		appName,
		execLine,
	)
}
