//go:build windows

package platform

import (
	"fmt"
	"os/exec"
	"path/filepath"
	"strings"
)

const registryRunKey = `HKCU\Software\Microsoft\Windows\CurrentVersion\Run`

// Enable adds execPath to the user's Run registry key.
func (launcher *Launcher) Enable(execPath string) error {
	if err := launcher.validate(); err != nil {
		return fmt.Errorf("enable launch at login: %w", err)
	}
	if execPath == "" {
		return fmt.Errorf("enable launch at login: exec path is empty")
	}

	output, err := exec.Command("reg", "add", registryRunKey,
		"/v", launcher.appName, "/t", "REG_SZ", "/d", quoteWindowsPath(execPath), "/f",
	).CombinedOutput()
	if err != nil {
		return fmt.Errorf("enable launch at login: reg add failed: %w: %s", err, strings.TrimSpace(string(output)))
	}
	return nil
}

// Disable removes the Run registry value. A missing value is not an error.
func (launcher *Launcher) Disable() error {
	if err := launcher.validate(); err != nil {
		return fmt.Errorf("disable launch at login: %w", err)
	}
	enabled, err := launcher.Enabled()
	if err != nil || !enabled {
		return err
	}

	output, err := exec.Command("reg", "delete", registryRunKey, "/v", launcher.appName, "/f").CombinedOutput()
	if err != nil {
		return fmt.Errorf("disable launch at login: reg delete failed: %w: %s", err, strings.TrimSpace(string(output)))
	}
	return nil
}

// Enabled reports whether the Run registry value exists.
func (launcher *Launcher) Enabled() (bool, error) {
	if err := launcher.validate(); err != nil {
		return false, err
	}
	err := exec.Command("reg", "query", registryRunKey, "/v", launcher.appName).Run()
	if err == nil {
		return true, nil
	}
	if _, ok := err.(*exec.ExitError); ok {
		return false, nil
	}
	return false, fmt.Errorf("query launch at login: %w", err)
}

func fallbackConfigDir(homeDir string) string {
	return filepath.Join(homeDir, "AppData", "Roaming")
}

func quoteWindowsPath(execPath string) string {
	return fmt.Sprintf(`"%s"`, strings.Trim(execPath, `"`))
}
