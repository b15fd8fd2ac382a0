//go:build darwin

package platform

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Enable installs a LaunchAgent that starts execPath at login.
func (launcher *Launcher) Enable(execPath string) error {
	if err := launcher.validate(); err != nil {
		return fmt.Errorf("enable launch at login: %w", err)
	}
	if execPath == "" {
		return fmt.Errorf("enable launch at login: exec path is empty")
	}

	plistPath, err := launcher.plistPath()
	if err != nil {
		return fmt.Errorf("enable launch at login: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(plistPath), 0o755); err != nil {
		return fmt.Errorf("enable launch at login: create LaunchAgents dir: %w", err)
	}
	content := buildLaunchAgentPlist(launchAgentLabel(launcher.appName), execPath)
	if err := os.WriteFile(plistPath, []byte(content), 0o644); err != nil {
		return fmt.Errorf("enable launch at login: write plist: %w", err)
	}
	return nil
}

// Disable removes the LaunchAgent. A missing agent is not an error.
func (launcher *Launcher) Disable() error {
	if err := launcher.validate(); err != nil {
		return fmt.Errorf("disable launch at login: %w", err)
	}

	plistPath, err := launcher.plistPath()
	if err != nil {
		return fmt.Errorf("disable launch at login: %w", err)
	}
	if err := os.Remove(plistPath); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("disable launch at login: remove plist: %w", err)
	}
	return nil
}

// Enabled reports whether the LaunchAgent is installed.
func (launcher *Launcher) Enabled() (bool, error) {
	if err := launcher.validate(); err != nil {
		return false, err
	}
	plistPath, err := launcher.plistPath()
	if err != nil {
		return false, err
	}
	_, err = os.Stat(plistPath)
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	return err == nil, err
}

func (launcher *Launcher) plistPath() (string, error) {
	homeDir, err := launcher.homeDir()
	if err != nil {
		return "", fmt.Errorf("get home dir: %w", err)
	}
	return filepath.Join(homeDir, "Library", "LaunchAgents", launchAgentLabel(launcher.appName)+".plist"), nil
}

func fallbackConfigDir(homeDir string) string {
	return filepath.Join(homeDir, "Library", "Application Support")
}

func launchAgentLabel(appName string) string {
	return "com.zentime." + slug(appName)
}

func buildLaunchAgentPlist(label, execPath string) string {
	return fmt.Sprintf(
		`<?xml version="1.0" encoding="UTF-8"?>
<!DOCTYPE plist PUBLIC "-//Apple//DTD PLIST 1.0//EN" "http://www.apple.com/DTDs/PropertyList-1.0.dtd">
<plist version="1.0">
<dict>
	<key>Label</key>
	<string>%s</string>
	<key>ProgramArguments</key>
	<array>
		<string>%s</string>
	</array>
	<key>RunAtLoad</key>
	<true/>
</dict>
</plist>
`,
		xmlEscape(label),
		xmlEscape(execPath),
	)
}

func xmlEscape(value string) string {
	replacer := strings.NewReplacer(
		"&", "&amp;",
		"<", "&lt;",
		">", "&gt;",
		`"`, "&quot;",
		"'", "&apos;",
	)
	return replacer.Replace(value)
}
