//go:build linux

package platform

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLinuxLauncherRoundTrip(t *testing.T) {
	dir := t.TempDir()
	launcher := NewLauncher("ZenTime")
	launcher.configDir = func() (string, error) { return dir, nil }

	enabled, err := launcher.Enabled()
	require.NoError(t, err)
	assert.False(t, enabled)

	require.NoError(t, launcher.Sync(true, "/opt/Zen Time/zentime"))
	raw, err := os.ReadFile(filepath.Join(dir, "autostart", "zentime.desktop"))
	require.NoError(t, err)
	assert.Contains(t, string(raw), `Exec="/opt/Zen Time/zentime"`)
	assert.Contains(t, string(raw), "Name=ZenTime")

	enabled, err = launcher.Enabled()
	require.NoError(t, err)
	assert.True(t, enabled)

	require.NoError(t, launcher.Sync(false, ""))
	require.NoError(t, launcher.Disable())
	enabled, err = launcher.Enabled()
	require.NoError(t, err)
	assert.False(t, enabled)
}

func TestLinuxLauncherRequiresExecPath(t *testing.T) {
	launcher := NewLauncher("ZenTime")
	launcher.configDir = func() (string, error) { return t.TempDir(), nil }
	assert.Error(t, launcher.Enable(""))
}
