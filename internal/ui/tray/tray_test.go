package tray

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMenuFollowsSession(t *testing.T) {
	toggles := 0
	manager := New(nil, Callbacks{OnToggle: func() { toggles++ }})

	assert.Equal(t, "Status: ready", manager.statusItem.Label)
	assert.Equal(t, "Start meditation", manager.toggleItem.Label)
	assert.True(t, manager.resetItem.Disabled)

	manager.SetStatus("09:58 left")
	manager.SetSession(true, false)
	assert.Equal(t, "Status: 09:58 left", manager.statusItem.Label)
	assert.Equal(t, "Pause meditation", manager.toggleItem.Label)
	assert.False(t, manager.resetItem.Disabled)

	manager.SetSession(false, true)
	assert.Equal(t, "Status: 09:58 left (paused)", manager.statusItem.Label)
	assert.Equal(t, "Resume meditation", manager.toggleItem.Label)

	manager.toggleItem.Action()
	assert.Equal(t, 1, toggles)
}

func TestMenuIgnoresMissingCallbacks(t *testing.T) {
	manager := New(nil, Callbacks{})
	menu := manager.Menu()
	require.Len(t, menu.Items, 7)
	for _, item := range menu.Items {
		if item.Action != nil {
			item.Action()
		}
	}
}
