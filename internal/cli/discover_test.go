package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseDiscoveryLine(t *testing.T) {
	mac, name, ok := parseDiscoveryLine("[NEW] Device AA:BB:CC:DD:EE:FF My Headphones")
	assert.True(t, ok)
	assert.Equal(t, "AA:BB:CC:DD:EE:FF", mac)
	assert.Equal(t, "My Headphones", name)
}

func TestParseDiscoveryLineWithPromptNoise(t *testing.T) {
	// bluetoothctl prefixes announcements with its colored prompt.
	line := "\x1b[0;94m[bluetooth]\x1b[0m# [NEW] Device 00:11:22:33:44:55 Keyboard"
	mac, name, ok := parseDiscoveryLine(line)
	assert.True(t, ok)
	assert.Equal(t, "00:11:22:33:44:55", mac)
	assert.Equal(t, "Keyboard", name)
}

func TestParseDiscoveryLineIgnoresOtherEvents(t *testing.T) {
	for _, line := range []string{
		"[CHG] Device AA:BB:CC:DD:EE:FF RSSI: -60",
		"[DEL] Device AA:BB:CC:DD:EE:FF Gone",
		"Discovery started",
		"",
		"[NEW] Device AA:BB:CC:DD:EE:FF",
	} {
		_, _, ok := parseDiscoveryLine(line)
		assert.False(t, ok, "line %q", line)
	}
}
