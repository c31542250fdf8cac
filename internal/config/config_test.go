package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingFile(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadEmptyPath(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadPartialFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "airmon.yaml")
	data := []byte("timeouts:\n  bluetoothctl: 30s\nlog_level: debug\n")
	require.NoError(t, os.WriteFile(path, data, 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 30*time.Second, cfg.Timeouts.Bluetoothctl)
	assert.Equal(t, "debug", cfg.LogLevel)

	// Everything the file omits stays at the defaults.
	def := Default()
	assert.Equal(t, def.Timeouts.Lsusb, cfg.Timeouts.Lsusb)
	assert.Equal(t, def.Timeouts.Powershell, cfg.Timeouts.Powershell)
	assert.Equal(t, def.MonitorInterval, cfg.MonitorInterval)
	assert.Equal(t, def.WatchDebounce, cfg.WatchDebounce)
}

func TestLoadMalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "airmon.yaml")
	require.NoError(t, os.WriteFile(path, []byte("timeouts: ["), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestDefaultsSane(t *testing.T) {
	cfg := Default()
	assert.Greater(t, cfg.Timeouts.ProfilerUSB, cfg.Timeouts.Profiler,
		"the USB tree dump is the slowest probe and gets the widest bound")
	assert.Positive(t, cfg.MonitorInterval)
	assert.Positive(t, cfg.WatchDebounce)
}
