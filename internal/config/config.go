package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Timeouts bounds each subprocess probe. Zero values are replaced with the
// defaults at load time, so a partial config file stays usable.
type Timeouts struct {
	Bluetoothctl time.Duration `yaml:"bluetoothctl"`
	Lsusb        time.Duration `yaml:"lsusb"`
	Profiler     time.Duration `yaml:"system_profiler"`
	ProfilerUSB  time.Duration `yaml:"system_profiler_usb"`
	Iwconfig     time.Duration `yaml:"iwconfig"`
	Netsh        time.Duration `yaml:"netsh"`
	Networksetup time.Duration `yaml:"networksetup"`
	IPLink       time.Duration `yaml:"ip_link"`
	Powershell   time.Duration `yaml:"powershell"`
}

type Config struct {
	Timeouts        Timeouts      `yaml:"timeouts"`
	MonitorInterval time.Duration `yaml:"monitor_interval"`
	WatchDebounce   time.Duration `yaml:"watch_debounce"`
	LogLevel        string        `yaml:"log_level"`
}

func Default() Config {
	return Config{
		Timeouts: Timeouts{
			Bluetoothctl: 5 * time.Second,
			Lsusb:        10 * time.Second,
			Profiler:     10 * time.Second,
			ProfilerUSB:  15 * time.Second,
			Iwconfig:     5 * time.Second,
			Netsh:        10 * time.Second,
			Networksetup: 10 * time.Second,
			IPLink:       5 * time.Second,
			Powershell:   10 * time.Second,
		},
		MonitorInterval: 2 * time.Second,
		WatchDebounce:   time.Second,
		LogLevel:        "warn",
	}
}

// Load reads path over the defaults. A missing file is not an error; a
// malformed one is.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("read config: %w", err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config: %w", err)
	}

	cfg.fillDefaults()
	return cfg, nil
}

func (c *Config) fillDefaults() {
	def := Default()
	t, dt := &c.Timeouts, def.Timeouts

	for _, pair := range []struct {
		dst *time.Duration
		def time.Duration
	}{
		{&t.Bluetoothctl, dt.Bluetoothctl},
		{&t.Lsusb, dt.Lsusb},
		{&t.Profiler, dt.Profiler},
		{&t.ProfilerUSB, dt.ProfilerUSB},
		{&t.Iwconfig, dt.Iwconfig},
		{&t.Netsh, dt.Netsh},
		{&t.Networksetup, dt.Networksetup},
		{&t.IPLink, dt.IPLink},
		{&t.Powershell, dt.Powershell},
		{&c.MonitorInterval, def.MonitorInterval},
		{&c.WatchDebounce, def.WatchDebounce},
	} {
		if *pair.dst <= 0 {
			*pair.dst = pair.def
		}
	}

	if c.LogLevel == "" {
		c.LogLevel = def.LogLevel
	}
}
