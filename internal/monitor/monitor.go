// Package monitor samples live system telemetry (battery, CPU, memory) on an
// interval and hands it to registered callbacks.
package monitor

import (
	"context"
	"runtime"
	"time"

	"github.com/distatus/battery"
	"github.com/shirou/gopsutil/v4/cpu"
	"github.com/shirou/gopsutil/v4/host"
	"github.com/shirou/gopsutil/v4/mem"
	gopsnet "github.com/shirou/gopsutil/v4/net"

	"github.com/Mk-1000/AirMon/internal/logging"
)

// SystemInfo is one telemetry sample.
type SystemInfo struct {
	Platform          string   `json:"platform"`
	PlatformVersion   string   `json:"platform_version"`
	Architecture      string   `json:"architecture"`
	BatteryPercent    *int     `json:"battery_percentage,omitempty"`
	BatteryPlugged    bool     `json:"battery_plugged"`
	CPUUsage          float64  `json:"cpu_usage"`
	MemoryUsage       float64  `json:"memory_usage"`
	NetworkInterfaces []string `json:"network_interfaces"`
}

// Callback receives each sample. Panics are logged, not propagated.
type Callback func(info SystemInfo)

// Sampler runs the telemetry loop. Not safe to Start twice concurrently.
type Sampler struct {
	interval  time.Duration
	callbacks []Callback

	// batteryRoot is the Linux power-supply sysfs root, swappable in tests.
	batteryRoot string

	cancel context.CancelFunc
	done   chan struct{}
}

func NewSampler(interval time.Duration) *Sampler {
	return &Sampler{
		interval:    interval,
		batteryRoot: "/sys/class/power_supply",
	}
}

func (s *Sampler) AddCallback(cb Callback) {
	s.callbacks = append(s.callbacks, cb)
}

// Start launches the background loop. It samples immediately, then on every
// interval tick until the context is cancelled or Stop is called.
func (s *Sampler) Start(ctx context.Context) {
	if s.done != nil {
		return
	}

	ctx, s.cancel = context.WithCancel(ctx)
	s.done = make(chan struct{})

	go func() {
		defer close(s.done)

		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		for {
			s.notify(s.Sample(ctx))

			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
			}
		}
	}()
}

// Stop cancels the loop and waits for it to finish.
func (s *Sampler) Stop() {
	if s.done == nil {
		return
	}
	s.cancel()
	<-s.done
	s.cancel, s.done = nil, nil
}

func (s *Sampler) notify(info SystemInfo) {
	for _, cb := range s.callbacks {
		func() {
			defer func() {
				if r := recover(); r != nil {
					logging.DefaultLogger.Error("monitor callback panicked", "panic", r)
				}
			}()
			cb(info)
		}()
	}
}

// Sample takes one reading. Every probe is best-effort: a failing source
// leaves its field zeroed and the rest of the sample intact.
func (s *Sampler) Sample(ctx context.Context) SystemInfo {
	info := SystemInfo{
		Platform:     runtime.GOOS,
		Architecture: runtime.GOARCH,
	}

	if hi, err := host.InfoWithContext(ctx); err == nil {
		info.PlatformVersion = hi.Platform + " " + hi.PlatformVersion
	} else {
		logging.DefaultLogger.Debug("host info failed", "err", err)
	}

	if percents, err := cpu.PercentWithContext(ctx, 100*time.Millisecond, false); err == nil && len(percents) > 0 {
		info.CPUUsage = percents[0]
	} else if err != nil {
		logging.DefaultLogger.Debug("cpu sample failed", "err", err)
	}

	if vm, err := mem.VirtualMemoryWithContext(ctx); err == nil {
		info.MemoryUsage = vm.UsedPercent
	} else {
		logging.DefaultLogger.Debug("memory sample failed", "err", err)
	}

	if ifaces, err := gopsnet.InterfacesWithContext(ctx); err == nil {
		for _, iface := range ifaces {
			info.NetworkInterfaces = append(info.NetworkInterfaces, iface.Name)
		}
	}

	info.BatteryPercent, info.BatteryPlugged = s.batteryState()

	return info
}

// batteryState reads the battery sensor, falling back to the power-supply
// sysfs tree on Linux. Hosts without a battery report nil.
func (s *Sampler) batteryState() (*int, bool) {
	if batteries, err := battery.GetAll(); err == nil {
		for _, b := range batteries {
			if b == nil || b.Full == 0 {
				continue
			}
			pct := clampPercent(int(b.Current / b.Full * 100))
			plugged := b.State == battery.Charging || b.State == battery.Full
			return &pct, plugged
		}
	} else {
		logging.DefaultLogger.Debug("battery sensor failed", "err", err)
	}

	if runtime.GOOS == "linux" {
		return readSysfsBattery(s.batteryRoot)
	}
	return nil, false
}

func clampPercent(v int) int {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
