package device

import (
	"context"
	"strings"

	"github.com/Mk-1000/AirMon/internal/logging"
)

// Detector is the capability contract the manager routes through. The
// concrete detectors live in internal/detector; the interface is declared
// here, where it is consumed.
type Detector interface {
	Name() string
	Detect(ctx context.Context) []*WirelessDevice
	CanManage(d *WirelessDevice) bool
	Enable(ctx context.Context, d *WirelessDevice) bool
	Disable(ctx context.Context, d *WirelessDevice) bool
}

// Observer is called with the full device collection after every scan.
type Observer func(devices []*WirelessDevice)

// Manager aggregates all detectors into one live device collection and routes
// management commands to whichever detector claims the device. It is not safe
// for concurrent use; a scan is a sequential blocking pass over the
// detectors.
type Manager struct {
	detectors []Detector
	devices   []*WirelessDevice
	observers []Observer
}

// NewManager keeps the detector order as given; scan results and command
// routing both follow it.
func NewManager(detectors ...Detector) *Manager {
	return &Manager{detectors: detectors}
}

// AddObserver registers a scan-completion callback.
func (m *Manager) AddObserver(obs Observer) {
	m.observers = append(m.observers, obs)
}

// Scan replaces the live collection with fresh detector output: every
// detector runs in order, results are concatenated as-is with no dedup across
// detectors. A panicking detector contributes nothing and does not stop the
// scan. Observers run afterwards with the full collection; their panics are
// logged, never propagated.
func (m *Manager) Scan(ctx context.Context) []*WirelessDevice {
	m.devices = nil

	for _, det := range m.detectors {
		m.devices = append(m.devices, m.detectSafely(ctx, det)...)
	}

	for _, obs := range m.observers {
		m.notifySafely(obs)
	}

	return m.devices
}

func (m *Manager) detectSafely(ctx context.Context, det Detector) (found []*WirelessDevice) {
	defer func() {
		if r := recover(); r != nil {
			logging.DefaultLogger.Error("detector panicked", "detector", det.Name(), "panic", r)
			found = nil
		}
	}()
	return det.Detect(ctx)
}

func (m *Manager) notifySafely(obs Observer) {
	defer func() {
		if r := recover(); r != nil {
			logging.DefaultLogger.Error("scan observer panicked", "panic", r)
		}
	}()
	obs(m.devices)
}

// Devices returns the live collection from the last scan.
func (m *Manager) Devices() []*WirelessDevice {
	return m.devices
}

// Enable routes to the first detector that claims the device. On success the
// record's status is updated in place.
func (m *Manager) Enable(ctx context.Context, d *WirelessDevice) bool {
	for _, det := range m.detectors {
		if det.CanManage(d) {
			ok := det.Enable(ctx, d)
			if ok {
				d.Status = StatusEnabled
			}
			return ok
		}
	}
	return false
}

// Disable mirrors Enable.
func (m *Manager) Disable(ctx context.Context, d *WirelessDevice) bool {
	for _, det := range m.detectors {
		if det.CanManage(d) {
			ok := det.Disable(ctx, d)
			if ok {
				d.Status = StatusDisabled
			}
			return ok
		}
	}
	return false
}

// CanManage reports whether any detector claims the device.
func (m *Manager) CanManage(d *WirelessDevice) bool {
	for _, det := range m.detectors {
		if det.CanManage(d) {
			return true
		}
	}
	return false
}

// DetectorFor returns the first detector claiming the device, or nil.
func (m *Manager) DetectorFor(d *WirelessDevice) Detector {
	for _, det := range m.detectors {
		if det.CanManage(d) {
			return det
		}
	}
	return nil
}

// DevicesByType filters the live collection by exact type.
func (m *Manager) DevicesByType(t Type) []*WirelessDevice {
	var out []*WirelessDevice
	for _, d := range m.devices {
		if d.Type == t {
			out = append(out, d)
		}
	}
	return out
}

// DevicesByStatus filters the live collection by exact status.
func (m *Manager) DevicesByStatus(s Status) []*WirelessDevice {
	var out []*WirelessDevice
	for _, d := range m.devices {
		if d.Status == s {
			out = append(out, d)
		}
	}
	return out
}

// DeviceByName returns the first device with the exact name, or nil.
func (m *Manager) DeviceByName(name string) *WirelessDevice {
	for _, d := range m.devices {
		if d.Name == name {
			return d
		}
	}
	return nil
}

// DeviceByMAC returns the first device with the exact MAC address, or nil.
func (m *Manager) DeviceByMAC(mac string) *WirelessDevice {
	for _, d := range m.devices {
		if d.MACAddress != "" && d.MACAddress == mac {
			return d
		}
	}
	return nil
}

// Find resolves a user-supplied handle: exact name, then exact MAC, then
// case-insensitive name substring.
func (m *Manager) Find(nameOrMAC string) *WirelessDevice {
	if d := m.DeviceByName(nameOrMAC); d != nil {
		return d
	}
	if d := m.DeviceByMAC(nameOrMAC); d != nil {
		return d
	}

	needle := strings.ToLower(nameOrMAC)
	for _, d := range m.devices {
		if strings.Contains(strings.ToLower(d.Name), needle) {
			return d
		}
	}
	return nil
}

// ManageableDevices lists every device at least one detector claims.
func (m *Manager) ManageableDevices() []*WirelessDevice {
	var out []*WirelessDevice
	for _, d := range m.devices {
		if m.CanManage(d) {
			out = append(out, d)
		}
	}
	return out
}

// Statistics summarizes the live collection. Zero-count buckets are omitted.
type Statistics struct {
	Total      int            `json:"total_devices"`
	ByType     map[Type]int   `json:"by_type"`
	ByStatus   map[Status]int `json:"by_status"`
	Manageable int            `json:"manageable"`
}

func (m *Manager) Statistics() Statistics {
	stats := Statistics{
		Total:      len(m.devices),
		ByType:     make(map[Type]int),
		ByStatus:   make(map[Status]int),
		Manageable: len(m.ManageableDevices()),
	}
	for _, d := range m.devices {
		stats.ByType[d.Type]++
		stats.ByStatus[d.Status]++
	}
	return stats
}
