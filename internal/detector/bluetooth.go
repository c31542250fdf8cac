package detector

import (
	"context"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/Mk-1000/AirMon/internal/config"
	"github.com/Mk-1000/AirMon/internal/device"
	"github.com/Mk-1000/AirMon/internal/logging"
	"github.com/Mk-1000/AirMon/internal/process"
)

// Bluetooth probes bluetooth controllers and paired peripherals. Each OS has
// exactly one strategy: a CIM query on Windows, bluetoothctl on Linux,
// system_profiler on macOS.
type Bluetooth struct {
	caps     Capabilities
	timeouts config.Timeouts
	runner   *process.Runner
}

func NewBluetooth(caps Capabilities, timeouts config.Timeouts) *Bluetooth {
	return &Bluetooth{caps: caps, timeouts: timeouts, runner: process.NewRunner()}
}

func (b *Bluetooth) Name() string { return "bluetooth" }

func (b *Bluetooth) Detect(ctx context.Context) []*device.WirelessDevice {
	switch b.caps.OS {
	case "windows":
		return b.detectWindows(ctx)
	case "linux":
		return b.detectLinux(ctx)
	case "darwin":
		return b.detectDarwin(ctx)
	default:
		return nil
	}
}

func (b *Bluetooth) detectWindows(ctx context.Context) []*device.WirelessDevice {
	if !b.caps.Powershell {
		return nil
	}

	out, err := b.runner.Output(ctx, b.timeouts.Powershell, "powershell",
		"-NoProfile", "-NonInteractive", "-Command",
		"Get-CimInstance Win32_PnPEntity | Select-Object Name,Status,DeviceID,Manufacturer | ConvertTo-Json -Compress")
	if err != nil {
		logging.DefaultLogger.Warn("windows bluetooth detection failed", "err", err)
		return nil
	}

	return parsePnPEntities(out)
}

// parsePnPEntities filters a Win32_PnPEntity JSON dump down to bluetooth
// entries. ConvertTo-Json emits a bare object for a single result, so both
// shapes are handled.
func parsePnPEntities(data []byte) []*device.WirelessDevice {
	var devices []*device.WirelessDevice

	add := func(entity gjson.Result) {
		name := entity.Get("Name").String()
		if name == "" || !strings.Contains(strings.ToLower(name), "bluetooth") {
			return
		}

		d := device.New(name, device.TypeBluetooth, "Bluetooth")
		if entity.Get("Status").String() == "OK" {
			d.Status = device.StatusEnabled
		} else {
			d.Status = device.StatusDisabled
		}
		d.Info.SetString("device_id", entity.Get("DeviceID").String())
		d.Info.SetString("manufacturer", entity.Get("Manufacturer").String())
		devices = append(devices, d)
	}

	parsed := gjson.ParseBytes(data)
	if parsed.IsArray() {
		parsed.ForEach(func(_, entity gjson.Result) bool {
			add(entity)
			return true
		})
	} else {
		add(parsed)
	}

	return devices
}

func (b *Bluetooth) detectLinux(ctx context.Context) []*device.WirelessDevice {
	if !b.caps.Bluetoothctl {
		logging.DefaultLogger.Debug("bluetoothctl not available, skipping bluetooth detection")
		return nil
	}

	var devices []*device.WirelessDevice

	if out, err := b.runner.Output(ctx, b.timeouts.Bluetoothctl, "bluetoothctl", "list"); err != nil {
		logging.DefaultLogger.Warn("bluetoothctl list failed", "err", err)
	} else {
		devices = append(devices, parseControllerList(string(out))...)
	}

	if out, err := b.runner.Output(ctx, b.timeouts.Bluetoothctl, "bluetoothctl", "paired-devices"); err != nil {
		logging.DefaultLogger.Warn("bluetoothctl paired-devices failed", "err", err)
	} else {
		devices = append(devices, parsePairedDevices(string(out))...)
	}

	return devices
}

// parseControllerList reads `bluetoothctl list` output. Lines look like
// "Controller AA:BB:CC:DD:EE:FF hostname [default]"; anything else is skipped.
func parseControllerList(out string) []*device.WirelessDevice {
	var devices []*device.WirelessDevice

	for _, line := range strings.Split(out, "\n") {
		if !strings.HasPrefix(strings.TrimSpace(line), "Controller") {
			continue
		}
		parts := strings.Fields(line)
		if len(parts) < 3 {
			continue
		}

		d := device.New(strings.Join(parts[2:], " "), device.TypeBluetooth, "Bluetooth Controller")
		d.MACAddress = parts[1]
		d.Status = device.StatusEnabled
		devices = append(devices, d)
	}

	return devices
}

// parsePairedDevices reads `bluetoothctl paired-devices` output. Lines look
// like "Device AA:BB:CC:DD:EE:FF My Headphones".
func parsePairedDevices(out string) []*device.WirelessDevice {
	var devices []*device.WirelessDevice

	for _, line := range strings.Split(out, "\n") {
		if !strings.HasPrefix(strings.TrimSpace(line), "Device") {
			continue
		}
		parts := strings.Fields(line)
		if len(parts) < 3 {
			continue
		}

		d := device.New(strings.Join(parts[2:], " "), device.TypeBluetooth, "Bluetooth Device")
		d.MACAddress = parts[1]
		d.Status = device.StatusPaired
		devices = append(devices, d)
	}

	return devices
}

func (b *Bluetooth) detectDarwin(ctx context.Context) []*device.WirelessDevice {
	if !b.caps.Profiler {
		return nil
	}

	out, err := b.runner.Output(ctx, b.timeouts.Profiler, "system_profiler", "SPBluetoothDataType")
	if err != nil {
		logging.DefaultLogger.Warn("macos bluetooth detection failed", "err", err)
		return nil
	}

	return parseProfilerBluetooth(string(out))
}

// parseProfilerBluetooth scans system_profiler text for "Address:" lines. The
// device name is the nearest preceding non-empty line without a colon, up to
// five lines back.
func parseProfilerBluetooth(out string) []*device.WirelessDevice {
	var devices []*device.WirelessDevice
	lines := strings.Split(out, "\n")

	for i, line := range lines {
		if !strings.Contains(line, "Address:") {
			continue
		}

		mac := strings.TrimSpace(line[strings.Index(line, "Address:")+len("Address:"):])

		name := "Bluetooth Device"
		for j := max(0, i-5); j < i; j++ {
			candidate := strings.TrimSpace(lines[j])
			if candidate != "" && !strings.Contains(candidate, ":") {
				name = candidate
				break
			}
		}

		d := device.New(name, device.TypeBluetooth, "Bluetooth")
		d.MACAddress = mac
		d.Status = device.StatusConnected
		devices = append(devices, d)
	}

	return devices
}

func (b *Bluetooth) CanManage(d *device.WirelessDevice) bool {
	return d != nil && d.Type == device.TypeBluetooth
}

// Enable powers the bluetooth controller on. Only implemented on Linux; the
// exit status of bluetoothctl is not inspected.
func (b *Bluetooth) Enable(ctx context.Context, d *device.WirelessDevice) bool {
	return b.power(ctx, "on")
}

func (b *Bluetooth) Disable(ctx context.Context, d *device.WirelessDevice) bool {
	return b.power(ctx, "off")
}

func (b *Bluetooth) power(ctx context.Context, state string) bool {
	if b.caps.OS != "linux" {
		return false
	}
	return b.runner.RunLenient(ctx, b.timeouts.Bluetoothctl, "bluetoothctl", "power", state)
}
