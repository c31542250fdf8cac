package detector

import (
	"context"
	"fmt"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/Mk-1000/AirMon/internal/config"
	"github.com/Mk-1000/AirMon/internal/device"
	"github.com/Mk-1000/AirMon/internal/logging"
	"github.com/Mk-1000/AirMon/internal/process"
)

// wirelessVendors maps USB vendor IDs known to ship wireless hardware.
var wirelessVendors = map[uint16]string{
	0x046d: "Logitech",
	0x045e: "Microsoft",
	0x1532: "Razer",
	0x0b05: "ASUS",
	0x0bda: "Realtek",
	0x148f: "Ralink",
	0x0cf3: "Atheros",
	0x8087: "Intel",
}

// usbFallbackTerms filters raw device names on the CLI fallback paths.
var usbFallbackTerms = []string{"wireless", "wifi", "bluetooth", "dongle"}

// USB probes wireless dongles and adapters on the USB bus. The structured
// backend chosen at probe time is the primary source; when it is missing or
// its enumeration fails, per-OS command parsing takes over.
type USB struct {
	caps     Capabilities
	timeouts config.Timeouts
	runner   *process.Runner
}

func NewUSB(caps Capabilities, timeouts config.Timeouts) *USB {
	return &USB{caps: caps, timeouts: timeouts, runner: process.NewRunner()}
}

func (u *USB) Name() string { return "usb" }

func (u *USB) Detect(ctx context.Context) []*device.WirelessDevice {
	if u.caps.USB == nil {
		return u.detectFallback(ctx)
	}

	raw, err := u.caps.USB.List(ctx)
	if err != nil {
		logging.DefaultLogger.Warn("USB enumeration failed", "backend", u.caps.USB.Name(), "err", err)
		return u.detectFallback(ctx)
	}

	var devices []*device.WirelessDevice
	for _, dev := range raw {
		if !isWirelessUSB(dev) {
			continue
		}
		devices = append(devices, u.recordFor(dev))
	}

	return devices
}

// isWirelessUSB judges wireless relevance: a known vendor, a Hub(9) or HID(3)
// device class, or any HID(3) or wireless-controller(224) interface class.
// The heuristic over-matches plain keyboards and hubs; acknowledged.
func isWirelessUSB(dev USBDevice) bool {
	if _, ok := wirelessVendors[dev.VendorID]; ok {
		return true
	}
	if dev.DeviceClass == 3 || dev.DeviceClass == 9 {
		return true
	}
	for _, cls := range dev.InterfaceClasses {
		if cls == 3 || cls == 224 {
			return true
		}
	}
	return false
}

func (u *USB) recordFor(dev USBDevice) *device.WirelessDevice {
	vendorName, ok := wirelessVendors[dev.VendorID]
	if !ok {
		vendorName = "Unknown"
	}

	product := dev.Product
	if product == "" {
		product = fmt.Sprintf("USB Device %04x:%04x", dev.VendorID, dev.ProductID)
	}

	d := device.New(
		vendorName+" "+product,
		classifyStructured(product),
		fmt.Sprintf("USB (Bus %d, Device %d)", dev.Bus, dev.Address),
	)
	d.VendorID = fmt.Sprintf("%04x", dev.VendorID)
	d.ProductID = fmt.Sprintf("%04x", dev.ProductID)
	d.Status = device.StatusConnected
	d.Info.SetInt("bus", dev.Bus)
	d.Info.SetInt("address", dev.Address)
	d.Info.SetString("vendor_name", vendorName)
	d.Info.SetString("detection_method", u.caps.USB.Name())
	return d
}

func (u *USB) detectFallback(ctx context.Context) []*device.WirelessDevice {
	switch u.caps.OS {
	case "windows":
		return u.fallbackWindows(ctx)
	case "linux":
		return u.fallbackLinux(ctx)
	case "darwin":
		return u.fallbackDarwin(ctx)
	default:
		return nil
	}
}

func (u *USB) fallbackWindows(ctx context.Context) []*device.WirelessDevice {
	if !u.caps.Powershell {
		return nil
	}

	out, err := u.runner.Output(ctx, u.timeouts.Powershell, "powershell",
		"-NoProfile", "-NonInteractive", "-Command",
		"Get-CimInstance Win32_USBControllerDevice | Select-Object -ExpandProperty Dependent | Select-Object Name | ConvertTo-Json -Compress")
	if err != nil {
		logging.DefaultLogger.Warn("windows USB fallback failed", "err", err)
		return nil
	}

	return parseUSBControllerDevices(out)
}

// parseUSBControllerDevices keeps USB-attached entries whose resolved name
// mentions a wireless term.
func parseUSBControllerDevices(data []byte) []*device.WirelessDevice {
	var devices []*device.WirelessDevice

	add := func(entry gjson.Result) {
		name := entry.Get("Name").String()
		if name == "" || !containsAny(strings.ToLower(name), usbFallbackTerms...) {
			return
		}
		d := device.New(name, classifyByName(name), "USB")
		d.Status = device.StatusConnected
		d.Info.SetString("detection_method", "cim")
		devices = append(devices, d)
	}

	parsed := gjson.ParseBytes(data)
	if parsed.IsArray() {
		parsed.ForEach(func(_, entry gjson.Result) bool {
			add(entry)
			return true
		})
	} else {
		add(parsed)
	}

	return devices
}

func (u *USB) fallbackLinux(ctx context.Context) []*device.WirelessDevice {
	if !u.caps.Lsusb {
		logging.DefaultLogger.Debug("lsusb not available, skipping USB fallback")
		return nil
	}

	out, err := u.runner.Output(ctx, u.timeouts.Lsusb, "lsusb")
	if err != nil {
		logging.DefaultLogger.Warn("lsusb failed", "err", err)
		return nil
	}

	return parseLsusb(string(out))
}

// parseLsusb reads line-oriented lsusb output, e.g.
// "Bus 001 Device 004: ID 046d:c52b Logitech, Inc. Unifying Receiver".
// The descriptive tail decides relevance; the fixed-position ID token supplies
// vendor and product.
func parseLsusb(out string) []*device.WirelessDevice {
	var devices []*device.WirelessDevice

	for _, line := range strings.Split(out, "\n") {
		parts := strings.Fields(line)
		if len(parts) < 7 {
			continue
		}

		desc := strings.Join(parts[6:], " ")
		if !containsAny(strings.ToLower(desc), usbFallbackTerms...) {
			continue
		}

		ids := strings.Split(parts[5], ":")
		if len(ids) != 2 {
			continue
		}

		d := device.New(desc, classifyByName(desc),
			fmt.Sprintf("USB (Bus %s, Device %s)", parts[1], strings.TrimSuffix(parts[3], ":")))
		d.VendorID = ids[0]
		d.ProductID = ids[1]
		d.Status = device.StatusConnected
		d.Info.SetString("detection_method", "lsusb")
		devices = append(devices, d)
	}

	return devices
}

func (u *USB) fallbackDarwin(ctx context.Context) []*device.WirelessDevice {
	if !u.caps.Profiler {
		return nil
	}

	out, err := u.runner.Output(ctx, u.timeouts.ProfilerUSB, "system_profiler", "SPUSBDataType")
	if err != nil {
		logging.DefaultLogger.Warn("macos USB fallback failed", "err", err)
		return nil
	}

	return parseProfilerUSBText(string(out))
}

// parseProfilerUSBText walks system_profiler's indented block structure. A
// colon-terminated line opens a device block when its name matches; the block
// is emitted when the Vendor ID line is reached, then state resets.
func parseProfilerUSBText(out string) []*device.WirelessDevice {
	var devices []*device.WirelessDevice
	var current *device.WirelessDevice

	for _, raw := range strings.Split(out, "\n") {
		line := strings.TrimSpace(raw)

		switch {
		case strings.HasSuffix(line, ":"):
			name := strings.TrimSuffix(line, ":")
			if containsAny(strings.ToLower(name), usbFallbackTerms...) {
				current = device.New(name, classifyByName(name), "USB")
				current.Status = device.StatusConnected
				current.Info.SetString("detection_method", "system_profiler")
			}
		case current != nil && strings.Contains(line, "Product ID:"):
			current.ProductID = valueAfterColon(line)
		case current != nil && strings.Contains(line, "Vendor ID:"):
			current.VendorID = valueAfterColon(line)
			devices = append(devices, current)
			current = nil
		}
	}

	return devices
}

func valueAfterColon(line string) string {
	if _, rest, ok := strings.Cut(line, ":"); ok {
		return strings.TrimSpace(rest)
	}
	return ""
}

func (u *USB) CanManage(d *device.WirelessDevice) bool {
	return d != nil && (d.Type == device.TypeRFDongle || d.Type == device.TypeWiFiAdapter)
}

// Enable is out of this detector's authority: USB device activation belongs
// to the OS.
func (u *USB) Enable(ctx context.Context, d *device.WirelessDevice) bool {
	return false
}

func (u *USB) Disable(ctx context.Context, d *device.WirelessDevice) bool {
	return false
}
