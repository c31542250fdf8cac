package detector

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/google/gousb"
	"github.com/tidwall/gjson"

	"github.com/Mk-1000/AirMon/internal/logging"
	"github.com/Mk-1000/AirMon/internal/process"
)

// USBDevice is the backend-neutral view of one enumerated USB device. Product
// and the class fields are best-effort; not every backend can populate them.
type USBDevice struct {
	VendorID         uint16
	ProductID        uint16
	Bus              int
	Address          int
	Product          string
	DeviceClass      uint8
	InterfaceClasses []uint8
}

// USBBackend enumerates USB devices through one structured source.
type USBBackend interface {
	Name() string
	List(ctx context.Context) ([]USBDevice, error)
	Close()
}

// openUSBBackend tries each backend in fixed preference order and returns the
// first that initializes, or nil when none does. The winner is reused for the
// detector's lifetime.
func openUSBBackend(goos string) USBBackend {
	type backendInit struct {
		name string
		open func() (USBBackend, error)
	}

	inits := []backendInit{{"libusb", newLibusbBackend}}
	if goos == "linux" {
		inits = append(inits, backendInit{"sysfs", func() (USBBackend, error) {
			return newSysfsBackend("/sys/bus/usb/devices")
		}})
	}
	if goos == "darwin" {
		inits = append(inits, backendInit{"system_profiler", newProfilerBackend})
	}

	for _, init := range inits {
		be, err := init.open()
		if err != nil {
			logging.DefaultLogger.Debug("USB backend unavailable", "backend", init.name, "err", err)
			continue
		}
		return be
	}
	return nil
}

// libusbBackend enumerates through gousb. Devices are opened only to read
// their product strings; a device that cannot be opened keeps an empty name.
type libusbBackend struct {
	ctx *gousb.Context
}

func newLibusbBackend() (be USBBackend, err error) {
	// gousb panics when libusb cannot initialize.
	defer func() {
		if r := recover(); r != nil {
			be, err = nil, fmt.Errorf("libusb init: %v", r)
		}
	}()
	return &libusbBackend{ctx: gousb.NewContext()}, nil
}

func (l *libusbBackend) Name() string { return "libusb" }

func (l *libusbBackend) List(ctx context.Context) ([]USBDevice, error) {
	var infos []USBDevice

	devs, err := l.ctx.OpenDevices(func(desc *gousb.DeviceDesc) bool {
		info := USBDevice{
			VendorID:    uint16(desc.Vendor),
			ProductID:   uint16(desc.Product),
			Bus:         desc.Bus,
			Address:     desc.Address,
			DeviceClass: uint8(desc.Class),
		}
		for _, cfg := range desc.Configs {
			for _, intf := range cfg.Interfaces {
				for _, alt := range intf.AltSettings {
					info.InterfaceClasses = append(info.InterfaceClasses, uint8(alt.Class))
				}
			}
		}
		infos = append(infos, info)
		return true
	})
	for _, dev := range devs {
		if product, perr := dev.Product(); perr == nil {
			for i := range infos {
				if infos[i].Bus == dev.Desc.Bus && infos[i].Address == dev.Desc.Address {
					infos[i].Product = product
				}
			}
		}
		dev.Close()
	}
	if err != nil && len(infos) == 0 {
		return nil, fmt.Errorf("libusb enumerate: %w", err)
	}

	return infos, nil
}

func (l *libusbBackend) Close() {
	l.ctx.Close()
}

// sysfsBackend walks /sys/bus/usb/devices. Only directories carrying an
// idVendor file are devices; the rest are interfaces and hubs' config nodes.
type sysfsBackend struct {
	root string
}

func newSysfsBackend(root string) (USBBackend, error) {
	if _, err := os.Stat(root); err != nil {
		return nil, fmt.Errorf("sysfs: %w", err)
	}
	return &sysfsBackend{root: root}, nil
}

func (s *sysfsBackend) Name() string { return "sysfs" }

func (s *sysfsBackend) List(ctx context.Context) ([]USBDevice, error) {
	entries, err := os.ReadDir(s.root)
	if err != nil {
		return nil, fmt.Errorf("sysfs read: %w", err)
	}

	var infos []USBDevice
	for _, entry := range entries {
		dir := filepath.Join(s.root, entry.Name())

		vid, ok := readHexAttr(dir, "idVendor")
		if !ok {
			continue
		}
		pid, _ := readHexAttr(dir, "idProduct")

		info := USBDevice{
			VendorID:    uint16(vid),
			ProductID:   uint16(pid),
			Product:     readAttr(dir, "product"),
			Bus:         readIntAttr(dir, "busnum"),
			Address:     readIntAttr(dir, "devnum"),
			DeviceClass: uint8(readHexAttrOr(dir, "bDeviceClass", 0)),
		}

		// Interface nodes live next to the device as <dev>:<cfg>.<intf>.
		for _, sibling := range entries {
			if !strings.HasPrefix(sibling.Name(), entry.Name()+":") {
				continue
			}
			if cls, ok := readHexAttr(filepath.Join(s.root, sibling.Name()), "bInterfaceClass"); ok {
				info.InterfaceClasses = append(info.InterfaceClasses, uint8(cls))
			}
		}

		infos = append(infos, info)
	}

	return infos, nil
}

func (s *sysfsBackend) Close() {}

func readAttr(dir, name string) string {
	data, err := os.ReadFile(filepath.Join(dir, name))
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(data))
}

func readHexAttr(dir, name string) (uint64, bool) {
	raw := readAttr(dir, name)
	if raw == "" {
		return 0, false
	}
	v, err := strconv.ParseUint(raw, 16, 16)
	if err != nil {
		return 0, false
	}
	return v, true
}

func readHexAttrOr(dir, name string, def uint64) uint64 {
	if v, ok := readHexAttr(dir, name); ok {
		return v
	}
	return def
}

func readIntAttr(dir, name string) int {
	v, err := strconv.Atoi(readAttr(dir, name))
	if err != nil {
		return 0
	}
	return v
}

// profilerBackend reads `system_profiler SPUSBDataType -json` on macOS. It is
// structured (JSON), unlike the text fallback parser used when no backend is
// available at all.
type profilerBackend struct {
	runner *process.Runner
}

const profilerTimeout = 15 * time.Second

func newProfilerBackend() (USBBackend, error) {
	if !process.CommandExists("system_profiler") {
		return nil, fmt.Errorf("system_profiler not on PATH")
	}
	return &profilerBackend{runner: process.NewRunner()}, nil
}

func (p *profilerBackend) Name() string { return "system_profiler" }

func (p *profilerBackend) List(ctx context.Context) ([]USBDevice, error) {
	out, err := p.runner.Output(ctx, profilerTimeout, "system_profiler", "SPUSBDataType", "-json")
	if err != nil {
		return nil, fmt.Errorf("system_profiler: %w", err)
	}

	var infos []USBDevice
	var walk func(items gjson.Result)
	walk = func(items gjson.Result) {
		items.ForEach(func(_, item gjson.Result) bool {
			vid := parseProfilerID(item.Get("vendor_id").String())
			pid := parseProfilerID(item.Get("product_id").String())
			if vid != 0 {
				infos = append(infos, USBDevice{
					VendorID:  vid,
					ProductID: pid,
					Product:   item.Get("_name").String(),
				})
			}
			walk(item.Get("_items"))
			return true
		})
	}
	walk(gjson.ParseBytes(out).Get("SPUSBDataType"))

	return infos, nil
}

func (p *profilerBackend) Close() {}

// parseProfilerID reads values like "0x046d  (Logitech Inc.)".
func parseProfilerID(raw string) uint16 {
	raw = strings.TrimSpace(raw)
	if idx := strings.IndexAny(raw, " ("); idx >= 0 {
		raw = raw[:idx]
	}
	raw = strings.TrimPrefix(strings.ToLower(raw), "0x")
	v, err := strconv.ParseUint(raw, 16, 16)
	if err != nil {
		return 0
	}
	return uint16(v)
}
