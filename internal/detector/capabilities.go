// Package detector implements the per-category wireless device probes. Each
// detector tries a structured data source first and falls back to parsing
// platform tool output, emitting normalized device records either way. All
// public methods are total: probe failures are logged and degrade to "found
// nothing", never to an error at the caller.
package detector

import (
	"runtime"

	"github.com/Mk-1000/AirMon/internal/logging"
	"github.com/Mk-1000/AirMon/internal/process"
)

// Capabilities is the immutable result of probing the host once at startup:
// which platform tools resolve on PATH, which structured USB backend came up,
// and which OS we are on. It is built by Probe and passed into each detector
// constructor; nothing consults ambient global state afterwards.
type Capabilities struct {
	OS string // runtime.GOOS, overridable in tests

	Bluetoothctl bool
	Lsusb        bool
	Profiler     bool // system_profiler
	Iwconfig     bool
	Netsh        bool
	Networksetup bool
	IPLink       bool // ip
	Powershell   bool

	USB USBBackend // nil when no backend initialized
}

// Probe inspects the host environment. Backend initialization failures are
// logged and leave the corresponding capability unset.
func Probe() Capabilities {
	caps := Capabilities{
		OS:           runtime.GOOS,
		Bluetoothctl: process.CommandExists("bluetoothctl"),
		Lsusb:        process.CommandExists("lsusb"),
		Profiler:     process.CommandExists("system_profiler"),
		Iwconfig:     process.CommandExists("iwconfig"),
		Netsh:        process.CommandExists("netsh"),
		Networksetup: process.CommandExists("networksetup"),
		IPLink:       process.CommandExists("ip"),
		Powershell:   process.CommandExists("powershell"),
	}

	caps.USB = openUSBBackend(caps.OS)
	if caps.USB == nil {
		logging.DefaultLogger.Debug("no USB backend available, USB detection will use fallbacks only")
	} else {
		logging.DefaultLogger.Debug("USB backend initialized", "backend", caps.USB.Name())
	}

	return caps
}

// Report logs what the probe found, one line per capability. Used by verbose
// startup.
func (c Capabilities) Report() {
	log := logging.DefaultLogger
	for _, tool := range []struct {
		name string
		ok   bool
	}{
		{"bluetoothctl", c.Bluetoothctl},
		{"lsusb", c.Lsusb},
		{"system_profiler", c.Profiler},
		{"iwconfig", c.Iwconfig},
		{"netsh", c.Netsh},
		{"networksetup", c.Networksetup},
		{"ip", c.IPLink},
		{"powershell", c.Powershell},
	} {
		log.Debug("capability", "tool", tool.name, "available", tool.ok)
	}
	if c.USB != nil {
		log.Debug("capability", "usb_backend", c.USB.Name())
	}
}
