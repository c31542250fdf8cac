package detector

import (
	"context"
	"strings"

	gopsnet "github.com/shirou/gopsutil/v4/net"

	"github.com/Mk-1000/AirMon/internal/config"
	"github.com/Mk-1000/AirMon/internal/device"
	"github.com/Mk-1000/AirMon/internal/logging"
	"github.com/Mk-1000/AirMon/internal/process"
)

// wirelessIfaceTerms marks an interface name as wireless. Broad on purpose:
// "ra" also matches interfaces that merely contain those letters, a known
// false-positive source.
var wirelessIfaceTerms = []string{"wlan", "wifi", "wl", "ath", "ra", "wireless"}

// Network probes wireless network interfaces through the host interface
// table, with per-OS command parsing as the fallback.
type Network struct {
	caps     Capabilities
	timeouts config.Timeouts
	runner   *process.Runner

	// interfaces is swappable so tests can feed a fixed table.
	interfaces func(ctx context.Context) ([]gopsnet.InterfaceStat, error)
}

func NewNetwork(caps Capabilities, timeouts config.Timeouts) *Network {
	return &Network{
		caps:     caps,
		timeouts: timeouts,
		runner:   process.NewRunner(),
		interfaces: func(ctx context.Context) ([]gopsnet.InterfaceStat, error) {
			return gopsnet.InterfacesWithContext(ctx)
		},
	}
}

func (n *Network) Name() string { return "network" }

func (n *Network) Detect(ctx context.Context) []*device.WirelessDevice {
	stats, err := n.interfaces(ctx)
	if err != nil {
		logging.DefaultLogger.Warn("interface enumeration failed", "err", err)
		return n.detectFallback(ctx)
	}

	var devices []*device.WirelessDevice
	for _, stat := range stats {
		if !isWirelessInterface(stat.Name) {
			continue
		}
		devices = append(devices, interfaceRecord(stat))
	}

	return devices
}

func isWirelessInterface(name string) bool {
	return containsAny(strings.ToLower(name), wirelessIfaceTerms...)
}

func interfaceRecord(stat gopsnet.InterfaceStat) *device.WirelessDevice {
	d := device.New("Wireless Interface "+stat.Name, device.TypeWiFiAdapter, stat.Name)
	d.MACAddress = stat.HardwareAddr

	// Flags stand in for link stats; an empty set means the OS gave us none.
	if len(stat.Flags) == 0 {
		d.Status = device.StatusUnknown
	} else if hasFlag(stat.Flags, "up") {
		d.Status = device.StatusEnabled
	} else {
		d.Status = device.StatusDisabled
	}

	d.Info.SetString("interface_name", stat.Name)
	d.Info.SetInt("addresses", len(stat.Addrs))
	d.Info.SetString("detection_method", "netif")
	return d
}

func hasFlag(flags []string, want string) bool {
	for _, f := range flags {
		if strings.EqualFold(f, want) {
			return true
		}
	}
	return false
}

func (n *Network) detectFallback(ctx context.Context) []*device.WirelessDevice {
	switch n.caps.OS {
	case "linux":
		return n.fallbackLinux(ctx)
	case "windows":
		return n.fallbackWindows(ctx)
	case "darwin":
		return n.fallbackDarwin(ctx)
	default:
		return nil
	}
}

func (n *Network) fallbackLinux(ctx context.Context) []*device.WirelessDevice {
	if !n.caps.Iwconfig {
		logging.DefaultLogger.Debug("iwconfig not available, skipping network fallback")
		return nil
	}

	out, err := n.runner.Output(ctx, n.timeouts.Iwconfig, "iwconfig")
	if err != nil {
		logging.DefaultLogger.Warn("iwconfig failed", "err", err)
		return nil
	}

	return parseIwconfig(string(out))
}

// parseIwconfig keeps interfaces whose line advertises IEEE 802.11; the
// interface name is the leading token.
func parseIwconfig(out string) []*device.WirelessDevice {
	var devices []*device.WirelessDevice

	for _, line := range strings.Split(out, "\n") {
		if !strings.Contains(line, "IEEE 802.11") {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}

		name := fields[0]
		d := device.New("Wireless Interface "+name, device.TypeWiFiAdapter, name)
		d.Status = device.StatusEnabled
		d.Info.SetString("interface_name", name)
		d.Info.SetString("detection_method", "iwconfig")
		devices = append(devices, d)
	}

	return devices
}

func (n *Network) fallbackWindows(ctx context.Context) []*device.WirelessDevice {
	if !n.caps.Netsh {
		return nil
	}

	out, err := n.runner.Output(ctx, n.timeouts.Netsh, "netsh", "wlan", "show", "interfaces")
	if err != nil {
		logging.DefaultLogger.Warn("netsh wlan failed", "err", err)
		return nil
	}

	return parseNetshInterfaces(string(out))
}

// parseNetshInterfaces tracks Name/State field pairs per interface block. A
// state containing "connected" maps to Enabled, anything else to Disabled.
func parseNetshInterfaces(out string) []*device.WirelessDevice {
	var devices []*device.WirelessDevice
	var name string
	haveName := false

	for _, raw := range strings.Split(out, "\n") {
		line := strings.TrimSpace(raw)

		switch {
		case strings.HasPrefix(line, "Name"):
			if _, rest, ok := strings.Cut(line, ":"); ok {
				name = strings.TrimSpace(rest)
				haveName = true
			}
		case haveName && strings.HasPrefix(line, "State"):
			status := device.StatusDisabled
			if _, rest, ok := strings.Cut(line, ":"); ok {
				if strings.Contains(strings.ToLower(strings.TrimSpace(rest)), "connected") {
					status = device.StatusEnabled
				}
			}

			d := device.New("Wireless Interface "+name, device.TypeWiFiAdapter, name)
			d.Status = status
			d.Info.SetString("interface_name", name)
			d.Info.SetString("detection_method", "netsh")
			devices = append(devices, d)
			haveName = false
		}
	}

	return devices
}

func (n *Network) fallbackDarwin(ctx context.Context) []*device.WirelessDevice {
	if !n.caps.Networksetup {
		return nil
	}

	out, err := n.runner.Output(ctx, n.timeouts.Networksetup, "networksetup", "-listallhardwareports")
	if err != nil {
		logging.DefaultLogger.Warn("networksetup failed", "err", err)
		return nil
	}

	return parseHardwarePorts(string(out))
}

// parseHardwarePorts tracks "Hardware Port:" blocks whose name is wireless;
// the following "Device:" line supplies the OS interface handle.
func parseHardwarePorts(out string) []*device.WirelessDevice {
	var devices []*device.WirelessDevice
	var port string
	havePort := false

	for _, raw := range strings.Split(out, "\n") {
		line := strings.TrimSpace(raw)

		switch {
		case strings.HasPrefix(line, "Hardware Port:"):
			name := strings.TrimSpace(strings.TrimPrefix(line, "Hardware Port:"))
			lower := strings.ToLower(name)
			if strings.Contains(lower, "wi-fi") || strings.Contains(lower, "wireless") {
				port = name
				havePort = true
			}
		case havePort && strings.HasPrefix(line, "Device:"):
			iface := strings.TrimSpace(strings.TrimPrefix(line, "Device:"))

			d := device.New("Wireless Interface "+port, device.TypeWiFiAdapter, iface)
			d.Status = device.StatusEnabled
			d.Info.SetString("interface_name", iface)
			d.Info.SetString("detection_method", "networksetup")
			devices = append(devices, d)
			havePort = false
		}
	}

	return devices
}

func (n *Network) CanManage(d *device.WirelessDevice) bool {
	return d != nil && d.Type == device.TypeWiFiAdapter
}

// Enable brings the link up. The subprocess having run counts as success; its
// exit status is not inspected.
func (n *Network) Enable(ctx context.Context, d *device.WirelessDevice) bool {
	return n.setLink(ctx, d, true)
}

func (n *Network) Disable(ctx context.Context, d *device.WirelessDevice) bool {
	return n.setLink(ctx, d, false)
}

func (n *Network) setLink(ctx context.Context, d *device.WirelessDevice, up bool) bool {
	if d == nil {
		return false
	}

	iface := d.Info.String("interface_name")
	if iface == "" {
		iface = d.Interface
	}

	switch n.caps.OS {
	case "linux":
		state := "down"
		if up {
			state = "up"
		}
		return n.runner.RunLenient(ctx, n.timeouts.IPLink, "ip", "link", "set", iface, state)
	case "windows":
		state := "disabled"
		if up {
			state = "enabled"
		}
		return n.runner.RunLenient(ctx, n.timeouts.Netsh, "netsh", "interface", "set", "interface", iface, state)
	default:
		return false
	}
}
