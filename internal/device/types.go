package device

import "strings"

// Type classifies a wireless device into the common taxonomy.
type Type string

const (
	TypeBluetooth       Type = "Bluetooth"
	TypeRFDongle        Type = "RF Dongle"
	TypeWiFiAdapter     Type = "WiFi Adapter"
	TypeWirelessAudio   Type = "Wireless Audio"
	TypeUnknownWireless Type = "Unknown Wireless"
)

// Types lists every device type, in display order.
func Types() []Type {
	return []Type{TypeBluetooth, TypeRFDongle, TypeWiFiAdapter, TypeWirelessAudio, TypeUnknownWireless}
}

// ParseType resolves a user-supplied type name, case-insensitively and
// ignoring spaces ("rfdongle", "RF Dongle" and "rf-dongle" all match).
func ParseType(s string) (Type, bool) {
	norm := func(v string) string {
		v = strings.ToLower(v)
		v = strings.ReplaceAll(v, " ", "")
		return strings.ReplaceAll(v, "-", "")
	}
	for _, t := range Types() {
		if norm(string(t)) == norm(s) {
			return t, true
		}
	}
	return "", false
}

// Status is the last observed state of a device.
type Status string

const (
	StatusConnected    Status = "Connected"
	StatusDisconnected Status = "Disconnected"
	StatusPaired       Status = "Paired"
	StatusDiscoverable Status = "Discoverable"
	StatusEnabled      Status = "Enabled"
	StatusDisabled     Status = "Disabled"
	StatusUnknown      Status = "Unknown"
)

// Statuses lists every status, in display order.
func Statuses() []Status {
	return []Status{
		StatusConnected, StatusDisconnected, StatusPaired,
		StatusDiscoverable, StatusEnabled, StatusDisabled, StatusUnknown,
	}
}

// ParseStatus resolves a user-supplied status name case-insensitively.
func ParseStatus(s string) (Status, bool) {
	for _, st := range Statuses() {
		if strings.EqualFold(string(st), s) {
			return st, true
		}
	}
	return "", false
}

// Info is the open provenance mapping carried by a device. Values are limited
// to a small scalar union (string, int, float64) so serialization and test
// comparison stay well defined.
type Info map[string]any

// SetString, SetInt and SetFloat are the only writers; they keep the value
// union closed.
func (i Info) SetString(key, v string)        { i[key] = v }
func (i Info) SetInt(key string, v int)       { i[key] = v }
func (i Info) SetFloat(key string, v float64) { i[key] = v }

func (i Info) String(key string) string {
	if v, ok := i[key].(string); ok {
		return v
	}
	return ""
}

// WirelessDevice is the normalized record every detector emits. There is no
// stable identifier: identity across scans is structural (see Matches).
type WirelessDevice struct {
	Name           string `json:"name"`
	Type           Type   `json:"device_type"`
	Interface      string `json:"interface"`
	MACAddress     string `json:"mac_address,omitempty"`
	Status         Status `json:"status"`
	VendorID       string `json:"vendor_id,omitempty"`
	ProductID      string `json:"product_id,omitempty"`
	BatteryLevel   *int   `json:"battery_level,omitempty"`
	SignalStrength *int   `json:"signal_strength,omitempty"`
	Info           Info   `json:"additional_info,omitempty"`
}

// New builds a record with Status defaulted to Unknown and an empty Info map.
func New(name string, typ Type, iface string) *WirelessDevice {
	return &WirelessDevice{
		Name:      name,
		Type:      typ,
		Interface: iface,
		Status:    StatusUnknown,
		Info:      Info{},
	}
}

// Matches reports structural identity: exact (name, type, interface), or a
// MAC match when both sides carry one. Two scans of the same physical device
// can still disagree when the OS re-enumerates its bus path; that weakness is
// accepted.
func (d *WirelessDevice) Matches(other *WirelessDevice) bool {
	if d == nil || other == nil {
		return false
	}
	if d.Name == other.Name && d.Type == other.Type && d.Interface == other.Interface {
		return true
	}
	return d.MACAddress != "" && d.MACAddress == other.MACAddress
}
