package detector

import (
	"strings"

	"github.com/Mk-1000/AirMon/internal/device"
)

// Two classifiers exist on purpose. The structured USB path assumes anything
// it already judged wireless-relevant is an RF dongle unless the name says
// otherwise; the textual fallback parsers see arbitrary device names, carry an
// extra bluetooth branch, and refuse to guess. Unifying them would silently
// change fallback behavior.

func containsAny(s string, terms ...string) bool {
	for _, t := range terms {
		if strings.Contains(s, t) {
			return true
		}
	}
	return false
}

// classifyStructured maps a product name seen on the structured USB path.
func classifyStructured(name string) device.Type {
	lower := strings.ToLower(name)

	switch {
	case containsAny(lower, "receiver", "dongle", "unifying"):
		return device.TypeRFDongle
	case containsAny(lower, "wifi", "wireless lan", "802.11", "wlan"):
		return device.TypeWiFiAdapter
	case containsAny(lower, "audio", "headset", "speaker", "microphone"):
		return device.TypeWirelessAudio
	default:
		// Most wireless USB hardware that got this far is an RF dongle.
		return device.TypeRFDongle
	}
}

// classifyByName maps a raw device name seen by the OS-command fallbacks.
func classifyByName(name string) device.Type {
	lower := strings.ToLower(name)

	switch {
	case containsAny(lower, "receiver", "dongle", "unifying"):
		return device.TypeRFDongle
	case containsAny(lower, "wifi", "wireless lan", "802.11", "wlan"):
		return device.TypeWiFiAdapter
	case strings.Contains(lower, "bluetooth"):
		return device.TypeBluetooth
	case containsAny(lower, "audio", "headset", "speaker", "microphone"):
		return device.TypeWirelessAudio
	default:
		return device.TypeUnknownWireless
	}
}
