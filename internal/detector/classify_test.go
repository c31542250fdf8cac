package detector

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Mk-1000/AirMon/internal/device"
)

func TestClassifyStructured(t *testing.T) {
	cases := map[string]device.Type{
		"Unifying Receiver":        device.TypeRFDongle,
		"USB Dongle":               device.TypeRFDongle,
		"802.11ac WLAN Adapter":    device.TypeWiFiAdapter,
		"Wireless LAN Card":        device.TypeWiFiAdapter,
		"WiFi USB":                 device.TypeWiFiAdapter,
		"Gaming Headset":           device.TypeWirelessAudio,
		"Conference Microphone":    device.TypeWirelessAudio,
		"Bluetooth Adapter":        device.TypeRFDongle, // no bluetooth branch on this path
		"Mystery Gadget":           device.TypeRFDongle,
		"RECEIVER in caps":         device.TypeRFDongle,
	}

	for name, want := range cases {
		assert.Equal(t, want, classifyStructured(name), "product %q", name)
	}
}

func TestClassifyByName(t *testing.T) {
	cases := map[string]device.Type{
		"Logitech Unifying Receiver": device.TypeRFDongle,
		"Realtek 802.11n Adapter":    device.TypeWiFiAdapter,
		"Bluetooth Adapter":          device.TypeBluetooth,
		"Wireless Speaker":           device.TypeWirelessAudio,
		"Mystery Gadget":             device.TypeUnknownWireless,
	}

	for name, want := range cases {
		assert.Equal(t, want, classifyByName(name), "name %q", name)
	}
}

// Receiver/dongle/unifying win over the wifi terms in both classifiers.
func TestClassifyOrderFirstMatchWins(t *testing.T) {
	name := "Wireless Receiver 802.11"
	assert.Equal(t, device.TypeRFDongle, classifyStructured(name))
	assert.Equal(t, device.TypeRFDongle, classifyByName(name))
}

func TestClassify80211AlwaysWiFi(t *testing.T) {
	for _, name := range []string{"802.11 thing", "Some 802.11AC card", "x 802.11bgn y"} {
		assert.Equal(t, device.TypeWiFiAdapter, classifyStructured(name))
		assert.Equal(t, device.TypeWiFiAdapter, classifyByName(name))
	}
}
