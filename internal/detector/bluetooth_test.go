package detector

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Mk-1000/AirMon/internal/config"
	"github.com/Mk-1000/AirMon/internal/device"
)

func TestParseControllerList(t *testing.T) {
	out := "Controller AA:BB:CC:DD:EE:FF MyPhone\n"

	devices := parseControllerList(out)
	require.Len(t, devices, 1)

	d := devices[0]
	assert.Equal(t, "MyPhone", d.Name)
	assert.Equal(t, "AA:BB:CC:DD:EE:FF", d.MACAddress)
	assert.Equal(t, device.StatusEnabled, d.Status)
	assert.Equal(t, device.TypeBluetooth, d.Type)
	assert.Equal(t, "Bluetooth Controller", d.Interface)
}

func TestParseControllerListMultiWordName(t *testing.T) {
	out := "Controller 00:11:22:33:44:55 my laptop [default]\n"

	devices := parseControllerList(out)
	require.Len(t, devices, 1)
	assert.Equal(t, "my laptop [default]", devices[0].Name)
}

func TestParseControllerListSkipsMalformed(t *testing.T) {
	out := "Controller AA:BB:CC:DD:EE:FF\n" + // too few tokens
		"Device AA:BB:CC:DD:EE:FF Name\n" + // wrong prefix
		"garbage\n\n"

	assert.Empty(t, parseControllerList(out))
}

func TestParsePairedDevices(t *testing.T) {
	out := "Device AA:BB:CC:DD:EE:FF My Headphones\nDevice 11:22:33:44:55:66 Mouse\n"

	devices := parsePairedDevices(out)
	require.Len(t, devices, 2)

	assert.Equal(t, "My Headphones", devices[0].Name)
	assert.Equal(t, device.StatusPaired, devices[0].Status)
	assert.Equal(t, "Bluetooth Device", devices[0].Interface)
	assert.Equal(t, "11:22:33:44:55:66", devices[1].MACAddress)
}

func TestParseProfilerBluetooth(t *testing.T) {
	out := `Bluetooth:

      Magic Keyboard
          Address: AA:BB:CC:DD:EE:FF
          Firmware Version: 1.2.3
`

	devices := parseProfilerBluetooth(out)
	require.Len(t, devices, 1)

	d := devices[0]
	assert.Equal(t, "Magic Keyboard", d.Name)
	assert.Equal(t, "AA:BB:CC:DD:EE:FF", d.MACAddress)
	assert.Equal(t, device.StatusConnected, d.Status)
}

func TestParseProfilerBluetoothDefaultName(t *testing.T) {
	// Every preceding line within reach carries a colon, so the generic
	// label applies.
	out := `          Vendor: Apple
          State: Connected
          Address: AA:BB:CC:DD:EE:FF
`

	devices := parseProfilerBluetooth(out)
	require.Len(t, devices, 1)
	assert.Equal(t, "Bluetooth Device", devices[0].Name)
}

func TestParsePnPEntities(t *testing.T) {
	data := []byte(`[
		{"Name":"Intel(R) Wireless Bluetooth(R)","Status":"OK","DeviceID":"USB\\VID_8087","Manufacturer":"Intel"},
		{"Name":"Bluetooth Device (RFCOMM)","Status":"Error","DeviceID":"BTHENUM\\X","Manufacturer":"Microsoft"},
		{"Name":"USB Root Hub","Status":"OK","DeviceID":"USB\\ROOT","Manufacturer":"Generic"}
	]`)

	devices := parsePnPEntities(data)
	require.Len(t, devices, 2)

	assert.Equal(t, device.StatusEnabled, devices[0].Status)
	assert.Equal(t, "Intel", devices[0].Info.String("manufacturer"))
	assert.Equal(t, device.StatusDisabled, devices[1].Status)
}

func TestParsePnPEntitiesSingleObject(t *testing.T) {
	data := []byte(`{"Name":"Generic Bluetooth Radio","Status":"OK","DeviceID":"X","Manufacturer":"Generic"}`)

	devices := parsePnPEntities(data)
	require.Len(t, devices, 1)
	assert.Equal(t, "Generic Bluetooth Radio", devices[0].Name)
}

func TestBluetoothCanManage(t *testing.T) {
	b := NewBluetooth(Capabilities{OS: "linux"}, config.Default().Timeouts)

	assert.True(t, b.CanManage(device.New("x", device.TypeBluetooth, "Bluetooth")))
	assert.False(t, b.CanManage(device.New("x", device.TypeWiFiAdapter, "wlan0")))
	assert.False(t, b.CanManage(device.New("x", device.TypeRFDongle, "USB")))
	assert.False(t, b.CanManage(nil))
}

func TestBluetoothEnableUnsupportedPlatform(t *testing.T) {
	b := NewBluetooth(Capabilities{OS: "darwin"}, config.Default().Timeouts)
	d := device.New("kbd", device.TypeBluetooth, "Bluetooth")

	assert.False(t, b.Enable(context.Background(), d))
	assert.False(t, b.Disable(context.Background(), d))
}

func TestBluetoothDetectUnknownOS(t *testing.T) {
	b := NewBluetooth(Capabilities{OS: "plan9"}, config.Default().Timeouts)
	assert.Empty(t, b.Detect(context.Background()))
}
