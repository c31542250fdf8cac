package device

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeDetector claims one device type and returns a fixed detection result.
type fakeDetector struct {
	name     string
	claims   Type
	devices  []*WirelessDevice
	enableOK bool
	panics   bool

	enableCalls  int
	disableCalls int
}

func (f *fakeDetector) Name() string { return f.name }

func (f *fakeDetector) Detect(ctx context.Context) []*WirelessDevice {
	if f.panics {
		panic("probe exploded")
	}
	return f.devices
}

func (f *fakeDetector) CanManage(d *WirelessDevice) bool {
	return d != nil && d.Type == f.claims
}

func (f *fakeDetector) Enable(ctx context.Context, d *WirelessDevice) bool {
	f.enableCalls++
	return f.enableOK
}

func (f *fakeDetector) Disable(ctx context.Context, d *WirelessDevice) bool {
	f.disableCalls++
	return f.enableOK
}

func bt(name string) *WirelessDevice   { return New(name, TypeBluetooth, "Bluetooth") }
func wifi(name string) *WirelessDevice { return New(name, TypeWiFiAdapter, name) }

func TestScanConcatenatesAllDetectors(t *testing.T) {
	d1 := &fakeDetector{name: "bt", claims: TypeBluetooth, devices: []*WirelessDevice{bt("a"), bt("b")}}
	d2 := &fakeDetector{name: "net", claims: TypeWiFiAdapter, devices: []*WirelessDevice{wifi("wlan0")}}

	mgr := NewManager(d1, d2)
	devices := mgr.Scan(context.Background())

	require.Len(t, devices, 3)
	// Detector-priority order, detector-internal order, no dedup.
	assert.Equal(t, "a", devices[0].Name)
	assert.Equal(t, "b", devices[1].Name)
	assert.Equal(t, "wlan0", devices[2].Name)
}

func TestScanKeepsDuplicatesAcrossDetectors(t *testing.T) {
	// The same physical adapter reported by both the USB and the network
	// detector stays twice in the collection.
	d1 := &fakeDetector{name: "usb", claims: TypeRFDongle, devices: []*WirelessDevice{wifi("wlan0")}}
	d2 := &fakeDetector{name: "net", claims: TypeWiFiAdapter, devices: []*WirelessDevice{wifi("wlan0")}}

	mgr := NewManager(d1, d2)
	assert.Len(t, mgr.Scan(context.Background()), 2)
}

func TestScanSurvivesPanickingDetector(t *testing.T) {
	d1 := &fakeDetector{name: "bad", claims: TypeBluetooth, panics: true}
	d2 := &fakeDetector{name: "net", claims: TypeWiFiAdapter, devices: []*WirelessDevice{wifi("wlan0")}}

	mgr := NewManager(d1, d2)
	devices := mgr.Scan(context.Background())

	require.Len(t, devices, 1)
	assert.Equal(t, "wlan0", devices[0].Name)
}

func TestScanReplacesCollection(t *testing.T) {
	d := &fakeDetector{name: "bt", claims: TypeBluetooth, devices: []*WirelessDevice{bt("a")}}
	mgr := NewManager(d)

	mgr.Scan(context.Background())
	d.devices = []*WirelessDevice{bt("b")}
	mgr.Scan(context.Background())

	devices := mgr.Devices()
	require.Len(t, devices, 1)
	assert.Equal(t, "b", devices[0].Name)
}

func TestScanNotifiesObservers(t *testing.T) {
	d := &fakeDetector{name: "bt", claims: TypeBluetooth, devices: []*WirelessDevice{bt("a"), bt("b")}}
	mgr := NewManager(d)

	var seen [][]*WirelessDevice
	mgr.AddObserver(func(devices []*WirelessDevice) {
		seen = append(seen, devices)
	})
	mgr.AddObserver(func(devices []*WirelessDevice) {
		panic("observer bug")
	})
	calls := 0
	mgr.AddObserver(func(devices []*WirelessDevice) {
		calls++
	})

	mgr.Scan(context.Background())

	require.Len(t, seen, 1)
	assert.Len(t, seen[0], 2)
	assert.Equal(t, 1, calls, "observers after a panicking one still run")
}

func TestEnableRoutesToFirstClaimingDetector(t *testing.T) {
	d1 := &fakeDetector{name: "bt", claims: TypeBluetooth, enableOK: true}
	d2 := &fakeDetector{name: "net", claims: TypeWiFiAdapter, enableOK: true}
	mgr := NewManager(d1, d2)

	dev := wifi("wlan0")
	ok := mgr.Enable(context.Background(), dev)

	assert.True(t, ok)
	assert.Equal(t, StatusEnabled, dev.Status)
	assert.Zero(t, d1.enableCalls)
	assert.Equal(t, 1, d2.enableCalls)
}

func TestEnableFailureLeavesStatusUnchanged(t *testing.T) {
	d := &fakeDetector{name: "net", claims: TypeWiFiAdapter, enableOK: false}
	mgr := NewManager(d)

	dev := wifi("wlan0")
	dev.Status = StatusDisabled

	assert.False(t, mgr.Enable(context.Background(), dev))
	assert.Equal(t, StatusDisabled, dev.Status)
}

func TestDisableUpdatesStatus(t *testing.T) {
	d := &fakeDetector{name: "net", claims: TypeWiFiAdapter, enableOK: true}
	mgr := NewManager(d)

	dev := wifi("wlan0")
	assert.True(t, mgr.Disable(context.Background(), dev))
	assert.Equal(t, StatusDisabled, dev.Status)
	assert.Equal(t, 1, d.disableCalls)
}

func TestEnableUnclaimedDevice(t *testing.T) {
	d := &fakeDetector{name: "net", claims: TypeWiFiAdapter}
	mgr := NewManager(d)

	dev := New("speaker", TypeWirelessAudio, "USB")
	assert.False(t, mgr.Enable(context.Background(), dev))
	assert.False(t, mgr.CanManage(dev))
	assert.Nil(t, mgr.DetectorFor(dev))
}

func TestQueryHelpers(t *testing.T) {
	a, b, c := bt("a"), bt("b"), wifi("wlan0")
	b.Status = StatusPaired
	c.MACAddress = "aa:bb:cc:dd:ee:ff"
	c.Status = StatusEnabled

	d1 := &fakeDetector{name: "bt", claims: TypeBluetooth, devices: []*WirelessDevice{a, b}}
	d2 := &fakeDetector{name: "net", claims: TypeWiFiAdapter, devices: []*WirelessDevice{c}}
	mgr := NewManager(d1, d2)
	mgr.Scan(context.Background())

	assert.Len(t, mgr.DevicesByType(TypeBluetooth), 2)
	assert.Len(t, mgr.DevicesByType(TypeRFDongle), 0)
	assert.Len(t, mgr.DevicesByStatus(StatusPaired), 1)

	assert.Same(t, b, mgr.DeviceByName("b"))
	assert.Nil(t, mgr.DeviceByName("nope"))
	assert.Same(t, c, mgr.DeviceByMAC("aa:bb:cc:dd:ee:ff"))
	assert.Nil(t, mgr.DeviceByMAC(""))

	// Find: exact name, then MAC, then substring.
	assert.Same(t, a, mgr.Find("a"))
	assert.Same(t, c, mgr.Find("aa:bb:cc:dd:ee:ff"))
	assert.Same(t, c, mgr.Find("WLAN"))
	assert.Nil(t, mgr.Find("missing"))
}

func TestStatisticsOmitsZeroBuckets(t *testing.T) {
	a, c := bt("a"), wifi("wlan0")
	c.Status = StatusEnabled

	d1 := &fakeDetector{name: "bt", claims: TypeBluetooth, devices: []*WirelessDevice{a}}
	d2 := &fakeDetector{name: "net", claims: TypeWiFiAdapter, devices: []*WirelessDevice{c}}
	mgr := NewManager(d1, d2)
	mgr.Scan(context.Background())

	stats := mgr.Statistics()

	assert.Equal(t, 2, stats.Total)
	assert.Equal(t, 2, stats.Manageable)
	assert.Equal(t, map[Type]int{TypeBluetooth: 1, TypeWiFiAdapter: 1}, stats.ByType)
	assert.Equal(t, map[Status]int{StatusUnknown: 1, StatusEnabled: 1}, stats.ByStatus)

	_, hasDongle := stats.ByType[TypeRFDongle]
	assert.False(t, hasDongle)
}

func TestScanIdempotentWithoutStateChange(t *testing.T) {
	d := &fakeDetector{name: "bt", claims: TypeBluetooth, devices: []*WirelessDevice{bt("a"), bt("b")}}
	mgr := NewManager(d)

	first := mgr.Scan(context.Background())
	second := mgr.Scan(context.Background())

	require.Equal(t, len(first), len(second))
	for i := range first {
		assert.True(t, first[i].Matches(second[i]))
	}
}
