package ui

import (
	"fmt"
	"os"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/fatih/color"

	"github.com/Mk-1000/AirMon/internal/device"
	"github.com/Mk-1000/AirMon/internal/monitor"
)

// Renderer handles terminal output with colors and spinners
type Renderer struct {
	mu          sync.Mutex
	spinning    bool
	spinnerDone chan struct{}
}

// NewRenderer creates a new Renderer instance
func NewRenderer() *Renderer {
	return &Renderer{}
}

// Colors
var (
	green  = color.New(color.FgGreen).SprintFunc()
	red    = color.New(color.FgRed).SprintFunc()
	yellow = color.New(color.FgYellow).SprintFunc()
	cyan   = color.New(color.FgCyan).SprintFunc()
	dim    = color.New(color.Faint).SprintFunc()
	bold   = color.New(color.Bold).SprintFunc()
)

// Spinner frames
var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// StartSpinner starts an animated spinner with a message
func (r *Renderer) StartSpinner(format string, args ...any) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.spinning {
		return
	}

	r.spinning = true
	r.spinnerDone = make(chan struct{})

	msg := fmt.Sprintf(format, args...)

	go func() {
		frame := 0
		ticker := time.NewTicker(80 * time.Millisecond)
		defer ticker.Stop()

		for {
			select {
			case <-r.spinnerDone:
				return
			case <-ticker.C:
				r.mu.Lock()
				fmt.Fprintf(os.Stderr, "\r%s %s", cyan(spinnerFrames[frame]), msg)
				r.mu.Unlock()
				frame = (frame + 1) % len(spinnerFrames)
			}
		}
	}()
}

// StopSpinner stops the spinner and clears its line
func (r *Renderer) StopSpinner() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.spinning {
		return
	}

	close(r.spinnerDone)
	r.spinning = false

	fmt.Fprint(os.Stderr, "\r\033[K")
}

// Success prints a success message
func (r *Renderer) Success(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Fprintf(os.Stderr, "%s %s\n", green("✓"), msg)
}

// Error prints an error message
func (r *Renderer) Error(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Fprintf(os.Stderr, "%s %s\n", red("✗"), msg)
}

// Warning prints a warning message
func (r *Renderer) Warning(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Fprintf(os.Stderr, "%s %s\n", yellow("!"), msg)
}

// Info prints an info message
func (r *Renderer) Info(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Fprintf(os.Stderr, "  %s\n", msg)
}

// Dim prints dimmed/secondary text
func (r *Renderer) Dim(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Fprintf(os.Stderr, "  %s\n", dim(msg))
}

func statusColor(s device.Status) func(...any) string {
	switch s {
	case device.StatusEnabled, device.StatusConnected:
		return green
	case device.StatusPaired, device.StatusDiscoverable:
		return cyan
	case device.StatusDisabled, device.StatusDisconnected:
		return red
	default:
		return dim
	}
}

// RenderDeviceList prints devices grouped by type, in taxonomy order.
func (r *Renderer) RenderDeviceList(devices []*device.WirelessDevice) {
	if len(devices) == 0 {
		r.Info("No wireless devices found")
		return
	}

	byType := make(map[device.Type][]*device.WirelessDevice)
	for _, d := range devices {
		byType[d.Type] = append(byType[d.Type], d)
	}

	for _, t := range device.Types() {
		group := byType[t]
		if len(group) == 0 {
			continue
		}

		fmt.Fprintf(os.Stderr, "\n%s\n", bold(strings.ToUpper(string(t))))
		for _, d := range group {
			detail := d.Interface
			if d.MACAddress != "" {
				detail += " " + d.MACAddress
			}
			fmt.Fprintf(os.Stderr, "  %s %s %s\n",
				d.Name,
				dim(detail),
				statusColor(d.Status)(fmt.Sprintf("[%s]", d.Status)),
			)
		}
	}
	fmt.Fprintln(os.Stderr)
}

// RenderDevice prints one device with every populated field.
func (r *Renderer) RenderDevice(d *device.WirelessDevice) {
	fmt.Fprintf(os.Stderr, "\n%s\n", bold(d.Name))
	fmt.Fprintf(os.Stderr, "  %-12s %s\n", "Type", d.Type)
	fmt.Fprintf(os.Stderr, "  %-12s %s\n", "Interface", d.Interface)
	fmt.Fprintf(os.Stderr, "  %-12s %s\n", "Status", statusColor(d.Status)(string(d.Status)))
	if d.MACAddress != "" {
		fmt.Fprintf(os.Stderr, "  %-12s %s\n", "MAC", d.MACAddress)
	}
	if d.VendorID != "" {
		fmt.Fprintf(os.Stderr, "  %-12s %s:%s\n", "USB ID", d.VendorID, d.ProductID)
	}
	if len(d.Info) > 0 {
		keys := make([]string, 0, len(d.Info))
		for k := range d.Info {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			fmt.Fprintf(os.Stderr, "  %s\n", dim(fmt.Sprintf("%-12s %v", k, d.Info[k])))
		}
	}
	fmt.Fprintln(os.Stderr)
}

// RenderStatistics prints the scan summary.
func (r *Renderer) RenderStatistics(stats device.Statistics) {
	fmt.Fprintf(os.Stderr, "\n%s\n", bold("DEVICES"))
	fmt.Fprintf(os.Stderr, "  %-12s %d\n", "Total", stats.Total)
	fmt.Fprintf(os.Stderr, "  %-12s %d\n", "Manageable", stats.Manageable)

	if len(stats.ByType) > 0 {
		fmt.Fprintf(os.Stderr, "\n%s\n", bold("BY TYPE"))
		for _, t := range device.Types() {
			if n := stats.ByType[t]; n > 0 {
				fmt.Fprintf(os.Stderr, "  %-18s %d\n", t, n)
			}
		}
	}

	if len(stats.ByStatus) > 0 {
		fmt.Fprintf(os.Stderr, "\n%s\n", bold("BY STATUS"))
		for _, s := range device.Statuses() {
			if n := stats.ByStatus[s]; n > 0 {
				fmt.Fprintf(os.Stderr, "  %-18s %d\n", statusColor(s)(string(s)), n)
			}
		}
	}
	fmt.Fprintln(os.Stderr)
}

// RenderTelemetry prints one monitor sample on a single line.
func (r *Renderer) RenderTelemetry(info monitor.SystemInfo) {
	batt := dim("no battery")
	if info.BatteryPercent != nil {
		state := "discharging"
		if info.BatteryPlugged {
			state = "plugged"
		}
		batt = fmt.Sprintf("batt %d%% (%s)", *info.BatteryPercent, state)
	}

	fmt.Fprintf(os.Stderr, "%s  cpu %5.1f%%  mem %5.1f%%  %s  %s\n",
		time.Now().Format("15:04:05"),
		info.CPUUsage,
		info.MemoryUsage,
		batt,
		dim(fmt.Sprintf("%d interfaces", len(info.NetworkInterfaces))),
	)
}
