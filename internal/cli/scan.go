package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Mk-1000/AirMon/internal/device"
	"github.com/Mk-1000/AirMon/internal/ui"
)

func scanCmd() *cobra.Command {
	var (
		typeFilter   string
		statusFilter string
		manageable   bool
		jsonOut      bool
	)

	cmd := &cobra.Command{
		Use:   "scan",
		Short: "Scan for wireless devices",
		Example: `  airmon scan
  airmon scan --type bluetooth
  airmon scan --status enabled
  airmon scan --manageable
  airmon scan --json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			mgr := newManager()
			renderer := ui.NewRenderer()

			renderer.StartSpinner("Scanning for wireless devices...")
			devices := mgr.Scan(ctx)
			renderer.StopSpinner()

			if typeFilter != "" {
				t, ok := device.ParseType(typeFilter)
				if !ok {
					return fmt.Errorf("unknown device type: %s", typeFilter)
				}
				devices = mgr.DevicesByType(t)
			}
			if statusFilter != "" {
				s, ok := device.ParseStatus(statusFilter)
				if !ok {
					return fmt.Errorf("unknown status: %s", statusFilter)
				}
				devices = intersect(devices, mgr.DevicesByStatus(s))
			}
			if manageable {
				devices = intersect(devices, mgr.ManageableDevices())
			}

			if jsonOut {
				enc := json.NewEncoder(os.Stdout)
				enc.SetIndent("", "  ")
				return enc.Encode(devices)
			}

			renderer.RenderDeviceList(devices)
			return nil
		},
	}

	cmd.Flags().StringVarP(&typeFilter, "type", "t", "", "Filter by device type (bluetooth, rfdongle, wifiadapter, wirelessaudio, unknownwireless)")
	cmd.Flags().StringVarP(&statusFilter, "status", "s", "", "Filter by status (connected, paired, enabled, disabled, ...)")
	cmd.Flags().BoolVar(&manageable, "manageable", false, "Show only devices a detector can manage")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Output as JSON")

	return cmd
}

// intersect keeps the devices of a that also appear in b, preserving a's
// order. Membership is pointer identity: both slices come from the same scan.
func intersect(a, b []*device.WirelessDevice) []*device.WirelessDevice {
	inB := make(map[*device.WirelessDevice]bool, len(b))
	for _, d := range b {
		inB[d] = true
	}

	var out []*device.WirelessDevice
	for _, d := range a {
		if inB[d] {
			out = append(out, d)
		}
	}
	return out
}
