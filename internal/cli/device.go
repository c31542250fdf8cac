package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Mk-1000/AirMon/internal/ui"
)

func enableCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "enable <device>",
		Short: "Enable a wireless device",
		Long:  `Enable a device by name, MAC address, or name substring.`,
		Example: `  airmon enable wlan0
  airmon enable "Wireless Interface wlan0"`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runToggle(cmd.Context(), args[0], true)
		},
	}
}

func disableCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "disable <device>",
		Short: "Disable a wireless device",
		Long:  `Disable a device by name, MAC address, or name substring.`,
		Example: `  airmon disable wlan0
  airmon disable AA:BB:CC:DD:EE:FF`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runToggle(cmd.Context(), args[0], false)
		},
	}
}

func runToggle(ctx context.Context, handle string, enable bool) error {
	mgr := newManager()
	renderer := ui.NewRenderer()

	renderer.StartSpinner("Scanning for wireless devices...")
	mgr.Scan(ctx)
	renderer.StopSpinner()

	dev := mgr.Find(handle)
	if dev == nil {
		return fmt.Errorf("device not found: %s", handle)
	}

	verb, ok := "Enabling", false
	if !enable {
		verb = "Disabling"
	}

	renderer.StartSpinner("%s %s...", verb, dev.Name)
	if enable {
		ok = mgr.Enable(ctx, dev)
	} else {
		ok = mgr.Disable(ctx, dev)
	}
	renderer.StopSpinner()

	if !ok {
		if !mgr.CanManage(dev) {
			return fmt.Errorf("no detector can manage %s (%s)", dev.Name, dev.Type)
		}
		return fmt.Errorf("operation failed for %s", dev.Name)
	}

	renderer.Success("%s is now %s", dev.Name, dev.Status)
	return nil
}

func infoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "info <device>",
		Short: "Show every detected field of one device",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			mgr := newManager()
			renderer := ui.NewRenderer()

			renderer.StartSpinner("Scanning for wireless devices...")
			mgr.Scan(ctx)
			renderer.StopSpinner()

			dev := mgr.Find(args[0])
			if dev == nil {
				return fmt.Errorf("device not found: %s", args[0])
			}

			renderer.RenderDevice(dev)
			if det := mgr.DetectorFor(dev); det != nil {
				renderer.Dim("manageable via %s detector", det.Name())
			} else {
				renderer.Dim("not manageable")
			}
			return nil
		},
	}
}
