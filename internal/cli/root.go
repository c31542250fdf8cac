package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/Mk-1000/AirMon/internal/config"
	"github.com/Mk-1000/AirMon/internal/detector"
	"github.com/Mk-1000/AirMon/internal/device"
	"github.com/Mk-1000/AirMon/internal/logging"
)

var (
	verbose    bool
	configPath string
	cfg        config.Config
	rootCmd    *cobra.Command
)

func init() {
	rootCmd = &cobra.Command{
		Use:   "airmon",
		Short: "Wireless hardware inventory and control",
		Long: `airmon inventories the wireless-capable hardware on this machine
(bluetooth controllers and peripherals, USB wireless dongles, WiFi interfaces)
and can enable or disable the devices the OS lets it manage.

Common workflows:
  airmon scan               List every detected wireless device
  airmon scan --type wifiadapter
  airmon disable wlan0      Take an interface down
  airmon watch              Rescan on USB hotplug activity
  airmon monitor            Stream battery/CPU/memory telemetry`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			logging.Init(verbose)

			var err error
			cfg, err = config.Load(configPath)
			if err != nil {
				return err
			}
			if !verbose {
				logging.SetLevel(cfg.LogLevel)
			}
			return nil
		},
	}

	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Show probe commands and swallowed errors")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to a YAML config file")
}

// newManager probes host capabilities once and wires the fixed detector
// order: bluetooth, USB, network.
func newManager() *device.Manager {
	caps := detector.Probe()
	if verbose {
		caps.Report()
	}

	return device.NewManager(
		detector.NewBluetooth(caps, cfg.Timeouts),
		detector.NewUSB(caps, cfg.Timeouts),
		detector.NewNetwork(caps, cfg.Timeouts),
	)
}

func Execute(ctx context.Context, version string) error {
	rootCmd.Version = version

	rootCmd.AddCommand(scanCmd())
	rootCmd.AddCommand(enableCmd())
	rootCmd.AddCommand(disableCmd())
	rootCmd.AddCommand(infoCmd())
	rootCmd.AddCommand(statsCmd())
	rootCmd.AddCommand(watchCmd())
	rootCmd.AddCommand(monitorCmd())
	rootCmd.AddCommand(discoverCmd())

	return rootCmd.ExecuteContext(ctx)
}
