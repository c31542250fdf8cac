package cli

import (
	"context"
	"fmt"
	"runtime"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/Mk-1000/AirMon/internal/process"
	"github.com/Mk-1000/AirMon/internal/ui"
)

func discoverCmd() *cobra.Command {
	var duration time.Duration

	cmd := &cobra.Command{
		Use:   "discover",
		Short: "Discover nearby bluetooth devices (Linux)",
		Long: `Run a live bluetooth scan for a bounded duration, printing devices as
bluetoothctl announces them. Requires bluetoothctl; Linux only.`,
		Example: `  airmon discover
  airmon discover --duration 30s`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if runtime.GOOS != "linux" {
				return fmt.Errorf("discover is only supported on Linux")
			}
			if !process.CommandExists("bluetoothctl") {
				return fmt.Errorf("bluetoothctl not found on PATH")
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), duration)
			defer cancel()

			renderer := ui.NewRenderer()
			renderer.Info("Scanning for %s... (ctrl-c to stop early)", duration)

			runner := process.NewRunner()
			lines, errs := runner.Stream(ctx, "bluetoothctl", "--timeout",
				fmt.Sprintf("%d", int(duration.Seconds())), "scan", "on")

			seen := make(map[string]bool)
			for line := range lines {
				mac, name, ok := parseDiscoveryLine(line.Content)
				if !ok || seen[mac] {
					continue
				}
				seen[mac] = true
				renderer.Success("%s  %s", mac, name)
			}

			if err := <-errs; err != nil && ctx.Err() == nil {
				return fmt.Errorf("bluetooth scan: %w", err)
			}

			if len(seen) == 0 {
				renderer.Info("No devices discovered")
			}
			return nil
		},
	}

	cmd.Flags().DurationVarP(&duration, "duration", "d", 15*time.Second, "How long to scan")

	return cmd
}

// parseDiscoveryLine reads bluetoothctl's announcement lines, e.g.
// "[NEW] Device AA:BB:CC:DD:EE:FF My Headphones". Control characters from
// bluetoothctl's prompt are tolerated by matching on the marker substring.
func parseDiscoveryLine(line string) (mac, name string, ok bool) {
	idx := strings.Index(line, "[NEW] Device ")
	if idx < 0 {
		return "", "", false
	}

	rest := strings.Fields(line[idx+len("[NEW] Device "):])
	if len(rest) < 2 {
		return "", "", false
	}

	return rest[0], strings.Join(rest[1:], " "), true
}
