package cli

import (
	"encoding/json"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/Mk-1000/AirMon/internal/monitor"
	"github.com/Mk-1000/AirMon/internal/ui"
)

func monitorCmd() *cobra.Command {
	var (
		interval time.Duration
		jsonOut  bool
	)

	cmd := &cobra.Command{
		Use:   "monitor",
		Short: "Stream battery, CPU, and memory telemetry",
		Example: `  airmon monitor
  airmon monitor --interval 5s
  airmon monitor --json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			if interval <= 0 {
				interval = cfg.MonitorInterval
			}

			sampler := monitor.NewSampler(interval)

			if jsonOut {
				enc := json.NewEncoder(os.Stdout)
				sampler.AddCallback(func(info monitor.SystemInfo) {
					enc.Encode(info)
				})
			} else {
				renderer := ui.NewRenderer()
				sampler.AddCallback(renderer.RenderTelemetry)
			}

			sampler.Start(ctx)
			defer sampler.Stop()

			<-ctx.Done()
			return nil
		},
	}

	cmd.Flags().DurationVarP(&interval, "interval", "i", 0, "Sample interval (default from config, 2s)")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Output newline-delimited JSON")

	return cmd
}
