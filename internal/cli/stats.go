package cli

import (
	"encoding/json"
	"os"

	"github.com/spf13/cobra"

	"github.com/Mk-1000/AirMon/internal/ui"
)

func statsCmd() *cobra.Command {
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Summarize detected devices by type and status",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			mgr := newManager()
			renderer := ui.NewRenderer()

			renderer.StartSpinner("Scanning for wireless devices...")
			mgr.Scan(ctx)
			renderer.StopSpinner()

			stats := mgr.Statistics()

			if jsonOut {
				enc := json.NewEncoder(os.Stdout)
				enc.SetIndent("", "  ")
				return enc.Encode(stats)
			}

			renderer.RenderStatistics(stats)
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOut, "json", false, "Output as JSON")

	return cmd
}
