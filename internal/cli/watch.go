package cli

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/Mk-1000/AirMon/internal/hotplug"
	"github.com/Mk-1000/AirMon/internal/ui"
)

func watchCmd() *cobra.Command {
	var interval time.Duration

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Rescan on USB hotplug activity",
		Long: `Watch the USB bus directories and rescan whenever devices attach or
detach, plus on a periodic interval as a safety net for sources fsnotify
cannot see (bluetooth pairing, rfkill).`,
		Example: `  airmon watch
  airmon watch --interval 30s`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			mgr := newManager()
			renderer := ui.NewRenderer()

			rescan := func(reason string) {
				renderer.Dim("rescan (%s)", reason)
				devices := mgr.Scan(ctx)
				renderer.RenderDeviceList(devices)
			}

			rescan("startup")

			watcher, err := hotplug.New(cfg.WatchDebounce)
			if err != nil {
				return err
			}
			defer watcher.Close()

			roots := hotplug.DefaultRoots()
			for _, root := range roots {
				if err := watcher.AddRecursive(root); err != nil {
					renderer.Warning("cannot watch %s: %v", root, err)
				}
			}
			if len(roots) == 0 {
				renderer.Warning("no USB bus directories to watch, relying on periodic rescan")
			}

			events := watcher.Watch(ctx)
			ticker := time.NewTicker(interval)
			defer ticker.Stop()

			for {
				select {
				case <-ctx.Done():
					return nil
				case _, ok := <-events:
					if !ok {
						return nil
					}
					rescan("hotplug")
				case <-ticker.C:
					rescan("interval")
				}
			}
		},
	}

	cmd.Flags().DurationVarP(&interval, "interval", "i", time.Minute, "Periodic rescan interval")

	return cmd
}
