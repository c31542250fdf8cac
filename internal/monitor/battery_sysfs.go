package monitor

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// readSysfsBattery scans root for the first BAT* supply and reads its
// capacity and charging status. Missing attributes are skipped, not errors.
func readSysfsBattery(root string) (*int, bool) {
	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, false
	}

	for _, entry := range entries {
		if !strings.HasPrefix(entry.Name(), "BAT") {
			continue
		}
		dir := filepath.Join(root, entry.Name())

		var percent *int
		if raw, err := os.ReadFile(filepath.Join(dir, "capacity")); err == nil {
			if v, err := strconv.Atoi(strings.TrimSpace(string(raw))); err == nil {
				v = clampPercent(v)
				percent = &v
			}
		}

		plugged := false
		if raw, err := os.ReadFile(filepath.Join(dir, "status")); err == nil {
			status := strings.ToLower(strings.TrimSpace(string(raw)))
			plugged = status == "charging" || status == "full"
		}

		return percent, plugged
	}

	return nil, false
}
