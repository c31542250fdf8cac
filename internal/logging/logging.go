package logging

import (
	"github.com/charmbracelet/log"
)

var DefaultLogger = log.Default()

// Init configures the package logger. Verbose lowers the level to Debug so
// swallowed probe errors become visible.
func Init(verbose bool) {
	DefaultLogger.SetTimeFormat("2006-01-02 15:04:05")
	if verbose {
		DefaultLogger.SetLevel(log.DebugLevel)
		DefaultLogger.SetReportCaller(true)
	} else {
		DefaultLogger.SetLevel(log.WarnLevel)
	}
}

// SetLevel applies a named level from config ("debug", "info", "warn", "error").
func SetLevel(name string) {
	if lvl, err := log.ParseLevel(name); err == nil {
		DefaultLogger.SetLevel(lvl)
	}
}
