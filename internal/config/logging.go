package config

import (
	"strings"

	"github.com/evilsocket/islazy/log"
)

// ParseLevel maps a configured level name to the logger's verbosity.
// Unknown names fall back to info.
func ParseLevel(level string) log.Verbosity {
	switch strings.ToLower(level) {
	case "debug":
		return log.DEBUG
	case "warn", "warning":
		return log.WARNING
	case "error":
		return log.ERROR
	default:
		return log.INFO
	}
}

// SetupLogging configures the process logger. debug forces debug level.
func SetupLogging(cfg LoggingConfig, debug bool) error {
	log.Level = ParseLevel(cfg.Level)
	if debug {
		log.Level = log.DEBUG
	}
	log.OnFatal = log.ExitOnFatal

	if cfg.Output != "" {
		log.Output = cfg.Output
	}
	return log.Open()
}
