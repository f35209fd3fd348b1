package logging

import (
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// EnvLogLevel selects the log level: debug, info, warn, error (default: info).
const EnvLogLevel = "PHOTOPRINT_LOG_LEVEL"

// Init initializes the global logger with configuration from environment variables.
func Init() {
	level := os.Getenv(EnvLogLevel)
	switch level {
	case "debug":
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	case "warn":
		zerolog.SetGlobalLevel(zerolog.WarnLevel)
	case "error":
		zerolog.SetGlobalLevel(zerolog.ErrorLevel)
	default:
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}

	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
}

// SetVerbose drops the global level to debug regardless of environment
// configuration. Wired to the --verbose flag.
func SetVerbose() {
	zerolog.SetGlobalLevel(zerolog.DebugLevel)
}
