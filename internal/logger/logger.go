package logger

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/PlayraLive/h-ai-sub006/internal/config"
)

// New builds the service logger and installs it as the zerolog global,
// so packages can log through github.com/rs/zerolog/log.
func New(cfg *config.Config) zerolog.Logger {
	var out io.Writer = os.Stdout
	if !jsonOutput(cfg) {
		out = zerolog.ConsoleWriter{
			Out:        os.Stdout,
			TimeFormat: time.RFC3339,
		}
	}

	base := zerolog.New(out).
		With().
		Timestamp().
		Str("service", cfg.Telemetry.ServiceName).
		Str("environment", cfg.Server.Environment).
		Logger().
		Level(parseLevel(cfg.Logging.Level))

	log.Logger = base
	zerolog.DefaultContextLogger = &log.Logger
	return base
}

// Get returns the global logger.
func Get() *zerolog.Logger {
	return &log.Logger
}

// jsonOutput reports whether logs go out as JSON. Production always does.
func jsonOutput(cfg *config.Config) bool {
	return cfg.IsProduction() || strings.ToLower(cfg.Logging.Format) == "json"
}

func parseLevel(raw string) zerolog.Level {
	if raw == "" {
		return zerolog.InfoLevel
	}
	level, err := zerolog.ParseLevel(strings.ToLower(raw))
	if err != nil {
		return zerolog.InfoLevel
	}
	return level
}
