package logger

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// Setup builds the process-wide zerolog logger from config.
//   - level: trace, debug, info, warn, error, fatal or panic; anything
//     else falls back to info
//   - format: "json" for production, "pretty" for local development
//
// Services and workers derive their own sub-logger from the returned
// instance via Component.
func Setup(level, format string) zerolog.Logger {
	var writer io.Writer

	if format == "pretty" {
		writer = zerolog.ConsoleWriter{
			Out:        os.Stdout,
			TimeFormat: time.RFC3339,
		}
	} else {
		writer = os.Stdout
	}

	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		lvl = zerolog.InfoLevel
	}

	zerolog.SetGlobalLevel(lvl)

	log := zerolog.New(writer).
		With().
		Timestamp().
		Caller().
		Logger()

	return log
}

// Component tags a sub-logger with the owning component's name, e.g.
// "plan_service" or "session_ingest_worker", so plan regeneration and
// queue activity can be filtered per component.
func Component(log zerolog.Logger, name string) zerolog.Logger {
	return log.With().Str("component", name).Logger()
}
