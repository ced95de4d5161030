package observability

import (
	"log/slog"
	"os"

	"github.com/couchcryptid/postcode-report/internal/config"
)

// NewLogger builds the root slog logger from config and installs it as the
// process default. LOG_FORMAT selects json (default) or text output;
// LOG_LEVEL selects debug, info, warn, or error.
func NewLogger(cfg *config.Config) *slog.Logger {
	opts := &slog.HandlerOptions{Level: parseLevel(cfg.LogLevel)}

	var handler slog.Handler
	if cfg.LogFormat == "text" {
		handler = slog.NewTextHandler(os.Stdout, opts)
	} else {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	}

	logger := slog.New(handler)
	slog.SetDefault(logger)
	return logger
}

// parseLevel maps a level name to a slog.Level, defaulting to info for
// unrecognized values.
func parseLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
