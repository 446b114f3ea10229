package logging

import (
	"log/slog"
	"os"
)

// New initializes a new slog logger and sets it as the default.
// LOG_FORMAT selects the output format ("text" or "json") and LOG_LEVEL
// the minimum level ("debug", "info", "warn", "error"). The defaults are
// text output at info level, which suits interactive use of the tools.
func New() {
	level := slog.LevelInfo
	switch os.Getenv("LOG_LEVEL") {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}

	var handler slog.Handler
	switch os.Getenv("LOG_FORMAT") {
	case "json":
		handler = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level: level,
		})
	default:
		handler = slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
			Level: level,
		})
	}

	slog.SetDefault(slog.New(handler))
}
