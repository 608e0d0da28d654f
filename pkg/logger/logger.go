package logger

import (
	"io"
	"log/slog"
	"os"

	charmlog "github.com/charmbracelet/log"
)

// SetupGlobal installs the process-wide slog logger. format is one of
// "text", "json" or "pretty"; unknown values fall back to text.
func SetupGlobal(debug bool, showSource bool, format string) {
	slog.SetDefault(New(os.Stdout, debug, showSource, format))
}

func New(w io.Writer, debug bool, showSource bool, format string) *slog.Logger {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}

	opts := &slog.HandlerOptions{
		Level:     level,
		AddSource: showSource,
	}

	var handler slog.Handler
	switch format {
	case "json":
		handler = slog.NewJSONHandler(w, opts)
	case "pretty":
		cl := charmlog.NewWithOptions(w, charmlog.Options{
			ReportTimestamp: true,
			ReportCaller:    showSource,
		})
		if debug {
			cl.SetLevel(charmlog.DebugLevel)
		}
		handler = cl
	default:
		handler = slog.NewTextHandler(w, opts)
	}

	return slog.New(handler)
}
