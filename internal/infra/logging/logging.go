package logging

import (
	"io"
	"log/slog"
)

// SetupJSON sets slog's default logger to JSON output on w at the given
// level. The engine writes its report to stdout, so diagnostics go to a
// caller-chosen writer (stderr in the CLI) to keep the report parseable.
func SetupJSON(w io.Writer, level slog.Level) {
	logger := slog.New(
		slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level}),
	)
	slog.SetDefault(logger)
}
