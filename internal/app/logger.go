package app

import (
	"io"
	"log/slog"
	"strings"
)

// logLevels maps the names accepted by --log-level to slog levels. Lookup is
// case-insensitive; unknown names fall back to info.
var logLevels = map[string]slog.Level{
	"debug": slog.LevelDebug,
	"info":  slog.LevelInfo,
	"warn":  slog.LevelWarn,
	"error": slog.LevelError,
}

// newLogger builds the logger the App hands to every collaborator. Text
// output suits the CI console this tool normally runs in; "json" switches to
// a machine-readable stream for log collectors. The global logger is left
// untouched so parallel tests can each own an instance.
func newLogger(levelStr, formatStr string, outW io.Writer) *slog.Logger {
	level, ok := logLevels[strings.ToLower(levelStr)]
	if !ok {
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}
	if formatStr == "json" {
		return slog.New(slog.NewJSONHandler(outW, opts))
	}
	return slog.New(slog.NewTextHandler(outW, opts))
}
