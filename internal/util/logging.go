package util

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
)

const EnvLogLevel = "BF_LOG_LEVEL"

// LogLevel picks the level for command-line logging: debug when verbose,
// otherwise BF_LOG_LEVEL, otherwise warn.
func LogLevel(verbose bool) (slog.Level, error) {
	if verbose {
		return slog.LevelDebug, nil
	}
	switch name := strings.ToLower(os.Getenv(EnvLogLevel)); name {
	case "":
		return slog.LevelWarn, nil
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelWarn, fmt.Errorf("invalid %s: %q", EnvLogLevel, name)
	}
}

// SetupLogging installs a text handler writing to w as the default logger.
func SetupLogging(w io.Writer, verbose bool) error {
	level, err := LogLevel(verbose)
	handler := slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: level,
	})
	slog.SetDefault(slog.New(handler))
	return err
}
