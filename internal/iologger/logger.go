// Package iologger sets up the slog logger of the application.
package iologger

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/kpilake/kpilake/pkg/config"
)

// LogFile is the name of the log file inside the log directory.
const LogFile = "kpilake.log"

var current io.Closer

// Init sets the default slog logger according to cfg. For the "file"
// destination the log goes to LogFile in logDir, appended to previous
// content when append is true. A log file opened by a previous call is
// closed.
func Init(logDir string, cfg config.LogConfig, append bool) error {
	var writer io.Writer
	var closer io.Closer

	switch cfg.Destination {
	case "stdout":
		writer = os.Stdout
	case "file":
		logPath := filepath.Join(logDir, LogFile)
		flags := os.O_CREATE | os.O_WRONLY | os.O_TRUNC
		if append {
			flags = os.O_CREATE | os.O_WRONLY | os.O_APPEND
		}
		file, err := os.OpenFile(logPath, flags, 0644)
		if err != nil {
			return CreateLogFileError(logPath, err)
		}
		writer = file
		closer = file
	default:
		writer = os.Stderr
	}

	opts := &slog.HandlerOptions{Level: parseLevel(cfg.Level)}

	var handler slog.Handler
	switch cfg.Format {
	case "text":
		handler = slog.NewTextHandler(writer, opts)
	default:
		handler = slog.NewJSONHandler(writer, opts)
	}

	slog.SetDefault(slog.New(handler).With("app", config.AppName))

	if current != nil {
		_ = current.Close()
	}
	current = closer
	return nil
}

// Close closes the log file, if any, and switches logging to stderr.
func Close() error {
	if current == nil {
		return nil
	}
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stderr, nil)))
	err := current.Close()
	current = nil
	return err
}

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
