// Package logging builds the process logger: human-readable text on
// stderr, optionally a JSON file, and the systemd journal when running as
// a service.
package logging

import (
	"fmt"
	"log/slog"
	"os"

	slogmulti "github.com/samber/slog-multi"
	slogjournal "github.com/systemd/slog-journal"
)

// ParseLevel maps a playbook log_level string to a slog level.
func ParseLevel(s string) (slog.Level, error) {
	switch s {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("unknown log level %q", s)
	}
}

// New builds a logger fanning out to stderr, an optional JSON log file,
// and the systemd journal when one is attached. The returned closer
// flushes the file handler; it is a no-op when no file is configured.
func New(level slog.Level, logFile string) (*slog.Logger, func() error, error) {
	opts := &slog.HandlerOptions{Level: level}
	handlers := []slog.Handler{slog.NewTextHandler(os.Stderr, opts)}
	closer := func() error { return nil }

	if logFile != "" {
		f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return nil, nil, fmt.Errorf("opening log file: %w", err)
		}
		handlers = append(handlers, slog.NewJSONHandler(f, opts))
		closer = f.Close
	}

	// systemd sets JOURNAL_STREAM for services with journal-connected output.
	if os.Getenv("JOURNAL_STREAM") != "" {
		if h, err := slogjournal.NewHandler(&slogjournal.Options{}); err == nil {
			handlers = append(handlers, h)
		}
	}

	return slog.New(slogmulti.Fanout(handlers...)), closer, nil
}
