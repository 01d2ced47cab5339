package config

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
)

// SetupLogger opens the log file in append mode and installs a text slog
// handler as the default logger. The terminal belongs to the UI, so nothing
// is written to stdout. Close the returned io.Closer on exit.
func SetupLogger(cfg Config) (*slog.Logger, io.Closer, error) {
	path := cfg.LogPath()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, nil, fmt.Errorf("create log dir: %w", err)
	}
	file, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}

	handler := slog.NewTextHandler(file, &slog.HandlerOptions{Level: cfg.LogLevel})
	logger := slog.New(handler)
	slog.SetDefault(logger)
	return logger, file, nil
}
