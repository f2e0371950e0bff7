package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
)

// logDir is $XDG_STATE_HOME/pullpad, else <user cache dir>/pullpad.
func logDir() (string, error) {
	if d := os.Getenv("XDG_STATE_HOME"); d != "" {
		return filepath.Join(d, "pullpad"), nil
	}
	d, err := os.UserCacheDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine log directory: %w", err)
	}
	return filepath.Join(d, "pullpad"), nil
}

// newLogger opens the log file for appending. The terminal belongs to the
// TUI, so when the file cannot be opened logs are discarded. The returned
// closer is never nil.
func newLogger(level string) (*log.Logger, io.Closer, error) {
	lvl, err := log.ParseLevel(level)
	if err != nil {
		lvl = log.InfoLevel
	}
	discard := log.NewWithOptions(io.Discard, log.Options{Level: lvl})

	dir, err := logDir()
	if err != nil {
		return discard, io.NopCloser(nil), err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return discard, io.NopCloser(nil), err
	}
	f, err := os.OpenFile(filepath.Join(dir, "pullpad.log"), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return discard, io.NopCloser(nil), err
	}
	logger := log.NewWithOptions(f, log.Options{
		Level:           lvl,
		ReportTimestamp: true,
		TimeFormat:      time.DateTime,
	})
	return logger, f, nil
}
