// Package logging builds the charmbracelet loggers used by the CLI, the
// TUI and the SSH server.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
)

// New returns a timestamped logger writing to w at the given level.
// Unknown level names fall back to info.
func New(w io.Writer, prefix, level string) *log.Logger {
	logger := log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		Prefix:          prefix,
	})
	logger.SetLevel(ParseLevel(level))
	return logger
}

// ParseLevel converts a level name to a log level.
func ParseLevel(level string) log.Level {
	if lvl, err := log.ParseLevel(strings.TrimSpace(level)); err == nil {
		return lvl
	}
	return log.InfoLevel
}

// Discard returns a logger that drops everything.
func Discard() *log.Logger {
	return log.New(io.Discard)
}

// ExpandHome replaces a leading ~ with the user's home directory.
func ExpandHome(path string) (string, error) {
	if !strings.HasPrefix(path, "~") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("logging: cannot expand home directory: %w", err)
	}
	return filepath.Join(home, path[1:]), nil
}

// OpenFile opens path for appending, creating parent directories.
// The TUI logs here because stderr belongs to the alt screen.
func OpenFile(path string) (*os.File, error) {
	path, err := ExpandHome(path)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("logging: cannot create log directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return nil, fmt.Errorf("logging: cannot open %s: %w", path, err)
	}
	return f, nil
}
