package logging

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
)

// Common errors
var ErrEmptyLogDirectory = errors.New("log directory cannot be empty")

// File permissions constants
const (
	logDirPerm  os.FileMode = 0o750
	logFilePerm os.FileMode = 0o600
)

// GenerateRunID generates a new UUID v4 identifying one console run. The
// ID is stamped on every record of the run's audit file.
func GenerateRunID() string {
	return uuid.New().String()
}

// GenerateLogFilename builds the per-session audit file path inside dir:
// <hostname>_<timestamp>_<runID>.json
func GenerateLogFilename(dir, runID string, now time.Time) string {
	hostname, err := os.Hostname()
	if err != nil {
		hostname = "unknown"
	}

	timestamp := now.UTC().Format("20060102T150405Z")
	filename := fmt.Sprintf("%s_%s_%s.json", hostname, timestamp, runID)
	return filepath.Join(dir, filename)
}

// ValidateLogDir ensures the log directory exists and is writable before
// the session starts logging into it.
func ValidateLogDir(dir string) error {
	if dir == "" {
		return ErrEmptyLogDirectory
	}

	if err := os.MkdirAll(dir, logDirPerm); err != nil {
		return fmt.Errorf("cannot create log directory %s: %w", dir, err)
	}

	probe := filepath.Join(dir, ".write_probe")
	f, err := os.OpenFile(probe, os.O_CREATE|os.O_WRONLY|os.O_EXCL, logFilePerm)
	if err != nil {
		return fmt.Errorf("cannot write to log directory %s: %w", dir, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to close probe file: %w", err)
	}
	if err := os.Remove(probe); err != nil {
		return fmt.Errorf("failed to remove probe file: %w", err)
	}

	return nil
}

// OpenLogFile opens the per-session audit file for writing, creating the
// parent directory when needed.
func OpenLogFile(path string) (*os.File, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, logDirPerm); err != nil {
		return nil, fmt.Errorf("failed to create directory %s: %w", dir, err)
	}

	// #nosec G304 - path is built by GenerateLogFilename from a validated directory
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, logFilePerm)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file %s: %w", path, err)
	}

	return f, nil
}
