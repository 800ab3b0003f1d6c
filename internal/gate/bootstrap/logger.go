package bootstrap

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/isseis/go-iot-risk-gate/internal/logging"
	"github.com/isseis/go-iot-risk-gate/internal/terminal"
)

// LoggerConfig holds all configuration for logger setup
type LoggerConfig struct {
	Level         slog.Level
	LogDir        string                // Directory for the per-session JSON audit file; empty disables it
	RunID         string                // Identifier stamped on every audit file record
	Quiet         bool                  // Suppress console output entirely
	ConsoleWriter io.Writer             // Writer for console output (stderr by default)
	Capabilities  terminal.Capabilities // Terminal detection; resolved from the environment when nil
}

// SetupLogger builds the handler chain and installs it as the slog default.
// It must be called exactly once during startup, before any logging occurs.
//
// The chain fans out to a human-readable console handler and, when a log
// directory is configured, a per-session JSON audit file enriched with
// session attributes.
func SetupLogger(config LoggerConfig) (*slog.Logger, error) {
	capabilities := config.Capabilities
	if capabilities == nil {
		capabilities = terminal.NewCapabilities(terminal.Options{})
	}

	var handlers []slog.Handler

	// 1. Console handler for the operator
	if !config.Quiet {
		consoleWriter := config.ConsoleWriter
		if consoleWriter == nil {
			consoleWriter = os.Stderr
		}

		consoleHandler, err := logging.NewConsoleHandler(logging.ConsoleHandlerOptions{
			Level:    config.Level,
			Writer:   consoleWriter,
			UseColor: capabilities.SupportsColor(),
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create console handler: %w", err)
		}
		handlers = append(handlers, consoleHandler)
	}

	// 2. Machine-readable audit trail (per-session JSON file)
	if config.LogDir != "" {
		if err := logging.ValidateLogDir(config.LogDir); err != nil {
			return nil, fmt.Errorf("invalid log directory: %w", err)
		}

		logPath := logging.GenerateLogFilename(config.LogDir, config.RunID, time.Now())
		logF, err := logging.OpenLogFile(logPath)
		if err != nil {
			return nil, fmt.Errorf("failed to open log file: %w", err)
		}

		hostname, err := os.Hostname()
		if err != nil {
			hostname = "unknown"
		}

		jsonHandler := slog.NewJSONHandler(logF, &slog.HandlerOptions{
			Level: config.Level,
		})

		// Attach common attributes
		enrichedHandler := jsonHandler.WithAttrs([]slog.Attr{
			slog.String("hostname", hostname),
			slog.Int("pid", os.Getpid()),
			slog.Int("schema_version", 1),
			slog.String("run_id", config.RunID),
		})
		handlers = append(handlers, enrichedHandler)
	}

	// With no console and no file the records still need a sink.
	if len(handlers) == 0 {
		handlers = append(handlers, slog.NewTextHandler(io.Discard, &slog.HandlerOptions{
			Level: config.Level,
		}))
	}

	logger := slog.New(logging.NewMultiHandler(handlers...))
	slog.SetDefault(logger)

	logger.Info("Logger initialized",
		"log_level", config.Level.String(),
		"log_dir", config.LogDir,
		"run_id", config.RunID,
		"interactive_mode", capabilities.IsInteractive(),
		"color_support", capabilities.SupportsColor(),
	)

	return logger, nil
}
