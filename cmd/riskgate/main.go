// Package main provides the entry point for the IoT risk gate console.
// It handles command-line arguments, configuration loading, and wires a
// single-actor session to the gate through an interactive shell.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/isseis/go-iot-risk-gate/internal/gate"
	"github.com/isseis/go-iot-risk-gate/internal/gate/bootstrap"
	"github.com/isseis/go-iot-risk-gate/internal/gate/gatetypes"
	"github.com/isseis/go-iot-risk-gate/internal/gate/session"
	"github.com/isseis/go-iot-risk-gate/internal/gate/shell"
	"github.com/isseis/go-iot-risk-gate/internal/logging"
	"github.com/isseis/go-iot-risk-gate/internal/terminal"
)

const historyFileName = ".riskgate_history"

var (
	configPath  = flag.String("config", "", "path to TOML policy file (built-in defaults when omitted)")
	actorName   = flag.String("actor", "", "name of the acting operator")
	actorRole   = flag.String("role", "", "role for actors outside the configured roster (viewer, manager, admin)")
	logLevel    = flag.String("log-level", "info", "log level (debug, info, warn, error)")
	logDir      = flag.String("log-dir", "", "directory to place the per-run JSON audit log (auto-named)")
	seed        = flag.Uint64("seed", 0, "pin the risk perturbation sequence (0 draws a random seed)")
	interactive = flag.Bool("interactive", false, "force the interactive prompt even without a TTY")
	quiet       = flag.Bool("quiet", false, "force non-interactive mode and silence console logging")
	noColor     = flag.Bool("no-color", false, "disable colored output")
)

func main() {
	// Generate run ID early so pre-run failures carry it too
	runID := logging.GenerateRunID()

	if err := run(runID); err != nil {
		fmt.Fprintf(os.Stderr, "riskgate: %v (run_id=%s)\n", err, runID)
		os.Exit(1)
	}
}

func run(runID string) error {
	flag.Parse()

	// Set up context with cancellation
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var level gatetypes.LogLevel
	if err := level.UnmarshalText([]byte(*logLevel)); err != nil {
		return err
	}
	slogLevel, err := level.ToSlogLevel()
	if err != nil {
		return err
	}

	capabilities := terminal.NewCapabilities(terminal.Options{
		ForceInteractive:    *interactive,
		ForceNonInteractive: *quiet,
		DisableColor:        *noColor,
	})

	// Setup logging system early
	if _, err := bootstrap.SetupLogger(bootstrap.LoggerConfig{
		Level:        slogLevel,
		LogDir:       *logDir,
		RunID:        runID,
		Quiet:        *quiet,
		Capabilities: capabilities,
	}); err != nil {
		return fmt.Errorf("failed to setup logger: %w", err)
	}

	cfg, err := bootstrap.LoadGateConfig(*configPath)
	if err != nil {
		return err
	}

	actor, err := bootstrap.ResolveActor(cfg, *actorName, *actorRole)
	if err != nil {
		return err
	}

	opts := gate.Options{
		Policy: cfg.Policy,
		Logger: slog.Default(),
	}
	if *seed != 0 {
		opts.Seed = seed
	}
	g, err := gate.New(opts)
	if err != nil {
		return fmt.Errorf("failed to initialize gate: %w", err)
	}

	sess := session.New(actor, time.Now())
	slog.Info("Session started",
		"session_id", sess.ID,
		"actor", actor.Name,
		"role", actor.Role.String(),
	)

	sh, err := shell.New(shell.Options{
		Gate:         g,
		Session:      sess,
		Capabilities: capabilities,
		HistoryFile:  historyFilePath(),
	})
	if err != nil {
		return err
	}

	if err := sh.Run(ctx); err != nil {
		return err
	}

	slog.Info("Session ended",
		"session_id", sess.ID,
		"duration_ms", sess.Elapsed(time.Now()).Milliseconds(),
		"authorization_checks", g.Stats().TotalChecks(),
		"denied", g.Stats().TotalDenied(),
	)
	return nil
}

// historyFilePath keeps prompt history in the user's home directory,
// falling back to the temp directory when home cannot be resolved.
func historyFilePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		home = os.TempDir()
	}
	return filepath.Join(home, historyFileName)
}
