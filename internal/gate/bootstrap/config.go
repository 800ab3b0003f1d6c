// Package bootstrap provides application initialization for the gate
// console: logger setup, configuration loading and actor resolution.
package bootstrap

import (
	"fmt"
	"log/slog"

	"github.com/isseis/go-iot-risk-gate/internal/gate/config"
)

// LoadGateConfig loads the policy and actor roster from the given TOML
// file, falling back to the built-in defaults when no path is given.
func LoadGateConfig(configPath string) (*config.Config, error) {
	if configPath == "" {
		slog.Info("No config file specified, using built-in defaults")
		return config.Default(), nil
	}

	cfg, err := config.NewLoader().Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config from %s: %w", configPath, err)
	}

	slog.Info("Configuration loaded",
		"path", configPath,
		"actors", len(cfg.Actors),
		"high_threshold", cfg.Policy.HighThreshold,
	)
	return cfg, nil
}
