// Package config provides functionality for loading and validating risk gate
// configuration files. It supports TOML format and converts the raw
// configuration spec into the validated runtime policy and actor roster used
// by the rest of the application.
package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/isseis/go-iot-risk-gate/internal/gate/gatetypes"
	"github.com/pelletier/go-toml/v2"
)

// Loader handles loading and validating configurations
type Loader struct{}

// Error definitions for the config package
var (
	// ErrInvalidConfigPath is returned when the config file path is invalid
	ErrInvalidConfigPath = errors.New("invalid config file path")
)

// NewLoader creates a new config loader
func NewLoader() *Loader {
	return &Loader{}
}

// Config is the validated runtime configuration: the risk policy with
// defaults applied and the known actor roster.
type Config struct {
	// Version is the configuration file version string (informational)
	Version string

	// Policy is the validated risk policy
	Policy gatetypes.RiskPolicy

	// Actors are the known session actors, in file order
	Actors []gatetypes.Actor
}

// Load reads, parses and validates the configuration file at path.
func (l *Loader) Load(path string) (*Config, error) {
	if path == "" {
		return nil, ErrInvalidConfigPath
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %q: %w", path, err)
	}

	return l.LoadFromBytes(content)
}

// LoadFromBytes parses and validates configuration from byte content.
func (l *Loader) LoadFromBytes(content []byte) (*Config, error) {
	var spec gatetypes.ConfigSpec
	if err := toml.Unmarshal(content, &spec); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	// Apply default values
	ApplyPolicyDefaults(&spec.Risk)

	policy, err := BuildPolicy(&spec.Risk)
	if err != nil {
		return nil, err
	}

	actors, err := BuildActors(spec.Actors)
	if err != nil {
		return nil, err
	}

	return &Config{
		Version: spec.Version,
		Policy:  policy,
		Actors:  actors,
	}, nil
}

// Default returns the configuration used when no config file is given:
// the default policy and an empty actor roster.
func Default() *Config {
	return &Config{
		Policy: DefaultPolicy(),
	}
}
