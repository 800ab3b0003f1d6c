package config

import (
	"fmt"
	"time"

	"github.com/hashicorp/go-version"
	"github.com/isseis/go-iot-risk-gate/internal/gate/gatetypes"
)

// BuildPolicy converts a RiskPolicySpec (with defaults already applied) into
// the validated runtime policy. Provided type weights overlay the default
// table, so a partial table keeps defaults for the missing types.
func BuildPolicy(spec *gatetypes.RiskPolicySpec) (gatetypes.RiskPolicy, error) {
	if spec == nil {
		return gatetypes.RiskPolicy{}, ErrNilPolicySpec
	}

	weights := DefaultTypeWeights()
	for name, w := range spec.TypeWeights {
		dt, err := gatetypes.ParseDeviceType(name)
		if err != nil {
			return gatetypes.RiskPolicy{}, fmt.Errorf("%w: %q", ErrUnknownWeightType, name)
		}
		if w < 0 {
			return gatetypes.RiskPolicy{}, fmt.Errorf("%w: %s = %d", ErrNegativeWeight, dt, w)
		}
		weights[dt] = w
	}

	if _, err := version.NewVersion(spec.CurrentFirmware); err != nil {
		return gatetypes.RiskPolicy{}, fmt.Errorf("%w: current_firmware %q: %v",
			gatetypes.ErrInvalidFirmwareVersion, spec.CurrentFirmware, err)
	}

	if *spec.FirmwarePenalty < 0 {
		return gatetypes.RiskPolicy{}, fmt.Errorf("%w: firmware_penalty = %d", ErrNegativePenalty, *spec.FirmwarePenalty)
	}
	if *spec.StalenessDays < 0 {
		return gatetypes.RiskPolicy{}, fmt.Errorf("%w: staleness_days = %d", ErrNegativeStalenessWindow, *spec.StalenessDays)
	}
	if *spec.StalenessPenalty < 0 {
		return gatetypes.RiskPolicy{}, fmt.Errorf("%w: staleness_penalty = %d", ErrNegativePenalty, *spec.StalenessPenalty)
	}
	if *spec.RandomBound < 0 {
		return gatetypes.RiskPolicy{}, fmt.Errorf("%w: random_bound = %d", ErrNegativeRandomBound, *spec.RandomBound)
	}
	if *spec.HighThreshold < 0 {
		return gatetypes.RiskPolicy{}, fmt.Errorf("%w: high_threshold = %d", ErrNegativeThreshold, *spec.HighThreshold)
	}

	return gatetypes.RiskPolicy{
		TypeWeights:      weights,
		CurrentFirmware:  spec.CurrentFirmware,
		FirmwarePenalty:  *spec.FirmwarePenalty,
		StalenessWindow:  time.Duration(*spec.StalenessDays) * 24 * time.Hour,
		StalenessPenalty: *spec.StalenessPenalty,
		RandomBound:      *spec.RandomBound,
		HighThreshold:    *spec.HighThreshold,
	}, nil
}

// BuildActors converts actor spec entries into runtime actors, validating
// names and roles and rejecting duplicates.
func BuildActors(specs []gatetypes.ActorSpec) ([]gatetypes.Actor, error) {
	if len(specs) == 0 {
		return nil, nil
	}

	seen := make(map[string]struct{}, len(specs))
	actors := make([]gatetypes.Actor, 0, len(specs))

	for i, s := range specs {
		if s.Name == "" {
			return nil, fmt.Errorf("%w: actors[%d]", ErrEmptyActorName, i)
		}
		if _, dup := seen[s.Name]; dup {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateActorName, s.Name)
		}
		seen[s.Name] = struct{}{}

		if s.Role == "" {
			return nil, fmt.Errorf("%w: actor %q", ErrMissingActorRole, s.Name)
		}
		role, err := gatetypes.ParseRole(string(s.Role))
		if err != nil {
			return nil, fmt.Errorf("actor %q: %w", s.Name, err)
		}

		active := DefaultActorActive
		if s.Active != nil {
			active = *s.Active
		}

		actors = append(actors, gatetypes.Actor{
			Name:   s.Name,
			Role:   role,
			Active: active,
		})
	}

	return actors, nil
}
