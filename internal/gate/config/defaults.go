package config

import (
	"time"

	"github.com/isseis/go-iot-risk-gate/internal/gate/gatetypes"
)

// Default values for risk policy fields
const (
	// DefaultCurrentFirmware is the firmware version threshold below which
	// a device incurs the firmware penalty
	DefaultCurrentFirmware = "1.2.0"

	// DefaultFirmwarePenalty is the score added for outdated firmware
	DefaultFirmwarePenalty = 3

	// DefaultStalenessDays is the update staleness window in days
	DefaultStalenessDays = 90

	// DefaultStalenessPenalty is the score added for stale devices
	DefaultStalenessPenalty = 2

	// DefaultRandomBound is the inclusive upper bound of the random
	// perturbation added to every score
	DefaultRandomBound = 2

	// DefaultHighThreshold is the score above which a device classifies High
	DefaultHighThreshold = 8

	// DefaultActorActive is the active flag applied when an actor entry
	// omits it
	DefaultActorActive = true
)

// DefaultTypeWeights returns the built-in base weight table. Weights order
// device classes by exposure: passive sensors at the bottom, network
// gateways at the top.
func DefaultTypeWeights() map[gatetypes.DeviceType]int {
	return map[gatetypes.DeviceType]int{
		gatetypes.DeviceTypeSensor:   1,
		gatetypes.DeviceTypeActuator: 3,
		gatetypes.DeviceTypeCamera:   5,
		gatetypes.DeviceTypeGateway:  6,
	}
}

// ApplyPolicyDefaults applies default values to unset RiskPolicySpec fields.
// TypeWeights is left untouched: BuildPolicy overlays it onto the default
// table so partial weight tables keep defaults for the missing types.
func ApplyPolicyDefaults(spec *gatetypes.RiskPolicySpec) {
	if spec.CurrentFirmware == "" {
		spec.CurrentFirmware = DefaultCurrentFirmware
	}
	if spec.FirmwarePenalty == nil {
		v := DefaultFirmwarePenalty
		spec.FirmwarePenalty = &v
	}
	if spec.StalenessDays == nil {
		v := DefaultStalenessDays
		spec.StalenessDays = &v
	}
	if spec.StalenessPenalty == nil {
		v := DefaultStalenessPenalty
		spec.StalenessPenalty = &v
	}
	if spec.RandomBound == nil {
		v := DefaultRandomBound
		spec.RandomBound = &v
	}
	if spec.HighThreshold == nil {
		v := DefaultHighThreshold
		spec.HighThreshold = &v
	}
}

// DefaultPolicy returns the runtime policy used when no configuration file
// is provided.
func DefaultPolicy() gatetypes.RiskPolicy {
	return gatetypes.RiskPolicy{
		TypeWeights:      DefaultTypeWeights(),
		CurrentFirmware:  DefaultCurrentFirmware,
		FirmwarePenalty:  DefaultFirmwarePenalty,
		StalenessWindow:  time.Duration(DefaultStalenessDays) * 24 * time.Hour,
		StalenessPenalty: DefaultStalenessPenalty,
		RandomBound:      DefaultRandomBound,
		HighThreshold:    DefaultHighThreshold,
	}
}
