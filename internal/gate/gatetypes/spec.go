// Package gatetypes defines the core data structures used throughout the
// risk gate.
package gatetypes

import "time"

// ConfigSpec represents the root configuration structure loaded from a TOML
// file. This is an immutable representation of the configuration file and
// should not be modified after loading.
//
// For the validated runtime form, see RiskPolicy (built by the config
// package from RiskPolicySpec).
type ConfigSpec struct {
	// Version specifies the configuration file version (e.g., "1.0")
	Version string `toml:"version"`

	// Risk contains the risk policy parameters
	Risk RiskPolicySpec `toml:"risk"`

	// Actors contains the known session actors. Optional: sessions may
	// assert an ad-hoc actor/role pair instead.
	Actors []ActorSpec `toml:"actors"`
}

// RiskPolicySpec contains the raw risk policy as loaded from TOML.
// Pointer fields distinguish "absent, use default" from explicit zero.
type RiskPolicySpec struct {
	// TypeWeights maps device type names to their base exposure weight.
	// nil: use the default table. Keys are validated against the
	// DeviceType enumeration when the policy is built.
	TypeWeights map[string]int `toml:"type_weights"`

	// CurrentFirmware is the version threshold: firmware below it incurs
	// FirmwarePenalty. Empty string means the default.
	CurrentFirmware string `toml:"current_firmware"`

	// FirmwarePenalty is added when firmware is below CurrentFirmware
	// (nil = default)
	FirmwarePenalty *int `toml:"firmware_penalty"`

	// StalenessDays is the update staleness window in days (nil = default)
	StalenessDays *int `toml:"staleness_days"`

	// StalenessPenalty is added when the last update is older than the
	// staleness window (nil = default)
	StalenessPenalty *int `toml:"staleness_penalty"`

	// RandomBound is the inclusive upper bound of the random perturbation
	// (nil = default, 0 = fully deterministic scoring)
	RandomBound *int `toml:"random_bound"`

	// HighThreshold is the score above which a device classifies High
	// (nil = default)
	HighThreshold *int `toml:"high_threshold"`
}

// ActorSpec represents one [[actors]] entry loaded from TOML.
type ActorSpec struct {
	// Name identifies the actor
	Name string `toml:"name"`

	// Role is the actor's capability tier; validated during parsing
	Role Role `toml:"role"`

	// Active marks whether the actor may perform any action
	// (nil = default true)
	Active *bool `toml:"active"`
}

// RiskPolicy is the validated runtime form of RiskPolicySpec. All fields
// are concrete; defaults have been applied and weights validated. The
// policy is the single source of the scoring constants so tests and
// deployments can tune thresholds without touching the evaluator.
type RiskPolicy struct {
	// TypeWeights maps every known device type to its base weight
	TypeWeights map[DeviceType]int

	// CurrentFirmware is the firmware version threshold (semantic version string)
	CurrentFirmware string

	// FirmwarePenalty is added for firmware below CurrentFirmware
	FirmwarePenalty int

	// StalenessWindow is how long after the last update a device counts as stale
	StalenessWindow time.Duration

	// StalenessPenalty is added for devices stale beyond the window
	StalenessPenalty int

	// RandomBound is the inclusive upper bound of the random perturbation
	RandomBound int

	// HighThreshold is the score above which a device classifies High
	HighThreshold int
}

// WeightFor looks up the base weight for a device type.
func (p RiskPolicy) WeightFor(t DeviceType) (int, bool) {
	w, ok := p.TypeWeights[t]
	return w, ok
}
