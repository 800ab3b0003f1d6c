package config

import "errors"

// Configuration validation errors
var (
	// ErrNilPolicySpec is returned when the policy spec is nil
	ErrNilPolicySpec = errors.New("policy spec must not be nil")

	// ErrUnknownWeightType is returned when type_weights contains a key
	// that is not a known device type
	ErrUnknownWeightType = errors.New("unknown device type in type_weights")

	// ErrNegativeWeight is returned when a type weight is negative
	ErrNegativeWeight = errors.New("type weight must not be negative")

	// ErrNegativePenalty is returned when a penalty value is negative
	ErrNegativePenalty = errors.New("penalty must not be negative")

	// ErrNegativeStalenessWindow is returned when staleness_days is negative
	ErrNegativeStalenessWindow = errors.New("staleness window must not be negative")

	// ErrNegativeRandomBound is returned when random_bound is negative
	ErrNegativeRandomBound = errors.New("random bound must not be negative")

	// ErrNegativeThreshold is returned when high_threshold is negative
	ErrNegativeThreshold = errors.New("high threshold must not be negative")

	// ErrEmptyActorName is returned when an actor entry has an empty name
	ErrEmptyActorName = errors.New("actor has empty name")

	// ErrMissingActorRole is returned when an actor entry omits the role
	ErrMissingActorRole = errors.New("actor has no role")

	// ErrDuplicateActorName is returned when two actor entries share a name
	ErrDuplicateActorName = errors.New("duplicate actor name")
)
