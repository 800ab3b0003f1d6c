// Package gatetypes defines the core data structures used throughout the
// risk gate. It includes the closed enumerations for devices, roles and
// actions, the policy configuration types, and the error catalog.
package gatetypes

import (
	"fmt"
	"log/slog"
	"strings"
	"time"
)

// DeviceType identifies the hardware class of a fleet device.
// The set is closed; risk policies must provide a weight for every member.
type DeviceType string

const (
	// DeviceTypeSensor covers passive telemetry devices (lowest exposure)
	DeviceTypeSensor DeviceType = "sensor"

	// DeviceTypeActuator covers devices that act on their environment
	DeviceTypeActuator DeviceType = "actuator"

	// DeviceTypeCamera covers video capture devices (elevated exposure)
	DeviceTypeCamera DeviceType = "camera"

	// DeviceTypeGateway covers edge gateways that bridge device networks
	// (highest exposure: a compromised gateway reaches everything behind it)
	DeviceTypeGateway DeviceType = "gateway"
)

// DeviceTypes returns all members of the device type enumeration.
func DeviceTypes() []DeviceType {
	return []DeviceType{DeviceTypeSensor, DeviceTypeActuator, DeviceTypeCamera, DeviceTypeGateway}
}

// ParseDeviceType converts a string to a DeviceType.
// Unknown values fail with ErrInvalidDeviceType; there is no default.
func ParseDeviceType(s string) (DeviceType, error) {
	switch DeviceType(strings.ToLower(strings.TrimSpace(s))) {
	case DeviceTypeSensor:
		return DeviceTypeSensor, nil
	case DeviceTypeActuator:
		return DeviceTypeActuator, nil
	case DeviceTypeCamera:
		return DeviceTypeCamera, nil
	case DeviceTypeGateway:
		return DeviceTypeGateway, nil
	default:
		return "", fmt.Errorf("%w: %q (must be one of: sensor, actuator, camera, gateway)", ErrInvalidDeviceType, s)
	}
}

// UnmarshalText implements the encoding.TextUnmarshaler interface.
// This enables validation during TOML parsing.
func (t *DeviceType) UnmarshalText(text []byte) error {
	parsed, err := ParseDeviceType(string(text))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// String returns the string representation of DeviceType.
func (t DeviceType) String() string {
	return string(t)
}

// DeviceStatus represents the operational state of a device.
type DeviceStatus string

const (
	// StatusActive marks a device in normal operation
	StatusActive DeviceStatus = "active"

	// StatusInactive marks a device that is enrolled but not operating
	StatusInactive DeviceStatus = "inactive"

	// StatusMaintenance marks a device taken offline for servicing
	StatusMaintenance DeviceStatus = "maintenance"
)

// DeviceStatuses returns all members of the device status enumeration.
func DeviceStatuses() []DeviceStatus {
	return []DeviceStatus{StatusActive, StatusInactive, StatusMaintenance}
}

// ParseDeviceStatus converts a string to a DeviceStatus.
func ParseDeviceStatus(s string) (DeviceStatus, error) {
	switch DeviceStatus(strings.ToLower(strings.TrimSpace(s))) {
	case StatusActive:
		return StatusActive, nil
	case StatusInactive:
		return StatusInactive, nil
	case StatusMaintenance:
		return StatusMaintenance, nil
	default:
		return "", fmt.Errorf("%w: %q (must be one of: active, inactive, maintenance)", ErrInvalidDeviceStatus, s)
	}
}

// UnmarshalText implements the encoding.TextUnmarshaler interface.
func (s *DeviceStatus) UnmarshalText(text []byte) error {
	parsed, err := ParseDeviceStatus(string(text))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// String returns the string representation of DeviceStatus.
func (s DeviceStatus) String() string {
	return string(s)
}

// RiskLevel represents the classified risk of a device
type RiskLevel int

const (
	// RiskLevelUnknown indicates devices whose risk could not be determined
	RiskLevelUnknown RiskLevel = iota

	// RiskLevelLow indicates devices at or below the policy threshold
	RiskLevelLow

	// RiskLevelHigh indicates devices above the policy threshold
	RiskLevelHigh
)

// Risk level string constants used for string representation and parsing.
const (
	// UnknownRiskLevelString represents an unknown risk level.
	UnknownRiskLevelString = "unknown"
	// LowRiskLevelString represents a low risk level.
	LowRiskLevelString = "low"
	// HighRiskLevelString represents a high risk level.
	HighRiskLevelString = "high"
)

// String returns a string representation of RiskLevel
func (r RiskLevel) String() string {
	switch r {
	case RiskLevelLow:
		return LowRiskLevelString
	case RiskLevelHigh:
		return HighRiskLevelString
	default:
		return UnknownRiskLevelString
	}
}

// ParseRiskLevel converts a string to RiskLevel.
func ParseRiskLevel(s string) (RiskLevel, error) {
	switch s {
	case LowRiskLevelString:
		return RiskLevelLow, nil
	case HighRiskLevelString:
		return RiskLevelHigh, nil
	case UnknownRiskLevelString:
		return RiskLevelUnknown, nil
	default:
		return RiskLevelUnknown, fmt.Errorf("%w: %s (supported: low, high)", ErrInvalidRiskLevel, s)
	}
}

// Role represents the capability tier asserted for the current session.
// Roles are asserted, not authenticated; the gate trusts the shell's claim.
type Role string

const (
	// RoleViewer may read reports and statistics only
	RoleViewer Role = "viewer"

	// RoleManager may additionally add and approve recommendations
	RoleManager Role = "manager"

	// RoleAdmin may additionally enroll and modify devices
	RoleAdmin Role = "admin"
)

// Roles returns all members of the role enumeration, lowest rank first.
func Roles() []Role {
	return []Role{RoleViewer, RoleManager, RoleAdmin}
}

// ParseRole converts a string to a Role.
func ParseRole(s string) (Role, error) {
	switch Role(strings.ToLower(strings.TrimSpace(s))) {
	case RoleViewer:
		return RoleViewer, nil
	case RoleManager:
		return RoleManager, nil
	case RoleAdmin:
		return RoleAdmin, nil
	default:
		return "", fmt.Errorf("%w: %q (must be one of: viewer, manager, admin)", ErrInvalidRole, s)
	}
}

// UnmarshalText implements the encoding.TextUnmarshaler interface.
func (r *Role) UnmarshalText(text []byte) error {
	parsed, err := ParseRole(string(text))
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}

// String returns the string representation of Role.
func (r Role) String() string {
	return string(r)
}

// Action represents a gated operation. The set is closed and every gate
// entry point maps to exactly one member, so the authorizer's matrix
// lookup is exhaustive and unmatched values fail fast.
type Action string

// Gated operations
const (
	ActionViewReport            Action = "view_report"
	ActionViewStatistics        Action = "view_statistics"
	ActionListDevices           Action = "list_devices"
	ActionGetDevice             Action = "get_device"
	ActionEvaluateRisk          Action = "evaluate_risk"
	ActionAddRecommendation     Action = "add_recommendation"
	ActionApproveRecommendation Action = "approve_recommendation"
	ActionAddDevice             Action = "add_device"
	ActionUpdateStatus          Action = "update_device_status"
	ActionUpdateFirmware        Action = "update_device_firmware"
)

// Actions returns all members of the action enumeration.
func Actions() []Action {
	return []Action{
		ActionViewReport,
		ActionViewStatistics,
		ActionListDevices,
		ActionGetDevice,
		ActionEvaluateRisk,
		ActionAddRecommendation,
		ActionApproveRecommendation,
		ActionAddDevice,
		ActionUpdateStatus,
		ActionUpdateFirmware,
	}
}

// ParseAction converts a string to an Action.
func ParseAction(s string) (Action, error) {
	candidate := Action(strings.ToLower(strings.TrimSpace(s)))
	for _, action := range Actions() {
		if candidate == action {
			return action, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidAction, s)
}

// String returns the string representation of Action.
func (a Action) String() string {
	return string(a)
}

// LogLevel represents the logging level for the application.
// Valid values: debug, info, warn, error
type LogLevel string

const (
	// LogLevelDebug enables debug-level logging
	LogLevelDebug LogLevel = "debug"

	// LogLevelInfo enables info-level logging (default)
	LogLevelInfo LogLevel = "info"

	// LogLevelWarn enables warning-level logging
	LogLevelWarn LogLevel = "warn"

	// LogLevelError enables error-level logging only
	LogLevelError LogLevel = "error"
)

// UnmarshalText implements the encoding.TextUnmarshaler interface.
func (l *LogLevel) UnmarshalText(text []byte) error {
	s := strings.ToLower(string(text))
	switch LogLevel(s) {
	case LogLevelDebug, LogLevelInfo, LogLevelWarn, LogLevelError:
		*l = LogLevel(s)
		return nil
	case "":
		// Empty string defaults to info level
		*l = LogLevelInfo
		return nil
	default:
		return fmt.Errorf("%w: %q (must be one of: debug, info, warn, error)", ErrInvalidLogLevel, string(text))
	}
}

// ToSlogLevel converts LogLevel to slog.Level for use with the slog package.
func (l LogLevel) ToSlogLevel() (slog.Level, error) {
	switch strings.ToLower(string(l)) {
	case "debug":
		return slog.LevelDebug, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "warn":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrInvalidLogLevel, l)
	}
}

// String returns the string representation of LogLevel.
func (l LogLevel) String() string {
	return string(l)
}

// Device is a registered fleet device. RiskLevel is deliberately absent:
// risk is recomputed on demand by the evaluator and never persisted as
// ground truth.
type Device struct {
	// ID uniquely identifies the device; immutable after registration
	ID string

	// Type is the hardware class, one of the DeviceType enumeration
	Type DeviceType

	// FirmwareVersion is the installed firmware as a semantic version string
	FirmwareVersion string

	// Status is the operational state, mutable by Admin only
	Status DeviceStatus

	// RegisteredAt is when the device was added to the registry
	RegisteredAt time.Time

	// LastUpdatedAt is when the firmware was last updated
	LastUpdatedAt time.Time
}

// Recommendation is a remediation note attached to a device. Approval is a
// one-way transition; a second approval attempt is an error surfaced to the
// caller rather than silently absorbed.
type Recommendation struct {
	// ID uniquely identifies the recommendation (UUID, assigned by the ledger)
	ID string

	// DeviceID references the device this recommendation applies to
	DeviceID string

	// Text is the free-form remediation description
	Text string

	// Approved records manager sign-off; transitions false→true exactly once
	Approved bool

	// ApprovedBy is the actor name recorded at approval time
	ApprovedBy string

	// CreatedAt is when the recommendation was added
	CreatedAt time.Time
}

// Actor is the identity asserted for a session. Inactive actors are denied
// every action regardless of role.
type Actor struct {
	Name   string
	Role   Role
	Active bool
}

// RiskAssessment is the result of a single risk evaluation: the binary
// classification plus the score breakdown that produced it. Reports and
// audit records include the addends so a High verdict can be explained.
type RiskAssessment struct {
	// Level is the classification against the policy threshold
	Level RiskLevel

	// Score is the evaluated total: Base + FirmwarePenalty + StalenessPenalty + Perturbation
	Score int

	// Base is the device type weight from the policy table
	Base int

	// FirmwarePenalty is nonzero when firmware is below the current threshold
	FirmwarePenalty int

	// StalenessPenalty is nonzero when the last update exceeds the staleness window
	StalenessPenalty int

	// Perturbation is the random term drawn for this evaluation
	Perturbation int

	// Reasons list the factors that contributed a nonzero addend
	Reasons []string
}

// DeterministicScore returns the reproducible part of the score, i.e. the
// total minus the random perturbation.
func (a RiskAssessment) DeterministicScore() int {
	return a.Score - a.Perturbation
}
