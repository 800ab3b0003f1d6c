package gatetypes

import (
	"encoding/json"
	"errors"
	"fmt"
)

// Standard gate errors. All of them are recoverable conditions returned to
// the calling shell; none are fatal to the process.
var (
	ErrInvalidDeviceType      = errors.New("invalid device type")
	ErrInvalidDeviceStatus    = errors.New("invalid device status")
	ErrInvalidRiskLevel       = errors.New("invalid risk level")
	ErrInvalidRole            = errors.New("invalid role")
	ErrInvalidAction          = errors.New("invalid action")
	ErrInvalidLogLevel        = errors.New("invalid log level")
	ErrInvalidFirmwareVersion = errors.New("invalid firmware version")
	ErrDeviceNotFound         = errors.New("device not found")
	ErrDeviceExists           = errors.New("device already registered")
	ErrRecommendationNotFound = errors.New("recommendation not found")
	ErrAlreadyApproved        = errors.New("recommendation already approved")

	// ErrPermissionDenied is the sentinel matched by errors.Is for every
	// authorization failure; the concrete value is *PermissionDeniedError.
	ErrPermissionDenied = errors.New("permission denied")
)

// PermissionDeniedError reports a rejected authorization check with enough
// context to render and audit the denial.
type PermissionDeniedError struct {
	// Actor is the session actor name that requested the action
	Actor string `json:"actor"`

	// Role is the role the actor asserted
	Role Role `json:"role"`

	// Action is the gated operation that was denied
	Action Action `json:"action"`

	// Reason describes why the check failed (role lacks rights, actor inactive)
	Reason string `json:"reason"`
}

// Error returns the error message for PermissionDeniedError
func (e *PermissionDeniedError) Error() string {
	return fmt.Sprintf("permission denied: actor %q (role %s) may not perform %s: %s",
		e.Actor, e.Role, e.Action, e.Reason)
}

// Unwrap returns ErrPermissionDenied so callers can match the error kind
// with errors.Is without caring about the concrete type.
func (e *PermissionDeniedError) Unwrap() error {
	return ErrPermissionDenied
}

// MarshalJSON implements json.Marshaler for PermissionDeniedError
func (e *PermissionDeniedError) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type    string `json:"type"`
		Actor   string `json:"actor"`
		Role    Role   `json:"role"`
		Action  Action `json:"action"`
		Reason  string `json:"reason"`
		Message string `json:"message"`
	}{
		Type:    "PermissionDeniedError",
		Actor:   e.Actor,
		Role:    e.Role,
		Action:  e.Action,
		Reason:  e.Reason,
		Message: e.Error(),
	})
}

// NewPermissionDeniedError creates a new PermissionDeniedError
func NewPermissionDeniedError(actor string, role Role, action Action, reason string) *PermissionDeniedError {
	return &PermissionDeniedError{
		Actor:  actor,
		Role:   role,
		Action: action,
		Reason: reason,
	}
}

// IsPermissionDenied checks if an error is an authorization failure
func IsPermissionDenied(err error) bool {
	return errors.Is(err, ErrPermissionDenied)
}

// GetPermissionDeniedError extracts a PermissionDeniedError from an error chain
func GetPermissionDeniedError(err error) (*PermissionDeniedError, bool) {
	var denied *PermissionDeniedError
	if errors.As(err, &denied) {
		return denied, true
	}
	return nil, false
}
