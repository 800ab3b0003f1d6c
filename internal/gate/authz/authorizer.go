// Package authz implements role-based authorization for gate operations.
// Roles form a strict capability ladder (viewer < manager < admin): every
// action granted to a role is also granted to all higher roles. The matrix
// below is the single source of truth; IsAllowed is a pure lookup and
// Authorize wraps it with actor checks, auditing and statistics.
package authz

import (
	"context"
	"fmt"
	"slices"

	"github.com/isseis/go-iot-risk-gate/internal/gate/audit"
	"github.com/isseis/go-iot-risk-gate/internal/gate/gatetypes"
)

// roleActions defines the action matrix for each role.
var roleActions = map[gatetypes.Role][]gatetypes.Action{
	gatetypes.RoleViewer: {
		// Read-only access to devices, reports and risk evaluation
		gatetypes.ActionViewReport,
		gatetypes.ActionViewStatistics,
		gatetypes.ActionListDevices,
		gatetypes.ActionGetDevice,
		gatetypes.ActionEvaluateRisk,
	},
	gatetypes.RoleManager: {
		// Everything a viewer can do, plus ledger management
		gatetypes.ActionViewReport,
		gatetypes.ActionViewStatistics,
		gatetypes.ActionListDevices,
		gatetypes.ActionGetDevice,
		gatetypes.ActionEvaluateRisk,
		gatetypes.ActionAddRecommendation,
		gatetypes.ActionApproveRecommendation,
	},
	gatetypes.RoleAdmin: {
		// All actions
		gatetypes.ActionViewReport,
		gatetypes.ActionViewStatistics,
		gatetypes.ActionListDevices,
		gatetypes.ActionGetDevice,
		gatetypes.ActionEvaluateRisk,
		gatetypes.ActionAddRecommendation,
		gatetypes.ActionApproveRecommendation,
		gatetypes.ActionAddDevice,
		gatetypes.ActionUpdateStatus,
		gatetypes.ActionUpdateFirmware,
	},
}

// IsAllowed reports whether the role grants the action. Unknown roles and
// unknown actions are denied; there is no default-allow path.
func IsAllowed(role gatetypes.Role, action gatetypes.Action) bool {
	actions, ok := roleActions[role]
	if !ok {
		return false
	}
	return slices.Contains(actions, action)
}

// AllowedActions returns the actions granted to a role, in matrix order.
// The returned slice is a copy.
func AllowedActions(role gatetypes.Role) []gatetypes.Action {
	actions, ok := roleActions[role]
	if !ok {
		return nil
	}
	return slices.Clone(actions)
}

// Authorizer checks actors against the role matrix and leaves an audit
// trail for every decision.
type Authorizer struct {
	auditLogger *audit.Logger
	stats       *audit.DecisionStatistics
}

// New creates an Authorizer that logs decisions through auditLogger and
// records outcomes in stats.
func New(auditLogger *audit.Logger, stats *audit.DecisionStatistics) *Authorizer {
	return &Authorizer{
		auditLogger: auditLogger,
		stats:       stats,
	}
}

// Authorize checks whether the actor may perform the action. Inactive
// actors are denied regardless of role. On denial the returned error wraps
// ErrPermissionDenied and carries the full decision context; the caller's
// state must remain untouched.
func (a *Authorizer) Authorize(ctx context.Context, actor gatetypes.Actor, action gatetypes.Action) error {
	var reason string
	switch {
	case !actor.Active:
		reason = "actor is inactive"
	case !IsAllowed(actor.Role, action):
		reason = fmt.Sprintf("role %s lacks permission", actor.Role)
	}

	allowed := reason == ""
	a.auditLogger.LogAuthzDecision(ctx, actor, action, allowed, reason)
	a.stats.RecordDecision(actor.Name, action, allowed)

	if !allowed {
		return gatetypes.NewPermissionDeniedError(actor.Name, actor.Role, action, reason)
	}
	return nil
}
