// Package audit provides structured audit logging for gated operations.
// Every authorization decision, registry mutation, approval and risk
// evaluation passes through here so a session leaves a complete trail.
package audit

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/isseis/go-iot-risk-gate/internal/gate/gatetypes"
)

// Logger provides structured audit logging functionality
type Logger struct {
	logger *slog.Logger
}

// NewAuditLogger creates a new audit logger instance
func NewAuditLogger(logger *slog.Logger) *Logger {
	return &Logger{logger: logger}
}

// LogAuthzDecision logs the outcome of an authorization check. Denials are
// logged at warning level so they stand out in the trail; the session itself
// continues.
func (a *Logger) LogAuthzDecision(
	_ context.Context,
	actor gatetypes.Actor,
	action gatetypes.Action,
	allowed bool,
	reason string,
) {
	attrs := []slog.Attr{
		slog.String("audit_type", "authz_decision"),
		slog.Int64("timestamp", time.Now().Unix()),
		slog.String("actor", actor.Name),
		slog.String("role", string(actor.Role)),
		slog.String("action", string(action)),
		slog.Bool("allowed", allowed),
	}
	if reason != "" {
		attrs = append(attrs, slog.String("reason", reason))
	}

	if allowed {
		a.logger.LogAttrs(context.Background(), slog.LevelInfo, "Action authorized", attrs...)
	} else {
		a.logger.LogAttrs(context.Background(), slog.LevelWarn, "Action denied", attrs...)
	}
}

// LogDeviceMutation logs a registry mutation with the resulting device state.
func (a *Logger) LogDeviceMutation(
	_ context.Context,
	actor gatetypes.Actor,
	operation string,
	device *gatetypes.Device,
) {
	attrs := []slog.Attr{
		slog.String("audit_type", "device_mutation"),
		slog.Int64("timestamp", time.Now().Unix()),
		slog.String("actor", actor.Name),
		slog.String("role", string(actor.Role)),
		slog.String("operation", operation),
		slog.String("device_id", device.ID),
		slog.String("device_type", string(device.Type)),
		slog.String("status", string(device.Status)),
		slog.String("firmware", device.FirmwareVersion),
	}

	a.logger.LogAttrs(context.Background(), slog.LevelInfo, "Device mutated", attrs...)
}

// LogRecommendationEvent logs ledger activity: a recommendation being added
// or approved.
func (a *Logger) LogRecommendationEvent(
	_ context.Context,
	actor gatetypes.Actor,
	event string,
	rec *gatetypes.Recommendation,
) {
	attrs := []slog.Attr{
		slog.String("audit_type", "recommendation_event"),
		slog.Int64("timestamp", time.Now().Unix()),
		slog.String("actor", actor.Name),
		slog.String("role", string(actor.Role)),
		slog.String("event", event),
		slog.String("recommendation_id", rec.ID),
		slog.String("device_id", rec.DeviceID),
		slog.Bool("approved", rec.Approved),
	}
	if rec.ApprovedBy != "" {
		attrs = append(attrs, slog.String("approved_by", rec.ApprovedBy))
	}

	a.logger.LogAttrs(context.Background(), slog.LevelInfo, "Recommendation "+event, attrs...)
}

// LogRiskEvaluation logs a risk evaluation outcome including the scoring
// breakdown, so high classifications can be traced to their causes later.
func (a *Logger) LogRiskEvaluation(
	_ context.Context,
	actor gatetypes.Actor,
	deviceID string,
	assessment gatetypes.RiskAssessment,
) {
	attrs := []slog.Attr{
		slog.String("audit_type", "risk_evaluation"),
		slog.Int64("timestamp", time.Now().Unix()),
		slog.String("actor", actor.Name),
		slog.String("role", string(actor.Role)),
		slog.String("device_id", deviceID),
		slog.String("risk_level", assessment.Level.String()),
		slog.Int("score", assessment.Score),
		slog.Int("deterministic_score", assessment.DeterministicScore()),
		slog.String("reasons", strings.Join(assessment.Reasons, "; ")),
	}

	if assessment.Level == gatetypes.RiskLevelHigh {
		a.logger.LogAttrs(context.Background(), slog.LevelWarn, "Device classified high risk", attrs...)
	} else {
		a.logger.LogAttrs(context.Background(), slog.LevelInfo, "Device risk evaluated", attrs...)
	}
}
