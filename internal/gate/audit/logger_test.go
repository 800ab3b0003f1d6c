package audit_test

import (
	"bytes"
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/isseis/go-iot-risk-gate/internal/gate/audit"
	"github.com/isseis/go-iot-risk-gate/internal/gate/gatetypes"
)

func TestNewAuditLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))

	auditLogger := audit.NewAuditLogger(logger)
	assert.NotNil(t, auditLogger)
}

func TestLogger_LogAuthzDecision(t *testing.T) {
	tests := []struct {
		name         string
		allowed      bool
		reason       string
		expectLogMsg string
		expectLevel  string
	}{
		{
			name:         "allowed action",
			allowed:      true,
			expectLogMsg: "Action authorized",
			expectLevel:  "INFO",
		},
		{
			name:         "denied action",
			allowed:      false,
			reason:       "role viewer lacks permission",
			expectLogMsg: "Action denied",
			expectLevel:  "WARN",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			logger := slog.New(slog.NewJSONHandler(&buf, nil))
			auditLogger := audit.NewAuditLogger(logger)

			actor := gatetypes.Actor{Name: "carol", Role: gatetypes.RoleViewer, Active: true}
			auditLogger.LogAuthzDecision(context.Background(), actor, gatetypes.ActionAddDevice, tt.allowed, tt.reason)

			logOutput := buf.String()
			assert.Contains(t, logOutput, tt.expectLogMsg)
			assert.Contains(t, logOutput, "authz_decision")
			assert.Contains(t, logOutput, "carol")
			assert.Contains(t, logOutput, "add_device")
			assert.Contains(t, logOutput, tt.expectLevel)
			if tt.reason != "" {
				assert.Contains(t, logOutput, tt.reason)
			}
		})
	}
}

func TestLogger_LogDeviceMutation(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))
	auditLogger := audit.NewAuditLogger(logger)

	actor := gatetypes.Actor{Name: "alice", Role: gatetypes.RoleAdmin, Active: true}
	dev := &gatetypes.Device{
		ID:              "cam-01",
		Type:            gatetypes.DeviceTypeCamera,
		FirmwareVersion: "1.1.0",
		Status:          gatetypes.StatusActive,
	}

	auditLogger.LogDeviceMutation(context.Background(), actor, "add_device", dev)

	logOutput := buf.String()
	assert.Contains(t, logOutput, "Device mutated")
	assert.Contains(t, logOutput, "device_mutation")
	assert.Contains(t, logOutput, "cam-01")
	assert.Contains(t, logOutput, "camera")
	assert.Contains(t, logOutput, "alice")
}

func TestLogger_LogRecommendationEvent(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))
	auditLogger := audit.NewAuditLogger(logger)

	actor := gatetypes.Actor{Name: "bob", Role: gatetypes.RoleManager, Active: true}
	rec := &gatetypes.Recommendation{
		ID:         "rec-1",
		DeviceID:   "cam-01",
		Text:       "rotate credentials",
		Approved:   true,
		ApprovedBy: "bob",
		CreatedAt:  time.Now(),
	}

	auditLogger.LogRecommendationEvent(context.Background(), actor, "approved", rec)

	logOutput := buf.String()
	assert.Contains(t, logOutput, "Recommendation approved")
	assert.Contains(t, logOutput, "recommendation_event")
	assert.Contains(t, logOutput, "rec-1")
	assert.Contains(t, logOutput, "approved_by")
}

func TestLogger_LogRiskEvaluation(t *testing.T) {
	tests := []struct {
		name         string
		level        gatetypes.RiskLevel
		expectLogMsg string
		expectLevel  string
	}{
		{
			name:         "low risk logs info",
			level:        gatetypes.RiskLevelLow,
			expectLogMsg: "Device risk evaluated",
			expectLevel:  "INFO",
		},
		{
			name:         "high risk logs warning",
			level:        gatetypes.RiskLevelHigh,
			expectLogMsg: "Device classified high risk",
			expectLevel:  "WARN",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			logger := slog.New(slog.NewJSONHandler(&buf, nil))
			auditLogger := audit.NewAuditLogger(logger)

			actor := gatetypes.Actor{Name: "carol", Role: gatetypes.RoleViewer, Active: true}
			assessment := gatetypes.RiskAssessment{
				Level:   tt.level,
				Score:   9,
				Base:    5,
				Reasons: []string{"base weight for camera: 5"},
			}

			auditLogger.LogRiskEvaluation(context.Background(), actor, "cam-01", assessment)

			logOutput := buf.String()
			assert.Contains(t, logOutput, tt.expectLogMsg)
			assert.Contains(t, logOutput, "risk_evaluation")
			assert.Contains(t, logOutput, "cam-01")
			assert.Contains(t, logOutput, tt.expectLevel)
		})
	}
}
