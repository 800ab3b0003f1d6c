// Package gate wires the registry, ledger, risk engine, authorizer and
// reporter into one context object. Every operation authorizes the acting
// session actor before touching state, so the capability table holds no
// matter which surface drives the gate. There are no package-level
// globals: all state lives in the Gate instance.
package gate

import (
	"context"
	"log/slog"
	"time"

	"github.com/isseis/go-iot-risk-gate/internal/gate/audit"
	"github.com/isseis/go-iot-risk-gate/internal/gate/authz"
	"github.com/isseis/go-iot-risk-gate/internal/gate/gatetypes"
	"github.com/isseis/go-iot-risk-gate/internal/gate/ledger"
	"github.com/isseis/go-iot-risk-gate/internal/gate/registry"
	"github.com/isseis/go-iot-risk-gate/internal/gate/report"
	"github.com/isseis/go-iot-risk-gate/internal/gate/risk"
)

// Options configures a Gate.
type Options struct {
	// Policy is the validated risk policy
	Policy gatetypes.RiskPolicy

	// Logger receives the audit trail
	Logger *slog.Logger

	// Seed pins the perturbation sequence when non-nil. Leave nil for
	// production use.
	Seed *uint64
}

// Gate owns all mutable state for one process: devices, recommendations and
// session statistics.
type Gate struct {
	policy     gatetypes.RiskPolicy
	registry   *registry.Registry
	ledger     *ledger.Ledger
	evaluator  risk.Evaluator
	authorizer *authz.Authorizer
	reporter   *report.Reporter
	audit      *audit.Logger
	stats      *audit.DecisionStatistics
}

// New creates a Gate with empty registry and ledger.
func New(opts Options) (*Gate, error) {
	var (
		evaluator risk.Evaluator
		err       error
	)
	if opts.Seed != nil {
		evaluator, err = risk.NewSeededPolicyEvaluator(opts.Policy, *opts.Seed)
	} else {
		evaluator, err = risk.NewPolicyEvaluator(opts.Policy)
	}
	if err != nil {
		return nil, err
	}

	auditLogger := audit.NewAuditLogger(opts.Logger)
	stats := audit.NewDecisionStatistics()
	reg := registry.New()
	led := ledger.New(reg)

	return &Gate{
		policy:     opts.Policy,
		registry:   reg,
		ledger:     led,
		evaluator:  evaluator,
		authorizer: authz.New(auditLogger, stats),
		reporter:   report.New(reg, led, evaluator),
		audit:      auditLogger,
		stats:      stats,
	}, nil
}

// Policy returns a copy of the active risk policy.
func (g *Gate) Policy() gatetypes.RiskPolicy {
	p := g.policy
	p.TypeWeights = make(map[gatetypes.DeviceType]int, len(g.policy.TypeWeights))
	for t, w := range g.policy.TypeWeights {
		p.TypeWeights[t] = w
	}
	return p
}

// Stats exposes the session's authorization statistics.
func (g *Gate) Stats() *audit.DecisionStatistics {
	return g.stats
}

// ListDevices returns all devices in registration order.
func (g *Gate) ListDevices(ctx context.Context, actor gatetypes.Actor) ([]gatetypes.Device, error) {
	if err := g.authorizer.Authorize(ctx, actor, gatetypes.ActionListDevices); err != nil {
		return nil, err
	}
	return g.registry.List(), nil
}

// GetDevice returns one device by ID.
func (g *Gate) GetDevice(ctx context.Context, actor gatetypes.Actor, id string) (gatetypes.Device, error) {
	if err := g.authorizer.Authorize(ctx, actor, gatetypes.ActionGetDevice); err != nil {
		return gatetypes.Device{}, err
	}
	return g.registry.Get(id)
}

// AddDevice registers a new device.
func (g *Gate) AddDevice(ctx context.Context, actor gatetypes.Actor, id string, deviceType gatetypes.DeviceType, firmware string, now time.Time) (gatetypes.Device, error) {
	if err := g.authorizer.Authorize(ctx, actor, gatetypes.ActionAddDevice); err != nil {
		return gatetypes.Device{}, err
	}

	dev, err := g.registry.AddDevice(id, deviceType, firmware, now)
	if err != nil {
		return gatetypes.Device{}, err
	}

	g.audit.LogDeviceMutation(ctx, actor, string(gatetypes.ActionAddDevice), &dev)
	return dev, nil
}

// UpdateStatus transitions a device's status.
func (g *Gate) UpdateStatus(ctx context.Context, actor gatetypes.Actor, id string, status gatetypes.DeviceStatus) (gatetypes.Device, error) {
	if err := g.authorizer.Authorize(ctx, actor, gatetypes.ActionUpdateStatus); err != nil {
		return gatetypes.Device{}, err
	}

	dev, err := g.registry.UpdateStatus(id, status)
	if err != nil {
		return gatetypes.Device{}, err
	}

	g.audit.LogDeviceMutation(ctx, actor, string(gatetypes.ActionUpdateStatus), &dev)
	return dev, nil
}

// UpdateFirmware records a device firmware change and stamps the update time.
func (g *Gate) UpdateFirmware(ctx context.Context, actor gatetypes.Actor, id string, firmware string, now time.Time) (gatetypes.Device, error) {
	if err := g.authorizer.Authorize(ctx, actor, gatetypes.ActionUpdateFirmware); err != nil {
		return gatetypes.Device{}, err
	}

	dev, err := g.registry.UpdateFirmware(id, firmware, now)
	if err != nil {
		return gatetypes.Device{}, err
	}

	g.audit.LogDeviceMutation(ctx, actor, string(gatetypes.ActionUpdateFirmware), &dev)
	return dev, nil
}

// EvaluateRisk scores one device at now.
func (g *Gate) EvaluateRisk(ctx context.Context, actor gatetypes.Actor, id string, now time.Time) (gatetypes.RiskAssessment, error) {
	if err := g.authorizer.Authorize(ctx, actor, gatetypes.ActionEvaluateRisk); err != nil {
		return gatetypes.RiskAssessment{}, err
	}

	dev, err := g.registry.Get(id)
	if err != nil {
		return gatetypes.RiskAssessment{}, err
	}

	assessment, err := g.evaluator.EvaluateRisk(&dev, now)
	if err != nil {
		return gatetypes.RiskAssessment{}, err
	}

	g.audit.LogRiskEvaluation(ctx, actor, id, assessment)
	return assessment, nil
}

// AddRecommendation appends a security recommendation for a device.
func (g *Gate) AddRecommendation(ctx context.Context, actor gatetypes.Actor, deviceID, text string, now time.Time) (gatetypes.Recommendation, error) {
	if err := g.authorizer.Authorize(ctx, actor, gatetypes.ActionAddRecommendation); err != nil {
		return gatetypes.Recommendation{}, err
	}

	rec, err := g.ledger.Add(deviceID, text, now)
	if err != nil {
		return gatetypes.Recommendation{}, err
	}

	g.audit.LogRecommendationEvent(ctx, actor, "added", &rec)
	return rec, nil
}

// ApproveRecommendation marks a recommendation approved by the actor.
func (g *Gate) ApproveRecommendation(ctx context.Context, actor gatetypes.Actor, recommendationID string) (gatetypes.Recommendation, error) {
	if err := g.authorizer.Authorize(ctx, actor, gatetypes.ActionApproveRecommendation); err != nil {
		return gatetypes.Recommendation{}, err
	}

	rec, err := g.ledger.Approve(recommendationID, actor.Name)
	if err != nil {
		return gatetypes.Recommendation{}, err
	}

	g.audit.LogRecommendationEvent(ctx, actor, "approved", &rec)
	return rec, nil
}

// StatusCounts returns the device count per status.
func (g *Gate) StatusCounts(ctx context.Context, actor gatetypes.Actor) (map[gatetypes.DeviceStatus]int, error) {
	if err := g.authorizer.Authorize(ctx, actor, gatetypes.ActionViewStatistics); err != nil {
		return nil, err
	}
	return g.reporter.StatusCounts(), nil
}

// RiskCounts evaluates every device at now and returns the count per level.
func (g *Gate) RiskCounts(ctx context.Context, actor gatetypes.Actor, now time.Time) (map[gatetypes.RiskLevel]int, error) {
	if err := g.authorizer.Authorize(ctx, actor, gatetypes.ActionViewStatistics); err != nil {
		return nil, err
	}
	return g.reporter.RiskCounts(now)
}

// FullReport returns one row per device with a fresh assessment and the
// device's recommendations.
func (g *Gate) FullReport(ctx context.Context, actor gatetypes.Actor, now time.Time) ([]report.Row, error) {
	if err := g.authorizer.Authorize(ctx, actor, gatetypes.ActionViewReport); err != nil {
		return nil, err
	}
	return g.reporter.FullReport(now)
}
