// Package report computes point-in-time views over the registry and ledger.
// Risk figures are snapshots: the engine is invoked per device at report
// time, so two consecutive reports may differ because of elapsed time and
// the perturbation term. Nothing here caches or stores risk levels.
package report

import (
	"fmt"
	"time"

	"github.com/isseis/go-iot-risk-gate/internal/gate/gatetypes"
	"github.com/isseis/go-iot-risk-gate/internal/gate/risk"
)

// DeviceSource yields the devices to report over, in registry order.
type DeviceSource interface {
	List() []gatetypes.Device
}

// RecommendationSource yields the ledger entries for a device.
type RecommendationSource interface {
	ListForDevice(deviceID string) []gatetypes.Recommendation
}

// Row pairs a device with its point-in-time risk assessment and its
// recommendation trail.
type Row struct {
	Device          gatetypes.Device
	Assessment      gatetypes.RiskAssessment
	Recommendations []gatetypes.Recommendation
}

// Reporter builds status, risk and full reports.
type Reporter struct {
	devices   DeviceSource
	recs      RecommendationSource
	evaluator risk.Evaluator
}

// New creates a Reporter over the given sources.
func New(devices DeviceSource, recs RecommendationSource, evaluator risk.Evaluator) *Reporter {
	return &Reporter{
		devices:   devices,
		recs:      recs,
		evaluator: evaluator,
	}
}

// StatusCounts returns the device count per status. Every registered device
// is counted exactly once, so the totals always equal the registry size.
func (r *Reporter) StatusCounts() map[gatetypes.DeviceStatus]int {
	counts := make(map[gatetypes.DeviceStatus]int)
	for _, dev := range r.devices.List() {
		counts[dev.Status]++
	}
	return counts
}

// RiskCounts evaluates every device at now and returns the count per risk
// level. Evaluation failures abort the report; they indicate a policy that
// does not cover a registered device type.
func (r *Reporter) RiskCounts(now time.Time) (map[gatetypes.RiskLevel]int, error) {
	counts := make(map[gatetypes.RiskLevel]int)
	for _, dev := range r.devices.List() {
		assessment, err := r.evaluator.EvaluateRisk(&dev, now)
		if err != nil {
			return nil, fmt.Errorf("evaluating device %q: %w", dev.ID, err)
		}
		counts[assessment.Level]++
	}
	return counts, nil
}

// FullReport returns one row per device in registry order, each with a fresh
// risk assessment and the device's recommendations.
func (r *Reporter) FullReport(now time.Time) ([]Row, error) {
	devices := r.devices.List()
	rows := make([]Row, 0, len(devices))

	for _, dev := range devices {
		assessment, err := r.evaluator.EvaluateRisk(&dev, now)
		if err != nil {
			return nil, fmt.Errorf("evaluating device %q: %w", dev.ID, err)
		}
		rows = append(rows, Row{
			Device:          dev,
			Assessment:      assessment,
			Recommendations: r.recs.ListForDevice(dev.ID),
		})
	}

	return rows, nil
}
