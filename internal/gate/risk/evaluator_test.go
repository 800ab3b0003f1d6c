package risk

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/isseis/go-iot-risk-gate/internal/gate/gatetypes"
)

func testPolicy(randomBound int) gatetypes.RiskPolicy {
	return gatetypes.RiskPolicy{
		TypeWeights: map[gatetypes.DeviceType]int{
			gatetypes.DeviceTypeSensor:   1,
			gatetypes.DeviceTypeActuator: 3,
			gatetypes.DeviceTypeCamera:   5,
			gatetypes.DeviceTypeGateway:  6,
		},
		CurrentFirmware:  "1.2.0",
		FirmwarePenalty:  3,
		StalenessWindow:  90 * 24 * time.Hour,
		StalenessPenalty: 2,
		RandomBound:      randomBound,
		HighThreshold:    8,
	}
}

var evalTime = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func device(t gatetypes.DeviceType, firmware string, lastUpdated time.Time) *gatetypes.Device {
	return &gatetypes.Device{
		ID:              "d1",
		Type:            t,
		FirmwareVersion: firmware,
		Status:          gatetypes.StatusActive,
		RegisteredAt:    lastUpdated,
		LastUpdatedAt:   lastUpdated,
	}
}

func TestPolicyEvaluator_EvaluateRisk_Deterministic(t *testing.T) {
	fresh := evalTime.Add(-24 * time.Hour)
	stale := evalTime.Add(-120 * 24 * time.Hour)

	tests := []struct {
		name          string
		device        *gatetypes.Device
		expectedScore int
		expectedLevel gatetypes.RiskLevel
	}{
		{
			name:          "current fresh sensor scores its base weight",
			device:        device(gatetypes.DeviceTypeSensor, "1.2.0", fresh),
			expectedScore: 1,
			expectedLevel: gatetypes.RiskLevelLow,
		},
		{
			name:          "camera with outdated firmware lands at the threshold",
			device:        device(gatetypes.DeviceTypeCamera, "1.0.0", fresh),
			expectedScore: 8,
			expectedLevel: gatetypes.RiskLevelLow,
		},
		{
			name:          "camera outdated and stale crosses the threshold",
			device:        device(gatetypes.DeviceTypeCamera, "1.0.0", stale),
			expectedScore: 10,
			expectedLevel: gatetypes.RiskLevelHigh,
		},
		{
			name:          "current fresh gateway stays low",
			device:        device(gatetypes.DeviceTypeGateway, "1.3.1", fresh),
			expectedScore: 6,
			expectedLevel: gatetypes.RiskLevelLow,
		},
		{
			name:          "stale gateway is at the threshold, not above",
			device:        device(gatetypes.DeviceTypeGateway, "1.2.0", stale),
			expectedScore: 8,
			expectedLevel: gatetypes.RiskLevelLow,
		},
		{
			name:          "gateway outdated and stale is high",
			device:        device(gatetypes.DeviceTypeGateway, "0.9.0", stale),
			expectedScore: 11,
			expectedLevel: gatetypes.RiskLevelHigh,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// random_bound 0 pins the perturbation to zero.
			evaluator, err := NewSeededPolicyEvaluator(testPolicy(0), 1)
			require.NoError(t, err)

			a, err := evaluator.EvaluateRisk(tt.device, evalTime)
			require.NoError(t, err)
			assert.Equal(t, tt.expectedScore, a.Score)
			assert.Equal(t, tt.expectedScore, a.DeterministicScore())
			assert.Zero(t, a.Perturbation)
			assert.Equal(t, tt.expectedLevel, a.Level)
		})
	}
}

func TestPolicyEvaluator_UnknownDeviceType(t *testing.T) {
	evaluator, err := NewSeededPolicyEvaluator(testPolicy(2), 1)
	require.NoError(t, err)

	d := device("toaster", "1.2.0", evalTime.Add(-time.Hour))
	a, err := evaluator.EvaluateRisk(d, evalTime)
	require.Error(t, err)
	assert.ErrorIs(t, err, gatetypes.ErrInvalidDeviceType)
	assert.Equal(t, gatetypes.RiskLevelUnknown, a.Level)
}

func TestPolicyEvaluator_ClockSkew(t *testing.T) {
	evaluator, err := NewSeededPolicyEvaluator(testPolicy(0), 1)
	require.NoError(t, err)

	// Device claims an update in the future; staleness must be zero,
	// not a crash or a huge negative duration artifact.
	d := device(gatetypes.DeviceTypeSensor, "1.2.0", evalTime.Add(365*24*time.Hour))
	a, err := evaluator.EvaluateRisk(d, evalTime)
	require.NoError(t, err)
	assert.Zero(t, a.StalenessPenalty)
	assert.Equal(t, 1, a.Score)
}

func TestPolicyEvaluator_UnparseableFirmware(t *testing.T) {
	evaluator, err := NewSeededPolicyEvaluator(testPolicy(0), 1)
	require.NoError(t, err)

	d := device(gatetypes.DeviceTypeSensor, "garbage!!", evalTime.Add(-time.Hour))
	a, err := evaluator.EvaluateRisk(d, evalTime)
	require.NoError(t, err)

	// Unparseable firmware counts as outdated.
	assert.Equal(t, 3, a.FirmwarePenalty)
	found := false
	for _, r := range a.Reasons {
		if strings.Contains(r, "not a valid version") {
			found = true
		}
	}
	assert.True(t, found, "expected an unparseable-firmware reason, got %v", a.Reasons)
}

func TestPolicyEvaluator_FirmwareAtOrAboveThreshold(t *testing.T) {
	evaluator, err := NewSeededPolicyEvaluator(testPolicy(0), 1)
	require.NoError(t, err)

	for _, fw := range []string{"1.2.0", "1.2.1", "2.0.0"} {
		d := device(gatetypes.DeviceTypeSensor, fw, evalTime.Add(-time.Hour))
		a, err := evaluator.EvaluateRisk(d, evalTime)
		require.NoError(t, err)
		assert.Zero(t, a.FirmwarePenalty, "firmware %s must not incur a penalty", fw)
	}
}

func TestPolicyEvaluator_PerturbationWithinBound(t *testing.T) {
	const bound = 2
	evaluator, err := NewSeededPolicyEvaluator(testPolicy(bound), 42)
	require.NoError(t, err)

	d := device(gatetypes.DeviceTypeCamera, "1.2.0", evalTime.Add(-time.Hour))
	for range 100 {
		a, err := evaluator.EvaluateRisk(d, evalTime)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, a.Perturbation, 0)
		assert.LessOrEqual(t, a.Perturbation, bound)
		assert.Equal(t, a.DeterministicScore()+a.Perturbation, a.Score)
		assert.Equal(t, 5, a.DeterministicScore())
	}
}

func TestPolicyEvaluator_SeedReproducibility(t *testing.T) {
	d := device(gatetypes.DeviceTypeCamera, "1.0.0", evalTime.Add(-120*24*time.Hour))

	first, err := NewSeededPolicyEvaluator(testPolicy(2), 7)
	require.NoError(t, err)
	second, err := NewSeededPolicyEvaluator(testPolicy(2), 7)
	require.NoError(t, err)

	for range 20 {
		a1, err1 := first.EvaluateRisk(d, evalTime)
		a2, err2 := second.EvaluateRisk(d, evalTime)
		require.NoError(t, err1)
		require.NoError(t, err2)
		assert.Equal(t, a1, a2)
	}
}

func TestPolicyEvaluator_HighRegardlessOfDraw(t *testing.T) {
	// Camera base 5, outdated firmware +3, 120 days stale +2: subtotal 10
	// is already above threshold 8, so any draw in [0, 2] classifies High.
	d := device(gatetypes.DeviceTypeCamera, "1.0.0", evalTime.Add(-120*24*time.Hour))

	evaluator, err := NewSeededPolicyEvaluator(testPolicy(2), 99)
	require.NoError(t, err)

	for range 50 {
		a, err := evaluator.EvaluateRisk(d, evalTime)
		require.NoError(t, err)
		assert.Equal(t, 10, a.DeterministicScore())
		assert.Equal(t, gatetypes.RiskLevelHigh, a.Level)
	}
}

func TestNewPolicyEvaluator_InvalidThreshold(t *testing.T) {
	p := testPolicy(2)
	p.CurrentFirmware = "not-a-version!!"

	_, err := NewPolicyEvaluator(p)
	require.Error(t, err)
	assert.ErrorIs(t, err, gatetypes.ErrInvalidFirmwareVersion)
}
