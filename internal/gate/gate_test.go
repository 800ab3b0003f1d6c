package gate_test

import (
	"bytes"
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/isseis/go-iot-risk-gate/internal/gate"
	"github.com/isseis/go-iot-risk-gate/internal/gate/gatetypes"
)

var (
	gateTime = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	admin   = gatetypes.Actor{Name: "alice", Role: gatetypes.RoleAdmin, Active: true}
	manager = gatetypes.Actor{Name: "bob", Role: gatetypes.RoleManager, Active: true}
	viewer  = gatetypes.Actor{Name: "carol", Role: gatetypes.RoleViewer, Active: true}
)

func gatePolicy() gatetypes.RiskPolicy {
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
		RandomBound:      2,
		HighThreshold:    8,
	}
}

func newTestGate(t *testing.T) (*gate.Gate, *bytes.Buffer) {
	t.Helper()

	var buf bytes.Buffer
	seed := uint64(1)
	g, err := gate.New(gate.Options{
		Policy: gatePolicy(),
		Logger: slog.New(slog.NewJSONHandler(&buf, nil)),
		Seed:   &seed,
	})
	require.NoError(t, err)
	return g, &buf
}

func TestGate_ViewerCannotAddDevice(t *testing.T) {
	g, buf := newTestGate(t)
	ctx := context.Background()

	_, err := g.AddDevice(ctx, viewer, "cam-01", gatetypes.DeviceTypeCamera, "1.0.0", gateTime)
	require.Error(t, err)
	assert.True(t, gatetypes.IsPermissionDenied(err))

	// The denial must not leave a device behind.
	devices, err := g.ListDevices(ctx, admin)
	require.NoError(t, err)
	assert.Empty(t, devices)

	assert.Contains(t, buf.String(), "Action denied")
}

func TestGate_AdminDeviceLifecycle(t *testing.T) {
	g, _ := newTestGate(t)
	ctx := context.Background()

	dev, err := g.AddDevice(ctx, admin, "cam-01", gatetypes.DeviceTypeCamera, "1.0.0", gateTime)
	require.NoError(t, err)
	assert.Equal(t, gatetypes.StatusActive, dev.Status)

	_, err = g.AddDevice(ctx, admin, "gw-01", gatetypes.DeviceTypeGateway, "1.2.0", gateTime.Add(time.Minute))
	require.NoError(t, err)

	got, err := g.GetDevice(ctx, viewer, "cam-01")
	require.NoError(t, err)
	assert.Equal(t, "cam-01", got.ID)

	devices, err := g.ListDevices(ctx, viewer)
	require.NoError(t, err)
	require.Len(t, devices, 2)
	assert.Equal(t, "cam-01", devices[0].ID)
	assert.Equal(t, "gw-01", devices[1].ID)

	dev, err = g.UpdateStatus(ctx, admin, "cam-01", gatetypes.StatusMaintenance)
	require.NoError(t, err)
	assert.Equal(t, gatetypes.StatusMaintenance, dev.Status)
	assert.Equal(t, gateTime, dev.LastUpdatedAt)

	later := gateTime.Add(2 * time.Hour)
	dev, err = g.UpdateFirmware(ctx, admin, "cam-01", "1.2.0", later)
	require.NoError(t, err)
	assert.Equal(t, "1.2.0", dev.FirmwareVersion)
	assert.Equal(t, later, dev.LastUpdatedAt)
}

func TestGate_ManagerCannotMutateDevices(t *testing.T) {
	g, _ := newTestGate(t)
	ctx := context.Background()

	_, err := g.AddDevice(ctx, admin, "cam-01", gatetypes.DeviceTypeCamera, "1.0.0", gateTime)
	require.NoError(t, err)

	_, err = g.UpdateStatus(ctx, manager, "cam-01", gatetypes.StatusInactive)
	assert.True(t, gatetypes.IsPermissionDenied(err))

	_, err = g.UpdateFirmware(ctx, manager, "cam-01", "2.0.0", gateTime)
	assert.True(t, gatetypes.IsPermissionDenied(err))

	// Device unchanged after the denials.
	dev, err := g.GetDevice(ctx, manager, "cam-01")
	require.NoError(t, err)
	assert.Equal(t, gatetypes.StatusActive, dev.Status)
	assert.Equal(t, "1.0.0", dev.FirmwareVersion)
}

func TestGate_RecommendationApprovalFlow(t *testing.T) {
	g, _ := newTestGate(t)
	ctx := context.Background()

	_, err := g.AddDevice(ctx, admin, "cam-01", gatetypes.DeviceTypeCamera, "1.0.0", gateTime)
	require.NoError(t, err)

	rec, err := g.AddRecommendation(ctx, manager, "cam-01", "rotate credentials", gateTime)
	require.NoError(t, err)
	assert.False(t, rec.Approved)

	approved, err := g.ApproveRecommendation(ctx, manager, rec.ID)
	require.NoError(t, err)
	assert.True(t, approved.Approved)
	assert.Equal(t, "bob", approved.ApprovedBy)

	// Second approval surfaces the duplicate instead of succeeding.
	_, err = g.ApproveRecommendation(ctx, manager, rec.ID)
	require.Error(t, err)
	assert.ErrorIs(t, err, gatetypes.ErrAlreadyApproved)
}

func TestGate_AdminCanApproveToo(t *testing.T) {
	g, _ := newTestGate(t)
	ctx := context.Background()

	_, err := g.AddDevice(ctx, admin, "cam-01", gatetypes.DeviceTypeCamera, "1.0.0", gateTime)
	require.NoError(t, err)

	rec, err := g.AddRecommendation(ctx, admin, "cam-01", "patch firmware", gateTime)
	require.NoError(t, err)

	approved, err := g.ApproveRecommendation(ctx, admin, rec.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice", approved.ApprovedBy)
}

func TestGate_ViewerCannotTouchLedger(t *testing.T) {
	g, _ := newTestGate(t)
	ctx := context.Background()

	_, err := g.AddDevice(ctx, admin, "cam-01", gatetypes.DeviceTypeCamera, "1.0.0", gateTime)
	require.NoError(t, err)

	_, err = g.AddRecommendation(ctx, viewer, "cam-01", "rotate credentials", gateTime)
	assert.True(t, gatetypes.IsPermissionDenied(err))

	_, err = g.ApproveRecommendation(ctx, viewer, "any-id")
	assert.True(t, gatetypes.IsPermissionDenied(err))
}

func TestGate_RecommendationForUnknownDevice(t *testing.T) {
	g, _ := newTestGate(t)
	ctx := context.Background()

	_, err := g.AddRecommendation(ctx, manager, "ghost", "rotate credentials", gateTime)
	require.Error(t, err)
	assert.ErrorIs(t, err, gatetypes.ErrDeviceNotFound)
}

func TestGate_InactiveActorDeniedEverywhere(t *testing.T) {
	g, _ := newTestGate(t)
	ctx := context.Background()

	inactive := gatetypes.Actor{Name: "mallory", Role: gatetypes.RoleAdmin, Active: false}

	_, err := g.ListDevices(ctx, inactive)
	assert.True(t, gatetypes.IsPermissionDenied(err))

	_, err = g.AddDevice(ctx, inactive, "cam-01", gatetypes.DeviceTypeCamera, "1.0.0", gateTime)
	assert.True(t, gatetypes.IsPermissionDenied(err))

	_, err = g.FullReport(ctx, inactive, gateTime)
	assert.True(t, gatetypes.IsPermissionDenied(err))
}

func TestGate_EvaluateRisk(t *testing.T) {
	g, buf := newTestGate(t)
	ctx := context.Background()

	// Registered 120 days before evaluation with outdated firmware:
	// 5 + 3 + 2 = 10 > 8, High for any draw in [0, 2].
	registered := gateTime.Add(-120 * 24 * time.Hour)
	_, err := g.AddDevice(ctx, admin, "cam-01", gatetypes.DeviceTypeCamera, "1.0.0", registered)
	require.NoError(t, err)

	for range 20 {
		a, err := g.EvaluateRisk(ctx, viewer, "cam-01", gateTime)
		require.NoError(t, err)
		assert.Equal(t, 10, a.DeterministicScore())
		assert.Equal(t, gatetypes.RiskLevelHigh, a.Level)
	}

	assert.Contains(t, buf.String(), "Device classified high risk")
}

func TestGate_EvaluateRisk_UnknownDevice(t *testing.T) {
	g, _ := newTestGate(t)
	ctx := context.Background()

	_, err := g.EvaluateRisk(ctx, viewer, "ghost", gateTime)
	require.Error(t, err)
	assert.ErrorIs(t, err, gatetypes.ErrDeviceNotFound)
}

func TestGate_ReportTotalsMatchRegistry(t *testing.T) {
	g, _ := newTestGate(t)
	ctx := context.Background()

	ids := []string{"cam-01", "gw-01", "sensor-01"}
	types := []gatetypes.DeviceType{
		gatetypes.DeviceTypeCamera,
		gatetypes.DeviceTypeGateway,
		gatetypes.DeviceTypeSensor,
	}
	for i, id := range ids {
		_, err := g.AddDevice(ctx, admin, id, types[i], "1.2.0", gateTime)
		require.NoError(t, err)
	}
	_, err := g.UpdateStatus(ctx, admin, "gw-01", gatetypes.StatusMaintenance)
	require.NoError(t, err)

	statusCounts, err := g.StatusCounts(ctx, viewer)
	require.NoError(t, err)
	statusTotal := 0
	for _, c := range statusCounts {
		statusTotal += c
	}
	assert.Equal(t, len(ids), statusTotal)
	assert.Equal(t, 2, statusCounts[gatetypes.StatusActive])
	assert.Equal(t, 1, statusCounts[gatetypes.StatusMaintenance])

	riskCounts, err := g.RiskCounts(ctx, viewer, gateTime)
	require.NoError(t, err)
	riskTotal := 0
	for _, c := range riskCounts {
		riskTotal += c
	}
	assert.Equal(t, len(ids), riskTotal)

	rows, err := g.FullReport(ctx, viewer, gateTime)
	require.NoError(t, err)
	assert.Len(t, rows, len(ids))
}

func TestGate_FullReportCarriesRecommendations(t *testing.T) {
	g, _ := newTestGate(t)
	ctx := context.Background()

	_, err := g.AddDevice(ctx, admin, "cam-01", gatetypes.DeviceTypeCamera, "1.0.0", gateTime)
	require.NoError(t, err)
	rec, err := g.AddRecommendation(ctx, manager, "cam-01", "rotate credentials", gateTime)
	require.NoError(t, err)

	rows, err := g.FullReport(ctx, viewer, gateTime)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	require.Len(t, rows[0].Recommendations, 1)
	assert.Equal(t, rec.ID, rows[0].Recommendations[0].ID)
}

func TestGate_StatsTrackDenials(t *testing.T) {
	g, _ := newTestGate(t)
	ctx := context.Background()

	_, _ = g.AddDevice(ctx, viewer, "cam-01", gatetypes.DeviceTypeCamera, "1.0.0", gateTime)
	_, _ = g.AddDevice(ctx, viewer, "cam-02", gatetypes.DeviceTypeCamera, "1.0.0", gateTime)
	_, err := g.ListDevices(ctx, viewer)
	require.NoError(t, err)

	stats := g.Stats()
	assert.Equal(t, 3, stats.TotalChecks())
	assert.Equal(t, 2, stats.TotalDenied())
	assert.Equal(t, []string{"carol"}, stats.GetDeniedActors())
}

func TestGate_PolicyReturnsIsolatedCopy(t *testing.T) {
	g, _ := newTestGate(t)
	ctx := context.Background()

	p := g.Policy()
	p.TypeWeights[gatetypes.DeviceTypeSensor] = 100

	registered := gateTime.Add(-time.Hour)
	_, err := g.AddDevice(ctx, admin, "sensor-01", gatetypes.DeviceTypeSensor, "1.2.0", registered)
	require.NoError(t, err)

	// The gate still scores with the original weight table.
	a, err := g.EvaluateRisk(ctx, viewer, "sensor-01", gateTime)
	require.NoError(t, err)
	assert.Equal(t, 1, a.Base)
}
