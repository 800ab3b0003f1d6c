package shell

import (
	"context"
	"fmt"
	"strings"

	"github.com/isseis/go-iot-risk-gate/internal/gate/gatetypes"
)

const timeLayout = "2006-01-02 15:04"

// command describes one console verb.
type command struct {
	name    string
	aliases []string
	usage   string
	summary string
	minArgs int
	maxArgs int // -1 allows trailing free text
	quit    bool
	run     func(ctx context.Context, s *Shell, args []string) error
}

// commands returns the verb table in help order.
func commands() []command {
	return []command{
		{
			name:    "list-devices",
			usage:   "list-devices",
			summary: "List registered devices in insertion order",
			run:     runListDevices,
		},
		{
			name:    "add-device",
			usage:   "add-device <id> <type> <firmware>",
			summary: "Register a device (type: sensor, actuator, camera, gateway)",
			minArgs: 3,
			maxArgs: 3,
			run:     runAddDevice,
		},
		{
			name:    "evaluate",
			usage:   "evaluate <device-id>",
			summary: "Score one device against the risk policy",
			minArgs: 1,
			maxArgs: 1,
			run:     runEvaluate,
		},
		{
			name:    "set-status",
			usage:   "set-status <device-id> <status>",
			summary: "Change a device status (active, inactive, maintenance)",
			minArgs: 2,
			maxArgs: 2,
			run:     runSetStatus,
		},
		{
			name:    "update-firmware",
			usage:   "update-firmware <device-id> <version>",
			summary: "Record a firmware update and stamp the update time",
			minArgs: 2,
			maxArgs: 2,
			run:     runUpdateFirmware,
		},
		{
			name:    "recommend",
			usage:   "recommend <device-id> <text...>",
			summary: "Attach a security recommendation to a device",
			minArgs: 2,
			maxArgs: -1,
			run:     runRecommend,
		},
		{
			name:    "approve",
			usage:   "approve <recommendation-id>",
			summary: "Approve a pending recommendation",
			minArgs: 1,
			maxArgs: 1,
			run:     runApprove,
		},
		{
			name:    "status-counts",
			usage:   "status-counts",
			summary: "Count devices per status",
			run:     runStatusCounts,
		},
		{
			name:    "risk-counts",
			usage:   "risk-counts",
			summary: "Evaluate the fleet and count devices per risk level",
			run:     runRiskCounts,
		},
		{
			name:    "report",
			usage:   "report",
			summary: "Print the full per-device report with fresh assessments",
			run:     runReport,
		},
		{
			name:    "stats",
			usage:   "stats",
			summary: "Show this session's authorization statistics",
			run:     runStats,
		},
		{
			name:    "help",
			usage:   "help",
			summary: "Show this command list",
			run:     runHelp,
		},
		{
			name:    "quit",
			aliases: []string{"exit"},
			usage:   "quit",
			summary: "End the session",
			quit:    true,
		},
	}
}

func runListDevices(ctx context.Context, s *Shell, _ []string) error {
	devices, err := s.gate.ListDevices(ctx, s.actor)
	if err != nil {
		return err
	}

	if len(devices) == 0 {
		fmt.Fprintln(s.out, "no devices registered")
		return nil
	}

	fmt.Fprintf(s.out, "%-22s %-10s %-12s %-13s %s\n", "ID", "TYPE", "FIRMWARE", "STATUS", "REGISTERED")
	for _, dev := range devices {
		fmt.Fprintf(s.out, "%-22s %-10s %-12s %s %s\n",
			dev.ID,
			dev.Type,
			dev.FirmwareVersion,
			s.colors.statusCell(dev.Status, 13),
			dev.RegisteredAt.Format(timeLayout),
		)
	}
	fmt.Fprintf(s.out, "(%d devices)\n", len(devices))
	return nil
}

func runAddDevice(ctx context.Context, s *Shell, args []string) error {
	deviceType, err := gatetypes.ParseDeviceType(args[1])
	if err != nil {
		return err
	}

	dev, err := s.gate.AddDevice(ctx, s.actor, args[0], deviceType, args[2], s.clock())
	if err != nil {
		return err
	}

	fmt.Fprintf(s.out, "registered %s (%s, firmware %s)\n", dev.ID, dev.Type, dev.FirmwareVersion)
	return nil
}

func runEvaluate(ctx context.Context, s *Shell, args []string) error {
	assessment, err := s.gate.EvaluateRisk(ctx, s.actor, args[0], s.clock())
	if err != nil {
		return err
	}

	fmt.Fprintf(s.out, "%s: %s (score %d)\n", args[0], s.colors.risk(assessment.Level), assessment.Score)
	for _, reason := range assessment.Reasons {
		fmt.Fprintf(s.out, "  %s\n", reason)
	}
	return nil
}

func runSetStatus(ctx context.Context, s *Shell, args []string) error {
	status, err := gatetypes.ParseDeviceStatus(args[1])
	if err != nil {
		return err
	}

	dev, err := s.gate.UpdateStatus(ctx, s.actor, args[0], status)
	if err != nil {
		return err
	}

	fmt.Fprintf(s.out, "%s status set to %s\n", dev.ID, s.colors.status(dev.Status))
	return nil
}

func runUpdateFirmware(ctx context.Context, s *Shell, args []string) error {
	dev, err := s.gate.UpdateFirmware(ctx, s.actor, args[0], args[1], s.clock())
	if err != nil {
		return err
	}

	fmt.Fprintf(s.out, "%s firmware updated to %s\n", dev.ID, dev.FirmwareVersion)
	return nil
}

func runRecommend(ctx context.Context, s *Shell, args []string) error {
	text := strings.Join(args[1:], " ")

	rec, err := s.gate.AddRecommendation(ctx, s.actor, args[0], text, s.clock())
	if err != nil {
		return err
	}

	fmt.Fprintf(s.out, "recommendation %s added for %s\n", rec.ID, rec.DeviceID)
	return nil
}

func runApprove(ctx context.Context, s *Shell, args []string) error {
	rec, err := s.gate.ApproveRecommendation(ctx, s.actor, args[0])
	if err != nil {
		return err
	}

	fmt.Fprintf(s.out, "recommendation %s approved by %s\n", rec.ID, rec.ApprovedBy)
	return nil
}

func runStatusCounts(ctx context.Context, s *Shell, _ []string) error {
	counts, err := s.gate.StatusCounts(ctx, s.actor)
	if err != nil {
		return err
	}

	total := 0
	for _, status := range gatetypes.DeviceStatuses() {
		fmt.Fprintf(s.out, "%s: %d\n", s.colors.status(status), counts[status])
		total += counts[status]
	}
	fmt.Fprintf(s.out, "total: %d\n", total)
	return nil
}

func runRiskCounts(ctx context.Context, s *Shell, _ []string) error {
	counts, err := s.gate.RiskCounts(ctx, s.actor, s.clock())
	if err != nil {
		return err
	}

	total := 0
	for _, level := range []gatetypes.RiskLevel{gatetypes.RiskLevelLow, gatetypes.RiskLevelHigh} {
		fmt.Fprintf(s.out, "%s: %d\n", s.colors.risk(level), counts[level])
		total += counts[level]
	}
	fmt.Fprintf(s.out, "total: %d\n", total)
	return nil
}

func runReport(ctx context.Context, s *Shell, _ []string) error {
	rows, err := s.gate.FullReport(ctx, s.actor, s.clock())
	if err != nil {
		return err
	}

	if len(rows) == 0 {
		fmt.Fprintln(s.out, "no devices registered")
		return nil
	}

	fmt.Fprintf(s.out, "%-22s %-10s %-12s %-13s %-6s %s\n", "ID", "TYPE", "FIRMWARE", "STATUS", "RISK", "SCORE")
	for _, row := range rows {
		fmt.Fprintf(s.out, "%-22s %-10s %-12s %s %s %d\n",
			row.Device.ID,
			row.Device.Type,
			row.Device.FirmwareVersion,
			s.colors.statusCell(row.Device.Status, 13),
			s.colors.riskCell(row.Assessment.Level, 6),
			row.Assessment.Score,
		)
		for i := range row.Recommendations {
			rec := &row.Recommendations[i]
			fmt.Fprintf(s.out, "    - %s [%s]\n", rec.Text, s.colors.approval(rec))
		}
	}
	fmt.Fprintf(s.out, "(%d devices)\n", len(rows))
	return nil
}

func runStats(_ context.Context, s *Shell, _ []string) error {
	stats := s.gate.Stats()

	fmt.Fprintf(s.out, "authorization checks: %d (denied %d)\n", stats.TotalChecks(), stats.TotalDenied())
	for _, ac := range stats.GetTopDeniedActions(5) {
		fmt.Fprintf(s.out, "  denied %s: %d\n", ac.Action, ac.Count)
	}
	if actors := stats.GetDeniedActors(); len(actors) > 0 {
		fmt.Fprintf(s.out, "  actors with denials: %s\n", strings.Join(actors, ", "))
	}
	return nil
}

func runHelp(_ context.Context, s *Shell, _ []string) error {
	fmt.Fprintln(s.out, s.colors.header("Commands:"))
	for _, cmd := range s.commands {
		fmt.Fprintf(s.out, "  %-38s %s\n", cmd.usage, cmd.summary)
	}
	return nil
}
