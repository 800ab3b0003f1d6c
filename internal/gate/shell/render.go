package shell

import (
	"fmt"
	"strings"

	"github.com/isseis/go-iot-risk-gate/internal/color"
	"github.com/isseis/go-iot-risk-gate/internal/gate/gatetypes"
)

// palette maps domain values to colors, degrading to plain text when the
// terminal has no color support.
type palette struct {
	enabled bool
}

func (p palette) riskColor(level gatetypes.RiskLevel) color.Color {
	if !p.enabled {
		return color.None
	}
	switch level {
	case gatetypes.RiskLevelHigh:
		return color.Red
	case gatetypes.RiskLevelLow:
		return color.Green
	default:
		return color.Gray
	}
}

func (p palette) statusColor(status gatetypes.DeviceStatus) color.Color {
	if !p.enabled {
		return color.None
	}
	switch status {
	case gatetypes.StatusActive:
		return color.Green
	case gatetypes.StatusMaintenance:
		return color.Yellow
	default:
		return color.Gray
	}
}

// risk renders a risk level in its signal color.
func (p palette) risk(level gatetypes.RiskLevel) string {
	return p.riskColor(level)(strings.ToUpper(level.String()))
}

// riskCell renders a risk level padded to a column width. Padding happens
// before coloring so the escape sequences do not break the alignment.
func (p palette) riskCell(level gatetypes.RiskLevel, width int) string {
	return p.riskColor(level)(fmt.Sprintf("%-*s", width, strings.ToUpper(level.String())))
}

// status renders a device status in its signal color.
func (p palette) status(status gatetypes.DeviceStatus) string {
	return p.statusColor(status)(status.String())
}

// statusCell renders a device status padded to a column width.
func (p palette) statusCell(status gatetypes.DeviceStatus, width int) string {
	return p.statusColor(status)(fmt.Sprintf("%-*s", width, status.String()))
}

// approval renders a recommendation's approval state.
func (p palette) approval(rec *gatetypes.Recommendation) string {
	if rec.Approved {
		text := "approved by " + rec.ApprovedBy
		if !p.enabled {
			return text
		}
		return color.Green(text)
	}
	if !p.enabled {
		return "pending"
	}
	return color.Yellow("pending")
}

// header renders a section heading.
func (p palette) header(text string) string {
	if !p.enabled {
		return text
	}
	return color.Cyan(text)
}

// fail renders an error marker.
func (p palette) fail(text string) string {
	if !p.enabled {
		return text
	}
	return color.Red(text)
}
