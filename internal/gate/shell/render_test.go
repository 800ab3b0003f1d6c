package shell

import (
	"testing"

	"github.com/isseis/go-iot-risk-gate/internal/gate/gatetypes"
)

func TestPaletteDisabledRendersPlainText(t *testing.T) {
	p := palette{enabled: false}

	tests := []struct {
		name string
		got  string
		want string
	}{
		{"risk high", p.risk(gatetypes.RiskLevelHigh), "HIGH"},
		{"risk low", p.risk(gatetypes.RiskLevelLow), "LOW"},
		{"risk cell pads to width", p.riskCell(gatetypes.RiskLevelHigh, 6), "HIGH  "},
		{"status", p.status(gatetypes.StatusActive), "active"},
		{"status cell pads to width", p.statusCell(gatetypes.StatusActive, 13), "active       "},
		{"header", p.header("Commands:"), "Commands:"},
		{"fail", p.fail("denied:"), "denied:"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.want {
				t.Errorf("got %q, want %q", tt.got, tt.want)
			}
		})
	}
}

func TestPaletteEnabledWrapsPaddedText(t *testing.T) {
	p := palette{enabled: true}

	tests := []struct {
		name string
		got  string
		want string
	}{
		{"high risk is red", p.risk(gatetypes.RiskLevelHigh), "\033[31mHIGH\033[0m"},
		{"low risk is green", p.risk(gatetypes.RiskLevelLow), "\033[32mLOW\033[0m"},
		{"unknown risk is gray", p.risk(gatetypes.RiskLevelUnknown), "\033[90mUNKNOWN\033[0m"},
		{"active is green", p.status(gatetypes.StatusActive), "\033[32mactive\033[0m"},
		{"maintenance is yellow", p.status(gatetypes.StatusMaintenance), "\033[33mmaintenance\033[0m"},
		{"inactive is gray", p.status(gatetypes.StatusInactive), "\033[90minactive\033[0m"},
		{"padding sits inside the escape codes", p.riskCell(gatetypes.RiskLevelHigh, 6), "\033[31mHIGH  \033[0m"},
		{"header is cyan", p.header("Commands:"), "\033[36mCommands:\033[0m"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.want {
				t.Errorf("got %q, want %q", tt.got, tt.want)
			}
		})
	}
}

func TestPaletteApproval(t *testing.T) {
	p := palette{enabled: false}

	pending := gatetypes.Recommendation{Text: "rotate credentials"}
	if got := p.approval(&pending); got != "pending" {
		t.Errorf("approval(pending) = %q, want %q", got, "pending")
	}

	approved := gatetypes.Recommendation{Approved: true, ApprovedBy: "bob"}
	if got := p.approval(&approved); got != "approved by bob" {
		t.Errorf("approval(approved) = %q, want %q", got, "approved by bob")
	}
}
