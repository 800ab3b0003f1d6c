package gatetypes

import (
	"log/slog"
	"testing"
)

func TestLogLevel_UnmarshalText(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected LogLevel
		wantErr  bool
	}{
		{"debug level", "debug", LogLevelDebug, false},
		{"info level", "info", LogLevelInfo, false},
		{"warn level", "warn", LogLevelWarn, false},
		{"error level", "error", LogLevelError, false},
		{"empty defaults to info", "", LogLevelInfo, false},
		{"uppercase WARN", "WARN", LogLevelWarn, false},
		{"mixed case Debug", "Debug", LogLevelDebug, false},
		{"invalid level", "verbose", "", true},
		{"typo", "debg", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var l LogLevel
			err := l.UnmarshalText([]byte(tt.input))
			if tt.wantErr {
				if err == nil {
					t.Errorf("UnmarshalText(%q) error = nil, want error", tt.input)
				}
				return
			}
			if err != nil {
				t.Errorf("UnmarshalText(%q) error = %v, want nil", tt.input, err)
			}
			if l != tt.expected {
				t.Errorf("UnmarshalText(%q) = %v, want %v", tt.input, l, tt.expected)
			}
		})
	}
}

func TestLogLevel_ToSlogLevel(t *testing.T) {
	tests := []struct {
		name     string
		level    LogLevel
		expected slog.Level
		wantErr  bool
	}{
		{"debug", LogLevelDebug, slog.LevelDebug, false},
		{"info", LogLevelInfo, slog.LevelInfo, false},
		{"warn", LogLevelWarn, slog.LevelWarn, false},
		{"error", LogLevelError, slog.LevelError, false},
		{"unknown", LogLevel("trace"), 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.level.ToSlogLevel()
			if tt.wantErr {
				if err == nil {
					t.Errorf("ToSlogLevel() error = nil, want error")
				}
				return
			}
			if err != nil {
				t.Errorf("ToSlogLevel() error = %v, want nil", err)
			}
			if got != tt.expected {
				t.Errorf("ToSlogLevel() = %v, want %v", got, tt.expected)
			}
		})
	}
}
