// Package color provides small helpers for coloring terminal output using
// ANSI escape sequences. The console front end uses it to highlight risk
// levels, device statuses and denied actions; callers fall back to None
// when the terminal has no color support.
//
//nolint:revive // package name conflicts with standard library
package color

// ANSI color codes
const (
	resetCode  = "\033[0m"
	grayCode   = "\033[90m" // Bright black/gray
	greenCode  = "\033[32m"
	yellowCode = "\033[33m"
	redCode    = "\033[31m"
	cyanCode   = "\033[36m"
)

// Color represents a color function that wraps text with ANSI escape
// sequences.
type Color func(text string) string

// NewColor creates a color function with the specified ANSI code.
func NewColor(ansiCode string) Color {
	return func(text string) string {
		return ansiCode + text + resetCode
	}
}

// None returns text unchanged. It stands in for a Color on terminals
// without color support.
func None(text string) string {
	return text
}

// Predefined color functions
var (
	// Gray colors text in gray (bright black)
	Gray = NewColor(grayCode)

	// Green colors text in green
	Green = NewColor(greenCode)

	// Yellow colors text in yellow
	Yellow = NewColor(yellowCode)

	// Red colors text in red
	Red = NewColor(redCode)

	// Cyan colors text in cyan
	Cyan = NewColor(cyanCode)
)
