// Package terminal detects whether the gate console is attached to an
// interactive terminal and whether colored output should be used. The
// answers drive prompt behavior and risk-level highlighting.
package terminal

import (
	"os"
	"strings"

	"golang.org/x/term"
)

// ciEnvVars contains common CI environment variables
var ciEnvVars = []string{
	"CI",                     // Generic CI indicator
	"CONTINUOUS_INTEGRATION", // Generic CI indicator
	"GITHUB_ACTIONS",         // GitHub Actions
	"TRAVIS",                 // Travis CI
	"CIRCLECI",               // Circle CI
	"JENKINS_URL",            // Jenkins
	"BUILD_NUMBER",           // Jenkins/TeamCity/etc
	"GITLAB_CI",              // GitLab CI
	"APPVEYOR",               // AppVeyor
	"BUILDKITE",              // Buildkite
	"DRONE",                  // Drone CI
	"TF_BUILD",               // Azure DevOps
}

// colorTerminals lists TERM values (or prefixes) that are known to support
// basic terminal colors. Declared at package scope to avoid reallocating
// the slice on every check.
var colorTerminals = []string{
	"xterm",
	"screen",
	"tmux",
	"rxvt",
	"vt100",
	"vt220",
	"ansi",
	"linux",
	"cygwin",
	"putty",
}

// Options controls capability detection. Command-line flags take priority
// over everything read from the environment.
type Options struct {
	ForceInteractive    bool // Treat the session as interactive regardless of environment
	ForceNonInteractive bool // Treat the session as non-interactive regardless of environment
	ForceColor          bool // Force color output
	DisableColor        bool // Disable color output
}

// Capabilities answers the two questions the console front end asks.
type Capabilities interface {
	IsInteractive() bool
	SupportsColor() bool
}

// DefaultCapabilities implements Capabilities against the real process
// environment.
type DefaultCapabilities struct {
	options Options
}

// NewCapabilities creates a Capabilities instance with the given options.
func NewCapabilities(options Options) Capabilities {
	return &DefaultCapabilities{options: options}
}

// IsInteractive reports whether the session should behave interactively.
// Priority: command-line overrides, then CI detection, then a TTY check.
func (c *DefaultCapabilities) IsInteractive() bool {
	if c.options.ForceInteractive {
		return true
	}
	if c.options.ForceNonInteractive {
		return false
	}

	if IsCIEnvironment() {
		return false
	}

	return isTerminal()
}

// SupportsColor reports whether output should be colored.
// Priority: command-line flags, then CLICOLOR_FORCE, then NO_COLOR, then
// CLICOLOR (interactive sessions only), then TERM capability detection.
func (c *DefaultCapabilities) SupportsColor() bool {
	if c.options.ForceColor {
		return true
	}
	if c.options.DisableColor {
		return false
	}

	if isTruthy(os.Getenv("CLICOLOR_FORCE")) {
		return true
	}

	// NO_COLOR disables color by its mere presence, even when empty.
	if _, exists := os.LookupEnv("NO_COLOR"); exists {
		return false
	}

	if !c.IsInteractive() || !termSupportsColor() {
		return false
	}

	if cliColor := os.Getenv("CLICOLOR"); cliColor != "" {
		return isTruthy(cliColor)
	}

	return true
}

// IsCIEnvironment checks if the current environment is a CI/CD system.
func IsCIEnvironment() bool {
	for _, envVar := range ciEnvVars {
		value := os.Getenv(envVar)
		if value == "" {
			continue
		}
		// CI itself may carry an explicit falsy value such as CI=false.
		if envVar == "CI" {
			return isCITruthy(value)
		}
		return true
	}

	return false
}

// isTerminal checks if stdin and stdout are both attached to a terminal.
// The prompt reads from stdin, so checking output streams alone is not
// enough.
func isTerminal() bool {
	return term.IsTerminal(int(os.Stdin.Fd())) && term.IsTerminal(int(os.Stdout.Fd()))
}

// termSupportsColor checks the TERM variable against the known-good list.
func termSupportsColor() bool {
	termName := strings.ToLower(strings.TrimSpace(os.Getenv("TERM")))
	if termName == "" || termName == "dumb" {
		return false
	}

	for _, known := range colorTerminals {
		if termName == known || strings.HasPrefix(termName, known+"-") {
			return true
		}
	}

	// Unknown terminals default to no color rather than risking stray
	// escape sequences.
	return false
}

// isTruthy checks if a string value should be considered "true".
// Supports: "1", "true", "yes" (case insensitive).
func isTruthy(value string) bool {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "1", "true", "yes":
		return true
	default:
		return false
	}
}

// isCITruthy treats anything except an explicit falsy value as "true".
// CI=false or CI=0 must not be considered a CI environment.
func isCITruthy(value string) bool {
	lower := strings.ToLower(strings.TrimSpace(value))
	return lower != "false" && lower != "0" && lower != "no"
}
