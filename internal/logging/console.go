package logging

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/isseis/go-iot-risk-gate/internal/color"
)

// Static errors for ConsoleHandler validation
var ErrConsoleWriterRequired = errors.New("ConsoleHandler: Writer is required")

// consoleSkipKeys lists attributes that are stamped on every record of a
// session. They belong in the JSON audit file and would only be noise on
// the console.
var consoleSkipKeys = []string{"run_id", "hostname", "pid", "schema_version"}

// ConsoleHandler is a slog handler that renders records as single
// human-readable lines, optionally colored, for the operator's terminal.
type ConsoleHandler struct {
	writer   io.Writer
	level    slog.Level
	useColor bool
	mu       *sync.Mutex
	attrs    []slog.Attr
	groups   []string
}

// ConsoleHandlerOptions configures the ConsoleHandler.
type ConsoleHandlerOptions struct {
	// Level is the minimum log level to handle
	Level slog.Level

	// Writer is the output destination (typically os.Stderr)
	Writer io.Writer

	// UseColor enables ANSI colors for level markers
	UseColor bool
}

// NewConsoleHandler creates a new ConsoleHandler with the given options.
// Returns an error if the writer is missing.
func NewConsoleHandler(opts ConsoleHandlerOptions) (*ConsoleHandler, error) {
	if opts.Writer == nil {
		return nil, ErrConsoleWriterRequired
	}

	return &ConsoleHandler{
		writer:   opts.Writer,
		level:    opts.Level,
		useColor: opts.UseColor,
		mu:       &sync.Mutex{},
	}, nil
}

// Enabled reports whether the handler handles records at the given level.
func (h *ConsoleHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level
}

// Handle renders the record as one line: time, level marker, message and
// attributes.
func (h *ConsoleHandler) Handle(_ context.Context, r slog.Record) error {
	var sb strings.Builder

	sb.WriteString(r.Time.Format("15:04:05"))
	sb.WriteString(" ")
	sb.WriteString(h.formatLevel(r.Level))
	sb.WriteString(" ")
	sb.WriteString(r.Message)

	for _, attr := range h.prefixedAttrs() {
		sb.WriteString(" ")
		appendAttr(&sb, attr)
	}
	r.Attrs(func(attr slog.Attr) bool {
		if slices.Contains(consoleSkipKeys, attr.Key) {
			return true
		}
		sb.WriteString(" ")
		appendAttr(&sb, attr)
		return true
	})
	sb.WriteString("\n")

	// The mutex is shared across handlers derived via WithAttrs and
	// WithGroup, so concurrent records never interleave on the writer.
	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := io.WriteString(h.writer, sb.String())
	return err
}

// WithAttrs returns a new handler with additional attributes.
func (h *ConsoleHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	if len(attrs) == 0 {
		return h
	}

	clone := *h
	clone.attrs = make([]slog.Attr, len(h.attrs)+len(attrs))
	copy(clone.attrs, h.attrs)
	copy(clone.attrs[len(h.attrs):], attrs)
	return &clone
}

// WithGroup returns a new handler with an additional group.
func (h *ConsoleHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}

	clone := *h
	clone.groups = make([]string, len(h.groups)+1)
	copy(clone.groups, h.groups)
	clone.groups[len(h.groups)] = name
	return &clone
}

// prefixedAttrs returns the accumulated attributes with the group path
// applied to their keys.
func (h *ConsoleHandler) prefixedAttrs() []slog.Attr {
	if len(h.groups) == 0 {
		return h.attrs
	}

	prefix := strings.Join(h.groups, ".") + "."
	prefixed := make([]slog.Attr, len(h.attrs))
	for i, attr := range h.attrs {
		prefixed[i] = slog.Attr{Key: prefix + attr.Key, Value: attr.Value}
	}
	return prefixed
}

// formatLevel formats the log level with visual distinction.
func (h *ConsoleHandler) formatLevel(level slog.Level) string {
	if h.useColor {
		switch level {
		case slog.LevelDebug:
			return color.Gray("* DEBUG")
		case slog.LevelInfo:
			return color.Green("+ INFO ")
		case slog.LevelWarn:
			return color.Yellow("! WARN ")
		case slog.LevelError:
			return color.Red("X ERROR")
		default:
			return color.Gray("> " + level.String())
		}
	}

	switch level {
	case slog.LevelDebug:
		return "[DEBUG]"
	case slog.LevelInfo:
		return "[INFO ]"
	case slog.LevelWarn:
		return "[WARN ]"
	case slog.LevelError:
		return "[ERROR]"
	default:
		return "[" + strings.ToUpper(level.String()) + "]"
	}
}

func appendAttr(sb *strings.Builder, attr slog.Attr) {
	sb.WriteString(attr.Key)
	sb.WriteString("=")
	sb.WriteString(formatValue(attr.Value))
}

// formatValue formats a slog.Value for display.
func formatValue(value slog.Value) string {
	switch value.Kind() {
	case slog.KindString:
		return value.String()
	case slog.KindTime:
		return value.Time().Format(time.RFC3339)
	case slog.KindDuration:
		return value.Duration().String()
	case slog.KindGroup:
		attrs := value.Group()
		if len(attrs) == 0 {
			return "{}"
		}
		parts := make([]string, 0, len(attrs))
		for _, attr := range attrs {
			parts = append(parts, attr.Key+"="+formatValue(attr.Value))
		}
		return "{" + strings.Join(parts, ",") + "}"
	default:
		return value.String()
	}
}
