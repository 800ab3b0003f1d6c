// Package shell implements the line-oriented console that drives the gate
// facade on behalf of a single actor: command dispatch, rendering and the
// session summary. Interactive terminals get a readline prompt with
// history; piped input falls back to plain line scanning.
package shell

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/peterh/liner"

	"github.com/isseis/go-iot-risk-gate/internal/gate"
	"github.com/isseis/go-iot-risk-gate/internal/gate/gatetypes"
	"github.com/isseis/go-iot-risk-gate/internal/gate/session"
	"github.com/isseis/go-iot-risk-gate/internal/terminal"
)

// Static errors for shell construction and dispatch
var (
	ErrGateRequired    = errors.New("shell: gate is required")
	ErrSessionRequired = errors.New("shell: session is required")
	ErrUnknownCommand  = errors.New("unknown command")
	ErrUsage           = errors.New("usage")
)

// Options assembles a Shell.
type Options struct {
	// Gate is the access-controlled facade the commands drive
	Gate *gate.Gate

	// Session carries the acting operator and the session identity
	Session *session.Session

	// Capabilities decides prompt style and coloring; resolved from the
	// environment when nil
	Capabilities terminal.Capabilities

	// In is the input for non-interactive sessions (stdin by default)
	In io.Reader

	// Out receives rendered command output (stdout by default)
	Out io.Writer

	// HistoryFile persists readline history between interactive sessions;
	// empty disables persistence
	HistoryFile string

	// Clock supplies the current time (time.Now by default)
	Clock func() time.Time
}

// Shell runs the command loop for one session.
type Shell struct {
	gate     *gate.Gate
	actor    gatetypes.Actor
	session  *session.Session
	out      io.Writer
	prompt   Prompter
	clock    func() time.Time
	colors   palette
	commands []command
	lookup   map[string]*command
}

// New builds a Shell, choosing the prompt implementation from the
// terminal capabilities.
func New(opts Options) (*Shell, error) {
	if opts.Gate == nil {
		return nil, ErrGateRequired
	}
	if opts.Session == nil {
		return nil, ErrSessionRequired
	}

	capabilities := opts.Capabilities
	if capabilities == nil {
		capabilities = terminal.NewCapabilities(terminal.Options{})
	}

	out := opts.Out
	if out == nil {
		out = os.Stdout
	}
	in := opts.In
	if in == nil {
		in = os.Stdin
	}
	clock := opts.Clock
	if clock == nil {
		clock = time.Now
	}

	var prompt Prompter
	if capabilities.IsInteractive() {
		prompt = newLinerPrompter(opts.HistoryFile)
	} else {
		prompt = newScannerPrompter(in)
	}

	s := &Shell{
		gate:     opts.Gate,
		actor:    opts.Session.Actor,
		session:  opts.Session,
		out:      out,
		prompt:   prompt,
		clock:    clock,
		colors:   palette{enabled: capabilities.SupportsColor()},
		commands: commands(),
	}

	s.lookup = make(map[string]*command, len(s.commands))
	for i := range s.commands {
		cmd := &s.commands[i]
		s.lookup[cmd.name] = cmd
		for _, alias := range cmd.aliases {
			s.lookup[alias] = cmd
		}
	}

	return s, nil
}

// Run executes the command loop until quit, EOF or prompt abort. Errors
// from individual commands are rendered and the loop continues; only
// input-level failures end the session with an error.
func (s *Shell) Run(ctx context.Context) error {
	defer func() { _ = s.prompt.Close() }()

	s.printBanner()

	promptText := s.colors.header(s.actor.Name + "@riskgate> ")
	for {
		select {
		case <-ctx.Done():
			fmt.Fprintln(s.out, "session interrupted")
			s.printSummary()
			return nil
		default:
		}

		line, err := s.prompt.ReadLine(promptText)
		if err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, liner.ErrPromptAborted) {
				fmt.Fprintln(s.out)
				s.printSummary()
				return nil
			}
			return fmt.Errorf("failed to read input: %w", err)
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		quit, err := s.dispatch(ctx, line)
		if err != nil {
			s.renderError(err)
		}
		if quit {
			s.printSummary()
			return nil
		}
	}
}

// dispatch resolves the verb and runs it. The boolean result reports
// whether the session should end.
func (s *Shell) dispatch(ctx context.Context, line string) (bool, error) {
	fields := strings.Fields(line)
	name := strings.ToLower(fields[0])

	cmd, ok := s.lookup[name]
	if !ok {
		return false, fmt.Errorf("%w: %q (try \"help\")", ErrUnknownCommand, name)
	}

	args := fields[1:]
	if len(args) < cmd.minArgs || (cmd.maxArgs >= 0 && len(args) > cmd.maxArgs) {
		return false, fmt.Errorf("%w: %s", ErrUsage, cmd.usage)
	}

	if cmd.run == nil {
		return cmd.quit, nil
	}
	return cmd.quit, cmd.run(ctx, s, args)
}

// renderError prints a recoverable error and leaves the session running.
// Authorization denials get their own marker so they stand out from
// ordinary input mistakes.
func (s *Shell) renderError(err error) {
	if gatetypes.IsPermissionDenied(err) {
		fmt.Fprintf(s.out, "%s %v\n", s.colors.fail("denied:"), err)
		return
	}
	fmt.Fprintf(s.out, "%s %v\n", s.colors.fail("error:"), err)
}

func (s *Shell) printBanner() {
	fmt.Fprintln(s.out, s.colors.header("IoT risk gate console"))
	fmt.Fprintf(s.out, "session %s  actor %s (%s)  high-risk threshold %d\n",
		s.session.ID, s.actor.Name, s.actor.Role, s.gate.Policy().HighThreshold)
	fmt.Fprintln(s.out, `Type "help" for commands, "quit" to end the session.`)
}

func (s *Shell) printSummary() {
	stats := s.gate.Stats()

	fmt.Fprintln(s.out, s.colors.header("Session summary"))
	fmt.Fprintf(s.out, "  duration: %s\n", s.session.Elapsed(s.clock()).Round(time.Second))
	fmt.Fprintf(s.out, "  authorization checks: %d (denied %d)\n", stats.TotalChecks(), stats.TotalDenied())
	for _, ac := range stats.GetTopDeniedActions(3) {
		fmt.Fprintf(s.out, "  denied %s: %d\n", ac.Action, ac.Count)
	}
}
