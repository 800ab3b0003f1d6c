package shell

import (
	"bufio"
	"io"
	"os"
	"strings"

	"github.com/peterh/liner"
)

// Prompter reads operator input one line at a time.
type Prompter interface {
	// ReadLine reads the next input line. It returns io.EOF when the
	// input is exhausted or the operator closes the session.
	ReadLine(prompt string) (string, error)

	// Close releases prompt resources and persists history.
	Close() error
}

// linerPrompter provides readline-style editing and history navigation
// for interactive terminals.
type linerPrompter struct {
	state       *liner.State
	historyFile string
}

func newLinerPrompter(historyFile string) *linerPrompter {
	state := liner.NewLiner()
	state.SetCtrlCAborts(true)

	p := &linerPrompter{state: state, historyFile: historyFile}
	p.loadHistory()
	return p
}

func (p *linerPrompter) loadHistory() {
	if p.historyFile == "" {
		return
	}
	if f, err := os.Open(p.historyFile); err == nil {
		_, _ = p.state.ReadHistory(f)
		_ = f.Close()
	}
}

func (p *linerPrompter) saveHistory() {
	if p.historyFile == "" {
		return
	}
	f, err := os.OpenFile(p.historyFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o600)
	if err != nil {
		return
	}
	defer f.Close()
	_, _ = p.state.WriteHistory(f)
}

// ReadLine prompts and records non-empty input in the history.
func (p *linerPrompter) ReadLine(prompt string) (string, error) {
	input, err := p.state.Prompt(prompt)
	if err != nil {
		return "", err
	}

	if strings.TrimSpace(input) != "" {
		p.state.AppendHistory(input)
	}
	return input, nil
}

// Close saves history and restores the terminal state.
func (p *linerPrompter) Close() error {
	p.saveHistory()
	return p.state.Close()
}

// scannerPrompter reads plain lines from a reader. It backs scripted and
// piped sessions, where readline editing has no terminal to talk to.
type scannerPrompter struct {
	scanner *bufio.Scanner
}

func newScannerPrompter(r io.Reader) *scannerPrompter {
	return &scannerPrompter{scanner: bufio.NewScanner(r)}
}

// ReadLine returns the next input line. The prompt is not echoed, keeping
// piped output clean.
func (p *scannerPrompter) ReadLine(_ string) (string, error) {
	if !p.scanner.Scan() {
		if err := p.scanner.Err(); err != nil {
			return "", err
		}
		return "", io.EOF
	}
	return p.scanner.Text(), nil
}

// Close is a no-op; the caller owns the underlying reader.
func (p *scannerPrompter) Close() error {
	return nil
}
