// Package colors prints console messages for the CLI and mirrors them into
// the structured logger.
package colors

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"
)

const checkmark = "✓"

var (
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("1")).Bold(true)
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	warningStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("3")).Bold(true)
	infoStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("4"))
	debugStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
)

// Logger is the subset of logging.Logger the console mirrors to.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

var (
	mu           sync.RWMutex
	debugEnabled bool
	logger       Logger
	stdout       io.Writer = os.Stdout
	stderr       io.Writer = os.Stderr
)

func init() {
	switch strings.ToLower(os.Getenv("ROSTERDESK_DEBUG")) {
	case "1", "true", "yes", "on":
		debugEnabled = true
	}
}

// SetDebug enables or disables debug output.
func SetDebug(enabled bool) {
	mu.Lock()
	defer mu.Unlock()
	debugEnabled = enabled
}

// DebugEnabled reports whether debug output is on.
func DebugEnabled() bool {
	mu.RLock()
	defer mu.RUnlock()
	return debugEnabled
}

// SetLogger sets the structured logger console output is mirrored to.
func SetLogger(l Logger) {
	mu.Lock()
	defer mu.Unlock()
	logger = l
}

// SetOutput redirects console output. Nil keeps the current writer.
func SetOutput(out, errOut io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	if out != nil {
		stdout = out
	}
	if errOut != nil {
		stderr = errOut
	}
}

func current() (Logger, io.Writer, io.Writer) {
	mu.RLock()
	defer mu.RUnlock()
	return logger, stdout, stderr
}

// write prints a line and falls back to plain stderr if the writer fails.
func write(w io.Writer, line string) {
	if _, err := fmt.Fprintln(w, line); err != nil {
		fmt.Fprintf(os.Stderr, "failed to print message: %v\n", err)
	}
}

// Error outputs an error message to stderr.
func Error(msgs ...string) {
	msg := strings.Join(msgs, " ")
	l, _, errOut := current()
	if l != nil {
		l.Error(msg)
	}
	write(errOut, errorStyle.Render("Error:")+" "+msg)
}

// Success outputs a success message to stdout.
func Success(msgs ...string) {
	msg := strings.Join(msgs, " ")
	l, out, _ := current()
	if l != nil {
		l.Info(msg, "type", "success")
	}
	write(out, successStyle.Render(checkmark)+" "+msg)
}

// Warning outputs a warning message to stderr.
func Warning(msgs ...string) {
	msg := strings.Join(msgs, " ")
	l, _, errOut := current()
	if l != nil {
		l.Warn(msg)
	}
	write(errOut, warningStyle.Render("Warning:")+" "+msg)
}

// Info outputs an informational message to stdout.
func Info(msgs ...string) {
	msg := strings.Join(msgs, " ")
	l, out, _ := current()
	if l != nil {
		l.Info(msg)
	}
	write(out, infoStyle.Render(msg))
}

// Debug outputs a debug message to stderr if debug is enabled.
func Debug(msgs ...string) {
	if !DebugEnabled() {
		return
	}
	msg := strings.Join(msgs, " ")
	l, _, errOut := current()
	if l != nil {
		l.Debug(msg)
	}
	write(errOut, debugStyle.Render("Debug:")+" "+msg)
}
