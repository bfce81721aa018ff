package colors

import (
	"bytes"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingLogger struct {
	lines []string
}

func (r *recordingLogger) record(level, msg string) {
	r.lines = append(r.lines, fmt.Sprintf("%s %s", level, msg))
}

func (r *recordingLogger) Debug(msg string, _ ...any) { r.record("debug", msg) }
func (r *recordingLogger) Info(msg string, _ ...any)  { r.record("info", msg) }
func (r *recordingLogger) Warn(msg string, _ ...any)  { r.record("warn", msg) }
func (r *recordingLogger) Error(msg string, _ ...any) { r.record("error", msg) }

func capture(t *testing.T) (*bytes.Buffer, *bytes.Buffer) {
	t.Helper()
	var out, errOut bytes.Buffer
	_, prevOut, prevErr := current()
	SetOutput(&out, &errOut)
	t.Cleanup(func() { SetOutput(prevOut, prevErr) })
	return &out, &errOut
}

func TestConsoleStreams(t *testing.T) {
	out, errOut := capture(t)

	Error("something went wrong")
	Warning("disk", "almost full")
	Success("operation completed")
	Info("3 users loaded")

	assert.Contains(t, errOut.String(), "Error:")
	assert.Contains(t, errOut.String(), "something went wrong")
	assert.Contains(t, errOut.String(), "Warning: disk almost full")
	assert.Contains(t, out.String(), "✓ operation completed")
	assert.Contains(t, out.String(), "3 users loaded")
	assert.NotContains(t, out.String(), "something went wrong")
}

func TestDebugIsGated(t *testing.T) {
	_, errOut := capture(t)
	prev := DebugEnabled()
	t.Cleanup(func() { SetDebug(prev) })

	SetDebug(false)
	Debug("hidden")
	require.Empty(t, errOut.String())

	SetDebug(true)
	Debug("shown")
	require.Contains(t, errOut.String(), "Debug: shown")
}

func TestMirrorsToLogger(t *testing.T) {
	capture(t)
	rec := &recordingLogger{}
	SetLogger(rec)
	t.Cleanup(func() { SetLogger(nil) })

	Error("boom")
	Success("done")
	Warning("careful")

	assert.Equal(t, []string{"error boom", "info done", "warn careful"}, rec.lines)
}
