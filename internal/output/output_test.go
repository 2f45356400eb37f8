package output

import (
	"bytes"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Aman-CERP/namedlog/internal/ui"
)

func TestWriter_Status_PrintsIconAndMessage(t *testing.T) {
	// Given: a writer with a buffer
	buf := &bytes.Buffer{}
	w := New(buf)

	// When: printing a status message
	w.Status("📁", "Location: logging/logs")

	// Then: output contains icon and message
	assert.Equal(t, "📁 Location: logging/logs\n", buf.String())
}

func TestWriter_Status_EmptyIconIndents(t *testing.T) {
	buf := &bytes.Buffer{}
	w := New(buf)

	w.Statusf("", "  %d. %s", 1, "Edit the file")

	assert.Equal(t, "     1. Edit the file\n", buf.String())
}

func TestWriter_Levels_WithoutColor(t *testing.T) {
	tests := []struct {
		name     string
		write    func(w *Writer)
		expected string
	}{
		{"success", func(w *Writer) { w.Success("Created user configuration") }, "✓ Created user configuration\n"},
		{"successf", func(w *Writer) { w.Successf("wrote %d line", 1) }, "✓ wrote 1 line\n"},
		{"warning", func(w *Writer) { w.Warning("already exists") }, "! already exists\n"},
		{"warningf", func(w *Writer) { w.Warningf("%s exists", "x") }, "! x exists\n"},
		{"error", func(w *Writer) { w.Error("failed") }, "✗ failed\n"},
		{"errorf", func(w *Writer) { w.Errorf("failed: %s", "disk") }, "✗ failed: disk\n"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			buf := &bytes.Buffer{}
			tc.write(New(buf)) // a buffer is never a terminal

			assert.Equal(t, tc.expected, buf.String())
		})
	}
}

func TestWriter_ColorAlways(t *testing.T) {
	t.Setenv("NO_COLOR", "")
	require.NoError(t, os.Unsetenv("NO_COLOR"))

	buf := &bytes.Buffer{}
	w := NewWithColor(buf, ui.ColorAlways)

	w.Success("done")

	assert.Contains(t, buf.String(), "\x1b[")
	assert.Contains(t, buf.String(), "done")
}

func TestWriter_Code_IndentsLines(t *testing.T) {
	buf := &bytes.Buffer{}
	w := New(buf)

	w.Code("version: 1\nlogging:\n  debug: false\n")

	assert.Equal(t, "\n  version: 1\n  logging:\n    debug: false\n\n", buf.String())
}

func TestWriter_Newline(t *testing.T) {
	buf := &bytes.Buffer{}
	New(buf).Newline()

	assert.Equal(t, "\n", buf.String())
}
