package cmd

import (
	"os"
	"path/filepath"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	nlerrors "github.com/Aman-CERP/namedlog/internal/errors"
)

var fileLine = regexp.MustCompile(`^\d{4}-\d{2}-\d{2} \d{2}:\d{2}:\d{2},\d{3} - `)

func TestEmit_WritesFileAndConsole(t *testing.T) {
	// Given: an empty project
	wd := isolate(t)

	// When: emitting an info record
	_, stderr, err := run(t, "emit", "train", "epoch", "1", "finished")

	// Then: both sinks received the record
	require.NoError(t, err)
	assert.Contains(t, stderr, "train - INFO - Logging initialized for train. Debug mode: false\n")
	assert.Contains(t, stderr, "train - INFO - epoch 1 finished\n")

	content := readFile(t, filepath.Join(wd, "logging", "logs", "train.log"))
	assert.Regexp(t, fileLine, content)
	assert.Contains(t, content, " - train - INFO - epoch 1 finished\n")
}

func TestEmit_DebugDroppedWithoutDebugMode(t *testing.T) {
	wd := isolate(t)

	_, stderr, err := run(t, "emit", "classify", "--level", "debug", "hello")

	require.NoError(t, err)
	assert.NotContains(t, stderr, "hello")
	assert.NotContains(t, readFile(t, filepath.Join(wd, "logging", "logs", "classify.log")), "hello")
}

func TestEmit_DebugModeFromFlag(t *testing.T) {
	isolate(t)

	_, stderr, err := run(t, "--debug", "emit", "classify", "--level", "debug", "hello")

	require.NoError(t, err)
	assert.Contains(t, stderr, "classify - INFO - Logging initialized for classify. Debug mode: true\n")
	assert.Contains(t, stderr, "classify - DEBUG - Debug logging is enabled.\n")
	assert.Contains(t, stderr, "classify - DEBUG - hello\n")
}

func TestEmit_LoggerDebugOverride(t *testing.T) {
	tests := []struct {
		name      string
		args      []string
		wantDebug bool
	}{
		{"override on", []string{"emit", "svc", "--level", "debug", "--logger-debug", "hello"}, true},
		{"override off beats --debug", []string{"--debug", "emit", "svc", "--level", "debug", "--logger-debug=false", "hello"}, false},
		{"env default", []string{"emit", "svc", "--level", "debug", "hello"}, true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			isolate(t)
			if tc.name == "env default" {
				t.Setenv("NAMEDLOG_DEBUG", "true")
			}

			_, stderr, err := run(t, tc.args...)

			require.NoError(t, err)
			if tc.wantDebug {
				assert.Contains(t, stderr, "svc - DEBUG - hello\n")
			} else {
				assert.NotContains(t, stderr, "svc - DEBUG - hello")
			}
		})
	}
}

func TestEmit_Levels(t *testing.T) {
	tests := []struct {
		level string
		want  string
	}{
		{"info", "svc - INFO - m\n"},
		{"warning", "svc - WARNING - m\n"},
		{"WARN", "svc - WARNING - m\n"},
		{"error", "svc - ERROR - m\n"},
	}

	for _, tc := range tests {
		t.Run(tc.level, func(t *testing.T) {
			isolate(t)

			_, stderr, err := run(t, "emit", "svc", "-l", tc.level, "m")

			require.NoError(t, err)
			assert.Contains(t, stderr, tc.want)
		})
	}
}

func TestEmit_InvalidLevel(t *testing.T) {
	wd := isolate(t)

	_, _, err := run(t, "emit", "svc", "--level", "loud", "m")

	require.Error(t, err)
	assert.Equal(t, nlerrors.ErrCodeInvalidLevel, nlerrors.GetCode(err))
	assert.NoDirExists(t, filepath.Join(wd, "logging"), "nothing is set up for a rejected level")
}

func TestEmit_RequiresNameAndMessage(t *testing.T) {
	isolate(t)

	_, _, err := run(t, "emit", "svc")

	assert.Error(t, err)
}

func TestEmit_DirFlagAndStdoutStream(t *testing.T) {
	wd := isolate(t)
	t.Setenv("NAMEDLOG_CONSOLE_STREAM", "stdout")

	stdout, stderr, err := run(t, "--dir", "out/logs", "emit", "svc", "hello")

	require.NoError(t, err)
	assert.Contains(t, stdout, "svc - INFO - hello\n")
	assert.Empty(t, stderr)
	assert.FileExists(t, filepath.Join(wd, "out", "logs", "svc.log"))
}

func TestEmit_DirectoryFailureIsClassified(t *testing.T) {
	wd := isolate(t)
	require.NoError(t, os.WriteFile(filepath.Join(wd, "blocker"), nil, 0o644))

	_, _, err := run(t, "--dir", "blocker/logs", "emit", "svc", "hello")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "create log directory")
	assert.Contains(t, nlerrors.FormatForCLI(err), nlerrors.ErrCodePathConflict)
}

func TestEmit_AppendsAcrossInvocations(t *testing.T) {
	wd := isolate(t)

	_, _, err := run(t, "emit", "svc", "first")
	require.NoError(t, err)
	_, _, err = run(t, "emit", "svc", "second")
	require.NoError(t, err)

	content := readFile(t, filepath.Join(wd, "logging", "logs", "svc.log"))
	assert.Regexp(t, `(?s)first.*second`, content)
}

func TestEmit_SetupFailureLoggedWithDebug(t *testing.T) {
	// Given: debug mode, so the CLI logs to its own instance
	wd := isolate(t)

	// When: the instance file cannot be created under a missing subdirectory
	_, _, err := run(t, "--debug", "emit", "missing/svc", "hello")

	// Then: the error is classified and recorded with its code
	require.Error(t, err)
	assert.Equal(t, nlerrors.ErrCodeFileNotFound, nlerrors.GetCode(err))

	content := readFile(t, filepath.Join(wd, "logging", "logs", "namedlog.log"))
	assert.Contains(t, content, " - namedlog - ERROR - setup failed error_code="+nlerrors.ErrCodeFileNotFound)
	assert.Contains(t, content, "category=IO")
}
