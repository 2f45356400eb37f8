package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// isolate runs the test in an empty working directory with the user config
// under a temp XDG_CONFIG_HOME and no NAMEDLOG_* variables set.
// Returns the working directory.
func isolate(t *testing.T) string {
	t.Helper()

	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	for _, key := range []string{
		"NAMEDLOG_DIR", "NAMEDLOG_DEBUG", "NAMEDLOG_BUFFERED",
		"NAMEDLOG_CONSOLE_STREAM", "NAMEDLOG_CONSOLE_COLOR", "NO_COLOR",
	} {
		t.Setenv(key, "")
		require.NoError(t, os.Unsetenv(key))
	}

	wd := t.TempDir()
	// A .git marker stops the project root lookup here.
	require.NoError(t, os.Mkdir(filepath.Join(wd, ".git"), 0o755))
	t.Chdir(wd)
	return wd
}

// run executes the root command with args and returns stdout and stderr.
func run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()

	cmd := NewRootCmd()
	stdout, stderr := &bytes.Buffer{}, &bytes.Buffer{}
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	cmd.SetArgs(args)

	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}
