package cmd

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Aman-CERP/namedlog/configs"
	"github.com/Aman-CERP/namedlog/internal/config"
)

func TestConfigCmd_HasSubcommands(t *testing.T) {
	// Given: root command
	cmd := NewRootCmd()

	// When: finding config command
	configCmd, _, err := cmd.Find([]string{"config"})
	require.NoError(t, err)

	// Then: config command should have subcommands
	names := make(map[string]bool)
	for _, sc := range configCmd.Commands() {
		names[sc.Name()] = true
	}
	assert.True(t, names["init"], "should have init command")
	assert.True(t, names["show"], "should have show command")
	assert.True(t, names["path"], "should have path command")
	assert.True(t, names["restore"], "should have restore command")
}

func TestConfigPath(t *testing.T) {
	isolate(t)

	stdout, _, err := run(t, "config", "path")

	require.NoError(t, err)
	assert.Equal(t, config.GetUserConfigPath()+"\n", stdout)
}

func TestConfigInit_CreatesUserConfig(t *testing.T) {
	isolate(t)

	stdout, _, err := run(t, "config", "init")

	require.NoError(t, err)
	assert.Contains(t, stdout, "Created user configuration")
	assert.Equal(t, configs.UserConfigTemplate, readFile(t, config.GetUserConfigPath()))
}

func TestConfigInit_ExistingWithoutForce(t *testing.T) {
	isolate(t)
	_, _, err := run(t, "config", "init")
	require.NoError(t, err)

	stdout, _, err := run(t, "config", "init")

	require.NoError(t, err)
	assert.Contains(t, stdout, "already exists")
	assert.Contains(t, stdout, "--force")
}

func TestConfigInit_ForceUpgradesAndBacksUp(t *testing.T) {
	// Given: an old user config missing the console section
	isolate(t)
	userPath := config.GetUserConfigPath()
	require.NoError(t, os.MkdirAll(filepath.Dir(userPath), 0o755))
	require.NoError(t, os.WriteFile(userPath, []byte("logging:\n  debug: true\n"), 0o644))

	// When: init --force
	stdout, _, err := run(t, "config", "init", "--force")

	// Then: missing settings are added, values kept, old file backed up
	require.NoError(t, err)
	assert.Contains(t, stdout, "Configuration upgraded")
	assert.Contains(t, stdout, "logging.console.stream")

	cfg, err := config.LoadFile(userPath)
	require.NoError(t, err)
	assert.True(t, cfg.Logging.Debug)
	assert.Equal(t, "stderr", cfg.Logging.Console.Stream)

	backups, err := config.ListUserConfigBackups()
	require.NoError(t, err)
	require.Len(t, backups, 1)
	assert.Equal(t, "logging:\n  debug: true\n", readFile(t, backups[0]))
}

func TestConfigInit_Project(t *testing.T) {
	wd := isolate(t)

	_, _, err := run(t, "config", "init", "--project")
	require.NoError(t, err)
	assert.Equal(t, configs.ProjectConfigTemplate, readFile(t, filepath.Join(wd, ".namedlog.yaml")))

	stdout, _, err := run(t, "config", "init", "--project")
	require.NoError(t, err)
	assert.Contains(t, stdout, "already exists")
}

func TestConfigShow_MergedJSON(t *testing.T) {
	wd := isolate(t)
	require.NoError(t, os.WriteFile(filepath.Join(wd, ".namedlog.yaml"), []byte("logging:\n  dir: proj-logs\n"), 0o644))
	t.Setenv("NAMEDLOG_CONSOLE_COLOR", "never")

	stdout, _, err := run(t, "--debug", "config", "show", "--json")

	require.NoError(t, err)
	var cfg config.Config
	require.NoError(t, json.Unmarshal([]byte(stdout), &cfg))
	assert.Equal(t, "proj-logs", cfg.Logging.Dir)
	assert.Equal(t, "never", cfg.Logging.Console.Color)
	assert.True(t, cfg.Logging.Debug, "flags apply on top of files")
}

func TestConfigShow_YAML(t *testing.T) {
	isolate(t)

	stdout, _, err := run(t, "config", "show", "--source", "defaults")

	require.NoError(t, err)
	assert.Contains(t, stdout, "Configuration source: defaults")
	assert.Contains(t, stdout, "  logging:\n")
	assert.Contains(t, stdout, "dir: logging/logs")
}

func TestConfigShow_MissingSources(t *testing.T) {
	isolate(t)

	stdout, _, err := run(t, "config", "show", "--source", "user")
	require.NoError(t, err)
	assert.Contains(t, stdout, "No user configuration file found")

	stdout, _, err = run(t, "config", "show", "--source", "project")
	require.NoError(t, err)
	assert.Contains(t, stdout, "No project configuration file found")
}

func TestConfigShow_InvalidSource(t *testing.T) {
	isolate(t)

	_, _, err := run(t, "config", "show", "--source", "cluster")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid source")
}

func TestConfigRestore(t *testing.T) {
	isolate(t)

	stdout, _, err := run(t, "config", "restore")
	require.NoError(t, err)
	assert.Contains(t, stdout, "No backups found")

	// Given: an upgraded config with one backup
	userPath := config.GetUserConfigPath()
	require.NoError(t, os.MkdirAll(filepath.Dir(userPath), 0o755))
	require.NoError(t, os.WriteFile(userPath, []byte("logging:\n  debug: true\n"), 0o644))
	_, _, err = run(t, "config", "init", "--force")
	require.NoError(t, err)

	// When: restoring the newest backup
	stdout, _, err = run(t, "config", "restore")

	// Then: the original content is back
	require.NoError(t, err)
	assert.Contains(t, stdout, "Restored user configuration")
	assert.Equal(t, "logging:\n  debug: true\n", readFile(t, userPath))
}
