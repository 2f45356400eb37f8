package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"

	"github.com/Aman-CERP/namedlog/internal/logging"
	"github.com/Aman-CERP/namedlog/internal/ui"
)

// EnvPrefix prefixes every environment variable read by Load.
const EnvPrefix = "NAMEDLOG_"

// Console stream names.
const (
	StreamStderr = "stderr"
	StreamStdout = "stdout"
)

// Project config file names, in lookup order.
var projectConfigNames = []string{".namedlog.yaml", ".namedlog.yml"}

// Config represents the complete namedlog configuration.
type Config struct {
	Version int           `yaml:"version" json:"version"`
	Logging LoggingConfig `yaml:"logging" json:"logging"`
}

// LoggingConfig configures the registry created by the CLI.
type LoggingConfig struct {
	// Dir is the directory file sinks are written to.
	// Relative paths are resolved against the working directory.
	Dir string `yaml:"dir" json:"dir"`

	// Debug is the registry default debug mode.
	Debug bool `yaml:"debug" json:"debug"`

	// Buffered disables the sync after every file write.
	Buffered bool `yaml:"buffered" json:"buffered"`

	Console ConsoleConfig `yaml:"console" json:"console"`
}

// ConsoleConfig configures the console sink.
type ConsoleConfig struct {
	// Stream is "stderr" (default) or "stdout".
	Stream string `yaml:"stream" json:"stream"`
	// Color is "auto" (default), "always" or "never".
	Color string `yaml:"color" json:"color"`
}

// envOverrides holds the environment layer. Nil fields were not set.
type envOverrides struct {
	Dir           *string `env:"DIR"`
	Debug         *bool   `env:"DEBUG"`
	Buffered      *bool   `env:"BUFFERED"`
	ConsoleStream *string `env:"CONSOLE_STREAM"`
	ConsoleColor  *string `env:"CONSOLE_COLOR"`
}

// NewConfig returns a Config with default values.
func NewConfig() *Config {
	return &Config{
		Version: 1,
		Logging: LoggingConfig{
			Dir:   logging.DefaultLogDir(),
			Debug: false,
			Console: ConsoleConfig{
				Stream: StreamStderr,
				Color:  string(ui.ColorAuto),
			},
		},
	}
}

// GetUserConfigPath returns the path to the user configuration file.
// Respects XDG_CONFIG_HOME, falls back to ~/.config/namedlog/config.yaml.
func GetUserConfigPath() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "namedlog", "config.yaml")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(os.TempDir(), ".config", "namedlog", "config.yaml")
	}
	return filepath.Join(home, ".config", "namedlog", "config.yaml")
}

// GetUserConfigDir returns the directory containing the user config.
func GetUserConfigDir() string {
	return filepath.Dir(GetUserConfigPath())
}

// UserConfigExists reports whether the user config file exists.
func UserConfigExists() bool {
	return fileExists(GetUserConfigPath())
}

// ProjectConfigPath returns the project config file in dir, or "" if there
// is none.
func ProjectConfigPath(dir string) string {
	for _, name := range projectConfigNames {
		p := filepath.Join(dir, name)
		if fileExists(p) {
			return p
		}
	}
	return ""
}

// LoadUserConfig loads the user configuration file on top of the defaults.
// Returns nil config and nil error if the file doesn't exist.
func LoadUserConfig() (*Config, error) {
	configPath := GetUserConfigPath()
	if !fileExists(configPath) {
		return nil, nil
	}

	cfg := NewConfig()
	if err := cfg.loadYAML(configPath); err != nil {
		return nil, fmt.Errorf("failed to load user config from %s: %w", configPath, err)
	}
	return cfg, nil
}

// LoadFile loads a single config file on top of the defaults, without the
// user config or the environment.
func LoadFile(path string) (*Config, error) {
	cfg := NewConfig()
	if err := cfg.loadYAML(path); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ReadFile decodes a single config file without applying defaults. Settings
// absent from the file keep their zero value.
func ReadFile(path string) (*Config, error) {
	cfg := &Config{}
	if err := cfg.loadYAML(path); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Load loads configuration with the following precedence (lowest to highest):
//  1. Hardcoded defaults
//  2. User config (~/.config/namedlog/config.yaml)
//  3. Project config (.namedlog.yaml or .namedlog.yml in dir)
//  4. Environment variables (NAMEDLOG_*, NO_COLOR)
func Load(dir string) (*Config, error) {
	cfg := NewConfig()

	if userPath := GetUserConfigPath(); fileExists(userPath) {
		if err := cfg.loadYAML(userPath); err != nil {
			return nil, fmt.Errorf("failed to load user config: %w", err)
		}
	}

	if projectPath := ProjectConfigPath(dir); projectPath != "" {
		if err := cfg.loadYAML(projectPath); err != nil {
			return nil, err
		}
	}

	if err := cfg.applyEnvOverrides(); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// loadYAML decodes path on top of c. Keys absent from the file keep their
// current value; unknown keys are rejected.
func (c *Config) loadYAML(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(c); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	return nil
}

// applyEnvOverrides applies NAMEDLOG_* variables. NO_COLOR forces the
// console colour mode to never.
func (c *Config) applyEnvOverrides() error {
	var o envOverrides
	if err := env.ParseWithOptions(&o, env.Options{Prefix: EnvPrefix}); err != nil {
		return fmt.Errorf("invalid environment: %w", err)
	}

	if o.Dir != nil {
		c.Logging.Dir = *o.Dir
	}
	if o.Debug != nil {
		c.Logging.Debug = *o.Debug
	}
	if o.Buffered != nil {
		c.Logging.Buffered = *o.Buffered
	}
	if o.ConsoleStream != nil {
		c.Logging.Console.Stream = strings.ToLower(*o.ConsoleStream)
	}
	if o.ConsoleColor != nil {
		c.Logging.Console.Color = strings.ToLower(*o.ConsoleColor)
	}

	if ui.DetectNoColor() {
		c.Logging.Console.Color = string(ui.ColorNever)
	}

	return nil
}

// Validate validates the configuration and returns an error if invalid.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Logging.Dir) == "" {
		return fmt.Errorf("logging.dir must not be empty")
	}

	switch strings.ToLower(c.Logging.Console.Stream) {
	case StreamStderr, StreamStdout:
	default:
		return fmt.Errorf("logging.console.stream must be 'stderr' or 'stdout', got %q", c.Logging.Console.Stream)
	}

	if _, err := ui.ParseColorMode(c.Logging.Console.Color); err != nil {
		return fmt.Errorf("logging.console.color: %w", err)
	}

	return nil
}

// RegistryOptions converts the configuration into logging registry options.
// stdout and stderr are the streams the console setting selects from.
func (c *Config) RegistryOptions(stdout, stderr io.Writer) logging.Options {
	console := stderr
	if strings.EqualFold(c.Logging.Console.Stream, StreamStdout) {
		console = stdout
	}

	// Validate has already rejected unknown modes.
	color, _ := ui.ParseColorMode(c.Logging.Console.Color)

	return logging.Options{
		Dir:          c.Logging.Dir,
		Debug:        c.Logging.Debug,
		Console:      console,
		Color:        color,
		BufferedFile: c.Logging.Buffered,
	}
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// MergeNewDefaults fills settings missing from an older config file with
// their defaults. Returns the names of the fields that were added.
func (c *Config) MergeNewDefaults() []string {
	defaults := NewConfig()
	var added []string

	if c.Version == 0 {
		c.Version = defaults.Version
		added = append(added, "version")
	}
	if c.Logging.Dir == "" {
		c.Logging.Dir = defaults.Logging.Dir
		added = append(added, "logging.dir")
	}
	if c.Logging.Console.Stream == "" {
		c.Logging.Console.Stream = defaults.Logging.Console.Stream
		added = append(added, "logging.console.stream")
	}
	if c.Logging.Console.Color == "" {
		c.Logging.Console.Color = defaults.Logging.Console.Color
		added = append(added, "logging.console.color")
	}
	// debug and buffered are booleans: "unset" and false are the same value.

	return added
}

// FindProjectRoot finds the project root directory.
// It looks for a .git directory or a project config file by walking up the
// directory tree, and returns startDir (absolute) when neither is found.
func FindProjectRoot(startDir string) (string, error) {
	absDir, err := filepath.Abs(startDir)
	if err != nil {
		return "", fmt.Errorf("failed to get absolute path: %w", err)
	}

	currentDir := absDir
	for {
		if dirExists(filepath.Join(currentDir, ".git")) || ProjectConfigPath(currentDir) != "" {
			return currentDir, nil
		}

		parentDir := filepath.Dir(currentDir)
		if parentDir == currentDir {
			return absDir, nil
		}
		currentDir = parentDir
	}
}

// fileExists checks if a file exists and is not a directory.
func fileExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return !info.IsDir()
}

// dirExists checks if a directory exists.
func dirExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return info.IsDir()
}
