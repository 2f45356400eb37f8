package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/Aman-CERP/namedlog/configs"
	"github.com/Aman-CERP/namedlog/internal/config"
	"github.com/Aman-CERP/namedlog/internal/output"
)

const (
	configCmdShort = "Manage namedlog configuration"
	configCmdLong  = `Manage the configuration files read by namedlog.

	Configuration precedence (lowest to highest):
	  1. Hardcoded defaults
	  2. User config (~/.config/namedlog/config.yaml)
	  3. Project config (.namedlog.yaml)
	  4. Environment variables (NAMEDLOG_*, NO_COLOR)
	  5. Command line flags (--debug, --dir)`
	configCmdExample = `# Create user config from template
	namedlog config init

	# Show effective configuration (merged from all sources)
	namedlog config show

	# Print user config file path
	namedlog config path`
)

func newConfigCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "config",
		Short:   configCmdShort,
		Long:    heredoc.Doc(configCmdLong),
		Example: heredoc.Doc(configCmdExample),
	}

	cmd.AddCommand(newConfigInitCmd())
	cmd.AddCommand(newConfigShowCmd(a))
	cmd.AddCommand(newConfigPathCmd())
	cmd.AddCommand(newConfigRestoreCmd())

	return cmd
}

func newConfigInitCmd() *cobra.Command {
	var (
		force   bool
		project bool
	)

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create a configuration file from a template",
		Long: heredoc.Doc(`
			Create the user configuration file from a template, or a project
			configuration file (.namedlog.yaml) in the current directory with --project.

			With --force an existing user configuration is backed up and missing
			settings are added with their defaults. Existing values are preserved.`),
		Example: heredoc.Doc(`
			# Create user config
			namedlog config init

			# Add settings introduced since the file was created
			namedlog config init --force

			# Create .namedlog.yaml in the current directory
			namedlog config init --project`),
		RunE: func(cmd *cobra.Command, _ []string) error {
			if project {
				return runConfigInitProject(cmd, force)
			}
			return runConfigInit(cmd, force)
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Upgrade (user) or overwrite (project) an existing configuration")
	cmd.Flags().BoolVar(&project, "project", false, "Create a project configuration in the current directory")

	return cmd
}

func newConfigShowCmd(a *app) *cobra.Command {
	var (
		jsonOutput bool
		source     string
	)

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show effective configuration",
		Long: heredoc.Doc(`
			Show the effective configuration after merging all sources, or a single
			source with --source.`),
		Example: heredoc.Doc(`
			# Show merged configuration
			namedlog config show

			# Show as JSON
			namedlog config show --json

			# Show only the user config
			namedlog config show --source user`),
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runConfigShow(cmd, a, jsonOutput, source)
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	cmd.Flags().StringVar(&source, "source", "merged", "Config source: merged, user, project, defaults")

	return cmd
}

func newConfigPathCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print user config file path",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, err := fmt.Fprintln(cmd.OutOrStdout(), config.GetUserConfigPath())
			return err
		},
	}
}

func newConfigRestoreCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "restore [BACKUP]",
		Short: "Restore the user config from a backup",
		Long: heredoc.Doc(`
			Restore the user configuration from a backup created by
			'namedlog config init --force'. Without an argument the newest backup
			is restored. The current file is backed up first.`),
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConfigRestore(cmd, args)
		},
	}
}

func runConfigInit(cmd *cobra.Command, force bool) error {
	out := output.New(cmd.OutOrStdout())

	configPath := config.GetUserConfigPath()

	if config.UserConfigExists() {
		if !force {
			out.Warning("User configuration already exists")
			out.Statusf("📁", "Location: %s", configPath)
			out.Newline()
			out.Status("💡", "Use --force to upgrade with new defaults (preserves your settings)")
			return nil
		}
		return runConfigUpgrade(out, configPath)
	}

	if err := os.MkdirAll(config.GetUserConfigDir(), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory %s: %w", config.GetUserConfigDir(), err)
	}

	if err := os.WriteFile(configPath, []byte(configs.UserConfigTemplate), 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	out.Success("Created user configuration")
	out.Statusf("📁", "Location: %s", configPath)
	out.Newline()
	out.Status("📋", "Next steps:")
	out.Status("", "  1. Edit the file to customize settings")
	out.Status("", "  2. Run 'namedlog config show' to verify")

	return nil
}

// runConfigUpgrade performs backup + merge for an existing user config.
func runConfigUpgrade(out *output.Writer, configPath string) error {
	backupPath, err := config.BackupUserConfig()
	if err != nil {
		return fmt.Errorf("failed to backup config: %w", err)
	}

	existing, err := config.ReadFile(configPath)
	if err != nil {
		return fmt.Errorf("failed to load existing config: %w", err)
	}

	newFields := existing.MergeNewDefaults()

	if err := existing.WriteYAML(configPath); err != nil {
		return fmt.Errorf("failed to write upgraded config: %w", err)
	}

	out.Success("Configuration upgraded")
	out.Statusf("📁", "Location: %s", configPath)
	out.Statusf("💾", "Backup: %s", backupPath)
	out.Newline()

	if len(newFields) > 0 {
		out.Status("✨", "New options added with defaults:")
		for _, field := range newFields {
			out.Statusf("", "  - %s", field)
		}
	} else {
		out.Status("✓", "Your configuration is already up to date")
	}

	return nil
}

func runConfigInitProject(cmd *cobra.Command, force bool) error {
	out := output.New(cmd.OutOrStdout())

	cwd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("failed to get current directory: %w", err)
	}

	if existing := config.ProjectConfigPath(cwd); existing != "" && !force {
		out.Warning("Project configuration already exists")
		out.Statusf("📁", "Location: %s", existing)
		out.Status("💡", "Use --force to overwrite it")
		return nil
	}

	path := filepath.Join(cwd, ".namedlog.yaml")
	if err := os.WriteFile(path, []byte(configs.ProjectConfigTemplate), 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	out.Success("Created project configuration")
	out.Statusf("📁", "Location: %s", path)
	return nil
}

func runConfigShow(cmd *cobra.Command, a *app, jsonOutput bool, source string) error {
	out := output.New(cmd.OutOrStdout())

	var (
		cfg        *config.Config
		sourceDesc string
		err        error
	)

	switch source {
	case "merged":
		cfg, err = a.loadConfig(cmd)
		if err != nil {
			return err
		}
		sourceDesc = "merged (defaults + user + project + env + flags)"

	case "user":
		configPath := config.GetUserConfigPath()
		if cfg, err = config.LoadUserConfig(); err != nil {
			return err
		}
		if cfg == nil {
			out.Warning("No user configuration file found")
			out.Statusf("📁", "Expected at: %s", configPath)
			out.Status("💡", "Run 'namedlog config init' to create one")
			return nil
		}
		sourceDesc = fmt.Sprintf("user (%s)", configPath)

	case "project":
		cwd, err := os.Getwd()
		if err != nil {
			return fmt.Errorf("failed to get current directory: %w", err)
		}
		root, err := config.FindProjectRoot(cwd)
		if err != nil {
			root = cwd
		}
		configPath := config.ProjectConfigPath(root)
		if configPath == "" {
			out.Warning("No project configuration file found")
			out.Statusf("📁", "Expected at: %s", filepath.Join(root, ".namedlog.yaml"))
			out.Status("💡", "Run 'namedlog config init --project' to create one")
			return nil
		}
		if cfg, err = config.LoadFile(configPath); err != nil {
			return err
		}
		sourceDesc = fmt.Sprintf("project (%s)", configPath)

	case "defaults":
		cfg = config.NewConfig()
		sourceDesc = "defaults (hardcoded)"

	default:
		return fmt.Errorf("invalid source: %s (use: merged, user, project, defaults)", source)
	}

	if jsonOutput {
		return writeJSON(cmd.OutOrStdout(), cfg)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	out.Statusf("📋", "Configuration source: %s", sourceDesc)
	out.Code(string(data))
	return nil
}

func runConfigRestore(cmd *cobra.Command, args []string) error {
	out := output.New(cmd.OutOrStdout())

	var backupPath string
	if len(args) == 1 {
		backupPath = args[0]
	} else {
		backups, err := config.ListUserConfigBackups()
		if err != nil {
			return err
		}
		if len(backups) == 0 {
			out.Warning("No backups found")
			out.Statusf("📁", "Looked next to: %s", config.GetUserConfigPath())
			return nil
		}
		backupPath = backups[0]
	}

	if err := config.RestoreUserConfig(backupPath); err != nil {
		return err
	}

	out.Successf("Restored user configuration from %s", backupPath)
	return nil
}
