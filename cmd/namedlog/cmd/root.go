// Package cmd provides the CLI commands for namedlog.
package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/spf13/cobra"

	"github.com/Aman-CERP/namedlog/internal/config"
	nlerrors "github.com/Aman-CERP/namedlog/internal/errors"
	"github.com/Aman-CERP/namedlog/internal/logging"
	"github.com/Aman-CERP/namedlog/pkg/version"
)

// cliLoggerName is the instance the CLI logs its own activity to when
// --debug is given.
const cliLoggerName = "namedlog"

const (
	rootCmdShort = "write and inspect named log files"
	rootCmdLong  = `namedlog sets up named logging instances. Every instance writes
	each record to <dir>/<name>.log and to the console.

	Records below the instance threshold are dropped. The threshold is DEBUG
	when debug mode is on and INFO otherwise.

	Use 'namedlog-logs' to read the files back.`
)

// app holds the state shared by the commands of one invocation.
type app struct {
	debug bool
	dir   string

	cfg      *config.Config
	registry *logging.Registry
	log      *logging.Logger
}

// NewRootCmd creates the root command for the namedlog CLI.
func NewRootCmd() *cobra.Command {
	a := &app{}

	cmd := &cobra.Command{
		Use:     "namedlog",
		Short:   heredoc.Doc(rootCmdShort),
		Long:    heredoc.Doc(rootCmdLong),
		Version: version.Short(),

		SilenceErrors: true,
		SilenceUsage:  true,
	}

	cmd.SetVersionTemplate("namedlog version {{.Version}}\n")

	cmd.PersistentFlags().BoolVar(&a.debug, "debug", false, "Enable debug mode (DEBUG records are emitted)")
	cmd.PersistentFlags().StringVar(&a.dir, "dir", "", "Log directory (default from config, then logging/logs)")

	cmd.AddCommand(newEmitCmd(a))
	cmd.AddCommand(newConfigCmd(a))
	cmd.AddCommand(newStatusCmd(a))
	cmd.AddCommand(newVersionCmd())

	return cmd
}

// Execute runs the root command and returns the process exit code.
func Execute() int {
	cmd := NewRootCmd()
	if err := cmd.ExecuteContext(context.Background()); err != nil {
		_, _ = fmt.Fprint(os.Stderr, nlerrors.FormatForCLI(err))
		return 1
	}
	return 0
}

// loadConfig loads the layered configuration for the project containing the
// working directory and applies the persistent flags on top.
func (a *app) loadConfig(cmd *cobra.Command) (*config.Config, error) {
	if a.cfg != nil {
		return a.cfg, nil
	}

	cwd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("failed to get current directory: %w", err)
	}
	root, err := config.FindProjectRoot(cwd)
	if err != nil {
		root = cwd
	}

	cfg, err := config.Load(root)
	if err != nil {
		return nil, nlerrors.ConfigError(err.Error(), err)
	}

	flags := cmd.Flags()
	if flags.Changed("debug") {
		cfg.Logging.Debug = a.debug
	}
	if flags.Changed("dir") {
		cfg.Logging.Dir = a.dir
	}
	if err := cfg.Validate(); err != nil {
		return nil, nlerrors.ConfigError(err.Error(), err)
	}

	a.cfg = cfg
	return cfg, nil
}

// registryFor creates the logging registry for this invocation. With
// --debug, the CLI logs its own activity through an instance of it.
func (a *app) registryFor(cmd *cobra.Command) (*logging.Registry, error) {
	if a.registry != nil {
		return a.registry, nil
	}

	cfg, err := a.loadConfig(cmd)
	if err != nil {
		return nil, err
	}

	a.registry = logging.NewRegistry(cfg.RegistryOptions(cmd.OutOrStdout(), cmd.ErrOrStderr()))

	if cmd.Flags().Changed("debug") && a.debug {
		a.log, err = a.registry.Setup(cliLoggerName)
		if err != nil {
			_ = a.close()
			return nil, err
		}
		a.log.Debug("configuration loaded",
			"dir", cfg.Logging.Dir,
			"console", cfg.Logging.Console.Stream,
			"color", cfg.Logging.Console.Color)
	}

	return a.registry, nil
}

// debugf logs to the CLI instance when it exists.
func (a *app) debugf(format string, args ...any) {
	if a.log != nil {
		logging.Debug(a.log, fmt.Sprintf(format, args...))
	}
}

// close releases the registry created by registryFor.
func (a *app) close() error {
	if a.registry == nil {
		return nil
	}
	err := a.registry.Close()
	a.registry = nil
	return err
}
