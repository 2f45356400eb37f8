package cmd

import (
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/spf13/cobra"

	nlerrors "github.com/Aman-CERP/namedlog/internal/errors"
	"github.com/Aman-CERP/namedlog/internal/logging"
)

const (
	emitCmdUsage = "emit NAME MESSAGE..."
	emitCmdShort = "write one record through a named instance"
	emitCmdLong  = `Set up the logging instance NAME and write MESSAGE through it.

	The record goes to <dir>/<NAME>.log and to the console. A record below
	the instance threshold is dropped silently: debug records only appear
	when the instance is in debug mode.

	Without --logger-debug the instance follows the default debug mode
	(--debug, NAMEDLOG_DEBUG or the config file).`
	emitCmdExample = `# Write an info record to logging/logs/train.log
	namedlog emit train "epoch 1 finished"

	# Debug records need debug mode
	namedlog --debug emit train --level debug "batch 17 loaded"

	# Override debug mode for this instance only
	namedlog emit classify --level debug --logger-debug "hello"`
)

// validLevels are the names accepted by --level.
var validLevels = []string{"debug", "info", "warning", "warn", "error"}

func newEmitCmd(a *app) *cobra.Command {
	var (
		level       string
		loggerDebug bool
	)

	cmd := &cobra.Command{
		Use:     emitCmdUsage,
		Short:   heredoc.Doc(emitCmdShort),
		Long:    heredoc.Doc(emitCmdLong),
		Example: heredoc.Doc(emitCmdExample),
		Args:    cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			name := args[0]
			message := strings.Join(args[1:], " ")

			lvl := strings.ToLower(level)
			if !slices.Contains(validLevels, lvl) {
				return nlerrors.New(nlerrors.ErrCodeInvalidLevel,
					fmt.Sprintf("unknown level %q", level), nil).
					WithSuggestion("Use one of: " + strings.Join(validLevels, ", "))
			}

			reg, err := a.registryFor(cmd)
			if err != nil {
				return err
			}
			defer func() { err = errors.Join(err, a.close()) }()

			var opts []logging.SetupOption
			if cmd.Flags().Changed("logger-debug") {
				opts = append(opts, logging.WithDebug(loggerDebug))
			}

			log, err := reg.Setup(name, opts...)
			if err != nil {
				classified := nlerrors.Classify(err)
				if a.log != nil {
					a.log.Error("setup failed", nlerrors.LogAttrs(classified)...)
				}
				return classified
			}
			a.debugf("emitting %s record through %s (threshold %s)", lvl, name, logging.LevelName(log.Level()))

			switch logging.LevelFromString(lvl) {
			case slog.LevelDebug:
				logging.Debug(log, message)
			case slog.LevelWarn:
				log.Warn(message)
			case slog.LevelError:
				log.Error(message)
			default:
				log.Info(message)
			}

			return nil
		},
	}

	cmd.Flags().StringVarP(&level, "level", "l", "info", "Record level (debug|info|warning|error)")
	cmd.Flags().BoolVar(&loggerDebug, "logger-debug", false, "Debug mode for this instance only (overrides the default)")

	return cmd
}
