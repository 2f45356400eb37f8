// Package main provides the namedlog-logs command - a viewer for the files
// written by named logging instances.
//
// Usage:
//
//	namedlog-logs [flags]
//
// Flags:
//
//	-f, --follow         Follow log output (like tail -f)
//	-n, --lines int      Number of lines to show (default 50)
//	    --level string   Minimum level (debug|info|warning|error)
//	    --filter string  Filter by pattern (regex)
//	    --color string   Color output: auto, always, never (default auto)
//	    --no-color       Disable colored output
//	    --file string    Custom log file path
//	    --name strings   Instance to show (repeatable)
//	    --dir string     Log directory (default from config)
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"regexp"
	"slices"
	"strings"
	"syscall"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/spf13/cobra"

	"github.com/Aman-CERP/namedlog/internal/config"
	nlerrors "github.com/Aman-CERP/namedlog/internal/errors"
	"github.com/Aman-CERP/namedlog/internal/logging"
	"github.com/Aman-CERP/namedlog/internal/ui"
	"github.com/Aman-CERP/namedlog/pkg/version"
)

var validLevels = []string{"debug", "info", "warning", "warn", "error"}

func main() {
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		_, _ = fmt.Fprint(os.Stderr, nlerrors.FormatForCLI(err))
		os.Exit(1)
	}
}

type logsOptions struct {
	follow  bool
	lines   int
	level   string
	filter  string
	color   string
	noColor bool
	logFile string
	names   []string
	dir     string
}

func newRootCmd() *cobra.Command {
	var opts logsOptions

	cmd := &cobra.Command{
		Use:   "namedlog-logs",
		Short: "View namedlog log files",
		Long: heredoc.Doc(`
			View and tail the files written by named logging instances.

			By default, shows the last 50 lines of every <name>.log file in the
			log directory, merged by timestamp. Use -f to follow new lines in
			real-time (like 'tail -f').

			The log directory comes from --dir, then the layered namedlog
			configuration (logging.dir), then logging/logs.
		`),
		Example: heredoc.Doc(`
			namedlog-logs                     # Last 50 lines of every instance
			namedlog-logs --name train        # Only logging/logs/train.log
			namedlog-logs --name a --name b   # Two instances merged by timestamp
			namedlog-logs -n 100              # Show last 100 lines
			namedlog-logs -f                  # Follow logs in real-time
			namedlog-logs --level warning     # Show WARNING and ERROR only
			namedlog-logs --filter "epoch"    # Filter by pattern
			namedlog-logs --color always | less -R
		`),
		Version:       version.Short(),
		SilenceErrors: true,
		SilenceUsage:  true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !cmd.Flags().Changed("dir") {
				dir, err := configuredLogDir()
				if err != nil {
					return err
				}
				opts.dir = dir
			}
			return runLogs(cmd.Context(), cmd.OutOrStdout(), cmd.ErrOrStderr(), opts)
		},
	}

	cmd.SetVersionTemplate("namedlog-logs version {{.Version}}\n")

	cmd.Flags().BoolVarP(&opts.follow, "follow", "f", false, "Follow log output (like tail -f)")
	cmd.Flags().IntVarP(&opts.lines, "lines", "n", 50, "Number of lines to show")
	cmd.Flags().StringVar(&opts.level, "level", "", "Minimum log level (debug|info|warning|error)")
	cmd.Flags().StringVar(&opts.filter, "filter", "", "Filter by keyword/pattern (regex)")
	cmd.Flags().StringVar(&opts.color, "color", string(ui.ColorAuto), "Color output (auto|always|never)")
	cmd.Flags().BoolVar(&opts.noColor, "no-color", false, "Disable colored output")
	cmd.Flags().StringVar(&opts.logFile, "file", "", "Path to log file (overrides --name and --dir)")
	cmd.Flags().StringSliceVar(&opts.names, "name", nil, "Instance name to show (repeatable)")
	cmd.Flags().StringVar(&opts.dir, "dir", "", "Log directory (default from config, then logging/logs)")

	return cmd
}

// configuredLogDir returns logging.dir of the configuration for the project
// containing the working directory.
func configuredLogDir() (string, error) {
	wd, err := os.Getwd()
	if err != nil {
		return "", nlerrors.InternalError("failed to get working directory", err)
	}
	root, err := config.FindProjectRoot(wd)
	if err != nil {
		return "", nlerrors.InternalError("failed to find project root", err)
	}
	cfg, err := config.Load(root)
	if err != nil {
		return "", nlerrors.ConfigError("failed to load configuration", err)
	}
	return cfg.Logging.Dir, nil
}

func runLogs(ctx context.Context, stdout, stderr io.Writer, opts logsOptions) error {
	if opts.level != "" && !slices.Contains(validLevels, strings.ToLower(opts.level)) {
		return nlerrors.New(nlerrors.ErrCodeInvalidLevel,
			fmt.Sprintf("unknown level %q", opts.level), nil).
			WithSuggestion("Use one of: " + strings.Join(validLevels, ", "))
	}
	if opts.lines < 1 {
		return nlerrors.ValidationError(fmt.Sprintf("--lines must be at least 1, got %d", opts.lines), nil)
	}

	color, err := ui.ParseColorMode(opts.color)
	if err != nil {
		return nlerrors.ValidationError(fmt.Sprintf("invalid --color value %q", opts.color), err).
			WithSuggestion("Use one of: auto, always, never")
	}

	var pattern *regexp.Regexp
	if opts.filter != "" {
		pattern, err = regexp.Compile(opts.filter)
		if err != nil {
			return nlerrors.New(nlerrors.ErrCodeInvalidPattern, "invalid filter pattern", err).
				WithSuggestion("Use Go regular expression syntax (https://pkg.go.dev/regexp/syntax)")
		}
	}

	paths, err := logging.FindLogFiles(opts.dir, opts.names, opts.logFile)
	if err != nil {
		return nlerrors.New(nlerrors.ErrCodeFileNotFound, err.Error(), nil)
	}

	viewer := logging.NewViewer(logging.ViewerConfig{
		Level:    opts.level,
		Pattern:  pattern,
		NoColor:  opts.noColor,
		Color:    color,
		ShowName: len(paths) > 1,
	}, stdout)

	if len(paths) == 1 {
		_, _ = fmt.Fprintf(stderr, "Log file: %s\n", paths[0])
	} else {
		_, _ = fmt.Fprintf(stderr, "Log files: %s\n", strings.Join(paths, ", "))
	}
	if opts.follow {
		_, _ = fmt.Fprintln(stderr, "Following... (Ctrl+C to stop)")
	}
	_, _ = fmt.Fprintln(stderr, "---")

	if opts.follow {
		return runFollow(ctx, viewer, paths, stdout, stderr)
	}

	var entries []logging.LogEntry
	if len(paths) == 1 {
		entries, err = viewer.Tail(paths[0], opts.lines)
	} else {
		entries, err = viewer.TailMultiple(paths, opts.lines)
	}
	if err != nil {
		return err
	}

	viewer.Print(entries)
	return nil
}

// runFollow prints new entries of paths until interrupted or ctx is done.
func runFollow(ctx context.Context, viewer *logging.Viewer, paths []string, stdout, stderr io.Writer) error {
	ctx, cancel := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	entries := make(chan logging.LogEntry, 100)
	errCh := make(chan error, 1)

	go func() {
		if len(paths) == 1 {
			errCh <- viewer.Follow(ctx, paths[0], entries)
			return
		}
		errCh <- viewer.FollowMultiple(ctx, paths, entries)
	}()

	for {
		select {
		case entry := <-entries:
			_, _ = fmt.Fprintln(stdout, viewer.FormatEntry(entry))
		case err := <-errCh:
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintln(stderr, "\n---")
			_, _ = fmt.Fprintln(stderr, "Stopped.")
			return nil
		case <-ctx.Done():
			_, _ = fmt.Fprintln(stderr, "\n---")
			_, _ = fmt.Fprintln(stderr, "Stopped.")
			return nil
		}
	}
}
