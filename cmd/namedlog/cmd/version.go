package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/spf13/cobra"

	"github.com/Aman-CERP/namedlog/pkg/version"
)

type versionOptions struct {
	json    bool
	short   bool
	verbose bool
}

func newVersionCmd() *cobra.Command {
	var opts versionOptions

	cmd := &cobra.Command{
		Use:   "version",
		Short: "Show the namedlog build",
		Long: heredoc.Doc(`
			Show which namedlog build is running.

			Release builds carry the version, commit and date injected at link
			time. Builds from go install fall back to the module and VCS data
			embedded by the Go toolchain.
		`),
		Example: heredoc.Doc(`
			namedlog version
			namedlog version --short      # e.g. for scripts comparing releases
			namedlog version --verbose    # one field per line, with platform
			namedlog version --json
		`),
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runVersion(cmd.OutOrStdout(), opts)
		},
	}

	cmd.Flags().BoolVar(&opts.json, "json", false, "Output build info as JSON")
	cmd.Flags().BoolVar(&opts.short, "short", false, "Output only the version number")
	cmd.Flags().BoolVarP(&opts.verbose, "verbose", "v", false, "Output every build field, including platform")
	cmd.MarkFlagsMutuallyExclusive("json", "short", "verbose")

	return cmd
}

func runVersion(w io.Writer, opts versionOptions) error {
	info := version.GetInfo()

	switch {
	case opts.json:
		return writeJSON(w, info)
	case opts.short:
		_, err := fmt.Fprintln(w, info.Version)
		return err
	case opts.verbose:
		tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
		_, _ = fmt.Fprintf(tw, "Version:\t%s\n", info.Version)
		_, _ = fmt.Fprintf(tw, "Commit:\t%s\n", info.Commit)
		_, _ = fmt.Fprintf(tw, "Built:\t%s\n", info.Date)
		_, _ = fmt.Fprintf(tw, "Go:\t%s\n", info.GoVersion)
		_, _ = fmt.Fprintf(tw, "Platform:\t%s/%s\n", info.OS, info.Arch)
		return tw.Flush()
	default:
		_, err := fmt.Fprintln(w, version.String())
		return err
	}
}

// writeJSON writes v as indented JSON.
func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
