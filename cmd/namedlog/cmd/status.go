package cmd

import (
	"github.com/spf13/cobra"

	nlerrors "github.com/Aman-CERP/namedlog/internal/errors"
	"github.com/Aman-CERP/namedlog/internal/logging"
	"github.com/Aman-CERP/namedlog/internal/ui"
)

func newStatusCmd(a *app) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "status",
		Short: "List the instances that have written to the log directory",
		Long: `List every <name>.log file in the log directory with its size, the time
it was last written and its most recent record.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := a.loadConfig(cmd)
			if err != nil {
				return err
			}

			files, err := logging.ListInstances(cfg.Logging.Dir)
			if err != nil {
				return nlerrors.Classify(err)
			}

			status := ui.DirStatus{Dir: cfg.Logging.Dir, Instances: []ui.InstanceStatus{}}
			for _, f := range files {
				inst := ui.InstanceStatus{
					Name:     f.Name,
					Path:     f.Path,
					Size:     f.Size,
					Modified: f.Modified,
				}
				if f.Last.IsValid {
					last := f.Last.Time
					inst.LastLevel = f.Last.Level
					inst.LastTime = &last
					inst.LastMessage = f.Last.Msg
				}
				status.Instances = append(status.Instances, inst)
				status.TotalSize += f.Size
			}

			// Validate has already rejected unknown modes.
			mode, _ := ui.ParseColorMode(cfg.Logging.Console.Color)
			r := ui.NewStatusRenderer(cmd.OutOrStdout(), mode)
			if jsonOutput {
				return r.RenderJSON(status)
			}
			return r.Render(status)
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output status as JSON")

	return cmd
}
