package commands

import (
	"github.com/spf13/cobra"
	"go.trai.ch/assemble/internal/ui/output"
	"go.trai.ch/assemble/internal/ui/report"
)

func (c *CLI) newSyncCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Clone or update every project in the manifest and record its commit",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			format, err := outputFormat(cmd)
			if err != nil {
				return err
			}

			s, err := c.settings(cmd)
			if err != nil {
				return err
			}

			l, err := c.app.Sync(cmd.Context(), s)
			if err != nil {
				return err
			}

			if quiet, _ := cmd.Flags().GetBool("quiet"); quiet {
				return nil
			}
			out := cmd.OutOrStdout()
			output.ConfigureLipgloss(out)
			return report.Ledger(out, format, l)
		},
	}
	cmd.Flags().StringP("manifest", "m", "manifest.xml", "Manifest path, relative to the root")
	cmd.Flags().Int("depth", 0, "Clone with history truncated to this many commits (0 for full history)")
	cmd.Flags().Bool("cancel-on-failure", false, "Cancel projects still running once one project fails")
	cmd.Flags().StringP("output", "o", string(report.FormatTable), "Output format: table, yaml, or json")
	cmd.Flags().BoolP("quiet", "q", false, "Do not print the recorded commits")
	return cmd
}

func outputFormat(cmd *cobra.Command) (report.Format, error) {
	s, _ := cmd.Flags().GetString("output")
	return report.ParseFormat(s)
}
