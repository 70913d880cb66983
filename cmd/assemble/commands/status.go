package commands

import (
	"github.com/spf13/cobra"
	"go.trai.ch/assemble/internal/ui/output"
	"go.trai.ch/assemble/internal/ui/report"
)

func (c *CLI) newStatusCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Compare each working tree with the commit recorded in the ledger",
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

			statuses, err := c.app.Status(cmd.Context(), s)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			output.ConfigureLipgloss(out)
			return report.Status(out, format, statuses)
		},
	}
	cmd.Flags().StringP("output", "o", string(report.FormatTable), "Output format: table, yaml, or json")
	return cmd
}
