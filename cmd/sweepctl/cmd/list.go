package cmd

import (
	"github.com/spf13/cobra"

	"github.com/armadaproject/sweeper/internal/sweepctl"
)

// Print the jobs of a sweep without launching them.
func listCmd(a *sweepctl.App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list [overrides...]",
		Short: "Print the jobs a sweep would launch.",
		PreRunE: func(cmd *cobra.Command, args []string) error {
			return initParams(cmd, a)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := cmd.Flags().GetString("output")
			if err != nil {
				return err
			}
			return a.List(args, format)
		},
	}
	cmd.Flags().StringP("output", "o", sweepctl.TextFormat, "Output format: text or yaml")
	return cmd
}
