package cmd

import (
	"github.com/spf13/cobra"

	"github.com/armadaproject/sweeper/internal/sweepctl"
)

// Print version info and exit.
func versionCmd(a *sweepctl.App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print version.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.Version()
		},
	}
	return cmd
}
