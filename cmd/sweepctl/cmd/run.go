package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/armadaproject/sweeper/internal/common/app"
	"github.com/armadaproject/sweeper/internal/sweepctl"
)

// Compose the sweep and launch its jobs, batch by batch.
func runCmd(a *sweepctl.App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run [overrides...]",
		Short: "Compose a sweep and launch its jobs.",
		PreRunE: func(cmd *cobra.Command, args []string) error {
			return initParams(cmd, a)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			// Cancelled on SIGINT/SIGTERM so that running jobs are stopped on ctrl-C.
			ctx, cancel := app.CreateContextWithShutdown(context.Background())
			defer cancel()
			return a.Run(ctx, args)
		},
	}
	return cmd
}
