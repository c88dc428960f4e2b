package cmd

import (
	"github.com/spf13/cobra"

	"github.com/armadaproject/sweeper/internal/sweepctl"
)

func entrypointsCmd(a *sweepctl.App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "entrypoints",
		Short: "List the registered entrypoints.",
		Long: `List the registered entrypoints.

Besides registered names, an entrypoint may be a YAML, JSON or HCL file of override
sets (optionally prefixed with file:), or a command printing override sets as YAML
on its standard output, prefixed with exec:.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.Entrypoints()
		},
	}
	return cmd
}
