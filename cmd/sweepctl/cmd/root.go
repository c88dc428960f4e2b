package cmd

import (
	"github.com/spf13/cobra"

	"github.com/armadaproject/sweeper/internal/sweepctl"
)

// RootCmd is the root Cobra command that gets called from the main func.
// All other sub-commands should be registered here.
func RootCmd() *cobra.Command {
	return rootCmd(sweepctl.New)
}

func rootCmd(newApp func() *sweepctl.App) *cobra.Command {
	cmd := &cobra.Command{
		Use:          "sweepctl",
		SilenceUsage: true,
		Short:        "sweepctl composes parameter sweeps and launches their jobs.",
		Long: `sweepctl composes parameter sweeps and launches their jobs.

Overrides are given as arguments, e.g. lr=0.1,0.01 num_layers=range(1,4) +dropout=0.5.
Every override with several values is an axis of the sweep; the jobs are the
cartesian product of the axes and of the override sets returned by the configured
entrypoints, the first axis varying slowest.

Persistent config can be saved in a config file so it doesn't have to be specified every command.

Example structure:
sweeper:
  entrypoints: [multilayer]
  removeDuplicates: true
  maxBatchSize: 10
launcher:
  type: local
  command: [python, train.py]
  parallelism: 4

The location of this file can be passed in using the --config argument.
If not provided, $HOME/.sweepctl.yaml is used when it exists.`,
	}

	addConfigFlags(cmd)

	cmd.AddCommand(
		runCmd(newApp()),
		listCmd(newApp()),
		entrypointsCmd(newApp()),
		versionCmd(newApp()),
	)

	return cmd
}
