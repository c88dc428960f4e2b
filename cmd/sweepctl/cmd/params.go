package cmd

import (
	"os"

	"github.com/mitchellh/go-homedir"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/armadaproject/sweeper/internal/common"
	"github.com/armadaproject/sweeper/internal/sweepctl"
	"github.com/armadaproject/sweeper/internal/sweeper/configuration"
)

const (
	CustomConfigLocation = "config"
	UserConfigFile       = "~/.sweepctl.yaml"
)

// configFlags maps command line flags to the configuration keys they override.
var configFlags = map[string]string{
	"entrypoint":        "sweeper.entrypoints",
	"remove-duplicates": "sweeper.removeDuplicates",
	"max-batch-size":    "sweeper.maxBatchSize",
	"sweep-dir":         "sweeper.sweepDir",
	"launcher":          "launcher.type",
	"parallelism":       "launcher.parallelism",
	"fail-fast":         "launcher.failFast",
	"timeout":           "launcher.timeout",
	"retries":           "launcher.retries",
	"metrics-textfile":  "metrics.textfile",
	"log-level":         "logging.level",
}

func addConfigFlags(cmd *cobra.Command) {
	flags := cmd.PersistentFlags()
	flags.StringSlice(
		CustomConfigLocation,
		[]string{},
		"Fully qualified path to application configuration file (for multiple config files repeat this arg or separate paths with commas)")
	flags.StringSliceP("entrypoint", "e", nil, "Entrypoint to compose after the command line overrides (repeat this arg to compose several)")
	flags.Bool("remove-duplicates", false, "Drop jobs whose resolved configuration equals an earlier job's")
	flags.String("max-batch-size", "", "Maximum number of jobs per batch, or \"unlimited\"")
	flags.String("sweep-dir", "", "Directory the sweep configuration is saved to")
	flags.String("launcher", "", "Launcher to use: print or local")
	flags.Int("parallelism", 1, "Number of jobs the local launcher runs at once")
	flags.Bool("fail-fast", true, "Stop the sweep at the first failed job")
	flags.Duration("timeout", 0, "Maximum run time of a single attempt of a job")
	flags.Int("retries", 0, "Number of times a failed job is started again")
	flags.String("metrics-textfile", "", "File the sweep metrics are written to in the Prometheus text format")
	flags.String("log-level", "", "Log level")
}

func initParams(cmd *cobra.Command, app *sweepctl.App) error {
	configFiles, err := cmd.Flags().GetStringSlice(CustomConfigLocation)
	if err != nil {
		return errors.WithStack(err)
	}
	if len(configFiles) == 0 {
		path, err := userConfigFile()
		if err != nil {
			return err
		}
		if path != "" {
			configFiles = []string{path}
		}
	}

	flags := make(map[string]*pflag.Flag, len(configFlags))
	for name, key := range configFlags {
		flags[key] = cmd.Flags().Lookup(name)
	}
	if _, err := common.LoadConfig(&app.Params.Config, configuration.DefaultConfig, configFiles, flags); err != nil {
		return err
	}
	return common.ConfigureLogLevel(app.Params.Config.Logging.Level)
}

// userConfigFile returns the path of the user's config file, or the empty string if there is none.
func userConfigFile() (string, error) {
	path, err := homedir.Expand(UserConfigFile)
	if err != nil {
		return "", errors.Wrap(err, "error getting user home directory")
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return "", nil
		}
		return "", errors.WithStack(err)
	}
	return path, nil
}
