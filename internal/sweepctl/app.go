package sweepctl

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"sigs.k8s.io/yaml"

	"github.com/armadaproject/sweeper/internal/common/config"
	"github.com/armadaproject/sweeper/internal/common/slices"
	"github.com/armadaproject/sweeper/internal/sweeper"
	"github.com/armadaproject/sweeper/internal/sweeper/configuration"
	"github.com/armadaproject/sweeper/internal/sweeper/metrics"
	"github.com/armadaproject/sweeper/pkg/entrypoint"
	"github.com/armadaproject/sweeper/pkg/launcher"
)

const (
	TextFormat = "text"
	YamlFormat = "yaml"
)

type App struct {
	// Parameters passed to the CLI by the user.
	Params *Params
	// Out is used to write the output. Defaults to standard out,
	// but can be overridden in tests to make assertions on the applications's output.
	Out io.Writer
	// Registry resolves entrypoint names.
	Registry *entrypoint.Registry
}

// Params holds the configuration assembled from the default configuration, config files, the environment and
// command line flags.
type Params struct {
	Config configuration.SweeperConfiguration
}

// New instantiates an App writing to standard out and resolving entrypoints with entrypoint.Default.
func New() *App {
	return &App{
		Params:   &Params{},
		Out:      os.Stdout,
		Registry: entrypoint.Default,
	}
}

func (a *App) validateParams() error {
	if err := a.Params.Config.Validate(); err != nil {
		config.LogValidationErrors(err)
		return errors.WithMessage(err, "invalid configuration")
	}
	return nil
}

func (a *App) newSweeper(l launcher.Launcher) *sweeper.Sweeper {
	return sweeper.New(a.Params.Config, a.Registry, l, metrics.NewMetrics(metrics.SweeperMetricsPrefix))
}

// Run composes the sweep described by overrides and the configured entrypoints and launches it.
func (a *App) Run(ctx context.Context, overrides []string) error {
	if err := a.validateParams(); err != nil {
		return err
	}
	l, err := sweeper.NewLauncher(a.Params.Config.Launcher, a.Out)
	if err != nil {
		return err
	}
	result, err := a.newSweeper(l).Sweep(ctx, overrides)
	if err != nil {
		return err
	}

	failed := slices.Filter(result.Returns, func(ret launcher.JobReturn) bool {
		return ret.Status == launcher.StatusFailed
	})
	log.WithField("runId", result.RunId).Infof(
		"%d of %d jobs completed in %s", len(result.Returns)-len(failed), len(result.Returns), result.Duration)
	if len(failed) > 0 {
		return errors.Errorf("%d of %d jobs failed", len(failed), len(result.Returns))
	}
	return nil
}

type listOutput struct {
	Composed          int                    `json:"composed"`
	DuplicatesRemoved int                    `json:"duplicatesRemoved"`
	Batches           [][]sweeper.JobSummary `json:"batches"`
}

// List prints the jobs a sweep would launch, grouped by batch, without launching anything.
func (a *App) List(overrides []string, format string) error {
	if err := a.validateParams(); err != nil {
		return err
	}
	plan, err := a.newSweeper(nil).Plan(overrides)
	if err != nil {
		return err
	}

	switch format {
	case TextFormat:
		for i, batch := range plan.Batches {
			fmt.Fprintf(a.Out, "# batch %d\n", i)
			for _, job := range batch {
				fmt.Fprintf(a.Out, "#%d %s\n", job.Index, strings.Join(job.Overrides().Strings(), " "))
			}
		}
		if plan.DuplicatesRemoved > 0 {
			fmt.Fprintf(a.Out, "# %d duplicate jobs removed\n", plan.DuplicatesRemoved)
		}
		return nil
	case YamlFormat:
		out := listOutput{
			Composed:          plan.Composed,
			DuplicatesRemoved: plan.DuplicatesRemoved,
			Batches:           make([][]sweeper.JobSummary, len(plan.Batches)),
		}
		for i, batch := range plan.Batches {
			out.Batches[i] = sweeper.Summarize(batch)
		}
		data, err := yaml.Marshal(out)
		if err != nil {
			return errors.WithStack(err)
		}
		_, err = a.Out.Write(data)
		return errors.WithStack(err)
	default:
		return errors.Errorf("unknown output format %q, expected %s or %s", format, TextFormat, YamlFormat)
	}
}

// Entrypoints prints the names of the registered entrypoints.
func (a *App) Entrypoints() error {
	for _, name := range a.Registry.Names() {
		fmt.Fprintln(a.Out, name)
	}
	return nil
}
