package sweeper

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"k8s.io/utils/clock"
	"sigs.k8s.io/yaml"

	"github.com/armadaproject/sweeper/internal/common/logging"
	"github.com/armadaproject/sweeper/internal/common/slices"
	"github.com/armadaproject/sweeper/internal/sweeper/configuration"
	"github.com/armadaproject/sweeper/internal/sweeper/metrics"
	"github.com/armadaproject/sweeper/pkg/entrypoint"
	"github.com/armadaproject/sweeper/pkg/launcher"
	"github.com/armadaproject/sweeper/pkg/override"
	"github.com/armadaproject/sweeper/pkg/sweep"
)

const SweepConfigFile = "multirun.yaml"

// Sweeper turns command line overrides and the configured entrypoints into jobs and hands them to a launcher,
// one batch at a time.
type Sweeper struct {
	config          configuration.SweepConfig
	metricsTextfile string
	resolver        entrypoint.Resolver
	launcher        launcher.Launcher
	metrics         *metrics.Metrics
	clock           clock.PassiveClock
	newRunId        func() string
}

// Result describes a finished, or partially finished, sweep.
type Result struct {
	RunId     string
	StartTime time.Time
	// Duration is the time spent launching the batches.
	Duration time.Duration
	Plan     *sweep.Plan
	Returns  []launcher.JobReturn
}

func New(
	config configuration.SweeperConfiguration,
	resolver entrypoint.Resolver,
	l launcher.Launcher,
	m *metrics.Metrics,
) *Sweeper {
	return &Sweeper{
		config:          config.Sweeper,
		metricsTextfile: config.Metrics.Textfile,
		resolver:        resolver,
		launcher:        l,
		metrics:         m,
		clock:           clock.RealClock{},
		newRunId:        func() string { return uuid.NewString() },
	}
}

// Plan parses arguments into the base grid, materializes the configured entrypoints and composes them into the
// ordered job list. Nothing is launched.
func (s *Sweeper) Plan(arguments []string) (*sweep.Plan, error) {
	axes, err := override.ParseOverrides(arguments)
	if err != nil {
		return nil, err
	}
	sources, err := entrypoint.Materialize(s.resolver, s.config.Entrypoints)
	if err != nil {
		return nil, err
	}
	sources = append([]sweep.Source{sweep.BaseGrid(axes)}, sources...)
	plan := sweep.NewPlan(sources, sweep.Options{
		RemoveDuplicates: s.config.RemoveDuplicates,
		MaxBatchSize:     s.config.MaxBatchSize,
	})
	if s.metrics != nil {
		s.metrics.RecordPlan(plan.Composed, plan.DuplicatesRemoved, len(plan.Jobs))
	}
	return plan, nil
}

// Sweep plans the sweep and launches its batches in order. Each batch starts at the global index following the
// last job of the previous batch. A launcher error stops the sweep and is returned with the returns collected so
// far; errors.Cause of the returned error is the launcher's error.
func (s *Sweeper) Sweep(ctx context.Context, arguments []string) (*Result, error) {
	result := &Result{RunId: s.newRunId(), StartTime: s.clock.Now()}
	logger := log.WithField("runId", result.RunId)

	plan, err := s.Plan(arguments)
	if err != nil {
		return result, err
	}
	result.Plan = plan
	defer s.writeMetrics(logger)

	if err := s.saveSweepConfig(result.RunId, arguments, plan); err != nil {
		return result, err
	}
	if plan.Empty() {
		logger.Info("no jobs to launch")
		return result, nil
	}
	if plan.DuplicatesRemoved > 0 {
		logger.Infof("removed %d duplicate jobs", plan.DuplicatesRemoved)
	}

	logger.Infof("launching %d jobs in %d batches", len(plan.Jobs), len(plan.Batches))
	defer func() { result.Duration = s.clock.Since(result.StartTime) }()
	initialJobIdx := 0
	for i, batch := range plan.Batches {
		if err := ctx.Err(); err != nil {
			return result, errors.WithStack(err)
		}
		logger.Debugf("launching batch %d with jobs %d to %d", i, initialJobIdx, initialJobIdx+len(batch)-1)
		returns, err := s.launcher.Launch(ctx, batch, initialJobIdx)
		result.Returns = append(result.Returns, returns...)
		if s.metrics != nil {
			s.metrics.RecordBatch(returns)
		}
		if err != nil {
			return result, errors.Wrapf(err, "batch %d of %d failed", i+1, len(plan.Batches))
		}
		initialJobIdx += len(batch)
	}
	return result, nil
}

type sweepConfig struct {
	RunId            string       `json:"runId"`
	Arguments        []string     `json:"arguments"`
	Entrypoints      []string     `json:"entrypoints"`
	RemoveDuplicates bool         `json:"removeDuplicates"`
	MaxBatchSize     *int         `json:"maxBatchSize"`
	Jobs             []JobSummary `json:"jobs"`
}

// JobSummary is the serialized form of a planned job.
type JobSummary struct {
	Index     int      `json:"index"`
	Overrides []string `json:"overrides"`
}

func Summarize(jobs []sweep.Job) []JobSummary {
	return slices.Map(jobs, func(job sweep.Job) JobSummary {
		return JobSummary{Index: job.Index, Overrides: job.Overrides().Strings()}
	})
}

func (s *Sweeper) saveSweepConfig(runId string, arguments []string, plan *sweep.Plan) error {
	if s.config.SweepDir == "" {
		return nil
	}
	data, err := yaml.Marshal(sweepConfig{
		RunId:            runId,
		Arguments:        arguments,
		Entrypoints:      s.config.Entrypoints,
		RemoveDuplicates: s.config.RemoveDuplicates,
		MaxBatchSize:     s.config.MaxBatchSize,
		Jobs:             Summarize(plan.Jobs),
	})
	if err != nil {
		return errors.WithStack(err)
	}
	if err := os.MkdirAll(s.config.SweepDir, 0o755); err != nil {
		return errors.WithStack(err)
	}
	path := filepath.Join(s.config.SweepDir, SweepConfigFile)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errors.WithStack(err)
	}
	log.Debugf("saved sweep configuration to %s", path)
	return nil
}

func (s *Sweeper) writeMetrics(logger *log.Entry) {
	if s.metrics == nil || s.metricsTextfile == "" {
		return
	}
	if err := s.metrics.WriteToTextfile(s.metricsTextfile); err != nil {
		logging.WithStacktrace(logger, err).Warn("failed to write metrics")
	}
}
