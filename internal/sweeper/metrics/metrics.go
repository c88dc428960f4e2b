package metrics

import (
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/armadaproject/sweeper/pkg/launcher"
)

const SweeperMetricsPrefix = "sweeper_"

// Metrics collects the statistics of sweeps in a dedicated registry.
type Metrics struct {
	registry          *prometheus.Registry
	jobsComposed      prometheus.Counter
	duplicatesRemoved prometheus.Counter
	batchesLaunched   prometheus.Counter
	jobsFinished      *prometheus.CounterVec
	jobDuration       prometheus.Histogram
	lastSweepJobs     prometheus.Gauge
}

func NewMetrics(prefix string) *Metrics {
	registry := prometheus.NewRegistry()
	factory := promauto.With(registry)
	return &Metrics{
		registry: registry,
		jobsComposed: factory.NewCounter(prometheus.CounterOpts{
			Name: prefix + "jobs_composed_total",
			Help: "Number of jobs produced by composing the sweep sources, before deduplication",
		}),
		duplicatesRemoved: factory.NewCounter(prometheus.CounterOpts{
			Name: prefix + "duplicate_jobs_removed_total",
			Help: "Number of composed jobs dropped because an identical job came earlier",
		}),
		batchesLaunched: factory.NewCounter(prometheus.CounterOpts{
			Name: prefix + "batches_launched_total",
			Help: "Number of batches handed to the launcher",
		}),
		jobsFinished: factory.NewCounterVec(prometheus.CounterOpts{
			Name: prefix + "jobs_finished_total",
			Help: "Number of launched jobs grouped by status",
		}, []string{"status"}),
		jobDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    prefix + "job_duration_seconds",
			Help:    "Run time of launched jobs",
			Buckets: prometheus.ExponentialBuckets(0.1, 4, 10),
		}),
		lastSweepJobs: factory.NewGauge(prometheus.GaugeOpts{
			Name: prefix + "last_sweep_jobs",
			Help: "Number of jobs of the last planned sweep",
		}),
	}
}

func (m *Metrics) RecordPlan(composed int, duplicatesRemoved int, jobs int) {
	m.jobsComposed.Add(float64(composed))
	m.duplicatesRemoved.Add(float64(duplicatesRemoved))
	m.lastSweepJobs.Set(float64(jobs))
}

func (m *Metrics) RecordBatch(returns []launcher.JobReturn) {
	m.batchesLaunched.Inc()
	for _, ret := range returns {
		m.jobsFinished.With(map[string]string{"status": ret.Status.String()}).Inc()
		if ret.Status != launcher.StatusSkipped {
			m.jobDuration.Observe(ret.Duration.Seconds())
		}
	}
}

func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// WriteToTextfile writes the current values of the metrics, and the log message counts when counted, to path,
// atomically.
func (m *Metrics) WriteToTextfile(path string) error {
	return errors.WithStack(prometheus.WriteToTextfile(path, prometheus.Gatherers{m.registry, logMessages}))
}
