// Package launcher runs the jobs of a sweep, one batch at a time.
package launcher

import (
	"context"
	"time"

	"github.com/armadaproject/sweeper/pkg/sweep"
)

type Status int

const (
	StatusCompleted Status = iota
	StatusFailed
	// StatusSkipped is reported for jobs that never started because the launch was cancelled.
	StatusSkipped
)

func (s Status) String() string {
	switch s {
	case StatusCompleted:
		return "completed"
	case StatusFailed:
		return "failed"
	case StatusSkipped:
		return "skipped"
	default:
		return "unknown"
	}
}

// JobReturn is the outcome of one job.
type JobReturn struct {
	// Index is the global index of the job in the sweep.
	Index     int
	Overrides []string
	Status    Status
	ExitCode  int
	Err       error
	// Attempts is the number of times the job was started.
	Attempts int
	Duration time.Duration
}

// Launcher launches a batch of jobs. initialJobIdx is the global index of the first job of the batch; the i-th
// job of the batch is job initialJobIdx+i of the sweep. Returns hold one entry per job, in batch order. An error
// is returned when the batch as a whole failed; it is reported to the caller unchanged.
type Launcher interface {
	Launch(ctx context.Context, jobs []sweep.Job, initialJobIdx int) ([]JobReturn, error)
}

// LaunchFunc adapts a function to the Launcher interface.
type LaunchFunc func(ctx context.Context, jobs []sweep.Job, initialJobIdx int) ([]JobReturn, error)

func (f LaunchFunc) Launch(ctx context.Context, jobs []sweep.Job, initialJobIdx int) ([]JobReturn, error) {
	return f(ctx, jobs, initialJobIdx)
}
