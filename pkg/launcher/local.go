package launcher

import (
	"context"
	"io"
	"os"
	"os/exec"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/avast/retry-go"
	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
	"k8s.io/utils/clock"

	"github.com/armadaproject/sweeper/pkg/sweep"
)

const (
	JobIndexEnvVar     = "SWEEP_JOB_INDEX"
	JobOverridesEnvVar = "SWEEP_JOB_OVERRIDES"

	// outputWaitDelay bounds how long a killed job may keep its output pipes open.
	outputWaitDelay = time.Second
)

// LocalLauncher runs every job as a local process: the configured command followed by the job's overrides as
// key=value arguments. The global job index and the overrides are also exported to the process environment.
type LocalLauncher struct {
	Command []string
	// Parallelism is the maximum number of processes running at the same time within a batch.
	Parallelism int
	// FailFast cancels the batch on the first failed job and returns the failures as an error.
	FailFast bool
	// Timeout bounds the run time of a single attempt of a job. Zero means no limit.
	Timeout time.Duration
	// Retries is the number of times a failed job is started again before it is reported as failed. Negative
	// values mean no retries.
	Retries int
	// RetryDelay is the pause between two attempts of a job.
	RetryDelay time.Duration

	stdout io.Writer
	stderr io.Writer
	// Stubbable for testing
	environ func() []string
	clock   clock.PassiveClock
}

func NewLocalLauncher(command []string, parallelism int, failFast bool, timeout time.Duration) (*LocalLauncher, error) {
	if len(command) == 0 || command[0] == "" {
		return nil, errors.New("local launcher requires a command")
	}
	if parallelism < 1 {
		return nil, errors.Errorf("parallelism must be positive, got %d", parallelism)
	}
	return &LocalLauncher{
		Command:     command,
		Parallelism: parallelism,
		FailFast:    failFast,
		Timeout:     timeout,
		stdout:      &syncWriter{w: os.Stdout},
		stderr:      &syncWriter{w: os.Stderr},
		environ:     os.Environ,
		clock:       clock.RealClock{},
	}, nil
}

// SetOutput redirects the output of the job processes.
func (l *LocalLauncher) SetOutput(stdout io.Writer, stderr io.Writer) {
	l.stdout = &syncWriter{w: stdout}
	if stderr == stdout {
		l.stderr = l.stdout
		return
	}
	l.stderr = &syncWriter{w: stderr}
}

func (l *LocalLauncher) Launch(ctx context.Context, jobs []sweep.Job, initialJobIdx int) ([]JobReturn, error) {
	returns := make([]JobReturn, len(jobs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(l.Parallelism)
	for i, job := range jobs {
		i, job := i, job
		g.Go(func() error {
			returns[i] = l.run(gctx, initialJobIdx+i, job)
			if l.FailFast && returns[i].Status == StatusFailed {
				return returns[i].Err
			}
			return nil
		})
	}
	// Failures are collected from the returns below.
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		return returns, err
	}
	if !l.FailFast {
		return returns, nil
	}
	var result *multierror.Error
	for _, ret := range returns {
		if ret.Status == StatusFailed {
			result = multierror.Append(result, ret.Err)
		}
	}
	return returns, result.ErrorOrNil()
}

func (l *LocalLauncher) run(ctx context.Context, index int, job sweep.Job) JobReturn {
	overrides := job.Overrides().Strings()
	ret := JobReturn{Index: index, Overrides: overrides}
	logger := log.WithField("job", index)

	if err := ctx.Err(); err != nil {
		ret.Status = StatusSkipped
		ret.ExitCode = -1
		ret.Err = errors.Wrapf(err, "job %d not started", index)
		return ret
	}

	logger.Infof("launching %s", strings.Join(overrides, " "))
	attempts := uint(1)
	if l.Retries > 0 {
		attempts += uint(l.Retries)
	}
	start := l.clock.Now()
	err := retry.Do(
		func() error {
			ret.Attempts++
			return l.exec(ctx, index, overrides)
		},
		retry.Context(ctx),
		retry.Attempts(attempts),
		retry.Delay(l.RetryDelay),
		retry.DelayType(retry.FixedDelay),
		retry.LastErrorOnly(true),
		retry.RetryIf(func(error) bool { return ctx.Err() == nil }),
		retry.OnRetry(func(n uint, err error) {
			if n+1 < attempts {
				logger.WithError(err).Warnf("attempt %d failed, retrying", n+1)
			}
		}),
	)
	ret.Duration = l.clock.Since(start)
	if err == nil {
		ret.Status = StatusCompleted
		logger.WithField("duration", ret.Duration).Info("job completed")
		return ret
	}

	ret.Status = StatusFailed
	ret.ExitCode = -1
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		ret.ExitCode = exitErr.ExitCode()
	}
	ret.Err = errors.Wrapf(err, "job %d failed", index)
	logger.WithError(err).WithField("exitCode", ret.ExitCode).Warn("job failed")
	return ret
}

// exec runs one attempt of a job.
func (l *LocalLauncher) exec(ctx context.Context, index int, overrides []string) error {
	if l.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, l.Timeout)
		defer cancel()
	}

	args := make([]string, 0, len(l.Command)-1+len(overrides))
	args = append(args, l.Command[1:]...)
	args = append(args, overrides...)
	cmd := exec.CommandContext(ctx, l.Command[0], args...)
	cmd.Env = append(l.environ(),
		JobIndexEnvVar+"="+strconv.Itoa(index),
		JobOverridesEnvVar+"="+strings.Join(overrides, " "),
	)
	cmd.Stdout = l.stdout
	cmd.Stderr = l.stderr
	cmd.WaitDelay = outputWaitDelay

	err := cmd.Run()
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			err = errors.WithMessage(err, ctxErr.Error())
		}
	}
	return err
}

type syncWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func (w *syncWriter) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.w.Write(p)
}
