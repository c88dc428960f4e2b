package launcher

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"runtime"
	"strings"
	"testing"
	"time"

	"github.com/hashicorp/go-multierror"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// tickingClock advances by step every time it is read.
type tickingClock struct {
	now  time.Time
	step time.Duration
}

func (c *tickingClock) Now() time.Time {
	now := c.now
	c.now = c.now.Add(c.step)
	return now
}

func (c *tickingClock) Since(ts time.Time) time.Duration {
	return c.Now().Sub(ts)
}

func shellLauncher(t *testing.T, script string, parallelism int, failFast bool) (*LocalLauncher, *bytes.Buffer) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("requires a POSIX shell")
	}
	sh, err := exec.LookPath("sh")
	if err != nil {
		t.Skipf("sh not available: %s", err)
	}
	l, err := NewLocalLauncher([]string{sh, "-c", script, "job"}, parallelism, failFast, 0)
	require.NoError(t, err)
	out := &bytes.Buffer{}
	l.SetOutput(out, &bytes.Buffer{})
	l.environ = func() []string { return []string{"PATH=" + os.Getenv("PATH")} }
	return l, out
}

func TestNewLocalLauncher_Validation(t *testing.T) {
	_, err := NewLocalLauncher(nil, 1, false, 0)
	assert.Error(t, err)
	_, err = NewLocalLauncher([]string{""}, 1, false, 0)
	assert.Error(t, err)
	_, err = NewLocalLauncher([]string{"train"}, 0, false, 0)
	assert.Error(t, err)
}

func TestLocalLauncher_PassesOverridesAndIndex(t *testing.T) {
	l, out := shellLauncher(t, `echo "$SWEEP_JOB_INDEX|$SWEEP_JOB_OVERRIDES|$*"`, 1, false)
	l.clock = &tickingClock{now: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), step: time.Second}

	returns, err := l.Launch(context.Background(), jobs(t, "lr=0.1,0.01", "+layers=[32,64]"), 4)
	require.NoError(t, err)
	require.Len(t, returns, 2)

	assert.Equal(t,
		"4|lr=0.1 +layers=[32,64]|lr=0.1 +layers=[32,64]\n5|lr=0.01 +layers=[32,64]|lr=0.01 +layers=[32,64]\n",
		out.String())
	for i, ret := range returns {
		assert.Equal(t, 4+i, ret.Index)
		assert.Equal(t, StatusCompleted, ret.Status)
		assert.NoError(t, ret.Err)
		assert.Equal(t, 1, ret.Attempts)
		assert.Equal(t, time.Second, ret.Duration)
	}
}

func TestLocalLauncher_ReturnsInJobOrder(t *testing.T) {
	l, out := shellLauncher(t, `sleep "0.$((3 - SWEEP_JOB_INDEX))"; echo "$SWEEP_JOB_INDEX"`, 3, false)

	returns, err := l.Launch(context.Background(), jobs(t, "seed=range(3)"), 0)
	require.NoError(t, err)
	require.Len(t, returns, 3)
	for i, ret := range returns {
		assert.Equal(t, i, ret.Index)
		assert.Equal(t, []string{"seed=" + string(rune('0'+i))}, ret.Overrides)
	}
	assert.ElementsMatch(t, []string{"0", "1", "2"}, strings.Fields(out.String()))
}

func TestLocalLauncher_FailuresWithoutFailFast(t *testing.T) {
	l, _ := shellLauncher(t, `exit "$SWEEP_JOB_INDEX"`, 1, false)

	returns, err := l.Launch(context.Background(), jobs(t, "seed=range(3)"), 0)
	require.NoError(t, err)
	require.Len(t, returns, 3)
	assert.Equal(t, StatusCompleted, returns[0].Status)
	assert.Equal(t, StatusFailed, returns[1].Status)
	assert.Equal(t, 1, returns[1].ExitCode)
	assert.Error(t, returns[1].Err)
	assert.Equal(t, StatusFailed, returns[2].Status)
	assert.Equal(t, 2, returns[2].ExitCode)
}

func TestLocalLauncher_FailFast(t *testing.T) {
	l, _ := shellLauncher(t, `[ "$SWEEP_JOB_INDEX" != 1 ]`, 1, true)

	returns, err := l.Launch(context.Background(), jobs(t, "seed=range(4)"), 0)
	require.Error(t, err)
	var merr *multierror.Error
	require.ErrorAs(t, err, &merr)
	assert.Len(t, merr.Errors, 1)
	assert.Contains(t, err.Error(), "job 1 failed")

	require.Len(t, returns, 4)
	assert.Equal(t, StatusCompleted, returns[0].Status)
	assert.Equal(t, StatusFailed, returns[1].Status)
	assert.Equal(t, StatusSkipped, returns[2].Status)
	assert.Equal(t, StatusSkipped, returns[3].Status)
}

func TestLocalLauncher_Timeout(t *testing.T) {
	l, _ := shellLauncher(t, `exec sleep 5`, 1, false)
	l.Timeout = 50 * time.Millisecond

	returns, err := l.Launch(context.Background(), jobs(t, "a=1"), 0)
	require.NoError(t, err)
	require.Len(t, returns, 1)
	assert.Equal(t, StatusFailed, returns[0].Status)
	assert.Contains(t, returns[0].Err.Error(), context.DeadlineExceeded.Error())
}

func TestLocalLauncher_Cancelled(t *testing.T) {
	l, _ := shellLauncher(t, `true`, 1, false)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	returns, err := l.Launch(ctx, jobs(t, "a=1,2"), 0)
	assert.ErrorIs(t, err, context.Canceled)
	require.Len(t, returns, 2)
	assert.Equal(t, StatusSkipped, returns[0].Status)
	assert.Equal(t, StatusSkipped, returns[1].Status)
}

func TestLocalLauncher_Retries(t *testing.T) {
	dir := t.TempDir()
	// Every job fails on its first two attempts.
	script := fmt.Sprintf(`f=%q/"$SWEEP_JOB_INDEX"; echo x >> "$f"; [ $(wc -l < "$f") -ge 3 ]`, dir)

	tests := map[string]struct {
		retries  int
		status   Status
		attempts int
	}{
		"no retries":     {retries: 0, status: StatusFailed, attempts: 1},
		"too few":        {retries: 1, status: StatusFailed, attempts: 2},
		"enough retries": {retries: 2, status: StatusCompleted, attempts: 3},
	}
	i := 0
	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			l, _ := shellLauncher(t, script, 1, false)
			l.Retries = tc.retries
			l.RetryDelay = time.Millisecond

			returns, err := l.Launch(context.Background(), jobs(t, "a=1"), i)
			i++
			require.NoError(t, err)
			require.Len(t, returns, 1)
			assert.Equal(t, tc.status, returns[0].Status)
			assert.Equal(t, tc.attempts, returns[0].Attempts)
		})
	}
}

func TestLocalLauncher_NegativeRetriesRunOnce(t *testing.T) {
	l, _ := shellLauncher(t, `false`, 1, false)
	l.Retries = -1

	returns, err := l.Launch(context.Background(), jobs(t, "a=1"), 0)
	require.NoError(t, err)
	require.Len(t, returns, 1)
	assert.Equal(t, StatusFailed, returns[0].Status)
	assert.Equal(t, 1, returns[0].Attempts)
}

func TestLocalLauncher_LogsRetriesOnlyBeforeTheLastAttempt(t *testing.T) {
	hook := test.NewGlobal()
	defer hook.Reset()
	l, _ := shellLauncher(t, `false`, 1, false)
	l.Retries = 2
	l.RetryDelay = time.Millisecond

	returns, err := l.Launch(context.Background(), jobs(t, "a=1"), 0)
	require.NoError(t, err)
	require.Len(t, returns, 1)
	assert.Equal(t, 3, returns[0].Attempts)

	var retrying []string
	for _, entry := range hook.AllEntries() {
		if strings.Contains(entry.Message, "retrying") {
			retrying = append(retrying, entry.Message)
		}
	}
	assert.Equal(t, []string{"attempt 1 failed, retrying", "attempt 2 failed, retrying"}, retrying)
}
