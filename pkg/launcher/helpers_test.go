package launcher

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/armadaproject/sweeper/pkg/override"
	"github.com/armadaproject/sweeper/pkg/sweep"
)

func jobs(t *testing.T, args ...string) []sweep.Job {
	t.Helper()
	axes, err := override.ParseOverrides(args)
	require.NoError(t, err)
	return sweep.NewPlan([]sweep.Source{sweep.BaseGrid(axes)}, sweep.Options{}).Jobs
}
