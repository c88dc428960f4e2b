package entrypoint

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHCL_Configure(t *testing.T) {
	sets, err := NewHCL("grid", "testdata/sweep.hcl").Configure()
	require.NoError(t, err)

	got := make([][]string, len(sets))
	for i, s := range sets {
		got[i] = s.Strings()
	}
	expected := [][]string{
		{"num_hidden=[32]", "num_layers=1", "optimizer={lr:0.001,name:adam}"},
		{"num_hidden=[64]", "num_layers=1", "optimizer={lr:0.001,name:adam}"},
		{"num_hidden=[32,32]", "num_layers=2", "optimizer={lr:0.001,name:adam}"},
		{"num_hidden=[64,64]", "num_layers=2", "optimizer={lr:0.001,name:adam}"},
	}
	if diff := cmp.Diff(expected, got); diff != "" {
		t.Errorf("unexpected sets (-want +got):\n%s", diff)
	}
}

func TestHCL_ConfigureErrors(t *testing.T) {
	for _, path := range []string{
		"testdata/missing.hcl",
		"testdata/cycle.hcl",
		"testdata/no_sets.hcl",
		"testdata/not_objects.hcl",
	} {
		t.Run(path, func(t *testing.T) {
			_, err := NewHCL("broken", path).Configure()
			var executionErr *ErrEntrypointExecution
			require.ErrorAs(t, err, &executionErr)
			assert.Equal(t, "broken", executionErr.Name)
		})
	}
}
