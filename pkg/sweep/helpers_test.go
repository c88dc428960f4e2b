package sweep

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/armadaproject/sweeper/pkg/override"
)

// set parses key=value arguments into an override set.
func set(t *testing.T, args ...string) override.Set {
	t.Helper()
	s := make(override.Set, 0, len(args))
	for _, arg := range args {
		axis, err := override.ParseOverride(arg)
		require.NoError(t, err)
		require.Len(t, axis.Values, 1, "use one value per override in %s", arg)
		s = append(s, axis.Overrides()...)
	}
	return s
}

func source(t *testing.T, name string, sets ...[]string) Source {
	t.Helper()
	out := make([]override.Set, len(sets))
	for i, args := range sets {
		out[i] = set(t, args...)
	}
	return NewSource(name, out)
}

func effectiveStrings(merged []Merged) [][]string {
	out := make([][]string, len(merged))
	for i, m := range merged {
		out[i] = m.Effective().Strings()
	}
	return out
}

func keys(merged []Merged) []string {
	out := make([]string, len(merged))
	for i, m := range merged {
		out[i] = m.Key()
	}
	return out
}

// multilayerSets mirrors the multilayer example: one set per layer count and per choice of hidden sizes.
func multilayerSets(t *testing.T) Source {
	t.Helper()
	var sets []override.Set
	var hidden [][]int64
	for numLayers := 1; numLayers <= 3; numLayers++ {
		if numLayers == 1 {
			hidden = [][]int64{{32}, {64}}
		} else {
			var next [][]int64
			for _, h := range hidden {
				for _, size := range []int64{32, 64} {
					next = append(next, append(append([]int64{}, h...), size))
				}
			}
			hidden = next
		}
		for _, h := range hidden {
			values := make([]override.Value, len(h))
			for i, size := range h {
				values[i] = override.Int(size)
			}
			sets = append(sets, override.Set{
				override.New("num_layers", override.Int(int64(numLayers))),
				override.New("num_hidden", override.Sequence(values...)),
			})
		}
	}
	return NewSource("multilayer", sets)
}
