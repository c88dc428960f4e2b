package sweep

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/armadaproject/sweeper/pkg/override"
)

func sized(t *testing.T, name string, n int) Source {
	sets := make([]override.Set, n)
	for i := range sets {
		sets[i] = override.Set{override.New(name, override.Int(int64(i)))}
	}
	return NewSource(name, sets)
}

func TestCompose_Size(t *testing.T) {
	tests := map[string]struct {
		sizes    []int
		expected int
	}{
		"single source":       {[]int{4}, 4},
		"two sources":         {[]int{2, 3}, 6},
		"three sources":       {[]int{3, 2, 2}, 12},
		"empty first source":  {[]int{0, 3}, 0},
		"empty middle source": {[]int{2, 0, 3}, 0},
		"empty last source":   {[]int{2, 3, 0}, 0},
		"singletons":          {[]int{1, 1, 1}, 1},
	}
	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			sources := make([]Source, len(tc.sizes))
			for i, n := range tc.sizes {
				sources[i] = sized(t, string(rune('a'+i)), n)
			}
			it := Compose(sources...)
			assert.Equal(t, tc.expected, it.Size())
			assert.Len(t, ComposeAll(sources...), tc.expected)
		})
	}
}

func TestCompose_OuterAxisFirst(t *testing.T) {
	base := source(t, "cli", []string{"base=A"}, []string{"base=B"})
	entry := source(t, "entry", []string{"entry=x"}, []string{"entry=y"}, []string{"entry=z"})

	expected := [][]string{
		{"base=A", "entry=x"},
		{"base=A", "entry=y"},
		{"base=A", "entry=z"},
		{"base=B", "entry=x"},
		{"base=B", "entry=y"},
		{"base=B", "entry=z"},
	}
	if diff := cmp.Diff(expected, effectiveStrings(ComposeAll(base, entry))); diff != "" {
		t.Errorf("unexpected order (-want +got):\n%s", diff)
	}
}

func TestCompose_EarlierSourceWins(t *testing.T) {
	base := source(t, "cli", []string{"k=1"})
	entry := source(t, "entry", []string{"k=2", "other=3"})

	merged := ComposeAll(base, entry)
	require.Len(t, merged, 1)
	m := merged[0]

	resolved := m.Resolved()
	assert.True(t, resolved["k"].Equal(override.Int(1)))
	assert.True(t, resolved["other"].Equal(override.Int(3)))
	assert.Equal(t, []string{"k=1", "k=2", "other=3"}, m.Overrides().Strings())
	assert.Equal(t, []string{"k=1", "other=3"}, m.Effective().Strings())
	assert.Equal(t, []string{"k=2"}, m.Shadowed().Strings())
}

func TestCompose_EntrypointVersusEntrypoint(t *testing.T) {
	base := source(t, "cli", []string{})
	first := source(t, "first", []string{"+k=first"})
	second := source(t, "second", []string{"k=second"}, []string{"j=1"})

	merged := ComposeAll(base, first, second)
	require.Len(t, merged, 2)
	assert.Equal(t, []string{"+k=first"}, merged[0].Effective().Strings())
	assert.Equal(t, []string{"+k=first", "j=1"}, merged[1].Effective().Strings())
}

func TestCompose_AppendMarkerDoesNotBreakPrecedence(t *testing.T) {
	base := source(t, "cli", []string{"foo=1"})
	entry := source(t, "entry", []string{"foo=33", "+bar=0"})

	merged := ComposeAll(base, entry)
	require.Len(t, merged, 1)
	assert.Equal(t, []string{"foo=1", "+bar=0"}, merged[0].Effective().Strings())
}

func TestCompose_LastWriteWinsWithinOnePart(t *testing.T) {
	base := source(t, "cli", []string{"lr=0.1", "lr=0.5"})

	merged := ComposeAll(base)
	require.Len(t, merged, 1)
	assert.Equal(t, []string{"lr=0.5"}, merged[0].Effective().Strings())
	assert.Equal(t, []string{"lr=0.1"}, merged[0].Shadowed().Strings())
}

func TestCompose_Identity(t *testing.T) {
	base := source(t, "cli", []string{"a=1", "b=[1,2]"}, []string{"a=2"}, []string{})

	merged := ComposeAll(base)
	require.Len(t, merged, base.Len())
	for i, m := range merged {
		assert.True(t, base.At(i).Equal(m.Overrides()))
		assert.True(t, base.At(i).Equal(m.Effective()))
		assert.Equal(t, base.At(i).Resolve(), m.Resolved())
	}
}

func TestCompose_EmptyBaseWithEntrypoint(t *testing.T) {
	base := BaseGrid(nil)
	entry := source(t, "multilayer",
		[]string{"num_layers=1", "num_hidden=[32]"},
		[]string{"num_layers=1", "num_hidden=[64]"},
	)

	plan := NewPlan([]Source{base, entry}, Options{})
	require.Len(t, plan.Jobs, 2)
	for i, job := range plan.Jobs {
		assert.Equal(t, i, job.Index)
		assert.True(t, entry.At(i).Equal(job.Overrides()))
	}
}

func TestCompose_NoSources(t *testing.T) {
	merged := ComposeAll()
	require.Len(t, merged, 1)
	assert.Empty(t, merged[0].Overrides())
}

func TestIterator_IsExhausted(t *testing.T) {
	it := Compose(sized(t, "a", 2))
	assert.True(t, it.Next())
	assert.True(t, it.Next())
	assert.False(t, it.Next())
	assert.False(t, it.Next())
}

func TestCompose_DoesNotAliasSources(t *testing.T) {
	base := source(t, "cli", []string{"a=1"})
	merged := ComposeAll(base)
	parts := merged[0].Parts()
	parts[0][0] = override.New("a", override.Int(100))
	assert.Equal(t, []string{"a=1"}, merged[0].Effective().Strings())
	assert.Equal(t, []string{"a=1"}, base.At(0).Strings())
}

func TestCompose_MultipleEntrypoints(t *testing.T) {
	axes, err := override.ParseOverrides([]string{"foo=1,2"})
	require.NoError(t, err)
	base := BaseGrid(axes)
	bar := source(t, "bar",
		[]string{"foo=33", "+bar=0"},
		[]string{"foo=33", "+bar=1"},
	)
	bizz := source(t, "bizz", []string{"+bizz=1"}, []string{"+bizz=11"})

	expected := [][]string{
		{"foo=1", "+bar=0", "+bizz=1"},
		{"foo=1", "+bar=0", "+bizz=11"},
		{"foo=1", "+bar=1", "+bizz=1"},
		{"foo=1", "+bar=1", "+bizz=11"},
		{"foo=2", "+bar=0", "+bizz=1"},
		{"foo=2", "+bar=0", "+bizz=11"},
		{"foo=2", "+bar=1", "+bizz=1"},
		{"foo=2", "+bar=1", "+bizz=11"},
	}
	if diff := cmp.Diff(expected, effectiveStrings(ComposeAll(base, bar, bizz))); diff != "" {
		t.Errorf("unexpected jobs (-want +got):\n%s", diff)
	}
}
