package entrypoint

import (
	"os/exec"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/armadaproject/sweeper/pkg/override"
)

func TestRegistry_Register(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register("b", cliOverrides))
	require.NoError(t, r.Register("a", cliOverrides))

	assert.Equal(t, []string{"a", "b"}, r.Names())
	assert.Error(t, r.Register("a", cliOverrides))
	assert.Error(t, r.Register("", cliOverrides))
	assert.Error(t, r.Register("exec:echo", cliOverrides))
	assert.Error(t, r.Register("file:x.yaml", cliOverrides))
	assert.Panics(t, func() { r.MustRegister("a", cliOverrides) })
}

func TestRegistry_Resolve(t *testing.T) {
	r := NewRegistry()
	r.MustRegister("cli_overrides", cliOverrides)
	r.lookPath = func(file string) (string, error) {
		if file == "missing" {
			return "", exec.ErrNotFound
		}
		return "/usr/bin/" + file, nil
	}

	tests := map[string]struct {
		name     string
		expected interface{}
	}{
		"registered":     {"cli_overrides", &funcEntrypoint{}},
		"yaml file":      {"testdata/sets.yaml", &File{}},
		"yml file":       {"testdata/bare.yml", &File{}},
		"json file":      {"testdata/sets.json", &File{}},
		"file prefix":    {"file:testdata/bare.yml", &File{}},
		"hcl file":       {"testdata/sweep.hcl", &HCL{}},
		"hcl via prefix": {"file:testdata/sweep.hcl", &HCL{}},
		"command":        {"exec:generate --layers 3", &Exec{}},
	}
	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			e, err := r.Resolve(tc.name)
			require.NoError(t, err)
			assert.IsType(t, tc.expected, e)
			assert.Equal(t, tc.name, e.Name())
		})
	}

	e, err := r.Resolve("exec:generate --layers 3")
	require.NoError(t, err)
	assert.Equal(t, "/usr/bin/generate", e.(*Exec).Cmd)
	assert.Equal(t, []string{"--layers", "3"}, e.(*Exec).Args)
}

func TestRegistry_ResolveErrors(t *testing.T) {
	r := NewRegistry()
	r.lookPath = func(string) (string, error) { return "", exec.ErrNotFound }

	for _, name := range []string{
		"unknown",
		"configs.overrides.configure",
		"testdata/missing.yaml",
		"file:",
		"file:testdata",
		"testdata/missing.hcl",
		"exec:",
		"exec:missing",
	} {
		t.Run(name, func(t *testing.T) {
			_, err := r.Resolve(name)
			var resolutionErr *ErrEntrypointResolution
			require.ErrorAs(t, err, &resolutionErr)
			assert.Equal(t, name, resolutionErr.Name)
		})
	}
}

type countingEntrypoint struct {
	name  string
	calls int
	sets  []override.Set
	err   error
}

func (e *countingEntrypoint) Name() string { return e.name }

func (e *countingEntrypoint) Configure() ([]override.Set, error) {
	e.calls++
	return e.sets, e.err
}

func TestMaterialize(t *testing.T) {
	first := &countingEntrypoint{name: "first", sets: []override.Set{{override.New("a", override.Int(1))}}}
	second := &countingEntrypoint{name: "second", sets: []override.Set{{}, {}}}
	r := NewRegistry()
	require.NoError(t, r.Add(first))
	require.NoError(t, r.Add(second))

	sources, err := Materialize(r, []string{"first", "second"})
	require.NoError(t, err)
	require.Len(t, sources, 2)
	assert.Equal(t, "first", sources[0].Name())
	assert.Equal(t, 1, sources[0].Len())
	assert.Equal(t, "second", sources[1].Name())
	assert.Equal(t, 2, sources[1].Len())
	assert.Equal(t, 1, first.calls)
	assert.Equal(t, 1, second.calls)

	sources, err = Materialize(r, nil)
	require.NoError(t, err)
	assert.Empty(t, sources)
}

func TestMaterialize_InvokesRepeatedNamesOnce(t *testing.T) {
	repeated := &countingEntrypoint{name: "repeated", sets: []override.Set{{override.New("a", override.Int(1))}, {}}}
	r := NewRegistry()
	require.NoError(t, r.Add(repeated))

	sources, err := Materialize(r, []string{"repeated", "repeated"})
	require.NoError(t, err)
	require.Len(t, sources, 2)
	assert.Equal(t, 1, repeated.calls)
	assert.Equal(t, sources[0].Sets(), sources[1].Sets())
}

func TestMaterialize_ResolvesEverythingBeforeInvoking(t *testing.T) {
	first := &countingEntrypoint{name: "first"}
	r := NewRegistry()
	require.NoError(t, r.Add(first))

	_, err := Materialize(r, []string{"first", "unknown"})
	var resolutionErr *ErrEntrypointResolution
	require.ErrorAs(t, err, &resolutionErr)
	assert.Equal(t, "unknown", resolutionErr.Name)
	assert.Equal(t, 0, first.calls)
}

func TestMaterialize_ExecutionFailure(t *testing.T) {
	boom := errors.New("boom")
	failing := &countingEntrypoint{name: "failing", err: boom}
	after := &countingEntrypoint{name: "after"}
	r := NewRegistry()
	require.NoError(t, r.Add(failing))
	require.NoError(t, r.Add(after))

	_, err := Materialize(r, []string{"failing", "after"})
	var executionErr *ErrEntrypointExecution
	require.ErrorAs(t, err, &executionErr)
	assert.Equal(t, "failing", executionErr.Name)
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 0, after.calls)
}

type resolverFunc func(string) (Entrypoint, error)

func (f resolverFunc) Resolve(name string) (Entrypoint, error) { return f(name) }

func TestMaterialize_WrapsForeignResolverErrors(t *testing.T) {
	_, err := Materialize(resolverFunc(func(string) (Entrypoint, error) {
		return nil, errors.New("lookup failed")
	}), []string{"x"})
	var resolutionErr *ErrEntrypointResolution
	require.ErrorAs(t, err, &resolutionErr)
	assert.Equal(t, "x", resolutionErr.Name)
	assert.Contains(t, resolutionErr.Error(), "lookup failed")
}
