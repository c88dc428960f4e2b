package entrypoint

import (
	"github.com/pkg/errors"

	"github.com/armadaproject/sweeper/pkg/override"
	"github.com/armadaproject/sweeper/pkg/sweep"
)

// Entrypoint is a named source of override sets.
type Entrypoint interface {
	Name() string
	// Configure returns the override sets of the entrypoint. It is invoked at most once per sweep.
	Configure() ([]override.Set, error)
}

// Pair is a single key/value override returned by a Func. Value holds any value override.FromNative accepts.
type Pair struct {
	Key   string
	Value any
}

// Func is an entrypoint implemented in Go: it returns one list of pairs per override set.
type Func func() ([][]Pair, error)

// SourceFunc is an entrypoint built out of other sources, typically with sweep.MergeOverrides.
type SourceFunc func() (sweep.Source, error)

type funcEntrypoint struct {
	name string
	fn   Func
}

// New wraps a Func into an Entrypoint.
func New(name string, fn Func) Entrypoint {
	return &funcEntrypoint{name: name, fn: fn}
}

func (e *funcEntrypoint) Name() string {
	return e.name
}

func (e *funcEntrypoint) Configure() ([]override.Set, error) {
	pairs, err := e.fn()
	if err != nil {
		return nil, &ErrEntrypointExecution{Name: e.name, Err: err}
	}
	sets, err := SetsFromPairs(pairs)
	if err != nil {
		return nil, &ErrEntrypointExecution{Name: e.name, Err: err}
	}
	return sets, nil
}

type sourceEntrypoint struct {
	name string
	fn   SourceFunc
}

// FromSource wraps a SourceFunc into an Entrypoint.
func FromSource(name string, fn SourceFunc) Entrypoint {
	return &sourceEntrypoint{name: name, fn: fn}
}

func (e *sourceEntrypoint) Name() string {
	return e.name
}

func (e *sourceEntrypoint) Configure() ([]override.Set, error) {
	source, err := e.fn()
	if err != nil {
		return nil, &ErrEntrypointExecution{Name: e.name, Err: err}
	}
	return source.Sets(), nil
}

// SetsFromPairs converts native key/value pairs into override sets.
func SetsFromPairs(pairs [][]Pair) ([]override.Set, error) {
	sets := make([]override.Set, len(pairs))
	for i, ps := range pairs {
		set := make(override.Set, len(ps))
		for j, p := range ps {
			if p.Key == "" {
				return nil, errors.Errorf("set %d: override %d has an empty key", i, j)
			}
			v, err := override.FromNative(p.Value)
			if err != nil {
				return nil, errors.WithMessagef(err, "set %d: override %s", i, p.Key)
			}
			set[j] = override.New(p.Key, v)
		}
		sets[i] = set
	}
	return sets, nil
}
