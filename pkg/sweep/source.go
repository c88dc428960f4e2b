package sweep

import (
	"github.com/armadaproject/sweeper/pkg/override"
)

// BaseSourceName is the name of the source built from command line overrides.
const BaseSourceName = "cli"

// Source is a named, finite and immutable sequence of override sets produced by one origin: the command line
// grid or one entrypoint.
type Source struct {
	name string
	sets []override.Set
}

// NewSource copies sets into a new Source.
func NewSource(name string, sets []override.Set) Source {
	copied := make([]override.Set, len(sets))
	for i, s := range sets {
		copied[i] = s.Clone()
	}
	return Source{name: name, sets: copied}
}

func (s Source) Name() string {
	return s.name
}

func (s Source) Len() int {
	return len(s.sets)
}

// At returns a copy of the i-th override set.
func (s Source) At(i int) override.Set {
	return s.sets[i].Clone()
}

// Sets returns a copy of every override set of the source.
func (s Source) Sets() []override.Set {
	return NewSource(s.name, s.sets).sets
}

// BaseGrid builds the base source from command line axes: the cartesian product of the axes in argument order,
// the first axis being the outermost. Without any axis the grid holds a single empty override set.
func BaseGrid(axes []override.Axis) Source {
	sets := []override.Set{{}}
	for _, axis := range axes {
		next := make([]override.Set, 0, len(sets)*len(axis.Values))
		for _, set := range sets {
			for _, o := range axis.Overrides() {
				next = append(next, append(set.Clone(), o))
			}
		}
		sets = next
	}
	return Source{name: BaseSourceName, sets: sets}
}
