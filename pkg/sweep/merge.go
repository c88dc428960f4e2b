package sweep

import (
	"strings"

	"github.com/armadaproject/sweeper/pkg/override"
)

// MergeOverrides composes sources into a new source holding one override set per element of their cartesian
// product. It is defined as the right fold MergeOverrides(s1, MergeOverrides(s2, ..., sN)), so s1 is always the
// outermost axis. Key conflicts are resolved exactly as by Compose: earlier sources win and shadowed overrides are
// dropped from the resulting sets.
//
// MergeOverrides is pure and may be called from within entrypoints to build sweeps out of sub-sweeps.
func MergeOverrides(sources ...Source) Source {
	switch len(sources) {
	case 0:
		return Source{name: "merge()", sets: []override.Set{{}}}
	case 1:
		return NewSource(sources[0].name, sources[0].sets)
	}
	return mergePair(sources[0], MergeOverrides(sources[1:]...))
}

func mergePair(outer Source, inner Source) Source {
	sets := make([]override.Set, 0, outer.Len()*inner.Len())
	for it := Compose(outer, inner); it.Next(); {
		sets = append(sets, it.Merged().Effective())
	}
	return Source{name: mergedName(outer, inner), sets: sets}
}

func mergedName(outer Source, inner Source) string {
	names := []string{outer.name}
	if strings.HasPrefix(inner.name, "merge(") && strings.HasSuffix(inner.name, ")") {
		names = append(names, inner.name[len("merge("):len(inner.name)-1])
	} else {
		names = append(names, inner.name)
	}
	return "merge(" + strings.Join(names, ",") + ")"
}
