package sweep

import (
	"github.com/armadaproject/sweeper/pkg/override"
)

// Iterator lazily walks the cartesian product of a list of sources, one merged set at a time. The first source is
// the outermost loop and the last source the innermost one.
type Iterator struct {
	sources []Source
	indices []int
	started bool
	done    bool
}

// Compose returns an iterator over the cartesian product of sources. If any source is empty the product is empty.
// Composing no source at all yields a single merged set without overrides.
func Compose(sources ...Source) *Iterator {
	return &Iterator{
		sources: append([]Source{}, sources...),
		indices: make([]int, len(sources)),
	}
}

// Size returns the number of merged sets the iterator yields in total.
func (it *Iterator) Size() int {
	size := 1
	for _, s := range it.sources {
		size *= s.Len()
	}
	return size
}

// Next advances the iterator and reports whether a merged set is available.
func (it *Iterator) Next() bool {
	if it.done {
		return false
	}
	if !it.started {
		it.started = true
		for _, s := range it.sources {
			if s.Len() == 0 {
				it.done = true
				return false
			}
		}
		return true
	}
	for i := len(it.indices) - 1; i >= 0; i-- {
		it.indices[i]++
		if it.indices[i] < it.sources[i].Len() {
			return true
		}
		it.indices[i] = 0
	}
	it.done = true
	return false
}

// Merged returns the current merged set. It must only be called after Next returned true.
func (it *Iterator) Merged() Merged {
	parts := make([]override.Set, len(it.sources))
	for i, s := range it.sources {
		parts[i] = s.At(it.indices[i])
	}
	return newMerged(parts)
}

// ComposeAll eagerly collects the whole product.
func ComposeAll(sources ...Source) []Merged {
	it := Compose(sources...)
	out := make([]Merged, 0, it.Size())
	for it.Next() {
		out = append(out, it.Merged())
	}
	return out
}
