package sweep

import (
	"sort"
	"strconv"
	"strings"

	"github.com/armadaproject/sweeper/pkg/override"
)

// Merged is the combination of one override set from each source of a sweep, in source order.
//
// Overrides of an earlier part take precedence over overrides of a later part with the same name; within a single
// part the last occurrence of a name wins. Overrides that lose are shadowed: they stay part of the display
// sequence but not of the effective overrides nor of the resolved mapping.
type Merged struct {
	parts []override.Set
}

func newMerged(parts []override.Set) Merged {
	return Merged{parts: parts}
}

// Parts returns a copy of the override set contributed by each source.
func (m Merged) Parts() []override.Set {
	out := make([]override.Set, len(m.parts))
	for i, p := range m.parts {
		out[i] = p.Clone()
	}
	return out
}

// Overrides returns the display sequence: every part concatenated in source order, shadowed overrides included.
func (m Merged) Overrides() override.Set {
	out := make(override.Set, 0, m.size())
	for _, p := range m.parts {
		out = append(out, p...)
	}
	return out
}

// Effective returns the overrides to apply, in display order, without shadowed overrides.
func (m Merged) Effective() override.Set {
	effective, _ := m.split()
	return effective
}

// Shadowed returns the overrides suppressed by an override of an earlier part or by a later occurrence of the same
// name within their own part.
func (m Merged) Shadowed() override.Set {
	_, shadowed := m.split()
	return shadowed
}

// Resolved maps every override name to its effective value.
func (m Merged) Resolved() map[string]override.Value {
	return m.Effective().Resolve()
}

// Key identifies the effective overrides: two merged sets have the same key if and only if their effective
// overrides hold the same key/value pairs, in any order. Keys are compared as written, so "+bar=1" and "bar=1"
// are different jobs.
func (m Merged) Key() string {
	effective := m.Effective()
	values := make(map[string]override.Value, len(effective))
	for _, o := range effective {
		values[o.Key] = o.Value
	}
	keys := make([]string, 0, len(values))
	for key := range values {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	var sb strings.Builder
	for _, key := range keys {
		sb.WriteString(strconv.Quote(key))
		sb.WriteByte('=')
		sb.WriteString(strconv.Quote(values[key].Canonical()))
		sb.WriteByte('\n')
	}
	return sb.String()
}

func (m Merged) String() string {
	return m.Effective().String()
}

func (m Merged) size() int {
	n := 0
	for _, p := range m.parts {
		n += len(p)
	}
	return n
}

func (m Merged) split() (effective override.Set, shadowed override.Set) {
	effective = make(override.Set, 0, m.size())
	claimed := make(map[string]bool)
	for _, part := range m.parts {
		last := make(map[string]int, len(part))
		for i, o := range part {
			last[o.Name()] = i
		}
		for i, o := range part {
			if claimed[o.Name()] || last[o.Name()] != i {
				shadowed = append(shadowed, o)
				continue
			}
			effective = append(effective, o)
		}
		for name := range last {
			claimed[name] = true
		}
	}
	return effective, shadowed
}
