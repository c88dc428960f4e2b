package override

import (
	"strings"

	"golang.org/x/exp/slices"
)

// Override is a single configuration delta applied to a base configuration.
type Override struct {
	Key   string
	Value Value
}

func New(key string, value Value) Override {
	return Override{Key: key, Value: value}
}

// Name returns the key without the leading '+' markers used to request that a key be added to the base
// configuration. Two overrides with the same name configure the same setting.
func (o Override) Name() string {
	return strings.TrimLeft(o.Key, "+")
}

func (o Override) String() string {
	return o.Key + "=" + o.Value.String()
}

func (o Override) Equal(other Override) bool {
	return o.Key == other.Key && o.Value.Equal(other.Value)
}

// Set is the ordered list of overrides that defines one job.
type Set []Override

// Resolve maps every override name to its value. When a name occurs more than once the last occurrence wins.
func (s Set) Resolve() map[string]Value {
	resolved := make(map[string]Value, len(s))
	for _, o := range s {
		resolved[o.Name()] = o.Value
	}
	return resolved
}

// Compress drops every override whose name already occurred earlier in the set, keeping the first occurrence.
func (s Set) Compress() Set {
	seen := make(map[string]bool, len(s))
	out := make(Set, 0, len(s))
	for _, o := range s {
		if seen[o.Name()] {
			continue
		}
		seen[o.Name()] = true
		out = append(out, o)
	}
	return out
}

// Strings renders each override as key=value.
func (s Set) Strings() []string {
	out := make([]string, len(s))
	for i, o := range s {
		out[i] = o.String()
	}
	return out
}

func (s Set) String() string {
	return strings.Join(s.Strings(), " ")
}

func (s Set) Clone() Set {
	return slices.Clone(s)
}

// Equal compares two sets element by element, including order.
func (s Set) Equal(other Set) bool {
	return slices.EqualFunc(s, other, Override.Equal)
}
