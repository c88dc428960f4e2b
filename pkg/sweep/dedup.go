package sweep

// Deduplicator drops merged sets whose resolved mapping was already seen. A disabled Deduplicator keeps everything.
type Deduplicator struct {
	enabled bool
	seen    map[string]bool
	removed int
}

func NewDeduplicator(enabled bool) *Deduplicator {
	return &Deduplicator{enabled: enabled, seen: make(map[string]bool)}
}

// Keep reports whether m is the first occurrence of its resolved mapping.
func (d *Deduplicator) Keep(m Merged) bool {
	if !d.enabled {
		return true
	}
	key := m.Key()
	if d.seen[key] {
		d.removed++
		return false
	}
	d.seen[key] = true
	return true
}

// Removed returns the number of merged sets dropped so far.
func (d *Deduplicator) Removed() int {
	return d.removed
}

// Deduplicate returns the first occurrence of every distinct resolved mapping in merged, in order. When enabled is
// false merged is returned unchanged.
func Deduplicate(merged []Merged, enabled bool) []Merged {
	if !enabled {
		return merged
	}
	d := NewDeduplicator(true)
	out := make([]Merged, 0, len(merged))
	for _, m := range merged {
		if d.Keep(m) {
			out = append(out, m)
		}
	}
	return out
}
