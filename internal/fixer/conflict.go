package fixer

import (
	"cmp"
	"slices"
)

// ConflictPair names two enabled fixers declared mutually exclusive. A sorts
// before B.
type ConflictPair struct {
	A string
	B string
}

// String returns "a <-> b".
func (p ConflictPair) String() string { return p.A + " <-> " + p.B }

// DetectConflicts returns the conflicting pairs among the enabled fixers,
// sorted and deduplicated. A declaration on either side is enough. Unknown
// names are ignored; BuildOrder reports them.
func (r *Registry) DetectConflicts(enabled []string) []ConflictPair {
	set := make(map[string]bool, len(enabled))
	for _, name := range enabled {
		set[name] = true
	}

	var pairs []ConflictPair
	for name := range set {
		f := r.Get(name)
		if f == nil {
			continue
		}
		for _, other := range f.Metadata().ConflictsWith {
			if other == name || !set[other] {
				continue
			}
			p := ConflictPair{A: name, B: other}
			if p.B < p.A {
				p.A, p.B = p.B, p.A
			}
			pairs = append(pairs, p)
		}
	}

	slices.SortFunc(pairs, func(x, y ConflictPair) int {
		if c := cmp.Compare(x.A, y.A); c != 0 {
			return c
		}
		return cmp.Compare(x.B, y.B)
	})
	return slices.Compact(pairs)
}
