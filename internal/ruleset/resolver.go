package ruleset

import (
	"maps"
	"slices"

	"github.com/wharflab/polish/internal/fault"
	"github.com/wharflab/polish/internal/fixer"
)

// Resolver expands rule selections against a fixer registry and a set
// catalog. Both are read-only, so a Resolver is safe for concurrent use.
type Resolver struct {
	registry *fixer.Registry
	catalog  *Catalog
}

// NewResolver returns a resolver over reg and cat.
func NewResolver(reg *fixer.Registry, cat *Catalog) *Resolver {
	if cat == nil {
		cat = NewCatalog()
	}
	return &Resolver{registry: reg, catalog: cat}
}

// Registry returns the fixer registry names are checked against.
func (r *Resolver) Registry() *fixer.Registry { return r.registry }

// Catalog returns the set catalog.
func (r *Resolver) Catalog() *Catalog { return r.catalog }

// Resolve expands a single rule or set reference.
func (r *Resolver) Resolve(ref string) (*Resolved, error) {
	return r.ResolveEntries([]Entry{{Name: ref, Value: Enable()}})
}

// ResolveEntries expands entries depth-first in order. Each entry overwrites
// the state left by earlier ones for the same rule. A set reference set to
// false disables every rule its expansion would enable.
func (r *Resolver) ResolveEntries(entries []Entry) (*Resolved, error) {
	st := newResolveState()
	if err := r.apply(st, entries, nil); err != nil {
		return nil, err
	}
	return &Resolved{rules: st.rules, notices: st.notices}, nil
}

type resolveState struct {
	rules   map[string]Value
	notices []Notice
	noticed map[string]bool
}

func newResolveState() *resolveState {
	return &resolveState{rules: make(map[string]Value), noticed: make(map[string]bool)}
}

func (st *resolveState) notice(n Notice) {
	if st.noticed[n.Name] {
		return
	}
	st.noticed[n.Name] = true
	st.notices = append(st.notices, n)
}

func (r *Resolver) apply(st *resolveState, entries []Entry, path []string) error {
	for _, e := range entries {
		var err error
		if IsSetName(e.Name) {
			err = r.applySet(st, e, path)
		} else {
			err = r.applyRule(st, e, path)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func (r *Resolver) applySet(st *resolveState, e Entry, path []string) error {
	set, ok := r.catalog.Get(e.Name)
	if !ok {
		return fault.New(fault.UnknownSetName, "no such rule set").
			WithNames(e.Name).
			WithPath(path).
			WithSuggestion(suggest(e.Name, r.catalog.Names()))
	}
	if slices.Contains(path, e.Name) {
		return fault.New(fault.InvalidConfiguration, "rule sets include each other").
			WithNames(e.Name).
			WithPath(append(slices.Clone(path), e.Name))
	}
	if e.Value.Options != nil {
		return fault.New(fault.InvalidConfiguration, "a rule set takes true or false, not options").
			WithNames(e.Name).
			WithPath(path)
	}

	sub := append(slices.Clone(path), e.Name)
	if e.Value.Enabled {
		if set.Deprecated {
			st.notice(Notice{Name: set.Name, Successors: set.Successors, Path: slices.Clone(path)})
		}
		return r.apply(st, set.Entries, sub)
	}

	inner := newResolveState()
	if err := r.apply(inner, set.Entries, sub); err != nil {
		return err
	}
	for _, name := range slices.Sorted(maps.Keys(inner.rules)) {
		if inner.rules[name].Enabled {
			st.rules[name] = Disable()
		}
	}
	return nil
}

func (r *Resolver) applyRule(st *resolveState, e Entry, path []string) error {
	f := r.registry.Get(e.Name)
	if f == nil {
		candidates := slices.Concat(r.registry.Names(), r.catalog.Names())
		slices.Sort(candidates)
		return fault.New(fault.UnknownRuleName, "no such rule").
			WithNames(e.Name).
			WithPath(path).
			WithSuggestion(suggest(e.Name, candidates))
	}
	if successors, deprecated := fixer.Deprecation(f); deprecated && e.Value.Enabled {
		st.notice(Notice{Name: e.Name, Successors: successors, Path: slices.Clone(path)})
	}
	st.rules[e.Name] = e.Value.clone()
	return nil
}

// RiskyRules returns the enabled rules of res whose fixers are risky, sorted.
func (r *Resolver) RiskyRules(res *Resolved) []string {
	var out []string
	for _, name := range res.Enabled() {
		if f := r.registry.Get(name); f != nil && f.Metadata().Risky {
			out = append(out, name)
		}
	}
	return out
}

// Resolved is the flat result of a resolution. It is immutable.
type Resolved struct {
	rules   map[string]Value
	notices []Notice
}

// NewResolved wraps an already flat rule map.
func NewResolved(rules map[string]Value) *Resolved {
	out := make(map[string]Value, len(rules))
	for name, v := range rules {
		out[name] = v.clone()
	}
	return &Resolved{rules: out}
}

// Len returns the number of rules, enabled or not.
func (r *Resolved) Len() int { return len(r.rules) }

// Get returns the value of a rule.
func (r *Resolved) Get(name string) (Value, bool) {
	v, ok := r.rules[name]
	if !ok {
		return Value{}, false
	}
	return v.clone(), true
}

// Names returns every rule in the map, sorted.
func (r *Resolved) Names() []string {
	return slices.Sorted(maps.Keys(r.rules))
}

// Enabled returns the enabled rules, sorted.
func (r *Resolved) Enabled() []string {
	var out []string
	for _, name := range r.Names() {
		if r.rules[name].Enabled {
			out = append(out, name)
		}
	}
	return out
}

// Options returns the options of an enabled rule, or nil.
func (r *Resolved) Options(name string) map[string]any {
	return maps.Clone(r.rules[name].Options)
}

// Notices returns the deprecations met during resolution, in the order they
// were first seen.
func (r *Resolved) Notices() []Notice {
	return slices.Clone(r.notices)
}
