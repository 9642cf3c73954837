package fixer

import (
	"errors"
	"sort"
	"sync"

	"github.com/wharflab/polish/internal/fault"
)

// Registry manages fixer registration and lookup. It is built once at startup
// and read concurrently afterwards.
type Registry struct {
	mu     sync.RWMutex
	fixers map[string]Fixer
}

// NewRegistry creates a new empty registry.
func NewRegistry() *Registry {
	return &Registry{
		fixers: make(map[string]Fixer),
	}
}

// Register adds a fixer to the registry.
// Fails with fault.DuplicateName if the name is already taken.
func (r *Registry) Register(f Fixer) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	name := f.Metadata().Name
	if name == "" {
		return fault.New(fault.InvalidConfiguration, "fixer has no name")
	}
	if _, exists := r.fixers[name]; exists {
		return fault.New(fault.DuplicateName, "fixer already registered").WithNames(name)
	}
	r.fixers[name] = f
	return nil
}

// Get retrieves a fixer by name.
// Returns nil if no fixer is found.
func (r *Registry) Get(name string) Fixer {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.fixers[name]
}

// Has returns true if a fixer with the given name is registered.
func (r *Registry) Has(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, exists := r.fixers[name]
	return exists
}

// All returns all registered fixers sorted by name.
func (r *Registry) All() []Fixer {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]Fixer, 0, len(r.fixers))
	for _, f := range r.fixers {
		result = append(result, f)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].Metadata().Name < result[j].Metadata().Name
	})
	return result
}

// Names returns all registered fixer names sorted alphabetically.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.fixers))
	for name := range r.fixers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Validate checks that every before, after, conflict and successor
// declaration names a registered fixer.
func (r *Registry) Validate() error {
	var errs []error
	for _, f := range r.All() {
		meta := f.Metadata()
		refs := map[string][]string{
			"before":         meta.Before,
			"after":          meta.After,
			"conflicts with": meta.ConflictsWith,
		}
		if successors, ok := Deprecation(f); ok {
			refs["successor"] = successors
		}
		relations := make([]string, 0, len(refs))
		for rel := range refs {
			relations = append(relations, rel)
		}
		sort.Strings(relations)
		for _, rel := range relations {
			for _, ref := range refs[rel] {
				if !r.Has(ref) {
					errs = append(errs, fault.New(fault.InvalidConfiguration,
						"%s declares %s %q, which is not registered", meta.Name, rel, ref).WithNames(meta.Name, ref))
				}
			}
		}
	}
	return errors.Join(errs...)
}
