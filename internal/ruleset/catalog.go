package ruleset

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"maps"
	"slices"

	"go.yaml.in/yaml/v4"

	"github.com/wharflab/polish/internal/fault"
	"github.com/wharflab/polish/internal/fixer"
)

//go:embed sets/*.yaml
var builtinSets embed.FS

// Catalog holds named sets. It is filled once and read-only afterwards.
type Catalog struct {
	sets map[string]*Set
}

// NewCatalog returns an empty catalog.
func NewCatalog() *Catalog {
	return &Catalog{sets: make(map[string]*Set)}
}

// Builtin loads the sets shipped with polish.
func Builtin() (*Catalog, error) {
	return LoadCatalog(builtinSets, "sets/*.yaml")
}

// LoadCatalog parses every file in fsys matching pattern as a set.
func LoadCatalog(fsys fs.FS, pattern string) (*Catalog, error) {
	files, err := fs.Glob(fsys, pattern)
	if err != nil {
		return nil, fmt.Errorf("glob %s: %w", pattern, err)
	}
	c := NewCatalog()
	for _, file := range files {
		data, err := fs.ReadFile(fsys, file)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", file, err)
		}
		set, err := ParseSet(data)
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", file, err)
		}
		if err := c.Add(set); err != nil {
			return nil, fmt.Errorf("load %s: %w", file, err)
		}
	}
	return c, nil
}

type setFile struct {
	Name        string    `yaml:"name"`
	Description string    `yaml:"description"`
	Risky       bool      `yaml:"risky"`
	Deprecated  bool      `yaml:"deprecated"`
	Successors  []string  `yaml:"successors"`
	Rules       yaml.Node `yaml:"rules"`
}

// ParseSet decodes one YAML set definition, keeping the declaration order
// of its rules.
func ParseSet(data []byte) (*Set, error) {
	var f setFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fault.New(fault.InvalidConfiguration, "invalid set definition").Wrap(err)
	}
	entries, err := entriesFromNode(&f.Rules)
	if err != nil {
		return nil, err
	}
	return &Set{
		Name:        f.Name,
		Description: f.Description,
		Risky:       f.Risky,
		Deprecated:  f.Deprecated,
		Successors:  f.Successors,
		Entries:     entries,
	}, nil
}

// Add registers a set. Names must carry the set prefix and be unique.
func (c *Catalog) Add(set *Set) error {
	if !IsSetName(set.Name) {
		return fault.New(fault.InvalidConfiguration, "set names must start with %q", SetPrefix).WithNames(set.Name)
	}
	if _, ok := c.sets[set.Name]; ok {
		return fault.New(fault.DuplicateName, "set already defined").WithNames(set.Name)
	}
	c.sets[set.Name] = set
	return nil
}

// Get returns the named set.
func (c *Catalog) Get(name string) (*Set, bool) {
	s, ok := c.sets[name]
	return s, ok
}

// Names returns all set names, sorted.
func (c *Catalog) Names() []string {
	return slices.Sorted(maps.Keys(c.sets))
}

// Validate checks that every entry and successor of every set names a
// registered fixer or a known set.
func (c *Catalog) Validate(reg *fixer.Registry) error {
	var errs []error
	for _, name := range c.Names() {
		set := c.sets[name]
		for _, e := range set.Entries {
			if !c.known(reg, e.Name) {
				errs = append(errs, fault.New(fault.InvalidConfiguration, "set references unknown name %q", e.Name).WithNames(name))
			}
			if IsSetName(e.Name) && e.Value.Options != nil {
				errs = append(errs, fault.New(fault.InvalidConfiguration, "set reference %q cannot take options", e.Name).WithNames(name))
			}
		}
		for _, succ := range set.Successors {
			if !c.known(reg, succ) {
				errs = append(errs, fault.New(fault.InvalidConfiguration, "unknown successor %q", succ).WithNames(name))
			}
		}
	}
	return errors.Join(errs...)
}

func (c *Catalog) known(reg *fixer.Registry, name string) bool {
	if IsSetName(name) {
		_, ok := c.sets[name]
		return ok
	}
	return reg.Has(name)
}
