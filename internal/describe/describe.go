// Package describe renders human-readable documentation for fixers and rule
// sets, including the effect of each documented sample as a diff.
package describe

import (
	"encoding/json"
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/wharflab/polish/internal/fixer"
	"github.com/wharflab/polish/internal/pipeline"
	"github.com/wharflab/polish/internal/reporter"
	"github.com/wharflab/polish/internal/ruleset"
)

// Describer documents the rules and sets known to a resolver.
type Describer struct {
	resolver *ruleset.Resolver
}

// New creates a describer.
func New(r *ruleset.Resolver) *Describer {
	return &Describer{resolver: r}
}

// Describe writes the description of a rule or, for names starting with "@",
// a rule set. Unknown names fail with the resolver's error, which carries a
// suggestion when a similar name exists.
func (d *Describer) Describe(w io.Writer, name string) error {
	if ruleset.IsSetName(name) {
		return d.Set(w, name)
	}
	return d.Rule(w, name)
}

// Rule writes the description of one fixer.
func (d *Describer) Rule(w io.Writer, name string) error {
	f := d.resolver.Registry().Get(name)
	if f == nil {
		_, err := d.resolver.Resolve(name)
		return err
	}
	meta := f.Metadata()

	p := &printer{w: w}
	p.linef("Description of the `%s` rule.", name)
	p.blank()
	p.line(meta.Summary)
	if meta.Description != "" {
		p.blank()
		p.line(meta.Description)
	}

	if successors, ok := fixer.Deprecation(f); ok {
		p.blank()
		if len(successors) > 0 {
			p.linef("DEPRECATED: use %s instead.", quoteAll(successors))
		} else {
			p.line("DEPRECATED: this rule will be removed.")
		}
	}
	if meta.Experimental {
		p.blank()
		p.line("Fixer applying this rule is EXPERIMENTAL.")
	}
	if meta.Risky {
		p.blank()
		p.line("Fixer applying this rule is RISKY.")
		if meta.RiskyDescription != "" {
			p.line(meta.RiskyDescription)
		}
	}

	if opts := fixer.OptionsOf(f); len(opts) > 0 {
		p.blank()
		if len(opts) == 1 {
			p.line("Fixer is configurable using following option:")
		} else {
			p.line("Fixer is configurable using following options:")
		}
		for _, o := range opts {
			p.line(describeOption(o))
		}
	}

	if len(meta.Samples) > 0 {
		p.blank()
		p.line("Fixing examples:")
		for i, s := range meta.Samples {
			d.sample(p, f, i+1, s)
		}
	}

	if sets := d.SetsContaining(name); len(sets) > 0 {
		p.blank()
		p.line("The fixer is part of the following rule sets:")
		for _, s := range sets {
			p.linef("* %s", s)
		}
	}
	return p.err
}

func describeOption(o fixer.Option) string {
	var b strings.Builder
	fmt.Fprintf(&b, "* %s", o.Name)
	switch {
	case len(o.AllowedValues) > 0:
		fmt.Fprintf(&b, " (%s)", joinJSON(o.AllowedValues))
	case len(o.AllowedSubset) > 0:
		vals := make([]any, len(o.AllowedSubset))
		for i, v := range o.AllowedSubset {
			vals[i] = v
		}
		fmt.Fprintf(&b, " (a subset of %s)", joinJSON(vals))
	case len(o.AllowedTypes) > 0:
		fmt.Fprintf(&b, " (%s)", strings.Join(o.AllowedTypes, ", "))
	}
	fmt.Fprintf(&b, ": %s", o.Description)
	if o.HasDefault {
		fmt.Fprintf(&b, "; defaults to %s", toJSON(o.Default))
	}
	return b.String()
}

// sample runs f alone on the sample and prints the resulting diff.
func (d *Describer) sample(p *printer, f fixer.Fixer, n int, s fixer.Sample) {
	name := f.Metadata().Name
	value := ruleset.Enable()
	how := "with the default configuration"
	if s.Options != nil {
		value = ruleset.Configure(s.Options)
		how = "with configuration: " + toJSON(s.Options)
	}

	p.blank()
	p.linef(" * Example #%d. Fixing %s.", n, how)

	res := ruleset.NewResolved(map[string]ruleset.Value{name: value})
	plan, err := pipeline.CompileResolved(d.resolver.Registry(), res, pipeline.Options{})
	if err != nil {
		p.linef("   (sample cannot be applied: %v)", err)
		return
	}
	out := plan.Run(s.Code)
	if !out.OK() {
		p.linef("   (sample cannot be applied: %v)", out.Err)
		return
	}
	diff := reporter.Diff(s.Code, out.Output)
	if diff == "" {
		p.line("   (no changes)")
		return
	}
	p.line("   ---------- begin diff ----------")
	for l := range strings.SplitSeq(strings.TrimSuffix(diff, "\n"), "\n") {
		p.line("   " + l)
	}
	p.line("   ----------- end diff -----------")
}

// Set writes the description of one rule set.
func (d *Describer) Set(w io.Writer, name string) error {
	set, ok := d.resolver.Catalog().Get(name)
	if !ok {
		_, err := d.resolver.Resolve(name)
		return err
	}

	p := &printer{w: w}
	p.linef("Description of the `%s` set.", set.Name)
	p.blank()
	p.line(set.Description)
	if set.Deprecated {
		p.blank()
		if len(set.Successors) > 0 {
			p.linef("DEPRECATED: use %s instead.", quoteAll(set.Successors))
		} else {
			p.line("DEPRECATED: this set will be removed.")
		}
	}
	if set.Risky {
		p.blank()
		p.line("This set contains risky rules.")
	}
	p.blank()
	for _, e := range set.Entries {
		switch {
		case e.Value.Options != nil:
			p.linef("* %s", e.Name)
			p.linef("  | configuration: %s", toJSON(e.Value.Options))
		case e.Value.Enabled:
			p.linef("* %s", e.Name)
		default:
			p.linef("* %s (disabled)", e.Name)
		}
	}
	return p.err
}

// SetsContaining returns the catalog sets whose expansion enables rule,
// sorted by name.
func (d *Describer) SetsContaining(rule string) []string {
	var out []string
	for _, name := range d.resolver.Catalog().Names() {
		res, err := d.resolver.Resolve(name)
		if err != nil {
			continue
		}
		if v, ok := res.Get(rule); ok && v.Enabled {
			out = append(out, name)
		}
	}
	slices.Sort(out)
	return out
}

type printer struct {
	w   io.Writer
	err error
}

func (p *printer) line(s string) {
	if p.err != nil {
		return
	}
	_, p.err = fmt.Fprintln(p.w, s)
}

func (p *printer) linef(format string, args ...any) {
	p.line(fmt.Sprintf(format, args...))
}

func (p *printer) blank() { p.line("") }

func quoteAll(names []string) string {
	quoted := make([]string, len(names))
	for i, n := range names {
		quoted[i] = "`" + n + "`"
	}
	return strings.Join(quoted, ", ")
}

func joinJSON(vals []any) string {
	parts := make([]string, len(vals))
	for i, v := range vals {
		parts[i] = toJSON(v)
	}
	return strings.Join(parts, ", ")
}

func toJSON(v any) string {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprint(v)
	}
	return string(data)
}
