package pipeline

import (
	"fmt"

	"github.com/wharflab/polish/internal/fault"
	"github.com/wharflab/polish/internal/fixer"
	"github.com/wharflab/polish/internal/ruleset"
	"github.com/wharflab/polish/internal/tokens"
)

// Result is the outcome of running a plan on one file.
type Result struct {
	// State is Stable or Failed.
	State State

	// FailedIn is the state in which a failure happened.
	FailedIn State

	// Output is the fixed text when Stable, or the input when Failed.
	Output string

	// Passes is the number of passes taken to reach the fixed point.
	Passes int

	// Changed lists the fixers that changed the stream at least once, in the
	// order they first did.
	Changed []string

	// Modified reports whether Output differs from the input.
	Modified bool

	Conflicts []fixer.ConflictPair
	Notices   []ruleset.Notice

	// Err is a *fault.Error when Failed.
	Err error
}

// OK reports whether the run reached a fixed point.
func (r *Result) OK() bool { return r.State == Stable }

// Run processes src to a fixed point.
//
// A pass runs every fixer once, in order. A fixer is skipped when its
// IsCandidate gate rejects the current stream, or when it already ran on
// exactly the current text: fixers are idempotent, so their own output is a
// fixed point for them. The loop stops as soon as every fixer is settled on
// the current text, and fails with NonConvergence when that has not happened
// after MaxPasses passes.
func (p *Plan) Run(src string) *Result {
	res := &Result{
		Output:    src,
		Conflicts: p.Conflicts(),
		Notices:   p.Notices(),
	}

	s, err := tokens.Tokenize(src)
	if err != nil {
		return p.fail(res, Tokenizing, err)
	}
	balanced := s.CheckBalance() == nil

	// settled[i] holds the stream hash fixer i is known to leave unchanged.
	settled := make([]uint64, len(p.steps))
	known := make([]bool, len(p.steps))
	seen := make(map[string]bool)
	cur := s.Hash()

	allSettled := func() bool {
		for i := range p.steps {
			if !known[i] || settled[i] != cur {
				return false
			}
		}
		return true
	}

	var lastChanged []string
	for pass := 1; pass <= p.maxPasses; pass++ {
		var changed []string
		for i, st := range p.steps {
			if known[i] && settled[i] == cur {
				continue
			}
			if !st.fixer.IsCandidate(s) {
				settled[i], known[i] = cur, true
				continue
			}

			version := s.Version()
			if err := st.fixer.Fix(s, st.cfg); err != nil {
				return p.fail(res, Converging, fixerError(st.name, pass, err))
			}
			if s.Version() != version {
				if h := s.Hash(); h != cur {
					cur = h
					changed = append(changed, st.name)
					if !seen[st.name] {
						seen[st.name] = true
						res.Changed = append(res.Changed, st.name)
					}
					if balanced {
						if err := s.CheckBalance(); err != nil {
							return p.fail(res, Converging, fault.New(fault.UnbalancedStructure, "fixer broke bracket balance").
								WithNames(st.name).WithPass(pass).Wrap(err))
						}
					}
					p.logger.Debug("fixer changed stream", "fixer", st.name, "pass", pass)
				}
			}
			settled[i], known[i] = cur, true
		}

		if allSettled() {
			res.State = Stable
			res.Passes = pass
			res.Output = s.Render()
			res.Modified = res.Output != src
			p.logger.Debug("stable", "passes", pass, "changed", res.Changed)
			return res
		}
		lastChanged = changed
	}

	return p.fail(res, Converging, fault.New(fault.NonConvergence, "no fixed point after %d passes", p.maxPasses).
		WithNames(lastChanged...).
		WithPass(p.maxPasses))
}

func (p *Plan) fail(res *Result, in State, err error) *Result {
	res.State = Failed
	res.FailedIn = in
	res.Err = err
	p.logger.Debug("failed", "state", string(in), "error", err)
	return res
}

// fixerError attributes a fixer failure to the fixer and pass, keeping the
// structural kind reported by the stream.
func fixerError(name string, pass int, err error) error {
	kind := fault.KindOf(err)
	if kind == "" {
		kind = fault.UnbalancedStructure
	}
	return fault.New(kind, "fixer failed").WithNames(name).WithPass(pass).Wrap(err)
}

// String summarizes the result for logs.
func (r *Result) String() string {
	if r.State == Stable {
		return fmt.Sprintf("stable after %d pass(es), changed by %v", r.Passes, r.Changed)
	}
	return fmt.Sprintf("failed while %s: %v", r.FailedIn, r.Err)
}
