package fixer

import (
	"cmp"
	"slices"

	"github.com/wharflab/polish/internal/fault"
)

// BuildOrder returns the enabled fixers in execution order.
//
// An edge A->B exists when A declares Before B or B declares After A and both
// are enabled. The result is a topological order of that graph; among fixers
// whose predecessors have all been placed, higher priority goes first, then
// lower name. The order depends only on the enabled set, never on
// registration order.
func (r *Registry) BuildOrder(enabled []string) ([]Fixer, error) {
	nodes, err := r.lookupAll(enabled)
	if err != nil {
		return nil, err
	}

	succ := r.edges(nodes)
	indegree := make(map[string]int, len(nodes))
	for name := range nodes {
		indegree[name] = 0
	}
	for _, targets := range succ {
		for _, to := range targets {
			indegree[to]++
		}
	}

	var ready []string
	for name, d := range indegree {
		if d == 0 {
			ready = append(ready, name)
		}
	}

	order := make([]Fixer, 0, len(nodes))
	for len(ready) > 0 {
		slices.SortFunc(ready, func(a, b string) int { return compareNodes(nodes[a], nodes[b]) })
		next := ready[0]
		ready = ready[1:]
		order = append(order, nodes[next])
		for _, to := range succ[next] {
			indegree[to]--
			if indegree[to] == 0 {
				ready = append(ready, to)
			}
		}
	}

	if len(order) < len(nodes) {
		cyclic := cycleMembers(nodes, succ)
		return nil, fault.New(fault.OrderingCycle, "before/after declarations form a cycle").WithNames(cyclic...)
	}
	return order, nil
}

func compareNodes(a, b Fixer) int {
	ma, mb := a.Metadata(), b.Metadata()
	if c := cmp.Compare(mb.Priority, ma.Priority); c != 0 {
		return c
	}
	return cmp.Compare(ma.Name, mb.Name)
}

// lookupAll resolves a set of names, failing on the first unknown name in
// sorted order.
func (r *Registry) lookupAll(names []string) (map[string]Fixer, error) {
	sorted := slices.Clone(names)
	slices.Sort(sorted)
	sorted = slices.Compact(sorted)

	nodes := make(map[string]Fixer, len(sorted))
	for _, name := range sorted {
		f := r.Get(name)
		if f == nil {
			return nil, fault.New(fault.UnknownRuleName, "no fixer registered under this name").WithNames(name)
		}
		nodes[name] = f
	}
	return nodes, nil
}

// edges returns sorted, deduplicated successor lists restricted to nodes.
func (r *Registry) edges(nodes map[string]Fixer) map[string][]string {
	succ := make(map[string][]string, len(nodes))
	add := func(from, to string) {
		if _, ok := nodes[from]; !ok {
			return
		}
		if _, ok := nodes[to]; !ok {
			return
		}
		succ[from] = append(succ[from], to)
	}
	for name, f := range nodes {
		meta := f.Metadata()
		for _, b := range meta.Before {
			add(name, b)
		}
		for _, a := range meta.After {
			add(a, name)
		}
	}
	for name := range succ {
		slices.Sort(succ[name])
		succ[name] = slices.Compact(succ[name])
	}
	return succ
}

// cycleMembers returns the sorted names of every fixer that sits on a cycle,
// using Tarjan's strongly connected components.
func cycleMembers(nodes map[string]Fixer, succ map[string][]string) []string {
	names := make([]string, 0, len(nodes))
	for name := range nodes {
		names = append(names, name)
	}
	slices.Sort(names)

	var (
		index   = map[string]int{}
		low     = map[string]int{}
		onStack = map[string]bool{}
		stack   []string
		next    int
		members []string
	)

	var visit func(v string)
	visit = func(v string) {
		index[v] = next
		low[v] = next
		next++
		stack = append(stack, v)
		onStack[v] = true

		for _, w := range succ[v] {
			if _, seen := index[w]; !seen {
				visit(w)
				low[v] = min(low[v], low[w])
			} else if onStack[w] {
				low[v] = min(low[v], index[w])
			}
		}

		if low[v] != index[v] {
			return
		}
		var scc []string
		for {
			w := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			onStack[w] = false
			scc = append(scc, w)
			if w == v {
				break
			}
		}
		if len(scc) > 1 || slices.Contains(succ[v], v) {
			members = append(members, scc...)
		}
	}

	for _, v := range names {
		if _, seen := index[v]; !seen {
			visit(v)
		}
	}
	slices.Sort(members)
	return members
}
