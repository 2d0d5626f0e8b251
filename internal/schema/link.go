package schema

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"configen/internal/resolve"
)

// Graph maps each schema to the schemas its fields reference.
type Graph map[resolve.SchemaID][]resolve.SchemaID

// CycleError reports schemas that reference each other. No output is
// produced for any member.
type CycleError struct {
	// Members in manifest order.
	Members []resolve.SchemaID
}

func (e *CycleError) Error() string {
	parts := make([]string, 0, len(e.Members)+1)
	for _, m := range e.Members {
		parts = append(parts, m.String())
	}

	parts = append(parts, e.Members[0].String())

	return "reference cycle: " + strings.Join(parts, " -> ")
}

// Linkage is the result of linking one run's schemas.
type Linkage struct {
	Graph Graph
	// Order lists every schema that is not part of a cycle, each after the
	// run-local schemas it references.
	Order []resolve.SchemaID
	// Cycles lists the members of each reference cycle.
	Cycles [][]resolve.SchemaID
	// External lists referenced schemas that are not part of the run, sorted.
	External []resolve.SchemaID
	// Blocked maps schemas outside any cycle to the cyclic schemas they
	// reference.
	Blocked map[resolve.SchemaID][]resolve.SchemaID
}

// Cyclic reports whether id is part of a reference cycle.
func (l *Linkage) Cyclic(id resolve.SchemaID) bool {
	for _, c := range l.Cycles {
		if slices.Contains(c, id) {
			return true
		}
	}

	return false
}

// LinkAll builds the reference graph of schemas, detects cycles and computes
// the emission order. Schemas are given in manifest order, which also breaks
// ordering ties. The error, if any, joins one *CycleError per cycle; the
// Linkage is complete either way.
func LinkAll(schemas []*ConfigSchema) (*Linkage, error) {
	index := make(map[resolve.SchemaID]int, len(schemas))
	for i, s := range schemas {
		if _, dup := index[s.ID]; !dup {
			index[s.ID] = i
		}
	}

	l := &Linkage{
		Graph:   make(Graph, len(schemas)),
		Blocked: make(map[resolve.SchemaID][]resolve.SchemaID),
	}

	adj := make([][]int, len(schemas))
	external := make(map[resolve.SchemaID]bool)

	for i, s := range schemas {
		refs := s.Refs()
		l.Graph[s.ID] = refs

		for _, r := range refs {
			j, local := index[r]
			if !local {
				external[r] = true

				continue
			}

			adj[i] = append(adj[i], j)
		}

		slices.Sort(adj[i])
	}

	for id := range external {
		l.External = append(l.External, id)
	}

	slices.Sort(l.External)

	cyclic := make([]bool, len(schemas))

	for _, comp := range stronglyConnected(adj) {
		if len(comp) == 1 && !slices.Contains(adj[comp[0]], comp[0]) {
			continue
		}

		slices.Sort(comp)

		members := make([]resolve.SchemaID, 0, len(comp))
		for _, i := range comp {
			cyclic[i] = true
			members = append(members, schemas[i].ID)
		}

		l.Cycles = append(l.Cycles, members)
	}

	slices.SortFunc(l.Cycles, func(a, b []resolve.SchemaID) int {
		return index[a[0]] - index[b[0]]
	})

	errs := make([]error, 0, len(l.Cycles))
	for _, members := range l.Cycles {
		errs = append(errs, &CycleError{Members: members})
	}

	// Non-cyclic nodes only; edges into cycles are dropped and recorded.
	var nodes []int

	pos := make(map[int]int)

	for i := range schemas {
		if cyclic[i] || index[schemas[i].ID] != i {
			continue
		}

		pos[i] = len(nodes)
		nodes = append(nodes, i)
	}

	order, err := topoSort(len(nodes), func(k int) []int {
		var deps []int

		for _, j := range adj[nodes[k]] {
			if cyclic[j] {
				id := schemas[nodes[k]].ID
				l.Blocked[id] = append(l.Blocked[id], schemas[j].ID)

				continue
			}

			deps = append(deps, pos[j])
		}

		return deps
	})
	if err != nil {
		return nil, fmt.Errorf("link schemas: %w", err)
	}

	for _, k := range order {
		l.Order = append(l.Order, schemas[nodes[k]].ID)
	}

	return l, errors.Join(errs...)
}

// stronglyConnected returns the strongly connected components of the graph
// given as adjacency lists (Tarjan's algorithm). Neighbors are visited in
// list order, so the result is deterministic.
func stronglyConnected(adj [][]int) [][]int {
	var (
		next    int
		stack   []int
		comps   [][]int
		index   = make([]int, len(adj))
		low     = make([]int, len(adj))
		onStack = make([]bool, len(adj))
	)

	for i := range index {
		index[i] = -1
	}

	var visit func(v int)
	visit = func(v int) {
		index[v], low[v] = next, next
		next++

		stack = append(stack, v)
		onStack[v] = true

		for _, w := range adj[v] {
			switch {
			case index[w] < 0:
				visit(w)
				low[v] = min(low[v], low[w])
			case onStack[w]:
				low[v] = min(low[v], index[w])
			}
		}

		if low[v] != index[v] {
			return
		}

		var comp []int

		for {
			w := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			onStack[w] = false

			comp = append(comp, w)
			if w == v {
				break
			}
		}

		comps = append(comps, comp)
	}

	for v := range adj {
		if index[v] < 0 {
			visit(v)
		}
	}

	return comps
}
