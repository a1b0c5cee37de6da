package depgraph

import (
	"sort"

	"github.com/peelbox/peelbox/pkg/registry"
)

// ResolveResult is the Build-Order Resolver's output (spec.md §4.D6).
type ResolveResult struct {
	// Order is a permutation of the input node paths such that every
	// edge (u -> v) satisfies index(u) > index(v), unless HasCycle is
	// true (spec.md §8 invariant 3).
	Order    []string
	HasCycle bool
}

// Resolve runs Kahn's algorithm with a FIFO queue over a graph whose
// nodes are package paths and whose edges are "depends-on" (an edge
// u->v means u depends on v, so v must build first and therefore
// appear earlier in Order). Ties in the zero-in-degree frontier break
// lexicographically for reproducibility (spec.md §4.D6).
func Resolve(nodes []string, deps map[string][]registry.Dep) ResolveResult {
	inDegree := make(map[string]int, len(nodes))
	adj := make(map[string][]string) // v -> [u, ...] : u depends on v
	nodeSet := make(map[string]struct{}, len(nodes))
	for _, n := range nodes {
		inDegree[n] = 0
		nodeSet[n] = struct{}{}
	}
	for u, ds := range deps {
		if _, ok := nodeSet[u]; !ok {
			continue
		}
		for _, d := range ds {
			v := d.Path
			if v == "" {
				continue
			}
			if _, ok := nodeSet[v]; !ok {
				continue // dependency outside the known node set is not graphed
			}
			adj[v] = append(adj[v], u)
			inDegree[u]++
		}
	}

	var frontier []string
	for _, n := range nodes {
		if inDegree[n] == 0 {
			frontier = append(frontier, n)
		}
	}
	sort.Strings(frontier)

	var order []string
	visited := make(map[string]struct{}, len(nodes))
	for len(frontier) > 0 {
		sort.Strings(frontier)
		n := frontier[0]
		frontier = frontier[1:]
		order = append(order, n)
		visited[n] = struct{}{}

		var newlyReady []string
		for _, dependent := range adj[n] {
			inDegree[dependent]--
			if inDegree[dependent] == 0 {
				newlyReady = append(newlyReady, dependent)
			}
		}
		sort.Strings(newlyReady)
		frontier = append(frontier, newlyReady...)
	}

	hasCycle := len(order) < len(nodes)
	if hasCycle {
		var remaining []string
		for _, n := range nodes {
			if _, ok := visited[n]; !ok {
				remaining = append(remaining, n)
			}
		}
		sort.Strings(remaining)
		order = append(order, remaining...)
	}

	return ResolveResult{Order: order, HasCycle: hasCycle}
}
