package graph

// DanglingRef is a dependency that named a node absent from the load
type DanglingRef struct {
	Node       string
	Dependency string
}

// ReplaceReport lists everything a bulk load had to drop
type ReplaceReport struct {
	// InvalidNodes counts nodes dropped for having no id
	InvalidNodes   int
	DuplicateNodes []string
	DanglingRefs   []DanglingRef
	RejectedEdges  []EdgeKey
}

// Clean reports whether nothing was dropped
func (r ReplaceReport) Clean() bool {
	return r.InvalidNodes == 0 && len(r.DuplicateNodes) == 0 && len(r.DanglingRefs) == 0 && len(r.RejectedEdges) == 0
}

// Replace discards the current state and loads nodes and explicit edges.
// Declared dependencies are wired on default ports after every node exists,
// so declaration order does not matter. Bad references are dropped and
// reported instead of failing the load.
func (g *Graph) Replace(nodes []Node, edges []EdgeKey) ReplaceReport {
	var report ReplaceReport

	g.nodes = nil
	g.edges = nil
	g.index = make(map[string]int, len(nodes))

	declared := make(map[string][]string, len(nodes))
	for _, n := range nodes {
		deps := n.Dependencies
		n.Dependencies = nil
		if n.ID == "" {
			report.InvalidNodes++
			continue
		}
		if !g.AddNode(n) {
			report.DuplicateNodes = append(report.DuplicateNodes, n.ID)
			continue
		}
		declared[n.ID] = deps
	}

	for _, n := range g.nodes {
		for _, dep := range declared[n.ID] {
			if !g.Has(dep) || dep == n.ID {
				report.DanglingRefs = append(report.DanglingRefs, DanglingRef{Node: n.ID, Dependency: dep})
				continue
			}
			g.connectDefault(dep, n.ID)
		}
	}

	for _, key := range edges {
		if g.HasEdge(key) {
			// already implied by a declared dependency
			continue
		}
		if !g.AddEdge(key.From, key.FromPort, key.To, key.ToPort) {
			report.RejectedEdges = append(report.RejectedEdges, key)
		}
	}

	return report
}
