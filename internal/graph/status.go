package graph

// EdgeStatus is the derived visual/semantic state of an edge
type EdgeStatus string

// Edge statuses
const (
	EdgeInactive  EdgeStatus = "inactive"
	EdgeActive    EdgeStatus = "active"
	EdgeCompleted EdgeStatus = "completed"
	EdgeFailed    EdgeStatus = "failed"
)

// ProjectEdgeStatus derives an edge's status from its endpoints. Failure on
// either side wins, then data in flight, then completion.
func ProjectEdgeStatus(from, to Status) EdgeStatus {
	switch {
	case from == StatusFailed || to == StatusFailed:
		return EdgeFailed
	case from == StatusCompleted && to == StatusRunning:
		return EdgeActive
	case from == StatusCompleted && to == StatusCompleted:
		return EdgeCompleted
	default:
		return EdgeInactive
	}
}

// EdgeStatuses projects every edge of the graph
func (g *Graph) EdgeStatuses() map[EdgeKey]EdgeStatus {
	out := make(map[EdgeKey]EdgeStatus, len(g.edges))
	for _, e := range g.edges {
		from := g.nodes[g.index[e.Key.From]]
		to := g.nodes[g.index[e.Key.To]]
		out[e.Key] = ProjectEdgeStatus(from.Status, to.Status)
	}
	return out
}
