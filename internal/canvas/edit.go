package canvas

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/felixgeelhaar/flowcanvas/internal/geom"
	"github.com/felixgeelhaar/flowcanvas/internal/graph"
	"github.com/felixgeelhaar/flowcanvas/internal/layout"
)

// CopySuffix decorates the label of a duplicated node
const CopySuffix = " (copy)"

// commit snapshots the graph, applies mutate and records the snapshot only
// if mutate reports a change
func (c *Canvas) commit(op string, mutate func() bool) bool {
	before := c.graph.Snapshot()
	if !mutate() {
		return false
	}
	c.history.Record(before)
	c.m.RecordEdit(op)
	c.refresh()
	c.log.Debug("graph edited", "op", op, "history", c.history.Len())
	return true
}

// AddNode inserts a node, generating an id when n has none. It returns the
// id of the new node.
func (c *Canvas) AddNode(n graph.Node) (string, bool) {
	if n.ID == "" {
		n.ID = c.uniqueID("node")
	}
	n.Position = n.Position.ClampMin(0)
	ok := c.commit("add_node", func() bool {
		return c.graph.AddNode(n)
	})
	if !ok {
		return "", false
	}
	return n.ID, true
}

// RemoveNode deletes a node with its edges and dependency references
func (c *Canvas) RemoveNode(id string) bool {
	return c.commit("remove_node", func() bool {
		return c.graph.RemoveNode(id)
	})
}

// AddEdge connects an output port to an input port. Duplicates, self-loops,
// unknown nodes and undeclared ports are ignored.
func (c *Canvas) AddEdge(from, fromPort, to, toPort string) bool {
	key := graph.EdgeKey{From: from, FromPort: fromPort, To: to, ToPort: toPort}
	if !c.graph.CanAddEdge(key) {
		return false
	}
	return c.commit("add_edge", func() bool {
		return c.graph.AddEdge(from, fromPort, to, toPort)
	})
}

// RemoveEdge removes every edge from -> to
func (c *Canvas) RemoveEdge(from, to string) bool {
	return c.commit("remove_edge", func() bool {
		return c.graph.RemoveEdge(from, to) > 0
	})
}

// RemoveEdgeKey removes one port-qualified edge
func (c *Canvas) RemoveEdgeKey(key graph.EdgeKey) bool {
	return c.commit("remove_edge", func() bool {
		return c.graph.RemoveEdgeKey(key)
	})
}

// UpdateNodeParams merges params into a node; a nil value deletes the key
func (c *Canvas) UpdateNodeParams(id string, params map[string]any) bool {
	before, ok := c.graph.Node(id)
	if !ok || len(params) == 0 {
		return false
	}
	return c.commit("update_params", func() bool {
		c.graph.UpdateNodeParams(id, params)
		after, _ := c.graph.Node(id)
		return !reflect.DeepEqual(before.Params, after.Params)
	})
}

// RenameNode changes a node's display label
func (c *Canvas) RenameNode(id, label string) bool {
	n, ok := c.graph.Node(id)
	if !ok || n.Label == label {
		return false
	}
	return c.commit("rename_node", func() bool {
		return c.graph.SetLabel(id, label)
	})
}

// MoveNode places a node at p, clamped to non-negative coordinates
func (c *Canvas) MoveNode(id string, p geom.Point) bool {
	n, ok := c.graph.Node(id)
	p = p.ClampMin(0)
	if !ok || n.Position == p {
		return false
	}
	return c.commit("move_node", func() bool {
		return c.graph.MoveNode(id, p)
	})
}

// NudgeSelected moves every selected node by d
func (c *Canvas) NudgeSelected(d geom.Point) bool {
	ids := c.selection.IDs()
	return c.commit("move_node", func() bool {
		changed := false
		for _, id := range ids {
			n, ok := c.graph.Node(id)
			if !ok {
				continue
			}
			p := n.Position.Add(d).ClampMin(0)
			if p != n.Position {
				changed = c.graph.MoveNode(id, p) || changed
			}
		}
		return changed
	})
}

// DeleteSelected removes every selected node and clears the selection
func (c *Canvas) DeleteSelected() int {
	ids := c.selection.IDs()
	removed := 0
	c.commit("delete_selected", func() bool {
		for _, id := range ids {
			if c.graph.RemoveNode(id) {
				removed++
			}
		}
		return removed > 0
	})
	c.selection.Clear()
	return removed
}

// DuplicateNode clones a node under a new id, shifted by the duplicate
// offset. The copy starts with no dependencies and no edges.
func (c *Canvas) DuplicateNode(id string) (string, bool) {
	src, ok := c.graph.Node(id)
	if !ok {
		return "", false
	}
	dup := src.Clone()
	dup.ID = c.uniqueID(id)
	dup.Label = src.DisplayName() + CopySuffix
	dup.Position = src.Position.Add(c.opts.DuplicateOffset).ClampMin(0)
	dup.Dependencies = nil
	dup.Status = graph.StatusPending
	dup.Progress = nil

	if !c.commit("duplicate_node", func() bool { return c.graph.AddNode(dup) }) {
		return "", false
	}
	c.selection.Replace(dup.ID)
	return dup.ID, true
}

// AutoLayout repositions every node by dependency level. Cyclic nodes are
// placed on the top level and reported through OnCycle.
func (c *Canvas) AutoLayout() layout.Levels {
	nodes := c.graph.Nodes()
	levels := layout.ComputeLevels(nodes)
	positions := layout.Place(nodes, levels, c.opts.Layout)

	c.commit("auto_layout", func() bool {
		changed := false
		for _, n := range nodes {
			if p, ok := positions[n.ID]; ok && p != n.Position {
				changed = c.graph.MoveNode(n.ID, p) || changed
			}
		}
		return changed
	})
	c.reportCycle(levels)
	c.FitContent()
	return levels
}

// Undo restores the state before the last edit. Any active interaction is
// ended first. Node status and progress keep their live values.
func (c *Canvas) Undo() bool {
	return c.restore("undo", c.history.Undo)
}

// Redo reapplies the last undone edit. Node status and progress keep their
// live values.
func (c *Canvas) Redo() bool {
	return c.restore("redo", c.history.Redo)
}

// telemetry is the execution state of a node, owned by the status feed
// rather than by history
type telemetry struct {
	status   graph.Status
	progress *int
}

func (c *Canvas) restore(direction string, step func() bool) bool {
	c.CancelInteraction()
	live := make(map[string]telemetry, c.graph.Len())
	for _, n := range c.graph.Nodes() {
		live[n.ID] = telemetry{status: n.Status, progress: n.Progress}
	}
	if !step() {
		return false
	}
	for id, t := range live {
		c.graph.UpdateNodeStatus(id, t.status, t.progress)
	}
	c.m.RecordRestore(direction)
	c.refresh()
	return true
}

// Select adds a node to the selection
func (c *Canvas) Select(id string) bool {
	if !c.graph.Has(id) {
		return false
	}
	c.selection.Select(id)
	return true
}

// ToggleSelect flips a node's selection and reports whether it is selected
func (c *Canvas) ToggleSelect(id string) bool {
	if !c.graph.Has(id) {
		return false
	}
	return c.selection.Toggle(id)
}

// SelectAll selects every node
func (c *Canvas) SelectAll() {
	ids := make([]string, 0, c.graph.Len())
	for _, n := range c.graph.Nodes() {
		ids = append(ids, n.ID)
	}
	c.selection.Replace(ids...)
}

// ClearSelection empties the selection
func (c *Canvas) ClearSelection() {
	c.selection.Clear()
}

// IsSelected reports whether id is selected
func (c *Canvas) IsSelected(id string) bool {
	return c.selection.Contains(id)
}

// Selected returns the selected ids in sorted order
func (c *Canvas) Selected() []string {
	return c.selection.IDs()
}

// uniqueID derives an unused id from base and a generated suffix
func (c *Canvas) uniqueID(base string) string {
	for attempt := 0; ; attempt++ {
		suffix := strings.ReplaceAll(c.opts.NewID(), "-", "")
		if len(suffix) > 8 {
			suffix = suffix[:8]
		}
		id := base + "-" + suffix
		if attempt > 0 {
			id = fmt.Sprintf("%s-%d", id, attempt)
		}
		if !c.graph.Has(id) {
			return id
		}
	}
}
