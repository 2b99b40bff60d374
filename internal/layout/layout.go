// Package layout assigns levels and positions to workflow nodes.
//
// A node's level is the length of its longest dependency chain. Cycles are
// not rejected: nodes that take part in a cycle resolve to level 0, so a
// cyclic subgraph collapses onto the top row. The cyclic ids are reported so
// callers can surface the condition instead of silently showing the layout.
package layout

import (
	"sort"

	"github.com/felixgeelhaar/flowcanvas/internal/geom"
	"github.com/felixgeelhaar/flowcanvas/internal/graph"
)

// Default spacing and origin in logical units
const (
	DefaultSpacingX = 200
	DefaultSpacingY = 140
	DefaultOriginX  = 50
	DefaultOriginY  = 50
)

// Options controls node placement
type Options struct {
	SpacingX float64
	SpacingY float64
	Origin   geom.Point
}

// DefaultOptions returns the standard spacing (200, 140) and origin (50, 50)
func DefaultOptions() Options {
	return Options{
		SpacingX: DefaultSpacingX,
		SpacingY: DefaultSpacingY,
		Origin:   geom.Pt(DefaultOriginX, DefaultOriginY),
	}
}

// Levels is the result of level assignment
type Levels struct {
	ByNode map[string]int
	// Cyclic holds the ids that were part of a dependency cycle, sorted
	Cyclic []string
}

// HasCycle reports whether any cycle was found
func (l Levels) HasCycle() bool {
	return len(l.Cyclic) > 0
}

// ComputeLevels assigns every node its level via memoized recursion
func ComputeLevels(nodes []graph.Node) Levels {
	deps := make(map[string][]string, len(nodes))
	for _, n := range nodes {
		deps[n.ID] = n.Dependencies
	}

	levels := make(map[string]int, len(nodes))
	cyclic := make(map[string]bool)

	var resolve func(id string, stack []string, onStack map[string]int) int
	resolve = func(id string, stack []string, onStack map[string]int) int {
		if l, ok := levels[id]; ok {
			return l
		}
		if pos, ok := onStack[id]; ok {
			// revisited while still resolving: everything from id upward is a cycle
			for _, member := range stack[pos:] {
				cyclic[member] = true
			}
			return 0
		}

		onStack[id] = len(stack)
		stack = append(stack, id)

		level := 0
		for _, dep := range deps[id] {
			if _, known := deps[dep]; !known {
				continue
			}
			if l := resolve(dep, stack, onStack) + 1; l > level {
				level = l
			}
		}
		delete(onStack, id)

		if cyclic[id] {
			level = 0
		}
		levels[id] = level
		return level
	}

	for _, n := range nodes {
		resolve(n.ID, nil, make(map[string]int))
	}

	out := Levels{ByNode: levels}
	for id := range cyclic {
		out.Cyclic = append(out.Cyclic, id)
	}
	sort.Strings(out.Cyclic)
	return out
}

// Groups returns node ids per level, preserving input order inside a level
func Groups(nodes []graph.Node, levels Levels) [][]string {
	var groups [][]string
	for _, n := range nodes {
		l, ok := levels.ByNode[n.ID]
		if !ok {
			continue
		}
		for len(groups) <= l {
			groups = append(groups, nil)
		}
		groups[l] = append(groups[l], n.ID)
	}
	return groups
}

// Layout computes a position for every node: levels stack top to bottom,
// nodes within a level run left to right in input order.
func Layout(nodes []graph.Node, opts Options) map[string]geom.Point {
	levels := ComputeLevels(nodes)
	return Place(nodes, levels, opts)
}

// Place converts precomputed levels into positions
func Place(nodes []graph.Node, levels Levels, opts Options) map[string]geom.Point {
	positions := make(map[string]geom.Point, len(nodes))
	for level, ids := range Groups(nodes, levels) {
		for i, id := range ids {
			positions[id] = geom.Pt(
				opts.Origin.X+float64(i)*opts.SpacingX,
				opts.Origin.Y+float64(level)*opts.SpacingY,
			)
		}
	}
	return positions
}
