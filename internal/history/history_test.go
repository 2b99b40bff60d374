package history

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/felixgeelhaar/flowcanvas/internal/geom"
	"github.com/felixgeelhaar/flowcanvas/internal/graph"
)

func seeded(t *testing.T) *graph.Graph {
	t.Helper()
	g := graph.New()
	require.True(t, g.AddNode(graph.Node{ID: "a", Params: map[string]any{"k": "v"}}))
	require.True(t, g.AddNode(graph.Node{ID: "b", Dependencies: []string{"a"}}))
	return g
}

func TestSnapshotMutateUndo(t *testing.T) {
	mutations := map[string]func(g *graph.Graph){
		"add node":    func(g *graph.Graph) { g.AddNode(graph.Node{ID: "c"}) },
		"remove node": func(g *graph.Graph) { g.RemoveNode("a") },
		"add edge":    func(g *graph.Graph) { g.AddEdge("b", "out", "a", "in") },
		"remove edge": func(g *graph.Graph) { g.RemoveEdge("a", "b") },
		"move":        func(g *graph.Graph) { g.MoveNode("a", geom.Pt(99, 99)) },
		"params":      func(g *graph.Graph) { g.UpdateNodeParams("a", map[string]any{"k": "w"}) },
	}

	for name, mutate := range mutations {
		t.Run(name, func(t *testing.T) {
			g := seeded(t)
			h := New(g, 10)
			before := g.Snapshot()

			h.Snapshot()
			mutate(g)
			after := g.Snapshot()
			require.NotEqual(t, before, after)

			require.True(t, h.Undo())
			assert.Equal(t, before, g.Snapshot())

			require.True(t, h.Redo())
			assert.Equal(t, after, g.Snapshot())
		})
	}
}

func TestBoundariesAreNoOps(t *testing.T) {
	g := seeded(t)
	h := New(g, 10)

	assert.False(t, h.CanUndo())
	assert.False(t, h.CanRedo())
	assert.False(t, h.Undo())
	assert.False(t, h.Redo())

	h.Snapshot()
	g.RemoveNode("b")
	assert.True(t, h.CanUndo())
	assert.False(t, h.CanRedo())
	assert.False(t, h.Redo())

	require.True(t, h.Undo())
	assert.False(t, h.CanUndo())
	assert.False(t, h.Undo())
	assert.True(t, g.Has("b"))
}

func TestNewSnapshotDiscardsRedoBranch(t *testing.T) {
	g := seeded(t)
	h := New(g, 10)

	h.Snapshot()
	g.AddNode(graph.Node{ID: "c"})
	h.Snapshot()
	g.AddNode(graph.Node{ID: "d"})

	require.True(t, h.Undo())
	require.True(t, h.Undo())
	assert.True(t, h.CanRedo())

	h.Snapshot()
	g.AddNode(graph.Node{ID: "e"})

	assert.False(t, h.CanRedo())
	assert.False(t, h.Redo())
	assert.True(t, g.Has("e"))
	assert.False(t, g.Has("c"))

	require.True(t, h.Undo())
	assert.False(t, g.Has("e"))
	assert.False(t, h.CanUndo())
}

func TestMultiStepUndoRedo(t *testing.T) {
	g := graph.New()
	h := New(g, 10)
	var states []graph.Snapshot

	for i := 0; i < 5; i++ {
		states = append(states, g.Snapshot())
		h.Snapshot()
		g.AddNode(graph.Node{ID: fmt.Sprintf("n%d", i)})
	}
	final := g.Snapshot()

	for i := 4; i >= 0; i-- {
		require.True(t, h.Undo())
		assert.Equal(t, states[i], g.Snapshot(), "undo to state %d", i)
	}
	for i := 1; i < 5; i++ {
		require.True(t, h.Redo())
		assert.Equal(t, states[i], g.Snapshot(), "redo to state %d", i)
	}
	require.True(t, h.Redo())
	assert.Equal(t, final, g.Snapshot())
}

func TestEvictionKeepsPointerValid(t *testing.T) {
	g := graph.New()
	h := New(g, 3)

	for i := 0; i < 10; i++ {
		h.Snapshot()
		g.AddNode(graph.Node{ID: fmt.Sprintf("n%d", i)})
	}
	assert.Equal(t, 3, h.Len())

	undone := 0
	for h.Undo() {
		undone++
	}
	assert.Equal(t, 3, undone)
	assert.Equal(t, 7, g.Len())

	for h.Redo() {
	}
	assert.Equal(t, 10, g.Len())
}

func TestMaxOfOne(t *testing.T) {
	g := graph.New()
	h := New(g, 1)

	h.Snapshot()
	g.AddNode(graph.Node{ID: "a"})
	h.Snapshot()
	g.AddNode(graph.Node{ID: "b"})

	require.True(t, h.Undo())
	assert.Equal(t, 1, g.Len())
	assert.False(t, h.Undo())
	require.True(t, h.Redo())
	assert.Equal(t, 2, g.Len())
}

func TestRecordStoresCopy(t *testing.T) {
	g := seeded(t)
	h := New(g, 5)

	pre := g.Snapshot()
	h.Record(pre)
	pre.Nodes[0].Params["k"] = "tampered"
	g.MoveNode("a", geom.Pt(5, 5))

	require.True(t, h.Undo())
	n, _ := g.Node("a")
	assert.Equal(t, "v", n.Params["k"])
	assert.Equal(t, geom.Point{}, n.Position)
}

func TestRestoredStateIsNotShared(t *testing.T) {
	g := seeded(t)
	h := New(g, 5)

	h.Snapshot()
	g.MoveNode("a", geom.Pt(1, 1))
	require.True(t, h.Undo())

	// editing the live graph after undo must not leak into the redo entry
	g.UpdateNodeParams("a", map[string]any{"k": "live-edit"})
	require.True(t, h.Redo())
	n, _ := g.Node("a")
	assert.Equal(t, "v", n.Params["k"])
	assert.Equal(t, geom.Pt(1, 1), n.Position)
}

func TestClear(t *testing.T) {
	g := seeded(t)
	h := New(g, 0)
	assert.Equal(t, DefaultMaxHistory, h.Max())

	h.Snapshot()
	h.Clear()
	assert.False(t, h.CanUndo())
	assert.Equal(t, 0, h.Len())
}

func TestEvictedSnapshotsAreReleased(t *testing.T) {
	g := seeded(t)
	h := New(g, 3)

	for i := 0; i < 10; i++ {
		g.MoveNode("a", geom.Pt(float64(i), 0))
		h.Snapshot()
	}
	assert.Len(t, h.entries, 3)
	assert.LessOrEqual(t, cap(h.entries), 4)
	assert.Equal(t, 3, h.Len())

	require.True(t, h.Undo())
	require.True(t, h.Undo())
	h.Snapshot()

	backing := h.entries[:cap(h.entries)]
	for i := len(h.entries); i < len(backing); i++ {
		assert.Nil(t, backing[i].Nodes, "discarded redo entry %d is still referenced", i)
	}
}
