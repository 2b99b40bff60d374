package graph

import (
	"encoding/json"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/felixgeelhaar/flowcanvas/internal/geom"
)

func newChain(t *testing.T, ids ...string) *Graph {
	t.Helper()
	g := New()
	for i, id := range ids {
		n := Node{ID: id, Kind: "tool::test"}
		if i > 0 {
			n.Dependencies = []string{ids[i-1]}
		}
		require.True(t, g.AddNode(n))
	}
	return g
}

// newPair builds a -> b where b also declares the extra input ports
func newPair(t *testing.T, extraInputs ...string) *Graph {
	t.Helper()
	inputs := []Port{{Name: DefaultInputPort}}
	for _, name := range extraInputs {
		inputs = append(inputs, Port{Name: name})
	}
	g := New()
	require.True(t, g.AddNode(Node{ID: "a"}))
	require.True(t, g.AddNode(Node{ID: "b", Inputs: inputs, Dependencies: []string{"a"}}))
	return g
}

func TestAddNodeDefaults(t *testing.T) {
	g := New()
	require.True(t, g.AddNode(Node{ID: "a"}))

	n, ok := g.Node("a")
	require.True(t, ok)
	assert.Equal(t, StatusPending, n.Status)
	assert.Equal(t, []Port{{Name: DefaultInputPort}}, n.Inputs)
	assert.Equal(t, []Port{{Name: DefaultOutputPort}}, n.Outputs)
}

func TestAddNodeRejectsDuplicateAndEmpty(t *testing.T) {
	g := New()
	assert.True(t, g.AddNode(Node{ID: "a"}))
	assert.False(t, g.AddNode(Node{ID: "a", Kind: "other"}))
	assert.False(t, g.AddNode(Node{}))
	assert.Equal(t, 1, g.Len())
}

func TestAddNodeWiresDeclaredDependencies(t *testing.T) {
	g := New()
	require.True(t, g.AddNode(Node{ID: "a"}))
	require.True(t, g.AddNode(Node{ID: "b", Dependencies: []string{"a", "missing", "b"}}))

	b, _ := g.Node("b")
	assert.Equal(t, []string{"a"}, b.Dependencies)
	assert.Equal(t, []Edge{{Key: EdgeKey{From: "a", FromPort: "out", To: "b", ToPort: "in"}}}, g.Edges())
}

func TestAddEdgeNoOps(t *testing.T) {
	tests := []struct {
		name string
		key  EdgeKey
	}{
		{"self loop", EdgeKey{"a", "out", "a", "in"}},
		{"missing source", EdgeKey{"x", "out", "b", "in"}},
		{"missing target", EdgeKey{"a", "out", "x", "in"}},
		{"duplicate tuple", EdgeKey{"a", "out", "b", "in"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := newChain(t, "a", "b")
			before := g.Snapshot()

			ok := g.AddEdge(tt.key.From, tt.key.FromPort, tt.key.To, tt.key.ToPort)

			assert.False(t, ok)
			assert.Equal(t, before, g.Snapshot())
		})
	}
}

func TestAddEdgeSecondPortKeepsSingleDependency(t *testing.T) {
	g := newPair(t, "config")
	require.True(t, g.AddEdge("a", "out", "b", "config"))

	b, _ := g.Node("b")
	assert.Equal(t, []string{"a"}, b.Dependencies)
	assert.Len(t, g.Edges(), 2)
}

func TestAddEdgeRequiresDeclaredPorts(t *testing.T) {
	tests := []struct {
		name string
		key  EdgeKey
	}{
		{"input as source", EdgeKey{"a", "in", "b", "in"}},
		{"output as target", EdgeKey{"a", "out", "b", "out"}},
		{"reversed ports", EdgeKey{"a", "in", "b", "out"}},
		{"unknown source port", EdgeKey{"a", "bogus", "b", "in"}},
		{"unknown target port", EdgeKey{"a", "out", "b", "nope"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := New()
			require.True(t, g.AddNode(Node{ID: "a"}))
			require.True(t, g.AddNode(Node{ID: "b"}))

			assert.False(t, g.CanAddEdge(tt.key))
			assert.False(t, g.AddEdge(tt.key.From, tt.key.FromPort, tt.key.To, tt.key.ToPort))
			assert.Empty(t, g.Edges())
			b, _ := g.Node("b")
			assert.Empty(t, b.Dependencies)
		})
	}
}

func TestRemoveNodeCascades(t *testing.T) {
	g := New()
	require.True(t, g.AddNode(Node{ID: "a"}))
	require.True(t, g.AddNode(Node{ID: "b", Dependencies: []string{"a"}}))
	require.True(t, g.AddNode(Node{ID: "c", Dependencies: []string{"a", "b"}}))
	require.True(t, g.AddEdge("c", "out", "a", "in"))

	require.True(t, g.RemoveNode("a"))

	for _, e := range g.Edges() {
		assert.False(t, e.Key.Touches("a"), "edge %s still references a", e.Key)
	}
	for _, n := range g.Nodes() {
		assert.False(t, n.DependsOn("a"), "node %s still depends on a", n.ID)
	}
	c, _ := g.Node("c")
	assert.Equal(t, []string{"b"}, c.Dependencies)
	assert.False(t, g.RemoveNode("a"))
}

func TestRemoveNodeNeverLeavesDanglingEdges(t *testing.T) {
	ids := []string{"n0", "n1", "n2", "n3", "n4", "n5"}
	for _, victim := range ids {
		t.Run(victim, func(t *testing.T) {
			g := New()
			for _, id := range ids {
				require.True(t, g.AddNode(Node{ID: id}))
			}
			// dense graph, both directions
			for i, from := range ids {
				for j, to := range ids {
					if i != j {
						g.AddEdge(from, "out", to, "in")
					}
				}
			}

			g.RemoveNode(victim)

			for _, e := range g.Edges() {
				assert.False(t, e.Key.Touches(victim))
			}
			assert.Len(t, g.Edges(), (len(ids)-1)*(len(ids)-2))
		})
	}
}

func TestRemoveEdge(t *testing.T) {
	g := newPair(t, "config")
	require.True(t, g.AddEdge("a", "out", "b", "config"))

	t.Run("port qualified keeps dependency while another edge remains", func(t *testing.T) {
		require.True(t, g.RemoveEdgeKey(EdgeKey{"a", "out", "b", "config"}))
		b, _ := g.Node("b")
		assert.Equal(t, []string{"a"}, b.Dependencies)
	})

	t.Run("pair removal drops dependency", func(t *testing.T) {
		assert.Equal(t, 1, g.RemoveEdge("a", "b"))
		b, _ := g.Node("b")
		assert.Empty(t, b.Dependencies)
		assert.Empty(t, g.Edges())
	})

	t.Run("missing edge is a no-op", func(t *testing.T) {
		assert.Equal(t, 0, g.RemoveEdge("a", "b"))
		assert.False(t, g.RemoveEdgeKey(EdgeKey{"a", "out", "b", "in"}))
	})
}

func TestUpdateNodeStatus(t *testing.T) {
	g := newChain(t, "a")

	over := 140
	require.True(t, g.UpdateNodeStatus("a", StatusRunning, &over))
	n, _ := g.Node("a")
	assert.Equal(t, StatusRunning, n.Status)
	require.NotNil(t, n.Progress)
	assert.Equal(t, 100, *n.Progress)

	assert.False(t, g.UpdateNodeStatus("a", Status("exploded"), nil))
	assert.False(t, g.UpdateNodeStatus("missing", StatusFailed, nil))

	require.True(t, g.UpdateNodeStatus("a", StatusCompleted, nil))
	n, _ = g.Node("a")
	assert.Nil(t, n.Progress)
}

func TestUpdateNodeParams(t *testing.T) {
	g := New()
	require.True(t, g.AddNode(Node{ID: "a", Params: map[string]any{"url": "x", "retries": 1}}))

	require.True(t, g.UpdateNodeParams("a", map[string]any{"url": "y", "retries": nil, "timeout": "5s"}))

	n, _ := g.Node("a")
	assert.Equal(t, map[string]any{"url": "y", "timeout": "5s"}, n.Params)
	assert.False(t, g.UpdateNodeParams("missing", map[string]any{"k": "v"}))
}

func TestSnapshotIsDeepCopy(t *testing.T) {
	g := New()
	require.True(t, g.AddNode(Node{ID: "a", Params: map[string]any{"nested": map[string]any{"k": "v"}}}))
	snap := g.Snapshot()

	g.UpdateNodeParams("a", map[string]any{"nested": map[string]any{"k": "changed"}})
	snap.Nodes[0].Params["nested"].(map[string]any)["k"] = "mutated-copy"

	n, _ := g.Node("a")
	assert.Equal(t, "changed", n.Params["nested"].(map[string]any)["k"])

	g.Restore(snap)
	snap.Nodes[0].Params["nested"].(map[string]any)["k"] = "after-restore"
	n, _ = g.Node("a")
	assert.Equal(t, "mutated-copy", n.Params["nested"].(map[string]any)["k"])
}

func TestReplaceDropsBadReferences(t *testing.T) {
	g := newChain(t, "old")

	report := g.Replace([]Node{
		{ID: "b", Dependencies: []string{"a", "ghost"}, Inputs: []Port{{Name: "in"}, {Name: "aux"}}},
		{ID: "a"},
		{ID: "a", Kind: "dup"},
		{Kind: "no id"},
	}, []EdgeKey{
		{From: "a", FromPort: "out", To: "b", ToPort: "in"},
		{From: "b", FromPort: "out", To: "b", ToPort: "in"},
		{From: "a", FromPort: "out", To: "b", ToPort: "aux"},
		{From: "a", FromPort: "bogus", To: "b", ToPort: "nope"},
		{From: "a", FromPort: "in", To: "b", ToPort: "out"},
	})

	assert.False(t, g.Has("old"))
	assert.Equal(t, 1, report.InvalidNodes)
	assert.Equal(t, []string{"a"}, report.DuplicateNodes)
	assert.Equal(t, []DanglingRef{{Node: "b", Dependency: "ghost"}}, report.DanglingRefs)
	assert.Equal(t, []EdgeKey{
		{From: "b", FromPort: "out", To: "b", ToPort: "in"},
		{From: "a", FromPort: "bogus", To: "b", ToPort: "nope"},
		{From: "a", FromPort: "in", To: "b", ToPort: "out"},
	}, report.RejectedEdges)
	assert.False(t, report.Clean())

	b, _ := g.Node("b")
	assert.Equal(t, []string{"a"}, b.Dependencies)
	assert.Len(t, g.Edges(), 2)
}

func TestProjectEdgeStatus(t *testing.T) {
	tests := []struct {
		from, to Status
		want     EdgeStatus
	}{
		{StatusFailed, StatusCompleted, EdgeFailed},
		{StatusCompleted, StatusFailed, EdgeFailed},
		{StatusCompleted, StatusRunning, EdgeActive},
		{StatusCompleted, StatusCompleted, EdgeCompleted},
		{StatusRunning, StatusPending, EdgeInactive},
		{StatusPending, StatusPending, EdgeInactive},
		{StatusCompleted, StatusPaused, EdgeInactive},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("%s->%s", tt.from, tt.to), func(t *testing.T) {
			assert.Equal(t, tt.want, ProjectEdgeStatus(tt.from, tt.to))
		})
	}
}

func TestEdgeStatuses(t *testing.T) {
	g := newChain(t, "a", "b")
	g.UpdateNodeStatus("a", StatusCompleted, nil)
	g.UpdateNodeStatus("b", StatusRunning, nil)

	got := g.EdgeStatuses()
	assert.Equal(t, EdgeActive, got[EdgeKey{"a", "out", "b", "in"}])
}

func TestDetailedEdgeJSONContract(t *testing.T) {
	g := newChain(t, "a", "b")

	data, err := json.Marshal(g.DetailedEdges())
	require.NoError(t, err)
	assert.JSONEq(t, `[{"from_node":"a","to_node":"b","from_port":"out","to_port":"in"}]`, string(data))

	var back []DetailedEdge
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, EdgeKey{"a", "out", "b", "in"}, back[0].Key())
}

func TestSimpleEdgesCollapsesPorts(t *testing.T) {
	g := newPair(t, "aux")
	require.True(t, g.AddEdge("a", "out", "b", "aux"))

	assert.Equal(t, []SimpleEdge{{From: "a", To: "b"}}, g.SimpleEdges())
}

func TestFingerprint(t *testing.T) {
	g := newChain(t, "a", "b")
	first, err := g.Fingerprint()
	require.NoError(t, err)
	assert.Len(t, first, 64)

	g.UpdateNodeStatus("a", StatusRunning, nil)
	afterStatus, err := g.Fingerprint()
	require.NoError(t, err)
	assert.Equal(t, first, afterStatus, "status telemetry must not change the fingerprint")

	g.MoveNode("b", geom.Pt(10, 10))
	moved, err := g.Fingerprint()
	require.NoError(t, err)
	assert.NotEqual(t, first, moved)
}

func TestParseStatus(t *testing.T) {
	for _, st := range allStatuses {
		got, err := ParseStatus(string(st))
		require.NoError(t, err)
		assert.Equal(t, st, got)
	}
	_, err := ParseStatus("done")
	assert.Error(t, err)
}
