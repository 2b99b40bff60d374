package layout

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/felixgeelhaar/flowcanvas/internal/geom"
	"github.com/felixgeelhaar/flowcanvas/internal/graph"
)

func node(id string, deps ...string) graph.Node {
	return graph.Node{ID: id, Dependencies: deps}
}

func TestComputeLevelsSourceTarget(t *testing.T) {
	nodes := []graph.Node{node("s"), node("t", "s")}

	levels := ComputeLevels(nodes)

	assert.Equal(t, map[string]int{"s": 0, "t": 1}, levels.ByNode)
	assert.False(t, levels.HasCycle())
}

func TestLayoutSourceTarget(t *testing.T) {
	nodes := []graph.Node{node("s"), node("t", "s")}

	positions := Layout(nodes, DefaultOptions())

	assert.Equal(t, geom.Pt(50, 50), positions["s"])
	assert.Equal(t, geom.Pt(50, 190), positions["t"])
}

func TestComputeLevelsTwoCycle(t *testing.T) {
	nodes := []graph.Node{node("A", "B"), node("B", "A")}

	levels := ComputeLevels(nodes)

	assert.Equal(t, map[string]int{"A": 0, "B": 0}, levels.ByNode)
	assert.Equal(t, []string{"A", "B"}, levels.Cyclic)
}

func TestComputeLevelsCycleFeedsDownstream(t *testing.T) {
	nodes := []graph.Node{
		node("down", "x"),
		node("x", "y"),
		node("y", "z"),
		node("z", "x"),
		node("root"),
	}

	levels := ComputeLevels(nodes)

	assert.Equal(t, 0, levels.ByNode["x"])
	assert.Equal(t, 0, levels.ByNode["y"])
	assert.Equal(t, 0, levels.ByNode["z"])
	assert.Equal(t, 1, levels.ByNode["down"])
	assert.Equal(t, 0, levels.ByNode["root"])
	assert.Equal(t, []string{"x", "y", "z"}, levels.Cyclic)
}

func TestComputeLevelsLongestChainWins(t *testing.T) {
	nodes := []graph.Node{
		node("a"),
		node("b", "a"),
		node("c", "b"),
		node("d", "a", "c"),
	}

	levels := ComputeLevels(nodes)

	assert.Equal(t, 3, levels.ByNode["d"])
}

func TestLevelsNonDecreasingAlongChains(t *testing.T) {
	// fan-in/fan-out DAG with declaration order unrelated to topology
	nodes := []graph.Node{
		node("sink", "m1", "m2"),
		node("m2", "src", "m1"),
		node("m1", "src"),
		node("src"),
		node("side", "src"),
		node("lonely"),
	}

	levels := ComputeLevels(nodes)

	require.False(t, levels.HasCycle())
	for _, n := range nodes {
		if len(n.Dependencies) == 0 {
			assert.Equal(t, 0, levels.ByNode[n.ID], "root %s", n.ID)
		}
		for _, dep := range n.Dependencies {
			assert.Greater(t, levels.ByNode[n.ID], levels.ByNode[dep], "%s after %s", n.ID, dep)
		}
	}
}

func TestComputeLevelsIgnoresUnknownDependencies(t *testing.T) {
	levels := ComputeLevels([]graph.Node{node("a", "ghost")})
	assert.Equal(t, 0, levels.ByNode["a"])
}

func TestLayoutOrderWithinLevelIsInputOrder(t *testing.T) {
	nodes := []graph.Node{node("zeta"), node("alpha"), node("mid", "zeta"), node("beta")}

	positions := Layout(nodes, DefaultOptions())

	assert.Equal(t, geom.Pt(50, 50), positions["zeta"])
	assert.Equal(t, geom.Pt(250, 50), positions["alpha"])
	assert.Equal(t, geom.Pt(450, 50), positions["beta"])
	assert.Equal(t, geom.Pt(50, 190), positions["mid"])
}

func TestLayoutCustomOptions(t *testing.T) {
	nodes := []graph.Node{node("a"), node("b", "a"), node("c", "a")}
	opts := Options{SpacingX: 10, SpacingY: 20, Origin: geom.Pt(1, 2)}

	positions := Layout(nodes, opts)

	assert.Equal(t, geom.Pt(1, 2), positions["a"])
	assert.Equal(t, geom.Pt(1, 22), positions["b"])
	assert.Equal(t, geom.Pt(11, 22), positions["c"])
}

func TestGroups(t *testing.T) {
	nodes := []graph.Node{node("a"), node("b", "a"), node("c"), node("d", "b")}
	groups := Groups(nodes, ComputeLevels(nodes))
	assert.Equal(t, [][]string{{"a", "c"}, {"b"}, {"d"}}, groups)
}

func TestComputeLevelsLargeChainTerminates(t *testing.T) {
	var nodes []graph.Node
	for i := 0; i < 500; i++ {
		n := node(fmt.Sprintf("n%d", i))
		if i > 0 {
			n.Dependencies = []string{fmt.Sprintf("n%d", i-1)}
		}
		nodes = append(nodes, n)
	}
	// close the loop
	nodes[0].Dependencies = []string{"n499"}

	levels := ComputeLevels(nodes)

	assert.Len(t, levels.Cyclic, 500)
	for _, n := range nodes {
		assert.Equal(t, 0, levels.ByNode[n.ID])
	}
}
