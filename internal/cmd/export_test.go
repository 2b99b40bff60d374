package cmd

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/felixgeelhaar/flowcanvas/internal/graph"
)

func TestBuildExport(t *testing.T) {
	p := loadTestPlan(t, danglingPlan)
	g := buildExport(p)

	require.Len(t, g.Nodes, 2)
	assert.Equal(t, exportNode{
		ID:           "b",
		X:            200,
		Y:            0,
		Status:       graph.StatusPending,
		Dependencies: []string{"a"},
		Inputs:       []string{"in"},
		Outputs:      []string{"out"},
	}, g.Nodes[1])
	assert.Equal(t, []graph.DetailedEdge{{FromNode: "a", ToNode: "b", FromPort: "out", ToPort: "in"}}, g.Edges)
}

func TestEncodeExport(t *testing.T) {
	g := buildExport(loadTestPlan(t, danglingPlan))

	data, err := encodeExport(g, "json")
	require.NoError(t, err)
	var fromJSON exportGraph
	require.NoError(t, json.Unmarshal(data, &fromJSON))
	assert.Equal(t, g.Edges, fromJSON.Edges)
	assert.Contains(t, string(data), `"from_node": "a"`)

	data, err = encodeExport(g, "yaml")
	require.NoError(t, err)
	var fromYAML exportGraph
	require.NoError(t, yaml.Unmarshal(data, &fromYAML))
	assert.Equal(t, g.Edges, fromYAML.Edges)

	_, err = encodeExport(g, "csv")
	assert.Error(t, err)
}

func TestExportCommandWithLayout(t *testing.T) {
	src := writePlan(t, "plan.yaml", chainPlan)
	target := filepath.Join(t.TempDir(), "graph.json")

	_, err := executeCommand(t, "export", src, "--layout", "--out", target)
	require.NoError(t, err)

	data, err := os.ReadFile(target)
	require.NoError(t, err)
	var g exportGraph
	require.NoError(t, json.Unmarshal(data, &g))
	require.Len(t, g.Nodes, 3)
	assert.Equal(t, 330.0, g.Nodes[2].Y)
	assert.Len(t, g.Edges, 2)
}
