package plan

import (
	"fmt"

	"github.com/felixgeelhaar/flowcanvas/internal/domain"
	canvaserrors "github.com/felixgeelhaar/flowcanvas/internal/errors"
	"github.com/felixgeelhaar/flowcanvas/internal/graph"
)

// Validate checks one node against the domain rules. References to other
// nodes are not checked here.
func (n *NodeSpec) Validate() error {
	if _, err := domain.NewNodeID(n.ID); err != nil {
		return fmt.Errorf("invalid node ID: %w", err)
	}

	if n.Kind != "" {
		if _, err := domain.NewKind(n.Kind); err != nil {
			return fmt.Errorf("invalid kind: %w", err)
		}
	}

	for i, dep := range n.DependsOn {
		if _, err := domain.NewNodeID(dep); err != nil {
			return fmt.Errorf("dependency at index %d has invalid node ID: %w", i, err)
		}
	}

	if err := validatePorts("input", n.Inputs); err != nil {
		return err
	}
	if err := validatePorts("output", n.Outputs); err != nil {
		return err
	}

	if n.Status != "" {
		if _, err := graph.ParseStatus(n.Status); err != nil {
			return err
		}
	}

	if n.Progress != nil && (*n.Progress < 0 || *n.Progress > 100) {
		return fmt.Errorf("progress must be between 0 and 100, got %d", *n.Progress)
	}

	return nil
}

func validatePorts(direction string, ports []string) error {
	seen := make(map[string]bool, len(ports))
	for _, p := range ports {
		if _, err := domain.NewPortName(p); err != nil {
			return fmt.Errorf("invalid %s port: %w", direction, err)
		}
		if seen[p] {
			return fmt.Errorf("duplicate %s port %q", direction, p)
		}
		seen[p] = true
	}
	return nil
}

// Validate checks every node and edge. Duplicate node ids are an error.
// Dependencies and edges that name missing nodes are not: the canvas drops
// them on load and reports them.
func (d *Document) Validate() error {
	ids := make(map[string]bool, len(d.Nodes))
	for i := range d.Nodes {
		n := &d.Nodes[i]
		if err := n.Validate(); err != nil {
			return canvaserrors.NewPlanInvalidError(fmt.Sprintf("node at index %d (%s): %v", i, n.ID, err))
		}
		if ids[n.ID] {
			return canvaserrors.NewPlanDuplicateNodeError(n.ID)
		}
		ids[n.ID] = true
	}

	for i, e := range d.Edges {
		if err := e.Validate(); err != nil {
			return canvaserrors.NewPlanInvalidError(fmt.Sprintf("edge at index %d: %v", i, err))
		}
	}

	return nil
}

// Validate checks the endpoint ids and port names of an edge
func (e EdgeSpec) Validate() error {
	if _, err := domain.NewNodeID(e.FromNode); err != nil {
		return fmt.Errorf("invalid from_node: %w", err)
	}
	if _, err := domain.NewNodeID(e.ToNode); err != nil {
		return fmt.Errorf("invalid to_node: %w", err)
	}
	if _, err := domain.NewPortName(e.FromPort); err != nil {
		return fmt.Errorf("invalid from_port: %w", err)
	}
	if _, err := domain.NewPortName(e.ToPort); err != nil {
		return fmt.Errorf("invalid to_port: %w", err)
	}
	return nil
}
