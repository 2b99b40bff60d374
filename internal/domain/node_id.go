package domain

import (
	"fmt"
	"regexp"
	"strings"
)

// NodeID is the identifier of a node in a plan file.
// This is a value object that enforces valid ID formats.
type NodeID string

var (
	// nodeIDPattern allows letters, numbers, underscores, dots and hyphens
	// after a leading letter
	nodeIDPattern = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9_.-]*$`)

	// maxNodeIDLength is the maximum allowed length for a node ID
	maxNodeIDLength = 100
)

// NewNodeID creates a new NodeID value object with validation
func NewNodeID(value string) (NodeID, error) {
	id := NodeID(value)
	if err := id.Validate(); err != nil {
		return "", err
	}
	return id, nil
}

// Validate checks if the node ID is valid
func (n NodeID) Validate() error {
	s := string(n)

	if s == "" {
		return fmt.Errorf("node ID cannot be empty")
	}

	if len(s) > maxNodeIDLength {
		return fmt.Errorf("node ID %q exceeds maximum length of %d characters", s, maxNodeIDLength)
	}

	if !nodeIDPattern.MatchString(s) {
		return fmt.Errorf("node ID %q must start with a letter and contain only letters, numbers, '_', '.' and '-'", s)
	}

	if strings.HasSuffix(s, "-") || strings.HasSuffix(s, "_") || strings.HasSuffix(s, ".") {
		return fmt.Errorf("node ID %q cannot end with a separator", s)
	}

	return nil
}

// String returns the string representation
func (n NodeID) String() string {
	return string(n)
}

// Equals checks if this node ID equals another
func (n NodeID) Equals(other NodeID) bool {
	return n == other
}
