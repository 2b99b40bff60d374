package domain

import (
	"fmt"
	"regexp"
)

// PortName is the name of a node input or output port
type PortName string

var (
	portNamePattern   = regexp.MustCompile(`^[a-z][a-z0-9_]*$`)
	maxPortNameLength = 50
)

// NewPortName creates a new PortName value object with validation
func NewPortName(value string) (PortName, error) {
	p := PortName(value)
	if err := p.Validate(); err != nil {
		return "", err
	}
	return p, nil
}

// Validate checks if the port name is valid
func (p PortName) Validate() error {
	s := string(p)

	if s == "" {
		return fmt.Errorf("port name cannot be empty")
	}

	if len(s) > maxPortNameLength {
		return fmt.Errorf("port name %q exceeds maximum length of %d characters", s, maxPortNameLength)
	}

	if !portNamePattern.MatchString(s) {
		return fmt.Errorf("port name %q must start with a lowercase letter and contain only lowercase letters, numbers, and underscores", s)
	}

	return nil
}

// String returns the string representation
func (p PortName) String() string {
	return string(p)
}
