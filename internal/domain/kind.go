package domain

import (
	"fmt"
	"regexp"
	"strings"
)

// Kind names what a node runs, optionally qualified by a namespace:
// "tool::fetch" or just "fetch".
type Kind string

// KindSeparator splits the namespace from the name
const KindSeparator = "::"

var kindSegmentPattern = regexp.MustCompile(`^[a-z][a-z0-9_-]*$`)

// NewKind creates a new Kind value object with validation
func NewKind(value string) (Kind, error) {
	k := Kind(value)
	if err := k.Validate(); err != nil {
		return "", err
	}
	return k, nil
}

// Validate checks both segments of the kind
func (k Kind) Validate() error {
	s := string(k)
	if s == "" {
		return fmt.Errorf("node kind cannot be empty")
	}
	if strings.Count(s, KindSeparator) > 1 {
		return fmt.Errorf("node kind %q has more than one %q", s, KindSeparator)
	}
	if ns, _, found := strings.Cut(s, KindSeparator); found && !kindSegmentPattern.MatchString(ns) {
		return fmt.Errorf("node kind %q has an invalid namespace: must be lowercase letters, numbers, '_' and '-'", s)
	}
	if !kindSegmentPattern.MatchString(k.Name()) {
		return fmt.Errorf("node kind %q has an invalid name: must be lowercase letters, numbers, '_' and '-'", s)
	}
	return nil
}

// Namespace returns the part before "::", or "" for an unqualified kind
func (k Kind) Namespace() string {
	ns, _, found := strings.Cut(string(k), KindSeparator)
	if !found {
		return ""
	}
	return ns
}

// Name returns the part after "::", or the whole kind when unqualified
func (k Kind) Name() string {
	_, name, found := strings.Cut(string(k), KindSeparator)
	if !found {
		return string(k)
	}
	return name
}

// String returns the string representation
func (k Kind) String() string {
	return string(k)
}

// IsQualified reports whether the kind carries a namespace
func (k Kind) IsQualified() bool {
	return strings.Contains(string(k), KindSeparator)
}
