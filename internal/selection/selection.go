// Package selection tracks which nodes are selected on the canvas.
package selection

import "sort"

// Set is an unordered set of node ids
type Set struct {
	ids map[string]struct{}
}

// New creates an empty selection
func New() *Set {
	return &Set{ids: make(map[string]struct{})}
}

// Select adds id to the selection
func (s *Set) Select(id string) {
	s.ids[id] = struct{}{}
}

// Deselect removes id from the selection
func (s *Set) Deselect(id string) {
	delete(s.ids, id)
}

// Toggle flips the membership of id and reports whether it is now selected
func (s *Set) Toggle(id string) bool {
	if s.Contains(id) {
		delete(s.ids, id)
		return false
	}
	s.ids[id] = struct{}{}
	return true
}

// Replace makes ids the whole selection
func (s *Set) Replace(ids ...string) {
	s.Clear()
	for _, id := range ids {
		s.ids[id] = struct{}{}
	}
}

// Clear empties the selection
func (s *Set) Clear() {
	s.ids = make(map[string]struct{})
}

// Contains reports whether id is selected
func (s *Set) Contains(id string) bool {
	_, ok := s.ids[id]
	return ok
}

// Len returns the number of selected ids
func (s *Set) Len() int {
	return len(s.ids)
}

// IDs returns the selected ids in sorted order
func (s *Set) IDs() []string {
	out := make([]string, 0, len(s.ids))
	for id := range s.ids {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

// Retain drops every id for which keep returns false
func (s *Set) Retain(keep func(id string) bool) {
	for id := range s.ids {
		if !keep(id) {
			delete(s.ids, id)
		}
	}
}
