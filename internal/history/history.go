// Package history implements bounded undo/redo over full graph snapshots.
package history

import (
	"github.com/felixgeelhaar/flowcanvas/internal/graph"
)

// DefaultMaxHistory is the number of undoable snapshots kept by default
const DefaultMaxHistory = 50

// Target is the state history snapshots and restores
type Target interface {
	Snapshot() graph.Snapshot
	Restore(graph.Snapshot)
}

// Manager keeps snapshots taken before each user edit.
//
// entries[:index] are undoable states. When the user undoes from the live
// tip, the live state is appended first so Redo can return to it; entries
// past index are the redo branch and are discarded by the next Snapshot.
type Manager struct {
	target  Target
	entries []graph.Snapshot
	index   int
	max     int
}

// New creates a manager bound to target. max < 1 uses DefaultMaxHistory.
func New(target Target, max int) *Manager {
	if max < 1 {
		max = DefaultMaxHistory
	}
	return &Manager{target: target, max: max}
}

// Snapshot records the target's current state; call it before mutating
func (m *Manager) Snapshot() {
	m.Record(m.target.Snapshot())
}

// Record appends a snapshot that was captured earlier, e.g. at the start of
// a drag whose edit commits on release
func (m *Manager) Record(s graph.Snapshot) {
	clear(m.entries[m.index:])
	m.entries = append(m.entries[:m.index], s.Clone())
	m.index++
	if over := len(m.entries) - m.max; over > 0 {
		// evicted snapshots must not stay reachable through the old array
		kept := make([]graph.Snapshot, m.max, m.max+1)
		copy(kept, m.entries[over:])
		m.entries = kept
		m.index -= over
	}
	if m.index < 0 {
		m.index = 0
	}
}

// CanUndo reports whether Undo would change anything
func (m *Manager) CanUndo() bool {
	return m.index > 0
}

// CanRedo reports whether Redo would change anything
func (m *Manager) CanRedo() bool {
	return m.index+1 < len(m.entries)
}

// Undo restores the previous state. It is a no-op at the oldest entry.
func (m *Manager) Undo() bool {
	if !m.CanUndo() {
		return false
	}
	if m.index == len(m.entries) {
		m.entries = append(m.entries, m.target.Snapshot())
	}
	m.index--
	m.target.Restore(m.entries[m.index])
	return true
}

// Redo reapplies the state undone last. It is a no-op at the newest entry.
func (m *Manager) Redo() bool {
	if !m.CanRedo() {
		return false
	}
	m.index++
	m.target.Restore(m.entries[m.index])
	return true
}

// Clear drops all entries
func (m *Manager) Clear() {
	m.entries = nil
	m.index = 0
}

// Len returns the number of undoable snapshots
func (m *Manager) Len() int {
	return m.index
}

// Max returns the configured bound
func (m *Manager) Max() int {
	return m.max
}
