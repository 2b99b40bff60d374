// Package interaction models the exclusive pointer-driven modes of the canvas
// and decides which mode a pointer press starts.
//
// The machine only tracks state. Applying a mode's effects to the graph,
// viewport and history is the canvas' job.
package interaction

import (
	"github.com/felixgeelhaar/flowcanvas/internal/geom"
	"github.com/felixgeelhaar/flowcanvas/internal/graph"
)

// Kind names an interaction state
type Kind int

// Interaction states
const (
	Idle Kind = iota
	DraggingNode
	PanningCanvas
	DraggingConnection
	BoxSelecting
)

// String returns the snake_case name used in logs and metrics
func (k Kind) String() string {
	switch k {
	case Idle:
		return "idle"
	case DraggingNode:
		return "dragging_node"
	case PanningCanvas:
		return "panning_canvas"
	case DraggingConnection:
		return "dragging_connection"
	case BoxSelecting:
		return "box_selecting"
	default:
		return "unknown"
	}
}

// Button identifies the pointer button of a press
type Button int

// Pointer buttons
const (
	ButtonNone Button = iota
	ButtonPrimary
	ButtonMiddle
	ButtonSecondary
)

// Modifiers is a set of held keyboard modifiers
type Modifiers uint8

// Keyboard modifiers
const (
	ModShift Modifiers = 1 << iota
	ModAlt
	ModCtrl
)

// Has reports whether every modifier in m is held
func (mods Modifiers) Has(m Modifiers) bool {
	return m != 0 && mods&m == m
}

// Pointer is a pointer event in screen coordinates
type Pointer struct {
	Screen geom.Point
	Button Button
	Mods   Modifiers
}

// Pt builds a primary-button pointer at (x, y)
func Pt(x, y float64) Pointer {
	return Pointer{Screen: geom.Pt(x, y), Button: ButtonPrimary}
}

// TargetKind classifies what lies under the pointer
type TargetKind int

// Hit targets, from most to least specific
const (
	TargetEmpty TargetKind = iota
	TargetNode
	TargetInputPort
	TargetOutputPort
	TargetEdge
)

// Hit is what lies under a pointer
type Hit struct {
	Kind TargetKind
	Node string
	Port string
	// Edge is set when Kind is TargetEdge
	Edge graph.EdgeKey
}

// Resolve returns the state a press starts, or Idle when it starts none.
//
// Middle button pans anywhere. The pan modifier pans with the primary button
// even over a node. Otherwise an output port starts a connection, a node body
// starts a drag and empty canvas starts a box selection. Input ports and
// edges start nothing.
func Resolve(p Pointer, hit Hit, panModifier Modifiers) Kind {
	switch p.Button {
	case ButtonMiddle:
		return PanningCanvas
	case ButtonPrimary:
	default:
		return Idle
	}
	if p.Mods.Has(panModifier) {
		return PanningCanvas
	}
	switch hit.Kind {
	case TargetOutputPort:
		return DraggingConnection
	case TargetNode:
		return DraggingNode
	case TargetEmpty:
		return BoxSelecting
	default:
		return Idle
	}
}

// State is the active interaction and its payload. Fields not used by Kind
// are zero.
type State struct {
	Kind Kind
	// Node is the dragged node or the connection source
	Node string
	// Port is the connection source port
	Port string
	// Grab is the logical offset from the node position to the cursor
	Grab geom.Point
	// Anchor is the last screen point while panning or the logical corner
	// of a box selection
	Anchor geom.Point
	// Cursor is the latest logical cursor position
	Cursor geom.Point
	// Press is the screen point of the press
	Press geom.Point
	// Additive box selections keep the existing selection
	Additive bool
	// Moved is set once the pointer has left the click tolerance
	Moved bool
}

// Machine holds exactly one active state
type Machine struct {
	state        State
	onTransition func(from, to State)
}

// NewMachine returns a machine in Idle
func NewMachine() *Machine {
	return &Machine{}
}

// OnTransition registers a hook called on every Begin and End
func (m *Machine) OnTransition(fn func(from, to State)) {
	m.onTransition = fn
}

// State returns the current state
func (m *Machine) State() State {
	return m.state
}

// Active reports whether a non-idle state is active
func (m *Machine) Active() bool {
	return m.state.Kind != Idle
}

// Is reports whether the current state is k
func (m *Machine) Is(k Kind) bool {
	return m.state.Kind == k
}

// Begin enters s. It is rejected when s is Idle or another state is active;
// the earlier state wins.
func (m *Machine) Begin(s State) bool {
	if s.Kind == Idle || m.Active() {
		return false
	}
	m.transition(s)
	return true
}

// Update mutates the active state in place. It does nothing while idle.
func (m *Machine) Update(fn func(*State)) {
	if !m.Active() {
		return
	}
	fn(&m.state)
}

// End returns to Idle and returns the state that was active
func (m *Machine) End() State {
	prev := m.state
	if prev.Kind != Idle {
		m.transition(State{})
	}
	return prev
}

func (m *Machine) transition(to State) {
	from := m.state
	m.state = to
	if m.onTransition != nil {
		m.onTransition(from, to)
	}
}
