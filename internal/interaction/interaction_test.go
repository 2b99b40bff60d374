package interaction

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/felixgeelhaar/flowcanvas/internal/geom"
	"github.com/felixgeelhaar/flowcanvas/internal/graph"
)

func TestResolve(t *testing.T) {
	node := Hit{Kind: TargetNode, Node: "a"}
	out := Hit{Kind: TargetOutputPort, Node: "a", Port: "out"}
	in := Hit{Kind: TargetInputPort, Node: "a", Port: "in"}
	edge := Hit{Kind: TargetEdge, Edge: graph.EdgeKey{From: "a", FromPort: "out", To: "b", ToPort: "in"}}
	empty := Hit{}

	primary := Pointer{Button: ButtonPrimary}
	withAlt := Pointer{Button: ButtonPrimary, Mods: ModAlt}
	middle := Pointer{Button: ButtonMiddle}
	right := Pointer{Button: ButtonSecondary}

	tests := []struct {
		name string
		p    Pointer
		hit  Hit
		want Kind
	}{
		{"node body drags", primary, node, DraggingNode},
		{"output port connects", primary, out, DraggingConnection},
		{"input port starts nothing", primary, in, Idle},
		{"edge starts nothing", primary, edge, Idle},
		{"empty canvas box selects", primary, empty, BoxSelecting},
		{"pan modifier beats node", withAlt, node, PanningCanvas},
		{"pan modifier beats port", withAlt, out, PanningCanvas},
		{"pan modifier on empty canvas", withAlt, empty, PanningCanvas},
		{"middle button over node", middle, node, PanningCanvas},
		{"middle button on empty canvas", middle, empty, PanningCanvas},
		{"secondary button ignored", right, node, Idle},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Resolve(tt.p, tt.hit, ModAlt))
		})
	}
}

func TestResolveWithoutPanModifier(t *testing.T) {
	p := Pointer{Button: ButtonPrimary, Mods: ModAlt}
	assert.Equal(t, DraggingNode, Resolve(p, Hit{Kind: TargetNode, Node: "a"}, 0))
}

func TestMachineRejectsSecondState(t *testing.T) {
	m := NewMachine()
	assert.False(t, m.Active())

	assert.True(t, m.Begin(State{Kind: DraggingNode, Node: "a"}))
	assert.False(t, m.Begin(State{Kind: PanningCanvas}))
	assert.Equal(t, DraggingNode, m.State().Kind)
	assert.Equal(t, "a", m.State().Node)
}

func TestMachineBeginIdleIsRejected(t *testing.T) {
	m := NewMachine()
	assert.False(t, m.Begin(State{}))
	assert.False(t, m.Active())
}

func TestMachineUpdateAndEnd(t *testing.T) {
	m := NewMachine()
	m.Update(func(s *State) { s.Node = "ignored" })
	assert.Equal(t, State{}, m.State())

	m.Begin(State{Kind: DraggingConnection, Node: "a", Port: "out"})
	m.Update(func(s *State) { s.Cursor = geom.Pt(3, 4) })

	prev := m.End()
	assert.Equal(t, DraggingConnection, prev.Kind)
	assert.Equal(t, geom.Pt(3, 4), prev.Cursor)
	assert.True(t, m.Is(Idle))

	assert.Equal(t, Idle, m.End().Kind)
}

func TestMachineTransitionHook(t *testing.T) {
	m := NewMachine()
	var seen []string
	m.OnTransition(func(from, to State) {
		seen = append(seen, from.Kind.String()+">"+to.Kind.String())
	})

	m.Begin(State{Kind: BoxSelecting})
	m.Begin(State{Kind: DraggingNode})
	m.End()
	m.End()

	assert.Equal(t, []string{"idle>box_selecting", "box_selecting>idle"}, seen)
}

func TestModifiersHas(t *testing.T) {
	mods := ModShift | ModCtrl
	assert.True(t, mods.Has(ModShift))
	assert.True(t, mods.Has(ModShift|ModCtrl))
	assert.False(t, mods.Has(ModAlt))
	assert.False(t, mods.Has(0))
}
