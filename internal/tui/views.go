package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/felixgeelhaar/flowcanvas/internal/geom"
	"github.com/felixgeelhaar/flowcanvas/internal/interaction"
)

// View renders the editor (required by Bubble Tea)
func (e *Editor) View() string {
	if !e.ready {
		return "Initializing..."
	}
	if e.quitting {
		return ""
	}

	var b strings.Builder
	b.WriteString(e.renderHeader())
	b.WriteString("\n")
	if e.form != nil {
		b.WriteString(e.renderForm())
	} else {
		view := canvasView{c: e.c, origin: geom.Pt(0, headerHeight), selectedEdge: e.selectedEdge}
		b.WriteString(view.render(e.width, e.canvasHeight()))
	}
	b.WriteString("\n")
	b.WriteString(e.renderStatusLine())
	b.WriteString("\n")
	b.WriteString(e.renderHelpLine())
	return b.String()
}

// renderHeader renders the title line with the plan name and save state
func (e *Editor) renderHeader() string {
	name := e.doc.Name
	if name == "" {
		name = "untitled"
	}
	title := e.styles.Title.Render("flowcanvas") + " " + name
	if e.path != "" {
		title += e.styles.Muted.Render(" " + e.path)
	}
	if e.Dirty() {
		title += e.styles.Warning.Render(" [modified]")
	}
	return title
}

// renderForm centers the open form in the canvas area
func (e *Editor) renderForm() string {
	box := e.styles.Border.Render(e.form.View())
	return lipgloss.Place(e.width, e.canvasHeight(), lipgloss.Center, lipgloss.Center, box)
}

// renderStatusLine summarizes the graph, view and history state
func (e *Editor) renderStatusLine() string {
	parts := []string{
		fmt.Sprintf("%d nodes", len(e.c.Nodes())),
		fmt.Sprintf("%d edges", len(e.c.EdgeKeys())),
	}
	if n := len(e.c.Selected()); n > 0 {
		parts = append(parts, fmt.Sprintf("%d selected", n))
	}
	parts = append(parts,
		fmt.Sprintf("zoom %.0f%%", e.c.Viewport().Zoom()*100),
		availability("undo", e.c.CanUndo()),
		availability("redo", e.c.CanRedo()),
	)
	if st := e.c.Interaction(); st.Kind != interaction.Idle {
		parts = append(parts, e.styles.Status.Render(st.Kind.String()))
	}

	line := e.styles.Muted.Render(strings.Join(parts, " · "))
	if e.message != "" {
		line += "  " + e.messageStyle().Render(e.message)
	}
	return line
}

func (e *Editor) messageStyle() lipgloss.Style {
	switch e.level {
	case levelError:
		return e.styles.Error
	case levelWarn:
		return e.styles.Warning
	default:
		return e.styles.Success
	}
}

func availability(name string, ok bool) string {
	if ok {
		return name + " ✓"
	}
	return name + " ✗"
}

// renderHelpLine renders the key binding help
func (e *Editor) renderHelpLine() string {
	if e.form != nil {
		return e.styles.Muted.Render("enter: next • esc: cancel")
	}
	return e.help.View(e.keys)
}
