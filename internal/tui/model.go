package tui

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/felixgeelhaar/flowcanvas/internal/canvas"
	"github.com/felixgeelhaar/flowcanvas/internal/geom"
	"github.com/felixgeelhaar/flowcanvas/internal/graph"
	"github.com/felixgeelhaar/flowcanvas/internal/interaction"
	"github.com/felixgeelhaar/flowcanvas/internal/log"
	"github.com/felixgeelhaar/flowcanvas/internal/plan"
	"github.com/felixgeelhaar/flowcanvas/internal/statusfeed"
)

// Screen layout and step sizes
const (
	headerHeight  = 1
	frameInterval = 16 * time.Millisecond
	zoomStep      = 0.1
	panStepX      = 8
	panStepY      = 4
	nudgeStep     = 20
)

// StatusMsg delivers one status feed update to the editor
type StatusMsg struct {
	Update statusfeed.Update
}

// FeedErrorMsg reports a status feed problem; the feed keeps running
type FeedErrorMsg struct {
	Err error
}

// messageLevel picks the style of the status message
type messageLevel int

const (
	levelInfo messageLevel = iota
	levelWarn
	levelError
)

// frameMsg is the tick answering a canvas frame request
type frameMsg struct{}

// frameHost records canvas frame requests until the next Update returns
type frameHost struct {
	requested bool
}

// RequestFrame implements frame.Requester
func (h *frameHost) RequestFrame() {
	h.requested = true
}

func (h *frameHost) take() bool {
	was := h.requested
	h.requested = false
	return was
}

// EditorConfig configures the canvas editor
type EditorConfig struct {
	// Options are the canvas options; the editor installs its own frame
	// requester and click hooks
	Options  canvas.Options
	Document *plan.Document
	// Path is where the plan is saved; empty disables saving
	Path   string
	Logger *log.Logger
}

// Editor is the bubbletea model of the interactive canvas
type Editor struct {
	c      *canvas.Canvas
	frames *frameHost
	keys   editorKeyMap
	help   help.Model
	styles Styles
	log    *log.Logger

	doc       *plan.Document
	path      string
	saved     string
	savedOnce bool

	width       int
	height      int
	ready       bool
	quitting    bool
	confirmQuit bool

	selectedEdge *graph.EdgeKey
	form         *huh.Form
	formValues   *nodeFormValues

	message string
	level   messageLevel
	report  canvas.LoadReport
}

// Styles contains lipgloss styles for the editor chrome
type Styles struct {
	Title   lipgloss.Style
	Muted   lipgloss.Style
	Status  lipgloss.Style
	Error   lipgloss.Style
	Success lipgloss.Style
	Warning lipgloss.Style
	Border  lipgloss.Style
}

// DefaultStyles returns the default lipgloss styles
func DefaultStyles() Styles {
	return Styles{
		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("63")), // Purple
		Muted: lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")), // Gray
		Status: lipgloss.NewStyle().
			Foreground(lipgloss.Color("86")), // Cyan
		Error: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("196")), // Red
		Success: lipgloss.NewStyle().
			Foreground(lipgloss.Color("46")), // Green
		Warning: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("226")), // Yellow
		Border: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("63")). // Purple
			Padding(1, 2),
	}
}

// NewEditor creates the editor and loads the document into a fresh canvas
func NewEditor(cfg EditorConfig) *Editor {
	logger := cfg.Logger
	if logger == nil {
		logger = log.Discard()
	}
	doc := cfg.Document
	if doc == nil {
		doc = &plan.Document{}
	}

	e := &Editor{
		frames: &frameHost{},
		keys:   editorKeys,
		help:   help.New(),
		styles: DefaultStyles(),
		log:    logger.With("component", "tui"),
		doc:    doc,
		path:   cfg.Path,
	}

	opts := cfg.Options
	opts.Frames = e.frames
	if opts.Logger == nil {
		opts.Logger = logger
	}
	opts.OnEdgeClick = func(click canvas.EdgeClick) {
		key := click.Key
		e.selectedEdge = &key
		e.setMessage(fmt.Sprintf("edge %s -> %s", click.From, click.To))
	}
	opts.OnNodeClick = func(canvas.NodeClick) {
		e.selectedEdge = nil
	}
	opts.OnCycle = func(cyclic []string) {
		e.setWarning(fmt.Sprintf("dependency cycle through %v placed on the top level", cyclic))
	}
	e.c = canvas.New(opts)

	e.report = e.c.Load(doc.ToLoadSpec())
	if dropped := e.report.InvalidNodes + len(e.report.DuplicateNodes) + len(e.report.DanglingRefs) + len(e.report.RejectedEdges); dropped > 0 {
		e.setWarning(fmt.Sprintf("dropped %d invalid references while loading", dropped))
	}
	e.markSaved()
	return e
}

// Canvas returns the edited canvas
func (e *Editor) Canvas() *canvas.Canvas {
	return e.c
}

// Dirty reports whether the canvas differs from the last load or save
func (e *Editor) Dirty() bool {
	fp, err := e.c.Fingerprint()
	if err != nil {
		return true
	}
	return fp != e.saved
}

// Init initializes the editor (required by Bubble Tea)
func (e *Editor) Init() tea.Cmd {
	return nil
}

// Update handles messages and updates the editor state (required by Bubble Tea)
func (e *Editor) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		e.resize(msg.Width, msg.Height)

	case frameMsg:
		e.c.Frame()

	case StatusMsg:
		statusfeed.Apply(e.c, msg.Update)

	case FeedErrorMsg:
		e.setError(msg.Err)

	case tea.BlurMsg:
		e.c.CancelInteraction()

	default:
		if e.form != nil {
			cmd = e.updateForm(msg)
			break
		}
		switch msg := msg.(type) {
		case tea.KeyMsg:
			cmd = e.handleKey(msg)
		case tea.MouseMsg:
			e.handleMouse(msg)
		}
	}

	return e, tea.Batch(cmd, e.frameCmd())
}

// frameCmd schedules the next canvas frame when one was requested
func (e *Editor) frameCmd() tea.Cmd {
	if !e.frames.take() {
		return nil
	}
	return tea.Tick(frameInterval, func(time.Time) tea.Msg {
		return frameMsg{}
	})
}

func (e *Editor) resize(width, height int) {
	e.width = width
	e.height = height
	e.ready = true
	e.help.Width = width
	e.c.SetContainer(geom.Pt(0, headerHeight), geom.Size{
		W: float64(width),
		H: float64(e.canvasHeight()),
	})
}

// canvasHeight is what remains below the header and above the status and
// help lines
func (e *Editor) canvasHeight() int {
	h := e.height - headerHeight - 1 - lipgloss.Height(e.renderHelpLine())
	if h < 0 {
		return 0
	}
	return h
}

// handleKey handles keyboard input
func (e *Editor) handleKey(msg tea.KeyMsg) tea.Cmd {
	if !key.Matches(msg, e.keys.Quit) {
		e.confirmQuit = false
	}

	switch {
	case key.Matches(msg, e.keys.Quit):
		if e.Dirty() && !e.confirmQuit && msg.String() != "ctrl+c" {
			e.confirmQuit = true
			e.setWarning("unsaved changes: press q again to quit, w to save")
			return nil
		}
		e.quitting = true
		return tea.Quit

	case key.Matches(msg, e.keys.Undo):
		if !e.c.Undo() {
			e.setMessage("nothing to undo")
		}

	case key.Matches(msg, e.keys.Redo):
		if !e.c.Redo() {
			e.setMessage("nothing to redo")
		}

	case key.Matches(msg, e.keys.Layout):
		levels := e.c.AutoLayout()
		if !levels.HasCycle() {
			e.setMessage("layout applied")
		}

	case key.Matches(msg, e.keys.Delete):
		e.deleteSelection()

	case key.Matches(msg, e.keys.Duplicate):
		e.duplicateSelection()

	case key.Matches(msg, e.keys.SelectAll):
		e.c.SelectAll()

	case key.Matches(msg, e.keys.Deselect):
		e.c.ClearSelection()
		e.selectedEdge = nil

	case key.Matches(msg, e.keys.AddNode):
		return e.openForm(&nodeFormValues{kind: formAddNode})

	case key.Matches(msg, e.keys.EditNode):
		ids := e.c.Selected()
		if len(ids) != 1 {
			e.setMessage("select one node to edit")
			return nil
		}
		n, _ := e.c.Node(ids[0])
		return e.openForm(editValues(n))

	case key.Matches(msg, e.keys.ZoomIn):
		e.c.Viewport().ZoomBy(zoomStep)

	case key.Matches(msg, e.keys.ZoomOut):
		e.c.Viewport().ZoomBy(-zoomStep)

	case key.Matches(msg, e.keys.ResetView):
		e.c.Viewport().Reset()
		e.c.FitContent()

	case key.Matches(msg, e.keys.PanLeft):
		e.c.Viewport().PanBy(panStepX, 0)
	case key.Matches(msg, e.keys.PanRight):
		e.c.Viewport().PanBy(-panStepX, 0)
	case key.Matches(msg, e.keys.PanUp):
		e.c.Viewport().PanBy(0, panStepY)
	case key.Matches(msg, e.keys.PanDown):
		e.c.Viewport().PanBy(0, -panStepY)

	case key.Matches(msg, e.keys.NudgeLeft):
		e.c.NudgeSelected(geom.Pt(-nudgeStep, 0))
	case key.Matches(msg, e.keys.NudgeRight):
		e.c.NudgeSelected(geom.Pt(nudgeStep, 0))
	case key.Matches(msg, e.keys.NudgeUp):
		e.c.NudgeSelected(geom.Pt(0, -nudgeStep))
	case key.Matches(msg, e.keys.NudgeDown):
		e.c.NudgeSelected(geom.Pt(0, nudgeStep))

	case key.Matches(msg, e.keys.Save):
		e.save()

	case key.Matches(msg, e.keys.Help):
		e.help.ShowAll = !e.help.ShowAll
		e.resize(e.width, e.height)
	}
	return nil
}

// handleMouse maps terminal mouse events onto canvas pointer events. Cells
// are the screen unit.
func (e *Editor) handleMouse(msg tea.MouseMsg) {
	switch msg.Action {
	case tea.MouseActionPress:
		switch msg.Button {
		case tea.MouseButtonWheelUp:
			e.c.Viewport().ZoomBy(zoomStep)
			return
		case tea.MouseButtonWheelDown:
			e.c.Viewport().ZoomBy(-zoomStep)
			return
		case tea.MouseButtonLeft:
			e.selectedEdge = nil
		}
		e.c.PointerDown(toPointer(msg))

	case tea.MouseActionMotion:
		e.c.PointerMove(toPointer(msg))

	case tea.MouseActionRelease:
		e.c.PointerUp(toPointer(msg))
	}
}

func toPointer(msg tea.MouseMsg) interaction.Pointer {
	p := interaction.Pointer{Screen: geom.Pt(float64(msg.X), float64(msg.Y))}
	switch msg.Button {
	case tea.MouseButtonLeft:
		p.Button = interaction.ButtonPrimary
	case tea.MouseButtonMiddle:
		p.Button = interaction.ButtonMiddle
	case tea.MouseButtonRight:
		p.Button = interaction.ButtonSecondary
	}
	if msg.Shift {
		p.Mods |= interaction.ModShift
	}
	if msg.Alt {
		p.Mods |= interaction.ModAlt
	}
	if msg.Ctrl {
		p.Mods |= interaction.ModCtrl
	}
	return p
}

func (e *Editor) deleteSelection() {
	if n := e.c.DeleteSelected(); n > 0 {
		e.setMessage(fmt.Sprintf("deleted %d node(s)", n))
		return
	}
	if e.selectedEdge != nil {
		if e.c.RemoveEdgeKey(*e.selectedEdge) {
			e.setMessage("edge deleted")
		}
		e.selectedEdge = nil
		return
	}
	e.setMessage("nothing selected")
}

func (e *Editor) duplicateSelection() {
	ids := e.c.Selected()
	if len(ids) != 1 {
		e.setMessage("select one node to duplicate")
		return
	}
	if id, ok := e.c.DuplicateNode(ids[0]); ok {
		e.setMessage("duplicated as " + id)
	}
}

func (e *Editor) openForm(v *nodeFormValues) tea.Cmd {
	e.formValues = v
	if v.kind == formAddNode {
		e.form = newAddNodeForm(v)
	} else {
		e.form = newEditNodeForm(v)
	}
	return e.form.Init()
}

func (e *Editor) closeForm() {
	e.form = nil
	e.formValues = nil
}

// updateForm forwards input to the open form and applies it on completion
func (e *Editor) updateForm(msg tea.Msg) tea.Cmd {
	if k, ok := msg.(tea.KeyMsg); ok && (k.String() == "esc" || k.String() == "ctrl+c") {
		e.closeForm()
		e.setMessage("cancelled")
		return nil
	}

	model, cmd := e.form.Update(msg)
	if f, ok := model.(*huh.Form); ok {
		e.form = f
	}

	switch e.form.State {
	case huh.StateCompleted:
		v := e.formValues
		e.closeForm()
		e.applyForm(v)
		return nil
	case huh.StateAborted:
		e.closeForm()
		return nil
	}
	return cmd
}

func (e *Editor) applyForm(v *nodeFormValues) {
	switch v.kind {
	case formAddNode:
		e.addNode(v)
	case formEditNode:
		e.editNode(v)
	}
}

func (e *Editor) addNode(v *nodeFormValues) {
	id, ok := e.c.AddNode(graph.Node{
		ID:       v.ID,
		Kind:     v.Kind,
		Label:    v.Label,
		Position: e.placement(),
	})
	if !ok {
		e.setError(fmt.Errorf("node %q already exists", v.ID))
		return
	}
	e.c.ClearSelection()
	e.c.Select(id)
	e.setMessage("added " + id)
}

// placement centers a new node in the visible canvas area
func (e *Editor) placement() geom.Point {
	center := geom.Pt(float64(e.width)/2, headerHeight+float64(e.canvasHeight())/2)
	size := e.c.Geometry().NodeSize
	return e.c.Viewport().ScreenToLogical(center).Sub(geom.Pt(size.W/2, size.H/2)).ClampMin(0)
}

func (e *Editor) editNode(v *nodeFormValues) {
	n, ok := e.c.Node(v.target)
	if !ok {
		e.setError(fmt.Errorf("node %q no longer exists", v.target))
		return
	}
	params, err := ParseParams(v.Params)
	if err != nil {
		e.setError(err)
		return
	}
	renamed := e.c.RenameNode(v.target, v.Label)
	updated := e.c.UpdateNodeParams(v.target, paramsPatch(n.Params, params))
	if renamed || updated {
		e.setMessage("updated " + v.target)
		return
	}
	e.setMessage("no changes")
}

// save writes the canvas back to the plan file
func (e *Editor) save() {
	if e.path == "" {
		e.setWarning("no output path; start the editor with --out to save")
		return
	}
	doc := plan.FromCanvas(e.c)
	doc.Name = e.doc.Name
	doc.Description = e.doc.Description
	if err := plan.Save(doc, e.path); err != nil {
		e.log.LogError(err)
		e.setError(err)
		return
	}
	e.markSaved()
	e.savedOnce = true
	e.log.Info("plan saved", "path", e.path, "nodes", len(doc.Nodes))
	e.setMessage("saved " + e.path)
}

func (e *Editor) markSaved() {
	fp, err := e.c.Fingerprint()
	if err != nil {
		e.log.LogError(err)
		return
	}
	e.saved = fp
}

func (e *Editor) setMessage(s string) {
	e.message = s
	e.level = levelInfo
}

func (e *Editor) setWarning(s string) {
	e.message = s
	e.level = levelWarn
}

func (e *Editor) setError(err error) {
	e.message = err.Error()
	e.level = levelError
}
