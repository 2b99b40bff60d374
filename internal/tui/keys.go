package tui

import "github.com/charmbracelet/bubbles/key"

// editorKeyMap defines the canvas editor shortcuts
type editorKeyMap struct {
	Undo       key.Binding
	Redo       key.Binding
	Layout     key.Binding
	Delete     key.Binding
	Duplicate  key.Binding
	SelectAll  key.Binding
	Deselect   key.Binding
	AddNode    key.Binding
	EditNode   key.Binding
	ZoomIn     key.Binding
	ZoomOut    key.Binding
	ResetView  key.Binding
	PanLeft    key.Binding
	PanRight   key.Binding
	PanUp      key.Binding
	PanDown    key.Binding
	NudgeLeft  key.Binding
	NudgeRight key.Binding
	NudgeUp    key.Binding
	NudgeDown  key.Binding
	Save       key.Binding
	Help       key.Binding
	Quit       key.Binding
}

var editorKeys = editorKeyMap{
	Undo: key.NewBinding(
		key.WithKeys("ctrl+z", "u"),
		key.WithHelp("u", "undo"),
	),
	Redo: key.NewBinding(
		key.WithKeys("ctrl+y", "ctrl+r"),
		key.WithHelp("ctrl+y", "redo"),
	),
	Layout: key.NewBinding(
		key.WithKeys("l"),
		key.WithHelp("l", "auto layout"),
	),
	Delete: key.NewBinding(
		key.WithKeys("delete", "backspace", "x"),
		key.WithHelp("x", "delete"),
	),
	Duplicate: key.NewBinding(
		key.WithKeys("d"),
		key.WithHelp("d", "duplicate"),
	),
	SelectAll: key.NewBinding(
		key.WithKeys("ctrl+a"),
		key.WithHelp("ctrl+a", "select all"),
	),
	Deselect: key.NewBinding(
		key.WithKeys("esc"),
		key.WithHelp("esc", "deselect"),
	),
	AddNode: key.NewBinding(
		key.WithKeys("a"),
		key.WithHelp("a", "add node"),
	),
	EditNode: key.NewBinding(
		key.WithKeys("e", "enter"),
		key.WithHelp("e", "edit node"),
	),
	ZoomIn: key.NewBinding(
		key.WithKeys("+", "="),
		key.WithHelp("+/-", "zoom"),
	),
	ZoomOut: key.NewBinding(
		key.WithKeys("-"),
	),
	ResetView: key.NewBinding(
		key.WithKeys("0"),
		key.WithHelp("0", "reset view"),
	),
	PanLeft: key.NewBinding(
		key.WithKeys("left"),
		key.WithHelp("←↑↓→", "pan"),
	),
	PanRight: key.NewBinding(key.WithKeys("right")),
	PanUp:    key.NewBinding(key.WithKeys("up")),
	PanDown:  key.NewBinding(key.WithKeys("down")),
	NudgeLeft: key.NewBinding(
		key.WithKeys("shift+left"),
		key.WithHelp("shift+←↑↓→", "move selected"),
	),
	NudgeRight: key.NewBinding(key.WithKeys("shift+right")),
	NudgeUp:    key.NewBinding(key.WithKeys("shift+up")),
	NudgeDown:  key.NewBinding(key.WithKeys("shift+down")),
	Save: key.NewBinding(
		key.WithKeys("ctrl+s", "w"),
		key.WithHelp("w", "save"),
	),
	Help: key.NewBinding(
		key.WithKeys("?"),
		key.WithHelp("?", "help"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
}

// ShortHelp implements help.KeyMap
func (k editorKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Undo, k.Redo, k.Layout, k.AddNode, k.Save, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap
func (k editorKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Undo, k.Redo, k.Layout, k.Save},
		{k.AddNode, k.EditNode, k.Duplicate, k.Delete},
		{k.SelectAll, k.Deselect, k.NudgeLeft},
		{k.ZoomIn, k.ResetView, k.PanLeft},
		{k.Help, k.Quit},
	}
}
