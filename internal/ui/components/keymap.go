package components

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/rebeliceyang/lazyjson/internal/models"
)

// KeyMap defines the key bindings of the tree view
type KeyMap struct {
	Up               key.Binding
	Down             key.Binding
	PageUp           key.Binding
	PageDown         key.Binding
	GotoTop          key.Binding
	GotoEnd          key.Binding
	Toggle           key.Binding
	ExpandOrChild    key.Binding
	CollapseOrParent key.Binding
	ExpandAll        key.Binding
	CollapseAll      key.Binding
	NextMatch        key.Binding
	PrevMatch        key.Binding
}

// DefaultKeyMap returns the default tree bindings
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
		PageUp: key.NewBinding(
			key.WithKeys("pgup", "ctrl+u"),
			key.WithHelp("pgup/ctrl+u", "page up"),
		),
		PageDown: key.NewBinding(
			key.WithKeys("pgdown", "ctrl+d"),
			key.WithHelp("pgdn/ctrl+d", "page down"),
		),
		GotoTop: key.NewBinding(
			key.WithKeys("home", "g"),
			key.WithHelp("g", "top"),
		),
		GotoEnd: key.NewBinding(
			key.WithKeys("end", "G"),
			key.WithHelp("G", "bottom"),
		),
		Toggle: key.NewBinding(
			key.WithKeys(" ", "enter"),
			key.WithHelp("space/enter", "toggle"),
		),
		ExpandOrChild: key.NewBinding(
			key.WithKeys("right", "l"),
			key.WithHelp("→/l", "expand / first child"),
		),
		CollapseOrParent: key.NewBinding(
			key.WithKeys("left", "h"),
			key.WithHelp("←/h", "collapse / parent"),
		),
		ExpandAll: key.NewBinding(
			key.WithKeys("E"),
			key.WithHelp("E", "expand all"),
		),
		CollapseAll: key.NewBinding(
			key.WithKeys("C"),
			key.WithHelp("C", "collapse all"),
		),
		NextMatch: key.NewBinding(
			key.WithKeys("n"),
			key.WithHelp("n", "next match"),
		),
		PrevMatch: key.NewBinding(
			key.WithKeys("N"),
			key.WithHelp("N", "previous match"),
		),
	}
}

// Command decodes a key press into a navigation command
func (k KeyMap) Command(msg tea.KeyMsg) (models.Command, bool) {
	switch {
	case key.Matches(msg, k.Up):
		return models.CmdMoveUp, true
	case key.Matches(msg, k.Down):
		return models.CmdMoveDown, true
	case key.Matches(msg, k.PageUp):
		return models.CmdPageUp, true
	case key.Matches(msg, k.PageDown):
		return models.CmdPageDown, true
	case key.Matches(msg, k.GotoTop):
		return models.CmdGoToTop, true
	case key.Matches(msg, k.GotoEnd):
		return models.CmdGoToBottom, true
	case key.Matches(msg, k.Toggle):
		return models.CmdToggleNode, true
	case key.Matches(msg, k.ExpandOrChild):
		return models.CmdExpandOrChild, true
	case key.Matches(msg, k.CollapseOrParent):
		return models.CmdCollapseOrParent, true
	case key.Matches(msg, k.ExpandAll):
		return models.CmdExpandAll, true
	case key.Matches(msg, k.CollapseAll):
		return models.CmdCollapseAll, true
	case key.Matches(msg, k.NextMatch):
		return models.CmdNextMatch, true
	case key.Matches(msg, k.PrevMatch):
		return models.CmdPrevMatch, true
	}
	return 0, false
}

// ShortHelp returns bindings for the status line
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Toggle, k.NextMatch}
}

// FullHelp returns all bindings grouped for the help overlay
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.PageUp, k.PageDown, k.GotoTop, k.GotoEnd},
		{k.Toggle, k.ExpandOrChild, k.CollapseOrParent, k.ExpandAll, k.CollapseAll},
		{k.NextMatch, k.PrevMatch},
	}
}
