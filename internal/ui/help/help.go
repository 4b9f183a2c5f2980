package help

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"
	"github.com/rebeliceyang/lazyjson/internal/ui/components"
	"github.com/rebeliceyang/lazyjson/internal/ui/theme"
)

// KeyBinding represents a keyboard shortcut
type KeyBinding struct {
	Key         string
	Description string
}

// Section is a titled group of bindings
type Section struct {
	Title    string
	Bindings []KeyBinding
}

// GetGlobalKeys returns global key bindings
func GetGlobalKeys() []KeyBinding {
	return []KeyBinding{
		{"?", "Toggle help"},
		{"q, Ctrl+C", "Quit application"},
		{"Esc/Enter", "Dismiss error"},
		{"r, F5", "Reload document"},
		{"1 / 2 / 3 / 4", "Tree / formatted / path / table mode"},
	}
}

// GetNavigationKeys returns the tree bindings from the key map
func GetNavigationKeys(km components.KeyMap) []KeyBinding {
	var out []KeyBinding
	for _, group := range km.FullHelp() {
		out = append(out, fromBindings(group)...)
	}
	return out
}

// GetSearchKeys returns search key bindings
func GetSearchKeys() []KeyBinding {
	return []KeyBinding{
		{"/", "Search keys and values"},
		{"Tab", "Toggle filter / highlight mode"},
		{"↑/↓", "Recall previous searches"},
		{"k: v: =", "Keys only, values, case sensitive"},
		{"Esc", "Clear search"},
	}
}

// GetNodeKeys returns bindings acting on the selected node
func GetNodeKeys() []KeyBinding {
	return []KeyBinding{
		{"y", "Copy value"},
		{"Y", "Copy path"},
		{"p", "Toggle preview pane"},
		{"m", "Bookmark node"},
		{"'", "Jump to next bookmark"},
		{"b", "List bookmarks"},
	}
}

// Sections returns every help section in display order
func Sections(km components.KeyMap) []Section {
	return []Section{
		{"Global", GetGlobalKeys()},
		{"Navigation", GetNavigationKeys(km)},
		{"Search", GetSearchKeys()},
		{"Selected Node", GetNodeKeys()},
	}
}

func fromBindings(bindings []key.Binding) []KeyBinding {
	out := make([]KeyBinding, 0, len(bindings))
	for _, b := range bindings {
		h := b.Help()
		out = append(out, KeyBinding{Key: h.Key, Description: h.Desc})
	}
	return out
}

// Render creates the help view
func Render(width, height int, th theme.Theme, km components.KeyMap) string {
	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(th.BorderFocused).
		Padding(1, 0)

	sectionStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(th.Info).
		Padding(0, 0, 0, 2)

	keyStyle := lipgloss.NewStyle().
		Foreground(th.Warning).
		Width(20)

	descStyle := lipgloss.NewStyle().
		Foreground(th.Foreground)

	var b strings.Builder

	// Title
	b.WriteString(titleStyle.Render("lazyjson - Keyboard Shortcuts"))
	b.WriteString("\n\n")

	for _, section := range Sections(km) {
		b.WriteString(sectionStyle.Render(section.Title))
		b.WriteString("\n")
		for _, kb := range section.Bindings {
			b.WriteString("  ")
			b.WriteString(keyStyle.Render(kb.Key))
			b.WriteString(descStyle.Render(kb.Description))
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}

	b.WriteString(lipgloss.NewStyle().Faint(true).Render("Press '?' or Esc to close help"))

	// Wrap in a box
	boxStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(th.BorderFocused).
		Padding(1, 2).
		Width(max(10, width-4)).
		MaxHeight(max(3, height))

	return boxStyle.Render(b.String())
}
