package components

// TreeView renders a models.Navigator as a collapsible JSON tree with
// keyboard and mouse navigation.
//
// Features:
//   - Connector glyphs from the line renderer (├─ └─ │)
//   - Expansion markers (▾ expanded, ▸ collapsed, • leaf)
//   - Colours per JSON type
//   - Search match highlighting
//   - Scroll indicators in the gutter
//   - Mouse click to select, wheel to move
//
// Usage:
//
//	nav := models.NewNavigator(tree, opts, 20)
//	treeView := components.NewTreeView(nav, theme)
//	treeView.SetSize(60, 20)
//
//	// In your Update method:
//	treeView, cmd := treeView.Update(msg)
//
//	// In your View method:
//	content := treeView.View()

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	zone "github.com/lrstanley/bubblezone"
	"github.com/mattn/go-runewidth"
	"github.com/rebeliceyang/lazyjson/internal/jsondoc"
	"github.com/rebeliceyang/lazyjson/internal/models"
	"github.com/rebeliceyang/lazyjson/internal/ui/theme"
)

// ZoneTreeLinePrefix prefixes the bubblezone id of each visible row
const ZoneTreeLinePrefix = "tree-line-"

// gutterWidth is the column reserved for scroll indicators
const gutterWidth = 2

// TreeView represents the JSON tree panel
type TreeView struct {
	Nav    models.Navigator // Tree, lines, search and viewport
	Width  int              // Display width
	Height int              // Content rows
	Theme  theme.Theme      // Color theme
	KeyMap KeyMap
}

// TreeNodeExpandedMsg is sent when a command changed which nodes are expanded
type TreeNodeExpandedMsg struct {
	Command  models.Command
	Expanded int // Number of expanded nodes afterwards
}

// NewTreeView creates a new tree view component
func NewTreeView(nav models.Navigator, theme theme.Theme) *TreeView {
	tv := &TreeView{
		Nav:    nav,
		Width:  40,
		Height: 20,
		Theme:  theme,
		KeyMap: DefaultKeyMap(),
	}
	tv.Nav = tv.Nav.Resize(tv.Height)
	return tv
}

// SetSize sets the display size; height is the number of content rows
func (tv *TreeView) SetSize(width, height int) {
	tv.Width = width
	tv.Height = max(1, height)
	tv.Nav = tv.Nav.Resize(tv.Height)
}

// Update handles keyboard and mouse input
func (tv *TreeView) Update(msg tea.Msg) (*TreeView, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		cmd, ok := tv.KeyMap.Command(msg)
		if !ok {
			return tv, nil
		}
		return tv, tv.apply(cmd)

	case tea.MouseMsg:
		tv.handleMouse(msg)
	}
	return tv, nil
}

// apply runs a command and reports expansion changes
func (tv *TreeView) apply(cmd models.Command) tea.Cmd {
	before := tv.Nav.Tree().ExpandedCount()
	tv.Nav = tv.Nav.Apply(cmd)
	after := tv.Nav.Tree().ExpandedCount()

	if before == after {
		return nil
	}
	return func() tea.Msg {
		return TreeNodeExpandedMsg{Command: cmd, Expanded: after}
	}
}

func (tv *TreeView) handleMouse(msg tea.MouseMsg) {
	if msg.Action != tea.MouseActionPress {
		return
	}

	switch msg.Button {
	case tea.MouseButtonWheelUp:
		tv.Nav = tv.Nav.Apply(models.CmdMoveUp)
	case tea.MouseButtonWheelDown:
		tv.Nav = tv.Nav.Apply(models.CmdMoveDown)
	case tea.MouseButtonLeft:
		offset := tv.Nav.Viewport().ScrollOffset
		for i := range tv.Nav.Visible() {
			if zone.Get(lineZoneID(i)).InBounds(msg) {
				tv.Nav = tv.Nav.Select(offset + i)
				return
			}
		}
	}
}

func lineZoneID(row int) string {
	return fmt.Sprintf("%s%d", ZoneTreeLinePrefix, row)
}

// View renders the visible window of the tree
func (tv *TreeView) View() string {
	if len(tv.Nav.Lines()) == 0 {
		return tv.emptyState()
	}

	view := tv.Nav.Viewport()
	indicators := tv.Nav.Indicators()
	visible := tv.Nav.Visible()

	rows := make([]string, 0, tv.Height)
	for i, line := range visible {
		gutter := "  "
		switch {
		case i == 0 && indicators.HasMoreAbove:
			gutter = lipgloss.NewStyle().Foreground(tv.Theme.Info).Render("↑") + " "
		case i == len(visible)-1 && indicators.HasMoreBelow:
			gutter = lipgloss.NewStyle().Foreground(tv.Theme.Info).Render("↓") + " "
		}

		selected := view.ScrollOffset+i == view.SelectedLineIndex
		rows = append(rows, zone.Mark(lineZoneID(i), gutter+tv.renderLine(line, selected)))
	}

	// Fill remaining space if needed
	for len(rows) < tv.Height {
		rows = append(rows, "")
	}

	return strings.Join(rows, "\n")
}

// LineText returns the unstyled text of a line
func LineText(line models.TreeLine) string {
	var b strings.Builder
	b.WriteString(line.Prefix)
	b.WriteString(expansionMarker(line))
	if line.Key != "" {
		b.WriteString(line.Key)
		if line.Value != "" {
			b.WriteString(": ")
		}
	}
	b.WriteString(line.Value)
	if line.SchemaType != "" {
		b.WriteString(" <" + line.SchemaType + ">")
	}
	return b.String()
}

func expansionMarker(line models.TreeLine) string {
	switch {
	case line.HasChildren && line.Expanded:
		return "▾ "
	case line.HasChildren:
		return "▸ "
	default:
		return "• "
	}
}

// renderLine renders a single line with appropriate styling
func (tv *TreeView) renderLine(line models.TreeLine, selected bool) string {
	maxWidth := max(1, tv.Width-gutterWidth)

	if selected {
		content := LineText(line)
		if runewidth.StringWidth(content) > maxWidth {
			content = runewidth.Truncate(content, maxWidth, "…")
		}
		return lipgloss.NewStyle().
			Background(tv.Theme.Selection).
			Foreground(tv.Theme.Foreground).
			Bold(true).
			Width(maxWidth).
			Render(content)
	}

	query := tv.Nav.Query()
	search := tv.Nav.Options().Search
	matchStyle := lipgloss.NewStyle().Background(tv.Theme.Match).Bold(true)
	dimStyle := lipgloss.NewStyle().Foreground(tv.Theme.Metadata)

	var b strings.Builder
	b.WriteString(lipgloss.NewStyle().Foreground(tv.Theme.TreeGuide).Render(line.Prefix))
	b.WriteString(dimStyle.Render(expansionMarker(line)))

	if line.Key != "" {
		keyStyle := lipgloss.NewStyle().Foreground(tv.Theme.JSONKey)
		b.WriteString(HighlightText(line.Key, query, search.CaseSensitive, keyStyle, matchStyle))
		if line.Value != "" {
			b.WriteString(dimStyle.Render(": "))
		}
	}

	valueStyle := lipgloss.NewStyle().Foreground(kindColor(tv.Theme, line.Kind))
	if line.Type == models.NodeTypePrimitive && search.SearchValues {
		b.WriteString(HighlightText(line.Value, query, search.CaseSensitive, valueStyle, matchStyle))
	} else {
		b.WriteString(valueStyle.Render(line.Value))
	}

	if line.SchemaType != "" {
		b.WriteString(dimStyle.Render(" <" + line.SchemaType + ">"))
	}

	return lipgloss.NewStyle().MaxWidth(maxWidth).Render(b.String())
}

// kindColor returns the colour for a JSON type
func kindColor(th theme.Theme, kind jsondoc.Kind) lipgloss.Color {
	switch kind {
	case jsondoc.KindString:
		return th.JSONString
	case jsondoc.KindNumber:
		return th.JSONNumber
	case jsondoc.KindBool:
		return th.JSONBoolean
	case jsondoc.KindNull:
		return th.JSONNull
	default:
		return th.JSONBracket
	}
}

// emptyState returns the empty state view
func (tv *TreeView) emptyState() string {
	message := "Empty document"
	if q := tv.Nav.Query(); q != "" {
		message = fmt.Sprintf("No matches for %q", q)
	}

	style := lipgloss.NewStyle().
		Foreground(tv.Theme.Metadata).
		Italic(true).
		Width(max(1, tv.Width-2)).
		Align(lipgloss.Center)

	return style.Render(message)
}
