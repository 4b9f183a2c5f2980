package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/rebeliceyang/lazyjson/internal/jsondoc"
	"github.com/rebeliceyang/lazyjson/internal/models"
	"github.com/rebeliceyang/lazyjson/internal/ui/theme"
)

// JSONViewMode represents the display mode
type JSONViewMode int

const (
	JSONViewTree JSONViewMode = iota
	JSONViewFormatted
	JSONViewPath
	JSONViewTable
)

var jsonViewModes = []JSONViewMode{JSONViewTree, JSONViewFormatted, JSONViewPath, JSONViewTable}

func (m JSONViewMode) String() string {
	switch m {
	case JSONViewFormatted:
		return "Formatted"
	case JSONViewPath:
		return "Path"
	case JSONViewTable:
		return "Table"
	default:
		return "Tree"
	}
}

// DefaultColumnName is the column shown in PostgreSQL path examples
const DefaultColumnName = "data"

// JSONViewer displays a document in multiple modes: the navigable tree, the
// selected value pretty printed, the notations of the selected path, and the
// selected container as a table
type JSONViewer struct {
	Width  int
	Height int
	Theme  theme.Theme
	Tree   *TreeView
	Column string // Column name used in PostgreSQL examples

	document    jsondoc.Value
	currentMode JSONViewMode
	formatted   viewport.Model
	table       *TableView
	tableNode   string // node id the table was built from
}

// NewJSONViewer creates a new viewer around a tree view
func NewJSONViewer(tree *TreeView, document jsondoc.Value, th theme.Theme) *JSONViewer {
	jv := &JSONViewer{
		Width:     80,
		Height:    30,
		Theme:     th,
		Tree:      tree,
		Column:    DefaultColumnName,
		document:  document,
		formatted: viewport.New(80, 29),
		table:     NewTableView(th),
	}
	jv.SetSize(jv.Width, jv.Height)
	return jv
}

// SetDocument replaces the document; the tree must be replaced separately
func (jv *JSONViewer) SetDocument(document jsondoc.Value) {
	jv.document = document
	jv.refresh()
}

// Document returns the displayed document
func (jv *JSONViewer) Document() jsondoc.Value {
	return jv.document
}

// Mode returns the current display mode
func (jv *JSONViewer) Mode() JSONViewMode {
	return jv.currentMode
}

// SetMode switches the display mode
func (jv *JSONViewer) SetMode(mode JSONViewMode) {
	jv.currentMode = mode
	jv.refresh()
}

// Table returns the table shown in table mode
func (jv *JSONViewer) Table() *TableView {
	return jv.table
}

func (jv *JSONViewer) refresh() {
	switch jv.currentMode {
	case JSONViewFormatted:
		jv.refreshFormatted()
	case JSONViewTable:
		jv.tableNode = ""
		if line, ok := jv.Tree.Nav.Selected(); ok {
			jv.tableNode = line.ID
		}
		if _, value, ok := jv.Selected(); ok {
			jv.table.SetValue(value)
		} else {
			jv.table.SetMessage("Nothing selected")
		}
	}
}

// SyncSelection rebuilds the table when the tree selection moved
// underneath it, e.g. after a search jump
func (jv *JSONViewer) SyncSelection() {
	if jv.currentMode != JSONViewTable {
		return
	}
	line, _ := jv.Tree.Nav.Selected()
	if line.ID != jv.tableNode {
		jv.refresh()
	}
}

// SetSize sets the size; one row is used by the mode bar
func (jv *JSONViewer) SetSize(width, height int) {
	jv.Width = width
	jv.Height = height
	contentHeight := max(1, height-1)
	jv.Tree.SetSize(width, contentHeight)
	jv.formatted.Width = width
	jv.formatted.Height = contentHeight
	jv.table.Width = width
	jv.table.Height = contentHeight
}

// Selected returns the selected node's path and value
func (jv *JSONViewer) Selected() (jsondoc.Path, jsondoc.Value, bool) {
	line, ok := jv.Tree.Nav.Selected()
	if !ok {
		return jsondoc.Path{}, jsondoc.Value{}, false
	}
	path, ok := models.PathOf(jv.Tree.Nav.Tree(), line.ID)
	if !ok {
		return jsondoc.Path{}, jsondoc.Value{}, false
	}
	value, err := jv.document.At(path)
	if err != nil {
		return jsondoc.Path{}, jsondoc.Value{}, false
	}
	return path, value, true
}

func (jv *JSONViewer) refreshFormatted() {
	content := ""
	if _, value, ok := jv.Selected(); ok {
		formatted, err := jsondoc.Format(value)
		if err != nil {
			formatted = "Error: " + err.Error()
		}
		content = formatted
	}
	jv.formatted.SetContent(content)
	jv.formatted.GotoTop()
}

// Update handles keyboard and mouse input
func (jv *JSONViewer) Update(msg tea.Msg) (*JSONViewer, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "1":
			jv.SetMode(JSONViewTree)
			return jv, nil
		case "2":
			jv.SetMode(JSONViewFormatted)
			return jv, nil
		case "3":
			jv.SetMode(JSONViewPath)
			return jv, nil
		case "4":
			jv.SetMode(JSONViewTable)
			return jv, nil
		}
	}

	var cmd tea.Cmd
	switch jv.currentMode {
	case JSONViewTable:
		if msg, ok := msg.(tea.KeyMsg); ok {
			cmd = jv.updateTable(msg)
		}
	case JSONViewFormatted:
		jv.formatted, cmd = jv.formatted.Update(msg)
	default:
		// Path mode follows the tree selection
		jv.Tree, cmd = jv.Tree.Update(msg)
	}
	return jv, cmd
}

func (jv *JSONViewer) updateTable(msg tea.KeyMsg) tea.Cmd {
	km := jv.Tree.KeyMap
	switch {
	case key.Matches(msg, km.Up):
		jv.table.MoveSelection(-1)
	case key.Matches(msg, km.Down):
		jv.table.MoveSelection(1)
	case key.Matches(msg, km.PageUp):
		jv.table.PageUp()
	case key.Matches(msg, km.PageDown):
		jv.table.PageDown()
	case key.Matches(msg, km.GotoTop):
		jv.table.GotoTop()
	case key.Matches(msg, km.GotoEnd):
		jv.table.GotoEnd()
	case key.Matches(msg, km.CollapseOrParent):
		jv.table.ScrollColumns(-1)
	case key.Matches(msg, km.ExpandOrChild):
		jv.table.ScrollColumns(1)
	case key.Matches(msg, km.NextMatch, km.PrevMatch):
		var cmd tea.Cmd
		jv.Tree, cmd = jv.Tree.Update(msg)
		jv.SyncSelection()
		return cmd
	case msg.String() == "enter":
		return jv.openTableRow()
	}
	return nil
}

// openTableRow selects the node of the highlighted row in the tree
func (jv *JSONViewer) openTableRow() tea.Cmd {
	line, ok := jv.Tree.Nav.Selected()
	if !ok {
		return nil
	}
	node, ok := jv.Tree.Nav.Tree().Node(line.ID)
	row := jv.table.SelectedRow
	if !ok || row < 0 || row >= len(node.Children) {
		return nil
	}

	before := jv.Tree.Nav.Tree().ExpandedCount()
	nav, ok := jv.Tree.Nav.SelectID(node.Children[row])
	if !ok {
		return nil
	}
	jv.Tree.Nav = nav
	jv.SetMode(JSONViewTree)

	if after := nav.Tree().ExpandedCount(); after != before {
		return func() tea.Msg {
			return TreeNodeExpandedMsg{Command: models.CmdExpandOrChild, Expanded: after}
		}
	}
	return nil
}

// View renders the viewer
func (jv *JSONViewer) View() string {
	var content string
	switch jv.currentMode {
	case JSONViewFormatted:
		content = lipgloss.NewStyle().Foreground(jv.Theme.Foreground).Render(jv.formatted.View())
	case JSONViewPath:
		content = jv.renderPath()
	case JSONViewTable:
		content = jv.table.View()
	default:
		content = jv.Tree.View()
	}
	return jv.renderModeBar() + "\n" + content
}

func (jv *JSONViewer) renderModeBar() string {
	active := lipgloss.NewStyle().Foreground(jv.Theme.BorderFocused).Bold(true)
	inactive := lipgloss.NewStyle().Foreground(jv.Theme.Metadata)

	var parts []string
	for _, mode := range jsonViewModes {
		label := fmt.Sprintf("%d:%s", int(mode)+1, mode)
		if mode == jv.currentMode {
			parts = append(parts, active.Render("["+label+"]"))
		} else {
			parts = append(parts, inactive.Render(" "+label+" "))
		}
	}
	return lipgloss.NewStyle().MaxWidth(jv.Width).Render(strings.Join(parts, " "))
}

func (jv *JSONViewer) renderPath() string {
	path, value, ok := jv.Selected()
	if !ok {
		return lipgloss.NewStyle().Foreground(jv.Theme.Metadata).Italic(true).Render("Nothing selected")
	}

	compact, err := jsondoc.Compact(value)
	if err != nil {
		compact = "Error: " + err.Error()
	}

	label := lipgloss.NewStyle().Foreground(jv.Theme.Metadata)
	text := lipgloss.NewStyle().Foreground(jv.Theme.Foreground)
	pg := path.PostgreSQLPath()

	lines := []string{
		label.Render("JSONPath:"),
		text.Render("  " + path.String()),
		"",
		label.Render("jq:"),
		text.Render("  " + path.JQ()),
		"",
		label.Render("PostgreSQL:"),
		text.Render(fmt.Sprintf("  %s #> '%s'", jv.Column, pg)),
		text.Render(fmt.Sprintf("  %s #>> '%s'", jv.Column, pg)),
		"",
		label.Render(fmt.Sprintf("Value (%s):", value.Kind())),
		text.Render("  " + jsondoc.Truncate(compact, max(10, jv.Width*2))),
	}

	style := lipgloss.NewStyle().
		Width(jv.Width).
		MaxHeight(max(1, jv.Height-1))
	return style.Render(strings.Join(lines, "\n"))
}
