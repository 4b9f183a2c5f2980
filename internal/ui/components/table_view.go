package components

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
	"github.com/rebeliceyang/lazyjson/internal/jsondoc"
	"github.com/rebeliceyang/lazyjson/internal/ui/theme"
)

const (
	tableMaxColumnWidth = 40
	tableMinColumnWidth = 3
	tableColumnGap      = " │ "

	// tableValueColumn holds array items that are not objects
	tableValueColumn = "(value)"
)

// TableView lays out an array or an object as rows and columns.
// Arrays of objects get one column per key, in first-seen order.
type TableView struct {
	Columns []string
	Rows    [][]string
	Width   int
	Height  int
	Theme   theme.Theme

	// Virtual scrolling state
	TopRow      int
	VisibleRows int
	SelectedRow int
	LeftColumn  int

	// Column widths (calculated)
	ColumnWidths []int

	message string // shown instead of a table
}

// NewTableView creates a new table view
func NewTableView(th theme.Theme) *TableView {
	return &TableView{
		Theme:   th,
		message: "Nothing selected",
	}
}

// SetValue rebuilds the table from v and resets the scroll position
func (tv *TableView) SetValue(v jsondoc.Value) {
	tv.Columns, tv.Rows, tv.message = nil, nil, ""
	tv.TopRow, tv.SelectedRow, tv.LeftColumn = 0, 0, 0

	switch v.Kind() {
	case jsondoc.KindArray:
		tv.Columns, tv.Rows = arrayTable(v.Items())
	case jsondoc.KindObject:
		tv.Columns = []string{"key", "value"}
		for _, m := range v.Members() {
			tv.Rows = append(tv.Rows, []string{m.Key, tableCell(m.Value)})
		}
	default:
		tv.message = fmt.Sprintf("A %s has no table view; select an array or an object", v.Kind())
	}

	if tv.message == "" && len(tv.Rows) == 0 {
		tv.message = "Empty " + v.Kind().String()
	}
	tv.calculateColumnWidths()
}

// SetMessage clears the table and shows text instead
func (tv *TableView) SetMessage(text string) {
	tv.Columns, tv.Rows, tv.ColumnWidths = nil, nil, nil
	tv.message = text
}

func arrayTable(items []jsondoc.Value) ([]string, [][]string) {
	var keys []string
	seen := map[string]int{}
	scalars := false
	for _, item := range items {
		if item.Kind() != jsondoc.KindObject {
			scalars = true
			continue
		}
		for _, m := range item.Members() {
			if _, ok := seen[m.Key]; !ok {
				seen[m.Key] = len(keys)
				keys = append(keys, m.Key)
			}
		}
	}

	columns := append([]string{"#"}, keys...)
	if scalars {
		columns = append(columns, tableValueColumn)
	}

	rows := make([][]string, 0, len(items))
	for i, item := range items {
		row := make([]string, len(columns))
		row[0] = strconv.Itoa(i)
		if item.Kind() == jsondoc.KindObject {
			for _, m := range item.Members() {
				row[seen[m.Key]+1] = tableCell(m.Value)
			}
		} else {
			row[len(row)-1] = tableCell(item)
		}
		rows = append(rows, row)
	}
	return columns, rows
}

// tableCell renders a value on one line; strings lose their quotes
func tableCell(v jsondoc.Value) string {
	text := jsondoc.Literal(v)
	if v.Kind() == jsondoc.KindString {
		text = v.StringValue()
	}
	return strings.Join(strings.Fields(text), " ")
}

// calculateColumnWidths calculates optimal column widths
func (tv *TableView) calculateColumnWidths() {
	tv.ColumnWidths = make([]int, len(tv.Columns))

	// Start with column header widths
	for i, col := range tv.Columns {
		tv.ColumnWidths[i] = runewidth.StringWidth(col)
	}

	for _, row := range tv.Rows {
		for i, cell := range row {
			if w := runewidth.StringWidth(cell); w > tv.ColumnWidths[i] {
				tv.ColumnWidths[i] = w
			}
		}
	}

	for i := range tv.ColumnWidths {
		tv.ColumnWidths[i] = min(max(tv.ColumnWidths[i], tableMinColumnWidth), tableMaxColumnWidth)
	}
}

// View renders the table
func (tv *TableView) View() string {
	box := lipgloss.NewStyle().Width(tv.Width).MaxWidth(tv.Width).Height(tv.Height).MaxHeight(tv.Height)

	if len(tv.Rows) == 0 {
		return box.Render(lipgloss.NewStyle().
			Foreground(tv.Theme.Metadata).
			Italic(true).
			Render(tv.message))
	}

	// Header + separator + status
	tv.VisibleRows = max(1, tv.Height-3)
	tv.clampScroll()

	var b strings.Builder
	b.WriteString(tv.renderHeader())
	b.WriteString("\n")
	b.WriteString(tv.renderSeparator())
	b.WriteString("\n")

	endRow := min(tv.TopRow+tv.VisibleRows, len(tv.Rows))
	for i := tv.TopRow; i < endRow; i++ {
		b.WriteString(tv.renderRow(tv.Rows[i], i == tv.SelectedRow))
		b.WriteString("\n")
	}
	b.WriteString(tv.renderStatus(endRow))

	return box.Render(b.String())
}

// visibleColumns returns the column indexes drawn, starting at LeftColumn
func (tv *TableView) visibleColumns() []int {
	var cols []int
	used := 0
	for i := tv.LeftColumn; i < len(tv.Columns); i++ {
		used += tv.ColumnWidths[i] + runewidth.StringWidth(tableColumnGap)
		cols = append(cols, i)
		if used >= tv.Width {
			break
		}
	}
	return cols
}

func (tv *TableView) renderHeader() string {
	var parts []string
	for _, i := range tv.visibleColumns() {
		parts = append(parts, tv.pad(tv.Columns[i], tv.ColumnWidths[i]))
	}
	headerStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(tv.Theme.JSONKey)
	return headerStyle.Render(" " + strings.Join(parts, tableColumnGap) + " ")
}

func (tv *TableView) renderSeparator() string {
	var parts []string
	for _, i := range tv.visibleColumns() {
		parts = append(parts, strings.Repeat("─", tv.ColumnWidths[i]))
	}
	return lipgloss.NewStyle().
		Foreground(tv.Theme.Border).
		Render("─" + strings.Join(parts, "─┼─") + "─")
}

func (tv *TableView) renderRow(row []string, selected bool) string {
	var parts []string
	for _, i := range tv.visibleColumns() {
		parts = append(parts, tv.pad(row[i], tv.ColumnWidths[i]))
	}

	line := " " + strings.Join(parts, tableColumnGap) + " "
	if selected {
		return lipgloss.NewStyle().
			Background(tv.Theme.Selection).
			Foreground(tv.Theme.Foreground).
			Bold(true).
			Render(line)
	}
	return lipgloss.NewStyle().Foreground(tv.Theme.Foreground).Render(line)
}

func (tv *TableView) renderStatus(endRow int) string {
	status := fmt.Sprintf(" rows %d-%d of %d", tv.TopRow+1, endRow, len(tv.Rows))
	if len(tv.Columns) > 0 {
		status += fmt.Sprintf(" · columns %d-%d of %d",
			tv.LeftColumn+1, tv.LeftColumn+len(tv.visibleColumns()), len(tv.Columns))
	}
	return lipgloss.NewStyle().
		Foreground(tv.Theme.Metadata).
		Italic(true).
		Render(status)
}

func (tv *TableView) pad(s string, width int) string {
	return runewidth.FillRight(runewidth.Truncate(s, width, "…"), width)
}

func (tv *TableView) clampScroll() {
	if tv.SelectedRow >= len(tv.Rows) {
		tv.SelectedRow = len(tv.Rows) - 1
	}
	if tv.SelectedRow < 0 {
		tv.SelectedRow = 0
	}
	if tv.SelectedRow < tv.TopRow {
		tv.TopRow = tv.SelectedRow
	}
	if tv.VisibleRows > 0 && tv.SelectedRow >= tv.TopRow+tv.VisibleRows {
		tv.TopRow = tv.SelectedRow - tv.VisibleRows + 1
	}
}

// MoveSelection moves the selection up or down
func (tv *TableView) MoveSelection(delta int) {
	tv.SelectedRow += delta
	tv.clampScroll()
}

// ScrollColumns shifts the first drawn column
func (tv *TableView) ScrollColumns(delta int) {
	tv.LeftColumn = min(max(tv.LeftColumn+delta, 0), max(len(tv.Columns)-1, 0))
}

// PageUp moves the selection one page up
func (tv *TableView) PageUp() {
	tv.MoveSelection(-max(tv.VisibleRows, 1))
}

// PageDown moves the selection one page down
func (tv *TableView) PageDown() {
	tv.MoveSelection(max(tv.VisibleRows, 1))
}

// GotoTop selects the first row
func (tv *TableView) GotoTop() {
	tv.SelectedRow = 0
	tv.clampScroll()
}

// GotoEnd selects the last row
func (tv *TableView) GotoEnd() {
	tv.SelectedRow = len(tv.Rows) - 1
	tv.clampScroll()
}
