package components

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	zone "github.com/lrstanley/bubblezone"
	"github.com/rebeliceyang/lazyjson/internal/jsondoc"
	"github.com/rebeliceyang/lazyjson/internal/models"
	"github.com/rebeliceyang/lazyjson/internal/ui/theme"
)

func init() {
	// Initialize bubblezone for tests that call View() methods
	zone.NewGlobal()
}

const sampleDoc = `{"name":"lazyjson","tags":["tui","json"],"meta":{"stars":42,"archived":false,"owner":null}}`

func newTestTreeView(t *testing.T, doc string, height int, filter bool) *TreeView {
	t.Helper()
	value, err := jsondoc.Parse([]byte(doc))
	if err != nil {
		t.Fatalf("Failed to parse document: %v", err)
	}
	opts := models.NavigatorOptions{
		Render:        models.DefaultRenderOptions(),
		Search:        models.SearchOptions{SearchValues: true},
		FilterMatches: filter,
	}
	tree := models.Build(value, models.BuildOptions{ExpandLevel: models.DefaultExpandLevel})
	tv := NewTreeView(models.NewNavigator(tree, opts, height), theme.DefaultTheme())
	tv.SetSize(60, height)
	return tv
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func selectedLineID(tv *TreeView) string {
	line, _ := tv.Nav.Selected()
	return line.ID
}

func TestNewTreeView(t *testing.T) {
	tv := newTestTreeView(t, sampleDoc, 20, true)

	if tv.Nav.Viewport().SelectedLineIndex != 0 {
		t.Errorf("Expected initial selection 0, got %d", tv.Nav.Viewport().SelectedLineIndex)
	}
	if tv.Nav.Viewport().ContentHeight != 20 {
		t.Errorf("Expected content height 20, got %d", tv.Nav.Viewport().ContentHeight)
	}
}

func TestTreeView_RendersLines(t *testing.T) {
	tv := newTestTreeView(t, sampleDoc, 20, true)

	view := tv.View()

	for _, want := range []string{`"name": "lazyjson"`, `"tags": [2 items]`, `"meta": {3 keys}`, `[0]: "tui"`, `"stars": 42`, `"owner": null`, "▾ {3 keys}"} {
		if !strings.Contains(view, want) {
			t.Errorf("Expected view to contain %q\n%s", want, view)
		}
	}
}

func TestTreeView_NavigationUpDown(t *testing.T) {
	tv := newTestTreeView(t, sampleDoc, 20, true)

	tv, _ = tv.Update(runes("j"))
	if got := selectedLineID(tv); got != "__root__.name" {
		t.Errorf("Expected __root__.name after j, got %s", got)
	}

	tv, _ = tv.Update(tea.KeyMsg{Type: tea.KeyDown})
	if got := selectedLineID(tv); got != "__root__.tags" {
		t.Errorf("Expected __root__.tags after down, got %s", got)
	}

	tv, _ = tv.Update(runes("k"))
	if got := selectedLineID(tv); got != "__root__.name" {
		t.Errorf("Expected __root__.name after k, got %s", got)
	}

	// Cannot move above the first line
	tv, _ = tv.Update(runes("g"))
	tv, _ = tv.Update(tea.KeyMsg{Type: tea.KeyUp})
	if tv.Nav.Viewport().SelectedLineIndex != 0 {
		t.Errorf("Expected selection to stay at 0, got %d", tv.Nav.Viewport().SelectedLineIndex)
	}

	tv, _ = tv.Update(runes("G"))
	if got := selectedLineID(tv); got != "__root__.meta.owner" {
		t.Errorf("Expected last line after G, got %s", got)
	}
}

func TestTreeView_ToggleSendsExpandedMsg(t *testing.T) {
	tv := newTestTreeView(t, sampleDoc, 20, true)
	nav, ok := tv.Nav.SelectID("__root__.meta")
	if !ok {
		t.Fatal("Expected meta to be selectable")
	}
	tv.Nav = nav

	tv, cmd := tv.Update(tea.KeyMsg{Type: tea.KeySpace})
	if cmd == nil {
		t.Fatal("Expected a command after toggling a container")
	}
	msg, ok := cmd().(TreeNodeExpandedMsg)
	if !ok {
		t.Fatalf("Expected TreeNodeExpandedMsg, got %T", cmd())
	}
	if msg.Command != models.CmdToggleNode {
		t.Errorf("Expected toggle-node, got %s", msg.Command)
	}
	if strings.Contains(tv.View(), `"stars"`) {
		t.Error("Expected meta children to be hidden after collapsing")
	}

	// Toggling a leaf changes nothing
	tv, _ = tv.Update(runes("g"))
	tv, _ = tv.Update(runes("j"))
	if _, cmd = tv.Update(tea.KeyMsg{Type: tea.KeySpace}); cmd != nil {
		t.Error("Expected no command when toggling a leaf")
	}
}

func TestTreeView_CollapseOrParent(t *testing.T) {
	tv := newTestTreeView(t, sampleDoc, 20, true)

	// Select tags[0], then h moves to the tags line
	for i := 0; i < 3; i++ {
		tv, _ = tv.Update(runes("j"))
	}
	if got := selectedLineID(tv); got != "__root__.tags.0" {
		t.Fatalf("Expected __root__.tags.0, got %s", got)
	}

	tv, _ = tv.Update(runes("h"))
	if got := selectedLineID(tv); got != "__root__.tags" {
		t.Errorf("Expected parent selected, got %s", got)
	}

	tv, _ = tv.Update(tea.KeyMsg{Type: tea.KeyLeft})
	if tv.Nav.Tree().IsExpanded("__root__.tags") {
		t.Error("Expected tags to be collapsed")
	}
}

func TestTreeView_EmptyStateWhenFilterHidesEverything(t *testing.T) {
	tv := newTestTreeView(t, sampleDoc, 20, true)
	tv.Nav = tv.Nav.SetQuery("zzz")

	view := tv.View()
	if !strings.Contains(view, `No matches for "zzz"`) {
		t.Errorf("Expected empty state message, got %q", view)
	}

	// Navigation on an empty list is a no-op
	tv, _ = tv.Update(runes("j"))
	if tv.Nav.Viewport().SelectedLineIndex != 0 {
		t.Errorf("Expected selection 0, got %d", tv.Nav.Viewport().SelectedLineIndex)
	}
}

func TestTreeView_FilterShowsMatchesOnly(t *testing.T) {
	tv := newTestTreeView(t, sampleDoc, 20, true)
	tv.Nav = tv.Nav.SetQuery("json")

	view := tv.View()
	if !strings.Contains(view, `"json"`) || !strings.Contains(view, `"lazyjson"`) {
		t.Errorf("Expected matching lines, got\n%s", view)
	}
	if strings.Contains(view, `"meta"`) {
		t.Error("Expected non-matching lines to be filtered out")
	}
}

func TestTreeView_ScrollIndicators(t *testing.T) {
	tv := newTestTreeView(t, `[1,2,3,4,5,6,7,8,9,10]`, 4, true)

	view := tv.View()
	if !strings.Contains(view, "↓") {
		t.Error("Expected a down indicator when more lines follow")
	}
	if strings.Contains(view, "↑") {
		t.Error("Expected no up indicator at the top")
	}

	tv, _ = tv.Update(runes("G"))
	view = tv.View()
	if !strings.Contains(view, "↑") {
		t.Error("Expected an up indicator after scrolling down")
	}
	if strings.Contains(view, "↓") {
		t.Error("Expected no down indicator at the bottom")
	}
}

func TestTreeView_ViewFillsHeight(t *testing.T) {
	tv := newTestTreeView(t, `{"a":1}`, 6, true)

	if got := strings.Count(tv.View(), "\n") + 1; got != 6 {
		t.Errorf("Expected 6 rows, got %d", got)
	}
}

func TestLineText(t *testing.T) {
	tests := []struct {
		line models.TreeLine
		want string
	}{
		{
			line: models.TreeLine{Prefix: "├─ ", Key: `"a"`, Value: "1"},
			want: `├─ • "a": 1`,
		},
		{
			line: models.TreeLine{Value: "{2 keys}", HasChildren: true, Expanded: true},
			want: "▾ {2 keys}",
		},
		{
			line: models.TreeLine{Key: "[0]", Value: "[1 item]", HasChildren: true, SchemaType: "array"},
			want: "▸ [0]: [1 item] <array>",
		},
		{
			line: models.TreeLine{Key: `"hidden"`},
			want: `• "hidden"`,
		},
	}

	for _, tt := range tests {
		if got := LineText(tt.line); got != tt.want {
			t.Errorf("LineText() = %q, want %q", got, tt.want)
		}
	}
}
