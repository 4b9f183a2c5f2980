package app

import (
	"errors"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	zone "github.com/lrstanley/bubblezone"
	"github.com/rebeliceyang/lazyjson/internal/bookmarks"
	"github.com/rebeliceyang/lazyjson/internal/history"
	"github.com/rebeliceyang/lazyjson/internal/jsondoc"
	"github.com/rebeliceyang/lazyjson/internal/models"
	"github.com/rebeliceyang/lazyjson/internal/source"
	"github.com/rebeliceyang/lazyjson/internal/ui/components"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	zone.NewGlobal()
}

const testDoc = `{"users":[{"name":"ada","admin":true},{"name":"grace","admin":false}],"count":2}`

func newLoadedApp(t *testing.T, opts Options) *App {
	t.Helper()
	if opts.Source == nil {
		opts.Source = source.NewStaticSource("users.json", jsondoc.MustParse(testDoc))
	}
	a := New(opts)
	a.Update(tea.WindowSizeMsg{Width: 100, Height: 40})

	msg := a.loadDocument(false)()
	a.Update(msg)
	require.True(t, a.loaded)
	return a
}

func key(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func selectedID(a *App) string {
	line, _ := a.nav().Selected()
	return line.ID
}

func TestApp_LoadAndRender(t *testing.T) {
	a := newLoadedApp(t, Options{})

	view := a.View()
	assert.Contains(t, view, "users.json")
	assert.Contains(t, view, `"users": [2 items]`)
	assert.Contains(t, view, `"count": 2`)
	assert.Contains(t, view, "1/")
}

func TestApp_LoadingState(t *testing.T) {
	a := New(Options{Source: source.NewStaticSource("big.json", jsondoc.Null())})
	a.Update(tea.WindowSizeMsg{Width: 80, Height: 24})

	assert.Contains(t, a.View(), "Loading big.json...")

	// Keys are ignored until a document is shown
	a.Update(key("j"))
	assert.False(t, a.loaded)
}

func TestApp_LoadErrorShowsOverlay(t *testing.T) {
	a := New(Options{Source: source.NewStaticSource("x.json", jsondoc.Null())})
	a.Update(tea.WindowSizeMsg{Width: 80, Height: 24})

	a.Update(DocumentLoadedMsg{Err: errors.New("unexpected end of JSON input")})
	require.True(t, a.showError)
	assert.Contains(t, a.View(), "unexpected end of JSON input")

	a.Update(tea.KeyMsg{Type: tea.KeyEsc})
	assert.False(t, a.showError)
}

func TestApp_ReloadKeepsSelection(t *testing.T) {
	a := newLoadedApp(t, Options{})

	nav, ok := a.nav().SelectID("__root__.users.1.name")
	require.True(t, ok)
	a.setNav(nav)

	a.Update(DocumentLoadedMsg{
		Value:  jsondoc.MustParse(`{"users":[{"name":"ada"},{"name":"grace"},{"name":"linus"}]}`),
		Reload: true,
	})
	assert.Equal(t, "__root__.users.1.name", selectedID(a))
	assert.Contains(t, a.status, "Reloaded")

	// A failed reload keeps the last good document
	a.Update(DocumentLoadedMsg{Err: errors.New("bad json"), Reload: true})
	assert.False(t, a.showError)
	assert.Equal(t, "bad json", a.state.LastError)
	assert.Equal(t, "__root__.users.1.name", selectedID(a))
}

func TestApp_Navigation(t *testing.T) {
	a := newLoadedApp(t, Options{})

	a.Update(key("j"))
	assert.Equal(t, "__root__.users", selectedID(a))

	a.Update(key("G"))
	assert.Equal(t, "__root__.count", selectedID(a))

	a.Update(key("C"))
	assert.Equal(t, 1, len(a.nav().Lines()), "collapse all leaves only the root")
}

func TestApp_SearchFlow(t *testing.T) {
	store, err := history.NewStore(filepath.Join(t.TempDir(), "history.db"), 10)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	a := newLoadedApp(t, Options{History: store})

	a.Update(key("/"))
	require.Equal(t, models.SearchMode, a.state.ViewMode)

	a.Update(components.SearchChangedMsg{Query: "k:users", Mode: components.SearchModeFilter})
	assert.Equal(t, "users", a.nav().Query())
	assert.Len(t, a.nav().Lines(), 1)

	a.Update(components.SearchInputMsg{Query: "k:users", Mode: components.SearchModeFilter})
	assert.Equal(t, models.NormalMode, a.state.ViewMode)

	entries, err := store.GetRecent(5)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "k:users", entries[0].Query)
	assert.Equal(t, "users.json", entries[0].Document)

	// Esc in normal mode clears the search
	a.Update(tea.KeyMsg{Type: tea.KeyEsc})
	assert.Equal(t, "", a.nav().Query())
	assert.Len(t, a.nav().Lines(), 5)
}

func TestApp_HighlightSearchJumps(t *testing.T) {
	a := newLoadedApp(t, Options{})
	a.Update(key("E"))

	a.Update(components.SearchInputMsg{Query: "grace", Mode: components.SearchModeHighlight})
	assert.Len(t, a.nav().Lines(), len(a.nav().AllLines()), "highlight mode keeps every line")

	a.Update(key("n"))
	assert.Equal(t, "__root__.users.1.name", selectedID(a))
}

func TestApp_Bookmarks(t *testing.T) {
	manager, err := bookmarks.NewManager(t.TempDir())
	require.NoError(t, err)

	a := newLoadedApp(t, Options{Bookmarks: manager})

	nav, ok := a.nav().SelectID("__root__.users.0.admin")
	require.True(t, ok)
	a.setNav(nav)

	a.Update(key("m"))
	require.Len(t, manager.ForDocument("users.json"), 1)
	assert.Equal(t, "$.users[0].admin", manager.GetAll()[0].Path)

	a.Update(key("g"))
	a.Update(key("C"))
	a.Update(key("'"))
	assert.Equal(t, "__root__.users.0.admin", selectedID(a), "jumping expands the ancestors")
	assert.Equal(t, 1, manager.GetAll()[0].UsageCount)
}

func TestApp_BookmarksUnavailable(t *testing.T) {
	a := newLoadedApp(t, Options{})

	a.Update(key("m"))
	assert.Equal(t, "Bookmarks are unavailable", a.status)
}

func TestApp_StatusClears(t *testing.T) {
	a := newLoadedApp(t, Options{})

	a.setStatus("first")
	stale := a.statusSeq
	a.setStatus("second")

	a.Update(clearStatusMsg{seq: stale})
	assert.Equal(t, "second", a.status)

	a.Update(clearStatusMsg{seq: a.statusSeq})
	assert.Equal(t, "", a.status)
}

func TestApp_PreviewToggle(t *testing.T) {
	a := newLoadedApp(t, Options{})

	nav, ok := a.nav().SelectID("__root__.users.1.name")
	require.True(t, ok)
	a.setNav(nav)

	a.Update(key("p"))
	require.True(t, a.previewPane.Visible)
	assert.Equal(t, "grace", a.previewPane.Content)
	assert.Contains(t, a.View(), "Preview: $.users[1].name")

	a.Update(key("p"))
	assert.False(t, a.previewPane.Visible)
}

func TestApp_ViewerModes(t *testing.T) {
	a := newLoadedApp(t, Options{})
	a.Update(key("j"))

	a.Update(key("3"))
	view := a.View()
	assert.Contains(t, view, "$.users")
	assert.Contains(t, view, "data #> '{users}'")

	a.Update(key("2"))
	assert.Contains(t, a.View(), `"name": "ada"`)

	a.Update(key("1"))
	assert.Equal(t, components.JSONViewTree, a.viewer.Mode())
}

func TestApp_HelpAndQuit(t *testing.T) {
	a := newLoadedApp(t, Options{})

	a.Update(key("?"))
	assert.Equal(t, models.HelpMode, a.state.ViewMode)
	assert.True(t, strings.Contains(a.View(), "Keyboard Shortcuts"))

	_, cmd := a.Update(key("q"))
	assert.Nil(t, cmd)
	assert.Equal(t, models.NormalMode, a.state.ViewMode)

	_, cmd = a.Update(key("q"))
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestApp_BookmarksDialog(t *testing.T) {
	manager, err := bookmarks.NewManager(t.TempDir())
	require.NoError(t, err)
	_, err = manager.Add("users.json", "__root__.count", "$.count", "")
	require.NoError(t, err)
	_, err = manager.Add("users.json", "__root__.users.1.admin", "$.users[1].admin", "grace admin")
	require.NoError(t, err)

	a := newLoadedApp(t, Options{Bookmarks: manager})

	a.Update(key("b"))
	require.Equal(t, models.BookmarksMode, a.state.ViewMode)
	assert.Contains(t, a.View(), "grace admin")

	// q closes the dialog, not the app
	_, cmd := a.Update(key("q"))
	require.NotNil(t, cmd)
	a.Update(cmd())
	assert.Equal(t, models.NormalMode, a.state.ViewMode)

	a.Update(key("b"))
	a.Update(key("j"))
	_, cmd = a.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)
	a.Update(cmd())
	assert.Equal(t, models.NormalMode, a.state.ViewMode)
	assert.Equal(t, "__root__.users.1.admin", selectedID(a))

	a.Update(key("b"))
	_, cmd = a.Update(key("d"))
	a.Update(cmd())
	assert.Len(t, manager.ForDocument("users.json"), 1)
	assert.Equal(t, "Bookmark deleted", a.status)
}

func TestApp_TableMode(t *testing.T) {
	a := newLoadedApp(t, Options{})
	a.Update(key("j"))

	a.Update(key("4"))
	view := a.View()
	assert.Contains(t, view, "admin")
	assert.Contains(t, view, "grace")
	assert.Contains(t, view, "rows 1-2 of 2")

	// Search jumps rebuild the table around the new selection
	a.Update(components.SearchInputMsg{Query: "k:count", Mode: components.SearchModeHighlight})
	a.Update(key("n"))
	assert.Equal(t, "__root__.count", selectedID(a))
	assert.Contains(t, a.View(), "has no table view")
}
