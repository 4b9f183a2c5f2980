package app

import (
	"context"
	"fmt"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	zone "github.com/lrstanley/bubblezone"
	"github.com/mattn/go-runewidth"
	"github.com/rebeliceyang/lazyjson/internal/bookmarks"
	"github.com/rebeliceyang/lazyjson/internal/config"
	"github.com/rebeliceyang/lazyjson/internal/history"
	"github.com/rebeliceyang/lazyjson/internal/jsondoc"
	"github.com/rebeliceyang/lazyjson/internal/logging"
	"github.com/rebeliceyang/lazyjson/internal/models"
	"github.com/rebeliceyang/lazyjson/internal/source"
	"github.com/rebeliceyang/lazyjson/internal/ui/components"
	"github.com/rebeliceyang/lazyjson/internal/ui/help"
	"github.com/rebeliceyang/lazyjson/internal/ui/theme"
)

var log = logging.NewLogger("app")

// LoadTimeout bounds a single document load
const LoadTimeout = 30 * time.Second

// statusTimeout is how long transient status messages stay visible
const statusTimeout = 3 * time.Second

// historyRecall is the number of past queries offered in the search box
const historyRecall = 50

// Options wires the app to its collaborators. Only Source is required.
type Options struct {
	Config    *config.Config
	Source    source.Source
	Watcher   *source.Watcher    // Reload on change when set
	History   *history.Store     // Search history when set
	Bookmarks *bookmarks.Manager // Bookmarks when set
}

// App is the main application model
type App struct {
	state  models.AppState
	config *config.Config
	theme  theme.Theme

	treePanel   components.Panel
	viewer      *components.JSONViewer
	previewPane *components.PreviewPane
	searchInput *components.SearchInput
	marks       *components.BookmarksDialog

	// Error overlay
	showError    bool
	errorOverlay *components.ErrorOverlay

	source    source.Source
	watcher   *source.Watcher
	history   *history.Store
	bookmarks *bookmarks.Manager

	loaded    bool
	status    string
	statusSeq int
}

// DocumentLoadedMsg is sent when the source has been read
type DocumentLoadedMsg struct {
	Value  jsondoc.Value
	Err    error
	Reload bool
}

// FileChangedMsg is sent when the watched file changed
type FileChangedMsg struct{}

type clearStatusMsg struct {
	seq int
}

// New creates a new App instance
func New(opts Options) *App {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.GetDefaults()
	}

	state := models.NewAppState()
	state.SourceName = opts.Source.Name()
	state.Watching = opts.Watcher != nil
	state.ShowPreview = cfg.UI.ShowPreview

	th := theme.GetTheme(cfg.UI.Theme)

	placeholder := models.Build(jsondoc.Null(), models.BuildOptions{})
	treeView := components.NewTreeView(models.NewNavigator(placeholder, NavigatorOptions(cfg), 1), th)

	mode := components.SearchModeFilter
	if !cfg.Search.Filter {
		mode = components.SearchModeHighlight
	}

	app := &App{
		state:        state,
		config:       cfg,
		theme:        th,
		viewer:       components.NewJSONViewer(treeView, jsondoc.Null(), th),
		previewPane:  components.NewPreviewPane(th),
		searchInput:  components.NewSearchInput(th, mode),
		marks:        components.NewBookmarksDialog(th),
		errorOverlay: components.NewErrorOverlay(th),
		source:       opts.Source,
		watcher:      opts.Watcher,
		history:      opts.History,
		bookmarks:    opts.Bookmarks,
		treePanel: components.Panel{
			Title: state.SourceName,
			Style: lipgloss.NewStyle().BorderForeground(th.BorderFocused),
		},
	}

	// Set initial panel dimensions
	app.updatePanelDimensions()

	return app
}

// NavigatorOptions maps configuration onto tree display and search settings
func NavigatorOptions(cfg *config.Config) models.NavigatorOptions {
	return models.NavigatorOptions{
		Render: models.RenderOptions{
			ShowArrayIndices:    cfg.Tree.ShowArrayIndices,
			ShowPrimitiveValues: cfg.Tree.ShowPrimitiveValues,
			MaxValueLength:      cfg.Tree.MaxValueLength,
			UseUnicodeTree:      cfg.Tree.UseUnicodeTree,
			ShowSchemaTypes:     cfg.Tree.ShowSchemaTypes,
		},
		Search:        searchDefaults(cfg),
		FilterMatches: cfg.Search.Filter,
	}
}

func searchDefaults(cfg *config.Config) models.SearchOptions {
	return models.SearchOptions{
		CaseSensitive: cfg.Search.CaseSensitive,
		SearchValues:  cfg.Search.SearchValues,
	}
}

// Init implements tea.Model
func (a *App) Init() tea.Cmd {
	return tea.Batch(a.loadDocument(false), a.waitForChange())
}

// Update implements tea.Model
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	cmd := a.update(msg)
	a.viewer.SyncSelection()
	a.syncPreview()
	a.updatePanelDimensions()
	return a, cmd
}

func (a *App) update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case DocumentLoadedMsg:
		return a.handleDocumentLoaded(msg)

	case FileChangedMsg:
		log.WithField("source", a.state.SourceName).Debug("Source changed, reloading")
		return tea.Batch(a.loadDocument(true), a.waitForChange())

	case clearStatusMsg:
		if msg.seq == a.statusSeq {
			a.status = ""
		}
		return nil

	case components.SearchChangedMsg:
		a.applySearch(msg.Query, msg.Mode)
		return nil

	case components.SearchInputMsg:
		a.applySearch(msg.Query, msg.Mode)
		a.state.ViewMode = models.NormalMode
		a.recordSearch(msg.Query)
		return nil

	case components.CloseSearchMsg:
		a.applySearch("", a.searchInput.Mode)
		a.searchInput.Reset()
		a.state.ViewMode = models.NormalMode
		return nil

	case components.JumpToBookmarkMsg:
		a.state.ViewMode = models.NormalMode
		return a.selectBookmark(msg.Bookmark)

	case components.DeleteBookmarkMsg:
		if err := a.bookmarks.Delete(msg.ID); err != nil {
			return a.setStatus("Delete failed: " + err.Error())
		}
		a.marks.SetBookmarks(a.state.SourceName, a.bookmarks.ForDocument(a.state.SourceName))
		return a.setStatus("Bookmark deleted")

	case components.CloseBookmarksDialogMsg:
		a.state.ViewMode = models.NormalMode
		return nil

	case components.TreeNodeExpandedMsg:
		log.WithField("command", msg.Command.String()).WithField("expanded", msg.Expanded).Debug("Expansion changed")
		return nil

	case tea.MouseMsg:
		if a.config.UI.MouseEnabled && a.state.ViewMode == models.NormalMode && !a.showError && a.loaded {
			var cmd tea.Cmd
			a.viewer, cmd = a.viewer.Update(msg)
			return cmd
		}
		return nil

	case tea.KeyMsg:
		return a.handleKey(msg)

	case tea.WindowSizeMsg:
		a.state.Width = msg.Width
		a.state.Height = msg.Height
		return nil
	}

	// Cursor blink and other input internals
	if a.state.ViewMode == models.SearchMode {
		var cmd tea.Cmd
		a.searchInput, cmd = a.searchInput.Update(msg)
		return cmd
	}
	return nil
}

func (a *App) handleKey(msg tea.KeyMsg) tea.Cmd {
	// Handle error overlay dismissal first if visible
	if a.showError {
		switch msg.String() {
		case "esc", "enter":
			a.DismissError()
		case "q", "ctrl+c":
			// Allow quit keys to pass through even when error is showing
			return tea.Quit
		}
		// Consume all other keys when error is showing
		return nil
	}

	if a.state.ViewMode == models.SearchMode {
		if msg.String() == "ctrl+c" {
			return tea.Quit
		}
		var cmd tea.Cmd
		a.searchInput, cmd = a.searchInput.Update(msg)
		return cmd
	}

	if a.state.ViewMode == models.BookmarksMode {
		if msg.String() == "ctrl+c" {
			return tea.Quit
		}
		var cmd tea.Cmd
		a.marks, cmd = a.marks.Update(msg)
		return cmd
	}

	switch msg.String() {
	case "q", "ctrl+c":
		// Don't quit if in help mode, exit help instead
		if a.state.ViewMode == models.HelpMode && msg.String() == "q" {
			a.state.ViewMode = models.NormalMode
			return nil
		}
		return tea.Quit
	case "?":
		// Toggle help
		if a.state.ViewMode == models.HelpMode {
			a.state.ViewMode = models.NormalMode
		} else {
			a.state.ViewMode = models.HelpMode
		}
		return nil
	}

	if a.state.ViewMode == models.HelpMode {
		if msg.String() == "esc" {
			a.state.ViewMode = models.NormalMode
		}
		return nil
	}

	if !a.loaded {
		return nil
	}

	switch msg.String() {
	case "esc":
		if a.nav().Query() != "" {
			a.applySearch("", a.searchInput.Mode)
			a.searchInput.Reset()
		}
		return nil
	case "/":
		return a.openSearch()
	case "r", "f5":
		return tea.Batch(a.loadDocument(true), a.setStatus("Reloading..."))
	case "y":
		return a.copySelected(false)
	case "Y":
		return a.copySelected(true)
	case "p":
		if !a.previewPane.Visible {
			a.fillPreview()
		}
		a.previewPane.Toggle()
		a.state.ShowPreview = a.previewPane.Visible
		return nil
	case "m":
		return a.bookmarkSelected()
	case "'":
		return a.jumpToBookmark()
	case "b":
		return a.openBookmarks()
	}

	if a.previewPane.Visible && a.previewPane.IsScrollable() {
		switch msg.String() {
		case "ctrl+up", "K":
			a.previewPane.ScrollUp()
			return nil
		case "ctrl+down", "J":
			a.previewPane.ScrollDown()
			return nil
		}
	}

	var cmd tea.Cmd
	a.viewer, cmd = a.viewer.Update(msg)
	return cmd
}

func (a *App) nav() models.Navigator {
	return a.viewer.Tree.Nav
}

func (a *App) setNav(nav models.Navigator) {
	a.viewer.Tree.Nav = nav
}

// loadDocument reads the source in the background
func (a *App) loadDocument(reload bool) tea.Cmd {
	src := a.source
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), LoadTimeout)
		defer cancel()

		value, err := src.Load(ctx)
		return DocumentLoadedMsg{Value: value, Err: err, Reload: reload}
	}
}

// waitForChange blocks on the watcher and reports one change
func (a *App) waitForChange() tea.Cmd {
	if a.watcher == nil {
		return nil
	}
	changes := a.watcher.Changes()
	return func() tea.Msg {
		if _, ok := <-changes; !ok {
			return nil
		}
		return FileChangedMsg{}
	}
}

func (a *App) handleDocumentLoaded(msg DocumentLoadedMsg) tea.Cmd {
	if msg.Err != nil {
		log.WithError(msg.Err).WithField("source", a.state.SourceName).Warn("Failed to load document")
		a.state.LastError = msg.Err.Error()
		if msg.Reload && a.loaded {
			// Keep showing the last good document
			return a.setStatus("Reload failed: " + msg.Err.Error())
		}
		a.ShowError("Load Error", fmt.Sprintf("Could not load %s\n\n%v", a.state.SourceName, msg.Err))
		return nil
	}

	tree := models.Build(msg.Value, models.BuildOptions{ExpandLevel: a.config.Tree.ExpandLevel})
	if a.loaded {
		a.setNav(a.nav().Replace(tree))
	} else {
		a.setNav(models.NewNavigator(tree, a.nav().Options(), a.treePanel.ContentHeight()))
	}
	a.viewer.SetDocument(msg.Value)
	a.state.LastError = ""

	log.WithField("source", a.state.SourceName).
		WithField("nodes", tree.Len()).
		WithField("reload", msg.Reload).
		Info("Document loaded")

	if msg.Reload && a.loaded {
		return a.setStatus("Reloaded " + a.state.SourceName)
	}
	a.loaded = true
	if a.state.ShowPreview {
		a.previewPane.Visible = true
		a.previewPane.ForceHidden = false
	}
	return nil
}

// applySearch parses a raw query and applies it to the tree
func (a *App) applySearch(raw string, mode components.SearchMode) {
	parsed := components.ParseSearchQuery(raw, searchDefaults(a.config))

	opts := a.nav().Options()
	opts.Search = parsed.Options
	opts.FilterMatches = mode == components.SearchModeFilter

	a.setNav(a.nav().SetOptions(opts).SetQuery(parsed.Pattern))
}

func (a *App) openSearch() tea.Cmd {
	a.searchInput.Reset()
	if a.history != nil {
		entries, err := a.history.GetRecent(historyRecall)
		if err != nil {
			log.WithError(err).Warn("Failed to read search history")
		}
		queries := make([]string, 0, len(entries))
		for _, e := range entries {
			queries = append(queries, e.Query)
		}
		a.searchInput.SetHistory(queries)
	}
	a.state.ViewMode = models.SearchMode
	return textinput.Blink
}

func (a *App) recordSearch(query string) {
	if a.history == nil || query == "" {
		return
	}
	if err := a.history.Add(query, a.state.SourceName); err != nil {
		log.WithError(err).Warn("Failed to record search")
	}
}

// copySelected copies the selected value as compact JSON, or its path
func (a *App) copySelected(path bool) tea.Cmd {
	p, value, ok := a.viewer.Selected()
	if !ok {
		return nil
	}

	text, what := p.String(), "path"
	if !path {
		compact, err := jsondoc.Compact(value)
		if err != nil {
			return a.setStatus("Copy failed: " + err.Error())
		}
		text, what = compact, "value"
	}

	if err := clipboard.WriteAll(text); err != nil {
		log.WithError(err).Warn("Clipboard unavailable")
		return a.setStatus("Copy failed: " + err.Error())
	}
	return a.setStatus(fmt.Sprintf("Copied %s of %s", what, p.String()))
}

func (a *App) bookmarkSelected() tea.Cmd {
	if a.bookmarks == nil {
		return a.setStatus("Bookmarks are unavailable")
	}
	line, ok := a.nav().Selected()
	if !ok {
		return nil
	}
	path, _ := models.PathOf(a.nav().Tree(), line.ID)

	b, err := a.bookmarks.Add(a.state.SourceName, line.ID, path.String(), "")
	if err != nil {
		return a.setStatus("Bookmark failed: " + err.Error())
	}
	return a.setStatus("Bookmarked " + b.Name)
}

func (a *App) jumpToBookmark() tea.Cmd {
	if a.bookmarks == nil {
		return a.setStatus("Bookmarks are unavailable")
	}
	current := ""
	if line, ok := a.nav().Selected(); ok {
		current = line.ID
	}

	b, ok := a.bookmarks.Next(a.state.SourceName, current)
	if !ok {
		return a.setStatus("No bookmarks for " + a.state.SourceName)
	}
	return a.selectBookmark(*b)
}

func (a *App) openBookmarks() tea.Cmd {
	if a.bookmarks == nil {
		return a.setStatus("Bookmarks are unavailable")
	}
	a.marks.SetBookmarks(a.state.SourceName, a.bookmarks.ForDocument(a.state.SourceName))
	a.state.ViewMode = models.BookmarksMode
	return nil
}

// selectBookmark reveals and selects a bookmarked node
func (a *App) selectBookmark(b bookmarks.Bookmark) tea.Cmd {
	nav, found := a.nav().SelectID(b.NodeID)
	a.setNav(nav)
	if !found {
		return a.setStatus(fmt.Sprintf("Bookmark %s is not visible", b.Name))
	}
	if err := a.bookmarks.RecordUsage(b.ID); err != nil {
		log.WithError(err).Warn("Failed to record bookmark usage")
	}
	return a.setStatus("Jumped to " + b.Name)
}

// setStatus shows a transient message in the status bar
func (a *App) setStatus(message string) tea.Cmd {
	a.statusSeq++
	a.status = message
	seq := a.statusSeq
	return tea.Tick(statusTimeout, func(time.Time) tea.Msg {
		return clearStatusMsg{seq: seq}
	})
}

// syncPreview points a visible preview pane at the selected node
func (a *App) syncPreview() {
	if !a.previewPane.Visible || !a.loaded {
		return
	}
	a.fillPreview()
}

func (a *App) fillPreview() {
	path, value, ok := a.viewer.Selected()
	if !ok {
		a.previewPane.SetContent("", "", false)
		return
	}
	line, _ := a.nav().Selected()
	a.previewPane.SetValue(value, path.String(), line.Truncated)
}

// View implements tea.Model
func (a *App) View() string {
	// If error overlay is showing, render it centered on top of everything
	if a.showError {
		a.errorOverlay.Width = min(70, max(30, a.state.Width-10))
		return lipgloss.Place(
			a.state.Width, a.state.Height,
			lipgloss.Center, lipgloss.Center,
			a.errorOverlay.View(),
		)
	}

	// If in help mode, show help overlay
	if a.state.ViewMode == models.HelpMode {
		return help.Render(a.state.Width, a.state.Height, a.theme, a.viewer.Tree.KeyMap)
	}

	if a.state.ViewMode == models.BookmarksMode {
		a.marks.Width = min(70, max(30, a.state.Width-10))
		a.marks.Height = max(8, a.state.Height-6)
		return lipgloss.Place(
			a.state.Width, a.state.Height,
			lipgloss.Center, lipgloss.Center,
			a.marks.View(),
		)
	}

	return zone.Scan(a.renderNormalView())
}

// renderNormalView renders the normal application view
func (a *App) renderNormalView() string {
	topBarRight := a.viewer.Mode().String()
	if a.state.Watching {
		topBarRight = "● watching  " + topBarRight
	}
	topBarContent := a.formatStatusBar("lazyjson  "+a.state.SourceName, topBarRight)

	// Top bar with theme colors
	topBar := lipgloss.NewStyle().
		Width(a.state.Width).
		Background(a.theme.BorderFocused).
		Foreground(a.theme.Foreground).
		Padding(0, 2).
		Render(topBarContent)

	// Bottom bar with theme colors
	bottomBar := lipgloss.NewStyle().
		Width(a.state.Width).
		Background(a.theme.Selection).
		Foreground(a.theme.Foreground).
		Padding(0, 2).
		Render(a.formatStatusBar(a.statusLeft(), "/ search │ ? help │ q quit"))

	if a.loaded {
		a.treePanel.Content = a.viewer.View()
	} else {
		a.treePanel.Content = lipgloss.NewStyle().
			Foreground(a.theme.Metadata).
			Italic(true).
			Render("Loading " + a.state.SourceName + "...")
	}

	sections := []string{topBar, a.treePanel.View()}
	if a.state.ViewMode == models.SearchMode {
		a.searchInput.Width = max(20, a.state.Width-4)
		sections = append(sections, a.searchInput.View())
	}
	if a.previewPane.Visible {
		sections = append(sections, a.previewPane.View())
	}
	sections = append(sections, bottomBar)

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// statusLeft describes the selection, the search and the latest message
func (a *App) statusLeft() string {
	if a.status != "" {
		return a.status
	}
	if a.state.LastError != "" && a.loaded {
		return "✗ " + a.state.LastError
	}
	if !a.loaded {
		return ""
	}

	nav := a.nav()
	ind := nav.Indicators()
	left := fmt.Sprintf("%d/%d", min(ind.SelectedLineIndex+1, ind.TotalLines), ind.TotalLines)
	if ind.HasMoreAbove {
		left += " ↑"
	}
	if ind.HasMoreBelow {
		left += " ↓"
	}
	if path, _, ok := a.viewer.Selected(); ok {
		left += "  " + path.String()
	}
	if q := nav.Query(); q != "" {
		left += fmt.Sprintf("  [%s: %d matches]", q, len(nav.Matches()))
	}
	return left
}

// updatePanelDimensions calculates panel sizes based on window size
func (a *App) updatePanelDimensions() {
	if a.state.Width <= 0 || a.state.Height <= 0 {
		return
	}

	// Reserve space for top bar (1 line) and bottom bar (1 line)
	contentHeight := a.state.Height - 2
	if a.state.ViewMode == models.SearchMode {
		// Bordered box with input and help lines
		contentHeight -= 4
	}
	a.previewPane.Width = a.state.Width
	a.previewPane.MaxHeight = max(5, a.state.Height/3)
	contentHeight -= a.previewPane.Height()
	if contentHeight < 5 {
		contentHeight = 5
	}

	a.treePanel.Width = a.state.Width
	a.treePanel.Height = contentHeight
	a.treePanel.Title = a.state.SourceName
	a.viewer.SetSize(a.treePanel.ContentWidth(), a.treePanel.ContentHeight())
}

// formatStatusBar formats a status bar with left and right aligned content
func (a *App) formatStatusBar(left, right string) string {
	// Account for padding (2 chars on each side = 4 total)
	availableWidth := a.state.Width - 4
	if availableWidth < 0 {
		availableWidth = 0
	}

	leftLen := runewidth.StringWidth(left)
	rightLen := runewidth.StringWidth(right)

	// If content is too wide, truncate
	if leftLen+rightLen > availableWidth {
		if availableWidth > rightLen {
			return runewidth.Truncate(left, availableWidth-rightLen, "") + right
		}
		return runewidth.Truncate(left, availableWidth, "")
	}

	// Calculate spacing between left and right content
	spacing := availableWidth - leftLen - rightLen

	return left + lipgloss.NewStyle().Width(spacing).Render("") + right
}

// ShowError displays an error overlay with the given title and message
func (a *App) ShowError(title, message string) {
	a.errorOverlay.SetError(title, message)
	a.showError = true
}

// DismissError hides the error overlay
func (a *App) DismissError() {
	a.showError = false
}
