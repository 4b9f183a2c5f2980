package components

import (
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/rebeliceyang/lazyjson/internal/ui/theme"
)

// SearchMode selects how matches are presented
type SearchMode string

const (
	SearchModeFilter    SearchMode = "filter"    // Hide non-matching lines
	SearchModeHighlight SearchMode = "highlight" // Keep lines, highlight matches
)

// SearchInputMsg is sent when a search is submitted
type SearchInputMsg struct {
	Query string
	Mode  SearchMode
}

// SearchChangedMsg is sent while typing, for live filtering
type SearchChangedMsg struct {
	Query string
	Mode  SearchMode
}

// CloseSearchMsg is sent when search should be closed
type CloseSearchMsg struct{}

// SearchInput provides a search input box with history recall
type SearchInput struct {
	Input   textinput.Model
	Mode    SearchMode
	Theme   theme.Theme
	Width   int
	Visible bool

	history    []string // Most recent first
	historyIdx int      // -1 when not browsing history
	draft      string   // Input saved when browsing starts
}

// NewSearchInput creates a new search input
func NewSearchInput(th theme.Theme, mode SearchMode) *SearchInput {
	ti := textinput.New()
	ti.Prompt = "/"
	ti.Placeholder = "key or value (k: keys, v: values, = case)"
	ti.Focus()
	ti.CharLimit = 256
	ti.Width = 40

	return &SearchInput{
		Input:      ti,
		Mode:       mode,
		Theme:      th,
		historyIdx: -1,
	}
}

// SetHistory sets the recallable queries, most recent first
func (s *SearchInput) SetHistory(queries []string) {
	s.history = queries
	s.historyIdx = -1
}

// ToggleMode switches between filter and highlight mode
func (s *SearchInput) ToggleMode() {
	if s.Mode == SearchModeFilter {
		s.Mode = SearchModeHighlight
	} else {
		s.Mode = SearchModeFilter
	}
}

// Reset clears the search input
func (s *SearchInput) Reset() {
	s.Input.SetValue("")
	s.historyIdx = -1
	s.draft = ""
}

// Update handles messages
func (s *SearchInput) Update(msg tea.Msg) (*SearchInput, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "tab":
			s.ToggleMode()
			return s, s.changed()
		case "enter":
			query, mode := s.Input.Value(), s.Mode
			return s, func() tea.Msg {
				return SearchInputMsg{Query: query, Mode: mode}
			}
		case "esc":
			return s, func() tea.Msg {
				return CloseSearchMsg{}
			}
		case "up":
			return s, s.recall(1)
		case "down":
			return s, s.recall(-1)
		}
	}

	before := s.Input.Value()
	var cmd tea.Cmd
	s.Input, cmd = s.Input.Update(msg)
	if s.Input.Value() != before {
		s.historyIdx = -1
		return s, tea.Batch(cmd, s.changed())
	}
	return s, cmd
}

// recall steps through history; step 1 goes to older entries
func (s *SearchInput) recall(step int) tea.Cmd {
	next := s.historyIdx + step
	if next < -1 || next >= len(s.history) {
		return nil
	}
	if s.historyIdx == -1 {
		s.draft = s.Input.Value()
	}
	s.historyIdx = next

	if next == -1 {
		s.Input.SetValue(s.draft)
	} else {
		s.Input.SetValue(s.history[next])
	}
	s.Input.CursorEnd()
	return s.changed()
}

func (s *SearchInput) changed() tea.Cmd {
	query, mode := s.Input.Value(), s.Mode
	return func() tea.Msg {
		return SearchChangedMsg{Query: query, Mode: mode}
	}
}

// View renders the search input
func (s *SearchInput) View() string {
	modeIndicator := "[Filter]"
	modeColor := s.Theme.Success
	if s.Mode == SearchModeHighlight {
		modeIndicator = "[Highlight]"
		modeColor = s.Theme.Info
	}

	modeStyle := lipgloss.NewStyle().
		Foreground(modeColor).
		Bold(true)

	// Calculate input width
	inputWidth := s.Width - 20 // Reserve space for mode indicator
	if inputWidth < 20 {
		inputWidth = 20
	}
	s.Input.Width = inputWidth

	boxStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(s.Theme.BorderFocused).
		Padding(0, 1).
		Width(s.Width)

	helpStyle := lipgloss.NewStyle().
		Foreground(s.Theme.Metadata).
		Italic(true)

	content := modeStyle.Render(modeIndicator) + " " + s.Input.View()
	helpText := helpStyle.Render("Tab: toggle mode │ ↑↓: history │ Enter: search │ Esc: close")

	return boxStyle.Render(content + "\n" + helpText)
}
