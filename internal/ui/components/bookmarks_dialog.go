package components

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
	"github.com/rebeliceyang/lazyjson/internal/bookmarks"
	"github.com/rebeliceyang/lazyjson/internal/ui/theme"
)

// JumpToBookmarkMsg is sent when a bookmark should be selected in the tree
type JumpToBookmarkMsg struct {
	Bookmark bookmarks.Bookmark
}

// DeleteBookmarkMsg is sent when a bookmark should be removed
type DeleteBookmarkMsg struct {
	ID string
}

// CloseBookmarksDialogMsg is sent when dialog should close
type CloseBookmarksDialogMsg struct{}

// BookmarksDialog lists the bookmarks of the open document
type BookmarksDialog struct {
	Width  int
	Height int
	Theme  theme.Theme

	document  string
	bookmarks []bookmarks.Bookmark
	selected  int
	offset    int
}

// NewBookmarksDialog creates a new bookmarks dialog
func NewBookmarksDialog(th theme.Theme) *BookmarksDialog {
	return &BookmarksDialog{
		Width:  70,
		Height: 20,
		Theme:  th,
	}
}

// SetBookmarks updates the list, keeping the selection in range
func (bd *BookmarksDialog) SetBookmarks(document string, list []bookmarks.Bookmark) {
	if document != bd.document {
		bd.selected, bd.offset = 0, 0
	}
	bd.document = document
	bd.bookmarks = list
	bd.selected = max(0, min(bd.selected, len(list)-1))
	bd.offset = min(bd.offset, bd.selected)
}

// Selected returns the highlighted bookmark
func (bd *BookmarksDialog) Selected() (bookmarks.Bookmark, bool) {
	if bd.selected >= len(bd.bookmarks) {
		return bookmarks.Bookmark{}, false
	}
	return bd.bookmarks[bd.selected], true
}

// listHeight is the number of entries that fit; each takes two rows
func (bd *BookmarksDialog) listHeight() int {
	return max(1, (bd.Height-6)/2)
}

// Update handles keyboard input
func (bd *BookmarksDialog) Update(msg tea.KeyMsg) (*BookmarksDialog, tea.Cmd) {
	switch msg.String() {
	case "esc", "q", "b":
		return bd, func() tea.Msg {
			return CloseBookmarksDialogMsg{}
		}
	case "up", "k":
		if bd.selected > 0 {
			bd.selected--
			if bd.selected < bd.offset {
				bd.offset = bd.selected
			}
		}
	case "down", "j":
		if bd.selected < len(bd.bookmarks)-1 {
			bd.selected++
			if bd.selected >= bd.offset+bd.listHeight() {
				bd.offset = bd.selected - bd.listHeight() + 1
			}
		}
	case "enter":
		if b, ok := bd.Selected(); ok {
			return bd, func() tea.Msg {
				return JumpToBookmarkMsg{Bookmark: b}
			}
		}
	case "d", "x":
		if b, ok := bd.Selected(); ok {
			return bd, func() tea.Msg {
				return DeleteBookmarkMsg{ID: b.ID}
			}
		}
	}
	return bd, nil
}

// View renders the dialog
func (bd *BookmarksDialog) View() string {
	var sections []string

	titleStyle := lipgloss.NewStyle().
		Foreground(bd.Theme.Background).
		Background(bd.Theme.Info).
		Padding(0, 1).
		Bold(true)
	sections = append(sections, titleStyle.Render("Bookmarks · "+bd.document))

	instrStyle := lipgloss.NewStyle().
		Foreground(bd.Theme.Metadata).
		Padding(0, 1)
	sections = append(sections, instrStyle.Render("↑↓: Navigate  Enter: Jump  d: Delete  Esc: Close"))
	sections = append(sections, "")

	if len(bd.bookmarks) == 0 {
		sections = append(sections, instrStyle.Render("No bookmarks yet. Press 'm' on a node to add one."))
	}

	inner := max(10, bd.Width-4)
	end := min(bd.offset+bd.listHeight(), len(bd.bookmarks))
	for i := bd.offset; i < end; i++ {
		b := bd.bookmarks[i]

		detail := b.Path
		if b.UsageCount > 0 {
			detail += fmt.Sprintf(" · used %d×", b.UsageCount)
		}
		line := runewidth.Truncate(b.Name, inner, "…") + "\n  " +
			runewidth.Truncate(detail, inner-2, "…")

		style := lipgloss.NewStyle().Padding(0, 1).Foreground(bd.Theme.Foreground)
		if i == bd.selected {
			style = style.Background(bd.Theme.Selection)
		}
		sections = append(sections, style.Render(line))
	}

	containerStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(bd.Theme.BorderFocused).
		Width(bd.Width).
		Padding(0, 1)

	return containerStyle.Render(strings.Join(sections, "\n"))
}
