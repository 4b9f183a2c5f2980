package components

import (
	"github.com/charmbracelet/lipgloss"
)

// Panel represents a bordered UI panel
type Panel struct {
	Title   string
	Content string
	Width   int // Outer width, borders included
	Height  int // Outer height, borders included
	Focused bool
	Style   lipgloss.Style
}

// ContentHeight returns the rows available for content
func (p *Panel) ContentHeight() int {
	rows := p.Height - 2
	if p.Title != "" {
		rows--
	}
	return max(1, rows)
}

// ContentWidth returns the columns available for content
func (p *Panel) ContentWidth() int {
	return max(1, p.Width-2)
}

// View renders the panel
func (p *Panel) View() string {
	if p.Width <= 0 || p.Height <= 0 {
		return ""
	}

	// lipgloss sizes exclude the border
	style := p.Style.
		Width(p.ContentWidth()).
		Height(p.Height - 2).
		MaxHeight(p.Height).
		Border(lipgloss.RoundedBorder())

	// Add title if present
	content := p.Content
	if p.Title != "" {
		titleStyle := lipgloss.NewStyle().Bold(true).Padding(0, 1)
		content = titleStyle.Render(p.Title) + "\n" + content
	}

	return style.Render(content)
}
