package components

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/rebeliceyang/lazyjson/internal/ui/theme"
)

// ErrorOverlay is a centered box describing a failure
type ErrorOverlay struct {
	Title   string
	Message string
	Width   int
	Theme   theme.Theme
}

// NewErrorOverlay creates a new error overlay
func NewErrorOverlay(th theme.Theme) *ErrorOverlay {
	return &ErrorOverlay{
		Width: 60,
		Theme: th,
	}
}

// SetError sets the title and message to display
func (e *ErrorOverlay) SetError(title, message string) {
	e.Title = title
	e.Message = message
}

// View renders the overlay
func (e *ErrorOverlay) View() string {
	titleStyle := lipgloss.NewStyle().
		Foreground(e.Theme.Error).
		Bold(true)

	messageStyle := lipgloss.NewStyle().
		Foreground(e.Theme.Foreground).
		Width(max(10, e.Width-6))

	helpStyle := lipgloss.NewStyle().
		Foreground(e.Theme.Metadata).
		Italic(true)

	content := titleStyle.Render("✗ "+e.Title) + "\n\n" +
		messageStyle.Render(e.Message) + "\n\n" +
		helpStyle.Render("Esc/Enter: dismiss")

	boxStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(e.Theme.Error).
		Padding(1, 2)

	return boxStyle.Render(content)
}
