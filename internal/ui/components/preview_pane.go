package components

import (
	"fmt"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/rebeliceyang/lazyjson/internal/jsondoc"
	"github.com/rebeliceyang/lazyjson/internal/ui/theme"
)

// previewMinWrap is the narrowest column a wrapped JSON line is given
const previewMinWrap = 8

// PreviewPane shows the selected value in full under the tree: strings
// unquoted, containers pretty printed, and strings that hold a JSON
// document pretty printed as well
type PreviewPane struct {
	Width     int
	MaxHeight int    // Maximum height (screen 1/3)
	Content   string // Text copied by CopyContent
	Title     string // JSONPath of the value
	Summary   string // Kind and size of the value, shown after the title

	// Visibility state
	Visible     bool // Whether pane should be shown
	ForceHidden bool // User manually hid the pane (overrides auto-show)
	IsTruncated bool // Whether the value was truncated in the tree
	Embedded    bool // Content is a string holding a JSON document

	structured   bool   // display is pretty printed JSON
	primitive    bool   // display is a single primitive of kind
	display      string // text shown before wrapping
	kind         jsondoc.Kind
	scrollY      int
	contentLines []string

	Theme theme.Theme
	style lipgloss.Style
}

// NewPreviewPane creates a new preview pane
func NewPreviewPane(th theme.Theme) *PreviewPane {
	return &PreviewPane{
		Width:       80,
		MaxHeight:   10,
		Theme:       th,
		ForceHidden: true, // Default to hidden, user must press 'p' to show
		style: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(th.Border).
			Padding(0, 1),
	}
}

// SetValue shows a JSON value found at title
func (p *PreviewPane) SetValue(v jsondoc.Value, title string, isTruncated bool) {
	var content, display, summary string
	structured, embedded := false, false

	switch v.Kind() {
	case jsondoc.KindString:
		content = v.StringValue()
		display = content
		summary = fmt.Sprintf("string, %d chars", len([]rune(content)))
		if pretty, ok := embeddedJSON(content); ok {
			display, structured, embedded = pretty, true, true
			summary += ", embedded JSON"
		}
	case jsondoc.KindObject, jsondoc.KindArray:
		content, _ = jsondoc.Compact(v)
		display, _ = jsondoc.Format(v)
		structured = true
		unit := "items"
		if v.Kind() == jsondoc.KindObject {
			unit = "keys"
		}
		summary = fmt.Sprintf("%s, %d %s", v.Kind(), v.Len(), unit)
	default:
		content = jsondoc.Literal(v)
		display = content
		summary = v.Kind().String()
	}

	if p.Content == content && p.Title == title && p.structured == structured {
		p.IsTruncated = isTruncated
		return
	}
	p.set(content, display, title, isTruncated)
	p.Summary, p.structured, p.Embedded = summary, structured, embedded
	p.kind, p.primitive = v.Kind(), !structured && !v.IsContainer()
}

// embeddedJSON pretty prints s when it holds a JSON object or array
func embeddedJSON(s string) (string, bool) {
	trimmed := strings.TrimSpace(s)
	if !strings.HasPrefix(trimmed, "{") && !strings.HasPrefix(trimmed, "[") {
		return "", false
	}
	if !jsondoc.IsJSON(trimmed) {
		return "", false
	}
	parsed, err := jsondoc.Parse([]byte(trimmed))
	if err != nil {
		return "", false
	}
	pretty, err := jsondoc.Format(parsed)
	if err != nil {
		return "", false
	}
	return pretty, true
}

// SetContent shows plain text; an empty content clears the pane
func (p *PreviewPane) SetContent(content, title string, isTruncated bool) {
	if p.Content == content && p.Title == title && !p.structured {
		return
	}
	p.set(content, content, title, isTruncated)
	p.Summary, p.structured, p.Embedded = "", false, false
	p.primitive = false
}

func (p *PreviewPane) set(content, display, title string, isTruncated bool) {
	p.Content = content
	p.display = display
	p.Title = title
	p.IsTruncated = isTruncated
	p.scrollY = 0
	p.contentLines = nil // formatted on demand
}

func (p *PreviewPane) innerWidth() int {
	return max(10, p.Width-p.style.GetHorizontalFrameSize())
}

// bodyHeight is the number of content lines between header and footer
func (p *PreviewPane) bodyHeight() int {
	return max(1, p.MaxHeight-p.style.GetVerticalFrameSize()-2)
}

func (p *PreviewPane) formatContent() {
	if p.display == "" {
		p.contentLines = []string{}
		return
	}
	width := p.innerWidth()
	if p.structured {
		p.contentLines = wrapJSON(p.display, width)
		return
	}
	p.contentLines = strings.Split(ansi.Wrap(p.display, width, ""), "\n")
}

// wrapJSON wraps pretty printed JSON, keeping continuation lines indented
// past the line they belong to
func wrapJSON(text string, width int) []string {
	var result []string
	for _, line := range strings.Split(text, "\n") {
		if ansi.StringWidth(line) <= width {
			result = append(result, line)
			continue
		}
		body := strings.TrimLeft(line, " ")
		indent := line[:len(line)-len(body)]
		hang := indent + "  "
		limit := max(previewMinWrap, width-len(hang))

		for i, part := range strings.Split(ansi.Wrap(body, limit, ",:"), "\n") {
			if i == 0 {
				result = append(result, indent+part)
			} else {
				result = append(result, hang+part)
			}
		}
	}
	return result
}

// Toggle toggles the preview pane visibility
func (p *PreviewPane) Toggle() {
	if p.Visible {
		p.Visible = false
		p.ForceHidden = true
		p.contentLines = nil
		return
	}
	if p.Content != "" {
		p.Visible = true
		p.ForceHidden = false
		p.formatContent()
	}
}

// Height returns the rendered height including borders, 0 when hidden
func (p *PreviewPane) Height() int {
	if !p.Visible {
		return 0
	}
	return p.MaxHeight
}

// IsScrollable returns true if content exceeds visible area
func (p *PreviewPane) IsScrollable() bool {
	if p.contentLines == nil {
		p.formatContent()
	}
	return len(p.contentLines) > p.bodyHeight()
}

// ScrollUp scrolls content up
func (p *PreviewPane) ScrollUp() {
	if p.scrollY > 0 {
		p.scrollY--
	}
}

// ScrollDown scrolls content down
func (p *PreviewPane) ScrollDown() {
	if p.contentLines == nil {
		p.formatContent()
	}
	maxScroll := max(0, len(p.contentLines)-p.bodyHeight())
	if p.scrollY < maxScroll {
		p.scrollY++
	}
}

// GetContent returns the raw content for copying
func (p *PreviewPane) GetContent() string {
	return p.Content
}

// CopyContent copies the preview content to clipboard
func (p *PreviewPane) CopyContent() error {
	return clipboard.WriteAll(p.Content)
}

// View renders the preview pane
func (p *PreviewPane) View() string {
	if !p.Visible {
		return ""
	}
	if p.contentLines == nil {
		p.formatContent()
	}

	width := p.innerWidth()
	body := p.bodyHeight()

	title := "Preview"
	if p.Title != "" {
		title += ": " + p.Title
	}
	if p.Summary != "" {
		title += " · " + p.Summary
	}
	header := lipgloss.NewStyle().
		Foreground(p.Theme.Info).
		Bold(true).
		Render(ansi.Truncate(title, width, "…"))

	start := p.scrollY
	end := min(start+body, len(p.contentLines))

	contentStyle := lipgloss.NewStyle().Foreground(p.Theme.Foreground)
	if p.primitive {
		contentStyle = contentStyle.Foreground(kindColor(p.Theme, p.kind))
	}

	parts := []string{header}
	for i := start; i < end; i++ {
		parts = append(parts, contentStyle.Render(ansi.Truncate(p.contentLines[i], width, "…")))
	}
	for i := end - start; i < body; i++ {
		parts = append(parts, "")
	}
	parts = append(parts, p.renderFooter(start, end, width))

	return p.style.
		Width(width + p.style.GetHorizontalPadding()).
		Height(body + 2).
		MaxHeight(body + 2 + p.style.GetVerticalFrameSize()).
		Render(strings.Join(parts, "\n"))
}

func (p *PreviewPane) renderFooter(start, end, width int) string {
	var help []string
	if p.IsScrollable() {
		help = append(help,
			fmt.Sprintf("lines %d-%d of %d", start+1, end, len(p.contentLines)),
			"J/K: Scroll")
	}
	help = append(help, "y: Copy", "p: Hide")
	if p.IsTruncated {
		help = append(help, "truncated in tree")
	}

	text := ansi.Truncate(strings.Join(help, " │ "), width, "…")
	pad := max(0, width-ansi.StringWidth(text))
	return strings.Repeat(" ", pad) + lipgloss.NewStyle().
		Foreground(p.Theme.Metadata).
		Italic(true).
		Render(text)
}
