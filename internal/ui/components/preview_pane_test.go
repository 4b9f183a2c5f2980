package components

import (
	"strings"
	"testing"

	"github.com/charmbracelet/x/ansi"
	"github.com/rebeliceyang/lazyjson/internal/jsondoc"
	"github.com/rebeliceyang/lazyjson/internal/ui/theme"
)

func newTestPreview(width, height int) *PreviewPane {
	p := NewPreviewPane(theme.DefaultTheme())
	p.Width, p.MaxHeight = width, height
	return p
}

func TestPreviewPane_SetValueKinds(t *testing.T) {
	tests := []struct {
		name     string
		doc      string
		content  string
		summary  string
		embedded bool
	}{
		{"string", `"grace"`, "grace", "string, 5 chars", false},
		{"number", `12.50`, "12.50", "number", false},
		{"object", `{"b":1,"a":[true]}`, `{"b":1,"a":[true]}`, "object, 2 keys", false},
		{"array", `[1,2,3]`, `[1,2,3]`, "array, 3 items", false},
		{"embedded", `"{\"x\":1}"`, `{"x":1}`, "string, 7 chars, embedded JSON", true},
		{"numeric string", `"42"`, "42", "string, 2 chars", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := newTestPreview(60, 10)
			p.SetValue(jsondoc.MustParse(tt.doc), "$.v", false)

			if p.Content != tt.content {
				t.Errorf("Expected content %q, got %q", tt.content, p.Content)
			}
			if p.Summary != tt.summary {
				t.Errorf("Expected summary %q, got %q", tt.summary, p.Summary)
			}
			if p.Embedded != tt.embedded {
				t.Errorf("Expected embedded=%v", tt.embedded)
			}
		})
	}
}

func TestPreviewPane_PrettyPrintsContainers(t *testing.T) {
	p := newTestPreview(60, 12)
	p.SetValue(jsondoc.MustParse(`{"name":"ada","tags":["x"]}`), "$.user", false)
	p.Toggle()

	want := []string{`{`, `  "name": "ada",`, `  "tags": [`, `    "x"`, `  ]`, `}`}
	if strings.Join(p.contentLines, "\n") != strings.Join(want, "\n") {
		t.Errorf("Expected pretty printed lines, got %q", p.contentLines)
	}

	view := p.View()
	if !strings.Contains(view, "Preview: $.user · object, 2 keys") {
		t.Errorf("Expected title with summary, got:\n%s", view)
	}
	if !strings.Contains(view, "p: Hide") {
		t.Error("Expected help footer")
	}
}

func TestPreviewPane_WrapKeepsJSONIndent(t *testing.T) {
	long := strings.Repeat("word ", 12)
	p := newTestPreview(30, 20)
	p.SetValue(jsondoc.MustParse(`{"k":"`+long+`"}`), "$", false)
	p.Toggle()

	width := p.innerWidth()
	if len(p.contentLines) <= 3 {
		t.Fatalf("Expected the long member to wrap, got %q", p.contentLines)
	}
	for i, line := range p.contentLines {
		if ansi.StringWidth(line) > width {
			t.Errorf("Line %d wider than %d: %q", i, width, line)
		}
	}
	for _, line := range p.contentLines[2 : len(p.contentLines)-1] {
		if !strings.HasPrefix(line, "    ") {
			t.Errorf("Expected continuation indented past the member, got %q", line)
		}
	}
}

func TestPreviewPane_PlainStringWraps(t *testing.T) {
	p := newTestPreview(24, 10)
	p.SetValue(jsondoc.String("alpha beta gamma delta epsilon zeta"), "$.s", false)
	p.Toggle()

	if len(p.contentLines) < 2 {
		t.Fatalf("Expected wrapped lines, got %q", p.contentLines)
	}
	if strings.Join(strings.Fields(strings.Join(p.contentLines, " ")), " ") != "alpha beta gamma delta epsilon zeta" {
		t.Errorf("Wrapping lost words: %q", p.contentLines)
	}
}

func TestPreviewPane_Scroll(t *testing.T) {
	items := make([]jsondoc.Value, 20)
	for i := range items {
		items[i] = jsondoc.Bool(i%2 == 0)
	}
	p := newTestPreview(100, 8)
	p.SetValue(jsondoc.Array(items...), "$.list", true)
	p.Toggle()

	if !p.IsScrollable() {
		t.Fatal("Expected a scrollable preview")
	}
	body := p.bodyHeight()
	for i := 0; i < 100; i++ {
		p.ScrollDown()
	}
	if p.scrollY != len(p.contentLines)-body {
		t.Errorf("Expected scroll to stop at %d, got %d", len(p.contentLines)-body, p.scrollY)
	}

	view := p.View()
	if !strings.Contains(view, "J/K: Scroll") || !strings.Contains(view, "truncated in tree") {
		t.Errorf("Expected scroll and truncation hints, got:\n%s", view)
	}

	p.ScrollUp()
	if p.scrollY != len(p.contentLines)-body-1 {
		t.Errorf("Expected scroll up by one, got %d", p.scrollY)
	}
}

func TestPreviewPane_ToggleNeedsContent(t *testing.T) {
	p := newTestPreview(40, 8)
	p.Toggle()
	if p.Visible {
		t.Error("Expected an empty preview to stay hidden")
	}

	p.SetValue(jsondoc.Null(), "$", false)
	p.Toggle()
	if !p.Visible || p.Height() != 8 {
		t.Errorf("Expected visible preview of height 8, got visible=%v height=%d", p.Visible, p.Height())
	}

	p.SetContent("", "", false)
	if p.Content != "" || p.Summary != "" {
		t.Error("Expected SetContent to clear the value")
	}
}
