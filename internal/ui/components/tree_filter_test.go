package components

import (
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/rebeliceyang/lazyjson/internal/models"
)

var defaultSearch = models.SearchOptions{SearchValues: true}

func TestParseSearchQuery_Simple(t *testing.T) {
	q := ParseSearchQuery("plan", defaultSearch)

	if q.Pattern != "plan" {
		t.Errorf("expected pattern 'plan', got '%s'", q.Pattern)
	}
	if q.Options != defaultSearch {
		t.Errorf("expected default options, got %+v", q.Options)
	}
}

func TestParseSearchQuery_KeysOnly(t *testing.T) {
	for _, query := range []string{"k:id", "key:id", "K:id"} {
		q := ParseSearchQuery(query, defaultSearch)

		if q.Pattern != "id" {
			t.Errorf("%s: expected pattern 'id', got '%s'", query, q.Pattern)
		}
		if q.Options.SearchValues {
			t.Errorf("%s: expected SearchValues=false", query)
		}
	}
}

func TestParseSearchQuery_Values(t *testing.T) {
	q := ParseSearchQuery("value:alice", models.SearchOptions{})

	if q.Pattern != "alice" {
		t.Errorf("expected pattern 'alice', got '%s'", q.Pattern)
	}
	if !q.Options.SearchValues {
		t.Error("expected SearchValues=true")
	}
}

func TestParseSearchQuery_CaseSensitive(t *testing.T) {
	q := ParseSearchQuery("=k:Name", defaultSearch)

	if q.Pattern != "Name" {
		t.Errorf("expected pattern 'Name', got '%s'", q.Pattern)
	}
	if !q.Options.CaseSensitive {
		t.Error("expected CaseSensitive=true")
	}
	if q.Options.SearchValues {
		t.Error("expected SearchValues=false")
	}
}

func TestParseSearchQuery_Empty(t *testing.T) {
	q := ParseSearchQuery("", defaultSearch)

	if q.Pattern != "" {
		t.Errorf("expected empty pattern, got '%s'", q.Pattern)
	}
}

func TestMatchRanges(t *testing.T) {
	tests := []struct {
		name          string
		text          string
		pattern       string
		caseSensitive bool
		want          [][2]int
	}{
		{"no pattern", "name", "", false, nil},
		{"single", `"username"`, "name", false, [][2]int{{5, 9}}},
		{"repeated", "aaaa", "aa", false, [][2]int{{0, 2}, {2, 4}}},
		{"case folded", "UserName", "name", false, [][2]int{{4, 8}}},
		{"case sensitive miss", "UserName", "name", true, nil},
		{"no match", "id", "name", false, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MatchRanges(tt.text, tt.pattern, tt.caseSensitive)
			if len(got) != len(tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, got)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("range %d: expected %v, got %v", i, tt.want[i], got[i])
				}
			}
		})
	}
}

func TestHighlightText_PlainStyles(t *testing.T) {
	plain := lipgloss.NewStyle()

	if got := HighlightText("username", "name", false, plain, plain); got != "username" {
		t.Errorf("expected text unchanged with plain styles, got %q", got)
	}
	if got := HighlightText("id", "", false, plain, plain); got != "id" {
		t.Errorf("expected text unchanged without pattern, got %q", got)
	}
}
