package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/rebeliceyang/lazyjson/internal/models"
)

// SearchQuery represents a parsed search query
type SearchQuery struct {
	Pattern string              // The search pattern (after removing prefixes)
	Options models.SearchOptions // Options for this query, derived from the defaults
}

type searchScope int

const (
	scopeKeys searchScope = iota
	scopeValues
)

// Scope prefix mappings
var scopePrefixes = map[string]searchScope{
	// Short prefixes
	"k:": scopeKeys,
	"v:": scopeValues,
	// Long prefixes
	"key:":   scopeKeys,
	"value:": scopeValues,
}

// ParseSearchQuery parses a search query string into structured form.
// Examples, with case-insensitive value search as the default:
//   - "name"    → {Pattern: "name"}
//   - "k:id"    → {Pattern: "id", SearchValues: false}
//   - "v:alice" → {Pattern: "alice", SearchValues: true}
//   - "=Name"   → {Pattern: "Name", CaseSensitive: true}
func ParseSearchQuery(query string, defaults models.SearchOptions) SearchQuery {
	q := SearchQuery{Options: defaults}

	if strings.HasPrefix(query, "=") {
		q.Options.CaseSensitive = true
		query = query[1:]
	}

	queryLower := strings.ToLower(query)
	for prefix, scope := range scopePrefixes {
		if strings.HasPrefix(queryLower, prefix) {
			q.Options.SearchValues = scope == scopeValues
			query = query[len(prefix):]
			break
		}
	}

	q.Pattern = query
	return q
}

// MatchRanges returns the byte ranges of every non-overlapping occurrence of
// pattern in text
func MatchRanges(text, pattern string, caseSensitive bool) [][2]int {
	if pattern == "" {
		return nil
	}

	haystack, needle := text, pattern
	if !caseSensitive {
		haystack, needle = strings.ToLower(text), strings.ToLower(pattern)
		// Lowering changed byte offsets; there is nothing safe to highlight
		if len(haystack) != len(text) {
			return nil
		}
	}

	var ranges [][2]int
	for start := 0; start <= len(haystack)-len(needle); {
		i := strings.Index(haystack[start:], needle)
		if i < 0 {
			break
		}
		begin := start + i
		ranges = append(ranges, [2]int{begin, begin + len(needle)})
		start = begin + len(needle)
	}
	return ranges
}

// HighlightText renders text with base, painting occurrences of pattern with match
func HighlightText(text, pattern string, caseSensitive bool, base, match lipgloss.Style) string {
	ranges := MatchRanges(text, pattern, caseSensitive)
	if len(ranges) == 0 {
		return base.Render(text)
	}

	var b strings.Builder
	last := 0
	for _, r := range ranges {
		if r[0] > last {
			b.WriteString(base.Render(text[last:r[0]]))
		}
		b.WriteString(match.Render(text[r[0]:r[1]]))
		last = r[1]
	}
	if last < len(text) {
		b.WriteString(base.Render(text[last:]))
	}
	return b.String()
}
