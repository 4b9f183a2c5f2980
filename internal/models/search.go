package models

import (
	"strings"

	"github.com/rebeliceyang/lazyjson/internal/jsondoc"
)

// SearchOptions controls how a query is matched against nodes
type SearchOptions struct {
	CaseSensitive bool
	SearchValues  bool // Also match the JSON literal of primitive values
}

// IDSet is a set of node ids
type IDSet map[string]struct{}

// Has reports whether id is in the set
func (s IDSet) Has(id string) bool {
	_, ok := s[id]
	return ok
}

// MatchingIDs returns the ids of every node (collapsed ones included) whose
// key text, followed by the value literal for primitives when SearchValues is
// set, contains query. An empty query matches nothing.
func MatchingIDs(s TreeViewState, query string, opts SearchOptions) IDSet {
	matches := make(IDSet)
	if query == "" {
		return matches
	}

	needle := query
	if !opts.CaseSensitive {
		needle = strings.ToLower(needle)
	}

	s.Walk(func(node TreeNode) bool {
		text := node.Key.String()
		if opts.SearchValues && node.Type == NodeTypePrimitive {
			text += jsondoc.Literal(node.Value)
		}
		if !opts.CaseSensitive {
			text = strings.ToLower(text)
		}
		if strings.Contains(text, needle) {
			matches[node.ID] = struct{}{}
		}
		return true
	})
	return matches
}

// FilterLines keeps only the lines whose node matched. Ancestors of a match are
// not kept: filtering works line by line. An empty query returns lines as is.
func FilterLines(lines []TreeLine, query string, matches IDSet) []TreeLine {
	if query == "" {
		return lines
	}
	filtered := make([]TreeLine, 0, len(matches))
	for _, line := range lines {
		if matches.Has(line.ID) {
			filtered = append(filtered, line)
		}
	}
	return filtered
}
