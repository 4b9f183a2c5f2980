package models

// NavigatorOptions bundles the display and search settings of a Navigator
type NavigatorOptions struct {
	Render RenderOptions
	Search SearchOptions
	// FilterMatches hides non-matching lines while a query is active.
	// When false, matches are only highlighted and reachable with next/prev-match.
	FilterMatches bool
}

// Navigator ties a tree snapshot to its rendered lines, the active search and
// the viewport. Every method returns a new Navigator; a structural change, the
// re-render it needs and the selection re-resolution happen inside one call,
// so callers never observe a half-updated state.
type Navigator struct {
	tree    TreeViewState
	opts    NavigatorOptions
	query   string
	matches IDSet
	all     []TreeLine // unfiltered render
	lines   []TreeLine // what the viewport indexes
	view    ViewportState
}

// NewNavigator renders tree and places the selection on the first line
func NewNavigator(tree TreeViewState, opts NavigatorOptions, contentHeight int) Navigator {
	n := Navigator{
		tree:    tree,
		opts:    opts,
		matches: IDSet{},
		view:    NewViewport(contentHeight),
	}
	return n.relayout("", 0)
}

// Apply runs one navigation command
func (n Navigator) Apply(cmd Command) Navigator {
	total := len(n.lines)
	if total == 0 {
		n.view = n.view.Clamp(0)
		return n
	}

	switch cmd {
	case CmdMoveDown:
		n.view = n.view.Move(CmdMoveDown, total)
		n.view = n.revealFirstArrayChild()
	case CmdMoveUp, CmdPageUp, CmdPageDown, CmdGoToTop, CmdGoToBottom:
		n.view = n.view.Move(cmd, total)
	case CmdToggleNode:
		line := n.lines[n.view.SelectedLineIndex]
		if !line.HasChildren {
			return n
		}
		return n.restructure(ToggleNodeExpansion(n.tree, line.ID))
	case CmdExpandAll:
		return n.restructure(ExpandAll(n.tree))
	case CmdCollapseAll:
		return n.restructure(CollapseAll(n.tree))
	case CmdExpandOrChild:
		return n.expandOrChild()
	case CmdCollapseOrParent:
		return n.collapseOrParent()
	case CmdNextMatch:
		return n.jumpToMatch(1)
	case CmdPrevMatch:
		return n.jumpToMatch(-1)
	}
	return n
}

// revealFirstArrayChild keeps the first element of a selected, expanded array
// on screen so the array does not look empty
func (n Navigator) revealFirstArrayChild() ViewportState {
	line := n.lines[n.view.SelectedLineIndex]
	if line.Type != NodeTypeArray || !line.HasChildren {
		return n.view
	}
	idx := n.IndexOf(line.ID + ".0")
	if idx < 0 {
		return n.view
	}
	return n.view.Nudge(idx, len(n.lines))
}

func (n Navigator) expandOrChild() Navigator {
	line := n.lines[n.view.SelectedLineIndex]
	if !line.HasChildren {
		return n
	}
	if !line.Expanded {
		return n.restructure(ToggleNodeExpansion(n.tree, line.ID))
	}
	node, _ := n.tree.Node(line.ID)
	if idx := n.IndexOf(node.Children[0]); idx >= 0 {
		n.view = n.view.Focus(idx, len(n.lines))
	}
	return n
}

func (n Navigator) collapseOrParent() Navigator {
	line := n.lines[n.view.SelectedLineIndex]
	if line.HasChildren && line.Expanded {
		return n.restructure(ToggleNodeExpansion(n.tree, line.ID))
	}
	node, ok := n.tree.Node(line.ID)
	if !ok || node.Parent == "" {
		return n
	}
	if idx := n.IndexOf(node.Parent); idx >= 0 {
		n.view = n.view.Focus(idx, len(n.lines))
	}
	return n
}

func (n Navigator) jumpToMatch(step int) Navigator {
	total := len(n.lines)
	if len(n.matches) == 0 {
		return n
	}
	for i := 1; i <= total; i++ {
		idx := ((n.view.SelectedLineIndex+step*i)%total + total) % total
		if n.matches.Has(n.lines[idx].ID) {
			n.view = n.view.Focus(idx, total)
			return n
		}
	}
	return n
}

// restructure swaps in a new tree snapshot, re-renders, and keeps the
// previously selected node selected when it is still listed
func (n Navigator) restructure(tree TreeViewState) Navigator {
	prevID, prevIndex := n.selectedID(), n.view.SelectedLineIndex
	n.tree = tree
	return n.relayout(prevID, prevIndex)
}

func (n Navigator) selectedID() string {
	if line, ok := n.Selected(); ok {
		return line.ID
	}
	return ""
}

// relayout re-renders and re-filters, then resolves the selection by id,
// falling back to the old index when the id is no longer listed
func (n Navigator) relayout(prevID string, prevIndex int) Navigator {
	n.all = RenderLines(n.tree, n.opts.Render)
	if n.opts.FilterMatches {
		n.lines = FilterLines(n.all, n.query, n.matches)
	} else {
		n.lines = n.all
	}

	idx := -1
	if prevID != "" {
		idx = n.IndexOf(prevID)
	}
	if idx < 0 {
		idx = prevIndex
	}
	n.view = n.view.Focus(idx, len(n.lines))
	return n
}

// SetQuery changes the search query; matches are recomputed over the whole tree
func (n Navigator) SetQuery(query string) Navigator {
	prevID, prevIndex := n.selectedID(), n.view.SelectedLineIndex
	n.query = query
	n.matches = MatchingIDs(n.tree, query, n.opts.Search)
	return n.relayout(prevID, prevIndex)
}

// SetOptions changes display or search settings
func (n Navigator) SetOptions(opts NavigatorOptions) Navigator {
	prevID, prevIndex := n.selectedID(), n.view.SelectedLineIndex
	n.opts = opts
	n.matches = MatchingIDs(n.tree, n.query, n.opts.Search)
	return n.relayout(prevID, prevIndex)
}

// Replace swaps in a new document tree, keeping expansion state and selection
// for nodes that exist in both documents
func (n Navigator) Replace(tree TreeViewState) Navigator {
	prevID, prevIndex := n.selectedID(), n.view.SelectedLineIndex
	n.tree = Reconcile(tree, n.tree)
	n.matches = MatchingIDs(n.tree, n.query, n.opts.Search)
	return n.relayout(prevID, prevIndex)
}

// Resize changes the number of content rows
func (n Navigator) Resize(contentHeight int) Navigator {
	n.view = n.view.Resize(contentHeight, len(n.lines))
	return n
}

// Select moves the selection to a line index (e.g. a mouse click)
func (n Navigator) Select(index int) Navigator {
	n.view = n.view.Focus(index, len(n.lines))
	return n
}

// SelectID reveals a node by expanding its ancestors and selects it.
// It returns false when the node does not exist or is hidden by the filter.
func (n Navigator) SelectID(id string) (Navigator, bool) {
	if _, ok := n.tree.Node(id); !ok {
		return n, false
	}
	next := n.restructure(ExpandToNode(n.tree, id))
	idx := next.IndexOf(id)
	if idx < 0 {
		return next, false
	}
	next.view = next.view.Focus(idx, len(next.lines))
	return next, true
}

// IndexOf returns the line index of a node id, or -1
func (n Navigator) IndexOf(id string) int {
	for i, line := range n.lines {
		if line.ID == id {
			return i
		}
	}
	return -1
}

// Tree returns the current tree snapshot
func (n Navigator) Tree() TreeViewState { return n.tree }

// Options returns the current settings
func (n Navigator) Options() NavigatorOptions { return n.opts }

// Query returns the active search query
func (n Navigator) Query() string { return n.query }

// Matches returns the ids matched by the active query
func (n Navigator) Matches() IDSet { return n.matches }

// Lines returns the line list the viewport indexes (filtered when filtering)
func (n Navigator) Lines() []TreeLine { return n.lines }

// AllLines returns the unfiltered render
func (n Navigator) AllLines() []TreeLine { return n.all }

// Viewport returns the selection and scroll state
func (n Navigator) Viewport() ViewportState { return n.view }

// Visible returns the lines inside the viewport window
func (n Navigator) Visible() []TreeLine {
	start, end := n.view.Window(len(n.lines))
	return n.lines[start:end]
}

// Indicators returns the scroll indicators for status display
func (n Navigator) Indicators() ScrollIndicators {
	return n.view.Indicators(len(n.lines))
}

// Selected returns the selected line
func (n Navigator) Selected() (TreeLine, bool) {
	if len(n.lines) == 0 {
		return TreeLine{}, false
	}
	return n.lines[n.view.SelectedLineIndex], true
}
