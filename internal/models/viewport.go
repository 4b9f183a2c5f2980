package models

// Command is a logical navigation command, decoded from keys by the UI layer
type Command int

const (
	CmdMoveUp Command = iota
	CmdMoveDown
	CmdPageUp
	CmdPageDown
	CmdGoToTop
	CmdGoToBottom
	CmdToggleNode
	CmdExpandAll
	CmdCollapseAll
	CmdExpandOrChild
	CmdCollapseOrParent
	CmdNextMatch
	CmdPrevMatch
)

var commandNames = map[Command]string{
	CmdMoveUp:           "move-up",
	CmdMoveDown:         "move-down",
	CmdPageUp:           "page-up",
	CmdPageDown:         "page-down",
	CmdGoToTop:          "go-to-top",
	CmdGoToBottom:       "go-to-bottom",
	CmdToggleNode:       "toggle-node",
	CmdExpandAll:        "expand-all",
	CmdCollapseAll:      "collapse-all",
	CmdExpandOrChild:    "expand-or-child",
	CmdCollapseOrParent: "collapse-or-parent",
	CmdNextMatch:        "next-match",
	CmdPrevMatch:        "prev-match",
}

func (c Command) String() string {
	if name, ok := commandNames[c]; ok {
		return name
	}
	return "unknown"
}

// ViewportState is the selection and scroll position over a line list.
// After every transition: 0 <= ScrollOffset <= max(0, n-ContentHeight) and,
// when n > 0, ScrollOffset <= SelectedLineIndex < ScrollOffset+ContentHeight.
type ViewportState struct {
	SelectedLineIndex int
	ScrollOffset      int
	ContentHeight     int
}

// NewViewport returns a viewport at the top of the list
func NewViewport(contentHeight int) ViewportState {
	return ViewportState{ContentHeight: max(1, contentHeight)}
}

func (v ViewportState) height() int {
	return max(1, v.ContentHeight)
}

// MaxScroll is the largest valid scroll offset for n lines
func (v ViewportState) MaxScroll(n int) int {
	return max(0, n-v.height())
}

// Clamp restores the viewport invariant for n lines, moving the scroll offset
// as little as possible to keep the selection visible
func (v ViewportState) Clamp(n int) ViewportState {
	v.ContentHeight = v.height()
	if n <= 0 {
		v.SelectedLineIndex = 0
		v.ScrollOffset = 0
		return v
	}

	v.SelectedLineIndex = clamp(v.SelectedLineIndex, 0, n-1)
	if v.SelectedLineIndex < v.ScrollOffset {
		v.ScrollOffset = v.SelectedLineIndex
	}
	if v.SelectedLineIndex >= v.ScrollOffset+v.ContentHeight {
		v.ScrollOffset = v.SelectedLineIndex - v.ContentHeight + 1
	}
	v.ScrollOffset = clamp(v.ScrollOffset, 0, v.MaxScroll(n))
	return v
}

// Move applies a pure movement command over n lines. Structural commands
// (toggle, expand, collapse) need the tree and are handled by Navigator;
// Move leaves the state clamped but otherwise unchanged for them.
func (v ViewportState) Move(cmd Command, n int) ViewportState {
	if n <= 0 {
		return v.Clamp(n)
	}

	h := v.height()
	maxScroll := v.MaxScroll(n)

	switch cmd {
	case CmdMoveDown:
		v.SelectedLineIndex = min(n-1, v.SelectedLineIndex+1)
		if v.SelectedLineIndex >= v.ScrollOffset+h {
			v.ScrollOffset = min(maxScroll, v.SelectedLineIndex-h+1)
		}
	case CmdMoveUp:
		v.SelectedLineIndex = max(0, v.SelectedLineIndex-1)
		if v.SelectedLineIndex < v.ScrollOffset {
			v.ScrollOffset = v.SelectedLineIndex
		}
	case CmdPageDown:
		v.SelectedLineIndex = min(n-1, v.SelectedLineIndex+h)
		v.ScrollOffset = min(maxScroll, v.SelectedLineIndex-h/2)
	case CmdPageUp:
		v.SelectedLineIndex = max(0, v.SelectedLineIndex-h)
		v.ScrollOffset = max(0, v.SelectedLineIndex-h/2)
	case CmdGoToTop:
		v.SelectedLineIndex = 0
		v.ScrollOffset = 0
	case CmdGoToBottom:
		v.SelectedLineIndex = n - 1
		v.ScrollOffset = maxScroll
	}
	return v.Clamp(n)
}

// Focus selects index (clamped) and scrolls minimally to show it
func (v ViewportState) Focus(index, n int) ViewportState {
	v.SelectedLineIndex = index
	return v.Clamp(n)
}

// Nudge scrolls down just enough to bring index into view, without letting
// the selected line leave the top of the viewport
func (v ViewportState) Nudge(index, n int) ViewportState {
	h := v.height()
	if index >= v.ScrollOffset+h {
		v.ScrollOffset = min(v.MaxScroll(n), index-h+1, v.SelectedLineIndex)
	}
	return v.Clamp(n)
}

// Resize changes the content height and re-clamps
func (v ViewportState) Resize(contentHeight, n int) ViewportState {
	v.ContentHeight = max(1, contentHeight)
	return v.Clamp(n)
}

// Window returns the [start, end) range of visible line indices
func (v ViewportState) Window(n int) (start, end int) {
	if n <= 0 {
		return 0, 0
	}
	start = v.ScrollOffset
	end = min(n, start+v.height())
	return start, end
}

// ScrollIndicators summarises the viewport for a status display
type ScrollIndicators struct {
	HasMoreAbove      bool
	HasMoreBelow      bool
	TotalLines        int
	SelectedLineIndex int
}

// Indicators returns the scroll indicators for n lines
func (v ViewportState) Indicators(n int) ScrollIndicators {
	start, end := v.Window(n)
	return ScrollIndicators{
		HasMoreAbove:      start > 0,
		HasMoreBelow:      end < n,
		TotalLines:        n,
		SelectedLineIndex: v.SelectedLineIndex,
	}
}

func clamp(x, lo, hi int) int {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}
