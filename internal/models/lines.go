package models

import (
	"fmt"

	"github.com/mattn/go-runewidth"
	"github.com/rebeliceyang/lazyjson/internal/jsondoc"
)

// Ellipsis marks a truncated value
const Ellipsis = "…"

// TreeSymbols are the connector glyphs used to draw ancestor prefixes
type TreeSymbols struct {
	Branch     string // non-last child
	LastBranch string // last child
	Vertical   string // continuation under a non-last ancestor
	Space      string // continuation under a last ancestor
}

var (
	UnicodeSymbols = TreeSymbols{Branch: "├─ ", LastBranch: "└─ ", Vertical: "│  ", Space: "   "}
	ASCIISymbols   = TreeSymbols{Branch: "|- ", LastBranch: "`- ", Vertical: "|  ", Space: "   "}
)

// RenderOptions controls how nodes are turned into display lines
type RenderOptions struct {
	ShowArrayIndices    bool
	ShowPrimitiveValues bool
	MaxValueLength      int // display columns; <= 0 disables truncation
	UseUnicodeTree      bool
	ShowSchemaTypes     bool
}

// DefaultRenderOptions returns the options used when nothing is configured
func DefaultRenderOptions() RenderOptions {
	return RenderOptions{
		ShowArrayIndices:    true,
		ShowPrimitiveValues: true,
		MaxValueLength:      80,
		UseUnicodeTree:      true,
	}
}

// Symbols returns the glyph set selected by the options
func (o RenderOptions) Symbols() TreeSymbols {
	if o.UseUnicodeTree {
		return UnicodeSymbols
	}
	return ASCIISymbols
}

// TreeLine is one renderable row of the tree
type TreeLine struct {
	ID          string       // Source node id
	Level       int          // Nesting depth
	Prefix      string       // Ancestor connector glyphs
	Key         string       // Formatted key ("name", [0], or "")
	Value       string       // Formatted value or container summary
	Type        NodeType     // object, array or primitive
	Kind        jsondoc.Kind // JSON type, for colouring
	SchemaType  string       // JSON type name when ShowSchemaTypes is set
	Expanded    bool
	HasChildren bool
	Truncated   bool // Value was shortened to MaxValueLength
}

// RenderLines walks the expanded tree in document order and returns one line
// per visible node. It has no side effects: the same state and options always
// produce the same lines.
func RenderLines(s TreeViewState, opts RenderOptions) []TreeLine {
	r := lineRenderer{state: s, opts: opts, symbols: opts.Symbols()}
	for _, root := range s.RootNodes() {
		r.emit(root, "", "")
	}
	return r.lines
}

type lineRenderer struct {
	state   TreeViewState
	opts    RenderOptions
	symbols TreeSymbols
	lines   []TreeLine
}

// emit writes the line for node; prefix is its own connector string and
// indent is the continuation its children inherit
func (r *lineRenderer) emit(node TreeNode, prefix, indent string) {
	r.lines = append(r.lines, r.line(node, prefix))

	if !node.Expanded || len(node.Children) == 0 {
		return
	}

	children := r.state.Children(node.ID)
	for i, child := range children {
		last := i == len(children)-1
		branch, cont := r.symbols.Branch, r.symbols.Vertical
		if last {
			branch, cont = r.symbols.LastBranch, r.symbols.Space
		}
		r.emit(child, indent+branch, indent+cont)
	}
}

func (r *lineRenderer) line(node TreeNode, prefix string) TreeLine {
	line := TreeLine{
		ID:          node.ID,
		Level:       node.Level,
		Prefix:      prefix,
		Key:         FormatKey(node.Key, r.opts),
		Type:        node.Type,
		Kind:        nodeKind(node),
		Expanded:    node.Expanded,
		HasChildren: node.HasChildren,
	}
	if r.opts.ShowSchemaTypes {
		line.SchemaType = line.Kind.String()
	}

	switch node.Type {
	case NodeTypeObject:
		line.Value = countLabel("{", len(node.Children), "key", "}")
	case NodeTypeArray:
		line.Value = countLabel("[", len(node.Children), "item", "]")
	default:
		if r.opts.ShowPrimitiveValues {
			line.Value, line.Truncated = TruncateValue(jsondoc.Literal(node.Value), r.opts.MaxValueLength)
		}
	}
	return line
}

func nodeKind(node TreeNode) jsondoc.Kind {
	switch node.Type {
	case NodeTypeObject:
		return jsondoc.KindObject
	case NodeTypeArray:
		return jsondoc.KindArray
	default:
		return node.Value.Kind()
	}
}

func countLabel(opening string, n int, noun, closing string) string {
	if n != 1 {
		noun += "s"
	}
	return fmt.Sprintf("%s%d %s%s", opening, n, noun, closing)
}

// FormatKey renders a node key: quoted for names, bracketed for indices
// (empty when indices are hidden) and empty for the root
func FormatKey(key NodeKey, opts RenderOptions) string {
	switch key.Kind {
	case KeyName:
		return jsondoc.Quote(key.Name)
	case KeyIndex:
		if !opts.ShowArrayIndices {
			return ""
		}
		return fmt.Sprintf("[%d]", key.Index)
	default:
		return ""
	}
}

// TruncateValue shortens s to maxLen display columns, ending with an ellipsis
func TruncateValue(s string, maxLen int) (string, bool) {
	if maxLen <= 0 || runewidth.StringWidth(s) <= maxLen {
		return s, false
	}
	return runewidth.Truncate(s, maxLen, Ellipsis), true
}
