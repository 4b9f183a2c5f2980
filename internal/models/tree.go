package models

import (
	"strconv"
	"strings"

	"github.com/rebeliceyang/lazyjson/internal/jsondoc"
)

// RootID is the reserved id of the document root node
const RootID = "__root__"

// DefaultExpandLevel is the depth up to which nodes start expanded
const DefaultExpandLevel = 2

// NodeType represents the structural type of a tree node
type NodeType string

const (
	NodeTypeObject    NodeType = "object"
	NodeTypeArray     NodeType = "array"
	NodeTypePrimitive NodeType = "primitive"
)

// KeyKind tells whether a node sits under an object key, an array index, or nothing (root)
type KeyKind int

const (
	KeyNone KeyKind = iota
	KeyName
	KeyIndex
)

// NodeKey is the property name or array index a node is stored under
type NodeKey struct {
	Kind  KeyKind
	Name  string
	Index int
}

// String returns the raw key text: the property name, the decimal index, or ""
func (k NodeKey) String() string {
	switch k.Kind {
	case KeyName:
		return k.Name
	case KeyIndex:
		return strconv.Itoa(k.Index)
	default:
		return ""
	}
}

// TreeNode represents one JSON value of the document
type TreeNode struct {
	ID          string        // Path-derived id, e.g. "__root__.users.0.name"
	Key         NodeKey       // Property name or array index (none for the root)
	Value       jsondoc.Value // Raw value; only meaningful for primitives
	Type        NodeType      // object, array or primitive
	Level       int           // Depth from the root (root = 0)
	Expanded    bool          // Whether children are shown
	HasChildren bool          // True only for non-empty containers
	Parent      string        // Parent id ("" for root nodes)
	Children    []string      // Child ids in document order; shared between snapshots, never modified
}

// IsContainer reports whether the node is an object or an array
func (n TreeNode) IsContainer() bool {
	return n.Type == NodeTypeObject || n.Type == NodeTypeArray
}

// BuildOptions controls how a document is turned into a tree
type BuildOptions struct {
	ExpandLevel int // Nodes with Level < ExpandLevel start expanded
}

// TreeViewState is an immutable snapshot of the document tree.
// Expansion changes return a new snapshot; the tree shape never changes after Build.
type TreeViewState struct {
	nodes    []TreeNode          // arena, pre-order
	index    map[string]int      // id -> arena slot, shared by all snapshots of one document
	roots    []string            // root ids in order
	expanded map[string]struct{} // ids whose node is expanded
}

// Build converts a JSON value into a tree. A top-level null (or any primitive)
// becomes a single primitive root node.
func Build(value jsondoc.Value, opts BuildOptions) TreeViewState {
	b := &treeBuilder{
		opts:  opts,
		index: make(map[string]int),
	}
	b.add(value, RootID, NodeKey{Kind: KeyNone}, "", 0)

	s := TreeViewState{
		nodes: b.nodes,
		index: b.index,
		roots: []string{RootID},
	}
	s.expanded = collectExpanded(s.nodes)
	return s
}

type treeBuilder struct {
	opts  BuildOptions
	nodes []TreeNode
	index map[string]int
}

func (b *treeBuilder) add(value jsondoc.Value, id string, key NodeKey, parent string, level int) {
	node := TreeNode{
		ID:     id,
		Key:    key,
		Level:  level,
		Parent: parent,
	}

	switch value.Kind() {
	case jsondoc.KindObject:
		node.Type = NodeTypeObject
	case jsondoc.KindArray:
		node.Type = NodeTypeArray
	default:
		node.Type = NodeTypePrimitive
		node.Value = value
	}

	slot := len(b.nodes)
	b.nodes = append(b.nodes, node)
	b.index[id] = slot

	var children []string
	switch value.Kind() {
	case jsondoc.KindObject:
		for _, m := range value.Members() {
			childID := id + "." + escapeSegment(m.Key)
			children = append(children, childID)
			b.add(m.Value, childID, NodeKey{Kind: KeyName, Name: m.Key}, id, level+1)
		}
	case jsondoc.KindArray:
		for i, item := range value.Items() {
			childID := id + "." + strconv.Itoa(i)
			children = append(children, childID)
			b.add(item, childID, NodeKey{Kind: KeyIndex, Index: i}, id, level+1)
		}
	}

	// Leaves and empty containers never count as expanded
	b.nodes[slot].Children = children
	b.nodes[slot].HasChildren = len(children) > 0
	b.nodes[slot].Expanded = len(children) > 0 && level < b.opts.ExpandLevel
}

// escapeSegment keeps ids unique when keys contain the separator
func escapeSegment(key string) string {
	if !strings.ContainsAny(key, `.\`) {
		return key
	}
	key = strings.ReplaceAll(key, `\`, `\\`)
	return strings.ReplaceAll(key, ".", `\.`)
}

func collectExpanded(nodes []TreeNode) map[string]struct{} {
	expanded := make(map[string]struct{})
	for _, n := range nodes {
		if n.Expanded {
			expanded[n.ID] = struct{}{}
		}
	}
	return expanded
}

// withNodes returns a snapshot sharing the shape of s with a new node arena
func (s TreeViewState) withNodes(nodes []TreeNode) TreeViewState {
	return TreeViewState{
		nodes:    nodes,
		index:    s.index,
		roots:    s.roots,
		expanded: collectExpanded(nodes),
	}
}

func (s TreeViewState) cloneNodes() []TreeNode {
	nodes := make([]TreeNode, len(s.nodes))
	copy(nodes, s.nodes)
	return nodes
}

// ToggleNodeExpansion flips the expansion of nodeID. Unknown ids and nodes
// without children leave the state unchanged.
func ToggleNodeExpansion(s TreeViewState, nodeID string) TreeViewState {
	slot, ok := s.index[nodeID]
	if !ok || !s.nodes[slot].HasChildren {
		return s
	}

	nodes := s.cloneNodes()
	nodes[slot].Expanded = !nodes[slot].Expanded
	return s.withNodes(nodes)
}

// ExpandAll expands every node that has children
func ExpandAll(s TreeViewState) TreeViewState {
	nodes := s.cloneNodes()
	for i := range nodes {
		nodes[i].Expanded = nodes[i].HasChildren
	}
	return s.withNodes(nodes)
}

// CollapseAll collapses every node
func CollapseAll(s TreeViewState) TreeViewState {
	nodes := s.cloneNodes()
	for i := range nodes {
		nodes[i].Expanded = false
	}
	return s.withNodes(nodes)
}

// ExpandToNode expands every ancestor of nodeID so that it becomes visible.
// The node's own state is left alone.
func ExpandToNode(s TreeViewState, nodeID string) TreeViewState {
	slot, ok := s.index[nodeID]
	if !ok {
		return s
	}

	var nodes []TreeNode
	for parent := s.nodes[slot].Parent; parent != ""; {
		pslot := s.index[parent]
		if !s.nodes[pslot].Expanded {
			if nodes == nil {
				nodes = s.cloneNodes()
			}
			nodes[pslot].Expanded = true
		}
		parent = s.nodes[pslot].Parent
	}
	if nodes == nil {
		return s
	}
	return s.withNodes(nodes)
}

// Reconcile carries the expansion state of old over to next for every id
// present in both with children. Used when a document is replaced.
func Reconcile(next, old TreeViewState) TreeViewState {
	if len(old.nodes) == 0 {
		return next
	}
	nodes := next.cloneNodes()
	for i := range nodes {
		if !nodes[i].HasChildren {
			continue
		}
		if oslot, ok := old.index[nodes[i].ID]; ok && old.nodes[oslot].HasChildren {
			nodes[i].Expanded = old.nodes[oslot].Expanded
		}
	}
	return next.withNodes(nodes)
}

// Node returns a copy of the node with the given id
func (s TreeViewState) Node(id string) (TreeNode, bool) {
	slot, ok := s.index[id]
	if !ok {
		return TreeNode{}, false
	}
	return s.nodes[slot], true
}

// RootNodes returns the root nodes, resolved from the current arena
func (s TreeViewState) RootNodes() []TreeNode {
	roots := make([]TreeNode, 0, len(s.roots))
	for _, id := range s.roots {
		roots = append(roots, s.nodes[s.index[id]])
	}
	return roots
}

// Children returns the child nodes of id in document order
func (s TreeViewState) Children(id string) []TreeNode {
	slot, ok := s.index[id]
	if !ok {
		return nil
	}
	ids := s.nodes[slot].Children
	children := make([]TreeNode, 0, len(ids))
	for _, cid := range ids {
		children = append(children, s.nodes[s.index[cid]])
	}
	return children
}

// IsExpanded reports whether id is in the expanded set
func (s TreeViewState) IsExpanded(id string) bool {
	_, ok := s.expanded[id]
	return ok
}

// ExpandedCount returns the size of the expanded set
func (s TreeViewState) ExpandedCount() int {
	return len(s.expanded)
}

// Len returns the number of nodes in the tree
func (s TreeViewState) Len() int {
	return len(s.nodes)
}

// Walk visits every node in document (pre-)order until fn returns false
func (s TreeViewState) Walk(fn func(TreeNode) bool) {
	for _, n := range s.nodes {
		if !fn(n) {
			return
		}
	}
}

// PathOf returns the JSON path of the node with the given id
func PathOf(s TreeViewState, id string) (jsondoc.Path, bool) {
	node, ok := s.Node(id)
	if !ok {
		return jsondoc.Path{}, false
	}

	var segs []jsondoc.Segment
	for node.Parent != "" {
		switch node.Key.Kind {
		case KeyName:
			segs = append(segs, jsondoc.KeySegment(node.Key.Name))
		case KeyIndex:
			segs = append(segs, jsondoc.IndexSegment(node.Key.Index))
		}
		node = s.nodes[s.index[node.Parent]]
	}

	// collected leaf-first
	for i, j := 0, len(segs)-1; i < j; i, j = i+1, j-1 {
		segs[i], segs[j] = segs[j], segs[i]
	}
	return jsondoc.Path{Segments: segs}, true
}
