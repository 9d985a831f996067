// Package hierarchy builds containment trees from flat sets of boxed
// items. Each item's parent is the smallest other item whose box fully
// contains it; items with no container become roots. The tree serves two
// callers: composite-building classifiers asking "which blocks lie inside
// this drawing's box", and debug dumps of a page's raw structure.
package hierarchy

import (
	"fmt"
	"sort"
	"strings"

	"github.com/tsawler/brickplan/model"
)

// Boxed is anything with a bounding box; both model.Block and
// model.Element satisfy it.
type Boxed interface {
	BoundingBox() model.BBox
}

// Node is one item in the containment tree.
type Node[T Boxed] struct {
	// Item is the wrapped item.
	Item T

	// Parent is the smallest containing item, nil for roots.
	Parent *Node[T]

	// Children are the directly contained items in input order.
	Children []*Node[T]

	// Index is the item's position in the original input.
	Index int
}

// Tree is the containment forest over a set of items.
type Tree[T Boxed] struct {
	nodes []*Node[T] // input order
	roots []*Node[T]
}

// Build constructs the containment tree. For each item, the parent is the
// smallest-area other item whose box fully contains it, ties broken by
// input order. The algorithm sorts by ascending area and scans the larger
// items linearly: O(n²), fine at per-page element counts (tens, not
// thousands).
func Build[T Boxed](items []T) *Tree[T] {
	t := &Tree[T]{
		nodes: make([]*Node[T], len(items)),
	}
	for i, item := range items {
		t.nodes[i] = &Node[T]{Item: item, Index: i}
	}

	byArea := append([]*Node[T](nil), t.nodes...)
	sort.SliceStable(byArea, func(i, j int) bool {
		return byArea[i].Item.BoundingBox().Area() < byArea[j].Item.BoundingBox().Area()
	})

	for i, n := range byArea {
		box := n.Item.BoundingBox()
		for _, candidate := range byArea[i+1:] {
			if candidate.Item.BoundingBox().ContainsBox(box) {
				n.Parent = candidate
				break
			}
		}
	}

	// Attach children in input order so traversal is deterministic.
	for _, n := range t.nodes {
		if n.Parent == nil {
			t.roots = append(t.roots, n)
		} else {
			n.Parent.Children = append(n.Parent.Children, n)
		}
	}
	return t
}

// Roots returns the uncontained items in input order.
func (t *Tree[T]) Roots() []*Node[T] {
	return t.roots
}

// Nodes returns all nodes in input order.
func (t *Tree[T]) Nodes() []*Node[T] {
	return t.nodes
}

// Node returns the node for the item at the given input index.
func (t *Tree[T]) Node(index int) *Node[T] {
	if index < 0 || index >= len(t.nodes) {
		return nil
	}
	return t.nodes[index]
}

// Descendants returns every item transitively contained by the node, in
// depth-first input order.
func (n *Node[T]) Descendants() []*Node[T] {
	var out []*Node[T]
	var walk func(*Node[T])
	walk = func(cur *Node[T]) {
		for _, child := range cur.Children {
			out = append(out, child)
			walk(child)
		}
	}
	walk(n)
	return out
}

// Dump renders the forest as an indented outline for debugging.
func (t *Tree[T]) Dump(describe func(T) string) string {
	var sb strings.Builder
	var walk func(n *Node[T], depth int)
	walk = func(n *Node[T], depth int) {
		box := n.Item.BoundingBox()
		fmt.Fprintf(&sb, "%s%s (%.1f,%.1f,%.1f,%.1f)\n",
			strings.Repeat("  ", depth), describe(n.Item), box.X0, box.Y0, box.X1, box.Y1)
		for _, child := range n.Children {
			walk(child, depth+1)
		}
	}
	for _, root := range t.roots {
		walk(root, 0)
	}
	return sb.String()
}
