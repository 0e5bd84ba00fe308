// Package catalog navigates the parts catalog of one resolved vehicle.
//
// The category tree is flattened into an arena: every [Node] lives in one
// slice and refers to its children by index. Navigation state is a [Path]
// of child positions from the root level, so moving up never needs a
// parent pointer or a refetch.
//
// Leaves (no children, searchable) resolve into spare-part listings grouped
// by their position on the exploded-view diagram; see [Group].
package catalog

import (
	"github.com/matzehuels/partscout/pkg/integrations/autodoc"
)

// Node is one category in the arena.
type Node struct {
	ID         string
	Name       string
	Searchable bool
	Depth      int
	children   []int
}

// HasChildren reports whether the node is a branch.
func (n Node) HasChildren() bool { return len(n.children) > 0 }

// Leaf reports whether selecting the node yields spare parts.
func (n Node) Leaf() bool { return len(n.children) == 0 && n.Searchable }

// DeadEnd reports whether the node has neither children nor parts.
func (n Node) DeadEnd() bool { return len(n.children) == 0 && !n.Searchable }

// Tree is an immutable, arena-backed category tree.
type Tree struct {
	nodes []Node
	roots []int
}

// NewTree flattens the API representation, preserving sibling order.
func NewTree(roots []autodoc.CategoryNode) *Tree {
	t := &Tree{}
	t.roots = t.add(roots, 0)
	return t
}

func (t *Tree) add(src []autodoc.CategoryNode, depth int) []int {
	if len(src) == 0 {
		return nil
	}
	ids := make([]int, len(src))
	for i, c := range src {
		idx := len(t.nodes)
		t.nodes = append(t.nodes, Node{ID: c.ID, Name: c.Name, Searchable: c.CanBeSearched, Depth: depth})
		ids[i] = idx
		kids := t.add(c.Children, depth+1)
		t.nodes[idx].children = kids
	}
	return ids
}

// Len returns the number of nodes.
func (t *Tree) Len() int { return len(t.nodes) }

// Empty reports whether the tree has no root categories.
func (t *Tree) Empty() bool { return len(t.roots) == 0 }

// Node returns the node at arena index i.
func (t *Tree) Node(i int) Node { return t.nodes[i] }

// Roots returns the arena indices of the root level.
func (t *Tree) Roots() []int { return append([]int(nil), t.roots...) }

// Children returns the arena indices of the children of node i.
func (t *Tree) Children(i int) []int { return append([]int(nil), t.nodes[i].children...) }

// Path addresses a node by child position at each level, starting from the
// root level. The empty path is the root level itself.
type Path []int

// level returns the arena indices visible at p, and false if p is invalid.
func (t *Tree) level(p Path) ([]int, bool) {
	ids := t.roots
	for _, pos := range p {
		if pos < 0 || pos >= len(ids) {
			return nil, false
		}
		ids = t.nodes[ids[pos]].children
	}
	return ids, true
}

// Walk calls fn for every node in depth-first order, stopping early if fn
// returns false.
func (t *Tree) Walk(fn func(idx int, n Node) bool) {
	var visit func(ids []int) bool
	visit = func(ids []int) bool {
		for _, id := range ids {
			if !fn(id, t.nodes[id]) {
				return false
			}
			if !visit(t.nodes[id].children) {
				return false
			}
		}
		return true
	}
	visit(t.roots)
}
