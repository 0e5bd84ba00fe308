package catalog

import (
	"context"

	perrors "github.com/matzehuels/partscout/pkg/errors"
	"github.com/matzehuels/partscout/pkg/integrations/autodoc"
)

// Client is the part of the catalog client the navigator uses.
// [*autodoc.Catalog] implements it.
type Client interface {
	CategoryTree(ctx context.Context, brandCode, carID, token string) ([]autodoc.CategoryNode, error)
	GroupParts(ctx context.Context, brandCode, carID, groupID, token string) ([]autodoc.SparePart, error)
}

// Kind classifies the outcome of [Navigator.Select].
type Kind int

const (
	KindBranch  Kind = iota // Descended into the node
	KindLeaf                // Node yields parts; fetch them with Parts
	KindDeadEnd             // Node has no children and is not searchable
)

// Selection is the outcome of selecting a node at the current level.
type Selection struct {
	Kind Kind
	Node Node
}

// Navigator walks the category tree of one modification.
// It is not safe for concurrent use.
type Navigator struct {
	client    Client
	brandCode string
	originals []string
	mod       autodoc.Modification
	tree      *Tree
	path      Path
}

// Open fetches the category tree of mod. An empty tree is a valid result;
// check [Navigator.Empty].
//
// Parts made by the brand rank first in listings. The brand is recognised
// by brandCode, by any of brandNames (the name the user resolved, when the
// catalog code differs from it) and by the modification's brand attribute.
func Open(ctx context.Context, client Client, brandCode string, mod autodoc.Modification, brandNames ...string) (*Navigator, error) {
	roots, err := client.CategoryTree(ctx, brandCode, mod.CarID, mod.Token)
	if err != nil {
		return nil, err
	}
	originals := append([]string{brandCode, mod.Attr("brand")}, brandNames...)
	return &Navigator{client: client, brandCode: brandCode, originals: originals, mod: mod, tree: NewTree(roots)}, nil
}

// Tree returns the underlying tree.
func (n *Navigator) Tree() *Tree { return n.tree }

// Empty reports whether the modification has no categories.
func (n *Navigator) Empty() bool { return n.tree.Empty() }

// Path returns a copy of the current path.
func (n *Navigator) Path() Path { return append(Path(nil), n.path...) }

// Level returns the nodes at the current level.
func (n *Navigator) Level() []Node {
	ids, _ := n.tree.level(n.path)
	nodes := make([]Node, len(ids))
	for i, id := range ids {
		nodes[i] = n.tree.nodes[id]
	}
	return nodes
}

// Breadcrumb returns the names along the current path.
func (n *Navigator) Breadcrumb() []string {
	names := make([]string, 0, len(n.path))
	ids := n.tree.roots
	for _, pos := range n.path {
		node := n.tree.nodes[ids[pos]]
		names = append(names, node.Name)
		ids = node.children
	}
	return names
}

// Up moves one level towards the root. It reports false at the root level.
func (n *Navigator) Up() bool {
	if len(n.path) == 0 {
		return false
	}
	n.path = n.path[:len(n.path)-1]
	return true
}

// Select picks the i-th node of the current level. Branches are entered;
// leaves and dead ends leave the path where it is.
func (n *Navigator) Select(i int) (Selection, error) {
	ids, _ := n.tree.level(n.path)
	if i < 0 || i >= len(ids) {
		return Selection{}, perrors.New(perrors.ErrCodeInvalidInput, "category %d out of range (%d available)", i, len(ids))
	}
	node := n.tree.nodes[ids[i]]
	switch {
	case node.HasChildren():
		n.path = append(n.path, i)
		return Selection{Kind: KindBranch, Node: node}, nil
	case node.Searchable:
		return Selection{Kind: KindLeaf, Node: node}, nil
	default:
		return Selection{Kind: KindDeadEnd, Node: node}, nil
	}
}

// Parts fetches and groups the spare parts of a leaf. Calling it on a node
// that is not a leaf fails with NOT_SEARCHABLE.
func (n *Navigator) Parts(ctx context.Context, node Node) (Listing, error) {
	if !node.Leaf() {
		return Listing{}, perrors.New(perrors.ErrCodeNotSearchable, "category %q is not searchable", node.Name)
	}
	parts, err := n.client.GroupParts(ctx, n.brandCode, n.mod.CarID, node.ID, n.mod.Token)
	if err != nil {
		return Listing{}, err
	}
	return Group(parts, n.originals...), nil
}
