package valuation

import (
	"sort"

	"github.com/alexanderramin/holdings/internal/domain"
)

// Node is a category positioned in the flattened tree.
type Node struct {
	Category domain.Category
	Depth    int
	// ParentID is the effective parent used for aggregation: "" for roots,
	// for orphans whose parent no longer exists, and for the node where a
	// parent cycle was broken.
	ParentID string
}

// Tree is an arena of categories with a children adjacency built once.
// Nodes are kept in pre-order, siblings sorted by Order.
type Tree struct {
	nodes      []Node
	index      map[string]int
	children   map[string][]string
	depthOrder []int
}

// NewTree flattens categories into a depth-annotated pre-order sequence.
// Parent cycles are not expected, but a visited set keeps traversal finite
// if one slips through: the first cycle member encountered becomes a root.
func NewTree(categories []domain.Category) *Tree {
	byID := make(map[string]domain.Category, len(categories))
	for _, c := range categories {
		byID[c.ID] = c
	}

	rawChildren := make(map[string][]domain.Category)
	var roots []domain.Category
	for _, c := range categories {
		parent := c.ParentKey()
		if _, ok := byID[parent]; !ok || parent == "" {
			roots = append(roots, c)
			continue
		}
		rawChildren[parent] = append(rawChildren[parent], c)
	}
	sortSiblings(roots)
	for _, kids := range rawChildren {
		sortSiblings(kids)
	}

	t := &Tree{
		index:    make(map[string]int, len(categories)),
		children: make(map[string][]string),
	}
	visited := make(map[string]bool, len(categories))

	var walk func(c domain.Category, parent string, depth int)
	walk = func(c domain.Category, parent string, depth int) {
		if visited[c.ID] {
			return
		}
		visited[c.ID] = true
		t.index[c.ID] = len(t.nodes)
		t.nodes = append(t.nodes, Node{Category: c, Depth: depth, ParentID: parent})
		if parent != "" {
			t.children[parent] = append(t.children[parent], c.ID)
		}
		for _, child := range rawChildren[c.ID] {
			walk(child, c.ID, depth+1)
		}
	}

	for _, r := range roots {
		walk(r, "", 0)
	}
	// Anything left unvisited sits on a parent cycle.
	for _, c := range categories {
		if !visited[c.ID] {
			walk(c, "", 0)
		}
	}

	t.depthOrder = make([]int, len(t.nodes))
	for i := range t.nodes {
		t.depthOrder[i] = i
	}
	sort.SliceStable(t.depthOrder, func(i, j int) bool {
		return t.nodes[t.depthOrder[i]].Depth > t.nodes[t.depthOrder[j]].Depth
	})

	return t
}

func sortSiblings(cs []domain.Category) {
	sort.SliceStable(cs, func(i, j int) bool { return cs[i].Order < cs[j].Order })
}

// Nodes returns every node in pre-order.
func (t *Tree) Nodes() []Node { return t.nodes }

// Len returns the number of nodes.
func (t *Tree) Len() int { return len(t.nodes) }

// Node looks up a node by category id.
func (t *Tree) Node(id string) (Node, bool) {
	i, ok := t.index[id]
	if !ok {
		return Node{}, false
	}
	return t.nodes[i], true
}

// Children returns the direct children of id in sibling order.
func (t *Tree) Children(id string) []string { return t.children[id] }

// Roots returns the ids of all root nodes in sibling order.
func (t *Tree) Roots() []string {
	var roots []string
	for _, n := range t.nodes {
		if n.ParentID == "" {
			roots = append(roots, n.Category.ID)
		}
	}
	return roots
}

// Descendants returns every descendant of id in pre-order, excluding id.
func (t *Tree) Descendants(id string) []string {
	var out []string
	var walk func(string)
	walk = func(cur string) {
		for _, child := range t.children[cur] {
			out = append(out, child)
			walk(child)
		}
	}
	walk(id)
	return out
}

// deepestFirst returns node positions ordered by depth, deepest first.
// Siblings keep their pre-order relative position.
func (t *Tree) deepestFirst() []int { return t.depthOrder }

// foldsInto reports whether the node's totals are added into its parent's.
// A liability below a non-liability parent stays out of the parent's asset
// figures; its magnitude is carried separately as liability value.
func (t *Tree) foldsInto(n Node) bool {
	if n.ParentID == "" {
		return false
	}
	parent, _ := t.Node(n.ParentID)
	return !n.Category.IsLiability || parent.Category.IsLiability
}

// Consolidated returns the ids under id whose figures fold into id,
// excluding id itself, in pre-order.
func (t *Tree) Consolidated(id string) []string {
	var out []string
	var walk func(string)
	walk = func(cur string) {
		for _, child := range t.children[cur] {
			n, _ := t.Node(child)
			if !t.foldsInto(n) {
				continue
			}
			out = append(out, child)
			walk(child)
		}
	}
	walk(id)
	return out
}
