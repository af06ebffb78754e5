package episodelist

import (
	"tableflip.dev/pods/pkg/drag"
	"tableflip.dev/pods/pkg/episode"
)

// node is one level of the rendered tree: list, item block, item line.
type node struct {
	id     episode.ID
	tagged bool
	parent *node
}

func (n *node) ItemID() (episode.ID, bool) { return n.id, n.tagged }

func (n *node) Parent() drag.Node {
	if n.parent == nil {
		return nil
	}
	return n.parent
}

// HitTest returns the innermost node under terminal row y, or nil outside the
// list. Content lines of a mounted item resolve through their tagged item
// block; margin lines and the space below the last item only reach the
// untagged list node.
func (m *Model) HitTest(y int) drag.Node {
	vp := m.list.Viewport()
	row := y - m.top
	if row < 0 || float64(row) >= vp.ContainerHeight {
		return nil
	}
	list := &node{}
	h := int(vp.ItemHeight)
	virt := int(m.list.Offset()) + row
	idx, line := virt/h, virt%h
	if !m.list.Window().Contains(idx) {
		return list
	}
	item, ok := m.list.Item(idx)
	if !ok {
		return list
	}
	// The last line of every block is the inter-item margin.
	if line == h-1 {
		return &node{parent: list}
	}
	block := &node{id: item.ID, tagged: true, parent: list}
	return &node{parent: block}
}

func taggedID(n drag.Node) (episode.ID, bool) {
	for hops := 0; n != nil && hops <= drag.MaxAncestorHops; hops++ {
		if id, ok := n.ItemID(); ok {
			return id, true
		}
		n = n.Parent()
	}
	return 0, false
}
