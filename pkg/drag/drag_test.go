package drag

import (
	"testing"

	"tableflip.dev/pods/pkg/episode"
)

type fakeNode struct {
	id     episode.ID
	tagged bool
	parent *fakeNode
}

func (n *fakeNode) ItemID() (episode.ID, bool) { return n.id, n.tagged }

func (n *fakeNode) Parent() Node {
	if n.parent == nil {
		return nil
	}
	return n.parent
}

func itemNode(id episode.ID) *fakeNode {
	list := &fakeNode{}
	item := &fakeNode{id: id, tagged: true, parent: list}
	title := &fakeNode{parent: item}
	return &fakeNode{parent: title}
}

func chain(depth int, top *fakeNode) *fakeNode {
	n := top
	for i := 0; i < depth; i++ {
		n = &fakeNode{parent: n}
	}
	return n
}

func episodes(ids ...episode.ID) []episode.Episode {
	out := make([]episode.Episode, len(ids))
	for i, id := range ids {
		out[i] = episode.Episode{ID: id}
	}
	return out
}

var container = Container{Top: 100, Bottom: 700, ScrollTop: 0, Measurable: true}

func TestDropOnMountedItem(t *testing.T) {
	c := New(DefaultAutoScroll)
	items := episodes(1, 2, 3, 4, 5)
	c.Start(1)

	res := c.Drop(DropEvent{Target: itemNode(4)}, container, items, 138)
	if res.Via != Mounted || res.From != 0 || res.To != 3 || !res.Reorder {
		t.Fatalf("unexpected resolution %+v", res)
	}
	if _, ok := c.Dragging(); ok {
		t.Fatalf("drag state must be cleared after drop")
	}
}

func TestDropOnSelfIsNoop(t *testing.T) {
	c := New(DefaultAutoScroll)
	items := episodes(1, 2, 3, 4, 5)
	c.Start(3)

	res := c.Drop(DropEvent{Target: itemNode(3), ClientY: 650}, container, items, 138)
	if res.Reorder {
		t.Fatalf("dropping an item on itself must not reorder: %+v", res)
	}
	if res.Via != Unresolved {
		t.Fatalf("tagged self drop must not fall back to virtual index: %+v", res)
	}
}

func TestDropSameIndexViaVirtualIsNoop(t *testing.T) {
	c := New(DefaultAutoScroll)
	items := episodes(1, 2, 3, 4, 5)
	c.Start(3)

	// Pointer over the third slot of a spacer region.
	res := c.Drop(DropEvent{Target: &fakeNode{}, ClientY: 100 + 2*138 + 10}, container, items, 138)
	if res.Via != Virtual || res.To != 2 || res.From != 2 {
		t.Fatalf("unexpected resolution %+v", res)
	}
	if res.Reorder {
		t.Fatalf("same index must be a no-op")
	}
}

func TestDropInSpacerUsesVirtualIndex(t *testing.T) {
	c := New(DefaultAutoScroll)
	items := episodes(10, 20, 30, 40, 50, 60, 70, 80, 90, 100)
	c.Start(10)

	ct := container
	ct.ScrollTop = 138 * 6
	res := c.Drop(DropEvent{Target: &fakeNode{}, ClientY: 150}, ct, items, 138)
	// relative = (150-100) + 828 = 878 -> floor(878/138) = 6
	if res.Via != Virtual || res.To != 6 || !res.Reorder {
		t.Fatalf("unexpected resolution %+v", res)
	}
}

func TestVirtualIndexClampsToBounds(t *testing.T) {
	items := episodes(1, 2, 3, 4, 5)

	c := New(DefaultAutoScroll)
	c.Start(3)
	res := c.Drop(DropEvent{ClientY: 20}, container, items, 138)
	if res.To != 0 || res.Via != Virtual {
		t.Fatalf("drop above container should clamp to 0: %+v", res)
	}

	c.Start(3)
	res = c.Drop(DropEvent{ClientY: 100_000}, container, items, 138)
	if res.To != 4 || res.Via != Virtual {
		t.Fatalf("drop below content should clamp to len-1: %+v", res)
	}
}

func TestAncestorWalkIsBounded(t *testing.T) {
	items := episodes(1, 2, 3)
	tagged := &fakeNode{id: 3, tagged: true}

	c := New(DefaultAutoScroll)
	c.Start(1)
	res := c.Drop(DropEvent{Target: chain(MaxAncestorHops, tagged)}, container, items, 138)
	if res.Via != Mounted || res.To != 2 {
		t.Fatalf("tag within %d hops should resolve: %+v", MaxAncestorHops, res)
	}

	c.Start(1)
	res = c.Drop(DropEvent{Target: chain(MaxAncestorHops+1, tagged), ClientY: 100}, container, items, 138)
	if res.Via != Virtual {
		t.Fatalf("tag beyond the hop bound must be ignored: %+v", res)
	}
}

func TestUnmeasurableContainerIsNoop(t *testing.T) {
	c := New(DefaultAutoScroll)
	c.Start(1)
	res := c.Drop(DropEvent{Target: &fakeNode{}, ClientY: 400}, Container{}, episodes(1, 2, 3), 138)
	if res.Via != Unresolved || res.Reorder {
		t.Fatalf("unmeasurable container must not resolve: %+v", res)
	}
}

func TestDropReadsPayloadWithoutStart(t *testing.T) {
	c := New(DefaultAutoScroll)
	res := c.Drop(DropEvent{Target: itemNode(1), Payload: PayloadFor(5)}, container, episodes(1, 2, 3, 4, 5), 138)
	if res.Dragged != 5 || res.From != 4 || res.To != 0 || !res.Reorder {
		t.Fatalf("payload drag should resolve: %+v", res)
	}

	res = c.Drop(DropEvent{Target: itemNode(1)}, container, episodes(1, 2), 138)
	if res.Via != Unresolved || res.Reorder {
		t.Fatalf("drop without drag state or payload must be a no-op: %+v", res)
	}
}

func TestStartReplacesStaleDrag(t *testing.T) {
	c := New(DefaultAutoScroll)
	c.Start(1)
	c.Start(2)
	id, ok := c.Dragging()
	if !ok || id != 2 {
		t.Fatalf("dragging = %v, %v; want 2", id, ok)
	}
}

func TestOverAutoScroll(t *testing.T) {
	c := New(DefaultAutoScroll)
	ct := Container{Top: 100, Bottom: 700, ScrollTop: 300, Measurable: true}

	if d := c.Over(120, ct); d != -20 {
		t.Fatalf("near top delta = %v, want -20", d)
	}
	if d := c.Over(680, ct); d != 20 {
		t.Fatalf("near bottom delta = %v, want 20", d)
	}
	if d := c.Over(400, ct); d != 0 {
		t.Fatalf("middle delta = %v, want 0", d)
	}
	ct.ScrollTop = 5
	if d := c.Over(110, ct); d != -5 {
		t.Fatalf("scrolling up must stop at 0, got delta %v", d)
	}
}

func TestZeroValueCoordinatorUsesDefaults(t *testing.T) {
	var c Coordinator
	if d := c.Over(650, Container{Top: 0, Bottom: 690, Measurable: true}); d != 20 {
		t.Fatalf("zero value coordinator delta = %v, want 20", d)
	}
}
