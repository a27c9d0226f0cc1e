// File: internal/locusgraph/graph_test.go
package locusgraph

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xkilldash9x/svscout/internal/genome"
)

// edgeMass sums every directed edge count in the graph. Symmetric edges
// count twice.
func edgeMass(g *Graph) int {
	total := 0
	for n := 0; n < g.Len(); n++ {
		for _, e := range g.Node(NodeIndex(n)).Edges {
			total += int(e.Count)
		}
	}
	return total
}

func TestGraphAddAndLink(t *testing.T) {
	g := New(0)

	a := g.AddNode(1, 100, 200)
	b := g.AddNode(1, 500, 600)
	require.Equal(t, 2, g.Len())
	assert.Equal(t, uint16(1), g.Node(a).Count)
	assert.Equal(t, genome.NewInterval(1, 100, 200), g.Node(a).Interval)

	g.LinkNodes(a, b)
	require.NoError(t, g.CheckState())
	assert.Equal(t, uint16(1), g.Node(a).Edges[b].Count)
	assert.Equal(t, uint16(1), g.Node(b).Edges[a].Count)

	g.IncrementEdge(a, b)
	require.NoError(t, g.CheckState())
	assert.Equal(t, uint16(2), g.Node(a).Edges[b].Count)
	assert.Equal(t, uint16(2), g.Node(b).Edges[a].Count)
}

func TestGraphLinkPanics(t *testing.T) {
	t.Run("self link", func(t *testing.T) {
		g := New(0)
		a := g.AddNode(1, 0, 10)
		assert.Panics(t, func() { g.LinkNodes(a, a) })
	})

	t.Run("duplicate link", func(t *testing.T) {
		g := New(0)
		a := g.AddNode(1, 0, 10)
		b := g.AddNode(1, 20, 30)
		g.LinkNodes(a, b)
		assert.Panics(t, func() { g.LinkNodes(a, b) })
		assert.Panics(t, func() { g.LinkNodes(b, a) })
	})

	t.Run("increment on missing edge", func(t *testing.T) {
		g := New(0)
		a := g.AddNode(1, 0, 10)
		b := g.AddNode(1, 20, 30)
		assert.Panics(t, func() { g.IncrementEdge(a, b) })
	})

	t.Run("node index out of range", func(t *testing.T) {
		g := New(0)
		assert.Panics(t, func() { g.Node(0) })
	})
}

func TestGraphExpandNode(t *testing.T) {
	g := New(0)
	a := g.AddNode(2, 100, 200)

	var events []MoveEvent
	g.Observe(ObserverFunc(func(ev MoveEvent) { events = append(events, ev) }))

	g.ExpandNode(a, genome.NewInterval(2, 50, 150))
	assert.Equal(t, genome.NewInterval(2, 50, 200), g.Node(a).Interval)
	assert.Equal(t, uint16(2), g.Node(a).Count)

	// The node keeps its index but announces a delete/add pair.
	require.Len(t, events, 2)
	assert.Equal(t, MoveEvent{IsAdd: false, Locus: 0, Node: a}, events[0])
	assert.Equal(t, MoveEvent{IsAdd: true, Locus: 0, Node: a}, events[1])

	t.Run("cross-chromosome expand panics", func(t *testing.T) {
		assert.Panics(t, func() { g.ExpandNode(a, genome.NewInterval(3, 0, 10)) })
	})
}

func TestGraphMergeNode(t *testing.T) {
	t.Run("redirects edges and conserves counts", func(t *testing.T) {
		g := New(0)
		a := g.AddNode(1, 0, 10)
		b := g.AddNode(1, 100, 110)
		c := g.AddNode(1, 200, 210)
		g.LinkNodes(a, b)
		g.IncrementEdge(a, b)
		g.LinkNodes(b, c)

		// a-b carries 2, b-c carries 1; merging b into c drops the b-c edge
		// and redirects a-b onto a-c.
		g.MergeNode(b, c)

		require.Equal(t, 2, g.Len())
		require.NoError(t, g.CheckState())

		// c shifted down into b's slot.
		newC := b
		assert.Equal(t, uint16(2), g.Node(a).Edges[newC].Count)
		assert.Equal(t, uint16(2), g.Node(newC).Edges[a].Count)
		assert.Equal(t, 4, edgeMass(g))
	})

	t.Run("sums parallel edges", func(t *testing.T) {
		g := New(0)
		a := g.AddNode(1, 0, 10)
		b := g.AddNode(1, 100, 110)
		c := g.AddNode(1, 200, 210)
		g.LinkNodes(a, b)
		g.LinkNodes(a, c)
		g.IncrementEdge(a, c)

		// Both b and c link to a; merging b into c folds a-b into a-c.
		g.MergeNode(b, c)

		require.Equal(t, 2, g.Len())
		require.NoError(t, g.CheckState())
		newC := b
		assert.Equal(t, uint16(3), g.Node(a).Edges[newC].Count)
	})

	t.Run("self merge panics", func(t *testing.T) {
		g := New(0)
		a := g.AddNode(1, 0, 10)
		assert.Panics(t, func() { g.MergeNode(a, a) })
	})
}

func TestGraphEraseNode(t *testing.T) {
	g := New(7)
	a := g.AddNode(1, 0, 10)
	b := g.AddNode(1, 100, 110)
	c := g.AddNode(1, 200, 210)
	g.LinkNodes(a, b)
	g.LinkNodes(b, c)

	var events []MoveEvent
	g.Observe(ObserverFunc(func(ev MoveEvent) { events = append(events, ev) }))

	g.EraseNode(a)

	require.Equal(t, 2, g.Len())
	require.NoError(t, g.CheckState())

	// b and c shifted down by one; the b-c edge must follow them.
	assert.Equal(t, uint16(1), g.Node(0).Edges[1].Count)
	assert.Equal(t, uint16(1), g.Node(1).Edges[0].Count)
	assert.Equal(t, genome.NewInterval(1, 100, 110), g.Node(0).Interval)

	// One delete for the erased node, then an add(new)/delete(old) pair per
	// renumbered node, in ascending order.
	want := []MoveEvent{
		{IsAdd: false, Locus: 7, Node: 0},
		{IsAdd: true, Locus: 7, Node: 0},
		{IsAdd: false, Locus: 7, Node: 1},
		{IsAdd: true, Locus: 7, Node: 1},
		{IsAdd: false, Locus: 7, Node: 2},
	}
	assert.Empty(t, cmp.Diff(want, events))
}

func TestGraphCopyLocus(t *testing.T) {
	source := New(1)
	sa := source.AddNode(1, 0, 10)
	sb := source.AddNode(1, 100, 110)
	source.LinkNodes(sa, sb)
	source.IncrementEdge(sa, sb)

	target := New(0)
	target.AddNode(2, 0, 50)
	target.CopyLocus(source)

	require.Equal(t, 3, target.Len())
	require.NoError(t, target.CheckState())
	require.NoError(t, source.CheckState())

	// Copies are offset past the existing node; topology is preserved.
	assert.Equal(t, uint16(2), target.Node(1).Edges[2].Count)
	assert.Equal(t, uint16(2), target.Node(2).Edges[1].Count)
	assert.Equal(t, source.Node(sa).Interval, target.Node(1).Interval)
	assert.Equal(t, source.Node(sb).Interval, target.Node(2).Interval)

	// The source is untouched.
	assert.Equal(t, 2, source.Len())

	t.Run("copy into itself panics", func(t *testing.T) {
		assert.Panics(t, func() { target.CopyLocus(target) })
	})
}

func TestGraphClear(t *testing.T) {
	g := New(0)
	g.AddNode(1, 0, 10)
	g.AddNode(1, 20, 30)

	var deletes int
	g.Observe(ObserverFunc(func(ev MoveEvent) {
		if !ev.IsAdd {
			deletes++
		}
	}))

	g.Clear()
	assert.True(t, g.Empty())
	assert.Equal(t, 2, deletes)
}

func TestGraphCheckState(t *testing.T) {
	t.Run("detects asymmetric edge", func(t *testing.T) {
		g := New(0)
		a := g.AddNode(1, 0, 10)
		b := g.AddNode(1, 20, 30)
		g.LinkNodes(a, b)

		// Corrupt one side directly.
		delete(g.Node(b).Edges, a)
		assert.Error(t, g.CheckState())
	})

	t.Run("detects count mismatch", func(t *testing.T) {
		g := New(0)
		a := g.AddNode(1, 0, 10)
		b := g.AddNode(1, 20, 30)
		g.LinkNodes(a, b)

		g.Node(b).Edges[a] = Edge{Count: 9}
		assert.Error(t, g.CheckState())
	})

	t.Run("detects self edge", func(t *testing.T) {
		g := New(0)
		a := g.AddNode(1, 0, 10)
		g.Node(a).Edges = map[NodeIndex]Edge{a: {Count: 1}}
		assert.Error(t, g.CheckState())
	})
}
