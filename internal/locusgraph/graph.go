// File: internal/locusgraph/graph.go
//
// A locus graph clusters genomic regions connected by discordant-read
// evidence. Nodes live in dense index-addressed storage: node identity is
// its position, and erasing an interior node renumbers every node after it.
// Every structural change that alters the meaning of a NodeIndex is
// announced on the observer channel so external per-node indexes stay
// valid.
//
// Precondition violations (duplicate links, out-of-range indices, merging
// a node into itself) are programmer errors and panic. This is a trusted
// internal API: a broken precondition upstream would corrupt every result
// downstream, so it is never recovered locally.
package locusgraph

import (
	"fmt"
	"math"

	"github.com/xkilldash9x/svscout/internal/genome"
)

// maxNodeIndex bounds the dense storage; running past it is fatal.
const maxNodeIndex = math.MaxUint32

// Graph is a single SV locus: a set of genomic regions hypothesized to
// contain the breakends of one or more structural variants, linked by
// weighted evidence edges. A Graph exclusively owns its nodes.
//
// Not safe for concurrent mutation.
type Graph struct {
	nodes     []Node
	index     LocusIndex
	observers []Observer
}

// New returns an empty locus graph carrying the given locus index.
func New(index LocusIndex) *Graph {
	return &Graph{index: index}
}

// Observe registers an observer for node add/delete notifications.
func (g *Graph) Observe(o Observer) {
	g.observers = append(g.observers, o)
}

// Index returns the locus index of this graph.
func (g *Graph) Index() LocusIndex { return g.index }

// SetIndex reassigns the locus index, e.g. after loci are compacted in an
// enclosing set.
func (g *Graph) SetIndex(index LocusIndex) { g.index = index }

// Len returns the number of nodes.
func (g *Graph) Len() int { return len(g.nodes) }

// Empty reports whether the graph has no nodes.
func (g *Graph) Empty() bool { return len(g.nodes) == 0 }

// Node returns the node stored at i. The pointer is only valid until the
// next structural mutation.
func (g *Graph) Node(i NodeIndex) *Node {
	g.mustContain(i)
	return &g.nodes[i]
}

// AddNode appends a node with a single evidence observation covering
// [begin, end) on chromosome chrom and returns its index.
func (g *Graph) AddNode(chrom int32, begin, end genome.Pos) NodeIndex {
	i := g.newNode()
	node := &g.nodes[i]
	node.Interval = genome.NewInterval(chrom, begin, end)
	node.Count = 1
	g.notifyAdd(i)
	return i
}

// LinkNodes creates a symmetric edge of weight 1 between two existing
// nodes. No edge may already exist between them in either direction;
// callers that can see duplicate evidence must check first and use
// IncrementEdge instead.
func (g *Graph) LinkNodes(a, b NodeIndex) {
	if a == b {
		panic(fmt.Sprintf("locusgraph: self link on node %d", a))
	}
	nodeA := g.Node(a)
	nodeB := g.Node(b)
	if _, ok := nodeA.Edges[b]; ok {
		panic(fmt.Sprintf("locusgraph: duplicate link %d->%d", a, b))
	}
	if _, ok := nodeB.Edges[a]; ok {
		panic(fmt.Sprintf("locusgraph: duplicate link %d->%d", b, a))
	}
	if nodeA.Edges == nil {
		nodeA.Edges = make(map[NodeIndex]Edge)
	}
	if nodeB.Edges == nil {
		nodeB.Edges = make(map[NodeIndex]Edge)
	}
	nodeA.Edges[b] = Edge{Count: 1}
	nodeB.Edges[a] = Edge{Count: 1}
}

// IncrementEdge adds one evidence observation to the existing edge between
// a and b, updating both sides. The edge must exist.
func (g *Graph) IncrementEdge(a, b NodeIndex) {
	nodeA := g.Node(a)
	nodeB := g.Node(b)
	edgeAB, ok := nodeA.Edges[b]
	if !ok {
		panic(fmt.Sprintf("locusgraph: increment on missing edge %d->%d", a, b))
	}
	edgeBA, ok := nodeB.Edges[a]
	if !ok {
		panic(fmt.Sprintf("locusgraph: increment on missing edge %d->%d", b, a))
	}
	edgeAB.Count++
	edgeBA.Count++
	nodeA.Edges[b] = edgeAB
	nodeB.Edges[a] = edgeBA
}

// ExpandNode grows a node's interval to the union with iv and records one
// more evidence observation. The intervals must share a chromosome. The
// node keeps its index but observers receive a delete/add pair so interval
// keyed indexes can refresh.
func (g *Graph) ExpandNode(i NodeIndex, iv genome.Interval) {
	node := g.Node(i)
	if node.Interval.Chrom != iv.Chrom {
		panic(fmt.Sprintf("locusgraph: expand across chromosomes %d vs %d", node.Interval.Chrom, iv.Chrom))
	}
	g.notifyDelete(i)
	if iv.Range.Begin < node.Interval.Range.Begin {
		node.Interval.Range.Begin = iv.Range.Begin
	}
	if iv.Range.End > node.Interval.Range.End {
		node.Interval.Range.End = iv.Range.End
	}
	node.Count++
	g.notifyAdd(i)
}

// MergeNode fuses the from node into the to node. Every edge leaving from
// is redirected to originate at to: an edge straight to to is dropped
// rather than becoming a self-loop, and an edge whose neighbor already
// links to to has its counts summed. Neighbor reverse edges are rewritten
// symmetrically. The from node is then erased. to's own evidence count is
// untouched; aggregating node counts is the caller's business.
func (g *Graph) MergeNode(from, to NodeIndex) {
	if from == to {
		panic(fmt.Sprintf("locusgraph: merge of node %d into itself", from))
	}
	fromNode := g.Node(from)
	toNode := g.Node(to)

	for neighbor, edge := range fromNode.Edges {
		if neighbor == to {
			// No self-loop: drop the edge and its reverse entirely.
			delete(toNode.Edges, from)
			continue
		}

		// Rewrite the neighbor's reverse edge from->neighbor as to->neighbor.
		neighborNode := g.Node(neighbor)
		reverse := neighborNode.Edges[from]
		delete(neighborNode.Edges, from)
		if existing, ok := neighborNode.Edges[to]; ok {
			existing.Merge(reverse)
			neighborNode.Edges[to] = existing
		} else {
			neighborNode.Edges[to] = reverse
		}

		// Land the forward edge on to, summing with any existing edge.
		if toNode.Edges == nil {
			toNode.Edges = make(map[NodeIndex]Edge)
		}
		if existing, ok := toNode.Edges[neighbor]; ok {
			existing.Merge(edge)
			toNode.Edges[neighbor] = existing
		} else {
			toNode.Edges[neighbor] = edge
		}
	}

	fromNode.Edges = nil
	g.EraseNode(from)
}

// EraseNode removes the node at i, detaching any remaining incident edges
// first. Storage is dense, so every node past i shifts down by one: each
// neighbor edge map referencing a shifted index is rewritten, and the
// notification stream carries one delete for the erased node plus an
// add(new)/delete(old) pair per renumbered node.
func (g *Graph) EraseNode(i NodeIndex) {
	g.mustContain(i)
	g.ClearNodeEdges(i)
	g.notifyDelete(i)
	g.nodes = append(g.nodes[:i], g.nodes[i+1:]...)

	for n := range g.nodes {
		node := &g.nodes[n]
		shifted := false
		for neighbor := range node.Edges {
			if neighbor > i {
				shifted = true
				break
			}
		}
		if !shifted {
			continue
		}
		remapped := make(map[NodeIndex]Edge, len(node.Edges))
		for neighbor, edge := range node.Edges {
			if neighbor > i {
				neighbor--
			}
			remapped[neighbor] = edge
		}
		node.Edges = remapped
	}

	for n := int(i); n < len(g.nodes); n++ {
		g.notifyAdd(NodeIndex(n))
		g.notifyDelete(NodeIndex(n) + 1)
	}
}

// ClearNodeEdges detaches all edges incident to node i, in both
// directions, without removing the node.
func (g *Graph) ClearNodeEdges(i NodeIndex) {
	node := g.Node(i)
	for neighbor := range node.Edges {
		delete(g.Node(neighbor).Edges, i)
	}
	node.Edges = nil
}

// CopyLocus deep-copies every node of other into this graph, offsetting
// every copied edge target by this graph's size before the copy so the
// copied topology stays internally consistent. An intermediate step of a
// locus merge; other must be a different graph instance.
func (g *Graph) CopyLocus(other *Graph) {
	if other == g {
		panic("locusgraph: copy of a locus into itself")
	}
	offset := NodeIndex(len(g.nodes))
	for n := range other.nodes {
		i := g.newNode()
		g.nodes[i].copyFrom(&other.nodes[n], offset)
		g.notifyAdd(i)
	}
}

// Clear removes all nodes, announcing a delete per node.
func (g *Graph) Clear() {
	for i := range g.nodes {
		g.notifyDelete(NodeIndex(i))
	}
	g.nodes = nil
}

// CheckState verifies the symmetric-edge invariant over the whole graph:
// every edge target exists, is not a self reference, and carries a
// matching reverse edge with an equal count. It reports violations, it
// does not repair them.
func (g *Graph) CheckState() error {
	for n := range g.nodes {
		for neighbor, edge := range g.nodes[n].Edges {
			if int(neighbor) >= len(g.nodes) {
				return fmt.Errorf("locus %d: edge %d->%d targets a missing node (size %d)", g.index, n, neighbor, len(g.nodes))
			}
			if neighbor == NodeIndex(n) {
				return fmt.Errorf("locus %d: self edge on node %d", g.index, n)
			}
			reverse, ok := g.nodes[neighbor].Edges[NodeIndex(n)]
			if !ok {
				return fmt.Errorf("locus %d: asymmetric edge %d->%d", g.index, n, neighbor)
			}
			if reverse.Count != edge.Count {
				return fmt.Errorf("locus %d: edge %d->%d count %d disagrees with reverse count %d",
					g.index, n, neighbor, edge.Count, reverse.Count)
			}
		}
	}
	return nil
}

func (g *Graph) newNode() NodeIndex {
	if len(g.nodes) >= maxNodeIndex {
		panic("locusgraph: node index space exhausted")
	}
	g.nodes = append(g.nodes, Node{})
	return NodeIndex(len(g.nodes) - 1)
}

func (g *Graph) mustContain(i NodeIndex) {
	if int(i) >= len(g.nodes) {
		panic(fmt.Sprintf("locusgraph: node index %d out of range (size %d)", i, len(g.nodes)))
	}
}

func (g *Graph) notifyAdd(i NodeIndex) {
	g.notify(MoveEvent{IsAdd: true, Locus: g.index, Node: i})
}

func (g *Graph) notifyDelete(i NodeIndex) {
	g.notify(MoveEvent{IsAdd: false, Locus: g.index, Node: i})
}

func (g *Graph) notify(ev MoveEvent) {
	for _, o := range g.observers {
		o.OnNodeMove(ev)
	}
}
