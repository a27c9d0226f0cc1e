// File: internal/locusgraph/set.go
package locusgraph

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/xkilldash9x/svscout/internal/genome"
)

// setKey addresses one node across the whole set.
type setKey struct {
	locus LocusIndex
	node  NodeIndex
}

// Set owns a collection of locus graphs and keeps a secondary index of
// every node's interval, maintained purely through the graphs' move
// notifications. Emptied loci stay in place so locus indices never shift.
//
// Not safe for concurrent mutation.
type Set struct {
	loci  []*Graph
	index map[setKey]genome.Interval
	log   *zap.Logger
}

// NewSet returns an empty locus set.
func NewSet(logger *zap.Logger) *Set {
	return &Set{
		index: make(map[setKey]genome.Interval),
		log:   logger.Named("locusset"),
	}
}

// OnNodeMove keeps the interval index in sync with the graphs. Implements
// Observer.
func (s *Set) OnNodeMove(ev MoveEvent) {
	key := setKey{locus: ev.Locus, node: ev.Node}
	if !ev.IsAdd {
		delete(s.index, key)
		return
	}
	s.index[key] = s.loci[ev.Locus].Node(ev.Node).Interval
}

// Len returns the number of loci, including emptied ones.
func (s *Set) Len() int { return len(s.loci) }

// Locus returns the graph at the given locus index.
func (s *Set) Locus(i LocusIndex) *Graph {
	if int(i) >= len(s.loci) {
		panic(fmt.Sprintf("locusgraph: locus index %d out of range (size %d)", i, len(s.loci)))
	}
	return s.loci[i]
}

// NodeCount returns the number of live nodes across all loci, as seen by
// the interval index.
func (s *Set) NodeCount() int { return len(s.index) }

// AddLocus appends a fresh locus graph, subscribed to the set's index.
func (s *Set) AddLocus() *Graph {
	g := New(LocusIndex(len(s.loci)))
	g.Observe(s)
	s.loci = append(s.loci, g)
	return g
}

// AddEvidence records one discordant observation linking intervals a and
// b. Nodes intersecting the intervals are reused and expanded; loci
// containing only one endpoint absorb the other; two distinct loci hit by
// the same observation are merged, smaller into larger, via CopyLocus.
func (s *Set) AddEvidence(a, b genome.Interval) {
	locusA, nodeA, okA := s.findIntersecting(a)
	locusB, nodeB, okB := s.findIntersecting(b)

	switch {
	case !okA && !okB:
		g := s.AddLocus()
		na := g.AddNode(a.Chrom, a.Range.Begin, a.Range.End)
		nb := g.AddNode(b.Chrom, b.Range.Begin, b.Range.End)
		g.LinkNodes(na, nb)

	case okA && !okB:
		g := s.loci[locusA]
		g.ExpandNode(nodeA, a)
		nb := g.AddNode(b.Chrom, b.Range.Begin, b.Range.End)
		g.LinkNodes(nodeA, nb)

	case !okA && okB:
		g := s.loci[locusB]
		g.ExpandNode(nodeB, b)
		na := g.AddNode(a.Chrom, a.Range.Begin, a.Range.End)
		g.LinkNodes(na, nodeB)

	case locusA == locusB:
		g := s.loci[locusA]
		if nodeA == nodeB {
			// Both breakends land in one region; nothing to link.
			g.ExpandNode(nodeA, a)
			return
		}
		g.ExpandNode(nodeA, a)
		g.ExpandNode(nodeB, b)
		if _, ok := g.Node(nodeA).Edges[nodeB]; ok {
			g.IncrementEdge(nodeA, nodeB)
		} else {
			g.LinkNodes(nodeA, nodeB)
		}

	default:
		// Two loci joined by one observation: absorb the smaller one.
		if s.loci[locusA].Len() < s.loci[locusB].Len() {
			locusA, locusB = locusB, locusA
			nodeA, nodeB = nodeB, nodeA
			a, b = b, a
		}
		target := s.loci[locusA]
		source := s.loci[locusB]
		offset := NodeIndex(target.Len())

		s.log.Debug("merging loci",
			zap.Uint32("into", uint32(locusA)),
			zap.Uint32("from", uint32(locusB)),
			zap.Int("from_nodes", source.Len()))

		s.absorb(target, source)
		nodeB += offset

		target.ExpandNode(nodeA, a)
		target.ExpandNode(nodeB, b)
		if _, ok := target.Node(nodeA).Edges[nodeB]; ok {
			target.IncrementEdge(nodeA, nodeB)
		} else {
			target.LinkNodes(nodeA, nodeB)
		}
	}
}

// absorb copies source into target and empties source. The source locus
// stays in the set as an empty graph so later locus indices keep meaning.
func (s *Set) absorb(target, source *Graph) {
	// CopyLocus announces the copied nodes under the target's locus index,
	// but the copies' intervals must be read from the target. The observer
	// handles that because notifications carry the target index.
	target.CopyLocus(source)
	source.Clear()
}

// CheckState verifies every locus graph and the interval index against the
// graphs' actual contents.
func (s *Set) CheckState() error {
	for _, g := range s.loci {
		if err := g.CheckState(); err != nil {
			return err
		}
	}
	live := 0
	for li, g := range s.loci {
		for n := 0; n < g.Len(); n++ {
			live++
			key := setKey{locus: LocusIndex(li), node: NodeIndex(n)}
			iv, ok := s.index[key]
			if !ok {
				return fmt.Errorf("locusgraph: node %d:%d missing from interval index", li, n)
			}
			if iv != g.Node(NodeIndex(n)).Interval {
				return fmt.Errorf("locusgraph: node %d:%d has stale interval %s in index", li, n, iv)
			}
		}
	}
	if live != len(s.index) {
		return fmt.Errorf("locusgraph: interval index has %d entries for %d live nodes", len(s.index), live)
	}
	return nil
}

// findIntersecting scans loci in order for the first node whose interval
// intersects iv. Linear scan keeps lookup deterministic; loci are small.
func (s *Set) findIntersecting(iv genome.Interval) (LocusIndex, NodeIndex, bool) {
	for li, g := range s.loci {
		for n := 0; n < g.Len(); n++ {
			if g.Node(NodeIndex(n)).Interval.Intersects(iv) {
				return LocusIndex(li), NodeIndex(n), true
			}
		}
	}
	return 0, 0, false
}
