// File: internal/locusgraph/node.go
package locusgraph

import (
	"fmt"
	"sort"
	"strings"

	"github.com/xkilldash9x/svscout/internal/genome"
)

// NodeIndex addresses a node inside a single locus graph. Node identity is
// its position in the graph's dense storage, so indices are only stable
// until the next erase.
type NodeIndex uint32

// LocusIndex identifies a locus graph within a set of loci.
type LocusIndex uint32

// Edge carries the discordant-read evidence weight linking two nodes. The
// same edge value is stored in both endpoints' edge maps; direction carries
// no meaning.
type Edge struct {
	Count uint16 `json:"count"`
}

// Merge folds another edge's evidence into this one.
func (e *Edge) Merge(other Edge) {
	e.Count += other.Count
}

// Node is one genomic region of a locus, together with the evidence count
// backing it and the weighted links to its neighbor nodes.
//
// Invariant: for every edge (A→B) an edge (B→A) exists. The invariant is
// not enforced by every low-level mutation (raw merges during a cross-locus
// copy break it transiently), so Graph.CheckState exists as the dedicated
// consistency check.
type Node struct {
	Count    uint16             `json:"count"`
	Interval genome.Interval    `json:"interval"`
	Edges    map[NodeIndex]Edge `json:"edges"`
}

// copyFrom deep-copies src into n, shifting every edge target by offset.
// Used when one locus absorbs another and the absorbed node addresses must
// land past the existing nodes.
func (n *Node) copyFrom(src *Node, offset NodeIndex) {
	n.Count = src.Count
	n.Interval = src.Interval
	n.Edges = make(map[NodeIndex]Edge, len(src.Edges))
	for neighbor, edge := range src.Edges {
		n.Edges[neighbor+offset] = edge
	}
}

func (n *Node) String() string {
	neighbors := make([]NodeIndex, 0, len(n.Edges))
	for neighbor := range n.Edges {
		neighbors = append(neighbors, neighbor)
	}
	sort.Slice(neighbors, func(i, j int) bool { return neighbors[i] < neighbors[j] })

	var b strings.Builder
	fmt.Fprintf(&b, "node{count=%d interval=%s edges=[", n.Count, n.Interval)
	for i, neighbor := range neighbors {
		if i > 0 {
			b.WriteByte(' ')
		}
		fmt.Fprintf(&b, "%d:%d", neighbor, n.Edges[neighbor].Count)
	}
	b.WriteString("]}")
	return b.String()
}
