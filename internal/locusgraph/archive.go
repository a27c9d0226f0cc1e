// File: internal/locusgraph/archive.go
package locusgraph

import (
	"fmt"

	jsoniter "github.com/json-iterator/go"

	"github.com/xkilldash9x/svscout/internal/genome"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// nodeArchive is the on-disk shape of a node: its evidence count, its
// interval and its edge map keyed by neighbor index.
type nodeArchive struct {
	Count    uint16               `json:"count"`
	Interval genome.Interval      `json:"interval"`
	Edges    map[NodeIndex]uint16 `json:"edges,omitempty"`
}

// graphArchive is the on-disk shape of a whole locus.
type graphArchive struct {
	Index LocusIndex    `json:"locus_index"`
	Nodes []nodeArchive `json:"nodes"`
}

// MarshalArchive serializes the graph: its locus index plus, per node, the
// interval and edge map. The archive preserves node order, so indices mean
// the same thing on load.
func (g *Graph) MarshalArchive() ([]byte, error) {
	ar := graphArchive{Index: g.index, Nodes: make([]nodeArchive, len(g.nodes))}
	for i := range g.nodes {
		node := &g.nodes[i]
		na := nodeArchive{Count: node.Count, Interval: node.Interval}
		if len(node.Edges) > 0 {
			na.Edges = make(map[NodeIndex]uint16, len(node.Edges))
			for neighbor, edge := range node.Edges {
				na.Edges[neighbor] = edge.Count
			}
		}
		ar.Nodes[i] = na
	}
	return json.Marshal(ar)
}

// LoadArchive replaces the graph contents with the archived state. The
// receiver is fully cleared first, so loading into a non-empty graph
// cannot leak stale nodes, and every loaded node is announced to
// observers. The loaded state is checked for edge symmetry before the
// method returns.
func (g *Graph) LoadArchive(data []byte) error {
	var ar graphArchive
	if err := json.Unmarshal(data, &ar); err != nil {
		return fmt.Errorf("locusgraph: decoding archive: %w", err)
	}

	g.Clear()
	g.index = ar.Index
	for _, na := range ar.Nodes {
		i := g.newNode()
		node := &g.nodes[i]
		node.Count = na.Count
		node.Interval = na.Interval
		if len(na.Edges) > 0 {
			node.Edges = make(map[NodeIndex]Edge, len(na.Edges))
			for neighbor, count := range na.Edges {
				node.Edges[neighbor] = Edge{Count: count}
			}
		}
		g.notifyAdd(i)
	}

	if err := g.CheckState(); err != nil {
		return fmt.Errorf("locusgraph: archive is inconsistent: %w", err)
	}
	return nil
}
