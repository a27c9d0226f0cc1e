// File: api/schemas/schemas.go
//
// Shared data-transfer shapes crossing the CLI, pipeline and store
// boundaries. The analytical core packages keep their own richer types;
// these are the wire forms.
package schemas

import "time"

// ReadInput is one breakpoint-supporting read of a cluster.
type ReadInput struct {
	Name string `json:"name"`
	Seq  string `json:"seq"`
}

// ClusterInput is a cluster of reads hypothesized to span one SV
// junction, together with the two candidate breakend flank sequences the
// assembled contigs are evaluated against.
type ClusterInput struct {
	ID    string      `json:"id"`
	Reads []ReadInput `json:"reads"`
	// Ref1 is the flank upstream of the hypothesized junction, Ref2 the
	// flank downstream of it.
	Ref1 string `json:"ref1"`
	Ref2 string `json:"ref2"`
}

// DiscoverInput is the payload of a discovery run.
type DiscoverInput struct {
	Clusters []ClusterInput `json:"clusters"`
}

// EvidencePair is one discordant observation linking two genomic regions,
// consumed by the locus-graph builder.
type EvidencePair struct {
	ChromA int32 `json:"chrom_a"`
	BeginA int32 `json:"begin_a"`
	EndA   int32 `json:"end_a"`
	ChromB int32 `json:"chrom_b"`
	BeginB int32 `json:"begin_b"`
	EndB   int32 `json:"end_b"`
}

// EvidenceInput is the payload of a graph build run.
type EvidenceInput struct {
	Pairs []EvidencePair `json:"pairs"`
}

// BreakpointFinding is one assembled-and-aligned breakpoint candidate.
type BreakpointFinding struct {
	ID           string `json:"id"`
	ClusterID    string `json:"cluster_id"`
	ContigSeq    string `json:"contig_seq"`
	SupportReads int    `json:"support_reads"`
	Score        int    `json:"score"`
	Cigar        string `json:"cigar"`
	AlignStart   int    `json:"align_start"`
	// JumpStart is the combined-frame reference row where the alignment
	// resumes after the ref1→ref2 jump, -1 when the contig never jumps.
	JumpStart  int       `json:"jump_start"`
	ObservedAt time.Time `json:"observed_at"`
}

// ResultEnvelope bundles the findings of one discovery run.
type ResultEnvelope struct {
	RunID       string              `json:"run_id"`
	Findings    []BreakpointFinding `json:"findings"`
	GeneratedAt time.Time           `json:"generated_at"`
}
