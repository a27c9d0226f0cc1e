// File: internal/alignment/path.go
package alignment

import (
	"fmt"
	"strings"
)

// SegmentType classifies one stretch of an alignment path.
type SegmentType uint8

const (
	SegNone SegmentType = iota
	// SegMatch consumes one query and one reference base per position;
	// matches and mismatches both land here.
	SegMatch
	// SegInsert consumes query only.
	SegInsert
	// SegDelete consumes reference only.
	SegDelete
	// SegSoftClip is query left unaligned at either end of the path.
	SegSoftClip
	// SegJump marks the one-time ref1→ref2 transition in a jump alignment.
	// It consumes neither query nor reference and always has length 0.
	SegJump
)

// String returns the CIGAR-style operation code.
func (t SegmentType) String() string {
	switch t {
	case SegMatch:
		return "M"
	case SegInsert:
		return "I"
	case SegDelete:
		return "D"
	case SegSoftClip:
		return "S"
	case SegJump:
		return "J"
	default:
		return "?"
	}
}

// Segment is a run of positions sharing one alignment operation.
type Segment struct {
	Type   SegmentType
	Length uint32
}

// Path is an ordered alignment, 5'→3' over the query.
type Path []Segment

// String renders the path CIGAR-style, e.g. "3S12M1D20M".
func (p Path) String() string {
	var b strings.Builder
	for _, seg := range p {
		fmt.Fprintf(&b, "%d%s", seg.Length, seg.Type)
	}
	return b.String()
}

// ReadLength returns the number of query bases the path consumes.
func (p Path) ReadLength() int {
	n := 0
	for _, seg := range p {
		switch seg.Type {
		case SegMatch, SegInsert, SegSoftClip:
			n += int(seg.Length)
		}
	}
	return n
}

// RefLength returns the number of reference bases the path consumes.
func (p Path) RefLength() int {
	n := 0
	for _, seg := range p {
		switch seg.Type {
		case SegMatch, SegDelete:
			n += int(seg.Length)
		}
	}
	return n
}

// HasJump reports whether the path crosses a ref1→ref2 transition.
func (p Path) HasJump() bool {
	for _, seg := range p {
		if seg.Type == SegJump {
			return true
		}
	}
	return false
}

// MatchifyEdgeSoftClips converts leading and trailing soft-clip segments
// to match, coalescing with adjacent match segments. Used when a caller
// wants clipped contig edges treated as (mismatching) aligned sequence.
func MatchifyEdgeSoftClips(p Path) Path {
	out := make(Path, 0, len(p))
	for i, seg := range p {
		edge := i == 0 || i == len(p)-1
		if edge && seg.Type == SegSoftClip {
			seg.Type = SegMatch
		}
		out = appendSegment(out, seg.Type, seg.Length)
	}
	return out
}

// appendSegment grows the path by one run, coalescing consecutive runs of
// the same type. Zero-length runs are kept only for SegJump, which is a
// marker rather than a consuming operation.
func appendSegment(p Path, t SegmentType, length uint32) Path {
	if length == 0 && t != SegJump {
		return p
	}
	if n := len(p); n > 0 && p[n-1].Type == t {
		p[n-1].Length += length
		return p
	}
	return append(p, Segment{Type: t, Length: length})
}

// reversePath flips a backtrace-ordered path into forward order.
func reversePath(p Path) Path {
	for i, j := 0, len(p)-1; i < j; i, j = i+1, j-1 {
		p[i], p[j] = p[j], p[i]
	}
	return p
}
