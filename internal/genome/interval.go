// File: internal/genome/interval.go
package genome

import "fmt"

// Pos is a 0-based coordinate on a chromosome.
type Pos = int32

// Range is a half-open interval [Begin, End) on a single chromosome.
type Range struct {
	Begin Pos `json:"begin"`
	End   Pos `json:"end"`
}

// Intersects reports whether the two half-open ranges overlap.
func (r Range) Intersects(other Range) bool {
	return r.Begin < other.End && other.Begin < r.End
}

// Length returns the span of the range. A degenerate range has length 0.
func (r Range) Length() Pos {
	if r.End < r.Begin {
		return 0
	}
	return r.End - r.Begin
}

// Less orders ranges by begin position, then end position.
func (r Range) Less(other Range) bool {
	if r.Begin != other.Begin {
		return r.Begin < other.Begin
	}
	return r.End < other.End
}

// Interval locates a region of the genome. All internal locations use a
// numeric chromosome index rather than a chromosome name; translating
// names to indices is the responsibility of the surrounding pipeline.
type Interval struct {
	Chrom int32 `json:"chrom"`
	Range Range `json:"range"`
}

// NewInterval builds an interval on chromosome index chrom covering
// [begin, end).
func NewInterval(chrom int32, begin, end Pos) Interval {
	return Interval{Chrom: chrom, Range: Range{Begin: begin, End: end}}
}

// Intersects reports whether the two intervals share a chromosome and
// their ranges overlap.
func (i Interval) Intersects(other Interval) bool {
	if i.Chrom != other.Chrom {
		return false
	}
	return i.Range.Intersects(other.Range)
}

// Less orders intervals by chromosome index, then by range.
func (i Interval) Less(other Interval) bool {
	if i.Chrom != other.Chrom {
		return i.Chrom < other.Chrom
	}
	return i.Range.Less(other.Range)
}

func (i Interval) String() string {
	return fmt.Sprintf("%d:[%d,%d)", i.Chrom, i.Range.Begin, i.Range.End)
}
