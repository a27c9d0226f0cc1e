// File: internal/alignment/jump_test.go
package alignment

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testScores() Scores[int] {
	return Scores[int]{Match: 2, Mismatch: -4, Open: -5, Extend: -1, Jump: -1}
}

func TestAlignWithinRef1(t *testing.T) {
	a := NewJumpAligner(testScores())

	res := a.Align("ACGT", "TTACGTTT", "GGGG")

	assert.Equal(t, 8, res.Score)
	assert.Equal(t, "4M", res.Path.String())
	assert.Equal(t, 2, res.AlignStart)
	assert.Equal(t, -1, res.JumpStart)
	assert.False(t, res.Path.HasJump())
}

func TestAlignWithinRef2(t *testing.T) {
	a := NewJumpAligner(testScores())

	// The query only matches ref2; the alignment starts fresh there with
	// no jump in the path.
	res := a.Align("ACGT", "CCCC", "ACGT")

	assert.Equal(t, 8, res.Score)
	assert.Equal(t, "4M", res.Path.String())
	assert.Equal(t, 4, res.AlignStart, "start is in the combined ref1+ref2 frame")
	assert.Equal(t, -1, res.JumpStart)
}

func TestAlignAcrossJump(t *testing.T) {
	a := NewJumpAligner(testScores())

	res := a.Align("AATT", "AAAA", "TTTT")

	// Four matches minus the jump penalty.
	assert.Equal(t, 7, res.Score)
	assert.Equal(t, "2M0J2M", res.Path.String())
	assert.Equal(t, 4, res.JumpStart, "alignment resumes at the first ref2 row")
	assert.True(t, res.Path.HasJump())
}

func TestAlignFullSpanWithOverhang(t *testing.T) {
	a := NewJumpAligner(testScores())

	// The query covers both references completely and then runs off the
	// end; the overhang is soft-clipped.
	res := a.Align("AACCGGTTAAA", "AACC", "GGTT")

	assert.Equal(t, 8*2-1+3*(-4), res.Score)
	assert.Equal(t, "4M0J4M3S", res.Path.String())
	assert.Equal(t, 0, res.AlignStart)
	assert.Equal(t, 4, res.JumpStart)
}

func TestAlignMismatchTolerance(t *testing.T) {
	a := NewJumpAligner(testScores())

	// One interior mismatch still beats clipping the flank.
	res := a.Align("ACGTACGT", "ACGTACTT", "GGGGGGGG")

	assert.Equal(t, 7*2-4, res.Score)
	assert.Equal(t, "8M", res.Path.String())
	assert.Equal(t, 0, res.AlignStart)
	assert.Equal(t, -1, res.JumpStart)
}

func TestAlignConsumesWholeQuery(t *testing.T) {
	a := NewJumpAligner(testScores())

	for _, tc := range []struct {
		name              string
		query, ref1, ref2 string
	}{
		{"clean jump", "AATT", "AAAA", "TTTT"},
		{"overhang", "AACCGGTTAAA", "AACC", "GGTT"},
		{"unrelated", "TGCATGCA", "AAAA", "CCCC"},
	} {
		t.Run(tc.name, func(t *testing.T) {
			res := a.Align(tc.query, tc.ref1, tc.ref2)
			assert.Equal(t, len(tc.query), res.Path.ReadLength(),
				"every query base must be consumed by match, insert or clip")
		})
	}
}

func TestAlignerReuse(t *testing.T) {
	a := NewJumpAligner(testScores())

	// A big alignment first, then a small one: the reused scratch must not
	// leak state between calls.
	first := a.Align("AACCGGTTAAA", "AACC", "GGTT")
	require.Equal(t, "4M0J4M3S", first.Path.String())

	second := a.Align("ACGT", "TTACGTTT", "GGGG")
	assert.Equal(t, 8, second.Score)
	assert.Equal(t, "4M", second.Path.String())

	third := a.Align("AATT", "AAAA", "TTTT")
	assert.Equal(t, 7, third.Score)
	assert.Equal(t, "2M0J2M", third.Path.String())
}

func TestAlignEmptyInputPanics(t *testing.T) {
	a := NewJumpAligner(testScores())

	assert.Panics(t, func() { a.Align("", "ACGT", "ACGT") })
	assert.Panics(t, func() { a.Align("ACGT", "", "ACGT") })
	assert.Panics(t, func() { a.Align("ACGT", "ACGT", "") })
}

func TestAlignFloatScores(t *testing.T) {
	a := NewJumpAligner(Scores[float32]{Match: 1.5, Mismatch: -4, Open: -5, Extend: -1, Jump: -1.25})

	res := a.Align("AATT", "AAAA", "TTTT")
	assert.InDelta(t, 4*1.5-1.25, float64(res.Score), 1e-6)
	assert.Equal(t, "2M0J2M", res.Path.String())
}
