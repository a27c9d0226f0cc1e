// File: internal/alignment/jump.go
//
// The jump aligner globally aligns a query against two disjoint reference
// segments, allowing at most one transition ("jump") from inside ref1 to
// inside ref2 at a fixed score instead of per-base reference movement.
// This models a read spanning a structural-variant breakpoint: one flank
// of the read aligns to ref1, the rest to ref2.
package alignment

import "fmt"

// Score constrains the numeric types the aligner can score with.
type Score interface {
	~int | ~int32 | ~int64 | ~float32 | ~float64
}

// Scores configures the alignment automaton. Match is a reward; Mismatch,
// Open, Extend and Jump are penalties and should be negative.
type Scores[S Score] struct {
	Match    S
	Mismatch S
	Open     S
	Extend   S
	Jump     S
}

// Result is the outcome of one jump alignment. Path covers the full query
// in forward order, soft-clipping any prefix or suffix the references
// cannot explain, and contains at most one zero-length Jump segment
// marking the ref1→ref2 transition. AlignStart is the 0-based row in the
// combined ref1+ref2 frame where the alignment begins; JumpStart is the
// combined-frame row where the alignment resumes after the jump, or -1
// when the path never jumps.
type Result[S Score] struct {
	Score      S
	Path       Path
	AlignStart int
	JumpStart  int
}

// DP automaton states.
type state uint8

const (
	stateMatch state = iota
	stateInsert
	stateDelete
	stateJump
	stateNone
)

// scoreCell holds the four state scores of one DP cell. A fixed record
// rather than four parallel vectors, so a cell's states share a cache
// line.
type scoreCell[S Score] struct {
	match S
	ins   S
	del   S
	jump  S
}

// ptrCell records, per state, the predecessor state chosen at a cell.
type ptrCell struct {
	match state
	ins   state
	del   state
	jump  state
}

func (p *ptrCell) get(st state) state {
	switch st {
	case stateMatch:
		return p.match
	case stateInsert:
		return p.ins
	case stateDelete:
		return p.del
	case stateJump:
		return p.jump
	default:
		panic("jump aligner: predecessor lookup on invalid state")
	}
}

// ptrMatrix is a flat (query+1)×(ref+1) predecessor matrix, resized and
// reused across calls.
type ptrMatrix struct {
	cols  int // query size + 1
	cells []ptrCell
}

func (m *ptrMatrix) resize(queryLen, refLen int) {
	m.cols = queryLen + 1
	need := m.cols * (refLen + 1)
	if cap(m.cells) < need {
		m.cells = make([]ptrCell, need)
	} else {
		m.cells = m.cells[:need]
	}
}

// at addresses the cell for query column q and reference row r, both
// 1-based within their pass.
func (m *ptrMatrix) at(q, r int) *ptrCell {
	return &m.cells[r*m.cols+q]
}

// badVal is the sentinel for disallowed cells: low enough that no legal
// combination of penalties over realistic read lengths can reach it, so a
// disallowed transition never wins a max comparison.
const badVal = -10000

// JumpAligner runs the two-reference DP. An instance owns scratch score
// vectors and predecessor matrices that are reused (never shrunk) across
// calls, so a single instance must not be used concurrently.
type JumpAligner[S Score] struct {
	scores Scores[S]

	score1   []scoreCell[S]
	score2   []scoreCell[S]
	ptr1     ptrMatrix
	ptr2     ptrMatrix
	jumpSeed []state
}

// NewJumpAligner returns an aligner with the given scoring configuration.
func NewJumpAligner[S Score](scores Scores[S]) *JumpAligner[S] {
	return &JumpAligner[S]{scores: scores}
}

// backtraceSeed tracks the best strictly-improving alignment end state.
// First-seen optimum wins ties.
type backtraceSeed[S Score] struct {
	score S
	query int // query bases consumed at the end state
	row   int // combined-frame rows consumed at the end state
	init  bool
}

func (b *backtraceSeed[S]) consider(score S, query, row int) {
	if b.init && score <= b.score {
		return
	}
	b.score = score
	b.query = query
	b.row = row
	b.init = true
}

// Align globally aligns query against ref1 followed by ref2, permitting at
// most one ref1→ref2 jump. Every query base is consumed, via soft-clip if
// necessary. Empty inputs are precondition violations and panic.
func (a *JumpAligner[S]) Align(query, ref1, ref2 string) Result[S] {
	n := len(query)
	m1 := len(ref1)
	m2 := len(ref2)
	if n == 0 {
		panic("jump aligner: empty query")
	}
	if m1 == 0 || m2 == 0 {
		panic("jump aligner: empty reference segment")
	}

	a.resizeScratch(n, m1, m2)
	sc := a.scores
	this, prev := &a.score1, &a.score2

	// Pass 1: global alignment against ref1. The query may not start in
	// the insert or delete state, and may fall off the end of a short
	// reference; each base off the end costs a mismatch.
	for q := 0; q <= n; q++ {
		(*this)[q] = scoreCell[S]{match: S(q) * sc.Mismatch, ins: badVal, del: badVal, jump: badVal}
	}

	var seed backtraceSeed[S]

	for r := 1; r <= m1; r++ {
		this, prev = prev, this
		a.initRowBoundary(this, prev)

		for q := 1; q <= n; q++ {
			head := &(*this)[q]
			hp := a.ptr1.at(q, r)

			// Match: diagonal predecessor.
			sv := (*prev)[q-1]
			head.match, hp.match = best3(sv.match, stateMatch, sv.del, stateDelete, sv.ins, stateInsert)
			if query[q-1] == ref1[r-1] {
				head.match += sc.Match
			} else {
				head.match += sc.Mismatch
			}

			// Delete: previous row, same column.
			sv = (*prev)[q]
			head.del, hp.del = best3(sv.match+sc.Open, stateMatch, sv.del, stateDelete, sv.ins, stateInsert)
			head.del += sc.Extend

			// Insert: same row, previous column.
			tv := (*this)[q-1]
			head.ins, hp.ins = best3(tv.match+sc.Open, stateMatch, tv.del, stateDelete, tv.ins, stateInsert)
			head.ins += sc.Extend

			// Jump lane: carried down rows for free, refreshed from match
			// or insert at the fixed jump cost.
			sv = (*prev)[q]
			head.jump, hp.jump = best3(sv.match+sc.Jump, stateMatch, sv.ins+sc.Jump, stateInsert, sv.jump, stateJump)
		}

		seed.consider((*this)[n].match, n, r)
	}

	// Pass boundary: seed the ref2 jump lane from the carried-over ref1
	// jump/match/insert scores at each query column, then re-initialize
	// the row-0 boundary for ref2.
	last := *this
	for q := 0; q <= n; q++ {
		carry, origin := best3(last[q].match+sc.Jump, stateMatch, last[q].ins+sc.Jump, stateInsert, last[q].jump, stateJump)
		a.jumpSeed[q] = origin
		(*this)[q] = scoreCell[S]{match: S(q) * sc.Mismatch, ins: badVal, del: badVal, jump: carry}
	}

	// Pass 2: alignment continues against ref2; the jump lane may now be
	// realized, and no new jumps are initiated.
	for r := 1; r <= m2; r++ {
		this, prev = prev, this
		(*this)[0] = scoreCell[S]{match: 0, ins: badVal, del: badVal, jump: (*prev)[0].jump}

		for q := 1; q <= n; q++ {
			head := &(*this)[q]
			hp := a.ptr2.at(q, r)

			sv := (*prev)[q-1]
			head.match, hp.match = best4(sv.match, stateMatch, sv.del, stateDelete, sv.ins, stateInsert, sv.jump, stateJump)
			if query[q-1] == ref2[r-1] {
				head.match += sc.Match
			} else {
				head.match += sc.Mismatch
			}

			sv = (*prev)[q]
			head.del, hp.del = best3(sv.match+sc.Open, stateMatch, sv.del, stateDelete, sv.ins, stateInsert)
			head.del += sc.Extend

			tv := (*this)[q-1]
			head.ins, hp.ins = best4(tv.match+sc.Open, stateMatch, tv.del, stateDelete, tv.ins, stateInsert, tv.jump, stateJump)
			head.ins += sc.Extend

			head.jump = (*prev)[q].jump
			hp.jump = stateJump
		}

		seed.consider((*this)[n].match, n, m1+r)
	}

	// Fall-off: any query column may end the alignment at the far edge of
	// the combined reference, charging a mismatch per unconsumed trailing
	// base. Guarantees a valid alignment for queries longer than the
	// references can explain.
	for q := 0; q <= n; q++ {
		seed.consider((*this)[q].match+S(n-q)*sc.Mismatch, q, m1+m2)
	}

	if !seed.init {
		panic("jump aligner: no alignment end state")
	}
	return a.backtrace(seed, n, m1)
}

// initRowBoundary sets the column-0 cell for a new pass-1 row: a free
// start at any reference row, insert and delete disallowed, jump lane
// carried from the previous row.
func (a *JumpAligner[S]) initRowBoundary(this, prev *[]scoreCell[S]) {
	pv := (*prev)[0]
	jump, _ := best3(pv.match+a.scores.Jump, stateMatch, pv.ins+a.scores.Jump, stateInsert, pv.jump, stateJump)
	(*this)[0] = scoreCell[S]{match: 0, ins: badVal, del: badVal, jump: jump}
}

// backtrace walks the recorded predecessor states from the best end state
// back to an alignment start, emitting the path in reverse and flipping it
// before returning.
func (a *JumpAligner[S]) backtrace(seed backtraceSeed[S], n, m1 int) Result[S] {
	res := Result[S]{Score: seed.score, JumpStart: -1}

	var rev Path
	q := seed.query
	r := seed.row
	if q < n {
		rev = appendSegment(rev, SegSoftClip, uint32(n-q))
	}
	st := stateMatch

	// Walk the ref2 region first when the end state lies there.
	startedInRef2 := r > m1
	jumped := false
	for q > 0 && r > m1 {
		pc := a.ptr2.at(q, r-m1)
		next := pc.get(st)
		switch st {
		case stateMatch:
			rev = appendSegment(rev, SegMatch, 1)
			q--
			r--
		case stateDelete:
			rev = appendSegment(rev, SegDelete, 1)
			r--
		case stateInsert:
			rev = appendSegment(rev, SegInsert, 1)
			q--
		default:
			panic(fmt.Sprintf("jump aligner: invalid backtrace state %d in ref2", st))
		}
		if next == stateJump {
			// The one-time transition. The alignment resumed in ref2 at
			// the row we just stepped off.
			res.JumpStart = r
			rev = appendSegment(rev, SegJump, 0)
			r, st = a.resolveJumpOrigin(q, m1)
			jumped = true
			break
		}
		st = next
	}

	if startedInRef2 && !jumped {
		// The whole alignment lies inside ref2: the only route back into
		// ref1 is the jump lane, so any remaining query prefix fell off
		// the start of ref2.
		res.AlignStart = r
		if q > 0 {
			rev = appendSegment(rev, SegSoftClip, uint32(q))
		}
		res.Path = reversePath(rev)
		return res
	}

	// Walk the ref1 region.
	for q > 0 && r > 0 {
		pc := a.ptr1.at(q, r)
		next := pc.get(st)
		switch st {
		case stateMatch:
			rev = appendSegment(rev, SegMatch, 1)
			q--
			r--
		case stateDelete:
			rev = appendSegment(rev, SegDelete, 1)
			r--
		case stateInsert:
			rev = appendSegment(rev, SegInsert, 1)
			q--
		default:
			panic(fmt.Sprintf("jump aligner: invalid backtrace state %d in ref1", st))
		}
		if next == stateJump {
			panic("jump aligner: jump predecessor inside ref1 backtrace")
		}
		st = next
	}

	res.AlignStart = r
	if q > 0 {
		rev = appendSegment(rev, SegSoftClip, uint32(q))
	}
	res.Path = reversePath(rev)
	return res
}

// resolveJumpOrigin finds where in ref1 the realized jump departed from:
// the jump lane carries for free across rows, so walk its predecessor
// chain upward until the refreshing match or insert state is found.
// Returns the 1-based ref1 row of the origin state and the state itself.
func (a *JumpAligner[S]) resolveJumpOrigin(q, m1 int) (int, state) {
	r := m1
	st := a.jumpSeed[q]
	for st == stateJump {
		if r < 1 {
			panic("jump aligner: jump origin chain escaped ref1")
		}
		st = a.ptr1.at(q, r).jump
		r--
	}
	if st != stateMatch && st != stateInsert {
		panic(fmt.Sprintf("jump aligner: invalid jump origin state %d", st))
	}
	return r, st
}

func (a *JumpAligner[S]) resizeScratch(n, m1, m2 int) {
	if cap(a.score1) < n+1 {
		a.score1 = make([]scoreCell[S], n+1)
		a.score2 = make([]scoreCell[S], n+1)
		a.jumpSeed = make([]state, n+1)
	} else {
		a.score1 = a.score1[:n+1]
		a.score2 = a.score2[:n+1]
		a.jumpSeed = a.jumpSeed[:n+1]
	}
	a.ptr1.resize(n, m1)
	a.ptr2.resize(n, m2)
}

// best3 returns the greatest of three scored states; the earliest argument
// wins ties.
func best3[S Score](v1 S, s1 state, v2 S, s2 state, v3 S, s3 state) (S, state) {
	v, s := v1, s1
	if v2 > v {
		v, s = v2, s2
	}
	if v3 > v {
		v, s = v3, s3
	}
	return v, s
}

// best4 is best3 over four scored states.
func best4[S Score](v1 S, s1 state, v2 S, s2 state, v3 S, s3 state, v4 S, s4 state) (S, state) {
	v, s := best3(v1, s1, v2, s2, v3, s3)
	if v4 > v {
		v, s = v4, s4
	}
	return v, s
}
