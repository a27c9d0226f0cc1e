// File: internal/assembly/assembler.go
//
// A small de-novo assembler for clusters of breakpoint-supporting reads.
// The most frequent k-mer across the unused reads seeds a contig that is
// greedily extended one base at a time in both directions; when unused
// reads remain the assembly restarts on that subset, escalating the word
// length to tolerate lower coverage or more divergent evidence.
package assembly

import (
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/xkilldash9x/svscout/internal/genome"
)

// Options tunes the assembler. The defaults are reasonable for 30x
// coverage and 100bp reads.
type Options struct {
	// WordLength is the initial k-mer length used for seeding.
	WordLength int
	// MaxWordLength caps the escalation when a word length yields no seed.
	MaxWordLength int
	// MinContigLength is the shortest contig worth emitting.
	MinContigLength int
	// MinCoverage is the read support required to extend by one base.
	MinCoverage int
	// MaxError is the mismatch rate tolerated among supporting reads
	// during extension.
	MaxError float64
	// MinSeedReads is the number of distinct reads that must contribute
	// k-mers before assembly is attempted.
	MinSeedReads int
	// MaxIterations bounds the assemble/restart loop per cluster.
	MaxIterations int
}

// DefaultOptions returns the stock assembler tuning.
func DefaultOptions() Options {
	return Options{
		WordLength:      37,
		MaxWordLength:   65,
		MinContigLength: 15,
		MinCoverage:     1,
		MaxError:        0.2,
		MinSeedReads:    2,
		MaxIterations:   50,
	}
}

// wordLengthStep is how much the word length grows when the current
// length fails to produce a seed.
const wordLengthStep = 2

// Read is one breakpoint-supporting read handed to the assembler.
type Read struct {
	Name string
	Seq  string
}

// Contig is a consensus sequence reconstructed from overlapping reads.
type Contig struct {
	Seq          string
	SupportReads int
}

// Candidate names a hypothesized SV junction between two genomic regions.
// The assembler treats it opaquely beyond using it to pull reads.
type Candidate struct {
	ID        uuid.UUID
	BreakendA genome.Interval
	BreakendB genome.Interval
}

// ReadProvider yields the reads implicated by an SV candidate.
type ReadProvider interface {
	Reads(c Candidate) []Read
}

// Assembler reconstructs candidate breakpoint-spanning contigs. An
// instance reuses internal scratch between calls and must not be shared
// across goroutines.
type Assembler struct {
	opts Options
	log  *zap.Logger

	// scratch, reused across calls
	tracked   []trackedRead
	wordCount map[string]int
}

type trackedRead struct {
	seq   string
	words map[string]struct{}
	used  bool
}

// New returns an assembler with the given tuning.
func New(opts Options, logger *zap.Logger) *Assembler {
	return &Assembler{
		opts: opts,
		log:  logger.Named("assembler"),
	}
}

// AssembleLocus collects the reads of the given candidates, first
// occurrence of a read name wins, and assembles them. An empty result
// means no assembly was possible and is not an error.
func (a *Assembler) AssembleLocus(provider ReadProvider, candidates []Candidate) []Contig {
	var reads []Read
	seen := make(map[string]struct{})
	for _, c := range candidates {
		for _, r := range provider.Reads(c) {
			if _, ok := seen[r.Name]; ok {
				continue
			}
			seen[r.Name] = struct{}{}
			reads = append(reads, r)
		}
	}
	return a.Assemble(reads)
}

// Assemble runs the iterative multi-length k-mer assembly over a read
// cluster. Reads consumed as contig support are not reused; iteration
// stops when no unused reads remain, the iteration budget is spent, or no
// word length in range yields a seed.
func (a *Assembler) Assemble(reads []Read) []Contig {
	a.tracked = a.tracked[:0]
	for _, r := range reads {
		a.tracked = append(a.tracked, trackedRead{seq: r.Seq})
	}

	var contigs []Contig
	wordLength := a.opts.WordLength

	for iter := 0; iter < a.opts.MaxIterations; iter++ {
		unused := 0
		for i := range a.tracked {
			if !a.tracked[i].used {
				unused++
			}
		}
		if unused < a.opts.MinSeedReads {
			break
		}

		contig, ok := a.buildContig(wordLength)
		if !ok {
			if wordLength+wordLengthStep <= a.opts.MaxWordLength {
				wordLength += wordLengthStep
				continue
			}
			break
		}

		if len(contig.Seq) >= a.opts.MinContigLength {
			contigs = append(contigs, contig)
		} else {
			a.log.Debug("dropping short contig",
				zap.Int("length", len(contig.Seq)),
				zap.Int("min_length", a.opts.MinContigLength))
		}
	}

	return contigs
}

// buildContig seeds one contig from the most frequent k-mer among the
// unused reads and extends it. Returns false when fewer than MinSeedReads
// distinct reads contribute k-mers at this word length.
func (a *Assembler) buildContig(wordLength int) (Contig, bool) {
	if a.wordCount == nil {
		a.wordCount = make(map[string]int)
	} else {
		clear(a.wordCount)
	}

	contributing := 0
	for i := range a.tracked {
		tr := &a.tracked[i]
		tr.words = nil
		if tr.used || len(tr.seq) < wordLength {
			continue
		}
		tr.words = make(map[string]struct{}, len(tr.seq)-wordLength+1)
		for j := 0; j+wordLength <= len(tr.seq); j++ {
			word := tr.seq[j : j+wordLength]
			a.wordCount[word]++
			tr.words[word] = struct{}{}
		}
		contributing++
	}
	if contributing < a.opts.MinSeedReads {
		return Contig{}, false
	}

	// Seed with the most frequent k-mer. Frequency ties are possible at
	// low coverage, so the first-encountered k-mer in read order wins.
	maxCount := 0
	for _, count := range a.wordCount {
		if count > maxCount {
			maxCount = count
		}
	}
	var seed string
	for i := range a.tracked {
		tr := &a.tracked[i]
		if tr.used || len(tr.seq) < wordLength {
			continue
		}
		for j := 0; j+wordLength <= len(tr.seq); j++ {
			if word := tr.seq[j : j+wordLength]; a.wordCount[word] == maxCount {
				seed = word
				break
			}
		}
		if seed != "" {
			break
		}
	}

	contigSeq := a.walk(seed, wordLength)

	// Reads sharing any word with the contig supported its construction;
	// mark them used and count them.
	support := 0
	for i := range a.tracked {
		tr := &a.tracked[i]
		if tr.used || tr.words == nil {
			continue
		}
		for j := 0; j+wordLength <= len(contigSeq); j++ {
			if _, ok := tr.words[contigSeq[j:j+wordLength]]; ok {
				tr.used = true
				support++
				break
			}
		}
	}

	return Contig{Seq: contigSeq, SupportReads: support}, true
}

var bases = [4]byte{'A', 'C', 'G', 'T'}

// walk greedily extends the seed k-mer forward, then backward. A step
// tallies the next-base distribution among the reads carrying the current
// edge k-mer and appends the majority base when it clears the coverage
// floor and the minority support stays under the error ceiling. A k-mer
// already incorporated once stops the walk, so repeats cannot cycle it
// forever.
func (a *Assembler) walk(seed string, wordLength int) string {
	seen := make(map[string]struct{})
	seen[seed] = struct{}{}
	contig := seed

	// forward
	for {
		edge := contig[len(contig)-wordLength+1:]
		base, ok := a.pickBase(edge, true)
		if !ok {
			break
		}
		next := edge + string(base)
		if _, dup := seen[next]; dup {
			break
		}
		seen[next] = struct{}{}
		contig += string(base)
	}

	// backward
	for {
		edge := contig[:wordLength-1]
		base, ok := a.pickBase(edge, false)
		if !ok {
			break
		}
		next := string(base) + edge
		if _, dup := seen[next]; dup {
			break
		}
		seen[next] = struct{}{}
		contig = string(base) + contig
	}

	return contig
}

// pickBase chooses the majority next base off the given (k-1)-mer edge.
// forward appends after the edge, otherwise the base is prepended. Base
// order is fixed, so count ties resolve deterministically.
func (a *Assembler) pickBase(edge string, forward bool) (byte, bool) {
	total := 0
	bestCount := 0
	var bestBase byte
	for _, b := range bases {
		var word string
		if forward {
			word = edge + string(b)
		} else {
			word = string(b) + edge
		}
		count := a.wordCount[word]
		total += count
		if count > bestCount {
			bestCount = count
			bestBase = b
		}
	}
	if bestCount < a.opts.MinCoverage {
		return 0, false
	}
	if float64(total-bestCount) > a.opts.MaxError*float64(total) {
		return 0, false
	}
	return bestBase, true
}
