// Package classify assigns each fragment to a contamination class by
// realigning it against the lifted reference window and voting at every
// diagnostic position it covers, then aggregates the per-fragment
// classes into run statistics.
package classify

import (
	"log"
	"strings"

	"github.com/dasnellings/ccheck/ambig"
	"github.com/dasnellings/ccheck/diagnostic"
	"github.com/dasnellings/ccheck/myers"
	"github.com/dasnellings/ccheck/reads"
	"github.com/vertgenlab/gonomics/align"
	"github.com/vertgenlab/gonomics/dna"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// Class is the contamination verdict for one fragment.
type Class byte

const (
	Unknown  Class = iota // no informative diagnostic position
	Clean                 // consistent with the assembly (endogenous)
	Dirt                  // consistent with the reference (contaminant)
	Conflict              // evidence points both ways
	Nonsense              // matches neither side
)

func (c Class) String() string {
	switch c {
	case Unknown:
		return "unclassified"
	case Clean:
		return "clean"
	case Dirt:
		return "polluting"
	case Conflict:
		return "conflicting"
	case Nonsense:
		return "nonsensical"
	}
	return "invalid"
}

// Merge combines the classifications of the two halves of a read pair.
// Identical classes unify, Unknown yields, Nonsense dominates, and a
// clean/dirt split becomes Conflict.
func Merge(a, b Class) Class {
	switch {
	case a == b:
		return a
	case a == Unknown:
		return b
	case b == Unknown:
		return a
	case a == Nonsense || b == Nonsense:
		return Nonsense
	}
	return Conflict
}

// Result is the classification of one fragment together with the number
// of diagnostic positions that discriminated between the two sides.
type Result struct {
	Class Class
	Votes int
}

var gapOpen int64 = -600
var gapExtend int64 = -20

// Classifier scores fragments against a fully built run state. The
// global alignment, index and sequences are immutable after New; the
// back-fragment cache and summary tally are the only run mutables.
type Classifier struct {
	aln      myers.Alignment // global reference-vs-assembly alignment
	index    *diagnostic.Index
	assembly string
	mat      [][]int64 // substitution matrix for the fragment realigner
	ancient  bool
	verbose  int

	pending map[string]Result // back halves waiting for their front
	summary *Summary
}

func New(aln myers.Alignment, index *diagnostic.Index, assembly string, mat [][]int64, ancient bool, verbose int) *Classifier {
	return &Classifier{
		aln:      aln,
		index:    index,
		assembly: assembly,
		mat:      mat,
		ancient:  ancient,
		verbose:  verbose,
		pending:  make(map[string]Result),
		summary:  new(Summary),
	}
}

// Summary exposes the running tally.
func (c *Classifier) Summary() *Summary {
	return c.summary
}

// consistent reports whether fragment base y could have been read from
// template base x. A gap on either side carries no evidence and counts
// as consistent. In ancient mode the template base is folded to its
// two-fold degenerate code (G->R, C->Y) to tolerate deamination-driven
// transitions.
func consistent(ancient bool, x, y byte) bool {
	if x == '-' || y == '-' {
		return true
	}
	if ancient {
		switch x {
		case 'G':
			x = 'R'
		case 'C':
			x = 'Y'
		}
	}
	return ambig.Matches(x, y)
}

// realign aligns the ungapped read against the lifted reference window
// with free end gaps on the window side and returns the gapped window,
// the gapped read, and the offset into the window where the alignment
// begins. Ambiguity codes are folded to N only for the score-matrix
// aligner; the returned window keeps the original characters.
func (c *Classifier) realign(lifted, read string) (refAln, readAln string, start int) {
	target := dna.StringToBases(foldAmbiguous(lifted))
	query := dna.StringToBases(read)
	_, route := align.AffineGapLocal(target, query, c.mat, gapOpen, gapExtend)

	// leading and trailing deletions are the unaligned flanks of the window
	if len(route) > 0 && route[0].Op == align.ColD {
		start = int(route[0].RunLength)
		route = route[1:]
	}
	if len(route) > 0 && route[len(route)-1].Op == align.ColD {
		route = route[:len(route)-1]
	}

	var rs, qs strings.Builder
	ri, qi := start, 0
	for _, op := range route {
		for n := int64(0); n < op.RunLength; n++ {
			switch op.Op {
			case align.ColM:
				rs.WriteByte(lifted[ri])
				qs.WriteByte(read[qi])
				ri++
				qi++
			case align.ColI:
				rs.WriteByte('-')
				qs.WriteByte(read[qi])
				qi++
			case align.ColD:
				rs.WriteByte(lifted[ri])
				qs.WriteByte('-')
				ri++
			}
		}
	}
	return rs.String(), qs.String(), start
}

func foldAmbiguous(s string) string {
	b := []byte(s)
	for i := range b {
		switch b[i] {
		case 'A', 'C', 'G', 'T', 'N', 'a', 'c', 'g', 't', 'n':
		default:
			b[i] = 'N'
		}
	}
	return string(b)
}

// Classify scores a single fragment. It reads only immutable run state,
// so the same fragment always yields the same result.
func (c *Classifier) Classify(frag reads.Fragment) Result {
	var klass Class
	var votes int

	dps := c.index.Overlapping(frag.Start, frag.End)
	if len(dps) == 0 {
		if c.verbose >= 3 {
			log.Printf("%s/%c: no diagnostic positions\n", frag.ID, frag.Segment)
		}
		return Result{}
	}
	if c.verbose >= 3 {
		log.Printf("%s/%c: %d diagnostic positions, range %d..%d\n", frag.ID, frag.Segment, len(dps), frag.Start, frag.End)
	}

	if frag.Start < 0 || frag.Start >= len(c.assembly) {
		return Result{}
	}
	read := frag.Ungapped()
	lifted := diagnostic.LiftOver(c.aln, frag.Start, frag.End+1)
	if read == "" || lifted == "" {
		return Result{}
	}
	refWin, fragVRef, offset := c.realign(lifted, read)
	if c.verbose >= 5 {
		log.Printf("raw read: %s\nlifted:   %s\naln.read: %s\naln.ref:  %s\n", read, lifted, fragVRef, refWin)
	}

	// advance the global alignment to the fragment's first assembly column
	i := 0
	assPos := 0
	for assPos != frag.Start && i < len(c.aln.A) {
		if c.aln.B[i] != '-' {
			assPos++
		}
		i++
	}

	// four streams walked in lockstep with the global alignment:
	// reference and fragment from the local alignment, assembly and
	// fragment from the assembly placement
	inRef := lifted[:offset] + refWin
	inFragVRef := fragVRef
	inAss := c.assembly[frag.Start:]
	inFragVAss := frag.Seq

	if c.verbose >= 4 && i < len(c.aln.A) && len(inRef) > 0 {
		if c.aln.A[i] != inRef[0] || c.aln.A[i] == '-' {
			log.Printf("%s: lifted window out of register with global alignment (R+%d)\n", frag.ID, offset)
		}
		if c.aln.B[i] != inAss[0] && c.aln.B[i] != '-' {
			log.Printf("%s: assembly window out of register with global alignment (A+%d)\n", frag.ID, offset)
		}
	}

	var ri, fi, ai, gi int
	for assPos != frag.End+1 && i < len(c.aln.A) &&
		ri < len(inRef) && fi < len(inFragVRef) && ai < len(inAss) && gi < len(inFragVAss) {
		if diagnostic.IsDiagnostic(c.aln.A[i], c.aln.B[i]) {
			if inFragVRef[fi] != inFragVAss[gi] {
				// the read's two alignments disagree here; no usable vote
				if c.verbose >= 4 {
					log.Printf("diagnostic pos. %d: %c/%c %c/%c in disagreement\n",
						assPos, inRef[ri], inFragVRef[fi], inAss[ai], inFragVAss[gi])
				}
			} else {
				maybeClean := consistent(c.ancient, inAss[ai], inFragVAss[gi])
				maybeDirt := consistent(c.ancient, inRef[ri], inFragVRef[fi])

				switch {
				case maybeClean && !maybeDirt && klass == Unknown:
					klass = Clean
				case maybeClean && !maybeDirt && klass == Dirt:
					klass = Conflict
				case !maybeClean && maybeDirt && klass == Unknown:
					klass = Dirt
				case !maybeClean && maybeDirt && klass == Clean:
					klass = Conflict
				case !maybeClean && !maybeDirt:
					klass = Nonsense
				}
				if maybeClean != maybeDirt {
					votes++
				}
			}
		}

		if c.aln.A[i] != '-' {
			for {
				ri++
				fi++
				if ri >= len(inRef) || inRef[ri] != '-' {
					break
				}
			}
		}
		if c.aln.B[i] != '-' {
			assPos++
			for {
				ai++
				gi++
				if ai >= len(inAss) || inAss[ai] != '-' {
					break
				}
			}
		}
		i++
	}

	return Result{Class: klass, Votes: votes}
}

// Process classifies frag and folds the result into the run state:
// back halves are cached under their id, front halves merge with their
// cached back, and whole fragments go straight to the tally. A front
// with no cached back is reported and tallied on its own evidence.
func (c *Classifier) Process(frag reads.Fragment) {
	res := c.Classify(frag)
	switch frag.Segment {
	case 'b':
		c.pending[frag.ID] = res
	case 'f':
		if prev, ok := c.pending[frag.ID]; ok {
			res.Votes += prev.Votes
			res.Class = Merge(res.Class, prev.Class)
			delete(c.pending, frag.ID)
		} else {
			log.Printf("%s/f is missing its back\n", frag.ID)
		}
		fallthrough
	case 'a':
		if c.verbose >= 2 {
			log.Printf("%s is %s (%d votes)\n", frag.ID, res.Class, res.Votes)
		}
		c.summary.add(res)
	default:
		log.Printf("don't know how to handle fragment type %c\n", frag.Segment)
	}
}

// Finish tallies back halves that never saw their front and returns
// their ids in sorted order so the caller can report them.
func (c *Classifier) Finish() []string {
	ids := maps.Keys(c.pending)
	slices.Sort(ids)
	for _, id := range ids {
		c.summary.add(c.pending[id])
		delete(c.pending, id)
	}
	return ids
}
