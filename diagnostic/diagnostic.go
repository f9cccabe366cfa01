// Package diagnostic derives diagnostic positions from a global
// reference-vs-assembly alignment: assembly coordinates where the two
// sequences plainly disagree, usable as evidence of contamination. It
// also lifts assembly coordinate ranges over to the reference side.
package diagnostic

import (
	"fmt"
	"sort"
	"strings"

	"github.com/dasnellings/ccheck/ambig"
	"github.com/dasnellings/ccheck/myers"
)

// Position is one diagnostic position keyed by its assembly coordinate,
// carrying the reference and assembly bases of the column.
type Position struct {
	Pos int
	Ref byte
	Asm byte
}

func (p Position) String() string {
	return fmt.Sprintf("<%d:%c,%c>", p.Pos, p.Ref, p.Asm)
}

// Index is a read-only collection of diagnostic positions ordered by
// assembly coordinate, built once per run.
type Index struct {
	positions []Position
}

// IsDiagnostic reports whether an alignment column discriminates
// between reference and assembly. Everything that differs counts,
// unless one side is a gap. Ns turned out to produce noise and little
// in the way of usable results, so Ns don't count as diagnostic.
func IsDiagnostic(ref, asm byte) bool {
	return ref != asm && ref != 'N' && asm != 'N' && ref != '-' && asm != '-'
}

// New walks the alignment once and collects the diagnostic positions
// with assembly coordinate in [spanStart, spanEnd). The assembly
// coordinate advances only on non-gap assembly columns. With
// transversionsOnly set, transitions are not recorded.
func New(aln myers.Alignment, transversionsOnly bool, spanStart, spanEnd int) *Index {
	idx := new(Index)
	pos := 0
	for i := 0; i < len(aln.A) && i < len(aln.B) && pos < spanEnd; i++ {
		if pos >= spanStart && IsDiagnostic(aln.A[i], aln.B[i]) &&
			(!transversionsOnly || ambig.IsTransversion(aln.A[i], aln.B[i])) {
			idx.positions = append(idx.positions, Position{Pos: pos, Ref: aln.A[i], Asm: aln.B[i]})
		}
		if aln.B[i] != '-' {
			pos++
		}
	}
	return idx
}

// Overlapping returns the diagnostic positions with coordinate in
// [startIncl, endIncl], as a sub-slice found by two binary searches.
func (idx *Index) Overlapping(startIncl, endIncl int) []Position {
	lo := sort.Search(len(idx.positions), func(i int) bool { return idx.positions[i].Pos >= startIncl })
	hi := sort.Search(len(idx.positions), func(i int) bool { return idx.positions[i].Pos > endIncl })
	return idx.positions[lo:hi]
}

// Len returns the total number of diagnostic positions.
func (idx *Index) Len() int {
	return len(idx.positions)
}

// Transversions returns how many diagnostic positions are transversions.
func (idx *Index) Transversions() int {
	var n int
	for i := range idx.positions {
		if ambig.IsTransversion(idx.positions[i].Ref, idx.positions[i].Asm) {
			n++
		}
	}
	return n
}

// LiftOver returns the reference bases aligned against assembly
// coordinates [start, end), skipping reference-side gaps.
func LiftOver(aln myers.Alignment, start, end int) string {
	var r strings.Builder
	pos := 0
	for i := 0; i < len(aln.A) && i < len(aln.B) && pos < end; i++ {
		if aln.A[i] != '-' && pos >= start {
			r.WriteByte(aln.A[i])
		}
		if aln.B[i] != '-' {
			pos++
		}
	}
	return r.String()
}
