// Package myers aligns two nucleotide sequences with Myers' O(N*D)
// edit-distance algorithm, generalized so that a match is any pair of
// bases compatible under IUPAC ambiguity rules. It is intended for
// long, similar sequences such as a contaminant reference against an
// assembled consensus, where D stays small.
package myers

import (
	"errors"
	"strings"

	"github.com/dasnellings/ccheck/ambig"
	"github.com/vertgenlab/gonomics/numbers"
)

// ErrOverflow is returned when no alignment exists within the requested
// maximum edit distance.
var ErrOverflow = errors.New("edit distance exceeds maximum")

// Mode selects how the ends of the two sequences are treated.
type Mode byte

const (
	// Global requires both sequences to be consumed entirely.
	Global Mode = iota
	// IsPrefix allows seqB to align to a prefix of seqA.
	IsPrefix
	// HasPrefix allows seqA to align to a prefix of seqB.
	HasPrefix
)

// Alignment is a pair of equal-length gapped sequences using '-' as the
// gap symbol. Removing the gaps from A yields the aligned portion of the
// first input, and likewise for B.
type Alignment struct {
	A string
	B string
}

// negInf marks diagonal endpoints that were never reached. Any endpoint
// comparison against it fails, so clipped diagonals can never be chosen
// as predecessors.
const negInf = -(1 << 30)

// Align computes a minimal-edit alignment of seqA and seqB under the
// given mode, returning the alignment and its edit distance. Distances
// up to maxDist are tried; beyond that ErrOverflow is returned.
func Align(seqA, seqB string, mode Mode, maxDist int) (Alignment, int, error) {
	lenA := len(seqA)
	lenB := len(seqB)
	if maxDist > lenA+lenB {
		maxDist = lenA + lenB
	}

	// v[d][k+d] is the furthest-reaching endpoint (offset into seqB) on
	// diagonal k among all d-difference paths.
	v := make([][]int, 0, maxDist+1)

	var x, y int
	for d := 0; d <= maxDist; d++ {
		row := make([]int, 2*d+1)
		for i := range row {
			row[i] = negInf
		}
		v = append(v, row)

		for k := numbers.Max(-d, -lenA); k <= numbers.Min(d, lenB); k++ {
			switch {
			case d == 0:
				x = 0
			case k == -d:
				x = reach(v, d-1, k+1)
			case k == -d+1:
				x = numbers.Max(reach(v, d-1, k)+1, reach(v, d-1, k+1))
			case k == d:
				x = reach(v, d-1, k-1) + 1
			case k == d-1:
				x = numbers.Max(reach(v, d-1, k)+1, reach(v, d-1, k-1)+1)
			default:
				x = numbers.Max(numbers.Max(reach(v, d-1, k-1)+1, reach(v, d-1, k)+1), reach(v, d-1, k+1))
			}
			// skip states whose predecessors were all clipped or that
			// would run off the end of either sequence
			if x < 0 || x > lenB || x-k > lenA {
				continue
			}

			y = x - k
			for x < lenB && y < lenA && ambig.Matches(seqB[x], seqA[y]) {
				x++
				y++
			}
			v[d][k+d] = x

			if (mode == IsPrefix || y == lenA) && (mode == HasPrefix || x == lenB) {
				return backtrace(seqA, seqB, v, d, k, x, y), d, nil
			}
		}
	}
	return Alignment{}, 0, ErrOverflow
}

func reach(v [][]int, d, k int) int {
	if k < -d || k > d {
		return negInf
	}
	return v[d][k+d]
}

// backtrace walks the furthest-reach table backward from the terminal
// (k, d) endpoint and reconstructs the alignment. The output buffers are
// pre-sized to the hard capacity bound len(seqA)+len(seqB)+d+1 and
// written back to front with a cursor; the used suffix is returned.
func backtrace(seqA, seqB string, v [][]int, d, k, x, y int) Alignment {
	n := len(seqA) + len(seqB) + d + 1
	outA := make([]byte, n)
	outB := make([]byte, n)
	ia, ib := n, n

	for dd := d; dd != 0; {
		switch {
		case k != -dd && k != dd && x == reach(v, dd-1, k)+1:
			// mismatch, consumes one base from each side
			dd--
			x--
			y--
			ia--
			outA[ia] = seqA[y]
			ib--
			outB[ib] = seqB[x]
		case k > -dd+1 && x == reach(v, dd-1, k-1)+1:
			// insertion relative to seqA
			x--
			k--
			dd--
			ib--
			outB[ib] = seqB[x]
			ia--
			outA[ia] = '-'
		case k < dd-1 && x == reach(v, dd-1, k+1):
			// deletion relative to seqA
			k++
			y--
			dd--
			ib--
			outB[ib] = '-'
			ia--
			outA[ia] = seqA[y]
		default:
			// a match, preferred when several moves explain the endpoint
			x--
			y--
			ia--
			outA[ia] = seqA[y]
			ib--
			outB[ib] = seqB[x]
		}
	}

	// remaining matches along the main diagonal
	for x > 0 {
		x--
		y--
		ia--
		outA[ia] = seqA[y]
		ib--
		outB[ib] = seqB[x]
	}

	return Alignment{A: string(outA[ia:]), B: string(outB[ib:])}
}

// Pretty renders the alignment in interleaved blocks of the given width
// with a '*' marker line under plainly identical columns.
func (a Alignment) Pretty(width int) string {
	var s strings.Builder
	for off := 0; off < len(a.A) && off < len(a.B); off += width {
		endA := numbers.Min(off+width, len(a.A))
		endB := numbers.Min(off+width, len(a.B))
		s.WriteString(a.A[off:endA])
		s.WriteByte('\n')
		s.WriteString(a.B[off:endB])
		s.WriteByte('\n')
		for i := off; i < endA && i < endB; i++ {
			if a.A[i] == a.B[i] {
				s.WriteByte('*')
			} else {
				s.WriteByte(' ')
			}
		}
		s.WriteString("\n\n")
	}
	return s.String()
}
