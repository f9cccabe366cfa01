package classify

import (
	"fmt"
	"math"
	"strings"

	"gonum.org/v1/gonum/stat/distuv"
)

// Summary tallies final fragment classifications across one run.
type Summary struct {
	counts [Nonsense + 1]int
}

func (s *Summary) add(r Result) {
	s.counts[r.Class]++
}

// Count returns how many fragments ended up in class c.
func (s *Summary) Count(c Class) int {
	return s.counts[c]
}

// Estimate returns the maximum-likelihood contamination percentage and
// its 95% Wilson-score interval, computed from the polluting and clean
// counts alone. ok is false when no fragment was informative and no
// estimate is possible.
func (s *Summary) Estimate() (point, lower, upper float64, ok bool) {
	k := float64(s.counts[Dirt])
	n := k + float64(s.counts[Clean])
	if n == 0 {
		return 0, 0, 0, false
	}
	z := distuv.Normal{Mu: 0, Sigma: 1}.Quantile(0.975)
	p := k / n
	center := p + 0.5*z*z/n
	halfwidth := z * math.Sqrt(p*(1-p)/n+0.25*z*z/(n*n))
	denom := 1 + z*z/n
	return 100 * p, 100 * (center - halfwidth) / denom, 100 * (center + halfwidth) / denom, true
}

// Report renders the per-class counts and, on the polluting line, the
// contamination estimate with its confidence interval.
func (s *Summary) Report() string {
	var b strings.Builder
	b.WriteString("\nSummary:\n")
	for c := Unknown; c <= Nonsense; c++ {
		fmt.Fprintf(&b, "%-12s fragments: %d", c, s.counts[c])
		if c == Dirt {
			if point, lower, upper, ok := s.Estimate(); ok {
				fmt.Fprintf(&b, " (%.1f .. %.1f .. %.1f%%)", lower, point, upper)
			} else {
				b.WriteString(" (no informative fragments, no estimate)")
			}
		}
		b.WriteByte('\n')
	}
	return b.String()
}
