package classify

import (
	"math"
	"strings"
	"testing"
)

func TestEstimate(t *testing.T) {
	var s Summary
	s.counts[Dirt] = 10
	s.counts[Clean] = 90

	point, lower, upper, ok := s.Estimate()
	if !ok {
		t.Fatal("expected an estimate for n = 100")
	}
	if point != 10.0 {
		t.Error("expected point estimate 10.0, got", point)
	}
	// Wilson 95% interval for 10/100
	if math.Abs(lower-5.5) > 0.1 || math.Abs(upper-17.4) > 0.1 {
		t.Error("unexpected interval:", lower, upper)
	}
}

func TestEstimateOrdering(t *testing.T) {
	cases := []struct{ dirt, clean int }{
		{0, 1}, {1, 0}, {1, 1}, {3, 97}, {50, 50}, {99, 1}, {1, 999},
	}
	for _, tc := range cases {
		var s Summary
		s.counts[Dirt] = tc.dirt
		s.counts[Clean] = tc.clean
		point, lower, upper, ok := s.Estimate()
		if !ok {
			t.Fatalf("expected an estimate for %d/%d", tc.dirt, tc.dirt+tc.clean)
		}
		const eps = 1e-9 // float slack at the p=0 and p=1 boundaries
		if !(-eps <= lower && lower <= point+eps && point <= upper+eps && upper <= 100+eps) {
			t.Errorf("interval ordering violated for %d/%d: %f %f %f", tc.dirt, tc.dirt+tc.clean, lower, point, upper)
		}
	}
}

func TestEstimateUndefined(t *testing.T) {
	var s Summary
	s.counts[Unknown] = 5
	s.counts[Conflict] = 2
	if _, _, _, ok := s.Estimate(); ok {
		t.Error("estimate must be undefined when clean+dirt is zero")
	}
	if !strings.Contains(s.Report(), "no informative fragments") {
		t.Error("report should state that no estimate is possible")
	}
}

func TestReport(t *testing.T) {
	var s Summary
	s.add(Result{Class: Clean})
	s.add(Result{Class: Clean})
	s.add(Result{Class: Dirt})
	s.add(Result{Class: Unknown})

	r := s.Report()
	for _, want := range []string{"clean", "polluting", "conflicting", "nonsensical", "unclassified"} {
		if !strings.Contains(r, want) {
			t.Errorf("report is missing the %s line:\n%s", want, r)
		}
	}
	if !strings.Contains(r, "clean        fragments: 2") {
		t.Errorf("unexpected clean count:\n%s", r)
	}
	if !strings.Contains(r, ".. 33.3 ..") {
		t.Errorf("expected point estimate 33.3 in report:\n%s", r)
	}
}
