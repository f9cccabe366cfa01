package diagnostic

import (
	"math"
	"testing"

	"github.com/dasnellings/ccheck/myers"
)

func TestNew(t *testing.T) {
	// columns: (A,G) diagnostic, (N,T) excluded, (C,-) excluded, (T,C) diagnostic
	aln := myers.Alignment{A: "ANCT", B: "GT-C"}
	idx := New(aln, false, 0, math.MaxInt)
	if idx.Len() != 2 {
		t.Fatal("expected 2 diagnostic positions, got", idx.Len())
	}
	ps := idx.Overlapping(0, math.MaxInt)
	if ps[0].Pos != 0 || ps[0].Ref != 'A' || ps[0].Asm != 'G' {
		t.Error("unexpected first diagnostic position:", ps[0])
	}
	if ps[1].Pos != 2 || ps[1].Ref != 'T' || ps[1].Asm != 'C' {
		t.Error("unexpected second diagnostic position:", ps[1])
	}

	// A/G and T/C are both transitions
	if idx.Transversions() != 0 {
		t.Error("expected no transversions, got", idx.Transversions())
	}
	idx = New(aln, true, 0, math.MaxInt)
	if idx.Len() != 0 {
		t.Error("transversions-only filter should exclude transitions, got", idx.Len())
	}

	// A/C is a transversion and survives the filter
	aln = myers.Alignment{A: "ACGT", B: "CCGT"}
	idx = New(aln, true, 0, math.MaxInt)
	if idx.Len() != 1 || idx.Overlapping(0, 0)[0].Asm != 'C' {
		t.Error("expected one transversion diagnostic position")
	}
}

func TestNewSpan(t *testing.T) {
	aln := myers.Alignment{A: "AAAA", B: "CCCC"}
	idx := New(aln, false, 1, 3)
	ps := idx.Overlapping(0, math.MaxInt)
	if len(ps) != 2 || ps[0].Pos != 1 || ps[1].Pos != 2 {
		t.Error("span restriction failed:", ps)
	}
}

func TestOverlapping(t *testing.T) {
	aln := myers.Alignment{A: "AAAAAAAAAA", B: "CACACACACA"}
	idx := New(aln, false, 0, math.MaxInt)
	// diagnostic at 0, 2, 4, 6, 8
	if idx.Len() != 5 {
		t.Fatal("expected 5 diagnostic positions, got", idx.Len())
	}
	if got := idx.Overlapping(1, 5); len(got) != 2 || got[0].Pos != 2 || got[1].Pos != 4 {
		t.Error("unexpected overlap result:", got)
	}
	if got := idx.Overlapping(3, 3); len(got) != 0 {
		t.Error("expected empty overlap, got:", got)
	}
	if got := idx.Overlapping(8, 100); len(got) != 1 || got[0].Pos != 8 {
		t.Error("unexpected tail overlap:", got)
	}
}

func TestLiftOver(t *testing.T) {
	// ref: ACGTA with gap; asm: AC-TAC
	aln := myers.Alignment{A: "ACGTA-", B: "AC-TAC"}
	// assembly coords:       01 234
	if got := LiftOver(aln, 0, 5); got != "ACGTA" {
		t.Error("full lift failed:", got)
	}
	if got := LiftOver(aln, 2, 4); got != "GTA" {
		t.Error("partial lift failed:", got)
	}
	if got := LiftOver(aln, 1, 3); got != "CGT" {
		t.Error("lift across a ref base paired with an assembly gap failed:", got)
	}
}
